package orion

import (
	"log/slog"
	"reflect"
)

type releaser interface{ Release() }

// releaseIfPossible calls Release on values that support it.
func releaseIfPossible(value any) {
	rel, ok := value.(releaser)
	if !ok {
		return
	}

	typ := reflect.TypeOf(value).String()
	slog.Debug("Releasing instance", slog.String("type", typ))

	rel.Release()
}
