// Package clipboard connects the overlay to the clipboard of the operating system.
package clipboard

import (
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	sysclip "golang.design/x/clipboard"
)

// ErrUnavailable is returned if the system has no usable clipboard,
// e.g. when running headless.
var ErrUnavailable = errors.New("system clipboard unavailable")

// Backend is a text clipboard. Get reports false if the clipboard does not
// contain any text.
type Backend interface {
	Get() (string, bool)
	Set(text string)
}

// System is a Backend using the clipboard of the operating system.
type System struct {
	read  func() []byte
	write func(data []byte)
}

var _ Backend = (*System)(nil)

// NewSystem initializes the system clipboard. The returned error wraps
// ErrUnavailable if the platform has no clipboard integration.
func NewSystem() (*System, error) {
	if err := sysclip.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	system := &System{
		read: func() []byte {
			return sysclip.Read(sysclip.FmtText)
		},

		write: func(data []byte) {
			sysclip.Write(sysclip.FmtText, data)
		},
	}

	return system, nil
}

func (s *System) Get() (string, bool) {
	data := s.read()
	if len(data) == 0 {
		return "", false
	}

	if !utf8.Valid(data) {
		slog.Debug("Ignore clipboard content that is not valid utf8", slog.Int("size", len(data)))
		return "", false
	}

	return string(data), true
}

func (s *System) Set(text string) {
	s.write([]byte(text))
}
