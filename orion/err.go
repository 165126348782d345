package orion

import "fmt"

// Handle panics with a description if err is not nil. Use it for errors that
// can not be recovered from, like a failing Run.
func Handle(err error, desc string, args ...any) {
	if err != nil {
		text := fmt.Sprintf(desc, args...)
		panic(text + ": " + err.Error())
	}
}
