package errorx

import (
	"errors"
	"fmt"
)

type Error struct {
	Code    Code
	Message string
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func (e Error) Error() string {
	return e.Message
}

// Is reports whether err carries one of the given codes.
func Is(err error, codes ...Code) bool {
	var errx Error
	if !errors.As(err, &errx) {
		return false
	}

	for _, c := range codes {
		if errx.Code == c {
			return true
		}
	}

	return false
}
