package webfont

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks errors caused by malformed values handed to the
// catalog by its caller (as opposed to broken configuration).
var ErrInvalidArgument = errors.New("invalid argument")

// SettingsError reports configuration which cannot be turned into a catalog.
type SettingsError struct {
	Msg string
}

func (e *SettingsError) Error() string {
	return e.Msg
}

func settingsErrorf(format string, args ...any) error {
	return &SettingsError{Msg: fmt.Sprintf(format, args...)}
}

// RequestError reports a client request which cannot be served.
type RequestError struct {
	Msg string
}

func (e *RequestError) Error() string {
	return e.Msg
}

func requestErrorf(format string, args ...any) error {
	return &RequestError{Msg: fmt.Sprintf(format, args...)}
}

// IsClientError returns true when err was caused by the request rather than
// by the server configuration.
func IsClientError(err error) bool {
	var re *RequestError
	return errors.As(err, &re) || errors.Is(err, ErrInvalidArgument)
}
