package odata

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is against an error returned by the client to tell
// them apart.
var (
	ErrConfiguration  = errors.New("configuration error")
	ErrTransport      = errors.New("transport error")
	ErrResponseFormat = errors.New("response format error")
)

// Error is returned by every Client operation. Kind is one of
// ErrConfiguration, ErrTransport or ErrResponseFormat.
type Error struct {
	Kind error
	Op   string
	URL  string
	Err  error
}

func (e *Error) Error() string {
	prefix := "odata"
	if e.Op != "" {
		prefix += " " + e.Op
	}
	if e.URL != "" {
		prefix += " " + e.URL
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", prefix, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", prefix, e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func configurationError(op, url string, err error) error {
	return &Error{Kind: ErrConfiguration, Op: op, URL: url, Err: err}
}

func transportError(op, url string, err error) error {
	return &Error{Kind: ErrTransport, Op: op, URL: url, Err: err}
}

func responseFormatError(op, url string, err error) error {
	return &Error{Kind: ErrResponseFormat, Op: op, URL: url, Err: err}
}
