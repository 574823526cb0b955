package domain

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	ErrSetupMissing ErrorKind = iota
	ErrTimeout
	ErrInvalidURL
	ErrTLSFailure
	ErrAuthFailure
	ErrHTTPFailure
	ErrConnectionFailure
	ErrEntityNotFound
	ErrMissingAttribute
)

func (k ErrorKind) String() string {
	switch k {
	case ErrSetupMissing:
		return "setup missing"
	case ErrTimeout:
		return "timeout"
	case ErrInvalidURL:
		return "invalid url"
	case ErrTLSFailure:
		return "tls failure"
	case ErrAuthFailure:
		return "auth failure"
	case ErrHTTPFailure:
		return "http failure"
	case ErrConnectionFailure:
		return "connection failure"
	case ErrEntityNotFound:
		return "entity not found"
	case ErrMissingAttribute:
		return "missing attribute"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}

// Error is returned by the Home Assistant client and the resolver. Only the
// fields relevant to Kind are set.
type Error struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Reason     string
	Name       string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	switch {
	case e.StatusCode != 0:
		msg = fmt.Sprintf("%s: %d %s", msg, e.StatusCode, e.Reason)
	case e.Name != "":
		msg = fmt.Sprintf("%s: %q", msg, e.Name)
	}
	if e.URL != "" {
		msg += " (" + e.URL + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the kind of a wrapped *Error. Errors of any other type are
// connection failures from the caller's point of view.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrConnectionFailure
}

var ErrNotConfigured = &Error{Kind: ErrSetupMissing}

func NotFound(name string) *Error {
	return &Error{Kind: ErrEntityNotFound, Name: name}
}

// Failure describes one failed exchange with Home Assistant. Source is what
// was being handled: an intent name, "fallback" or a media service.
type Failure struct {
	Source string
	Kind   ErrorKind
	URL    string
	Err    error
}

func NewFailure(source string, err error) Failure {
	f := Failure{Source: source, Kind: KindOf(err), Err: err}
	var e *Error
	if errors.As(err, &e) {
		f.URL = e.URL
	}
	return f
}
