package analysis

import (
	"errors"
	"fmt"
)

// Kind classifies why an analysis failed. Callers that only show a generic
// message can ignore it; it is kept for diagnostics.
type Kind int

const (
	KindUnknown Kind = iota
	KindRequestFailed
	KindEmptyResponse
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindRequestFailed:
		return "RequestFailed"
	case KindEmptyResponse:
		return "EmptyResponse"
	case KindParse:
		return "ParseError"
	default:
		return "Unknown"
	}
}

var (
	ErrRequestFailed = errors.New("analysis: request failed")
	ErrEmptyResponse = errors.New("analysis: empty response")
	ErrParse         = errors.New("analysis: response does not match schema")
)

func (k Kind) sentinel() error {
	switch k {
	case KindRequestFailed:
		return ErrRequestFailed
	case KindEmptyResponse:
		return ErrEmptyResponse
	case KindParse:
		return ErrParse
	default:
		return nil
	}
}

// Error is returned by Analyzer.Request. errors.Is matches both the kind's
// sentinel and the underlying cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		out = append(out, s)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func newError(k Kind, err error) *Error { return &Error{Kind: k, Err: err} }

func parseErrorf(format string, args ...any) *Error {
	return newError(KindParse, fmt.Errorf(format, args...))
}

// KindOf extracts the failure kind, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}
