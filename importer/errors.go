package importer

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Match with errors.Is against an *Error.
var (
	ErrInvalidURL        = errors.New("invalid deck URL")
	ErrUnsupportedSource = errors.New("unsupported deck source")
	ErrUpstreamFetch     = errors.New("upstream fetch failed")
	ErrBlocked           = errors.New("upstream blocked the request")
)

// Error is the only error type Import returns. Status is the HTTP status
// the failure should be reported with.
type Error struct {
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func invalidURL(msg string) *Error {
	return &Error{Kind: ErrInvalidURL, Status: http.StatusBadRequest, Message: msg}
}

func unsupportedSource() *Error {
	return &Error{
		Kind:    ErrUnsupportedSource,
		Status:  http.StatusBadRequest,
		Message: "unsupported deck source: only Archidekt and Moxfield URLs can be imported",
	}
}

func blocked() *Error {
	return &Error{
		Kind:    ErrBlocked,
		Status:  http.StatusForbidden,
		Message: "Moxfield blocked the request; try again later or import a catalogued precon",
	}
}

// upstreamStatus fails with the upstream's own status when it is an
// error status and with 502 otherwise.
func upstreamStatus(site string, status int) *Error {
	code := status
	if code < 400 || code > 599 {
		code = http.StatusBadGateway
	}
	return &Error{
		Kind:    ErrUpstreamFetch,
		Status:  code,
		Message: fmt.Sprintf("failed to fetch deck from %s (status %d)", site, status),
	}
}

// upstreamFailure covers transport and decode errors.
func upstreamFailure(site string, err error) *Error {
	return &Error{
		Kind:    ErrUpstreamFetch,
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("failed to fetch deck from %s", site),
		Err:     err,
	}
}
