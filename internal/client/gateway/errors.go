package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoContent is returned when a body was expected but the API answered 204.
var ErrNoContent = errors.New("no content")

// NetworkError is a request that failed before any response arrived.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response. Body holds the response text.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("%s: %d %s: %s", e.Op, e.Code, http.StatusText(e.Code), e.Body)
}

// MalformedResponseError is a response body that could not be decoded.
type MalformedResponseError struct {
	Op  string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// FailureKind classifies a gateway error.
type FailureKind string

const (
	KindNone      FailureKind = ""
	KindNetwork   FailureKind = "network"
	KindStatus    FailureKind = "http_status"
	KindMalformed FailureKind = "malformed_response"
	KindNoContent FailureKind = "no_content"
	KindOther     FailureKind = "other"
)

// Kind classifies err. nil yields KindNone.
func Kind(err error) FailureKind {
	if err == nil {
		return KindNone
	}
	var (
		netErr    *NetworkError
		statusErr *StatusError
		malformed *MalformedResponseError
	)
	switch {
	case errors.As(err, &netErr):
		return KindNetwork
	case errors.As(err, &statusErr):
		return KindStatus
	case errors.As(err, &malformed):
		return KindMalformed
	case errors.Is(err, ErrNoContent):
		return KindNoContent
	default:
		return KindOther
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return 0
}

func IsUnauthorized(err error) bool { return StatusCode(err) == http.StatusUnauthorized }

func IsForbidden(err error) bool { return StatusCode(err) == http.StatusForbidden }

func IsConflict(err error) bool { return StatusCode(err) == http.StatusConflict }

// IsNetwork reports a transport failure.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
