package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the catalog has no movie with the requested ID
	ErrNotFound = errors.New("movie not found")

	// ErrTimeout indicates a catalog request exceeded its deadline
	ErrTimeout = errors.New("catalog request timed out")

	// ErrTransport indicates the catalog is unreachable or answered with an error status
	ErrTransport = errors.New("catalog is unreachable")

	// ErrUnauthorized indicates the API key was rejected
	ErrUnauthorized = errors.New("catalog API key is invalid")

	// ErrParse indicates a persisted blob could not be decoded
	ErrParse = errors.New("malformed persisted data")

	// ErrNotInitialized indicates the favorites store was used before hydration
	ErrNotInitialized = errors.New("favorites store used before hydration")
)

// ErrorKind classifies a ServiceError
type ErrorKind int

const (
	KindTransport ErrorKind = iota
	KindTimeout
	KindNotFound
	KindUnauthorized
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNotFound:
		return "not found"
	case KindUnauthorized:
		return "unauthorized"
	case KindDecode:
		return "decode"
	default:
		return "transport"
	}
}

// ServiceError is returned by every catalog operation
type ServiceError struct {
	Op         string // e.g. "search movies"
	Kind       ErrorKind
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *ServiceError) Error() string {
	msg := e.Op + ": " + e.Kind.String()
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel corresponding to the error kind
func (e *ServiceError) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrUnauthorized:
		return e.Kind == KindUnauthorized
	case ErrTransport:
		return e.Kind == KindTransport || e.Kind == KindTimeout
	case ErrParse:
		return e.Kind == KindDecode
	}
	return false
}
