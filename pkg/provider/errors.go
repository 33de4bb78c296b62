package provider

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNoCallerIdentity = errors.New("no caller identity found")
)

// ErrorKind classifies errors returned by a remote store
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindMalformedPolicy
	KindInvalidRequest
	KindInvalidParameter
	KindExists
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindMalformedPolicy:
		return "malformed policy"
	case KindInvalidRequest:
		return "invalid request"
	case KindInvalidParameter:
		return "invalid parameter"
	case KindExists:
		return "already exists"
	default:
		return "unknown"
	}
}

// RemoteError is an error reported by a remote store, tagged with its kind.
// Code keeps the provider's original discriminator (e.g. "ResourceNotFoundException").
type RemoteError struct {
	Kind ErrorKind
	Code string
	Err  error
}

func (e *RemoteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Kind)
	}
	return e.Err.Error()
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first RemoteError in err's chain
func KindOf(err error) ErrorKind {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}
