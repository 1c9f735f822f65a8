package ports

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderUnavailable means a capability could not be resolved at link time
	ErrProviderUnavailable = errors.New("capability provider unavailable")

	// ErrUnknownProviderKind means the configured provider kind is not supported
	ErrUnknownProviderKind = errors.New("unknown provider kind")
)

// ProviderError wraps a failure raised by an out-of-process provider
type ProviderError struct {
	Capability string
	Kind       string
	Err        error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider (%s): %v", e.Capability, e.Kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
