package translator

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingModel indicates a request was built without a model identifier.
	ErrMissingModel = errors.New("model must be specified either in the provider config or in the prompt")

	// ErrEmptyResponse indicates a provider response lacks the element text is read from.
	ErrEmptyResponse = errors.New("provider response contained no content")

	// ErrDecode indicates a provider response body could not be parsed.
	ErrDecode = errors.New("decode provider response")
)

// ConfigError reports a request that cannot be built because the
// configuration is incomplete. It matches ErrMissingModel via errors.Is.
type ConfigError struct {
	Provider string
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s request: %v", e.Provider, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// MissingModel constructs the configuration error returned by builders.
func MissingModel(provider string) error {
	return &ConfigError{Provider: provider, Err: ErrMissingModel}
}

// EmptyResponseError names the provider and the response field that was empty.
type EmptyResponseError struct {
	Provider string
	Field    string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("%s response has no %s", e.Provider, e.Field)
}

func (e *EmptyResponseError) Is(target error) bool {
	return target == ErrEmptyResponse
}

// EmptyResponse constructs the error returned by extractors.
func EmptyResponse(provider, field string) error {
	return &EmptyResponseError{Provider: provider, Field: field}
}
