package snowfall

import (
	"errors"
	"fmt"
)

// ErrNoProvidersSucceeded is the resort-level failure returned when every
// queried provider failed. Partial failure never produces it; those are
// reported through the failures list instead.
var ErrNoProvidersSucceeded = errors.New("no providers returned forecast data")

// FetchError reports a network-level failure or non-success status from one
// provider. Status is zero when the request never reached the upstream
// (timeouts, connection errors, open circuit breaker).
type FetchError struct {
	Provider string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: fetch failed with status %d", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s: fetch failed: %v", e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a response body that did not match the provider's
// expected shape. Field names the fragment that failed to parse.
type ParseError struct {
	Provider string
	Field    string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: unparseable response field %q: %v", e.Provider, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ProviderFailure pairs a failed provider with its error, collected at the
// fetch-dispatch boundary so a single bad source never aborts its siblings.
type ProviderFailure struct {
	Provider string `json:"provider"`
	Err      error  `json:"-"`
}

func (f ProviderFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Provider, f.Err)
}
