package secrets

import "fmt"

// ProviderError represents a failed backend call. It is internal to the
// fetch/refresh path: callers of the client never see it directly, only
// wrapped inside a FetchError. A missing secret and an unreachable backend
// are both ProviderErrors, distinguished only by their cause; the fallback
// policy treats them identically.
type ProviderError struct {
	// Provider is the name of the provider that failed (e.g., "vault").
	Provider string

	// Key is the secret key the call was for.
	Key string

	// Cause is the underlying error from the backend.
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %q failed for key %q: %v", e.Provider, e.Key, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// FetchError is the only fetch-path error surfaced to callers of Get. It is
// returned when the live fetch failed and no stale cached value was
// available to fall back on.
type FetchError struct {
	// Key is the secret key the caller requested.
	Key string

	// Cause is the provider failure (or context error) behind the miss.
	Cause error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed for key %q: %v", e.Key, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// ConfigError reports an invalid client configuration. It is returned by the
// builder at construction time, never at call time.
type ConfigError struct {
	// Field is the configuration field that is missing or invalid.
	Field string

	// Message describes what is wrong with the field.
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for %q: %s", e.Field, e.Message)
}

// ShutdownError reports an operation attempted after the client was shut
// down.
type ShutdownError struct {
	// Op is the operation that was attempted (e.g., "get").
	Op string
}

// Error implements the error interface.
func (e *ShutdownError) Error() string {
	return fmt.Sprintf("client is shut down: %s rejected", e.Op)
}
