package domain

import "fmt"

// CodedError is the capability every domain error exposes so handlers
// can dispatch on kind without runtime type assertions beyond a single
// type switch at the formatting boundary.
type CodedError interface {
	error
	Code() string
	Context() map[string]any
}

// ValidationError signals a domain invariant breach (§3 of the spec).
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on %q: %s", e.Field, e.Message)
}

func (e *ValidationError) Code() string { return "VALIDATION_ERROR" }

func (e *ValidationError) Context() map[string]any {
	return map[string]any{"field": e.Field, "value": e.Value}
}

// ProviderError is a generic back-end failure: bad status, parse error,
// or any other unclassified fault surfaced by a provider.
type ProviderError struct {
	Provider      string
	Message       string
	OriginalError error
}

func NewProviderError(provider, message string, original error) *ProviderError {
	return &ProviderError{Provider: provider, Message: message, OriginalError: original}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Code() string { return "PROVIDER_ERROR" }

func (e *ProviderError) Context() map[string]any {
	ctx := map[string]any{"provider": e.Provider}
	if e.OriginalError != nil {
		ctx["original_error"] = e.OriginalError.Error()
		ctx["original_type"] = fmt.Sprintf("%T", e.OriginalError)
	}
	return ctx
}

func (e *ProviderError) Unwrap() error { return e.OriginalError }

// RateLimitError is a ProviderError raised when a back-end responds 429.
type RateLimitError struct {
	ProviderError
	RetryAfter *float64 // seconds, nil when the back-end did not say
}

func NewRateLimitError(provider string, retryAfter *float64) *RateLimitError {
	msg := "rate limited"
	if retryAfter != nil {
		msg = fmt.Sprintf("%s (retry after %.0fs)", msg, *retryAfter)
	}
	return &RateLimitError{
		ProviderError: ProviderError{Provider: provider, Message: msg},
		RetryAfter:    retryAfter,
	}
}

func (e *RateLimitError) Code() string { return "RATE_LIMIT_ERROR" }

func (e *RateLimitError) Context() map[string]any {
	ctx := e.ProviderError.Context()
	ctx["retry_after"] = e.RetryAfter
	return ctx
}

// TimeoutError is a ProviderError raised on network timeout or an
// exhausted poll budget.
type TimeoutError struct {
	ProviderError
	TimeoutSeconds float64
}

func NewTimeoutError(provider string, timeoutSeconds float64) *TimeoutError {
	return &TimeoutError{
		ProviderError:  ProviderError{Provider: provider, Message: fmt.Sprintf("timed out (after %.0fs)", timeoutSeconds)},
		TimeoutSeconds: timeoutSeconds,
	}
}

func (e *TimeoutError) Code() string { return "TIMEOUT_ERROR" }

func (e *TimeoutError) Context() map[string]any {
	ctx := e.ProviderError.Context()
	ctx["timeout_seconds"] = e.TimeoutSeconds
	return ctx
}

// CacheError signals a cache operation failure.
type CacheError struct {
	Operation     string
	Key           string
	OriginalError error
}

func NewCacheError(operation, key string, original error) *CacheError {
	return &CacheError{Operation: operation, Key: key, OriginalError: original}
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s failed for key %s: %v", e.Operation, e.Key, e.OriginalError)
}

func (e *CacheError) Code() string { return "CACHE_ERROR" }

func (e *CacheError) Context() map[string]any {
	return map[string]any{"operation": e.Operation, "key": e.Key}
}

func (e *CacheError) Unwrap() error { return e.OriginalError }

// ConfigurationError signals missing or invalid startup configuration.
type ConfigurationError struct {
	Setting string
	Message string
}

func NewConfigurationError(setting, message string) *ConfigurationError {
	return &ConfigurationError{Setting: setting, Message: message}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error on %q: %s", e.Setting, e.Message)
}

func (e *ConfigurationError) Code() string { return "CONFIGURATION_ERROR" }

func (e *ConfigurationError) Context() map[string]any {
	return map[string]any{"setting": e.Setting}
}

// SearchError wraps an aggregator/provider failure at the use-case layer.
type SearchError struct {
	Message         string
	ProvidersFailed []string
	Original        error
}

func NewSearchError(message string, providersFailed []string, original error) *SearchError {
	return &SearchError{Message: message, ProvidersFailed: providersFailed, Original: original}
}

func (e *SearchError) Error() string { return e.Message }

func (e *SearchError) Code() string { return "SEARCH_ERROR" }

func (e *SearchError) Context() map[string]any {
	ctx := map[string]any{}
	if len(e.ProvidersFailed) > 0 {
		ctx["providers_failed"] = e.ProvidersFailed
	}
	if e.Original != nil {
		ctx["original_error"] = e.Original.Error()
	}
	return ctx
}

func (e *SearchError) Unwrap() error { return e.Original }

// CacheManagementError wraps a cache failure at the use-case layer.
type CacheManagementError struct {
	Message   string
	Operation string
	Original  error
}

func NewCacheManagementError(message, operation string, original error) *CacheManagementError {
	return &CacheManagementError{Message: message, Operation: operation, Original: original}
}

func (e *CacheManagementError) Error() string { return e.Message }

func (e *CacheManagementError) Code() string { return "CACHE_MANAGEMENT_ERROR" }

func (e *CacheManagementError) Context() map[string]any {
	return map[string]any{"operation": e.Operation}
}

func (e *CacheManagementError) Unwrap() error { return e.Original }
