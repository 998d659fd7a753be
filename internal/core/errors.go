package core

import (
	"fmt"
	"time"
)

// AuthMissingError reports that no credential is stored for an account.
// It is raised before any quota is consumed.
type AuthMissingError struct {
	Account string
}

func (e *AuthMissingError) Error() string {
	return fmt.Sprintf("no stored credential for account %q; run 'linkscout login' first", e.Account)
}

// AuthFailedError reports that the remote service rejected the credential.
type AuthFailedError struct {
	Reason string
}

func (e *AuthFailedError) Error() string {
	if e.Reason == "" {
		return "remote service rejected the stored credential"
	}
	return fmt.Sprintf("remote service rejected the stored credential: %s", e.Reason)
}

// QuotaExceededError reports that the local daily action cap is reached.
// ResetAt is the start of the next UTC day.
type QuotaExceededError struct {
	ResetAt time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily action limit reached; resets at %s", e.ResetAt.UTC().Format(time.RFC3339))
}

// RemoteRateLimitedError reports throttling by the remote service itself,
// distinct from the local quota.
type RemoteRateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RemoteRateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("remote service throttled the request; retry after %s", e.RetryAfter)
	}
	return "remote service throttled the request"
}

// TransportError wraps a network or decode failure from the remote service.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
