// Package authflow classifies the terminal outcomes of the provider login
// flow. Every failure a user can hit during the redirect/callback exchange
// maps to exactly one Kind, and every Kind renders a non-sensitive notice.
package authflow

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies a classified failure of the login flow.
type Kind string

const (
	KindConfiguration   Kind = "configuration"
	KindProviderDenied  Kind = "provider_denied"
	KindStateMismatch   Kind = "state_mismatch"
	KindMissingCode     Kind = "missing_code"
	KindTokenExchange   Kind = "token_exchange"
	KindProviderError   Kind = "provider_error"
	KindNoAccessToken   Kind = "no_access_token"
	KindProfileFetch    Kind = "profile_fetch"
	KindNetwork         Kind = "network"
	KindUnauthenticated Kind = "unauthenticated"
	KindInternal        Kind = "internal"
)

// FlowError is the classified terminal outcome of a failed flow step.
type FlowError struct {
	Kind    Kind
	Status  int    // upstream HTTP status, when one was received
	Message string // provider-supplied description, sanitized before display
	wrapped error
}

// New creates a FlowError with a provider or validation message.
func New(kind Kind, message string) *FlowError {
	return &FlowError{Kind: kind, Message: message}
}

// WithStatus creates a FlowError carrying an upstream HTTP status.
func WithStatus(kind Kind, status int) *FlowError {
	return &FlowError{Kind: kind, Status: status}
}

// Wrap creates a FlowError around an underlying transport or decode error.
func Wrap(kind Kind, err error) *FlowError {
	return &FlowError{Kind: kind, wrapped: err}
}

func (e *FlowError) Error() string {
	switch {
	case e.wrapped != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.wrapped)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: upstream status %d", e.Kind, e.Status)
	default:
		return string(e.Kind)
	}
}

func (e *FlowError) Unwrap() error {
	return e.wrapped
}

// Notice renders the user-visible text for this failure. It never contains
// tokens, credentials, or raw upstream bodies.
func (e *FlowError) Notice() string {
	switch e.Kind {
	case KindConfiguration:
		return "GitHub sign-in is not configured. Please contact the administrator."
	case KindProviderDenied:
		if msg := Sanitize(e.Message); msg != "" {
			return fmt.Sprintf("GitHub authorization error: %s", msg)
		}
		return "GitHub authorization was denied."
	case KindStateMismatch:
		return "The sign-in request could not be verified. Please try again."
	case KindMissingCode:
		return "No authorization code received from GitHub."
	case KindTokenExchange:
		return fmt.Sprintf("GitHub returned error %d during sign-in.", e.Status)
	case KindProviderError:
		if msg := Sanitize(e.Message); msg != "" {
			return fmt.Sprintf("GitHub error: %s", msg)
		}
		return "GitHub reported an error during sign-in."
	case KindNoAccessToken:
		return "Failed to get an access token from GitHub."
	case KindProfileFetch:
		if e.Status != 0 {
			return fmt.Sprintf("Failed to get user information from GitHub (status %d).", e.Status)
		}
		return "Failed to get user information from GitHub."
	case KindNetwork:
		return "Could not reach GitHub. Please try again shortly."
	case KindUnauthenticated:
		return "Please sign in to continue."
	default:
		return "Authentication failed. Please try again."
	}
}

// Classify returns err as a *FlowError, folding anything unclassified into
// a generic internal failure so callers always have a safe notice.
func Classify(err error) *FlowError {
	var flowErr *FlowError
	if errors.As(err, &flowErr) {
		return flowErr
	}
	return Wrap(KindInternal, err)
}

// Sanitize strips control characters from provider-supplied text and bounds
// its length before it is shown to a user.
func Sanitize(message string) string {
	const maxLen = 200

	cleaned := strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, message)

	cleaned = strings.TrimSpace(cleaned)
	if len(cleaned) > maxLen {
		cleaned = cleaned[:maxLen]
	}
	return cleaned
}
