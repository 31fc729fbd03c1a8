package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmailInUse        = errors.New("email already in use")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrPopupCancelled    = errors.New("sign-in popup cancelled")
	ErrProviderUnknown   = errors.New("identity provider error")
	ErrProfileNotFound   = errors.New("profile not found")
)

// ProviderCode is the closed set of identity-provider failure reasons the
// service distinguishes. Raw provider codes are mapped into this set once,
// at the adapter boundary; anything unrecognised fails closed to CodeUnknown.
type ProviderCode string

const (
	CodeEmailInUse        ProviderCode = "email_already_in_use"
	CodeInvalidCredential ProviderCode = "invalid_credential"
	CodePopupCancelled    ProviderCode = "popup_cancelled"
	CodeUnknown           ProviderCode = "unknown"
)

// MapProviderCode normalises a raw identity-provider error code. Both the
// SDK-style codes ("auth/email-already-in-use") and the REST API codes
// ("EMAIL_EXISTS") are recognised.
func MapProviderCode(raw string) ProviderCode {
	code := strings.TrimPrefix(strings.TrimSpace(raw), "auth/")
	// REST errors may carry a trailing explanation, e.g.
	// "INVALID_LOGIN_CREDENTIALS : too many attempts".
	if i := strings.IndexAny(code, " :"); i > 0 {
		code = code[:i]
	}

	switch code {
	case "email-already-in-use", "EMAIL_EXISTS":
		return CodeEmailInUse
	case "invalid-credential", "wrong-password", "user-not-found",
		"INVALID_LOGIN_CREDENTIALS", "INVALID_PASSWORD", "EMAIL_NOT_FOUND":
		return CodeInvalidCredential
	case "popup-closed-by-user", "cancelled-popup-request", "USER_CANCELLED":
		return CodePopupCancelled
	}
	return CodeUnknown
}

// Err returns the sentinel error for this code.
func (c ProviderCode) Err() error {
	switch c {
	case CodeEmailInUse:
		return ErrEmailInUse
	case CodeInvalidCredential:
		return ErrInvalidCredential
	case CodePopupCancelled:
		return ErrPopupCancelled
	}
	return ErrProviderUnknown
}

// ProviderError wraps a failed identity-provider call. Raw keeps the
// original code for diagnostics; it is logged but never shown to users.
type ProviderError struct {
	Code ProviderCode
	Raw  string
}

// NewProviderError maps a raw provider code into a ProviderError.
func NewProviderError(raw string) *ProviderError {
	return &ProviderError{Code: MapProviderCode(raw), Raw: raw}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("identity provider: %s (%s)", e.Code, e.Raw)
}

// Unwrap lets errors.Is match the sentinel for the mapped code.
func (e *ProviderError) Unwrap() error {
	return e.Code.Err()
}
