package ports

import (
	"context"

	"github.com/spit-library/auth-service/internal/core/domain"
)

// SubmissionService drives one auth form submission end to end: validate,
// call the identity provider, persist the profile, and translate the result
// into a terminal, user-facing Outcome. It never returns raw provider
// errors; every path settles into exactly one Outcome.
type SubmissionService interface {
	Submit(ctx context.Context, input domain.CredentialInput, mode domain.AuthMode) domain.Outcome
	GoogleSignIn(ctx context.Context, cred FederatedCredential) domain.Outcome
}

// LoginEventSink accepts best-effort login-history appends. Record must not
// block the caller; delivery failures are logged, never propagated.
type LoginEventSink interface {
	Record(uid string)
}

// Notifier is the fire-and-forget notification sink outcomes are reported
// to. No return value is consumed.
type Notifier interface {
	Notify(kind domain.NoticeKind, message string)
}
