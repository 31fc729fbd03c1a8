package service

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/spit-library/auth-service/internal/api/metrics"
	"github.com/spit-library/auth-service/internal/core/domain"
	"github.com/spit-library/auth-service/internal/core/ports"
	"github.com/spit-library/auth-service/internal/core/validation"
)

// User-facing messages. Raw provider codes are logged, never surfaced.
const (
	msgFixErrors         = "Please fix the errors in the form"
	msgSignupSuccess     = "Account created successfully!"
	msgLoginSuccess      = "Welcome back!"
	msgEmailInUse        = "Email already in use. Please login."
	msgSignupFailed      = "Signup failed. Try again later."
	msgInvalidCredential = "Invalid Email or password"
	msgLoginFailed       = "Login failed. Try again later."
	msgGoogleCreated     = "Account created via Google!"
	msgGoogleWelcome     = "Welcome back!"
	msgGoogleCancelled   = "Login cancelled"
	msgGoogleFailed      = "Google login failed. Try again later."
)

const googleMode = "google"

// SubmissionService orchestrates one auth submission: validation, identity
// provider calls, profile persistence, and outcome translation.
type SubmissionService struct {
	provider ports.IdentityProvider
	profiles ports.ProfileRepository
	logins   ports.LoginEventSink
	notifier ports.Notifier
	log      zerolog.Logger
}

var _ ports.SubmissionService = (*SubmissionService)(nil)

// NewSubmissionService wires the orchestrator from its collaborators.
func NewSubmissionService(
	provider ports.IdentityProvider,
	profiles ports.ProfileRepository,
	logins ports.LoginEventSink,
	notifier ports.Notifier,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		provider: provider,
		profiles: profiles,
		logins:   logins,
		notifier: notifier,
		log:      log,
	}
}

// Submit runs the email/password branch for the given mode. Every path
// settles into exactly one terminal Outcome; the notification sink is told
// about each of them.
func (s *SubmissionService) Submit(ctx context.Context, input domain.CredentialInput, mode domain.AuthMode) domain.Outcome {
	label := string(mode)
	timer := prometheus.NewTimer(metrics.SubmissionDuration.WithLabelValues(label))
	defer timer.ObserveDuration()

	res := validation.Validate(input, mode)
	if !res.Valid() {
		return s.settle(label, domain.Outcome{
			Status:      domain.OutcomeRejected,
			Notice:      domain.NoticeError,
			Message:     msgFixErrors,
			FieldErrors: res.FieldErrors,
		})
	}

	if mode == domain.ModeSignup {
		return s.signup(ctx, input)
	}
	return s.login(ctx, input)
}

func (s *SubmissionService) signup(ctx context.Context, input domain.CredentialInput) domain.Outcome {
	label := string(domain.ModeSignup)

	id, err := s.provider.CreateAccount(ctx, strings.TrimSpace(input.Email), input.Password)
	if err != nil {
		code := s.providerFailure(label, err)
		msg := msgSignupFailed
		if code == domain.CodeEmailInUse {
			msg = msgEmailInUse
		}
		return s.settle(label, domain.Outcome{
			Status:  domain.OutcomeFailure,
			Notice:  domain.NoticeError,
			Message: msg,
			Reason:  code,
		})
	}

	fields := domain.ProfileFields{
		Email:     strings.TrimSpace(input.Email),
		StudentID: strings.TrimSpace(input.StudentID),
		Year:      input.Year,
	}
	// Best effort from here on: the account already exists at the provider,
	// so a store failure must not flip the outcome. See DESIGN.md.
	if err := s.profiles.Merge(ctx, id.UID, fields); err != nil {
		metrics.ProfileWritesTotal.WithLabelValues("merge", "error").Inc()
		s.log.Error().Err(err).Str("uid", id.UID).Msg("profile merge failed after account creation")
	} else {
		metrics.ProfileWritesTotal.WithLabelValues("merge", "ok").Inc()
	}
	s.logins.Record(id.UID)

	return s.settle(label, domain.Outcome{
		Status:  domain.OutcomeSuccess,
		Notice:  domain.NoticeSuccess,
		Message: msgSignupSuccess,
		UID:     id.UID,
	})
}

func (s *SubmissionService) login(ctx context.Context, input domain.CredentialInput) domain.Outcome {
	label := string(domain.ModeLogin)

	id, err := s.provider.Authenticate(ctx, strings.TrimSpace(input.Email), input.Password)
	if err != nil {
		code := s.providerFailure(label, err)
		msg := msgLoginFailed
		if code == domain.CodeInvalidCredential {
			msg = msgInvalidCredential
		}
		return s.settle(label, domain.Outcome{
			Status:  domain.OutcomeFailure,
			Notice:  domain.NoticeError,
			Message: msg,
			Reason:  code,
		})
	}

	// Plain login writes nothing: session establishment is the provider's
	// job and lastLoginAt is only refreshed by the signup merge.
	return s.settle(label, domain.Outcome{
		Status:  domain.OutcomeSuccess,
		Notice:  domain.NoticeSuccess,
		Message: msgLoginSuccess,
		UID:     id.UID,
	})
}

// GoogleSignIn runs the federated branch. No form validation applies; the
// credential carries the client-relayed popup outcome, and a dismissed
// popup settles as a neutral cancellation rather than an error.
func (s *SubmissionService) GoogleSignIn(ctx context.Context, cred ports.FederatedCredential) domain.Outcome {
	timer := prometheus.NewTimer(metrics.SubmissionDuration.WithLabelValues(googleMode))
	defer timer.ObserveDuration()

	id, err := s.provider.FederatedSignIn(ctx, cred)
	if err != nil {
		if errors.Is(err, domain.ErrPopupCancelled) {
			return s.settle(googleMode, domain.Outcome{
				Status:  domain.OutcomeCancelled,
				Notice:  domain.NoticeNeutral,
				Message: msgGoogleCancelled,
				Reason:  domain.CodePopupCancelled,
			})
		}
		code := s.providerFailure(googleMode, err)
		return s.settle(googleMode, domain.Outcome{
			Status:  domain.OutcomeFailure,
			Notice:  domain.NoticeError,
			Message: msgGoogleFailed,
			Reason:  code,
		})
	}

	_, err = s.profiles.Read(ctx, id.UID)
	switch {
	case err == nil:
		// Known user: nothing to write.
		return s.settle(googleMode, domain.Outcome{
			Status:  domain.OutcomeSuccess,
			Notice:  domain.NoticeSuccess,
			Message: msgGoogleWelcome,
			UID:     id.UID,
		})

	case errors.Is(err, domain.ErrProfileNotFound):
		if err := s.profiles.Create(ctx, id.UID, id.Email); err != nil {
			metrics.ProfileWritesTotal.WithLabelValues("create", "error").Inc()
			s.log.Error().Err(err).Str("uid", id.UID).Msg("profile create failed")
			return s.settle(googleMode, domain.Outcome{
				Status:  domain.OutcomeFailure,
				Notice:  domain.NoticeError,
				Message: msgGoogleFailed,
				Reason:  domain.CodeUnknown,
			})
		}
		metrics.ProfileWritesTotal.WithLabelValues("create", "ok").Inc()
		return s.settle(googleMode, domain.Outcome{
			Status:  domain.OutcomeSuccess,
			Notice:  domain.NoticeSuccess,
			Message: msgGoogleCreated,
			UID:     id.UID,
		})

	default:
		s.log.Error().Err(err).Str("uid", id.UID).Msg("profile lookup failed")
		return s.settle(googleMode, domain.Outcome{
			Status:  domain.OutcomeFailure,
			Notice:  domain.NoticeError,
			Message: msgGoogleFailed,
			Reason:  domain.CodeUnknown,
		})
	}
}

// providerFailure logs and counts a failed provider call and returns the
// mapped code.
func (s *SubmissionService) providerFailure(mode string, err error) domain.ProviderCode {
	code := domain.CodeUnknown
	raw := ""
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		code = pe.Code
		raw = pe.Raw
	}
	metrics.ProviderErrorsTotal.WithLabelValues(string(code)).Inc()
	s.log.Warn().Err(err).
		Str("mode", mode).
		Str("code", string(code)).
		Str("raw_code", raw).
		Msg("identity provider call failed")
	return code
}

// settle records the terminal outcome, notifies the sink, and returns it.
func (s *SubmissionService) settle(mode string, out domain.Outcome) domain.Outcome {
	metrics.SubmissionsTotal.WithLabelValues(mode, string(out.Status)).Inc()
	s.notifier.Notify(out.Notice, out.Message)
	return out
}
