package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/spit-library/auth-service/internal/core/domain"
	"github.com/spit-library/auth-service/internal/core/ports"
)

type stubProvider struct {
	createFn func(ctx context.Context, email, password string) (*domain.Identity, error)
	authFn   func(ctx context.Context, email, password string) (*domain.Identity, error)
	fedFn    func(ctx context.Context, cred ports.FederatedCredential) (*domain.Identity, error)
}

func (s *stubProvider) CreateAccount(ctx context.Context, email, password string) (*domain.Identity, error) {
	return s.createFn(ctx, email, password)
}

func (s *stubProvider) Authenticate(ctx context.Context, email, password string) (*domain.Identity, error) {
	return s.authFn(ctx, email, password)
}

func (s *stubProvider) FederatedSignIn(ctx context.Context, cred ports.FederatedCredential) (*domain.Identity, error) {
	return s.fedFn(ctx, cred)
}

type mergeCall struct {
	uid    string
	fields domain.ProfileFields
}

type createCall struct {
	uid   string
	email string
}

type stubProfiles struct {
	records   map[string]*domain.UserProfileRecord
	merges    []mergeCall
	creates   []createCall
	mergeErr  error
	createErr error
	readErr   error
}

func newStubProfiles() *stubProfiles {
	return &stubProfiles{records: make(map[string]*domain.UserProfileRecord)}
}

func (s *stubProfiles) Read(_ context.Context, uid string) (*domain.UserProfileRecord, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	rec, ok := s.records[uid]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	clone := *rec
	return &clone, nil
}

func (s *stubProfiles) Merge(_ context.Context, uid string, fields domain.ProfileFields) error {
	if s.mergeErr != nil {
		return s.mergeErr
	}
	s.merges = append(s.merges, mergeCall{uid: uid, fields: fields})
	return nil
}

func (s *stubProfiles) Create(_ context.Context, uid, email string) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.creates = append(s.creates, createCall{uid: uid, email: email})
	s.records[uid] = &domain.UserProfileRecord{UID: uid, Email: email}
	return nil
}

func (s *stubProfiles) AppendLoginEvent(context.Context, string) error {
	return nil
}

type recordingSink struct {
	uids []string
}

func (r *recordingSink) Record(uid string) {
	r.uids = append(r.uids, uid)
}

type recordingNotifier struct {
	kinds    []domain.NoticeKind
	messages []string
}

func (r *recordingNotifier) Notify(kind domain.NoticeKind, message string) {
	r.kinds = append(r.kinds, kind)
	r.messages = append(r.messages, message)
}

func newTestService(provider *stubProvider, profiles *stubProfiles) (*SubmissionService, *recordingSink, *recordingNotifier) {
	sink := &recordingSink{}
	notifier := &recordingNotifier{}
	svc := NewSubmissionService(provider, profiles, sink, notifier, zerolog.Nop())
	return svc, sink, notifier
}

func TestSubmit_SignupEndToEnd(t *testing.T) {
	provider := &stubProvider{
		createFn: func(_ context.Context, email, password string) (*domain.Identity, error) {
			if email != "a@b.com" || password != "Abc123!" {
				t.Fatalf("unexpected credentials forwarded: %s %s", email, password)
			}
			return &domain.Identity{UID: "u1", Email: email}, nil
		},
	}
	profiles := newStubProfiles()
	svc, sink, _ := newTestService(provider, profiles)

	out := svc.Submit(context.Background(), domain.CredentialInput{
		Email:     "a@b.com",
		Password:  "Abc123!",
		StudentID: "2022300001",
		Year:      "2",
	}, domain.ModeSignup)

	if out.Status != domain.OutcomeSuccess {
		t.Fatalf("expected success, got %s (%s)", out.Status, out.Message)
	}
	if out.UID != "u1" {
		t.Fatalf("expected uid u1, got %q", out.UID)
	}
	if len(profiles.merges) != 1 {
		t.Fatalf("expected exactly one merge write, got %d", len(profiles.merges))
	}
	m := profiles.merges[0]
	if m.uid != "u1" || m.fields.StudentID != "2022300001" || m.fields.Year != "2" {
		t.Fatalf("unexpected merge: %+v", m)
	}
	if len(sink.uids) != 1 || sink.uids[0] != "u1" {
		t.Fatalf("expected exactly one login event for u1, got %v", sink.uids)
	}
}

func TestSubmit_ValidationBlocksProvider(t *testing.T) {
	provider := &stubProvider{
		createFn: func(context.Context, string, string) (*domain.Identity, error) {
			t.Fatalf("provider must not be called for invalid input")
			return nil, nil
		},
	}
	svc, _, notifier := newTestService(provider, newStubProfiles())

	out := svc.Submit(context.Background(), domain.CredentialInput{Email: "not-an-email", Password: "abc"}, domain.ModeSignup)

	if out.Status != domain.OutcomeRejected {
		t.Fatalf("expected rejected, got %s", out.Status)
	}
	if len(out.FieldErrors) == 0 {
		t.Fatalf("expected field errors on rejection")
	}
	if out.Message != msgFixErrors {
		t.Fatalf("unexpected message: %q", out.Message)
	}
	if len(notifier.kinds) != 1 || notifier.kinds[0] != domain.NoticeError {
		t.Fatalf("expected one error notice, got %v", notifier.kinds)
	}
}

func TestSubmit_SignupEmailInUse(t *testing.T) {
	provider := &stubProvider{
		createFn: func(context.Context, string, string) (*domain.Identity, error) {
			return nil, domain.NewProviderError("auth/email-already-in-use")
		},
	}
	svc, sink, _ := newTestService(provider, newStubProfiles())

	out := svc.Submit(context.Background(), domain.CredentialInput{
		Email: "a@b.com", Password: "Abc123!", StudentID: "x", Year: "1",
	}, domain.ModeSignup)

	if out.Status != domain.OutcomeFailure || out.Reason != domain.CodeEmailInUse {
		t.Fatalf("expected email-in-use failure, got %+v", out)
	}
	if out.Message != msgEmailInUse {
		t.Fatalf("unexpected message: %q", out.Message)
	}
	if len(sink.uids) != 0 {
		t.Fatalf("no login event expected on failure, got %v", sink.uids)
	}
}

func TestSubmit_SignupProfileWriteBestEffort(t *testing.T) {
	provider := &stubProvider{
		createFn: func(_ context.Context, email, _ string) (*domain.Identity, error) {
			return &domain.Identity{UID: "u2", Email: email}, nil
		},
	}
	profiles := newStubProfiles()
	profiles.mergeErr = errors.New("store down")
	svc, sink, _ := newTestService(provider, profiles)

	out := svc.Submit(context.Background(), domain.CredentialInput{
		Email: "a@b.com", Password: "Abc123!", StudentID: "x", Year: "1",
	}, domain.ModeSignup)

	// The account exists at the provider; a failed merge must not flip the
	// outcome.
	if out.Status != domain.OutcomeSuccess {
		t.Fatalf("expected success despite merge failure, got %s", out.Status)
	}
	if len(sink.uids) != 1 {
		t.Fatalf("login event still expected, got %v", sink.uids)
	}
}

func TestSubmit_LoginSuccessWritesNothing(t *testing.T) {
	provider := &stubProvider{
		authFn: func(_ context.Context, email, _ string) (*domain.Identity, error) {
			return &domain.Identity{UID: "u3", Email: email}, nil
		},
	}
	profiles := newStubProfiles()
	svc, sink, _ := newTestService(provider, profiles)

	out := svc.Submit(context.Background(), domain.CredentialInput{Email: "a@b.com", Password: "pw"}, domain.ModeLogin)

	if out.Status != domain.OutcomeSuccess || out.Message != msgLoginSuccess {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(profiles.merges) != 0 || len(profiles.creates) != 0 || len(sink.uids) != 0 {
		t.Fatalf("plain login must not touch the store")
	}
}

func TestSubmit_LoginInvalidCredential(t *testing.T) {
	provider := &stubProvider{
		authFn: func(context.Context, string, string) (*domain.Identity, error) {
			return nil, domain.NewProviderError("auth/invalid-credential")
		},
	}
	svc, _, notifier := newTestService(provider, newStubProfiles())

	out := svc.Submit(context.Background(), domain.CredentialInput{Email: "a@b.com", Password: "wrong"}, domain.ModeLogin)

	if out.Status != domain.OutcomeFailure || out.Reason != domain.CodeInvalidCredential {
		t.Fatalf("expected invalid-credential failure, got %+v", out)
	}
	if out.Message != "Invalid Email or password" {
		t.Fatalf("unexpected message: %q", out.Message)
	}
	if len(notifier.kinds) != 1 || notifier.kinds[0] != domain.NoticeError {
		t.Fatalf("expected one error notice, got %v", notifier.kinds)
	}
}

func TestSubmit_LoginUnknownCodeFallsBack(t *testing.T) {
	provider := &stubProvider{
		authFn: func(context.Context, string, string) (*domain.Identity, error) {
			return nil, domain.NewProviderError("auth/network-request-failed")
		},
	}
	svc, _, _ := newTestService(provider, newStubProfiles())

	out := svc.Submit(context.Background(), domain.CredentialInput{Email: "a@b.com", Password: "pw"}, domain.ModeLogin)

	if out.Reason != domain.CodeUnknown || out.Message != msgLoginFailed {
		t.Fatalf("expected generic login failure, got %+v", out)
	}
}

func TestGoogleSignIn_Cancelled(t *testing.T) {
	provider := &stubProvider{
		fedFn: func(context.Context, ports.FederatedCredential) (*domain.Identity, error) {
			return nil, domain.NewProviderError("popup-closed-by-user")
		},
	}
	profiles := newStubProfiles()
	svc, _, notifier := newTestService(provider, profiles)

	out := svc.GoogleSignIn(context.Background(), ports.FederatedCredential{ErrorCode: "popup-closed-by-user"})

	if out.Status != domain.OutcomeCancelled {
		t.Fatalf("expected cancelled, got %s", out.Status)
	}
	if out.Notice != domain.NoticeNeutral {
		t.Fatalf("cancellation must be neutral, got %s", out.Notice)
	}
	if len(profiles.creates) != 0 || len(profiles.merges) != 0 {
		t.Fatalf("cancellation must not mutate profiles")
	}
	if len(notifier.kinds) != 1 || notifier.kinds[0] != domain.NoticeNeutral {
		t.Fatalf("expected neutral notice, got %v", notifier.kinds)
	}
}

func TestGoogleSignIn_NewUserCreatesProfile(t *testing.T) {
	provider := &stubProvider{
		fedFn: func(context.Context, ports.FederatedCredential) (*domain.Identity, error) {
			return &domain.Identity{UID: "g1", Email: "g@x.com"}, nil
		},
	}
	profiles := newStubProfiles()
	svc, _, _ := newTestService(provider, profiles)

	out := svc.GoogleSignIn(context.Background(), ports.FederatedCredential{IDToken: "tok"})

	if out.Status != domain.OutcomeSuccess || out.Message != msgGoogleCreated {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(profiles.creates) != 1 || profiles.creates[0].uid != "g1" || profiles.creates[0].email != "g@x.com" {
		t.Fatalf("unexpected creates: %v", profiles.creates)
	}
}

func TestGoogleSignIn_ExistingUserUnaltered(t *testing.T) {
	provider := &stubProvider{
		fedFn: func(context.Context, ports.FederatedCredential) (*domain.Identity, error) {
			return &domain.Identity{UID: "g1", Email: "g@x.com"}, nil
		},
	}
	profiles := newStubProfiles()
	profiles.records["g1"] = &domain.UserProfileRecord{UID: "g1", Email: "g@x.com"}
	svc, _, _ := newTestService(provider, profiles)

	out := svc.GoogleSignIn(context.Background(), ports.FederatedCredential{IDToken: "tok"})

	if out.Status != domain.OutcomeSuccess || out.Message != msgGoogleWelcome {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(profiles.creates) != 0 || len(profiles.merges) != 0 {
		t.Fatalf("existing profile must not be altered")
	}
}

func TestGoogleSignIn_LookupFailure(t *testing.T) {
	provider := &stubProvider{
		fedFn: func(context.Context, ports.FederatedCredential) (*domain.Identity, error) {
			return &domain.Identity{UID: "g2", Email: "g@x.com"}, nil
		},
	}
	profiles := newStubProfiles()
	profiles.readErr = errors.New("store down")
	svc, _, _ := newTestService(provider, profiles)

	out := svc.GoogleSignIn(context.Background(), ports.FederatedCredential{IDToken: "tok"})

	if out.Status != domain.OutcomeFailure || out.Message != msgGoogleFailed {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}
