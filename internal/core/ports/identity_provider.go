package ports

import (
	"context"

	"github.com/spit-library/auth-service/internal/core/domain"
)

// FederatedCredential is the client-relayed result of the federated sign-in
// interaction. Exactly one of IDToken or ErrorCode is set: the token when
// the popup completed, the raw provider code when it did not (including
// popup-closed-by-user for a dismissal).
type FederatedCredential struct {
	IDToken   string
	ErrorCode string
}

// IdentityProvider is the external identity collaborator. All verification
// of credentials happens on the provider side; failures surface as
// *domain.ProviderError so callers can match the mapped sentinel.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password string) (*domain.Identity, error)
	Authenticate(ctx context.Context, email, password string) (*domain.Identity, error)
	FederatedSignIn(ctx context.Context, cred FederatedCredential) (*domain.Identity, error)
}
