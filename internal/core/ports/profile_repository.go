package ports

import (
	"context"

	"github.com/spit-library/auth-service/internal/core/domain"
)

// ProfileRepository persists user profile documents keyed by the
// provider-issued uid. Timestamps (createdAt, lastLoginAt, login-event
// times) are assigned by the store, not the caller.
type ProfileRepository interface {
	// Read returns the profile for uid, or domain.ErrProfileNotFound when
	// no document exists.
	Read(ctx context.Context, uid string) (*domain.UserProfileRecord, error)

	// Merge upserts the given fields into the profile for uid, preserving
	// any stored fields not present in this write, and refreshes
	// lastLoginAt.
	Merge(ctx context.Context, uid string, fields domain.ProfileFields) error

	// Create writes a minimal profile (email, uid, createdAt) for a user
	// seen for the first time via federated sign-in.
	Create(ctx context.Context, uid, email string) error

	// AppendLoginEvent adds one entry to the user's login history. Entries
	// are never updated or deleted.
	AppendLoginEvent(ctx context.Context, uid string) error
}
