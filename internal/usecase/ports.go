package usecase

import (
	"context"

	"github.com/totegamma/fantalega/internal/domain"
)

// TeamRepository defines storage operations for teams.
type TeamRepository interface {
	Get(ctx context.Context, id string) (domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	FindByOwner(ctx context.Context, userID string) (domain.Team, error)
	OwnsTeam(ctx context.Context, userID, teamID string) (bool, error)
	UpdateLogo(ctx context.Context, update domain.TeamLogoUpdate) error
}

// PushSubscriptionRepository defines storage operations for push subscriptions.
type PushSubscriptionRepository interface {
	Upsert(ctx context.Context, sub domain.PushSubscription) error
	ListByUser(ctx context.Context, userID string) ([]domain.PushSubscription, error)
}

// UserSessionSource resolves end-user session tokens issued by the backend.
// A token that is unknown, expired or inactive yields ok == false and a nil
// error; err is reserved for backend faults.
type UserSessionSource interface {
	Lookup(ctx context.Context, token string) (session domain.UserSession, ok bool, err error)
	Revoke(ctx context.Context, token string) error
}

// SessionCodec issues and verifies the admin session cookie value.
type SessionCodec interface {
	Issue(ctx context.Context) (string, error)
	Verify(ctx context.Context, token string) bool
}

// CredentialVerifier checks an admin login attempt. It returns
// domain.ErrInvalidCredentials for a mismatch.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) error
}

// Invalidator marks cached views as stale. It never reports failure to the
// caller.
type Invalidator interface {
	Invalidate(ctx context.Context, paths ...string)
}
