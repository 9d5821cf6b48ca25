package usecase

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/fantalega/internal/domain"
)

var tracer = otel.Tracer("usecase")

// SessionTokens are the raw session cookie values carried by a request.
// Empty means the cookie was absent.
type SessionTokens struct {
	Admin string
	User  string
}

type IdentityResolver struct {
	admin SessionCodec
	users UserSessionSource
}

func NewIdentityResolver(admin SessionCodec, users UserSessionSource) *IdentityResolver {
	return &IdentityResolver{admin: admin, users: users}
}

// Resolve classifies the caller. A missing or invalid session is Anonymous,
// not an error; only a failing session backend returns an error.
func (r *IdentityResolver) Resolve(ctx context.Context, tokens SessionTokens) (domain.Identity, error) {
	ctx, span := tracer.Start(ctx, "Identity.Usecase.Resolve")
	defer span.End()

	if tokens.Admin != "" && r.admin.Verify(ctx, tokens.Admin) {
		span.SetAttributes(attribute.String("identity", domain.AdminSession.String()))
		return domain.AdminIdentity(), nil
	}

	if tokens.User != "" && r.users != nil {
		session, ok, err := r.users.Lookup(ctx, tokens.User)
		if err != nil {
			span.RecordError(errors.Wrap(err, "IdentityResolver.Resolve: users.Lookup failed"))
			return domain.AnonymousIdentity(), err
		}
		if ok && session.UserID != "" {
			span.SetAttributes(
				attribute.String("identity", domain.AuthenticatedUser.String()),
				attribute.String("userId", session.UserID),
			)
			return domain.UserIdentity(session.UserID), nil
		}
	}

	span.SetAttributes(attribute.String("identity", domain.Anonymous.String()))
	return domain.AnonymousIdentity(), nil
}
