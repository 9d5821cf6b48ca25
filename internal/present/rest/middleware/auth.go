package middleware

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/fantalega/internal/domain"
	"github.com/totegamma/fantalega/internal/present/rest/presenter"
	"github.com/totegamma/fantalega/internal/service"
	"github.com/totegamma/fantalega/internal/usecase"
)

var tracer = otel.Tracer("auth")

// Authorizer is satisfied by *usecase.Gate.
type Authorizer interface {
	Authorize(ctx context.Context, id domain.Identity, capability domain.Capability) (domain.Decision, error)
}

type AuthMiddleware struct {
	sessions *service.SessionStore
	resolver *usecase.IdentityResolver
	gate     Authorizer
}

func NewAuthMiddleware(
	sessions *service.SessionStore,
	resolver *usecase.IdentityResolver,
	gate Authorizer,
) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		resolver: resolver,
		gate:     gate,
	}
}

// IdentifyIdentity resolves the caller from its session cookies and stores
// the identity in the request context. Missing or invalid sessions resolve
// to Anonymous; only a failing session backend aborts the request.
func (s *AuthMiddleware) IdentifyIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.IdentifyIdentity")
		defer span.End()

		tokens := s.sessions.Tokens(c.Request())

		identity, err := s.resolver.Resolve(ctx, tokens)
		if err != nil {
			span.RecordError(errors.Wrap(err, "AuthMiddleware.IdentifyIdentity: resolver.Resolve failed"))
			slog.ErrorContext(
				ctx, "session backend failure",
				slog.String("error", err.Error()),
				slog.String("module", "auth"),
			)
			return presenter.InternalError(c, err)
		}

		span.SetAttributes(attribute.String("identity", identity.Kind.String()))
		if identity.IsUser() {
			span.SetAttributes(attribute.String("RequesterId", identity.UserID))
		}

		ctx = domain.WithIdentity(ctx, identity)
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// RequireAdminPage asks the gate for AdminAction and sends denied callers
// to the login page.
func (s *AuthMiddleware) RequireAdminPage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.RequireAdminPage")
		defer span.End()

		identity := domain.IdentityFromContext(ctx)
		decision, err := s.gate.Authorize(ctx, identity, domain.AdminAction())
		if err != nil {
			span.RecordError(errors.Wrap(err, "AuthMiddleware.RequireAdminPage: gate.Authorize failed"))
			return presenter.InternalError(c, err)
		}
		if !decision.Allowed {
			span.SetAttributes(attribute.String("deny", decision.Reason.String()))
			return presenter.SeeOther(c, domain.RedirectAdminLogin)
		}
		return next(c)
	}
}

// RequireIdentity rejects anonymous callers of the JSON API.
func (s *AuthMiddleware) RequireIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity := domain.IdentityFromContext(c.Request().Context())
		if identity.IsAnonymous() {
			return presenter.Unauthorized(c, "Unauthorized")
		}
		return next(c)
	}
}
