package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/totegamma/fantalega/internal/domain"
	"github.com/totegamma/fantalega/internal/usecase"
)

// CachedSessionSource is a cache-through decorator for a UserSessionSource.
// Only positive lookups are cached, so a freshly issued session is visible
// immediately. An entry never outlives the session's own expiry; a
// revocation made through another instance stays invisible here for at
// most ttl.
type CachedSessionSource struct {
	next  usecase.UserSessionSource
	cache *gocache.Cache
	ttl   time.Duration
	now   func() time.Time
}

func NewCachedSessionSource(next usecase.UserSessionSource, ttl time.Duration) *CachedSessionSource {
	return &CachedSessionSource{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *CachedSessionSource) Lookup(ctx context.Context, token string) (domain.UserSession, bool, error) {
	if cached, found := c.cache.Get(token); found {
		session := cached.(domain.UserSession)
		if session.ExpiresAt.IsZero() || c.now().Before(session.ExpiresAt) {
			return session, true, nil
		}
		c.cache.Delete(token)
	}

	session, ok, err := c.next.Lookup(ctx, token)
	if err != nil || !ok {
		return session, ok, err
	}

	ttl := c.ttl
	if !session.ExpiresAt.IsZero() {
		remaining := session.ExpiresAt.Sub(c.now())
		if remaining <= 0 {
			return session, true, nil
		}
		if remaining < ttl {
			ttl = remaining
		}
	}

	c.cache.Set(token, session, ttl)
	return session, true, nil
}

func (c *CachedSessionSource) Revoke(ctx context.Context, token string) error {
	c.cache.Delete(token)
	return c.next.Revoke(ctx, token)
}
