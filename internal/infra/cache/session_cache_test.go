package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totegamma/fantalega/internal/domain"
)

type countingSource struct {
	sessions map[string]domain.UserSession
	lookups  int
	revoked  []string
	fail     error
}

func (s *countingSource) Lookup(ctx context.Context, token string) (domain.UserSession, bool, error) {
	s.lookups++
	if s.fail != nil {
		return domain.UserSession{}, false, s.fail
	}
	session, ok := s.sessions[token]
	return session, ok, nil
}

func (s *countingSource) Revoke(ctx context.Context, token string) error {
	s.revoked = append(s.revoked, token)
	delete(s.sessions, token)
	return nil
}

func TestCachedSessionSourceCachesHits(t *testing.T) {
	src := &countingSource{sessions: map[string]domain.UserSession{"tok": {UserID: "user-1"}}}
	c := NewCachedSessionSource(src, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		session, ok, err := c.Lookup(ctx, "tok")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "user-1", session.UserID)
	}
	assert.Equal(t, 1, src.lookups)
}

func TestCachedSessionSourceDoesNotCacheMisses(t *testing.T) {
	src := &countingSource{sessions: map[string]domain.UserSession{}}
	c := NewCachedSessionSource(src, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Lookup(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)

	src.sessions["tok"] = domain.UserSession{UserID: "user-2"}
	session, ok, err := c.Lookup(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user-2", session.UserID)
}

func TestCachedSessionSourceStopsAtSessionExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	src := &countingSource{sessions: map[string]domain.UserSession{
		"tok": {UserID: "user-1", ExpiresAt: now.Add(5 * time.Second)},
	}}
	c := NewCachedSessionSource(src, time.Minute)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_, ok, err := c.Lookup(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	// the backend session has ended; the cached entry must not vouch for it
	now = now.Add(10 * time.Second)
	delete(src.sessions, "tok")

	_, ok, err = c.Lookup(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, src.lookups)
}

func TestCachedSessionSourceSkipsExpiredSessions(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	src := &countingSource{sessions: map[string]domain.UserSession{
		"tok": {UserID: "user-1", ExpiresAt: now.Add(-time.Second)},
	}}
	c := NewCachedSessionSource(src, time.Minute)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_, _, _ = c.Lookup(ctx, "tok")
	_, _, _ = c.Lookup(ctx, "tok")
	assert.Equal(t, 2, src.lookups)
}

func TestCachedSessionSourceRevoke(t *testing.T) {
	src := &countingSource{sessions: map[string]domain.UserSession{"tok": {UserID: "user-1"}}}
	c := NewCachedSessionSource(src, time.Minute)
	ctx := context.Background()

	_, _, _ = c.Lookup(ctx, "tok")
	require.NoError(t, c.Revoke(ctx, "tok"))

	_, ok, err := c.Lookup(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"tok"}, src.revoked)
}

func TestCachedSessionSourcePropagatesFaults(t *testing.T) {
	boom := errors.New("kratos down")
	c := NewCachedSessionSource(&countingSource{fail: boom}, time.Minute)

	_, ok, err := c.Lookup(context.Background(), "tok")
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)
}
