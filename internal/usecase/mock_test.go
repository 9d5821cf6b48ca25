package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/totegamma/fantalega/internal/domain"
)

// --- mocks ---

type mockTeamRepo struct {
	mu      sync.Mutex
	teams   map[string]domain.Team
	updates int
	events  *[]string
	fail    error
}

func newMockTeamRepo(teams ...domain.Team) *mockTeamRepo {
	m := &mockTeamRepo{teams: map[string]domain.Team{}}
	for _, t := range teams {
		m.teams[t.ID] = t
	}
	return m
}

func (m *mockTeamRepo) Get(ctx context.Context, id string) (domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[id]
	if !ok {
		return domain.Team{}, domain.NotFoundError{Resource: "team"}
	}
	return t, nil
}

func (m *mockTeamRepo) List(ctx context.Context) ([]domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Team
	for _, t := range m.teams {
		out = append(out, t)
	}
	return out, nil
}

func (m *mockTeamRepo) FindByOwner(ctx context.Context, userID string) (domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.teams {
		if t.UserID != nil && *t.UserID == userID {
			return t, nil
		}
	}
	return domain.Team{}, domain.NotFoundError{Resource: "team"}
}

func (m *mockTeamRepo) OwnsTeam(ctx context.Context, userID, teamID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[teamID]
	return ok && t.UserID != nil && *t.UserID == userID, nil
}

func (m *mockTeamRepo) UpdateLogo(ctx context.Context, update domain.TeamLogoUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if m.events != nil {
		*m.events = append(*m.events, "update")
	}
	if m.fail != nil {
		return m.fail
	}
	t, ok := m.teams[update.TeamID]
	if !ok {
		return domain.NotFoundError{Resource: "team"}
	}
	t.LogoURL = update.LogoURL
	t.LogoConfig = update.LogoConfig
	m.teams[update.TeamID] = t
	return nil
}

type mockPushRepo struct {
	mu    sync.Mutex
	rows  map[string]domain.PushSubscription
	calls int
	fail  error
}

func newMockPushRepo() *mockPushRepo {
	return &mockPushRepo{rows: map[string]domain.PushSubscription{}}
}

func (m *mockPushRepo) Upsert(ctx context.Context, sub domain.PushSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail != nil {
		return m.fail
	}
	m.rows[sub.UserID+"/"+sub.Key] = sub
	return nil
}

func (m *mockPushRepo) ListByUser(ctx context.Context, userID string) ([]domain.PushSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	var out []domain.PushSubscription
	for _, s := range m.rows {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockInvalidator struct {
	paths  []string
	events *[]string
}

func (m *mockInvalidator) Invalidate(ctx context.Context, paths ...string) {
	m.paths = append(m.paths, paths...)
	if m.events != nil {
		*m.events = append(*m.events, "invalidate")
	}
}

type mockCodec struct {
	token string
}

func (m *mockCodec) Issue(ctx context.Context) (string, error) { return m.token, nil }
func (m *mockCodec) Verify(ctx context.Context, token string) bool {
	return token != "" && token == m.token
}

type mockCreds struct {
	username, password string
}

func (m *mockCreds) Verify(ctx context.Context, username, password string) error {
	if username == m.username && password == m.password {
		return nil
	}
	return domain.ErrInvalidCredentials
}

type mockUserSessions struct {
	sessions map[string]string
	fail     error
	lookups  int
}

func (m *mockUserSessions) Lookup(ctx context.Context, token string) (domain.UserSession, bool, error) {
	m.lookups++
	if m.fail != nil {
		return domain.UserSession{}, false, m.fail
	}
	userID, ok := m.sessions[token]
	return domain.UserSession{UserID: userID}, ok, nil
}

func (m *mockUserSessions) Revoke(ctx context.Context, token string) error {
	delete(m.sessions, token)
	return nil
}

var errStoreDown = errors.New("connection refused")

func ptr[T any](v T) *T { return &v }
