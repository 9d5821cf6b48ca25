package usecase

import (
	"context"
	"testing"

	"github.com/totegamma/fantalega/internal/domain"
)

func TestGateAuthorize(t *testing.T) {
	repo := newMockTeamRepo(
		domain.Team{ID: "team-a", UserID: ptr("user-a")},
		domain.Team{ID: "team-b", UserID: ptr("user-b")},
	)
	gate := NewGate(repo)

	admin := domain.AdminIdentity()
	anon := domain.AnonymousIdentity()
	userA := domain.UserIdentity("user-a")

	cases := []struct {
		name    string
		id      domain.Identity
		cap     domain.Capability
		allowed bool
		reason  domain.DenyReason
	}{
		{"admin action by admin", admin, domain.AdminAction(), true, domain.DenyNone},
		{"admin action by anonymous", anon, domain.AdminAction(), false, domain.DenyUnauthenticated},
		{"admin action by user", userA, domain.AdminAction(), false, domain.DenyForbidden},
		{"push by user", userA, domain.ManageOwnPushSubscription(), true, domain.DenyNone},
		{"push by anonymous", anon, domain.ManageOwnPushSubscription(), false, domain.DenyUnauthenticated},
		{"push by admin", admin, domain.ManageOwnPushSubscription(), false, domain.DenyUnauthenticated},
		{"own team", userA, domain.ManageTeam("team-a"), true, domain.DenyNone},
		{"other team", userA, domain.ManageTeam("team-b"), false, domain.DenyForbidden},
		{"missing team", userA, domain.ManageTeam("team-z"), false, domain.DenyForbidden},
		{"team by admin", admin, domain.ManageTeam("team-b"), true, domain.DenyNone},
		{"team by anonymous", anon, domain.ManageTeam("team-a"), false, domain.DenyUnauthenticated},
		{"unknown capability", admin, domain.Capability{}, false, domain.DenyForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			decision, err := gate.Authorize(context.Background(), tc.id, tc.cap)
			if err != nil {
				t.Fatalf("authorize failed: %v", err)
			}
			if decision.Allowed != tc.allowed {
				t.Fatalf("expected allowed=%v got %v", tc.allowed, decision.Allowed)
			}
			if decision.Reason != tc.reason {
				t.Fatalf("expected reason %s got %s", tc.reason, decision.Reason)
			}
		})
	}
}

func TestDecisionErr(t *testing.T) {
	if err := domain.Allow().Err(); err != nil {
		t.Fatalf("expected nil error for allow, got %v", err)
	}
	if err := domain.Deny(domain.DenyUnauthenticated).Err(); !domain.IsUnauthenticated(err) {
		t.Fatalf("expected unauthenticated error, got %v", err)
	}
	if err := domain.Deny(domain.DenyForbidden).Err(); !domain.IsForbidden(err) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}
