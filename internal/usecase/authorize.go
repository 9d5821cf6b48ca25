package usecase

import (
	"context"

	"github.com/pkg/errors"

	"github.com/totegamma/fantalega/internal/domain"
)

// TeamOwnership answers whether a user owns a team.
type TeamOwnership interface {
	OwnsTeam(ctx context.Context, userID, teamID string) (bool, error)
}

// Gate decides whether an identity holds a capability. It performs no
// mutation.
type Gate struct {
	teams TeamOwnership
}

func NewGate(teams TeamOwnership) *Gate {
	return &Gate{teams: teams}
}

func (g *Gate) Authorize(ctx context.Context, id domain.Identity, capability domain.Capability) (domain.Decision, error) {
	switch capability.Kind {
	case domain.CapAdminAction:
		if id.IsAdmin() {
			return domain.Allow(), nil
		}
		return denyFor(id), nil

	case domain.CapManageOwnPushSubscription:
		if id.IsUser() {
			return domain.Allow(), nil
		}
		// an admin session carries no user to attach the subscription to
		return domain.Deny(domain.DenyUnauthenticated), nil

	case domain.CapManageTeam:
		if id.IsAdmin() {
			return domain.Allow(), nil
		}
		if !id.IsUser() {
			return domain.Deny(domain.DenyUnauthenticated), nil
		}
		if capability.TeamID == "" {
			return domain.Deny(domain.DenyForbidden), nil
		}
		owns, err := g.teams.OwnsTeam(ctx, id.UserID, capability.TeamID)
		if err != nil {
			return domain.Decision{}, errors.Wrap(err, "Gate.Authorize: OwnsTeam failed")
		}
		if !owns {
			return domain.Deny(domain.DenyForbidden), nil
		}
		return domain.Allow(), nil
	}

	return domain.Deny(domain.DenyForbidden), nil
}

func denyFor(id domain.Identity) domain.Decision {
	if id.IsAnonymous() {
		return domain.Deny(domain.DenyUnauthenticated)
	}
	return domain.Deny(domain.DenyForbidden)
}
