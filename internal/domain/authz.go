package domain

type CapabilityKind int

const (
	CapAdminAction CapabilityKind = iota + 1
	CapManageOwnPushSubscription
	CapManageTeam
)

func (k CapabilityKind) String() string {
	switch k {
	case CapAdminAction:
		return "AdminAction"
	case CapManageOwnPushSubscription:
		return "ManageOwnPushSubscription"
	case CapManageTeam:
		return "ManageTeam"
	default:
		return "Unknown"
	}
}

// Capability names a permission. TeamID is only meaningful for CapManageTeam.
type Capability struct {
	Kind   CapabilityKind
	TeamID string
}

func AdminAction() Capability {
	return Capability{Kind: CapAdminAction}
}

func ManageOwnPushSubscription() Capability {
	return Capability{Kind: CapManageOwnPushSubscription}
}

func ManageTeam(teamID string) Capability {
	return Capability{Kind: CapManageTeam, TeamID: teamID}
}

type DenyReason int

const (
	DenyNone DenyReason = iota
	DenyUnauthenticated
	DenyForbidden
)

func (r DenyReason) String() string {
	switch r {
	case DenyUnauthenticated:
		return "Unauthenticated"
	case DenyForbidden:
		return "Forbidden"
	default:
		return ""
	}
}

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// Err returns nil for an allowed decision and an *AuthorizationError otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &AuthorizationError{Reason: d.Reason}
}
