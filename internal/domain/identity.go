package domain

import "context"

type IdentityKind int

const (
	Anonymous IdentityKind = iota
	AdminSession
	AuthenticatedUser
)

func (k IdentityKind) String() string {
	switch k {
	case Anonymous:
		return "Anonymous"
	case AdminSession:
		return "AdminSession"
	case AuthenticatedUser:
		return "AuthenticatedUser"
	default:
		return "Error"
	}
}

// Identity is the resolved caller of one request. UserID is set only for
// AuthenticatedUser.
type Identity struct {
	Kind   IdentityKind `json:"kind"`
	UserID string       `json:"userId,omitempty"`
}

func AnonymousIdentity() Identity {
	return Identity{Kind: Anonymous}
}

func AdminIdentity() Identity {
	return Identity{Kind: AdminSession}
}

func UserIdentity(userID string) Identity {
	return Identity{Kind: AuthenticatedUser, UserID: userID}
}

func (i Identity) IsAnonymous() bool { return i.Kind == Anonymous }
func (i Identity) IsAdmin() bool     { return i.Kind == AdminSession }
func (i Identity) IsUser() bool      { return i.Kind == AuthenticatedUser && i.UserID != "" }

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, IdentityCtxKey, id)
}

// IdentityFromContext returns the identity stored by WithIdentity, or
// Anonymous when none was stored.
func IdentityFromContext(ctx context.Context) Identity {
	id, ok := ctx.Value(IdentityCtxKey).(Identity)
	if !ok {
		return AnonymousIdentity()
	}
	return id
}
