package domain

type ctxKey string

const (
	IdentityCtxKey ctxKey = "fl-identity"
)

const (
	AdminSessionCookie       = "admin_session"
	AdminSessionMarker       = "true"
	DefaultUserSessionCookie = "fantalega_session"
	KratosSessionCookie      = "ory_kratos_session"
)

// Logical view paths whose cached renders are invalidated after mutations.
const (
	ViewHome        = "home"
	ViewTeamResults = "team results"
)

const (
	RedirectAdminHome  = "/admin"
	RedirectAdminLogin = "/admin/login"
	RedirectUserLogin  = "/login"
)

// ViewChannel is the redis pub/sub channel carrying ViewEvents.
const ViewChannel = "views"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)
