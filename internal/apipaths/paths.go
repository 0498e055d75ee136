package apipaths

// Route paths shared by the router and tests.

const (
	Health     = "/api/health"
	Me         = "/api/me"
	Login      = "/login"
	Logout     = "/logout"
	OAuthMount = "/auth"
	Avatar     = "/avatar"
)

// OAuthLogin returns the go-pkgz/auth login path for a provider
func OAuthLogin(provider string) string { return OAuthMount + "/" + provider + "/login" }

// OAuthLogout returns the go-pkgz/auth logout path
func OAuthLogout() string { return OAuthMount + "/logout" }
