package constants

import "time"

// Request header values used to tell AJAX callers from browsers
const (
	HeaderRequestedWith = "X-Requested-With"
	XMLHttpRequest      = "XMLHttpRequest"
	MIMEApplicationJSON = "application/json"
)

// Forms authentication token values
const (
	// TokenIssuer is written to the iss claim of forms authentication cookies
	TokenIssuer = "siteframe"

	// BearerPrefix precedes a token in the Authorization header
	BearerPrefix = "Bearer "

	// DefaultReturnURLKey is the query key carrying the post-login redirect target
	DefaultReturnURLKey = "returnUrl"

	// DefaultRedirectURL is used when no local redirect target is available
	DefaultRedirectURL = "/"
)

// Context keys set by the authentication middleware
const (
	ContextKeyUser   = "user"
	ContextKeyUserID = "userID"
)

// Health status values
const (
	HealthStatusHealthy = "healthy"
	ServiceName         = "siteframe"
)

// Timeout and interval constants
const (
	// ServerReadTimeout is the HTTP server read timeout
	ServerReadTimeout = 30 * time.Second

	// ServerWriteTimeout is the HTTP server write timeout
	ServerWriteTimeout = 60 * time.Second

	// ServerIdleTimeout is the HTTP server idle timeout
	ServerIdleTimeout = 120 * time.Second

	// ShutdownTimeout bounds graceful shutdown of the HTTP server
	ShutdownTimeout = 10 * time.Second

	// DatabaseLockTimeout is the timeout when database is locked
	DatabaseLockTimeout = 5 * time.Second

	// OAuthCookieDuration is how long the GitHub login cookie lives
	OAuthCookieDuration = 7 * 24 * time.Hour
)
