// Package formsauth implements cookie based forms authentication for gin.
// A signed token carrying the user identifier is stored in an HttpOnly
// cookie; RequireAuth maps it back to a user through a domain.UserMapper.
package formsauth

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/siteframe/internal/constants"
	"github.com/siteframe/internal/domain"
	"github.com/siteframe/internal/httputil"
)

// Config holds the forms authentication settings
type Config struct {
	Secret           string
	CookieName       string
	CookieDomain     string
	CookiePath       string
	RedirectQueryKey string
	LoginPath        string
	TokenDuration    time.Duration
	Issuer           string
	SecureCookies    bool
}

// Authenticator issues and verifies forms authentication cookies
type Authenticator struct {
	config Config
	users  domain.UserMapper
	now    func() time.Time
}

// New creates an Authenticator. Empty settings fall back to defaults.
func New(cfg Config, users domain.UserMapper) (*Authenticator, error) {
	if cfg.Secret == "" {
		return nil, domain.WrapConfigInvalid("auth secret", errors.New("secret is required"))
	}
	if users == nil {
		return nil, domain.WrapConfigInvalid("user mapper", errors.New("user mapper is required"))
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "_siteframe_auth"
	}
	if cfg.CookiePath == "" {
		cfg.CookiePath = "/"
	}
	if cfg.RedirectQueryKey == "" {
		cfg.RedirectQueryKey = constants.DefaultReturnURLKey
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.TokenDuration <= 0 {
		cfg.TokenDuration = 24 * time.Hour
	}
	if cfg.Issuer == "" {
		cfg.Issuer = constants.TokenIssuer
	}

	return &Authenticator{config: cfg, users: users, now: time.Now}, nil
}

// Config returns the effective settings
func (a *Authenticator) Config() Config {
	return a.config
}

// Login signs the user in. AJAX callers get a 200, browsers are redirected
// to the returnUrl query value or fallbackRedirectURL.
func (a *Authenticator) Login(c *gin.Context, userID uuid.UUID, expiry *time.Time, fallbackRedirectURL string) error {
	if IsAjaxRequest(c.Request) {
		return a.LoginWithoutRedirect(c, userID, expiry, a.config.SecureCookies)
	}
	return a.LoginAndRedirect(c, userID, expiry, fallbackRedirectURL, a.config.SecureCookies)
}

// LoginAndRedirect sets the auth cookie and answers 303 See Other. The
// returnUrl is read from the query string, then from a posted form.
func (a *Authenticator) LoginAndRedirect(c *gin.Context, userID uuid.UUID, expiry *time.Time, fallbackRedirectURL string, secure bool) error {
	if err := a.setAuthCookie(c, userID, expiry, secure); err != nil {
		return err
	}
	c.Redirect(http.StatusSeeOther, a.redirectTarget(c, fallbackRedirectURL))
	return nil
}

// LoginWithoutRedirect sets the auth cookie and answers 200 OK
func (a *Authenticator) LoginWithoutRedirect(c *gin.Context, userID uuid.UUID, expiry *time.Time, secure bool) error {
	if err := a.setAuthCookie(c, userID, expiry, secure); err != nil {
		return err
	}
	c.Status(http.StatusOK)
	return nil
}

// Logout signs the user out. AJAX callers get a 200, browsers are redirected.
func (a *Authenticator) Logout(c *gin.Context, redirectURL string) {
	if IsAjaxRequest(c.Request) {
		a.LogoutWithoutRedirect(c)
		return
	}
	a.LogoutAndRedirect(c, redirectURL)
}

// LogoutAndRedirect expires the auth cookie and answers 303 See Other
func (a *Authenticator) LogoutAndRedirect(c *gin.Context, redirectURL string) {
	a.clearAuthCookie(c)
	if redirectURL == "" {
		redirectURL = constants.DefaultRedirectURL
	}
	c.Redirect(http.StatusSeeOther, redirectURL)
}

// LogoutWithoutRedirect expires the auth cookie and answers 200 OK
func (a *Authenticator) LogoutWithoutRedirect(c *gin.Context) {
	a.clearAuthCookie(c)
	c.Status(http.StatusOK)
}

// Identify returns the user identifier carried by the request's auth cookie
// or bearer token
func (a *Authenticator) Identify(r *http.Request) (uuid.UUID, error) {
	tokenStr := a.extractToken(r)
	if tokenStr == "" {
		return uuid.Nil, domain.ErrAuthFailed
	}
	return a.parseToken(tokenStr)
}

// LoginURL returns the login page address with returnURL attached
func (a *Authenticator) LoginURL(returnURL string) string {
	if returnURL == "" {
		return a.config.LoginPath
	}
	sep := "?"
	if strings.Contains(a.config.LoginPath, "?") {
		sep = "&"
	}
	return a.config.LoginPath + sep + a.config.RedirectQueryKey + "=" + url.QueryEscape(returnURL)
}

func (a *Authenticator) redirectTarget(c *gin.Context, fallback string) string {
	if target := httputil.ReturnURL(c, a.config.RedirectQueryKey); target != "" {
		return target
	}
	if fallback != "" {
		return fallback
	}
	return constants.DefaultRedirectURL
}

func (a *Authenticator) setAuthCookie(c *gin.Context, userID uuid.UUID, expiry *time.Time, secure bool) error {
	expiresAt := a.now().Add(a.config.TokenDuration)
	if expiry != nil {
		expiresAt = *expiry
	}

	signed, err := a.issueToken(userID, expiresAt)
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     a.config.CookieName,
		Value:    signed,
		Path:     a.config.CookiePath,
		Domain:   a.config.CookieDomain,
		HttpOnly: true,
		Secure:   secure || a.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if expiry != nil {
		cookie.Expires = expiresAt.UTC()
		cookie.MaxAge = int(time.Until(expiresAt).Seconds())
		if cookie.MaxAge <= 0 {
			cookie.MaxAge = -1
		}
	}
	http.SetCookie(c.Writer, cookie)
	return nil
}

func (a *Authenticator) clearAuthCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     a.config.CookieName,
		Value:    "",
		Path:     a.config.CookiePath,
		Domain:   a.config.CookieDomain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Authenticator) extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(a.config.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, constants.BearerPrefix) {
		return strings.TrimPrefix(auth, constants.BearerPrefix)
	}
	return ""
}
