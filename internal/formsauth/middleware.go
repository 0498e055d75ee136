package formsauth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/siteframe/internal/constants"
	"github.com/siteframe/internal/domain"
	"github.com/siteframe/internal/httputil"
)

// Authenticate loads the user behind a valid auth cookie into the context
// and always continues the chain
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := a.currentUser(c); ok {
			setUser(c, user)
		}
		c.Next()
	}
}

// RequireAuth rejects requests without a valid auth cookie. AJAX callers get
// a 401, browsers are sent to the login page with a return URL.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserFromContext(c); ok {
			c.Next()
			return
		}

		user, ok := a.currentUser(c)
		if !ok {
			a.Challenge(c)
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// Challenge aborts the request the way an unauthenticated caller expects
func (a *Authenticator) Challenge(c *gin.Context) {
	if IsAjaxRequest(c.Request) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}
	c.Redirect(http.StatusSeeOther, a.LoginURL(httputil.RequestPath(c)))
	c.Abort()
}

func (a *Authenticator) currentUser(c *gin.Context) (*domain.User, bool) {
	id, err := a.Identify(c.Request)
	if err != nil {
		if errors.Is(err, domain.ErrTokenInvalid) {
			slog.DebugContext(c.Request.Context(), "Rejected auth token", "path", c.Request.URL.Path, "error", err)
		}
		return nil, false
	}

	user, err := a.users.GetUserFromIdentifier(c.Request.Context(), id)
	if err != nil || user == nil {
		slog.WarnContext(c.Request.Context(), "Auth token for unknown user", "user_id", id, "error", err)
		return nil, false
	}
	return user, true
}

func setUser(c *gin.Context, user *domain.User) {
	c.Set(constants.ContextKeyUser, user)
	c.Set(constants.ContextKeyUserID, user.ID)
}

// UserFromContext returns the user stored by Authenticate or RequireAuth
func UserFromContext(c *gin.Context) (*domain.User, bool) {
	if value, exists := c.Get(constants.ContextKeyUser); exists {
		if user, ok := value.(*domain.User); ok {
			return user, true
		}
	}
	return nil, false
}
