package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-pkgz/auth/token"
	"github.com/siteframe/internal/constants"
	"github.com/siteframe/internal/domain"
	"github.com/siteframe/internal/formsauth"
	"github.com/siteframe/internal/httputil"
	"github.com/siteframe/internal/validation"
)

// Auth endpoints:
//   - POST /login               - forms login (username, password, rememberMe)
//   - GET|POST /logout          - clear the forms cookie
//   - GET /auth/github/login    - start GitHub OAuth flow (when configured)
//   - GET /auth/github/callback - GitHub OAuth callback
//   - GET /api/me               - current user info

// login validates posted credentials and issues the forms cookie
func (s *Server) login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		s.loginFailed(c, domain.WrapValidationError("credentials", nil))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := validation.ValidateUsername(req.Username); err != nil {
		s.loginFailed(c, domain.ErrAuthFailed)
		return
	}

	userID, err := s.database.ValidateUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if !domain.IsAuthError(err) {
			respondError(c, err)
			return
		}
		s.loginFailed(c, err)
		return
	}

	// Without rememberMe the cookie lives for the browser session only
	var expiry *time.Time
	if req.RememberMe || httputil.ParseBool(c.PostForm("rememberMe")) {
		until := time.Now().Add(s.config.Auth.TokenDuration)
		expiry = &until
	}

	if err := s.forms.Login(c, userID, expiry, constants.DefaultRedirectURL); err != nil {
		respondError(c, err)
		return
	}
}

// loginFailed answers AJAX callers with JSON and sends browsers back to the
// login page, keeping their return URL
func (s *Server) loginFailed(c *gin.Context, err error) {
	if formsauth.IsAjaxRequest(c.Request) {
		respondError(c, err)
		return
	}

	target := s.forms.LoginURL(httputil.ReturnURL(c, s.forms.Config().RedirectQueryKey))
	c.Redirect(http.StatusSeeOther, target)
	c.Abort()
}

// logout clears the forms cookie
func (s *Server) logout(c *gin.Context) {
	s.forms.Logout(c, s.config.Auth.LogoutRedirect)
}

// requireAuth accepts either a forms cookie or, when GitHub login is
// configured, a go-pkgz/auth token. Disabled auth lets everything through.
func (s *Server) requireAuth() gin.HandlerFunc {
	if !s.config.Auth.Enabled {
		return s.forms.Authenticate()
	}

	forms := s.forms.RequireAuth()
	if s.authService == nil {
		return forms
	}

	oauth := s.authService.Middleware()
	return func(c *gin.Context) {
		if _, err := s.forms.Identify(c.Request); err == nil {
			forms(c)
			return
		}

		var userInfo token.User
		var authenticated bool
		handler := oauth.Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, err := token.GetUserInfo(r); err == nil {
				userInfo = u
				authenticated = true
			}
			c.Request = r
		}))

		// go-pkgz/auth writes its own 401 on failure; capture it instead
		captured := discardWriter{header: http.Header{}}
		handler.ServeHTTP(captured, c.Request)

		if !authenticated {
			s.forms.Challenge(c)
			return
		}

		// Keep refreshed OAuth cookies
		for _, cookie := range captured.header.Values("Set-Cookie") {
			c.Writer.Header().Add("Set-Cookie", cookie)
		}

		c.Set(constants.ContextKeyUser, userInfo)
		c.Next()
	}
}

// getCurrentUser returns the authenticated user info
func (s *Server) getCurrentUser(c *gin.Context) {
	if user, ok := formsauth.UserFromContext(c); ok {
		c.JSON(http.StatusOK, gin.H{
			"id":       user.ID,
			"name":     user.Username,
			"provider": "forms",
		})
		return
	}

	if value, exists := c.Get(constants.ContextKeyUser); exists {
		if user, ok := value.(token.User); ok {
			c.JSON(http.StatusOK, gin.H{
				"id":       user.ID,
				"name":     user.Name,
				"picture":  user.Picture,
				"provider": "github",
			})
			return
		}
	}

	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   "Not authenticated",
		Details: "Please login to continue",
	})
}

// discardWriter swallows the response go-pkgz/auth writes for rejected tokens
type discardWriter struct {
	header http.Header
}

func (w discardWriter) Header() http.Header         { return w.header }
func (w discardWriter) Write(b []byte) (int, error) { return len(b), nil }
func (w discardWriter) WriteHeader(int)             {}
