package formsauth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func protectedRouter(auth *Authenticator) *gin.Engine {
	r := gin.New()
	r.GET("/private", auth.RequireAuth(), func(c *gin.Context) {
		user, _ := UserFromContext(c)
		c.String(http.StatusOK, user.Username)
	})
	r.GET("/public", auth.Authenticate(), func(c *gin.Context) {
		if user, ok := UserFromContext(c); ok {
			c.String(http.StatusOK, "hello "+user.Username)
			return
		}
		c.String(http.StatusOK, "hello guest")
	})
	return r
}

func issueCookie(t *testing.T, auth *Authenticator, id uuid.UUID) *http.Cookie {
	t.Helper()
	rec := serve(func(c *gin.Context) {
		_ = auth.LoginWithoutRedirect(c, id, nil, false)
	}, httptest.NewRequest(http.MethodPost, "/login", nil))
	return authCookie(t, rec, auth.Config().CookieName)
}

func TestRequireAuth(t *testing.T) {
	auth, user := newTestAuthenticator(t, Config{})
	router := protectedRouter(auth)
	valid := issueCookie(t, auth, user.ID)
	stranger := issueCookie(t, auth, uuid.New())

	tests := []struct {
		name         string
		cookie       *http.Cookie
		ajax         bool
		wantStatus   int
		wantLocation string
		wantBody     string
	}{
		{
			name:         "browser without cookie is redirected to login",
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/login?returnUrl=%2Fprivate%3Fpage%3D2",
		},
		{
			name:       "ajax without cookie gets 401",
			ajax:       true,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid cookie",
			cookie:     valid,
			wantStatus: http.StatusOK,
			wantBody:   "alice",
		},
		{
			name:         "cookie for unknown user",
			cookie:       stranger,
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/login?returnUrl=%2Fprivate%3Fpage%3D2",
		},
		{
			name:       "garbage cookie over ajax",
			cookie:     &http.Cookie{Name: "_siteframe_auth", Value: "not-a-token"},
			ajax:       true,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private?page=2", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			if tt.ajax {
				req.Header.Set("X-Requested-With", "XMLHttpRequest")
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" {
				if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
					t.Errorf("Location = %q, want %q", loc, tt.wantLocation)
				}
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	auth, user := newTestAuthenticator(t, Config{})
	router := protectedRouter(auth)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public", nil))
	if rec.Body.String() != "hello guest" {
		t.Errorf("anonymous body = %q", rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.AddCookie(issueCookie(t, auth, user.ID))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Body.String() != "hello alice" {
		t.Errorf("authenticated body = %q", rec.Body.String())
	}
}
