package apipaths

import "testing"

func TestOAuthPaths(t *testing.T) {
	if got := OAuthLogin("github"); got != "/auth/github/login" {
		t.Errorf("OAuthLogin(github) = %q, want /auth/github/login", got)
	}
	if got := OAuthLogout(); got != "/auth/logout" {
		t.Errorf("OAuthLogout() = %q, want /auth/logout", got)
	}
}
