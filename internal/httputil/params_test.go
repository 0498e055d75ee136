package httputil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newContext(req *http.Request) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestReturnURL(t *testing.T) {
	tests := []struct {
		name   string
		target string
		form   url.Values
		want   string
	}{
		{"query", "/login?returnUrl=%2Faccount", nil, "/account"},
		{"form", "/login", url.Values{"returnUrl": {"/settings?tab=2"}}, "/settings?tab=2"},
		{"query wins over form", "/login?returnUrl=%2Fa", url.Values{"returnUrl": {"/b"}}, "/a"},
		{"absolute dropped", "/login?returnUrl=https%3A%2F%2Fevil.example", nil, ""},
		{"scheme relative dropped", "/login?returnUrl=%2F%2Fevil.example", nil, ""},
		{"missing", "/login", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			if got := ReturnURL(newContext(req), "returnUrl"); got != tt.want {
				t.Errorf("ReturnURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"on", true},
		{"ON", true},
		{"yes", true},
		{"true", true},
		{"1", true},
		{"", false},
		{"off", false},
		{"false", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		if got := ParseBool(tt.value); got != tt.want {
			t.Errorf("ParseBool(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestRequestPath(t *testing.T) {
	c := newContext(httptest.NewRequest(http.MethodGet, "/private?page=2", nil))
	if got := RequestPath(c); got != "/private?page=2" {
		t.Errorf("RequestPath() = %q", got)
	}

	c = newContext(httptest.NewRequest(http.MethodGet, "/private", nil))
	if got := RequestPath(c); got != "/private" {
		t.Errorf("RequestPath() = %q", got)
	}
}
