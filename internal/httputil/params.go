package httputil

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/siteframe/internal/validation"
)

// ReturnURL extracts the post-login redirect target from the query string or
// the posted form. Anything that is not a local path is dropped.
func ReturnURL(c *gin.Context, key string) string {
	target := c.Query(key)
	if target == "" {
		target = c.PostForm(key)
	}
	target = strings.TrimSpace(target)
	if !validation.IsLocalURL(target) {
		return ""
	}
	return target
}

// ParseBool parses checkbox-style form values ("on", "true", "1")
func ParseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "yes":
		return true
	}
	b, err := strconv.ParseBool(value)
	return err == nil && b
}

// RequestPath returns the path plus query of the current request, used as a
// returnUrl when bouncing to the login page
func RequestPath(c *gin.Context) string {
	u := c.Request.URL
	if u.RawQuery == "" {
		return u.Path
	}
	return u.Path + "?" + u.RawQuery
}
