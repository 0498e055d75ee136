package formsauth

import (
	"net/http"
	"strings"

	"github.com/siteframe/internal/constants"
)

// IsAjaxRequest reports whether r came from script rather than a browser
// navigation. Such callers get status codes instead of redirects.
func IsAjaxRequest(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get(constants.HeaderRequestedWith), constants.XMLHttpRequest) {
		return true
	}

	accept := strings.ToLower(r.Header.Get("Accept"))
	return strings.Contains(accept, constants.MIMEApplicationJSON) && !strings.Contains(accept, "text/html")
}
