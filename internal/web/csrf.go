package web

import (
	"crypto/rand"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// ContextKeyCSRFToken is the Gin context key holding the per-request
// CSRF token for templates.
const ContextKeyCSRFToken = "csrf_token"

// NewCSRFSecret generates a random 32-byte secret for processes that
// don't configure one. Tokens then only survive a single process run,
// which is fine for a single-user tool.
func NewCSRFSecret() []byte {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic(err)
	}
	return secret
}

// CSRFMiddleware creates a Gin middleware for CSRF protection of the
// form pages. Safe methods (GET, HEAD, OPTIONS, TRACE) pass through
// unverified per gorilla/csrf semantics. Paths under any of the
// skipPrefixes bypass protection entirely; the JSON API is driven by
// scripts that have no way to obtain a token.
func CSRFMiddleware(secret []byte, secure bool, skipPrefixes ...string) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Store the token in the context for templates. The request
			// is replaced so later middleware sees the CSRF context.
			c.Set(ContextKeyCSRFToken, csrf.Token(r))
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)
	}
}

// csrfErrorHandler handles CSRF validation failures.
func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
		return
	}

	// For form submissions, redirect back to the original page with an
	// error so the user can retry.
	referer := r.Referer()
	if referer != "" {
		separator := "?"
		if strings.Contains(referer, "?") {
			separator = "&"
		}
		http.Redirect(w, r, referer+separator+"error=Form+expired.+Please+try+again.", http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte("Forbidden: CSRF token invalid or missing\n"))
}
