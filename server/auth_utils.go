package server

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"
)

// generateRandomString creates a random base64url string.
func generateRandomString(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// redirectWithNotice redirects with an informational message shown on the
// target page.
func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	http.Redirect(w, r, path+"?notice="+url.QueryEscape(notice), http.StatusFound)
}

// redirectWithError redirects with a user-visible error message. The
// message must already be sanitized and free of secrets.
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	http.Redirect(w, r, path+"?error="+url.QueryEscape(errorMsg), http.StatusFound)
}
