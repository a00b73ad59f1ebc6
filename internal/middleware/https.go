package middleware

import (
	"net/http"
)

// HTTPSRedirect permanently redirects plain-HTTP requests to their HTTPS
// equivalent. TLS termination at a proxy is detected via X-Forwarded-Proto.
func HTTPSRedirect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") != "https" {
			target := "https://" + r.Host + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusPermanentRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}
