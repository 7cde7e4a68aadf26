package middleware

import (
	"net/http"
	"strings"
)

const (
	allowMethods  = "GET, POST, PATCH, OPTIONS"
	allowHeaders  = "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Session-ID"
	exposeHeaders = "X-Session-ID"
)

// CORS reflects the caller's origin so the session cookie travels with
// credentialed requests. Preflight requests end here.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		} else {
			h.Set("Access-Control-Allow-Origin", "*")
		}
		h.Set("Access-Control-Allow-Methods", allowMethods)
		h.Set("Access-Control-Allow-Headers", allowHeaders)
		h.Set("Access-Control-Expose-Headers", exposeHeaders)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
