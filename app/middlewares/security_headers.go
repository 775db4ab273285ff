package middlewares

import (
	"net/http"

	"github.com/unrolled/secure"
)

// SecurityHeaders sets the hardening headers on every response. Uploaded
// images stay loadable from the frontend origin.
func SecurityHeaders() func(http.Handler) http.Handler {
	sec := secure.New(secure.Options{
		ContentTypeNosniff: true,
		FrameDeny:          true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "no-referrer",
	})
	return func(next http.Handler) http.Handler {
		return sec.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")
			next.ServeHTTP(w, r)
		}))
	}
}
