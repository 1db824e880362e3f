// middleware/contenttype.go
package middleware

import (
	"mime"
	"net/http"
)

// RequireForm rejects requests whose Content-Type is not an HTML form
// encoding with 415 Unsupported Media Type. Requests without a body
// (GET, HEAD) pass through.
func RequireForm() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || (mt != "application/x-www-form-urlencoded" && mt != "multipart/form-data") {
				http.Error(w, "Content-Type must be an HTML form encoding", http.StatusUnsupportedMediaType)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
