// auth/apikey/apikey.go
package apikey

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/dalemusser/emailcheck/httputil"
	"go.uber.org/zap"
)

// Realm is sent in the WWW-Authenticate header on a 401.
const Realm = "emailcheck"

// Require returns middleware that admits a request only when it carries
// expected, either as "Authorization: Bearer <key>" or in X-API-Key.
// An empty expected key admits everything, so optional protection can be
// wired unconditionally.
func Require(expected string, logger *zap.Logger) func(http.Handler) http.Handler {
	expected = strings.TrimSpace(expected)
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		if expected == "" {
			return next
		}
		want := []byte(expected)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := fromRequest(r)
			if !ok || subtle.ConstantTimeCompare([]byte(key), want) != 1 {
				logger.Warn("API key unauthorized",
					zap.String("path", r.URL.Path),
					zap.String("method", r.Method),
					zap.String("remote_ip", r.RemoteAddr),
					zap.Bool("key_present", ok),
				)
				w.Header().Set("WWW-Authenticate", `Bearer realm="`+Realm+`"`)
				httputil.JSONError(w, http.StatusUnauthorized, "unauthorized", "A valid API key is required.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// fromRequest reads the key from the Authorization bearer token, then from
// X-API-Key. Query parameters are not consulted; they end up in access logs.
func fromRequest(r *http.Request) (string, bool) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > len("bearer ") && strings.EqualFold(auth[:len("bearer ")], "bearer ") {
		if token := strings.TrimSpace(auth[len("bearer "):]); token != "" {
			return token, true
		}
	}
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key, true
	}
	return "", false
}
