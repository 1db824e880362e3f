// middleware/cors.go
package middleware

import (
	"net/http"

	"github.com/dalemusser/emailcheck/config"
	"github.com/go-chi/cors"
)

// CORSFromConfig applies the CORS section of coreCfg. When CORS is disabled
// it returns an identity middleware, so it is safe to call unconditionally:
//
//	r.Use(middleware.CORSFromConfig(coreCfg))
func CORSFromConfig(coreCfg *config.CoreConfig) func(next http.Handler) http.Handler {
	if coreCfg == nil || !coreCfg.CORS.EnableCORS {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   coreCfg.CORS.CORSAllowedOrigins,
		AllowedMethods:   coreCfg.CORS.CORSAllowedMethods,
		AllowedHeaders:   coreCfg.CORS.CORSAllowedHeaders,
		ExposedHeaders:   coreCfg.CORS.CORSExposedHeaders,
		AllowCredentials: coreCfg.CORS.CORSAllowCredentials,
		MaxAge:           coreCfg.CORS.CORSMaxAge,
	})
}
