// middleware/compress.go
package middleware

import (
	"net/http"

	"github.com/dalemusser/emailcheck/config"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// compressibleTypes are the content types the server actually produces.
var compressibleTypes = []string{
	"text/html",
	"text/plain",
	"application/json",
}

// CompressFromConfig returns gzip/deflate compression when
// coreCfg.EnableCompression is set and an identity middleware otherwise, so
// it is safe to call unconditionally. Levels outside 1-9 are clamped.
func CompressFromConfig(coreCfg *config.CoreConfig, logger *zap.Logger) func(next http.Handler) http.Handler {
	if coreCfg == nil || !coreCfg.EnableCompression {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	level := coreCfg.CompressionLevel
	switch {
	case level < 1:
		level = 1
	case level > 9:
		level = 9
	}
	if level != coreCfg.CompressionLevel && logger != nil {
		logger.Warn("compression level clamped",
			zap.Int("configured", coreCfg.CompressionLevel),
			zap.Int("used", level))
	}
	return middleware.Compress(level, compressibleTypes...)
}
