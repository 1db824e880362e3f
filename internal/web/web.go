// internal/web/web.go
package web

import (
	"fmt"
	"net/http"

	"github.com/dalemusser/emailcheck/auth/apikey"
	"github.com/dalemusser/emailcheck/config"
	"github.com/dalemusser/emailcheck/health"
	"github.com/dalemusser/emailcheck/metrics"
	"github.com/dalemusser/emailcheck/router"
	"github.com/dalemusser/emailcheck/validate"
	"github.com/dalemusser/emailcheck/version"
	"github.com/dalemusser/emailcheck/webform"
	"go.uber.org/zap"
)

// AppKeys are the app-level config keys of the web server.
var AppKeys = []config.AppKey{
	{Name: "min_digits", Default: 3, Desc: "Minimum count of digits 0-9 in an address"},
	{Name: "max_length", Default: 254, Desc: "Maximum address length in characters (0 disables)"},
	{Name: "ascii_only", Default: false, Desc: "Accept only ASCII letters and digits"},
	{Name: "metrics_api_key", Default: "", Desc: "API key required for /metrics (empty leaves it open)"},
}

// AppConfig is the app-level configuration passed to BuildHandler.
type AppConfig struct {
	Policy validate.Policy

	// MetricsAPIKey guards /metrics when non-empty.
	MetricsAPIKey string
}

// LoadConfig returns a loader for app.Hooks that reads core and policy keys
// from args, env and config files.
func LoadConfig(args []string) func(*zap.Logger) (*config.CoreConfig, AppConfig, error) {
	return func(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
		core, vals, err := config.Load(logger, args, AppKeys...)
		if err != nil {
			return nil, AppConfig{}, err
		}
		cfg := AppConfig{Policy: validate.Policy{
			MinDigits: vals.Int("min_digits"),
			MaxLength: vals.Int("max_length"),
			ASCIIOnly: vals.Bool("ascii_only"),
		}, MetricsAPIKey: vals.String("metrics_api_key")}
		if cfg.Policy.MinDigits < 0 {
			return nil, AppConfig{}, fmt.Errorf("min_digits must be >= 0 (got %d)", cfg.Policy.MinDigits)
		}
		if cfg.Policy.MaxLength < 0 {
			return nil, AppConfig{}, fmt.Errorf("max_length must be >= 0 (got %d)", cfg.Policy.MaxLength)
		}
		return core, cfg, nil
	}
}

// BuildHandler wires the router, the form routes and the operational
// endpoints (/health, /version, /metrics).
func BuildHandler(core *config.CoreConfig, cfg AppConfig, logger *zap.Logger) (http.Handler, error) {
	form, err := webform.New(validate.New(cfg.Policy), logger)
	if err != nil {
		return nil, fmt.Errorf("webform: %w", err)
	}

	r := router.New(core, logger)
	form.Mount(r)
	health.Mount(r, map[string]health.Check{"templates": form.Ready}, logger)
	version.Mount(r)
	r.With(apikey.Require(cfg.MetricsAPIKey, logger)).
		Method(http.MethodGet, "/metrics", metrics.Handler())
	return r, nil
}
