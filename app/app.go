// app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/emailcheck/config"
	"github.com/dalemusser/emailcheck/httputil"
	"github.com/dalemusser/emailcheck/logging"
	"github.com/dalemusser/emailcheck/metrics"
	"github.com/dalemusser/emailcheck/server"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Hooks are the pieces a web binary supplies to Run.
type Hooks[C any] struct {
	// Name is used only for logging.
	Name string

	// LoadConfig returns the core config and the app config. It usually
	// wraps config.Load. Returning pflag.ErrHelp makes Run exit cleanly.
	LoadConfig func(logger *zap.Logger) (*config.CoreConfig, C, error)

	// BuildHandler builds the full handler: router, middleware and routes.
	BuildHandler func(core *config.CoreConfig, appCfg C, logger *zap.Logger) (http.Handler, error)
}

// Run is the startup sequence shared by web binaries:
//
//  1. bootstrap logger
//  2. LoadConfig
//  3. final logger from log_level/env
//  4. default metrics
//  5. BuildHandler
//  6. serve until SIGINT/SIGTERM or ctx is canceled
func Run[C any](ctx context.Context, hooks Hooks[C]) error {
	if hooks.LoadConfig == nil || hooks.BuildHandler == nil {
		return errors.New("app: LoadConfig and BuildHandler are required")
	}

	bootstrap := logging.BootstrapLogger()
	defer func() { _ = bootstrap.Sync() }()

	coreCfg, appCfg, err := hooks.LoadConfig(bootstrap)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		bootstrap.Error("config load failed", zap.Error(err))
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.MustBuildLogger(coreCfg.LogLevel, coreCfg.Env)
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("app", hooks.Name),
		zap.String("env", coreCfg.Env),
		zap.String("log_level", coreCfg.LogLevel))
	logger.Debug("core config", zap.String("config", coreCfg.Dump()))

	httputil.SetJSONLogger(logger)
	metrics.RegisterDefault(logger)

	ctx, cancel := server.WithShutdownSignals(ctx, logger)
	defer cancel()

	handler, err := hooks.BuildHandler(coreCfg, appCfg, logger)
	if err != nil {
		logger.Error("handler build failed", zap.Error(err))
		return fmt.Errorf("build handler: %w", err)
	}

	if err := server.ListenAndServeWithContext(ctx, coreCfg, handler, logger); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}
