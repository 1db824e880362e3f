// server/server.go
package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/dalemusser/emailcheck/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/net/netutil"
)

// certWarmTimeout bounds how long startup waits for the first ACME certificate.
const certWarmTimeout = 60 * time.Second

// WithShutdownSignals returns a context canceled on SIGINT or SIGTERM.
// The returned cancel func also stops signal delivery.
func WithShutdownSignals(parent context.Context, logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			if logger != nil {
				logger.Info("shutdown signal received", zap.Stringer("signal", sig))
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// ListenAndServeWithContext serves handler according to cfg and blocks until
// ctx is canceled or a listener fails. Three modes are supported:
//
//   - plain HTTP on http_port
//   - HTTPS with Let's Encrypt (http-01), :80 answering challenges and redirecting
//   - HTTPS with cert_file/key_file, :80 redirecting
//
// On cancellation in-flight requests get cfg.HTTP.ShutdownTimeout to finish.
func ListenAndServeWithContext(ctx context.Context, cfg *config.CoreConfig, handler http.Handler, logger *zap.Logger) error {
	if cfg == nil {
		return errors.New("server: nil config")
	}
	if handler == nil {
		return errors.New("server: nil handler")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := newHTTPServer(cfg, handler, logger)

	var (
		ln     net.Listener
		aux    *http.Server
		auxErr chan error
	)

	if !cfg.HTTP.UseHTTPS {
		addr := ":" + strconv.Itoa(cfg.HTTP.HTTPPort)
		l, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listen http %s: %w", addr, err)
		}
		ln = l
		logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))
	} else {
		tlsCfg, redirect, err := tlsSetup(ctx, cfg, logger)
		if err != nil {
			return err
		}

		aux = newHTTPServer(cfg, redirect, logger)
		aux.Addr = ":80"
		auxErr = make(chan error, 1)
		go func() { auxErr <- serveErr(aux.ListenAndServe()) }()
		logger.Info("redirect server listening", zap.String("addr", aux.Addr))

		addr := ":" + strconv.Itoa(cfg.HTTP.HTTPSPort)
		l, err := net.Listen("tcp", addr)
		if err != nil {
			_ = aux.Close()
			return fmt.Errorf("listen https %s: %w", addr, err)
		}
		srv.TLSConfig = tlsCfg
		ln = tls.NewListener(l, tlsCfg)
		logger.Info("HTTPS server listening",
			zap.String("addr", addr),
			zap.Bool("lets_encrypt", cfg.TLS.UseLetsEncrypt),
			zap.String("domain", cfg.TLS.Domain))
	}

	if n := cfg.HTTP.MaxConnections; n > 0 {
		ln = netutil.LimitListener(ln, n)
		logger.Info("connection cap enabled", zap.Int("max_connections", n))
	}

	primaryErr := make(chan error, 1)
	go func() { primaryErr <- serveErr(srv.Serve(ln)) }()

	// auxErr is nil in HTTP mode, which disables that case.
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down server", zap.Duration("timeout", cfg.HTTP.ShutdownTimeout))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
			defer cancel()
			if aux != nil {
				_ = aux.Shutdown(shutdownCtx)
			}
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			logger.Info("server stopped gracefully")
			return nil

		case err := <-primaryErr:
			if aux != nil {
				_ = aux.Close()
			}
			if err != nil {
				return fmt.Errorf("primary server: %w", err)
			}
			return nil

		case err := <-auxErr:
			if err != nil {
				_ = srv.Close()
				return fmt.Errorf("redirect server: %w", err)
			}
			aux, auxErr = nil, nil
		}
	}
}

func newHTTPServer(cfg *config.CoreConfig, h http.Handler, logger *zap.Logger) *http.Server {
	srv := &http.Server{
		Handler:           h,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}
	if stdlog, err := zap.NewStdLogAt(logger, zapcore.WarnLevel); err == nil {
		srv.ErrorLog = stdlog
	}
	return srv
}

func serveErr(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// tlsSetup builds the TLS config for the HTTPS listener and the handler for :80.
func tlsSetup(ctx context.Context, cfg *config.CoreConfig, logger *zap.Logger) (*tls.Config, http.Handler, error) {
	if cfg.TLS.UseLetsEncrypt {
		m := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(cfg.TLS.Domain),
			Cache:      autocert.DirCache(cfg.TLS.LetsEncryptCacheDir),
			Email:      cfg.TLS.LetsEncryptEmail,
		}
		tlsCfg := &tls.Config{
			MinVersion:     tls.VersionTLS12,
			GetCertificate: m.GetCertificate,
			NextProtos:     []string{"h2", "http/1.1"},
		}
		// Warming runs in the background since the :80 challenge server
		// is not up until the caller starts it.
		go func() {
			if err := waitForCert(ctx, m, cfg.TLS.Domain, certWarmTimeout); err != nil {
				logger.Warn("autocert pre-warm failed; first HTTPS hits may see TLS errors", zap.Error(err))
			}
		}()
		return tlsCfg, m.HTTPHandler(redirectHandler(cfg.HTTP.HTTPSPort)), nil
	}

	if err := checkTLSFiles(cfg.TLS.CertFile, cfg.TLS.KeyFile); err != nil {
		var perm *insecureKeyError
		if !errors.As(err, &perm) || cfg.Env == "prod" {
			return nil, nil, err
		}
		logger.Warn("TLS key file permissions too open (fatal in prod)", zap.Error(err))
	}
	cert, err := tls.LoadX509KeyPair(cfg.TLS.CertFile, cfg.TLS.KeyFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load TLS cert/key: %w", err)
	}
	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{cert},
	}, redirectHandler(cfg.HTTP.HTTPSPort), nil
}

// waitForCert polls m until a certificate for host is cached, ctx ends, or
// timeout elapses.
func waitForCert(ctx context.Context, m *autocert.Manager, host string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for {
		_, err := m.GetCertificate(&tls.ClientHelloInfo{ServerName: host})
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for cert for %q: %w (last error: %v)", host, ctx.Err(), err)
		case <-tick.C:
		}
	}
}
