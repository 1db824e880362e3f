package logging

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestIsValidLogLevel(t *testing.T) {
	for _, lvl := range []string{"debug", "INFO", "Warn", "error"} {
		if !IsValidLogLevel(lvl) {
			t.Errorf("IsValidLogLevel(%q) = false, want true", lvl)
		}
	}
	for _, lvl := range []string{"", "verbose", "trace"} {
		if IsValidLogLevel(lvl) {
			t.Errorf("IsValidLogLevel(%q) = true, want false", lvl)
		}
	}
}

func TestBuildLogger_LevelFallback(t *testing.T) {
	logger, err := BuildLogger("shouting", "prod")
	if err != nil {
		t.Fatalf("BuildLogger: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("invalid level should fall back to info, but debug is enabled")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be enabled")
	}
}

func TestCLILogger_Levels(t *testing.T) {
	if CLILogger(io.Discard, false).Core().Enabled(zapcore.InfoLevel) {
		t.Error("quiet CLI logger should not emit info")
	}
	if !CLILogger(io.Discard, true).Core().Enabled(zapcore.DebugLevel) {
		t.Error("verbose CLI logger should emit debug")
	}

	var buf bytes.Buffer
	CLILogger(&buf, false).Warn("read failed", zap.String("file", "list.txt"))
	if !strings.Contains(buf.String(), "read failed") || !strings.Contains(buf.String(), "list.txt") {
		t.Errorf("warning not written: %q", buf.String())
	}
}

func TestRecoverer(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := Recoverer(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/validate", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if n := logs.FilterMessage("panic recovered").Len(); n != 1 {
		t.Errorf("panic log entries = %d, want 1", n)
	}
}

func TestRecoverer_AfterHeaders(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := Recoverer(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		panic("late")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusAccepted {
		t.Errorf("status = %d, want the already-sent 202", rec.Code)
	}
	if n := logs.FilterMessage("panic occurred after headers written; response may be incomplete").Len(); n != 1 {
		t.Errorf("late-panic warnings = %d, want 1", n)
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/?email=secret123@example.com", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("http_request").All()
	if len(entries) != 1 {
		t.Fatalf("http_request entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) {
		t.Errorf("status field = %v, want 418", fields["status"])
	}
	if fields["bytes"] != int64(len("short and stout")) {
		t.Errorf("bytes field = %v", fields["bytes"])
	}
	if fields["path"] != "/" {
		t.Errorf("path field = %v, want / without query", fields["path"])
	}
}

func TestRequestLogger_Levels(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		level  zapcore.Level
	}{
		{"form", "/", http.StatusOK, zapcore.InfoLevel},
		{"probe", "/health", http.StatusOK, zapcore.DebugLevel},
		{"scrape", "/metrics", http.StatusOK, zapcore.DebugLevel},
		{"server error", "/validate", http.StatusInternalServerError, zapcore.ErrorLevel},
		{"failing probe", "/health", http.StatusServiceUnavailable, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			h := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("entries = %d, want 1", len(entries))
			}
			if entries[0].Level != tt.level {
				t.Errorf("level = %v, want %v", entries[0].Level, tt.level)
			}
		})
	}
}
