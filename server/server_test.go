package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/dalemusser/emailcheck/config"
)

func TestIsValidHost(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"example.com", true},
		{"example.com:8080", true},
		{"127.0.0.1", true},
		{"[::1]", true},
		{"[::1]:8443", true},
		{"[fe80::1%eth0]:443", true},
		{"", false},
		{"example.com:0", false},
		{"example.com:70000", false},
		{"example.com:", false},
		{"[]", false},
		{"[not-an-ip]", false},
		{"evil.com\r\nSet-Cookie: x=1", false},
		{"http://evil.com", false},
		{"evil.com/path", false},
	}
	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			if got := isValidHost(tt.host); got != tt.want {
				t.Errorf("isValidHost(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}

func TestRedirectHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://check.example.com/validate?x=1", nil)
	rec := httptest.NewRecorder()
	redirectHandler(443).ServeHTTP(rec, req)

	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301", rec.Code)
	}
	if got, want := rec.Header().Get("Location"), "https://check.example.com/validate?x=1"; got != want {
		t.Errorf("Location = %q, want %q", got, want)
	}
}

func TestRedirectHandler_HTTPSPort(t *testing.T) {
	tests := []struct {
		name string
		host string
		port int
		want string
	}{
		{"default port", "check.example.com", 443, "https://check.example.com/validate"},
		{"unset port", "check.example.com", 0, "https://check.example.com/validate"},
		{"custom port", "check.example.com", 8443, "https://check.example.com:8443/validate"},
		{"http port replaced", "check.example.com:8080", 8443, "https://check.example.com:8443/validate"},
		{"http port dropped", "check.example.com:80", 443, "https://check.example.com/validate"},
		{"ipv6 custom port", "[::1]:8080", 8443, "https://[::1]:8443/validate"},
		{"ipv6 default port", "[::1]", 443, "https://[::1]/validate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/validate", nil)
			req.Host = tt.host
			rec := httptest.NewRecorder()
			redirectHandler(tt.port).ServeHTTP(rec, req)

			if rec.Code != http.StatusMovedPermanently {
				t.Fatalf("status = %d, want 301", rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tt.want {
				t.Errorf("Location = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRedirectHandler_BadHost(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "evil.com/x"
	rec := httptest.NewRecorder()
	redirectHandler(443).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCheckTLSFiles(t *testing.T) {
	dir := t.TempDir()
	cert := filepath.Join(dir, "cert.pem")
	key := filepath.Join(dir, "key.pem")
	if err := os.WriteFile(cert, []byte("cert"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(key, []byte("key"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := checkTLSFiles(cert, key); err != nil {
		t.Errorf("checkTLSFiles = %v, want nil", err)
	}
	if err := checkTLSFiles(cert, filepath.Join(dir, "missing.pem")); err == nil {
		t.Error("missing key should fail")
	}
	if err := checkTLSFiles(dir, key); err == nil {
		t.Error("directory as cert should fail")
	}
	if err := checkTLSFiles("", key); err == nil {
		t.Error("empty cert path should fail")
	}

	if runtime.GOOS == "windows" {
		return
	}
	if err := os.Chmod(key, 0o644); err != nil {
		t.Fatal(err)
	}
	var perm *insecureKeyError
	if err := checkTLSFiles(cert, key); !errors.As(err, &perm) {
		t.Errorf("err = %v, want *insecureKeyError", err)
	}
}

func TestListenAndServeWithContext_Shutdown(t *testing.T) {
	for _, maxConns := range []int{0, 2} {
		t.Run(fmt.Sprintf("max_connections=%d", maxConns), func(t *testing.T) {
			cfg := &config.CoreConfig{HTTP: config.HTTPConfig{
				HTTPPort:        0,
				ShutdownTimeout: time.Second,
				MaxConnections:  maxConns,
			}}
			ctx, cancel := context.WithCancel(context.Background())

			done := make(chan error, 1)
			go func() {
				done <- ListenAndServeWithContext(ctx, cfg, http.NotFoundHandler(), nil)
			}()

			time.Sleep(50 * time.Millisecond)
			cancel()

			select {
			case err := <-done:
				if err != nil {
					t.Fatalf("ListenAndServeWithContext = %v, want nil", err)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("server did not stop after cancel")
			}
		})
	}
}

func TestListenAndServeWithContext_NilArgs(t *testing.T) {
	if err := ListenAndServeWithContext(context.Background(), nil, http.NotFoundHandler(), nil); err == nil {
		t.Error("nil config should fail")
	}
	if err := ListenAndServeWithContext(context.Background(), &config.CoreConfig{}, nil, nil); err == nil {
		t.Error("nil handler should fail")
	}
}
