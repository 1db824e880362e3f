package daemon

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/emailcheck/app"
	"github.com/dalemusser/emailcheck/config"
	"github.com/kardianos/service"
	"go.uber.org/zap"
)

func testHooks(built chan<- struct{}) app.Hooks[struct{}] {
	return app.Hooks[struct{}]{
		Name: "test",
		LoadConfig: func(*zap.Logger) (*config.CoreConfig, struct{}, error) {
			return &config.CoreConfig{
				Env:      "dev",
				LogLevel: "error",
				HTTP:     config.HTTPConfig{ShutdownTimeout: time.Second},
			}, struct{}{}, nil
		},
		BuildHandler: func(*config.CoreConfig, struct{}, *zap.Logger) (http.Handler, error) {
			close(built)
			return http.NotFoundHandler(), nil
		},
	}
}

func TestProgram_StartStop(t *testing.T) {
	built := make(chan struct{})
	p := &Program[struct{}]{Hooks: testHooks(built)}

	if err := p.Start(nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := p.Start(nil); err == nil {
		t.Fatal("second Start succeeded, want error")
	}

	select {
	case <-built:
	case <-time.After(5 * time.Second):
		t.Fatal("app never built its handler")
	}

	if err := p.Stop(nil); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := p.Stop(nil); err != nil {
		t.Fatalf("Stop after Stop: %v", err)
	}
}

func TestProgram_StopReturnsRunError(t *testing.T) {
	p := &Program[struct{}]{Hooks: app.Hooks[struct{}]{
		LoadConfig: func(*zap.Logger) (*config.CoreConfig, struct{}, error) {
			return nil, struct{}{}, errors.New("boom")
		},
		BuildHandler: func(*config.CoreConfig, struct{}, *zap.Logger) (http.Handler, error) {
			return nil, nil
		},
	}}
	if err := p.Start(nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	err := p.Stop(nil)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Stop = %v, want load error", err)
	}
}

type fakeService struct {
	called string
	status service.Status
	err    error
}

func (f *fakeService) Run() error       { f.called = "run"; return f.err }
func (f *fakeService) Start() error     { f.called = "start"; return f.err }
func (f *fakeService) Stop() error      { f.called = "stop"; return f.err }
func (f *fakeService) Restart() error   { f.called = "restart"; return f.err }
func (f *fakeService) Install() error   { f.called = "install"; return f.err }
func (f *fakeService) Uninstall() error { f.called = "uninstall"; return f.err }
func (f *fakeService) Status() (service.Status, error) {
	f.called = "status"
	return f.status, f.err
}

func TestControl_Dispatch(t *testing.T) {
	for _, action := range Actions() {
		t.Run(action, func(t *testing.T) {
			f := &fakeService{status: service.StatusRunning}
			var out bytes.Buffer
			if err := Control(f, action, &out); err != nil {
				t.Fatalf("Control(%q) = %v", action, err)
			}
			if f.called != action {
				t.Errorf("called %q, want %q", f.called, action)
			}
		})
	}
}

func TestControl_Status(t *testing.T) {
	tests := []struct {
		name   string
		status service.Status
		err    error
		want   string
	}{
		{"running", service.StatusRunning, nil, "running\n"},
		{"stopped", service.StatusStopped, nil, "stopped\n"},
		{"unknown", service.StatusUnknown, nil, "unknown\n"},
		{"not installed", service.StatusUnknown, service.ErrNotInstalled, "not installed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := Control(&fakeService{status: tt.status, err: tt.err}, ActionStatus, &out); err != nil {
				t.Fatalf("Control = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestControl_Errors(t *testing.T) {
	if err := Control(&fakeService{}, "reload", &bytes.Buffer{}); err == nil {
		t.Fatal("unknown action succeeded")
	}
	f := &fakeService{err: errors.New("denied")}
	if err := Control(f, "install", &bytes.Buffer{}); err == nil || err.Error() != "denied" {
		t.Fatalf("Control(install) = %v, want denied", err)
	}
}

func TestConfig(t *testing.T) {
	c := Config("emailcheck-web", "desc", []string{"--http_port=9000"})
	want := []string{"service", "run", "--http_port=9000"}
	if strings.Join(c.Arguments, " ") != strings.Join(want, " ") {
		t.Errorf("Arguments = %v, want %v", c.Arguments, want)
	}
	if c.Name != "emailcheck-web" || c.Description != "desc" {
		t.Errorf("Config = %+v", c)
	}
}

func TestDaemonMain_UsageErrors(t *testing.T) {
	hooks := func([]string) app.Hooks[struct{}] { return app.Hooks[struct{}]{} }
	tests := [][]string{nil, {"reload"}}
	for _, args := range tests {
		var stdout, stderr bytes.Buffer
		if code := Main("emailcheck-web", "desc", args, hooks, &stdout, &stderr); code != 2 {
			t.Errorf("Main(%v) = %d, want 2", args, code)
		}
		if !strings.Contains(stderr.String(), "install") {
			t.Errorf("stderr = %q, want action list", stderr.String())
		}
	}
}
