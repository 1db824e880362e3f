package version

import (
	"runtime"
	"testing"

	"github.com/dalemusser/emailcheck/webtest"
	"github.com/go-chi/chi/v5"
)

func TestMount(t *testing.T) {
	r := chi.NewRouter()
	Mount(r)

	var got Info
	webtest.New(t, r).Get("/version").StatusOK().JSON(&got)
	if got.Version != Version || got.GoVersion != runtime.Version() {
		t.Errorf("got %+v", got)
	}
}

func TestString(t *testing.T) {
	old := [3]string{Version, Commit, BuildTime}
	t.Cleanup(func() { Version, Commit, BuildTime = old[0], old[1], old[2] })

	Version = "dev"
	if got := String(); got != "dev" {
		t.Errorf("String() = %q, want dev", got)
	}

	Version, Commit, BuildTime = "1.2.3", "abc123", "2026-01-15T10:30:00Z"
	if got, want := String(), "1.2.3 (abc123, built 2026-01-15T10:30:00Z)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
