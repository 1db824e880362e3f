package health

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/dalemusser/emailcheck/webtest"
	"github.com/go-chi/chi/v5"
)

func TestHandler_Liveness(t *testing.T) {
	r := chi.NewRouter()
	Mount(r, nil, nil)

	var got Response
	webtest.New(t, r).Get("/health").StatusOK().ContentType("application/json").JSON(&got)
	if got.Status != "ok" || got.Checks != nil {
		t.Errorf("got %+v, want bare ok", got)
	}
}

func TestHandler_Checks(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]Check
		wantStatus int
		wantBody   string
		wantCheck  map[string]string
	}{
		{
			name: "all ok",
			checks: map[string]Check{
				"templates": func(context.Context) error { return nil },
				"nil":       nil,
			},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
			wantCheck:  map[string]string{"templates": "ok", "nil": "ok"},
		},
		{
			name: "one failing",
			checks: map[string]Check{
				"templates": func(context.Context) error { return nil },
				"disk":      func(context.Context) error { return errors.New("full") },
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   "error",
			wantCheck:  map[string]string{"templates": "ok", "disk": "error: full"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Response
			webtest.New(t, Handler(tt.checks, nil)).Get("/health").Status(tt.wantStatus).JSON(&got)
			if got.Status != tt.wantBody {
				t.Errorf("status = %q, want %q", got.Status, tt.wantBody)
			}
			for k, v := range tt.wantCheck {
				if got.Checks[k] != v {
					t.Errorf("checks[%q] = %q, want %q", k, got.Checks[k], v)
				}
			}
		})
	}
}
