package web

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/emailcheck/metrics"
	"github.com/dalemusser/emailcheck/validate"
	"github.com/dalemusser/emailcheck/webtest"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("EMAILCHECK_MAX_LENGTH", "100")

	core, cfg, err := LoadConfig([]string{"--min_digits=2", "--ascii_only"})(nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if core.HTTP.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d", core.HTTP.HTTPPort)
	}
	want := validate.Policy{MinDigits: 2, MaxLength: 100, ASCIIOnly: true}
	if cfg.Policy != want {
		t.Errorf("Policy = %+v, want %+v", cfg.Policy, want)
	}
}

func TestLoadConfig_Negative(t *testing.T) {
	if _, _, err := LoadConfig([]string{"--min_digits=-1"})(nil); err == nil || !strings.Contains(err.Error(), "min_digits") {
		t.Errorf("err = %v, want min_digits error", err)
	}
	if _, _, err := LoadConfig([]string{"--max_length=-5"})(nil); err == nil || !strings.Contains(err.Error(), "max_length") {
		t.Errorf("err = %v, want max_length error", err)
	}
}

func TestBuildHandler(t *testing.T) {
	metrics.RegisterDefault(nil)

	core, cfg, err := LoadConfig(nil)(nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	h, err := BuildHandler(core, cfg, nil)
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	c := webtest.NewServer(t, h)

	c.Get("/").StatusOK().
		ContentType("text/html").
		HeaderEquals("X-Frame-Options", "DENY").
		BodyContains(`<form method="post" action="/validate">`)

	c.PostForm("/validate", url.Values{"email": {"ab123@example.com"}}).
		StatusOK().
		BodyContains("Email looks valid (basic checks passed).")

	c.Get("/health").StatusOK().
		ContentType("application/json").
		BodyContains(`"status":"ok"`).
		BodyContains(`"templates":"ok"`)
	c.Get("/version").StatusOK().BodyContains(`"go_version"`)
	c.Get("/metrics").StatusOK().BodyContains(`emailcheck_verdicts_total{result="ok",surface="web"}`)

	c.Request(http.MethodGet, "/nope").Header("Accept", "application/json").Do().
		Status(http.StatusNotFound).
		BodyContains(`"error":"not_found"`)
}

func TestBuildHandler_MetricsKey(t *testing.T) {
	metrics.RegisterDefault(nil)
	t.Setenv("EMAILCHECK_METRICS_API_KEY", "scrape-me")

	core, cfg, err := LoadConfig(nil)(nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MetricsAPIKey != "scrape-me" {
		t.Fatalf("MetricsAPIKey = %q", cfg.MetricsAPIKey)
	}
	h, err := BuildHandler(core, cfg, nil)
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	c := webtest.New(t, h)

	c.Get("/metrics").Status(http.StatusUnauthorized)
	c.Request(http.MethodGet, "/metrics").Header("Authorization", "Bearer scrape-me").Do().
		StatusOK().
		BodyContains("emailcheck_verdicts_total")
	// The form stays open.
	c.Get("/").StatusOK()
}
