package webform

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/emailcheck/middleware"
	"github.com/dalemusser/emailcheck/validate"
	"github.com/dalemusser/emailcheck/webtest"
	"github.com/go-chi/chi/v5"
)

func newClient(t *testing.T, checker *validate.Checker) *webtest.Client {
	t.Helper()
	h, err := New(checker, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r := chi.NewRouter()
	r.Use(middleware.LimitBodySize(1 << 10))
	h.Mount(r)
	return webtest.New(t, r)
}

func TestIndex(t *testing.T) {
	newClient(t, nil).Get("/").
		StatusOK().
		ContentType("text/html").
		BodyContains(`action="/validate"`).
		BodyContains(`name="email" value=""`).
		BodyContains("at least\n    3 digits.").
		BodyNotContains(`class="result`)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		form    url.Values
		class   string
		message string
		value   string
	}{
		{"valid", url.Values{"email": {"ab123@example.com"}}, "result valid", "Email looks valid (basic checks passed).", "ab123@example.com"},
		{"too few digits", url.Values{"email": {"ab12@example.com"}}, "result invalid", "Email must contain at least 3 digits.", "ab12@example.com"},
		{"missing field", url.Values{}, "result invalid", "Email is empty.", ""},
		{"blank", url.Values{"email": {"   "}}, "result invalid", "Email is empty.", "   "},
		{"padding kept in echo", url.Values{"email": {"  ab123@example.com "}}, "result valid", "Email looks valid (basic checks passed).", "  ab123@example.com "},
		{"no domain dot", url.Values{"email": {"user123@localhost"}}, "result invalid", "Domain must contain at least one dot", "user123@localhost"},
	}
	c := newClient(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.PostForm("/validate", tt.form).
				StatusOK().
				BodyContains(`class="` + tt.class + `"`).
				BodyContains(tt.message).
				BodyContains(`name="email" value="` + tt.value + `"`)
		})
	}
}

func TestValidate_EscapesInput(t *testing.T) {
	newClient(t, nil).PostForm("/validate", url.Values{"email": {`<script>"x"@a.com`}}).
		StatusOK().
		BodyNotContains("<script>").
		BodyContains("&lt;script&gt;").
		BodyContains(`data-reason="local_char"`)
}

func TestValidate_Policy(t *testing.T) {
	c := newClient(t, validate.New(validate.Policy{MinDigits: 1, MaxLength: 254}))
	c.PostForm("/validate", url.Values{"email": {"a1@example.com"}}).
		StatusOK().
		BodyContains(`class="result valid"`).
		BodyContains("1 digit.")
}

func TestValidate_RejectsNonForm(t *testing.T) {
	newClient(t, nil).Request(http.MethodPost, "/validate").
		Header("Content-Type", "application/json").
		Body(`{"email":"ab123@example.com"}`).
		Do().
		Status(http.StatusUnsupportedMediaType)
}

func TestValidate_BodyTooLarge(t *testing.T) {
	big := url.Values{"email": {strings.Repeat("a", 4<<10) + "@example.com"}}
	newClient(t, nil).PostForm("/validate", big).
		Status(http.StatusRequestEntityTooLarge)
}

func TestValidate_Multipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("email", "ab123@example.com"); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	newClient(t, nil).Request(http.MethodPost, "/validate").
		Header("Content-Type", mw.FormDataContentType()).
		Body(buf.String()).
		Do().
		StatusOK().
		BodyContains(`class="result valid"`)
}

func TestValidate_MethodNotAllowed(t *testing.T) {
	newClient(t, nil).Get("/validate").Status(http.StatusMethodNotAllowed)
}

func TestReady(t *testing.T) {
	h, err := New(nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := h.Ready(context.Background()); err != nil {
		t.Fatalf("Ready = %v, want nil", err)
	}
}
