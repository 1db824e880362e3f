// Package webform serves the HTML form: GET / shows it and POST /validate
// checks the submitted "email" field and shows the verdict next to the
// value as it was typed.
package webform

import (
	"context"
	"embed"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/dalemusser/emailcheck/metrics"
	"github.com/dalemusser/emailcheck/middleware"
	"github.com/dalemusser/emailcheck/templates"
	"github.com/dalemusser/emailcheck/validate"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// multipartMemory caps in-memory multipart parsing; the body cap in the
// router is normally far lower.
const multipartMemory = 32 << 10

// Handler renders the form page with a fixed Checker.
type Handler struct {
	checker *validate.Checker
	views   *templates.Engine
	logger  *zap.Logger
}

// New boots the page templates. A nil checker uses validate.DefaultPolicy.
func New(checker *validate.Checker, logger *zap.Logger) (*Handler, error) {
	if checker == nil {
		checker = validate.New(validate.DefaultPolicy())
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	views := templates.New(templates.Set{
		Name:     "webform",
		FS:       templateFS,
		Patterns: []string{"templates/*.gohtml"},
	})
	if err := views.Boot(logger); err != nil {
		return nil, err
	}
	return &Handler{checker: checker, views: views, logger: logger}, nil
}

// Mount registers the form routes on r.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/", h.index)
	r.With(middleware.RequireForm()).Post("/validate", h.validate)
}

// Ready executes the page template against an empty form. It backs the
// "templates" entry of /health.
func (h *Handler) Ready(context.Context) error {
	return h.views.Render(io.Discard, "index", h.newPage())
}

type page struct {
	Email     string
	Submitted bool
	Valid     bool
	Message   string
	Reason    string
	MinDigits int
	MaxLength int
}

func (h *Handler) newPage() page {
	p := h.checker.Policy()
	return page{MinDigits: p.MinDigits, MaxLength: p.MaxLength}
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	h.views.RenderHTML(w, http.StatusOK, "index", h.newPage())
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.Debug("form parse failed", zap.Error(err))
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}

	// A missing field is checked as the empty string.
	email := r.PostForm.Get("email")
	v := h.checker.Check(email)
	metrics.RecordVerdict(metrics.SurfaceWeb, v)
	h.logger.Debug("email checked",
		zap.Bool("valid", v.Valid),
		zap.String("reason", v.Reason.String()))

	p := h.newPage()
	p.Email = email
	p.Submitted = true
	p.Valid = v.Valid
	p.Message = v.Message
	p.Reason = v.Reason.String()
	h.views.RenderHTML(w, http.StatusOK, "index", p)
}

func parseForm(r *http.Request) error {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		return r.ParseMultipartForm(multipartMemory)
	}
	return r.ParseForm()
}
