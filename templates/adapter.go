// templates/adapter.go
package templates

import (
	"net/http"

	"go.uber.org/zap"
)

// RenderHTML writes the named template as an HTML page with the given status.
// A render failure becomes a plain 500 and is logged; the template output is
// buffered, so nothing partial reaches the client.
func (e *Engine) RenderHTML(w http.ResponseWriter, status int, name string, data any) {
	var buf bufferWriter
	if err := e.Render(&buf, name, data); err != nil {
		e.log().Error("template render failed", zap.String("name", name), zap.Error(err))
		http.Error(w, "template exec error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(buf.b)
}

func (e *Engine) log() *zap.Logger {
	if e.logger == nil {
		return zap.NewNop()
	}
	return e.logger
}

type bufferWriter struct{ b []byte }

func (w *bufferWriter) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}
