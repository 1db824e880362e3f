// templates/engine.go
package templates

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Set names an embedded filesystem and the glob patterns to load from it.
type Set struct {
	Name     string
	FS       fs.FS
	Patterns []string
}

// Engine parses every registered Set into one template tree and renders
// named templates from it. Rendering is buffered so a failed execution
// never leaves a half-written page.
type Engine struct {
	mu     sync.RWMutex
	funcs  template.FuncMap
	root   *template.Template
	sets   []Set
	logger *zap.Logger
}

// New returns an Engine with the default helper funcs.
func New(sets ...Set) *Engine {
	return &Engine{
		funcs: Funcs(),
		sets:  sets,
	}
}

// Funcs returns helpers available to all templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		// {{ plural 1 }} -> "", {{ plural 3 }} -> "s"
		"plural": func(n int) string {
			if n == 1 {
				return ""
			}
			return "s"
		},
	}
}

// Boot parses all sets. It must run before Render.
func (e *Engine) Boot(logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	e.logger = logger

	if len(e.sets) == 0 {
		return errors.New("templates: no sets to boot")
	}

	root := template.New("root").Funcs(e.funcs)
	for _, s := range e.sets {
		files, err := globAll(s.FS, s.Patterns)
		if err != nil {
			return fmt.Errorf("set %q: %w", s.Name, err)
		}
		if len(files) == 0 {
			logger.Warn("no templates matched", zap.String("set", s.Name))
			continue
		}
		for _, path := range files {
			src, err := fs.ReadFile(s.FS, path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			if _, err := root.Parse(string(src)); err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
		}
		logger.Debug("template set compiled",
			zap.String("set", s.Name),
			zap.Int("files", len(files)))
	}

	e.mu.Lock()
	e.root = root
	e.mu.Unlock()
	return nil
}

// Render executes the template called name with data into w.
func (e *Engine) Render(w io.Writer, name string, data any) error {
	e.mu.RLock()
	root := e.root
	e.mu.RUnlock()
	if root == nil {
		return errors.New("templates: engine not booted")
	}
	t := root.Lookup(name)
	if t == nil {
		return fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// globAll expands patterns in stable order without duplicates.
func globAll(fsys fs.FS, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, pat := range patterns {
		matches, err := fs.Glob(fsys, pat)
		if err != nil {
			return nil, err
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}
