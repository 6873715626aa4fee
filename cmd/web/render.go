package main

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"
)

//go:embed templates
var templatesFS embed.FS

var funcs = template.FuncMap{
	"when": func(t time.Time) string { return t.Local().Format("2006-01-02 15:04") },
	"deref": func(n *int) int {
		if n == nil {
			return 0
		}
		return *n
	},
}

// renderer holds one parsed template set per page. Pages other than
// login.html are wrapped in layout.html.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer(fsys fs.FS) (*renderer, error) {
	names, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, err
	}
	rd := &renderer{pages: make(map[string]*template.Template)}
	for _, path := range names {
		name := path[len("templates/"):]
		if name == "layout.html" {
			continue
		}
		files := []string{"templates/layout.html", path}
		if name == "login.html" {
			files = []string{path}
		}
		t, err := template.New(name).Funcs(funcs).ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		rd.pages[name] = t
	}
	return rd, nil
}

func (rd *renderer) render(w http.ResponseWriter, status int, name string, data map[string]any) {
	t, ok := rd.pages[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	root := "layout"
	if name == "login.html" {
		root = "login"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, root, data); err != nil {
		slog.Error("template execute", "template", name, "error", err)
	}
}
