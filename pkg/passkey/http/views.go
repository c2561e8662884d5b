// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-passkey-server.
//
// go-passkey-server is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package http

import (
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static/*
var staticFiles embed.FS

// ViewData is the model passed to page templates.
type ViewData struct {
	Title   string
	Message string
}

// Views renders the demo pages from embedded templates. Each page template
// fills the shared layout.
type Views struct {
	pages map[string]*template.Template
}

// NewViews parses the embedded templates.
func NewViews() *Views {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"home", "register", "authenticate"} {
		pages[name] = template.Must(template.ParseFS(templateFiles,
			"templates/layout.html", "templates/"+name+".html"))
	}
	return &Views{pages: pages}
}

// Render writes the named page to the response.
func (v *Views) Render(w http.ResponseWriter, logger *slog.Logger, name string, data ViewData) {
	page, ok := v.pages[name]
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.ExecuteTemplate(w, "layout.html", data); err != nil {
		logger.Error("failed to render view", "view", name, "error", err)
	}
}

// StaticHandler serves the embedded client assets under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
