// Package templates embeds the dashboard page templates
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed *.tmpl auth/*.tmpl dashboard/*.tmpl components/*.tmpl
var files embed.FS

var patterns = []string{
	"base.tmpl",
	"auth/*.tmpl",
	"dashboard/*.tmpl",
	"components/*.tmpl",
}

// Load parses every embedded template with the shared function map
func Load() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(FuncMap()).ParseFS(files, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// FuncMap returns the helpers available to page templates
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.Format("15:04")
		},
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"div": func(a, b int) int {
			if b == 0 {
				return 0
			}
			return a / b
		},
		// Gradients come from the service catalog and the app list
		"safeCSS": func(s string) template.CSS {
			return template.CSS(s)
		},
		"percent": func(used, limit int) int {
			if limit <= 0 {
				return 100
			}
			return min(used*100/limit, 100)
		},
	}
}
