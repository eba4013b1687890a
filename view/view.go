// Package view renders the embedded html/template documents with the shared helpers.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"sync"

	"github.com/diewo77/invoice-builder/i18n"
)

//go:embed templates/*.html
var files embed.FS

var tplCache = struct {
	sync.RWMutex
	m map[string]*template.Template
}{m: map[string]*template.Template{}}

// Funcs returns the standard func map for lang: translations and small helpers.
func Funcs(lang string) template.FuncMap {
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
		// lines splits multi-line text such as addresses.
		"lines": func(s string) []string {
			var out []string
			for _, l := range strings.Split(s, "\n") {
				if l = strings.TrimSpace(l); l != "" {
					out = append(out, l)
				}
			}
			return out
		},
		// dict creates a map from key-value pairs for passing to sub-templates.
		// Usage: {{ template "partial" (dict "Key1" val1 "Key2" val2) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					continue
				}
				m[key] = values[i+1]
			}
			return m
		},
	}
}

func load(name, lang string) (*template.Template, error) {
	key := lang + "/" + name
	tplCache.RLock()
	t, ok := tplCache.m[key]
	tplCache.RUnlock()
	if ok {
		return t, nil
	}
	t, err := template.New(name).Funcs(Funcs(lang)).ParseFS(files, "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	tplCache.Lock()
	tplCache.m[key] = t
	tplCache.Unlock()
	return t, nil
}

// Render executes the embedded template name (e.g. "invoice.html") into w.
func Render(w io.Writer, name, lang string, data any) error {
	t, err := load(name, lang)
	if err != nil {
		return err
	}
	return t.Execute(w, data)
}

// RenderString is Render into a string.
func RenderString(name, lang string, data any) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, name, lang, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
