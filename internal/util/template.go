// Package util holds small internal helpers shared by agents.
package util

import (
	"bytes"
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"default": func(defaultVal any, val any) any {
		if val == nil || val == "" || val == 0 {
			return defaultVal
		}
		return val
	},
	"join": func(sep string, items []string) string {
		return strings.Join(items, sep)
	},
}

// MustParse compiles a prompt template at package init time.
func MustParse(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text))
}

// Render executes tmpl with data and trims surrounding whitespace.
func Render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

