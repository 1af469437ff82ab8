// Package view holds the server-rendered HTML pages. Every page is a named
// template ("home", "class", ...) rendered through gin's HTML renderer.
package view

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/grvup/classroom/internal/model"
)

//go:embed templates/*.html
var files embed.FS

// Funcs helpers available to every page
var Funcs = template.FuncMap{
	"fullName": func(s model.Student) string { return s.FullName() },
	"percent":  func(p int) string { return fmt.Sprintf("%d%%", p) },
}

// Templates parses the embedded page set
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs).ParseFS(files, "templates/*.html")
}
