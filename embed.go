package moviewave

import (
	"embed"
	"html/template"
)

//go:embed web/templates/*.html
var templateFiles embed.FS

// GetTemplates parses the embedded view templates.
func GetTemplates() (*template.Template, error) {
	return template.ParseFS(templateFiles, "web/templates/*.html")
}
