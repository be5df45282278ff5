package web

import (
	"embed"         // Templates compiled into the binary
	"html/template" // Escaping happens here, at render time
	"strconv"       // Number formatting
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"money": formatMoney, // Two decimal places
	}).ParseFS(templatesFS, "templates/*.html")
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
