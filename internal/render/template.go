package render

import (
	_ "embed"
	"html/template"
	"strings"
)

//go:embed widget.html
var widgetHTML string

var widgetTemplate = template.Must(template.New("widget").Parse(widgetHTML))

// RenderHTML expands the embedded widget template with the given bindings.
func RenderHTML(b *Bindings) (string, error) {
	var sb strings.Builder
	if err := widgetTemplate.Execute(&sb, b); err != nil {
		return "", err
	}
	return sb.String(), nil
}
