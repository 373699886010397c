package stringutil

import (
	"strings"
	"text/template"
)

// Tprintf renders a string from a given template string and field values. An invalid template renders as the
// template text itself.
func Tprintf(tmpl string, data map[string]interface{}) string {
	t, err := template.New("").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return tmpl
	}
	return sb.String()
}
