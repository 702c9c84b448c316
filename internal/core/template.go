package core

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// ExecuteTemplate renders the given content against data, which is usually
// a *RunContext plus the user's vars.
// missingkey=zero keeps optional variables working with Sprig's 'default';
// use Sprig's 'required' for mandatory ones.
func ExecuteTemplate(content string, data interface{}) (string, error) {
	tmpl, err := template.New("layout").Funcs(sprig.TxtFuncMap()).Option("missingkey=zero").Parse(content)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
