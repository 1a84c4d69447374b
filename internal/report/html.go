package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/spf13/afero"
)

//go:embed report.html.tmpl
var htmlSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"status": Status,
	"lower":  strings.ToLower,
	"float1": formatFloat1,
}).Parse(htmlSource))

// htmlView is the data handed to the page template.
type htmlView struct {
	*Report
	Generated string
}

// RenderHTML renders the report as a self-contained HTML page. Unit paths
// and error text are escaped by html/template.
func RenderHTML(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	view := htmlView{Report: r, Generated: r.Started.Format(TimestampLayout)}
	if err := htmlTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteHTML writes the HTML report to path.
func WriteHTML(fs afero.Fs, path string, r *Report) error {
	data, err := RenderHTML(r)
	if err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write HTML report: %w", err)
	}
	return nil
}
