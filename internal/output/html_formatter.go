package output

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"time"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercent,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || (report.Projection == nil && report.MonteCarlo == nil) {
		return nil, fmt.Errorf("report has no results")
	}

	var buf bytes.Buffer
	data := struct {
		*Report
		Title       string
		GeneratedAt string
		Assumptions []string
	}{report, report.ScenarioName(), time.Now().Format("2006-01-02 15:04"), DefaultAssumptions}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
