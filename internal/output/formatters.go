package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Formatter renders a report for one output target.
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(report *Report) ([]byte, error)
}

func (ff FormatterFunc) Name() string { return ff.ID }

func (ff FormatterFunc) Format(report *Report) ([]byte, error) { return ff.F(report) }

// GetFormatterByName returns the formatter registered under the given name,
// or nil for an unknown name.
func GetFormatterByName(name string) Formatter {
	switch name {
	case "console":
		return ConsoleFormatter{}
	case "json":
		return JSONFormatter{}
	case "csv":
		return CSVFormatter{}
	case "html":
		return HTMLFormatter{}
	default:
		return nil
	}
}

// AvailableFormatterNames lists the names GetFormatterByName accepts.
func AvailableFormatterNames() []string {
	return []string{"console", "json", "csv", "html"}
}

// WriteFormatted renders the report and writes it to a timestamped file in
// the working directory, returning the filename.
func WriteFormatted(formatter Formatter, report *Report, extension string) (string, error) {
	data, err := formatter.Format(report)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("fincast_report_%s.%s", time.Now().Format("20060102_150405"), extension)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// ConsoleFormatter renders the detailed plain-text report via the pluggable
// interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	return NewReportGenerator().GenerateConsoleReport(report)
}

// JSONFormatter emits the full report as indented JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *Report) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// CSVFormatter emits the year-by-year projection, one row per projected year.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Projection == nil {
		return nil, fmt.Errorf("csv output requires a projection")
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Age", "Year", "Income", "Expenses", "NetCashflow", "RealEstateSales",
		"PortfolioContribution", "PortfolioReturn", "PortfolioBalance",
		"RealEstateEquity", "TotalNetWorth",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, record := range report.Projection.Records {
		row := []string{
			strconv.Itoa(record.Age),
			strconv.Itoa(record.Year),
			record.Income.StringFixed(2),
			record.Expenses.StringFixed(2),
			record.NetCashflow.StringFixed(2),
			record.RealEstateSales.StringFixed(2),
			record.PortfolioContribution.StringFixed(2),
			record.PortfolioReturnAmount.StringFixed(2),
			record.PortfolioBalance.StringFixed(2),
			record.RealEstateEquity.StringFixed(2),
			record.TotalNetWorth.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
