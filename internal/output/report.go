package output

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/leekchan/accounting"
	"github.com/mhollis/fincast/internal/calculation"
	"github.com/mhollis/fincast/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Report bundles the artifacts of one run. The deterministic projection is
// present whenever one ran; MonteCarlo carries the stochastic batch when one
// was requested. At least one field must be set.
type Report struct {
	Projection *domain.ProjectionResult      `json:"projection,omitempty"`
	MonteCarlo *calculation.MonteCarloResult `json:"monteCarlo,omitempty"`
}

// ScenarioName returns the name of the scenario the report covers.
func (r *Report) ScenarioName() string {
	if r.Projection != nil {
		return r.Projection.ScenarioName
	}
	if r.MonteCarlo != nil {
		return r.MonteCarlo.ScenarioName
	}
	return ""
}

// ReportGenerator renders reports for human consumption
type ReportGenerator struct{}

// NewReportGenerator creates a new report generator
func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

// GenerateReport renders the report in the named format and writes it to
// stdout
func GenerateReport(report *Report, format string) error {
	formatter := GetFormatterByName(format)
	if formatter == nil {
		return fmt.Errorf("unsupported format: %s", format)
	}
	data, err := formatter.Format(report)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

// GenerateConsoleReport renders the detailed plain-text report
func (rg *ReportGenerator) GenerateConsoleReport(report *Report) ([]byte, error) {
	if report == nil || (report.Projection == nil && report.MonteCarlo == nil) {
		return nil, fmt.Errorf("report has no results")
	}

	var buf bytes.Buffer
	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	fmt.Fprintf(&buf, "FINANCIAL PROJECTION: %s\n", report.ScenarioName())
	fmt.Fprintln(&buf, strings.Repeat("=", 80))
	fmt.Fprintln(&buf)

	if report.Projection != nil {
		rg.writeProjectionSummary(&buf, report.Projection)
	}
	if report.MonteCarlo != nil {
		rg.writeMonteCarloSummary(&buf, report.MonteCarlo)
	}

	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, assumption := range DefaultAssumptions {
		fmt.Fprintf(&buf, "• %s\n", assumption)
	}

	return buf.Bytes(), nil
}

func (rg *ReportGenerator) writeProjectionSummary(buf *bytes.Buffer, result *domain.ProjectionResult) {
	records := result.Records
	if len(records) == 0 {
		fmt.Fprintln(buf, "No projected years.")
		fmt.Fprintln(buf)
		return
	}
	first := records[0]
	last := records[len(records)-1]
	metrics := result.Metrics

	fmt.Fprintln(buf, "PLAN SUMMARY")
	fmt.Fprintln(buf, "------------")
	fmt.Fprintf(buf, "  Years Projected:      %d (ages %d-%d)\n", len(records), first.Age, last.Age)
	fmt.Fprintf(buf, "  Final Balance:        %s\n", FormatCurrency(metrics.FinalBalance))
	fmt.Fprintf(buf, "  Final Net Worth:      %s\n", FormatCurrency(last.TotalNetWorth))
	fmt.Fprintf(buf, "  Years Solvent:        %d of %d\n", metrics.YearsSolvent, len(records))
	if metrics.FirstDeficitAge != nil {
		fmt.Fprintf(buf, "  First Deficit Age:    %d\n", *metrics.FirstDeficitAge)
	} else {
		fmt.Fprintf(buf, "  First Deficit Age:    never\n")
	}
	fmt.Fprintf(buf, "  Total Contributions:  %s\n", FormatCurrency(metrics.TotalContributions))
	fmt.Fprintf(buf, "  Total Withdrawals:    %s\n", FormatCurrency(metrics.TotalWithdrawals))
	fmt.Fprintf(buf, "  Investment Gains:     %s\n", FormatCurrency(metrics.TotalInvestmentGains))
	fmt.Fprintln(buf)

	if len(result.RetirementAges) > 0 {
		fmt.Fprintln(buf, "RETIREMENT AGES")
		fmt.Fprintln(buf, "---------------")
		for _, entry := range result.RetirementAges {
			fmt.Fprintf(buf, "  %-20s %d\n", entry.Person+":", entry.RetirementAge)
		}
		fmt.Fprintln(buf)
	}

	fmt.Fprintln(buf, "MILESTONES")
	fmt.Fprintf(buf, "  %-4s %-6s %14s %14s %14s %14s\n",
		"Age", "Year", "Income", "Expenses", "Portfolio", "Net Worth")
	for i, record := range records {
		// Every fifth year plus the final one.
		if i%5 != 0 && i != len(records)-1 {
			continue
		}
		fmt.Fprintf(buf, "  %-4d %-6d %14s %14s %14s %14s\n",
			record.Age, record.Year,
			FormatCurrency(record.Income), FormatCurrency(record.Expenses),
			FormatCurrency(record.PortfolioBalance), FormatCurrency(record.TotalNetWorth))
	}
	fmt.Fprintln(buf)
}

func (rg *ReportGenerator) writeMonteCarloSummary(buf *bytes.Buffer, result *calculation.MonteCarloResult) {
	fmt.Fprintf(buf, "MONTE CARLO ANALYSIS (%d trials, seed %d)\n", result.NumTrials, result.Seed)
	fmt.Fprintln(buf, strings.Repeat("-", 45))
	fmt.Fprintf(buf, "  Success Rate:         %s\n", FormatPercent(result.SuccessRate))

	stats := result.FinalBalanceStats
	fmt.Fprintf(buf, "  Final Balance (mean): %s\n", FormatCurrency(stats.Mean))
	fmt.Fprintf(buf, "  Final Balance (med):  %s\n", FormatCurrency(stats.Median))
	fmt.Fprintf(buf, "  Std Deviation:        %s\n", FormatCurrency(stats.StdDev))
	fmt.Fprintf(buf, "  Range:                %s to %s\n", FormatCurrency(stats.Min), FormatCurrency(stats.Max))
	fmt.Fprintf(buf, "  90%% Band:             %s to %s\n", FormatCurrency(stats.P5), FormatCurrency(stats.P95))

	depletion := result.Depletion
	if depletion.DepletionRate.IsZero() {
		fmt.Fprintln(buf, "  Depletion:            no trial ran out of money")
	} else {
		fmt.Fprintf(buf, "  Depletion:            %s of trials", FormatPercent(depletion.DepletionRate))
		if depletion.MedianAge != nil {
			fmt.Fprintf(buf, ", median age %.0f", *depletion.MedianAge)
		}
		if depletion.EarliestAge != nil && depletion.LatestAge != nil {
			fmt.Fprintf(buf, " (earliest %d, latest %d)", *depletion.EarliestAge, *depletion.LatestAge)
		}
		fmt.Fprintln(buf)
	}
	fmt.Fprintln(buf)

	if len(result.PercentilesByAge) == 0 {
		return
	}
	fmt.Fprintln(buf, "PORTFOLIO BALANCE PERCENTILES")
	fmt.Fprintf(buf, "  %-4s %14s %14s %14s %14s %14s\n", "Age", "P5", "P25", "P50", "P75", "P95")
	firstAge := result.PercentilesByAge[0].Age
	for i, band := range result.PercentilesByAge {
		// One row per decade plus the final age.
		if (band.Age-firstAge)%10 != 0 && i != len(result.PercentilesByAge)-1 {
			continue
		}
		fmt.Fprintf(buf, "  %-4d %14s %14s %14s %14s %14s\n", band.Age,
			FormatCurrency(band.P5), FormatCurrency(band.P25), FormatCurrency(band.P50),
			FormatCurrency(band.P75), FormatCurrency(band.P95))
	}
	fmt.Fprintln(buf)
}

// SavePlanInput writes a plan input document to a YAML file
func SavePlanInput(input *domain.PlanInput, filename string) error {
	data, err := yaml.Marshal(input)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0644)
}

var usd = accounting.Accounting{Symbol: "$", Precision: 2}

// FormatCurrency formats a monetary amount with symbol and separators
func FormatCurrency(amount decimal.Decimal) string {
	return usd.FormatMoney(amount)
}

// FormatPercent formats a fractional rate as a percentage, 0.924 -> "92.4%"
func FormatPercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
