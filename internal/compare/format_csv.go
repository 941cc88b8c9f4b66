package compare

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	// Write header
	header := []string{
		"Scenario",
		"Type",
		"Final Balance",
		"Final Net Worth",
		"Years Projected",
		"Years Solvent",
		"First Deficit Age",
		"Total Withdrawals",
		"Balance Diff from Base",
		"Balance % Change",
		"Solvency Diff (Years)",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	// Write base scenario
	if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
		return "", err
	}

	// Write alternative scenarios
	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	deficitAge := ""
	if result.FirstDeficitAge != nil {
		deficitAge = formatInt(*result.FirstDeficitAge)
	}

	return []string{
		result.ScenarioName,
		scenarioType,
		result.FinalBalance.StringFixed(2),
		result.FinalNetWorth.StringFixed(2),
		formatInt(result.YearsProjected),
		formatInt(result.YearsSolvent),
		deficitAge,
		result.TotalWithdrawals.StringFixed(2),
		result.BalanceDiffFromBase.StringFixed(2),
		result.BalancePctFromBase.StringFixed(2),
		formatInt(result.SolvencyDiff),
	}
}

func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}
