package compare

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mhollis/fincast/internal/domain"
	"github.com/shopspring/decimal"
)

func buildTestComparisonSet() *ComparisonSet {
	deficitAge := 85

	return &ComparisonSet{
		BaseScenarioName: "Full Career",
		ConfigPath:       "plans/base.yaml",
		BaseResult: &ComparisonResult{
			ScenarioName:     "Full Career",
			FinalBalance:     decimal.NewFromInt(500000),
			FinalNetWorth:    decimal.NewFromInt(1250000),
			YearsProjected:   51,
			YearsSolvent:     51,
			TotalWithdrawals: decimal.NewFromInt(800000),
		},
		AlternativeResults: []ComparisonResult{
			{
				ScenarioName:         "Full Career_retire_1yr_later",
				Description:          "Postpone retirement by 1 year",
				FinalBalance:         decimal.NewFromInt(600000),
				FinalNetWorth:        decimal.NewFromInt(1400000),
				YearsProjected:       51,
				YearsSolvent:         45,
				FirstDeficitAge:      &deficitAge,
				TotalWithdrawals:     decimal.NewFromInt(780000),
				BalanceDiffFromBase:  decimal.NewFromInt(100000),
				BalancePctFromBase:   decimal.NewFromInt(20),
				NetWorthDiffFromBase: decimal.NewFromInt(150000),
				SolvencyDiff:         -6,
			},
		},
		Recommendations: []string{
			"Best Balance: Full Career_retire_1yr_later ends with $100000 more than the base plan",
		},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	formatter := &TableFormatter{}

	result := formatter.Format(buildTestComparisonSet())

	if result == "" {
		t.Fatal("Expected formatted output, got empty string")
	}

	// Check that key elements are present
	if !strings.Contains(result, "SCENARIO COMPARISON") {
		t.Error("Expected header in output")
	}

	if !strings.Contains(result, "Base Scenario: Full Career") {
		t.Error("Expected base scenario name in output")
	}

	if !strings.Contains(result, "Plan File:     plans/base.yaml") {
		t.Error("Expected plan file path in output")
	}

	if !strings.Contains(result, "Full Career (base)") {
		t.Error("Expected base marker in table")
	}

	// 28-character variant name gets truncated to the name column
	if !strings.Contains(result, "Full Career_retire_1yr...") {
		t.Error("Expected truncated alternative name in table")
	}

	// Balances compact to K/M notation
	if !strings.Contains(result, "$500.0K") {
		t.Error("Expected compacted base balance in output")
	}

	if !strings.Contains(result, "$1.25M") {
		t.Error("Expected compacted net worth in output")
	}

	if !strings.Contains(result, "51 of 51 yrs") {
		t.Error("Expected solvency column in output")
	}

	if !strings.Contains(result, "age 85") {
		t.Error("Expected first deficit age in output")
	}

	if !strings.Contains(result, "never") {
		t.Error("Expected 'never' for the base deficit column")
	}

	if !strings.Contains(result, "COMPARISON TO BASE") {
		t.Error("Expected comparison section")
	}

	if !strings.Contains(result, "+$100.0K (20.0%)") {
		t.Error("Expected balance delta in comparison section")
	}

	if !strings.Contains(result, "Solvency:       -6 years") {
		t.Error("Expected solvency delta in comparison section")
	}

	if !strings.Contains(result, "Net Worth:      +$150.0K") {
		t.Error("Expected net worth delta in comparison section")
	}

	if !strings.Contains(result, "Postpone retirement by 1 year") {
		t.Error("Expected variant description in comparison section")
	}

	if !strings.Contains(result, "RECOMMENDATIONS") {
		t.Error("Expected recommendations section")
	}
}

func TestTableFormatter_Format_EmptyAlternatives(t *testing.T) {
	formatter := &TableFormatter{}

	compSet := buildTestComparisonSet()
	compSet.AlternativeResults = []ComparisonResult{}
	compSet.Recommendations = []string{}

	result := formatter.Format(compSet)

	if result == "" {
		t.Fatal("Expected formatted output, got empty string")
	}

	// Should still have header and base scenario
	if !strings.Contains(result, "SCENARIO COMPARISON") {
		t.Error("Expected header in output")
	}

	if !strings.Contains(result, "Full Career (base)") {
		t.Error("Expected base scenario in table")
	}

	// Should not have comparison or recommendations sections
	if strings.Contains(result, "COMPARISON TO BASE") {
		t.Error("Should not have comparison section without alternatives")
	}

	if strings.Contains(result, "RECOMMENDATIONS") {
		t.Error("Should not have recommendations section when empty")
	}
}

func TestTableFormatter_Format_NoConfigPath(t *testing.T) {
	formatter := &TableFormatter{}

	compSet := buildTestComparisonSet()
	compSet.ConfigPath = ""

	result := formatter.Format(compSet)

	if strings.Contains(result, "Plan File:") {
		t.Error("Should not print a plan file line without a path")
	}
}

func TestTableFormatter_formatRow(t *testing.T) {
	formatter := &TableFormatter{}

	result := &ComparisonResult{
		ScenarioName:   "Test Plan",
		FinalBalance:   decimal.NewFromInt(500000),
		FinalNetWorth:  decimal.NewFromInt(750000),
		YearsProjected: 30,
		YearsSolvent:   30,
	}

	// Test base scenario row
	baseRow := formatter.formatRow(result, 25, 13, true)
	if !strings.Contains(baseRow, "Test Plan (base)") {
		t.Errorf("Expected base marker in row, got %q", baseRow)
	}

	// Test alternative scenario row
	altRow := formatter.formatRow(result, 25, 13, false)
	if strings.Contains(altRow, "(base)") {
		t.Errorf("Unexpected base marker in alternative row: %q", altRow)
	}

	if !strings.Contains(altRow, "30 of 30 yrs") {
		t.Errorf("Expected solvency column in row, got %q", altRow)
	}

	if !strings.Contains(altRow, "never") {
		t.Errorf("Expected 'never' deficit column in row, got %q", altRow)
	}
}

func TestTableFormatter_formatDecimal(t *testing.T) {
	formatter := &TableFormatter{}

	cases := []struct {
		value    int64
		expected string
	}{
		{500, "500"},
		{1500, "1.5K"},
		{250000, "250.0K"},
		{1250000, "1.25M"},
		{-75000, "-75.0K"},
	}

	for _, tc := range cases {
		got := formatter.formatDecimal(decimal.NewFromInt(tc.value))
		if got != tc.expected {
			t.Errorf("formatDecimal(%d): expected %s, got %s", tc.value, tc.expected, got)
		}
	}
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	formatter := &TableFormatter{}

	result := formatter.FormatCompact(buildTestComparisonSet())

	if !strings.Contains(result, "Base: Full Career | ") {
		t.Errorf("Expected base prefix, got %q", result)
	}

	if !strings.Contains(result, "Full Career_retire_1yr_later: +$100.0K") {
		t.Errorf("Expected alternative delta, got %q", result)
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	formatter := &CSVFormatter{}

	result, err := formatter.Format(buildTestComparisonSet())

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	reader := csv.NewReader(strings.NewReader(result))
	rows, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}

	// Header + base + one alternative
	if len(rows) != 3 {
		t.Fatalf("Expected 3 CSV rows, got %d", len(rows))
	}

	if rows[0][0] != "Scenario" || rows[0][2] != "Final Balance" {
		t.Errorf("Unexpected CSV header: %v", rows[0])
	}

	if rows[1][0] != "Full Career" || rows[1][1] != "base" {
		t.Errorf("Unexpected base row: %v", rows[1])
	}

	if rows[1][2] != "500000.00" {
		t.Errorf("Expected base balance 500000.00, got %s", rows[1][2])
	}

	// Base never hits a deficit, so the age column is empty
	if rows[1][6] != "" {
		t.Errorf("Expected empty deficit age for base, got %s", rows[1][6])
	}

	if rows[2][1] != "alternative" {
		t.Errorf("Expected alternative type, got %s", rows[2][1])
	}

	if rows[2][6] != "85" {
		t.Errorf("Expected deficit age 85, got %s", rows[2][6])
	}

	if rows[2][10] != "-6" {
		t.Errorf("Expected solvency diff -6, got %s", rows[2][10])
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	formatter := &JSONFormatter{}

	result, err := formatter.Format(buildTestComparisonSet())

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(result), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if decoded["baseScenarioName"] != "Full Career" {
		t.Errorf("Expected baseScenarioName 'Full Career', got %v", decoded["baseScenarioName"])
	}

	if !strings.Contains(result, "\"alternativeResults\"") {
		t.Error("Expected alternativeResults field in JSON")
	}

	if !strings.Contains(result, "\"recommendations\"") {
		t.Error("Expected recommendations field in JSON")
	}

	// Compact by default
	if strings.Contains(result, "\n") {
		t.Error("Expected compact JSON without newlines")
	}
}

func TestJSONFormatter_Format_Pretty(t *testing.T) {
	formatter := &JSONFormatter{Pretty: true}

	result, err := formatter.Format(buildTestComparisonSet())

	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(result, "\n  \"baseScenarioName\"") {
		t.Error("Expected indented JSON output")
	}
}

func TestJSONFormatter_Format_OmitProjections(t *testing.T) {
	compSet := buildTestComparisonSet()
	compSet.BaseResult.Projection = &domain.ProjectionResult{
		ScenarioName: "Full Career",
		Records: []domain.YearRecord{
			{Age: 40, Year: 2025, PortfolioBalance: decimal.NewFromInt(300000)},
		},
	}

	formatter := &JSONFormatter{OmitProjections: true}

	result, err := formatter.Format(compSet)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if strings.Contains(result, "\"records\"") {
		t.Error("Expected projections to be stripped from JSON")
	}

	// The caller's result set keeps its projection
	if compSet.BaseResult.Projection == nil {
		t.Error("Stripping projections must not mutate the input")
	}

	withProjections, err := (&JSONFormatter{}).Format(compSet)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.Contains(withProjections, "\"records\"") {
		t.Error("Expected projections in JSON when not omitted")
	}
}
