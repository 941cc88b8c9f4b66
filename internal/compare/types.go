package compare

import (
	"fmt"

	"github.com/mhollis/fincast/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult is one plan variant reduced to the metrics the comparison
// table trades in.
type ComparisonResult struct {
	ScenarioName string                   `json:"scenarioName"`
	Description  string                   `json:"description,omitempty"`
	Projection   *domain.ProjectionResult `json:"projection,omitempty"`

	// Key metrics
	FinalBalance     decimal.Decimal `json:"finalBalance"`
	FinalNetWorth    decimal.Decimal `json:"finalNetWorth"`
	YearsProjected   int             `json:"yearsProjected"`
	YearsSolvent     int             `json:"yearsSolvent"`
	FirstDeficitAge  *int            `json:"firstDeficitAge,omitempty"`
	TotalWithdrawals decimal.Decimal `json:"totalWithdrawals"`

	// Comparison to base
	BalanceDiffFromBase  decimal.Decimal `json:"balanceDiffFromBase"`
	BalancePctFromBase   decimal.Decimal `json:"balancePctFromBase"`
	NetWorthDiffFromBase decimal.Decimal `json:"netWorthDiffFromBase"`
	SolvencyDiff         int             `json:"solvencyDiff"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath"`
}

// MetricsCalculator extracts key metrics from projection results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics reduces a projection to its comparison metrics
func (mc *MetricsCalculator) CalculateMetrics(projection *domain.ProjectionResult) ComparisonResult {
	result := ComparisonResult{
		ScenarioName:     projection.ScenarioName,
		Projection:       projection,
		FinalBalance:     projection.Metrics.FinalBalance,
		YearsProjected:   len(projection.Records),
		YearsSolvent:     projection.Metrics.YearsSolvent,
		FirstDeficitAge:  projection.Metrics.FirstDeficitAge,
		TotalWithdrawals: projection.Metrics.TotalWithdrawals,
	}

	if last := projection.FinalRecord(); last != nil {
		result.FinalNetWorth = last.TotalNetWorth
	}

	return result
}

// CalculateComparison fills in the deltas between a variant and the base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.BalanceDiffFromBase = scenario.FinalBalance.Sub(base.FinalBalance)

	if !base.FinalBalance.IsZero() {
		scenario.BalancePctFromBase = scenario.BalanceDiffFromBase.
			Div(base.FinalBalance).
			Mul(decimal.NewFromInt(100))
	}

	scenario.NetWorthDiffFromBase = scenario.FinalNetWorth.Sub(base.FinalNetWorth)
	scenario.SolvencyDiff = scenario.YearsSolvent - base.YearsSolvent

	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	// Find best scenario by final balance
	bestBalance := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.FinalBalance.GreaterThan(bestBalance.FinalBalance) {
			bestBalance = alt
		}
	}

	if bestBalance != compSet.BaseResult {
		balanceDiff := bestBalance.FinalBalance.Sub(compSet.BaseResult.FinalBalance)
		recommendations = append(recommendations,
			"Best Balance: "+bestBalance.ScenarioName+" ends with $"+balanceDiff.StringFixed(0)+
				" more than the base plan")
	}

	// Find the longest-solvent variant
	mostDurable := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.YearsSolvent > mostDurable.YearsSolvent {
			mostDurable = alt
		}
	}

	if mostDurable != compSet.BaseResult {
		yearsDiff := mostDurable.YearsSolvent - compSet.BaseResult.YearsSolvent
		recommendations = append(recommendations,
			"Most Durable: "+mostDurable.ScenarioName+" stays solvent "+
				fmt.Sprintf("%d more years", yearsDiff))
	}

	// Find the lightest portfolio drawdown
	lightestDraw := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.TotalWithdrawals.LessThan(lightestDraw.TotalWithdrawals) {
			lightestDraw = alt
		}
	}

	if lightestDraw != compSet.BaseResult {
		drawSavings := compSet.BaseResult.TotalWithdrawals.Sub(lightestDraw.TotalWithdrawals)
		recommendations = append(recommendations,
			"Lightest Drawdown: "+lightestDraw.ScenarioName+" withdraws $"+drawSavings.StringFixed(0)+
				" less from the portfolio")
	}

	return recommendations
}
