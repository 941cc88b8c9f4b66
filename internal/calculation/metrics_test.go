package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhollis/fincast/internal/domain"
)

func TestCalculateSuccessMetrics_Empty(t *testing.T) {
	metrics := CalculateSuccessMetrics(nil)

	assert.True(t, metrics.FinalBalance.IsZero())
	assert.Equal(t, 0, metrics.YearsSolvent)
	assert.Nil(t, metrics.FirstDeficitAge)
	assert.True(t, metrics.TotalContributions.IsZero())
	assert.True(t, metrics.TotalWithdrawals.IsZero())
	assert.True(t, metrics.TotalInvestmentGains.IsZero())
}

func TestCalculateSuccessMetrics_TracksDeficitAndTotals(t *testing.T) {
	records := []domain.YearRecord{
		{Age: 60, PortfolioBalance: decimal.NewFromInt(100), PortfolioContribution: decimal.NewFromInt(40), PortfolioReturnAmount: decimal.NewFromInt(5)},
		{Age: 61, PortfolioBalance: decimal.Zero, PortfolioContribution: decimal.NewFromInt(-70), PortfolioReturnAmount: decimal.NewFromInt(2)},
		{Age: 62, PortfolioBalance: decimal.NewFromInt(30), PortfolioContribution: decimal.NewFromInt(30), PortfolioReturnAmount: decimal.Zero},
		{Age: 63, PortfolioBalance: decimal.Zero, PortfolioContribution: decimal.NewFromInt(-50), PortfolioReturnAmount: decimal.NewFromInt(-3)},
	}

	metrics := CalculateSuccessMetrics(records)

	assert.True(t, metrics.FinalBalance.IsZero())
	assert.Equal(t, 2, metrics.YearsSolvent, "Ages 60 and 62 end solvent")
	require.NotNil(t, metrics.FirstDeficitAge)
	assert.Equal(t, 61, *metrics.FirstDeficitAge, "First zero-balance year wins even when a later year recovers")
	assert.True(t, metrics.TotalContributions.Equal(decimal.NewFromInt(70)))
	assert.True(t, metrics.TotalWithdrawals.Equal(decimal.NewFromInt(120)))
	assert.True(t, metrics.TotalInvestmentGains.Equal(decimal.NewFromInt(4)))
}

func TestCalculateSuccessMetrics_AllSolvent(t *testing.T) {
	records := []domain.YearRecord{
		{Age: 40, PortfolioBalance: decimal.NewFromInt(500), PortfolioContribution: decimal.NewFromInt(10), PortfolioReturnAmount: decimal.NewFromInt(25)},
		{Age: 41, PortfolioBalance: decimal.NewFromInt(600), PortfolioContribution: decimal.NewFromInt(10), PortfolioReturnAmount: decimal.NewFromInt(30)},
	}

	metrics := CalculateSuccessMetrics(records)

	assert.True(t, metrics.FinalBalance.Equal(decimal.NewFromInt(600)))
	assert.Equal(t, 2, metrics.YearsSolvent)
	assert.Nil(t, metrics.FirstDeficitAge, "No deficit when every balance is positive")
	assert.True(t, metrics.TotalWithdrawals.IsZero())
}

func TestRetirementAges(t *testing.T) {
	scenario := &domain.Scenario{
		IncomeSources: []domain.IncomeSource{
			{Name: "Salary", Owner: "Alex", EndAge: 65},
			{Name: "Consulting", Owner: "Sam", EndAge: 58},
		},
	}

	ages := RetirementAges(scenario)

	require.Len(t, ages, 2)
	assert.Equal(t, domain.RetirementAge{Person: "Alex", RetirementAge: 65}, ages[0])
	assert.Equal(t, domain.RetirementAge{Person: "Sam", RetirementAge: 58}, ages[1])
}

func TestRetirementAges_Empty(t *testing.T) {
	assert.Nil(t, RetirementAges(nil))
	assert.Nil(t, RetirementAges(&domain.Scenario{}))
}
