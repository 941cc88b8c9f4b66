package domain

import (
	"github.com/shopspring/decimal"
)

// YearRecord represents the complete financial picture for a single
// simulated year. NetCashflow is income minus expenses; sale proceeds are
// reported separately and flow into PortfolioContribution, the amount
// actually distributed across accounts that year.
type YearRecord struct {
	Age                   int             `json:"age"`
	Year                  int             `json:"year"`
	Income                decimal.Decimal `json:"income"`
	Expenses              decimal.Decimal `json:"expenses"`
	NetCashflow           decimal.Decimal `json:"netCashflow"`
	RealEstateSales       decimal.Decimal `json:"realEstateSales"`
	PortfolioContribution decimal.Decimal `json:"portfolioContribution"`
	PortfolioReturnAmount decimal.Decimal `json:"portfolioReturnAmount"`
	PortfolioBalance      decimal.Decimal `json:"portfolioBalance"`
	RealEstateEquity      decimal.Decimal `json:"realEstateEquity"`
	TotalNetWorth         decimal.Decimal `json:"totalNetWorth"`
}

// SuccessMetrics reduces a projection to scalar plan-health numbers.
// FirstDeficitAge is nil when the portfolio never reaches zero.
type SuccessMetrics struct {
	FinalBalance         decimal.Decimal `json:"finalBalance"`
	YearsSolvent         int             `json:"yearsSolvent"`
	FirstDeficitAge      *int            `json:"firstDeficitAge,omitempty"`
	TotalContributions   decimal.Decimal `json:"totalContributions"`
	TotalWithdrawals     decimal.Decimal `json:"totalWithdrawals"`
	TotalInvestmentGains decimal.Decimal `json:"totalInvestmentGains"`
}

// RetirementAge records when an income source's owner stops earning it.
type RetirementAge struct {
	Person        string `json:"person"`
	RetirementAge int    `json:"retirementAge"`
}

// ProjectionResult is the output of one deterministic run: the ordered year
// records plus the derived metrics and retirement ages.
type ProjectionResult struct {
	ScenarioName   string          `json:"scenarioName"`
	Records        []YearRecord    `json:"records"`
	Metrics        SuccessMetrics  `json:"metrics"`
	RetirementAges []RetirementAge `json:"retirementAges"`
}

// FinalRecord returns the last year record, or nil for an empty projection.
func (pr *ProjectionResult) FinalRecord() *YearRecord {
	if len(pr.Records) == 0 {
		return nil
	}
	return &pr.Records[len(pr.Records)-1]
}

// Balances returns the portfolio balance series in age order.
func (pr *ProjectionResult) Balances() []decimal.Decimal {
	balances := make([]decimal.Decimal, len(pr.Records))
	for i, rec := range pr.Records {
		balances[i] = rec.PortfolioBalance
	}
	return balances
}

// Depleted reports whether the portfolio hit zero in any simulated year.
func (pr *ProjectionResult) Depleted() bool {
	return pr.Metrics.FirstDeficitAge != nil
}
