package calculation

import (
	"github.com/mhollis/fincast/internal/domain"
)

// CalculateSuccessMetrics reduces a projection's records to headline
// solvency numbers. A year is solvent when its end-of-year portfolio
// balance is positive; the first deficit age is the age of the first
// record whose balance has hit zero, even if later years recover.
func CalculateSuccessMetrics(records []domain.YearRecord) domain.SuccessMetrics {
	metrics := domain.SuccessMetrics{
		FinalBalance:         decimalZero,
		TotalContributions:   decimalZero,
		TotalWithdrawals:     decimalZero,
		TotalInvestmentGains: decimalZero,
	}
	if len(records) == 0 {
		return metrics
	}

	metrics.FinalBalance = records[len(records)-1].PortfolioBalance

	for _, record := range records {
		if record.PortfolioBalance.GreaterThan(decimalZero) {
			metrics.YearsSolvent++
		} else if metrics.FirstDeficitAge == nil {
			age := record.Age
			metrics.FirstDeficitAge = &age
		}

		if record.PortfolioContribution.GreaterThan(decimalZero) {
			metrics.TotalContributions = metrics.TotalContributions.Add(record.PortfolioContribution)
		} else {
			metrics.TotalWithdrawals = metrics.TotalWithdrawals.Add(record.PortfolioContribution.Neg())
		}

		metrics.TotalInvestmentGains = metrics.TotalInvestmentGains.Add(record.PortfolioReturnAmount)
	}

	return metrics
}

// RetirementAges lists, for charting and reports, the age at which each
// income source ends. One entry per source, so a person with several
// income streams appears once per stream.
func RetirementAges(scenario *domain.Scenario) []domain.RetirementAge {
	if scenario == nil || len(scenario.IncomeSources) == 0 {
		return nil
	}

	ages := make([]domain.RetirementAge, 0, len(scenario.IncomeSources))
	for _, src := range scenario.IncomeSources {
		ages = append(ages, domain.RetirementAge{
			Person:        src.Owner,
			RetirementAge: src.EndAge,
		})
	}
	return ages
}
