package config

import (
	"github.com/mhollis/fincast/internal/domain"
	"github.com/shopspring/decimal"
)

// CreateExamplePlan returns a complete starter plan demonstrating every
// input section: a two-person household, age-blended accounts, working and
// retirement income, recurring and planned expenses, owned and future real
// estate, and Monte Carlo settings. The result passes validation as-is.
func (ip *InputParser) CreateExamplePlan() *domain.PlanInput {
	currentValue := decimal.NewFromInt(520000)
	currentMortgage := decimal.NewFromInt(295000)
	saleYear := 2055

	return &domain.PlanInput{
		Scenario: domain.Scenario{
			Name:             "Sample Household Plan",
			CurrentYear:      2025,
			CurrentAge:       40,
			MaxProjectionAge: 90,
			People: []domain.Person{
				{Name: "Jordan", CurrentAge: 40},
				{Name: "Casey", CurrentAge: 38},
			},
			Accounts: []domain.Account{
				{
					Name:               "401k",
					Type:               "tax_deferred",
					Owner:              "Jordan",
					Balance:            decimal.NewFromInt(185000),
					AggressiveRate:     decimal.NewFromInt(8),
					ConservativeRate:   decimal.NewFromInt(5),
					TransitionStartAge: 50,
					TransitionEndAge:   65,
				},
				{
					Name:               "Roth IRA",
					Type:               "tax_free",
					Owner:              "Casey",
					Balance:            decimal.NewFromInt(62000),
					AggressiveRate:     decimal.NewFromFloat(7.5),
					ConservativeRate:   decimal.NewFromFloat(4.5),
					TransitionStartAge: 55,
					TransitionEndAge:   70,
				},
				{
					Name:               "Brokerage",
					Type:               "taxable",
					Owner:              domain.JointOwner,
					Balance:            decimal.NewFromInt(90000),
					AggressiveRate:     decimal.NewFromFloat(6.5),
					ConservativeRate:   decimal.NewFromInt(4),
					TransitionStartAge: 50,
					TransitionEndAge:   70,
				},
			},
			IncomeSources: []domain.IncomeSource{
				{
					Name:         "Jordan Salary",
					Owner:        "Jordan",
					AnnualAmount: decimal.NewFromInt(110000),
					StartAge:     40,
					EndAge:       64,
					GrowthRate:   decimal.NewFromInt(3),
				},
				{
					Name:         "Casey Salary",
					Owner:        "Casey",
					AnnualAmount: decimal.NewFromInt(78000),
					StartAge:     38,
					EndAge:       62,
					GrowthRate:   decimal.NewFromInt(3),
				},
			},
			RetirementIncome: []domain.IncomeSource{
				{
					Name:         "Jordan Social Security",
					Owner:        "Jordan",
					AnnualAmount: decimal.NewFromInt(32000),
					StartAge:     67,
					EndAge:       90,
					GrowthRate:   decimal.NewFromInt(2),
				},
				{
					Name:         "Casey Social Security",
					Owner:        "Casey",
					AnnualAmount: decimal.NewFromInt(24000),
					StartAge:     67,
					EndAge:       90,
					GrowthRate:   decimal.NewFromInt(2),
				},
			},
			Expenses: []domain.Expense{
				{
					Name:         "Living Expenses",
					Owner:        domain.JointOwner,
					AnnualAmount: decimal.NewFromInt(85000),
					StartAge:     40,
					EndAge:       90,
					GrowthRate:   decimal.NewFromFloat(2.5),
				},
				{
					Name:         "Travel",
					Owner:        domain.JointOwner,
					AnnualAmount: decimal.NewFromInt(12000),
					StartAge:     65,
					EndAge:       80,
					GrowthRate:   decimal.NewFromInt(2),
				},
			},
			PlannedExpenses: []domain.PlannedExpense{
				{
					Name:           "College Tuition",
					Amount:         decimal.NewFromInt(35000),
					Year:           2032,
					RecurringYears: 4,
				},
				{
					Name:            "Car Replacement",
					Amount:          decimal.NewFromInt(40000),
					Year:            2030,
					RepeatEvery:     10,
					RepeatUntilYear: 2060,
				},
			},
			RealEstate: []domain.RealEstateProperty{
				{
					Name:                   "Primary Residence",
					AlreadyOwned:           true,
					PurchaseYear:           2018,
					PurchasePrice:          decimal.NewFromInt(420000),
					DownPaymentPercent:     decimal.NewFromFloat(0.20),
					MortgageRate:           decimal.NewFromFloat(4.1),
					MortgageTermYears:      30,
					AppreciationRate:       decimal.NewFromInt(3),
					CurrentValue:           &currentValue,
					CurrentMortgageBalance: &currentMortgage,
				},
				{
					Name:               "Lake Cabin",
					AlreadyOwned:       false,
					PurchaseYear:       2035,
					PurchasePrice:      decimal.NewFromInt(300000),
					DownPaymentPercent: decimal.NewFromFloat(0.25),
					MortgageRate:       decimal.NewFromFloat(5.5),
					MortgageTermYears:  15,
					AppreciationRate:   decimal.NewFromFloat(2.5),
					SaleYear:           &saleYear,
				},
			},
		},
		MonteCarlo: &domain.MonteCarloSettings{
			NumTrials:   1000,
			Seed:        42,
			Correlation: 0.3,
			MaxParallel: 0,
		},
	}
}
