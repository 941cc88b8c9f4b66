package domain

import (
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// JointOwner is the sentinel owner meaning an item belongs to the household
// as a whole rather than to one named person. Items owned jointly are
// age-gated on the scenario's primary age.
const JointOwner = "Joint"

// Person represents a member of the household. Immutable once a run starts.
type Person struct {
	Name       string `yaml:"name" json:"name"`
	CurrentAge int    `yaml:"current_age" json:"current_age"`
}

// Account represents an investment account with an age-dependent growth
// schedule. AggressiveRate applies while the owner is at or below
// TransitionStartAge, ConservativeRate from TransitionEndAge on, with a
// linear blend in between. Set both rates equal for fixed-rate behavior.
// Rates are percentages (8.0 means 8%).
type Account struct {
	Name               string          `yaml:"name,omitempty" json:"name,omitempty"`
	Type               string          `yaml:"type" json:"type"`
	Owner              string          `yaml:"owner" json:"owner"`
	Balance            decimal.Decimal `yaml:"balance" json:"balance"`
	AggressiveRate     decimal.Decimal `yaml:"aggressive_rate" json:"aggressive_rate"`
	ConservativeRate   decimal.Decimal `yaml:"conservative_rate" json:"conservative_rate"`
	TransitionStartAge int             `yaml:"transition_start_age" json:"transition_start_age"`
	TransitionEndAge   int             `yaml:"transition_end_age" json:"transition_end_age"`
}

// IncomeSource represents a stream of income active while the owner's age is
// within [StartAge, EndAge]. The amount compounds at GrowthRate percent per
// year from StartAge.
type IncomeSource struct {
	Name         string          `yaml:"name" json:"name"`
	Owner        string          `yaml:"owner" json:"owner"`
	AnnualAmount decimal.Decimal `yaml:"annual_amount" json:"annual_amount"`
	StartAge     int             `yaml:"start_age" json:"start_age"`
	EndAge       int             `yaml:"end_age" json:"end_age"`
	GrowthRate   decimal.Decimal `yaml:"growth_rate" json:"growth_rate"`
}

// Expense represents a recurring expense with the same age gating and
// compounding rules as IncomeSource.
type Expense struct {
	Name         string          `yaml:"name" json:"name"`
	Owner        string          `yaml:"owner" json:"owner"`
	AnnualAmount decimal.Decimal `yaml:"annual_amount" json:"annual_amount"`
	StartAge     int             `yaml:"start_age" json:"start_age"`
	EndAge       int             `yaml:"end_age" json:"end_age"`
	GrowthRate   decimal.Decimal `yaml:"growth_rate" json:"growth_rate"`
}

// PlannedExpense represents a dated outlay keyed to a calendar year rather
// than an age window. Three activation modes, checked independently:
// the exact Year, a RecurringYears span starting at Year, and a
// RepeatEvery cycle that fires again every RepeatEvery years after Year
// until RepeatUntilYear. Amounts do not grow.
type PlannedExpense struct {
	Name            string          `yaml:"name" json:"name"`
	Amount          decimal.Decimal `yaml:"amount" json:"amount"`
	Year            int             `yaml:"year" json:"year"`
	RecurringYears  int             `yaml:"recurring_years,omitempty" json:"recurring_years,omitempty"`
	RepeatEvery     int             `yaml:"repeat_every,omitempty" json:"repeat_every,omitempty"`
	RepeatUntilYear int             `yaml:"repeat_until_year,omitempty" json:"repeat_until_year,omitempty"`
}

// RealEstateProperty represents a property either already owned or planned
// for purchase. AlreadyOwned selects which baseline anchors valuation:
// owned properties appreciate from CurrentValue as of the scenario's current
// year and amortize from CurrentMortgageBalance; future properties
// appreciate from PurchasePrice as of PurchaseYear and amortize the full
// financed principal from then. MortgageRate and AppreciationRate are
// percentages; DownPaymentPercent is a fraction in [0, 1].
type RealEstateProperty struct {
	Name                   string           `yaml:"name" json:"name"`
	AlreadyOwned           bool             `yaml:"already_owned" json:"already_owned"`
	PurchaseYear           int              `yaml:"purchase_year" json:"purchase_year"`
	PurchasePrice          decimal.Decimal  `yaml:"purchase_price" json:"purchase_price"`
	DownPaymentPercent     decimal.Decimal  `yaml:"down_payment_percent" json:"down_payment_percent"`
	MortgageRate           decimal.Decimal  `yaml:"mortgage_rate" json:"mortgage_rate"`
	MortgageTermYears      int              `yaml:"mortgage_term_years" json:"mortgage_term_years"`
	AppreciationRate       decimal.Decimal  `yaml:"appreciation_rate" json:"appreciation_rate"`
	SaleYear               *int             `yaml:"sale_year,omitempty" json:"sale_year,omitempty"`
	CurrentValue           *decimal.Decimal `yaml:"current_value,omitempty" json:"current_value,omitempty"`
	CurrentMortgageBalance *decimal.Decimal `yaml:"current_mortgage_balance,omitempty" json:"current_mortgage_balance,omitempty"`
}

// Scenario represents one complete household plan: the time frame, the
// people, and every balance, income, expense, and property the projection
// evolves. Read-only for the duration of a run.
type Scenario struct {
	Name             string               `yaml:"name" json:"name"`
	CurrentYear      int                  `yaml:"current_year" json:"current_year"`
	CurrentAge       int                  `yaml:"current_age" json:"current_age"`
	MaxProjectionAge int                  `yaml:"max_projection_age" json:"max_projection_age"`
	People           []Person             `yaml:"people" json:"people"`
	Accounts         []Account            `yaml:"accounts" json:"accounts"`
	IncomeSources    []IncomeSource       `yaml:"income_sources" json:"income_sources"`
	RetirementIncome []IncomeSource       `yaml:"retirement_income,omitempty" json:"retirement_income,omitempty"`
	Expenses         []Expense            `yaml:"expenses" json:"expenses"`
	PlannedExpenses  []PlannedExpense     `yaml:"planned_expenses,omitempty" json:"planned_expenses,omitempty"`
	RealEstate       []RealEstateProperty `yaml:"real_estate,omitempty" json:"real_estate,omitempty"`
}

// Default Monte Carlo batch parameters, applied when the configuration
// omits them.
const (
	DefaultTrialCount  = 1000
	DefaultCorrelation = 0.3
)

// MonteCarloSettings holds the stochastic batch parameters. Seed 0 means
// derive a seed from the wall clock; MaxParallel 0 means one worker per
// available CPU.
type MonteCarloSettings struct {
	NumTrials   int     `yaml:"num_trials" json:"num_trials"`
	Seed        uint64  `yaml:"seed" json:"seed"`
	Correlation float64 `yaml:"correlation" json:"correlation"`
	MaxParallel int     `yaml:"max_parallel" json:"max_parallel"`
}

// UnmarshalYAML decodes the settings with defaults pre-applied, so keys
// omitted from the document keep their default while an explicit zero wins.
func (mcs *MonteCarloSettings) UnmarshalYAML(value *yaml.Node) error {
	type plain MonteCarloSettings
	settings := plain{
		NumTrials:   DefaultTrialCount,
		Correlation: DefaultCorrelation,
	}
	if err := value.Decode(&settings); err != nil {
		return err
	}
	*mcs = MonteCarloSettings(settings)
	return nil
}

// PlanInput is the top-level configuration document: one scenario plus
// optional Monte Carlo settings.
type PlanInput struct {
	Scenario   Scenario            `yaml:"scenario" json:"scenario"`
	MonteCarlo *MonteCarloSettings `yaml:"monte_carlo,omitempty" json:"monte_carlo,omitempty"`
}

// DeepCopy returns an independent copy of the scenario. Slices are
// reallocated and pointer fields duplicated, so a caller can mutate the
// copy without touching the original. Decimal values are immutable and
// safe to share.
func (s *Scenario) DeepCopy() *Scenario {
	if s == nil {
		return nil
	}

	out := *s
	out.People = append([]Person(nil), s.People...)
	out.Accounts = append([]Account(nil), s.Accounts...)
	out.IncomeSources = append([]IncomeSource(nil), s.IncomeSources...)
	out.RetirementIncome = append([]IncomeSource(nil), s.RetirementIncome...)
	out.Expenses = append([]Expense(nil), s.Expenses...)
	out.PlannedExpenses = append([]PlannedExpense(nil), s.PlannedExpenses...)

	out.RealEstate = make([]RealEstateProperty, len(s.RealEstate))
	for i, p := range s.RealEstate {
		out.RealEstate[i] = p
		if p.SaleYear != nil {
			year := *p.SaleYear
			out.RealEstate[i].SaleYear = &year
		}
		if p.CurrentValue != nil {
			value := *p.CurrentValue
			out.RealEstate[i].CurrentValue = &value
		}
		if p.CurrentMortgageBalance != nil {
			balance := *p.CurrentMortgageBalance
			out.RealEstate[i].CurrentMortgageBalance = &balance
		}
	}
	return &out
}

// PersonByName returns the named person, or nil when no such person exists.
func (s *Scenario) PersonByName(name string) *Person {
	for i := range s.People {
		if s.People[i].Name == name {
			return &s.People[i]
		}
	}
	return nil
}

// ProjectionYears returns the number of simulated years, ages CurrentAge
// through MaxProjectionAge inclusive.
func (s *Scenario) ProjectionYears() int {
	if s.MaxProjectionAge < s.CurrentAge {
		return 0
	}
	return s.MaxProjectionAge - s.CurrentAge + 1
}

// TotalAccountBalance sums the starting balances across all accounts.
func (s *Scenario) TotalAccountBalance() decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.Accounts {
		total = total.Add(a.Balance)
	}
	return total
}

// ForSale reports whether the property has a sale year configured.
func (p *RealEstateProperty) ForSale() bool {
	return p.SaleYear != nil
}

// SoldBy reports whether the property was sold strictly before the given
// year. Sold properties stop contributing value and equity.
func (p *RealEstateProperty) SoldBy(year int) bool {
	return p.SaleYear != nil && year > *p.SaleYear
}

// SoldIn reports whether the given year is the property's sale year.
func (p *RealEstateProperty) SoldIn(year int) bool {
	return p.SaleYear != nil && year == *p.SaleYear
}
