package config

import (
	"fmt"
	"os"

	"github.com/mhollis/fincast/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of plan input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan input from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.PlanInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseYAML(data)
}

// ParseYAML parses a plan input document and validates it
func (ip *InputParser) ParseYAML(data []byte) (*domain.PlanInput, error) {
	var input domain.PlanInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateScenario(&input.Scenario); err != nil {
		return nil, fmt.Errorf("scenario validation failed: %w", err)
	}
	if input.MonteCarlo != nil {
		if err := ip.validateMonteCarlo(input.MonteCarlo); err != nil {
			return nil, fmt.Errorf("monte carlo validation failed: %w", err)
		}
	}

	return &input, nil
}

// ValidateScenario validates the construction-time invariants of a scenario.
// The projection engine assumes these hold; anything that fails here never
// reaches it.
func (ip *InputParser) ValidateScenario(scenario *domain.Scenario) error {
	if scenario == nil {
		return fmt.Errorf("scenario is required")
	}
	if scenario.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if scenario.CurrentYear < 1900 || scenario.CurrentYear > 2100 {
		return fmt.Errorf("current year must be between 1900 and 2100")
	}
	if scenario.CurrentAge < 0 || scenario.CurrentAge > 120 {
		return fmt.Errorf("current age must be between 0 and 120")
	}
	if scenario.MaxProjectionAge < 0 || scenario.MaxProjectionAge > 120 {
		return fmt.Errorf("max projection age must be between 0 and 120")
	}
	if scenario.CurrentAge >= scenario.MaxProjectionAge {
		return fmt.Errorf("current age %d must be less than max projection age %d", scenario.CurrentAge, scenario.MaxProjectionAge)
	}

	seenNames := make(map[string]bool)
	for i, person := range scenario.People {
		if err := ip.validatePerson(&person); err != nil {
			return fmt.Errorf("person %d (%s) validation failed: %w", i, person.Name, err)
		}
		if seenNames[person.Name] {
			return fmt.Errorf("duplicate person name: %s", person.Name)
		}
		seenNames[person.Name] = true
	}

	if len(scenario.Accounts) == 0 {
		return fmt.Errorf("at least one account is required")
	}
	for i, account := range scenario.Accounts {
		if err := ip.validateAccount(&account); err != nil {
			return fmt.Errorf("account %d (%s) validation failed: %w", i, account.Name, err)
		}
	}

	for i, source := range scenario.IncomeSources {
		if err := ip.validateIncomeSource(&source); err != nil {
			return fmt.Errorf("income source %d (%s) validation failed: %w", i, source.Name, err)
		}
	}
	for i, source := range scenario.RetirementIncome {
		if err := ip.validateIncomeSource(&source); err != nil {
			return fmt.Errorf("retirement income %d (%s) validation failed: %w", i, source.Name, err)
		}
	}
	for i, expense := range scenario.Expenses {
		if err := ip.validateExpense(&expense); err != nil {
			return fmt.Errorf("expense %d (%s) validation failed: %w", i, expense.Name, err)
		}
	}
	for i, planned := range scenario.PlannedExpenses {
		if err := ip.validatePlannedExpense(&planned); err != nil {
			return fmt.Errorf("planned expense %d (%s) validation failed: %w", i, planned.Name, err)
		}
	}
	for i, property := range scenario.RealEstate {
		if err := ip.validateProperty(&property); err != nil {
			return fmt.Errorf("property %d (%s) validation failed: %w", i, property.Name, err)
		}
	}

	return nil
}

// validatePerson validates a single household member
func (ip *InputParser) validatePerson(person *domain.Person) error {
	if person.Name == "" {
		return fmt.Errorf("name is required")
	}
	if person.CurrentAge < 0 || person.CurrentAge > 120 {
		return fmt.Errorf("current age must be between 0 and 120")
	}
	return nil
}

// validateAccount validates a single investment account
func (ip *InputParser) validateAccount(account *domain.Account) error {
	if account.Balance.LessThan(decimal.Zero) {
		return fmt.Errorf("balance cannot be negative")
	}
	if err := ip.validateRate(account.AggressiveRate, "aggressive rate"); err != nil {
		return err
	}
	if err := ip.validateRate(account.ConservativeRate, "conservative rate"); err != nil {
		return err
	}
	if account.TransitionStartAge < 0 || account.TransitionStartAge > 120 {
		return fmt.Errorf("transition start age must be between 0 and 120")
	}
	if account.TransitionEndAge < 0 || account.TransitionEndAge > 120 {
		return fmt.Errorf("transition end age must be between 0 and 120")
	}
	if account.TransitionStartAge >= account.TransitionEndAge {
		return fmt.Errorf("transition start age must be before transition end age")
	}
	return nil
}

// validateRate bounds an annual percentage rate to a plausible range
func (ip *InputParser) validateRate(rate decimal.Decimal, label string) error {
	if rate.LessThan(decimal.NewFromInt(-50)) || rate.GreaterThan(decimal.NewFromInt(50)) {
		return fmt.Errorf("%s must be between -50 and 50 percent", label)
	}
	return nil
}

// validateIncomeSource validates an income stream's window and amounts
func (ip *InputParser) validateIncomeSource(source *domain.IncomeSource) error {
	if source.Name == "" {
		return fmt.Errorf("name is required")
	}
	if source.AnnualAmount.LessThan(decimal.Zero) {
		return fmt.Errorf("annual amount cannot be negative")
	}
	if source.StartAge < 0 || source.StartAge > 120 {
		return fmt.Errorf("start age must be between 0 and 120")
	}
	if source.EndAge < 0 || source.EndAge > 120 {
		return fmt.Errorf("end age must be between 0 and 120")
	}
	if source.StartAge > source.EndAge {
		return fmt.Errorf("start age cannot be after end age")
	}
	return ip.validateRate(source.GrowthRate, "growth rate")
}

// validateExpense validates a recurring expense's window and amounts
func (ip *InputParser) validateExpense(expense *domain.Expense) error {
	if expense.Name == "" {
		return fmt.Errorf("name is required")
	}
	if expense.AnnualAmount.LessThan(decimal.Zero) {
		return fmt.Errorf("annual amount cannot be negative")
	}
	if expense.StartAge < 0 || expense.StartAge > 120 {
		return fmt.Errorf("start age must be between 0 and 120")
	}
	if expense.EndAge < 0 || expense.EndAge > 120 {
		return fmt.Errorf("end age must be between 0 and 120")
	}
	if expense.StartAge > expense.EndAge {
		return fmt.Errorf("start age cannot be after end age")
	}
	return ip.validateRate(expense.GrowthRate, "growth rate")
}

// validatePlannedExpense validates a dated outlay. Entries with a zero year
// or zero amount are inert rather than invalid; the projection skips them.
func (ip *InputParser) validatePlannedExpense(planned *domain.PlannedExpense) error {
	if planned.Amount.LessThan(decimal.Zero) {
		return fmt.Errorf("amount cannot be negative")
	}
	if planned.Year != 0 && (planned.Year < 1900 || planned.Year > 2100) {
		return fmt.Errorf("year must be between 1900 and 2100")
	}
	if planned.RecurringYears < 0 {
		return fmt.Errorf("recurring years cannot be negative")
	}
	if planned.RepeatEvery < 0 {
		return fmt.Errorf("repeat every cannot be negative")
	}
	if planned.RepeatUntilYear != 0 && planned.RepeatUntilYear < planned.Year {
		return fmt.Errorf("repeat until year cannot be before the initial year")
	}
	return nil
}

// validateProperty validates a real estate property
func (ip *InputParser) validateProperty(property *domain.RealEstateProperty) error {
	if property.PurchasePrice.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("purchase price must be positive")
	}
	if property.PurchaseYear < 1900 || property.PurchaseYear > 2100 {
		return fmt.Errorf("purchase year must be between 1900 and 2100")
	}
	if property.DownPaymentPercent.LessThan(decimal.Zero) || property.DownPaymentPercent.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("down payment percent must be between 0 and 1")
	}
	if property.MortgageRate.LessThan(decimal.Zero) || property.MortgageRate.GreaterThan(decimal.NewFromInt(50)) {
		return fmt.Errorf("mortgage rate must be between 0 and 50 percent")
	}
	if property.MortgageTermYears < 1 || property.MortgageTermYears > 50 {
		return fmt.Errorf("mortgage term must be between 1 and 50 years")
	}
	if err := ip.validateRate(property.AppreciationRate, "appreciation rate"); err != nil {
		return err
	}
	if property.SaleYear != nil {
		if *property.SaleYear < 1900 || *property.SaleYear > 2100 {
			return fmt.Errorf("sale year must be between 1900 and 2100")
		}
		if *property.SaleYear <= property.PurchaseYear {
			return fmt.Errorf("sale year must be after purchase year")
		}
	}
	if property.AlreadyOwned {
		if property.CurrentValue == nil {
			return fmt.Errorf("current value is required for owned properties")
		}
		if property.CurrentValue.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("current value must be positive")
		}
		if property.CurrentMortgageBalance == nil {
			return fmt.Errorf("current mortgage balance is required for owned properties")
		}
		if property.CurrentMortgageBalance.LessThan(decimal.Zero) {
			return fmt.Errorf("current mortgage balance cannot be negative")
		}
	}
	return nil
}

// validateMonteCarlo validates the stochastic batch settings
func (ip *InputParser) validateMonteCarlo(settings *domain.MonteCarloSettings) error {
	if settings.NumTrials < 1 {
		return fmt.Errorf("num trials must be at least 1")
	}
	if settings.Correlation < -1 || settings.Correlation > 1 {
		return fmt.Errorf("correlation must be between -1 and 1")
	}
	if settings.MaxParallel < 0 {
		return fmt.Errorf("max parallel cannot be negative")
	}
	return nil
}
