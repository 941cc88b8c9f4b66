package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mhollis/fincast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

const minimalScenarioYAML = `
scenario:
  name: "Test Plan"
  current_year: 2025
  current_age: 40
  max_projection_age: 95
  people:
    - name: "Alex"
      current_age: 40
  accounts:
    - name: "Brokerage"
      type: "Taxable"
      owner: "Alex"
      balance: 250000
      aggressive_rate: 8.0
      conservative_rate: 5.0
      transition_start_age: 50
      transition_end_age: 65
  income_sources:
    - name: "Salary"
      owner: "Alex"
      annual_amount: 120000
      start_age: 40
      end_age: 65
      growth_rate: 3.0
  expenses:
    - name: "Living"
      owner: "Joint"
      annual_amount: 70000
      start_age: 40
      end_age: 95
      growth_rate: 2.5
`

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	input, err := parser.LoadFromFile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, input, "Should return nil input")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	// Create a temporary file with invalid YAML
	tmpDir := t.TempDir()
	invalidFile := filepath.Join(tmpDir, "invalid.yaml")

	err := os.WriteFile(invalidFile, []byte("invalid: yaml: content: [unclosed"), 0644)
	assert.NoError(t, err)

	parser := NewInputParser()
	input, err := parser.LoadFromFile(invalidFile)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, input, "Should return nil input")
	assert.Contains(t, err.Error(), "failed to parse YAML", "Should have specific error message")
}

func TestInputParser_LoadFromFile_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	validFile := filepath.Join(tmpDir, "valid.yaml")

	validYAML := minimalScenarioYAML + `
monte_carlo:
  num_trials: 500
  seed: 42
  correlation: 0.25
`

	err := os.WriteFile(validFile, []byte(validYAML), 0644)
	assert.NoError(t, err)

	parser := NewInputParser()
	input, err := parser.LoadFromFile(validFile)

	assert.NoError(t, err, "Should not error for valid YAML")
	assert.NotNil(t, input, "Should return input")
	assert.Equal(t, "Test Plan", input.Scenario.Name, "Should parse scenario name")
	assert.Equal(t, 2025, input.Scenario.CurrentYear, "Should parse current year")
	assert.Len(t, input.Scenario.People, 1, "Should parse people")
	assert.Len(t, input.Scenario.Accounts, 1, "Should parse accounts")
	assert.True(t, input.Scenario.Accounts[0].Balance.Equal(decimal.NewFromInt(250000)),
		"Should parse account balance, got %s", input.Scenario.Accounts[0].Balance)
	assert.Equal(t, 50, input.Scenario.Accounts[0].TransitionStartAge, "Should parse transition start age")
	assert.NotNil(t, input.MonteCarlo, "Should parse monte carlo settings")
	assert.Equal(t, 500, input.MonteCarlo.NumTrials, "Should parse num trials")
	assert.Equal(t, uint64(42), input.MonteCarlo.Seed, "Should parse seed")
	assert.InDelta(t, 0.25, input.MonteCarlo.Correlation, 1e-12, "Should parse correlation")
}

func TestInputParser_ParseYAML_MonteCarloDefaults(t *testing.T) {
	parser := NewInputParser()

	// Only the seed is given; trial count and correlation fall back to the
	// package defaults.
	input, err := parser.ParseYAML([]byte(minimalScenarioYAML + `
monte_carlo:
  seed: 7
`))

	assert.NoError(t, err)
	assert.NotNil(t, input.MonteCarlo)
	assert.Equal(t, domain.DefaultTrialCount, input.MonteCarlo.NumTrials, "Omitted trial count should default")
	assert.InDelta(t, domain.DefaultCorrelation, input.MonteCarlo.Correlation, 1e-12, "Omitted correlation should default")
	assert.Equal(t, uint64(7), input.MonteCarlo.Seed, "Explicit seed should be kept")
}

func TestInputParser_ParseYAML_MonteCarloExplicitZeroCorrelation(t *testing.T) {
	parser := NewInputParser()

	input, err := parser.ParseYAML([]byte(minimalScenarioYAML + `
monte_carlo:
  num_trials: 250
  correlation: 0.0
`))

	assert.NoError(t, err)
	assert.NotNil(t, input.MonteCarlo)
	assert.Equal(t, 250, input.MonteCarlo.NumTrials)
	assert.Equal(t, 0.0, input.MonteCarlo.Correlation, "Explicit zero correlation should win over the default")
}

func TestInputParser_ParseYAML_MonteCarloOmitted(t *testing.T) {
	parser := NewInputParser()

	input, err := parser.ParseYAML([]byte(minimalScenarioYAML))

	assert.NoError(t, err)
	assert.Nil(t, input.MonteCarlo, "Absent monte_carlo block should stay nil")
}

func TestInputParser_ValidateScenario_Nil(t *testing.T) {
	parser := NewInputParser()

	err := parser.ValidateScenario(nil)
	assert.Error(t, err, "Should error for nil scenario")
	assert.Contains(t, err.Error(), "scenario is required", "Should have specific error message")
}

func TestInputParser_ValidateScenario_NoAccounts(t *testing.T) {
	parser := NewInputParser()

	scenario := &domain.Scenario{
		Name:             "test",
		CurrentYear:      2025,
		CurrentAge:       40,
		MaxProjectionAge: 95,
	}

	err := parser.ValidateScenario(scenario)
	assert.Error(t, err, "Should error for no accounts")
	assert.Contains(t, err.Error(), "at least one account is required", "Should have specific error message")
}

func TestInputParser_ValidateScenario_AgeOrdering(t *testing.T) {
	parser := NewInputParser()

	scenario := &domain.Scenario{
		Name:             "test",
		CurrentYear:      2025,
		CurrentAge:       95,
		MaxProjectionAge: 60,
	}

	err := parser.ValidateScenario(scenario)
	assert.Error(t, err, "Should error for inverted ages")
	assert.Contains(t, err.Error(), "must be less than max projection age", "Should have specific error message")
}

func TestInputParser_ValidateScenario_DuplicatePersonName(t *testing.T) {
	parser := NewInputParser()

	scenario := &domain.Scenario{
		Name:             "test",
		CurrentYear:      2025,
		CurrentAge:       40,
		MaxProjectionAge: 95,
		People: []domain.Person{
			{Name: "Alex", CurrentAge: 40},
			{Name: "Alex", CurrentAge: 38},
		},
		Accounts: []domain.Account{validAccount()},
	}

	err := parser.ValidateScenario(scenario)
	assert.Error(t, err, "Should error for duplicate person name")
	assert.Contains(t, err.Error(), "duplicate person name: Alex", "Should have specific error message")
}

func TestInputParser_ValidateScenario_WrapsAccountName(t *testing.T) {
	parser := NewInputParser()

	account := validAccount()
	account.Balance = decimal.NewFromInt(-1)

	scenario := &domain.Scenario{
		Name:             "test",
		CurrentYear:      2025,
		CurrentAge:       40,
		MaxProjectionAge: 95,
		Accounts:         []domain.Account{account},
	}

	err := parser.ValidateScenario(scenario)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "account 0 (Brokerage)", "Should name the failing account")
	assert.Contains(t, err.Error(), "balance cannot be negative", "Should carry the cause")
}

func TestInputParser_ValidateAccount_RateOutOfRange(t *testing.T) {
	parser := NewInputParser()

	account := validAccount()
	account.AggressiveRate = decimal.NewFromInt(80)

	err := parser.validateAccount(&account)
	assert.Error(t, err, "Should error for implausible rate")
	assert.Contains(t, err.Error(), "aggressive rate must be between -50 and 50 percent", "Should have specific error message")
}

func TestInputParser_ValidateAccount_TransitionOrdering(t *testing.T) {
	parser := NewInputParser()

	account := validAccount()
	account.TransitionStartAge = 65
	account.TransitionEndAge = 50

	err := parser.validateAccount(&account)
	assert.Error(t, err, "Should error for inverted transition window")
	assert.Contains(t, err.Error(), "transition start age must be before transition end age", "Should have specific error message")
}

func TestInputParser_ValidateIncomeSource_InvalidWindow(t *testing.T) {
	parser := NewInputParser()

	source := &domain.IncomeSource{
		Name:         "Salary",
		Owner:        "Alex",
		AnnualAmount: decimal.NewFromInt(120000),
		StartAge:     65,
		EndAge:       40,
	}

	err := parser.validateIncomeSource(source)
	assert.Error(t, err, "Should error for inverted age window")
	assert.Contains(t, err.Error(), "start age cannot be after end age", "Should have specific error message")
}

func TestInputParser_ValidateIncomeSource_NegativeAmount(t *testing.T) {
	parser := NewInputParser()

	source := &domain.IncomeSource{
		Name:         "Salary",
		Owner:        "Alex",
		AnnualAmount: decimal.NewFromInt(-5000),
		StartAge:     40,
		EndAge:       65,
	}

	err := parser.validateIncomeSource(source)
	assert.Error(t, err, "Should error for negative amount")
	assert.Contains(t, err.Error(), "annual amount cannot be negative", "Should have specific error message")
}

func TestInputParser_ValidateExpense_MissingName(t *testing.T) {
	parser := NewInputParser()

	expense := &domain.Expense{
		AnnualAmount: decimal.NewFromInt(40000),
		StartAge:     40,
		EndAge:       95,
	}

	err := parser.validateExpense(expense)
	assert.Error(t, err, "Should error for missing name")
	assert.Contains(t, err.Error(), "name is required", "Should have specific error message")
}

func TestInputParser_ValidatePlannedExpense_ZeroYearIsInert(t *testing.T) {
	parser := NewInputParser()

	planned := &domain.PlannedExpense{
		Name:   "placeholder",
		Amount: decimal.NewFromInt(10000),
		Year:   0,
	}

	err := parser.validatePlannedExpense(planned)
	assert.NoError(t, err, "Zero-year entries are skipped by the projection, not rejected")
}

func TestInputParser_ValidatePlannedExpense_RepeatBeforeStart(t *testing.T) {
	parser := NewInputParser()

	planned := &domain.PlannedExpense{
		Name:            "Car",
		Amount:          decimal.NewFromInt(40000),
		Year:            2030,
		RepeatEvery:     5,
		RepeatUntilYear: 2027,
	}

	err := parser.validatePlannedExpense(planned)
	assert.Error(t, err, "Should error for repeat window ending before it starts")
	assert.Contains(t, err.Error(), "repeat until year cannot be before the initial year", "Should have specific error message")
}

func TestInputParser_ValidateProperty_OwnedRequiresCurrentValue(t *testing.T) {
	parser := NewInputParser()

	property := validProperty()
	property.AlreadyOwned = true
	property.CurrentValue = nil
	property.CurrentMortgageBalance = decimalPtr(decimal.NewFromInt(200000))

	err := parser.validateProperty(&property)
	assert.Error(t, err, "Should error for owned property without current value")
	assert.Contains(t, err.Error(), "current value is required for owned properties", "Should have specific error message")
}

func TestInputParser_ValidateProperty_SaleBeforePurchase(t *testing.T) {
	parser := NewInputParser()

	property := validProperty()
	property.SaleYear = intPtr(2015)

	err := parser.validateProperty(&property)
	assert.Error(t, err, "Should error for sale year before purchase year")
	assert.Contains(t, err.Error(), "sale year must be after purchase year", "Should have specific error message")
}

func TestInputParser_ValidateProperty_DownPaymentRange(t *testing.T) {
	parser := NewInputParser()

	property := validProperty()
	property.DownPaymentPercent = decimal.NewFromFloat(1.5)

	err := parser.validateProperty(&property)
	assert.Error(t, err, "Should error for down payment above 1")
	assert.Contains(t, err.Error(), "down payment percent must be between 0 and 1", "Should have specific error message")
}

func TestInputParser_ValidateMonteCarlo_InvalidTrials(t *testing.T) {
	parser := NewInputParser()

	settings := &domain.MonteCarloSettings{NumTrials: 0, Correlation: 0.3}

	err := parser.validateMonteCarlo(settings)
	assert.Error(t, err, "Should error for zero trials")
	assert.Contains(t, err.Error(), "num trials must be at least 1", "Should have specific error message")
}

func TestInputParser_ValidateMonteCarlo_CorrelationRange(t *testing.T) {
	parser := NewInputParser()

	settings := &domain.MonteCarloSettings{NumTrials: 100, Correlation: 1.5}

	err := parser.validateMonteCarlo(settings)
	assert.Error(t, err, "Should error for correlation outside [-1, 1]")
	assert.Contains(t, err.Error(), "correlation must be between -1 and 1", "Should have specific error message")
}

func TestInputParser_ParseYAML_RejectsInvalidScenario(t *testing.T) {
	parser := NewInputParser()

	// Valid YAML, invalid content: no accounts.
	input, err := parser.ParseYAML([]byte(`
scenario:
  name: "Empty Plan"
  current_year: 2025
  current_age: 40
  max_projection_age: 95
`))

	assert.Error(t, err, "Should reject a scenario without accounts")
	assert.Nil(t, input)
	assert.Contains(t, err.Error(), "scenario validation failed", "Should wrap the validation error")
}

func validAccount() domain.Account {
	return domain.Account{
		Name:               "Brokerage",
		Type:               "Taxable",
		Owner:              "Alex",
		Balance:            decimal.NewFromInt(250000),
		AggressiveRate:     decimal.NewFromFloat(8.0),
		ConservativeRate:   decimal.NewFromFloat(5.0),
		TransitionStartAge: 50,
		TransitionEndAge:   65,
	}
}

func validProperty() domain.RealEstateProperty {
	return domain.RealEstateProperty{
		Name:               "Lake Cabin",
		PurchaseYear:       2028,
		PurchasePrice:      decimal.NewFromInt(400000),
		DownPaymentPercent: decimal.NewFromFloat(0.25),
		MortgageRate:       decimal.NewFromFloat(5.0),
		MortgageTermYears:  15,
		AppreciationRate:   decimal.NewFromFloat(3.0),
	}
}

// Helper functions for creating pointers
func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func intPtr(i int) *int {
	return &i
}
