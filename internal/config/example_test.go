package config

import (
	"testing"

	"github.com/mhollis/fincast/internal/calculation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestInputParser_CreateExamplePlan_Validates(t *testing.T) {
	parser := NewInputParser()

	plan := parser.CreateExamplePlan()
	require.NotNil(t, plan, "Should create example plan")

	assert.NoError(t, parser.ValidateScenario(&plan.Scenario), "Example scenario should validate")

	require.NotNil(t, plan.MonteCarlo, "Example should include monte carlo settings")
	assert.NoError(t, parser.validateMonteCarlo(plan.MonteCarlo), "Example monte carlo should validate")
}

func TestInputParser_CreateExamplePlan_CoversEverySection(t *testing.T) {
	plan := NewInputParser().CreateExamplePlan()

	assert.Len(t, plan.Scenario.People, 2, "Should include a two-person household")
	assert.NotEmpty(t, plan.Scenario.Accounts, "Should include accounts")
	assert.NotEmpty(t, plan.Scenario.IncomeSources, "Should include working income")
	assert.NotEmpty(t, plan.Scenario.RetirementIncome, "Should include retirement income")
	assert.NotEmpty(t, plan.Scenario.Expenses, "Should include recurring expenses")
	assert.NotEmpty(t, plan.Scenario.PlannedExpenses, "Should include planned expenses")
	assert.Len(t, plan.Scenario.RealEstate, 2, "Should include owned and future properties")

	assert.True(t, plan.Scenario.RealEstate[0].AlreadyOwned, "First property should be owned")
	assert.False(t, plan.Scenario.RealEstate[1].AlreadyOwned, "Second property should be future")
	assert.NotNil(t, plan.Scenario.RealEstate[1].SaleYear, "Future property should demonstrate a sale")
}

func TestInputParser_CreateExamplePlan_RoundTrip(t *testing.T) {
	parser := NewInputParser()
	plan := parser.CreateExamplePlan()

	data, err := yaml.Marshal(plan)
	require.NoError(t, err, "Example plan should marshal")

	parsed, err := parser.ParseYAML(data)
	require.NoError(t, err, "Marshaled example should parse back")

	assert.Equal(t, plan.Scenario.Name, parsed.Scenario.Name)
	assert.Len(t, parsed.Scenario.People, len(plan.Scenario.People))
	assert.Len(t, parsed.Scenario.Accounts, len(plan.Scenario.Accounts))
	require.NotNil(t, parsed.MonteCarlo)
	assert.Equal(t, plan.MonteCarlo.NumTrials, parsed.MonteCarlo.NumTrials)
	assert.Equal(t, plan.MonteCarlo.Seed, parsed.MonteCarlo.Seed)
}

func TestInputParser_CreateExamplePlan_Projects(t *testing.T) {
	plan := NewInputParser().CreateExamplePlan()

	engine := calculation.NewProjectionEngine()
	result, err := engine.RunProjection(&plan.Scenario)

	require.NoError(t, err, "Example plan should project")
	assert.Len(t, result.Records, 51, "Ages 40 through 90 inclusive")
	assert.Equal(t, "Sample Household Plan", result.ScenarioName)
}
