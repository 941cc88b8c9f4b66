package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/mhollis/fincast/internal/domain"
	"github.com/mhollis/fincast/internal/tui/components"
	"github.com/mhollis/fincast/internal/tui/tuistyles"
)

// OverviewModel represents the plan overview scene
type OverviewModel struct {
	plan     *domain.PlanInput
	planPath string
	width    int
	height   int
}

// NewOverviewModel creates a new overview scene model
func NewOverviewModel() *OverviewModel {
	return &OverviewModel{}
}

// SetPlan updates the loaded plan
func (m *OverviewModel) SetPlan(plan *domain.PlanInput, path string) {
	m.plan = plan
	m.planPath = path
}

// SetSize updates the model dimensions
func (m *OverviewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the overview scene
func (m *OverviewModel) Update(msg tea.Msg) (*OverviewModel, tea.Cmd) {
	// Overview is passive; navigation is handled by the parent
	return m, nil
}

// View renders the plan overview
func (m *OverviewModel) View() string {
	if m.plan == nil {
		return tuistyles.SubtitleStyle.Render("No plan loaded")
	}

	scenario := &m.plan.Scenario

	var content strings.Builder
	content.WriteString(m.renderHeader(scenario))
	content.WriteString("\n\n")
	content.WriteString(components.CardColumns(
		m.householdCard(scenario),
		m.accountsCard(scenario),
	))
	content.WriteString("\n")
	content.WriteString(components.CardColumns(
		m.cashflowCard(scenario),
		m.secondaryCard(scenario),
	))
	content.WriteString("\n\n")
	content.WriteString(tuistyles.SubtitleStyle.Render(
		"Press p for the year-by-year projection, m for Monte Carlo"))

	return content.String()
}

// renderHeader shows the scenario name, time frame, and source file
func (m *OverviewModel) renderHeader(scenario *domain.Scenario) string {
	var content strings.Builder
	content.WriteString(tuistyles.TitleStyle.Render(scenario.Name))
	content.WriteString("\n")
	content.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf(
		"%d · ages %d to %d · %s",
		scenario.CurrentYear, scenario.CurrentAge, scenario.MaxProjectionAge, m.planPath)))
	return content.String()
}

func (m *OverviewModel) householdCard(scenario *domain.Scenario) *components.SummaryCard {
	card := components.NewSummaryCard("Household")

	if len(scenario.People) == 0 {
		card.AddRow("Primary", fmt.Sprintf("age %d", scenario.CurrentAge))
	}
	for _, person := range scenario.People {
		card.AddRow(person.Name, fmt.Sprintf("age %d", person.CurrentAge))
	}
	card.AddRow("Horizon", fmt.Sprintf("%d years", scenario.ProjectionYears()))

	return card
}

func (m *OverviewModel) accountsCard(scenario *domain.Scenario) *components.SummaryCard {
	card := components.NewSummaryCard("Accounts")

	for _, account := range scenario.Accounts {
		name := account.Name
		if name == "" {
			name = account.Type
		}
		card.AddRow(name, tuistyles.FormatCurrency(account.Balance))
	}
	card.WithNote("Total " + tuistyles.FormatCurrency(scenario.TotalAccountBalance()))

	return card
}

func (m *OverviewModel) cashflowCard(scenario *domain.Scenario) *components.SummaryCard {
	card := components.NewSummaryCard("Cash Flow")

	income := decimal.Zero
	for _, source := range scenario.IncomeSources {
		income = income.Add(source.AnnualAmount)
	}
	card.AddRow(
		fmt.Sprintf("Income sources (%d)", len(scenario.IncomeSources)),
		tuistyles.FormatCurrency(income)+"/yr")

	if len(scenario.RetirementIncome) > 0 {
		retirement := decimal.Zero
		for _, source := range scenario.RetirementIncome {
			retirement = retirement.Add(source.AnnualAmount)
		}
		card.AddRow(
			fmt.Sprintf("Retirement income (%d)", len(scenario.RetirementIncome)),
			tuistyles.FormatCurrency(retirement)+"/yr")
	}

	expenses := decimal.Zero
	for _, expense := range scenario.Expenses {
		expenses = expenses.Add(expense.AnnualAmount)
	}
	card.AddRow(
		fmt.Sprintf("Expenses (%d)", len(scenario.Expenses)),
		tuistyles.FormatCurrency(expenses)+"/yr")

	if len(scenario.PlannedExpenses) > 0 {
		card.AddRow("Planned outlays", fmt.Sprintf("%d", len(scenario.PlannedExpenses)))
	}
	card.WithNote("Base annual amounts before growth")

	return card
}

// secondaryCard picks real estate when the plan has properties, otherwise
// the Monte Carlo settings
func (m *OverviewModel) secondaryCard(scenario *domain.Scenario) *components.SummaryCard {
	if len(scenario.RealEstate) > 0 {
		return m.realEstateCard(scenario)
	}
	return m.monteCarloCard()
}

func (m *OverviewModel) realEstateCard(scenario *domain.Scenario) *components.SummaryCard {
	card := components.NewSummaryCard("Real Estate")

	for _, property := range scenario.RealEstate {
		var value string
		switch {
		case property.AlreadyOwned && property.CurrentValue != nil:
			value = tuistyles.FormatCurrency(*property.CurrentValue)
		case property.AlreadyOwned:
			value = "owned"
		default:
			value = fmt.Sprintf("buy %d · %s",
				property.PurchaseYear, tuistyles.FormatCurrency(property.PurchasePrice))
		}
		if property.ForSale() {
			value += fmt.Sprintf(" · sell %d", *property.SaleYear)
		}
		card.AddRow(property.Name, value)
	}

	return card
}

func (m *OverviewModel) monteCarloCard() *components.SummaryCard {
	card := components.NewSummaryCard("Monte Carlo")

	settings := m.plan.MonteCarlo
	if settings == nil {
		card.AddRow("Trials", fmt.Sprintf("%d", domain.DefaultTrialCount))
		card.AddRow("Correlation", fmt.Sprintf("%.2f", domain.DefaultCorrelation))
		card.WithNote("Defaults · press m to run")
		return card
	}

	card.AddRow("Trials", fmt.Sprintf("%d", settings.NumTrials))
	seed := "auto"
	if settings.Seed != 0 {
		seed = fmt.Sprintf("%d", settings.Seed)
	}
	card.AddRow("Seed", seed)
	card.AddRow("Correlation", fmt.Sprintf("%.2f", settings.Correlation))
	card.WithNote("Press m to run")

	return card
}
