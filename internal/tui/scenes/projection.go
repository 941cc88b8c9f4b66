package scenes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mhollis/fincast/internal/domain"
	"github.com/mhollis/fincast/internal/tui/components"
	"github.com/mhollis/fincast/internal/tui/tuistyles"
)

// ProjectionModel represents the deterministic projection scene: a
// year-by-year table with a chart toggle
type ProjectionModel struct {
	result    *domain.ProjectionResult
	table     table.Model
	showChart bool
	width     int
	height    int
}

// NewProjectionModel creates a new projection scene model
func NewProjectionModel() *ProjectionModel {
	columns := []table.Column{
		{Title: "Age", Width: 4},
		{Title: "Year", Width: 5},
		{Title: "Income", Width: 10},
		{Title: "Expenses", Width: 10},
		{Title: "Net CF", Width: 10},
		{Title: "Growth", Width: 10},
		{Title: "Balance", Width: 11},
		{Title: "Net Worth", Width: 11},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(tuistyles.ColorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(tuistyles.ColorSecondary)
	styles.Selected = styles.Selected.
		Foreground(tuistyles.ColorAccent).
		Bold(true)
	t.SetStyles(styles)

	return &ProjectionModel{table: t}
}

// SetResult loads a finished projection into the table
func (m *ProjectionModel) SetResult(result *domain.ProjectionResult) {
	m.result = result
	if result == nil {
		m.table.SetRows(nil)
		return
	}

	rows := make([]table.Row, 0, len(result.Records))
	for _, record := range result.Records {
		rows = append(rows, table.Row{
			strconv.Itoa(record.Age),
			strconv.Itoa(record.Year),
			tuistyles.FormatCurrencyShort(record.Income.InexactFloat64()),
			tuistyles.FormatCurrencyShort(record.Expenses.InexactFloat64()),
			tuistyles.FormatCurrencyShort(record.NetCashflow.InexactFloat64()),
			tuistyles.FormatCurrencyShort(record.PortfolioReturnAmount.InexactFloat64()),
			tuistyles.FormatCurrencyShort(record.PortfolioBalance.InexactFloat64()),
			tuistyles.FormatCurrencyShort(record.TotalNetWorth.InexactFloat64()),
		})
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// SetSize updates the model dimensions and resizes the table
func (m *ProjectionModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	// Metric cards, header, and chrome take roughly 16 lines
	m.table.SetHeight(min(max(height-16, 5), 25))
}

// Update handles messages for the projection scene
func (m *ProjectionModel) Update(msg tea.Msg) (*ProjectionModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "v" {
		m.showChart = !m.showChart
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the headline metrics with the year table or chart
func (m *ProjectionModel) View() string {
	if m.result == nil {
		return tuistyles.SubtitleStyle.Render("Projection has not finished yet")
	}

	var content strings.Builder
	content.WriteString(m.renderMetrics())
	content.WriteString("\n")

	if m.showChart {
		content.WriteString(m.renderChart())
	} else {
		content.WriteString(m.table.View())
	}

	if line := m.retirementLine(); line != "" {
		content.WriteString("\n\n")
		content.WriteString(tuistyles.SubtitleStyle.Render(line))
	}

	return content.String()
}

func (m *ProjectionModel) renderMetrics() string {
	metrics := m.result.Metrics

	finalBalance := components.NewMetricCard(
		"Final Balance", tuistyles.FormatCurrency(metrics.FinalBalance))

	netWorth := "n/a"
	if final := m.result.FinalRecord(); final != nil {
		netWorth = tuistyles.FormatCurrency(final.TotalNetWorth)
	}
	finalNetWorth := components.NewMetricCard("Final Net Worth", netWorth)

	yearsSolvent := components.NewMetricCard("Years Solvent",
		fmt.Sprintf("%d of %d", metrics.YearsSolvent, len(m.result.Records)))

	deficit := components.NewMetricCard("First Deficit", "never")
	if metrics.FirstDeficitAge != nil {
		deficit = components.NewMetricCard("First Deficit",
			fmt.Sprintf("age %d", *metrics.FirstDeficitAge)).
			WithDelta(false, "portfolio depletes")
	}

	return components.MetricRow(finalBalance, finalNetWorth, yearsSolvent, deficit)
}

func (m *ProjectionModel) renderChart() string {
	records := m.result.Records

	balances := make([]float64, len(records))
	netWorths := make([]float64, len(records))
	ages := make([]string, len(records))
	for i, record := range records {
		balances[i] = record.PortfolioBalance.InexactFloat64()
		netWorths[i] = record.TotalNetWorth.InexactFloat64()
		ages[i] = strconv.Itoa(record.Age)
	}

	chart := components.NewLineChart("Portfolio over time").
		AddSeries("Balance", balances, tuistyles.ColorChartLine1).
		AddSeries("Net Worth", netWorths, tuistyles.ColorChartLine2).
		WithXLabels(ages).
		WithSize(min(m.width-6, 90), 14)

	return chart.Render()
}

func (m *ProjectionModel) retirementLine() string {
	if len(m.result.RetirementAges) == 0 {
		return ""
	}

	parts := make([]string, 0, len(m.result.RetirementAges))
	for _, entry := range m.result.RetirementAges {
		parts = append(parts, fmt.Sprintf("%s retires at %d", entry.Person, entry.RetirementAge))
	}
	return strings.Join(parts, " · ")
}
