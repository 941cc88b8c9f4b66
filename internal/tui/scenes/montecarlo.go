package scenes

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/mhollis/fincast/internal/calculation"
	"github.com/mhollis/fincast/internal/tui/components"
	"github.com/mhollis/fincast/internal/tui/tuimsg"
	"github.com/mhollis/fincast/internal/tui/tuistyles"
)

// runState tracks where the Monte Carlo batch is in its lifecycle
type runState int

const (
	runIdle runState = iota
	runInProgress
	runDone
	runFailed
)

// MonteCarloModel represents the Monte Carlo scene
type MonteCarloModel struct {
	config    calculation.MonteCarloConfig
	result    *calculation.MonteCarloResult
	err       error
	state     runState
	spinner   spinner.Model
	startedAt time.Time
	elapsed   time.Duration
	width     int
	height    int
}

// NewMonteCarloModel creates a new Monte Carlo scene model
func NewMonteCarloModel() *MonteCarloModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(tuistyles.ColorAccent)

	// Display defaults until the plan's settings arrive. Seed 0 renders
	// as "auto" and lets the engine pick a wall-clock seed.
	cfg := calculation.DefaultMonteCarloConfig()
	cfg.Seed = 0

	return &MonteCarloModel{
		config:  cfg,
		spinner: sp,
	}
}

// SetConfig records the batch parameters shown on the idle screen
func (m *MonteCarloModel) SetConfig(config calculation.MonteCarloConfig) {
	m.config = config
}

// SetRunning flips the scene into its in-progress state
func (m *MonteCarloModel) SetRunning() {
	m.state = runInProgress
	m.err = nil
	m.startedAt = time.Now()
}

// SetResult stores a finished batch
func (m *MonteCarloModel) SetResult(result *calculation.MonteCarloResult) {
	m.state = runDone
	m.result = result
	m.elapsed = time.Since(m.startedAt)
}

// SetError stores a failed batch
func (m *MonteCarloModel) SetError(err error) {
	m.state = runFailed
	m.err = err
	m.elapsed = time.Since(m.startedAt)
}

// HasResult reports whether a finished batch is on screen
func (m *MonteCarloModel) HasResult() bool {
	return m.state == runDone
}

// Running reports whether a batch is in flight
func (m *MonteCarloModel) Running() bool {
	return m.state == runInProgress
}

// SpinnerTick starts the run animation
func (m *MonteCarloModel) SpinnerTick() tea.Cmd {
	return m.spinner.Tick
}

// SetSize updates the model dimensions
func (m *MonteCarloModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the Monte Carlo scene
func (m *MonteCarloModel) Update(msg tea.Msg) (*MonteCarloModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.state != runInProgress {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "r", "enter":
			if m.state != runInProgress {
				return m, requestRunCmd
			}
		}
	}

	return m, nil
}

// requestRunCmd asks the root model to start a batch
func requestRunCmd() tea.Msg {
	return tuimsg.MonteCarloRequestedMsg{}
}

// View renders the scene for its current run state
func (m *MonteCarloModel) View() string {
	switch m.state {
	case runInProgress:
		return m.renderRunning()
	case runDone:
		return m.renderResult()
	case runFailed:
		return m.renderError()
	default:
		return m.renderIdle()
	}
}

func (m *MonteCarloModel) renderIdle() string {
	card := components.NewSummaryCard("Simulation Settings").
		AddRow("Trials", strconv.Itoa(m.config.NumTrials)).
		AddRow("Seed", seedLabel(m.config.Seed)).
		AddRow("Correlation", fmt.Sprintf("%.2f", m.config.Correlation)).
		AddRow("Workers", workersLabel(m.config.MaxParallel)).
		WithNote("Press r to run")

	return card.Render()
}

func (m *MonteCarloModel) renderRunning() string {
	elapsed := time.Since(m.startedAt).Round(time.Second)

	var content strings.Builder
	content.WriteString(m.spinner.View())
	content.WriteString(fmt.Sprintf(" Running %d trials...", m.config.NumTrials))
	content.WriteString("\n\n")
	content.WriteString(tuistyles.SubtitleStyle.Render(elapsed.String() + " elapsed"))

	return tuistyles.BorderStyle.Render(content.String())
}

func (m *MonteCarloModel) renderError() string {
	var content strings.Builder
	content.WriteString(tuistyles.ErrorStyle.Render("Simulation failed: " + m.err.Error()))
	content.WriteString("\n\n")
	content.WriteString(tuistyles.SubtitleStyle.Render("Press r to retry"))

	return content.String()
}

func (m *MonteCarloModel) renderResult() string {
	result := m.result

	var content strings.Builder
	content.WriteString(m.renderMetrics(result))
	content.WriteString("\n")
	content.WriteString(m.renderSuccessBar(result.SuccessRate))
	content.WriteString("\n\n")
	content.WriteString(m.renderPercentileChart(result))
	content.WriteString(m.renderDepletion(result))
	content.WriteString("\n\n")
	content.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf(
		"seed %d · %d trials · took %s · press r to rerun",
		result.Seed, result.NumTrials, m.elapsed.Round(100*time.Millisecond))))

	return content.String()
}

func (m *MonteCarloModel) renderMetrics(result *calculation.MonteCarloResult) string {
	successRate := components.NewMetricCard("Success Rate",
		formatPercent(result.SuccessRate))

	medianFinal := components.NewMetricCard("Median Final",
		tuistyles.FormatCurrency(result.FinalBalanceStats.Median))

	worstCase := components.NewMetricCard("5th Percentile",
		tuistyles.FormatCurrency(result.FinalBalanceStats.P5))

	depletionRate := components.NewMetricCard("Depletion Rate",
		formatPercent(result.Depletion.DepletionRate))

	return components.MetricRow(successRate, medianFinal, worstCase, depletionRate)
}

// renderSuccessBar draws the success rate as a solid bar colored by
// threshold
func (m *MonteCarloModel) renderSuccessBar(rate decimal.Decimal) string {
	pct := rate.InexactFloat64()

	bar := progress.New(
		progress.WithSolidFill(string(successColor(pct))),
		progress.WithWidth(48),
		progress.WithoutPercentage(),
	)

	label := tuistyles.MetricLabelStyle.Render("Plan survives in ")
	value := tuistyles.MetricValueStyle.Render(formatPercent(rate) + " of trials")

	return "  " + label + value + "\n  " + bar.ViewAs(pct)
}

func (m *MonteCarloModel) renderPercentileChart(result *calculation.MonteCarloResult) string {
	if len(result.PercentilesByAge) == 0 {
		return ""
	}

	p10 := make([]float64, len(result.PercentilesByAge))
	p50 := make([]float64, len(result.PercentilesByAge))
	p90 := make([]float64, len(result.PercentilesByAge))
	ages := make([]string, len(result.PercentilesByAge))
	for i, pct := range result.PercentilesByAge {
		p10[i] = pct.P10.InexactFloat64()
		p50[i] = pct.P50.InexactFloat64()
		p90[i] = pct.P90.InexactFloat64()
		ages[i] = strconv.Itoa(pct.Age)
	}

	chart := components.NewLineChart("Balance percentiles by age").
		AddSeries("P90", p90, tuistyles.ColorChartLine1).
		AddSeries("P50", p50, tuistyles.ColorChartLine2).
		AddSeries("P10", p10, tuistyles.ColorChartLine3).
		WithXLabels(ages).
		WithSize(min(m.width-6, 90), 12)

	return chart.Render()
}

func (m *MonteCarloModel) renderDepletion(result *calculation.MonteCarloResult) string {
	depletion := result.Depletion
	if depletion.EarliestAge == nil && depletion.MedianAge == nil {
		return ""
	}

	var parts []string
	if depletion.EarliestAge != nil {
		parts = append(parts, fmt.Sprintf("earliest at %d", *depletion.EarliestAge))
	}
	if depletion.MedianAge != nil {
		parts = append(parts, fmt.Sprintf("median at %.0f", *depletion.MedianAge))
	}
	if depletion.LatestAge != nil {
		parts = append(parts, fmt.Sprintf("latest at %d", *depletion.LatestAge))
	}

	return "\n\n" + tuistyles.SubtitleStyle.Render("Depletions: "+strings.Join(parts, " · "))
}

// successColor picks the bar color for a success fraction
func successColor(pct float64) lipgloss.Color {
	switch {
	case pct >= 0.9:
		return tuistyles.ColorSuccess
	case pct >= 0.7:
		return tuistyles.ColorChartLine3
	default:
		return tuistyles.ColorDanger
	}
}

// formatPercent renders a 0..1 fraction as a percentage
func formatPercent(fraction decimal.Decimal) string {
	return fraction.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

func seedLabel(seed uint64) string {
	if seed == 0 {
		return "auto"
	}
	return strconv.FormatUint(seed, 10)
}

func workersLabel(workers int) string {
	if workers <= 0 {
		return "auto"
	}
	return strconv.Itoa(workers)
}
