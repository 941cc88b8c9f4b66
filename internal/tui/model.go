package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mhollis/fincast/internal/calculation"
	"github.com/mhollis/fincast/internal/config"
	"github.com/mhollis/fincast/internal/domain"
	"github.com/mhollis/fincast/internal/tui/scenes"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Plan data
	planPath string
	plan     *domain.PlanInput

	// Calculation engine
	engine *calculation.ProjectionEngine

	// Results
	projection *domain.ProjectionResult
	mcRunning  bool

	// Scene models
	overviewModel   *scenes.OverviewModel
	projectionModel *scenes.ProjectionModel
	monteCarloModel *scenes.MonteCarloModel

	// Loading state
	spinner        spinner.Model
	loading        bool
	loadingMessage string

	// Error state
	err error
}

// NewModel creates a new application model
func NewModel(planPath string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return Model{
		currentScene:    SceneOverview,
		planPath:        planPath,
		engine:          calculation.NewProjectionEngine(),
		overviewModel:   scenes.NewOverviewModel(),
		projectionModel: scenes.NewProjectionModel(),
		monteCarloModel: scenes.NewMonteCarloModel(),
		spinner:         sp,
		loading:         true,
		loadingMessage:  "Loading plan...",
		width:           80,
		height:          24,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadPlanCmd(m.planPath), m.spinner.Tick)
}

// loadPlanCmd returns a command that parses the plan file
func loadPlanCmd(path string) tea.Cmd {
	return func() tea.Msg {
		parser := config.NewInputParser()
		plan, err := parser.LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return PlanLoadedMsg{Plan: plan}
	}
}

// runProjectionCmd returns a command that runs the deterministic projection
func runProjectionCmd(engine *calculation.ProjectionEngine, scenario *domain.Scenario) tea.Cmd {
	return func() tea.Msg {
		result, err := engine.RunProjection(scenario)
		return ProjectionDoneMsg{Result: result, Err: err}
	}
}

// runMonteCarloCmd returns a command that runs the full Monte Carlo batch
func runMonteCarloCmd(plan *domain.PlanInput) tea.Cmd {
	return func() tea.Msg {
		mcEngine := calculation.NewMonteCarloEngine(monteCarloConfigFor(plan))
		result, err := mcEngine.Run(context.Background(), &plan.Scenario)
		return MonteCarloDoneMsg{Result: result, Err: err}
	}
}

// monteCarloConfigFor maps the plan's Monte Carlo settings onto an engine
// config. Seed stays 0 when the plan leaves it unset, so the engine picks
// a wall-clock seed at run time.
func monteCarloConfigFor(plan *domain.PlanInput) calculation.MonteCarloConfig {
	cfg := calculation.DefaultMonteCarloConfig()
	cfg.Seed = 0
	if plan != nil && plan.MonteCarlo != nil {
		cfg.NumTrials = plan.MonteCarlo.NumTrials
		cfg.Seed = plan.MonteCarlo.Seed
		cfg.Correlation = plan.MonteCarlo.Correlation
		cfg.MaxParallel = plan.MonteCarlo.MaxParallel
	}
	return cfg
}

// String returns a human-readable name for a scene
func (s Scene) String() string {
	switch s {
	case SceneOverview:
		return "Overview"
	case SceneProjection:
		return "Projection"
	case SceneMonteCarlo:
		return "Monte Carlo"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}
