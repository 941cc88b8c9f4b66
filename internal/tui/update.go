package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mhollis/fincast/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	// Standard tea.Msg types
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.overviewModel.SetSize(msg.Width, msg.Height)
		m.projectionModel.SetSize(msg.Width, msg.Height)
		m.monteCarloModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		// The Monte Carlo scene owns its own spinner; ticks are routed to
		// it regardless of the visible scene so the run keeps animating.
		// Mismatched spinner IDs are ignored by the models themselves.
		var cmds []tea.Cmd
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		mcModel, cmd := m.monteCarloModel.Update(msg)
		m.monteCarloModel = mcModel
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	// Custom messages
	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case PlanLoadedMsg:
		m.plan = msg.Plan
		if msg.Plan == nil {
			return m, nil
		}
		m.loadingMessage = "Running projection..."
		m.overviewModel.SetPlan(msg.Plan, m.planPath)
		m.monteCarloModel.SetConfig(monteCarloConfigFor(msg.Plan))
		return m, runProjectionCmd(m.engine, &msg.Plan.Scenario)

	case ProjectionDoneMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.projection = msg.Result
		m.projectionModel.SetResult(msg.Result)
		return m, nil

	case tuimsg.MonteCarloRequestedMsg:
		return m.startMonteCarlo()

	case MonteCarloDoneMsg:
		m.mcRunning = false
		if msg.Err != nil {
			m.monteCarloModel.SetError(msg.Err)
			return m, nil
		}
		m.monteCarloModel.SetResult(msg.Result)
		return m, nil
	}

	// Delegate to scene-specific update handlers
	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keyboard shortcuts
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		if m.currentScene != SceneHelp {
			return m, navigateCmd(SceneHelp)
		}
		return m, navigateCmd(m.previousScene)

	case "esc":
		if m.currentScene != SceneOverview {
			if m.previousScene != m.currentScene {
				return m, navigateCmd(m.previousScene)
			}
			return m, navigateCmd(SceneOverview)
		}

	case "tab":
		return m, navigateCmd(nextScene(m.currentScene))

	case "shift+tab":
		return m, navigateCmd(prevScene(m.currentScene))

	case "o":
		if m.currentScene != SceneOverview {
			return m, navigateCmd(SceneOverview)
		}

	case "p":
		if m.currentScene != SceneProjection {
			return m, navigateCmd(SceneProjection)
		}

	case "m":
		// Jump to the Monte Carlo scene; the first visit also kicks off
		// the batch.
		var cmds []tea.Cmd
		if m.currentScene != SceneMonteCarlo {
			cmds = append(cmds, navigateCmd(SceneMonteCarlo))
		}
		if m.plan != nil && !m.mcRunning && !m.monteCarloModel.HasResult() {
			var cmd tea.Cmd
			m, cmd = m.startMonteCarlo()
			cmds = append(cmds, cmd)
		}
		if len(cmds) > 0 {
			return m, tea.Batch(cmds...)
		}
		return m, nil
	}

	// Let the current scene handle other keys
	return m.updateCurrentScene(msg)
}

// startMonteCarlo launches a batch and starts the run animation
func (m Model) startMonteCarlo() (Model, tea.Cmd) {
	if m.plan == nil || m.mcRunning {
		return m, nil
	}
	m.mcRunning = true
	m.monteCarloModel.SetRunning()
	return m, tea.Batch(runMonteCarloCmd(m.plan), m.monteCarloModel.SpinnerTick())
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.currentScene {
	case SceneOverview:
		overviewModel, cmd := m.overviewModel.Update(msg)
		m.overviewModel = overviewModel
		return m, cmd
	case SceneProjection:
		projectionModel, cmd := m.projectionModel.Update(msg)
		m.projectionModel = projectionModel
		return m, cmd
	case SceneMonteCarlo:
		mcModel, cmd := m.monteCarloModel.Update(msg)
		m.monteCarloModel = mcModel
		return m, cmd
	}

	return m, nil
}

// navigateCmd returns a command that switches to the given scene
func navigateCmd(scene Scene) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Scene: scene}
	}
}

// nextScene returns the tab after s, wrapping around
func nextScene(s Scene) Scene {
	for i, scene := range mainScenes {
		if scene == s {
			return mainScenes[(i+1)%len(mainScenes)]
		}
	}
	return SceneOverview
}

// prevScene returns the tab before s, wrapping around
func prevScene(s Scene) Scene {
	for i, scene := range mainScenes {
		if scene == s {
			return mainScenes[(i-1+len(mainScenes))%len(mainScenes)]
		}
	}
	return SceneOverview
}
