package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sceneKeys maps each tab to its shortcut letter shown in the tab bar.
var sceneKeys = map[Scene]string{
	SceneOverview:   "o",
	SceneProjection: "p",
	SceneMonteCarlo: "m",
}

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderLoading()
	}

	if m.err != nil {
		return m.renderError()
	}

	// Render the current scene
	var content string
	switch m.currentScene {
	case SceneOverview:
		content = m.overviewModel.View()
	case SceneProjection:
		content = m.projectionModel.View()
	case SceneMonteCarlo:
		content = m.monteCarloModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	// Wrap content with app styling and status bar
	return m.renderApp(content)
}

// renderApp wraps content with title bar, status bar, and main container
func (m Model) renderApp(content string) string {
	titleBar := m.renderTitleBar()
	statusBar := m.renderStatusBar()

	// Calculate available height for content
	contentHeight := m.height - 4 // Title + tabs (2) + status (1) + padding (1)

	// Wrap content in a viewport-style container
	contentContainer := lipgloss.NewStyle().
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleBar,
		contentContainer,
		statusBar,
	)
}

// renderTitleBar renders the application title and the tab bar
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("fincast")
	if m.plan != nil && m.plan.Scenario.Name != "" {
		title += SubtitleStyle.Render("  ·  " + m.plan.Scenario.Name)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		m.renderTabBar(),
	)
}

// renderTabBar renders the main tabs with their shortcut letters
func (m Model) renderTabBar() string {
	var tabs []string
	for _, scene := range mainScenes {
		label := fmt.Sprintf("[%s] %s", sceneKeys[scene], scene.String())
		if scene == m.currentScene {
			tabs = append(tabs, TabActiveStyle.Render(label))
		} else {
			tabs = append(tabs,
				TabKeyStyle.Render("["+sceneKeys[scene]+"]")+
					TabInactiveStyle.Render(" "+scene.String()))
		}
	}
	return strings.Join(tabs, "   ")
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("tab", "next tab"),
	}

	switch m.currentScene {
	case SceneProjection:
		shortcuts = append(shortcuts,
			formatShortcut("↑/↓", "scroll"),
			formatShortcut("v", "table/chart"),
		)
	case SceneMonteCarlo:
		shortcuts = append(shortcuts, formatShortcut("r", "run"))
	}

	shortcuts = append(shortcuts,
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	)

	statusText := strings.Join(shortcuts, " • ")

	// Right-align a note while a simulation batch is in flight
	if m.mcRunning {
		note := SubtitleStyle.Render("simulating...")
		width := m.width - lipgloss.Width(statusText) - lipgloss.Width(note) - 2
		statusText = statusText + strings.Repeat(" ", max(0, width)) + note
	}

	return StatusBarStyle.Width(m.width).Render(statusText)
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

// renderLoading renders the startup spinner and message
func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading..."
	}

	content := BorderStyle.Render(m.spinner.View() + " " + message)

	return m.renderApp(content)
}

// renderError renders a fatal error message
func (m Model) renderError() string {
	errorMsg := "An error occurred"
	if m.err != nil {
		errorMsg = m.err.Error()
	}

	content := ErrorStyle.Render(
		fmt.Sprintf("Error: %s\n\nPress q to quit.", errorMsg),
	)

	return m.renderApp(content)
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	helpText := `
fincast terminal dashboard

KEYBOARD SHORTCUTS:
  o           Overview
  p           Projection table and chart
  m           Monte Carlo (first visit starts a run)
  tab         Next tab
  shift+tab   Previous tab
  ?           Toggle this help
  ESC         Go back
  q / Ctrl+C  Quit

PROJECTION:
  ↑/↓         Scroll the year table
  v           Switch between table and chart

MONTE CARLO:
  r / Enter   Run (or re-run) the simulation batch
`

	return BorderStyle.Render(helpText)
}
