package tui

import (
	"github.com/mhollis/fincast/internal/calculation"
	"github.com/mhollis/fincast/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneOverview Scene = iota
	SceneProjection
	SceneMonteCarlo
	SceneHelp
)

// mainScenes is the tab order. Help is reachable only through "?".
var mainScenes = []Scene{SceneOverview, SceneProjection, SceneMonteCarlo}

// Message types for the Bubble Tea update cycle

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg reports a fatal startup error
type ErrorMsg struct {
	Err error
}

// PlanLoadedMsg signals the plan file has been parsed
type PlanLoadedMsg struct {
	Plan *domain.PlanInput
}

// ProjectionDoneMsg signals the deterministic projection has finished
type ProjectionDoneMsg struct {
	Result *domain.ProjectionResult
	Err    error
}

// MonteCarloDoneMsg signals a Monte Carlo batch has finished
type MonteCarloDoneMsg struct {
	Result *calculation.MonteCarloResult
	Err    error
}
