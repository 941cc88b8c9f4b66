// Package tuimsg defines the messages scene models emit back to the root
// TUI model. Scenes cannot import the tui package without creating an
// import cycle, so the shared messages live here.
package tuimsg

// MonteCarloRequestedMsg asks the root model to start a Monte Carlo batch.
type MonteCarloRequestedMsg struct{}
