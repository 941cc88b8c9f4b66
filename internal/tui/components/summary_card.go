package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mhollis/fincast/internal/tui/tuistyles"
)

// SummaryRow is a single label/value line inside a summary card
type SummaryRow struct {
	Label string
	Value string
}

// SummaryCard displays a titled block of label/value rows
type SummaryCard struct {
	Title  string
	Rows   []SummaryRow
	Note   string
	Accent bool
	Width  int
}

// NewSummaryCard creates a new summary card
func NewSummaryCard(title string) *SummaryCard {
	return &SummaryCard{
		Title: title,
		Width: 44,
	}
}

// AddRow appends a label/value row
func (s *SummaryCard) AddRow(label, value string) *SummaryCard {
	s.Rows = append(s.Rows, SummaryRow{Label: label, Value: value})
	return s
}

// WithNote adds a muted footer line
func (s *SummaryCard) WithNote(note string) *SummaryCard {
	s.Note = note
	return s
}

// WithAccent highlights the card border
func (s *SummaryCard) WithAccent() *SummaryCard {
	s.Accent = true
	return s
}

// WithWidth sets the card width
func (s *SummaryCard) WithWidth(width int) *SummaryCard {
	s.Width = width
	return s
}

// Render returns the styled card
func (s *SummaryCard) Render() string {
	// Border (2) plus horizontal padding (4)
	innerWidth := s.Width - 6

	var content strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tuistyles.ColorPrimary)
	content.WriteString(titleStyle.Render(s.Title))
	content.WriteString("\n")

	valueStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)
	for _, row := range s.Rows {
		label := tuistyles.MetricLabelStyle.Render(row.Label)
		value := valueStyle.Render(row.Value)
		gap := innerWidth - lipgloss.Width(label) - lipgloss.Width(value)

		content.WriteString("\n")
		content.WriteString(label)
		content.WriteString(strings.Repeat(" ", max(1, gap)))
		content.WriteString(value)
	}

	if s.Note != "" {
		content.WriteString("\n\n")
		content.WriteString(tuistyles.SubtitleStyle.Render(s.Note))
	}

	borderColor := tuistyles.ColorBorder
	if s.Accent {
		borderColor = tuistyles.ColorPrimary
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2).
		Width(s.Width)

	return cardStyle.Render(content.String())
}

// CardColumns renders cards side by side
func CardColumns(cards ...*SummaryCard) string {
	if len(cards) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(cards))
	for _, card := range cards {
		rendered = append(rendered, card.Render())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
