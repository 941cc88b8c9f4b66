// Package tuistyles holds the shared lipgloss palette and text styles for
// the terminal dashboard. Scenes and components import it directly; the
// tui root package re-exports the common names.
package tuistyles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

// Palette.
var (
	ColorPrimary    = lipgloss.Color("62")
	ColorSecondary  = lipgloss.Color("39")
	ColorAccent     = lipgloss.Color("212")
	ColorSuccess    = lipgloss.Color("42")
	ColorDanger     = lipgloss.Color("196")
	ColorInfo       = lipgloss.Color("75")
	ColorForeground = lipgloss.Color("252")
	ColorMuted      = lipgloss.Color("245")
	ColorBorder     = lipgloss.Color("240")

	ColorChartLine1 = lipgloss.Color("81")
	ColorChartLine2 = lipgloss.Color("212")
	ColorChartLine3 = lipgloss.Color("226")
)

// Text styles shared across scenes.
var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SubtitleStyle = lipgloss.NewStyle().Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	StatusKeyStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)
	ActiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(1, 2)

	SelectedItemStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	UnselectedItemStyle = lipgloss.NewStyle().Foreground(ColorForeground)

	MetricLabelStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	MetricValueStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorForeground)

	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
	InfoStyle  = lipgloss.NewStyle().Foreground(ColorInfo)

	TabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	TabInactiveStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	TabKeyStyle      = lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary)
)

// MetricTrendStyle returns the style for a delta line: success color when
// the change is positive, danger otherwise.
func MetricTrendStyle(positive bool) lipgloss.Style {
	if positive {
		return lipgloss.NewStyle().Foreground(ColorSuccess)
	}
	return lipgloss.NewStyle().Foreground(ColorDanger)
}

// TrendIndicator returns the arrow glyph for a delta direction.
func TrendIndicator(positive bool) string {
	if positive {
		return "▲"
	}
	return "▼"
}

var usd = accounting.Accounting{Symbol: "$", Precision: 0}

// FormatCurrency renders a decimal as whole dollars with separators.
func FormatCurrency(amount decimal.Decimal) string {
	return usd.FormatMoney(amount)
}

// FormatCurrencyShort renders a dollar amount in compact K/M notation for
// tight table columns and chart axes.
func FormatCurrencyShort(value float64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	switch {
	case value >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("%s$%.0fK", sign, value/1_000)
	default:
		return fmt.Sprintf("%s$%.0f", sign, value)
	}
}
