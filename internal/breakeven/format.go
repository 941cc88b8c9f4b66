package breakeven

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mhollis/fincast/internal/domain"
)

// TableFormatter renders a solve result as a console report.
type TableFormatter struct{}

// Format generates the full break-even report: the solved parameter, the
// projection that proves it, and the unmodified baseline for contrast.
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	if result.Projection != nil {
		sb.WriteString(fmt.Sprintf("Scenario:   %s\n", result.Projection.ScenarioName))
	}
	sb.WriteString(fmt.Sprintf("Target:     %s\n", targetLabel(result.Target)))
	if result.Person != "" {
		sb.WriteString(fmt.Sprintf("Person:     %s\n", result.Person))
	}
	sb.WriteString(fmt.Sprintf("Status:     %s\n", statusLine(result)))
	if result.Message != "" {
		sb.WriteString(fmt.Sprintf("Note:       %s\n", result.Message))
	}
	sb.WriteString("\n")

	if result.Success {
		sb.WriteString("SOLVED PARAMETERS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		if result.SpendingFactor != nil {
			sb.WriteString(fmt.Sprintf("  Spending Factor:     %sx baseline\n", result.SpendingFactor.StringFixed(3)))
		}
		if result.AnnualSpending != nil {
			sb.WriteString(fmt.Sprintf("  Annual Spending:     $%s\n", formatMoney(*result.AnnualSpending)))
		}
		if result.ReturnDelta != nil {
			sb.WriteString(fmt.Sprintf("  Return Adjustment:   %s points on every account\n", signedPoints(*result.ReturnDelta)))
		}
		if result.RetirementShift != nil {
			sb.WriteString(fmt.Sprintf("  Boundary Shift:      %s\n", shiftLabel(*result.RetirementShift)))
		}
		if result.RetirementAge != nil {
			sb.WriteString(fmt.Sprintf("  Last Working Age:    %d\n", *result.RetirementAge))
		}
		sb.WriteString("\n")
	}

	if result.Projection != nil {
		sb.WriteString("PROJECTION AT BREAK-EVEN\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		writeMetrics(&sb, result.Projection.Metrics)
		sb.WriteString("\n")
	}

	sb.WriteString("BASELINE\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	writeMetrics(&sb, result.BaseMetrics)
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	return sb.String()
}

func statusLine(result *Result) string {
	if !result.Success {
		return "no break-even point found"
	}
	if result.Iterations == 0 {
		return "solved at the search window edge"
	}
	return fmt.Sprintf("converged in %d iterations", result.Iterations)
}

func targetLabel(target SolveTarget) string {
	switch target {
	case TargetMaxSpending:
		return "maximum sustainable spending"
	case TargetRequiredReturn:
		return "required growth-rate adjustment"
	case TargetRetirementAge:
		return "retirement boundary"
	}
	return string(target)
}

func shiftLabel(shift int) string {
	switch {
	case shift == 0:
		return "none"
	case shift == 1:
		return "work 1 more year"
	case shift > 1:
		return fmt.Sprintf("work %d more years", shift)
	case shift == -1:
		return "retire 1 year earlier"
	default:
		return fmt.Sprintf("retire %d years earlier", -shift)
	}
}

func signedPoints(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+" + delta.StringFixed(1)
	}
	return delta.StringFixed(1)
}

func writeMetrics(sb *strings.Builder, metrics domain.SuccessMetrics) {
	sb.WriteString(fmt.Sprintf("  Final Balance:       $%s\n", formatMoney(metrics.FinalBalance)))
	sb.WriteString(fmt.Sprintf("  Years Solvent:       %d\n", metrics.YearsSolvent))

	deficit := "never"
	if metrics.FirstDeficitAge != nil {
		deficit = fmt.Sprintf("age %d", *metrics.FirstDeficitAge)
	}
	sb.WriteString(fmt.Sprintf("  First Deficit:       %s\n", deficit))
}

// formatMoney compacts balances to thousands or millions for display.
func formatMoney(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		return d.Div(decimal.NewFromInt(1000000)).StringFixed(2) + "M"
	}
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		return d.Div(decimal.NewFromInt(1000)).StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}
