package breakeven

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mhollis/fincast/internal/domain"
)

// SolveTarget selects which plan parameter the solver searches over.
type SolveTarget string

const (
	// TargetMaxSpending finds the largest recurring-expense factor that
	// keeps the plan solvent through the projection horizon.
	TargetMaxSpending SolveTarget = "max_spending"

	// TargetRequiredReturn finds the smallest growth-rate adjustment, in
	// percentage points applied to every account, that keeps the plan
	// solvent. Negative values mean the plan has return headroom.
	TargetRequiredReturn SolveTarget = "required_return"

	// TargetRetirementAge finds the earliest retirement boundary shift for
	// one person that keeps the plan solvent, or the smallest number of
	// extra working years when the current schedule already fails.
	TargetRetirementAge SolveTarget = "retirement_age"
)

// DefaultMaxIterations bounds the bisection loop. The widest search window
// divided by the default tolerance converges in well under this many steps.
const DefaultMaxIterations = 48

// maxRetirementShift caps the retirement-boundary search in either
// direction, in whole years.
const maxRetirementShift = 20

// Search windows for the continuous targets. Spending is searched as a
// multiple of baseline recurring expenses; return deltas are percentage
// points, clamped per scenario so every shifted rate stays inside the
// -50..50 configuration band.
var (
	minSpendingFactor = decimal.NewFromFloat(0.05)
	maxSpendingFactor = decimal.NewFromInt(4)
	returnDeltaWindow = decimal.NewFromInt(20)
	growthRateBound   = decimal.NewFromInt(50)
)

// Request describes one break-even solve. Person is required for the
// retirement target and ignored otherwise. Zero MaxIterations or Tolerance
// fall back to the solver's options.
type Request struct {
	Scenario      *domain.Scenario
	Target        SolveTarget
	Person        string
	MaxIterations int
	Tolerance     decimal.Decimal
}

// Result reports the solved parameter and the projection that proves it.
// Only the pointers matching the request's target are populated. Success is
// false when no value inside the search window keeps the plan solvent;
// Message explains that, or notes when the answer sat on a window edge.
type Result struct {
	Target     SolveTarget
	Person     string
	Success    bool
	Iterations int
	Message    string

	SpendingFactor  *decimal.Decimal
	AnnualSpending  *decimal.Decimal
	ReturnDelta     *decimal.Decimal
	RetirementShift *int
	RetirementAge   *int

	Projection  *domain.ProjectionResult
	BaseMetrics domain.SuccessMetrics
}

// SolveError represents a failure while solving a break-even request.
type SolveError struct {
	Target    SolveTarget
	Operation string
	Reason    string
	Err       error
}

func (e *SolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("breakeven %s (%s): %s: %v", e.Target, e.Operation, e.Reason, e.Err)
	}
	return fmt.Sprintf("breakeven %s (%s): %s", e.Target, e.Operation, e.Reason)
}

func (e *SolveError) Unwrap() error {
	return e.Err
}

// NewSolveError creates a new SolveError.
func NewSolveError(target SolveTarget, operation, reason string, err error) error {
	return &SolveError{
		Target:    target,
		Operation: operation,
		Reason:    reason,
		Err:       err,
	}
}
