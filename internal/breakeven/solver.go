package breakeven

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mhollis/fincast/internal/calculation"
	"github.com/mhollis/fincast/internal/domain"
	"github.com/mhollis/fincast/internal/transform"
)

var two = decimal.NewFromInt(2)

// SolverOptions tune the bisection loop shared by all targets.
type SolverOptions struct {
	MaxIterations int
	Tolerance     decimal.Decimal
}

// DefaultSolverOptions returns the standard iteration cap and convergence
// tolerance.
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     decimal.NewFromFloat(0.0005),
	}
}

// Solver answers break-even questions by bisecting a single plan parameter
// and re-running the deterministic projection at each probe. The scenario
// under test is never mutated; every probe works on a transformed copy.
type Solver struct {
	Engine  *calculation.ProjectionEngine
	Options SolverOptions
}

// NewSolver creates a solver around an existing projection engine. A nil
// engine gets a fresh one; zero options fall back to the defaults.
func NewSolver(engine *calculation.ProjectionEngine, options SolverOptions) *Solver {
	if engine == nil {
		engine = calculation.NewProjectionEngine()
	}
	if options.MaxIterations <= 0 {
		options.MaxIterations = DefaultMaxIterations
	}
	if !options.Tolerance.IsPositive() {
		options.Tolerance = DefaultSolverOptions().Tolerance
	}
	return &Solver{Engine: engine, Options: options}
}

// NewDefaultSolver creates a solver with default options.
func NewDefaultSolver(engine *calculation.ProjectionEngine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// Solve runs one break-even search. The baseline projection is always run
// first so the result can report what the unmodified plan does.
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	maxIter := req.MaxIterations
	if maxIter <= 0 {
		maxIter = s.Options.MaxIterations
	}
	tolerance := req.Tolerance
	if !tolerance.IsPositive() {
		tolerance = s.Options.Tolerance
	}

	base, err := s.Engine.RunProjection(req.Scenario)
	if err != nil {
		return nil, NewSolveError(req.Target, "baseline", "baseline projection failed", err)
	}

	switch req.Target {
	case TargetMaxSpending:
		return s.solveMaxSpending(ctx, req, maxIter, tolerance, base)
	case TargetRequiredReturn:
		return s.solveRequiredReturn(ctx, req, maxIter, tolerance, base)
	case TargetRetirementAge:
		return s.solveRetirementBoundary(ctx, req, maxIter, base)
	default:
		return nil, NewSolveError(req.Target, "solve", fmt.Sprintf("unknown solve target %q", req.Target), nil)
	}
}

func validateRequest(req Request) error {
	if req.Scenario == nil {
		return NewSolveError(req.Target, "validate", "scenario cannot be nil", nil)
	}

	switch req.Target {
	case TargetMaxSpending:
		if len(req.Scenario.Expenses) == 0 {
			return NewSolveError(req.Target, "validate", "scenario has no recurring expenses to scale", nil)
		}
	case TargetRequiredReturn:
		if len(req.Scenario.Accounts) == 0 {
			return NewSolveError(req.Target, "validate", "scenario has no accounts to adjust", nil)
		}
	case TargetRetirementAge:
		if req.Person == "" {
			return NewSolveError(req.Target, "validate", "person is required for the retirement target", nil)
		}
		if req.Scenario.PersonByName(req.Person) == nil {
			return NewSolveError(req.Target, "validate", fmt.Sprintf("person %s not found in scenario", req.Person), nil)
		}
		owned := 0
		for _, src := range req.Scenario.IncomeSources {
			if src.Owner == req.Person {
				owned++
			}
		}
		if owned == 0 {
			return NewSolveError(req.Target, "validate", fmt.Sprintf("person %s has no working income to shift", req.Person), nil)
		}
	default:
		return NewSolveError(req.Target, "validate", fmt.Sprintf("unknown solve target %q", req.Target), nil)
	}

	return nil
}

// solveMaxSpending searches for the largest recurring-expense factor that
// keeps the plan solvent. Solvency is monotone here: spending more never
// helps, so a standard bisection between a solvent floor and an insolvent
// ceiling converges on the boundary. The reported factor is the last probe
// verified solvent.
func (s *Solver) solveMaxSpending(ctx context.Context, req Request, maxIter int, tolerance decimal.Decimal, base *domain.ProjectionResult) (*Result, error) {
	result := &Result{
		Target:      req.Target,
		BaseMetrics: base.Metrics,
	}

	lo := minSpendingFactor
	hi := maxSpendingFactor

	solvent, proj, err := s.probeSpending(req.Scenario, hi)
	if err != nil {
		return nil, err
	}
	if solvent {
		result.Success = true
		result.Message = fmt.Sprintf("solvent even at %sx baseline spending, the top of the search window", hi)
		s.setSpending(result, req.Scenario, hi, proj)
		return result, nil
	}

	solvent, proj, err = s.probeSpending(req.Scenario, lo)
	if err != nil {
		return nil, err
	}
	if !solvent {
		result.Message = fmt.Sprintf("insolvent even with recurring spending cut to %s%% of baseline; planned expenses or mortgage payments alone exhaust the portfolio",
			lo.Mul(decimal.NewFromInt(100)).StringFixed(0))
		return result, nil
	}

	best := proj
	for result.Iterations < maxIter && hi.Sub(lo).GreaterThan(tolerance) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Iterations++

		mid := lo.Add(hi).Div(two)
		solvent, proj, err := s.probeSpending(req.Scenario, mid)
		if err != nil {
			return nil, err
		}
		if solvent {
			lo = mid
			best = proj
		} else {
			hi = mid
		}
	}

	if hi.Sub(lo).GreaterThan(tolerance) {
		result.Message = "stopped at the iteration cap before the tolerance was reached"
	}

	result.Success = true
	s.setSpending(result, req.Scenario, lo, best)
	return result, nil
}

// solveRequiredReturn searches for the smallest growth-rate delta, applied
// to every account, that keeps the plan solvent. The window is clamped per
// scenario so no probe pushes a rate outside the -50..50 band. A negative
// answer is the plan's return headroom; a positive one is the lift it
// needs.
func (s *Solver) solveRequiredReturn(ctx context.Context, req Request, maxIter int, tolerance decimal.Decimal, base *domain.ProjectionResult) (*Result, error) {
	result := &Result{
		Target:      req.Target,
		BaseMetrics: base.Metrics,
	}

	maxRate, minRate := rateExtremes(req.Scenario)
	lo := returnDeltaWindow.Neg()
	if floor := growthRateBound.Neg().Sub(minRate); floor.GreaterThan(lo) {
		lo = floor
	}
	hi := returnDeltaWindow
	if ceil := growthRateBound.Sub(maxRate); ceil.LessThan(hi) {
		hi = ceil
	}

	solvent, proj, err := s.probeReturns(req.Scenario, lo)
	if err != nil {
		return nil, err
	}
	if solvent {
		result.Success = true
		result.Message = fmt.Sprintf("solvent even with returns lowered %s points, the bottom of the search window", lo.Abs().StringFixed(1))
		s.setReturns(result, lo, proj)
		return result, nil
	}

	solvent, proj, err = s.probeReturns(req.Scenario, hi)
	if err != nil {
		return nil, err
	}
	if !solvent {
		result.Message = fmt.Sprintf("no growth-rate adjustment up to +%s points keeps the plan solvent", hi.StringFixed(1))
		return result, nil
	}

	best := proj
	for result.Iterations < maxIter && hi.Sub(lo).GreaterThan(tolerance) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Iterations++

		mid := lo.Add(hi).Div(two)
		solvent, proj, err := s.probeReturns(req.Scenario, mid)
		if err != nil {
			return nil, err
		}
		if solvent {
			hi = mid
			best = proj
		} else {
			lo = mid
		}
	}

	if hi.Sub(lo).GreaterThan(tolerance) {
		result.Message = "stopped at the iteration cap before the tolerance was reached"
	}

	result.Success = true
	s.setReturns(result, hi, best)
	return result, nil
}

// solveRetirementBoundary searches whole-year shifts of one person's
// retirement boundary. When the baseline is solvent it looks for the most
// negative shift that stays solvent; when it is not, for the smallest
// positive one that recovers. Bisection over the shift assumes solvency is
// monotone in it: each added working year trades a year of salary for the
// year of retirement income it delays, so the salary must be worth at
// least as much.
func (s *Solver) solveRetirementBoundary(ctx context.Context, req Request, maxIter int, base *domain.ProjectionResult) (*Result, error) {
	result := &Result{
		Target:      req.Target,
		Person:      req.Person,
		BaseMetrics: base.Metrics,
	}

	if !base.Depleted() {
		return s.searchEarlierRetirement(ctx, req, maxIter, base, result)
	}
	return s.searchLaterRetirement(ctx, req, maxIter, base, result)
}

func (s *Solver) searchEarlierRetirement(ctx context.Context, req Request, maxIter int, base *domain.ProjectionResult, result *Result) (*Result, error) {
	floor := earliestShift(req.Scenario, req.Person)
	if floor == 0 {
		result.Success = true
		result.Message = "no earlier retirement to test within the plan's age windows"
		s.setRetirement(result, req.Person, 0, base)
		return result, nil
	}

	solvent, proj, err := s.probeShift(req.Scenario, req.Person, floor)
	if err != nil {
		return nil, err
	}
	if solvent {
		result.Success = true
		s.setRetirement(result, req.Person, floor, proj)
		return result, nil
	}

	lo, hi := floor, 0
	best := base
	for hi-lo > 1 && result.Iterations < maxIter {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Iterations++

		mid := lo + (hi-lo)/2
		solvent, proj, err := s.probeShift(req.Scenario, req.Person, mid)
		if err != nil {
			return nil, err
		}
		if solvent {
			hi = mid
			best = proj
		} else {
			lo = mid
		}
	}

	result.Success = true
	s.setRetirement(result, req.Person, hi, best)
	return result, nil
}

func (s *Solver) searchLaterRetirement(ctx context.Context, req Request, maxIter int, base *domain.ProjectionResult, result *Result) (*Result, error) {
	ceil := maxRetirementShift

	solvent, proj, err := s.probeShift(req.Scenario, req.Person, ceil)
	if err != nil {
		return nil, err
	}
	if !solvent {
		result.Message = fmt.Sprintf("even working %d more years does not keep the plan solvent", ceil)
		return result, nil
	}

	lo, hi := 0, ceil
	best := proj
	for hi-lo > 1 && result.Iterations < maxIter {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Iterations++

		mid := lo + (hi-lo)/2
		solvent, proj, err := s.probeShift(req.Scenario, req.Person, mid)
		if err != nil {
			return nil, err
		}
		if solvent {
			hi = mid
			best = proj
		} else {
			lo = mid
		}
	}

	result.Success = true
	s.setRetirement(result, req.Person, hi, best)
	return result, nil
}

// probeSpending evaluates solvency with recurring expenses scaled by
// factor.
func (s *Solver) probeSpending(scenario *domain.Scenario, factor decimal.Decimal) (bool, *domain.ProjectionResult, error) {
	modified, err := transform.ApplyTransforms(scenario, []transform.ScenarioTransform{
		&transform.ScaleExpenses{Factor: factor},
	})
	if err != nil {
		return false, nil, NewSolveError(TargetMaxSpending, "probe", fmt.Sprintf("scaling expenses by %s failed", factor), err)
	}
	return s.solventAt(TargetMaxSpending, modified)
}

// probeReturns evaluates solvency with every account's growth rates shifted
// by delta points. A zero delta is the baseline itself; the transform
// rejects it, so probe it as a plain copy.
func (s *Solver) probeReturns(scenario *domain.Scenario, delta decimal.Decimal) (bool, *domain.ProjectionResult, error) {
	if delta.IsZero() {
		return s.solventAt(TargetRequiredReturn, scenario.DeepCopy())
	}
	modified, err := transform.ApplyTransforms(scenario, []transform.ScenarioTransform{
		&transform.AdjustReturns{Delta: delta},
	})
	if err != nil {
		return false, nil, NewSolveError(TargetRequiredReturn, "probe", fmt.Sprintf("adjusting returns by %s failed", delta), err)
	}
	return s.solventAt(TargetRequiredReturn, modified)
}

// probeShift evaluates solvency with the person's retirement boundary
// moved by years.
func (s *Solver) probeShift(scenario *domain.Scenario, person string, years int) (bool, *domain.ProjectionResult, error) {
	if years == 0 {
		return s.solventAt(TargetRetirementAge, scenario.DeepCopy())
	}
	modified, err := transform.ApplyTransforms(scenario, []transform.ScenarioTransform{
		&transform.ShiftRetirement{Person: person, Years: years},
	})
	if err != nil {
		return false, nil, NewSolveError(TargetRetirementAge, "probe", fmt.Sprintf("shifting retirement by %d years failed", years), err)
	}
	return s.solventAt(TargetRetirementAge, modified)
}

func (s *Solver) solventAt(target SolveTarget, scenario *domain.Scenario) (bool, *domain.ProjectionResult, error) {
	projection, err := s.Engine.RunProjection(scenario)
	if err != nil {
		return false, nil, NewSolveError(target, "probe", "projection failed", err)
	}
	return !projection.Depleted(), projection, nil
}

func (s *Solver) setSpending(result *Result, scenario *domain.Scenario, factor decimal.Decimal, projection *domain.ProjectionResult) {
	annual := totalRecurringSpending(scenario).Mul(factor)
	result.SpendingFactor = &factor
	result.AnnualSpending = &annual
	result.Projection = projection
}

func (s *Solver) setReturns(result *Result, delta decimal.Decimal, projection *domain.ProjectionResult) {
	result.ReturnDelta = &delta
	result.Projection = projection
}

func (s *Solver) setRetirement(result *Result, person string, shift int, projection *domain.ProjectionResult) {
	result.RetirementShift = &shift
	result.Projection = projection
	if age := finalRetirementAge(projection, person); age != nil {
		result.RetirementAge = age
	}
}

// earliestShift returns the most negative boundary shift worth probing:
// the person cannot retire before their current age, and the search never
// reaches back more than maxRetirementShift years.
func earliestShift(scenario *domain.Scenario, person string) int {
	p := scenario.PersonByName(person)

	minEnd := 0
	found := false
	for _, src := range scenario.IncomeSources {
		if src.Owner != person {
			continue
		}
		if !found || src.EndAge < minEnd {
			minEnd = src.EndAge
			found = true
		}
	}

	floor := p.CurrentAge - minEnd
	if floor < -maxRetirementShift {
		floor = -maxRetirementShift
	}
	if floor > 0 {
		floor = 0
	}
	return floor
}

// finalRetirementAge picks the person's last working age from a
// projection, the latest when they own several income sources.
func finalRetirementAge(projection *domain.ProjectionResult, person string) *int {
	var age *int
	for _, ra := range projection.RetirementAges {
		if ra.Person != person {
			continue
		}
		if age == nil || ra.RetirementAge > *age {
			v := ra.RetirementAge
			age = &v
		}
	}
	return age
}

// totalRecurringSpending sums the first-year nominal amounts of every
// recurring expense, before growth.
func totalRecurringSpending(scenario *domain.Scenario) decimal.Decimal {
	total := decimal.Zero
	for _, expense := range scenario.Expenses {
		total = total.Add(expense.AnnualAmount)
	}
	return total
}

func rateExtremes(scenario *domain.Scenario) (maxRate, minRate decimal.Decimal) {
	first := true
	for _, account := range scenario.Accounts {
		for _, rate := range []decimal.Decimal{account.AggressiveRate, account.ConservativeRate} {
			if first {
				maxRate, minRate = rate, rate
				first = false
				continue
			}
			if rate.GreaterThan(maxRate) {
				maxRate = rate
			}
			if rate.LessThan(minRate) {
				minRate = rate
			}
		}
	}
	return maxRate, minRate
}
