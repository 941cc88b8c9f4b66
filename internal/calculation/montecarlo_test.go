package calculation

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mhollis/fincast/internal/domain"
)

func stochasticScenario(aggressive, conservative int64) *domain.Scenario {
	return &domain.Scenario{
		Name:             "stochastic",
		CurrentYear:      2025,
		CurrentAge:       55,
		MaxProjectionAge: 65,
		Accounts: []domain.Account{
			{
				Type:               "Brokerage",
				Owner:              domain.JointOwner,
				Balance:            decimal.NewFromInt(400000),
				AggressiveRate:     decimal.NewFromInt(aggressive),
				ConservativeRate:   decimal.NewFromInt(conservative),
				TransitionStartAge: 55,
				TransitionEndAge:   60,
			},
			{
				Type:               "IRA",
				Owner:              domain.JointOwner,
				Balance:            decimal.NewFromInt(200000),
				AggressiveRate:     decimal.NewFromInt(aggressive),
				ConservativeRate:   decimal.NewFromInt(conservative),
				TransitionStartAge: 55,
				TransitionEndAge:   60,
			},
		},
		Expenses: []domain.Expense{
			{Name: "Living", Owner: domain.JointOwner, AnnualAmount: decimal.NewFromInt(30000), StartAge: 50, EndAge: 95},
		},
	}
}

func TestNewMonteCarloEngine_Defaults(t *testing.T) {
	engine := NewMonteCarloEngine(MonteCarloConfig{})

	if engine.config.NumTrials != domain.DefaultTrialCount {
		t.Errorf("Expected %d trials by default, got %d", domain.DefaultTrialCount, engine.config.NumTrials)
	}
	if engine.config.Seed == 0 {
		t.Error("Expected a non-zero seed to be chosen")
	}
	if engine.config.MaxParallel < 1 {
		t.Errorf("Expected at least one worker, got %d", engine.config.MaxParallel)
	}
}

func TestVolatilityForReturn_CurvePoints(t *testing.T) {
	cases := []struct {
		annualReturn float64
		expected     float64
	}{
		{0.10, 0.18},
		{0.08, 0.16},
		{0.07, 0.12},
		{0.055, 0.08},
		{0.04, 0.04},
		{0.00, 0.02},
	}

	for _, tc := range cases {
		got := VolatilityForReturn(tc.annualReturn)
		if math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("VolatilityForReturn(%v) = %v, expected %v", tc.annualReturn, got, tc.expected)
		}
	}
}

func TestVolatilityForReturn_ContinuousAtBreakpoints(t *testing.T) {
	for _, breakpoint := range []float64{0.04, 0.055, 0.07, 0.08} {
		below := VolatilityForReturn(breakpoint - 1e-6)
		at := VolatilityForReturn(breakpoint)
		if math.Abs(at-below) > 1e-3 {
			t.Errorf("Curve jumps by %v at a %v%% expected return", math.Abs(at-below), breakpoint*100)
		}
	}
}

func TestVolatilityForReturn_NeverNegative(t *testing.T) {
	for _, annualReturn := range []float64{-0.10, -0.06, -0.04, 0, 0.20} {
		if vol := VolatilityForReturn(annualReturn); vol < 0 {
			t.Errorf("VolatilityForReturn(%v) = %v, expected non-negative", annualReturn, vol)
		}
	}
}

func TestClipReturn(t *testing.T) {
	if got := clipReturn(-0.75); got != minAnnualReturn {
		t.Errorf("Expected %v, got %v", minAnnualReturn, got)
	}
	if got := clipReturn(1.5); got != maxAnnualReturn {
		t.Errorf("Expected %v, got %v", maxAnnualReturn, got)
	}
	if got := clipReturn(0.07); got != 0.07 {
		t.Errorf("In-band returns pass through, got %v", got)
	}
}

func TestMonteCarloEngine_ZeroVolatilityMatchesDeterministic(t *testing.T) {
	// A -6% expected return sits on the flat floor of the risk curve, so
	// every account carries zero volatility and each trial must replay the
	// deterministic path digit for digit.
	scenario := stochasticScenario(-6, -6)

	deterministic, err := NewProjectionEngine().RunProjection(scenario)
	if err != nil {
		t.Fatalf("deterministic projection failed: %v", err)
	}

	engine := NewMonteCarloEngine(MonteCarloConfig{NumTrials: 1, Seed: 42, Correlation: 0.3})
	result, err := engine.Run(context.Background(), scenario)
	if err != nil {
		t.Fatalf("Monte Carlo run failed: %v", err)
	}

	if len(result.Trials) != 1 {
		t.Fatalf("Expected 1 trial, got %d", len(result.Trials))
	}

	trial := result.Trials[0]
	if len(trial.Records) != len(deterministic.Records) {
		t.Fatalf("Expected %d records, got %d", len(deterministic.Records), len(trial.Records))
	}

	for i := range trial.Records {
		want := deterministic.Records[i].PortfolioBalance
		got := trial.Records[i].PortfolioBalance
		if !got.Equal(want) {
			t.Errorf("Year %d: balance %s, expected the deterministic %s", trial.Records[i].Year, got, want)
		}
	}
}

func TestMonteCarloEngine_ReproducibleAcrossRuns(t *testing.T) {
	scenario := stochasticScenario(7, 5)

	first, err := NewMonteCarloEngine(MonteCarloConfig{NumTrials: 8, Seed: 99, Correlation: 0.3, MaxParallel: 4}).Run(context.Background(), scenario)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := NewMonteCarloEngine(MonteCarloConfig{NumTrials: 8, Seed: 99, Correlation: 0.3, MaxParallel: 2}).Run(context.Background(), scenario)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	for i := range first.Trials {
		a := first.Trials[i].Metrics.FinalBalance
		b := second.Trials[i].Metrics.FinalBalance
		if !a.Equal(b) {
			t.Errorf("Trial %d: %s vs %s, expected identical streams for the same seed", i, a, b)
		}
	}

	reseeded, err := NewMonteCarloEngine(MonteCarloConfig{NumTrials: 8, Seed: 100, Correlation: 0.3}).Run(context.Background(), scenario)
	if err != nil {
		t.Fatalf("reseeded run failed: %v", err)
	}
	differs := false
	for i := range reseeded.Trials {
		if !reseeded.Trials[i].Metrics.FinalBalance.Equal(first.Trials[i].Metrics.FinalBalance) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("Expected a different seed to change the trial outcomes")
	}
}

func TestMonteCarloEngine_SingleAccountDrawsDirectly(t *testing.T) {
	scenario := stochasticScenario(7, 5)
	scenario.Accounts = scenario.Accounts[:1]

	engine := NewMonteCarloEngine(MonteCarloConfig{NumTrials: 16, Seed: 7})
	result, err := engine.Run(context.Background(), scenario)
	if err != nil {
		t.Fatalf("single-account run failed: %v", err)
	}

	if result.NumTrials != 16 {
		t.Errorf("Expected 16 trials, got %d", result.NumTrials)
	}
	if len(result.PercentilesByAge) != 11 {
		t.Errorf("Expected 11 ages, got %d", len(result.PercentilesByAge))
	}
}

func TestMonteCarloEngine_PercentilesOrdered(t *testing.T) {
	engine := NewMonteCarloEngine(MonteCarloConfig{NumTrials: 32, Seed: 11, Correlation: 0.3})
	result, err := engine.Run(context.Background(), stochasticScenario(7, 5))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, p := range result.PercentilesByAge {
		ordered := []decimal.Decimal{p.P5, p.P10, p.P25, p.P50, p.P75, p.P90, p.P95}
		for i := 1; i < len(ordered); i++ {
			if ordered[i].LessThan(ordered[i-1]) {
				t.Errorf("Age %d: percentile band out of order at position %d", p.Age, i)
			}
		}
	}

	if result.SuccessRate.LessThan(decimal.Zero) || result.SuccessRate.GreaterThan(decimal.NewFromInt(1)) {
		t.Errorf("Success rate %s out of range", result.SuccessRate)
	}
	if result.FinalBalanceStats.Min.GreaterThan(result.FinalBalanceStats.Max) {
		t.Error("Final balance min exceeds max")
	}
	if result.RunID == "" {
		t.Error("Expected a run ID")
	}
	if result.ScenarioName != "stochastic" {
		t.Errorf("Expected scenario name to carry through, got %q", result.ScenarioName)
	}
}

func TestMonteCarloEngine_DepletionAnalysis(t *testing.T) {
	scenario := stochasticScenario(-6, -6)
	scenario.Accounts[0].Balance = decimal.NewFromInt(50000)
	scenario.Accounts[1].Balance = decimal.NewFromInt(10000)

	engine := NewMonteCarloEngine(MonteCarloConfig{NumTrials: 4, Seed: 3, Correlation: 0.3})
	result, err := engine.Run(context.Background(), scenario)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !result.SuccessRate.IsZero() {
		t.Errorf("Expected certain depletion, success rate %s", result.SuccessRate)
	}
	if !result.Depletion.DepletionRate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("Expected depletion rate 1, got %s", result.Depletion.DepletionRate)
	}
	if result.Depletion.MedianAge == nil || result.Depletion.EarliestAge == nil || result.Depletion.LatestAge == nil {
		t.Fatal("Expected depletion ages to be reported")
	}
	if *result.Depletion.EarliestAge != *result.Depletion.LatestAge {
		t.Errorf("Zero-volatility trials should deplete at the same age: %d vs %d", *result.Depletion.EarliestAge, *result.Depletion.LatestAge)
	}
	if *result.Depletion.MedianAge != float64(*result.Depletion.EarliestAge) {
		t.Errorf("Median %v should equal the common depletion age %d", *result.Depletion.MedianAge, *result.Depletion.EarliestAge)
	}
}

func TestMonteCarloEngine_InvalidInputs(t *testing.T) {
	engine := NewMonteCarloEngine(MonteCarloConfig{NumTrials: 2, Seed: 1, Correlation: 1.5})
	if _, err := engine.Run(context.Background(), stochasticScenario(7, 5)); err == nil {
		t.Error("Expected an error for correlation outside [-1, 1]")
	}

	engine = NewMonteCarloEngine(MonteCarloConfig{NumTrials: 2, Seed: 1})
	if _, err := engine.Run(context.Background(), nil); err == nil {
		t.Error("Expected an error for a nil scenario")
	}

	scenario := stochasticScenario(7, 5)
	scenario.Accounts = nil
	if _, err := engine.Run(context.Background(), scenario); err == nil {
		t.Error("Expected an error for a scenario without accounts")
	}
}

func TestMonteCarloEngine_NegativeCorrelationNotPositiveDefinite(t *testing.T) {
	scenario := stochasticScenario(7, 5)
	scenario.Accounts = append(scenario.Accounts, domain.Account{
		Type:               "Bonds",
		Owner:              domain.JointOwner,
		Balance:            decimal.NewFromInt(100000),
		AggressiveRate:     decimal.NewFromInt(4),
		ConservativeRate:   decimal.NewFromInt(4),
		TransitionStartAge: 55,
		TransitionEndAge:   60,
	})

	engine := NewMonteCarloEngine(MonteCarloConfig{NumTrials: 2, Seed: 1, Correlation: -0.9})
	if _, err := engine.Run(context.Background(), scenario); err == nil {
		t.Error("Expected factorization to fail for -0.9 correlation across three accounts")
	}
}

func TestMonteCarloEngine_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewMonteCarloEngine(MonteCarloConfig{NumTrials: 64, Seed: 5, Correlation: 0.3})
	if _, err := engine.Run(ctx, stochasticScenario(7, 5)); err == nil {
		t.Error("Expected a cancelled context to abort the run")
	}
}

func TestPercentile_LinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	cases := []struct {
		p        float64
		expected float64
	}{
		{0, 1},
		{25, 1.75},
		{50, 2.5},
		{75, 3.25},
		{100, 4},
	}
	for _, tc := range cases {
		if got := percentile(sorted, tc.p); math.Abs(got-tc.expected) > 1e-12 {
			t.Errorf("percentile(%v) = %v, expected %v", tc.p, got, tc.expected)
		}
	}

	if got := percentile([]float64{7}, 40); got != 7 {
		t.Errorf("Single sample should return itself, got %v", got)
	}
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("Empty sample should return zero, got %v", got)
	}
}

func TestSampleStdDev(t *testing.T) {
	if got := sampleStdDev([]float64{5}); got != 0 {
		t.Errorf("Single observation should have zero deviation, got %v", got)
	}

	got := sampleStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(got-2.1380899352993947) > 1e-9 {
		t.Errorf("Unexpected sample standard deviation %v", got)
	}
}
