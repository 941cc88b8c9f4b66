package calculation

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/mhollis/fincast/internal/domain"
)

// Clipping bounds for a single year's sampled return. A draw below -50%
// or above +100% is pinned to the bound.
const (
	minAnnualReturn = -0.5
	maxAnnualReturn = 1.0
)

// trialSeedStride spaces the per-trial seeds so neighboring trials start
// from well-separated source states.
const trialSeedStride = 1000

// MonteCarloConfig holds the batch parameters for a stochastic run.
type MonteCarloConfig struct {
	NumTrials   int
	Seed        uint64
	Correlation float64
	MaxParallel int
}

// MonteCarloEngine runs many stochastic projections of one scenario. Each
// trial replays the deterministic engine with the per-account mean growth
// rates replaced by correlated normal draws; trial i always consumes the
// stream seeded with Seed + 1000*i, so a run is reproducible regardless of
// how the trials are scheduled across workers.
type MonteCarloEngine struct {
	Logger Logger

	engine *ProjectionEngine
	config MonteCarloConfig
}

// DefaultMonteCarloConfig returns the standard batch parameters: 1000
// trials, a wall-clock seed, 0.3 cross-account correlation, and one worker
// per available CPU.
func DefaultMonteCarloConfig() MonteCarloConfig {
	return MonteCarloConfig{
		NumTrials:   domain.DefaultTrialCount,
		Seed:        uint64(time.Now().UnixNano()),
		Correlation: domain.DefaultCorrelation,
		MaxParallel: runtime.GOMAXPROCS(0),
	}
}

// NewMonteCarloEngine creates a Monte Carlo engine. A non-positive trial
// count or worker limit falls back to its default; a zero seed is replaced
// with a wall-clock seed.
func NewMonteCarloEngine(config MonteCarloConfig) *MonteCarloEngine {
	if config.NumTrials <= 0 {
		config.NumTrials = domain.DefaultTrialCount
	}
	if config.MaxParallel <= 0 {
		config.MaxParallel = runtime.GOMAXPROCS(0)
	}
	if config.Seed == 0 {
		config.Seed = uint64(time.Now().UnixNano())
	}

	return &MonteCarloEngine{
		Logger: NopLogger{},
		engine: NewProjectionEngine(),
		config: config,
	}
}

// SetLogger sets the logger for the engine and its inner projection
// engine. A nil logger restores the no-op logger.
func (mce *MonteCarloEngine) SetLogger(logger Logger) {
	if logger == nil {
		logger = NopLogger{}
	}
	mce.Logger = logger
	mce.engine.SetLogger(logger)
}

// TrialResult is one stochastic projection: the full year-by-year records
// plus the metrics reduced from them.
type TrialResult struct {
	TrialID int                   `json:"trialId"`
	Records []domain.YearRecord   `json:"records"`
	Metrics domain.SuccessMetrics `json:"metrics"`
}

// AgePercentiles summarizes the portfolio balance distribution across all
// trials at one age.
type AgePercentiles struct {
	Age    int             `json:"age"`
	P5     decimal.Decimal `json:"p5"`
	P10    decimal.Decimal `json:"p10"`
	P25    decimal.Decimal `json:"p25"`
	P50    decimal.Decimal `json:"p50"`
	P75    decimal.Decimal `json:"p75"`
	P90    decimal.Decimal `json:"p90"`
	P95    decimal.Decimal `json:"p95"`
	Mean   decimal.Decimal `json:"mean"`
	StdDev decimal.Decimal `json:"stdDev"`
}

// FinalBalanceStats summarizes the distribution of end-of-horizon
// portfolio balances across all trials.
type FinalBalanceStats struct {
	Mean   decimal.Decimal `json:"mean"`
	Median decimal.Decimal `json:"median"`
	StdDev decimal.Decimal `json:"stdDev"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	P5     decimal.Decimal `json:"p5"`
	P95    decimal.Decimal `json:"p95"`
}

// DepletionAnalysis summarizes the trials whose portfolio hit zero. The
// age fields are nil when no trial depleted.
type DepletionAnalysis struct {
	DepletionRate decimal.Decimal `json:"depletionRate"`
	MedianAge     *float64        `json:"medianAge,omitempty"`
	EarliestAge   *int            `json:"earliestAge,omitempty"`
	LatestAge     *int            `json:"latestAge,omitempty"`
}

// MonteCarloResult is the aggregate outcome of a stochastic run.
type MonteCarloResult struct {
	RunID             string            `json:"runId"`
	ScenarioName      string            `json:"scenarioName"`
	NumTrials         int               `json:"numTrials"`
	Seed              uint64            `json:"seed"`
	SuccessRate       decimal.Decimal   `json:"successRate"`
	PercentilesByAge  []AgePercentiles  `json:"percentilesByAge"`
	FinalBalanceStats FinalBalanceStats `json:"finalBalanceStats"`
	Depletion         DepletionAnalysis `json:"depletionAnalysis"`
	Trials            []TrialResult     `json:"trials,omitempty"`
}

// Run executes the full batch of trials and aggregates them. The scenario
// is shared read-only across workers; each trial owns its cache, balances,
// and random stream.
func (mce *MonteCarloEngine) Run(ctx context.Context, scenario *domain.Scenario) (*MonteCarloResult, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario is required")
	}
	if len(scenario.Accounts) == 0 {
		return nil, fmt.Errorf("scenario has no accounts")
	}
	if mce.config.Correlation < -1 || mce.config.Correlation > 1 {
		return nil, fmt.Errorf("correlation %.2f out of range [-1, 1]", mce.config.Correlation)
	}

	var chol *mat.TriDense
	if len(scenario.Accounts) > 1 {
		var err error
		chol, err = correlationCholesky(len(scenario.Accounts), mce.config.Correlation)
		if err != nil {
			return nil, err
		}
	}

	mce.Logger.Infof("running %d Monte Carlo trials for scenario %q (seed %d)", mce.config.NumTrials, scenario.Name, mce.config.Seed)

	trials := make([]TrialResult, mce.config.NumTrials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(mce.config.MaxParallel)

	for i := 0; i < mce.config.NumTrials; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			trial, err := mce.runTrial(scenario, i, chol)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			trials[i] = trial
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := mce.summarize(scenario.Name, trials)
	mce.Logger.Infof("Monte Carlo run %s complete: success rate %s", result.RunID, result.SuccessRate.StringFixed(4))
	return result, nil
}

// runTrial executes one stochastic projection on its own seeded stream.
func (mce *MonteCarloEngine) runTrial(scenario *domain.Scenario, trialID int, chol *mat.TriDense) (TrialResult, error) {
	rng := rand.New(rand.NewSource(mce.config.Seed + uint64(trialID)*trialSeedStride))
	records, err := mce.engine.project(scenario, NewProjectionCache(), mce.newSampler(rng, chol))
	if err != nil {
		return TrialResult{}, err
	}

	return TrialResult{
		TrialID: trialID,
		Records: records,
		Metrics: CalculateSuccessMetrics(records),
	}, nil
}

// newSampler builds the per-year return sampler for one trial. A single
// account draws directly from its own normal; multiple accounts draw a
// standard normal vector, correlate it through the Cholesky factor, and
// scale each component by that account's volatility. Accounts whose
// volatility is zero keep their exact deterministic mean.
func (mce *MonteCarloEngine) newSampler(rng *rand.Rand, chol *mat.TriDense) returnSampler {
	return func(meanRates []decimal.Decimal) []decimal.Decimal {
		rates := make([]decimal.Decimal, len(meanRates))

		if len(meanRates) == 1 {
			mean := meanRates[0].InexactFloat64()
			vol := VolatilityForReturn(mean)
			if vol == 0 {
				rates[0] = meanRates[0]
				return rates
			}
			rates[0] = decimal.NewFromFloat(clipReturn(mean + vol*rng.NormFloat64()))
			return rates
		}

		eps := mat.NewVecDense(len(meanRates), nil)
		for i := 0; i < eps.Len(); i++ {
			eps.SetVec(i, rng.NormFloat64())
		}
		var correlated mat.VecDense
		correlated.MulVec(chol, eps)

		for i, meanRate := range meanRates {
			mean := meanRate.InexactFloat64()
			vol := VolatilityForReturn(mean)
			if vol == 0 {
				rates[i] = meanRate
				continue
			}
			rates[i] = decimal.NewFromFloat(clipReturn(mean + vol*correlated.AtVec(i)))
		}
		return rates
	}
}

// VolatilityForReturn maps an expected annual return (fraction, 0.08 for
// 8%) to an annual volatility via a piecewise risk/return curve: higher
// expected returns imply higher volatility, with the slope steepening
// between the 4%, 5.5%, 7% and 8% breakpoints. Never negative.
func VolatilityForReturn(annualReturn float64) float64 {
	pct := annualReturn * 100

	var vol float64
	switch {
	case pct >= 8.0:
		vol = 0.16 + (pct-8.0)*0.01
	case pct >= 7.0:
		vol = 0.12 + (pct-7.0)*0.04
	case pct >= 5.5:
		vol = 0.08 + (pct-5.5)*0.027
	case pct >= 4.0:
		vol = 0.04 + (pct-4.0)*0.027
	default:
		vol = 0.02 + pct*0.005
	}

	if vol < 0 {
		return 0
	}
	return vol
}

// clipReturn pins a sampled annual return to the allowed band.
func clipReturn(r float64) float64 {
	if r < minAnnualReturn {
		return minAnnualReturn
	}
	if r > maxAnnualReturn {
		return maxAnnualReturn
	}
	return r
}

// correlationCholesky factors the n-by-n equicorrelation matrix (unit
// diagonal, the given coefficient everywhere else) and returns its lower
// triangular factor. Factorization fails when the coefficient does not
// yield a positive definite matrix for n accounts.
func correlationCholesky(n int, correlation float64) (*mat.TriDense, error) {
	corr := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		corr.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			corr.SetSym(i, j, correlation)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(corr); !ok {
		return nil, fmt.Errorf("correlation %.2f is not positive definite for %d accounts", correlation, n)
	}

	l := mat.NewTriDense(n, mat.Lower, nil)
	chol.LTo(l)
	return l, nil
}

// summarize reduces the finished trials to the aggregate result.
func (mce *MonteCarloEngine) summarize(scenarioName string, trials []TrialResult) *MonteCarloResult {
	numTrials := len(trials)
	numYears := len(trials[0].Records)

	percentiles := make([]AgePercentiles, 0, numYears)
	balances := make([]float64, numTrials)
	for yearIdx := 0; yearIdx < numYears; yearIdx++ {
		for t := range trials {
			balances[t] = trials[t].Records[yearIdx].PortfolioBalance.InexactFloat64()
		}
		percentiles = append(percentiles, agePercentiles(trials[0].Records[yearIdx].Age, balances))
	}

	successes := 0
	finals := make([]float64, numTrials)
	var depletionAges []float64
	for t := range trials {
		finals[t] = trials[t].Metrics.FinalBalance.InexactFloat64()
		if trials[t].Metrics.FirstDeficitAge == nil {
			successes++
		} else {
			depletionAges = append(depletionAges, float64(*trials[t].Metrics.FirstDeficitAge))
		}
	}

	total := decimal.NewFromInt(int64(numTrials))
	successRate := decimal.NewFromInt(int64(successes)).Div(total)

	sort.Float64s(finals)
	finalStats := FinalBalanceStats{
		Mean:   decimal.NewFromFloat(stat.Mean(finals, nil)),
		Median: decimal.NewFromFloat(percentile(finals, 50)),
		StdDev: decimal.NewFromFloat(sampleStdDev(finals)),
		Min:    decimal.NewFromFloat(floats.Min(finals)),
		Max:    decimal.NewFromFloat(floats.Max(finals)),
		P5:     decimal.NewFromFloat(percentile(finals, 5)),
		P95:    decimal.NewFromFloat(percentile(finals, 95)),
	}

	depletion := DepletionAnalysis{
		DepletionRate: decimal.NewFromInt(int64(len(depletionAges))).Div(total),
	}
	if len(depletionAges) > 0 {
		sort.Float64s(depletionAges)
		median := percentile(depletionAges, 50)
		earliest := int(depletionAges[0])
		latest := int(depletionAges[len(depletionAges)-1])
		depletion.MedianAge = &median
		depletion.EarliestAge = &earliest
		depletion.LatestAge = &latest
	}

	return &MonteCarloResult{
		RunID:             uuid.NewString(),
		ScenarioName:      scenarioName,
		NumTrials:         numTrials,
		Seed:              mce.config.Seed,
		SuccessRate:       successRate,
		PercentilesByAge:  percentiles,
		FinalBalanceStats: finalStats,
		Depletion:         depletion,
		Trials:            trials,
	}
}

// agePercentiles computes the distribution summary for one age. Sorts the
// balances in place.
func agePercentiles(age int, balances []float64) AgePercentiles {
	mean := stat.Mean(balances, nil)
	stdDev := sampleStdDev(balances)
	sort.Float64s(balances)

	return AgePercentiles{
		Age:    age,
		P5:     decimal.NewFromFloat(percentile(balances, 5)),
		P10:    decimal.NewFromFloat(percentile(balances, 10)),
		P25:    decimal.NewFromFloat(percentile(balances, 25)),
		P50:    decimal.NewFromFloat(percentile(balances, 50)),
		P75:    decimal.NewFromFloat(percentile(balances, 75)),
		P90:    decimal.NewFromFloat(percentile(balances, 90)),
		P95:    decimal.NewFromFloat(percentile(balances, 95)),
		Mean:   decimal.NewFromFloat(mean),
		StdDev: decimal.NewFromFloat(stdDev),
	}
}

// percentile returns the p-th percentile of a sorted sample using linear
// interpolation between the two nearest order statistics at fractional
// rank (n-1)*p/100.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	rank := float64(n-1) * p / 100
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	return sorted[lower] + (rank-float64(lower))*(sorted[upper]-sorted[lower])
}

// sampleStdDev is the sample standard deviation, zero for fewer than two
// observations.
func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return stat.StdDev(xs, nil)
}
