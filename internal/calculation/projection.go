package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mhollis/fincast/internal/domain"
)

// ProjectionEngine runs the deterministic year-by-year simulation: one
// transition per age from the scenario's current age through its max
// projection age. A run owns its cache and working balances; the input
// scenario is never mutated, so separate invocations are independent and
// reproducible.
type ProjectionEngine struct {
	Logger Logger
	Debug  bool
}

// NewProjectionEngine creates a new projection engine with a no-op logger.
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{Logger: NopLogger{}}
}

// SetLogger sets the engine's logger. A nil logger restores the no-op
// logger.
func (pe *ProjectionEngine) SetLogger(logger Logger) {
	if logger == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = logger
}

// AccountGrowthRate returns the growth rate fraction for an account given
// its owner's age: the aggressive rate at or below the transition start,
// the conservative rate at or above the transition end, and a linear blend
// of the two across the window. Equal rates yield fixed-rate behavior.
func AccountGrowthRate(account domain.Account, ownerAge int) decimal.Decimal {
	if ownerAge <= account.TransitionStartAge {
		return percentToFraction(account.AggressiveRate)
	}
	if ownerAge >= account.TransitionEndAge {
		return percentToFraction(account.ConservativeRate)
	}

	span := decimal.NewFromInt(int64(account.TransitionEndAge - account.TransitionStartAge))
	progress := decimal.NewFromInt(int64(ownerAge - account.TransitionStartAge)).Div(span)
	blended := account.AggressiveRate.Add(account.ConservativeRate.Sub(account.AggressiveRate).Mul(progress))
	return percentToFraction(blended)
}

// returnSampler maps the deterministic per-account growth rates for one
// year onto the rates actually applied. The deterministic engine passes
// nil and applies the means as-is; the Monte Carlo engine substitutes
// correlated stochastic draws.
type returnSampler func(meanRates []decimal.Decimal) []decimal.Decimal

// RunProjection executes a full deterministic projection of the scenario
// and reduces it to records, success metrics, and retirement ages.
func (pe *ProjectionEngine) RunProjection(scenario *domain.Scenario) (*domain.ProjectionResult, error) {
	records, err := pe.project(scenario, NewProjectionCache(), nil)
	if err != nil {
		return nil, err
	}

	return &domain.ProjectionResult{
		ScenarioName:   scenario.Name,
		Records:        records,
		Metrics:        CalculateSuccessMetrics(records),
		RetirementAges: RetirementAges(scenario),
	}, nil
}

// project is the shared per-year state machine. Each year it totals income
// and expenses, applies growth (deterministic means or sampled returns) to
// every account, distributes the net cashflow, and emits a record. cache
// must be fresh for this run.
func (pe *ProjectionEngine) project(scenario *domain.Scenario, cache *ProjectionCache, sample returnSampler) ([]domain.YearRecord, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario is required")
	}
	if scenario.CurrentAge > scenario.MaxProjectionAge {
		return nil, fmt.Errorf("current age %d exceeds max projection age %d", scenario.CurrentAge, scenario.MaxProjectionAge)
	}
	if len(scenario.Accounts) == 0 {
		return nil, fmt.Errorf("scenario has no accounts")
	}

	balances := make([]decimal.Decimal, len(scenario.Accounts))
	for i, account := range scenario.Accounts {
		balances[i] = account.Balance
	}

	records := make([]domain.YearRecord, 0, scenario.ProjectionYears())
	meanRates := make([]decimal.Decimal, len(scenario.Accounts))

	for age := scenario.CurrentAge; age <= scenario.MaxProjectionAge; age++ {
		year := scenario.CurrentYear + (age - scenario.CurrentAge)

		income := pe.totalIncome(scenario, cache, age, year)
		expenses := pe.totalExpenses(scenario, cache, age, year)

		saleProceeds := decimalZero
		realEstateEquity := decimalZero
		if len(scenario.RealEstate) > 0 {
			impact := cache.RealEstateImpact(scenario, year)
			saleProceeds = impact.SaleProceeds
			realEstateEquity = impact.TotalEquity()
		}

		netCashflow := income.Sub(expenses).Add(saleProceeds)

		for i, account := range scenario.Accounts {
			meanRates[i] = AccountGrowthRate(account, pe.ownerAge(scenario, cache, account.Owner, age, year))
		}
		rates := meanRates
		if sample != nil {
			rates = sample(meanRates)
		}

		returnAmount := decimalZero
		for i := range balances {
			accountReturn := balances[i].Mul(rates[i])
			returnAmount = returnAmount.Add(accountReturn)
			balances[i] = balances[i].Add(accountReturn)
		}

		residual := distributeCashflow(balances, netCashflow)
		if pe.Debug && residual.GreaterThan(decimalZero) {
			pe.Logger.Debugf("year %d: %s of withdrawals exceeded account balances", year, residual.StringFixed(2))
		}

		totalBalance := decimalZero
		for _, balance := range balances {
			totalBalance = totalBalance.Add(balance)
		}

		records = append(records, domain.YearRecord{
			Age:                   age,
			Year:                  year,
			Income:                income,
			Expenses:              expenses,
			NetCashflow:           income.Sub(expenses),
			RealEstateSales:       saleProceeds,
			PortfolioContribution: netCashflow,
			PortfolioReturnAmount: returnAmount,
			PortfolioBalance:      totalBalance,
			RealEstateEquity:      realEstateEquity,
			TotalNetWorth:         totalBalance.Add(realEstateEquity),
		})
	}

	return records, nil
}

// distributeCashflow spreads amount across the balances pro-rata by each
// balance's share of the total. Accounts driven negative are floored at
// zero and the shortfall is not redistributed; the sum floored away is
// returned for conservation accounting. When every balance is zero a
// positive amount lands entirely in the first account, the deterministic
// tie-break.
func distributeCashflow(balances []decimal.Decimal, amount decimal.Decimal) decimal.Decimal {
	if amount.IsZero() {
		return decimalZero
	}

	totalBalance := decimalZero
	for _, balance := range balances {
		totalBalance = totalBalance.Add(balance)
	}

	if totalBalance.GreaterThan(decimalZero) {
		residual := decimalZero
		for i := range balances {
			share := balances[i].Div(totalBalance)
			balances[i] = balances[i].Add(amount.Mul(share))
			if balances[i].LessThan(decimalZero) {
				residual = residual.Add(balances[i].Neg())
				balances[i] = decimalZero
			}
		}
		return residual
	}

	if amount.GreaterThan(decimalZero) && len(balances) > 0 {
		balances[0] = amount
	}
	return decimalZero
}

// ownerAge resolves the age that gates an item for the given year. Joint
// items key on the scenario's primary age; named owners on their own age.
// An unknown owner degrades to the primary age with a warning.
func (pe *ProjectionEngine) ownerAge(scenario *domain.Scenario, cache *ProjectionCache, owner string, age, year int) int {
	if owner == "" || owner == domain.JointOwner {
		return age
	}
	ownerAge, ok := cache.PersonAge(scenario, owner, year)
	if !ok {
		pe.Logger.Warnf("person %q not found, using primary age", owner)
	}
	return ownerAge
}

// totalIncome sums every income source and retirement income stream whose
// owner is inside the item's age window this year, plus real-estate income
// (reserved, always zero today).
func (pe *ProjectionEngine) totalIncome(scenario *domain.Scenario, cache *ProjectionCache, age, year int) decimal.Decimal {
	total := decimalZero

	for _, src := range scenario.IncomeSources {
		total = total.Add(pe.incomeAmount(scenario, cache, src, age, year))
	}
	for _, src := range scenario.RetirementIncome {
		total = total.Add(pe.incomeAmount(scenario, cache, src, age, year))
	}

	if len(scenario.RealEstate) > 0 {
		total = total.Add(cache.RealEstateImpact(scenario, year).AnnualIncome)
	}

	return total
}

// incomeAmount returns the grown amount for one income source, or zero when
// the owner's age is outside the source's window.
func (pe *ProjectionEngine) incomeAmount(scenario *domain.Scenario, cache *ProjectionCache, src domain.IncomeSource, age, year int) decimal.Decimal {
	ownerAge := pe.ownerAge(scenario, cache, src.Owner, age, year)
	if ownerAge < src.StartAge || ownerAge > src.EndAge {
		return decimalZero
	}

	yearsFromStart := int64(ownerAge - src.StartAge)
	return src.AnnualAmount.Mul(onePlus(percentToFraction(src.GrowthRate)).Pow(decimal.NewFromInt(yearsFromStart)))
}

// totalExpenses sums recurring expenses, planned expenses due this year,
// and real-estate carrying costs plus one-time down payments. Malformed
// recurring items are skipped per-item with a warning so a single corrupt
// row cannot abort a projection.
func (pe *ProjectionEngine) totalExpenses(scenario *domain.Scenario, cache *ProjectionCache, age, year int) decimal.Decimal {
	total := decimalZero

	for _, exp := range scenario.Expenses {
		if exp.StartAge > exp.EndAge {
			pe.Logger.Warnf("expense %q has inverted age range %d-%d, skipping", exp.Name, exp.StartAge, exp.EndAge)
			continue
		}

		ownerAge := pe.ownerAge(scenario, cache, exp.Owner, age, year)
		if ownerAge < exp.StartAge || ownerAge > exp.EndAge {
			continue
		}

		yearsFromStart := int64(ownerAge - exp.StartAge)
		amount := exp.AnnualAmount.Mul(onePlus(percentToFraction(exp.GrowthRate)).Pow(decimal.NewFromInt(yearsFromStart)))
		if amount.LessThan(decimalZero) {
			pe.Logger.Warnf("expense %q computed negative amount %s, treating as zero", exp.Name, amount.StringFixed(2))
			amount = decimalZero
		}
		total = total.Add(amount)
	}

	total = total.Add(plannedExpensesDue(scenario.PlannedExpenses, year))

	if len(scenario.RealEstate) > 0 {
		impact := cache.RealEstateImpact(scenario, year)
		total = total.Add(impact.AnnualExpenses).Add(impact.OneTimeExpenses)
	}

	return total
}

// plannedExpensesDue totals the planned expenses active in the given year.
// An item fires in its own year, across its recurring span, and again on
// every repeat cycle up to its repeat horizon. Items with no year or no
// amount are skipped.
func plannedExpensesDue(planned []domain.PlannedExpense, year int) decimal.Decimal {
	total := decimalZero

	for _, p := range planned {
		if p.Year == 0 || p.Amount.IsZero() {
			continue
		}

		if p.Year == year {
			total = total.Add(p.Amount)
		} else if p.RecurringYears > 1 && p.Year <= year && year < p.Year+p.RecurringYears {
			total = total.Add(p.Amount)
		}

		if p.RepeatEvery > 0 && p.RepeatUntilYear > 0 {
			yearsSinceFirst := year - p.Year
			if yearsSinceFirst > 0 && yearsSinceFirst%p.RepeatEvery == 0 && year <= p.RepeatUntilYear {
				total = total.Add(p.Amount)
			}
		}
	}

	return total
}
