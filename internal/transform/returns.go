package transform

import (
	"fmt"

	"github.com/mhollis/fincast/internal/domain"
	"github.com/shopspring/decimal"
)

// rateBound mirrors the configuration limit on growth rates.
var rateBound = decimal.NewFromInt(50)

// AdjustReturns shifts every account's growth schedule by a fixed number of
// percentage points, both the aggressive and the conservative leg. A -1.0
// delta answers "what if markets return one point less than I assumed".
type AdjustReturns struct {
	Delta decimal.Decimal // Percentage points to add; negative lowers returns
}

func (ar *AdjustReturns) Name() string {
	return "adjust_returns"
}

func (ar *AdjustReturns) Description() string {
	if ar.Delta.IsNegative() {
		return fmt.Sprintf("Lower every account growth rate by %s points", ar.Delta.Abs().StringFixed(1))
	}
	return fmt.Sprintf("Raise every account growth rate by %s points", ar.Delta.StringFixed(1))
}

func (ar *AdjustReturns) Validate(base *domain.Scenario) error {
	if ar.Delta.IsZero() {
		return NewTransformError(ar.Name(), "validate", "delta cannot be zero", nil)
	}

	if base == nil {
		return NewTransformError(ar.Name(), "validate", "base scenario cannot be nil", nil)
	}

	if len(base.Accounts) == 0 {
		return NewTransformError(ar.Name(), "validate", "scenario has no accounts to adjust", nil)
	}

	for _, account := range base.Accounts {
		for _, rate := range []decimal.Decimal{account.AggressiveRate, account.ConservativeRate} {
			shifted := rate.Add(ar.Delta)
			if shifted.LessThan(rateBound.Neg()) || shifted.GreaterThan(rateBound) {
				return NewTransformError(ar.Name(), "validate",
					fmt.Sprintf("account %s rate %s would leave the -50..50 range", account.Name, shifted), nil)
			}
		}
	}

	return nil
}

func (ar *AdjustReturns) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()

	for i := range modified.Accounts {
		modified.Accounts[i].AggressiveRate = modified.Accounts[i].AggressiveRate.Add(ar.Delta)
		modified.Accounts[i].ConservativeRate = modified.Accounts[i].ConservativeRate.Add(ar.Delta)
	}

	return modified, nil
}
