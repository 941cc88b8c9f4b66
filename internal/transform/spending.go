package transform

import (
	"fmt"

	"github.com/mhollis/fincast/internal/domain"
	"github.com/shopspring/decimal"
)

// ScaleExpenses multiplies every recurring expense by a fixed factor.
// Planned one-off expenses (a roof, a car) are left alone; they are discrete
// events, not lifestyle.
type ScaleExpenses struct {
	Factor decimal.Decimal // 0.9 cuts spending 10%, 1.1 raises it 10%
}

func (se *ScaleExpenses) Name() string {
	return "scale_expenses"
}

func (se *ScaleExpenses) Description() string {
	pct := se.Factor.Mul(decimal.NewFromInt(100))
	return fmt.Sprintf("Scale recurring expenses to %s%% of baseline", pct.StringFixed(0))
}

func (se *ScaleExpenses) Validate(base *domain.Scenario) error {
	if !se.Factor.IsPositive() {
		return NewTransformError(se.Name(), "validate", fmt.Sprintf("factor must be positive, got %s", se.Factor), nil)
	}

	if base == nil {
		return NewTransformError(se.Name(), "validate", "base scenario cannot be nil", nil)
	}

	if len(base.Expenses) == 0 {
		return NewTransformError(se.Name(), "validate", "scenario has no recurring expenses to scale", nil)
	}

	return nil
}

func (se *ScaleExpenses) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()

	for i := range modified.Expenses {
		modified.Expenses[i].AnnualAmount = modified.Expenses[i].AnnualAmount.Mul(se.Factor)
	}

	return modified, nil
}
