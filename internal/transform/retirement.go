package transform

import (
	"fmt"

	"github.com/mhollis/fincast/internal/domain"
)

// ShiftRetirement moves a person's retirement boundary by whole years: every
// working income source they own ends that much later (or earlier), and every
// retirement income they own starts correspondingly later (or earlier).
// Positive years means working longer. Useful for "one more year" questions.
type ShiftRetirement struct {
	Person string // Name of the person whose retirement to shift
	Years  int    // Whole years to shift; positive postpones, negative advances
}

func (sr *ShiftRetirement) Name() string {
	return "shift_retirement"
}

func (sr *ShiftRetirement) Description() string {
	if sr.Years >= 0 {
		return fmt.Sprintf("Postpone %s's retirement by %d years", sr.Person, sr.Years)
	}
	return fmt.Sprintf("Advance %s's retirement by %d years", sr.Person, -sr.Years)
}

func (sr *ShiftRetirement) Validate(base *domain.Scenario) error {
	if sr.Person == "" {
		return NewTransformError(sr.Name(), "validate", "person name cannot be empty", nil)
	}

	if sr.Years == 0 {
		return NewTransformError(sr.Name(), "validate", "years cannot be zero", nil)
	}

	if base == nil {
		return NewTransformError(sr.Name(), "validate", "base scenario cannot be nil", nil)
	}

	if base.PersonByName(sr.Person) == nil {
		return NewTransformError(sr.Name(), "validate", fmt.Sprintf("person %s not found in scenario", sr.Person), nil)
	}

	owned := 0
	for _, src := range base.IncomeSources {
		if src.Owner == sr.Person {
			owned++
		}
	}
	if owned == 0 {
		return NewTransformError(sr.Name(), "validate", fmt.Sprintf("person %s has no working income to shift", sr.Person), nil)
	}

	return nil
}

func (sr *ShiftRetirement) Apply(base *domain.Scenario) (*domain.Scenario, error) {
	modified := base.DeepCopy()

	for i := range modified.IncomeSources {
		if modified.IncomeSources[i].Owner == sr.Person {
			modified.IncomeSources[i].EndAge += sr.Years
		}
	}

	for i := range modified.RetirementIncome {
		if modified.RetirementIncome[i].Owner == sr.Person {
			modified.RetirementIncome[i].StartAge += sr.Years
		}
	}

	return modified, nil
}
