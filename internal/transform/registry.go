package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransformRegistry creates transforms from string parameters, which is how
// the CLI's --transform flag specifies ad-hoc edits outside the built-in
// templates.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ScenarioTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("shift_retirement", createShiftRetirement)
	registry.Register("scale_expenses", createScaleExpenses)
	registry.Register("adjust_returns", createAdjustReturns)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ScenarioTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "shift_retirement:person=Alex,years=2"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ScenarioTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	params := make(map[string]string)

	for _, pair := range strings.Split(parts[1], ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid parameter %q in transform spec %s", pair, name)
		}
		params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}

	return r.Create(name, params)
}

func createShiftRetirement(params map[string]string) (ScenarioTransform, error) {
	person, ok := params["person"]
	if !ok {
		return nil, fmt.Errorf("shift_retirement requires a person parameter")
	}

	yearsStr, ok := params["years"]
	if !ok {
		return nil, fmt.Errorf("shift_retirement requires a years parameter")
	}

	years, err := strconv.Atoi(yearsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid years value %q: %w", yearsStr, err)
	}

	return &ShiftRetirement{Person: person, Years: years}, nil
}

func createScaleExpenses(params map[string]string) (ScenarioTransform, error) {
	factorStr, ok := params["factor"]
	if !ok {
		return nil, fmt.Errorf("scale_expenses requires a factor parameter")
	}

	factor, err := decimal.NewFromString(factorStr)
	if err != nil {
		return nil, fmt.Errorf("invalid factor value %q: %w", factorStr, err)
	}

	return &ScaleExpenses{Factor: factor}, nil
}

func createAdjustReturns(params map[string]string) (ScenarioTransform, error) {
	deltaStr, ok := params["delta"]
	if !ok {
		return nil, fmt.Errorf("adjust_returns requires a delta parameter")
	}

	delta, err := decimal.NewFromString(deltaStr)
	if err != nil {
		return nil, fmt.Errorf("invalid delta value %q: %w", deltaStr, err)
	}

	return &AdjustReturns{Delta: delta}, nil
}
