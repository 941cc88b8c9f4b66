package transform

import (
	"fmt"
	"strings"

	"github.com/mhollis/fincast/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in scenario templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ScenarioTransform
}

// NewTemplateRegistry creates a new empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	return names
}

// CreateBuiltInTemplates creates a template registry with common what-if
// variations. Retirement-timing templates shift the named person; spending
// and market templates apply to the whole household.
func CreateBuiltInTemplates(personName string) *TemplateRegistry {
	registry := NewTemplateRegistry()

	// Retirement timing templates
	registry.Register(Template{
		Name:        "retire_1yr_later",
		Description: "Work one more year before retiring",
		Transforms: []ScenarioTransform{
			&ShiftRetirement{Person: personName, Years: 1},
		},
	})

	registry.Register(Template{
		Name:        "retire_2yr_later",
		Description: "Work two more years before retiring",
		Transforms: []ScenarioTransform{
			&ShiftRetirement{Person: personName, Years: 2},
		},
	})

	registry.Register(Template{
		Name:        "retire_1yr_earlier",
		Description: "Retire one year earlier",
		Transforms: []ScenarioTransform{
			&ShiftRetirement{Person: personName, Years: -1},
		},
	})

	registry.Register(Template{
		Name:        "retire_2yr_earlier",
		Description: "Retire two years earlier",
		Transforms: []ScenarioTransform{
			&ShiftRetirement{Person: personName, Years: -2},
		},
	})

	// Spending templates
	registry.Register(Template{
		Name:        "spend_less_10",
		Description: "Cut recurring expenses by 10%",
		Transforms: []ScenarioTransform{
			&ScaleExpenses{Factor: decimal.NewFromFloat(0.9)},
		},
	})

	registry.Register(Template{
		Name:        "spend_less_20",
		Description: "Cut recurring expenses by 20%",
		Transforms: []ScenarioTransform{
			&ScaleExpenses{Factor: decimal.NewFromFloat(0.8)},
		},
	})

	registry.Register(Template{
		Name:        "spend_more_10",
		Description: "Raise recurring expenses by 10%",
		Transforms: []ScenarioTransform{
			&ScaleExpenses{Factor: decimal.NewFromFloat(1.1)},
		},
	})

	// Market return templates
	registry.Register(Template{
		Name:        "market_down_1pt",
		Description: "Lower all account returns by 1 percentage point",
		Transforms: []ScenarioTransform{
			&AdjustReturns{Delta: decimal.NewFromInt(-1)},
		},
	})

	registry.Register(Template{
		Name:        "market_down_2pt",
		Description: "Lower all account returns by 2 percentage points",
		Transforms: []ScenarioTransform{
			&AdjustReturns{Delta: decimal.NewFromInt(-2)},
		},
	})

	registry.Register(Template{
		Name:        "market_up_1pt",
		Description: "Raise all account returns by 1 percentage point",
		Transforms: []ScenarioTransform{
			&AdjustReturns{Delta: decimal.NewFromInt(1)},
		},
	})

	// Combination templates
	registry.Register(Template{
		Name:        "conservative",
		Description: "Conservative plan: work 1 more year, spend 10% less, returns 1pt lower",
		Transforms: []ScenarioTransform{
			&ShiftRetirement{Person: personName, Years: 1},
			&ScaleExpenses{Factor: decimal.NewFromFloat(0.9)},
			&AdjustReturns{Delta: decimal.NewFromInt(-1)},
		},
	})

	registry.Register(Template{
		Name:        "stress_test",
		Description: "Stress test: spend 10% more while returns run 2pt lower",
		Transforms: []ScenarioTransform{
			&ScaleExpenses{Factor: decimal.NewFromFloat(1.1)},
			&AdjustReturns{Delta: decimal.NewFromInt(-2)},
		},
	})

	registry.Register(Template{
		Name:        "optimistic",
		Description: "Optimistic plan: retire 1 year earlier with returns 1pt higher",
		Transforms: []ScenarioTransform{
			&ShiftRetirement{Person: personName, Years: -1},
			&AdjustReturns{Delta: decimal.NewFromInt(1)},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base scenario
func ApplyTemplate(base *domain.Scenario, template Template) (*domain.Scenario, error) {
	if len(template.Transforms) == 0 {
		return base.DeepCopy(), nil
	}
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := map[string][]Template{
		"Retirement Timing":      {},
		"Spending":               {},
		"Market Returns":         {},
		"Combination Strategies": {},
	}

	for _, template := range registry.templates {
		name := template.Name
		if strings.HasPrefix(name, "retire_") {
			categories["Retirement Timing"] = append(categories["Retirement Timing"], template)
		} else if strings.HasPrefix(name, "spend_") {
			categories["Spending"] = append(categories["Spending"], template)
		} else if strings.HasPrefix(name, "market_") {
			categories["Market Returns"] = append(categories["Market Returns"], template)
		} else {
			categories["Combination Strategies"] = append(categories["Combination Strategies"], template)
		}
	}

	for _, category := range []string{"Retirement Timing", "Spending", "Market Returns", "Combination Strategies"} {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-20s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  fincast compare plan.yaml --with retire_1yr_later,spend_less_10\n")
	sb.WriteString("  fincast compare plan.yaml --with conservative,stress_test\n")

	return sb.String()
}
