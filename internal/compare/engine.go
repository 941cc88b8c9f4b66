// Package compare runs a base plan against what-if variants and reduces the
// results to a side-by-side comparison.
package compare

import (
	"context"
	"fmt"

	"github.com/mhollis/fincast/internal/calculation"
	"github.com/mhollis/fincast/internal/domain"
	"github.com/mhollis/fincast/internal/transform"
)

// CompareEngine orchestrates scenario comparison workflows
type CompareEngine struct {
	Engine            *calculation.ProjectionEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(engine *calculation.ProjectionEngine) *CompareEngine {
	return &CompareEngine{
		Engine:            engine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures the comparison process
type CompareOptions struct {
	// Templates names the built-in what-if templates to run against the base.
	Templates []string

	// Transforms holds ad-hoc transform specs ("name:param=value,..."), each
	// run as its own variant.
	Transforms []string

	// PersonName binds person-scoped templates (retirement shifts) to a
	// specific person. Empty means the first person in the plan.
	PersonName string

	// ConfigPath is recorded in the result set for reporting.
	ConfigPath string
}

// Compare runs the base scenario plus the requested variants and assembles a
// comparison set.
func (ce *CompareEngine) Compare(ctx context.Context, scenario *domain.Scenario, options CompareOptions) (*ComparisonSet, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario cannot be nil")
	}
	if len(scenario.People) == 0 {
		return nil, fmt.Errorf("scenario %s has no people", scenario.Name)
	}

	personName := options.PersonName
	if personName == "" {
		personName = scenario.People[0].Name
	}
	if scenario.PersonByName(personName) == nil {
		return nil, fmt.Errorf("person %s not found in scenario", personName)
	}

	if ce.TemplateRegistry == nil {
		ce.TemplateRegistry = transform.CreateBuiltInTemplates(personName)
	}

	// Run the base scenario
	baseProjection, err := ce.Engine.RunProjection(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to run base scenario: %w", err)
	}

	baseResult := ce.MetricsCalculator.CalculateMetrics(baseProjection)

	compSet := &ComparisonSet{
		BaseScenarioName:   scenario.Name,
		BaseResult:         &baseResult,
		AlternativeResults: []ComparisonResult{},
		ConfigPath:         options.ConfigPath,
	}

	// Run each requested template variant
	for _, templateName := range options.Templates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}

		variant, err := transform.ApplyTemplate(scenario, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}
		variant.Name = scenario.Name + "_" + templateName

		result, err := ce.runVariant(variant, template.Description, baseResult)
		if err != nil {
			return nil, err
		}
		compSet.AlternativeResults = append(compSet.AlternativeResults, result)
	}

	// Run each ad-hoc transform variant
	registry := transform.NewTransformRegistry()
	for _, spec := range options.Transforms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tr, err := registry.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}

		variant, err := transform.ApplyTransforms(scenario, []transform.ScenarioTransform{tr})
		if err != nil {
			return nil, fmt.Errorf("failed to apply transform %s: %w", tr.Name(), err)
		}
		variant.Name = scenario.Name + "_" + tr.Name()

		result, err := ce.runVariant(variant, tr.Description(), baseResult)
		if err != nil {
			return nil, err
		}
		compSet.AlternativeResults = append(compSet.AlternativeResults, result)
	}

	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func (ce *CompareEngine) runVariant(variant *domain.Scenario, description string, base ComparisonResult) (ComparisonResult, error) {
	projection, err := ce.Engine.RunProjection(variant)
	if err != nil {
		return ComparisonResult{}, fmt.Errorf("failed to run scenario %s: %w", variant.Name, err)
	}

	result := ce.MetricsCalculator.CalculateMetrics(projection)
	result.Description = description
	return ce.MetricsCalculator.CalculateComparison(result, base), nil
}
