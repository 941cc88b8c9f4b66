package calculation

import (
	"github.com/mhollis/fincast/internal/domain"
)

type personYearKey struct {
	name string
	year int
}

// ProjectionCache memoizes derived per-year values for exactly one run: one
// deterministic pass or one Monte Carlo trial. The real-estate aggregate is
// requested independently by the income, expense, and cashflow steps within
// the same year, and person ages are resolved repeatedly for every owned
// item. Each run must create its own cache; sharing one across runs would
// leak a prior run's values.
type ProjectionCache struct {
	personAges       map[personYearKey]int
	realEstateImpact map[int]*RealEstateImpact
}

// NewProjectionCache creates an empty per-run cache.
func NewProjectionCache() *ProjectionCache {
	return &ProjectionCache{
		personAges:       make(map[personYearKey]int),
		realEstateImpact: make(map[int]*RealEstateImpact),
	}
}

// PersonAge resolves the named person's age in the given year, memoized on
// (name, year). An unknown owner falls back to the scenario's primary age
// for that year so one bad reference degrades a single item instead of the
// run; ok reports whether the person was found.
func (c *ProjectionCache) PersonAge(scenario *domain.Scenario, name string, year int) (age int, ok bool) {
	key := personYearKey{name: name, year: year}
	if cached, hit := c.personAges[key]; hit {
		return cached, true
	}

	person := scenario.PersonByName(name)
	if person == nil {
		return scenario.CurrentAge + (year - scenario.CurrentYear), false
	}

	age = person.CurrentAge + (year - scenario.CurrentYear)
	c.personAges[key] = age
	return age, true
}

// RealEstateImpact returns the aggregated property impact for the year,
// computing it at most once per run.
func (c *ProjectionCache) RealEstateImpact(scenario *domain.Scenario, year int) *RealEstateImpact {
	if impact, hit := c.realEstateImpact[year]; hit {
		return impact
	}

	impact := CalculateRealEstateImpact(scenario.RealEstate, scenario.CurrentYear, year)
	c.realEstateImpact[year] = impact
	return impact
}
