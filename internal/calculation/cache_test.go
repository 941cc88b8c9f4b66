package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mhollis/fincast/internal/domain"
)

func TestProjectionCache_PersonAge(t *testing.T) {
	scenario := &domain.Scenario{
		CurrentYear: 2025,
		CurrentAge:  40,
		People: []domain.Person{
			{Name: "Alex", CurrentAge: 40},
			{Name: "Sam", CurrentAge: 37},
		},
	}
	cache := NewProjectionCache()

	age, ok := cache.PersonAge(scenario, "Sam", 2030)
	assert.True(t, ok, "Should find the named person")
	assert.Equal(t, 42, age, "Sam is 37 in 2025, so 42 in 2030")

	// Later lookups come from the cache even if the scenario changes.
	scenario.People[1].CurrentAge = 99
	age, ok = cache.PersonAge(scenario, "Sam", 2030)
	assert.True(t, ok)
	assert.Equal(t, 42, age, "Should serve the memoized age")
}

func TestProjectionCache_PersonAge_UnknownFallsBack(t *testing.T) {
	scenario := &domain.Scenario{CurrentYear: 2025, CurrentAge: 40}
	cache := NewProjectionCache()

	age, ok := cache.PersonAge(scenario, "Nobody", 2028)
	assert.False(t, ok, "Unknown person should be reported")
	assert.Equal(t, 43, age, "Unknown owners use the primary age")
}

func TestProjectionCache_RealEstateImpactMemoized(t *testing.T) {
	scenario := &domain.Scenario{
		CurrentYear: 2025,
		CurrentAge:  40,
		RealEstate: []domain.RealEstateProperty{
			{
				Name:                   "Home",
				AlreadyOwned:           true,
				PurchaseYear:           2020,
				MortgageTermYears:      30,
				AppreciationRate:       decimal.NewFromInt(3),
				CurrentValue:           decimalPtr(decimal.NewFromInt(400000)),
				CurrentMortgageBalance: decimalPtr(decimal.Zero),
			},
		},
	}
	cache := NewProjectionCache()

	first := cache.RealEstateImpact(scenario, 2030)
	second := cache.RealEstateImpact(scenario, 2030)

	assert.Same(t, first, second, "Should compute the year at most once")
	assert.True(t, first.TotalEquity().GreaterThan(decimal.Zero))

	other := cache.RealEstateImpact(scenario, 2031)
	assert.NotSame(t, first, other, "Different years are cached separately")
}
