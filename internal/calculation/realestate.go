package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/mhollis/fincast/internal/domain"
)

// DefaultClosingCostRate is the fraction of equity lost to closing costs
// when a property sells.
var DefaultClosingCostRate = decimal.NewFromFloat(0.06)

type propertyKind int

const (
	propertyOwned propertyKind = iota
	propertyFuture
)

// PropertyValuator computes per-year value, mortgage balance, equity, and
// sale proceeds for a single property. It is a closed two-variant type:
// owned properties anchor on their current value and balance as of the
// scenario's current year, future properties on the purchase terms. Every
// operation switches on the variant tag.
type PropertyValuator struct {
	kind       propertyKind
	name       string
	anchorYear int

	purchaseYear int
	price        decimal.Decimal
	downPercent  decimal.Decimal
	rate         decimal.Decimal // fraction
	termYears    int
	appreciation decimal.Decimal // fraction
	saleYear     *int

	// Owned variant only.
	currentValue   decimal.Decimal
	currentBalance decimal.Decimal
}

// NewPropertyValuator builds the valuator for one property. anchorYear is
// the scenario's current year, the point owned-property baselines are
// stated at. Percent rates are converted to fractions here, once.
func NewPropertyValuator(p domain.RealEstateProperty, anchorYear int) *PropertyValuator {
	v := &PropertyValuator{
		name:         p.Name,
		anchorYear:   anchorYear,
		purchaseYear: p.PurchaseYear,
		price:        p.PurchasePrice,
		downPercent:  p.DownPaymentPercent,
		rate:         percentToFraction(p.MortgageRate),
		termYears:    p.MortgageTermYears,
		appreciation: percentToFraction(p.AppreciationRate),
		saleYear:     p.SaleYear,
	}
	if p.AlreadyOwned {
		v.kind = propertyOwned
		if p.CurrentValue != nil {
			v.currentValue = *p.CurrentValue
		}
		if p.CurrentMortgageBalance != nil {
			v.currentBalance = *p.CurrentMortgageBalance
		}
	} else {
		v.kind = propertyFuture
	}
	return v
}

// Name returns the property's display name.
func (v *PropertyValuator) Name() string { return v.name }

// SoldBy reports whether the property was sold strictly before year.
func (v *PropertyValuator) SoldBy(year int) bool {
	return v.saleYear != nil && year > *v.saleYear
}

// SoldIn reports whether year is the sale year.
func (v *PropertyValuator) SoldIn(year int) bool {
	return v.saleYear != nil && year == *v.saleYear
}

// ValueAt returns the property's market value in the given year. Owned
// properties appreciate from the anchor-year value and never deflate below
// it for earlier years; future properties are worth nothing until purchased.
func (v *PropertyValuator) ValueAt(year int) decimal.Decimal {
	switch v.kind {
	case propertyOwned:
		elapsed := year - v.anchorYear
		if elapsed < 0 {
			elapsed = 0
		}
		return v.currentValue.Mul(onePlus(v.appreciation).Pow(decimal.NewFromInt(int64(elapsed))))
	default:
		if year < v.purchaseYear {
			return decimalZero
		}
		elapsed := year - v.purchaseYear
		return v.price.Mul(onePlus(v.appreciation).Pow(decimal.NewFromInt(int64(elapsed))))
	}
}

// MortgageBalanceAt returns the loan balance outstanding in the given year.
func (v *PropertyValuator) MortgageBalanceAt(year int) decimal.Decimal {
	switch v.kind {
	case propertyOwned:
		if v.currentBalance.LessThanOrEqual(decimalZero) {
			return decimalZero
		}
		elapsed := year - v.anchorYear
		if elapsed <= 0 {
			return v.currentBalance
		}
		remainingTerm := v.termYears - (v.anchorYear - v.purchaseYear)
		if remainingTerm <= elapsed {
			return decimalZero
		}
		return RemainingBalance(v.currentBalance, v.rate, remainingTerm, elapsed*12)
	default:
		if year < v.purchaseYear {
			return decimalZero
		}
		elapsed := year - v.purchaseYear
		if elapsed >= v.termYears {
			return decimalZero
		}
		principal := v.price.Mul(decimalOne.Sub(v.downPercent))
		return RemainingBalance(principal, v.rate, v.termYears, elapsed*12)
	}
}

// rawEquityAt is the equity ignoring the sold state, floored at zero.
func (v *PropertyValuator) rawEquityAt(year int) decimal.Decimal {
	equity := v.ValueAt(year).Sub(v.MortgageBalanceAt(year))
	return decimal.Max(decimalZero, equity)
}

// EquityAt returns value minus mortgage balance, floored at zero. Once the
// sale year arrives the property's equity is zero for that year and every
// year after; the transition is one-way.
func (v *PropertyValuator) EquityAt(year int) decimal.Decimal {
	if v.saleYear != nil && year >= *v.saleYear {
		return decimalZero
	}
	return v.rawEquityAt(year)
}

// SaleProceedsAt returns the cash realized from selling the property, net
// of closing costs. Non-zero only in the exact sale year.
func (v *PropertyValuator) SaleProceedsAt(year int) decimal.Decimal {
	if !v.SoldIn(year) {
		return decimalZero
	}
	return v.rawEquityAt(year).Mul(decimalOne.Sub(DefaultClosingCostRate))
}

// DownPaymentAt returns the one-time down payment due when a future
// property is purchased in the given year. Owned properties never owe one.
func (v *PropertyValuator) DownPaymentAt(year int) decimal.Decimal {
	if v.kind != propertyFuture || year != v.purchaseYear {
		return decimalZero
	}
	return v.price.Mul(v.downPercent)
}

// annualMortgagePayment returns twelve months of payments. The owned
// variant amortizes its current balance over the term remaining at the
// anchor year (floored at one year); the future variant amortizes the full
// financed principal over the full term.
func (v *PropertyValuator) annualMortgagePayment() decimal.Decimal {
	switch v.kind {
	case propertyOwned:
		remainingTerm := v.termYears - (v.anchorYear - v.purchaseYear)
		if remainingTerm < 1 {
			remainingTerm = 1
		}
		return MonthlyPayment(v.currentBalance, v.rate, remainingTerm).Mul(decimalTwelve)
	default:
		principal := v.price.Mul(decimalOne.Sub(v.downPercent))
		return MonthlyPayment(principal, v.rate, v.termYears).Mul(decimalTwelve)
	}
}

// RealEstateImpact aggregates every property's contribution to one
// simulated year. AnnualIncome is reserved for rental support and is always
// zero today.
type RealEstateImpact struct {
	AnnualExpenses  decimal.Decimal            `json:"annualExpenses"`
	AnnualIncome    decimal.Decimal            `json:"annualIncome"`
	OneTimeExpenses decimal.Decimal            `json:"oneTimeExpenses"`
	PropertyValues  map[string]decimal.Decimal `json:"propertyValues"`
	EquityValues    map[string]decimal.Decimal `json:"equityValues"`
	SaleProceeds    decimal.Decimal            `json:"saleProceeds"`
}

// TotalEquity sums the per-property equity snapshot.
func (imp *RealEstateImpact) TotalEquity() decimal.Decimal {
	total := decimalZero
	for _, equity := range imp.EquityValues {
		total = total.Add(equity)
	}
	return total
}

// CalculateRealEstateImpact combines all properties for one year: mortgage
// payments for active loans, down payments coming due, sale proceeds, and
// the value/equity snapshots. Nameless properties are skipped; properties
// sold in earlier years no longer appear at all. A property sold this year
// contributes its proceeds and a zeroed equity entry but keeps its value in
// the value map for reporting.
func CalculateRealEstateImpact(properties []domain.RealEstateProperty, anchorYear, year int) *RealEstateImpact {
	impact := &RealEstateImpact{
		AnnualExpenses:  decimalZero,
		AnnualIncome:    decimalZero,
		OneTimeExpenses: decimalZero,
		PropertyValues:  make(map[string]decimal.Decimal),
		EquityValues:    make(map[string]decimal.Decimal),
		SaleProceeds:    decimalZero,
	}

	for _, prop := range properties {
		if prop.Name == "" {
			continue
		}
		v := NewPropertyValuator(prop, anchorYear)
		if v.SoldBy(year) {
			continue
		}

		impact.PropertyValues[v.Name()] = v.ValueAt(year)
		impact.EquityValues[v.Name()] = v.EquityAt(year)
		impact.OneTimeExpenses = impact.OneTimeExpenses.Add(v.DownPaymentAt(year))

		if v.MortgageBalanceAt(year).GreaterThan(decimalZero) && !v.SoldIn(year) {
			impact.AnnualExpenses = impact.AnnualExpenses.Add(v.annualMortgagePayment())
		}

		if v.SoldIn(year) {
			impact.SaleProceeds = impact.SaleProceeds.Add(v.SaleProceedsAt(year))
		}
	}

	return impact
}
