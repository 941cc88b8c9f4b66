package calculation

import (
	"github.com/shopspring/decimal"
)

var (
	decimalOne     = decimal.NewFromInt(1)
	decimalZero    = decimal.Zero
	decimalTwelve  = decimal.NewFromInt(12)
	decimalHundred = decimal.NewFromInt(100)
)

// onePlus returns 1 + value, the annual compounding multiplier.
func onePlus(value decimal.Decimal) decimal.Decimal {
	return decimalOne.Add(value)
}

// percentToFraction converts a percentage rate (8.0) to a fraction (0.08).
func percentToFraction(rate decimal.Decimal) decimal.Decimal {
	return rate.Div(decimalHundred)
}

// MonthlyPayment calculates the fixed monthly payment for a loan using the
// standard annuity formula. annualRate is a fraction (0.04 for 4%). A zero
// rate degrades to straight-line principal repayment. Callers guarantee
// principal >= 0 and years > 0.
func MonthlyPayment(principal, annualRate decimal.Decimal, years int) decimal.Decimal {
	numPayments := decimal.NewFromInt(int64(years)).Mul(decimalTwelve)
	if annualRate.IsZero() {
		return principal.Div(numPayments)
	}

	monthlyRate := annualRate.Div(decimalTwelve)
	compound := onePlus(monthlyRate).Pow(numPayments)

	return principal.Mul(monthlyRate.Mul(compound)).Div(compound.Sub(decimalOne))
}

// RemainingBalance calculates the principal still owed after paymentsMade
// monthly payments on a fixed-rate loan. Returns zero once the loan is
// fully amortized; the zero-rate case pays down linearly. Never negative.
func RemainingBalance(principal, annualRate decimal.Decimal, termYears, paymentsMade int) decimal.Decimal {
	totalPayments := termYears * 12
	if annualRate.IsZero() {
		paid := principal.Mul(decimal.NewFromInt(int64(paymentsMade))).Div(decimal.NewFromInt(int64(totalPayments)))
		return decimal.Max(decimalZero, principal.Sub(paid))
	}

	if paymentsMade >= totalPayments {
		return decimalZero
	}

	monthlyRate := annualRate.Div(decimalTwelve)
	compoundTotal := onePlus(monthlyRate).Pow(decimal.NewFromInt(int64(totalPayments)))
	compoundMade := onePlus(monthlyRate).Pow(decimal.NewFromInt(int64(paymentsMade)))

	balance := principal.Mul(compoundTotal.Sub(compoundMade)).Div(compoundTotal.Sub(decimalOne))
	return decimal.Max(decimalZero, balance)
}
