package main

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mhollis/fincast/internal/calculation"
	"github.com/mhollis/fincast/internal/domain"
)

// Prints amortization and valuation schedules for the two sample
// properties, for eyeballing the loan math against an online calculator.
func main() {
	anchorYear := 2025

	cabin := futureCabin()
	principal := cabin.PurchasePrice.Mul(decimal.NewFromInt(1).Sub(cabin.DownPaymentPercent))
	rate := cabin.MortgageRate.Div(decimal.NewFromInt(100))
	monthly := calculation.MonthlyPayment(principal, rate, cabin.MortgageTermYears)

	fmt.Println("Lake Cabin loan:")
	fmt.Printf("financed %s at %s%% over %d years\n",
		principal.StringFixed(2), cabin.MortgageRate.StringFixed(2), cabin.MortgageTermYears)
	fmt.Printf("monthly payment: %s, annual: %s\n",
		monthly.StringFixed(2), monthly.Mul(decimal.NewFromInt(12)).StringFixed(2))
	for _, months := range []int{12, 60, 120, 180} {
		balance := calculation.RemainingBalance(principal, rate, cabin.MortgageTermYears, months)
		fmt.Printf("balance after %3d payments: %s\n", months, balance.StringFixed(2))
	}

	fmt.Println("\nLake Cabin (purchased 2035, sold 2050):")
	printSchedule(cabin, anchorYear, 2035, 2051)

	fmt.Println("\nPrimary Residence (owned since 2018):")
	printSchedule(ownedHome(), anchorYear, anchorYear, 2049)
}

func printSchedule(p domain.RealEstateProperty, anchorYear, from, to int) {
	v := calculation.NewPropertyValuator(p, anchorYear)

	fmt.Printf("%-6s %14s %14s %14s\n", "Year", "Value", "Mortgage", "Equity")
	for year := from; year <= to; year++ {
		if v.SoldBy(year) {
			fmt.Printf("%-6d %14s\n", year, "(sold)")
			continue
		}

		note := ""
		if v.SoldIn(year) {
			note = fmt.Sprintf("  sold, proceeds %s", v.SaleProceedsAt(year).StringFixed(2))
		}
		fmt.Printf("%-6d %14s %14s %14s%s\n", year,
			v.ValueAt(year).StringFixed(2),
			v.MortgageBalanceAt(year).StringFixed(2),
			v.EquityAt(year).StringFixed(2),
			note)
	}
}

func futureCabin() domain.RealEstateProperty {
	saleYear := 2050
	return domain.RealEstateProperty{
		Name:               "Lake Cabin",
		AlreadyOwned:       false,
		PurchaseYear:       2035,
		PurchasePrice:      decimal.NewFromInt(300000),
		DownPaymentPercent: decimal.NewFromFloat(0.25),
		MortgageRate:       decimal.NewFromFloat(5.5),
		MortgageTermYears:  15,
		AppreciationRate:   decimal.NewFromFloat(2.5),
		SaleYear:           &saleYear,
	}
}

func ownedHome() domain.RealEstateProperty {
	currentValue := decimal.NewFromInt(520000)
	currentMortgage := decimal.NewFromInt(295000)
	return domain.RealEstateProperty{
		Name:                   "Primary Residence",
		AlreadyOwned:           true,
		PurchaseYear:           2018,
		PurchasePrice:          decimal.NewFromInt(420000),
		DownPaymentPercent:     decimal.NewFromFloat(0.20),
		MortgageRate:           decimal.NewFromFloat(4.1),
		MortgageTermYears:      30,
		AppreciationRate:       decimal.NewFromInt(3),
		CurrentValue:           &currentValue,
		CurrentMortgageBalance: &currentMortgage,
	}
}
