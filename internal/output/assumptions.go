package output

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
// Future: could be loaded from configuration or generated dynamically.
var DefaultAssumptions = []string{
	"All amounts are nominal; no tax or inflation adjustment is applied",
	"Account growth compounds once per year, before cashflows are applied",
	"Surplus cashflow is deposited into the first account",
	"Shortfalls draw from all accounts pro-rata and floor at zero",
	"Real estate sales credit equity net of 6% closing costs",
	"Monte Carlo volatility is derived from each account's expected return",
}
