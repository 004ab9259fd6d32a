package pricing

import (
	"fmt"
	"math"
)

const (
	// maxTierPasses bounds the margin solver when a tier or shipping band
	// changes between passes.
	maxTierPasses = 6
	// priceStable is the change below which a margin-solver pass is final.
	priceStable = 0.005

	maxBisectRounds     = 60
	maxBracketDoublings = 40

	costToPriceRounds    = 20
	costToPriceTolerance = 0.01
	costToPriceSeedRatio = 1.5
)

// SolveMarginPrice finds the sale price whose profit is marginPercent of the
// price. It returns 0 when the margin cannot be reached because the
// proportional deductions plus the margin reach 100% of the price, or when
// there is nothing to price.
func SolveMarginPrice(in Input, marginPercent float64) float64 {
	m := marginPercent / 100.0
	if m >= 1 {
		return 0
	}

	// First pass: proportional rates only, resolved at cost-plus-margin.
	base := resolveTerms(in, 0).baseCosts()
	rate := resolveTerms(in, base/(1-m)).proportionalRate()
	denom := 1 - rate - m
	if denom <= 0 {
		return 0
	}
	price := base / denom

	visited := []float64{price}
	stable := false
	for pass := 0; pass < maxTierPasses && !stable; pass++ {
		local := resolveTerms(in, price).model()
		d := 1 - local.rate - m
		if d <= 0 {
			break
		}
		next := local.fixed / d
		stable = math.Abs(next-price) < priceStable
		price = next
		visited = append(visited, price)
	}
	if !stable {
		price = bisectMarginPrice(in, m, visited)
	}

	if price <= 0 {
		return 0
	}
	return round2(price)
}

// marginGap is positive when price earns more than margin m.
func marginGap(in Input, price, m float64) float64 {
	return price*(1-m) - resolveTerms(in, price).model().at(price)
}

// bisectMarginPrice brackets a root of marginGap with the prices the linear
// passes visited and bisects it. Used when a band edge makes the passes
// alternate between two regimes.
func bisectMarginPrice(in Input, m float64, visited []float64) float64 {
	hi := -1.0
	for _, p := range visited {
		if p > 0 && marginGap(in, p, m) > 0 && (hi < 0 || p < hi) {
			hi = p
		}
	}
	if hi < 0 {
		probe := 1.0
		for _, p := range visited {
			probe = math.Max(probe, p)
		}
		for i := 0; i < maxBracketDoublings; i++ {
			probe *= 2
			if marginGap(in, probe, m) > 0 {
				hi = probe
				break
			}
		}
		if hi < 0 {
			return 0
		}
	}

	lo := 0.0
	for _, p := range visited {
		if p > lo && p < hi && marginGap(in, p, m) <= 0 {
			lo = p
		}
	}
	for i := 0; i < maxBisectRounds && hi-lo > priceStable; i++ {
		mid := (lo + hi) / 2
		if marginGap(in, mid, m) > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi
}

// PriceSolution reports a cost-to-price solve.
type PriceSolution struct {
	Price      float64
	Iterations int
	Converged  bool
}

// SolveCostToPrice returns the sale price that yields marginPercent when the
// product is bought for cost.
func SolveCostToPrice(cost, marginPercent float64, in Input) float64 {
	return CostToPrice(cost, marginPercent, in).Price
}

// CostToPrice runs the bounded fixed-point iteration behind SolveCostToPrice.
// It stops at one cent of error or after a fixed number of rounds.
func CostToPrice(cost, marginPercent float64, in Input) PriceSolution {
	scenario := withSupplierCost(in, cost)
	m := marginPercent / 100.0

	price := cost * (1 + m) * costToPriceSeedRatio
	sol := PriceSolution{}
	for sol.Iterations < costToPriceRounds {
		sol.Iterations++
		profit := price - resolveTerms(scenario, price).model().at(price)
		diff := price*m - profit
		if math.Abs(diff) < costToPriceTolerance {
			sol.Converged = true
			break
		}
		price += diff
	}
	sol.Price = round2(math.Max(0, price))
	return sol
}

// SolveCostCeiling returns the highest supplier cost that still yields
// marginPercent at targetPrice. An infeasible ceiling keeps its negative
// MaxCost so the caller can show the shortfall.
func SolveCostCeiling(targetPrice, marginPercent float64, in Input) CostCeiling {
	out := CostCeiling{
		TargetPrice:   round2(targetPrice),
		MarginPercent: marginPercent,
		Breakdown:     []CeilingLine{},
	}
	if targetPrice <= 0 {
		return out
	}

	scenario := withSupplierCost(in, 0)
	t := resolveTerms(scenario, targetPrice)
	deductions := t.model().at(targetPrice)
	desired := pct(targetPrice, marginPercent)
	maxCost := targetPrice - deductions - desired

	out.MaxCost = round2(maxCost)
	out.Feasible = out.MaxCost > 0

	for _, line := range Evaluate(scenario, targetPrice).Waterfall {
		if line.Key == LineProfit {
			continue
		}
		out.Breakdown = append(out.Breakdown, CeilingLine{Key: line.Key, Label: line.Label, Value: line.Amount})
	}
	out.Breakdown = append(out.Breakdown, CeilingLine{
		Key:   "desired_profit",
		Label: fmt.Sprintf("Lucro desejado (%s%%)", formatBRL(marginPercent)),
		Value: round2(desired),
	})
	return out
}

func withSupplierCost(in Input, cost float64) Input {
	in.Product = Resold{SupplierCost: cost}
	in.Pricing = FixedPrice{}
	return in
}
