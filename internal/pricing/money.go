package pricing

import "github.com/shopspring/decimal"

// round2 rounds a monetary or percent value to two decimal places. It is only
// applied when a value is placed into a result.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func pct(v, percent float64) float64 {
	return v * percent / 100.0
}
