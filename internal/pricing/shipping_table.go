package pricing

// PriceBands is the number of price columns in the shipping matrix.
const PriceBands = 8

// ShippingRow is one weight band of the Mercado Livre shipping matrix.
// MaxKg is inclusive; the last row is open-ended (MaxKg < 0).
type ShippingRow struct {
	MaxKg     float64             `json:"max_kg"`
	Costs     [PriceBands]float64 `json:"costs"`
	Expedited float64             `json:"expedited"`
}

// Envios ML, March 2026. Columns are priced by the breakpoints in
// priceBandBreakpoints; Expedited is the optional fast service below
// ShippingUpperThreshold.
var shippingTable = []ShippingRow{
	{MaxKg: 0.3, Costs: [PriceBands]float64{5.65, 6.55, 7.75, 12.35, 14.35, 16.45, 18.45, 20.95}, Expedited: 12.35},
	{MaxKg: 0.5, Costs: [PriceBands]float64{5.95, 6.65, 7.85, 13.25, 15.45, 17.65, 19.85, 22.55}, Expedited: 13.25},
	{MaxKg: 1, Costs: [PriceBands]float64{6.05, 6.75, 7.95, 13.85, 16.15, 18.45, 20.75, 23.65}, Expedited: 13.85},
	{MaxKg: 1.5, Costs: [PriceBands]float64{6.15, 6.85, 8.05, 14.15, 16.45, 18.85, 21.15, 24.65}, Expedited: 14.15},
	{MaxKg: 2, Costs: [PriceBands]float64{6.25, 6.95, 8.15, 14.45, 16.85, 19.25, 21.65, 24.65}, Expedited: 14.45},
	{MaxKg: 3, Costs: [PriceBands]float64{6.35, 7.95, 8.55, 15.75, 18.35, 21.05, 23.65, 26.25}, Expedited: 15.75},
	{MaxKg: 4, Costs: [PriceBands]float64{6.45, 8.15, 8.95, 17.05, 19.85, 22.65, 25.55, 28.35}, Expedited: 17.05},
	{MaxKg: 5, Costs: [PriceBands]float64{6.55, 8.35, 9.75, 18.45, 21.55, 24.65, 27.75, 30.75}, Expedited: 18.45},
	{MaxKg: 6, Costs: [PriceBands]float64{6.65, 8.55, 9.95, 25.45, 28.55, 32.65, 35.75, 39.75}, Expedited: 25.45},
	{MaxKg: 7, Costs: [PriceBands]float64{6.75, 8.75, 10.15, 27.05, 31.05, 36.05, 40.05, 44.05}, Expedited: 27.05},
	{MaxKg: 8, Costs: [PriceBands]float64{6.85, 8.95, 10.35, 28.85, 33.65, 38.45, 43.25, 48.05}, Expedited: 28.85},
	{MaxKg: 9, Costs: [PriceBands]float64{6.95, 9.15, 10.55, 29.65, 34.55, 39.55, 44.45, 49.35}, Expedited: 29.65},
	{MaxKg: 11, Costs: [PriceBands]float64{7.05, 9.55, 10.95, 41.25, 48.05, 54.95, 61.75, 68.65}, Expedited: 41.25},
	{MaxKg: 13, Costs: [PriceBands]float64{7.15, 9.95, 11.35, 42.15, 49.25, 56.25, 63.25, 70.25}, Expedited: 42.15},
	{MaxKg: 15, Costs: [PriceBands]float64{7.25, 10.15, 11.55, 45.05, 52.45, 59.95, 67.45, 74.95}, Expedited: 45.05},
	{MaxKg: 17, Costs: [PriceBands]float64{7.35, 10.35, 11.75, 48.55, 56.05, 63.55, 70.75, 78.65}, Expedited: 48.55},
	{MaxKg: 20, Costs: [PriceBands]float64{7.45, 10.55, 11.95, 54.75, 63.85, 72.95, 82.05, 91.15}, Expedited: 54.75},
	{MaxKg: 25, Costs: [PriceBands]float64{7.65, 10.95, 12.15, 64.05, 75.05, 84.75, 95.35, 105.95}, Expedited: 64.05},
	{MaxKg: 30, Costs: [PriceBands]float64{7.75, 11.15, 12.35, 65.95, 75.45, 85.55, 96.25, 106.95}, Expedited: 65.95},
	{MaxKg: 40, Costs: [PriceBands]float64{7.85, 11.35, 12.55, 67.75, 78.95, 88.95, 99.15, 107.05}, Expedited: 67.75},
	{MaxKg: 50, Costs: [PriceBands]float64{7.95, 11.55, 12.75, 70.25, 81.05, 92.05, 102.55, 110.75}, Expedited: 70.25},
	{MaxKg: 60, Costs: [PriceBands]float64{8.05, 11.75, 12.95, 74.95, 86.45, 98.15, 109.35, 118.15}, Expedited: 74.95},
	{MaxKg: 70, Costs: [PriceBands]float64{8.15, 11.95, 13.15, 80.25, 92.95, 105.05, 117.15, 126.55}, Expedited: 80.25},
	{MaxKg: 80, Costs: [PriceBands]float64{8.25, 12.15, 13.35, 83.95, 97.05, 109.85, 122.45, 132.25}, Expedited: 83.95},
	{MaxKg: 90, Costs: [PriceBands]float64{8.35, 12.35, 13.55, 93.25, 107.45, 122.05, 136.05, 146.95}, Expedited: 93.25},
	{MaxKg: 100, Costs: [PriceBands]float64{8.45, 12.55, 13.75, 106.55, 123.95, 139.55, 155.55, 167.95}, Expedited: 106.55},
	{MaxKg: 125, Costs: [PriceBands]float64{8.55, 12.75, 13.95, 119.25, 138.05, 156.05, 173.95, 187.95}, Expedited: 119.25},
	{MaxKg: 150, Costs: [PriceBands]float64{8.65, 12.75, 14.15, 126.55, 146.15, 165.65, 184.65, 199.45}, Expedited: 126.55},
	{MaxKg: -1, Costs: [PriceBands]float64{8.75, 12.95, 14.35, 166.15, 192.45, 217.55, 242.55, 261.95}, Expedited: 166.15},
}

// Exclusive upper bounds of price bands 0..6; band 7 is open-ended.
var priceBandBreakpoints = [PriceBands - 1]float64{19, 49, 79, 100, 120, 150, 200}

const (
	// ShippingLowThreshold: below it shipping is capped at half the price.
	ShippingLowThreshold = 19.0
	// ShippingUpperThreshold: from it on expedited service is bundled.
	ShippingUpperThreshold = 79.0

	shippingCapRatio = 0.5
)

// ShippingTable returns a copy of the shipping matrix.
func ShippingTable() []ShippingRow {
	out := make([]ShippingRow, len(shippingTable))
	copy(out, shippingTable)
	return out
}

// ResolveWeightBand returns the first band whose upper bound is >= weightKg,
// or the open-ended last band.
func ResolveWeightBand(weightKg float64) int {
	for i, row := range shippingTable {
		if row.MaxKg < 0 || weightKg <= row.MaxKg {
			return i
		}
	}
	return len(shippingTable) - 1
}

// ResolvePriceBand returns the price column for salePrice.
func ResolvePriceBand(salePrice float64) int {
	for i, bound := range priceBandBreakpoints {
		if salePrice < bound {
			return i
		}
	}
	return PriceBands - 1
}
