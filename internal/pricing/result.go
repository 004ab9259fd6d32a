package pricing

// Waterfall line keys, in emission order.
const (
	LineMarketplaceFee = "marketplace_fee"
	LineShipping       = "shipping"
	LineCoupon         = "coupon"
	LineTax            = "tax"
	LineCardFee        = "card_fee"
	LineEnergy         = "energy"
	LineFilament       = "filament"
	LineMachine        = "machine"
	LineSupplier       = "supplier"
	LinePackaging      = "packaging"
	LineLabor          = "labor"
	LineOther          = "other"
	LineProfit         = "profit"
)

// WaterfallLine is one deduction from the sale price.
type WaterfallLine struct {
	Key                string  `json:"key"`
	Label              string  `json:"label"`
	Amount             float64 `json:"amount"`
	PercentOfSalePrice float64 `json:"percent_of_sale_price"`
	RunningRemainder   float64 `json:"running_remainder"`
}

// Result is the full price breakdown of one scenario.
type Result struct {
	SalePrice       float64 `json:"sale_price"`
	AdvertisedPrice float64 `json:"advertised_price"`
	PixPrice        float64 `json:"pix_price"`

	Marketplace                  MarketplaceKind `json:"marketplace"`
	MarketplaceCommissionPercent float64         `json:"marketplace_commission_percent"`
	MarketplaceCommission        float64         `json:"marketplace_commission"`
	MarketplaceFixedFee          float64         `json:"marketplace_fixed_fee"`
	MarketplaceSurcharges        float64         `json:"marketplace_surcharges"`
	MarketplaceTotalFee          float64         `json:"marketplace_total_fee"`

	ShippingCost        float64      `json:"shipping_cost"`
	ShippingKind        ShippingKind `json:"shipping_kind,omitempty"`
	ShippingDescription string       `json:"shipping_description,omitempty"`

	CouponCost    float64 `json:"coupon_cost"`
	TaxCost       float64 `json:"tax_cost"`
	CardFee       float64 `json:"card_fee"`
	EnergyCost    float64 `json:"energy_cost"`
	FilamentCost  float64 `json:"filament_cost"`
	MachineCost   float64 `json:"machine_cost"`
	SupplierCost  float64 `json:"supplier_cost"`
	PackagingCost float64 `json:"packaging_cost"`
	LaborCost     float64 `json:"labor_cost"`
	OtherCosts    float64 `json:"other_costs"`

	TotalCosts    float64 `json:"total_costs"`
	Profit        float64 `json:"profit"`
	MarginPercent float64 `json:"margin_percent"`
	ProfitPerHour float64 `json:"profit_per_hour"`
	DailyProfit   float64 `json:"daily_profit"`
	MonthlyProfit float64 `json:"monthly_profit"`

	Waterfall []WaterfallLine `json:"waterfall"`
}

// CeilingLine is one entry of a cost-ceiling breakdown.
type CeilingLine struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CostCeiling is the answer of SolveCostCeiling. A non-positive MaxCost means
// fees plus the desired profit already exceed the target price.
type CostCeiling struct {
	TargetPrice   float64       `json:"target_price"`
	MarginPercent float64       `json:"margin_percent"`
	MaxCost       float64       `json:"max_cost"`
	Feasible      bool          `json:"feasible"`
	Breakdown     []CeilingLine `json:"breakdown"`
}
