package pricing

// Input describes one pricing scenario. Product, Pricing and Marketplace are
// closed variants: a code path only sees the fields of the variant it handles.
type Input struct {
	Product     Product
	Pricing     Pricing
	Promo       Promo
	Marketplace Marketplace
	Shipping    Shipping
	Costs       Costs
}

// Product is either Printed or Resold.
type Product interface {
	isProduct()
}

// Printed is a part fabricated on a 3D printer.
type Printed struct {
	PrinterID          string
	CustomPowerKW      float64
	PrintHours         float64
	PrintMinutes       float64
	KWhPrice           float64
	FilamentPricePerKg float64
	FilamentGrams      float64
	// MachineHourlyCost covers depreciation and upkeep per print hour.
	MachineHourlyCost float64
}

// Resold is a product bought from a supplier.
type Resold struct {
	SupplierCost float64
}

func (Printed) isProduct() {}
func (Resold) isProduct()  {}

// Hours returns the total print duration in hours.
func (p Printed) Hours() float64 {
	return p.PrintHours + p.PrintMinutes/60.0
}

// PowerKW resolves the average power draw from the printer catalog, falling
// back to the custom value for the custom id or unknown printers.
func (p Printed) PowerKW() float64 {
	if printer, ok := LookupPrinter(p.PrinterID); ok {
		return printer.AvgKW
	}
	return p.CustomPowerKW
}

// Pricing is either FixedPrice or TargetMargin.
type Pricing interface {
	isPricing()
}

// FixedPrice prices the item at an explicit sale price.
type FixedPrice struct {
	SalePrice float64
}

// TargetMargin derives the sale price from a desired margin on the sale price.
type TargetMargin struct {
	MarginPercent float64
}

func (FixedPrice) isPricing()   {}
func (TargetMargin) isPricing() {}

// Promo inflates the advertised price so the seller still nets the sale price
// after the marketplace promotion discount.
type Promo struct {
	Enabled         bool
	DiscountPercent float64
}

// Shipping holds package data. Manual, when set, replaces the computed cost.
type Shipping struct {
	WeightKg  float64
	Expedited bool
	Manual    *float64
}

// Costs are the flat and percentage costs shared by every channel.
type Costs struct {
	TaxPercent       float64
	PackagingCost    float64
	OtherCosts       float64
	LaborCostPerHour float64
	LaborMinutes     float64
}

// LaborCost returns the hand-work cost for the configured labor time.
func (c Costs) LaborCost() float64 {
	return c.LaborCostPerHour * (c.LaborMinutes / 60.0)
}

// MarketplaceKind names a sales channel.
type MarketplaceKind string

const (
	KindDirect       MarketplaceKind = "none"
	KindMercadoLivre MarketplaceKind = "mercadolivre"
	KindShopee       MarketplaceKind = "shopee"
)

// Marketplace is one of DirectSale, MercadoLivre or Shopee.
type Marketplace interface {
	Kind() MarketplaceKind
}

// Payment applies to direct sales only.
type Payment struct {
	CardRatePercent    float64
	PixDiscountPercent float64
}

// DirectSale sells without a marketplace: card fees and labor apply.
type DirectSale struct {
	Payment Payment
}

// AdType selects the Mercado Livre listing tier.
type AdType string

const (
	AdClassico AdType = "classico"
	AdPremium  AdType = "premium"
)

// MercadoLivre lists through Mercado Livre.
type MercadoLivre struct {
	AdType   AdType
	Category string
	// CustomRatePercent overrides the category commission when set.
	CustomRatePercent *float64
	// Installments adds the interest-free installment surcharge (premium only).
	Installments bool
}

// SellerType is the Shopee seller registration.
type SellerType string

const (
	SellerCPF  SellerType = "cpf"
	SellerCNPJ SellerType = "cnpj"
)

// CouponKind selects how a self-funded coupon is expressed.
type CouponKind string

const (
	CouponNone    CouponKind = "none"
	CouponPercent CouponKind = "percent"
	CouponFixed   CouponKind = "fixed"
)

// Coupon is a discount funded by the seller.
type Coupon struct {
	Kind  CouponKind
	Value float64
}

// Shopee lists through Shopee.
type Shopee struct {
	SellerType SellerType
	HighVolume bool
	Campaign   bool
	Coupon     Coupon
}

func (DirectSale) Kind() MarketplaceKind   { return KindDirect }
func (MercadoLivre) Kind() MarketplaceKind { return KindMercadoLivre }
func (Shopee) Kind() MarketplaceKind       { return KindShopee }
