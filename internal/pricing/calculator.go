package pricing

const (
	productiveHoursPerDay = 20.0
	daysPerMonth          = 30.0
)

// terms holds every deduction of a scenario resolved at one sale price.
// Price-dependent lines stay linear so the solvers can reuse them.
type terms struct {
	fees     feeTerms
	shipping linear
	quote    ShippingQuote
	coupon   linear
	tax      linear
	card     linear

	energy    float64
	filament  float64
	machine   float64
	supplier  float64
	packaging float64
	labor     float64
	other     float64

	printHours float64
}

func resolveTerms(in Input, salePrice float64) terms {
	if in.Marketplace == nil {
		in.Marketplace = DirectSale{}
	}
	t := terms{
		fees:      marketplaceTerms(salePrice, in.Marketplace),
		coupon:    couponTerm(in.Marketplace),
		tax:       ratePercent(in.Costs.TaxPercent),
		packaging: in.Costs.PackagingCost,
		other:     in.Costs.OtherCosts,
	}
	t.shipping, t.quote = channelShipping(in, salePrice)

	if direct, ok := in.Marketplace.(DirectSale); ok {
		t.card = ratePercent(direct.Payment.CardRatePercent)
		t.labor = in.Costs.LaborCost()
	}

	switch p := in.Product.(type) {
	case Printed:
		t.printHours = p.Hours()
		t.energy = p.PowerKW() * t.printHours * p.KWhPrice
		t.filament = p.FilamentPricePerKg / 1000.0 * p.FilamentGrams
		t.machine = p.MachineHourlyCost * t.printHours
	case Resold:
		t.supplier = p.SupplierCost
	}
	return t
}

// baseCosts are the deductions that do not depend on the sale price.
func (t terms) baseCosts() float64 {
	return t.energy + t.filament + t.machine + t.supplier + t.packaging + t.labor + t.other
}

// proportionalRate is the share of the price taken by percentage deductions,
// leaving out fixed fees and shipping.
func (t terms) proportionalRate() float64 {
	return t.fees.commission.rate + t.fees.surcharges.rate + t.coupon.rate + t.tax.rate + t.card.rate
}

// model folds every deduction into one local linear function of price.
func (t terms) model() linear {
	return t.fees.total().
		plus(t.shipping).
		plus(t.coupon).
		plus(t.tax).
		plus(t.card).
		plus(flat(t.baseCosts()))
}

// Calculate resolves the sale price, solving for it in margin mode, and
// returns the full breakdown.
func Calculate(in Input) Result {
	var salePrice float64
	switch p := in.Pricing.(type) {
	case FixedPrice:
		salePrice = p.SalePrice
	case TargetMargin:
		salePrice = SolveMarginPrice(in, p.MarginPercent)
	}
	return Evaluate(in, salePrice)
}

// Evaluate is the forward calculation at a known sale price. A non-positive
// price yields the zero Result.
func Evaluate(in Input, salePrice float64) Result {
	if salePrice <= 0 {
		return Result{Marketplace: marketplaceKind(in.Marketplace), Waterfall: []WaterfallLine{}}
	}

	t := resolveTerms(in, salePrice)

	commission := t.fees.commission.at(salePrice)
	fixedFee := t.fees.fixedFee.at(salePrice)
	surcharges := t.fees.surcharges.at(salePrice)
	exactProfit := salePrice - t.model().at(salePrice)

	// Items are rounded one by one; totals and profit come from the rounded items.
	res := Result{
		SalePrice:       round2(salePrice),
		AdvertisedPrice: round2(advertisedPrice(salePrice, in.Promo)),
		PixPrice:        round2(pixPrice(salePrice, in.Marketplace)),

		Marketplace:                  marketplaceKind(in.Marketplace),
		MarketplaceCommissionPercent: t.fees.commissionPercent,
		MarketplaceCommission:        round2(commission),
		MarketplaceFixedFee:          round2(fixedFee),
		MarketplaceSurcharges:        round2(surcharges),
		MarketplaceTotalFee:          round2(commission + fixedFee + surcharges),

		ShippingCost:        round2(t.shipping.at(salePrice)),
		ShippingKind:        t.quote.Kind,
		ShippingDescription: t.quote.Description,

		CouponCost:    round2(t.coupon.at(salePrice)),
		TaxCost:       round2(t.tax.at(salePrice)),
		CardFee:       round2(t.card.at(salePrice)),
		EnergyCost:    round2(t.energy),
		FilamentCost:  round2(t.filament),
		MachineCost:   round2(t.machine),
		SupplierCost:  round2(t.supplier),
		PackagingCost: round2(t.packaging),
		LaborCost:     round2(t.labor),
		OtherCosts:    round2(t.other),
	}

	w := newWaterfall(res.SalePrice)
	w.add(LineMarketplaceFee, marketplaceLabel(in.Marketplace), res.MarketplaceTotalFee)
	w.add(LineShipping, "Frete", res.ShippingCost)
	w.add(LineCoupon, "Cupom próprio", res.CouponCost)
	w.add(LineTax, "Impostos", res.TaxCost)
	w.add(LineCardFee, "Taxa do cartão", res.CardFee)
	w.add(LineEnergy, "Energia", res.EnergyCost)
	w.add(LineFilament, "Filamento", res.FilamentCost)
	w.add(LineMachine, "Máquina", res.MachineCost)
	w.add(LineSupplier, "Custo do fornecedor", res.SupplierCost)
	w.add(LinePackaging, "Embalagem", res.PackagingCost)
	w.add(LineLabor, "Mão de obra", res.LaborCost)
	w.add(LineOther, "Outros custos", res.OtherCosts)

	res.TotalCosts = round2(w.deducted)
	res.Profit = round2(res.SalePrice - res.TotalCosts)
	res.Waterfall = w.finish(res.Profit)

	// Ratios are taken on the unrounded profit.
	var profitPerHour float64
	if t.printHours > 0 {
		profitPerHour = exactProfit / t.printHours
	}
	daily := profitPerHour * productiveHoursPerDay
	res.MarginPercent = round2(exactProfit / salePrice * 100)
	res.ProfitPerHour = round2(profitPerHour)
	res.DailyProfit = round2(daily)
	res.MonthlyProfit = round2(daily * daysPerMonth)

	return res
}

// waterfall takes amounts already rounded to the cent.
type waterfall struct {
	salePrice float64
	deducted  float64
	lines     []WaterfallLine
}

func newWaterfall(salePrice float64) *waterfall {
	return &waterfall{salePrice: salePrice, lines: []WaterfallLine{}}
}

func (w *waterfall) add(key, label string, amount float64) {
	if amount == 0 {
		return
	}
	w.deducted += amount
	w.lines = append(w.lines, WaterfallLine{
		Key:                key,
		Label:              label,
		Amount:             amount,
		PercentOfSalePrice: round2(amount / w.salePrice * 100),
		RunningRemainder:   round2(w.salePrice - w.deducted),
	})
}

// finish appends the profit line. Its remainder is the profit itself.
func (w *waterfall) finish(profit float64) []WaterfallLine {
	return append(w.lines, WaterfallLine{
		Key:                LineProfit,
		Label:              "Lucro",
		Amount:             profit,
		PercentOfSalePrice: round2(profit / w.salePrice * 100),
		RunningRemainder:   profit,
	})
}

func advertisedPrice(salePrice float64, promo Promo) float64 {
	if !promo.Enabled || promo.DiscountPercent <= 0 || promo.DiscountPercent >= 100 {
		return salePrice
	}
	return salePrice / (1 - promo.DiscountPercent/100.0)
}

func pixPrice(salePrice float64, m Marketplace) float64 {
	direct, ok := m.(DirectSale)
	if !ok {
		return salePrice
	}
	return salePrice - pct(salePrice, direct.Payment.PixDiscountPercent)
}

func marketplaceKind(m Marketplace) MarketplaceKind {
	if m == nil {
		return KindDirect
	}
	return m.Kind()
}

func marketplaceLabel(m Marketplace) string {
	switch marketplaceKind(m) {
	case KindMercadoLivre:
		return "Taxa Mercado Livre"
	case KindShopee:
		return "Taxa Shopee"
	default:
		return "Taxas"
	}
}
