package pricing

// linear is a deduction expressed around the price it was resolved at:
// rate*price + fixed. Every fee rule is linear inside its tier or band, so
// resolving at a price gives the exact local model.
type linear struct {
	rate  float64
	fixed float64
}

func (l linear) at(price float64) float64 {
	return l.rate*price + l.fixed
}

func (l linear) plus(o linear) linear {
	return linear{rate: l.rate + o.rate, fixed: l.fixed + o.fixed}
}

func ratePercent(percent float64) linear {
	return linear{rate: percent / 100.0}
}

func flat(amount float64) linear {
	return linear{fixed: amount}
}

// FeeBreakdown is the marketplace charge on one sale.
type FeeBreakdown struct {
	CommissionPercent float64
	Commission        float64
	FixedFee          float64
	Surcharges        float64
	TotalFee          float64
}

type feeTerms struct {
	commissionPercent float64
	commission        linear
	fixedFee          linear
	surcharges        linear
}

func (f feeTerms) total() linear {
	return f.commission.plus(f.fixedFee).plus(f.surcharges)
}

// ResolveFees computes the marketplace commission and fees at salePrice.
// A direct sale, or a non-positive price, yields no fees.
func ResolveFees(salePrice float64, m Marketplace) FeeBreakdown {
	if salePrice <= 0 {
		return FeeBreakdown{}
	}
	terms := marketplaceTerms(salePrice, m)
	fees := FeeBreakdown{
		CommissionPercent: terms.commissionPercent,
		Commission:        terms.commission.at(salePrice),
		FixedFee:          terms.fixedFee.at(salePrice),
		Surcharges:        terms.surcharges.at(salePrice),
	}
	fees.TotalFee = fees.Commission + fees.FixedFee + fees.Surcharges
	return fees
}

func marketplaceTerms(salePrice float64, m Marketplace) feeTerms {
	if salePrice <= 0 {
		return feeTerms{}
	}
	switch mp := m.(type) {
	case MercadoLivre:
		return mercadoLivreTerms(salePrice, mp)
	case Shopee:
		return shopeeTerms(salePrice, mp)
	default:
		return feeTerms{}
	}
}

// MercadoLivreCommissionPercent returns the commission rate of a listing.
func MercadoLivreCommissionPercent(ml MercadoLivre) float64 {
	if ml.CustomRatePercent != nil {
		return *ml.CustomRatePercent
	}
	category := LookupMLCategory(ml.Category)
	if ml.AdType == AdPremium {
		return category.PremiumPercent
	}
	return category.ClassicoPercent
}

func mercadoLivreTerms(salePrice float64, ml MercadoLivre) feeTerms {
	percent := MercadoLivreCommissionPercent(ml)
	terms := feeTerms{
		commissionPercent: percent,
		commission:        ratePercent(percent),
	}
	if salePrice < MLFixedFeeThreshold {
		terms.fixedFee = flat(MLFixedFee)
	}
	if ml.AdType == AdPremium && ml.Installments {
		terms.surcharges = ratePercent(MLInstallmentSurchargePercent)
	}
	return terms
}

// ShopeeCommissionPercent returns the commission rate at salePrice, including
// the campaign surcharge.
func ShopeeCommissionPercent(salePrice float64, sp Shopee) float64 {
	percent := ResolveTier(salePrice).CommissionPercent
	if sp.Campaign {
		percent += ShopeeCampaignSurchargePercent
	}
	return percent
}

func shopeeTerms(salePrice float64, sp Shopee) feeTerms {
	tier := ResolveTier(salePrice)
	percent := ShopeeCommissionPercent(salePrice, sp)

	terms := feeTerms{commissionPercent: percent}
	if pct(salePrice, percent) > ShopeeCommissionCap {
		terms.commission = flat(ShopeeCommissionCap)
	} else {
		terms.commission = ratePercent(percent)
	}

	half := linear{rate: 0.5}
	switch {
	case salePrice < shopeeHalfPriceBelow:
		terms.fixedFee = half
	case salePrice < shopeeMinHalfPriceBelow && half.at(salePrice) < tier.FixedFee:
		terms.fixedFee = half
	default:
		terms.fixedFee = flat(tier.FixedFee)
	}

	if sp.SellerType == SellerCPF && sp.HighVolume {
		terms.surcharges = flat(ShopeeCPFSurcharge)
	}
	return terms
}

// couponTerm is the self-funded coupon cost; only Shopee listings carry one.
func couponTerm(m Marketplace) linear {
	sp, ok := m.(Shopee)
	if !ok {
		return linear{}
	}
	switch sp.Coupon.Kind {
	case CouponPercent:
		return ratePercent(sp.Coupon.Value)
	case CouponFixed:
		return flat(sp.Coupon.Value)
	default:
		return linear{}
	}
}
