package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveFees_MercadoLivre(t *testing.T) {
	fees := ResolveFees(100, MercadoLivre{AdType: AdClassico, Category: "casa_moveis"})
	nearlyEqual(t, "commission", fees.Commission, 12.5)
	nearlyEqual(t, "fixed", fees.FixedFee, 0)
	nearlyEqual(t, "total", fees.TotalFee, 12.5)

	fees = ResolveFees(10, MercadoLivre{AdType: AdClassico, Category: "games"})
	nearlyEqual(t, "commission below threshold", fees.Commission, 1.1)
	nearlyEqual(t, "fixed below threshold", fees.FixedFee, MLFixedFee)

	fees = ResolveFees(100, MercadoLivre{AdType: AdPremium, Category: "festas", Installments: true})
	nearlyEqual(t, "premium percent", fees.CommissionPercent, 17)
	nearlyEqual(t, "installments", fees.Surcharges, 2.99)
	nearlyEqual(t, "premium total", fees.TotalFee, 19.99)

	fees = ResolveFees(100, MercadoLivre{AdType: AdClassico, Installments: true})
	nearlyEqual(t, "classico ignores installments", fees.Surcharges, 0)
}

func TestResolveFees_MercadoLivreCustomRateAndUnknownCategory(t *testing.T) {
	custom := 15.0
	fees := ResolveFees(200, MercadoLivre{AdType: AdPremium, Category: "games", CustomRatePercent: &custom})
	nearlyEqual(t, "custom", fees.Commission, 30)

	fees = ResolveFees(100, MercadoLivre{AdType: AdPremium, Category: "nope"})
	nearlyEqual(t, "default category", fees.CommissionPercent, 17.5)
}

func TestResolveFees_ShopeeTiers(t *testing.T) {
	cases := []struct {
		price      float64
		commission float64
		fixed      float64
	}{
		{price: 5, commission: 1, fixed: 2.5},
		{price: 10, commission: 2, fixed: 4},
		{price: 79.99, commission: 15.998, fixed: 4},
		{price: 80, commission: 11.2, fixed: 16},
		{price: 150, commission: 21, fixed: 20},
		{price: 300, commission: 42, fixed: 26},
	}
	for _, c := range cases {
		fees := ResolveFees(c.price, Shopee{SellerType: SellerCNPJ})
		nearlyEqual(t, "commission", fees.Commission, c.commission)
		nearlyEqual(t, "fixed", fees.FixedFee, c.fixed)
	}
}

func TestResolveFees_ShopeeSurchargesAndCap(t *testing.T) {
	fees := ResolveFees(90, Shopee{SellerType: SellerCPF, HighVolume: true, Campaign: true})
	nearlyEqual(t, "campaign percent", fees.CommissionPercent, 16.5)
	nearlyEqual(t, "cpf surcharge", fees.Surcharges, ShopeeCPFSurcharge)

	fees = ResolveFees(90, Shopee{SellerType: SellerCPF})
	nearlyEqual(t, "low-volume cpf", fees.Surcharges, 0)

	for _, price := range []float64{600, 714.28, 1000, 25000} {
		fees = ResolveFees(price, Shopee{SellerType: SellerCNPJ, Campaign: true})
		assert.LessOrEqual(t, fees.Commission, ShopeeCommissionCap)
	}
	nearlyEqual(t, "capped", ResolveFees(1000, Shopee{}).Commission, ShopeeCommissionCap)
}

func TestResolveFees_DirectSaleAndZeroPrice(t *testing.T) {
	assert.Equal(t, FeeBreakdown{}, ResolveFees(100, DirectSale{}))
	assert.Equal(t, FeeBreakdown{}, ResolveFees(100, nil))
	assert.Equal(t, FeeBreakdown{}, ResolveFees(0, Shopee{}))
}
