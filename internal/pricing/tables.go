package pricing

import (
	"encoding/json"
	"math"
	"sort"
)

// MLCategory holds Mercado Livre commission rates for both ad tiers.
type MLCategory struct {
	Key             string  `json:"key"`
	Label           string  `json:"label"`
	ClassicoPercent float64 `json:"classico_percent"`
	PremiumPercent  float64 `json:"premium_percent"`
}

// Mercado Livre rates (2026). Premium is always classico + 5 pp.
var mlCategories = map[string]MLCategory{
	"casa_moveis": {Key: "casa_moveis", Label: "Casa, Móveis e Decoração", ClassicoPercent: 12.5, PremiumPercent: 17.5},
	"utilidades":  {Key: "utilidades", Label: "Utilidades Domésticas", ClassicoPercent: 12.5, PremiumPercent: 17.5},
	"brinquedos":  {Key: "brinquedos", Label: "Brinquedos e Hobbies", ClassicoPercent: 12.5, PremiumPercent: 17.5},
	"festas":      {Key: "festas", Label: "Festas e Lembrancinhas", ClassicoPercent: 12, PremiumPercent: 17},
	"ferramentas": {Key: "ferramentas", Label: "Ferramentas e Construção", ClassicoPercent: 12, PremiumPercent: 17},
	"veiculos":    {Key: "veiculos", Label: "Acessórios para Veículos", ClassicoPercent: 11.5, PremiumPercent: 16.5},
	"eletronicos": {Key: "eletronicos", Label: "Eletrônicos", ClassicoPercent: 11.5, PremiumPercent: 16.5},
	"games":       {Key: "games", Label: "Games", ClassicoPercent: 11, PremiumPercent: 16},
}

const (
	// MLDefaultCategory is used when a listing names no known category.
	MLDefaultCategory = "casa_moveis"

	// MLFixedFee is charged per unit below MLFixedFeeThreshold.
	MLFixedFee          = 0.49
	MLFixedFeeThreshold = 12.5

	// MLInstallmentSurchargePercent is the premium interest-free installment fee.
	MLInstallmentSurchargePercent = 2.99
)

// ShopeeTier is one commission band. MaxPrice is exclusive.
type ShopeeTier struct {
	MaxPrice          float64 `json:"max_price"`
	CommissionPercent float64 `json:"commission_percent"`
	FixedFee          float64 `json:"fixed_fee"`
}

// MarshalJSON renders the open-ended last tier with a null max_price.
func (t ShopeeTier) MarshalJSON() ([]byte, error) {
	view := struct {
		MaxPrice          *float64 `json:"max_price"`
		CommissionPercent float64  `json:"commission_percent"`
		FixedFee          float64  `json:"fixed_fee"`
	}{CommissionPercent: t.CommissionPercent, FixedFee: t.FixedFee}
	if !math.IsInf(t.MaxPrice, 1) {
		maxPrice := t.MaxPrice
		view.MaxPrice = &maxPrice
	}
	return json.Marshal(view)
}

// Shopee commission tiers (March 2026).
var shopeeTiers = []ShopeeTier{
	{MaxPrice: 80, CommissionPercent: 20, FixedFee: 4},
	{MaxPrice: 100, CommissionPercent: 14, FixedFee: 16},
	{MaxPrice: 200, CommissionPercent: 14, FixedFee: 20},
	{MaxPrice: 500, CommissionPercent: 14, FixedFee: 26},
	{MaxPrice: math.Inf(1), CommissionPercent: 14, FixedFee: 26},
}

const (
	// ShopeeCommissionCap is the maximum commission charged per item.
	ShopeeCommissionCap = 100.0
	// ShopeeCPFSurcharge is charged per item to high-volume CPF sellers.
	ShopeeCPFSurcharge = 3.0
	// ShopeeCampaignSurchargePercent is added to the commission during campaigns.
	ShopeeCampaignSurchargePercent = 2.5

	shopeeHalfPriceBelow    = 8.0
	shopeeMinHalfPriceBelow = 12.0
)

// CardRate is a card-machine rate preset for direct sales.
type CardRate struct {
	Label   string  `json:"label"`
	Percent float64 `json:"percent"`
}

var cardRates = []CardRate{
	{Label: "Débito", Percent: 1.99},
	{Label: "Crédito", Percent: 2.99},
	{Label: "2x", Percent: 4.49},
	{Label: "3x", Percent: 5.49},
	{Label: "4x", Percent: 6.49},
	{Label: "6x", Percent: 7.99},
	{Label: "12x", Percent: 11.99},
}

// MLCategories returns the Mercado Livre categories sorted by key. The slice
// is a copy.
func MLCategories() []MLCategory {
	out := make([]MLCategory, 0, len(mlCategories))
	for _, c := range mlCategories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// LookupMLCategory returns the category for key, or the default category.
func LookupMLCategory(key string) MLCategory {
	if c, ok := mlCategories[key]; ok {
		return c
	}
	return mlCategories[MLDefaultCategory]
}

// ShopeeTiers returns a copy of the Shopee tier table.
func ShopeeTiers() []ShopeeTier {
	out := make([]ShopeeTier, len(shopeeTiers))
	copy(out, shopeeTiers)
	return out
}

// ResolveTier returns the first Shopee tier whose upper bound exceeds price.
func ResolveTier(salePrice float64) ShopeeTier {
	for _, tier := range shopeeTiers {
		if salePrice < tier.MaxPrice {
			return tier
		}
	}
	return shopeeTiers[len(shopeeTiers)-1]
}

// CardRates returns a copy of the card-rate presets.
func CardRates() []CardRate {
	out := make([]CardRate, len(cardRates))
	copy(out, cardRates)
	return out
}
