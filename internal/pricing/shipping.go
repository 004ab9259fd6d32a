package pricing

import (
	"fmt"
	"strings"
)

// ShippingKind classifies a shipping quote.
type ShippingKind string

const (
	ShippingNone      ShippingKind = "none"
	ShippingStandard  ShippingKind = "standard"
	ShippingExpedited ShippingKind = "expedited"
	ShippingCapped    ShippingKind = "capped"
	ShippingManual    ShippingKind = "manual"
	ShippingBundled   ShippingKind = "bundled"
)

// ShippingQuote is the seller-paid shipping cost of one unit.
type ShippingQuote struct {
	Cost        float64      `json:"cost"`
	Kind        ShippingKind `json:"kind"`
	Description string       `json:"description"`
}

// ResolveShipping prices Mercado Livre shipping for a package. A manual value
// replaces the table lookup entirely.
func ResolveShipping(weightKg, salePrice float64, expedited bool, manual *float64) ShippingQuote {
	term, quote := shippingTerm(weightKg, salePrice, expedited, manual)
	quote.Cost = term.at(salePrice)
	return quote
}

func shippingTerm(weightKg, salePrice float64, expedited bool, manual *float64) (linear, ShippingQuote) {
	if manual != nil {
		return flat(*manual), ShippingQuote{Kind: ShippingManual, Description: "Frete manual"}
	}
	if weightKg <= 0 || salePrice <= 0 {
		return linear{}, ShippingQuote{Kind: ShippingNone, Description: "Sem peso ou preço"}
	}

	row := shippingTable[ResolveWeightBand(weightKg)]

	if salePrice < ShippingLowThreshold {
		base := row.Costs[0]
		limit := shippingCapRatio * salePrice
		if limit < base {
			return linear{rate: shippingCapRatio}, ShippingQuote{
				Kind:        ShippingCapped,
				Description: fmt.Sprintf("Frete limitado a 50%% do preço (R$%s → R$%s)", formatBRL(base), formatBRL(limit)),
			}
		}
		return flat(base), ShippingQuote{Kind: ShippingStandard, Description: "Frete padrão"}
	}

	if salePrice < ShippingUpperThreshold {
		if expedited {
			return flat(row.Expedited), ShippingQuote{Kind: ShippingExpedited, Description: "Frete grátis rápido (opcional)"}
		}
		return flat(row.Costs[ResolvePriceBand(salePrice)]), ShippingQuote{Kind: ShippingStandard, Description: "Frete grátis padrão"}
	}

	return flat(row.Costs[ResolvePriceBand(salePrice)]), ShippingQuote{Kind: ShippingExpedited, Description: "Frete grátis rápido (automático)"}
}

// channelShipping decides who pays shipping on each channel: Mercado Livre
// uses the table, Shopee bundles it, a direct sale only pays a manual value.
func channelShipping(in Input, salePrice float64) (linear, ShippingQuote) {
	switch in.Marketplace.(type) {
	case MercadoLivre:
		return shippingTerm(in.Shipping.WeightKg, salePrice, in.Shipping.Expedited, in.Shipping.Manual)
	case Shopee:
		return linear{}, ShippingQuote{Kind: ShippingBundled, Description: "Frete incluso pela Shopee"}
	default:
		if in.Shipping.Manual != nil {
			return flat(*in.Shipping.Manual), ShippingQuote{Kind: ShippingManual, Description: "Frete manual"}
		}
		return linear{}, ShippingQuote{Kind: ShippingNone}
	}
}

func formatBRL(v float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", v), ".", ",", 1)
}
