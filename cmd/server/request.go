package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/joaolangeloh/3decom/internal/preferences"
	"github.com/joaolangeloh/3decom/internal/pricing"
)

var errNotFound = errors.New("not found")

const (
	modeMargin    = "margin"
	productResold = "resold"
)

// calculationRequest is the flat form the client sends. Nil pointers and
// empty strings are filled from the saved preferences.
type calculationRequest struct {
	Mode          string   `json:"mode" validate:"omitempty,oneof=price margin"`
	SalePrice     *float64 `json:"sale_price" validate:"omitempty,gte=0"`
	MarginPercent *float64 `json:"margin_percent" validate:"omitempty,gte=0,lt=100"`

	ProductType        string   `json:"product_type" validate:"omitempty,oneof=printed resold"`
	PrinterID          string   `json:"printer_id" validate:"omitempty,max=32"`
	MachineID          *int64   `json:"machine_id" validate:"omitempty,gt=0"`
	CustomPowerKW      float64  `json:"custom_power_kw" validate:"gte=0"`
	MachineHourlyCost  float64  `json:"machine_hourly_cost" validate:"gte=0"`
	PrintHours         float64  `json:"print_hours" validate:"gte=0"`
	PrintMinutes       float64  `json:"print_minutes" validate:"gte=0"`
	KWhPrice           *float64 `json:"kwh_price" validate:"omitempty,gte=0"`
	MaterialID         *int64   `json:"material_id" validate:"omitempty,gt=0"`
	FilamentPricePerKg *float64 `json:"filament_price_per_kg" validate:"omitempty,gte=0"`
	FilamentGrams      float64  `json:"filament_grams" validate:"gte=0"`
	SupplierCost       float64  `json:"supplier_cost" validate:"gte=0"`

	PromoEnabled         bool     `json:"promo_enabled"`
	PromoDiscountPercent *float64 `json:"promo_discount_percent" validate:"omitempty,gte=0,lt=100"`

	Marketplace        string   `json:"marketplace" validate:"omitempty,oneof=none mercadolivre shopee"`
	CardRatePercent    *float64 `json:"card_rate_percent" validate:"omitempty,gte=0,lte=100"`
	PixDiscountPercent *float64 `json:"pix_discount_percent" validate:"omitempty,gte=0,lte=100"`

	MLAdType            string   `json:"ml_ad_type" validate:"omitempty,oneof=classico premium"`
	MLCategory          string   `json:"ml_category" validate:"omitempty,max=32"`
	MLCustomRatePercent *float64 `json:"ml_custom_rate_percent" validate:"omitempty,gte=0,lte=100"`
	MLInstallments      bool     `json:"ml_installments"`

	ShopeeSellerType string  `json:"shopee_seller_type" validate:"omitempty,oneof=cpf cnpj"`
	ShopeeHighVolume bool    `json:"shopee_high_volume"`
	ShopeeCampaign   bool    `json:"shopee_campaign"`
	CouponType       string  `json:"coupon_type" validate:"omitempty,oneof=none percent fixed"`
	CouponValue      float64 `json:"coupon_value" validate:"gte=0"`

	WeightKg       float64  `json:"weight_kg" validate:"gte=0"`
	Expedited      bool     `json:"expedited"`
	ManualShipping *float64 `json:"manual_shipping" validate:"omitempty,gte=0"`

	TaxPercent       *float64 `json:"tax_percent" validate:"omitempty,gte=0,lte=100"`
	PackagingCost    *float64 `json:"packaging_cost" validate:"omitempty,gte=0"`
	OtherCosts       float64  `json:"other_costs" validate:"gte=0"`
	LaborCostPerHour *float64 `json:"labor_cost_per_hour" validate:"omitempty,gte=0"`
	LaborMinutes     float64  `json:"labor_minutes" validate:"gte=0"`
}

func orDefault(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func (req calculationRequest) marginMode() bool {
	if req.Mode != "" {
		return req.Mode == modeMargin
	}
	return req.SalePrice == nil
}

// buildInput resolves a request into an engine input. Referenced materials
// and machines that do not exist yield errNotFound.
func (s *server) buildInput(ctx context.Context, req calculationRequest) (pricing.Input, error) {
	prefs, err := s.prefs.GetOrDefault(ctx)
	if err != nil {
		return pricing.Input{}, err
	}

	in := pricing.Input{
		Promo: pricing.Promo{
			Enabled:         req.PromoEnabled,
			DiscountPercent: orDefault(req.PromoDiscountPercent, prefs.PromoDiscountPercent),
		},
		Shipping: pricing.Shipping{
			WeightKg:  req.WeightKg,
			Expedited: req.Expedited,
			Manual:    req.ManualShipping,
		},
		Costs: pricing.Costs{
			TaxPercent:       orDefault(req.TaxPercent, prefs.TaxPercent),
			PackagingCost:    orDefault(req.PackagingCost, prefs.PackagingCost),
			OtherCosts:       req.OtherCosts,
			LaborCostPerHour: orDefault(req.LaborCostPerHour, prefs.LaborCostPerHour),
			LaborMinutes:     req.LaborMinutes,
		},
		Marketplace: marketplaceFromRequest(req, prefs),
	}

	if req.marginMode() {
		in.Pricing = pricing.TargetMargin{MarginPercent: orDefault(req.MarginPercent, prefs.MarginPercent)}
	} else {
		in.Pricing = pricing.FixedPrice{SalePrice: orDefault(req.SalePrice, 0)}
	}

	in.Product, err = s.productFromRequest(ctx, req, prefs)
	if err != nil {
		return pricing.Input{}, err
	}
	return in, nil
}

func (s *server) productFromRequest(ctx context.Context, req calculationRequest, prefs preferences.Preferences) (pricing.Product, error) {
	if req.ProductType == productResold {
		return pricing.Resold{SupplierCost: req.SupplierCost}, nil
	}

	p := pricing.Printed{
		PrinterID:          req.PrinterID,
		CustomPowerKW:      req.CustomPowerKW,
		PrintHours:         req.PrintHours,
		PrintMinutes:       req.PrintMinutes,
		KWhPrice:           orDefault(req.KWhPrice, prefs.KWhPrice),
		FilamentPricePerKg: orDefault(req.FilamentPricePerKg, prefs.FilamentPricePerKg),
		FilamentGrams:      req.FilamentGrams,
		MachineHourlyCost:  req.MachineHourlyCost,
	}
	if p.PrinterID == "" {
		p.PrinterID = prefs.PrinterID
	}

	if req.MachineID != nil {
		m, err := s.getMachine(ctx, *req.MachineID)
		if err != nil {
			return nil, fmt.Errorf("machine %d: %w", *req.MachineID, err)
		}
		p.PrinterID = pricing.CustomPrinterID
		p.CustomPowerKW = m.PowerWatts / 1000.0
		p.MachineHourlyCost = m.HourlyCost
	}
	if req.MaterialID != nil {
		m, err := s.getMaterial(ctx, *req.MaterialID)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", *req.MaterialID, err)
		}
		p.FilamentPricePerKg = m.PricePerKg
	}
	return p, nil
}

func marketplaceFromRequest(req calculationRequest, prefs preferences.Preferences) pricing.Marketplace {
	switch pricing.MarketplaceKind(req.Marketplace) {
	case pricing.KindMercadoLivre:
		adType := pricing.AdType(req.MLAdType)
		if adType == "" {
			adType = pricing.AdClassico
		}
		return pricing.MercadoLivre{
			AdType:            adType,
			Category:          req.MLCategory,
			CustomRatePercent: req.MLCustomRatePercent,
			Installments:      req.MLInstallments,
		}
	case pricing.KindShopee:
		seller := pricing.SellerType(req.ShopeeSellerType)
		if seller == "" {
			seller = prefs.SellerType
		}
		coupon := pricing.CouponKind(req.CouponType)
		if coupon == "" {
			coupon = pricing.CouponNone
		}
		return pricing.Shopee{
			SellerType: seller,
			HighVolume: req.ShopeeHighVolume,
			Campaign:   req.ShopeeCampaign,
			Coupon:     pricing.Coupon{Kind: coupon, Value: req.CouponValue},
		}
	default:
		return pricing.DirectSale{Payment: pricing.Payment{
			CardRatePercent:    orDefault(req.CardRatePercent, prefs.CardRatePercent),
			PixDiscountPercent: orDefault(req.PixDiscountPercent, prefs.PixDiscountPercent),
		}}
	}
}
