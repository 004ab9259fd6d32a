package main

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaolangeloh/3decom/internal/obs"
	"github.com/joaolangeloh/3decom/internal/pricing"
)

func TestCalculate_TargetMarginOnShopee(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/calculate", calculationRequest{
		Mode:             modeMargin,
		MarginPercent:    ptr(30.0),
		ProductType:      productResold,
		SupplierCost:     20,
		Marketplace:      "shopee",
		ShopeeSellerType: "cnpj",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody[calculateResponse](t, rec)
	assert.False(t, body.Infeasible)
	assert.InDelta(t, 48, body.Data.SalePrice, 0.006)
	assert.InDelta(t, 30, body.Data.MarginPercent, 0.006)
	assert.Equal(t, pricing.KindShopee, body.Data.Marketplace)
	require.NotEmpty(t, body.Data.Waterfall)
	assert.Equal(t, pricing.LineProfit, body.Data.Waterfall[len(body.Data.Waterfall)-1].Key)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.srv.metrics.CalculationsTotal.WithLabelValues(obs.ModeMargin)))
}

func TestCalculate_FixedPriceUsesPreferenceDefaults(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/preferences", map[string]any{
		"filament_price_per_kg":  100,
		"kwh_price":              1,
		"packaging_cost":         2.5,
		"tax_percent":            0,
		"margin_percent":         30,
		"promo_discount_percent": 10,
		"card_rate_percent":      0,
		"pix_discount_percent":   0,
		"printer_id":             "h2d",
		"labor_cost_per_hour":    0,
		"seller_type":            "cnpj",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/calculate", calculationRequest{
		SalePrice:     ptr(50.0),
		PrintHours:    2,
		FilamentGrams: 100,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decodeBody[calculateResponse](t, rec).Data
	assert.Equal(t, pricing.KindDirect, res.Marketplace)
	assert.InDelta(t, 0.40, res.EnergyCost, 0.006, "h2d 0.20 kW for 2h at R$1")
	assert.InDelta(t, 10, res.FilamentCost, 0.006)
	assert.InDelta(t, 2.5, res.PackagingCost, 0.006)
	assert.InDelta(t, 37.10, res.Profit, 0.006)
}

func TestCalculate_MachineAndMaterialReferences(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/machines", machine{Name: "Voron 2.4", PowerWatts: 500, HourlyCost: 2.4, Active: true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	m := decodeBody[dataEnvelope[machine]](t, rec).Data

	rec = env.do(t, http.MethodPost, "/api/materials", material{Name: "ASA Preto", Type: "ASA", PricePerKg: 150, Active: true})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	mat := decodeBody[dataEnvelope[material]](t, rec).Data

	rec = env.do(t, http.MethodPost, "/api/calculate", calculationRequest{
		SalePrice:     ptr(100.0),
		MachineID:     ptr(m.ID),
		MaterialID:    ptr(mat.ID),
		PrintHours:    1,
		KWhPrice:      ptr(1.0),
		FilamentGrams: 200,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decodeBody[calculateResponse](t, rec).Data
	assert.InDelta(t, 0.50, res.EnergyCost, 0.006)
	assert.InDelta(t, 30, res.FilamentCost, 0.006)
	assert.InDelta(t, 2.4, res.MachineCost, 0.006)

	rec = env.do(t, http.MethodPost, "/api/calculate", calculationRequest{
		SalePrice:         ptr(100.0),
		PrintHours:        1,
		PrintMinutes:      30,
		MachineHourlyCost: 2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.InDelta(t, 3, decodeBody[calculateResponse](t, rec).Data.MachineCost, 0.006)

	rec = env.do(t, http.MethodPost, "/api/calculate", calculationRequest{SalePrice: ptr(100.0), MaterialID: ptr(int64(9999))})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_reference", decodeBody[errorEnvelope](t, rec).Error.Code)
}

func TestCalculate_InfeasibleMargin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/calculate", calculationRequest{
		Mode:                modeMargin,
		MarginPercent:       ptr(95.0),
		ProductType:         productResold,
		SupplierCost:        10,
		Marketplace:         "mercadolivre",
		MLCustomRatePercent: ptr(17.0),
		TaxPercent:          ptr(10.0),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody[calculateResponse](t, rec)
	assert.True(t, body.Infeasible)
	assert.Zero(t, body.Data.SalePrice)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.srv.metrics.InfeasibleTotal.WithLabelValues(obs.ModeMargin)))
}

func TestCalculate_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/calculate", `{"marketplace":"amazon","weight_kg":-1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[errorEnvelope](t, rec)
	assert.Equal(t, "validation_failed", body.Error.Code)
	assert.Equal(t, "oneof=none mercadolivre shopee", body.Error.Details["marketplace"])
	assert.Equal(t, "gte=0", body.Error.Details["weight_kg"])

	rec = env.do(t, http.MethodPost, "/api/calculate", `{"sale_price": 10, "bogus": true}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_json", decodeBody[errorEnvelope](t, rec).Error.Code)
}

func TestSolveCostToPrice(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/solve/cost-to-price", costToPriceRequest{
		Cost:          90,
		MarginPercent: 25,
		Input: calculationRequest{
			Marketplace: "mercadolivre",
			MLAdType:    "classico",
			WeightKg:    0.5,
			TaxPercent:  ptr(6.0),
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody[costToPriceResponse](t, rec)
	require.True(t, body.Converged)
	assert.Greater(t, body.Price, 90.0)
	assert.Equal(t, body.Price, body.Data.SalePrice)
	assert.InDelta(t, 90, body.Data.SupplierCost, 0.006)
	assert.InDelta(t, 25, body.Data.MarginPercent, 0.05)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.srv.metrics.CalculationsTotal.WithLabelValues(obs.ModeCostToPrice)))
}

func TestSolveCostCeiling(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/solve/cost-ceiling", costCeilingRequest{
		TargetPrice:   100,
		MarginPercent: 20,
		Input:         calculationRequest{Marketplace: "mercadolivre", MLAdType: "classico", WeightKg: 0.5},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody[pricing.CostCeiling](t, rec)
	assert.True(t, body.Feasible)
	assert.InDelta(t, 52.05, body.MaxCost, 0.006)
	require.NotEmpty(t, body.Breakdown)
	assert.Equal(t, "desired_profit", body.Breakdown[len(body.Breakdown)-1].Key)

	rec = env.do(t, http.MethodPost, "/api/solve/cost-ceiling", `{"target_price":0,"margin_percent":20}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTables(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/tables/shopee", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	shopee := decodeBody[dataEnvelope[struct {
		Tiers []struct {
			MaxPrice *float64 `json:"max_price"`
		} `json:"tiers"`
		CommissionCap float64 `json:"commission_cap"`
	}]](t, rec).Data
	require.NotEmpty(t, shopee.Tiers)
	assert.Nil(t, shopee.Tiers[len(shopee.Tiers)-1].MaxPrice)
	assert.Equal(t, pricing.ShopeeCommissionCap, shopee.CommissionCap)

	rec = env.do(t, http.MethodGet, "/api/tables/printers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	printers := decodeBody[dataEnvelope[[]pricing.Printer]](t, rec).Data
	assert.Len(t, printers, len(pricing.Printers()))

	for _, path := range []string{"/api/tables/mercadolivre", "/api/tables/shipping", "/api/tables/card-rates"} {
		rec = env.do(t, http.MethodGet, path, nil)
		assert.Equalf(t, http.StatusOK, rec.Code, "GET %s", path)
	}
}
