package main

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joaolangeloh/3decom/internal/export"
	"github.com/joaolangeloh/3decom/internal/pricing"
)

func TestListCalculationsOrdersByDateDesc(t *testing.T) {
	env := newTestEnv(t)

	seedCalculation(t, env.srv.db, "2026-01-01 10:00:00", "Primeiro", "shopee", 100.50)
	seedCalculation(t, env.srv.db, "2026-01-03 12:00:00", "Terceiro", "mercadolivre", 300.00)
	seedCalculation(t, env.srv.db, "2026-01-02 11:00:00", "Segundo", "none", 200.25)

	items, err := env.srv.listCalculations(context.Background(), "", defaultListLimit)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, []string{"Terceiro", "Segundo", "Primeiro"}, []string{items[0].Name, items[1].Name, items[2].Name})
	assert.Equal(t, []float64{300.00, 200.25, 100.50}, []float64{items[0].SalePrice, items[1].SalePrice, items[2].SalePrice})
	assert.Equal(t, 2026, items[0].CreatedAt.Year())

	limited, err := env.srv.listCalculations(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListCalculationsFilterByNameAndMarketplace(t *testing.T) {
	env := newTestEnv(t)

	seedCalculation(t, env.srv.db, "2026-01-01 10:00:00", "Vaso espiral", "shopee", 80)
	seedCalculation(t, env.srv.db, "2026-01-02 10:00:00", "Chaveiros", "mercadolivre", 120)
	seedCalculation(t, env.srv.db, "2026-01-03 10:00:00", "Suporte headset", "shopee", 160)

	rec := env.do(t, http.MethodGet, "/api/calculations?q=Chave", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	byName := decodeBody[dataEnvelope[[]calculationListItem]](t, rec).Data
	require.Len(t, byName, 1)
	assert.Equal(t, "Chaveiros", byName[0].Name)

	rec = env.do(t, http.MethodGet, "/api/calculations?q=shopee", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[dataEnvelope[[]calculationListItem]](t, rec).Data, 2)

	rec = env.do(t, http.MethodGet, "/api/calculations?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSaveCalculation_CreateUpdateAndSnapshot(t *testing.T) {
	env := newTestEnv(t)

	input := calculationRequest{
		SalePrice:    ptr(49.90),
		ProductType:  productResold,
		SupplierCost: 15,
		Marketplace:  "shopee",
	}
	rec := env.do(t, http.MethodPost, "/api/calculations", saveCalculationRequest{Input: input})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeBody[dataEnvelope[calculationDetail]](t, rec).Data
	_, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cálculo 14/03/2026", created.Name)
	assert.Equal(t, pricing.KindShopee, created.Marketplace)
	assert.InDelta(t, 49.90, created.SalePrice, 0.001)
	assert.True(t, testNow.Equal(created.CreatedAt), "created_at %s", created.CreatedAt)

	// Changing preferences must not alter the stored snapshot.
	prefs := env.srv.prefs
	p, err := prefs.GetOrDefault(context.Background())
	require.NoError(t, err)
	p.TaxPercent = 15
	require.NoError(t, prefs.Save(context.Background(), p))

	rec = env.do(t, http.MethodGet, "/api/calculations/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[dataEnvelope[calculationDetail]](t, rec).Data
	assert.JSONEq(t, string(created.Result), string(got.Result))
	assert.InDelta(t, created.Profit, got.Profit, 0.001)

	rec = env.do(t, http.MethodPost, "/api/calculations", saveCalculationRequest{ID: created.ID, Name: "Vaso", Input: input})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[dataEnvelope[calculationDetail]](t, rec).Data
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Vaso", updated.Name)
	assert.Less(t, updated.Profit, created.Profit, "recalculated with the new tax")

	items, err := env.srv.listCalculations(context.Background(), "", defaultListLimit)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCalculationGetAndDelete_NotFound(t *testing.T) {
	env := newTestEnv(t)
	missing := uuid.NewString()

	rec := env.do(t, http.MethodGet, "/api/calculations/"+missing, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/calculations/"+missing, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/calculations/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalculationDelete(t *testing.T) {
	env := newTestEnv(t)
	id := seedCalculation(t, env.srv.db, "2026-01-01 10:00:00", "Apagar", "none", 10)

	rec := env.do(t, http.MethodDelete, "/api/calculations/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/calculations/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalculationExport(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/calculations", saveCalculationRequest{
		Name: "Luminária",
		Input: calculationRequest{
			SalePrice:     ptr(120.0),
			PrintHours:    6,
			FilamentGrams: 300,
			Marketplace:   "mercadolivre",
			MLAdType:      "premium",
			WeightKg:      0.8,
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decodeBody[dataEnvelope[calculationDetail]](t, rec).Data.ID

	rec = env.do(t, http.MethodGet, "/api/calculations/"+id+"/export.xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), id)

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{export.SummarySheet, export.WaterfallSheet}, f.GetSheetList())
}

func seedCalculation(t *testing.T, db *sql.DB, createdAt, name, marketplace string, salePrice float64) string {
	t.Helper()

	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO calculations (
			id, name, sale_price, profit, margin_percent, marketplace, marketplace_fee,
			input_json, result_json, created_at, updated_at
		) VALUES (?, ?, ?, 0, 0, ?, 0, '{}', '{"sale_price": 0}', ?, ?)
	`, id, name, salePrice, marketplace, createdAt, createdAt)
	require.NoError(t, err, "seed calculation")
	return id
}
