package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveShipping_NoWeightOrPrice(t *testing.T) {
	q := ResolveShipping(0, 50, false, nil)
	assert.Equal(t, ShippingNone, q.Kind)
	assert.Zero(t, q.Cost)
	assert.Equal(t, "Sem peso ou preço", q.Description)

	assert.Zero(t, ResolveShipping(1, 0, false, nil).Cost)
}

func TestResolveShipping_LowPrice(t *testing.T) {
	q := ResolveShipping(5, 15, false, nil)
	assert.Equal(t, ShippingStandard, q.Kind)
	nearlyEqual(t, "uncapped", q.Cost, 6.55)

	q = ResolveShipping(5, 10, false, nil)
	assert.Equal(t, ShippingCapped, q.Kind)
	nearlyEqual(t, "capped", q.Cost, 5)
	assert.Contains(t, q.Description, "R$6,55")
}

func TestResolveShipping_CapHoldsBelowLowThreshold(t *testing.T) {
	for _, row := range ShippingTable() {
		kg := row.MaxKg
		if kg < 0 {
			kg = 400
		}
		for price := 0.5; price < ShippingLowThreshold; price += 0.37 {
			q := ResolveShipping(kg, price, true, nil)
			require.LessOrEqual(t, q.Cost, 0.5*price+1e-9)
		}
	}
}

func TestResolveShipping_MidBand(t *testing.T) {
	q := ResolveShipping(1, 60, false, nil)
	assert.Equal(t, ShippingStandard, q.Kind)
	nearlyEqual(t, "standard", q.Cost, 7.95)

	q = ResolveShipping(1, 60, true, nil)
	assert.Equal(t, ShippingExpedited, q.Kind)
	nearlyEqual(t, "expedited", q.Cost, 13.85)

	nearlyEqual(t, "band 1", ResolveShipping(1, 30, false, nil).Cost, 6.75)
}

func TestResolveShipping_UpperBand(t *testing.T) {
	q := ResolveShipping(1, 150, false, nil)
	assert.Equal(t, ShippingExpedited, q.Kind)
	assert.Contains(t, q.Description, "automático")
	nearlyEqual(t, "150", q.Cost, 20.75)

	nearlyEqual(t, "79", ResolveShipping(1, 79, false, nil).Cost, 13.85)
	nearlyEqual(t, "open band", ResolveShipping(1, 999, false, nil).Cost, 23.65)
}

func TestResolveShipping_ManualOverride(t *testing.T) {
	manual := 9.9
	q := ResolveShipping(3, 120, true, &manual)
	assert.Equal(t, ShippingManual, q.Kind)
	nearlyEqual(t, "manual", q.Cost, 9.9)
}

func TestResolveWeightBand(t *testing.T) {
	assert.Equal(t, 0, ResolveWeightBand(0.3))
	assert.Equal(t, 1, ResolveWeightBand(0.31))
	assert.Equal(t, 2, ResolveWeightBand(1))
	assert.Equal(t, len(ShippingTable())-1, ResolveWeightBand(200))
}

func TestResolvePriceBand(t *testing.T) {
	assert.Equal(t, 0, ResolvePriceBand(18.99))
	assert.Equal(t, 1, ResolvePriceBand(19))
	assert.Equal(t, 2, ResolvePriceBand(78.99))
	assert.Equal(t, 3, ResolvePriceBand(79))
	assert.Equal(t, PriceBands-1, ResolvePriceBand(200))
}
