// Package preferences stores the seller's saved defaults. The HTTP layer
// reads them to fill fields a calculation request leaves out.
package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/joaolangeloh/3decom/internal/pricing"
)

// ErrNotFound is returned when the preferences row has not been created yet.
var ErrNotFound = errors.New("preferences not found")

// Preferences are the defaults applied to new calculations.
type Preferences struct {
	FilamentPricePerKg   float64            `json:"filament_price_per_kg" validate:"gte=0"`
	KWhPrice             float64            `json:"kwh_price" validate:"gte=0"`
	PackagingCost        float64            `json:"packaging_cost" validate:"gte=0"`
	TaxPercent           float64            `json:"tax_percent" validate:"gte=0,lte=100"`
	MarginPercent        float64            `json:"margin_percent" validate:"gte=0,lt=100"`
	PromoDiscountPercent float64            `json:"promo_discount_percent" validate:"gte=0,lt=100"`
	CardRatePercent      float64            `json:"card_rate_percent" validate:"gte=0,lte=100"`
	PixDiscountPercent   float64            `json:"pix_discount_percent" validate:"gte=0,lte=100"`
	PrinterID            string             `json:"printer_id" validate:"required"`
	LaborCostPerHour     float64            `json:"labor_cost_per_hour" validate:"gte=0"`
	SellerType           pricing.SellerType `json:"seller_type" validate:"oneof=cpf cnpj"`
}

// Defaults returns the factory defaults.
func Defaults() Preferences {
	return Preferences{
		FilamentPricePerKg:   80,
		KWhPrice:             0.85,
		PackagingCost:        0,
		TaxPercent:           0,
		MarginPercent:        30,
		PromoDiscountPercent: 10,
		CardRatePercent:      0,
		PixDiscountPercent:   5,
		PrinterID:            pricing.DefaultPrinterID,
		LaborCostPerHour:     35,
		SellerType:           pricing.SellerCNPJ,
	}
}

// Store persists the preferences singleton (id = 1).
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Get returns the saved preferences or ErrNotFound.
func (s *Store) Get(ctx context.Context) (Preferences, error) {
	var p Preferences
	err := s.db.QueryRowContext(ctx, `
		SELECT
			filament_price_per_kg,
			kwh_price,
			packaging_cost,
			tax_percent,
			margin_percent,
			promo_discount_percent,
			card_rate_percent,
			pix_discount_percent,
			printer_id,
			labor_cost_per_hour,
			seller_type
		FROM preferences
		WHERE id = 1
	`).Scan(
		&p.FilamentPricePerKg,
		&p.KWhPrice,
		&p.PackagingCost,
		&p.TaxPercent,
		&p.MarginPercent,
		&p.PromoDiscountPercent,
		&p.CardRatePercent,
		&p.PixDiscountPercent,
		&p.PrinterID,
		&p.LaborCostPerHour,
		&p.SellerType,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Preferences{}, ErrNotFound
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("query preferences: %w", err)
	}
	return p, nil
}

// GetOrDefault returns the saved preferences, or the defaults when none exist.
func (s *Store) GetOrDefault(ctx context.Context) (Preferences, error) {
	p, err := s.Get(ctx)
	if errors.Is(err, ErrNotFound) {
		return Defaults(), nil
	}
	return p, err
}

// Save creates or replaces the preferences singleton.
func (s *Store) Save(ctx context.Context, p Preferences) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (
			id,
			filament_price_per_kg,
			kwh_price,
			packaging_cost,
			tax_percent,
			margin_percent,
			promo_discount_percent,
			card_rate_percent,
			pix_discount_percent,
			printer_id,
			labor_cost_per_hour,
			seller_type
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filament_price_per_kg = excluded.filament_price_per_kg,
			kwh_price = excluded.kwh_price,
			packaging_cost = excluded.packaging_cost,
			tax_percent = excluded.tax_percent,
			margin_percent = excluded.margin_percent,
			promo_discount_percent = excluded.promo_discount_percent,
			card_rate_percent = excluded.card_rate_percent,
			pix_discount_percent = excluded.pix_discount_percent,
			printer_id = excluded.printer_id,
			labor_cost_per_hour = excluded.labor_cost_per_hour,
			seller_type = excluded.seller_type,
			updated_at = CURRENT_TIMESTAMP
	`,
		p.FilamentPricePerKg,
		p.KWhPrice,
		p.PackagingCost,
		p.TaxPercent,
		p.MarginPercent,
		p.PromoDiscountPercent,
		p.CardRatePercent,
		p.PixDiscountPercent,
		p.PrinterID,
		p.LaborCostPerHour,
		p.SellerType,
	)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// EnsureDefaults inserts the defaults when no preferences exist. It reports
// whether a row was created.
func EnsureDefaults(ctx context.Context, tx *sql.Tx) (bool, error) {
	d := Defaults()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO preferences (
			id,
			filament_price_per_kg,
			kwh_price,
			packaging_cost,
			tax_percent,
			margin_percent,
			promo_discount_percent,
			card_rate_percent,
			pix_discount_percent,
			printer_id,
			labor_cost_per_hour,
			seller_type
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		d.FilamentPricePerKg,
		d.KWhPrice,
		d.PackagingCost,
		d.TaxPercent,
		d.MarginPercent,
		d.PromoDiscountPercent,
		d.CardRatePercent,
		d.PixDiscountPercent,
		d.PrinterID,
		d.LaborCostPerHour,
		d.SellerType,
	)
	if err != nil {
		return false, fmt.Errorf("insert default preferences: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert default preferences: %w", err)
	}
	return n > 0, nil
}
