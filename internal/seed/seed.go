package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexedwards/argon2id"

	"github.com/joaolangeloh/3decom/internal/preferences"
)

type defaultMaterial struct {
	name       string
	kind       string
	pricePerKg float64
}

var defaultMaterials = []defaultMaterial{
	{name: "PLA Genérico", kind: "PLA", pricePerKg: 80},
	{name: "PETG Genérico", kind: "PETG", pricePerKg: 90},
	{name: "TPU 95A", kind: "TPU", pricePerKg: 140},
}

const (
	defaultMachineName  = "Bambu Lab A1 Mini"
	defaultMachineWatts = 80
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	steps := []func(context.Context, *sql.Tx, *Stats) error{
		func(ctx context.Context, tx *sql.Tx, stats *Stats) error {
			return seedAdmin(ctx, tx, cfg.AdminEmail, cfg.AdminPassword, stats)
		},
		ensurePreferences,
		ensureMaterials,
		ensureMachine,
	}
	for _, step := range steps {
		if err := step(ctx, tx, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(ctx context.Context, tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, hash); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensurePreferences(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	created, err := preferences.EnsureDefaults(ctx, tx)
	if err != nil {
		return err
	}
	if created {
		stats.Inserts++
	}
	return nil
}

func ensureMaterials(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	for _, m := range defaultMaterials {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM materials WHERE name = ? LIMIT 1)`, m.name).Scan(&exists); err != nil {
			return fmt.Errorf("check default material existence: %w", err)
		}
		if exists {
			continue
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO materials (name, type, price_per_kg, active)
			VALUES (?, ?, ?, TRUE)
		`, m.name, m.kind, m.pricePerKg); err != nil {
			return fmt.Errorf("insert default material: %w", err)
		}
		stats.Inserts++
	}
	return nil
}

func ensureMachine(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM machines WHERE name = ? LIMIT 1)`, defaultMachineName).Scan(&exists); err != nil {
		return fmt.Errorf("check default machine existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO machines (name, power_watts, hourly_cost, active)
		VALUES (?, ?, ?, TRUE)
	`, defaultMachineName, defaultMachineWatts, 0); err != nil {
		return fmt.Errorf("insert default machine: %w", err)
	}
	stats.Inserts++
	return nil
}
