package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type material struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name" validate:"required,max=80"`
	Type       string  `json:"type" validate:"required,max=40"`
	PricePerKg float64 `json:"price_per_kg" validate:"gte=0"`
	Active     bool    `json:"active"`
}

type machine struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name" validate:"required,max=80"`
	PowerWatts float64 `json:"power_watts" validate:"gt=0"`
	HourlyCost float64 `json:"hourly_cost" validate:"gte=0"`
	Active     bool    `json:"active"`
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// writeCatalogError maps store errors for the catalog handlers.
func (s *server) writeCatalogError(w http.ResponseWriter, err error, what string) {
	switch {
	case errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, "not_found", what+" não encontrado", nil)
	case isUniqueViolation(err):
		writeError(w, http.StatusConflict, "duplicate_name", "já existe um cadastro com esse nome", nil)
	default:
		s.logger.Error().Err(err).Str("entity", what).Msg("catalog operation failed")
		writeError(w, http.StatusInternalServerError, "internal", "erro interno", nil)
	}
}

func (s *server) handleMaterialsList(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.QueryContext(r.Context(), `
		SELECT id, name, type, price_per_kg, active
		FROM materials
		ORDER BY name
	`)
	if err != nil {
		s.writeCatalogError(w, err, "material")
		return
	}
	defer rows.Close()

	items := make([]material, 0)
	for rows.Next() {
		var m material
		if err := rows.Scan(&m.ID, &m.Name, &m.Type, &m.PricePerKg, &m.Active); err != nil {
			s.writeCatalogError(w, err, "material")
			return
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		s.writeCatalogError(w, err, "material")
		return
	}
	writeData(w, http.StatusOK, items)
}

func (s *server) handleMaterialsCreate(w http.ResponseWriter, r *http.Request) {
	var m material
	if !s.decodeJSON(w, r, &m) {
		return
	}

	res, err := s.db.ExecContext(r.Context(), `
		INSERT INTO materials (name, type, price_per_kg, active)
		VALUES (?, ?, ?, ?)
	`, strings.TrimSpace(m.Name), m.Type, m.PricePerKg, m.Active)
	if err != nil {
		s.writeCatalogError(w, err, "material")
		return
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		s.writeCatalogError(w, err, "material")
		return
	}
	m.Name = strings.TrimSpace(m.Name)
	writeData(w, http.StatusCreated, m)
}

func (s *server) handleMaterialsUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error(), nil)
		return
	}
	var m material
	if !s.decodeJSON(w, r, &m) {
		return
	}

	res, err := s.db.ExecContext(r.Context(), `
		UPDATE materials
		SET name = ?, type = ?, price_per_kg = ?, active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, strings.TrimSpace(m.Name), m.Type, m.PricePerKg, m.Active, id)
	if err == nil {
		err = requireAffected(res)
	}
	if err != nil {
		s.writeCatalogError(w, err, "material")
		return
	}
	m.ID = id
	m.Name = strings.TrimSpace(m.Name)
	writeData(w, http.StatusOK, m)
}

func (s *server) handleMaterialsDelete(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, `DELETE FROM materials WHERE id = ?`, "material")
}

func (s *server) getMaterial(ctx context.Context, id int64) (material, error) {
	var m material
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, type, price_per_kg, active
		FROM materials
		WHERE id = ?
	`, id).Scan(&m.ID, &m.Name, &m.Type, &m.PricePerKg, &m.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return material{}, errNotFound
	}
	if err != nil {
		return material{}, fmt.Errorf("query material: %w", err)
	}
	return m, nil
}

func (s *server) handleMachinesList(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.QueryContext(r.Context(), `
		SELECT id, name, power_watts, hourly_cost, active
		FROM machines
		ORDER BY name
	`)
	if err != nil {
		s.writeCatalogError(w, err, "máquina")
		return
	}
	defer rows.Close()

	items := make([]machine, 0)
	for rows.Next() {
		var m machine
		if err := rows.Scan(&m.ID, &m.Name, &m.PowerWatts, &m.HourlyCost, &m.Active); err != nil {
			s.writeCatalogError(w, err, "máquina")
			return
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		s.writeCatalogError(w, err, "máquina")
		return
	}
	writeData(w, http.StatusOK, items)
}

func (s *server) handleMachinesCreate(w http.ResponseWriter, r *http.Request) {
	var m machine
	if !s.decodeJSON(w, r, &m) {
		return
	}

	res, err := s.db.ExecContext(r.Context(), `
		INSERT INTO machines (name, power_watts, hourly_cost, active)
		VALUES (?, ?, ?, ?)
	`, strings.TrimSpace(m.Name), m.PowerWatts, m.HourlyCost, m.Active)
	if err != nil {
		s.writeCatalogError(w, err, "máquina")
		return
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		s.writeCatalogError(w, err, "máquina")
		return
	}
	m.Name = strings.TrimSpace(m.Name)
	writeData(w, http.StatusCreated, m)
}

func (s *server) handleMachinesUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error(), nil)
		return
	}
	var m machine
	if !s.decodeJSON(w, r, &m) {
		return
	}

	res, err := s.db.ExecContext(r.Context(), `
		UPDATE machines
		SET name = ?, power_watts = ?, hourly_cost = ?, active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, strings.TrimSpace(m.Name), m.PowerWatts, m.HourlyCost, m.Active, id)
	if err == nil {
		err = requireAffected(res)
	}
	if err != nil {
		s.writeCatalogError(w, err, "máquina")
		return
	}
	m.ID = id
	m.Name = strings.TrimSpace(m.Name)
	writeData(w, http.StatusOK, m)
}

func (s *server) handleMachinesDelete(w http.ResponseWriter, r *http.Request) {
	s.deleteByID(w, r, `DELETE FROM machines WHERE id = ?`, "máquina")
}

func (s *server) getMachine(ctx context.Context, id int64) (machine, error) {
	var m machine
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, power_watts, hourly_cost, active
		FROM machines
		WHERE id = ?
	`, id).Scan(&m.ID, &m.Name, &m.PowerWatts, &m.HourlyCost, &m.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return machine{}, errNotFound
	}
	if err != nil {
		return machine{}, fmt.Errorf("query machine: %w", err)
	}
	return m, nil
}

func (s *server) deleteByID(w http.ResponseWriter, r *http.Request, query, what string) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", err.Error(), nil)
		return
	}

	res, err := s.db.ExecContext(r.Context(), query, id)
	if err == nil {
		err = requireAffected(res)
	}
	if err != nil {
		s.writeCatalogError(w, err, what)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errNotFound
	}
	return nil
}
