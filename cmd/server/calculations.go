package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/joaolangeloh/3decom/internal/export"
	"github.com/joaolangeloh/3decom/internal/pricing"
)

const (
	dbTimeLayout = "2006-01-02 15:04:05"

	defaultListLimit = 100
	maxListLimit     = 500
)

type saveCalculationRequest struct {
	ID    string             `json:"id" validate:"omitempty,uuid"`
	Name  string             `json:"name" validate:"max=120"`
	Input calculationRequest `json:"input"`
}

type calculationListItem struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	SalePrice      float64                 `json:"sale_price"`
	Profit         float64                 `json:"profit"`
	MarginPercent  float64                 `json:"margin_percent"`
	Marketplace    pricing.MarketplaceKind `json:"marketplace"`
	MarketplaceFee float64                 `json:"marketplace_fee"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

type calculationDetail struct {
	calculationListItem
	Input  json.RawMessage `json:"input"`
	Result json.RawMessage `json:"result"`
}

func (s *server) handleCalculationsList(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_query", "limite inválido", nil)
			return
		}
		limit = min(n, maxListLimit)
	}

	items, err := s.listCalculations(r.Context(), strings.TrimSpace(r.URL.Query().Get("q")), limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("list calculations")
		writeError(w, http.StatusInternalServerError, "internal", "falha ao listar cálculos", nil)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (s *server) listCalculations(ctx context.Context, query string, limit int) ([]calculationListItem, error) {
	search := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id,
			name,
			sale_price,
			profit,
			margin_percent,
			marketplace,
			marketplace_fee,
			created_at,
			updated_at
		FROM calculations
		WHERE (? = '' OR name LIKE ? OR marketplace LIKE ?)
		ORDER BY datetime(created_at) DESC, id DESC
		LIMIT ?
	`, query, search, search, limit)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	items := make([]calculationListItem, 0)
	for rows.Next() {
		var item calculationListItem
		var createdAt, updatedAt string
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.SalePrice,
			&item.Profit,
			&item.MarginPercent,
			&item.Marketplace,
			&item.MarketplaceFee,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		item.CreatedAt = parseDBTime(createdAt)
		item.UpdatedAt = parseDBTime(updatedAt)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calculations: %w", err)
	}
	return items, nil
}

func (s *server) handleCalculationsSave(w http.ResponseWriter, r *http.Request) {
	var req saveCalculationRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	in, ok := s.resolveInput(w, r, req.Input)
	if !ok {
		return
	}
	res := pricing.Calculate(in)

	status := http.StatusOK
	if req.ID == "" {
		req.ID = uuid.NewString()
		status = http.StatusCreated
	}
	now := s.now()
	if strings.TrimSpace(req.Name) == "" {
		req.Name = "Cálculo " + now.Format("02/01/2006")
	}

	inputJSON, err := json.Marshal(req.Input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "falha ao salvar cálculo", nil)
		return
	}
	resultJSON, err := json.Marshal(res)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "falha ao salvar cálculo", nil)
		return
	}

	stamp := now.UTC().Format(dbTimeLayout)
	_, err = s.db.ExecContext(r.Context(), `
		INSERT INTO calculations (
			id,
			name,
			sale_price,
			profit,
			margin_percent,
			marketplace,
			marketplace_fee,
			input_json,
			result_json,
			created_at,
			updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			sale_price = excluded.sale_price,
			profit = excluded.profit,
			margin_percent = excluded.margin_percent,
			marketplace = excluded.marketplace,
			marketplace_fee = excluded.marketplace_fee,
			input_json = excluded.input_json,
			result_json = excluded.result_json,
			updated_at = excluded.updated_at
	`,
		req.ID,
		req.Name,
		res.SalePrice,
		res.Profit,
		res.MarginPercent,
		string(res.Marketplace),
		res.MarketplaceTotalFee,
		string(inputJSON),
		string(resultJSON),
		stamp,
		stamp,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("calculation_id", req.ID).Msg("save calculation")
		writeError(w, http.StatusInternalServerError, "internal", "falha ao salvar cálculo", nil)
		return
	}

	detail, err := s.getCalculation(r.Context(), req.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("calculation_id", req.ID).Msg("reload calculation")
		writeError(w, http.StatusInternalServerError, "internal", "falha ao salvar cálculo", nil)
		return
	}
	writeData(w, status, detail)
}

func (s *server) handleCalculationGet(w http.ResponseWriter, r *http.Request) {
	detail, ok := s.loadCalculation(w, r)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, detail)
}

func (s *server) handleCalculationDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := calculationIDParam(w, r)
	if !ok {
		return
	}

	res, err := s.db.ExecContext(r.Context(), `DELETE FROM calculations WHERE id = ?`, id)
	if err != nil {
		s.logger.Error().Err(err).Str("calculation_id", id).Msg("delete calculation")
		writeError(w, http.StatusInternalServerError, "internal", "falha ao excluir cálculo", nil)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		writeError(w, http.StatusNotFound, "not_found", "cálculo não encontrado", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleCalculationExport(w http.ResponseWriter, r *http.Request) {
	detail, ok := s.loadCalculation(w, r)
	if !ok {
		return
	}

	var res pricing.Result
	if err := json.Unmarshal(detail.Result, &res); err != nil {
		s.logger.Error().Err(err).Str("calculation_id", detail.ID).Msg("decode stored result")
		writeError(w, http.StatusInternalServerError, "internal", "falha ao exportar cálculo", nil)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, export.Calculation{Name: detail.Name, CreatedAt: detail.CreatedAt, Result: res}); err != nil {
		s.logger.Error().Err(err).Str("calculation_id", detail.ID).Msg("export calculation")
		writeError(w, http.StatusInternalServerError, "internal", "falha ao exportar cálculo", nil)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="calculo-%s.xlsx"`, detail.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *server) loadCalculation(w http.ResponseWriter, r *http.Request) (calculationDetail, bool) {
	id, ok := calculationIDParam(w, r)
	if !ok {
		return calculationDetail{}, false
	}

	detail, err := s.getCalculation(r.Context(), id)
	if errors.Is(err, errNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "cálculo não encontrado", nil)
		return calculationDetail{}, false
	}
	if err != nil {
		s.logger.Error().Err(err).Str("calculation_id", id).Msg("load calculation")
		writeError(w, http.StatusInternalServerError, "internal", "falha ao carregar cálculo", nil)
		return calculationDetail{}, false
	}
	return detail, true
}

// getCalculation returns the stored snapshot as saved; it is never
// recalculated against current tables.
func (s *server) getCalculation(ctx context.Context, id string) (calculationDetail, error) {
	var d calculationDetail
	var createdAt, updatedAt, inputJSON, resultJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT
			id,
			name,
			sale_price,
			profit,
			margin_percent,
			marketplace,
			marketplace_fee,
			input_json,
			result_json,
			created_at,
			updated_at
		FROM calculations
		WHERE id = ?
	`, id).Scan(
		&d.ID,
		&d.Name,
		&d.SalePrice,
		&d.Profit,
		&d.MarginPercent,
		&d.Marketplace,
		&d.MarketplaceFee,
		&inputJSON,
		&resultJSON,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return calculationDetail{}, errNotFound
	}
	if err != nil {
		return calculationDetail{}, fmt.Errorf("query calculation: %w", err)
	}

	d.Input = json.RawMessage(inputJSON)
	d.Result = json.RawMessage(resultJSON)
	d.CreatedAt = parseDBTime(createdAt)
	d.UpdatedAt = parseDBTime(updatedAt)
	return d, nil
}

func calculationIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id inválido", nil)
		return "", false
	}
	return id, true
}

// parseDBTime accepts both the layout we write and the RFC 3339 form the
// driver produces for DATETIME columns.
func parseDBTime(raw string) time.Time {
	for _, layout := range []string{dbTimeLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
