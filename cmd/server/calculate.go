package main

import (
	"errors"
	"net/http"

	"github.com/joaolangeloh/3decom/internal/obs"
	"github.com/joaolangeloh/3decom/internal/pricing"
)

type calculateResponse struct {
	Data       pricing.Result `json:"data"`
	Infeasible bool           `json:"infeasible"`
}

type costToPriceRequest struct {
	Cost          float64            `json:"cost" validate:"gte=0"`
	MarginPercent float64            `json:"margin_percent" validate:"gte=0,lt=100"`
	Input         calculationRequest `json:"input"`
}

type costToPriceResponse struct {
	Price      float64        `json:"price"`
	Converged  bool           `json:"converged"`
	Iterations int            `json:"iterations"`
	Data       pricing.Result `json:"data"`
}

type costCeilingRequest struct {
	TargetPrice   float64            `json:"target_price" validate:"gt=0"`
	MarginPercent float64            `json:"margin_percent" validate:"gte=0,lt=100"`
	Input         calculationRequest `json:"input"`
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculationRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	in, ok := s.resolveInput(w, r, req)
	if !ok {
		return
	}

	res := pricing.Calculate(in)
	target, marginMode := in.Pricing.(pricing.TargetMargin)
	infeasible := marginMode && res.SalePrice == 0

	mode := obs.ModePrice
	if marginMode {
		mode = obs.ModeMargin
	}
	s.metrics.ObserveCalculation(mode, infeasible)
	if infeasible {
		s.logger.Debug().Float64("margin_percent", target.MarginPercent).Str("marketplace", string(res.Marketplace)).Msg("margin not reachable")
	}

	writeJSON(w, http.StatusOK, calculateResponse{Data: res, Infeasible: infeasible})
}

func (s *server) handleSolveCostToPrice(w http.ResponseWriter, r *http.Request) {
	var req costToPriceRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	in, ok := s.resolveInput(w, r, req.Input)
	if !ok {
		return
	}

	sol := pricing.CostToPrice(req.Cost, req.MarginPercent, in)
	s.metrics.ObserveSolverIterations(sol.Iterations)
	s.metrics.ObserveCalculation(obs.ModeCostToPrice, !sol.Converged || sol.Price == 0)

	in.Product = pricing.Resold{SupplierCost: req.Cost}
	writeJSON(w, http.StatusOK, costToPriceResponse{
		Price:      sol.Price,
		Converged:  sol.Converged,
		Iterations: sol.Iterations,
		Data:       pricing.Evaluate(in, sol.Price),
	})
}

func (s *server) handleSolveCostCeiling(w http.ResponseWriter, r *http.Request) {
	var req costCeilingRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	in, ok := s.resolveInput(w, r, req.Input)
	if !ok {
		return
	}

	ceiling := pricing.SolveCostCeiling(req.TargetPrice, req.MarginPercent, in)
	s.metrics.ObserveCalculation(obs.ModeCostCeiling, !ceiling.Feasible)
	writeJSON(w, http.StatusOK, ceiling)
}

// resolveInput builds the engine input and writes the error response itself
// when it cannot.
func (s *server) resolveInput(w http.ResponseWriter, r *http.Request, req calculationRequest) (pricing.Input, bool) {
	in, err := s.buildInput(r.Context(), req)
	if errors.Is(err, errNotFound) {
		writeError(w, http.StatusBadRequest, "unknown_reference", "material ou máquina não encontrado", err.Error())
		return pricing.Input{}, false
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("build calculation input")
		writeError(w, http.StatusInternalServerError, "internal", "falha ao preparar o cálculo", nil)
		return pricing.Input{}, false
	}
	return in, true
}
