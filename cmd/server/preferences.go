package main

import (
	"net/http"

	"github.com/joaolangeloh/3decom/internal/preferences"
	"github.com/joaolangeloh/3decom/internal/pricing"
)

func (s *server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.prefs.GetOrDefault(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("load preferences")
		writeError(w, http.StatusInternalServerError, "internal", "falha ao carregar preferências", nil)
		return
	}
	writeData(w, http.StatusOK, prefs)
}

func (s *server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs preferences.Preferences
	if !s.decodeJSON(w, r, &prefs) {
		return
	}
	if prefs.PrinterID != pricing.CustomPrinterID {
		if _, ok := pricing.LookupPrinter(prefs.PrinterID); !ok {
			writeError(w, http.StatusBadRequest, "validation_failed", "dados inválidos", map[string]string{"printer_id": "unknown"})
			return
		}
	}

	if err := s.prefs.Save(r.Context(), prefs); err != nil {
		s.logger.Error().Err(err).Msg("save preferences")
		writeError(w, http.StatusInternalServerError, "internal", "falha ao salvar preferências", nil)
		return
	}
	writeData(w, http.StatusOK, prefs)
}
