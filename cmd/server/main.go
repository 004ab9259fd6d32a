package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/joaolangeloh/3decom/internal/config"
	"github.com/joaolangeloh/3decom/internal/db"
	"github.com/joaolangeloh/3decom/internal/migrations"
	"github.com/joaolangeloh/3decom/internal/obs"
	"github.com/joaolangeloh/3decom/internal/preferences"
	"github.com/joaolangeloh/3decom/internal/seed"
)

type server struct {
	auth     *authService
	db       *sql.DB
	prefs    *preferences.Store
	validate *validator.Validate
	metrics  *obs.Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

func newServer(database *sql.DB, sessionSecret string, metrics *obs.Metrics, logger zerolog.Logger) *server {
	return &server{
		auth:     newAuthService(database, sessionSecret),
		db:       database,
		prefs:    preferences.NewStore(database),
		validate: newValidator(),
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func main() {
	cfg, err := config.Load()
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database); err != nil {
			logger.Fatal().Err(err).Msg("failed to run database migrations")
		}
		stats, err := seed.Run(ctx, database, seed.Config{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to seed database")
		}
		logger.Info().Int("inserts", stats.Inserts).Msg("seed completed")
	}

	metrics := obs.NewMetrics(cfg.MetricsNamespace)
	srv := newServer(database, cfg.SessionSecret, metrics, logger)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	logger.Info().Str("addr", httpServer.Addr).Str("env", cfg.AppEnv).Msg("listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(obs.RequestLogger(s.logger))
	r.Use(s.metrics.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", s.handleLive)
	r.Handle("/metrics", s.metrics.Handler())
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Route("/tables", func(r chi.Router) {
			r.Get("/mercadolivre", s.handleTableMercadoLivre)
			r.Get("/shopee", s.handleTableShopee)
			r.Get("/shipping", s.handleTableShipping)
			r.Get("/printers", s.handleTablePrinters)
			r.Get("/card-rates", s.handleTableCardRates)
		})

		r.Post("/calculate", s.handleCalculate)
		r.Post("/solve/cost-to-price", s.handleSolveCostToPrice)
		r.Post("/solve/cost-ceiling", s.handleSolveCostCeiling)

		r.Get("/preferences", s.handleGetPreferences)
		r.Put("/preferences", s.handlePutPreferences)

		r.Get("/calculations", s.handleCalculationsList)
		r.Post("/calculations", s.handleCalculationsSave)
		r.Get("/calculations/{id}", s.handleCalculationGet)
		r.Delete("/calculations/{id}", s.handleCalculationDelete)
		r.Get("/calculations/{id}/export.xlsx", s.handleCalculationExport)

		r.Get("/materials", s.handleMaterialsList)
		r.Post("/materials", s.handleMaterialsCreate)
		r.Put("/materials/{id}", s.handleMaterialsUpdate)
		r.Delete("/materials/{id}", s.handleMaterialsDelete)

		r.Get("/machines", s.handleMachinesList)
		r.Post("/machines", s.handleMachinesCreate)
		r.Put("/machines/{id}", s.handleMachinesUpdate)
		r.Delete("/machines/{id}", s.handleMachinesDelete)
	})

	return r
}

func (s *server) handleLive(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "banco de dados indisponível", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
