package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/amit001112/HospitalBilling/internal/config"
	"github.com/amit001112/HospitalBilling/internal/domain/billing"
	"github.com/amit001112/HospitalBilling/internal/domain/catalog"
	"github.com/amit001112/HospitalBilling/internal/domain/dashboard"
	"github.com/amit001112/HospitalBilling/internal/domain/patient"
	"github.com/amit001112/HospitalBilling/internal/domain/report"
	"github.com/amit001112/HospitalBilling/internal/platform/db"
	"github.com/amit001112/HospitalBilling/internal/platform/metrics"
	"github.com/amit001112/HospitalBilling/internal/platform/middleware"
	"github.com/amit001112/HospitalBilling/internal/platform/validate"
)

const version = "1.0.0"

// services holds the wired domain services.
type services struct {
	patients  *patient.Service
	catalog   *catalog.Service
	billing   *billing.Service
	dashboard *dashboard.Service
}

func newServices(pool *pgxpool.Pool, cfg *config.Config, v *validate.Validator, m *metrics.Collector, logger zerolog.Logger) *services {
	txm := db.NewTxManager(pool)
	patients := patient.NewService(patient.NewRepoPG(pool), v, logger).WithRecorder(m)
	bills := billing.NewService(
		billing.NewRepoPG(pool),
		patients,
		txm,
		v,
		billing.Options{VerifyTotals: cfg.BillingVerifyTotals, MaxRetries: cfg.BillNumberMaxRetries},
		logger,
	).WithRecorder(m)
	if cfg.PatientDeleteCascade {
		patients.WithCascadeDelete(txm, bills)
	}

	return &services{
		patients:  patients,
		catalog:   catalog.NewService(catalog.NewRepoPG(pool), v),
		billing:   bills,
		dashboard: dashboard.NewService(patients, bills),
	}
}

// skipLimits exempts probes and scrapes from rate limiting.
func skipLimits(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || p == "/health" || strings.HasPrefix(p, "/health/")
}

func newEcho(cfg *config.Config, logger zerolog.Logger, v *validate.Validator, m *metrics.Collector, pinger db.Pinger, svc *services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = v
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.Metrics(m))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, middleware.RequestIDHeader},
	}))
	e.Use(echomw.BodyLimit("1M"))
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
		Skipper:           skipLimits,
	}))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(pinger, logger))
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	api := e.Group("/api")
	patient.NewHandler(svc.patients).RegisterRoutes(api)
	catalog.NewHandler(svc.catalog).RegisterRoutes(api)
	billing.NewHandler(svc.billing).RegisterRoutes(api)
	dashboard.NewHandler(svc.dashboard).RegisterRoutes(api)
	report.NewHandler().RegisterRoutes(api)

	return e
}

func registerPoolMetrics(m *metrics.Collector, pool *pgxpool.Pool) {
	m.RegisterGaugeFunc("db", "pool_total_conns", "Open database connections.", func() float64 {
		return float64(pool.Stat().TotalConns())
	})
	m.RegisterGaugeFunc("db", "pool_acquired_conns", "Database connections in use.", func() float64 {
		return float64(pool.Stat().AcquiredConns())
	})
	m.RegisterGaugeFunc("db", "pool_idle_conns", "Idle database connections.", func() float64 {
		return float64(pool.Stat().IdleConns())
	})
}

func runServer(cfg *config.Config, logger zerolog.Logger) error {
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	m := metrics.NewCollector("clinicdesk")
	registerPoolMetrics(m, pool)
	v := validate.New()
	e := newEcho(cfg, logger, v, m, pool, newServices(pool, cfg, v, m, logger))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return err
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
