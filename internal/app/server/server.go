package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"talentgrid/internal/domain/audit"
	"talentgrid/internal/domain/auth"
	"talentgrid/internal/domain/calibration"
	"talentgrid/internal/domain/reports"
	"talentgrid/internal/platform/config"
	"talentgrid/internal/platform/db"
	"talentgrid/internal/platform/jobs"
	"talentgrid/internal/platform/metrics"
	adminhandler "talentgrid/internal/transport/http/handlers/admin"
	authhandler "talentgrid/internal/transport/http/handlers/auth"
	calibrationhandler "talentgrid/internal/transport/http/handlers/calibration"
	reportshandler "talentgrid/internal/transport/http/handlers/reports"
	"talentgrid/internal/transport/http/middleware"
)

// scoreAverager is the default bonus-factor collaborator: the mean
// effective score across the reconciled list.
type scoreAverager struct{}

func (scoreAverager) BonusFactor(employees []calibration.EffectiveEmployee) float64 {
	if len(employees) == 0 {
		return 0
	}
	var sum float64
	for _, e := range employees {
		sum += e.EffectiveScore
	}
	return sum / float64(len(employees))
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	calibrationStore := calibration.NewStore(pool)
	calibrationService := calibration.NewService(calibrationStore, calibration.DefaultThresholds(), calibration.DefaultRulesConfig(), scoreAverager{})
	auditService := audit.New(pool)
	reportsService := reports.NewService(reports.NewStore(pool), calibrationService, cfg.ReportDir)

	jobService := jobs.New(pool, cfg, calibrationService)
	jobService.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(auth.NewStore(pool), cfg.JWTSecret)
		r.Post("/auth/login", authHandler.HandleLogin)

		calibrationhandler.NewHandler(calibrationService, auditService, collector).RegisterRoutes(r)
		reportshandler.NewHandler(reportsService).RegisterRoutes(r)
		adminhandler.NewHandler(auditService, collector).RegisterRoutes(r)
	})

	log.Printf("talentgrid server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
