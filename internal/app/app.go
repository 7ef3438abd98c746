package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/courtsight/draft-assistant/external/espn"
	"github.com/courtsight/draft-assistant/internal/config"
	"github.com/courtsight/draft-assistant/internal/infrastructure/repository/memory"
	"github.com/courtsight/draft-assistant/internal/interfaces/httpapi"
	"github.com/courtsight/draft-assistant/internal/platform/cache"
	"github.com/courtsight/draft-assistant/internal/platform/logging"
	"github.com/courtsight/draft-assistant/internal/platform/resilience"
	"github.com/courtsight/draft-assistant/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *slog.Logger, zapLogger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if zapLogger == nil {
		zapLogger = logging.Default()
	}

	missingStats, err := espn.ParseMissingStatsPolicy(cfg.ESPNMissingStatsPolicy)
	if err != nil {
		return nil, fmt.Errorf("configure stats client: %w", err)
	}

	statsClient := espn.NewClient(espn.ClientConfig{
		CoreBaseURL:    cfg.ESPNCoreBaseURL,
		SiteBaseURL:    cfg.ESPNSiteBaseURL,
		FantasyBaseURL: cfg.ESPNFantasyBaseURL,
		Timeout:        cfg.ESPNTimeout,
		RefTimeout:     cfg.ESPNRefTimeout,
		MaxRetries:     cfg.ESPNMaxRetries,
		PageLimit:      cfg.ESPNPageLimit,
		ResolveWorkers: cfg.ESPNResolveWorkers,
		MissingStats:   missingStats,
		Logger:         zapLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ESPNCircuitEnabled,
			FailureThreshold: cfg.ESPNCircuitFailureCount,
			OpenTimeout:      cfg.ESPNCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ESPNCircuitHalfOpenMaxReq,
		},
	})

	draftRepo := memory.NewDraftRepository()
	store := cache.NewStore(cfg.CacheTTL)

	rosterSvc := usecase.NewRosterService(statsClient, draftRepo, store, memory.SampleRoster, zapLogger)
	draftSvc := usecase.NewDraftService(draftRepo, zapLogger)
	exportSvc := usecase.NewExportService(rosterSvc)

	handler := httpapi.NewHandler(rosterSvc, draftSvc, exportSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
