package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/TheMidfield/midfield-sync/external/thesportsdb"
	"github.com/TheMidfield/midfield-sync/internal/config"
	cacherepo "github.com/TheMidfield/midfield-sync/internal/infrastructure/repository/cache"
	"github.com/TheMidfield/midfield-sync/internal/infrastructure/repository/postgres"
	"github.com/TheMidfield/midfield-sync/internal/interfaces/httpapi"
	basecache "github.com/TheMidfield/midfield-sync/internal/platform/cache"
	"github.com/TheMidfield/midfield-sync/internal/platform/logging"
	"github.com/TheMidfield/midfield-sync/internal/platform/resilience"
	"github.com/TheMidfield/midfield-sync/internal/usecase"
)

// Topic rows change rarely outside the worker's own writes, which
// invalidate the cache themselves.
const topicCacheTTL = 5 * time.Minute

// NewHTTPServer wires the sync services onto a configured HTTP server.
// The returned cleanup closes the database pool and must run after the
// server has shut down.
func NewHTTPServer(cfg config.Config, logger *slog.Logger, appLogger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if appLogger == nil {
		appLogger = logging.Default()
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	jobRepo := postgres.NewSyncJobRepository(db)
	topicRepo := cacherepo.NewTopicRepository(postgres.NewTopicRepository(db), basecache.NewStore(topicCacheTTL))
	fixtureRepo := postgres.NewFixtureRepository(db)
	standingRepo := postgres.NewStandingRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	provider := thesportsdb.NewClient(thesportsdb.ClientConfig{
		BaseURL:   cfg.SportsDBBaseURL,
		V1BaseURL: cfg.SportsDBV1BaseURL,
		Key:       cfg.SportsDBKey,
		Timeout:   cfg.SportsDBTimeout,
		Logger:    appLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SportsDBCircuitEnabled,
			FailureThreshold: cfg.SportsDBCircuitFailures,
			OpenTimeout:      cfg.SportsDBCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SportsDBCircuitHalfOpenMax,
		},
	})

	leagues := leagueTargets(cfg.TargetLeagues)
	resolver := usecase.NewResolverService(topicRepo, nil, appLogger)

	scheduler := usecase.NewSchedulerService(jobRepo, usecase.SchedulerConfig{
		Leagues:    leagues,
		StaleAfter: cfg.JobStaleAfter,
	}, appLogger)
	worker := usecase.NewWorkerService(jobRepo, topicRepo, fixtureRepo, resolver, provider, usecase.WorkerConfig{
		BatchSize: cfg.WorkerBatchSize,
	}, appLogger)
	scheduleSync := usecase.NewScheduleSyncService(fixtureRepo, standingRepo, resolver, provider, usecase.ScheduleSyncConfig{
		Leagues:        leagues,
		TrackedClubs:   cfg.TrackedClubIDs,
		StandingsPause: cfg.StandingsPause,
	}, appLogger)
	livescore := usecase.NewLivescoreService(fixtureRepo, topicRepo, provider, usecase.LivescoreConfig{
		Lookback:   cfg.LiveLookback,
		Lookahead:  cfg.LiveLookahead,
		MaxLiveAge: cfg.LiveMaxAge,
	}, appLogger)
	enrichment := usecase.NewEnrichmentService(topicRepo, jobRepo, usecase.EnrichmentConfig{
		BatchSize: cfg.EnrichBatchSize,
	}, appLogger)
	purge := usecase.NewPurgeService(notificationRepo, usecase.PurgeConfig{
		NotificationRetention: cfg.NotificationRetention,
	}, appLogger)

	handler := httpapi.NewHandler(scheduler, worker, scheduleSync, livescore, enrichment, purge, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.CronSecret, cfg.ServiceRoleKey)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		_ = db.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, db.Close, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func leagueTargets(in []config.TargetLeague) []usecase.LeagueTarget {
	out := make([]usecase.LeagueTarget, 0, len(in))
	for _, item := range in {
		out = append(out, usecase.LeagueTarget{
			UpstreamID: item.UpstreamID,
			Name:       item.Name,
			Type:       item.Type,
		})
	}

	return out
}
