package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betkick/internal/cache"
	"github.com/yourusername/betkick/internal/config"
	"github.com/yourusername/betkick/internal/database"
	"github.com/yourusername/betkick/internal/events"
	"github.com/yourusername/betkick/internal/footballdata"
	"github.com/yourusername/betkick/internal/odds"
	"github.com/yourusername/betkick/internal/repository"
	"github.com/yourusername/betkick/internal/scheduler"
	"github.com/yourusername/betkick/internal/service"
)

// app holds the wired pipeline. Every command builds one and closes it on exit.
type app struct {
	db          *database.DB
	repos       *repository.Repositories
	httpClient  *footballdata.RateLimitedHTTPClient
	provider    footballdata.Provider
	statsCache  *cache.CachedProvider
	hub         *events.Hub
	redis       *redis.Client
	publisher   events.Publisher
	oddsSvc     *service.OddsService
	matchSvc    *service.MatchService
	settleSvc   *service.SettlementService
	standingSvc *service.StandingsService
	state       *scheduler.RunState
	coordinator *scheduler.Coordinator
}

func newApp(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*app, error) {
	a := &app{state: scheduler.NewRunState()}

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.db = db

	a.repos, err = repository.NewRepositories(db)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	a.httpClient = footballdata.NewRateLimitedHTTPClient(httpClientConfig(&cfg.FootballData), log)
	a.provider = footballdata.NewClient(a.httpClient, footballdata.ClientConfig{
		BaseURL: cfg.FootballData.BaseURL,
		APIKey:  cfg.FootballData.APIKey,
	}, log)
	if cfg.Cache.Enabled {
		a.statsCache = cache.NewCachedProvider(a.provider, cache.NewStatsCache(
			time.Duration(cfg.Cache.TTLMinutes)*time.Minute,
			time.Duration(cfg.Cache.CleanupMinutes)*time.Minute,
		), log)
		a.provider = a.statsCache
	}

	if err := a.setupEvents(ctx, cfg, log); err != nil {
		a.close()
		return nil, err
	}

	model, err := odds.NewModel(weights(cfg.Odds.Weights))
	if err != nil {
		a.close()
		return nil, fmt.Errorf("invalid odds weights: %w", err)
	}

	a.oddsSvc = service.NewOddsService(service.OddsServiceConfig{
		BatchSize:         cfg.Odds.BatchSize,
		StatsWindowMonths: cfg.Odds.StatsWindowMonths,
	}, a.provider, a.repos.Match, a.repos.Standing, odds.NewGenerator(model), a.publisher, log)
	a.settleSvc = service.NewSettlementService(a.repos.Bet, a.publisher, log)
	a.matchSvc = service.NewMatchService(a.provider, a.repos.Match, a.repos.Team, a.repos.Competition,
		a.settleSvc, a.publisher, log)
	a.standingSvc = service.NewStandingsService(a.provider, a.repos.Competition, a.repos.Team, a.repos.Standing, log)

	return a, nil
}

// setupEvents builds the websocket hub and the Redis stream sink when enabled
func (a *app) setupEvents(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	var sinks events.MultiPublisher
	if cfg.Events.WebsocketEnabled {
		a.hub = events.NewHub(cfg.Events.ClientBuffer, log)
		sinks = append(sinks, a.hub)
	}
	if cfg.Redis.Enabled {
		client, err := events.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			return err
		}
		a.redis = client
		sinks = append(sinks, events.NewRedisStreamPublisher(client, cfg.Redis.StreamPrefix, cfg.Redis.StreamMaxLen))
	}

	switch len(sinks) {
	case 0:
		a.publisher = events.NopPublisher{}
	case 1:
		a.publisher = sinks[0]
	default:
		a.publisher = sinks
	}
	return nil
}

// newCoordinator builds the scheduler. notifier may be nil.
func (a *app) newCoordinator(cfg *config.Config, notifier scheduler.MaintenanceNotifier, log *logrus.Logger) *scheduler.Coordinator {
	deps := scheduler.Dependencies{
		Odds:      a.oddsSvc,
		Matches:   a.matchSvc,
		Standings: a.standingSvc,
		Calendar:  a.repos.Match,
	}
	if a.statsCache != nil {
		deps.Cache = a.statsCache
	}
	if notifier != nil {
		deps.Notifier = notifier
	}
	a.coordinator = scheduler.NewCoordinator(deps, cfg.Scheduler, a.state, log)
	return a.coordinator
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.httpClient != nil {
		_ = a.httpClient.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

func httpClientConfig(c *config.FootballDataConfig) footballdata.HTTPClientConfig {
	hc := footballdata.DefaultHTTPClientConfig()
	hc.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	hc.MaxRetries = c.MaxRetries
	hc.RetryWaitMin = time.Duration(c.RetryWaitMinMillis) * time.Millisecond
	hc.RetryWaitMax = time.Duration(c.RetryWaitMaxMillis) * time.Millisecond
	hc.RequestsPerMinute = c.RequestsPerMinute
	hc.Burst = c.Burst
	hc.BreakerTimeout = time.Duration(c.BreakerTimeoutSeconds) * time.Second
	hc.BreakerMinCalls = uint32(c.BreakerMinRequests)
	return hc
}

func weights(w config.WeightsConfig) odds.Weights {
	return odds.Weights{
		Team:             w.Team,
		RecentTeam:       w.RecentTeam,
		HeadToHead:       w.HeadToHead,
		RecentHeadToHead: w.RecentHeadToHead,
		StandingRate:     w.StandingRate,
		StandingPosition: w.StandingPosition,
	}
}
