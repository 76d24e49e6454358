// Package cache provides in-memory caching of provider payloads.
package cache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betkick/internal/footballdata"
	"github.com/yourusername/betkick/internal/metrics"
)

const competitionsKey = "competitions"

// StatsCache holds provider payloads that do not change within a day
type StatsCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewStatsCache creates a cache whose entries expire after ttl
func NewStatsCache(ttl, cleanupInterval time.Duration) *StatsCache {
	return &StatsCache{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Get returns a cached value and records the lookup under name
func (c *StatsCache) Get(name, key string) (interface{}, bool) {
	v, found := c.cache.Get(key)
	metrics.RecordCacheLookup(name, found)
	return v, found
}

// Set stores a value with the default TTL
func (c *StatsCache) Set(key string, v interface{}) {
	c.cache.Set(key, v, c.ttl)
}

// Flush removes every entry
func (c *StatsCache) Flush() {
	c.cache.Flush()
}

// ItemCount returns the number of cached entries, expired ones included until cleanup
func (c *StatsCache) ItemCount() int {
	return c.cache.ItemCount()
}

// CachedProvider wraps a Provider and serves repeated team-stats, head-to-head and
// competitions lookups from a StatsCache. Matches and standings always go to the provider.
type CachedProvider struct {
	provider footballdata.Provider
	cache    *StatsCache
	logger   *logrus.Entry
}

// NewCachedProvider creates a caching provider
func NewCachedProvider(provider footballdata.Provider, cache *StatsCache, logger *logrus.Logger) *CachedProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache,
		logger:   logger.WithField("component", "stats_cache"),
	}
}

// FetchTeamStats returns a team's matches, cached per team and date range
func (p *CachedProvider) FetchTeamStats(ctx context.Context, teamID int, dateFrom, dateTo time.Time) (*footballdata.TeamMatchesPayload, error) {
	key := fmt.Sprintf("team:%d:%s:%s", teamID, dateFrom.Format(time.DateOnly), dateTo.Format(time.DateOnly))
	if v, ok := p.cache.Get("team_stats", key); ok {
		if payload, ok := v.(*footballdata.TeamMatchesPayload); ok {
			p.logger.WithField("team_id", teamID).Debug("Cache hit for team stats")
			return payload, nil
		}
	}

	payload, err := p.provider.FetchTeamStats(ctx, teamID, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, payload)
	return payload, nil
}

// FetchHeadToHead returns a match's head-to-head history, cached per match
func (p *CachedProvider) FetchHeadToHead(ctx context.Context, matchID int) (*footballdata.HeadToHeadPayload, error) {
	key := fmt.Sprintf("h2h:%d", matchID)
	if v, ok := p.cache.Get("head_to_head", key); ok {
		if payload, ok := v.(*footballdata.HeadToHeadPayload); ok {
			return payload, nil
		}
	}

	payload, err := p.provider.FetchHeadToHead(ctx, matchID)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, payload)
	return payload, nil
}

// FetchStandings always asks the provider
func (p *CachedProvider) FetchStandings(ctx context.Context, competitionID int) (*footballdata.StandingsPayload, error) {
	return p.provider.FetchStandings(ctx, competitionID)
}

// FetchCompetitions returns the competitions list, cached once
func (p *CachedProvider) FetchCompetitions(ctx context.Context) ([]footballdata.CompetitionRef, error) {
	if v, ok := p.cache.Get("competitions", competitionsKey); ok {
		if refs, ok := v.([]footballdata.CompetitionRef); ok {
			return refs, nil
		}
	}

	refs, err := p.provider.FetchCompetitions(ctx)
	if err != nil {
		return nil, err
	}
	p.cache.Set(competitionsKey, refs)
	return refs, nil
}

// FetchMatches always asks the provider
func (p *CachedProvider) FetchMatches(ctx context.Context, dateFrom, dateTo time.Time) ([]footballdata.MatchPayload, error) {
	return p.provider.FetchMatches(ctx, dateFrom, dateTo)
}

// FetchTodayMatches always asks the provider
func (p *CachedProvider) FetchTodayMatches(ctx context.Context) ([]footballdata.MatchPayload, error) {
	return p.provider.FetchTodayMatches(ctx)
}

// Flush drops every cached payload
func (p *CachedProvider) Flush() {
	p.cache.Flush()
	p.logger.Debug("Stats cache flushed")
}

var _ footballdata.Provider = (*CachedProvider)(nil)
