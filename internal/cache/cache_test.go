package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betkick/internal/footballdata"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) FetchTeamStats(ctx context.Context, teamID int, dateFrom, dateTo time.Time) (*footballdata.TeamMatchesPayload, error) {
	args := m.Called(ctx, teamID, dateFrom, dateTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*footballdata.TeamMatchesPayload), args.Error(1)
}

func (m *MockProvider) FetchHeadToHead(ctx context.Context, matchID int) (*footballdata.HeadToHeadPayload, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*footballdata.HeadToHeadPayload), args.Error(1)
}

func (m *MockProvider) FetchStandings(ctx context.Context, competitionID int) (*footballdata.StandingsPayload, error) {
	args := m.Called(ctx, competitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*footballdata.StandingsPayload), args.Error(1)
}

func (m *MockProvider) FetchCompetitions(ctx context.Context) ([]footballdata.CompetitionRef, error) {
	args := m.Called(ctx)
	return args.Get(0).([]footballdata.CompetitionRef), args.Error(1)
}

func (m *MockProvider) FetchMatches(ctx context.Context, dateFrom, dateTo time.Time) ([]footballdata.MatchPayload, error) {
	args := m.Called(ctx, dateFrom, dateTo)
	return args.Get(0).([]footballdata.MatchPayload), args.Error(1)
}

func (m *MockProvider) FetchTodayMatches(ctx context.Context) ([]footballdata.MatchPayload, error) {
	args := m.Called(ctx)
	return args.Get(0).([]footballdata.MatchPayload), args.Error(1)
}

func newCachedProvider(p footballdata.Provider) *CachedProvider {
	return NewCachedProvider(p, NewStatsCache(time.Hour, 2*time.Hour), logrus.New())
}

func TestCachedProviderTeamStatsServedOnce(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(2, 0, 0)
	payload := &footballdata.TeamMatchesPayload{ResultSet: footballdata.ResultSet{Count: 40}}

	provider := new(MockProvider)
	provider.On("FetchTeamStats", ctx, 57, from, to).Return(payload, nil).Once()

	cached := newCachedProvider(provider)
	for i := 0; i < 3; i++ {
		got, err := cached.FetchTeamStats(ctx, 57, from, to)
		require.NoError(t, err)
		assert.Same(t, payload, got)
	}
	provider.AssertExpectations(t)
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	boom := footballdata.NewProviderError(footballdata.ErrCodeServerError, 503, "unavailable", nil)
	payload := &footballdata.HeadToHeadPayload{}

	provider := new(MockProvider)
	provider.On("FetchHeadToHead", ctx, 1001).Return(nil, boom).Once()
	provider.On("FetchHeadToHead", ctx, 1001).Return(payload, nil).Once()

	cached := newCachedProvider(provider)
	_, err := cached.FetchHeadToHead(ctx, 1001)
	assert.True(t, errors.Is(err, footballdata.ErrServer))

	got, err := cached.FetchHeadToHead(ctx, 1001)
	require.NoError(t, err)
	assert.Same(t, payload, got)

	_, err = cached.FetchHeadToHead(ctx, 1001)
	require.NoError(t, err)
	provider.AssertExpectations(t)
}

func TestCachedProviderFlush(t *testing.T) {
	ctx := context.Background()
	refs := []footballdata.CompetitionRef{{ID: 2021, Code: "PL"}}

	provider := new(MockProvider)
	provider.On("FetchCompetitions", ctx).Return(refs, nil).Twice()

	cached := newCachedProvider(provider)
	_, err := cached.FetchCompetitions(ctx)
	require.NoError(t, err)
	_, err = cached.FetchCompetitions(ctx)
	require.NoError(t, err)

	cached.Flush()
	got, err := cached.FetchCompetitions(ctx)
	require.NoError(t, err)
	assert.Equal(t, refs, got)
	provider.AssertExpectations(t)
}

func TestCachedProviderPassesThroughMatches(t *testing.T) {
	ctx := context.Background()
	provider := new(MockProvider)
	provider.On("FetchTodayMatches", ctx).Return([]footballdata.MatchPayload{{ID: 1}}, nil).Twice()

	cached := newCachedProvider(provider)
	_, _ = cached.FetchTodayMatches(ctx)
	_, _ = cached.FetchTodayMatches(ctx)
	provider.AssertExpectations(t)
}

func TestStatsCacheExpiry(t *testing.T) {
	c := NewStatsCache(10*time.Millisecond, time.Hour)
	c.Set("k", 1)

	v, ok := c.Get("test", "k")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	time.Sleep(30 * time.Millisecond)
	_, ok = c.Get("test", "k")
	assert.False(t, ok)
}
