package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/betkick/internal/events"
	"github.com/yourusername/betkick/internal/footballdata"
	"github.com/yourusername/betkick/internal/models"
)

// MockProvider mocks the football data provider
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

// MockMatchRepository mocks match repository
type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) Create(ctx context.Context, match *models.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockMatchRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Match, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[int]*models.Match), args.Error(1)
}

func (m *MockMatchRepository) UpdateResult(ctx context.Context, match *models.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) GetMatchesWithProvisionalOdds(ctx context.Context, limit int) ([]*models.Match, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*models.Match), args.Error(1)
}

func (m *MockMatchRepository) CountProvisional(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockMatchRepository) UpdateMatchOdds(ctx context.Context, matchID int, odds models.MatchOdds) error {
	args := m.Called(ctx, matchID, odds)
	return args.Error(0)
}

func (m *MockMatchRepository) ExistsBetween(ctx context.Context, from, to time.Time) (bool, error) {
	args := m.Called(ctx, from, to)
	return args.Bool(0), args.Error(1)
}

// MockStandingRepository mocks standing repository
type MockStandingRepository struct {
	mock.Mock
}

func (m *MockStandingRepository) GetStandingsForTeamsInCompetition(ctx context.Context, competitionID, homeTeamID, awayTeamID int) ([]*models.Standing, error) {
	args := m.Called(ctx, competitionID, homeTeamID, awayTeamID)
	return args.Get(0).([]*models.Standing), args.Error(1)
}

func (m *MockStandingRepository) CountTeamsInCompetition(ctx context.Context, competitionID int) (int, error) {
	args := m.Called(ctx, competitionID)
	return args.Int(0), args.Error(1)
}

func (m *MockStandingRepository) ReplaceAll(ctx context.Context, rows []*models.Standing) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

// MockTeamRepository mocks team repository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Upsert(ctx context.Context, teams []*models.Team) error {
	args := m.Called(ctx, teams)
	return args.Error(0)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Team), args.Error(1)
}

// MockCompetitionRepository mocks competition repository
type MockCompetitionRepository struct {
	mock.Mock
}

func (m *MockCompetitionRepository) Upsert(ctx context.Context, competitions []*models.Competition) error {
	args := m.Called(ctx, competitions)
	return args.Error(0)
}

func (m *MockCompetitionRepository) GetAll(ctx context.Context) ([]*models.Competition, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Competition), args.Error(1)
}

// MockBetRepository mocks bet repository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetOpenByMatch(ctx context.Context, matchID int) ([]*models.Bet, error) {
	args := m.Called(ctx, matchID)
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) ApplySettlements(ctx context.Context, settlements []models.Settlement) ([]models.Settlement, error) {
	args := m.Called(ctx, settlements)
	return args.Get(0).([]models.Settlement), args.Error(1)
}

// MockBetSettler mocks the settlement step of match updates
type MockBetSettler struct {
	mock.Mock
}

func (m *MockBetSettler) SettleBetsForMatch(ctx context.Context, matchID int, winner models.Winner) (*SettlementReport, error) {
	args := m.Called(ctx, matchID, winner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SettlementReport), args.Error(1)
}

// recordingPublisher keeps every published event in order
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]events.Type, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
