package footballdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the public football-data.org endpoint
	DefaultBaseURL = "https://api.football-data.org"

	dateLayout         = "2006-01-02"
	teamMatchesLimit   = 200
	headToHeadLimit    = 100
	maxErrorBodyLength = 512
)

// ClientConfig holds the endpoint and credentials for the provider
type ClientConfig struct {
	BaseURL string
	APIKey  string
}

// Client implements Provider on top of the rate-limited HTTP client
type Client struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
	now        func() time.Time
}

// NewClient creates a new football-data.org client
func NewClient(httpClient *RateLimitedHTTPClient, cfg ClientConfig, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		logger:     logger,
		now:        time.Now,
	}
}

// FetchTeamStats retrieves a team's matches and result summary within a date range
func (c *Client) FetchTeamStats(ctx context.Context, teamID int, dateFrom, dateTo time.Time) (*TeamMatchesPayload, error) {
	query := url.Values{}
	query.Set("dateFrom", dateFrom.UTC().Format(dateLayout))
	query.Set("dateTo", dateTo.UTC().Format(dateLayout))
	query.Set("limit", strconv.Itoa(teamMatchesLimit))

	var payload TeamMatchesPayload
	if err := c.getJSON(ctx, fmt.Sprintf("/v4/teams/%d/matches", teamID), query, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchHeadToHead retrieves aggregate and per-match history between the two teams of a match
func (c *Client) FetchHeadToHead(ctx context.Context, matchID int) (*HeadToHeadPayload, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(headToHeadLimit))

	var payload HeadToHeadPayload
	if err := c.getJSON(ctx, fmt.Sprintf("/v4/matches/%d/head2head", matchID), query, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// FetchStandings retrieves the current tables of a competition
func (c *Client) FetchStandings(ctx context.Context, competitionID int) (*StandingsPayload, error) {
	var payload StandingsPayload
	if err := c.getJSON(ctx, fmt.Sprintf("/v4/competitions/%d/standings", competitionID), nil, &payload); err != nil {
		return nil, err
	}
	if payload.Competition.ID == 0 {
		payload.Competition.ID = competitionID
	}
	return &payload, nil
}

// FetchCompetitions retrieves the competitions available to the API plan
func (c *Client) FetchCompetitions(ctx context.Context) ([]CompetitionRef, error) {
	var payload competitionsPayload
	if err := c.getJSON(ctx, "/v4/competitions", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Competitions, nil
}

// FetchMatches retrieves all matches within a date range
func (c *Client) FetchMatches(ctx context.Context, dateFrom, dateTo time.Time) ([]MatchPayload, error) {
	query := url.Values{}
	query.Set("dateFrom", dateFrom.UTC().Format(dateLayout))
	query.Set("dateTo", dateTo.UTC().Format(dateLayout))

	var payload matchesPayload
	if err := c.getJSON(ctx, "/v4/matches", query, &payload); err != nil {
		return nil, err
	}
	return payload.Matches, nil
}

// FetchTodayMatches retrieves today's matches with their latest score and status
func (c *Client) FetchTodayMatches(ctx context.Context) ([]MatchPayload, error) {
	var payload matchesPayload
	if err := c.getJSON(ctx, "/v4/matches", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Matches, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	header := http.Header{}
	header.Set("X-Auth-Token", c.apiKey)
	header.Set("Accept", "application/json")

	start := c.now()
	resp, err := c.httpClient.Get(ctx, endpoint, header)
	if err != nil {
		var providerErr *ProviderError
		if errors.As(err, &providerErr) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return NewProviderError(ErrCodeNetworkError, 0, "request to "+path+" failed", err)
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": c.now().Sub(start).Milliseconds(),
	}).Debug("Provider request completed")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLength))
		return statusError(path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewProviderError(ErrCodeInvalidData, resp.StatusCode, "decode "+path, err)
	}
	return nil
}

func statusError(path string, status int, body string) *ProviderError {
	msg := path
	if body != "" {
		msg += ": " + body
	}

	switch {
	case status == http.StatusForbidden:
		return NewProviderError(ErrCodeQuotaRejected, status, msg, nil)
	case status == http.StatusTooManyRequests:
		return NewProviderError(ErrCodeRateLimited, status, msg, nil)
	case status == http.StatusUnauthorized:
		return NewProviderError(ErrCodeAuthenticationFailed, status, msg, nil)
	case status == http.StatusNotFound:
		return NewProviderError(ErrCodeNotFound, status, msg, nil)
	case status >= http.StatusInternalServerError:
		return NewProviderError(ErrCodeServerError, status, msg, nil)
	default:
		return NewProviderError(ErrCodeInvalidData, status, msg, nil)
	}
}
