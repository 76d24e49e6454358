// Package footballdata provides a rate-limited client for the football-data.org v4 API.
package footballdata

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Provider defines the calls the pipeline makes against the external football data API
type Provider interface {
	// FetchTeamStats retrieves a team's matches and result summary within a date range
	FetchTeamStats(ctx context.Context, teamID int, dateFrom, dateTo time.Time) (*TeamMatchesPayload, error)

	// FetchHeadToHead retrieves aggregate and per-match history between the two teams of a match
	FetchHeadToHead(ctx context.Context, matchID int) (*HeadToHeadPayload, error)

	// FetchStandings retrieves the current tables of a competition
	FetchStandings(ctx context.Context, competitionID int) (*StandingsPayload, error)

	// FetchCompetitions retrieves the competitions available to the API plan
	FetchCompetitions(ctx context.Context) ([]CompetitionRef, error)

	// FetchMatches retrieves all matches within a date range
	FetchMatches(ctx context.Context, dateFrom, dateTo time.Time) ([]MatchPayload, error)

	// FetchTodayMatches retrieves today's matches with their latest score and status
	FetchTodayMatches(ctx context.Context) ([]MatchPayload, error)
}

// ProviderError represents errors from provider operations
type ProviderError struct {
	Code       string // Error code (e.g., "quota_rejected")
	StatusCode int    // HTTP status, 0 when no response was received
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := "football-data: " + e.Code + ": " + e.Message
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error for the provider error's code
func (e *ProviderError) Is(target error) bool {
	sentinel, ok := sentinelsByCode[e.Code]
	return ok && sentinel == target
}

// Common error codes
const (
	ErrCodeQuotaRejected        = "quota_rejected"
	ErrCodeRateLimited          = "rate_limited"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeCircuitOpen          = "circuit_open"
)

// Sentinel errors, one per code
var (
	ErrQuotaRejected        = errors.New("request rejected by provider plan or quota")
	ErrRateLimited          = errors.New("provider rate limit exceeded")
	ErrAuthenticationFailed = errors.New("provider authentication failed")
	ErrNotFound             = errors.New("resource not found at provider")
	ErrInvalidData          = errors.New("invalid provider payload")
	ErrNetwork              = errors.New("network error")
	ErrServer               = errors.New("provider server error")
	ErrCircuitOpen          = errors.New("provider circuit breaker open")
)

var sentinelsByCode = map[string]error{
	ErrCodeQuotaRejected:        ErrQuotaRejected,
	ErrCodeRateLimited:          ErrRateLimited,
	ErrCodeAuthenticationFailed: ErrAuthenticationFailed,
	ErrCodeNotFound:             ErrNotFound,
	ErrCodeInvalidData:          ErrInvalidData,
	ErrCodeNetworkError:         ErrNetwork,
	ErrCodeServerError:          ErrServer,
	ErrCodeCircuitOpen:          ErrCircuitOpen,
}

// NewProviderError creates a new provider error
func NewProviderError(code string, statusCode int, message string, err error) *ProviderError {
	return &ProviderError{
		Code:       code,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// IsQuotaRejected reports whether the provider refused the request for plan or quota reasons
func IsQuotaRejected(err error) bool {
	return errors.Is(err, ErrQuotaRejected)
}

// IsTransient reports whether the failure is expected to clear on a later attempt
func IsTransient(err error) bool {
	return errors.Is(err, ErrNetwork) ||
		errors.Is(err, ErrServer) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrCircuitOpen)
}
