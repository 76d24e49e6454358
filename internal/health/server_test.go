package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakePipeline struct {
	phase       string
	maintenance bool
}

func (f fakePipeline) PhaseName() string       { return f.phase }
func (f fakePipeline) MaintenanceActive() bool { return f.maintenance }

type fakeBacklog struct {
	count int
	err   error
}

func (f fakeBacklog) CountProvisional(context.Context) (int, error) { return f.count, f.err }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLiveAndHealth(t *testing.T) {
	s := NewServer(Config{ServiceName: "betkick", Version: "1.0.0", Commit: "abc123"})
	h := s.Handler()

	for _, path := range []string{"/live", "/health"} {
		rec := get(t, h, path)
		require.Equal(t, http.StatusOK, rec.Code, path)

		var resp LiveResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "1.0.0", resp.Version)
		assert.Equal(t, "abc123", resp.Commit)
		assert.NotEmpty(t, resp.Uptime)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/live", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReadyReportsPipeline(t *testing.T) {
	tests := []struct {
		name        string
		ready       bool
		dbErr       error
		backlog     fakeBacklog
		pipeline    fakePipeline
		wantStatus  int
		wantBacklog *int
		wantChecks  map[string]string
	}{
		{
			name:        "ready with backlog",
			ready:       true,
			backlog:     fakeBacklog{count: 7},
			pipeline:    fakePipeline{phase: "odds-eligible"},
			wantStatus:  http.StatusOK,
			wantBacklog: intPtr(7),
			wantChecks:  map[string]string{"service": "ok", "database": "ok", "provisional_backlog": "ok"},
		},
		{
			name:        "not marked ready",
			backlog:     fakeBacklog{count: 0},
			pipeline:    fakePipeline{phase: "idle"},
			wantStatus:  http.StatusServiceUnavailable,
			wantBacklog: intPtr(0),
			wantChecks:  map[string]string{"service": "not_ready"},
		},
		{
			name:       "database down",
			ready:      true,
			dbErr:      errors.New("connection refused"),
			backlog:    fakeBacklog{err: errors.New("connection refused")},
			pipeline:   fakePipeline{phase: "idle"},
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{
				"database":            "error: connection refused",
				"provisional_backlog": "error: connection refused",
			},
		},
		{
			name:        "maintenance does not fail readiness",
			ready:       true,
			backlog:     fakeBacklog{count: 3},
			pipeline:    fakePipeline{phase: "maintenance-blackout", maintenance: true},
			wantStatus:  http.StatusOK,
			wantBacklog: intPtr(3),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(Config{
				ServiceName: "betkick",
				DB:          fakePinger{err: tt.dbErr},
				Pipeline:    tt.pipeline,
				Backlog:     tt.backlog,
			})
			s.SetReady(tt.ready)

			rec := get(t, s.Handler(), "/ready")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ReadyResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.pipeline.phase, resp.Phase)
			assert.Equal(t, tt.pipeline.maintenance, resp.Maintenance)
			assert.Equal(t, tt.wantBacklog, resp.Backlog)
			for k, v := range tt.wantChecks {
				assert.Equal(t, v, resp.Checks[k], k)
			}
		})
	}
}

func TestPipelineFollowsMaintenance(t *testing.T) {
	s := NewServer(Config{ServiceName: "betkick", Pipeline: fakePipeline{phase: "odds-eligible"}})
	rec := get(t, s.Handler(), "/pipeline")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PipelineResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, PipelineService, resp.Service)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING.String(), resp.Status)
	assert.Equal(t, "odds-eligible", resp.Phase)

	s = NewServer(Config{ServiceName: "betkick", Pipeline: fakePipeline{phase: "maintenance-blackout", maintenance: true}})
	rec = get(t, s.Handler(), "/pipeline")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING.String(), resp.Status)

	bare := NewServer(Config{ServiceName: "betkick"}).Handler()
	assert.Equal(t, http.StatusNotFound, get(t, bare, "/pipeline").Code)
}

func TestMetricsAndEventsRoutes(t *testing.T) {
	events := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	s := NewServer(Config{ServiceName: "betkick", MetricsPath: "/metrics", Events: events})
	h := s.Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/metrics").Code)
	assert.Equal(t, http.StatusTeapot, get(t, h, "/ws/events").Code)

	bare := NewServer(Config{ServiceName: "betkick"}).Handler()
	assert.Equal(t, http.StatusNotFound, get(t, bare, "/metrics").Code)
}

func TestStartReportsBindFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewServer(Config{ServiceName: "betkick", Port: "not-a-port"})
	assert.Error(t, s.Start(ctx))
	assert.NoError(t, s.Shutdown())
}

func TestGRPCHealthMaintenance(t *testing.T) {
	h := NewGRPCHealth("0", logrus.New())
	ctx := context.Background()

	status, err := h.Check(ctx, PipelineService)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status)

	h.SetMaintenance(true)
	status, err = h.Check(ctx, PipelineService)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status)

	status, err = h.Check(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status)

	h.SetMaintenance(false)
	status, err = h.Check(ctx, PipelineService)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status)

	_, err = h.Check(ctx, "unknown.service")
	assert.Error(t, err)
}

func intPtr(v int) *int { return &v }
