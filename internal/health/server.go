// Package health serves the pipeline's probes, metrics and the event websocket
// over HTTP, plus the standard gRPC health service.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/yourusername/betkick/internal/metrics"
)

const defaultProbeTimeout = 3 * time.Second

// Pinger checks database connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// Pipeline reports the scheduler run state
type Pipeline interface {
	PhaseName() string
	MaintenanceActive() bool
}

// BacklogCounter counts matches still waiting for calculated odds
type BacklogCounter interface {
	CountProvisional(ctx context.Context) (int, error)
}

// LiveResponse is served on /live and /health
type LiveResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
	Commit  string `json:"commit,omitempty"`
	Uptime  string `json:"uptime"`
}

// ReadyResponse is served on /ready. The pipeline phase and backlog are
// informational; only the ready flag and the database decide the status.
type ReadyResponse struct {
	Status      string            `json:"status"`
	Service     string            `json:"service"`
	Phase       string            `json:"phase,omitempty"`
	Maintenance bool              `json:"maintenance"`
	Backlog     *int              `json:"provisional_backlog,omitempty"`
	Checks      map[string]string `json:"checks"`
}

// PipelineResponse is served on /pipeline with the same status the gRPC
// pipeline service reports
type PipelineResponse struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	Phase   string `json:"phase"`
}

// Config wires the server to the pipeline
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        string
	Logger      *logrus.Logger
	DB          Pinger
	Pipeline    Pipeline
	Backlog     BacklogCounter
	// MetricsPath mounts the Prometheus handler when non-empty
	MetricsPath string
	// Events serves the event websocket on /ws/events when set
	Events       http.Handler
	ProbeTimeout time.Duration
}

// Server is the pipeline's HTTP face
type Server struct {
	cfg     Config
	started time.Time
	ready   atomic.Bool
	srv     *http.Server
	logger  *logrus.Entry
}

// NewServer creates a server. It reports not ready until SetReady(true).
func NewServer(cfg Config) *Server {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = defaultProbeTimeout
	}
	base := cfg.Logger
	if base == nil {
		base = logrus.StandardLogger()
	}
	return &Server{
		cfg:     cfg,
		started: time.Now(),
		logger:  base.WithField("component", "health"),
	}
}

// SetReady flips the readiness flag
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady returns the readiness flag
func (s *Server) IsReady() bool {
	return s.ready.Load()
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", s.handleLive)
	mux.HandleFunc("GET /health", s.handleLive)
	mux.HandleFunc("GET /ready", s.handleReady)
	if s.cfg.Pipeline != nil {
		mux.HandleFunc("GET /pipeline", s.handlePipeline)
	}
	if s.cfg.MetricsPath != "" {
		mux.Handle(s.cfg.MetricsPath, metrics.Handler())
	}
	if s.cfg.Events != nil {
		mux.Handle("/ws/events", s.cfg.Events)
	}
	return mux
}

// Start binds the port and serves in the background until ctx is cancelled.
// A bind failure is returned directly.
func (s *Server) Start(ctx context.Context) error {
	lis, err := net.Listen("tcp", ":"+s.cfg.Port)
	if err != nil {
		return fmt.Errorf("failed to listen on health port %s: %w", s.cfg.Port, err)
	}

	s.srv = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithField("port", s.cfg.Port).Info("Health server starting")
		if err := s.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("Health server error")
		}
	}()

	go func() {
		<-ctx.Done()
		_ = s.Shutdown()
	}()
	return nil
}

// Shutdown drains open requests for up to five seconds
func (s *Server) Shutdown() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, LiveResponse{
		Status:  "ok",
		Service: s.cfg.ServiceName,
		Version: s.cfg.Version,
		Commit:  s.cfg.Commit,
		Uptime:  time.Since(s.started).Truncate(time.Second).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.ProbeTimeout)
	defer cancel()

	resp := ReadyResponse{
		Status:  "ok",
		Service: s.cfg.ServiceName,
		Checks:  map[string]string{"service": "ok"},
	}
	fail := func(check string, err error) {
		resp.Status = "not_ready"
		resp.Checks[check] = fmt.Sprintf("error: %v", err)
	}

	if !s.IsReady() {
		resp.Status = "not_ready"
		resp.Checks["service"] = "not_ready"
	}

	if s.cfg.DB != nil {
		if err := s.cfg.DB.Ping(ctx); err != nil {
			fail("database", err)
		} else {
			resp.Checks["database"] = "ok"
		}
	}

	if s.cfg.Backlog != nil {
		if n, err := s.cfg.Backlog.CountProvisional(ctx); err != nil {
			fail("provisional_backlog", err)
		} else {
			resp.Backlog = &n
			resp.Checks["provisional_backlog"] = "ok"
		}
	}

	// the blackout is scheduled work, so it shows up here without failing readiness
	if s.cfg.Pipeline != nil {
		resp.Phase = s.cfg.Pipeline.PhaseName()
		resp.Maintenance = s.cfg.Pipeline.MaintenanceActive()
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) handlePipeline(w http.ResponseWriter, r *http.Request) {
	resp := PipelineResponse{
		Service: PipelineService,
		Status:  healthpb.HealthCheckResponse_SERVING.String(),
		Phase:   s.cfg.Pipeline.PhaseName(),
	}
	status := http.StatusOK
	if s.cfg.Pipeline.MaintenanceActive() {
		resp.Status = healthpb.HealthCheckResponse_NOT_SERVING.String()
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Debug("Failed to write health response")
	}
}
