// Package metrics provides the centralized Prometheus registry for the odds pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "betkick"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	OddsOutcomesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "odds_outcomes_total",
		Help:      "Per-match pricing outcomes by kind",
	}, []string{"outcome"})
	OddsCyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "odds_cycles_total",
		Help:      "Total number of odds calculation cycles run",
	})
	BetsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bets_settled_total",
		Help:      "Total number of bets settled by result",
	}, []string{"result"})
	SchedulerTaskRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduler_task_runs_total",
		Help:      "Scheduled task runs by task and result",
	}, []string{"task", "result"})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Cache lookups by cache and result",
	}, []string{"cache", "result"})
	EventsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Pipeline events published by type and sink",
	}, []string{"type", "sink"})
)

// Gauge metrics
var (
	RunStateFlag = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "run_state_flag",
		Help:      "Scheduler run-state flags, 1 when set",
	}, []string{"flag"})
	ProvisionalBacklog = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "provisional_odds_backlog",
		Help:      "Matches still waiting for calculated odds",
	})
	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_clients",
		Help:      "Connected event websocket clients",
	})
)

// Histogram metrics
var (
	OddsCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "odds_cycle_duration_seconds",
		Help:      "Duration of odds calculation cycles in seconds",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})
	SchedulerTaskDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scheduler_task_duration_seconds",
		Help:      "Duration of scheduled tasks in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"task"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(OddsOutcomesTotal)
		registry.MustRegister(OddsCyclesTotal)
		registry.MustRegister(BetsSettledTotal)
		registry.MustRegister(SchedulerTaskRunsTotal)
		registry.MustRegister(CacheLookupsTotal)
		registry.MustRegister(EventsPublishedTotal)

		// Register gauge metrics
		registry.MustRegister(RunStateFlag)
		registry.MustRegister(ProvisionalBacklog)
		registry.MustRegister(WebsocketClients)

		// Register histogram metrics
		registry.MustRegister(OddsCycleDuration)
		registry.MustRegister(SchedulerTaskDuration)

		// Register provider metrics
		registry.MustRegister(ProviderRequestsTotal)
		registry.MustRegister(ProviderRequestDuration)
		registry.MustRegister(CircuitBreakerTripsTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordOddsOutcome records the outcome of pricing one match.
func RecordOddsOutcome(outcome string) {
	OddsOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordOddsCycle records a finished odds calculation cycle.
func RecordOddsCycle(durationSeconds float64) {
	OddsCyclesTotal.Inc()
	OddsCycleDuration.Observe(durationSeconds)
}

// RecordBetsSettled records settled bets split by result.
func RecordBetsSettled(won, lost int) {
	BetsSettledTotal.WithLabelValues("won").Add(float64(won))
	BetsSettledTotal.WithLabelValues("lost").Add(float64(lost))
}

// RecordSchedulerTask records a scheduled task run.
func RecordSchedulerTask(task, result string, durationSeconds float64) {
	SchedulerTaskRunsTotal.WithLabelValues(task, result).Inc()
	SchedulerTaskDuration.WithLabelValues(task).Observe(durationSeconds)
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(cache, result).Inc()
}

// RecordEventPublished records an event handed to a sink.
func RecordEventPublished(eventType, sink string) {
	EventsPublishedTotal.WithLabelValues(eventType, sink).Inc()
}

// SetRunStateFlag updates a run-state flag gauge.
func SetRunStateFlag(flag string, on bool) {
	v := 0.0
	if on {
		v = 1
	}
	RunStateFlag.WithLabelValues(flag).Set(v)
}

// SetProvisionalBacklog updates the provisional odds backlog gauge.
func SetProvisionalBacklog(count int) {
	ProvisionalBacklog.Set(float64(count))
}

// SetWebsocketClients updates the connected websocket clients gauge.
func SetWebsocketClients(count int) {
	WebsocketClients.Set(float64(count))
}

func statusLabel(status int) string {
	return strconv.Itoa(status)
}
