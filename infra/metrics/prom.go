package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/skyops/nightplan/core/metrics"
	"github.com/skyops/nightplan/infra/logger"
)

// PromSink records planning events in Prometheus metrics.
type PromSink struct {
	entries *prometheus.CounterVec
	gaps    *prometheus.CounterVec
	scores  *prometheus.HistogramVec
}

// NewPromSink registers planning metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	entries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_entries_total",
		Help: "Total number of scheduled observations",
	}, []string{"origin", "object_type", "mode"})
	gaps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_gaps_total",
		Help: "Total number of detected idle gaps",
	}, []string{"outcome", "mode"})
	scores := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plan_entry_score",
		Help:    "Score distribution of scheduled observations",
		Buckets: prometheus.LinearBuckets(0, 0.1, 12),
	}, []string{"origin", "mode"})

	if err := reg.Register(entries); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			entries = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(gaps); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			gaps = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(scores); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			scores = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{entries: entries, gaps: gaps, scores: scores}, nil
}

// RecordPlanEntries increments the counters for each scheduled observation.
func (s *PromSink) RecordPlanEntries(evs []coremetrics.PlanEntryEvent) error {
	for _, ev := range evs {
		s.entries.WithLabelValues(string(ev.Origin), ev.ObjectType, string(ev.Mode)).Inc()
		s.scores.WithLabelValues(string(ev.Origin), string(ev.Mode)).Observe(ev.Score)
	}
	return nil
}

// RecordPlanSummary records gap outcomes for the run.
func (s *PromSink) RecordPlanSummary(ev coremetrics.PlanSummaryEvent) error {
	mode := string(ev.Mode)
	s.gaps.WithLabelValues("filled", mode).Add(float64(ev.GapsFilled))
	s.gaps.WithLabelValues("unfilled", mode).Add(float64(ev.GapsFound - ev.GapsFilled))
	return nil
}

// StartPromServer starts an HTTP server exposing Prometheus metrics on the
// given address. The server runs until the provided context is canceled. A
// dedicated ServeMux is used to avoid interfering with other handlers.
func StartPromServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.New("prom-server").Errorf("shutdown: %v", err)
		}
		cancel()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
