// SPDX-FileCopyrightText: 2026 Mikołaj Kuranowski
// SPDX-License-Identifier: MIT

package metrics

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/catenarytransit/ViaRailGTFS/via_rail_gtfs/realtime/match"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"

	FieldEstimate = "estimate"
	FieldPoll     = "poll"
)

// Collector exports the outcomes of feed updates.
type Collector struct {
	reg *prometheus.Registry

	Runs           *prometheus.CounterVec // result label: success|failure
	Entities       prometheus.Gauge
	RecordsSkipped *prometheus.CounterVec // reason label: match.SkipReason
	FieldsDropped  *prometheus.CounterVec // field label: estimate|poll
	RunDuration    prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "viarail_runs_total",
			Help: "Total feed updates, by result.",
		}, []string{"result"}),
		Entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "viarail_entities",
			Help: "Number of entities in the last successfully generated feed.",
		}),
		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "viarail_records_skipped_total",
			Help: "Total live trains left out of the feed, by reason.",
		}, []string{"reason"}),
		FieldsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "viarail_fields_dropped_total",
			Help: "Total malformed fields dropped from otherwise valid trains.",
		}, []string{"field"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "viarail_run_duration_seconds",
			Help:    "Duration of a single fetch and transform.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
	}

	reg.MustRegister(c.Runs, c.Entities, c.RecordsSkipped, c.FieldsDropped, c.RunDuration)

	// Export all series from the start, even before anything happens
	c.Runs.WithLabelValues(ResultSuccess)
	c.Runs.WithLabelValues(ResultFailure)
	for _, r := range match.AllSkipReasons {
		c.RecordsSkipped.WithLabelValues(r.String())
	}
	c.FieldsDropped.WithLabelValues(FieldEstimate)
	c.FieldsDropped.WithLabelValues(FieldPoll)

	return c
}

// Observe records a single feed update.
// Stats and entities are ignored for failed updates.
func (c *Collector) Observe(stats match.Stats, entities int, dur time.Duration, err error) {
	c.RunDuration.Observe(dur.Seconds())

	if err != nil {
		c.Runs.WithLabelValues(ResultFailure).Inc()
		return
	}

	c.Runs.WithLabelValues(ResultSuccess).Inc()
	c.Entities.Set(float64(entities))
	for _, r := range match.AllSkipReasons {
		c.RecordsSkipped.WithLabelValues(r.String()).Add(float64(stats.Skipped(r)))
	}
	c.FieldsDropped.WithLabelValues(FieldEstimate).Add(float64(stats.InvalidEstimates))
	c.FieldsDropped.WithLabelValues(FieldPoll).Add(float64(stats.InvalidPolls))
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failure", "addr", addr, "error", err)
		}
	}()
	slog.Info("Serving metrics", "addr", addr)
	return srv
}
