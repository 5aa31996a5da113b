package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/skyops/nightplan/core/metrics"
	"github.com/skyops/nightplan/infra/logger"
)

// InfluxSink writes planning telemetry to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPlanEntries writes one point per scheduled observation.
func (s *InfluxSink) RecordPlanEntries(evs []coremetrics.PlanEntryEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, ev := range evs {
		p := write.NewPointWithMeasurement("plan_entry").
			AddTag("target_id", ev.TargetID).
			AddTag("object_type", ev.ObjectType).
			AddTag("origin", string(ev.Origin)).
			AddTag("mode", string(ev.Mode)).
			AddField("score", round3(ev.Score)).
			AddField("duration_min", round3(ev.End.Sub(ev.Start).Minutes())).
			SetTime(ev.Start)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordPlanSummary writes the run-level summary point.
func (s *InfluxSink) RecordPlanSummary(ev coremetrics.PlanSummaryEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("plan_summary").
		AddTag("mode", string(ev.Mode)).
		AddField("entries", ev.Entries).
		AddField("gaps_found", ev.GapsFound).
		AddField("gaps_filled", ev.GapsFilled).
		AddField("total_minutes", round3(ev.TotalMinutes)).
		AddField("filled_minutes", round3(ev.FilledMinutes)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
