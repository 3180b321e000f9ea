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

	coremetrics "github.com/kilianp07/hangar/core/metrics"
	"github.com/kilianp07/hangar/infra/logger"
)

// InfluxSink writes analysis events to an InfluxDB instance using the official client.
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

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
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

// Close releases the underlying HTTP client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

// RecordAnalysis writes one analysis_run point.
func (s *InfluxSink) RecordAnalysis(ev coremetrics.AnalysisEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("analysis_run").
		AddTag("airfield", ev.Airfield).
		AddTag("run_id", ev.RunID).
		AddField("manual_inductions", ev.ManualInductions).
		AddField("auto_inductions", ev.AutoInductions).
		AddField("scheduled", ev.Scheduled).
		AddField("unscheduled", ev.Unscheduled).
		AddField("conflicts", ev.Conflicts).
		AddField("errors", ev.Errors).
		AddField("warnings", ev.Warnings).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordPlacements writes one auto_placement point per placement.
func (s *InfluxSink) RecordPlacements(evs []coremetrics.PlacementEvent) error {
	if len(evs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pts := make([]*write.Point, 0, len(evs))
	for _, e := range evs {
		p := write.NewPointWithMeasurement("auto_placement").
			AddTag("airfield", e.Airfield).
			AddTag("hangar", e.Hangar).
			AddTag("induction_id", e.InductionID).
			AddTag("aircraft", e.Aircraft).
			AddField("bays", e.Bays).
			AddField("retries", e.Retries).
			AddField("duration_min", round3(e.End.Sub(e.Start).Minutes())).
			SetTime(e.Start)
		if e.Door != "" {
			p = p.AddTag("door", e.Door)
		}
		pts = append(pts, p)
	}
	return s.writeAPI.WritePoint(ctx, pts...)
}

// RecordRejections writes one scheduler_rejection point per rejection.
func (s *InfluxSink) RecordRejections(evs []coremetrics.RejectionEvent) error {
	if len(evs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pts := make([]*write.Point, 0, len(evs))
	for _, e := range evs {
		p := write.NewPointWithMeasurement("scheduler_rejection").
			AddTag("airfield", e.Airfield).
			AddTag("induction_id", e.InductionID).
			AddTag("rule_id", e.Rule).
			AddField("count", 1).
			SetTime(e.Time)
		if e.Hangar != "" {
			p = p.AddTag("hangar", e.Hangar)
		}
		pts = append(pts, p)
	}
	return s.writeAPI.WritePoint(ctx, pts...)
}

// RecordUtilization writes one bay_utilization point per bay.
func (s *InfluxSink) RecordUtilization(ev coremetrics.UtilizationEvent) error {
	if len(ev.ByBay) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pts := make([]*write.Point, 0, len(ev.ByBay))
	for key, pct := range ev.ByBay {
		hangar, bay, _ := strings.Cut(key, "/")
		pts = append(pts, write.NewPointWithMeasurement("bay_utilization").
			AddTag("airfield", ev.Airfield).
			AddTag("hangar", hangar).
			AddTag("bay", bay).
			AddField("percent", round3(pct)).
			SetTime(ev.Time))
	}
	return s.writeAPI.WritePoint(ctx, pts...)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
