// Package metrics writes capture results to InfluxDB.
package metrics

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"panelshot/capture"
	"panelshot/config"
)

// InfluxRecorder writes one "capture" point per result with the blocking write API.
type InfluxRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	runID    string
	logger   *slog.Logger
}

// NewInfluxRecorder returns nil when cfg.URL is empty.
func NewInfluxRecorder(cfg config.MetricsConfig, runID string, logger *slog.Logger) *InfluxRecorder {
	if cfg.URL == "" {
		return nil
	}
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return &InfluxRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		runID:    runID,
		logger:   logger,
	}
}

// Record implements capture.Recorder. Write failures are logged, never returned.
func (r *InfluxRecorder) Record(ctx context.Context, res capture.Result) {
	if err := r.writeAPI.WritePoint(ctx, Point(r.runID, res, time.Now())); err != nil {
		r.logger.Error("error writing point to InfluxDB", "target", res.Target, "step", res.Step, "error", err)
	}
}

// Close releases the client.
func (r *InfluxRecorder) Close() {
	r.client.Close()
}

// Point builds the InfluxDB point for a capture result.
func Point(runID string, res capture.Result, at time.Time) *write.Point {
	p := influxdb2.NewPointWithMeasurement("capture").
		AddTag("run", runID).
		AddTag("target", res.Target).
		AddTag("step", string(res.Step)).
		AddTag("status", string(res.Status)).
		AddField("duration_ms", res.Elapsed.Milliseconds()).
		AddField("file", res.File).
		SetTime(at)
	if res.Err != nil {
		p.AddField("error", res.Err.Error())
	}
	return p
}
