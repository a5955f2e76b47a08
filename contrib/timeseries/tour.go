package timeseries

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/query"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/surrealdb/dbtour/internal/rand"
	"github.com/surrealdb/dbtour/pkg/config"
	"github.com/surrealdb/dbtour/pkg/report"
)

const (
	sensorCount      = 3
	minutes          = 60
	anomalyThreshold = 22.0
)

// Tour runs the InfluxDB walkthrough.
type Tour struct {
	cfg    config.InfluxConfig
	report *report.Report
	log    zerolog.Logger
	rng    *rand.Rand
}

func New(cfg config.InfluxConfig, rep *report.Report, log zerolog.Logger) *Tour {
	return &Tour{
		cfg:    cfg,
		report: rep,
		log:    log.With().Str("tour", "timeseries").Logger(),
		rng:    rand.New(),
	}
}

func (t *Tour) Name() string { return "timeseries" }

func (t *Tour) Description() string {
	return "InfluxDB: sensor points, mean, windowed mean, anomalies, derivative"
}

func (t *Tour) connect(ctx context.Context) (influxdb2.Client, error) {
	client := influxdb2.NewClient(t.cfg.URL, t.cfg.Token)
	ok, err := client.Ping(ctx)
	if err == nil && !ok {
		err = fmt.Errorf("server at %s is not ready", t.cfg.URL)
	}
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}
	return client, nil
}

func (t *Tour) Ping(ctx context.Context) error {
	client, err := t.connect(ctx)
	if err != nil {
		return err
	}
	client.Close()
	return nil
}

func (t *Tour) Run(ctx context.Context) error {
	client, err := t.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	demo := &Demo{
		Writer: client.WriteAPIBlocking(t.cfg.Org, t.cfg.Bucket),
		Reader: client.QueryAPI(t.cfg.Org),
		Bucket: t.cfg.Bucket,
		Report: t.report,
		Rand:   t.rng,
		Now:    time.Now().UTC(),
	}
	return demo.RunAll(ctx)
}

// Demo holds the write and query APIs of one org and bucket.
type Demo struct {
	Writer api.WriteAPIBlocking
	Reader api.QueryAPI
	Bucket string
	Report *report.Report
	Rand   *rand.Rand
	Now    time.Time
}

func (d *Demo) RunAll(ctx context.Context) error {
	if err := d.WriteReadings(ctx); err != nil {
		return fmt.Errorf("failed to write readings: %w", err)
	}

	queries := []struct {
		title string
		flux  string
		line  func(*query.FluxRecord) (string, error)
	}{
		{"Mean temperature over the last hour", MeanTemperature(d.Bucket), meanLine},
		{"Mean temperature per 10 minute window", WindowedMean(d.Bucket), readingLine},
		{fmt.Sprintf("Temperature anomalies (>%g°C)", anomalyThreshold), Anomalies(d.Bucket, anomalyThreshold), readingLine},
		{"Temperature rate of change (°C/min)", RateOfChange(d.Bucket), rateLine},
	}
	for _, q := range queries {
		d.Report.Section(q.title)
		if err := d.each(ctx, q.flux, func(rec *query.FluxRecord) error {
			line, err := q.line(rec)
			if err != nil {
				return err
			}
			d.Report.Printf("%s", line)
			return nil
		}); err != nil {
			return fmt.Errorf("%s: %w", q.title, err)
		}
	}
	return d.Report.Err()
}

// WriteReadings writes all generated points in one blocking request.
func (d *Demo) WriteReadings(ctx context.Context) error {
	readings := GenerateReadings(d.Rand, d.Now, sensorCount, minutes)
	points := make([]*write.Point, len(readings))
	for i, r := range readings {
		points[i] = r.Point()
	}
	if err := d.Writer.WritePoint(ctx, points...); err != nil {
		return err
	}
	d.Report.Printf("Data written successfully: %d points", len(points))
	return nil
}

func (d *Demo) each(ctx context.Context, flux string, fn func(*query.FluxRecord) error) error {
	result, err := d.Reader.Query(ctx, flux)
	if err != nil {
		return err
	}
	defer result.Close()

	for result.Next() {
		if err := fn(result.Record()); err != nil {
			return err
		}
	}
	return result.Err()
}

func floatValue(rec *query.FluxRecord) (float64, error) {
	switch v := rec.Value().(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("unexpected %s value %T", rec.Field(), rec.Value())
	}
}

func meanLine(rec *query.FluxRecord) (string, error) {
	v, err := floatValue(rec)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Sensor: %v, mean temperature: %.2f°C", rec.ValueByKey("sensor_id"), v), nil
}

// readingLine prints a timestamped value per sensor.
func readingLine(rec *query.FluxRecord) (string, error) {
	v, err := floatValue(rec)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Time: %s, Sensor: %v, Temperature: %.2f°C",
		rec.Time().Format(time.RFC3339), rec.ValueByKey("sensor_id"), v), nil
}

func rateLine(rec *query.FluxRecord) (string, error) {
	v, err := floatValue(rec)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Time: %s, Sensor: %v, Change rate: %.3f°C/min",
		rec.Time().Format(time.RFC3339), rec.ValueByKey("sensor_id"), v), nil
}
