package columnar

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/rs/zerolog"
	"github.com/surrealdb/dbtour/internal/rand"
	"github.com/surrealdb/dbtour/pkg/config"
	"github.com/surrealdb/dbtour/pkg/report"
)

// Tour runs the ClickHouse walkthrough.
type Tour struct {
	cfg    config.ClickHouseConfig
	report *report.Report
	log    zerolog.Logger
	rng    *rand.Rand
}

func New(cfg config.ClickHouseConfig, rep *report.Report, log zerolog.Logger) *Tour {
	return &Tour{
		cfg:    cfg,
		report: rep,
		log:    log.With().Str("tour", "columnar").Logger(),
		rng:    rand.New(),
	}
}

func (t *Tour) Name() string { return "columnar" }

func (t *Tour) Description() string {
	return "ClickHouse: MergeTree tables, bulk inserts, analytics, materialized view"
}

func (t *Tour) connect(ctx context.Context) (driver.Conn, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{t.cfg.Addr},
		Auth: clickhouse.Auth{
			Database: t.cfg.Database,
			Username: t.cfg.Username,
			Password: t.cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open ClickHouse connection: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	return conn, nil
}

func (t *Tour) Ping(ctx context.Context) error {
	conn, err := t.connect(ctx)
	if err != nil {
		return err
	}
	return conn.Close()
}

func (t *Tour) Run(ctx context.Context) error {
	conn, err := t.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	demo := &Demo{
		Conn:        conn,
		Report:      t.report,
		Log:         t.log,
		Rand:        t.rng,
		UserActions: t.cfg.UserActions,
		Metrics:     t.cfg.Metrics,
		BatchSize:   t.cfg.BatchSize,
		Now:         time.Now(),
	}
	return demo.RunAll(ctx)
}

// Demo holds the connection and the sizes of the generated data.
type Demo struct {
	Conn        driver.Conn
	Report      *report.Report
	Log         zerolog.Logger
	Rand        *rand.Rand
	UserActions int
	Metrics     int
	BatchSize   int
	Now         time.Time
}

func (d *Demo) RunAll(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"create schema", d.CreateSchema},
		{"generate data", d.GenerateData},
		{"analytics", d.Analytics},
		{"materialized view", d.MaterializedView},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return d.Report.Err()
}

// CreateSchema drops what an earlier run left and creates the tables and
// the view.
func (d *Demo) CreateSchema(ctx context.Context) error {
	for _, stmt := range append(append([]string{}, dropStatements...), createStatements...) {
		if err := d.Conn.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (d *Demo) GenerateData(ctx context.Context) error {
	start := time.Now()
	err := d.insert(ctx, userActionsTable, d.UserActions, func() []any {
		return NewUserAction(d.Rand, d.Now).values()
	})
	if err != nil {
		return err
	}
	err = d.insert(ctx, metricsTable, d.Metrics, func() []any {
		return NewMetric(d.Rand, d.Now).values()
	})
	if err != nil {
		return err
	}

	d.Log.Info().
		Int(userActionsTable, d.UserActions).
		Int(metricsTable, d.Metrics).
		Dur("elapsed", time.Since(start)).
		Msg("sample data inserted")
	d.Report.Printf("Inserted %d user actions and %d performance metrics", d.UserActions, d.Metrics)
	return nil
}

// insert appends total generated rows to table, sending one batch per
// BatchSize rows.
func (d *Demo) insert(ctx context.Context, table string, total int, row func() []any) error {
	for _, b := range batches(total, d.BatchSize) {
		batch, err := d.Conn.PrepareBatch(ctx, "INSERT INTO "+table)
		if err != nil {
			return fmt.Errorf("failed to prepare batch for %s: %w", table, err)
		}
		for i := b.Start; i < b.End; i++ {
			if err := batch.Append(row()...); err != nil {
				batch.Abort()
				return fmt.Errorf("failed to append row %d to %s: %w", i, table, err)
			}
		}
		if err := batch.Send(); err != nil {
			return fmt.Errorf("failed to send rows %d-%d to %s: %w", b.Start, b.End, table, err)
		}
		d.Log.Debug().Str("table", table).Int("rows", b.End).Msg("batch sent")
	}
	return nil
}

func (d *Demo) Analytics(ctx context.Context) error {
	var hourly []HourlyActivity
	if err := d.Conn.Select(ctx, &hourly, hourlyActivityQuery); err != nil {
		return fmt.Errorf("hourly activity: %w", err)
	}
	d.Report.Section("User activity by hour")
	for _, r := range hourly {
		d.Report.Printf("Hour: %s, Actions: %d, Users: %d, Avg Duration: %.2fms",
			r.Hour.Format(time.DateTime), r.Actions, r.UniqueUsers, r.AvgDuration)
	}

	var dist []PlatformCountry
	if err := d.Conn.Select(ctx, &dist, platformCountryQuery); err != nil {
		return fmt.Errorf("platform distribution: %w", err)
	}
	d.Report.Section("Users by platform and country")
	for _, r := range dist {
		d.Report.Printf("Platform: %s, Country: %s, Actions: %d, Users: %d", r.Platform, r.Country, r.Actions, r.Users)
	}

	var perf []ServicePerformance
	if err := d.Conn.Select(ctx, &perf, servicePerformanceQuery); err != nil {
		return fmt.Errorf("service performance: %w", err)
	}
	d.Report.Section("Service performance")
	for _, r := range perf {
		d.Report.Printf("Service: %s, Endpoint: %s", r.Service, r.Endpoint)
		d.Report.Printf("Requests: %d, Avg Time: %.2fms, P95: %.0fms, Errors: %d",
			r.Requests, r.AvgResponseTime, r.P95ResponseTime, r.Errors)
	}

	var cohorts []CohortRetention
	if err := d.Conn.Select(ctx, &cohorts, cohortRetentionQuery); err != nil {
		return fmt.Errorf("cohort retention: %w", err)
	}
	d.Report.Section("Daily retention")
	for _, r := range cohorts {
		d.Report.Printf("Cohort: %s, Day: %d, Active Users: %d", r.CohortDate.Format(time.DateOnly), r.DayNumber, r.ActiveUsers)
	}
	return nil
}

func (d *Demo) MaterializedView(ctx context.Context) error {
	var rows []MinuteMetrics
	if err := d.Conn.Select(ctx, &rows, latestMinutesQuery); err != nil {
		return err
	}
	d.Report.Section("Metrics by minute")
	for _, r := range rows {
		d.Report.Printf("Minute: %s, Service: %s, Endpoint: %s", r.Minute.Format(time.DateTime), r.Service, r.Endpoint)
		d.Report.Printf("Requests: %d, Avg Response Time: %.2fms", r.Requests, r.AvgResponseTime)
	}
	return nil
}
