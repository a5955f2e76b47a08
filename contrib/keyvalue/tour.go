package keyvalue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/surrealdb/dbtour/pkg/config"
	"github.com/surrealdb/dbtour/pkg/report"
)

// Tour runs the Redis walkthrough.
type Tour struct {
	cfg    config.RedisConfig
	report *report.Report
	log    zerolog.Logger
}

func New(cfg config.RedisConfig, rep *report.Report, log zerolog.Logger) *Tour {
	return &Tour{cfg: cfg, report: rep, log: log.With().Str("tour", "keyvalue").Logger()}
}

func (t *Tour) Name() string { return "keyvalue" }

func (t *Tour) Description() string {
	return "Redis: strings, cache-aside, sessions, rate limiting, pub/sub, leaderboard"
}

func (t *Tour) connect(ctx context.Context) (*redis.Client, error) {
	opts, err := redis.ParseURL(t.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	t.log.Debug().Str("addr", opts.Addr).Int("db", opts.DB).Msg("connected")
	return client, nil
}

func (t *Tour) Ping(ctx context.Context) error {
	client, err := t.connect(ctx)
	if err != nil {
		return err
	}
	return client.Close()
}

func (t *Tour) Run(ctx context.Context) error {
	client, err := t.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("failed to flush database: %w", err)
	}

	demo := NewDemo(client, t.report, WithLoadDelay(t.cfg.LoadDelay))
	return demo.RunAll(ctx)
}

// Demo holds the individual steps so they can run against any client.
type Demo struct {
	rdb    redis.Cmdable
	report *report.Report
	loader func(ctx context.Context, userID int) (UserData, error)
	now    func() time.Time
}

type Option func(*Demo)

// WithLoadDelay simulates a slow backend in the caching step.
func WithLoadDelay(d time.Duration) Option {
	return func(demo *Demo) {
		demo.loader = slowLoader(d)
	}
}

// WithClock overrides time.Now for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(demo *Demo) {
		demo.now = now
	}
}

func NewDemo(rdb redis.Cmdable, rep *report.Report, opts ...Option) *Demo {
	d := &Demo{
		rdb:    rdb,
		report: rep,
		loader: slowLoader(time.Second),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// RunAll runs every step in order and stops at the first error.
func (d *Demo) RunAll(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"basic operations", d.BasicOperations},
		{"caching", d.Caching},
		{"sessions", d.SessionManagement},
		{"rate limiting", d.RateLimiting},
		{"pub/sub", d.PubSub},
		{"sorted sets", d.SortedSet},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return d.report.Err()
}
