package columnar

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/dbtour/contrib/testenv"
	"github.com/surrealdb/dbtour/internal/rand"
	"github.com/surrealdb/dbtour/pkg/config"
	"github.com/surrealdb/dbtour/pkg/report"
)

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 500, time.UTC)

func TestBatches(t *testing.T) {
	assert.Equal(t, []span{{0, 100}, {100, 200}, {200, 250}}, batches(250, 100))
	assert.Equal(t, []span{{0, 10}}, batches(10, 100))
	assert.Equal(t, []span{{0, 100}}, batches(100, 100))
	assert.Empty(t, batches(0, 100))
	assert.Empty(t, batches(10, 0))
}

func TestNewUserActionRanges(t *testing.T) {
	rng := rand.NewSeeded(1, 2)
	for range 1000 {
		a := NewUserAction(rng, testNow)
		assert.True(t, !a.Timestamp.After(testNow) && a.Timestamp.After(testNow.Add(-24*time.Hour)), a.Timestamp)
		assert.Zero(t, a.Timestamp.Nanosecond())
		assert.GreaterOrEqual(t, a.UserID, uint32(1))
		assert.LessOrEqual(t, a.UserID, uint32(10000))
		assert.GreaterOrEqual(t, a.DurationMS, uint32(50))
		assert.Less(t, a.DurationMS, uint32(5000))
		assert.Contains(t, actions, a.Action)
		assert.Contains(t, pages, a.Page)
		assert.Contains(t, platforms, a.Platform)
		assert.Contains(t, countries, a.Country)
	}
}

func TestNewMetricRanges(t *testing.T) {
	rng := rand.NewSeeded(3, 4)
	seen := map[uint16]int{}
	for range 1000 {
		m := NewMetric(rng, testNow)
		seen[m.StatusCode]++
		assert.GreaterOrEqual(t, m.ResponseTimeMS, uint32(10))
		assert.Less(t, m.ResponseTimeMS, uint32(1000))
		assert.GreaterOrEqual(t, m.DataSizeBytes, uint32(100))
		assert.Less(t, m.DataSizeBytes, uint32(10000))
		assert.Empty(t, m.ErrorType)
	}
	assert.Len(t, seen, 3)
	assert.Greater(t, seen[200], seen[500], "200 is three times as likely")
}

func TestRowValuesMatchColumnOrder(t *testing.T) {
	a := NewUserAction(rand.NewSeeded(1, 1), testNow)
	assert.Len(t, a.values(), 7)
	assert.IsType(t, uint32(0), a.values()[1])

	m := NewMetric(rand.NewSeeded(1, 1), testNow)
	assert.Len(t, m.values(), 7)
	assert.IsType(t, uint16(0), m.values()[4])
}

func TestViewCreatedAfterSourceTable(t *testing.T) {
	metrics, view := -1, -1
	for i, stmt := range createStatements {
		if strings.Contains(stmt, "TABLE IF NOT EXISTS performance_metrics") {
			metrics = i
		}
		if strings.Contains(stmt, "MATERIALIZED VIEW") {
			view = i
		}
	}
	require.NotEqual(t, -1, metrics)
	assert.Greater(t, view, metrics)
	assert.Equal(t, "DROP VIEW IF EXISTS metrics_by_minute", dropStatements[0], "the view goes before its source")
}

func TestRunIntegration(t *testing.T) {
	cfg := testenv.Config(t)
	ch := cfg.ClickHouse
	ch.UserActions = 2000
	ch.Metrics = 1000
	ch.BatchSize = 500

	var out bytes.Buffer
	tour := New(ch, report.New(&out), testenv.Logger(t))
	require.NoError(t, tour.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Inserted 2000 user actions and 1000 performance metrics")
	assert.Contains(t, text, "=== Metrics by minute ===\nMinute: ")
}

func TestNewDefaults(t *testing.T) {
	tour := New(config.New().ClickHouse, report.New(&bytes.Buffer{}), testenv.Logger(t))
	assert.Equal(t, "columnar", tour.Name())
	assert.Equal(t, 1_000_000, tour.cfg.UserActions)
}
