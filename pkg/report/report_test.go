package report_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/surrealdb/dbtour/pkg/report"
)

func TestReportLayout(t *testing.T) {
	var buf bytes.Buffer
	r := report.New(&buf)

	r.Section("Basic operations")
	r.Printf("Visits: %d", 2)
	r.Printf("TTL: %ds\n", 60)

	require.NoError(t, r.Err())
	assert.Equal(t, "\n=== Basic operations ===\nVisits: 2\nTTL: 60s\n", buf.String())
}

func TestReportValue(t *testing.T) {
	var buf bytes.Buffer
	r := report.New(&buf)

	r.Value("Found user", map[string]any{"email": "john@example.com", "age": 30})

	assert.Equal(t, "Found user: {\n  \"age\": 30,\n  \"email\": \"john@example.com\"\n}\n", buf.String())
}

func TestReportValueFallback(t *testing.T) {
	var buf bytes.Buffer
	r := report.New(&buf)

	r.Value("Channel", make(chan int))

	assert.Contains(t, buf.String(), "Channel: 0x")
}

type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	w.n++
	return 0, errors.New("closed")
}

func TestReportStopsAfterError(t *testing.T) {
	w := &failingWriter{}
	r := report.New(w)

	r.Printf("one")
	r.Printf("two")

	require.EqualError(t, r.Err(), "closed")
	assert.Equal(t, 1, w.n)
}
