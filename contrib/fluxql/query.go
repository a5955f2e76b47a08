package fluxql

import (
	"fmt"
	"strconv"
	"strings"
)

// Query is a Flux pipeline under construction.
type Query struct {
	bucket string
	stages []string
}

// From starts a pipeline reading from bucket.
func From(bucket string) *Query {
	return &Query{bucket: bucket}
}

// Range restricts the time range. start and stop are Flux durations or
// times such as "-1h" or "2024-01-01T00:00:00Z". An empty stop is omitted.
func (q *Query) Range(start string, stop ...string) *Query {
	if len(stop) > 0 && stop[0] != "" {
		return q.pipe(fmt.Sprintf("range(start: %s, stop: %s)", start, stop[0]))
	}
	return q.pipe(fmt.Sprintf("range(start: %s)", start))
}

// Measurement keeps rows of the given measurement.
func (q *Query) Measurement(name string) *Query {
	return q.Where(Eq("_measurement", name))
}

// Field keeps rows of the given field.
func (q *Query) Field(name string) *Query {
	return q.Where(Eq("_field", name))
}

// Where adds a filter with the given predicate.
func (q *Query) Where(p Predicate) *Query {
	return q.pipe(fmt.Sprintf("filter(fn: (r) => %s)", p.expr))
}

// Window groups rows into windows of the given duration.
// "inf" ungroups a previous window.
func (q *Query) Window(every string) *Query {
	return q.pipe(fmt.Sprintf("window(every: %s)", every))
}

func (q *Query) Mean() *Query {
	return q.pipe("mean()")
}

// Duplicate copies column into a new column named as.
func (q *Query) Duplicate(column, as string) *Query {
	return q.pipe(fmt.Sprintf("duplicate(column: %s, as: %s)", quote(column), quote(as)))
}

// Derivative computes the rate of change per unit.
func (q *Query) Derivative(unit string, nonNegative bool) *Query {
	if nonNegative {
		return q.pipe(fmt.Sprintf("derivative(unit: %s, nonNegative: true)", unit))
	}
	return q.pipe(fmt.Sprintf("derivative(unit: %s)", unit))
}

func (q *Query) pipe(stage string) *Query {
	q.stages = append(q.stages, stage)
	return q
}

// Build renders the pipeline.
func (q *Query) Build() string {
	var b strings.Builder
	b.WriteString("from(bucket: ")
	b.WriteString(quote(q.bucket))
	b.WriteString(")")
	for _, s := range q.stages {
		b.WriteString("\n  |> ")
		b.WriteString(s)
	}
	return b.String()
}

func (q *Query) String() string {
	return q.Build()
}

func quote(s string) string {
	return strconv.Quote(s)
}
