package fluxql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/surrealdb/dbtour/contrib/fluxql"
)

func TestFromQuotesBucket(t *testing.T) {
	q := fluxql.From(`odd "bucket"`)
	assert.Equal(t, `from(bucket: "odd \"bucket\"")`, q.Build())
}

func TestRangeWithStop(t *testing.T) {
	q := fluxql.From("b").Range("-2h", "-1h")
	assert.Equal(t, "from(bucket: \"b\")\n  |> range(start: -2h, stop: -1h)", q.Build())
}

func TestPredicateLiterals(t *testing.T) {
	tests := []struct {
		name string
		p    fluxql.Predicate
		want string
	}{
		{"string", fluxql.Eq("sensor_id", "sensor_1"), `r["sensor_id"] == "sensor_1"`},
		{"int", fluxql.Gte("count", 3), `r["count"] >= 3`},
		{"whole float", fluxql.Lt("_value", 20.0), `r["_value"] < 20.0`},
		{"fraction", fluxql.Lte("_value", 19.5), `r["_value"] <= 19.5`},
		{"bool", fluxql.Eq("ok", true), `r["ok"] == true`},
		{"single and", fluxql.And(fluxql.Eq("a", "x")), `r["a"] == "x"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := fluxql.From("b").Where(tt.p)
			assert.Equal(t, "from(bucket: \"b\")\n  |> filter(fn: (r) => "+tt.want+")", q.Build())
		})
	}
}

func TestDerivativeNonNegative(t *testing.T) {
	q := fluxql.From("b").Derivative("1s", true)
	assert.Contains(t, q.Build(), "derivative(unit: 1s, nonNegative: true)")
}
