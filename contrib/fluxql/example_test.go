package fluxql_test

import (
	"fmt"

	"github.com/surrealdb/dbtour/contrib/fluxql"
)

// ExampleFrom shows the mean temperature of the last hour.
func ExampleFrom() {
	q := fluxql.From("mybucket").
		Range("-1h").
		Measurement("sensor_readings").
		Field("temperature").
		Mean()

	fmt.Println(q.Build())

	// Output:
	// from(bucket: "mybucket")
	//   |> range(start: -1h)
	//   |> filter(fn: (r) => r["_measurement"] == "sensor_readings")
	//   |> filter(fn: (r) => r["_field"] == "temperature")
	//   |> mean()
}

// ExampleQuery_Window shows a windowed mean that is ungrouped again
// so that all windows end up in one table.
func ExampleQuery_Window() {
	q := fluxql.From("mybucket").
		Range("-1h").
		Measurement("sensor_readings").
		Field("temperature").
		Window("10m").
		Mean().
		Duplicate("_stop", "_time").
		Window("inf")

	fmt.Println(q)

	// Output:
	// from(bucket: "mybucket")
	//   |> range(start: -1h)
	//   |> filter(fn: (r) => r["_measurement"] == "sensor_readings")
	//   |> filter(fn: (r) => r["_field"] == "temperature")
	//   |> window(every: 10m)
	//   |> mean()
	//   |> duplicate(column: "_stop", as: "_time")
	//   |> window(every: inf)
}

// ExampleGt filters readings above a threshold.
func ExampleGt() {
	q := fluxql.From("mybucket").
		Range("-1h").
		Where(fluxql.And(
			fluxql.Eq("_measurement", "sensor_readings"),
			fluxql.Eq("_field", "temperature"),
		)).
		Where(fluxql.Gt("_value", 22.0))

	fmt.Println(q)

	// Output:
	// from(bucket: "mybucket")
	//   |> range(start: -1h)
	//   |> filter(fn: (r) => (r["_measurement"] == "sensor_readings") and (r["_field"] == "temperature"))
	//   |> filter(fn: (r) => r["_value"] > 22.0)
}

// ExampleQuery_Derivative computes the rate of change per minute.
func ExampleQuery_Derivative() {
	q := fluxql.From("mybucket").
		Range("-1h").
		Measurement("sensor_readings").
		Field("temperature").
		Derivative("1m", false)

	fmt.Println(q)

	// Output:
	// from(bucket: "mybucket")
	//   |> range(start: -1h)
	//   |> filter(fn: (r) => r["_measurement"] == "sensor_readings")
	//   |> filter(fn: (r) => r["_field"] == "temperature")
	//   |> derivative(unit: 1m)
}
