package timeseries

import "github.com/surrealdb/dbtour/contrib/fluxql"

func temperatures(bucket string) *fluxql.Query {
	return fluxql.From(bucket).
		Range("-1h").
		Measurement(measurement).
		Field("temperature")
}

// MeanTemperature is the mean temperature of the last hour per sensor.
func MeanTemperature(bucket string) string {
	return temperatures(bucket).Mean().Build()
}

// WindowedMean is the mean temperature per 10 minute window, stamped with
// the window end.
func WindowedMean(bucket string) string {
	return temperatures(bucket).
		Window("10m").
		Mean().
		Duplicate("_stop", "_time").
		Window("inf").
		Build()
}

// Anomalies are readings above threshold.
func Anomalies(bucket string, threshold float64) string {
	return temperatures(bucket).Where(fluxql.Gt("_value", threshold)).Build()
}

// RateOfChange is the temperature derivative per minute.
func RateOfChange(bucket string) string {
	return temperatures(bucket).Derivative("1m", false).Build()
}
