// Package timeseries walks through InfluxDB 2: it writes an hour of
// simulated sensor readings and runs four Flux queries over them (hourly
// mean, windowed mean, threshold anomalies and rate of change).
//
// Flux text is produced with [github.com/surrealdb/dbtour/contrib/fluxql].
package timeseries
