// Package fluxql builds InfluxDB Flux pipelines with a fluent interface.
//
// A pipeline starts at a bucket and chains transformations with the pipe
// forward operator:
//
//	q := fluxql.From("mybucket").
//		Range("-1h").
//		Measurement("sensor_readings").
//		Field("temperature").
//		Mean()
//
// Build renders the pipeline with one transformation per line. String
// values are quoted and escaped; durations and units are emitted as given.
package fluxql
