// Package dbtour runs short, self-contained walkthroughs of eight database
// engines, each one talking to a locally running server through the Go
// client library most projects use for it.
//
// # Tours
//
// Each tour lives in its own package under contrib and implements [Tour]:
//
//   - relational: PostgreSQL through GORM
//   - document: MongoDB through the official driver
//   - timeseries: InfluxDB 2 with Flux queries
//   - vector: Chroma over its REST API
//   - graph: Neo4j with Cypher and Graph Data Science
//   - columnar: ClickHouse over the native protocol
//   - keyvalue: Redis through go-redis
//   - geospatial: Tile38 over RESP
//
// A tour opens its own client, performs its steps in order, prints results
// to a [report.Report] and closes the client on every path. Tours share no
// state, so any subset can run in any order.
//
// # Command
//
// [Main] parses "dbtour [flags] <command> [tour...]" where command is list,
// run or ping. Connection settings come from [config.Load]: built-in
// defaults, an optional YAML file and DBTOUR_* environment variables.
package dbtour
