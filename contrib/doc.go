// Package contrib holds one package per database tour plus the helpers
// they share.
//
// The tours are [github.com/surrealdb/dbtour/contrib/relational],
// [github.com/surrealdb/dbtour/contrib/document],
// [github.com/surrealdb/dbtour/contrib/timeseries],
// [github.com/surrealdb/dbtour/contrib/vector],
// [github.com/surrealdb/dbtour/contrib/graph],
// [github.com/surrealdb/dbtour/contrib/columnar],
// [github.com/surrealdb/dbtour/contrib/keyvalue] and
// [github.com/surrealdb/dbtour/contrib/geospatial]. Each can be used on its
// own: construct it with New and call Run, or drive its Demo against a
// client you already hold.
//
// [github.com/surrealdb/dbtour/contrib/fluxql] builds Flux pipelines for
// the time-series tour, and [github.com/surrealdb/dbtour/contrib/testenv]
// gates integration tests that need live servers.
package contrib
