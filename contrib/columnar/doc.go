// Package columnar walks through ClickHouse: MergeTree tables, a
// SummingMergeTree materialized view, bulk inserts of generated events and
// a handful of analytical queries.
//
// The materialized view is created before the data is inserted. A view only
// sees rows inserted after it exists, so creating it last would leave it
// empty.
package columnar
