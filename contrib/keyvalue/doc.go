// Package keyvalue tours Redis as a cache and a toolbox of small data
// structures.
//
// The tour flushes the selected database and then walks through:
//
//   - strings, counters and expiring keys
//   - cache-aside reads in front of a slow loader
//   - sessions stored as hashes with a sliding expiry
//   - a fixed window rate limiter
//   - publishing an event
//   - a sorted set leaderboard
//
// Every step prints what it did to the report. Point DBTOUR_REDIS_URL at a
// throwaway database: the tour starts with FLUSHDB.
package keyvalue
