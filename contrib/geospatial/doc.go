// Package geospatial walks through Tile38: points with fields, a polygon
// geofence with a webhook, proximity search and position updates.
//
// Tile38 speaks RESP, so the tour talks to it with go-redis and raw
// commands. The connection is switched to JSON output on connect and every
// reply is decoded from JSON.
package geospatial
