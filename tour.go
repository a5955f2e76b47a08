package dbtour

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/surrealdb/dbtour/contrib/columnar"
	"github.com/surrealdb/dbtour/contrib/document"
	"github.com/surrealdb/dbtour/contrib/geospatial"
	"github.com/surrealdb/dbtour/contrib/graph"
	"github.com/surrealdb/dbtour/contrib/keyvalue"
	"github.com/surrealdb/dbtour/contrib/relational"
	"github.com/surrealdb/dbtour/contrib/timeseries"
	"github.com/surrealdb/dbtour/contrib/vector"
	"github.com/surrealdb/dbtour/pkg/config"
	"github.com/surrealdb/dbtour/pkg/report"
)

// Tour is one self-contained walkthrough of a database. Ping and Run open
// their own client and close it before returning.
type Tour interface {
	Name() string
	Description() string
	// Ping opens a client, checks the server answers and closes the client.
	Ping(ctx context.Context) error
	// Run performs every step of the walkthrough and prints the results.
	Run(ctx context.Context) error
}

// categories maps tour names to the kind of database they demonstrate.
var categories = map[string]string{
	"relational": "relational",
	"document":   "document",
	"timeseries": "time-series",
	"vector":     "vector similarity",
	"graph":      "graph",
	"columnar":   "columnar analytics",
	"keyvalue":   "in-memory key-value",
	"geospatial": "geospatial",
}

// Category returns the database category of a tour, or "other" for tours
// outside the built-in set.
func Category(t Tour) string {
	if c, ok := categories[t.Name()]; ok {
		return c
	}
	return "other"
}

// Tours returns every tour in the default run order.
func Tours(cfg *config.Config, rep *report.Report, log zerolog.Logger) []Tour {
	return []Tour{
		relational.New(cfg.Postgres, rep, log),
		document.New(cfg.Mongo, rep, log),
		timeseries.New(cfg.Influx, rep, log),
		vector.New(cfg.Chroma, rep, log),
		graph.New(cfg.Neo4j, rep, log),
		columnar.New(cfg.ClickHouse, rep, log),
		keyvalue.New(cfg.Redis, rep, log),
		geospatial.New(cfg.Tile38, rep, log),
	}
}

// Select returns the named tours in the order given, or all tours when
// names is empty. Unknown names wrap ErrUnknownTour.
func Select(tours []Tour, names []string) ([]Tour, error) {
	if len(names) == 0 {
		return tours, nil
	}

	byName := make(map[string]Tour, len(tours))
	known := make([]string, 0, len(tours))
	for _, t := range tours {
		byName[t.Name()] = t
		known = append(known, t.Name())
	}

	selected := make([]Tour, 0, len(names))
	for _, name := range names {
		t, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownTour, name, strings.Join(known, ", "))
		}
		selected = append(selected, t)
	}
	return selected, nil
}
