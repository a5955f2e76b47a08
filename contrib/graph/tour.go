package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"
	"github.com/surrealdb/dbtour/pkg/config"
	"github.com/surrealdb/dbtour/pkg/report"
)

// ErrPluginUnavailable wraps failures of the Graph Data Science calls.
var ErrPluginUnavailable = errors.New("graph data science plugin unavailable")

// Tour runs the Neo4j walkthrough.
type Tour struct {
	cfg    config.Neo4jConfig
	report *report.Report
	log    zerolog.Logger
}

func New(cfg config.Neo4jConfig, rep *report.Report, log zerolog.Logger) *Tour {
	return &Tour{cfg: cfg, report: rep, log: log.With().Str("tour", "graph").Logger()}
}

func (t *Tour) Name() string { return "graph" }

func (t *Tour) Description() string {
	return "Neo4j: social network, traversals, recommendations, PageRank"
}

func (t *Tour) connect(ctx context.Context) (*Executor, error) {
	exec, err := NewExecutor(t.cfg.URI, t.cfg.Username, t.cfg.Password, t.cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := exec.Verify(ctx); err != nil {
		exec.Close(ctx)
		return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
	}
	return exec, nil
}

func (t *Tour) Ping(ctx context.Context) error {
	exec, err := t.connect(ctx)
	if err != nil {
		return err
	}
	return exec.Close(ctx)
}

func (t *Tour) Run(ctx context.Context) error {
	exec, err := t.connect(ctx)
	if err != nil {
		return err
	}
	defer exec.Close(context.WithoutCancel(ctx))

	return NewDemo(exec, t.report, t.log).RunAll(ctx)
}

// Demo holds the steps so they can run against any Runner.
type Demo struct {
	runner Runner
	report *report.Report
	log    zerolog.Logger
}

func NewDemo(runner Runner, rep *report.Report, log zerolog.Logger) *Demo {
	return &Demo{runner: runner, report: rep, log: log}
}

// RunAll runs every step in order. A PageRank failure is logged and does
// not fail the run.
func (d *Demo) RunAll(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"clear database", d.Clear},
		{"create network", d.CreateNetwork},
		{"relationship queries", d.RelationshipQueries},
		{"recommendations", d.Recommendations},
	}
	for _, s := range steps {
		if err := s.fn(ctx); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}

	if err := d.PageRank(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.log.Warn().Err(err).Msg("pagerank skipped")
		d.report.Printf("Graph Data Science plugin is required for graph algorithms")
	}
	return d.report.Err()
}

func (d *Demo) Clear(ctx context.Context) error {
	_, err := d.runner.Run(ctx, clearDatabase, nil)
	return err
}

func (d *Demo) CreateNetwork(ctx context.Context) error {
	if _, err := d.runner.Run(ctx, createNetwork, nil); err != nil {
		return err
	}
	d.report.Printf("Social network created")
	return nil
}

func (d *Demo) RelationshipQueries(ctx context.Context) error {
	res, err := d.runner.Run(ctx, friendsOfFriends, map[string]any{"name": "Alice"})
	if err != nil {
		return err
	}
	d.report.Section("Friends of friends of Alice")
	for _, rec := range res.Records {
		name, err := value[string](rec, "name")
		if err != nil {
			return err
		}
		d.report.Printf("%s", name)
	}

	res, err = d.runner.Run(ctx, popularPosts, nil)
	if err != nil {
		return err
	}
	d.report.Section("Popular posts")
	for _, rec := range res.Records {
		content, err := value[string](rec, "content")
		if err != nil {
			return err
		}
		likes, err := value[int64](rec, "likes")
		if err != nil {
			return err
		}
		d.report.Printf("Content: %s, Likes: %d", content, likes)
	}

	res, err = d.runner.Run(ctx, shortestPath, map[string]any{"from": "Alice", "to": "Charlie"})
	if err != nil {
		return err
	}
	d.report.Section("Shortest path between Alice and Charlie")
	for _, rec := range res.Records {
		path, err := value[[]any](rec, "path")
		if err != nil {
			return err
		}
		names := make([]string, len(path))
		for i, n := range path {
			names[i] = fmt.Sprint(n)
		}
		d.report.Printf("%s", strings.Join(names, " -> "))
	}
	return nil
}

func (d *Demo) Recommendations(ctx context.Context) error {
	res, err := d.runner.Run(ctx, friendRecommendations, map[string]any{"name": "Alice"})
	if err != nil {
		return err
	}
	d.report.Section("Friend recommendations for Alice")
	for _, rec := range res.Records {
		name, err := value[string](rec, "recommended_friend")
		if err != nil {
			return err
		}
		common, err := value[int64](rec, "common_friends")
		if err != nil {
			return err
		}
		d.report.Printf("Recommended: %s, common friends: %d", name, common)
	}

	res, err = d.runner.Run(ctx, postRecommendations, map[string]any{"name": "Alice"})
	if err != nil {
		return err
	}
	d.report.Section("Post recommendations for Alice")
	for _, rec := range res.Records {
		content, err := value[string](rec, "content")
		if err != nil {
			return err
		}
		likes, err := value[int64](rec, "friend_likes")
		if err != nil {
			return err
		}
		d.report.Printf("Post: %s, likes from friends: %d", content, likes)
	}
	return nil
}

// PageRank projects the FRIENDS graph, writes the pageRank property, prints
// it and drops the projection. Errors wrap ErrPluginUnavailable.
func (d *Demo) PageRank(ctx context.Context) error {
	params := map[string]any{"graph": projectionName}

	// a projection left over from an interrupted run blocks project
	if _, err := d.runner.Run(ctx, dropProjection, params); err != nil {
		return fmt.Errorf("%w: %w", ErrPluginUnavailable, err)
	}
	if _, err := d.runner.Run(ctx, projectGraph, params); err != nil {
		return fmt.Errorf("%w: %w", ErrPluginUnavailable, err)
	}
	defer func() {
		if _, err := d.runner.Run(context.WithoutCancel(ctx), dropProjection, params); err != nil {
			d.log.Warn().Err(err).Str("graph", projectionName).Msg("failed to drop projection")
		}
	}()

	if _, err := d.runner.Run(ctx, writePageRank, params); err != nil {
		return fmt.Errorf("%w: %w", ErrPluginUnavailable, err)
	}
	res, err := d.runner.Run(ctx, readPageRank, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPluginUnavailable, err)
	}

	d.report.Section("PageRank")
	for _, rec := range res.Records {
		name, err := value[string](rec, "name")
		if err != nil {
			return err
		}
		rank, err := value[float64](rec, "rank")
		if err != nil {
			return err
		}
		d.report.Printf("User: %s, Rank: %.4f", name, rank)
	}
	return nil
}

func value[T neo4j.RecordValue](rec *neo4j.Record, key string) (T, error) {
	v, _, err := neo4j.GetRecordValue[T](rec, key)
	if err != nil {
		return v, fmt.Errorf("column %s: %w", key, err)
	}
	return v, nil
}
