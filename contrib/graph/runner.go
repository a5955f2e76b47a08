package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Runner executes a Cypher query and returns a fully buffered result. Tests
// substitute a fake.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)
}

// Executor is the driver-backed Runner.
type Executor struct {
	Driver neo4j.DriverWithContext
	DBName string
}

func NewExecutor(uri, username, password, dbName string) (*Executor, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create Neo4j driver: %w", err)
	}
	return &Executor{Driver: driver, DBName: dbName}, nil
}

func (e *Executor) Verify(ctx context.Context) error {
	return e.Driver.VerifyConnectivity(ctx)
}

func (e *Executor) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	opts := []neo4j.ExecuteQueryConfigurationOption{}
	if e.DBName != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(e.DBName))
	}
	result, err := neo4j.ExecuteQuery(ctx, e.Driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query: %w", err)
	}
	return result, nil
}

func (e *Executor) Close(ctx context.Context) error {
	return e.Driver.Close(ctx)
}
