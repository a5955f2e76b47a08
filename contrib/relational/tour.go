package relational

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/surrealdb/dbtour/pkg/config"
	"github.com/surrealdb/dbtour/pkg/report"
)

const (
	demoEmail = "john@example.com"
	topLimit  = 10
)

// Tour runs the PostgreSQL walkthrough.
type Tour struct {
	cfg    config.PostgresConfig
	report *report.Report
	log    zerolog.Logger
}

func New(cfg config.PostgresConfig, rep *report.Report, log zerolog.Logger) *Tour {
	return &Tour{cfg: cfg, report: rep, log: log.With().Str("tour", "relational").Logger()}
}

func (t *Tour) Name() string { return "relational" }

func (t *Tour) Description() string {
	return "PostgreSQL: schema, CRUD with RETURNING, top customers report"
}

func (t *Tour) Ping(ctx context.Context) error {
	store, err := Open(t.cfg.DSN, t.log)
	if err != nil {
		return err
	}
	defer store.Close()

	sqlDB, err := store.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (t *Tour) Run(ctx context.Context) error {
	store, err := Open(t.cfg.DSN, t.log)
	if err != nil {
		return err
	}
	defer store.Close()

	return RunSteps(ctx, store, t.report, t.log)
}

// RunSteps runs the tour against an open store.
func RunSteps(ctx context.Context, store *Store, rep *report.Report, log zerolog.Logger) error {
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	log.Debug().Msg("tables ready")

	if err := crud(ctx, store, rep); err != nil {
		return err
	}

	seeded, err := store.SeedOrders(ctx)
	if err != nil {
		return err
	}
	if seeded {
		log.Info().Msg("seeded sample orders")
	}

	customers, err := store.TopCustomers(ctx, topLimit)
	if err != nil {
		return fmt.Errorf("failed to query top customers: %w", err)
	}
	rep.Section("Top customers")
	rep.Value("Top customers", customers)
	return rep.Err()
}

func crud(ctx context.Context, store *Store, rep *report.Report) error {
	rep.Section("CRUD")

	user, err := store.CreateUser(ctx, demoEmail, "John Doe")
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	rep.Value("Created user", user)

	found, err := store.FindUserByEmail(ctx, demoEmail)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	rep.Value("Found user", found)

	updated, err := store.RenameUser(ctx, demoEmail, "John Smith")
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rep.Value("Updated user", updated)

	deleted, err := store.DeleteUserByEmail(ctx, demoEmail)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rep.Printf("Deleted rows: %d", deleted)
	return nil
}
