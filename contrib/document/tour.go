package document

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/surrealdb/dbtour/pkg/config"
	"github.com/surrealdb/dbtour/pkg/report"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const demoEmail = "john@example.com"

// Tour runs the MongoDB walkthrough.
type Tour struct {
	cfg    config.MongoConfig
	report *report.Report
	log    zerolog.Logger
}

func New(cfg config.MongoConfig, rep *report.Report, log zerolog.Logger) *Tour {
	return &Tour{cfg: cfg, report: rep, log: log.With().Str("tour", "document").Logger()}
}

func (t *Tour) Name() string { return "document" }

func (t *Tour) Description() string {
	return "MongoDB: documents, filters, $lookup aggregation, updates, index hints"
}

func (t *Tour) connect(ctx context.Context) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(t.cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	return client, nil
}

func (t *Tour) Ping(ctx context.Context) error {
	client, err := t.connect(ctx)
	if err != nil {
		return err
	}
	return client.Disconnect(ctx)
}

func (t *Tour) Run(ctx context.Context) error {
	client, err := t.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.WithoutCancel(ctx))

	store := NewStore(client.Database(t.cfg.Database))
	if err := store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset collections: %w", err)
	}
	return RunSteps(ctx, store, t.report, time.Now().UTC())
}

func sampleUser(now time.Time) *User {
	return &User{
		Email: demoEmail,
		Name:  "John Doe",
		Age:   30,
		Address: Address{
			Street:  "123 Main St",
			City:    "New York",
			Country: "USA",
		},
		Interests: []string{"programming", "music", "sports"},
		CreatedAt: now,
	}
}

func sampleOrders(userID primitive.ObjectID, addr Address, now time.Time) []Order {
	return []Order{{
		UserID: userID,
		Items: []Item{
			{Name: "Laptop", Price: 1200, Quantity: 1},
			{Name: "Mouse", Price: 25, Quantity: 2},
		},
		Total:           1250,
		Status:          "pending",
		ShippingAddress: addr,
		CreatedAt:       now,
	}}
}

// RunSteps runs the tour against store. now stamps the created documents.
func RunSteps(ctx context.Context, store *Store, rep *report.Report, now time.Time) error {
	rep.Section("Create")
	user := sampleUser(now)
	userID, err := store.InsertUser(ctx, user)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	rep.Printf("Inserted user ID: %s", userID.Hex())

	orderIDs, err := store.InsertOrders(ctx, sampleOrders(userID, user.Address, now))
	if err != nil {
		return fmt.Errorf("failed to insert orders: %w", err)
	}
	rep.Printf("Inserted order IDs: %v", orderIDs)

	rep.Section("Read")
	found, err := store.FindUserByEmail(ctx, demoEmail)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	rep.Value("Found user", found)

	matching, err := store.FindUsers(ctx, InterestFilter(25, "programming", "art"))
	if err != nil {
		return fmt.Errorf("failed to find users: %w", err)
	}
	rep.Value("Users with age >= 25 who like programming or art", matching)

	summaries, err := store.SummarizeUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to aggregate users: %w", err)
	}
	rep.Value("User aggregation results", summaries)

	rep.Section("Update")
	modified, err := store.UpdateProfile(ctx, demoEmail, 31, "reading")
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	rep.Printf("Modified %d document(s)", modified)

	modified, err = store.SetOrderStatus(ctx, "pending", "processing")
	if err != nil {
		return fmt.Errorf("failed to update orders: %w", err)
	}
	rep.Printf("Modified %d order(s)", modified)

	rep.Section("Delete")
	deleted, err := store.DeleteUserByEmail(ctx, demoEmail)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rep.Printf("Deleted %d user(s)", deleted)

	rep.Section("Indexes")
	names, err := store.CreateIndexes(ctx)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	rep.Printf("Created indexes: %v", names)

	hinted, err := store.FindUsers(ctx,
		bson.D{
			{Key: "age", Value: bson.D{{Key: "$gte", Value: 25}}},
			{Key: "interests", Value: "programming"},
		},
		options.Find().SetHint(AgeInterestsIndex),
	)
	if err != nil {
		return fmt.Errorf("failed to run hinted find: %w", err)
	}
	rep.Printf("Users found with index hint: %d", len(hinted))
	return rep.Err()
}
