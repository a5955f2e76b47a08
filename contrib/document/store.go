package document

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection  = "users"
	ordersCollection = "orders"
)

// Store wraps the users and orders collections of one database.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) users() *mongo.Collection  { return s.db.Collection(usersCollection) }
func (s *Store) orders() *mongo.Collection { return s.db.Collection(ordersCollection) }

// Reset drops both collections together with their indexes.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.users().Drop(ctx); err != nil {
		return err
	}
	return s.orders().Drop(ctx)
}

func (s *Store) InsertUser(ctx context.Context, u *User) (primitive.ObjectID, error) {
	res, err := s.users().InsertOne(ctx, u)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id %T", res.InsertedID)
	}
	u.ID = id
	return id, nil
}

func (s *Store) InsertOrders(ctx context.Context, orders []Order) ([]any, error) {
	docs := make([]any, len(orders))
	for i := range orders {
		docs[i] = orders[i]
	}
	res, err := s.orders().InsertMany(ctx, docs)
	if err != nil {
		return nil, err
	}
	return res.InsertedIDs, nil
}

// FindUserByEmail returns nil when no document matches.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.users().FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) FindUsers(ctx context.Context, filter any, opts ...*options.FindOptions) ([]User, error) {
	cur, err := s.users().Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var users []User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) SummarizeUsers(ctx context.Context) ([]UserSummary, error) {
	cur, err := s.users().Aggregate(ctx, UserOrdersPipeline())
	if err != nil {
		return nil, err
	}
	var out []UserSummary
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UpdateProfile(ctx context.Context, email string, age int, interest string) (int64, error) {
	res, err := s.users().UpdateOne(ctx, bson.D{{Key: "email", Value: email}}, ProfileUpdate(age, interest))
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Store) SetOrderStatus(ctx context.Context, from, to string) (int64, error) {
	res, err := s.orders().UpdateMany(ctx,
		bson.D{{Key: "status", Value: from}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: to}}}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Store) DeleteUserByEmail(ctx context.Context, email string) (int64, error) {
	res, err := s.users().DeleteOne(ctx, bson.D{{Key: "email", Value: email}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *Store) CreateIndexes(ctx context.Context) ([]string, error) {
	return s.users().Indexes().CreateMany(ctx, UserIndexes())
}
