package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Skotchmaster/online_pharmacy/internal/repo"
)

const (
	usersCollection    = "users"
	productsCollection = "medicines"
	cartCollection     = "cart_items"
)

type MongoRepo struct {
	DB *mongo.Database
}

var _ repo.Store = (*MongoRepo)(nil)

func New(db *mongo.Database) *MongoRepo {
	return &MongoRepo{DB: db}
}

func (r *MongoRepo) users() *mongo.Collection    { return r.DB.Collection(usersCollection) }
func (r *MongoRepo) products() *mongo.Collection { return r.DB.Collection(productsCollection) }
func (r *MongoRepo) cart() *mongo.Collection     { return r.DB.Collection(cartCollection) }

// Migrate creates the indexes the repository relies on. Safe to run repeatedly.
func (r *MongoRepo) Migrate(ctx context.Context) error {
	if _, err := r.users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_username"),
	}); err != nil {
		return fmt.Errorf("mongorepo: users index: %w", err)
	}

	if _, err := r.products().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("mongorepo: medicines indexes: %w", err)
	}

	if _, err := r.cart().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
	}); err != nil {
		return fmt.Errorf("mongorepo: cart index: %w", err)
	}
	return nil
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.DB.Client().Ping(ctx, readpref.Primary())
}

func (r *MongoRepo) Close(ctx context.Context) error {
	return r.DB.Client().Disconnect(ctx)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repo.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repo.ErrDuplicate
	default:
		return err
	}
}
