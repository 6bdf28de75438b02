package mongorepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/online_pharmacy/internal/models"
	"github.com/Skotchmaster/online_pharmacy/internal/repo"
)

func (r *MongoRepo) ListCartLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         productsCollection,
			"localField":   "product_id",
			"foreignField": "_id",
			"as":           "product",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$product", "preserveNullAndEmptyArrays": true}}},
	}

	cur, err := r.cart().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	lines := make([]models.CartLine, 0)
	if err := cur.All(ctx, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *MongoRepo) AddCartItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	_, err := r.cart().InsertOne(ctx, item)
	return translate(err)
}

func (r *MongoRepo) UpdateCartItemQuantity(ctx context.Context, id, userID string, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.cart().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"quantity": quantity}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&item)
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *MongoRepo) DeleteCartItem(ctx context.Context, id, userID string) error {
	res, err := r.cart().DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}
