package mongorepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/online_pharmacy/internal/models"
	"github.com/Skotchmaster/online_pharmacy/internal/repo"
)

func (r *MongoRepo) ListProducts(ctx context.Context, sort repo.SortKey) ([]models.Product, error) {
	opts := options.Find()
	switch sort {
	case repo.SortByName:
		opts.SetSort(bson.D{{Key: "name", Value: 1}, {Key: "created_at", Value: 1}})
	case repo.SortByPrice:
		opts.SetSort(bson.D{{Key: "price", Value: 1}, {Key: "created_at", Value: 1}})
	}

	cur, err := r.products().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := make([]models.Product, 0)
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *MongoRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.products().FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *MongoRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.products().InsertOne(ctx, p)
	return translate(err)
}

func (r *MongoRepo) ReplaceProduct(ctx context.Context, p *models.Product) error {
	res, err := r.products().UpdateOne(ctx,
		bson.M{"_id": p.ID},
		bson.M{"$set": bson.M{"name": p.Name, "price": p.Price, "formula": p.Formula}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *MongoRepo) DeleteProduct(ctx context.Context, id string) error {
	_, err := r.products().DeleteOne(ctx, bson.M{"_id": id})
	return err
}
