package mongorepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Skotchmaster/online_pharmacy/internal/models"
	"github.com/Skotchmaster/online_pharmacy/internal/repo"
)

func (r *MongoRepo) CreateUser(ctx context.Context, u *models.User) error {
	n, err := r.users().CountDocuments(ctx, bson.M{"username": u.Username})
	if err != nil {
		return err
	}
	if n > 0 {
		return repo.ErrDuplicate
	}

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err = r.users().InsertOne(ctx, u)
	return translate(err)
}

func (r *MongoRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := r.users().FindOne(ctx, bson.M{"username": username}).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *MongoRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.users().FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}
