package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tour_catalog/internal/domain"
)

type AdminRepo struct{ c *mongo.Collection }

func NewAdminRepo(db *mongo.Database) *AdminRepo {
	return &AdminRepo{c: db.Collection("admin")}
}

func (r *AdminRepo) FindAdminByUsername(ctx context.Context, username string) (domain.Admin, error) {
	var a domain.Admin
	err := r.c.FindOne(ctx, bson.M{"username": username}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Admin{}, domain.ErrNotFound
	}
	return a, err
}

func (r *AdminRepo) InsertAdmin(ctx context.Context, a domain.Admin) (primitive.ObjectID, error) {
	res, err := r.c.InsertOne(ctx, a)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

// ListLegacyAdmins returns admins that still carry a plaintext password.
func (r *AdminRepo) ListLegacyAdmins(ctx context.Context) ([]domain.Admin, error) {
	cur, err := r.c.Find(ctx, bson.M{"password": bson.M{"$exists": true, "$ne": ""}})
	if err != nil {
		return nil, err
	}
	var out []domain.Admin
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetPasswordHash stores hash and drops the plaintext field.
func (r *AdminRepo) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"password_hash": hash},
		"$unset": bson.M{"password": ""},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
