package mongostore

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tour_catalog/internal/domain"
)

type TestimonialRepo struct{ c *mongo.Collection }

func NewTestimonialRepo(db *mongo.Database) *TestimonialRepo {
	return &TestimonialRepo{c: db.Collection("testimonial")}
}

func (r *TestimonialRepo) InsertTestimonial(ctx context.Context, t domain.Testimonial) (primitive.ObjectID, error) {
	res, err := r.c.InsertOne(ctx, t)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

func (r *TestimonialRepo) ListTestimonials(ctx context.Context) ([]domain.Testimonial, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	out := []domain.Testimonial{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
