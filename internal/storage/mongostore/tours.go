package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tour_catalog/internal/domain"
)

const toursCollection = "tours"

type TourRepo struct{ c *mongo.Collection }

func NewTourRepo(db *mongo.Database) *TourRepo {
	return &TourRepo{c: db.Collection(toursCollection)}
}

// EnsureIndexes creates the lookup indexes on url and theme. They are not
// unique: older catalogs may already hold duplicate urls.
func (r *TourRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "url", Value: 1}}},
		{Keys: bson.D{{Key: "theme", Value: 1}, {Key: "_id", Value: 1}}},
	})
	return err
}

func (r *TourRepo) InsertTour(ctx context.Context, t domain.Tour) (primitive.ObjectID, error) {
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

func (r *TourRepo) ReplaceTourFields(ctx context.Context, id primitive.ObjectID, f domain.TourFields, image *string, at time.Time) (bool, error) {
	set := bson.M{
		"package_name":     f.PackageName,
		"url":              f.URL,
		"tour_duration":    f.TourDuration,
		"tour_destination": f.TourDestination,
		"tour_price":       f.TourPrice,
		"theme":            f.Theme,
		"indian":           f.Indian,
		"international":    f.International,
		"fixed_departure":  f.FixedDeparture,
		"inclusions":       f.Inclusions,
		"exclusions":       f.Exclusions,
		"itinerary":        f.Itinerary,
		"image":            image,
		"updatedAt":        at,
	}
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *TourRepo) PatchTourSEO(ctx context.Context, id primitive.ObjectID, p domain.SEOPatch, at time.Time) (bool, error) {
	set := bson.M{"updatedAt": at}
	if p.Title != nil {
		set["seo_title"] = *p.Title
	}
	if p.Description != nil {
		set["seo_description"] = *p.Description
	}
	if p.Keyword != nil {
		set["seo_keyword"] = *p.Keyword
	}
	res, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *TourRepo) DeleteTour(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *TourRepo) FindTourByID(ctx context.Context, id primitive.ObjectID) (domain.Tour, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *TourRepo) FindTourByURL(ctx context.Context, url string) (domain.Tour, error) {
	return r.findOne(ctx, bson.M{"url": url})
}

func (r *TourRepo) findOne(ctx context.Context, filter bson.M) (domain.Tour, error) {
	var t domain.Tour
	err := r.c.FindOne(ctx, filter).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Tour{}, domain.ErrNotFound
	}
	return t, err
}

func (r *TourRepo) URLExists(ctx context.Context, url string) (bool, error) {
	n, err := r.c.CountDocuments(ctx, bson.M{"url": url}, options.Count().SetLimit(1))
	return n > 0, err
}

func (r *TourRepo) ListTours(ctx context.Context, f domain.TourFilter) ([]domain.Tour, error) {
	filter := bson.M{}
	if f.Flag != "" {
		filter[string(f.Flag)] = domain.FlagYes
	}
	return r.find(ctx, filter, f.Limit)
}

func (r *TourRepo) ListSimilar(ctx context.Context, theme, excludeURL string, limit int) ([]domain.Tour, error) {
	return r.find(ctx, bson.M{"theme": theme, "url": bson.M{"$ne": excludeURL}}, limit)
}

func (r *TourRepo) find(ctx context.Context, filter bson.M, limit int) ([]domain.Tour, error) {
	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []domain.Tour{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListOnePerTheme keeps the lowest _id of every theme, orders the groups by
// theme and projects the sample fields.
func (r *TourRepo) ListOnePerTheme(ctx context.Context, limit int) ([]domain.ThemeSample, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$theme"},
			{Key: "doc", Value: bson.D{{Key: "$first", Value: "$$ROOT"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$doc"}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "package_name", Value: 1},
			{Key: "tour_duration", Value: 1},
			{Key: "tour_destination", Value: 1},
			{Key: "tour_price", Value: 1},
			{Key: "image", Value: 1},
			{Key: "url", Value: 1},
			{Key: "theme_name", Value: "$theme"},
		}}},
	}
	cur, err := r.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	out := []domain.ThemeSample{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
