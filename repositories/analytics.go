package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crosspost/errs"
	"crosspost/models"
)

type AnalyticsRepository struct {
	col *mongo.Collection
}

func NewAnalyticsRepository(db *mongo.Database) *AnalyticsRepository {
	return &AnalyticsRepository{col: db.Collection("analytics")}
}

// Insert creates the single record for a (content, platform, user) triple.
// The unique index rejects a second record for the same triple.
func (r *AnalyticsRepository) Insert(ctx context.Context, a *models.Analytics) error {
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.LastUpdated.IsZero() {
		a.LastUpdated = now
	}
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.Validation("analytics record already exists for content %s on %s", a.ContentID.Hex(), a.Platform)
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = id
	}
	return nil
}

func (r *AnalyticsRepository) FindByContentAndPlatform(ctx context.Context, contentID primitive.ObjectID, platform models.Platform, userID primitive.ObjectID) (*models.Analytics, error) {
	var a models.Analytics
	err := r.col.FindOne(ctx, bson.M{
		"content_id": contentID,
		"platform":   platform,
		"user_id":    userID,
	}).Decode(&a)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("analytics record")
		}
		return nil, err
	}
	return &a, nil
}

func (r *AnalyticsRepository) FindByContent(ctx context.Context, contentID, userID primitive.ObjectID) ([]models.Analytics, error) {
	return r.find(ctx, bson.M{"content_id": contentID, "user_id": userID})
}

func (r *AnalyticsRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Analytics, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

func (r *AnalyticsRepository) find(ctx context.Context, filter bson.M) ([]models.Analytics, error) {
	cur, err := r.col.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.Analytics
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Update overwrites the stored record and stamps last_updated.
func (r *AnalyticsRepository) Update(ctx context.Context, a *models.Analytics) error {
	a.LastUpdated = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("analytics record")
	}
	return nil
}

func (r *AnalyticsRepository) DeleteByContent(ctx context.Context, contentID primitive.ObjectID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"content_id": contentID})
	return err
}
