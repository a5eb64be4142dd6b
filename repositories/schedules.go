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

type ScheduleRepository struct {
	col *mongo.Collection
}

func NewScheduleRepository(db *mongo.Database) *ScheduleRepository {
	return &ScheduleRepository{col: db.Collection("schedules")}
}

func (r *ScheduleRepository) Insert(ctx context.Context, s *models.Schedule) error {
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, s)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = id
	}
	return nil
}

func (r *ScheduleRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Schedule, error) {
	var s models.Schedule
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("schedule")
		}
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleRepository) FindByContent(ctx context.Context, contentID primitive.ObjectID) ([]models.Schedule, error) {
	cur, err := r.col.Find(ctx, bson.M{"content_id": contentID},
		options.Find().SetSort(bson.D{{Key: "scheduled_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.Schedule
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByUser lists a user's schedules, optionally bounded to a time range.
func (r *ScheduleRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, from, to *time.Time) ([]models.Schedule, error) {
	filter := bson.M{"user_id": userID}
	if from != nil || to != nil {
		rangeFilter := bson.M{}
		if from != nil {
			rangeFilter["$gte"] = *from
		}
		if to != nil {
			rangeFilter["$lte"] = *to
		}
		filter["scheduled_date"] = rangeFilter
	}
	cur, err := r.col.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "scheduled_date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.Schedule
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ScheduleRepository) CountByContent(ctx context.Context, contentID primitive.ObjectID) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"content_id": contentID})
}

func (r *ScheduleRepository) Update(ctx context.Context, s *models.Schedule) error {
	s.UpdatedAt = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("schedule")
	}
	return nil
}

// MarkPublished flips the still-scheduled entries for one
// (content, platform) pair to published. Entries for the content's other
// platforms stay scheduled.
func (r *ScheduleRepository) MarkPublished(ctx context.Context, contentID primitive.ObjectID, platform models.Platform, publishedAt time.Time) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"content_id": contentID, "platform": platform, "status": models.ScheduleScheduled},
		bson.M{"$set": bson.M{
			"status":         models.SchedulePublished,
			"published_date": publishedAt,
			"updated_at":     time.Now(),
		}})
	return err
}

func (r *ScheduleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.NotFound("schedule")
	}
	return nil
}

func (r *ScheduleRepository) DeleteByContent(ctx context.Context, contentID primitive.ObjectID) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"content_id": contentID})
	return err
}
