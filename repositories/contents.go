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

// ContentFilter narrows a user's content listing. Zero values mean no
// constraint; Limit 0 means unbounded.
type ContentFilter struct {
	Status      models.ContentStatus
	ContentType models.ContentType
	Platform    models.Platform
	Search      string
	SortBy      string
	SortAsc     bool
	Skip        int64
	Limit       int64
}

type ContentRepository struct {
	col *mongo.Collection
}

func NewContentRepository(db *mongo.Database) *ContentRepository {
	return &ContentRepository{col: db.Collection("contents")}
}

func (r *ContentRepository) Insert(ctx context.Context, c *models.Content) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, c)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		c.ID = id
	}
	return nil
}

func (r *ContentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Content, error) {
	var c models.Content
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.NotFound("content")
		}
		return nil, err
	}
	return &c, nil
}

// query builds the bson filter shared by FindByUser and CountByUser, so
// a paged listing and its total always agree.
func (f ContentFilter) query(userID primitive.ObjectID) bson.M {
	filter := bson.M{"user_id": userID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.ContentType != "" {
		filter["content_type"] = f.ContentType
	}
	if f.Platform != "" {
		filter["platforms"] = f.Platform
	}
	if f.Search != "" {
		regex := bson.M{"$regex": f.Search, "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"title": regex},
			bson.M{"description": regex},
			bson.M{"keywords": regex},
		}
	}
	return filter
}

func (r *ContentRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, f ContentFilter) ([]models.Content, error) {
	sortField := "created_at"
	if f.SortBy != "" {
		sortField = f.SortBy
	}
	sortDir := -1
	if f.SortAsc {
		sortDir = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: sortDir}})
	if f.Skip > 0 {
		opts.SetSkip(f.Skip)
	}
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cur, err := r.col.Find(ctx, f.query(userID), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []models.Content
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ContentRepository) CountByUser(ctx context.Context, userID primitive.ObjectID, f ContentFilter) (int64, error) {
	return r.col.CountDocuments(ctx, f.query(userID))
}

// Update replaces the stored document and refreshes updated_at.
func (r *ContentRepository) Update(ctx context.Context, c *models.Content) error {
	c.UpdatedAt = time.Now()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.NotFound("content")
	}
	return nil
}

func (r *ContentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.NotFound("content")
	}
	return nil
}
