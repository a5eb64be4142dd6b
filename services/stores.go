package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"crosspost/errs"
	"crosspost/eventbus"
	"crosspost/logger"
	"crosspost/models"
	"crosspost/repositories"
)

// Store interfaces cover exactly what the services need from the Mongo
// repositories, so tests can run against in-memory fakes.

type ContentStore interface {
	Insert(ctx context.Context, c *models.Content) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Content, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID, f repositories.ContentFilter) ([]models.Content, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID, f repositories.ContentFilter) (int64, error)
	Update(ctx context.Context, c *models.Content) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ScheduleStore interface {
	Insert(ctx context.Context, s *models.Schedule) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Schedule, error)
	FindByContent(ctx context.Context, contentID primitive.ObjectID) ([]models.Schedule, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID, from, to *time.Time) ([]models.Schedule, error)
	CountByContent(ctx context.Context, contentID primitive.ObjectID) (int64, error)
	MarkPublished(ctx context.Context, contentID primitive.ObjectID, platform models.Platform, publishedAt time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByContent(ctx context.Context, contentID primitive.ObjectID) error
}

type AnalyticsStore interface {
	Insert(ctx context.Context, a *models.Analytics) error
	FindByContentAndPlatform(ctx context.Context, contentID primitive.ObjectID, platform models.Platform, userID primitive.ObjectID) (*models.Analytics, error)
	FindByContent(ctx context.Context, contentID, userID primitive.ObjectID) ([]models.Analytics, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Analytics, error)
	Update(ctx context.Context, a *models.Analytics) error
	DeleteByContent(ctx context.Context, contentID primitive.ObjectID) error
}

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// publishEvent sends a lifecycle event to the bus, best effort. A nil bus
// is silently skipped; a publish failure is logged and swallowed.
func publishEvent(ctx context.Context, bus *eventbus.Bus, topic, key string, event any) {
	if err := bus.Publish(ctx, topic, key, event); err != nil {
		logger.WarnWithFields("event publish failed", logger.Fields{
			"topic": topic,
			"key":   key,
			"error": err.Error(),
		})
	}
}

// parseObjectID converts a hex id or fails with the given resource name.
func parseObjectID(hex, resource string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, errs.Validation("invalid %s id: %s", resource, hex)
	}
	return id, nil
}
