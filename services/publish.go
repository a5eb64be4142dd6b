package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"crosspost/dto"
	"crosspost/errs"
	"crosspost/eventbus"
	"crosspost/events"
	"crosspost/models"
	"crosspost/publisher"
)

// Dispatcher is the slice of publisher.Dispatcher the services use.
type Dispatcher interface {
	Publish(ctx context.Context, content *models.Content, user *models.User, platform models.Platform) (string, error)
	FetchMetrics(ctx context.Context, user *models.User, platform models.Platform, postID string) (publisher.MetricsReport, error)
}

// PublishService drives the transition from approved or scheduled to
// published through the platform dispatcher.
type PublishService struct {
	contents   ContentStore
	schedules  ScheduleStore
	analytics  AnalyticsStore
	users      UserStore
	dispatcher Dispatcher
	bus        *eventbus.Bus
}

func NewPublishService(contents ContentStore, schedules ScheduleStore, analytics AnalyticsStore, users UserStore, dispatcher Dispatcher, bus *eventbus.Bus) *PublishService {
	return &PublishService{
		contents:   contents,
		schedules:  schedules,
		analytics:  analytics,
		users:      users,
		dispatcher: dispatcher,
		bus:        bus,
	}
}

// Publish dispatches a content item to one of its target platforms. A
// dispatch failure leaves the item's status and publishedDate unchanged,
// so the call is safely re-triggerable. On success the item is stamped
// published, the platform's still-scheduled entries are marked published,
// and the analytics record for the (content, platform) pair is created
// with the external post id.
func (s *PublishService) Publish(ctx context.Context, userID primitive.ObjectID, contentID string, platform models.Platform) (*dto.PublishResult, error) {
	id, err := parseObjectID(contentID, "content")
	if err != nil {
		return nil, err
	}
	content, err := s.contents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if content.UserID != userID {
		return nil, errs.Authorization("not authorized to publish this content")
	}
	if content.Status != models.StatusApproved && content.Status != models.StatusScheduled {
		return nil, errs.Validation("content must be approved before publishing, current status: %s", content.Status)
	}
	if !targetsPlatform(content, platform) {
		return nil, errs.Validation("content does not target platform %s", platform)
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	postID, err := s.dispatcher.Publish(ctx, content, user, platform)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	content.Status = models.StatusPublished
	content.PublishedDate = &now
	if err := s.contents.Update(ctx, content); err != nil {
		return nil, err
	}
	if err := s.schedules.MarkPublished(ctx, content.ID, platform, now); err != nil {
		return nil, err
	}

	record := models.Analytics{
		ContentID: content.ID,
		Platform:  platform,
		PostID:    postID,
		UserID:    userID,
	}
	if err := s.analytics.Insert(ctx, &record); err != nil && !errs.IsValidation(err) {
		// A conflict means the record already exists from an earlier
		// publish attempt; anything else is a real failure.
		return nil, err
	}

	publishEvent(ctx, s.bus, events.TopicLifecycle, content.ID.Hex(),
		events.NewContentEvent(events.ContentPublished, content))
	return &dto.PublishResult{
		ContentID: content.ID.Hex(),
		Platform:  platform,
		PostID:    postID,
	}, nil
}

// CreateRecord creates the analytics record explicitly, for posts
// published before record creation existed or restored from elsewhere.
func (s *PublishService) CreateRecord(ctx context.Context, userID primitive.ObjectID, req dto.RecordRequest) (*models.Analytics, error) {
	id, err := parseObjectID(req.ContentID, "content")
	if err != nil {
		return nil, err
	}
	content, err := s.contents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if content.UserID != userID {
		return nil, errs.Authorization("not authorized to access this content")
	}
	record := models.Analytics{
		ContentID: content.ID,
		Platform:  req.Platform,
		PostID:    req.PostID,
		UserID:    userID,
	}
	if err := s.analytics.Insert(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func targetsPlatform(content *models.Content, platform models.Platform) bool {
	for _, p := range content.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}
