package events

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"crosspost/models"
)

// EventType identifies a lifecycle event.
type EventType string

const (
	ContentGenerated EventType = "content.generated"
	ContentApproved  EventType = "content.approved"
	ContentRejected  EventType = "content.rejected"
	ContentScheduled EventType = "content.scheduled"
	ContentPublished EventType = "content.published"
	AnalyticsSynced  EventType = "analytics.synced"
)

// TopicLifecycle carries every content lifecycle event. Consumers filter
// by event type.
const TopicLifecycle = "crosspost.lifecycle"

// BaseEvent is the envelope shared by every event.
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

func newBase(t EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now(),
		Source:    "crosspost-api",
	}
}

// ContentEvent covers the content lifecycle transitions.
type ContentEvent struct {
	BaseEvent
	ContentID   primitive.ObjectID   `json:"content_id"`
	UserID      primitive.ObjectID   `json:"user_id"`
	ContentType models.ContentType   `json:"content_type"`
	Status      models.ContentStatus `json:"status"`
	Platforms   []models.Platform    `json:"platforms,omitempty"`
}

func NewContentEvent(t EventType, c *models.Content) ContentEvent {
	return ContentEvent{
		BaseEvent:   newBase(t),
		ContentID:   c.ID,
		UserID:      c.UserID,
		ContentType: c.ContentType,
		Status:      c.Status,
		Platforms:   c.Platforms,
	}
}

// AnalyticsSyncedEvent reports a completed metrics sync.
type AnalyticsSyncedEvent struct {
	BaseEvent
	ContentID primitive.ObjectID `json:"content_id"`
	UserID    primitive.ObjectID `json:"user_id"`
	Platform  models.Platform    `json:"platform"`
	PostID    string             `json:"post_id"`
}

func NewAnalyticsSyncedEvent(a *models.Analytics) AnalyticsSyncedEvent {
	return AnalyticsSyncedEvent{
		BaseEvent: newBase(AnalyticsSynced),
		ContentID: a.ContentID,
		UserID:    a.UserID,
		Platform:  a.Platform,
		PostID:    a.PostID,
	}
}
