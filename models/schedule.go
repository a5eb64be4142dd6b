package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleStatus is the state of one platform-specific publication intent.
type ScheduleStatus string

const (
	ScheduleScheduled ScheduleStatus = "scheduled"
	SchedulePublished ScheduleStatus = "published"
	ScheduleFailed    ScheduleStatus = "failed"
)

// Schedule represents a publication intent for one (content, platform)
// pair at a target timestamp.
// Collection: schedules
type Schedule struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
	ContentID     primitive.ObjectID `bson:"content_id" json:"content_id"`
	Platform      Platform           `bson:"platform" json:"platform"`
	ScheduledDate time.Time          `bson:"scheduled_date" json:"scheduled_date"`
	Status        ScheduleStatus     `bson:"status" json:"status"`
	PublishedDate *time.Time         `bson:"published_date,omitempty" json:"published_date,omitempty"`
	FailureReason string             `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
}
