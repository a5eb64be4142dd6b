package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Demographics is the per-record audience breakdown, keyed by the labels
// the platform reports. Labels are merged by raw equality across
// platforms; inconsistent labels fragment the aggregate.
type Demographics struct {
	AgeRanges map[string]int64 `bson:"age_ranges,omitempty" json:"age_ranges,omitempty"`
	Genders   map[string]int64 `bson:"genders,omitempty" json:"genders,omitempty"`
	Locations map[string]int64 `bson:"locations,omitempty" json:"locations,omitempty"`
}

// TimeData is time-bucketed engagement reported by a platform.
type TimeData struct {
	HourlyEngagement   map[string]int64 `bson:"hourly_engagement,omitempty" json:"hourly_engagement,omitempty"`
	PeakEngagementTime string           `bson:"peak_engagement_time,omitempty" json:"peak_engagement_time,omitempty"`
}

// Analytics holds normalized metrics for one published (content, platform)
// pair. At most one record exists per (content, platform, user) triple,
// enforced by a unique index.
// Collection: analytics
type Analytics struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	ContentID    primitive.ObjectID `bson:"content_id" json:"content_id"`
	Platform     Platform           `bson:"platform" json:"platform"`
	PostID       string             `bson:"post_id" json:"post_id"`
	Metrics      MetricSnapshot     `bson:"metrics" json:"metrics"`
	Demographics Demographics       `bson:"demographics" json:"demographics"`
	TimeData     TimeData           `bson:"time_data" json:"time_data"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	LastUpdated  time.Time          `bson:"last_updated" json:"last_updated"`
}
