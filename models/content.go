package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentStatus is the lifecycle state of a content item.
type ContentStatus string

const (
	StatusDraft           ContentStatus = "draft"
	StatusPendingApproval ContentStatus = "pending_approval"
	StatusApproved        ContentStatus = "approved"
	StatusScheduled       ContentStatus = "scheduled"
	StatusPublished       ContentStatus = "published"
	StatusRejected        ContentStatus = "rejected"
)

// AllStatuses lists every valid lifecycle state.
var AllStatuses = []ContentStatus{
	StatusDraft, StatusPendingApproval, StatusApproved,
	StatusScheduled, StatusPublished, StatusRejected,
}

func (s ContentStatus) Valid() bool {
	for _, v := range AllStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ContentType is the kind of generated artifact.
type ContentType string

const (
	TypeBlog        ContentType = "blog"
	TypeArticle     ContentType = "article"
	TypeSocialPost  ContentType = "social_post"
	TypeVideoScript ContentType = "video_script"
	TypeAudiogram   ContentType = "audiogram"
)

// Platform is a social publishing destination.
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
)

// MetricSnapshot is the canonical metric bundle. Fields a platform does
// not report stay zero.
type MetricSnapshot struct {
	Impressions int64 `bson:"impressions" json:"impressions"`
	Engagement  int64 `bson:"engagement" json:"engagement"`
	Clicks      int64 `bson:"clicks" json:"clicks"`
	Shares      int64 `bson:"shares" json:"shares"`
	Likes       int64 `bson:"likes" json:"likes"`
	Comments    int64 `bson:"comments" json:"comments"`
	Saves       int64 `bson:"saves" json:"saves"`
}

// Content represents a single generated artifact and its lifecycle state.
// Collection: contents
type Content struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description" json:"description"`
	Body          string             `bson:"body" json:"body"`
	ContentType   ContentType        `bson:"content_type" json:"content_type"`
	Platforms     []Platform         `bson:"platforms" json:"platforms"`
	Status        ContentStatus      `bson:"status" json:"status"`
	Tone          string             `bson:"tone" json:"tone"`
	Keywords      []string           `bson:"keywords" json:"keywords"`
	Provider      string             `bson:"provider" json:"provider"`
	MediaURLs     []string           `bson:"media_urls" json:"media_urls"`
	ScheduledDate *time.Time         `bson:"scheduled_date,omitempty" json:"scheduled_date,omitempty"`
	PublishedDate *time.Time         `bson:"published_date,omitempty" json:"published_date,omitempty"`
	Analytics     MetricSnapshot     `bson:"analytics" json:"analytics"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"`
}
