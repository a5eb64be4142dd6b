package dto

import (
	"time"

	"crosspost/models"
)

// GenerateRequest asks the pipeline for a full content package: one item
// per (platform, content type) pair.
type GenerateRequest struct {
	Topic           string                `json:"topic" binding:"required"`
	Platforms       []models.Platform     `json:"platforms" binding:"required,min=1"`
	ContentTypes    []models.ContentType  `json:"content_types" binding:"required,min=1"`
	Tone            string                `json:"tone"`
	Keywords        []string              `json:"keywords"`
	Provider        string                `json:"provider"`
	GenerateImages  bool                  `json:"generate_images"`
	ImageStyle      string                `json:"image_style"`
	IncludeResearch bool                  `json:"include_research"`
	ResearchDepth   string                `json:"research_depth"`
}

type IdeasRequest struct {
	Topic       string `json:"topic" binding:"required"`
	ContentType string `json:"content_type"`
	Tone        string `json:"tone"`
	Count       int    `json:"count"`
	Provider    string `json:"provider"`
}

type ResearchRequest struct {
	Topic    string `json:"topic" binding:"required"`
	Depth    string `json:"depth"`
	Provider string `json:"provider"`
}

type ImproveRequest struct {
	ContentID string `json:"content_id" binding:"required"`
	Feedback  string `json:"feedback" binding:"required"`
	Provider  string `json:"provider"`
}

// ImageRequest generates a standalone image. Kind selects the prompt
// shape: social (platform-sized), header (landscape), or generic.
type ImageRequest struct {
	Kind     string          `json:"kind"`
	Prompt   string          `json:"prompt"`
	Topic    string          `json:"topic"`
	Title    string          `json:"title"`
	Platform models.Platform `json:"platform"`
	Style    string          `json:"style"`
	Provider string          `json:"provider"`
}

type RepurposeRequest struct {
	TargetPlatform models.Platform    `json:"target_platform" binding:"required"`
	TargetType     models.ContentType `json:"target_type" binding:"required"`
	Provider       string             `json:"provider"`
}

type CreateContentRequest struct {
	Title       string               `json:"title" binding:"required"`
	Description string               `json:"description"`
	Body        string               `json:"body" binding:"required"`
	ContentType models.ContentType   `json:"content_type" binding:"required"`
	Platforms   []models.Platform    `json:"platforms" binding:"required,min=1"`
	Tone        string               `json:"tone"`
	Keywords    []string             `json:"keywords"`
	MediaURLs   []string             `json:"media_urls"`
}

// UpdateContentRequest carries optional field updates; nil means leave
// unchanged.
type UpdateContentRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Body        *string   `json:"body"`
	Tone        *string   `json:"tone"`
	Keywords    *[]string `json:"keywords"`
	MediaURLs   *[]string `json:"media_urls"`
}

type ScheduleRequest struct {
	Platform      models.Platform `json:"platform" binding:"required"`
	ScheduledDate time.Time       `json:"scheduled_date" binding:"required"`
}

type ScheduleBatchItem struct {
	ContentID     string          `json:"content_id" binding:"required"`
	Platform      models.Platform `json:"platform" binding:"required"`
	ScheduledDate time.Time       `json:"scheduled_date" binding:"required"`
}

type ScheduleBatchRequest struct {
	Items []ScheduleBatchItem `json:"items" binding:"required,min=1"`
}

type BulkApproveRequest struct {
	ContentIDs []string `json:"content_ids" binding:"required,min=1"`
}

type PublishRequest struct {
	Platform models.Platform `json:"platform" binding:"required"`
}

type SyncRequest struct {
	Platform models.Platform `json:"platform" binding:"required"`
}

// RecordRequest creates the analytics record for an already published
// post, when publish-time creation did not happen.
type RecordRequest struct {
	ContentID string          `json:"content_id" binding:"required"`
	Platform  models.Platform `json:"platform" binding:"required"`
	PostID    string          `json:"post_id" binding:"required"`
}
