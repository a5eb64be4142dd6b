package dto

import (
	"time"

	"crosspost/models"
	"crosspost/providers"
)

// ContentPackage is the result of one pipeline run.
type ContentPackage struct {
	Topic    string                       `json:"topic"`
	Items    []models.Content             `json:"items"`
	Hashtags map[models.Platform]string   `json:"hashtags,omitempty"`
	Images   map[string][]providers.Image `json:"images,omitempty"`
	Research string                       `json:"research,omitempty"`
}

// BatchResult is one element's outcome in a batch operation, reported in
// input order.
type BatchResult struct {
	ContentID string `json:"content_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

type PublishResult struct {
	ContentID string          `json:"content_id"`
	Platform  models.Platform `json:"platform"`
	PostID    string          `json:"post_id"`
}

// CalendarEntry is one schedule rendered for a calendar view. End is
// start plus a fixed 30 minute slot.
type CalendarEntry struct {
	ID          string               `json:"id"`
	ContentID   string               `json:"content_id"`
	Title       string               `json:"title"`
	Start       time.Time            `json:"start"`
	End         time.Time            `json:"end"`
	Platform    models.Platform      `json:"platform"`
	ContentType models.ContentType   `json:"content_type"`
	Status      models.ScheduleStatus `json:"status"`
}

type LibraryResponse struct {
	Items []models.Content `json:"items"`
	Total int64            `json:"total"`
	Page  int64            `json:"page"`
	Limit int64            `json:"limit"`
}

// StatsResponse summarizes a user's content inventory.
type StatsResponse struct {
	Total      int64                        `json:"total"`
	ByStatus   map[models.ContentStatus]int64 `json:"by_status"`
	ByPlatform map[models.Platform]int64      `json:"by_platform"`
	ByType     map[models.ContentType]int64   `json:"by_type"`
	ByProvider map[string]int64               `json:"by_provider"`
	ByMonth    map[string]int64               `json:"by_month"`
}

// TopContentEntry ranks content by likes+comments+shares+clicks.
type TopContentEntry struct {
	ContentID   string               `json:"content_id"`
	Title       string               `json:"title"`
	Platform    models.Platform      `json:"platform"`
	ContentType models.ContentType   `json:"content_type"`
	Score       int64                `json:"score"`
	Metrics     models.MetricSnapshot `json:"metrics"`
}

type TimelinePoint struct {
	Date        string `json:"date"`
	Impressions int64  `json:"impressions"`
	Engagement  int64  `json:"engagement"`
}

type DashboardSummary struct {
	Totals        models.MetricSnapshot                        `json:"totals"`
	ByPlatform    map[models.Platform]models.MetricSnapshot    `json:"by_platform"`
	ByContentType map[models.ContentType]models.MetricSnapshot `json:"by_content_type"`
	TopContent    []TopContentEntry                            `json:"top_content"`
	Timeline      []TimelinePoint                              `json:"timeline"`
}

type PlatformComparisonEntry struct {
	Platform        models.Platform       `json:"platform"`
	Metrics         models.MetricSnapshot `json:"metrics"`
	EngagementRate  float64               `json:"engagement_rate"`
	BestContentType models.ContentType    `json:"best_content_type,omitempty"`
}

type ContentPerformanceEntry struct {
	ContentID       string                `json:"content_id"`
	Title           string                `json:"title"`
	Platform        models.Platform       `json:"platform"`
	ContentType     models.ContentType    `json:"content_type"`
	Metrics         models.MetricSnapshot `json:"metrics"`
	TotalEngagement int64                 `json:"total_engagement"`
	EngagementRate  float64               `json:"engagement_rate"`
}

// MetricAverages are simple per-metric means over the filtered record
// set, for baseline comparison.
type MetricAverages struct {
	Impressions float64 `json:"impressions"`
	Engagement  float64 `json:"engagement"`
	Clicks      float64 `json:"clicks"`
	Shares      float64 `json:"shares"`
	Likes       float64 `json:"likes"`
	Comments    float64 `json:"comments"`
	Saves       float64 `json:"saves"`
}

type ContentPerformanceReport struct {
	Items    []ContentPerformanceEntry `json:"items"`
	Averages MetricAverages            `json:"averages"`
}

type AudienceInsights struct {
	AgeRanges map[string]int64 `json:"age_ranges"`
	Genders   map[string]int64 `json:"genders"`
	Locations map[string]int64 `json:"locations"`
}
