package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"crosspost/dto"
	"crosspost/errs"
	"crosspost/eventbus"
	"crosspost/events"
	"crosspost/models"
	"crosspost/repositories"
)

// ContentService owns content CRUD and the approval transitions.
type ContentService struct {
	contents  ContentStore
	schedules ScheduleStore
	analytics AnalyticsStore
	bus       *eventbus.Bus
}

func NewContentService(contents ContentStore, schedules ScheduleStore, analytics AnalyticsStore, bus *eventbus.Bus) *ContentService {
	return &ContentService{
		contents:  contents,
		schedules: schedules,
		analytics: analytics,
		bus:       bus,
	}
}

// Create stores a directly authored content item as a draft.
func (s *ContentService) Create(ctx context.Context, userID primitive.ObjectID, req dto.CreateContentRequest) (*models.Content, error) {
	if len(req.Platforms) == 0 {
		return nil, errs.Validation("platforms must be non-empty")
	}
	item := models.Content{
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		ContentType: req.ContentType,
		Platforms:   req.Platforms,
		Status:      models.StatusDraft,
		Tone:        req.Tone,
		Keywords:    req.Keywords,
		MediaURLs:   req.MediaURLs,
		UserID:      userID,
	}
	if err := s.contents.Insert(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// findOwned loads a content item and enforces ownership.
func (s *ContentService) findOwned(ctx context.Context, userID primitive.ObjectID, contentID string) (*models.Content, error) {
	id, err := parseObjectID(contentID, "content")
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
	return content, nil
}

func (s *ContentService) Get(ctx context.Context, userID primitive.ObjectID, contentID string) (*models.Content, error) {
	return s.findOwned(ctx, userID, contentID)
}

func (s *ContentService) List(ctx context.Context, userID primitive.ObjectID, f repositories.ContentFilter) ([]models.Content, error) {
	return s.contents.FindByUser(ctx, userID, f)
}

func (s *ContentService) Update(ctx context.Context, userID primitive.ObjectID, contentID string, req dto.UpdateContentRequest) (*models.Content, error) {
	content, err := s.findOwned(ctx, userID, contentID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		content.Title = *req.Title
	}
	if req.Description != nil {
		content.Description = *req.Description
	}
	if req.Body != nil {
		content.Body = *req.Body
	}
	if req.Tone != nil {
		content.Tone = *req.Tone
	}
	if req.Keywords != nil {
		content.Keywords = *req.Keywords
	}
	if req.MediaURLs != nil {
		content.MediaURLs = *req.MediaURLs
	}
	if err := s.contents.Update(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

// Delete removes a content item and cascades its schedules and analytics
// records.
func (s *ContentService) Delete(ctx context.Context, userID primitive.ObjectID, contentID string) error {
	content, err := s.findOwned(ctx, userID, contentID)
	if err != nil {
		return err
	}
	if err := s.contents.Delete(ctx, content.ID); err != nil {
		return err
	}
	if err := s.schedules.DeleteByContent(ctx, content.ID); err != nil {
		return err
	}
	return s.analytics.DeleteByContent(ctx, content.ID)
}

// Approve moves a pending item to approved.
func (s *ContentService) Approve(ctx context.Context, userID primitive.ObjectID, contentID string) (*models.Content, error) {
	return s.review(ctx, userID, contentID, models.StatusApproved, events.ContentApproved)
}

// Reject moves a pending item to the terminal rejected state.
func (s *ContentService) Reject(ctx context.Context, userID primitive.ObjectID, contentID string) (*models.Content, error) {
	return s.review(ctx, userID, contentID, models.StatusRejected, events.ContentRejected)
}

func (s *ContentService) review(ctx context.Context, userID primitive.ObjectID, contentID string, target models.ContentStatus, eventType events.EventType) (*models.Content, error) {
	content, err := s.findOwned(ctx, userID, contentID)
	if err != nil {
		return nil, err
	}
	if content.Status != models.StatusPendingApproval {
		return nil, errs.Validation("content must be pending approval, current status: %s", content.Status)
	}
	content.Status = target
	if err := s.contents.Update(ctx, content); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.bus, events.TopicLifecycle, content.ID.Hex(),
		events.NewContentEvent(eventType, content))
	return content, nil
}

// BulkApprove processes each id independently and reports per-element
// outcomes in input order. One failure never aborts the batch.
func (s *ContentService) BulkApprove(ctx context.Context, userID primitive.ObjectID, ids []string) []dto.BatchResult {
	results := make([]dto.BatchResult, 0, len(ids))
	for _, id := range ids {
		_, err := s.Approve(ctx, userID, id)
		result := dto.BatchResult{ContentID: id, Success: err == nil}
		if err != nil {
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results
}

// Library lists content with search, filters and pagination.
func (s *ContentService) Library(ctx context.Context, userID primitive.ObjectID, f repositories.ContentFilter, page, limit int64) (*dto.LibraryResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	f.Skip = (page - 1) * limit
	f.Limit = limit

	items, err := s.contents.FindByUser(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.contents.CountByUser(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	return &dto.LibraryResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// Stats summarizes the user's content inventory: counts by status,
// platform, type and provider, plus a per-month creation series.
func (s *ContentService) Stats(ctx context.Context, userID primitive.ObjectID) (*dto.StatsResponse, error) {
	items, err := s.contents.FindByUser(ctx, userID, repositories.ContentFilter{})
	if err != nil {
		return nil, err
	}
	stats := &dto.StatsResponse{
		Total:      int64(len(items)),
		ByStatus:   map[models.ContentStatus]int64{},
		ByPlatform: map[models.Platform]int64{},
		ByType:     map[models.ContentType]int64{},
		ByProvider: map[string]int64{},
		ByMonth:    map[string]int64{},
	}
	for _, item := range items {
		stats.ByStatus[item.Status]++
		stats.ByType[item.ContentType]++
		for _, p := range item.Platforms {
			stats.ByPlatform[p]++
		}
		if item.Provider != "" {
			stats.ByProvider[item.Provider]++
		}
		stats.ByMonth[item.CreatedAt.Format("2006-01")]++
	}
	return stats, nil
}
