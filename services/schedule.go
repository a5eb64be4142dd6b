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
)

// calendarSlot is the fixed display duration of one calendar entry.
const calendarSlot = 30 * time.Minute

// ScheduleService owns publication scheduling, the calendar view, and
// the revert-on-last-delete rule.
type ScheduleService struct {
	contents  ContentStore
	schedules ScheduleStore
	bus       *eventbus.Bus
}

func NewScheduleService(contents ContentStore, schedules ScheduleStore, bus *eventbus.Bus) *ScheduleService {
	return &ScheduleService{
		contents:  contents,
		schedules: schedules,
		bus:       bus,
	}
}

// Schedule creates a publication intent for (content, platform, date) and
// moves the content to scheduled. Allowed from approved or scheduled, so
// additional platforms can be scheduled without reverting state.
func (s *ScheduleService) Schedule(ctx context.Context, userID primitive.ObjectID, contentID string, req dto.ScheduleRequest) (*models.Schedule, error) {
	if req.ScheduledDate.IsZero() {
		return nil, errs.Validation("scheduled_date is required")
	}
	id, err := parseObjectID(contentID, "content")
	if err != nil {
		return nil, err
	}
	content, err := s.contents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if content.UserID != userID {
		return nil, errs.Authorization("not authorized to schedule this content")
	}
	if content.Status != models.StatusApproved && content.Status != models.StatusScheduled {
		return nil, errs.Validation("content must be approved before scheduling, current status: %s", content.Status)
	}

	schedule := models.Schedule{
		ContentID:     content.ID,
		Platform:      req.Platform,
		ScheduledDate: req.ScheduledDate,
		Status:        models.ScheduleScheduled,
		UserID:        userID,
	}
	if err := s.schedules.Insert(ctx, &schedule); err != nil {
		return nil, err
	}

	content.Status = models.StatusScheduled
	content.ScheduledDate = &schedule.ScheduledDate
	if err := s.contents.Update(ctx, content); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.bus, events.TopicLifecycle, content.ID.Hex(),
		events.NewContentEvent(events.ContentScheduled, content))
	return &schedule, nil
}

// ScheduleBatch schedules each element independently and reports
// per-element outcomes in input order.
func (s *ScheduleService) ScheduleBatch(ctx context.Context, userID primitive.ObjectID, req dto.ScheduleBatchRequest) []dto.BatchResult {
	results := make([]dto.BatchResult, 0, len(req.Items))
	for _, item := range req.Items {
		_, err := s.Schedule(ctx, userID, item.ContentID, dto.ScheduleRequest{
			Platform:      item.Platform,
			ScheduledDate: item.ScheduledDate,
		})
		result := dto.BatchResult{ContentID: item.ContentID, Success: err == nil}
		if err != nil {
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return results
}

func (s *ScheduleService) findOwned(ctx context.Context, userID primitive.ObjectID, scheduleID string) (*models.Schedule, error) {
	id, err := parseObjectID(scheduleID, "schedule")
	if err != nil {
		return nil, err
	}
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.UserID != userID {
		return nil, errs.Authorization("not authorized to access this schedule")
	}
	return schedule, nil
}

func (s *ScheduleService) Get(ctx context.Context, userID primitive.ObjectID, scheduleID string) (*models.Schedule, error) {
	return s.findOwned(ctx, userID, scheduleID)
}

func (s *ScheduleService) List(ctx context.Context, userID primitive.ObjectID, from, to *time.Time) ([]models.Schedule, error) {
	return s.schedules.FindByUser(ctx, userID, from, to)
}

// Delete removes a schedule. Deleting the content's last schedule reverts
// the content to approved and clears its scheduled date.
func (s *ScheduleService) Delete(ctx context.Context, userID primitive.ObjectID, scheduleID string) error {
	schedule, err := s.findOwned(ctx, userID, scheduleID)
	if err != nil {
		return err
	}
	if err := s.schedules.Delete(ctx, schedule.ID); err != nil {
		return err
	}

	remaining, err := s.schedules.CountByContent(ctx, schedule.ContentID)
	if err != nil {
		return err
	}
	if remaining > 0 {
		return nil
	}
	content, err := s.contents.FindByID(ctx, schedule.ContentID)
	if err != nil {
		if errs.IsNotFound(err) {
			return nil
		}
		return err
	}
	if content.Status != models.StatusScheduled {
		return nil
	}
	content.Status = models.StatusApproved
	content.ScheduledDate = nil
	return s.contents.Update(ctx, content)
}

// Calendar renders the user's schedules in a time range as calendar
// entries joined with content metadata.
func (s *ScheduleService) Calendar(ctx context.Context, userID primitive.ObjectID, from, to *time.Time) ([]dto.CalendarEntry, error) {
	schedules, err := s.schedules.FindByUser(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	entries := make([]dto.CalendarEntry, 0, len(schedules))
	for _, sch := range schedules {
		entry := dto.CalendarEntry{
			ID:        sch.ID.Hex(),
			ContentID: sch.ContentID.Hex(),
			Start:     sch.ScheduledDate,
			End:       sch.ScheduledDate.Add(calendarSlot),
			Platform:  sch.Platform,
			Status:    sch.Status,
		}
		content, err := s.contents.FindByID(ctx, sch.ContentID)
		if err == nil {
			entry.Title = content.Title
			entry.ContentType = content.ContentType
		} else if !errs.IsNotFound(err) {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
