package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"crosspost/dto"
	"crosspost/errs"
	"crosspost/models"
)

type publishFixture struct {
	svc       *PublishService
	contents  *fakeContentStore
	schedules *fakeScheduleStore
	analytics *fakeAnalyticsStore
	user      models.User
}

func newPublishFixture(dispatcher Dispatcher) publishFixture {
	user := testUser()
	contents := newFakeContentStore()
	schedules := newFakeScheduleStore()
	analytics := newFakeAnalyticsStore()
	svc := NewPublishService(contents, schedules, analytics, newFakeUserStore(user), dispatcher, nil)
	return publishFixture{svc: svc, contents: contents, schedules: schedules, analytics: analytics, user: user}
}

func TestPublishSuccess(t *testing.T) {
	dispatcher := &fakeDispatcher{
		publishFn: func(_ *models.Content, platform models.Platform) (string, error) {
			assert.Equal(t, models.PlatformTwitter, platform)
			return "post-123", nil
		},
	}
	fx := newPublishFixture(dispatcher)
	item := seedContent(t, fx.contents, fx.user.ID, models.StatusScheduled)
	sch := models.Schedule{ContentID: item.ID, Platform: models.PlatformTwitter, Status: models.ScheduleScheduled, UserID: fx.user.ID, ScheduledDate: time.Now()}
	require.NoError(t, fx.schedules.Insert(context.Background(), &sch))

	result, err := fx.svc.Publish(context.Background(), fx.user.ID, item.ID.Hex(), models.PlatformTwitter)
	require.NoError(t, err)
	assert.Equal(t, "post-123", result.PostID)

	stored, err := fx.contents.FindByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, stored.Status)
	assert.NotNil(t, stored.PublishedDate)

	updatedSch, err := fx.schedules.FindByID(context.Background(), sch.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SchedulePublished, updatedSch.Status)
	assert.NotNil(t, updatedSch.PublishedDate)

	record, err := fx.analytics.FindByContentAndPlatform(context.Background(), item.ID, models.PlatformTwitter, fx.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "post-123", record.PostID)
}

func TestPublishMarksOnlyTargetPlatformSchedules(t *testing.T) {
	dispatcher := &fakeDispatcher{
		publishFn: func(*models.Content, models.Platform) (string, error) { return "post-1", nil },
	}
	fx := newPublishFixture(dispatcher)
	item := models.Content{
		Title:     "Cross-posted",
		Body:      "body",
		Platforms: []models.Platform{models.PlatformTwitter, models.PlatformLinkedIn},
		Status:    models.StatusScheduled,
		UserID:    fx.user.ID,
	}
	require.NoError(t, fx.contents.Insert(context.Background(), &item))
	twitter := models.Schedule{ContentID: item.ID, Platform: models.PlatformTwitter, Status: models.ScheduleScheduled, UserID: fx.user.ID, ScheduledDate: time.Now()}
	require.NoError(t, fx.schedules.Insert(context.Background(), &twitter))
	linkedin := models.Schedule{ContentID: item.ID, Platform: models.PlatformLinkedIn, Status: models.ScheduleScheduled, UserID: fx.user.ID, ScheduledDate: time.Now().Add(time.Hour)}
	require.NoError(t, fx.schedules.Insert(context.Background(), &linkedin))

	_, err := fx.svc.Publish(context.Background(), fx.user.ID, item.ID.Hex(), models.PlatformTwitter)
	require.NoError(t, err)

	published, err := fx.schedules.FindByID(context.Background(), twitter.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SchedulePublished, published.Status)

	// The LinkedIn intent still awaits its own dispatch.
	pending, err := fx.schedules.FindByID(context.Background(), linkedin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleScheduled, pending.Status)
	assert.Nil(t, pending.PublishedDate)
}

func TestPublishDispatchFailureLeavesStateUntouched(t *testing.T) {
	dispatcher := &fakeDispatcher{
		publishFn: func(*models.Content, models.Platform) (string, error) {
			return "", errs.External("twitter", errors.New("api down"))
		},
	}
	fx := newPublishFixture(dispatcher)
	item := seedContent(t, fx.contents, fx.user.ID, models.StatusApproved)

	_, err := fx.svc.Publish(context.Background(), fx.user.ID, item.ID.Hex(), models.PlatformTwitter)
	require.Error(t, err)
	assert.True(t, errs.IsExternal(err))

	stored, _ := fx.contents.FindByID(context.Background(), item.ID)
	assert.Equal(t, models.StatusApproved, stored.Status)
	assert.Nil(t, stored.PublishedDate)

	_, err = fx.analytics.FindByContentAndPlatform(context.Background(), item.ID, models.PlatformTwitter, fx.user.ID)
	assert.True(t, errs.IsNotFound(err))
}

func TestPublishGuards(t *testing.T) {
	dispatcher := &fakeDispatcher{
		publishFn: func(*models.Content, models.Platform) (string, error) { return "id", nil },
	}
	fx := newPublishFixture(dispatcher)

	t.Run("foreign content", func(t *testing.T) {
		item := seedContent(t, fx.contents, primitive.NewObjectID(), models.StatusApproved)
		_, err := fx.svc.Publish(context.Background(), fx.user.ID, item.ID.Hex(), models.PlatformTwitter)
		assert.True(t, errs.IsAuthorization(err))
	})

	t.Run("wrong status", func(t *testing.T) {
		item := seedContent(t, fx.contents, fx.user.ID, models.StatusDraft)
		_, err := fx.svc.Publish(context.Background(), fx.user.ID, item.ID.Hex(), models.PlatformTwitter)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("platform not targeted", func(t *testing.T) {
		item := seedContent(t, fx.contents, fx.user.ID, models.StatusApproved)
		_, err := fx.svc.Publish(context.Background(), fx.user.ID, item.ID.Hex(), models.PlatformFacebook)
		assert.True(t, errs.IsValidation(err))
	})
}

func TestPublishRetryAfterPartialRecord(t *testing.T) {
	// An analytics record from an earlier attempt must not block a retry.
	dispatcher := &fakeDispatcher{
		publishFn: func(*models.Content, models.Platform) (string, error) { return "post-9", nil },
	}
	fx := newPublishFixture(dispatcher)
	item := seedContent(t, fx.contents, fx.user.ID, models.StatusApproved)
	existing := models.Analytics{ContentID: item.ID, Platform: models.PlatformTwitter, PostID: "post-9", UserID: fx.user.ID}
	require.NoError(t, fx.analytics.Insert(context.Background(), &existing))

	result, err := fx.svc.Publish(context.Background(), fx.user.ID, item.ID.Hex(), models.PlatformTwitter)
	require.NoError(t, err)
	assert.Equal(t, "post-9", result.PostID)
}

func TestCreateRecord(t *testing.T) {
	fx := newPublishFixture(&fakeDispatcher{})
	item := seedContent(t, fx.contents, fx.user.ID, models.StatusPublished)

	record, err := fx.svc.CreateRecord(context.Background(), fx.user.ID, dto.RecordRequest{
		ContentID: item.ID.Hex(),
		Platform:  models.PlatformTwitter,
		PostID:    "ext-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ext-1", record.PostID)

	// A second record for the same pair conflicts.
	_, err = fx.svc.CreateRecord(context.Background(), fx.user.ID, dto.RecordRequest{
		ContentID: item.ID.Hex(),
		Platform:  models.PlatformTwitter,
		PostID:    "ext-2",
	})
	assert.True(t, errs.IsValidation(err))
}
