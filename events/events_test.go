package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"crosspost/models"
)

func TestNewContentEvent(t *testing.T) {
	content := &models.Content{
		ID:          primitive.NewObjectID(),
		UserID:      primitive.NewObjectID(),
		ContentType: models.TypeBlog,
		Status:      models.StatusApproved,
		Platforms:   []models.Platform{models.PlatformLinkedIn},
	}

	e := NewContentEvent(ContentApproved, content)
	assert.Equal(t, ContentApproved, e.Type)
	assert.Equal(t, "crosspost-api", e.Source)
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, content.ID, e.ContentID)
	assert.Equal(t, content.Status, e.Status)

	// Each event carries its own id.
	other := NewContentEvent(ContentApproved, content)
	assert.NotEqual(t, e.ID, other.ID)
}

func TestNewAnalyticsSyncedEvent(t *testing.T) {
	record := &models.Analytics{
		ContentID: primitive.NewObjectID(),
		UserID:    primitive.NewObjectID(),
		Platform:  models.PlatformTwitter,
		PostID:    "tw-1",
	}

	e := NewAnalyticsSyncedEvent(record)
	assert.Equal(t, AnalyticsSynced, e.Type)
	assert.Equal(t, "tw-1", e.PostID)
	assert.Equal(t, record.Platform, e.Platform)
}
