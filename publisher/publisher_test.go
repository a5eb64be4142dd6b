package publisher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosspost/errs"
	"crosspost/models"
)

func connectedUser(platform models.Platform) *models.User {
	return &models.User{
		SocialAccounts: []models.SocialAccount{{
			Platform:    platform,
			Connected:   true,
			AccessToken: "token-123",
			Username:    "acct",
		}},
	}
}

func sampleContent() *models.Content {
	return &models.Content{
		Title:     "Post",
		Body:      "post body",
		Platforms: []models.Platform{models.PlatformTwitter},
	}
}

func TestDispatcherUnknownPlatform(t *testing.T) {
	d := NewDispatcher()

	_, err := d.Publish(context.Background(), sampleContent(), connectedUser("myspace"), "myspace")
	assert.True(t, errs.IsUnsupportedPlatform(err))
}

func TestDispatcherRequiresConnectedAccount(t *testing.T) {
	d := NewDispatcher()
	user := &models.User{
		SocialAccounts: []models.SocialAccount{{
			Platform:  models.PlatformTwitter,
			Connected: false,
		}},
	}

	_, err := d.Publish(context.Background(), sampleContent(), user, models.PlatformTwitter)
	assert.True(t, errs.IsAuthorization(err))

	_, err = d.FetchMetrics(context.Background(), user, models.PlatformTwitter, "post-1")
	assert.True(t, errs.IsAuthorization(err))
}

func TestTwitterPublish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tweets", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "post body", body["text"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "tw-1"}})
	}))
	defer srv.Close()

	d := &Dispatcher{adapters: map[models.Platform]Adapter{}}
	d.Register(NewTwitterWithBaseURL(srv.URL))

	postID, err := d.Publish(context.Background(), sampleContent(), connectedUser(models.PlatformTwitter), models.PlatformTwitter)
	require.NoError(t, err)
	assert.Equal(t, "tw-1", postID)
}

func TestTwitterMetricsNormalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tweets/tw-1/metrics", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]int64{
			"impression_count": 5000,
			"engagement_count": 400,
			"like_count":       300,
			"retweet_count":    50,
			"reply_count":      25,
			"url_link_clicks":  75,
		})
	}))
	defer srv.Close()

	tw := NewTwitterWithBaseURL(srv.URL)
	report, err := tw.FetchMetrics(context.Background(), "tw-1", models.SocialAccount{AccessToken: "t"})
	require.NoError(t, err)

	assert.Equal(t, int64(5000), report.Metrics.Impressions)
	assert.Equal(t, int64(400), report.Metrics.Engagement)
	assert.Equal(t, int64(300), report.Metrics.Likes)
	// Retweets land in shares, replies in comments.
	assert.Equal(t, int64(50), report.Metrics.Shares)
	assert.Equal(t, int64(25), report.Metrics.Comments)
	assert.Equal(t, int64(75), report.Metrics.Clicks)
}

func TestLinkedInPublish(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ugcPosts", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "urn:li:person:acct", payload["author"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "li-9"})
	}))
	defer srv.Close()

	li := NewLinkedInWithBaseURL(srv.URL)
	postID, err := li.Publish(context.Background(), sampleContent(), models.SocialAccount{AccessToken: "t", Username: "acct"})
	require.NoError(t, err)
	assert.Equal(t, "li-9", postID)
}

func TestLinkedInMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organizationalEntityShareStatistics", r.URL.Path)
		assert.Equal(t, "organizationalEntity", r.URL.Query().Get("q"))

		json.NewEncoder(w).Encode(map[string]any{
			"elements": []map[string]any{{
				"totalShareStatistics": map[string]int64{
					"impressionCount": 1200,
					"engagement":      90,
					"clickCount":      30,
					"likeCount":       40,
					"commentCount":    10,
					"shareCount":      10,
				},
			}},
		})
	}))
	defer srv.Close()

	li := NewLinkedInWithBaseURL(srv.URL)
	report, err := li.FetchMetrics(context.Background(), "123", models.SocialAccount{AccessToken: "t"})
	require.NoError(t, err)
	assert.Equal(t, int64(1200), report.Metrics.Impressions)
	assert.Equal(t, int64(90), report.Metrics.Engagement)
	assert.Equal(t, int64(10), report.Metrics.Shares)
}

func TestFacebookPublishAndInsights(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/acct/feed":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "token-123", body["access_token"])
			json.NewEncoder(w).Encode(map[string]string{"id": "fb-7"})
		case "/fb-7/insights":
			assert.Equal(t, "token-123", r.URL.Query().Get("access_token"))
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{
					{"name": "post_impressions", "values": []map[string]int64{{"value": 800}}},
					{"name": "post_engagements", "values": []map[string]int64{{"value": 60}}},
					{"name": "post_reactions_by_type_total", "values": []map[string]int64{{"value": 45}}},
				},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	fb := NewFacebookWithBaseURL(srv.URL)
	account := models.SocialAccount{AccessToken: "token-123", Username: "acct"}

	postID, err := fb.Publish(context.Background(), sampleContent(), account)
	require.NoError(t, err)
	assert.Equal(t, "fb-7", postID)

	report, err := fb.FetchMetrics(context.Background(), postID, account)
	require.NoError(t, err)
	assert.Equal(t, int64(800), report.Metrics.Impressions)
	assert.Equal(t, int64(60), report.Metrics.Engagement)
	// Reactions land in likes.
	assert.Equal(t, int64(45), report.Metrics.Likes)
}

func TestInstagramTwoPhasePublish(t *testing.T) {
	var containerCreated bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/acct/media":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "https://img.example.com/1.png", body["image_url"])
			containerCreated = true
			json.NewEncoder(w).Encode(map[string]string{"id": "container-1"})
		case "/acct/media_publish":
			assert.True(t, containerCreated, "publish before container creation")
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "container-1", body["creation_id"])
			json.NewEncoder(w).Encode(map[string]string{"id": "ig-post-1"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	ig := NewInstagramWithBaseURL(srv.URL)
	content := sampleContent()
	content.MediaURLs = []string{"https://img.example.com/1.png"}

	postID, err := ig.Publish(context.Background(), content, models.SocialAccount{AccessToken: "t", Username: "acct"})
	require.NoError(t, err)
	assert.Equal(t, "ig-post-1", postID)
}

func TestInstagramPublishRequiresMedia(t *testing.T) {
	ig := NewInstagramWithBaseURL("http://unused.invalid")

	_, err := ig.Publish(context.Background(), sampleContent(), models.SocialAccount{Username: "acct"})
	assert.True(t, errs.IsValidation(err))
}

func TestInstagramPhaseTaggedErrors(t *testing.T) {
	t.Run("container phase", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"bad image"}`))
		}))
		defer srv.Close()

		ig := NewInstagramWithBaseURL(srv.URL)
		content := sampleContent()
		content.MediaURLs = []string{"https://img.example.com/1.png"}

		_, err := ig.Publish(context.Background(), content, models.SocialAccount{Username: "acct"})
		require.Error(t, err)
		var ext *errs.ExternalServiceError
		require.ErrorAs(t, err, &ext)
		assert.Equal(t, "instagram", ext.Service)
		assert.Equal(t, "media container", ext.Phase)
	})

	t.Run("publish phase", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/acct/media" {
				json.NewEncoder(w).Encode(map[string]string{"id": "container-1"})
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"publish failed"}`))
		}))
		defer srv.Close()

		ig := NewInstagramWithBaseURL(srv.URL)
		content := sampleContent()
		content.MediaURLs = []string{"https://img.example.com/1.png"}

		_, err := ig.Publish(context.Background(), content, models.SocialAccount{Username: "acct"})
		require.Error(t, err)
		var ext *errs.ExternalServiceError
		require.ErrorAs(t, err, &ext)
		assert.Equal(t, "media publish", ext.Phase)
	})
}

func TestInstagramMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ig-post-1/insights", r.URL.Path)
		assert.Equal(t, "impressions,reach,engagement,saved", r.URL.Query().Get("metric"))
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"name": "impressions", "values": []map[string]int64{{"value": 2500}}},
				{"name": "engagement", "values": []map[string]int64{{"value": 180}}},
				{"name": "saved", "values": []map[string]int64{{"value": 35}}},
			},
		})
	}))
	defer srv.Close()

	ig := NewInstagramWithBaseURL(srv.URL)
	report, err := ig.FetchMetrics(context.Background(), "ig-post-1", models.SocialAccount{AccessToken: "t"})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), report.Metrics.Impressions)
	assert.Equal(t, int64(180), report.Metrics.Engagement)
	assert.Equal(t, int64(35), report.Metrics.Saves)
}
