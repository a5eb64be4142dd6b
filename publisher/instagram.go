package publisher

import (
	"context"
	"encoding/json"
	"net/http"

	"crosspost/errs"
	"crosspost/httpclient"
	"crosspost/models"
)

// Instagram publishes through the Graph API's two-phase flow: create a
// media container, then publish it. Posts require at least one media
// reference on the content.
type Instagram struct {
	client *httpclient.BaseClient
}

func NewInstagram() *Instagram {
	return NewInstagramWithBaseURL(defaultGraphBaseURL)
}

func NewInstagramWithBaseURL(baseURL string) *Instagram {
	return &Instagram{client: httpclient.NewBaseClient(baseURL)}
}

func (i *Instagram) Platform() models.Platform { return models.PlatformInstagram }

func (i *Instagram) Publish(ctx context.Context, content *models.Content, account models.SocialAccount) (string, error) {
	if len(content.MediaURLs) == 0 {
		return "", errs.Validation("instagram posts require at least one media url")
	}

	// Phase 1: create the media container.
	body, err := json.Marshal(map[string]string{
		"image_url":    content.MediaURLs[0],
		"caption":      content.Body,
		"access_token": account.AccessToken,
	})
	if err != nil {
		return "", errs.ExternalPhase("instagram", "media container", err)
	}
	resp, err := i.client.PostJSON(ctx, "/"+account.Username+"/media", body, nil)
	if err != nil {
		return "", errs.ExternalPhase("instagram", "media container", err)
	}
	containerID, err := decodeGraphID(resp)
	if err != nil {
		return "", errs.ExternalPhase("instagram", "media container", err)
	}

	// Phase 2: publish the container.
	body, err = json.Marshal(map[string]string{
		"creation_id":  containerID,
		"access_token": account.AccessToken,
	})
	if err != nil {
		return "", errs.ExternalPhase("instagram", "media publish", err)
	}
	resp, err = i.client.PostJSON(ctx, "/"+account.Username+"/media_publish", body, nil)
	if err != nil {
		return "", errs.ExternalPhase("instagram", "media publish", err)
	}
	postID, err := decodeGraphID(resp)
	if err != nil {
		return "", errs.ExternalPhase("instagram", "media publish", err)
	}
	return postID, nil
}

func decodeGraphID(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (i *Instagram) FetchMetrics(ctx context.Context, postID string, account models.SocialAccount) (MetricsReport, error) {
	insights, err := fetchGraphInsights(ctx, i.client, "instagram",
		postID, "impressions,reach,engagement,saved", account.AccessToken)
	if err != nil {
		return MetricsReport{}, err
	}
	return MetricsReport{
		Metrics: models.MetricSnapshot{
			Impressions: insights.value("impressions"),
			Engagement:  insights.value("engagement"),
			Saves:       insights.value("saved"),
		},
	}, nil
}
