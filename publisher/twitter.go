package publisher

import (
	"context"
	"encoding/json"
	"net/http"

	"crosspost/errs"
	"crosspost/httpclient"
	"crosspost/models"
)

const defaultTwitterBaseURL = "https://api.twitter.com/2"

// Twitter publishes tweets and reads tweet metrics.
type Twitter struct {
	client *httpclient.BaseClient
}

func NewTwitter() *Twitter {
	return NewTwitterWithBaseURL(defaultTwitterBaseURL)
}

func NewTwitterWithBaseURL(baseURL string) *Twitter {
	return &Twitter{client: httpclient.NewBaseClient(baseURL)}
}

func (t *Twitter) Platform() models.Platform { return models.PlatformTwitter }

func (t *Twitter) Publish(ctx context.Context, content *models.Content, account models.SocialAccount) (string, error) {
	body, err := json.Marshal(map[string]string{"text": content.Body})
	if err != nil {
		return "", errs.External("twitter", err)
	}
	resp, err := t.client.PostJSON(ctx, "/tweets", body, bearer(account.AccessToken))
	if err != nil {
		return "", errs.External("twitter", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", errs.External("twitter", statusError(resp))
	}
	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errs.External("twitter", err)
	}
	return out.Data.ID, nil
}

func (t *Twitter) FetchMetrics(ctx context.Context, postID string, account models.SocialAccount) (MetricsReport, error) {
	req, err := t.client.NewRequest(ctx, http.MethodGet, "/tweets/"+postID+"/metrics", nil, nil)
	if err != nil {
		return MetricsReport{}, errs.External("twitter", err)
	}
	req.Header.Set("Authorization", "Bearer "+account.AccessToken)
	resp, err := t.client.Do(req)
	if err != nil {
		return MetricsReport{}, errs.External("twitter", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return MetricsReport{}, errs.External("twitter", statusError(resp))
	}
	var out struct {
		ImpressionCount int64 `json:"impression_count"`
		EngagementCount int64 `json:"engagement_count"`
		LikeCount       int64 `json:"like_count"`
		RetweetCount    int64 `json:"retweet_count"`
		ReplyCount      int64 `json:"reply_count"`
		URLLinkClicks   int64 `json:"url_link_clicks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return MetricsReport{}, errs.External("twitter", err)
	}
	// Retweets map to shares and replies to comments.
	return MetricsReport{
		Metrics: models.MetricSnapshot{
			Impressions: out.ImpressionCount,
			Engagement:  out.EngagementCount,
			Likes:       out.LikeCount,
			Shares:      out.RetweetCount,
			Comments:    out.ReplyCount,
			Clicks:      out.URLLinkClicks,
		},
	}, nil
}
