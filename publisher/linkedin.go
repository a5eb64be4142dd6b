package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"crosspost/errs"
	"crosspost/httpclient"
	"crosspost/models"
)

const defaultLinkedInBaseURL = "https://api.linkedin.com/v2"

// LinkedIn publishes UGC posts and reads share statistics.
type LinkedIn struct {
	client *httpclient.BaseClient
}

func NewLinkedIn() *LinkedIn {
	return NewLinkedInWithBaseURL(defaultLinkedInBaseURL)
}

func NewLinkedInWithBaseURL(baseURL string) *LinkedIn {
	return &LinkedIn{client: httpclient.NewBaseClient(baseURL)}
}

func (l *LinkedIn) Platform() models.Platform { return models.PlatformLinkedIn }

func (l *LinkedIn) Publish(ctx context.Context, content *models.Content, account models.SocialAccount) (string, error) {
	payload := map[string]any{
		"author":         "urn:li:person:" + account.Username,
		"lifecycleState": "PUBLISHED",
		"specificContent": map[string]any{
			"com.linkedin.ugc.ShareContent": map[string]any{
				"shareCommentary":    map[string]any{"text": content.Body},
				"shareMediaCategory": "NONE",
			},
		},
		"visibility": map[string]any{
			"com.linkedin.ugc.MemberNetworkVisibility": "PUBLIC",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", errs.External("linkedin", err)
	}
	resp, err := l.client.PostJSON(ctx, "/ugcPosts", body, bearer(account.AccessToken))
	if err != nil {
		return "", errs.External("linkedin", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", errs.External("linkedin", statusError(resp))
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errs.External("linkedin", err)
	}
	return out.ID, nil
}

func (l *LinkedIn) FetchMetrics(ctx context.Context, postID string, account models.SocialAccount) (MetricsReport, error) {
	query := url.Values{}
	query.Set("q", "organizationalEntity")
	query.Set("organizationalEntity", "urn:li:organization:"+postID)
	req, err := l.client.NewRequest(ctx, http.MethodGet, "/organizationalEntityShareStatistics", query, nil)
	if err != nil {
		return MetricsReport{}, errs.External("linkedin", err)
	}
	req.Header.Set("Authorization", "Bearer "+account.AccessToken)
	resp, err := l.client.Do(req)
	if err != nil {
		return MetricsReport{}, errs.External("linkedin", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return MetricsReport{}, errs.External("linkedin", statusError(resp))
	}
	var out struct {
		Elements []struct {
			TotalShareStatistics struct {
				ImpressionCount int64 `json:"impressionCount"`
				Engagement      int64 `json:"engagement"`
				ClickCount      int64 `json:"clickCount"`
				LikeCount       int64 `json:"likeCount"`
				CommentCount    int64 `json:"commentCount"`
				ShareCount      int64 `json:"shareCount"`
			} `json:"totalShareStatistics"`
		} `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return MetricsReport{}, errs.External("linkedin", err)
	}
	var report MetricsReport
	if len(out.Elements) > 0 {
		s := out.Elements[0].TotalShareStatistics
		report.Metrics = models.MetricSnapshot{
			Impressions: s.ImpressionCount,
			Engagement:  s.Engagement,
			Clicks:      s.ClickCount,
			Likes:       s.LikeCount,
			Comments:    s.CommentCount,
			Shares:      s.ShareCount,
		}
	}
	return report, nil
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet)
}
