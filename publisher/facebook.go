package publisher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"crosspost/errs"
	"crosspost/httpclient"
	"crosspost/models"
)

const defaultGraphBaseURL = "https://graph.facebook.com/v16.0"

// Facebook publishes page feed posts and reads post insights. The Graph
// API authenticates through an access_token parameter rather than a
// header.
type Facebook struct {
	client *httpclient.BaseClient
}

func NewFacebook() *Facebook {
	return NewFacebookWithBaseURL(defaultGraphBaseURL)
}

func NewFacebookWithBaseURL(baseURL string) *Facebook {
	return &Facebook{client: httpclient.NewBaseClient(baseURL)}
}

func (f *Facebook) Platform() models.Platform { return models.PlatformFacebook }

func (f *Facebook) Publish(ctx context.Context, content *models.Content, account models.SocialAccount) (string, error) {
	body, err := json.Marshal(map[string]string{
		"message":      content.Body,
		"access_token": account.AccessToken,
	})
	if err != nil {
		return "", errs.External("facebook", err)
	}
	resp, err := f.client.PostJSON(ctx, "/"+account.Username+"/feed", body, nil)
	if err != nil {
		return "", errs.External("facebook", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errs.External("facebook", statusError(resp))
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errs.External("facebook", err)
	}
	return out.ID, nil
}

// graphInsights is the Graph API insights response shared by the
// Facebook and Instagram adapters. Metric order follows the requested
// metric list.
type graphInsights struct {
	Data []struct {
		Name   string `json:"name"`
		Values []struct {
			Value int64 `json:"value"`
		} `json:"values"`
	} `json:"data"`
}

func (g *graphInsights) value(name string) int64 {
	for _, d := range g.Data {
		if d.Name == name && len(d.Values) > 0 {
			return d.Values[0].Value
		}
	}
	return 0
}

func fetchGraphInsights(ctx context.Context, client *httpclient.BaseClient, service, postID, metricList, accessToken string) (*graphInsights, error) {
	query := url.Values{}
	query.Set("metric", metricList)
	query.Set("access_token", accessToken)
	req, err := client.NewRequest(ctx, http.MethodGet, "/"+postID+"/insights", query, nil)
	if err != nil {
		return nil, errs.External(service, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errs.External(service, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errs.External(service, statusError(resp))
	}
	var out graphInsights
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errs.External(service, err)
	}
	return &out, nil
}

func (f *Facebook) FetchMetrics(ctx context.Context, postID string, account models.SocialAccount) (MetricsReport, error) {
	insights, err := fetchGraphInsights(ctx, f.client, "facebook",
		postID, "post_impressions,post_engagements,post_reactions_by_type_total", account.AccessToken)
	if err != nil {
		return MetricsReport{}, err
	}
	return MetricsReport{
		Metrics: models.MetricSnapshot{
			Impressions: insights.value("post_impressions"),
			Engagement:  insights.value("post_engagements"),
			Likes:       insights.value("post_reactions_by_type_total"),
		},
	}, nil
}
