package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"crosspost/errs"
	"crosspost/httpclient"
)

const defaultClaudeBaseURL = "https://api.anthropic.com/v1"

const anthropicVersion = "2023-06-01"

// Claude is the Anthropic messages-API text provider.
type Claude struct {
	client *httpclient.BaseClient
	apiKey string
	model  string
}

func NewClaude(apiKey, model string) *Claude {
	return NewClaudeWithBaseURL(apiKey, model, defaultClaudeBaseURL)
}

func NewClaudeWithBaseURL(apiKey, model, baseURL string) *Claude {
	return &Claude{
		client: httpclient.NewBaseClient(baseURL),
		apiKey: apiKey,
		model:  model,
	}
}

func (c *Claude) Name() string { return "claude" }

func (c *Claude) SupportsResearchDepth() bool { return false }

type anthropicRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (c *Claude) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1000
	}
	body, err := json.Marshal(anthropicRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", errs.External("claude", err)
	}
	resp, err := c.client.PostJSON(ctx, "/messages", body, map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	})
	if err != nil {
		return "", errs.External("claude", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", errs.External("claude", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet))
	}
	var out anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errs.External("claude", err)
	}
	if len(out.Content) == 0 {
		return "", nil
	}
	return out.Content[0].Text, nil
}
