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

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAI is the OpenAI chat-completion text provider.
type OpenAI struct {
	client *httpclient.BaseClient
	apiKey string
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return NewOpenAIWithBaseURL(apiKey, model, defaultOpenAIBaseURL)
}

func NewOpenAIWithBaseURL(apiKey, model, baseURL string) *OpenAI {
	return &OpenAI{
		client: httpclient.NewBaseClient(baseURL),
		apiKey: apiKey,
		model:  model,
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) SupportsResearchDepth() bool { return false }

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o *OpenAI) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	out, err := postChatCompletion(ctx, o.client, "/chat/completions", o.model, prompt, opts, map[string]string{
		"Authorization": "Bearer " + o.apiKey,
	})
	if err != nil {
		return "", errs.External("openai", err)
	}
	return out, nil
}

// postChatCompletion covers the OpenAI-compatible chat API shape shared by
// the OpenAI and Perplexity backends.
func postChatCompletion(ctx context.Context, client *httpclient.BaseClient, relPath, model, prompt string, opts GenerateOptions, headers map[string]string) (string, error) {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1000
	}
	body, err := json.Marshal(chatCompletionRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   opts.MaxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", err
	}
	resp, err := client.PostJSON(ctx, relPath, body, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet)
	}
	var out chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}
