package providers

import (
	"context"

	"crosspost/errs"
	"crosspost/httpclient"
)

const defaultPerplexityBaseURL = "https://api.perplexity.ai"

// Perplexity is the Perplexity chat-completion text provider. It is the
// preferred research backend and honors research depth tiers.
type Perplexity struct {
	client *httpclient.BaseClient
	apiKey string
	model  string
}

func NewPerplexity(apiKey, model string) *Perplexity {
	return NewPerplexityWithBaseURL(apiKey, model, defaultPerplexityBaseURL)
}

func NewPerplexityWithBaseURL(apiKey, model, baseURL string) *Perplexity {
	return &Perplexity{
		client: httpclient.NewBaseClient(baseURL),
		apiKey: apiKey,
		model:  model,
	}
}

func (p *Perplexity) Name() string { return "perplexity" }

func (p *Perplexity) SupportsResearchDepth() bool { return true }

func (p *Perplexity) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	out, err := postChatCompletion(ctx, p.client, "/chat/completions", p.model, prompt, opts, map[string]string{
		"Authorization": "Bearer " + p.apiKey,
	})
	if err != nil {
		return "", errs.External("perplexity", err)
	}
	return out, nil
}
