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

const (
	defaultStabilityBaseURL  = "https://api.stability.ai/v1"
	defaultMidjourneyBaseURL = "https://api.midjourney-proxy.example.com/v1"
)

// OpenAIImage generates images via the OpenAI images API.
type OpenAIImage struct {
	client *httpclient.BaseClient
	apiKey string
	model  string
}

func NewOpenAIImage(apiKey, model string) *OpenAIImage {
	return NewOpenAIImageWithBaseURL(apiKey, model, defaultOpenAIBaseURL)
}

func NewOpenAIImageWithBaseURL(apiKey, model, baseURL string) *OpenAIImage {
	return &OpenAIImage{
		client: httpclient.NewBaseClient(baseURL),
		apiKey: apiKey,
		model:  model,
	}
}

func (o *OpenAIImage) Name() string { return "openai" }

type openAIImageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type openAIImageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

func (o *OpenAIImage) Generate(ctx context.Context, prompt string, opts ImageOptions) ([]Image, error) {
	if opts.N <= 0 {
		opts.N = 1
	}
	if opts.Size == "" {
		opts.Size = "1024x1024"
	}
	body, err := json.Marshal(openAIImageRequest{
		Model:  o.model,
		Prompt: prompt,
		N:      opts.N,
		Size:   opts.Size,
	})
	if err != nil {
		return nil, errs.External("openai", err)
	}
	resp, err := o.client.PostJSON(ctx, "/images/generations", body, map[string]string{
		"Authorization": "Bearer " + o.apiKey,
	})
	if err != nil {
		return nil, errs.External("openai", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errs.External("openai", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet))
	}
	var out openAIImageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errs.External("openai", err)
	}
	images := make([]Image, 0, len(out.Data))
	for _, d := range out.Data {
		images = append(images, Image{URL: d.URL, Service: "openai", Model: o.model})
	}
	return images, nil
}

// StabilityImage generates images via the Stability AI text-to-image API.
// Results come back base64-encoded and are returned as data URLs.
type StabilityImage struct {
	client *httpclient.BaseClient
	apiKey string
	engine string
}

func NewStabilityImage(apiKey, engine string) *StabilityImage {
	return NewStabilityImageWithBaseURL(apiKey, engine, defaultStabilityBaseURL)
}

func NewStabilityImageWithBaseURL(apiKey, engine, baseURL string) *StabilityImage {
	return &StabilityImage{
		client: httpclient.NewBaseClient(baseURL),
		apiKey: apiKey,
		engine: engine,
	}
}

func (s *StabilityImage) Name() string { return "stability" }

type stabilityRequest struct {
	TextPrompts []stabilityPrompt `json:"text_prompts"`
	Samples     int               `json:"samples"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
}

type stabilityPrompt struct {
	Text string `json:"text"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64 string `json:"base64"`
	} `json:"artifacts"`
}

func (s *StabilityImage) Generate(ctx context.Context, prompt string, opts ImageOptions) ([]Image, error) {
	if opts.N <= 0 {
		opts.N = 1
	}
	width, height := parseSize(opts.Size)
	body, err := json.Marshal(stabilityRequest{
		TextPrompts: []stabilityPrompt{{Text: prompt}},
		Samples:     opts.N,
		Width:       width,
		Height:      height,
	})
	if err != nil {
		return nil, errs.External("stability", err)
	}
	resp, err := s.client.PostJSON(ctx, "/generation/"+s.engine+"/text-to-image", body, map[string]string{
		"Authorization": "Bearer " + s.apiKey,
	})
	if err != nil {
		return nil, errs.External("stability", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errs.External("stability", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet))
	}
	var out stabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errs.External("stability", err)
	}
	images := make([]Image, 0, len(out.Artifacts))
	for _, a := range out.Artifacts {
		images = append(images, Image{
			URL:     "data:image/png;base64," + a.Base64,
			Service: "stability",
			Model:   s.engine,
		})
	}
	return images, nil
}

// parseSize splits a "WxH" size string. Stability rejects non-multiple-of-64
// dimensions, so unknown input falls back to 1024x1024.
func parseSize(size string) (int, int) {
	var w, h int
	if _, err := fmt.Sscanf(size, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return 1024, 1024
	}
	if w%64 != 0 || h%64 != 0 {
		return 1024, 1024
	}
	return w, h
}

// MidjourneyImage generates images via a Midjourney proxy service.
type MidjourneyImage struct {
	client *httpclient.BaseClient
	apiKey string
}

func NewMidjourneyImage(apiKey string) *MidjourneyImage {
	return NewMidjourneyImageWithBaseURL(apiKey, defaultMidjourneyBaseURL)
}

func NewMidjourneyImageWithBaseURL(apiKey, baseURL string) *MidjourneyImage {
	return &MidjourneyImage{
		client: httpclient.NewBaseClient(baseURL),
		apiKey: apiKey,
	}
}

func (m *MidjourneyImage) Name() string { return "midjourney" }

type midjourneyRequest struct {
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
}

type midjourneyResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

func (m *MidjourneyImage) Generate(ctx context.Context, prompt string, opts ImageOptions) ([]Image, error) {
	if opts.N <= 0 {
		opts.N = 1
	}
	body, err := json.Marshal(midjourneyRequest{Prompt: prompt, N: opts.N})
	if err != nil {
		return nil, errs.External("midjourney", err)
	}
	resp, err := m.client.PostJSON(ctx, "/generate", body, map[string]string{
		"Authorization": "Bearer " + m.apiKey,
	})
	if err != nil {
		return nil, errs.External("midjourney", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errs.External("midjourney", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, snippet))
	}
	var out midjourneyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errs.External("midjourney", err)
	}
	images := make([]Image, 0, len(out.Images))
	for _, i := range out.Images {
		images = append(images, Image{URL: i.URL, Service: "midjourney"})
	}
	return images, nil
}
