package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosspost/errs"
)

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, 1000, req.MaxTokens) // default applied

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "generated text"}},
			},
		})
	}))
	defer srv.Close()

	p := NewOpenAIWithBaseURL("sk-test", "gpt-4o", srv.URL)
	out, err := p.Generate(context.Background(), "write something", GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "generated text", out)
}

func TestOpenAIGenerateErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"rate limit"}`))
	}))
	defer srv.Close()

	p := NewOpenAIWithBaseURL("sk-test", "gpt-4o", srv.URL)
	_, err := p.Generate(context.Background(), "prompt", GenerateOptions{})
	require.Error(t, err)
	assert.True(t, errs.IsExternal(err))
	assert.Contains(t, err.Error(), "429")
}

func TestOpenAIGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p := NewOpenAIWithBaseURL("sk-test", "gpt-4o", srv.URL)
	out, err := p.Generate(context.Background(), "prompt", GenerateOptions{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestClaudeGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": "claude says hi"}},
		})
	}))
	defer srv.Close()

	p := NewClaudeWithBaseURL("sk-ant", "claude-3-5-sonnet", srv.URL)
	out, err := p.Generate(context.Background(), "hello", GenerateOptions{MaxTokens: 50})
	require.NoError(t, err)
	assert.Equal(t, "claude says hi", out)
}

func TestClaudeGenerateErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"type":"authentication_error"}}`))
	}))
	defer srv.Close()

	p := NewClaudeWithBaseURL("bad-key", "claude-3-5-sonnet", srv.URL)
	_, err := p.Generate(context.Background(), "hello", GenerateOptions{})
	require.Error(t, err)

	var ext *errs.ExternalServiceError
	require.ErrorAs(t, err, &ext)
	assert.Equal(t, "claude", ext.Service)
}

func TestPerplexityGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer pplx-key", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "research result"}},
			},
		})
	}))
	defer srv.Close()

	p := NewPerplexityWithBaseURL("pplx-key", "sonar", srv.URL)
	assert.True(t, p.SupportsResearchDepth())

	out, err := p.Generate(context.Background(), "research this", GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "research result", out)
}

func TestOpenAIImageGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)

		var req openAIImageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 1, req.N)
		assert.Equal(t, "1024x1024", req.Size)

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"url": "https://img.example.com/a.png"}},
		})
	}))
	defer srv.Close()

	p := NewOpenAIImageWithBaseURL("sk-test", "dall-e-3", srv.URL)
	images, err := p.Generate(context.Background(), "a mountain", ImageOptions{})
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "https://img.example.com/a.png", images[0].URL)
	assert.Equal(t, "openai", images[0].Service)
	assert.Equal(t, "dall-e-3", images[0].Model)
}

func TestStabilityImageReturnsDataURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generation/sd3/text-to-image", r.URL.Path)

		var req stabilityRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 1792, req.Width)
		assert.Equal(t, 1024, req.Height)

		json.NewEncoder(w).Encode(map[string]any{
			"artifacts": []map[string]string{{"base64": "aGVsbG8="}},
		})
	}))
	defer srv.Close()

	p := NewStabilityImageWithBaseURL("sk-stab", "sd3", srv.URL)
	images, err := p.Generate(context.Background(), "a forest", ImageOptions{Size: "1792x1024"})
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.True(t, strings.HasPrefix(images[0].URL, "data:image/png;base64,"))
	assert.Equal(t, "stability", images[0].Service)
}

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		w, h int
	}{
		{"1024x1024", 1024, 1024},
		{"1792x1024", 1792, 1024},
		{"", 1024, 1024},
		{"banana", 1024, 1024},
		{"1000x1000", 1024, 1024}, // not a multiple of 64
		{"-64x64", 1024, 1024},
	}
	for _, c := range cases {
		w, h := parseSize(c.in)
		if w != c.w || h != c.h {
			t.Fatalf("parseSize(%q) = %dx%d, want %dx%d", c.in, w, h, c.w, c.h)
		}
	}
}

func TestMidjourneyImageGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generate", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"images": []map[string]string{{"url": "https://mj.example.com/1.png"}},
		})
	}))
	defer srv.Close()

	p := NewMidjourneyImageWithBaseURL("mj-key", srv.URL)
	images, err := p.Generate(context.Background(), "abstract art", ImageOptions{})
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "midjourney", images[0].Service)
}
