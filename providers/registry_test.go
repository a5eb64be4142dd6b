package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crosspost/config"
	"crosspost/errs"
	"crosspost/models"
)

func TestNewRegistryBuildsOnlyCredentialedProviders(t *testing.T) {
	r := NewRegistry(models.APIKeys{
		"openai": "sk-1",
		"claude": "sk-2",
	}, config.ProvidersConfig{})

	p, err := r.ResolveText("claude")
	require.NoError(t, err)
	assert.Equal(t, "claude", p.Name())

	_, err = r.ResolveImage("stability")
	require.NoError(t, err) // falls back to openai
	_, err = r.ResolveText("")
	require.NoError(t, err)
}

func TestResolveTextPrefersExplicitChoice(t *testing.T) {
	r := NewRegistry(models.APIKeys{"openai": "a", "claude": "b"}, config.ProvidersConfig{})

	p, err := r.ResolveText("claude")
	require.NoError(t, err)
	assert.Equal(t, "claude", p.Name())
}

func TestResolveTextFallsBackInOrder(t *testing.T) {
	// Preference names a provider with no credential; resolution walks
	// openai, claude, perplexity, gemini.
	r := NewRegistry(models.APIKeys{"claude": "b", "gemini": "c"}, config.ProvidersConfig{})

	p, err := r.ResolveText("openai")
	require.NoError(t, err)
	assert.Equal(t, "claude", p.Name())
}

func TestResolveTextNoProviders(t *testing.T) {
	r := NewRegistry(models.APIKeys{}, config.ProvidersConfig{})

	_, err := r.ResolveText("")
	assert.True(t, errs.IsProviderUnavailable(err))
	_, err = r.ResolveImage("")
	assert.True(t, errs.IsProviderUnavailable(err))
}

func TestResolveImageFallbackOrder(t *testing.T) {
	r := NewRegistry(models.APIKeys{"stability": "k", "midjourney": "k"}, config.ProvidersConfig{})

	p, err := r.ResolveImage("")
	require.NoError(t, err)
	assert.Equal(t, "stability", p.Name())
}

func TestResearchPrefersPerplexity(t *testing.T) {
	r := NewRegistry(models.APIKeys{}, config.ProvidersConfig{})
	var captured string
	r.RegisterText(&scriptedProvider{name: "openai", fn: func(prompt string) (string, error) {
		captured = "openai"
		return "x", nil
	}})
	r.RegisterText(&scriptedProvider{name: "perplexity", depth: true, fn: func(prompt string) (string, error) {
		captured = "perplexity"
		return "research", nil
	}})

	out, err := r.ResearchTopic(context.Background(), "quantum computing", "detailed", "")
	require.NoError(t, err)
	assert.Equal(t, "research", out)
	assert.Equal(t, "perplexity", captured)
}

func TestImprovePrefersClaude(t *testing.T) {
	r := NewRegistry(models.APIKeys{}, config.ProvidersConfig{})
	var captured string
	r.RegisterText(&scriptedProvider{name: "openai", fn: func(string) (string, error) {
		captured = "openai"
		return "x", nil
	}})
	r.RegisterText(&scriptedProvider{name: "claude", fn: func(string) (string, error) {
		captured = "claude"
		return "improved", nil
	}})

	out, err := r.ImproveContent(context.Background(), "draft", "tighten it", "")
	require.NoError(t, err)
	assert.Equal(t, "improved", out)
	assert.Equal(t, "claude", captured)
}

type scriptedProvider struct {
	name  string
	depth bool
	fn    func(prompt string) (string, error)
}

func (s *scriptedProvider) Name() string                { return s.name }
func (s *scriptedProvider) SupportsResearchDepth() bool { return s.depth }

func (s *scriptedProvider) Generate(_ context.Context, prompt string, _ GenerateOptions) (string, error) {
	return s.fn(prompt)
}
