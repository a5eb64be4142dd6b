package providers

import (
	"context"
	"fmt"
	"strings"

	"crosspost/config"
	"crosspost/errs"
	"crosspost/models"
)

// Fallback orders per capability. Resolution tries the caller's explicit
// preference first, then walks these lists.
var (
	TextFallbackOrder  = []string{"openai", "claude", "perplexity", "gemini"}
	ImageFallbackOrder = []string{"openai", "stability", "midjourney"}
)

// Registry exposes the generation primitives over the providers a
// credential set unlocks. Built once per request scope; credentials are
// per-user, so no process-wide instance exists.
type Registry struct {
	text  map[string]TextProvider
	image map[string]ImageProvider
}

// NewRegistry constructs providers for exactly the credentials present in
// keys.
func NewRegistry(keys models.APIKeys, cfg config.ProvidersConfig) *Registry {
	r := &Registry{
		text:  map[string]TextProvider{},
		image: map[string]ImageProvider{},
	}
	if k := keys["openai"]; k != "" {
		r.text["openai"] = NewOpenAI(k, cfg.OpenAIModel)
		r.image["openai"] = NewOpenAIImage(k, cfg.OpenAIImageModel)
	}
	if k := keys["claude"]; k != "" {
		r.text["claude"] = NewClaude(k, cfg.ClaudeModel)
	}
	if k := keys["perplexity"]; k != "" {
		r.text["perplexity"] = NewPerplexity(k, cfg.PerplexityModel)
	}
	if k := keys["gemini"]; k != "" {
		r.text["gemini"] = NewGemini(k, cfg.GeminiModel)
	}
	if k := keys["stability"]; k != "" {
		r.image["stability"] = NewStabilityImage(k, cfg.StabilityEngine)
	}
	if k := keys["midjourney"]; k != "" {
		r.image["midjourney"] = NewMidjourneyImage(k)
	}
	return r
}

// RegisterText adds or replaces a text provider. Used by tests and by
// callers wiring custom backends.
func (r *Registry) RegisterText(p TextProvider) { r.text[p.Name()] = p }

// RegisterImage adds or replaces an image provider.
func (r *Registry) RegisterImage(p ImageProvider) { r.image[p.Name()] = p }

// ResolveText returns the preferred text provider when available, else the
// first available provider in the fallback order.
func (r *Registry) ResolveText(preference string) (TextProvider, error) {
	if p, ok := r.text[preference]; ok {
		return p, nil
	}
	for _, name := range TextFallbackOrder {
		if p, ok := r.text[name]; ok {
			return p, nil
		}
	}
	return nil, &errs.ProviderUnavailableError{Capability: "text generation"}
}

// ResolveImage returns the preferred image provider when available, else
// the first available provider in the fallback order.
func (r *Registry) ResolveImage(preference string) (ImageProvider, error) {
	if p, ok := r.image[preference]; ok {
		return p, nil
	}
	for _, name := range ImageFallbackOrder {
		if p, ok := r.image[name]; ok {
			return p, nil
		}
	}
	return nil, &errs.ProviderUnavailableError{Capability: "image generation"}
}

// GenerateIdeas produces count content ideas with title and description.
func (r *Registry) GenerateIdeas(ctx context.Context, topic, contentType, tone string, count int, preference string) (string, error) {
	p, err := r.ResolveText(preference)
	if err != nil {
		return "", err
	}
	if count <= 0 {
		count = 5
	}
	prompt := fmt.Sprintf(
		"Generate %d creative content ideas for %s about %q in a %s tone. For each idea, provide a compelling title and a brief description.",
		count, contentType, topic, tone)
	return p.Generate(ctx, prompt, GenerateOptions{Temperature: 0.8, MaxTokens: 500})
}

// GenerateSocialPost produces one platform-tailored social media post.
func (r *Registry) GenerateSocialPost(ctx context.Context, topic string, platform models.Platform, tone string, keywords []string, preference string) (string, error) {
	p, err := r.ResolveText(preference)
	if err != nil {
		return "", err
	}
	prompt := fmt.Sprintf("Create a %s post about %q in a %s tone. %s %s",
		platform, topic, tone, platformGuideline(platform), keywordHint(keywords, "Include these keywords if possible"))
	return p.Generate(ctx, strings.TrimSpace(prompt), GenerateOptions{Temperature: 0.7, MaxTokens: 500})
}

// GenerateBlogPost produces a Markdown blog post of roughly wordCount words.
func (r *Registry) GenerateBlogPost(ctx context.Context, topic, tone string, keywords []string, wordCount int, preference string) (string, error) {
	p, err := r.ResolveText(preference)
	if err != nil {
		return "", err
	}
	if wordCount <= 0 {
		wordCount = 800
	}
	prompt := fmt.Sprintf(
		"Write a comprehensive blog post about %q in a %s tone. The blog post should be approximately %d words. Include a catchy title, an engaging introduction, 3-5 main sections with subheadings, and a conclusion. %s Format the blog post with proper Markdown formatting.",
		topic, tone, wordCount, keywordHint(keywords, "Include these keywords naturally throughout the text"))
	return p.Generate(ctx, strings.TrimSpace(prompt), GenerateOptions{Temperature: 0.7, MaxTokens: 2000})
}

// GenerateVideoScript produces a video script for the given duration tier
// (short, medium, long).
func (r *Registry) GenerateVideoScript(ctx context.Context, topic, tone, duration string, keywords []string, preference string) (string, error) {
	p, err := r.ResolveText(preference)
	if err != nil {
		return "", err
	}
	durationText := "a 1-2 minute"
	switch duration {
	case "medium":
		durationText = "a 3-5 minute"
	case "long":
		durationText = "a 7-10 minute"
	}
	prompt := fmt.Sprintf(
		"Create a script for %s video about %q in a %s tone. The script should include an attention-grabbing hook, main content sections, and a strong call to action. %s Format the script with [VISUAL DIRECTION] cues in brackets where appropriate.",
		durationText, topic, tone, keywordHint(keywords, "Include these keywords naturally throughout the script"))
	return p.Generate(ctx, strings.TrimSpace(prompt), GenerateOptions{Temperature: 0.7, MaxTokens: 1500})
}

// ResearchTopic produces a research overview. Research prefers a
// depth-aware backend; "default" preference resolves to perplexity.
func (r *Registry) ResearchTopic(ctx context.Context, topic, depth, preference string) (string, error) {
	if preference == "" || preference == "default" {
		preference = "perplexity"
	}
	p, err := r.ResolveText(preference)
	if err != nil {
		return "", err
	}
	if depth == "" {
		depth = "comprehensive"
	}
	if p.SupportsResearchDepth() {
		prompt := fmt.Sprintf(`Research the topic %q and provide the following information:
1. Key facts and statistics
2. Current trends and developments
3. Historical context and background
4. Expert opinions and different perspectives
5. Practical applications or implications
6. Future outlook

%s
Format the research with proper Markdown headings, bullet points, and citations where appropriate.`, topic, depthInstruction(depth))
		return p.Generate(ctx, prompt, GenerateOptions{Temperature: 0.3, MaxTokens: 2000})
	}
	prompt := fmt.Sprintf(`Research the topic %q and provide a comprehensive overview including:
1. Key facts and statistics
2. Current trends
3. Common questions people have about this topic
4. Potential content angles or perspectives
5. Recommended subtopics to explore

Format the research with proper Markdown headings and bullet points.`, topic)
	return p.Generate(ctx, prompt, GenerateOptions{Temperature: 0.5, MaxTokens: 1500})
}

// ImproveContent rewrites content based on feedback. "default" preference
// resolves to claude.
func (r *Registry) ImproveContent(ctx context.Context, content, feedback, preference string) (string, error) {
	if preference == "" || preference == "default" {
		preference = "claude"
	}
	p, err := r.ResolveText(preference)
	if err != nil {
		return "", err
	}
	prompt := fmt.Sprintf("Improve the following content based on this feedback: %q\n\nOriginal content:\n%s", feedback, content)
	return p.Generate(ctx, prompt, GenerateOptions{Temperature: 0.7, MaxTokens: 1500})
}

// GenerateHashtags produces count hashtags for a platform post.
func (r *Registry) GenerateHashtags(ctx context.Context, topic string, platform models.Platform, count int, preference string) (string, error) {
	p, err := r.ResolveText(preference)
	if err != nil {
		return "", err
	}
	if count <= 0 {
		count = 10
	}
	prompt := fmt.Sprintf(
		"Generate %d relevant and effective hashtags for a %s post about %q. Include a mix of popular and niche hashtags. Format as a simple list of hashtags.",
		count, platform, topic)
	return p.Generate(ctx, prompt, GenerateOptions{Temperature: 0.6, MaxTokens: 200})
}

// GenerateSocialImage produces one image sized and styled for a platform
// post.
func (r *Registry) GenerateSocialImage(ctx context.Context, topic string, platform models.Platform, style, preference string) ([]Image, error) {
	p, err := r.ResolveImage(preference)
	if err != nil {
		return nil, err
	}
	if style == "" {
		style = "modern"
	}
	spec := platformImageSpec(platform)
	prompt := fmt.Sprintf(
		"Create a %s style image for a %s post about %q. The image should be %s and optimized for %s.",
		style, platform, topic, spec.description, platform)
	return p.Generate(ctx, prompt, ImageOptions{Size: spec.size, N: 1})
}

// GenerateHeaderImage produces one landscape header image for a long-form
// piece.
func (r *Registry) GenerateHeaderImage(ctx context.Context, title, style, preference string) ([]Image, error) {
	p, err := r.ResolveImage(preference)
	if err != nil {
		return nil, err
	}
	if style == "" {
		style = "professional"
	}
	prompt := fmt.Sprintf(
		"Create a %s header image for a blog post titled %q. The image should be eye-catching, relevant to the topic, and suitable as a featured image.",
		style, title)
	return p.Generate(ctx, prompt, ImageOptions{Size: "1792x1024", N: 1})
}

// GenerateImage produces images from a raw prompt with provider defaults.
func (r *Registry) GenerateImage(ctx context.Context, prompt, preference string) ([]Image, error) {
	p, err := r.ResolveImage(preference)
	if err != nil {
		return nil, err
	}
	return p.Generate(ctx, prompt, ImageOptions{N: 1})
}

func keywordHint(keywords []string, lead string) string {
	if len(keywords) == 0 {
		return ""
	}
	return fmt.Sprintf("%s: %s.", lead, strings.Join(keywords, ", "))
}

func depthInstruction(depth string) string {
	switch depth {
	case "brief":
		return "Provide a brief overview with key points."
	case "expert":
		return "Provide an expert-level analysis with in-depth insights and nuanced perspectives."
	default:
		return "Provide a comprehensive analysis with detailed information."
	}
}

func platformGuideline(platform models.Platform) string {
	switch platform {
	case models.PlatformLinkedIn:
		return "Professional tone, up to 3000 characters, can include hashtags (3-5 recommended)."
	case models.PlatformTwitter:
		return "Concise (max 280 characters), engaging, can include hashtags (1-2 recommended)."
	case models.PlatformFacebook:
		return "Conversational, can be longer form, can include hashtags (2-3 recommended)."
	case models.PlatformInstagram:
		return "Visual-focused caption, can include hashtags (up to 30, but 5-10 recommended)."
	case models.PlatformTikTok:
		return "Very casual, trendy, short and catchy."
	default:
		return ""
	}
}

type imageSpec struct {
	description string
	size        string
}

func platformImageSpec(platform models.Platform) imageSpec {
	switch platform {
	case models.PlatformLinkedIn:
		return imageSpec{description: "professional, business-oriented", size: "1024x1024"}
	case models.PlatformTwitter:
		return imageSpec{description: "engaging, attention-grabbing", size: "1024x1024"}
	case models.PlatformFacebook:
		return imageSpec{description: "social, friendly", size: "1024x1024"}
	case models.PlatformInstagram:
		return imageSpec{description: "visually striking, aesthetic", size: "1024x1024"}
	default:
		return imageSpec{description: "social media appropriate", size: "1024x1024"}
	}
}
