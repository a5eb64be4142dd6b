package providers

import (
	"context"
)

// GenerateOptions carries the sampling parameters for one text primitive.
type GenerateOptions struct {
	Temperature float64
	MaxTokens   int
}

// TextProvider is one interchangeable text-generation backend. Generate
// is the single raw primitive; prompt construction and sampling
// parameters live with the Registry so every backend answers the same
// request the same way.
type TextProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// SupportsResearchDepth marks backends whose research primitive
	// honors depth tiers (brief/comprehensive/expert). An explicit
	// capability marker, not a runtime method probe.
	SupportsResearchDepth() bool
}

// ImageOptions carries the generation parameters for one image request.
type ImageOptions struct {
	Size string
	N    int
}

// Image is one generated image reference.
type Image struct {
	URL     string `json:"url"`
	Service string `json:"service"`
	Model   string `json:"model"`
}

// ImageProvider is one interchangeable image-generation backend.
type ImageProvider interface {
	Name() string
	Generate(ctx context.Context, prompt string, opts ImageOptions) ([]Image, error)
}
