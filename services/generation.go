package services

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"crosspost/config"
	"crosspost/dto"
	"crosspost/errs"
	"crosspost/eventbus"
	"crosspost/events"
	"crosspost/logger"
	"crosspost/models"
	"crosspost/providers"
)

// RegistryFactory builds a provider registry from a credential set.
// Swappable so tests can inject fake providers.
type RegistryFactory func(keys models.APIKeys, cfg config.ProvidersConfig) *providers.Registry

// GenerationService runs the content generation pipeline and the
// standalone generation operations (ideas, research, improve, image,
// repurpose).
type GenerationService struct {
	contents    ContentStore
	users       UserStore
	cfg         config.ProvidersConfig
	newRegistry RegistryFactory
	bus         *eventbus.Bus
}

func NewGenerationService(contents ContentStore, users UserStore, cfg config.ProvidersConfig, bus *eventbus.Bus) *GenerationService {
	return NewGenerationServiceWithRegistry(contents, users, cfg, bus, providers.NewRegistry)
}

func NewGenerationServiceWithRegistry(contents ContentStore, users UserStore, cfg config.ProvidersConfig, bus *eventbus.Bus, factory RegistryFactory) *GenerationService {
	return &GenerationService{
		contents:    contents,
		users:       users,
		cfg:         cfg,
		newRegistry: factory,
		bus:         bus,
	}
}

func (s *GenerationService) registryFor(ctx context.Context, userID primitive.ObjectID) (*providers.Registry, *models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return s.newRegistry(user.APIKeys, s.cfg), user, nil
}

// GeneratePackage materializes one pending_approval content item per
// (platform, content type) pair. A provider returning empty for a cell
// skips that cell; a provider error aborts the rest of the pipeline.
func (s *GenerationService) GeneratePackage(ctx context.Context, userID primitive.ObjectID, req dto.GenerateRequest) (*dto.ContentPackage, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, errs.Validation("topic is required")
	}
	if len(req.Platforms) == 0 || len(req.ContentTypes) == 0 {
		return nil, errs.Validation("platforms and content_types must be non-empty")
	}

	registry, user, err := s.registryFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	tone := req.Tone
	if tone == "" {
		tone = user.Settings.DefaultTone
	}
	if tone == "" {
		tone = "professional"
	}
	preference := req.Provider
	if preference == "" {
		preference = user.Settings.DefaultProvider
	}

	textProvider, err := registry.ResolveText(preference)
	if err != nil {
		return nil, err
	}
	providerName := textProvider.Name()

	pkg := &dto.ContentPackage{
		Topic:    req.Topic,
		Hashtags: map[models.Platform]string{},
		Images:   map[string][]providers.Image{},
	}

	if req.IncludeResearch {
		research, err := registry.ResearchTopic(ctx, req.Topic, req.ResearchDepth, preference)
		if err != nil {
			return nil, err
		}
		pkg.Research = research
	}

	for _, platform := range req.Platforms {
		hashtags, err := registry.GenerateHashtags(ctx, req.Topic, platform, 10, preference)
		if err != nil {
			return nil, err
		}
		pkg.Hashtags[platform] = hashtags

		for _, kind := range req.ContentTypes {
			body, err := s.generateCell(ctx, registry, req.Topic, platform, kind, tone, req.Keywords, preference)
			if err != nil {
				return nil, err
			}
			if strings.TrimSpace(body) == "" {
				logger.InfoWithFields("empty generation result, skipping cell", logger.Fields{
					"topic":        req.Topic,
					"platform":     string(platform),
					"content_type": string(kind),
				})
				continue
			}

			item := models.Content{
				Title:       deriveTitle(body, req.Topic, platform, kind),
				Body:        body,
				ContentType: kind,
				Platforms:   []models.Platform{platform},
				Status:      models.StatusPendingApproval,
				Tone:        tone,
				Keywords:    req.Keywords,
				Provider:    providerName,
				UserID:      userID,
			}

			if req.GenerateImages {
				imageKey := fmt.Sprintf("%s_%s", platform, kind)
				images, err := s.generateCellImage(ctx, registry, &item, req, platform, kind)
				if err != nil {
					return nil, err
				}
				if len(images) > 0 {
					pkg.Images[imageKey] = images
					for _, img := range images {
						item.MediaURLs = append(item.MediaURLs, img.URL)
					}
				}
			}

			if err := s.contents.Insert(ctx, &item); err != nil {
				return nil, err
			}
			pkg.Items = append(pkg.Items, item)
			publishEvent(ctx, s.bus, events.TopicLifecycle, item.ID.Hex(),
				events.NewContentEvent(events.ContentGenerated, &item))
		}
	}
	return pkg, nil
}

func (s *GenerationService) generateCell(ctx context.Context, registry *providers.Registry, topic string, platform models.Platform, kind models.ContentType, tone string, keywords []string, preference string) (string, error) {
	switch kind {
	case models.TypeBlog:
		return registry.GenerateBlogPost(ctx, topic, tone, keywords, 800, preference)
	case models.TypeArticle:
		return registry.GenerateBlogPost(ctx, topic, tone, keywords, 1500, preference)
	case models.TypeVideoScript:
		return registry.GenerateVideoScript(ctx, topic, tone, "medium", keywords, preference)
	case models.TypeAudiogram:
		return registry.GenerateVideoScript(ctx, topic, tone, "short", keywords, preference)
	default:
		return registry.GenerateSocialPost(ctx, topic, platform, tone, keywords, preference)
	}
}

func (s *GenerationService) generateCellImage(ctx context.Context, registry *providers.Registry, item *models.Content, req dto.GenerateRequest, platform models.Platform, kind models.ContentType) ([]providers.Image, error) {
	if kind == models.TypeBlog || kind == models.TypeArticle {
		return registry.GenerateHeaderImage(ctx, item.Title, req.ImageStyle, req.Provider)
	}
	return registry.GenerateSocialImage(ctx, req.Topic, platform, req.ImageStyle, req.Provider)
}

// deriveTitle uses the body's leading Markdown heading when present,
// otherwise synthesizes from topic, platform and kind.
func deriveTitle(body, topic string, platform models.Platform, kind models.ContentType) string {
	firstLine := body
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		firstLine = body[:idx]
	}
	firstLine = strings.TrimSpace(firstLine)
	if strings.HasPrefix(firstLine, "# ") {
		return strings.TrimSpace(strings.TrimPrefix(firstLine, "# "))
	}
	return fmt.Sprintf("%s - %s %s", topic, platform, kind)
}

// GenerateIdeas returns raw idea text from the preferred provider.
func (s *GenerationService) GenerateIdeas(ctx context.Context, userID primitive.ObjectID, req dto.IdeasRequest) (string, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return "", errs.Validation("topic is required")
	}
	registry, user, err := s.registryFor(ctx, userID)
	if err != nil {
		return "", err
	}
	tone := req.Tone
	if tone == "" {
		tone = user.Settings.DefaultTone
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "social media posts"
	}
	return registry.GenerateIdeas(ctx, req.Topic, contentType, tone, req.Count, req.Provider)
}

// Research returns a research document for a topic.
func (s *GenerationService) Research(ctx context.Context, userID primitive.ObjectID, req dto.ResearchRequest) (string, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return "", errs.Validation("topic is required")
	}
	registry, _, err := s.registryFor(ctx, userID)
	if err != nil {
		return "", err
	}
	return registry.ResearchTopic(ctx, req.Topic, req.Depth, req.Provider)
}

// Improve rewrites a content item's body from feedback and stamps the
// provider that produced the rewrite.
func (s *GenerationService) Improve(ctx context.Context, userID primitive.ObjectID, req dto.ImproveRequest) (*models.Content, error) {
	contentID, err := parseObjectID(req.ContentID, "content")
	if err != nil {
		return nil, err
	}
	content, err := s.contents.FindByID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if content.UserID != userID {
		return nil, errs.Authorization("not authorized to modify this content")
	}
	registry, _, err := s.registryFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	improved, err := registry.ImproveContent(ctx, content.Body, req.Feedback, req.Provider)
	if err != nil {
		return nil, err
	}
	content.Body = improved
	if p, err := registry.ResolveText(req.Provider); err == nil {
		content.Provider = p.Name()
	}
	if err := s.contents.Update(ctx, content); err != nil {
		return nil, err
	}
	return content, nil
}

// GenerateImage produces a standalone image: social (platform-sized),
// header (landscape), or generic from a raw prompt.
func (s *GenerationService) GenerateImage(ctx context.Context, userID primitive.ObjectID, req dto.ImageRequest) ([]providers.Image, error) {
	registry, _, err := s.registryFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	switch req.Kind {
	case "social":
		if req.Topic == "" || req.Platform == "" {
			return nil, errs.Validation("topic and platform are required for social images")
		}
		return registry.GenerateSocialImage(ctx, req.Topic, req.Platform, req.Style, req.Provider)
	case "header":
		if req.Title == "" {
			return nil, errs.Validation("title is required for header images")
		}
		return registry.GenerateHeaderImage(ctx, req.Title, req.Style, req.Provider)
	default:
		if req.Prompt == "" {
			return nil, errs.Validation("prompt is required")
		}
		return registry.GenerateImage(ctx, req.Prompt, req.Provider)
	}
}

// Repurpose rewrites an existing item for another platform and kind,
// producing a new pending_approval item. Defaults to the claude backend.
func (s *GenerationService) Repurpose(ctx context.Context, userID primitive.ObjectID, contentID string, req dto.RepurposeRequest) (*models.Content, error) {
	id, err := parseObjectID(contentID, "content")
	if err != nil {
		return nil, err
	}
	source, err := s.contents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if source.UserID != userID {
		return nil, errs.Authorization("not authorized to repurpose this content")
	}
	registry, _, err := s.registryFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	preference := req.Provider
	if preference == "" || preference == "default" {
		preference = "claude"
	}
	p, err := registry.ResolveText(preference)
	if err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(
		"Repurpose the following %s content as a %s for %s. Preserve the core message while adapting the format, length, and style to the target platform.\n\nOriginal content:\n%s",
		source.ContentType, req.TargetType, req.TargetPlatform, source.Body)
	body, err := p.Generate(ctx, prompt, providers.GenerateOptions{Temperature: 0.7, MaxTokens: 1500})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(body) == "" {
		return nil, errs.External(p.Name(), fmt.Errorf("empty repurpose result"))
	}

	item := models.Content{
		Title:       fmt.Sprintf("%s (Repurposed for %s)", source.Title, req.TargetPlatform),
		Description: source.Description,
		Body:        body,
		ContentType: req.TargetType,
		Platforms:   []models.Platform{req.TargetPlatform},
		Status:      models.StatusPendingApproval,
		Tone:        source.Tone,
		Keywords:    source.Keywords,
		Provider:    p.Name(),
		UserID:      userID,
	}
	if err := s.contents.Insert(ctx, &item); err != nil {
		return nil, err
	}
	publishEvent(ctx, s.bus, events.TopicLifecycle, item.ID.Hex(),
		events.NewContentEvent(events.ContentGenerated, &item))
	return &item, nil
}
