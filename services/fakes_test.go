package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"crosspost/config"
	"crosspost/errs"
	"crosspost/models"
	"crosspost/providers"
	"crosspost/publisher"
	"crosspost/repositories"
)

// In-memory store fakes matching the repository behavior, including the
// NotFound translation and the analytics uniqueness rule.

type fakeContentStore struct {
	items map[primitive.ObjectID]models.Content
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{items: map[primitive.ObjectID]models.Content{}}
}

func (f *fakeContentStore) Insert(_ context.Context, c *models.Content) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	f.items[c.ID] = *c
	return nil
}

func (f *fakeContentStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Content, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, errs.NotFound("content")
	}
	copy := c
	return &copy, nil
}

func (f *fakeContentStore) FindByUser(_ context.Context, userID primitive.ObjectID, filter repositories.ContentFilter) ([]models.Content, error) {
	var out []models.Content
	for _, c := range f.items {
		if c.UserID != userID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.ContentType != "" && c.ContentType != filter.ContentType {
			continue
		}
		if filter.Platform != "" && !containsPlatform(c.Platforms, filter.Platform) {
			continue
		}
		if filter.Search != "" && !matchesSearch(c, filter.Search) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Skip > 0 {
		if filter.Skip >= int64(len(out)) {
			return nil, nil
		}
		out = out[filter.Skip:]
	}
	if filter.Limit > 0 && filter.Limit < int64(len(out)) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeContentStore) CountByUser(ctx context.Context, userID primitive.ObjectID, filter repositories.ContentFilter) (int64, error) {
	// A count ignores paging, like CountDocuments does.
	filter.Skip = 0
	filter.Limit = 0
	items, _ := f.FindByUser(ctx, userID, filter)
	return int64(len(items)), nil
}

func containsPlatform(platforms []models.Platform, p models.Platform) bool {
	for _, candidate := range platforms {
		if candidate == p {
			return true
		}
	}
	return false
}

// matchesSearch mirrors the repository's case-insensitive regex over
// title, description and keywords.
func matchesSearch(c models.Content, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(c.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(c.Description), term) {
		return true
	}
	for _, k := range c.Keywords {
		if strings.Contains(strings.ToLower(k), term) {
			return true
		}
	}
	return false
}

func (f *fakeContentStore) Update(_ context.Context, c *models.Content) error {
	if _, ok := f.items[c.ID]; !ok {
		return errs.NotFound("content")
	}
	c.UpdatedAt = time.Now()
	f.items[c.ID] = *c
	return nil
}

func (f *fakeContentStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.items[id]; !ok {
		return errs.NotFound("content")
	}
	delete(f.items, id)
	return nil
}

type fakeScheduleStore struct {
	items map[primitive.ObjectID]models.Schedule
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{items: map[primitive.ObjectID]models.Schedule{}}
}

func (f *fakeScheduleStore) Insert(_ context.Context, s *models.Schedule) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	f.items[s.ID] = *s
	return nil
}

func (f *fakeScheduleStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Schedule, error) {
	s, ok := f.items[id]
	if !ok {
		return nil, errs.NotFound("schedule")
	}
	copy := s
	return &copy, nil
}

func (f *fakeScheduleStore) FindByContent(_ context.Context, contentID primitive.ObjectID) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, s := range f.items {
		if s.ContentID == contentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScheduleStore) FindByUser(_ context.Context, userID primitive.ObjectID, from, to *time.Time) ([]models.Schedule, error) {
	var out []models.Schedule
	for _, s := range f.items {
		if s.UserID != userID {
			continue
		}
		if from != nil && s.ScheduledDate.Before(*from) {
			continue
		}
		if to != nil && s.ScheduledDate.After(*to) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledDate.Before(out[j].ScheduledDate) })
	return out, nil
}

func (f *fakeScheduleStore) CountByContent(_ context.Context, contentID primitive.ObjectID) (int64, error) {
	var n int64
	for _, s := range f.items {
		if s.ContentID == contentID {
			n++
		}
	}
	return n, nil
}

func (f *fakeScheduleStore) MarkPublished(_ context.Context, contentID primitive.ObjectID, platform models.Platform, publishedAt time.Time) error {
	for id, s := range f.items {
		if s.ContentID == contentID && s.Platform == platform && s.Status == models.ScheduleScheduled {
			s.Status = models.SchedulePublished
			s.PublishedDate = &publishedAt
			f.items[id] = s
		}
	}
	return nil
}

func (f *fakeScheduleStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.items[id]; !ok {
		return errs.NotFound("schedule")
	}
	delete(f.items, id)
	return nil
}

func (f *fakeScheduleStore) DeleteByContent(_ context.Context, contentID primitive.ObjectID) error {
	for id, s := range f.items {
		if s.ContentID == contentID {
			delete(f.items, id)
		}
	}
	return nil
}

type fakeAnalyticsStore struct {
	items map[primitive.ObjectID]models.Analytics
}

func newFakeAnalyticsStore() *fakeAnalyticsStore {
	return &fakeAnalyticsStore{items: map[primitive.ObjectID]models.Analytics{}}
}

func (f *fakeAnalyticsStore) Insert(_ context.Context, a *models.Analytics) error {
	for _, existing := range f.items {
		if existing.ContentID == a.ContentID && existing.Platform == a.Platform && existing.UserID == a.UserID {
			return errs.Validation("analytics record already exists for content %s on %s", a.ContentID.Hex(), a.Platform)
		}
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.LastUpdated.IsZero() {
		a.LastUpdated = now
	}
	f.items[a.ID] = *a
	return nil
}

func (f *fakeAnalyticsStore) FindByContentAndPlatform(_ context.Context, contentID primitive.ObjectID, platform models.Platform, userID primitive.ObjectID) (*models.Analytics, error) {
	for _, a := range f.items {
		if a.ContentID == contentID && a.Platform == platform && a.UserID == userID {
			copy := a
			return &copy, nil
		}
	}
	return nil, errs.NotFound("analytics record")
}

func (f *fakeAnalyticsStore) FindByContent(_ context.Context, contentID, userID primitive.ObjectID) ([]models.Analytics, error) {
	var out []models.Analytics
	for _, a := range f.items {
		if a.ContentID == contentID && a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAnalyticsStore) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Analytics, error) {
	var out []models.Analytics
	for _, a := range f.items {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAnalyticsStore) Update(_ context.Context, a *models.Analytics) error {
	if _, ok := f.items[a.ID]; !ok {
		return errs.NotFound("analytics record")
	}
	a.LastUpdated = time.Now()
	f.items[a.ID] = *a
	return nil
}

func (f *fakeAnalyticsStore) DeleteByContent(_ context.Context, contentID primitive.ObjectID) error {
	for id, a := range f.items {
		if a.ContentID == contentID {
			delete(f.items, id)
		}
	}
	return nil
}

type fakeUserStore struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUserStore(users ...models.User) *fakeUserStore {
	f := &fakeUserStore{users: map[primitive.ObjectID]models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errs.NotFound("user")
	}
	copy := u
	return &copy, nil
}

// fakeTextProvider scripts text generation per test.
type fakeTextProvider struct {
	name     string
	depth    bool
	generate func(prompt string, opts providers.GenerateOptions) (string, error)
}

func (f *fakeTextProvider) Name() string                { return f.name }
func (f *fakeTextProvider) SupportsResearchDepth() bool { return f.depth }

func (f *fakeTextProvider) Generate(_ context.Context, prompt string, opts providers.GenerateOptions) (string, error) {
	return f.generate(prompt, opts)
}

type fakeImageProvider struct {
	name   string
	images []providers.Image
	err    error
}

func (f *fakeImageProvider) Name() string { return f.name }

func (f *fakeImageProvider) Generate(_ context.Context, _ string, _ providers.ImageOptions) ([]providers.Image, error) {
	return f.images, f.err
}

// registryWith returns a RegistryFactory exposing exactly the given
// providers, regardless of credentials.
func registryWith(text []providers.TextProvider, image []providers.ImageProvider) RegistryFactory {
	return func(_ models.APIKeys, cfg config.ProvidersConfig) *providers.Registry {
		r := providers.NewRegistry(models.APIKeys{}, cfg)
		for _, p := range text {
			r.RegisterText(p)
		}
		for _, p := range image {
			r.RegisterImage(p)
		}
		return r
	}
}

// fakeDispatcher scripts publish and metrics responses.
type fakeDispatcher struct {
	publishFn func(content *models.Content, platform models.Platform) (string, error)
	metricsFn func(platform models.Platform, postID string) (publisher.MetricsReport, error)
}

func (f *fakeDispatcher) Publish(_ context.Context, content *models.Content, _ *models.User, platform models.Platform) (string, error) {
	return f.publishFn(content, platform)
}

func (f *fakeDispatcher) FetchMetrics(_ context.Context, _ *models.User, platform models.Platform, postID string) (publisher.MetricsReport, error) {
	return f.metricsFn(platform, postID)
}
