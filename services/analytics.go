package services

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"crosspost/dto"
	"crosspost/errs"
	"crosspost/eventbus"
	"crosspost/events"
	"crosspost/models"
	"crosspost/repositories"
)

// AnalyticsQuery narrows the record set an aggregation view runs over.
type AnalyticsQuery struct {
	From      *time.Time
	To        *time.Time
	Platforms []models.Platform
}

func (q AnalyticsQuery) matches(a *models.Analytics) bool {
	if q.From != nil && a.CreatedAt.Before(*q.From) {
		return false
	}
	if q.To != nil && a.CreatedAt.After(*q.To) {
		return false
	}
	if len(q.Platforms) > 0 {
		found := false
		for _, p := range q.Platforms {
			if a.Platform == p {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// AnalyticsService syncs platform metrics into analytics records and
// computes the read-side aggregation views.
type AnalyticsService struct {
	analytics  AnalyticsStore
	contents   ContentStore
	users      UserStore
	dispatcher Dispatcher
	bus        *eventbus.Bus
}

func NewAnalyticsService(analytics AnalyticsStore, contents ContentStore, users UserStore, dispatcher Dispatcher, bus *eventbus.Bus) *AnalyticsService {
	return &AnalyticsService{
		analytics:  analytics,
		contents:   contents,
		users:      users,
		dispatcher: dispatcher,
		bus:        bus,
	}
}

// Sync fetches current metrics for a published (content, platform) pair
// and overwrites the analytics record, mirroring the snapshot onto the
// content item. A platform failure leaves both untouched.
func (s *AnalyticsService) Sync(ctx context.Context, userID primitive.ObjectID, contentID string, platform models.Platform) (*models.Analytics, error) {
	id, err := parseObjectID(contentID, "content")
	if err != nil {
		return nil, err
	}
	record, err := s.analytics.FindByContentAndPlatform(ctx, id, platform, userID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	report, err := s.dispatcher.FetchMetrics(ctx, user, platform, record.PostID)
	if err != nil {
		return nil, err
	}

	record.Metrics = report.Metrics
	if len(report.Demographics.AgeRanges) > 0 || len(report.Demographics.Genders) > 0 || len(report.Demographics.Locations) > 0 {
		record.Demographics = report.Demographics
	}
	if len(report.TimeData.HourlyEngagement) > 0 || report.TimeData.PeakEngagementTime != "" {
		record.TimeData = report.TimeData
	}
	if err := s.analytics.Update(ctx, record); err != nil {
		return nil, err
	}

	content, err := s.contents.FindByID(ctx, id)
	if err == nil {
		content.Analytics = report.Metrics
		if err := s.contents.Update(ctx, content); err != nil {
			return nil, err
		}
	} else if !errs.IsNotFound(err) {
		return nil, err
	}

	publishEvent(ctx, s.bus, events.TopicLifecycle, record.ContentID.Hex(),
		events.NewAnalyticsSyncedEvent(record))
	return record, nil
}

// GetByContent returns every analytics record for one owned content item.
func (s *AnalyticsService) GetByContent(ctx context.Context, userID primitive.ObjectID, contentID string) ([]models.Analytics, error) {
	id, err := parseObjectID(contentID, "content")
	if err != nil {
		return nil, err
	}
	return s.analytics.FindByContent(ctx, id, userID)
}

func (s *AnalyticsService) matchingRecords(ctx context.Context, userID primitive.ObjectID, q AnalyticsQuery) ([]models.Analytics, error) {
	records, err := s.analytics.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	matched := records[:0]
	for _, r := range records {
		if q.matches(&r) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func (s *AnalyticsService) contentIndex(ctx context.Context, userID primitive.ObjectID) (map[primitive.ObjectID]models.Content, error) {
	items, err := s.contents.FindByUser(ctx, userID, repositories.ContentFilter{})
	if err != nil {
		return nil, err
	}
	index := make(map[primitive.ObjectID]models.Content, len(items))
	for _, item := range items {
		index[item.ID] = item
	}
	return index, nil
}

func addInto(dst *models.MetricSnapshot, m models.MetricSnapshot) {
	dst.Impressions += m.Impressions
	dst.Engagement += m.Engagement
	dst.Clicks += m.Clicks
	dst.Shares += m.Shares
	dst.Likes += m.Likes
	dst.Comments += m.Comments
	dst.Saves += m.Saves
}

// engagementRate is engagement/impressions*100, exactly 0 when
// impressions is 0.
func engagementRate(engagement, impressions int64) float64 {
	if impressions == 0 {
		return 0
	}
	return float64(engagement) / float64(impressions) * 100
}

func topContentScore(m models.MetricSnapshot) int64 {
	return m.Likes + m.Comments + m.Shares + m.Clicks
}

// Dashboard sums every metric across matching records, broken down by
// platform and content type, with a top-10 ranking and a per-day
// impressions/engagement series.
func (s *AnalyticsService) Dashboard(ctx context.Context, userID primitive.ObjectID, q AnalyticsQuery) (*dto.DashboardSummary, error) {
	records, err := s.matchingRecords(ctx, userID, q)
	if err != nil {
		return nil, err
	}
	index, err := s.contentIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &dto.DashboardSummary{
		ByPlatform:    map[models.Platform]models.MetricSnapshot{},
		ByContentType: map[models.ContentType]models.MetricSnapshot{},
	}
	daily := map[string]*dto.TimelinePoint{}

	for _, r := range records {
		addInto(&summary.Totals, r.Metrics)

		byPlatform := summary.ByPlatform[r.Platform]
		addInto(&byPlatform, r.Metrics)
		summary.ByPlatform[r.Platform] = byPlatform

		content, known := index[r.ContentID]
		if known {
			byType := summary.ByContentType[content.ContentType]
			addInto(&byType, r.Metrics)
			summary.ByContentType[content.ContentType] = byType
		}

		entry := dto.TopContentEntry{
			ContentID: r.ContentID.Hex(),
			Platform:  r.Platform,
			Score:     topContentScore(r.Metrics),
			Metrics:   r.Metrics,
		}
		if known {
			entry.Title = content.Title
			entry.ContentType = content.ContentType
		}
		summary.TopContent = append(summary.TopContent, entry)

		day := r.CreatedAt.Format("2006-01-02")
		point, ok := daily[day]
		if !ok {
			point = &dto.TimelinePoint{Date: day}
			daily[day] = point
		}
		point.Impressions += r.Metrics.Impressions
		point.Engagement += r.Metrics.Engagement
	}

	sort.SliceStable(summary.TopContent, func(i, j int) bool {
		return summary.TopContent[i].Score > summary.TopContent[j].Score
	})
	if len(summary.TopContent) > 10 {
		summary.TopContent = summary.TopContent[:10]
	}

	days := make([]string, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		summary.Timeline = append(summary.Timeline, *daily[day])
	}
	return summary, nil
}

// PlatformComparison ranks platforms by engagement rate and names the
// content type with the highest rate on each platform.
func (s *AnalyticsService) PlatformComparison(ctx context.Context, userID primitive.ObjectID, q AnalyticsQuery) ([]dto.PlatformComparisonEntry, error) {
	records, err := s.matchingRecords(ctx, userID, q)
	if err != nil {
		return nil, err
	}
	index, err := s.contentIndex(ctx, userID)
	if err != nil {
		return nil, err
	}

	sums := map[models.Platform]*models.MetricSnapshot{}
	typeSums := map[models.Platform]map[models.ContentType]*models.MetricSnapshot{}
	for _, r := range records {
		sum, ok := sums[r.Platform]
		if !ok {
			sum = &models.MetricSnapshot{}
			sums[r.Platform] = sum
			typeSums[r.Platform] = map[models.ContentType]*models.MetricSnapshot{}
		}
		addInto(sum, r.Metrics)

		if content, known := index[r.ContentID]; known {
			byType, ok := typeSums[r.Platform][content.ContentType]
			if !ok {
				byType = &models.MetricSnapshot{}
				typeSums[r.Platform][content.ContentType] = byType
			}
			addInto(byType, r.Metrics)
		}
	}

	entries := make([]dto.PlatformComparisonEntry, 0, len(sums))
	for platform, sum := range sums {
		entry := dto.PlatformComparisonEntry{
			Platform:       platform,
			Metrics:        *sum,
			EngagementRate: engagementRate(sum.Engagement, sum.Impressions),
		}
		bestRate := -1.0
		for contentType, byType := range typeSums[platform] {
			rate := engagementRate(byType.Engagement, byType.Impressions)
			if rate > bestRate {
				bestRate = rate
				entry.BestContentType = contentType
			}
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].EngagementRate > entries[j].EngagementRate
	})
	return entries, nil
}

// ContentPerformance reports per-record engagement, filterable by content
// type and limited to the requested count, with averages over the
// filtered set.
func (s *AnalyticsService) ContentPerformance(ctx context.Context, userID primitive.ObjectID, q AnalyticsQuery, contentType models.ContentType, limit int) (*dto.ContentPerformanceReport, error) {
	records, err := s.matchingRecords(ctx, userID, q)
	if err != nil {
		return nil, err
	}
	index, err := s.contentIndex(ctx, userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	report := &dto.ContentPerformanceReport{}
	var totals models.MetricSnapshot
	count := 0
	for _, r := range records {
		content, known := index[r.ContentID]
		if contentType != "" && (!known || content.ContentType != contentType) {
			continue
		}
		entry := dto.ContentPerformanceEntry{
			ContentID:       r.ContentID.Hex(),
			Platform:        r.Platform,
			Metrics:         r.Metrics,
			TotalEngagement: r.Metrics.Engagement,
			EngagementRate:  engagementRate(r.Metrics.Engagement, r.Metrics.Impressions),
		}
		if known {
			entry.Title = content.Title
			entry.ContentType = content.ContentType
		}
		report.Items = append(report.Items, entry)
		addInto(&totals, r.Metrics)
		count++
	}

	sort.SliceStable(report.Items, func(i, j int) bool {
		return report.Items[i].TotalEngagement > report.Items[j].TotalEngagement
	})
	if len(report.Items) > limit {
		report.Items = report.Items[:limit]
	}

	if count > 0 {
		n := float64(count)
		report.Averages = dto.MetricAverages{
			Impressions: float64(totals.Impressions) / n,
			Engagement:  float64(totals.Engagement) / n,
			Clicks:      float64(totals.Clicks) / n,
			Shares:      float64(totals.Shares) / n,
			Likes:       float64(totals.Likes) / n,
			Comments:    float64(totals.Comments) / n,
			Saves:       float64(totals.Saves) / n,
		}
	}
	return report, nil
}

// AudienceInsights merges demographic maps across matching records by
// raw key summation. Locations keep only the top 10 by count. Labels are
// not normalized across platforms; inconsistent labels fragment the
// aggregate.
func (s *AnalyticsService) AudienceInsights(ctx context.Context, userID primitive.ObjectID, q AnalyticsQuery) (*dto.AudienceInsights, error) {
	records, err := s.matchingRecords(ctx, userID, q)
	if err != nil {
		return nil, err
	}
	insights := &dto.AudienceInsights{
		AgeRanges: map[string]int64{},
		Genders:   map[string]int64{},
		Locations: map[string]int64{},
	}
	for _, r := range records {
		mergeCounts(insights.AgeRanges, r.Demographics.AgeRanges)
		mergeCounts(insights.Genders, r.Demographics.Genders)
		mergeCounts(insights.Locations, r.Demographics.Locations)
	}
	insights.Locations = topCounts(insights.Locations, 10)
	return insights, nil
}

func mergeCounts(dst map[string]int64, src map[string]int64) {
	for k, v := range src {
		dst[k] += v
	}
}

// topCounts keeps the n highest-count keys.
func topCounts(counts map[string]int64, n int) map[string]int64 {
	if len(counts) <= n {
		return counts
	}
	type kv struct {
		key   string
		count int64
	}
	pairs := make([]kv, 0, len(counts))
	for k, v := range counts {
		pairs = append(pairs, kv{key: k, count: v})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].key < pairs[j].key
	})
	top := make(map[string]int64, n)
	for _, p := range pairs[:n] {
		top[p.key] = p.count
	}
	return top
}
