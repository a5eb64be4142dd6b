package publisher

import (
	"context"

	"crosspost/errs"
	"crosspost/models"
)

// MetricsReport is a platform adapter's normalized analytics response.
// Fields a platform does not report stay at their zero values.
type MetricsReport struct {
	Metrics      models.MetricSnapshot
	Demographics models.Demographics
	TimeData     models.TimeData
}

// Adapter publishes content to one platform and fetches post analytics.
// Publish returns the external post identifier used for later metric
// lookups.
type Adapter interface {
	Platform() models.Platform
	Publish(ctx context.Context, content *models.Content, account models.SocialAccount) (string, error)
	FetchMetrics(ctx context.Context, postID string, account models.SocialAccount) (MetricsReport, error)
}

// Dispatcher resolves the adapter for a platform and checks the owner's
// connected account before any outbound call.
type Dispatcher struct {
	adapters map[models.Platform]Adapter
}

// NewDispatcher wires the default platform adapters.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{adapters: map[models.Platform]Adapter{}}
	d.Register(NewLinkedIn())
	d.Register(NewTwitter())
	d.Register(NewFacebook())
	d.Register(NewInstagram())
	return d
}

// Register adds or replaces the adapter for its platform.
func (d *Dispatcher) Register(a Adapter) {
	d.adapters[a.Platform()] = a
}

func (d *Dispatcher) resolve(user *models.User, platform models.Platform) (Adapter, models.SocialAccount, error) {
	a, ok := d.adapters[platform]
	if !ok {
		return nil, models.SocialAccount{}, &errs.UnsupportedPlatformError{Platform: string(platform)}
	}
	account, ok := user.ConnectedAccount(platform)
	if !ok {
		return nil, models.SocialAccount{}, errs.Authorization("no connected %s account", platform)
	}
	return a, account, nil
}

// Publish sends content to the platform under the owner's connected
// account and returns the external post id.
func (d *Dispatcher) Publish(ctx context.Context, content *models.Content, user *models.User, platform models.Platform) (string, error) {
	a, account, err := d.resolve(user, platform)
	if err != nil {
		return "", err
	}
	return a.Publish(ctx, content, account)
}

// FetchMetrics pulls current analytics for a previously published post.
func (d *Dispatcher) FetchMetrics(ctx context.Context, user *models.User, platform models.Platform, postID string) (MetricsReport, error) {
	a, account, err := d.resolve(user, platform)
	if err != nil {
		return MetricsReport{}, err
	}
	return a.FetchMetrics(ctx, postID, account)
}
