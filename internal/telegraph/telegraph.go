package telegraph

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Route sends deliveries through one adapter. Channel picks the channel for
// a company; an empty result falls back to the adapter's default.
type Route struct {
	Platform string
	Adapter  Adapter
	Channel  func(company string) string
}

// Telegraph fans dispatch notices out to every configured platform.
type Telegraph struct {
	routes []Route
}

// New creates a Telegraph over routes.
func New(routes ...Route) *Telegraph {
	return &Telegraph{routes: routes}
}

// Len returns the number of configured routes.
func (t *Telegraph) Len() int { return len(t.routes) }

// Connect connects every adapter. A route that fails to connect is dropped
// with a logged warning.
func (t *Telegraph) Connect(ctx context.Context) error {
	var kept []Route
	for _, r := range t.routes {
		if err := r.Adapter.Connect(ctx); err != nil {
			log.Printf("telegraph: %s disabled: %v", r.Platform, err)
			continue
		}
		kept = append(kept, r)
	}
	t.routes = kept
	if len(kept) == 0 {
		return fmt.Errorf("telegraph: no platform connected")
	}
	return nil
}

// Deliver posts d to every route. All routes are attempted; errors are joined.
func (t *Telegraph) Deliver(ctx context.Context, d Delivery) error {
	evt := FormatDispatch(d)
	var errs []error
	for _, r := range t.routes {
		msg := OutboundMessage{
			Text:   evt.Title,
			Events: []FormattedEvent{evt},
		}
		if r.Channel != nil {
			msg.ChannelID = r.Channel(d.Company)
		}
		if err := r.Adapter.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("telegraph: %s: %w", r.Platform, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every adapter.
func (t *Telegraph) Close() error {
	var errs []error
	for _, r := range t.routes {
		if err := r.Adapter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("telegraph: close %s: %w", r.Platform, err))
		}
	}
	return errors.Join(errs...)
}
