package health

import "context"

// HealthPinger is implemented by collaborators that can probe their backing
// dependency directly (the store pings its database, the asset uploader its
// host). HealthPing must return nil when the component is healthy.
type HealthPinger interface {
	HealthPing(ctx context.Context) error
}
