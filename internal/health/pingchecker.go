package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// PingChecker adapts any HealthPinger (asset host, classifier) into a
// HealthChecker with a cached flag.
type PingChecker struct {
	name         string
	pinger       HealthPinger
	healthy      atomic.Int32
	log          zerolog.Logger
	probeTimeout time.Duration
}

func NewPingChecker(name string, pinger HealthPinger, log zerolog.Logger, probeTimeout time.Duration) *PingChecker {
	pc := &PingChecker{name: name, pinger: pinger, log: log, probeTimeout: probeTimeout}
	pc.healthy.Store(0) // unhealthy until the first successful probe
	return pc
}

func (pc *PingChecker) Name() string { return pc.name }

// IsHealthy returns the cached status without blocking.
func (pc *PingChecker) IsHealthy() bool { return pc.healthy.Load() == 1 }

// Start probes on the given cadence until ctx is cancelled.
func (pc *PingChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	probe := func() {
		probeCtx, cancel := context.WithTimeout(ctx, pc.probeTimeout)
		defer cancel()
		if err := pc.pinger.HealthPing(probeCtx); err != nil {
			if pc.healthy.Swap(0) == 1 {
				pc.log.Warn().Err(err).Str("component", pc.name).Msg("health probe failed")
			}
			return
		}
		if pc.healthy.Swap(1) == 0 {
			pc.log.Info().Str("component", pc.name).Msg("health probe recovered")
		}
	}

	probe()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe()
		}
	}
}
