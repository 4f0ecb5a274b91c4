package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type flakyPinger struct{ fail atomic.Bool }

func (p *flakyPinger) HealthPing(context.Context) error {
	if p.fail.Load() {
		return errors.New("host unreachable")
	}
	return nil
}

func TestPingChecker_FollowsProbeResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &flakyPinger{}
	pc := NewPingChecker("assets", p, zerolog.Nop(), time.Second)
	require.False(t, pc.IsHealthy())

	go pc.Start(ctx, 10*time.Millisecond)

	require.Eventually(t, pc.IsHealthy, 500*time.Millisecond, 10*time.Millisecond)

	p.fail.Store(true)
	require.Eventually(t, func() bool { return !pc.IsHealthy() }, 500*time.Millisecond, 10*time.Millisecond)

	p.fail.Store(false)
	require.Eventually(t, pc.IsHealthy, 500*time.Millisecond, 10*time.Millisecond)
}
