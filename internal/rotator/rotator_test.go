package rotator

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	ch      chan time.Time
	stopped bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }
func (f *fakeTicker) Stop()               { f.stopped = true }

// testRotator wires a fake ticker so ticks are driven by the test.
func testRotator() (*Rotator, *fakeTicker) {
	ft := &fakeTicker{ch: make(chan time.Time)}
	r := New(5*time.Second, zerolog.Nop(), WithTickerFactory(func(time.Duration) Ticker { return ft }))
	return r, ft
}

func tick(t *testing.T, ft *fakeTicker, h *Handle, wantIndex int) {
	t.Helper()
	ft.ch <- time.Now()
	require.Eventually(t, func() bool { return h.Index() == wantIndex },
		time.Second, time.Millisecond, "index did not reach %d", wantIndex)
}

func TestStart_SingleImageIsNoOp(t *testing.T) {
	r, ft := testRotator()
	defer r.StopAll()

	h := r.Start("album-1", []CoverImage{{ID: "a", URL: "u/a"}}, "")
	cur, ok := h.Current()
	require.True(t, ok)
	assert.Equal(t, "a", cur.ID)
	assert.Nil(t, h.ticker, "single image must not create a timer")
	assert.False(t, ft.stopped)

	// No images: permanent empty cover, still no timer.
	empty := r.Start("album-2", nil, "")
	_, ok = empty.Current()
	assert.False(t, ok)
	assert.Nil(t, empty.ticker)
}

func TestStart_CyclesAndWraps(t *testing.T) {
	r, ft := testRotator()
	defer r.StopAll()

	h := r.Start("album-1", []CoverImage{{ID: "a"}, {ID: "b"}, {ID: "c"}}, "")
	assert.Equal(t, 0, h.Index())

	tick(t, ft, h, 1)
	tick(t, ft, h, 2)
	tick(t, ft, h, 0) // wraparound
}

func TestStart_ManualCoverPicksStartIndex(t *testing.T) {
	r, _ := testRotator()
	defer r.StopAll()

	images := []CoverImage{{ID: "a", URL: "u/a"}, {ID: "b", URL: "u/b"}, {ID: "c", URL: "u/c"}}
	h := r.Start("album-1", images, "u/b")
	assert.Equal(t, 1, h.Index())

	// Unknown manual cover falls back to index 0.
	h2 := r.Start("album-2", images, "u/ghost")
	assert.Equal(t, 0, h2.Index())
}

func TestPauseResume(t *testing.T) {
	r, ft := testRotator()
	defer r.StopAll()

	h := r.Start("album-1", []CoverImage{{ID: "a"}, {ID: "b"}, {ID: "c"}}, "")
	tick(t, ft, h, 1)

	h.Pause()
	ft.ch <- time.Now()
	ft.ch <- time.Now()
	assert.Equal(t, 1, h.Index(), "paused rotation must not advance")

	h.Resume()
	tick(t, ft, h, 2)
}

func TestStart_ReplacesExistingHandle(t *testing.T) {
	ft1 := &fakeTicker{ch: make(chan time.Time)}
	ft2 := &fakeTicker{ch: make(chan time.Time)}
	tickers := []*fakeTicker{ft1, ft2}
	r := New(5*time.Second, zerolog.Nop(), WithTickerFactory(func(time.Duration) Ticker {
		next := tickers[0]
		tickers = tickers[1:]
		return next
	}))
	defer r.StopAll()

	images := []CoverImage{{ID: "a"}, {ID: "b"}}
	r.Start("album-1", images, "")
	h2 := r.Start("album-1", images, "")

	assert.True(t, ft1.stopped, "replaced handle must release its timer")
	assert.False(t, ft2.stopped)
	assert.Equal(t, 1, r.Len(), "one handle per album key")

	got, ok := r.Get("album-1")
	require.True(t, ok)
	assert.Same(t, h2, got)
}

func TestStopReleasesTimer(t *testing.T) {
	r, ft := testRotator()

	h := r.Start("album-1", []CoverImage{{ID: "a"}, {ID: "b"}}, "")
	r.Stop("album-1")
	assert.True(t, ft.stopped)
	assert.Equal(t, 0, r.Len())

	// Stop is idempotent on the handle too.
	h.Stop()
}

func TestHandleStop_Unregisters(t *testing.T) {
	r, ft := testRotator()

	h := r.Start("album-1", []CoverImage{{ID: "a"}, {ID: "b"}}, "")
	h.Stop()

	assert.True(t, ft.stopped)
	assert.Equal(t, 0, r.Len(), "stopped handle must leave the registry")
	_, ok := r.Get("album-1")
	assert.False(t, ok)
}

func TestHandleStop_StaleHandleKeepsReplacement(t *testing.T) {
	ft1 := &fakeTicker{ch: make(chan time.Time)}
	ft2 := &fakeTicker{ch: make(chan time.Time)}
	tickers := []*fakeTicker{ft1, ft2}
	r := New(5*time.Second, zerolog.Nop(), WithTickerFactory(func(time.Duration) Ticker {
		next := tickers[0]
		tickers = tickers[1:]
		return next
	}))
	defer r.StopAll()

	images := []CoverImage{{ID: "a"}, {ID: "b"}}
	h1 := r.Start("album-1", images, "")
	h2 := r.Start("album-1", images, "")

	// Stopping the replaced handle must not evict its successor.
	h1.Stop()
	require.Equal(t, 1, r.Len())
	got, ok := r.Get("album-1")
	require.True(t, ok)
	assert.Same(t, h2, got)
	assert.False(t, ft2.stopped)
}
