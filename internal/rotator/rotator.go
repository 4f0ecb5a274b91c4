// Package rotator derives the time-varying cover image for albums. Each album
// gets at most one live rotation; the registry cancels a prior handle before
// starting a replacement so timers never accumulate per key.
package rotator

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CoverImage is one candidate cover in an album's media list.
type CoverImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Ticker abstracts time.Ticker so rotation cadence is testable with a fake clock.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory builds the ticker used by a rotation.
type TickerFactory func(d time.Duration) Ticker

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

func newRealTicker(d time.Duration) Ticker { return realTicker{t: time.NewTicker(d)} }

// Rotator owns the albumID -> handle registry.
type Rotator struct {
	mu        sync.Mutex
	handles   map[string]*Handle
	interval  time.Duration
	newTicker TickerFactory
	log       zerolog.Logger
}

// Option customizes a Rotator.
type Option func(*Rotator)

// WithTickerFactory replaces the wall-clock ticker, used by tests.
func WithTickerFactory(f TickerFactory) Option {
	return func(r *Rotator) { r.newTicker = f }
}

// New creates a Rotator advancing covers every interval.
func New(interval time.Duration, log zerolog.Logger, opts ...Option) *Rotator {
	r := &Rotator{
		handles:   make(map[string]*Handle),
		interval:  interval,
		newTicker: newRealTicker,
		log:       log,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Start begins rotating covers for an album. With zero or one image no timer
// is created and the single image (if any) is the permanent cover. The start
// index is the manual cover's position when manualCoverURL matches an image,
// else 0. Any live rotation for the same album is stopped first.
func (r *Rotator) Start(albumID string, images []CoverImage, manualCoverURL string) *Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.handles[albumID]; ok {
		old.stopLocked()
		delete(r.handles, albumID)
	}

	h := &Handle{albumID: albumID, images: images, reg: r}
	if url := manualCoverURL; url != "" {
		for i, img := range images {
			if img.URL == url {
				h.index = i
				break
			}
		}
	}

	if len(images) > 1 {
		h.ticker = r.newTicker(r.interval)
		h.done = make(chan struct{})
		go h.run()
		r.log.Debug().Str("album_id", albumID).Int("images", len(images)).Msg("cover rotation started")
	}

	r.handles[albumID] = h
	return h
}

// Get returns the live handle for an album, if any.
func (r *Rotator) Get(albumID string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[albumID]
	return h, ok
}

// Stop halts rotation for one album and releases its timer.
func (r *Rotator) Stop(albumID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.handles[albumID]; ok {
		h.stopLocked()
		delete(r.handles, albumID)
	}
}

// StopAll releases every timer. Called on service shutdown.
func (r *Rotator) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, h := range r.handles {
		h.stopLocked()
		delete(r.handles, id)
	}
}

// Len reports how many rotations are registered.
func (r *Rotator) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// remove drops a handle's registry entry. The identity check keeps a stale
// handle, already replaced by a later Start, from evicting its successor.
func (r *Rotator) remove(h *Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.handles[h.albumID]; ok && cur == h {
		delete(r.handles, h.albumID)
	}
}

// Handle is one album's rotation state.
type Handle struct {
	albumID string
	images  []CoverImage
	reg     *Rotator

	mu     sync.Mutex
	index  int
	paused bool

	ticker   Ticker
	done     chan struct{}
	stopOnce sync.Once
}

func (h *Handle) run() {
	for {
		select {
		case <-h.done:
			return
		case <-h.ticker.C():
			h.mu.Lock()
			if !h.paused {
				h.index = (h.index + 1) % len(h.images)
			}
			h.mu.Unlock()
		}
	}
}

// Current returns the visible cover. The bool is false when the album has no
// images at all.
func (h *Handle) Current() (CoverImage, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.images) == 0 {
		return CoverImage{}, false
	}
	return h.images[h.index], true
}

// Index returns the current cover position.
func (h *Handle) Index() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.index
}

// Pause halts advancement without resetting the current index.
func (h *Handle) Pause() {
	h.mu.Lock()
	h.paused = true
	h.mu.Unlock()
}

// Resume restarts the cadence from the current index.
func (h *Handle) Resume() {
	h.mu.Lock()
	h.paused = false
	h.mu.Unlock()
}

// Stop halts advancement permanently, releases the timer, and unregisters the
// handle so Get and Len no longer report it.
func (h *Handle) Stop() {
	h.stopLocked()
	if h.reg != nil {
		h.reg.remove(h)
	}
}

// stopLocked is safe to call multiple times and without the registry lock;
// the name records that the registry calls it while holding its own mutex.
func (h *Handle) stopLocked() {
	h.stopOnce.Do(func() {
		if h.ticker != nil {
			h.ticker.Stop()
			close(h.done)
		}
	})
}
