package sampler

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/leandrodaf/piano/internal/keys"
	"github.com/leandrodaf/piano/internal/logger"
	"github.com/leandrodaf/piano/sdk/contracts"
)

type playCall struct {
	handle      contracts.SampleHandle
	left, right float32
}

// fakeAudio completes loads either inside Load (before the handle is returned) or when the
// test calls complete.
type fakeAudio struct {
	mu       sync.Mutex
	next     contracts.SampleHandle
	loads    []contracts.ResourceID
	handles  map[contracts.ResourceID]contracts.SampleHandle
	plays    []playCall
	cb       contracts.LoadCompleteFunc
	inline   bool
	failOn   contracts.ResourceID
	gate     map[contracts.ResourceID]chan struct{}
	current  int
	max      int
	released bool
}

func newFakeAudio(inline bool) *fakeAudio {
	return &fakeAudio{
		inline:  inline,
		handles: make(map[contracts.ResourceID]contracts.SampleHandle),
		gate:    make(map[contracts.ResourceID]chan struct{}),
		current: 10,
		max:     10,
	}
}

func (f *fakeAudio) Load(resource contracts.ResourceID) (contracts.SampleHandle, error) {
	f.mu.Lock()
	gate := f.gate[resource]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	if resource == f.failOn {
		f.mu.Unlock()
		return 0, errors.New("missing resource")
	}
	f.next++
	h := f.next
	f.loads = append(f.loads, resource)
	f.handles[resource] = h
	cb, inline := f.cb, f.inline
	f.mu.Unlock()

	if inline && cb != nil {
		cb(h, nil)
	}
	return h, nil
}

func (f *fakeAudio) OnLoadComplete(fn contracts.LoadCompleteFunc) {
	f.mu.Lock()
	f.cb = fn
	f.mu.Unlock()
}

func (f *fakeAudio) Play(h contracts.SampleHandle, left, right float32, _, _ int, _ float32) error {
	f.mu.Lock()
	f.plays = append(f.plays, playCall{handle: h, left: left, right: right})
	f.mu.Unlock()
	return nil
}

func (f *fakeAudio) CurrentVolume() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *fakeAudio) MaxVolume() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.max
}

func (f *fakeAudio) Release() error {
	f.mu.Lock()
	f.released = true
	f.mu.Unlock()
	return nil
}

func (f *fakeAudio) complete(resource contracts.ResourceID, err error) {
	f.mu.Lock()
	h, cb := f.handles[resource], f.cb
	f.mu.Unlock()
	cb(h, err)
}

func (f *fakeAudio) handle(resource contracts.ResourceID) contracts.SampleHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.handles[resource]
}

func (f *fakeAudio) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.loads)
}

func (f *fakeAudio) playsSnapshot() []playCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]playCall(nil), f.plays...)
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) LoadStart()                { r.add("start") }
func (r *recorder) LoadProgress(progress int) { r.add(fmt.Sprintf("progress:%d", progress)) }
func (r *recorder) LoadFinish()               { r.add("finish") }
func (r *recorder) LoadError(err error)       { r.add("error") }

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

// whiteRegistry returns a registry with the n lowest white keys.
func whiteRegistry(t *testing.T, n int) *keys.Registry {
	t.Helper()
	layout := keys.StandardLayout(keys.DefaultGeometry, nil)
	reg, err := keys.NewRegistry(layout[:n])
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func newTestLoader(audio contracts.AudioService, events Events) *Loader {
	return NewLoader(audio, events, logger.NewNopLogger(), Config{ProgressInterval: time.Hour, Workers: 2})
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Add(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// waitRegistered waits until the loader recorded n handles, so completions take the regular path.
func waitRegistered(t *testing.T, l *Loader, n int) {
	t.Helper()
	waitFor(t, "registered handles", func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return len(l.byHandle) == n
	})
}
