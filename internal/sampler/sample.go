package sampler

import (
	"sync"

	"github.com/leandrodaf/piano/sdk/contracts"
)

// sample tracks one key's sound. mu guards the handle/loaded/pending triple so that a play
// request racing with the completion either sees loaded or lands in pending before it is drained.
type sample struct {
	slot     int
	white    bool
	resource contracts.ResourceID

	acquireMu sync.Mutex // serialises bulk and on-demand acquisition

	mu      sync.Mutex
	handle  contracts.SampleHandle
	loaded  bool
	pending int
}

func (s *sample) currentHandle() contracts.SampleHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

func (s *sample) setHandle(h contracts.SampleHandle) {
	s.mu.Lock()
	s.handle = h
	s.mu.Unlock()
}

// deferPlay returns ready when the sample can be played now, otherwise it records a pending play.
func (s *sample) deferPlay() (contracts.SampleHandle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.handle, true
	}
	s.pending++
	return s.handle, false
}

// markLoaded flips loaded and drains the pending counter. ok is false for a duplicate completion.
func (s *sample) markLoaded() (pending int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return 0, false
	}
	s.loaded = true
	pending, s.pending = s.pending, 0
	return pending, true
}

// reset forgets a handle whose load failed so the next attempt acquires a new one.
// Pending plays survive and are honoured by the next successful load.
func (s *sample) reset() {
	s.mu.Lock()
	s.handle = 0
	s.loaded = false
	s.mu.Unlock()
}
