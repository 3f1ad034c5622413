// Package surface is the interactive context of the keyboard. One goroutine owns every key
// and touch assignment; everything else talks to it through an ordered queue.
package surface

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/leandrodaf/piano/internal/keys"
	"github.com/leandrodaf/piano/internal/touch"
	"github.com/leandrodaf/piano/sdk/contracts"
)

var (
	// ErrSurfaceClosed is returned by calls made after the surface stopped.
	ErrSurfaceClosed = errors.New("surface closed")
	// ErrAlreadyRunning is returned when Run is called twice.
	ErrAlreadyRunning = errors.New("surface already running")
)

// DefaultQueueSize is the backlog above which a saturated queue is reported.
const DefaultQueueSize = 64

// Player starts the sample of a key. sampler.Scheduler implements it.
type Player interface {
	RequestPlay(slot int, white bool)
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(slot int, white bool)

// RequestPlay calls f.
func (f PlayerFunc) RequestPlay(slot int, white bool) { f(slot, white) }

// KeyObserver is told about every press and release after the listener.
type KeyObserver interface {
	KeyPressed(k *keys.Key)
	KeyReleased(k *keys.Key)
}

// Config wires a surface. Registry, Logger and Player are required.
type Config struct {
	Registry      *keys.Registry
	Logger        contracts.Logger
	Player        Player
	Listener      contracts.Listener
	Observer      KeyObserver
	ViewportWidth int
	QueueSize     int
}

// Surface serializes touch input, auto-play and loader notifications.
type Surface struct {
	registry *keys.Registry
	logger   contracts.Logger
	player   Player
	listener contracts.Listener
	observer KeyObserver
	machine  *touch.Machine
	mailbox  *mailbox
	viewport int

	// Owned by the interactive goroutine.
	origin int

	running   atomic.Bool
	closed    chan struct{}
	closeOnce sync.Once
}

// New creates a surface; call Run to start processing.
func New(cfg Config) *Surface {
	if cfg.Listener == nil {
		cfg.Listener = contracts.ListenerFuncs{}
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.ViewportWidth < 0 {
		cfg.ViewportWidth = 0
	}
	s := &Surface{
		registry: cfg.Registry,
		logger:   cfg.Logger,
		player:   cfg.Player,
		listener: cfg.Listener,
		observer: cfg.Observer,
		mailbox:  newMailbox(cfg.QueueSize, cfg.Logger),
		viewport: cfg.ViewportWidth,
		closed:   make(chan struct{}),
	}
	s.machine = touch.New(cfg.Registry, touch.Hooks{
		Pressed:  s.keyPressed,
		Released: s.keyReleased,
	})
	return s
}

// Run processes queued events until ctx is done or Close is called.
func (s *Surface) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.Close()

	s.logger.Info("keyboard surface running",
		s.logger.Field().Int("keys", s.registry.Len()),
		s.logger.Field().Int("viewport", s.viewport))
	s.listener.InitFinish()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.closed:
			return nil
		case <-s.mailbox.signal:
			for _, fn := range s.mailbox.drain() {
				fn()
			}
		}
	}
}

// Close stops Run and fails pending and future calls with ErrSurfaceClosed.
func (s *Surface) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
}

func (s *Surface) post(fn func()) {
	select {
	case <-s.closed:
		return
	default:
	}
	s.mailbox.post(fn)
}

func call[T any](ctx context.Context, s *Surface, fn func() T) (T, error) {
	var zero T
	select {
	case <-s.closed:
		return zero, ErrSurfaceClosed
	default:
	}

	reply := make(chan T, 1)
	s.mailbox.post(func() { reply <- fn() })
	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-s.closed:
		return zero, ErrSurfaceClosed
	}
}

// HandleTouch applies one input frame and reports whether it was handled.
func (s *Surface) HandleTouch(ctx context.Context, ev contracts.TouchEvent) (bool, error) {
	return call(ctx, s, func() bool { return s.machine.Handle(ev) })
}

// PressedKeys lists the keys currently down.
func (s *Surface) PressedKeys(ctx context.Context) ([]contracts.KeyID, error) {
	return call(ctx, s, func() []contracts.KeyID {
		pressed := s.machine.Pressed()
		ids := make([]contracts.KeyID, len(pressed))
		for i, k := range pressed {
			ids[i] = k.ID
		}
		return ids
	})
}

// ScrollOrigin returns the left edge of the visible window.
func (s *Surface) ScrollOrigin(ctx context.Context) (int, error) {
	return call(ctx, s, func() int { return s.origin })
}

// SetCanPress enables or disables user input. Held keys stay down.
func (s *Surface) SetCanPress(canPress bool) {
	s.post(func() { s.machine.SetCanPress(canPress) })
}

// Scroll moves the visible window to progress percent of the scrollable range.
func (s *Surface) Scroll(progress int) {
	s.post(func() {
		switch {
		case progress < 0:
			progress = 0
		case progress > 100:
			progress = 100
		}
		s.scrollTo(s.maxOrigin() * progress / 100)
	})
}

// PressNote presses the key of a MIDI note through the touch press transition.
func (s *Surface) PressNote(note uint8) {
	s.post(func() {
		if !s.machine.CanPress() {
			return
		}
		id, ok := keys.FromMIDINote(note)
		if !ok {
			s.logger.Debug("note outside the keyboard", s.logger.Field().Uint8("note", note))
			return
		}
		if k := s.registry.Find(id); k != nil {
			s.machine.Press(k, contracts.MIDINoteContact(note))
		}
	})
}

// ReleaseNote releases the key pressed by a MIDI note.
func (s *Surface) ReleaseNote(note uint8) {
	s.post(func() { s.machine.ReleaseContact(contracts.MIDINoteContact(note)) })
}

func (s *Surface) keyPressed(k *keys.Key) {
	s.player.RequestPlay(k.Slot, k.ID.Type == contracts.White)
	s.listener.KeyClicked(k.ID.Type, k.Voice, k.ID.Group, k.ID.Position)
	if s.observer != nil {
		s.observer.KeyPressed(k)
	}
}

func (s *Surface) keyReleased(k *keys.Key) {
	s.listener.KeyReleased(k.ID.Type, k.ID.Group, k.ID.Position)
	if s.observer != nil {
		s.observer.KeyReleased(k)
	}
}

func (s *Surface) maxOrigin() int {
	if s.viewport == 0 || s.registry.Width() <= s.viewport {
		return 0
	}
	return s.registry.Width() - s.viewport
}

func (s *Surface) scrollTo(origin int) {
	switch {
	case origin < 0:
		origin = 0
	case origin > s.maxOrigin():
		origin = s.maxOrigin()
	}
	if origin == s.origin {
		return
	}
	s.origin = origin
	s.listener.Scrolled(origin)
}

// reveal scrolls so that k's left edge starts the window when k is not fully visible.
func (s *Surface) reveal(k *keys.Key) {
	if s.viewport == 0 {
		return
	}
	b := k.Bounds()
	if b.Min.X < s.origin || b.Max.X > s.origin+s.viewport {
		s.scrollTo(b.Min.X)
	}
}
