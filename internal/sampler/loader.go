package sampler

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/leandrodaf/piano/internal/keys"
	"github.com/leandrodaf/piano/sdk/contracts"
	"go.uber.org/multierr"
)

var (
	// ErrAudioUnavailable is returned when loading is attempted without an audio service.
	ErrAudioUnavailable = errors.New("audio service is not available")
	// ErrLoaderStopped is returned when a stopped loader is asked to load again.
	ErrLoaderStopped = errors.New("loader stopped")
	// ErrLoadFailed wraps every sample acquisition failure.
	ErrLoadFailed = errors.New("sample load failed")
)

// Defaults applied when Config leaves a field at zero.
const (
	DefaultMiddleGroup      = 4
	DefaultProgressInterval = 500 * time.Millisecond
	DefaultWorkers          = 4
)

// State is the loader session state.
type State int32

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateFailed
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Events receives the loader notifications. Calls are made while the loader lock is held,
// so implementations must only enqueue.
type Events interface {
	LoadStart()
	LoadProgress(progress int)
	LoadFinish()
	LoadError(err error)
}

// Config tunes the loader.
type Config struct {
	MiddleGroup      int
	ProgressInterval time.Duration
	Workers          int
}

// Loader loads every key's sample into a playable handle and resolves plays requested
// before the handle was ready.
type Loader struct {
	audio            contracts.AudioService
	events           Events
	logger           contracts.Logger
	pool             *Pool
	scheduler        *Scheduler
	middleGroup      int
	progressInterval time.Duration
	now              func() time.Time

	mu           sync.Mutex
	state        State
	white        map[int]*sample
	black        map[int]*sample
	byHandle     map[contracts.SampleHandle]*sample
	early        map[contracts.SampleHandle]error
	completed    int
	total        int
	warm         contracts.SampleHandle
	lastProgress time.Time
}

// NewLoader creates a loader in the uninitialized state. audio may be nil, in which case
// StartLoading fails with ErrAudioUnavailable.
func NewLoader(audio contracts.AudioService, events Events, logger contracts.Logger, cfg Config) *Loader {
	if cfg.MiddleGroup == 0 {
		cfg.MiddleGroup = DefaultMiddleGroup
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = DefaultProgressInterval
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	l := &Loader{
		audio:            audio,
		events:           events,
		logger:           logger,
		pool:             NewPool(cfg.Workers, logger),
		middleGroup:      cfg.MiddleGroup,
		progressInterval: cfg.ProgressInterval,
		now:              time.Now,
		white:            make(map[int]*sample),
		black:            make(map[int]*sample),
		byHandle:         make(map[contracts.SampleHandle]*sample),
		early:            make(map[contracts.SampleHandle]error),
	}
	l.scheduler = &Scheduler{loader: l, audio: audio, logger: logger}
	return l
}

// Scheduler returns the playback scheduler bound to this loader.
func (l *Loader) Scheduler() *Scheduler { return l.scheduler }

// State returns the current session state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// StartLoading begins the session. Calls while loading or after success are no-ops;
// after a failure the remaining samples are loaded again.
func (l *Loader) StartLoading(reg *keys.Registry) error {
	if l.audio == nil {
		return ErrAudioUnavailable
	}
	if reg == nil || reg.Len() == 0 {
		return keys.ErrNoKeys
	}

	l.mu.Lock()
	switch l.state {
	case StateLoading, StateReady:
		l.mu.Unlock()
		return nil
	case StateStopped:
		l.mu.Unlock()
		return ErrLoaderStopped
	}
	previous := l.state
	l.state = StateLoading
	l.total = reg.Len()
	for _, k := range reg.Keys() {
		table := l.table(k.ID.Type == contracts.White)
		if _, ok := table[k.Slot]; !ok {
			table[k.Slot] = &sample{slot: k.Slot, white: k.ID.Type == contracts.White, resource: k.Resource}
		}
	}
	order := l.loadOrder(reg)
	l.mu.Unlock()

	l.audio.OnLoadComplete(l.onLoadComplete)
	l.logger.Info("starting sample loading",
		l.logger.Field().Int("samples", len(order)),
		l.logger.Field().String("previous", previous.String()))

	if !l.pool.Go(func() error { return l.run(order) }) {
		l.fail(ErrLoaderStopped)
		return ErrLoaderStopped
	}
	return nil
}

// loadOrder puts the middle group first (white then black), followed by every other
// white key and then every other black key in ascending slot order. Callers hold l.mu.
func (l *Loader) loadOrder(reg *keys.Registry) []*sample {
	order := make([]*sample, 0, reg.Len())
	queued := make(map[*sample]bool)
	add := func(s *sample) {
		if s != nil && !queued[s] {
			queued[s] = true
			order = append(order, s)
		}
	}
	for pos := 0; pos < keys.WhitePerGroup; pos++ {
		add(l.white[keys.Slot(contracts.White, l.middleGroup, pos)])
	}
	for pos := 0; pos < keys.BlackPerGroup; pos++ {
		add(l.black[keys.Slot(contracts.Black, l.middleGroup, pos)])
	}
	for _, k := range reg.White() {
		add(l.white[k.Slot])
	}
	for _, k := range reg.Black() {
		add(l.black[k.Slot])
	}
	return order
}

func (l *Loader) run(order []*sample) error {
	l.mu.Lock()
	l.events.LoadStart()
	l.mu.Unlock()

	started := l.now()
	for _, s := range order {
		if l.State() != StateLoading {
			l.logger.Debug("loading interrupted", l.logger.Field().String("state", l.State().String()))
			return nil
		}
		if err := l.acquire(s); err != nil {
			l.fail(err)
			return nil
		}
	}
	l.logger.Debug("all samples requested", l.logger.Field().Duration("elapsed", l.now().Sub(started)))
	return nil
}

// acquire requests a handle for s unless it already has one.
func (l *Loader) acquire(s *sample) error {
	s.acquireMu.Lock()
	defer s.acquireMu.Unlock()
	if s.currentHandle() != 0 {
		return nil
	}

	h, err := l.audio.Load(s.resource)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLoadFailed, s.resource, err)
	}
	l.register(s, h)
	return nil
}

func (l *Loader) register(s *sample, h contracts.SampleHandle) {
	l.mu.Lock()
	if l.state == StateStopped {
		l.mu.Unlock()
		return
	}
	s.setHandle(h)
	l.byHandle[h] = s
	if s.white && l.warm == 0 {
		l.warm = h
	}
	err, early := l.early[h]
	delete(l.early, h)
	l.mu.Unlock()

	l.logger.Debug("sample handle acquired",
		l.logger.Field().Int("slot", s.slot),
		l.logger.Field().Bool("white", s.white),
		l.logger.Field().Int("handle", int(h)))
	if early {
		l.complete(s, h, err)
	}
}

// onLoadComplete is the audio service callback. It may arrive on any goroutine and before
// register saw the handle.
func (l *Loader) onLoadComplete(h contracts.SampleHandle, err error) {
	l.mu.Lock()
	if l.state == StateStopped {
		l.mu.Unlock()
		return
	}
	s, ok := l.byHandle[h]
	if !ok {
		l.early[h] = err
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()
	l.complete(s, h, err)
}

func (l *Loader) complete(s *sample, h contracts.SampleHandle, err error) {
	if err != nil {
		l.mu.Lock()
		delete(l.byHandle, h)
		if l.warm == h {
			l.warm = 0
		}
		l.mu.Unlock()
		s.reset()
		l.fail(fmt.Errorf("%w: %s: %v", ErrLoadFailed, s.resource, err))
		return
	}

	pending, ok := s.markLoaded()
	if !ok {
		return
	}
	for i := 0; i < pending; i++ {
		l.scheduler.play(h)
	}

	l.mu.Lock()
	l.completed++
	var warm contracts.SampleHandle
	switch {
	case l.state != StateLoading:
	case l.completed >= l.total:
		l.state = StateReady
		l.events.LoadProgress(100)
		l.events.LoadFinish()
		warm = l.warm
	case l.now().Sub(l.lastProgress) >= l.progressInterval:
		l.events.LoadProgress(l.completed * 100 / l.total)
		l.lastProgress = l.now()
	}
	total := l.total
	l.mu.Unlock()

	if pending > 0 {
		l.logger.Debug("played deferred requests",
			l.logger.Field().Int("slot", s.slot),
			l.logger.Field().Int("plays", pending))
	}
	if warm != 0 {
		l.logger.Info("samples loaded", l.logger.Field().Int("samples", total))
		l.scheduler.prewarm(warm)
	}
}

// fail rolls an active session back and reports err. Failures outside a session are only logged.
func (l *Loader) fail(err error) {
	l.logger.Error("sample loading failed", l.logger.Field().Error("error", err))
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case StateStopped:
		return
	case StateLoading:
		l.state = StateFailed
	}
	l.events.LoadError(err)
}

func (l *Loader) table(white bool) map[int]*sample {
	if white {
		return l.white
	}
	return l.black
}

func (l *Loader) sample(white bool, slot int) *sample {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.table(white)[slot]
}

// Stop ends the session: queued work is dropped, maps are cleared and the audio service
// releases its samples. Handles are invalid afterwards.
func (l *Loader) Stop() error {
	l.mu.Lock()
	if l.state == StateStopped {
		l.mu.Unlock()
		return nil
	}
	l.state = StateStopped
	l.white = make(map[int]*sample)
	l.black = make(map[int]*sample)
	l.byHandle = make(map[contracts.SampleHandle]*sample)
	l.early = make(map[contracts.SampleHandle]error)
	l.warm = 0
	l.mu.Unlock()

	err := l.pool.Close()
	if l.audio != nil {
		err = multierr.Append(err, l.audio.Release())
	}
	l.logger.Info("sample loader stopped")
	return err
}
