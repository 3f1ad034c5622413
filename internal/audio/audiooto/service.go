// Package audiooto is the bundled audio service: WAV samples decoded with go-wav and
// played through an oto context, one oto player per stream.
package audiooto

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/leandrodaf/piano/sdk/contracts"
	"go.uber.org/multierr"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrReleased is returned after Release.
	ErrReleased = errors.New("audio service released")
	// ErrUnknownHandle is returned for handles the service never issued or already dropped.
	ErrUnknownHandle = errors.New("unknown sample handle")
	// ErrNotLoaded is returned when a handle is played before its load completed.
	ErrNotLoaded = errors.New("sample not loaded")
	// ErrStreamLimit is returned when every stream is busy.
	ErrStreamLimit = errors.New("no free audio stream")
)

// Defaults applied when Config leaves a field at zero.
const (
	DefaultSampleRate = 44100
	DefaultMaxStreams = 11
	MaxVolumeLevel    = 15
)

const pollInterval = 10 * time.Millisecond

// Config configures the service.
type Config struct {
	Resources  fs.FS // Where resource IDs are looked up.
	SampleRate int
	MaxStreams int
	Logger     contracts.Logger
}

// player is the part of *oto.Player the service uses.
type player interface {
	Play()
	IsPlaying() bool
	Close() error
}

// output creates players; *oto.Context through otoOutput in production.
type output interface {
	NewPlayer(r io.Reader) player
}

type otoOutput struct {
	ctx *oto.Context
}

func (o otoOutput) NewPlayer(r io.Reader) player {
	return o.ctx.NewPlayer(r)
}

type sample struct {
	resource contracts.ResourceID
	frames   []int16
	loaded   bool
}

// Service implements contracts.AudioService.
type Service struct {
	out        output
	resources  fs.FS
	sampleRate int
	logger     contracts.Logger
	streams    *semaphore.Weighted
	maxStreams int

	mu         sync.Mutex
	next       contracts.SampleHandle
	samples    map[contracts.SampleHandle]*sample
	playing    map[player]struct{}
	onComplete contracts.LoadCompleteFunc
	volume     int
	released   bool
	decoding   sync.WaitGroup
}

// New opens the oto context and waits until the device is ready.
func New(cfg Config) (*Service, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	<-ready
	cfg.Logger.Info("audio device ready",
		cfg.Logger.Field().Int("sampleRate", cfg.SampleRate),
		cfg.Logger.Field().Int("maxStreams", cfg.MaxStreams))
	return newService(otoOutput{ctx: ctx}, cfg), nil
}

func newService(out output, cfg Config) *Service {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.MaxStreams <= 0 {
		cfg.MaxStreams = DefaultMaxStreams
	}
	return &Service{
		out:        out,
		resources:  cfg.Resources,
		sampleRate: cfg.SampleRate,
		logger:     cfg.Logger,
		streams:    semaphore.NewWeighted(int64(cfg.MaxStreams)),
		maxStreams: cfg.MaxStreams,
		samples:    make(map[contracts.SampleHandle]*sample),
		playing:    make(map[player]struct{}),
		volume:     MaxVolumeLevel,
	}
}

// OnLoadComplete registers the completion callback.
func (s *Service) OnLoadComplete(fn contracts.LoadCompleteFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onComplete = fn
}

// Load issues a handle and decodes the resource in the background.
func (s *Service) Load(resource contracts.ResourceID) (contracts.SampleHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return 0, ErrReleased
	}
	s.next++
	h := s.next
	s.samples[h] = &sample{resource: resource}

	s.decoding.Add(1)
	go s.decode(h, resource)
	return h, nil
}

func (s *Service) decode(h contracts.SampleHandle, resource contracts.ResourceID) {
	defer s.decoding.Done()

	frames, err := s.read(resource)

	s.mu.Lock()
	smp, ok := s.samples[h]
	if s.released || !ok {
		s.mu.Unlock()
		return
	}
	if err != nil {
		delete(s.samples, h)
	} else {
		smp.frames = frames
		smp.loaded = true
	}
	notify := s.onComplete
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("sample decoding failed",
			s.logger.Field().String("resource", string(resource)),
			s.logger.Field().Error("error", err))
	} else {
		s.logger.Debug("sample decoded",
			s.logger.Field().String("resource", string(resource)),
			s.logger.Field().Int("frames", len(frames)/2))
	}
	if notify != nil {
		notify(h, err)
	}
}

func (s *Service) read(resource contracts.ResourceID) ([]int16, error) {
	if s.resources == nil {
		return nil, fmt.Errorf("no resource location for %q", resource)
	}
	data, err := fs.ReadFile(s.resources, string(resource))
	if err != nil {
		return nil, err
	}
	return decode(bytes.NewReader(data), s.sampleRate)
}

// Play starts a stream of h. loop is the number of extra repetitions (negative loops
// forever) and rate scales the playback speed. priority is accepted for compatibility;
// streams beyond the limit are refused instead of preempting older ones.
func (s *Service) Play(h contracts.SampleHandle, left, right float32, priority, loop int, rate float32) error {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return ErrReleased
	}
	smp, ok := s.samples[h]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	if !smp.loaded {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotLoaded, smp.resource)
	}
	frames := smp.frames
	s.mu.Unlock()

	if !s.streams.TryAcquire(1) {
		return ErrStreamLimit
	}
	p := s.out.NewPlayer(newVoice(frames, left, right, loop, rate))

	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		s.streams.Release(1)
		return multierr.Append(ErrReleased, p.Close())
	}
	s.playing[p] = struct{}{}
	s.mu.Unlock()

	p.Play()
	go s.reap(p)
	return nil
}

// reap closes p once it finished and frees its stream.
func (s *Service) reap(p player) {
	defer s.streams.Release(1)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for p.IsPlaying() {
		<-ticker.C
		s.mu.Lock()
		released := s.released
		s.mu.Unlock()
		if released {
			return
		}
	}

	s.mu.Lock()
	delete(s.playing, p)
	s.mu.Unlock()
	if err := p.Close(); err != nil {
		s.logger.Warn("closing audio stream failed", s.logger.Field().Error("error", err))
	}
}

// SetVolume sets the output level between 0 and MaxVolumeLevel.
func (s *Service) SetVolume(level int) {
	switch {
	case level < 0:
		level = 0
	case level > MaxVolumeLevel:
		level = MaxVolumeLevel
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = level
}

// CurrentVolume returns the output level.
func (s *Service) CurrentVolume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// MaxVolume returns MaxVolumeLevel.
func (s *Service) MaxVolume() int { return MaxVolumeLevel }

// Release drops every sample and closes the active streams.
func (s *Service) Release() error {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return nil
	}
	s.released = true
	playing := s.playing
	s.playing = make(map[player]struct{})
	s.samples = make(map[contracts.SampleHandle]*sample)
	s.mu.Unlock()

	var err error
	for p := range playing {
		err = multierr.Append(err, p.Close())
	}
	s.decoding.Wait()
	s.logger.Info("audio service released", s.logger.Field().Int("closedStreams", len(playing)))
	return err
}

// Wait blocks until every started stream has finished or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	if err := s.streams.Acquire(ctx, int64(s.maxStreams)); err != nil {
		return err
	}
	s.streams.Release(int64(s.maxStreams))
	return nil
}
