package piano

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"sync"

	"github.com/leandrodaf/piano/internal/audio/audiooto"
	"github.com/leandrodaf/piano/internal/autoplay"
	"github.com/leandrodaf/piano/internal/keys"
	"github.com/leandrodaf/piano/internal/midi"
	"github.com/leandrodaf/piano/internal/sampler"
	"github.com/leandrodaf/piano/internal/surface"
	"github.com/leandrodaf/piano/sdk/contracts"
)

// NewPiano creates a keyboard over layout, playing samples through audio. A nil layout uses
// the standard 88-key layout. audio may be nil; loading then fails and the keys stay silent.
func NewPiano(layout []contracts.KeyDescriptor, audio contracts.AudioService, opts ...contracts.Option) (contracts.Piano, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	if layout == nil {
		layout = keys.StandardLayout(keys.DefaultGeometry, nil)
	}
	registry, err := keys.NewRegistry(layout)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &piano{
		logger:   options.Logger,
		registry: registry,
		ctx:      ctx,
		cancel:   cancel,
	}

	cfg := surface.Config{
		Registry:      registry,
		Logger:        options.Logger,
		Listener:      options.Listener,
		ViewportWidth: options.ViewportWidth,
		QueueSize:     options.QueueSize,
		Player: surface.PlayerFunc(func(slot int, white bool) {
			p.loader.Scheduler().RequestPlay(slot, white)
		}),
	}
	if options.MIDIEcho != nil {
		if echo := midi.NewEcho(*options.MIDIEcho, options.Logger); echo != nil {
			cfg.Observer = echo
			p.echo = echo
		}
	}
	p.surface = surface.New(cfg)
	p.loader = sampler.NewLoader(audio, p.surface, options.Logger, sampler.Config{
		MiddleGroup:      options.MiddleGroup,
		ProgressInterval: options.ProgressInterval,
		Workers:          options.Workers,
	})
	p.sequencer = autoplay.NewSequencer(registry, p.surface, options.Logger)

	options.Logger.Info("piano created",
		options.Logger.Field().Int("keys", registry.Len()),
		options.Logger.Field().Int("width", registry.Width()))
	return p, nil
}

// NewAudioService opens the default audio device and serves WAV samples from resources.
// WithMaxStreams caps the simultaneous streams.
func NewAudioService(resources fs.FS, opts ...contracts.Option) (contracts.AudioService, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return audiooto.New(audiooto.Config{
		Resources:  resources,
		MaxStreams: options.MaxStreams,
		Logger:     options.Logger,
	})
}

// LoadScript decodes a JSON auto-play script. Malformed entries are logged and skipped.
func LoadScript(r io.Reader, opts ...contracts.Option) ([]contracts.AutoPlayEntity, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return autoplay.ParseScript(r, options.Logger)
}

type piano struct {
	logger    contracts.Logger
	registry  *keys.Registry
	loader    *sampler.Loader
	surface   *surface.Surface
	sequencer *autoplay.Sequencer
	echo      *midi.Echo

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	stopErr  error
}

// Run starts loading the samples and processes the keyboard events until ctx is done or
// Stop is called.
func (p *piano) Run(ctx context.Context) error {
	if err := p.loader.StartLoading(p.registry); err != nil {
		p.logger.Error("sample loading not started", p.logger.Field().Error("error", err))
		p.surface.LoadError(err)
	}
	if p.echo != nil {
		echoCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go p.echo.Run(echoCtx)
	}
	err := p.surface.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (p *piano) HandleTouch(ctx context.Context, event contracts.TouchEvent) (bool, error) {
	return p.surface.HandleTouch(ctx, event)
}

func (p *piano) AutoPlay(entities []contracts.AutoPlayEntity) bool {
	return p.sequencer.Play(p.ctx, entities)
}

func (p *piano) Scroll(progress int) { p.surface.Scroll(progress) }

func (p *piano) SetCanPress(canPress bool) { p.surface.SetCanPress(canPress) }

func (p *piano) PressNote(note uint8) { p.surface.PressNote(note) }

func (p *piano) ReleaseNote(note uint8) { p.surface.ReleaseNote(note) }

func (p *piano) PressedKeys(ctx context.Context) ([]contracts.KeyID, error) {
	return p.surface.PressedKeys(ctx)
}

func (p *piano) ScrollOrigin(ctx context.Context) (int, error) {
	return p.surface.ScrollOrigin(ctx)
}

// Stop interrupts auto-play, stops the loader and releases the audio service, then ends Run.
func (p *piano) Stop() error {
	p.stopOnce.Do(func() {
		p.cancel()
		p.stopErr = p.loader.Stop()
		p.surface.Close()
		p.logger.Info("piano stopped")
	})
	return p.stopErr
}
