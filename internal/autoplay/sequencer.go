// Package autoplay plays scripted key sequences against the keyboard.
package autoplay

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/leandrodaf/piano/internal/keys"
	"github.com/leandrodaf/piano/sdk/contracts"
)

// Sink receives the events of a run. Implementations must not block; the surface
// queues them for its interactive goroutine.
type Sink interface {
	AutoPlayStart()
	AutoPlayKeyDown(key *keys.Key)
	AutoPlayKeyUp()
	AutoPlayEnd()
}

// Sequencer runs at most one script at a time on its own goroutine.
type Sequencer struct {
	registry *keys.Registry
	sink     Sink
	logger   contracts.Logger
	running  atomic.Bool
}

// NewSequencer creates an idle sequencer.
func NewSequencer(registry *keys.Registry, sink Sink, logger contracts.Logger) *Sequencer {
	return &Sequencer{registry: registry, sink: sink, logger: logger}
}

// Running reports whether a script is being played.
func (s *Sequencer) Running() bool { return s.running.Load() }

// Play delivers the start event before returning, then plays entities on a
// background goroutine. It returns false when a script is already running.
// Cancelling ctx aborts the remaining entities; the end event is still delivered.
func (s *Sequencer) Play(ctx context.Context, entities []contracts.AutoPlayEntity) bool {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Debug("auto-play already running")
		return false
	}
	s.logger.Info("auto-play started", s.logger.Field().Int("entities", len(entities)))
	s.sink.AutoPlayStart()
	go s.run(ctx, entities)
	return true
}

func (s *Sequencer) run(ctx context.Context, entities []contracts.AutoPlayEntity) {
	defer s.running.Store(false)

	played := 0
	for i, e := range entities {
		if k := s.registry.Resolve(e.Type, e.Group, e.Position); k != nil {
			s.sink.AutoPlayKeyDown(k)
			played++
		} else {
			s.logger.Debug("auto-play entity has no key",
				s.logger.Field().Int("index", i),
				s.logger.Field().String("key", contracts.KeyID{Type: e.Type, Group: e.Group, Position: e.Position}.String()))
		}

		half := e.Break() / 2
		if !sleep(ctx, half) {
			s.logger.Info("auto-play interrupted", s.logger.Field().Int("index", i))
			break
		}
		s.sink.AutoPlayKeyUp()
		if !sleep(ctx, e.Break()-half) {
			s.logger.Info("auto-play interrupted", s.logger.Field().Int("index", i))
			break
		}
	}
	s.sink.AutoPlayEnd()
	s.logger.Info("auto-play finished", s.logger.Field().Int("played", played))
}

// sleep waits for d and reports false when ctx ends first.
func sleep(ctx context.Context, d time.Duration) bool {
	if err := ctx.Err(); err != nil {
		return false
	}
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
