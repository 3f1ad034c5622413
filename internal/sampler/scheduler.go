package sampler

import "github.com/leandrodaf/piano/sdk/contracts"

// Scheduler turns play requests into audio service calls once a handle is ready.
type Scheduler struct {
	loader *Loader
	audio  contracts.AudioService
	logger contracts.Logger
}

// RequestPlay plays the sample of the key with the given slot on a background worker.
// Requests for samples that are still loading are deferred until their completion.
func (s *Scheduler) RequestPlay(slot int, white bool) {
	if s.audio == nil {
		s.logger.Warn("play requested without audio service")
		return
	}
	queued := s.loader.pool.Go(func() error {
		s.playSlot(slot, white)
		return nil
	})
	if !queued {
		s.logger.Debug("play dropped after stop", s.logger.Field().Int("slot", slot))
	}
}

func (s *Scheduler) playSlot(slot int, white bool) {
	smp := s.loader.sample(white, slot)
	if smp == nil {
		s.logger.Debug("no sample for key",
			s.logger.Field().Int("slot", slot),
			s.logger.Field().Bool("white", white))
		return
	}

	if smp.currentHandle() == 0 {
		s.logger.Debug("loading sample on demand",
			s.logger.Field().Int("slot", slot),
			s.logger.Field().String("resource", string(smp.resource)))
		if err := s.loader.acquire(smp); err != nil {
			s.loader.fail(err)
			return
		}
	}

	if h, ready := smp.deferPlay(); ready {
		s.play(h)
	}
}

// Volume is the current output level relative to the maximum. A non-positive ratio
// falls back to full volume.
func (s *Scheduler) Volume() float32 {
	maxLevel := s.audio.MaxVolume()
	if maxLevel <= 0 {
		return 1
	}
	v := float32(s.audio.CurrentVolume()) / float32(maxLevel)
	switch {
	case v <= 0:
		return 1
	case v > 1:
		return 1
	}
	return v
}

func (s *Scheduler) play(h contracts.SampleHandle) {
	v := s.Volume()
	if err := s.audio.Play(h, v, v, 1, 0, 1); err != nil {
		s.logger.Warn("play failed",
			s.logger.Field().Int("handle", int(h)),
			s.logger.Field().Error("error", err))
	}
}

// prewarm plays h once at zero volume so the first audible play does not stutter.
func (s *Scheduler) prewarm(h contracts.SampleHandle) {
	if err := s.audio.Play(h, 0, 0, 1, 0, 1); err != nil {
		s.logger.Warn("prewarm failed", s.logger.Field().Error("error", err))
	}
}
