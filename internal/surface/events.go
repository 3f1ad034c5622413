package surface

import (
	"github.com/leandrodaf/piano/internal/keys"
	"github.com/leandrodaf/piano/sdk/contracts"
)

// Loader notifications. They are queued, so the loader may call them with its lock held.

func (s *Surface) LoadStart() {
	s.post(s.listener.LoadStart)
}

func (s *Surface) LoadProgress(progress int) {
	s.post(func() { s.listener.LoadProgress(progress) })
}

func (s *Surface) LoadFinish() {
	s.post(s.listener.LoadFinish)
}

func (s *Surface) LoadError(err error) {
	s.post(func() { s.listener.LoadError(err) })
}

// Auto-play events.

// AutoPlayStart disables user input for the run.
func (s *Surface) AutoPlayStart() {
	s.post(func() {
		s.machine.SetCanPress(false)
		s.listener.AutoPlayStart()
	})
}

// AutoPlayKeyDown brings the key into view and presses it for the sequencer.
func (s *Surface) AutoPlayKeyDown(k *keys.Key) {
	s.post(func() {
		s.reveal(k)
		s.machine.Press(k, contracts.AutoPlayContact)
	})
}

// AutoPlayKeyUp has the effect of the last finger lifting.
func (s *Surface) AutoPlayKeyUp() {
	s.post(s.machine.ReleaseAll)
}

// AutoPlayEnd releases a key left down by an interrupted run and gives input back
// to the user.
func (s *Surface) AutoPlayEnd() {
	s.post(func() {
		s.machine.ReleaseAll()
		s.listener.AutoPlayEnd()
		s.machine.SetCanPress(true)
	})
}
