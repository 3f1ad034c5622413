// Package mobiletouch turns golang.org/x/mobile touch events, which arrive one contact at a
// time, into the multi-pointer frames the keyboard consumes.
package mobiletouch

import (
	"golang.org/x/mobile/event/touch"

	"github.com/leandrodaf/piano/sdk/contracts"
)

// Tracker remembers the active contacts. It is used from the app's event loop only.
type Tracker struct {
	active []contracts.Pointer
	offset int
}

// NewTracker returns a tracker with no active contact.
func NewTracker() *Tracker {
	return &Tracker{}
}

// SetOffset sets the horizontal scroll origin added to every x coordinate.
func (t *Tracker) SetOffset(origin int) { t.offset = origin }

// Active is the number of contacts on the surface.
func (t *Tracker) Active() int { return len(t.active) }

// Translate converts e into a frame. It reports false for events that do not belong to a
// known contact.
func (t *Tracker) Translate(e touch.Event) (contracts.TouchEvent, bool) {
	p := contracts.Pointer{ID: contracts.ContactID(e.Sequence), X: int(e.X) + t.offset, Y: int(e.Y)}
	i := t.index(p.ID)

	switch e.Type {
	case touch.TypeBegin:
		action := contracts.ActionPointerDown
		if i < 0 {
			t.active = append(t.active, p)
			i = len(t.active) - 1
		} else {
			t.active[i] = p
		}
		if len(t.active) == 1 {
			action = contracts.ActionDown
		}
		return t.frame(action, i), true

	case touch.TypeMove:
		if i < 0 {
			return contracts.TouchEvent{}, false
		}
		t.active[i] = p
		return t.frame(contracts.ActionMove, i), true

	case touch.TypeEnd:
		if i < 0 {
			return contracts.TouchEvent{}, false
		}
		t.active[i] = p
		action := contracts.ActionPointerUp
		if len(t.active) == 1 {
			action = contracts.ActionUp
		}
		ev := t.frame(action, i)
		t.active = append(t.active[:i], t.active[i+1:]...)
		return ev, true
	}
	return contracts.TouchEvent{}, false
}

// Cancel forgets every contact and returns the cancel frame to deliver, for instance when
// the app loses focus.
func (t *Tracker) Cancel() contracts.TouchEvent {
	ev := t.frame(contracts.ActionCancel, 0)
	t.active = t.active[:0]
	return ev
}

func (t *Tracker) index(id contracts.ContactID) int {
	for i, p := range t.active {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) frame(action contracts.TouchAction, index int) contracts.TouchEvent {
	return contracts.TouchEvent{
		Action:      action,
		Pointers:    append([]contracts.Pointer(nil), t.active...),
		ActionIndex: index,
	}
}
