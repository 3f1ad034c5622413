package mobiletouch

import (
	"reflect"
	"testing"

	"golang.org/x/mobile/event/touch"

	"github.com/leandrodaf/piano/sdk/contracts"
)

func ev(seq touch.Sequence, typ touch.Type, x, y float32) touch.Event {
	return touch.Event{X: x, Y: y, Sequence: seq, Type: typ}
}

func TestTrackerBuildsFrames(t *testing.T) {
	tr := NewTracker()
	tr.SetOffset(100)

	steps := []struct {
		in   touch.Event
		want contracts.TouchEvent
	}{
		{
			ev(1, touch.TypeBegin, 10, 20),
			contracts.TouchEvent{Action: contracts.ActionDown, Pointers: []contracts.Pointer{{ID: 1, X: 110, Y: 20}}},
		},
		{
			ev(2, touch.TypeBegin, 50, 60),
			contracts.TouchEvent{
				Action:      contracts.ActionPointerDown,
				Pointers:    []contracts.Pointer{{ID: 1, X: 110, Y: 20}, {ID: 2, X: 150, Y: 60}},
				ActionIndex: 1,
			},
		},
		{
			ev(1, touch.TypeMove, 15.7, 20),
			contracts.TouchEvent{
				Action:   contracts.ActionMove,
				Pointers: []contracts.Pointer{{ID: 1, X: 115, Y: 20}, {ID: 2, X: 150, Y: 60}},
			},
		},
		{
			ev(1, touch.TypeEnd, 16, 21),
			contracts.TouchEvent{
				Action:   contracts.ActionPointerUp,
				Pointers: []contracts.Pointer{{ID: 1, X: 116, Y: 21}, {ID: 2, X: 150, Y: 60}},
			},
		},
		{
			ev(2, touch.TypeEnd, 50, 60),
			contracts.TouchEvent{Action: contracts.ActionUp, Pointers: []contracts.Pointer{{ID: 2, X: 150, Y: 60}}},
		},
	}

	for i, step := range steps {
		got, ok := tr.Translate(step.in)
		if !ok {
			t.Fatalf("step %d: event not translated", i)
		}
		if !reflect.DeepEqual(got, step.want) {
			t.Fatalf("step %d: got %+v want %+v", i, got, step.want)
		}
	}
	if tr.Active() != 0 {
		t.Fatalf("expected no active contact, got %d", tr.Active())
	}
}

func TestTrackerIgnoresUnknownContacts(t *testing.T) {
	tr := NewTracker()

	if _, ok := tr.Translate(ev(9, touch.TypeMove, 1, 1)); ok {
		t.Fatalf("move of unknown contact must be ignored")
	}
	if _, ok := tr.Translate(ev(9, touch.TypeEnd, 1, 1)); ok {
		t.Fatalf("end of unknown contact must be ignored")
	}
}

func TestCancelForgetsContacts(t *testing.T) {
	tr := NewTracker()
	tr.Translate(ev(1, touch.TypeBegin, 1, 1))
	tr.Translate(ev(2, touch.TypeBegin, 2, 2))

	got := tr.Cancel()
	if got.Action != contracts.ActionCancel || len(got.Pointers) != 2 {
		t.Fatalf("unexpected cancel frame %+v", got)
	}
	if tr.Active() != 0 {
		t.Fatalf("cancel must forget every contact")
	}
	if next, _ := tr.Translate(ev(3, touch.TypeBegin, 1, 1)); next.Action != contracts.ActionDown {
		t.Fatalf("first contact after cancel should be a down, got %s", next.Action)
	}
}
