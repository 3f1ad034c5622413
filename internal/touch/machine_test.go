package touch

import (
	"image"
	"math/rand"
	"reflect"
	"testing"

	"github.com/leandrodaf/piano/internal/keys"
	"github.com/leandrodaf/piano/sdk/contracts"
)

type journal struct {
	entries []string
}

func (j *journal) hooks() Hooks {
	return Hooks{
		Pressed:  func(k *keys.Key) { j.entries = append(j.entries, "press "+k.Voice) },
		Released: func(k *keys.Key) { j.entries = append(j.entries, "release "+k.Voice) },
	}
}

// twoKeys builds A0 at [0,10) and B0 at [10,20), both 10 high.
func twoKeys(t *testing.T) *keys.Registry {
	t.Helper()
	reg, err := keys.NewRegistry([]contracts.KeyDescriptor{
		{ID: contracts.KeyID{Type: contracts.White, Position: 0}, Areas: []image.Rectangle{image.Rect(0, 0, 10, 10)}},
		{ID: contracts.KeyID{Type: contracts.White, Position: 1}, Areas: []image.Rectangle{image.Rect(10, 0, 20, 10)}},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg
}

func down(id contracts.ContactID, x, y int) contracts.TouchEvent {
	return contracts.TouchEvent{Action: contracts.ActionDown, Pointers: []contracts.Pointer{{ID: id, X: x, Y: y}}}
}

func move(pointers ...contracts.Pointer) contracts.TouchEvent {
	return contracts.TouchEvent{Action: contracts.ActionMove, Pointers: pointers}
}

func TestDragOffKeyReleasesOnce(t *testing.T) {
	j := &journal{}
	m := New(twoKeys(t), j.hooks())

	if !m.Handle(down(1, 5, 5)) {
		t.Fatalf("down should be handled")
	}
	m.Handle(move(contracts.Pointer{ID: 1, X: 5, Y: 50}))
	m.Handle(move(contracts.Pointer{ID: 1, X: 6, Y: 60}))
	if m.Handle(contracts.TouchEvent{Action: contracts.ActionUp, Pointers: []contracts.Pointer{{ID: 1, X: 6, Y: 60}}}) {
		t.Fatalf("up must be reported as unhandled")
	}

	want := []string{"press A0", "release A0"}
	if !reflect.DeepEqual(j.entries, want) {
		t.Fatalf("got %v want %v", j.entries, want)
	}
}

func TestSlideReleasesBeforePressing(t *testing.T) {
	j := &journal{}
	m := New(twoKeys(t), j.hooks())

	m.Handle(down(1, 5, 5))
	m.Handle(move(contracts.Pointer{ID: 1, X: 15, Y: 5}))

	want := []string{"press A0", "release A0", "press B0"}
	if !reflect.DeepEqual(j.entries, want) {
		t.Fatalf("got %v want %v", j.entries, want)
	}
	if k := m.Owner(1); k == nil || k.Voice != "B0" {
		t.Fatalf("contact 1 should own B0")
	}
}

func TestSwapFingersInOneFrame(t *testing.T) {
	j := &journal{}
	m := New(twoKeys(t), j.hooks())

	m.Handle(down(1, 5, 5))
	m.Handle(contracts.TouchEvent{
		Action:      contracts.ActionPointerDown,
		Pointers:    []contracts.Pointer{{ID: 1, X: 5, Y: 5}, {ID: 2, X: 15, Y: 5}},
		ActionIndex: 1,
	})
	// Both fingers cross over in the same frame: both keys are released first, then re-pressed.
	m.Handle(move(contracts.Pointer{ID: 1, X: 15, Y: 5}, contracts.Pointer{ID: 2, X: 5, Y: 5}))

	want := []string{"press A0", "press B0", "release A0", "release B0", "press B0", "press A0"}
	if !reflect.DeepEqual(j.entries, want) {
		t.Fatalf("got %v want %v", j.entries, want)
	}
	if m.Owner(1).Voice != "B0" || m.Owner(2).Voice != "A0" {
		t.Fatalf("unexpected owners after swap")
	}
}

func TestPointerUpReleasesOnlyItsKey(t *testing.T) {
	j := &journal{}
	m := New(twoKeys(t), j.hooks())

	m.Handle(down(1, 5, 5))
	m.Handle(contracts.TouchEvent{
		Action:      contracts.ActionPointerDown,
		Pointers:    []contracts.Pointer{{ID: 1, X: 5, Y: 5}, {ID: 2, X: 15, Y: 5}},
		ActionIndex: 1,
	})
	handled := m.Handle(contracts.TouchEvent{
		Action:      contracts.ActionPointerUp,
		Pointers:    []contracts.Pointer{{ID: 1, X: 5, Y: 5}, {ID: 2, X: 15, Y: 5}},
		ActionIndex: 0,
	})
	if !handled {
		t.Fatalf("pointer up should be handled")
	}
	pressed := m.Pressed()
	if len(pressed) != 1 || pressed[0].Voice != "B0" || pressed[0].Owner() != 2 {
		t.Fatalf("only B0 should stay pressed, got %v", pressed)
	}
}

func TestCancelReleasesEverything(t *testing.T) {
	j := &journal{}
	reg := twoKeys(t)
	m := New(reg, j.hooks())

	m.Handle(down(1, 5, 5))
	m.Press(reg.White()[1], contracts.AutoPlayContact)
	if m.Handle(contracts.TouchEvent{Action: contracts.ActionCancel}) {
		t.Fatalf("cancel must be reported as unhandled")
	}
	if len(m.Pressed()) != 0 {
		t.Fatalf("cancel should release all keys")
	}
}

func TestDisabledIgnoresInputButKeepsPresses(t *testing.T) {
	j := &journal{}
	m := New(twoKeys(t), j.hooks())

	m.Handle(down(1, 5, 5))
	m.SetCanPress(false)
	if m.Handle(move(contracts.Pointer{ID: 1, X: 50, Y: 50})) {
		t.Fatalf("disabled machine must not handle input")
	}
	m.Handle(down(2, 15, 5))
	if got := m.Pressed(); len(got) != 1 || got[0].Voice != "A0" {
		t.Fatalf("existing press must be kept, got %v", got)
	}
	m.SetCanPress(true)
	m.Handle(move(contracts.Pointer{ID: 1, X: 50, Y: 50}))
	if len(m.Pressed()) != 0 {
		t.Fatalf("enabled machine should release on drag off")
	}
}

func TestPressRejectsHeldKeyAndBusyOwner(t *testing.T) {
	reg := twoKeys(t)
	m := New(reg, Hooks{})
	a, b := reg.White()[0], reg.White()[1]

	if !m.Press(a, 1) {
		t.Fatalf("first press should succeed")
	}
	if m.Press(a, 2) {
		t.Fatalf("a held key must not accept another owner")
	}
	if m.Press(b, 1) {
		t.Fatalf("a contact must not hold two keys")
	}
	if m.Press(nil, 3) {
		t.Fatalf("nil key must be rejected")
	}
}

func TestOwnershipInvariantUnderRandomInput(t *testing.T) {
	reg, err := keys.NewRegistry(keys.StandardLayout(keys.DefaultGeometry, nil))
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	m := New(reg, Hooks{})
	rnd := rand.New(rand.NewSource(42))
	active := map[contracts.ContactID]contracts.Pointer{}

	randomPointer := func(id contracts.ContactID) contracts.Pointer {
		return contracts.Pointer{ID: id, X: rnd.Intn(reg.Width() + 40), Y: rnd.Intn(keys.DefaultGeometry.WhiteHeight + 40)}
	}
	frame := func(action contracts.TouchAction, actor contracts.ContactID) contracts.TouchEvent {
		ev := contracts.TouchEvent{Action: action}
		for id := contracts.ContactID(0); id < 5; id++ {
			if p, ok := active[id]; ok {
				if id == actor {
					ev.ActionIndex = len(ev.Pointers)
				}
				ev.Pointers = append(ev.Pointers, p)
			}
		}
		return ev
	}

	for step := 0; step < 5000; step++ {
		id := contracts.ContactID(rnd.Intn(5))
		switch rnd.Intn(5) {
		case 0, 1:
			if _, ok := active[id]; ok {
				continue
			}
			action := contracts.ActionPointerDown
			if len(active) == 0 {
				action = contracts.ActionDown
			}
			active[id] = randomPointer(id)
			m.Handle(frame(action, id))
		case 2:
			for k := range active {
				active[k] = randomPointer(k)
			}
			m.Handle(frame(contracts.ActionMove, -1))
		case 3:
			if _, ok := active[id]; !ok {
				continue
			}
			action := contracts.ActionPointerUp
			if len(active) == 1 {
				action = contracts.ActionUp
			}
			m.Handle(frame(action, id))
			delete(active, id)
		case 4:
			if rnd.Intn(20) == 0 {
				m.Handle(frame(contracts.ActionCancel, -1))
				active = map[contracts.ContactID]contracts.Pointer{}
			}
		}

		held := map[contracts.ContactID]int{}
		for _, k := range reg.Keys() {
			if !k.Pressed() {
				if k.Owner() != contracts.NoContact {
					t.Fatalf("step %d: released key %s still has owner %d", step, k.ID, k.Owner())
				}
				continue
			}
			held[k.Owner()]++
			if m.Owner(k.Owner()) != k {
				t.Fatalf("step %d: key %s not tracked for owner %d", step, k.ID, k.Owner())
			}
		}
		for owner, n := range held {
			if n > 1 {
				t.Fatalf("step %d: contact %d holds %d keys", step, owner, n)
			}
		}
		for owner, k := range m.owners {
			if !k.Pressed() || k.Owner() != owner {
				t.Fatalf("step %d: stale assignment for contact %d", step, owner)
			}
		}
	}
}
