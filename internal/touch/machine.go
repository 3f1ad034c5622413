// Package touch maps touch contacts to keys. A key is held by at most one contact and a
// contact holds at most one key; both follow from the transitions, nothing is validated later.
package touch

import (
	"github.com/leandrodaf/piano/internal/keys"
	"github.com/leandrodaf/piano/sdk/contracts"
)

// Hooks are invoked synchronously on every transition.
type Hooks struct {
	Pressed  func(k *keys.Key)
	Released func(k *keys.Key)
}

// Machine is the per-surface touch state. It is not safe for concurrent use; the
// interactive goroutine owns it.
type Machine struct {
	registry *keys.Registry
	hooks    Hooks
	owners   map[contracts.ContactID]*keys.Key
	canPress bool
}

// New creates a machine with pressing enabled.
func New(registry *keys.Registry, hooks Hooks) *Machine {
	return &Machine{
		registry: registry,
		hooks:    hooks,
		owners:   make(map[contracts.ContactID]*keys.Key),
		canPress: true,
	}
}

// SetCanPress enables or disables input handling. Existing presses are kept.
func (m *Machine) SetCanPress(canPress bool) { m.canPress = canPress }

// CanPress reports whether input is handled.
func (m *Machine) CanPress() bool { return m.canPress }

// Handle applies one input frame and reports whether the surface consumed it.
// Up and cancel release everything and are reported as not handled.
func (m *Machine) Handle(ev contracts.TouchEvent) bool {
	if !m.canPress {
		return false
	}
	switch ev.Action {
	case contracts.ActionDown, contracts.ActionPointerDown:
		if p, ok := ev.ActionPointer(); ok {
			m.down(p)
		}
	case contracts.ActionMove:
		// All releases of the frame happen before any new press.
		for _, p := range ev.Pointers {
			m.move(p)
		}
		for _, p := range ev.Pointers {
			m.down(p)
		}
	case contracts.ActionPointerUp:
		if p, ok := ev.ActionPointer(); ok {
			m.ReleaseContact(p.ID)
		}
	case contracts.ActionUp, contracts.ActionCancel:
		m.ReleaseAll()
		return false
	}
	return true
}

func (m *Machine) down(p contracts.Pointer) {
	if _, busy := m.owners[p.ID]; busy {
		return
	}
	for _, k := range m.registry.Keys() {
		if !k.Pressed() && k.Contains(p.X, p.Y) {
			m.Press(k, p.ID)
			return
		}
	}
}

func (m *Machine) move(p contracts.Pointer) {
	if k, ok := m.owners[p.ID]; ok && !k.Contains(p.X, p.Y) {
		m.release(k)
	}
}

// Press runs the press transition for k on behalf of owner. It fails when the key is
// already down or the owner already holds a key.
func (m *Machine) Press(k *keys.Key, owner contracts.ContactID) bool {
	if k == nil || k.Pressed() {
		return false
	}
	if _, busy := m.owners[owner]; busy {
		return false
	}
	k.Press(owner)
	m.owners[owner] = k
	if m.hooks.Pressed != nil {
		m.hooks.Pressed(k)
	}
	return true
}

// ReleaseContact releases the key held by id, if any.
func (m *Machine) ReleaseContact(id contracts.ContactID) bool {
	k, ok := m.owners[id]
	if !ok {
		return false
	}
	m.release(k)
	return true
}

// ReleaseAll releases every pressed key regardless of its owner.
func (m *Machine) ReleaseAll() {
	for _, k := range m.registry.Keys() {
		if k.Pressed() {
			m.release(k)
		}
	}
}

func (m *Machine) release(k *keys.Key) {
	if owner := k.Owner(); m.owners[owner] == k {
		delete(m.owners, owner)
	}
	k.Release()
	if m.hooks.Released != nil {
		m.hooks.Released(k)
	}
}

// Pressed lists the keys currently down, white keys first.
func (m *Machine) Pressed() []*keys.Key {
	var out []*keys.Key
	for _, k := range m.registry.Keys() {
		if k.Pressed() {
			out = append(out, k)
		}
	}
	return out
}

// Owner returns the key held by id.
func (m *Machine) Owner(id contracts.ContactID) *keys.Key {
	return m.owners[id]
}
