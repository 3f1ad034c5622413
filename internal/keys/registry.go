package keys

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/leandrodaf/piano/sdk/contracts"
)

var (
	// ErrNoKeys is returned when a registry is built from an empty layout.
	ErrNoKeys = errors.New("layout has no keys")
	// ErrDuplicateKey is returned when two descriptors share a type and slot.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInvalidKey is returned for descriptors with an unknown type or a negative slot.
	ErrInvalidKey = errors.New("invalid key")
)

// Key is one key of the keyboard. Press state and owner are only touched from the
// interactive goroutine.
type Key struct {
	contracts.KeyDescriptor
	Slot int

	bounds  image.Rectangle
	pressed bool
	owner   contracts.ContactID
}

// Pressed reports whether the key is down.
func (k *Key) Pressed() bool { return k.pressed }

// Owner returns the contact holding the key, or contracts.NoContact.
func (k *Key) Owner() contracts.ContactID { return k.owner }

// Press marks the key as held by owner.
func (k *Key) Press(owner contracts.ContactID) {
	k.pressed = true
	k.owner = owner
}

// Release clears the press state and the owner.
func (k *Key) Release() {
	k.pressed = false
	k.owner = contracts.NoContact
}

// Contains reports whether (x, y) lies in one of the key's hit regions.
func (k *Key) Contains(x, y int) bool {
	p := image.Pt(x, y)
	for _, area := range k.Areas {
		if p.In(area) {
			return true
		}
	}
	return false
}

// Bounds is the union of the hit regions.
func (k *Key) Bounds() image.Rectangle { return k.bounds }

// Registry holds every key, white keys first, each type ordered by slot.
type Registry struct {
	keys  []*Key
	white []*Key
	black []*Key
	width int
}

// NewRegistry builds a registry from the layout descriptors.
func NewRegistry(descriptors []contracts.KeyDescriptor) (*Registry, error) {
	if len(descriptors) == 0 {
		return nil, ErrNoKeys
	}

	r := &Registry{}
	seen := make(map[contracts.KeyType]map[int]bool, 2)
	for _, d := range descriptors {
		if !d.ID.Type.Valid() {
			return nil, fmt.Errorf("%w: %s has unknown type", ErrInvalidKey, d.ID)
		}
		slot := SlotOf(d.ID)
		if slot < 0 {
			return nil, fmt.Errorf("%w: %s has negative slot", ErrInvalidKey, d.ID)
		}
		if seen[d.ID.Type] == nil {
			seen[d.ID.Type] = make(map[int]bool)
		}
		if seen[d.ID.Type][slot] {
			return nil, fmt.Errorf("%w: %s slot %d", ErrDuplicateKey, d.ID, slot)
		}
		seen[d.ID.Type][slot] = true

		k := &Key{KeyDescriptor: d, Slot: slot, owner: contracts.NoContact}
		if k.Voice == "" {
			k.Voice = Voice(d.ID)
		}
		for _, area := range d.Areas {
			k.bounds = k.bounds.Union(area)
		}
		if k.bounds.Max.X > r.width {
			r.width = k.bounds.Max.X
		}
		if d.ID.Type == contracts.White {
			r.white = append(r.white, k)
		} else {
			r.black = append(r.black, k)
		}
	}

	sort.Slice(r.white, func(i, j int) bool { return r.white[i].Slot < r.white[j].Slot })
	sort.Slice(r.black, func(i, j int) bool { return r.black[i].Slot < r.black[j].Slot })
	r.keys = append(append(r.keys, r.white...), r.black...)
	return r, nil
}

// Keys returns all keys, white keys first.
func (r *Registry) Keys() []*Key { return r.keys }

// White returns the white keys ordered by slot.
func (r *Registry) White() []*Key { return r.white }

// Black returns the black keys ordered by slot.
func (r *Registry) Black() []*Key { return r.black }

// Len is the number of keys.
func (r *Registry) Len() int { return len(r.keys) }

// Width is the right edge of the rightmost hit region.
func (r *Registry) Width() int { return r.width }

// Lookup finds a key by type and slot.
func (r *Registry) Lookup(keyType contracts.KeyType, slot int) *Key {
	list := r.white
	if keyType == contracts.Black {
		list = r.black
	}
	i := sort.Search(len(list), func(i int) bool { return list[i].Slot >= slot })
	if i < len(list) && list[i].Slot == slot {
		return list[i]
	}
	return nil
}

// Find returns the key with the given identity.
func (r *Registry) Find(id contracts.KeyID) *Key {
	k := r.Lookup(id.Type, SlotOf(id))
	if k == nil || k.ID != id {
		return nil
	}
	return k
}

// Resolve maps scripted (type, group, position) to a key using the scripted bounds.
// It returns nil for invalid combinations and for keys missing from the layout.
func (r *Registry) Resolve(keyType contracts.KeyType, group, position int) *Key {
	slot, ok := Resolve(keyType, group, position)
	if !ok {
		return nil
	}
	k := r.Lookup(keyType, slot)
	if k == nil || k.ID != (contracts.KeyID{Type: keyType, Group: group, Position: position}) {
		return nil
	}
	return k
}
