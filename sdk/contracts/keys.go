package contracts

import (
	"fmt"
	"image"
)

// KeyType distinguishes white keys from black keys.
type KeyType int

const (
	// White keys are the naturals.
	White KeyType = iota
	// Black keys are the accidentals.
	Black
)

// String returns the lower case name of the key type.
func (t KeyType) String() string {
	switch t {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return fmt.Sprintf("keytype(%d)", int(t))
	}
}

// Valid reports whether t is White or Black.
func (t KeyType) Valid() bool {
	return t == White || t == Black
}

// KeyID identifies a key by type, group (octave band) and position inside the group.
type KeyID struct {
	Type     KeyType
	Group    int
	Position int
}

func (k KeyID) String() string {
	return fmt.Sprintf("%s[%d:%d]", k.Type, k.Group, k.Position)
}

// ResourceID names the sample resource that backs a key. The audio service decides how it is resolved
// (a file path for the bundled oto service).
type ResourceID string

// KeyDescriptor is what the layout builder hands to the core for every key.
// The core never computes hit regions itself.
type KeyDescriptor struct {
	ID       KeyID
	Voice    string            // Note name such as "C4" or "F#2".
	Resource ResourceID        // Sample resource played by the key.
	Areas    []image.Rectangle // Hit regions in keyboard coordinates; white keys may need several.
}

// ContactID identifies one touch point for its whole lifetime.
type ContactID int64

const (
	// NoContact marks a key without an owner.
	NoContact ContactID = -1
	// AutoPlayContact owns keys pressed by the auto-play sequencer.
	AutoPlayContact ContactID = -2
)

// MIDINoteContact returns the synthetic contact owning the key pressed by a MIDI note.
// Each note gets its own contact so several held notes never share an owner.
func MIDINoteContact(note uint8) ContactID {
	return ContactID(-0x100 - int64(note))
}

// MarshalText encodes the key type as "white" or "black".
func (t KeyType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid key type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText accepts "white" or "black".
func (t *KeyType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "white", "WHITE":
		*t = White
	case "black", "BLACK":
		*t = Black
	default:
		return fmt.Errorf("invalid key type %q", string(text))
	}
	return nil
}
