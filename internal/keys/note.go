package keys

import (
	"fmt"

	"github.com/leandrodaf/piano/sdk/contracts"
)

// MIDI numbers of the keyboard ends.
const (
	LowestNote  = 21  // A0
	HighestNote = 108 // C8
)

var (
	whiteNames     = [WhitePerGroup]string{"C", "D", "E", "F", "G", "A", "B"}
	blackNames     = [BlackPerGroup]string{"C#", "D#", "F#", "G#", "A#"}
	whiteSemitones = [WhitePerGroup]int{0, 2, 4, 5, 7, 9, 11}
	blackSemitones = [BlackPerGroup]int{1, 3, 6, 8, 10}
)

// Voice returns the note name of a key, e.g. "A0", "C#4" or "C8".
func Voice(id contracts.KeyID) string {
	if _, ok := Resolve(id.Type, id.Group, id.Position); !ok {
		return id.String()
	}
	if id.Group == 0 {
		if id.Type == contracts.Black {
			return "A#0"
		}
		if id.Position == 0 {
			return "A0"
		}
		return "B0"
	}
	if id.Type == contracts.Black {
		return fmt.Sprintf("%s%d", blackNames[id.Position], id.Group)
	}
	return fmt.Sprintf("%s%d", whiteNames[id.Position], id.Group)
}

// MIDINote returns the MIDI note number of a key (A0 = 21, C4 = 60), or 0 for an invalid key.
func MIDINote(id contracts.KeyID) uint8 {
	if _, ok := Resolve(id.Type, id.Group, id.Position); !ok {
		return 0
	}
	if id.Group == 0 {
		if id.Type == contracts.Black {
			return LowestNote + 1
		}
		return LowestNote + uint8(2*id.Position)
	}
	base := 12 * (id.Group + 1)
	if id.Type == contracts.Black {
		return uint8(base + blackSemitones[id.Position])
	}
	return uint8(base + whiteSemitones[id.Position])
}

// FromMIDINote maps a MIDI note number back to its key.
func FromMIDINote(note uint8) (contracts.KeyID, bool) {
	switch {
	case note < LowestNote || note > HighestNote:
		return contracts.KeyID{}, false
	case note == LowestNote:
		return contracts.KeyID{Type: contracts.White, Group: 0, Position: 0}, true
	case note == LowestNote+1:
		return contracts.KeyID{Type: contracts.Black, Group: 0, Position: 0}, true
	case note == LowestNote+2:
		return contracts.KeyID{Type: contracts.White, Group: 0, Position: 1}, true
	}

	group := int(note)/12 - 1
	semitone := int(note) % 12
	for i, s := range whiteSemitones {
		if s == semitone {
			return contracts.KeyID{Type: contracts.White, Group: group, Position: i}, true
		}
	}
	for i, s := range blackSemitones {
		if s == semitone {
			return contracts.KeyID{Type: contracts.Black, Group: group, Position: i}, true
		}
	}
	return contracts.KeyID{}, false
}
