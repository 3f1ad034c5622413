package keys

import (
	"testing"

	"github.com/leandrodaf/piano/sdk/contracts"
)

func TestSlotIsDenseAndOrdered(t *testing.T) {
	for _, tc := range []struct {
		name  string
		ids   []contracts.KeyID
		count int
	}{
		{"white", whiteIDs(), WhiteKeys},
		{"black", blackIDs(), BlackKeys},
	} {
		if len(tc.ids) != tc.count {
			t.Fatalf("%s: expected %d keys, got %d", tc.name, tc.count, len(tc.ids))
		}
		for i, id := range tc.ids {
			if got := SlotOf(id); got != i {
				t.Fatalf("%s: %s expected slot %d, got %d", tc.name, id, i, got)
			}
		}
	}
}

func TestResolveAgreesWithSlot(t *testing.T) {
	for _, id := range append(whiteIDs(), blackIDs()...) {
		slot, ok := Resolve(id.Type, id.Group, id.Position)
		if !ok {
			t.Fatalf("%s should resolve", id)
		}
		if slot != SlotOf(id) {
			t.Fatalf("%s: resolver slot %d, loader slot %d", id, slot, SlotOf(id))
		}
	}
}

func TestResolveRejectsOutOfRange(t *testing.T) {
	cases := []struct {
		keyType  contracts.KeyType
		group    int
		position int
	}{
		{contracts.White, 0, 2},
		{contracts.White, 3, 7},
		{contracts.White, 8, 1},
		{contracts.White, 9, 0},
		{contracts.White, -1, 0},
		{contracts.White, 2, -1},
		{contracts.Black, 0, 1},
		{contracts.Black, 4, 5},
		{contracts.Black, 8, 0},
		{contracts.KeyType(7), 1, 0},
	}
	for _, tc := range cases {
		if _, ok := Resolve(tc.keyType, tc.group, tc.position); ok {
			t.Fatalf("(%s, %d, %d) should not resolve", tc.keyType, tc.group, tc.position)
		}
	}
}

func TestMIDINoteRoundTrip(t *testing.T) {
	seen := make(map[uint8]bool)
	for _, id := range append(whiteIDs(), blackIDs()...) {
		note := MIDINote(id)
		if note < LowestNote || note > HighestNote {
			t.Fatalf("%s: note %d out of range", id, note)
		}
		if seen[note] {
			t.Fatalf("%s: note %d assigned twice", id, note)
		}
		seen[note] = true
		back, ok := FromMIDINote(note)
		if !ok || back != id {
			t.Fatalf("note %d: got %v (%v), want %s", note, back, ok, id)
		}
	}
	if len(seen) != TotalKeys {
		t.Fatalf("expected %d notes, got %d", TotalKeys, len(seen))
	}
	if _, ok := FromMIDINote(20); ok {
		t.Fatalf("note 20 is below the keyboard")
	}
}

func TestVoice(t *testing.T) {
	cases := map[contracts.KeyID]string{
		{Type: contracts.White, Group: 0, Position: 0}: "A0",
		{Type: contracts.Black, Group: 0, Position: 0}: "A#0",
		{Type: contracts.White, Group: 0, Position: 1}: "B0",
		{Type: contracts.White, Group: 4, Position: 0}: "C4",
		{Type: contracts.Black, Group: 4, Position: 2}: "F#4",
		{Type: contracts.White, Group: 8, Position: 0}: "C8",
	}
	for id, want := range cases {
		if got := Voice(id); got != want {
			t.Fatalf("%s: got %q want %q", id, got, want)
		}
	}
	if MIDINote(contracts.KeyID{Type: contracts.White, Group: 4, Position: 0}) != 60 {
		t.Fatalf("C4 should be MIDI note 60")
	}
}
