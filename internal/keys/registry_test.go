package keys

import (
	"errors"
	"image"
	"testing"

	"github.com/leandrodaf/piano/sdk/contracts"
)

func TestStandardLayoutRegistry(t *testing.T) {
	reg, err := NewRegistry(StandardLayout(DefaultGeometry, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Len() != TotalKeys || len(reg.White()) != WhiteKeys || len(reg.Black()) != BlackKeys {
		t.Fatalf("unexpected key counts: %d/%d/%d", reg.Len(), len(reg.White()), len(reg.Black()))
	}
	if want := WhiteKeys * DefaultGeometry.WhiteWidth; reg.Width() != want {
		t.Fatalf("width: got %d want %d", reg.Width(), want)
	}

	c4 := reg.Find(contracts.KeyID{Type: contracts.White, Group: 4, Position: 0})
	if c4 == nil || c4.Voice != "C4" || c4.Resource != "C4.wav" {
		t.Fatalf("unexpected C4: %+v", c4)
	}
	if c4.Pressed() || c4.Owner() != contracts.NoContact {
		t.Fatalf("new keys start released")
	}
}

func TestStandardLayoutRegionsDoNotOverlap(t *testing.T) {
	reg, err := NewRegistry(StandardLayout(DefaultGeometry, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for y := 0; y < DefaultGeometry.WhiteHeight; y += 7 {
		for x := 0; x < reg.Width(); x += 3 {
			hits := 0
			for _, k := range reg.Keys() {
				if k.Contains(x, y) {
					hits++
				}
			}
			if hits != 1 {
				t.Fatalf("point (%d,%d) hits %d keys", x, y, hits)
			}
		}
	}
}

func TestRegistryResolve(t *testing.T) {
	reg, err := NewRegistry(StandardLayout(DefaultGeometry, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	k := reg.Resolve(contracts.White, 8, 0)
	if k == nil || k.Voice != "C8" {
		t.Fatalf("expected C8, got %+v", k)
	}
	if reg.Resolve(contracts.Black, 8, 0) != nil {
		t.Fatalf("black group 8 must not resolve")
	}
}

func TestRegistryResolveMatchesIdentity(t *testing.T) {
	// (white, 0, 2) shares its slot with C1 but is a different key.
	odd := contracts.KeyID{Type: contracts.White, Group: 0, Position: 2}
	reg, err := NewRegistry([]contracts.KeyDescriptor{{ID: odd}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k := reg.Resolve(contracts.White, 1, 0); k != nil {
		t.Fatalf("C1 must not resolve to %s", k.ID)
	}
	if reg.Find(odd) == nil {
		t.Fatalf("key must still be found by its own identity")
	}
}

func TestRegistryErrors(t *testing.T) {
	if _, err := NewRegistry(nil); !errors.Is(err, ErrNoKeys) {
		t.Fatalf("expected ErrNoKeys, got %v", err)
	}
	dup := []contracts.KeyDescriptor{
		{ID: contracts.KeyID{Type: contracts.White, Group: 1, Position: 0}},
		{ID: contracts.KeyID{Type: contracts.White, Group: 1, Position: 0}},
	}
	if _, err := NewRegistry(dup); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
	bad := []contracts.KeyDescriptor{{ID: contracts.KeyID{Type: contracts.KeyType(3)}}}
	if _, err := NewRegistry(bad); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestKeyPressRelease(t *testing.T) {
	reg, err := NewRegistry([]contracts.KeyDescriptor{{
		ID:    contracts.KeyID{Type: contracts.White},
		Areas: []image.Rectangle{image.Rect(0, 0, 10, 10)},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	k := reg.Keys()[0]
	k.Press(3)
	if !k.Pressed() || k.Owner() != 3 {
		t.Fatalf("expected key pressed by contact 3")
	}
	k.Release()
	if k.Pressed() || k.Owner() != contracts.NoContact {
		t.Fatalf("expected key released")
	}
	if !k.Contains(0, 0) || k.Contains(10, 0) {
		t.Fatalf("hit regions are half open")
	}
}
