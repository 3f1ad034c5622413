package keys

import (
	"image"

	"github.com/leandrodaf/piano/sdk/contracts"
)

// Geometry sizes the standard layout in keyboard coordinates.
type Geometry struct {
	WhiteWidth  int
	WhiteHeight int
	BlackWidth  int
	BlackHeight int
}

// DefaultGeometry mirrors the proportions of a real keyboard.
var DefaultGeometry = Geometry{WhiteWidth: 60, WhiteHeight: 300, BlackWidth: 36, BlackHeight: 180}

// ResourceFunc names the sample resource of a key.
type ResourceFunc func(id contracts.KeyID, voice string) contracts.ResourceID

// VoiceResource names resources after the voice, e.g. "C#4.wav".
func VoiceResource(_ contracts.KeyID, voice string) contracts.ResourceID {
	return contracts.ResourceID(voice + ".wav")
}

// StandardLayout builds the 88 key descriptors. White keys get two regions: the narrow upper
// part between neighbouring black keys and the full-width lower part.
func StandardLayout(g Geometry, resource ResourceFunc) []contracts.KeyDescriptor {
	if resource == nil {
		resource = VoiceResource
	}

	// boundaries[i] is true when a black key sits on the edge between white slots i-1 and i.
	boundaries := make(map[int]bool, BlackKeys)
	blacks := blackIDs()
	for _, id := range blacks {
		boundaries[blackBoundary(id)] = true
	}

	half := g.BlackWidth / 2
	out := make([]contracts.KeyDescriptor, 0, TotalKeys)
	for _, id := range whiteIDs() {
		slot := SlotOf(id)
		left, right := slot*g.WhiteWidth, (slot+1)*g.WhiteWidth
		upperLeft, upperRight := left, right
		if boundaries[slot] {
			upperLeft += half
		}
		if boundaries[slot+1] {
			upperRight -= half
		}
		voice := Voice(id)
		out = append(out, contracts.KeyDescriptor{
			ID:       id,
			Voice:    voice,
			Resource: resource(id, voice),
			Areas: []image.Rectangle{
				image.Rect(upperLeft, 0, upperRight, g.BlackHeight),
				image.Rect(left, g.BlackHeight, right, g.WhiteHeight),
			},
		})
	}
	for _, id := range blacks {
		x := blackBoundary(id) * g.WhiteWidth
		voice := Voice(id)
		out = append(out, contracts.KeyDescriptor{
			ID:       id,
			Voice:    voice,
			Resource: resource(id, voice),
			Areas:    []image.Rectangle{image.Rect(x-half, 0, x+g.BlackWidth-half, g.BlackHeight)},
		})
	}
	return out
}

// blackBoundary returns the white slot whose left edge carries the black key.
func blackBoundary(id contracts.KeyID) int {
	if id.Group == 0 {
		return 1
	}
	offsets := [BlackPerGroup]int{1, 2, 4, 5, 6}
	return (id.Group-1)*WhitePerGroup + LeadingWhite + offsets[id.Position]
}

func whiteIDs() []contracts.KeyID {
	ids := make([]contracts.KeyID, 0, WhiteKeys)
	for p := 0; p < LeadingWhite; p++ {
		ids = append(ids, contracts.KeyID{Type: contracts.White, Group: 0, Position: p})
	}
	for g := 1; g <= LastFullGroup; g++ {
		for p := 0; p < WhitePerGroup; p++ {
			ids = append(ids, contracts.KeyID{Type: contracts.White, Group: g, Position: p})
		}
	}
	return append(ids, contracts.KeyID{Type: contracts.White, Group: TrailingGroup, Position: 0})
}

func blackIDs() []contracts.KeyID {
	ids := make([]contracts.KeyID, 0, BlackKeys)
	ids = append(ids, contracts.KeyID{Type: contracts.Black, Group: 0, Position: 0})
	for g := 1; g <= LastFullGroup; g++ {
		for p := 0; p < BlackPerGroup; p++ {
			ids = append(ids, contracts.KeyID{Type: contracts.Black, Group: g, Position: p})
		}
	}
	return ids
}
