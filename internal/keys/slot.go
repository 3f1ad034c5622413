package keys

import "github.com/leandrodaf/piano/sdk/contracts"

// Keyboard geometry in groups. Group 0 is the short leading group (A0, A#0, B0),
// groups 1..7 are full octaves and group 8 holds the single trailing C8.
const (
	WhitePerGroup = 7
	BlackPerGroup = 5

	LeadingWhite = 2
	LeadingBlack = 1

	LastFullGroup = 7
	TrailingGroup = 8

	WhiteKeys = LeadingWhite + LastFullGroup*WhitePerGroup + 1 // 52
	BlackKeys = LeadingBlack + LastFullGroup*BlackPerGroup     // 36
	TotalKeys = WhiteKeys + BlackKeys                          // 88
)

// Slot returns the dense rank of a key among the keys of its type.
// It is a pure linear function of (group, position) and does not validate its input.
func Slot(keyType contracts.KeyType, group, position int) int {
	if group == 0 {
		return position
	}
	if keyType == contracts.Black {
		return (group-1)*BlackPerGroup + LeadingBlack + position
	}
	return (group-1)*WhitePerGroup + LeadingWhite + position
}

// SlotOf is Slot for a KeyID.
func SlotOf(id contracts.KeyID) int {
	return Slot(id.Type, id.Group, id.Position)
}

// Resolve validates (group, position) for scripted input and returns the slot.
// Accepted combinations: white group 0 positions 0..1, groups 1..7 positions 0..6,
// group 8 position 0; black group 0 position 0, groups 1..7 positions 0..4.
func Resolve(keyType contracts.KeyType, group, position int) (int, bool) {
	if position < 0 {
		return 0, false
	}
	switch keyType {
	case contracts.White:
		switch {
		case group == 0:
			if position >= LeadingWhite {
				return 0, false
			}
		case group >= 1 && group <= LastFullGroup:
			if position >= WhitePerGroup {
				return 0, false
			}
		case group == TrailingGroup:
			if position != 0 {
				return 0, false
			}
		default:
			return 0, false
		}
	case contracts.Black:
		switch {
		case group == 0:
			if position >= LeadingBlack {
				return 0, false
			}
		case group >= 1 && group <= LastFullGroup:
			if position >= BlackPerGroup {
				return 0, false
			}
		default:
			return 0, false
		}
	default:
		return 0, false
	}
	return Slot(keyType, group, position), true
}
