package midi

import (
	"time"

	"github.com/leandrodaf/piano/sdk/contracts"
)

// Allowed reports whether a status byte passes the capture filter. The channel bits are
// ignored; a nil filter lets everything through.
func Allowed(filter *contracts.MIDIEventFilter, status byte) bool {
	if filter == nil {
		return true
	}
	for _, c := range filter.Commands {
		if status&0xF0 == byte(c) {
			return true
		}
	}
	return false
}

// NewEvent stamps a captured channel voice message.
func NewEvent(status, note, velocity byte) contracts.MIDI {
	return contracts.MIDI{
		Timestamp: uint64(time.Now().UTC().UnixNano()),
		Command:   status,
		Note:      note,
		Velocity:  velocity,
	}
}

// Deliver hands ev to ch without blocking the driver callback. It reports false when the
// event was dropped.
func Deliver(ch chan contracts.MIDI, ev contracts.MIDI, logger contracts.Logger) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- ev:
		return true
	default:
		logger.Warn("MIDI event buffer full, dropping note",
			logger.Field().Uint8("note", ev.Note))
		return false
	}
}
