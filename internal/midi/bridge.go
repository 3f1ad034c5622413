// Package midi connects MIDI note traffic to the keyboard: captured notes press keys and
// pressed keys can be echoed to an output port.
package midi

import (
	"context"

	"github.com/leandrodaf/piano/sdk/contracts"
	gomidi "gitlab.com/gomidi/midi/v2"
)

// NoteSink presses and releases keys by MIDI note number.
type NoteSink interface {
	PressNote(note uint8)
	ReleaseNote(note uint8)
}

// Bridge feeds captured MIDI events into a NoteSink.
type Bridge struct {
	sink   NoteSink
	logger contracts.Logger
}

// NewBridge creates a bridge writing to sink.
func NewBridge(sink NoteSink, logger contracts.Logger) *Bridge {
	return &Bridge{sink: sink, logger: logger}
}

// Handle translates one event. Note on with velocity zero counts as note off.
// It reports whether the event was a note event.
func (b *Bridge) Handle(ev contracts.MIDI) bool {
	msg := gomidi.Message([]byte{ev.Command, ev.Note, ev.Velocity})

	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		b.logger.Debug("MIDI note start",
			b.logger.Field().Uint8("channel", ch),
			b.logger.Field().Uint8("key", key),
			b.logger.Field().Uint8("velocity", vel))
		b.sink.PressNote(key)
	case msg.GetNoteEnd(&ch, &key):
		b.logger.Debug("MIDI note end",
			b.logger.Field().Uint8("channel", ch),
			b.logger.Field().Uint8("key", key))
		b.sink.ReleaseNote(key)
	default:
		b.logger.Debug("unhandled MIDI message", b.logger.Field().String("msg", msg.String()))
		return false
	}
	return true
}

// Run handles events until ctx is done or events is closed.
func (b *Bridge) Run(ctx context.Context, events <-chan contracts.MIDI) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			b.Handle(ev)
		}
	}
}
