package midi

import (
	"context"

	"github.com/leandrodaf/piano/internal/keys"
	"github.com/leandrodaf/piano/sdk/contracts"
	gomidi "gitlab.com/gomidi/midi/v2"
)

// DefaultEchoVelocity is used when the echo configuration leaves the velocity at zero.
const DefaultEchoVelocity = 100

// EchoBufferSize is the number of messages queued for the output port.
const EchoBufferSize = 64

type echoMessage struct {
	msg   gomidi.Message
	voice string
}

// Echo sends a note on for every pressed key and a note off for every release.
// Messages are queued and written in order by Run, so a slow output port never
// holds up the caller.
type Echo struct {
	send     contracts.MIDISender
	channel  uint8
	velocity uint8
	logger   contracts.Logger
	queue    chan echoMessage
}

// NewEcho creates an echo from its configuration. It returns nil when no sender is set.
func NewEcho(cfg contracts.MIDIEchoConfig, logger contracts.Logger) *Echo {
	if cfg.Send == nil {
		return nil
	}
	if cfg.Velocity == 0 || cfg.Velocity > 127 {
		cfg.Velocity = DefaultEchoVelocity
	}
	return &Echo{
		send:     cfg.Send,
		channel:  cfg.Channel & 0x0F,
		velocity: cfg.Velocity,
		logger:   logger,
		queue:    make(chan echoMessage, EchoBufferSize),
	}
}

// Run writes queued messages until ctx is done.
func (e *Echo) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-e.queue:
			if err := e.send(m.msg); err != nil {
				e.logger.Error("MIDI echo failed",
					e.logger.Field().String("key", m.voice),
					e.logger.Field().Error("error", err))
			}
		}
	}
}

// KeyPressed sends the note on of k.
func (e *Echo) KeyPressed(k *keys.Key) {
	if note := keys.MIDINote(k.ID); note != 0 {
		e.write(gomidi.NoteOn(e.channel, note, e.velocity), k)
	}
}

// KeyReleased sends the note off of k.
func (e *Echo) KeyReleased(k *keys.Key) {
	if note := keys.MIDINote(k.ID); note != 0 {
		e.write(gomidi.NoteOff(e.channel, note), k)
	}
}

func (e *Echo) write(msg gomidi.Message, k *keys.Key) {
	select {
	case e.queue <- echoMessage{msg: msg, voice: k.Voice}:
	default:
		e.logger.Warn("MIDI echo buffer full, dropping message",
			e.logger.Field().String("key", k.Voice))
	}
}
