package piano

import (
	"context"
	"errors"

	"github.com/leandrodaf/piano/internal/midi"
	"github.com/leandrodaf/piano/sdk/contracts"
	"go.uber.org/multierr"
)

// MIDIBufferSize is the capacity of the channel between a MIDI input and the keyboard.
const MIDIBufferSize = 64

// NewMIDIInput creates the MIDI keyboard input of the current operating system.
func NewMIDIInput(opts ...contracts.Option) (contracts.MIDIInput, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	return newInput(&options)
}

// ListenMIDI plays the notes captured by input on p until ctx is done, then stops the input.
// The device must already be selected.
func ListenMIDI(ctx context.Context, input contracts.MIDIInput, p contracts.Piano, opts ...contracts.Option) error {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return err
	}

	events := make(chan contracts.MIDI, MIDIBufferSize)
	input.StartCapture(events)
	err = midi.NewBridge(p, options.Logger).Run(ctx, events)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return multierr.Append(err, input.Stop())
}
