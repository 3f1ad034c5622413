package piano

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/piano/internal/midi/mididarwin"
	"github.com/leandrodaf/piano/internal/midi/midiwindows"
	"github.com/leandrodaf/piano/sdk/contracts"
)

// ErrUnsupportedOS is returned when no MIDI input backend exists for the operating system.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// inputInitializers maps OS names to MIDI input initializers.
var inputInitializers = map[string]func(*contracts.Options) (contracts.MIDIInput, error){
	"darwin":  mididarwin.NewMIDIClient,
	"windows": midiwindows.NewMIDIClient,
}

// newInput picks the MIDI input backend of the current operating system.
func newInput(opts *contracts.Options) (contracts.MIDIInput, error) {
	if initializer, exists := inputInitializers[runtime.GOOS]; exists {
		return initializer(opts)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, runtime.GOOS)
}
