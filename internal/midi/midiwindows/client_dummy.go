//go:build !windows
// +build !windows

package midiwindows

import (
	"errors"

	"github.com/leandrodaf/piano/sdk/contracts"
)

// ErrUnavailable is returned by every device call outside Windows.
var ErrUnavailable = errors.New("winmm is only available on Windows")

type dummyInput struct {
	logger contracts.Logger
}

// NewMIDIClient returns an input whose device calls fail with ErrUnavailable.
func NewMIDIClient(options *contracts.Options) (contracts.MIDIInput, error) {
	options.Logger.Info("using dummy winmm input")
	return &dummyInput{logger: options.Logger}, nil
}

func (m *dummyInput) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy winmm input")
	return nil, ErrUnavailable
}

func (m *dummyInput) SelectDevice(deviceID int) error {
	m.logger.Warn("SelectDevice called on dummy winmm input", m.logger.Field().Int("deviceID", deviceID))
	return ErrUnavailable
}

func (m *dummyInput) StartCapture(chan contracts.MIDI) {
	m.logger.Warn("StartCapture called on dummy winmm input")
}

func (m *dummyInput) Stop() error {
	return nil
}
