//go:build !darwin
// +build !darwin

package mididarwin

import (
	"errors"

	"github.com/leandrodaf/piano/sdk/contracts"
)

// ErrUnavailable is returned by every device call outside macOS.
var ErrUnavailable = errors.New("CoreMIDI is only available on macOS")

// DummyInput stands in for the CoreMIDI input on other systems.
type DummyInput struct {
	logger contracts.Logger
}

// NewMIDIClient returns a DummyInput.
func NewMIDIClient(options *contracts.Options) (contracts.MIDIInput, error) {
	options.Logger.Info("using dummy CoreMIDI input")
	return &DummyInput{logger: options.Logger}, nil
}

func (m *DummyInput) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy CoreMIDI input")
	return nil, ErrUnavailable
}

func (m *DummyInput) SelectDevice(deviceID int) error {
	m.logger.Warn("SelectDevice called on dummy CoreMIDI input", m.logger.Field().Int("deviceID", deviceID))
	return ErrUnavailable
}

func (m *DummyInput) StartCapture(chan contracts.MIDI) {
	m.logger.Warn("StartCapture called on dummy CoreMIDI input")
}

func (m *DummyInput) Stop() error {
	return nil
}
