//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/piano/internal/midi"
	"github.com/leandrodaf/piano/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI keyboard connection and handling issues.
var (
	ErrNoMIDIDevices        = errors.New("no MIDI keyboards found")
	ErrInvalidMIDIDevice    = errors.New("invalid MIDI keyboard")
	ErrMIDIConnectionError  = errors.New("error connecting to MIDI keyboard")
	ErrCreateInputPort      = errors.New("error creating input port")
	ErrIncompleteMIDIPacket = errors.New("incomplete MIDI packet")
)

// portConnection is the part of coremidi.PortConnection the input relies on.
type portConnection interface {
	Disconnect()
}

// Input captures notes from a MIDI keyboard through CoreMIDI.
type Input struct {
	logger    contracts.Logger
	client    coremidi.Client
	filter    *contracts.MIDIEventFilter
	capture   sync.RWMutex // held for reading while a packet is delivered
	events    chan contracts.MIDI
	mu        sync.Mutex
	inputPort coremidi.InputPort
	portConn  portConnection
	stopOnce  sync.Once
}

// NewMIDIClient creates a CoreMIDI client named after the configuration.
func NewMIDIClient(options *contracts.Options) (contracts.MIDIInput, error) {
	name := "piano"
	if options.CoreMIDIConfig != nil && options.CoreMIDIConfig.ClientName != "" {
		name = options.CoreMIDIConfig.ClientName
	}
	client, err := coremidi.NewClient(name)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("CoreMIDI client created", options.Logger.Field().String("client", name))

	return &Input{
		logger: options.Logger,
		client: client,
		filter: options.MIDIEventFilter,
	}, nil
}

// ListDevices returns the MIDI sources known to CoreMIDI.
func (m *Input) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		entity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			Name:         source.Name(),
			EntityName:   entity.Name(),
			Manufacturer: entity.Manufacturer(),
		}
	}
	return devices, nil
}

// SelectDevice connects to the source at index deviceID, replacing any previous connection.
func (m *Input) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		m.logger.Error(ErrInvalidMIDIDevice.Error(), m.logger.Field().Int("deviceID", deviceID))
		return ErrInvalidMIDIDevice
	}

	m.disconnect()

	source := sources[deviceID]
	m.inputPort, err = coremidi.NewInputPort(m.client, "Piano Input", m.handlePacket)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}
	conn, err := m.inputPort.Connect(source)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}
	m.portConn = conn

	m.logger.Info("MIDI keyboard connected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", source.Name()))
	return nil
}

// handlePacket splits a CoreMIDI packet into three byte channel voice messages.
func (m *Input) handlePacket(_ coremidi.Source, packet coremidi.Packet) {
	m.capture.RLock()
	defer m.capture.RUnlock()

	if m.events == nil {
		return
	}
	data := packet.Data
	if len(data) < 3 {
		m.logger.Warn(ErrIncompleteMIDIPacket.Error(), m.logger.Field().Int("bytes", len(data)))
		return
	}
	for i := 0; i+2 < len(data); i += 3 {
		if !midi.Allowed(m.filter, data[i]) {
			continue
		}
		midi.Deliver(m.events, midi.NewEvent(data[i], data[i+1], data[i+2]), m.logger)
	}
}

// StartCapture routes captured notes to eventChannel. A previous channel is replaced.
func (m *Input) StartCapture(eventChannel chan contracts.MIDI) {
	if eventChannel == nil {
		m.logger.Error("StartCapture called with nil eventChannel")
		return
	}
	m.capture.Lock()
	previous := m.events
	m.events = eventChannel
	m.capture.Unlock()
	if previous != nil {
		m.logger.Warn("replacing active MIDI capture")
	}
	m.logger.Info("MIDI capture started")
}

func (m *Input) disconnect() {
	if m.portConn != nil {
		m.portConn.Disconnect()
		m.portConn = nil
	}
}

// Stop disconnects the keyboard and waits for in-flight packets. No event is
// delivered once it returns. It runs once.
func (m *Input) Stop() error {
	m.stopOnce.Do(func() {
		m.mu.Lock()
		m.disconnect()
		m.mu.Unlock()

		m.capture.Lock()
		m.events = nil
		m.capture.Unlock()
		m.logger.Info("MIDI capture stopped")
	})
	return nil
}
