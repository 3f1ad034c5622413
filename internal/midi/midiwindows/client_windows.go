//go:build windows
// +build windows

package midiwindows

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/leandrodaf/piano/internal/midi"
	"github.com/leandrodaf/piano/sdk/contracts"
	"golang.org/x/sys/windows"
)

// HMIDIIN is a winmm MIDI input handle.
type HMIDIIN windows.Handle

const (
	callbackFunction = 0x00030000
	midiIOStatus     = 0x00000020
)

// winmm input messages.
const (
	mimOpen      = 0x3C1
	mimClose     = 0x3C2
	mimData      = 0x3C3
	mimError     = 0x3C5
	mimLongError = 0x3C6
	mimMoreData  = 0x3CC
)

var (
	// ErrNoMIDIDevices is returned when winmm reports no input device.
	ErrNoMIDIDevices = errors.New("no MIDI keyboards found")
	// ErrNotConnected is returned when capture starts before a device was selected.
	ErrNotConnected = errors.New("no MIDI keyboard selected")
)

type midiInCaps struct {
	wMid           uint16
	wPid           uint16
	vDriverVersion uint32
	szPname        [32]uint16
	dwSupport      uint32
}

var (
	winmm                = windows.NewLazySystemDLL("winmm.dll")
	procMidiInGetNumDevs = winmm.NewProc("midiInGetNumDevs")
	procMidiInGetDevCaps = winmm.NewProc("midiInGetDevCapsW")
	procMidiInOpen       = winmm.NewProc("midiInOpen")
	procMidiInStart      = winmm.NewProc("midiInStart")
	procMidiInStop       = winmm.NewProc("midiInStop")
	procMidiInClose      = winmm.NewProc("midiInClose")

	// One callback for every input; winmm passes the instance pointer back.
	inputCallback = windows.NewCallback(midiInCallback)
)

// Input captures notes from a MIDI keyboard through winmm.
type Input struct {
	logger contracts.Logger
	filter *contracts.MIDIEventFilter
	events atomic.Pointer[chan contracts.MIDI]

	mu        sync.Mutex
	handle    HMIDIIN
	connected bool
}

// NewMIDIClient creates a winmm input.
func NewMIDIClient(options *contracts.Options) (contracts.MIDIInput, error) {
	options.Logger.Info("winmm MIDI input created")
	return &Input{
		logger: options.Logger,
		filter: options.MIDIEventFilter,
	}, nil
}

// ListDevices lists the winmm input devices.
func (m *Input) ListDevices() ([]contracts.DeviceInfo, error) {
	r0, _, _ := procMidiInGetNumDevs.Call()
	count := uint32(r0)
	if count == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, 0, count)
	for i := uint32(0); i < count; i++ {
		var caps midiInCaps
		r1, _, _ := procMidiInGetDevCaps.Call(uintptr(i), uintptr(unsafe.Pointer(&caps)), unsafe.Sizeof(caps))
		if r1 != 0 {
			m.logger.Warn("cannot read MIDI device capabilities", m.logger.Field().Int("deviceID", int(i)))
			continue
		}
		name := windows.UTF16ToString(caps.szPname[:])
		devices = append(devices, contracts.DeviceInfo{
			Name:         name,
			EntityName:   name,
			Manufacturer: fmt.Sprintf("MID: %d PID: %d", caps.wMid, caps.wPid),
		})
	}
	return devices, nil
}

// SelectDevice opens the device at index deviceID, closing any previous one.
func (m *Input) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		if err := m.close(); err != nil {
			return fmt.Errorf("closing previous MIDI keyboard: %w", err)
		}
	}

	r1, _, err := procMidiInOpen.Call(
		uintptr(unsafe.Pointer(&m.handle)),
		uintptr(deviceID),
		inputCallback,
		uintptr(unsafe.Pointer(m)),
		uintptr(callbackFunction|midiIOStatus),
	)
	if r1 != 0 {
		return fmt.Errorf("opening MIDI keyboard %d: %v", deviceID, err)
	}
	m.connected = true
	m.logger.Info("MIDI keyboard connected", m.logger.Field().Int("deviceID", deviceID))
	return nil
}

// StartCapture routes notes to eventChannel and starts the device.
func (m *Input) StartCapture(eventChannel chan contracts.MIDI) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected || m.handle == 0 {
		m.logger.Error(ErrNotConnected.Error())
		return
	}
	if m.events.Swap(&eventChannel) != nil {
		m.logger.Warn("replacing active MIDI capture")
		return
	}
	if r1, _, err := procMidiInStart.Call(uintptr(m.handle)); r1 != 0 {
		m.logger.Error("cannot start MIDI capture", m.logger.Field().Error("error", err))
		return
	}
	m.logger.Info("MIDI capture started")
}

func midiInCallback(_ uintptr, wMsg uint32, dwInstance uintptr, dwParam1 uintptr, _ uintptr) uintptr {
	m := (*Input)(unsafe.Pointer(dwInstance))

	switch wMsg {
	case mimData:
		status := byte(dwParam1 & 0xFF)
		if !midi.Allowed(m.filter, status) {
			return 0
		}
		if ch := m.events.Load(); ch != nil {
			midi.Deliver(*ch, midi.NewEvent(status, byte(dwParam1>>8), byte(dwParam1>>16)), m.logger)
		}
	case mimOpen, mimClose, mimMoreData:
		m.logger.Debug("winmm input message", m.logger.Field().Int("msg", int(wMsg)))
	case mimError, mimLongError:
		m.logger.Error("winmm input error", m.logger.Field().Int("msg", int(wMsg)))
	}
	return 0
}

// Stop stops capture and closes the device.
func (m *Input) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}
	if err := m.close(); err != nil {
		return fmt.Errorf("stopping MIDI capture: %w", err)
	}
	m.logger.Info("MIDI capture stopped")
	return nil
}

func (m *Input) close() error {
	if r1, _, err := procMidiInStop.Call(uintptr(m.handle)); r1 != 0 {
		return err
	}
	if r1, _, err := procMidiInClose.Call(uintptr(m.handle)); r1 != 0 {
		return err
	}
	m.connected = false
	m.handle = 0
	m.events.Store(nil)
	return nil
}
