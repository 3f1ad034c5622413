package contracts

// MIDICommand represents the types of MIDI commands for event filtering.
type MIDICommand byte

const (
	// NoteOn is the MIDI command for a Note On event (0x90).
	NoteOn MIDICommand = 0x90
	// NoteOff is the MIDI command for a Note Off event (0x80).
	NoteOff MIDICommand = 0x80
)

// MIDI is a raw channel voice message captured from an input device.
type MIDI struct {
	Timestamp uint64 // Capture time in nanoseconds.
	Command   byte   // Status byte, channel bits included on darwin.
	Note      byte   // MIDI note number (0-127).
	Velocity  byte   // Velocity (0-127).
}

// DeviceInfo describes a MIDI input device.
type DeviceInfo struct {
	Name         string
	Manufacturer string
	EntityName   string
}

// MIDIInput captures note events from a MIDI keyboard.
type MIDIInput interface {
	Stop() error                         // Stops capturing and releases the device.
	ListDevices() ([]DeviceInfo, error)  // Lists the available input devices.
	SelectDevice(deviceID int) error     // Connects to a device by index.
	StartCapture(eventChannel chan MIDI) // Delivers captured events to eventChannel.
}

// MIDISender sends an outgoing MIDI message, typically the function returned by gomidi.SendTo.
type MIDISender func(msg []byte) error
