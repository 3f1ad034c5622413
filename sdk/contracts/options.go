package contracts

import "time"

// MIDIEventFilter allows users to specify which MIDI commands to capture.
type MIDIEventFilter struct {
	Commands []MIDICommand // List of MIDI commands to filter.
}

// CoreMIDIConfig holds configuration for CoreMIDI.
type CoreMIDIConfig struct {
	ClientName string // Name of the MIDI client.
}

// MIDIEchoConfig forwards key clicks and releases to a MIDI output.
type MIDIEchoConfig struct {
	Send     MIDISender
	Channel  uint8
	Velocity uint8
}

// Options defines the configuration of the keyboard and its collaborators.
type Options struct {
	Logger      Logger   // Logger for every component.
	LogLevel    LogLevel // Level of logging to use.
	LogFilePath string   // File path for logging; enables file logging when set.
	Listener    Listener // Optional notification sink.

	MaxStreams       int           // Simultaneous streams allowed by the audio backend.
	MiddleGroup      int           // Group loaded first to get a usable register quickly.
	ProgressInterval time.Duration // Minimum time between two progress notifications.
	Workers          int           // Background workers for loading and playback.
	QueueSize        int           // Capacity of the interactive event queue.
	ViewportWidth    int           // Visible width of the keyboard; 0 means everything is visible.

	MIDIEcho        *MIDIEchoConfig  // Optional MIDI echo of key presses.
	MIDIEventFilter *MIDIEventFilter // Optional filter for captured MIDI events.
	CoreMIDIConfig  *CoreMIDIConfig  // Configuration specific to CoreMIDI.
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(opts *Options) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level.
func WithLogLevel(level LogLevel) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

// WithLogFilePath sends logs to the given file.
func WithLogFilePath(path string) Option {
	return func(opts *Options) {
		opts.LogFilePath = path
	}
}

// WithListener sets the notification sink.
func WithListener(l Listener) Option {
	return func(opts *Options) {
		opts.Listener = l
	}
}

// WithMaxStreams caps the number of simultaneous streams.
func WithMaxStreams(n int) Option {
	return func(opts *Options) {
		opts.MaxStreams = n
	}
}

// WithMiddleGroup sets the group whose samples are loaded first.
func WithMiddleGroup(group int) Option {
	return func(opts *Options) {
		opts.MiddleGroup = group
	}
}

// WithProgressInterval sets the progress notification throttle window.
func WithProgressInterval(d time.Duration) Option {
	return func(opts *Options) {
		opts.ProgressInterval = d
	}
}

// WithWorkers sets the size of the background worker pool.
func WithWorkers(n int) Option {
	return func(opts *Options) {
		opts.Workers = n
	}
}

// WithQueueSize sets the capacity of the interactive event queue.
func WithQueueSize(n int) Option {
	return func(opts *Options) {
		opts.QueueSize = n
	}
}

// WithViewportWidth sets the visible width used for auto scrolling.
func WithViewportWidth(width int) Option {
	return func(opts *Options) {
		opts.ViewportWidth = width
	}
}

// WithMIDIEcho forwards key presses to a MIDI output.
func WithMIDIEcho(config MIDIEchoConfig) Option {
	return func(opts *Options) {
		opts.MIDIEcho = &config
	}
}

// WithMIDIEventFilter sets the MIDI event filter for MIDI input.
func WithMIDIEventFilter(filter MIDIEventFilter) Option {
	return func(opts *Options) {
		opts.MIDIEventFilter = &filter
	}
}

// WithCoreMIDIConfig sets the CoreMIDI configuration for MIDI input.
func WithCoreMIDIConfig(config CoreMIDIConfig) Option {
	return func(opts *Options) {
		opts.CoreMIDIConfig = &config
	}
}
