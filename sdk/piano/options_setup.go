package piano

import (
	"errors"
	"fmt"

	"github.com/leandrodaf/piano/internal/logger"
	"github.com/leandrodaf/piano/internal/sampler"
	"github.com/leandrodaf/piano/internal/surface"
	"github.com/leandrodaf/piano/sdk/contracts"
)

// ErrInvalidOption is returned when an option holds a negative size or duration.
var ErrInvalidOption = errors.New("invalid option")

// Default values for the numeric options.
const (
	DefaultMaxStreams = 11
	DefaultClientName = "GO Piano"
)

// applyDefaultOptions applies opts and fills every option left unset.
func applyDefaultOptions(opts ...contracts.Option) (contracts.Options, error) {
	options := &contracts.Options{}
	for _, opt := range opts {
		opt(options)
	}

	if err := validate(options); err != nil {
		return contracts.Options{}, err
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.LogLevel == 0 {
		options.LogLevel = contracts.InfoLevel
	}
	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}
	if options.Listener == nil {
		options.Listener = contracts.ListenerFuncs{}
	}
	if options.MaxStreams == 0 {
		options.MaxStreams = DefaultMaxStreams
	}
	if options.MiddleGroup == 0 {
		options.MiddleGroup = sampler.DefaultMiddleGroup
	}
	if options.ProgressInterval == 0 {
		options.ProgressInterval = sampler.DefaultProgressInterval
	}
	if options.Workers == 0 {
		options.Workers = sampler.DefaultWorkers
	}
	if options.QueueSize == 0 {
		options.QueueSize = surface.DefaultQueueSize
	}
	if options.CoreMIDIConfig == nil {
		options.CoreMIDIConfig = &contracts.CoreMIDIConfig{ClientName: DefaultClientName}
	}

	options.Logger.SetLevel(options.LogLevel)
	return *options, nil
}

func validate(o *contracts.Options) error {
	switch {
	case o.MaxStreams < 0:
		return fmt.Errorf("%w: max streams %d", ErrInvalidOption, o.MaxStreams)
	case o.MiddleGroup < 0:
		return fmt.Errorf("%w: middle group %d", ErrInvalidOption, o.MiddleGroup)
	case o.ProgressInterval < 0:
		return fmt.Errorf("%w: progress interval %s", ErrInvalidOption, o.ProgressInterval)
	case o.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidOption, o.Workers)
	case o.QueueSize < 0:
		return fmt.Errorf("%w: queue size %d", ErrInvalidOption, o.QueueSize)
	case o.ViewportWidth < 0:
		return fmt.Errorf("%w: viewport width %d", ErrInvalidOption, o.ViewportWidth)
	}
	return nil
}
