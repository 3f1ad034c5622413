package contracts

// SampleHandle is an opaque reference to a sample issued by the audio service.
// The zero handle is never issued.
type SampleHandle int32

// LoadCompleteFunc is invoked by the audio service once a handle finished loading.
// It may run on any goroutine, in any order, and even before Load returned the handle.
type LoadCompleteFunc func(handle SampleHandle, err error)

// AudioService is the platform audio collaborator.
type AudioService interface {
	// Load starts loading resource and returns its handle immediately.
	// Completion is reported later through the function given to OnLoadComplete.
	Load(resource ResourceID) (SampleHandle, error)
	// OnLoadComplete registers the completion callback. Only one callback is kept.
	OnLoadComplete(fn LoadCompleteFunc)
	// Play starts a stream. loop is the number of extra repetitions, rate the playback speed.
	Play(handle SampleHandle, leftVolume, rightVolume float32, priority, loop int, rate float32) error
	// CurrentVolume returns the current output level.
	CurrentVolume() int
	// MaxVolume returns the maximum output level.
	MaxVolume() int
	// Release frees every sample. Handles are invalid afterwards.
	Release() error
}
