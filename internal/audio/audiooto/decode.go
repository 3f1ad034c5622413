package audiooto

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/youpy/go-wav"
)

// ErrUnsupportedFormat is returned for WAV files that are not integer PCM.
var ErrUnsupportedFormat = errors.New("unsupported WAV format")

const pcmFormat = 1

// source is what go-wav needs to parse a RIFF file.
type source interface {
	io.Reader
	io.ReaderAt
}

// decode reads a PCM WAV file into interleaved 16-bit stereo frames at sampleRate.
// Mono input is duplicated on both channels; other rates are resampled by nearest frame.
func decode(src source, sampleRate int) ([]int16, error) {
	r := wav.NewReader(src)
	format, err := r.Format()
	if err != nil {
		return nil, fmt.Errorf("reading WAV header: %w", err)
	}
	if format.AudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: audio format %d", ErrUnsupportedFormat, format.AudioFormat)
	}
	shift, err := toInt16Shift(format.BitsPerSample)
	if err != nil {
		return nil, err
	}
	stereo := format.NumChannels > 1

	var frames []int16
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading WAV samples: %w", err)
		}
		for _, s := range samples {
			left := scale(r.IntValue(s, 0), format.BitsPerSample, shift)
			right := left
			if stereo {
				right = scale(r.IntValue(s, 1), format.BitsPerSample, shift)
			}
			frames = append(frames, left, right)
		}
	}

	if int(format.SampleRate) != sampleRate && format.SampleRate > 0 && len(frames) > 0 {
		frames = resample(frames, float64(format.SampleRate)/float64(sampleRate))
	}
	return frames, nil
}

// toInt16Shift is the bit shift that brings a sample of the given width to 16 bits.
func toInt16Shift(bits uint16) (int, error) {
	switch bits {
	case 8, 16, 24, 32:
		return int(bits) - 16, nil
	default:
		return 0, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, bits)
	}
}

func scale(v int, bits uint16, shift int) int16 {
	if bits == 8 {
		// 8-bit WAV is unsigned.
		return int16((v - 128) << 8)
	}
	if shift > 0 {
		v >>= shift
	}
	if v > math.MaxInt16 {
		v = math.MaxInt16
	}
	if v < math.MinInt16 {
		v = math.MinInt16
	}
	return int16(v)
}

// resample picks the nearest source frame for every output frame; step is source frames
// per output frame.
func resample(frames []int16, step float64) []int16 {
	in := len(frames) / 2
	out := int(float64(in) / step)
	if out < 1 {
		out = 1
	}
	res := make([]int16, 0, out*2)
	for i := 0; i < out; i++ {
		j := int(float64(i) * step)
		if j >= in {
			j = in - 1
		}
		res = append(res, frames[2*j], frames[2*j+1])
	}
	return res
}
