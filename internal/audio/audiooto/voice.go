package audiooto

import (
	"encoding/binary"
	"io"
)

// bytesPerFrame of the 16-bit stereo output.
const bytesPerFrame = 4

// voice streams one play of a sample with per-channel gain, loops and rate.
type voice struct {
	frames      []int16
	pos         float64
	step        float64
	left, right float32
	loops       int // extra repetitions left, negative for forever
}

func newVoice(frames []int16, left, right float32, loop int, rate float32) *voice {
	if rate <= 0 {
		rate = 1
	}
	return &voice{
		frames: frames,
		step:   float64(rate),
		left:   clampGain(left),
		right:  clampGain(right),
		loops:  loop,
	}
}

func clampGain(g float32) float32 {
	switch {
	case g < 0:
		return 0
	case g > 1:
		return 1
	}
	return g
}

func (v *voice) Read(buf []byte) (int, error) {
	count := len(v.frames) / 2
	if count == 0 {
		return 0, io.EOF
	}

	n := 0
	for n+bytesPerFrame <= len(buf) {
		i := int(v.pos)
		if i >= count {
			if v.loops == 0 {
				break
			}
			if v.loops > 0 {
				v.loops--
			}
			v.pos = 0
			continue
		}
		l := int16(float32(v.frames[2*i]) * v.left)
		r := int16(float32(v.frames[2*i+1]) * v.right)
		binary.LittleEndian.PutUint16(buf[n:], uint16(l))
		binary.LittleEndian.PutUint16(buf[n+2:], uint16(r))
		n += bytesPerFrame
		v.pos += v.step
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}
