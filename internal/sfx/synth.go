package sfx

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/olivier-w/holocard/internal/card"
)

// chirp describes a synthesised sweep with an exponential decay.
type chirp struct {
	length   time.Duration
	from, to float64 // Hz
	decay    float64 // per second
	tremolo  float64 // Hz, 0 for none
	gain     float64
}

var chirps = map[card.Cue]chirp{
	card.CuePopover: {length: 90 * time.Millisecond, from: 620, to: 1240, decay: 28, gain: 0.35},
	card.CueSpin:    {length: 380 * time.Millisecond, from: 280, to: 980, decay: 6, tremolo: 18, gain: 0.25},
}

// synth renders the fallback clip for cue as 16-bit stereo at sampleRate.
func synth(cue card.Cue) []byte {
	c, ok := chirps[cue]
	if !ok {
		return nil
	}

	frames := int(int64(c.length) * sampleRate / int64(time.Second))
	raw := make([]byte, frames*channelCount*2)
	phase := 0.0
	for i := 0; i < frames; i++ {
		t := float64(i) / sampleRate
		progress := float64(i) / float64(frames)
		freq := c.from + (c.to-c.from)*progress
		phase += 2 * math.Pi * freq / sampleRate

		amp := c.gain * math.Exp(-c.decay*t)
		if c.tremolo > 0 {
			amp *= 0.7 + 0.3*math.Sin(2*math.Pi*c.tremolo*t)
		}
		// Short fade-in avoids a click.
		if attack := 0.004 * sampleRate; float64(i) < attack {
			amp *= float64(i) / attack
		}

		s := uint16(clip16(int(math.Sin(phase) * amp * 32767)))
		off := i * channelCount * 2
		binary.LittleEndian.PutUint16(raw[off:], s)
		binary.LittleEndian.PutUint16(raw[off+2:], s)
	}
	return raw
}
