package sfx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// pcm is interleaved signed 16-bit audio at some rate and channel count.
type pcm struct {
	samples  []int16
	rate     int
	channels int
}

var clipExts = []string{".mp3", ".wav", ".ogg", ".flac"}

// decodeFile detects format by file extension and decodes the whole clip.
func decodeFile(path string) (pcm, error) {
	f, err := os.Open(path)
	if err != nil {
		return pcm{}, err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3":
		return decodeMP3(f)
	case ".wav":
		return decodeWAV(f)
	case ".flac":
		return decodeFLAC(f)
	case ".ogg":
		return decodeOGG(f)
	default:
		return pcm{}, fmt.Errorf("unsupported format: %s", ext)
	}
}

func decodeMP3(r io.Reader) (pcm, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return pcm{}, fmt.Errorf("decoding MP3: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return pcm{}, fmt.Errorf("reading MP3: %w", err)
	}
	// go-mp3 always produces 16-bit LE stereo.
	return pcm{samples: bytesToSamples(raw), rate: dec.SampleRate(), channels: 2}, nil
}

func decodeWAV(f io.ReadSeeker) (pcm, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return pcm{}, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return pcm{}, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	srcBytesPerSample := bitDepth / 8
	if srcBytesPerSample < 1 || srcBytesPerSample > 4 {
		return pcm{}, fmt.Errorf("unsupported WAV bit depth %d", bitDepth)
	}

	srcBytes := make([]byte, dec.PCMLen())
	n, err := io.ReadFull(f, srcBytes)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return pcm{}, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	samplesRead := n / srcBytesPerSample
	out := make([]int16, samplesRead)
	for i := 0; i < samplesRead; i++ {
		var sample int
		off := i * srcBytesPerSample
		switch bitDepth {
		case 8:
			// 8-bit WAV is unsigned
			sample = (int(srcBytes[off]) - 128) << 8
		case 16:
			sample = int(int16(binary.LittleEndian.Uint16(srcBytes[off:])))
		case 24:
			s := int32(srcBytes[off]) | int32(srcBytes[off+1])<<8 | int32(srcBytes[off+2])<<16
			if s&0x800000 != 0 {
				s |= ^0xFFFFFF // sign extend
			}
			sample = int(s >> 8)
		case 32:
			sample = int(int32(binary.LittleEndian.Uint32(srcBytes[off:])) >> 16)
		}
		out[i] = clip16(sample)
	}

	return pcm{samples: out, rate: int(dec.SampleRate), channels: int(dec.NumChans)}, nil
}

func decodeFLAC(r io.Reader) (pcm, error) {
	stream, err := flac.New(r)
	if err != nil {
		return pcm{}, fmt.Errorf("decoding FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bps := int(info.BitsPerSample)

	var out []int16
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return pcm{}, fmt.Errorf("decoding FLAC frame: %w", err)
		}

		nSamples := int(frame.Subframes[0].NSamples)
		for i := 0; i < nSamples; i++ {
			for ch := 0; ch < channels; ch++ {
				sample := int(frame.Subframes[ch].Samples[i])
				switch {
				case bps > 16:
					sample >>= (bps - 16)
				case bps < 16:
					sample <<= (16 - bps)
				}
				out = append(out, clip16(sample))
			}
		}
	}
	return pcm{samples: out, rate: int(info.SampleRate), channels: channels}, nil
}

func decodeOGG(r io.Reader) (pcm, error) {
	reader, err := oggvorbis.NewReader(r)
	if err != nil {
		return pcm{}, fmt.Errorf("decoding OGG: %w", err)
	}

	var out []int16
	buf := make([]float32, 4096)
	for {
		n, err := reader.Read(buf)
		for _, s := range buf[:n] {
			if s > 1.0 {
				s = 1.0
			} else if s < -1.0 {
				s = -1.0
			}
			out = append(out, int16(s*32767))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return pcm{}, fmt.Errorf("reading OGG: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return pcm{samples: out, rate: reader.SampleRate(), channels: reader.Channels()}, nil
}

// toOutput converts a clip to the output format: stereo at sampleRate,
// 16-bit little-endian bytes.
func toOutput(p pcm) []byte {
	stereo := toStereo(p)
	stereo = resample(stereo, p.rate, sampleRate)

	raw := make([]byte, len(stereo)*2)
	for i, s := range stereo {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(s))
	}
	return raw
}

// toStereo duplicates mono and drops channels past the first two.
func toStereo(p pcm) []int16 {
	switch {
	case p.channels == 2:
		return p.samples
	case p.channels <= 0:
		return nil
	}

	frames := len(p.samples) / p.channels
	out := make([]int16, frames*2)
	for i := 0; i < frames; i++ {
		l := p.samples[i*p.channels]
		r := l
		if p.channels > 1 {
			r = p.samples[i*p.channels+1]
		}
		out[i*2] = l
		out[i*2+1] = r
	}
	return out
}

// resample converts interleaved stereo from one rate to another with
// linear interpolation.
func resample(stereo []int16, from, to int) []int16 {
	if from == to || from <= 0 || len(stereo) < 2 {
		return stereo
	}
	inFrames := len(stereo) / 2
	outFrames := int(int64(inFrames) * int64(to) / int64(from))
	out := make([]int16, outFrames*2)

	step := float64(from) / float64(to)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * step
		j := int(pos)
		frac := pos - float64(j)
		k := j + 1
		if k >= inFrames {
			k = inFrames - 1
		}
		for ch := 0; ch < 2; ch++ {
			a := float64(stereo[j*2+ch])
			b := float64(stereo[k*2+ch])
			out[i*2+ch] = int16(a + (b-a)*frac)
		}
	}
	return out
}

func bytesToSamples(raw []byte) []int16 {
	out := make([]int16, len(raw)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return out
}

func clip16(sample int) int16 {
	if sample > 32767 {
		return 32767
	}
	if sample < -32768 {
		return -32768
	}
	return int16(sample)
}
