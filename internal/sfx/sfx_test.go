package sfx

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/olivier-w/holocard/internal/card"
)

// writeWAV writes a minimal PCM RIFF file.
func writeWAV(t *testing.T, path string, rate, channels int, samples []int16) {
	t.Helper()
	var data bytes.Buffer
	for _, s := range samples {
		binary.Write(&data, binary.LittleEndian, s)
	}

	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+data.Len()))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1))
	binary.Write(&b, binary.LittleEndian, uint16(channels))
	binary.Write(&b, binary.LittleEndian, uint32(rate))
	binary.Write(&b, binary.LittleEndian, uint32(rate*channels*2))
	binary.Write(&b, binary.LittleEndian, uint16(channels*2))
	binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(data.Len()))
	b.Write(data.Bytes())

	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		t.Fatalf("write wav: %v", err)
	}
}

func TestDecodeWAVMono(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pop.wav")
	writeWAV(t, path, 22050, 1, []int16{0, 1000, -1000, 32767})

	clip, err := decodeFile(path)
	if err != nil {
		t.Fatalf("decodeFile: %v", err)
	}
	if clip.rate != 22050 || clip.channels != 1 {
		t.Fatalf("unexpected format %d Hz x%d", clip.rate, clip.channels)
	}
	if len(clip.samples) != 4 || clip.samples[1] != 1000 || clip.samples[3] != 32767 {
		t.Fatalf("unexpected samples %v", clip.samples)
	}

	out := toOutput(clip)
	// 4 mono frames at 22.05k become 8 stereo frames at 44.1k.
	if len(out) != 8*2*2 {
		t.Fatalf("expected 32 output bytes, got %d", len(out))
	}
	left := int16(binary.LittleEndian.Uint16(out[4:]))
	right := int16(binary.LittleEndian.Uint16(out[6:]))
	if left != right || left != 500 {
		t.Fatalf("expected interpolated mono sample 500 on both channels, got %d/%d", left, right)
	}
}

func TestDecodeRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pop.aiff")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := decodeFile(path); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestToStereo(t *testing.T) {
	got := toStereo(pcm{samples: []int16{1, 2, 3, 4, 5, 6}, channels: 3})
	if len(got) != 4 || got[0] != 1 || got[1] != 2 || got[2] != 4 || got[3] != 5 {
		t.Fatalf("unexpected down-mix %v", got)
	}
	if toStereo(pcm{samples: []int16{1}, channels: 0}) != nil {
		t.Fatal("expected nil for zero channels")
	}
}

func TestSynthLengths(t *testing.T) {
	pop := synth(card.CuePopover)
	if want := 3969 * 4; len(pop) != want {
		t.Fatalf("expected %d bytes of pop, got %d", want, len(pop))
	}
	spin := synth(card.CueSpin)
	if len(spin) <= len(pop) {
		t.Fatal("expected spin to be longer than pop")
	}
	if synth(card.Cue(99)) != nil {
		t.Fatal("expected nil for unknown cue")
	}
}

func TestLoadClipsFallsBackToSynth(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, filepath.Join(dir, "spin.wav"), sampleRate, 2, []int16{7, 7, 9, 9})
	logger := slog.New(slog.DiscardHandler)

	clips := loadClips(dir, logger)
	if len(clips[card.CueSpin]) != 8 {
		t.Fatalf("expected spin from file, got %d bytes", len(clips[card.CueSpin]))
	}
	if !bytes.Equal(clips[card.CuePopover], synth(card.CuePopover)) {
		t.Fatal("expected synthesised pop")
	}
}

func TestMutedPlayerIsSilent(t *testing.T) {
	p := Open("", true, nil)
	if p.Enabled() || !p.Muted() {
		t.Fatal("expected muted player to be disabled")
	}
	p.Play(card.CuePopover)
	p.Close()

	var nilPlayer *Player
	nilPlayer.Play(card.CueSpin)
	if !nilPlayer.Muted() {
		t.Fatal("expected nil player to report muted")
	}
}
