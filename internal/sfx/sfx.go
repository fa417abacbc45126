package sfx

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/olivier-w/holocard/internal/card"
)

const (
	sampleRate   = 44100
	channelCount = 2
)

var clipNames = map[card.Cue]string{
	card.CuePopover: "pop",
	card.CueSpin:    "spin",
}

// Player plays short cue clips. A Player whose audio device could not be
// opened, or that is muted, plays nothing.
type Player struct {
	ctx    *oto.Context
	clips  map[card.Cue][]byte
	volume float64
	muted  bool
	log    *slog.Logger

	mu      sync.Mutex
	playing []*oto.Player
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
)

func initOto() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
		}
	})
	return globalOtoCtx, otoInitErr
}

// Open loads cue clips from dir and opens the audio device. It never fails:
// missing clips fall back to synthesised ones and a missing device leaves
// the player silent.
func Open(dir string, mute bool, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &Player{
		clips:  loadClips(dir, logger),
		volume: 0.6,
		muted:  mute,
		log:    logger,
	}
	if mute {
		return p
	}

	ctx, err := initOto()
	if err != nil {
		logger.Warn("audio unavailable, cues disabled", "error", err)
		return p
	}
	p.ctx = ctx
	return p
}

// loadClips decodes <dir>/<name>.<ext> for each cue, synthesising any that
// are missing or undecodable.
func loadClips(dir string, logger *slog.Logger) map[card.Cue][]byte {
	clips := make(map[card.Cue][]byte, len(clipNames))
	for cue, name := range clipNames {
		if raw, ok := findClip(dir, name, logger); ok {
			clips[cue] = raw
			continue
		}
		clips[cue] = synth(cue)
	}
	return clips
}

func findClip(dir, name string, logger *slog.Logger) ([]byte, bool) {
	if dir == "" {
		return nil, false
	}
	for _, ext := range clipExts {
		path := filepath.Join(dir, name+ext)
		clip, err := decodeFile(path)
		if err != nil {
			continue
		}
		if len(clip.samples) == 0 {
			logger.Warn("empty cue clip", "path", path)
			continue
		}
		logger.Debug("loaded cue clip", "path", path, "rate", clip.rate, "channels", clip.channels)
		return toOutput(clip), true
	}
	return nil, false
}

// Enabled reports whether Play can produce sound.
func (p *Player) Enabled() bool {
	return p != nil && p.ctx != nil && !p.muted
}

// Muted reports whether cues are muted.
func (p *Player) Muted() bool {
	return p == nil || p.muted
}

// ToggleMute flips the mute flag and returns the new state. Unmuting a
// player opened muted opens the audio device on first use.
func (p *Player) ToggleMute() bool {
	if p == nil {
		return true
	}
	p.muted = !p.muted
	if !p.muted && p.ctx == nil {
		ctx, err := initOto()
		if err != nil {
			p.log.Warn("audio unavailable, cues disabled", "error", err)
		}
		p.ctx = ctx
	}
	return p.muted
}

// Play starts the clip for cue without blocking.
func (p *Player) Play(cue card.Cue) {
	if !p.Enabled() {
		return
	}
	clip, ok := p.clips[cue]
	if !ok {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Keep live players referenced until they finish.
	live := p.playing[:0]
	for _, op := range p.playing {
		if op.IsPlaying() {
			live = append(live, op)
		}
	}

	op := p.ctx.NewPlayer(bytes.NewReader(clip))
	op.SetVolume(p.volume)
	op.Play()
	p.playing = append(live, op)
}

// Close stops anything still playing.
func (p *Player) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, op := range p.playing {
		op.Pause()
	}
	p.playing = nil
}
