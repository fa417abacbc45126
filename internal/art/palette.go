package art

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
)

// ASCII brightness ramp from darkest to brightest.
const asciiRamp = " .:-=+*#%@"

// ColorMode describes how cells are coloured.
type ColorMode uint8

const (
	ColorOff     ColorMode = iota // NO_COLOR or dumb terminal
	ColorANSI16                   // basic 16-color
	ColorANSI256                  // 256-color
	ColorTrue                     // 24-bit truecolor
)

var (
	detectOnce sync.Once
	termColor  ColorMode
)

// DetectColorMode checks terminal capabilities once.
func DetectColorMode() ColorMode {
	detectOnce.Do(func() {
		termColor = colorModeFromEnv(os.LookupEnv)
	})
	return termColor
}

func colorModeFromEnv(lookup func(string) (string, bool)) ColorMode {
	if _, ok := lookup("NO_COLOR"); ok {
		return ColorOff
	}
	termVal, _ := lookup("TERM")
	ctVal, _ := lookup("COLORTERM")
	term := strings.ToLower(termVal)
	ct := strings.ToLower(ctVal)
	switch {
	case strings.Contains(ct, "truecolor"), strings.Contains(ct, "24bit"):
		return ColorTrue
	case strings.Contains(term, "256color"):
		return ColorANSI256
	case term == "dumb":
		return ColorOff
	case term == "" && runtime.GOOS == "windows":
		return ColorANSI16
	case term == "":
		return ColorOff
	default:
		return ColorANSI16
	}
}

// RGB is an opaque 24-bit colour.
type RGB struct {
	R, G, B uint8
}

func (c RGB) luminance() uint8 {
	return uint8((299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000)
}

func brightnessChar(lum uint8) byte {
	idx := int(lum) * (len(asciiRamp) - 1) / 255
	return asciiRamp[idx]
}

func fgColorSeq(mode ColorMode, c RGB) string {
	switch mode {
	case ColorTrue:
		return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
	case ColorANSI256:
		return fmt.Sprintf("\x1b[38;5;%dm", cube256(c))
	case ColorANSI16:
		idx := nearest16(c)
		if idx < 8 {
			return fmt.Sprintf("\x1b[%dm", 30+idx)
		}
		return fmt.Sprintf("\x1b[%dm", 90+idx-8)
	default:
		return ""
	}
}

func bgColorSeq(mode ColorMode, c RGB) string {
	switch mode {
	case ColorTrue:
		return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B)
	case ColorANSI256:
		return fmt.Sprintf("\x1b[48;5;%dm", cube256(c))
	case ColorANSI16:
		idx := nearest16(c)
		if idx < 8 {
			return fmt.Sprintf("\x1b[%dm", 40+idx)
		}
		return fmt.Sprintf("\x1b[%dm", 100+idx-8)
	default:
		return ""
	}
}

const ansiReset = "\x1b[0m"

func cube256(c RGB) int {
	ri := int(c.R) * 5 / 255
	gi := int(c.G) * 5 / 255
	bi := int(c.B) * 5 / 255
	return 16 + 36*ri + 6*gi + bi
}

// nearest16 returns the index of the closest ANSI 16 palette entry.
func nearest16(c RGB) int {
	best := 0
	bestDist := 1<<31 - 1
	for i, p := range ansi16Palette {
		dr := int(c.R) - int(p.R)
		dg := int(c.G) - int(p.G)
		db := int(c.B) - int(p.B)
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

var ansi16Palette = [16]RGB{
	{0, 0, 0},       // black
	{205, 49, 49},   // red
	{13, 188, 121},  // green
	{229, 229, 16},  // yellow
	{36, 114, 200},  // blue
	{188, 63, 188},  // magenta
	{17, 168, 205},  // cyan
	{229, 229, 229}, // white
	{102, 102, 102}, // bright black
	{241, 76, 76},   // bright red
	{35, 209, 139},  // bright green
	{245, 245, 67},  // bright yellow
	{59, 142, 234},  // bright blue
	{214, 112, 214}, // bright magenta
	{41, 184, 219},  // bright cyan
	{255, 255, 255}, // bright white
}
