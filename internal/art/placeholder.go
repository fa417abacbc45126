package art

import (
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/olivier-w/holocard/internal/card"
)

var typeColors = map[string]RGB{
	"colorless": {200, 196, 184},
	"darkness":  {60, 70, 80},
	"dragon":    {190, 160, 60},
	"fairy":     {230, 140, 190},
	"fighting":  {190, 100, 50},
	"fire":      {225, 80, 45},
	"grass":     {90, 170, 70},
	"lightning": {245, 205, 50},
	"metal":     {150, 160, 170},
	"psychic":   {160, 90, 180},
	"water":     {60, 140, 220},
}

var (
	frameGold   = RGB{236, 200, 72}
	frameSilver = RGB{196, 200, 208}
	inkDark     = color.NRGBA{R: 24, G: 24, B: 28, A: 255}
)

// TypeColor returns the accent colour for a card's first energy type.
func TypeColor(opts card.Options) RGB {
	for _, t := range opts.Types {
		if c, ok := typeColors[strings.ToLower(t)]; ok {
			return c
		}
	}
	if strings.EqualFold(opts.Supertype, "trainer") {
		return RGB{170, 176, 186}
	}
	return typeColors["colorless"]
}

// Placeholder draws a stand-in face for a card whose image is not a local
// file: a framed panel in the card's type colour with its name and rarity.
func Placeholder(opts card.Options) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, FaceWidth, FaceHeight))
	accent := TypeColor(opts)
	frame := frameGold
	if opts.TrainerGallery() || strings.EqualFold(opts.Supertype, "trainer") {
		frame = frameSilver
	}

	const border = 10
	for y := 0; y < FaceHeight; y++ {
		for x := 0; x < FaceWidth; x++ {
			var c RGB
			switch {
			case x < border || y < border || x >= FaceWidth-border || y >= FaceHeight-border:
				c = frame
			case y >= 40 && y < 170 && x >= 20 && x < FaceWidth-20:
				c = artWindow(accent, x, y)
			default:
				t := float64(y) / FaceHeight
				c = lerp(lighten(accent, 0.45), accent, t)
			}
			img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}

	drawText(img, opts.Name, 18, 30)
	drawText(img, strings.ToUpper(opts.Rarity), 18, FaceHeight-20)
	return img
}

// Back draws the stock card back.
func Back() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, FaceWidth, FaceHeight))
	cx, cy := float64(FaceWidth)/2, float64(FaceHeight)/2
	r := float64(FaceWidth) * 0.32

	for y := 0; y < FaceHeight; y++ {
		for x := 0; x < FaceWidth; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			d := math.Hypot(dx, dy)
			c := lerp(RGB{36, 84, 170}, RGB{20, 44, 110}, d/(cx+cy))
			switch {
			case d < r*0.22:
				c = RGB{240, 240, 240}
			case d < r*0.32:
				c = RGB{20, 20, 20}
			case d < r && math.Abs(dy) < r*0.08:
				c = RGB{20, 20, 20}
			case d < r && dy < 0:
				c = RGB{210, 40, 40}
			case d < r:
				c = RGB{240, 240, 240}
			case d < r*1.06:
				c = RGB{20, 20, 20}
			}
			img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return img
}

func artWindow(accent RGB, x, y int) RGB {
	cx, cy := float64(FaceWidth)/2, 105.0
	d := math.Hypot(float64(x)-cx, float64(y)-cy) / 90
	return lerp(lighten(accent, 0.7), darken(accent, 0.35), d)
}

func drawText(img *image.NRGBA, s string, x, y int) {
	if s == "" {
		return
	}
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(inkDark),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	limit := (FaceWidth - 2*x) / 7
	if runes := []rune(s); len(runes) > limit && limit > 0 {
		s = string(runes[:limit])
	}
	d.DrawString(s)
}

func lerp(a, b RGB, t float64) RGB {
	t = clamp01(t)
	return RGB{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
	}
}

func lighten(c RGB, t float64) RGB { return lerp(c, RGB{255, 255, 255}, t) }
func darken(c RGB, t float64) RGB  { return lerp(c, RGB{}, t) }

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
