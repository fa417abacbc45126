package art

import (
	"image"
	"math"
	"sync"

	"github.com/olivier-w/holocard/internal/card"
)

// Face is the imagery and foil style of one card.
type Face struct {
	Front   *image.NRGBA // nil while the front image is loading
	Back    *image.NRGBA // nil uses the stock back
	Holo    bool
	Gallery bool
	Seed    card.Seed
}

var (
	stockBackOnce sync.Once
	stockBack     *image.NRGBA
)

func defaultBack() *image.NRGBA {
	stockBackOnce.Do(func() { stockBack = Back() })
	return stockBack
}

var loadingPanel = RGB{64, 66, 76}

// DrawCard draws a card into the pixel rectangle r of cv. Rotation becomes
// foreshortening with a little perspective, a rotation past 90 degrees
// shows the back, and the glare and foil follow p.
func DrawCard(cv *Canvas, f Face, p card.Params, r image.Rectangle) {
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return
	}

	rx := p.RotateX * math.Pi / 180
	ry := p.RotateY * math.Pi / 180
	cx, cy := math.Cos(rx), math.Cos(ry)
	if math.Abs(cx) < 0.02 || math.Abs(cy) < 0.02 {
		return // edge-on
	}
	showBack := cx*cy < 0
	sx := math.Sin(rx)
	light := 0.78 + 0.22*math.Abs(cx*cy)

	back := f.Back
	if back == nil {
		back = defaultBack()
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		v := (float64(y-r.Min.Y)+0.5)/float64(h) - 0.5
		for x := r.Min.X; x < r.Max.X; x++ {
			u := (float64(x-r.Min.X)+0.5)/float64(w) - 0.5

			uc := u / cx
			persp := 1 + 0.3*sx*u
			vc := v / (cy * persp)
			fu, fv := uc+0.5, vc+0.5
			if fu < 0 || fu >= 1 || fv < 0 || fv >= 1 || roundedCorner(fu, fv) {
				continue
			}

			var c RGB
			var ok bool
			switch {
			case showBack:
				c, ok = sample(back, fu, fv)
			case f.Front == nil:
				c, ok = loadingPanel, true
			default:
				c, ok = sample(f.Front, fu, fv)
			}
			if !ok {
				continue
			}

			c = scale(c, light*(1-0.25*sx*u))
			if !showBack {
				c = shadeFront(c, f, p, fu, fv)
			}
			cv.Set(x, y, c)
		}
	}
}

func shadeFront(c RGB, f Face, p card.Params, fu, fv float64) RGB {
	if f.Holo && p.CardOpacity > 0 {
		freq := 0.6
		if f.Gallery {
			freq = 1.4
		}
		phase := fu*0.7 + fv*freq +
			(p.BackgroundX-50)/26 + (p.BackgroundY-50)/34 + f.Seed.X
		band := hsv(phase-math.Floor(phase), 0.55, 1)
		c = screen(c, band, p.CardOpacity*(0.22+0.38*p.PointerFromCenter))

		fx := int(fu*FaceWidth) + f.Seed.CosmosX
		fy := int(fv*FaceHeight) + f.Seed.CosmosY
		if sparkle(fx, fy) {
			c = lerp(c, RGB{255, 255, 255}, 0.6*p.CardOpacity)
		}
	}

	gx, gy := p.PointerX/100, p.PointerY/100
	d := math.Hypot(fu-gx, fv-gy)
	if g := 1 - d/0.55; g > 0 && p.CardOpacity > 0 {
		c = lerp(c, RGB{255, 255, 255}, g*g*0.65*p.CardOpacity)
	}
	return c
}

// roundedCorner reports whether normalised (u, v) falls outside the card's
// rounded corners.
func roundedCorner(u, v float64) bool {
	const rad = 0.045
	const aspect = float64(FaceHeight) / FaceWidth
	du := math.Max(rad-u, u-(1-rad))
	dv := math.Max(rad/aspect-v, v-(1-rad/aspect))
	if du <= 0 || dv <= 0 {
		return false
	}
	return math.Hypot(du, dv*aspect) > rad
}

func sparkle(x, y int) bool {
	h := uint32(x)*73856093 ^ uint32(y)*19349663
	return h%211 == 0
}

func scale(c RGB, k float64) RGB {
	return RGB{
		R: uint8(math.Min(float64(c.R)*k, 255)),
		G: uint8(math.Min(float64(c.G)*k, 255)),
		B: uint8(math.Min(float64(c.B)*k, 255)),
	}
}

// screen blends b over a with the screen operator at strength k.
func screen(a, b RGB, k float64) RGB {
	k = clamp01(k)
	ch := func(x, y uint8) uint8 {
		fx, fy := float64(x)/255, float64(y)/255
		s := 1 - (1-fx)*(1-fy)
		return uint8((fx + (s-fx)*k) * 255)
	}
	return RGB{ch(a.R, b.R), ch(a.G, b.G), ch(a.B, b.B)}
}

func hsv(h, s, v float64) RGB {
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return RGB{uint8(r * 255), uint8(g * 255), uint8(b * 255)}
}
