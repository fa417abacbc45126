package card

import (
	"math"

	"github.com/olivier-w/holocard/internal/spring"
)

// Param names one continuous output of a card.
type Param uint8

const (
	RotateX Param = iota
	RotateY
	PointerX
	PointerY
	CardOpacity
	PointerFromCenter
	PointerFromTop
	PointerFromLeft
	BackgroundX
	BackgroundY
	TranslateX
	TranslateY
	Scale
	numParams
)

var paramNames = [numParams]string{
	RotateX:           "--rotate-x",
	RotateY:           "--rotate-y",
	PointerX:          "--pointer-x",
	PointerY:          "--pointer-y",
	CardOpacity:       "--card-opacity",
	PointerFromCenter: "--pointer-from-center",
	PointerFromTop:    "--pointer-from-top",
	PointerFromLeft:   "--pointer-from-left",
	BackgroundX:       "--background-x",
	BackgroundY:       "--background-y",
	TranslateX:        "--translate-x",
	TranslateY:        "--translate-y",
	Scale:             "--card-scale",
}

// String returns the style variable name of the parameter.
func (p Param) String() string {
	if p >= numParams {
		return "unknown"
	}
	return paramNames[p]
}

// Params holds the current value of every output.
type Params struct {
	RotateX, RotateY   float64 // degrees, base rotation plus delta
	PointerX, PointerY float64 // percent
	CardOpacity        float64 // 0..1
	PointerFromCenter  float64 // 0..1
	PointerFromTop     float64 // 0..1
	PointerFromLeft    float64 // 0..1
	BackgroundX        float64 // percent
	BackgroundY        float64 // percent
	TranslateX         float64
	TranslateY         float64
	Scale              float64
}

// RestParams are the outputs of a card with every spring at rest.
func RestParams() Params {
	p := Params{Scale: 1, BackgroundX: 50, BackgroundY: 50}
	p.setGlare(spring.Glare{X: 50, Y: 50})
	return p
}

// Get returns the value of one parameter.
func (p Params) Get(name Param) float64 {
	switch name {
	case RotateX:
		return p.RotateX
	case RotateY:
		return p.RotateY
	case PointerX:
		return p.PointerX
	case PointerY:
		return p.PointerY
	case CardOpacity:
		return p.CardOpacity
	case PointerFromCenter:
		return p.PointerFromCenter
	case PointerFromTop:
		return p.PointerFromTop
	case PointerFromLeft:
		return p.PointerFromLeft
	case BackgroundX:
		return p.BackgroundX
	case BackgroundY:
		return p.BackgroundY
	case TranslateX:
		return p.TranslateX
	case TranslateY:
		return p.TranslateY
	case Scale:
		return p.Scale
	}
	return 0
}

func (p *Params) setGlare(g spring.Glare) {
	p.PointerX = g.X
	p.PointerY = g.Y
	p.CardOpacity = g.O
	p.PointerFromCenter = clamp(math.Sqrt((g.Y-50)*(g.Y-50)+(g.X-50)*(g.X-50))/50, 0, 1)
	p.PointerFromTop = g.Y / 100
	p.PointerFromLeft = g.X / 100
}

func (p *Params) setRotation(base, delta spring.Point) {
	p.RotateX = base.X + delta.X
	p.RotateY = base.Y + delta.Y
}

// Sink receives a card's outputs whenever one of them changes.
type Sink interface {
	Apply(p Params)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Params)

func (f SinkFunc) Apply(p Params) { f(p) }
