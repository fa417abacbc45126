package art

import (
	"strings"
	"unicode/utf8"
)

// Canvas is a grid of terminal cells backed by a pixel buffer with two
// pixel rows per cell ("▀" with fg = top pixel, bg = bottom pixel).
// Cells may carry text, which replaces the half block.
type Canvas struct {
	cols, rows int
	pix        []RGB
	text       []rune
	ink        []RGB
	sb         strings.Builder
}

// NewCanvas creates a canvas of cols x rows cells filled with bg.
func NewCanvas(cols, rows int, bg RGB) *Canvas {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	c := &Canvas{
		cols: cols,
		rows: rows,
		pix:  make([]RGB, cols*rows*2),
		text: make([]rune, cols*rows),
		ink:  make([]RGB, cols*rows),
	}
	c.Fill(bg)
	return c
}

// Size returns the canvas size in cells.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// PixelSize returns the canvas size in pixels.
func (c *Canvas) PixelSize() (w, h int) { return c.cols, c.rows * 2 }

// Fill paints every pixel and clears all text.
func (c *Canvas) Fill(bg RGB) {
	for i := range c.pix {
		c.pix[i] = bg
	}
	for i := range c.text {
		c.text[i] = 0
	}
}

// Set paints one pixel. Out-of-range coordinates are ignored.
func (c *Canvas) Set(x, y int, col RGB) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows*2 {
		return
	}
	c.pix[y*c.cols+x] = col
}

// At returns one pixel, or black outside the canvas.
func (c *Canvas) At(x, y int) RGB {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows*2 {
		return RGB{}
	}
	return c.pix[y*c.cols+x]
}

// Dim darkens every pixel by amount in [0, 1].
func (c *Canvas) Dim(amount float64) {
	if amount <= 0 {
		return
	}
	if amount > 1 {
		amount = 1
	}
	k := 1 - amount
	for i, p := range c.pix {
		c.pix[i] = RGB{
			R: uint8(float64(p.R) * k),
			G: uint8(float64(p.G) * k),
			B: uint8(float64(p.B) * k),
		}
	}
}

// Text writes s starting at cell (col, row). Text past the right edge is
// clipped.
func (c *Canvas) Text(col, row int, s string, ink RGB) {
	if row < 0 || row >= c.rows {
		return
	}
	for _, r := range s {
		if col >= c.cols {
			return
		}
		if col >= 0 && r != utf8.RuneError {
			i := row*c.cols + col
			c.text[i] = r
			c.ink[i] = ink
		}
		col++
	}
}

// Render converts the canvas to a terminal string for mode.
func (c *Canvas) Render(mode ColorMode) string {
	c.sb.Reset()
	c.sb.Grow(c.cols * c.rows * 24)

	if mode == ColorOff {
		c.renderASCII()
	} else {
		c.renderHalfBlock(mode)
	}
	return c.sb.String()
}

func (c *Canvas) renderHalfBlock(mode ColorMode) {
	var lastFg, lastBg string

	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			top := c.pix[(row*2)*c.cols+col]
			bot := c.pix[(row*2+1)*c.cols+col]

			var fg, bg string
			ch := "▀"
			if r := c.text[row*c.cols+col]; r != 0 {
				fg = fgColorSeq(mode, c.ink[row*c.cols+col])
				bg = bgColorSeq(mode, mix(top, bot))
				ch = string(r)
			} else {
				fg = fgColorSeq(mode, top)
				bg = bgColorSeq(mode, bot)
			}

			if fg != lastFg {
				c.sb.WriteString(fg)
				lastFg = fg
			}
			if bg != lastBg {
				c.sb.WriteString(bg)
				lastBg = bg
			}
			c.sb.WriteString(ch)
		}

		c.sb.WriteString(ansiReset)
		lastFg = ""
		lastBg = ""
		if row < c.rows-1 {
			c.sb.WriteByte('\n')
		}
	}
}

func (c *Canvas) renderASCII() {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			if r := c.text[row*c.cols+col]; r != 0 {
				c.sb.WriteRune(r)
				continue
			}
			p := mix(c.pix[(row*2)*c.cols+col], c.pix[(row*2+1)*c.cols+col])
			c.sb.WriteByte(brightnessChar(p.luminance()))
		}
		if row < c.rows-1 {
			c.sb.WriteByte('\n')
		}
	}
}

func mix(a, b RGB) RGB {
	return RGB{
		R: uint8((int(a.R) + int(b.R)) / 2),
		G: uint8((int(a.G) + int(b.G)) / 2),
		B: uint8((int(a.B) + int(b.B)) / 2),
	}
}
