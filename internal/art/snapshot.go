package art

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/HugoSmits86/nativewebp"

	"github.com/olivier-w/holocard/internal/card"
)

// Image copies the pixel buffer into an image of PixelSize.
func (c *Canvas) Image() *image.NRGBA {
	w, h := c.PixelSize()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := c.pix[y*c.cols+x]
			img.SetNRGBA(x, y, color.NRGBA{R: p.R, G: p.G, B: p.B, A: 255})
		}
	}
	return img
}

// Snapshot draws one card at full face resolution with its current tilt,
// glare and foil.
func Snapshot(f Face, p card.Params, bg RGB) *image.NRGBA {
	cv := NewCanvas(FaceWidth, FaceHeight/2, bg)
	DrawCard(cv, f, p, image.Rect(0, 0, FaceWidth, FaceHeight))
	return cv.Image()
}

// SaveWebP writes img to path as a lossless WebP.
func SaveWebP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("encoding webp: %w", err)
	}
	return f.Close()
}
