package art

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Working size for decoded faces. Larger sources are scaled down once at
// load time; the renderer samples from this.
const (
	FaceWidth  = 240
	FaceHeight = 336
)

// ErrUnsupported is returned for image files with an unknown extension.
var ErrUnsupported = errors.New("unsupported image format")

var supportedExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tga":  true,
}

// IsSupportedExt reports whether ext (with dot) can be decoded.
func IsSupportedExt(ext string) bool {
	return supportedExts[strings.ToLower(ext)]
}

// IsLocal reports whether ref names an existing local image file.
func IsLocal(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "http") {
		return false
	}
	info, err := os.Stat(ref)
	return err == nil && !info.IsDir()
}

// Load decodes a local image and scales it to fit the working face size.
func Load(path string) (*image.NRGBA, error) {
	ext := filepath.Ext(path)
	if !IsSupportedExt(ext) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("art: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("art: decode %s: %w", path, err)
	}
	return fit(img, FaceWidth, FaceHeight), nil
}

// fit scales src to fit within maxW x maxH, keeping its aspect ratio.
func fit(src image.Image, maxW, maxH int) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}

	if w > maxW || h > maxH {
		if w*maxH > h*maxW {
			h = h * maxW / w
			w = maxW
		} else {
			w = w * maxH / h
			h = maxH
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// sample returns the pixel at normalised (u, v) by nearest neighbour, with
// alpha composited over black.
func sample(img *image.NRGBA, u, v float64) (RGB, bool) {
	b := img.Bounds()
	x := b.Min.X + int(u*float64(b.Dx()))
	y := b.Min.Y + int(v*float64(b.Dy()))
	if x < b.Min.X || y < b.Min.Y || x >= b.Max.X || y >= b.Max.Y {
		return RGB{}, false
	}
	c := img.NRGBAAt(x, y)
	if c.A == 0 {
		return RGB{}, false
	}
	return over(c), true
}

func over(c color.NRGBA) RGB {
	if c.A == 255 {
		return RGB{c.R, c.G, c.B}
	}
	a := int(c.A)
	return RGB{
		R: uint8(int(c.R) * a / 255),
		G: uint8(int(c.G) * a / 255),
		B: uint8(int(c.B) * a / 255),
	}
}
