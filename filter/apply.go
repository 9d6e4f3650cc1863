package filter

import (
	"context"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"golang.org/x/image/draw"
)

// Apply runs clauses left to right over the full bounds of src and returns
// a new image with the same dimensions. Each clause's output is clamped
// before the next one reads it.
func Apply(ctx context.Context, src image.Image, clauses []Clause) (*image.NRGBA, error) {
	img := ToNRGBA(src)
	for _, c := range clauses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.Name == Blur {
			if c.Value > 0 {
				img = ToNRGBA(blur.Gaussian(img, c.Value))
			}
			continue
		}
		m, err := matrixFor(c)
		if err != nil {
			return nil, err
		}
		m.apply(img)
	}
	return img, nil
}

// ApplyString parses a composed filter string and applies it to src.
func ApplyString(ctx context.Context, src image.Image, composed string) (*image.NRGBA, error) {
	clauses, err := Parse(composed)
	if err != nil {
		return nil, err
	}
	return Apply(ctx, src, clauses)
}

func matrixFor(c Clause) (colorMatrix, error) {
	switch c.Name {
	case Brightness:
		return brightnessMatrix(c.Value / 100), nil
	case Contrast:
		return contrastMatrix(c.Value / 100), nil
	case Grayscale:
		return grayscaleMatrix(c.Value / 100), nil
	case Invert:
		return invertMatrix(c.Value / 100), nil
	case Sepia:
		return sepiaMatrix(c.Value / 100), nil
	case Saturate:
		return saturateMatrix(c.Value), nil
	case HueRotate:
		return hueRotateMatrix(c.Value), nil
	}
	return colorMatrix{}, fmt.Errorf("%w: %q", ErrUnknownParam, c.Name)
}

// ToNRGBA copies src into a fresh straight-alpha image whose origin is (0, 0).
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
