package filter

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestApplyColorFunctions(t *testing.T) {
	base := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	tests := []struct {
		composed string
		want     color.NRGBA
	}{
		{"", base},
		{"brightness(50%) ", color.NRGBA{R: 100, G: 50, B: 25, A: 255}},
		{"invert(100%) ", color.NRGBA{R: 55, G: 155, B: 205, A: 255}},
		{"contrast(50%) ", color.NRGBA{R: 164, G: 114, B: 89, A: 255}},
		{"sepia(100%) ", color.NRGBA{R: 165, G: 147, B: 114, A: 255}},
		{"saturate(1) ", base},
		{"brightness(100%) contrast(100%) ", base},
	}
	for _, tt := range tests {
		out, err := ApplyString(context.Background(), solid(3, 2, base), tt.composed)
		if err != nil {
			t.Fatalf("ApplyString(%q): %v", tt.composed, err)
		}
		if got := out.NRGBAAt(1, 1); got != tt.want {
			t.Errorf("ApplyString(%q) pixel = %v, want %v", tt.composed, got, tt.want)
		}
	}
}

func TestApplyGrayscaleEqualizesChannels(t *testing.T) {
	out, err := ApplyString(context.Background(), solid(2, 2, color.NRGBA{R: 250, G: 30, B: 90, A: 255}), "grayscale(100%) ")
	if err != nil {
		t.Fatalf("ApplyString: %v", err)
	}
	px := out.NRGBAAt(0, 0)
	if px.R != px.G || px.G != px.B {
		t.Errorf("grayscale pixel = %v, want equal channels", px)
	}
}

func TestApplyHueRotateKeepsNeutralGray(t *testing.T) {
	gray := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	out, err := ApplyString(context.Background(), solid(2, 2, gray), "hue-rotate(120deg) ")
	if err != nil {
		t.Fatalf("ApplyString: %v", err)
	}
	if got := out.NRGBAAt(0, 0); got != gray {
		t.Errorf("hue-rotate gray = %v, want %v", got, gray)
	}
}

func TestApplyClampsBetweenClauses(t *testing.T) {
	// Inverting a saturated channel after clamping must start from 255, not
	// from an out-of-range intermediate.
	base := color.NRGBA{R: 250, G: 10, B: 10, A: 255}
	out, err := ApplyString(context.Background(), solid(1, 1, base), "saturate(10) invert(100%) ")
	if err != nil {
		t.Fatalf("ApplyString: %v", err)
	}
	if got := out.NRGBAAt(0, 0); got.R != 0 || got.G != 255 || got.B != 255 {
		t.Errorf("pixel = %v, want {0 255 255 255}", got)
	}
}

func TestApplyPreservesDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 47, 43))
	out, err := ApplyString(context.Background(), src, "blur(3px) brightness(80%) hue-rotate(30deg) ")
	if err != nil {
		t.Fatalf("ApplyString: %v", err)
	}
	if out.Bounds().Dx() != 37 || out.Bounds().Dy() != 23 {
		t.Errorf("bounds = %v, want 37x23", out.Bounds())
	}
	if out.Bounds().Min != (image.Point{}) {
		t.Errorf("origin = %v, want (0,0)", out.Bounds().Min)
	}
}

func TestApplyDoesNotTouchSource(t *testing.T) {
	base := color.NRGBA{R: 1, G: 2, B: 3, A: 255}
	src := solid(2, 2, base)
	if _, err := ApplyString(context.Background(), src, "invert(100%) "); err != nil {
		t.Fatalf("ApplyString: %v", err)
	}
	if got := src.NRGBAAt(0, 0); got != base {
		t.Errorf("source modified: %v", got)
	}
}

func TestApplyHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ApplyString(ctx, solid(2, 2, color.NRGBA{A: 255}), "sepia(10%) ")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestApplyStringRejectsBadSyntax(t *testing.T) {
	_, err := ApplyString(context.Background(), solid(1, 1, color.NRGBA{}), "drop-shadow(1px) ")
	if !errors.Is(err, ErrSyntax) {
		t.Errorf("err = %v, want ErrSyntax", err)
	}
}

func identityMatrix() colorMatrix {
	return colorMatrix{
		1, 0, 0, 0, 0,
		0, 1, 0, 0, 0,
		0, 0, 1, 0, 0,
		0, 0, 0, 1, 0,
	}
}

func TestIdentityMatrixIsNoop(t *testing.T) {
	base := color.NRGBA{R: 9, G: 99, B: 199, A: 128}
	img := solid(1, 1, base)
	m := identityMatrix()
	m.apply(img)
	if got := img.NRGBAAt(0, 0); got != base {
		t.Errorf("identity pixel = %v, want %v", got, base)
	}
}
