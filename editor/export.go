package editor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/eringen/filterbox/filter"
)

// ExportName is the file name every export is downloaded as.
const ExportName = "Image.png"

// DefaultMaxPixels bounds the decoded size of an export. A small compressed
// file can describe a very large raster, and every filter pass holds a copy.
const DefaultMaxPixels = 24_000_000

var (
	// ErrDecode is returned when the loaded image cannot be decoded for export.
	ErrDecode = errors.New("editor: cannot decode image")
	// ErrTooManyPixels is returned, together with ErrDecode, when the image
	// header declares more pixels than the session allows.
	ErrTooManyPixels = errors.New("editor: image dimensions too large")
)

// Export is a finished rasterization of the loaded image.
type Export struct {
	Name   string
	Width  int
	Height int
	Filter string
	PNG    []byte
}

// Export decodes the loaded image at its native size, applies the current
// filter string over the full bounds and encodes the result as PNG. The
// image and filter are captured when Export is called; parameter changes
// made while it runs do not affect the result. The stage is unchanged.
func (s *Session) Export(ctx context.Context) (Export, error) {
	s.mu.Lock()
	if s.stage != Editing || s.image == nil {
		s.mu.Unlock()
		return Export{}, ErrNoImage
	}
	if s.exporting {
		s.mu.Unlock()
		return Export{}, ErrBusy
	}
	s.exporting = true
	data, composed, maxPixels := s.image.Data, s.composed, s.maxPixels
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.exporting = false
		s.mu.Unlock()
	}()

	return Rasterize(ctx, data, composed, maxPixels)
}

// Rasterize decodes data, filters it and draws the result onto a canvas the
// size of the decoded image, which is then encoded as PNG.
func Rasterize(ctx context.Context, data []byte, composed string, maxPixels int) (Export, error) {
	src, err := Decode(data, maxPixels)
	if err != nil {
		return Export{}, err
	}
	filtered, err := filter.ApplyString(ctx, src, composed)
	if err != nil {
		return Export{}, fmt.Errorf("apply filter: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Export{}, err
	}

	// The canvas pixmap is read back as image.RGBA, so it is fed
	// premultiplied pixels.
	b := filtered.Bounds()
	layer := image.NewRGBA(b)
	draw.Draw(layer, b, filtered, b.Min, draw.Src)

	canvas := gg.NewContext(b.Dx(), b.Dy())
	defer canvas.Close()
	canvas.DrawImage(gg.ImageBufFromImage(layer), 0, 0)

	var buf bytes.Buffer
	if err := canvas.EncodePNG(&buf); err != nil {
		return Export{}, fmt.Errorf("encode png: %w", err)
	}
	return Export{
		Name:   ExportName,
		Width:  canvas.Width(),
		Height: canvas.Height(),
		Filter: composed,
		PNG:    buf.Bytes(),
	}, nil
}

// Decode reads an image at its native pixel dimensions, honoring EXIF
// orientation the way browsers do when drawing to a canvas. The header is
// checked first; images over maxPixels are rejected before any pixel is
// allocated. maxPixels <= 0 means DefaultMaxPixels.
func Decode(data []byte, maxPixels int) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrDecode)
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrDecode, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %w: %dx%d over %d pixels", ErrDecode, ErrTooManyPixels, cfg.Width, cfg.Height, maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, nil
}
