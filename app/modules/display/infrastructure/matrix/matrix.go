// Package matrix holds the sinks frames are pushed to.
package matrix

import (
	"context"
	"errors"
	"image"
)

// ErrNoFrame is returned before anything was shown.
var ErrNoFrame = errors.New("matrix: no frame shown yet")

// Matrix is a pixel panel.
type Matrix interface {
	Width() int
	Height() int
	// Clear blanks the panel.
	Clear(ctx context.Context) error
	// Show pushes one panel-sized frame.
	Show(ctx context.Context, img image.Image) error
}

// Multi fans every call out to several matrices. Geometry is taken from the
// first one.
type Multi []Matrix

var _ Matrix = Multi(nil)

func (m Multi) Width() int {
	if len(m) == 0 {
		return 0
	}
	return m[0].Width()
}

func (m Multi) Height() int {
	if len(m) == 0 {
		return 0
	}
	return m[0].Height()
}

func (m Multi) Clear(ctx context.Context) error {
	var errs []error
	for _, mx := range m {
		if err := mx.Clear(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Show(ctx context.Context, img image.Image) error {
	var errs []error
	for _, mx := range m {
		if err := mx.Show(ctx, img); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}
