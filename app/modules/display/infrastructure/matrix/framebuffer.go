package matrix

import (
	"bytes"
	"context"
	"image"
	"image/draw"
	"image/png"
	"sync"
)

// Framebuffer keeps the last frame in memory.
type Framebuffer struct {
	mu     sync.RWMutex
	width  int
	height int
	last   *image.RGBA
	shown  int
}

var _ Matrix = (*Framebuffer)(nil)

// NewFramebuffer creates an empty framebuffer of the given size.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{width: width, height: height}
}

func (f *Framebuffer) Width() int  { return f.width }
func (f *Framebuffer) Height() int { return f.height }

func (f *Framebuffer) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = blank(f.width, f.height)
	return nil
}

// Show copies img, cropped or padded to the panel size.
func (f *Framebuffer) Show(_ context.Context, img image.Image) error {
	frame := blank(f.width, f.height)
	draw.Draw(frame, frame.Bounds(), img, img.Bounds().Min, draw.Over)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = frame
	f.shown++
	return nil
}

// Frame returns a copy of the last frame.
func (f *Framebuffer) Frame() (*image.RGBA, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.last == nil {
		return nil, ErrNoFrame
	}
	out := image.NewRGBA(f.last.Bounds())
	copy(out.Pix, f.last.Pix)
	return out, nil
}

// Shown reports how many frames were pushed.
func (f *Framebuffer) Shown() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.shown
}

// PNG encodes the last frame.
func (f *Framebuffer) PNG() ([]byte, error) {
	frame, err := f.Frame()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
