// Package device holds capture sources for the booth.
package device

import (
	"errors"
	"image"
	"image/color"
	"sync"
)

// ErrUnavailable means the camera could not be opened or returned no frame.
var ErrUnavailable = errors.New("camera unavailable")

// Source exposes the current camera frame on demand.
type Source interface {
	Frame() (image.Image, error)
}

// Pattern is a synthetic source that draws vertical colour bars. Each call
// shifts the bars so consecutive frames differ.
type Pattern struct {
	Width, Height int

	mu    sync.Mutex
	shift int
}

var bars = []color.RGBA{
	{R: 192, G: 192, B: 192, A: 255},
	{R: 192, G: 192, B: 0, A: 255},
	{R: 0, G: 192, B: 192, A: 255},
	{R: 0, G: 192, B: 0, A: 255},
	{R: 192, G: 0, B: 192, A: 255},
	{R: 192, G: 0, B: 0, A: 255},
	{R: 0, G: 0, B: 192, A: 255},
}

// NewPattern returns a colour bar source of the given size.
func NewPattern(width, height int) *Pattern {
	return &Pattern{Width: width, Height: height}
}

// Frame renders the next pattern frame.
func (p *Pattern) Frame() (image.Image, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, ErrUnavailable
	}

	p.mu.Lock()
	shift := p.shift
	p.shift++
	p.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	barWidth := p.Width / len(bars)
	if barWidth == 0 {
		barWidth = 1
	}
	for x := 0; x < p.Width; x++ {
		c := bars[(x/barWidth+shift)%len(bars)]
		for y := 0; y < p.Height; y++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img, nil
}

// Still always returns the same image. A nil image reports ErrUnavailable.
type Still struct {
	Image image.Image
}

func (s Still) Frame() (image.Image, error) {
	if s.Image == nil {
		return nil, ErrUnavailable
	}
	return s.Image, nil
}
