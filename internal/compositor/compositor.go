// Package compositor turns camera frames into encoded stills.
package compositor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/errgroup"

	"photobooth/internal/device"
	"photobooth/internal/filter"
)

const (
	// DefaultQuality matches the browser's toDataURL("image/jpeg") default.
	DefaultQuality = 92

	placeholderWidth  = 640
	placeholderHeight = 480
	notReadyCaption   = "camera not ready"
)

// ErrCaptureFailed wraps drawing or encoding failures for a single shot.
var ErrCaptureFailed = errors.New("capture failed")

// Compositor draws and encodes frames. The zero value uses DefaultQuality.
type Compositor struct {
	Quality int
}

// New returns a compositor encoding at the given JPEG quality.
func New(quality int) *Compositor {
	return &Compositor{Quality: quality}
}

func (c *Compositor) quality() int {
	if c == nil || c.Quality <= 0 || c.Quality > 100 {
		return DefaultQuality
	}
	return c.Quality
}

// CaptureFrame reads the source's current frame, bakes the filter into it and
// returns a JPEG. When the source has no frame, a placeholder is encoded instead.
func (c *Compositor) CaptureFrame(src device.Source, d filter.Descriptor) ([]byte, error) {
	frame, err := src.Frame()
	if err != nil || frame == nil || frame.Bounds().Empty() {
		return c.Encode(Placeholder(placeholderWidth, placeholderHeight, notReadyCaption))
	}

	return c.Encode(d.Apply(frame))
}

// Encode writes img as JPEG.
func (c *Compositor) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.quality()}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	return buf.Bytes(), nil
}

// Placeholder renders a dark frame with a centred caption.
func Placeholder(width, height int, caption string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}), image.Point{}, draw.Src)
	DrawLabel(img, img.Bounds(), caption, color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff})
	return img
}

// DrawLabel draws text centred in rect using the basic 7x13 face.
func DrawLabel(dst draw.Image, rect image.Rectangle, text string, c color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}

	width := d.MeasureString(text).Ceil()
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()

	x := rect.Min.X + (rect.Dx()-width)/2
	y := rect.Min.Y + (rect.Dy()-height)/2 + metrics.Ascent.Ceil()
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

// Decode turns encoded bytes into a ready-to-draw image.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return img, nil
}

// DecodeAll decodes every frame before any compositing starts. Order is kept.
func DecodeAll(ctx context.Context, frames [][]byte) ([]image.Image, error) {
	images := make([]image.Image, len(frames))
	g, ctx := errgroup.WithContext(ctx)

	for i, data := range frames {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := Decode(data)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i+1, err)
			}
			images[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}
