// Package collage lays up to four frames out on a single canvas.
package collage

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	"github.com/nfnt/resize"

	"photobooth/internal/compositor"
)

// Slots is the number of cells in every layout.
const Slots = 4

// Layout selects the canvas geometry.
type Layout string

const (
	Grid2x2       Layout = "grid"
	VerticalStrip Layout = "strip"
)

// ParseLayout accepts the canonical tags and a few aliases.
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grid", "grid2x2", "2x2", "":
		return Grid2x2, nil
	case "strip", "vertical-strip", "verticalstrip", "vertical":
		return VerticalStrip, nil
	}
	return "", fmt.Errorf("unknown collage layout %q", s)
}

// Geometry describes a canvas and its cell grid.
type Geometry struct {
	Width, Height int
	Cols, Rows    int
	Pad           int
}

// GeometryFor returns the canvas geometry of a layout.
func GeometryFor(l Layout) Geometry {
	if l == VerticalStrip {
		return Geometry{Width: 480, Height: 1280, Cols: 1, Rows: 4, Pad: 12}
	}
	return Geometry{Width: 1280, Height: 960, Cols: 2, Rows: 2, Pad: 16}
}

// Cell returns the rectangle of slot i (row-major).
func (g Geometry) Cell(i int) image.Rectangle {
	cellW := (g.Width - g.Pad*(g.Cols+1)) / g.Cols
	cellH := (g.Height - g.Pad*(g.Rows+1)) / g.Rows
	col := i % g.Cols
	row := i / g.Cols
	x := g.Pad + col*(cellW+g.Pad)
	y := g.Pad + row*(cellH+g.Pad)
	return image.Rect(x, y, x+cellW, y+cellH)
}

var (
	background      = color.RGBA{A: 0xff}
	placeholderFill = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	placeholderText = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
)

// Compose draws frames into the layout. frames must already be decoded;
// missing or nil entries render the "Frame N" placeholder.
func Compose(frames []image.Image, layout Layout) *image.RGBA {
	g := GeometryFor(layout)
	canvas := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	for i := 0; i < Slots; i++ {
		cell := g.Cell(i)
		if i < len(frames) && frames[i] != nil && !frames[i].Bounds().Empty() {
			drawCover(canvas, cell, frames[i])
			continue
		}
		draw.Draw(canvas, cell, image.NewUniform(placeholderFill), image.Point{}, draw.Src)
		compositor.DrawLabel(canvas, cell, fmt.Sprintf("Frame %d", i+1), placeholderText)
	}

	return canvas
}

// Render composes and JPEG-encodes in one step.
func Render(c *compositor.Compositor, frames []image.Image, layout Layout) ([]byte, error) {
	return c.Encode(Compose(frames, layout))
}

// drawCover scales src uniformly so it covers cell, centres it and clips the overflow.
func drawCover(dst draw.Image, cell image.Rectangle, src image.Image) {
	w, h := CoverSize(src.Bounds().Dx(), src.Bounds().Dy(), cell.Dx(), cell.Dy())
	scaled := resize.Resize(uint(w), uint(h), src, resize.Bilinear)

	offset := image.Pt((w-cell.Dx())/2, (h-cell.Dy())/2)
	draw.Draw(dst, cell, scaled, scaled.Bounds().Min.Add(offset), draw.Src)
}

// CoverSize returns the scaled image size for cover semantics: the smallest
// uniform scale at which the image is at least as large as the cell on both axes.
func CoverSize(imgW, imgH, cellW, cellH int) (int, int) {
	scale := math.Max(float64(cellW)/float64(imgW), float64(cellH)/float64(imgH))
	// The epsilon keeps exact fits like 640*0.9625 from rounding up a pixel.
	w := int(math.Ceil(float64(imgW)*scale - 1e-9))
	h := int(math.Ceil(float64(imgH)*scale - 1e-9))
	if w < cellW {
		w = cellW
	}
	if h < cellH {
		h = cellH
	}
	return w, h
}
