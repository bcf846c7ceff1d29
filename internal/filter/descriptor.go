package filter

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"math"
	"strconv"
	"strings"

	"github.com/disintegration/gift"
)

// ErrInvalidFilter is returned for CSS filter strings that cannot be parsed.
var ErrInvalidFilter = errors.New("invalid filter")

// Op is one CSS filter function with its numeric argument already normalized:
// percentages become fractions (100% -> 1), angles become degrees, lengths pixels.
type Op struct {
	Name   string
	Amount float64
}

// Descriptor is an immutable, ordered list of filter operations.
type Descriptor struct {
	css string
	ops []Op
}

// Identity applies no effect.
var Identity = Descriptor{css: "none"}

// Parse reads a CSS filter value such as "hue-rotate(90deg) saturate(200%)".
func Parse(css string) (Descriptor, error) {
	css = strings.TrimSpace(css)
	if css == "" || css == "none" {
		return Identity, nil
	}

	var ops []Op
	rest := css
	for rest != "" {
		open := strings.IndexByte(rest, '(')
		closing := strings.IndexByte(rest, ')')
		if open <= 0 || closing < open {
			return Identity, fmt.Errorf("%w: %q", ErrInvalidFilter, css)
		}

		name := strings.TrimSpace(rest[:open])
		arg := strings.TrimSpace(rest[open+1 : closing])
		op, err := parseOp(name, arg)
		if err != nil {
			return Identity, fmt.Errorf("%w: %q: %v", ErrInvalidFilter, css, err)
		}
		ops = append(ops, op)
		rest = strings.TrimSpace(rest[closing+1:])
	}

	return Descriptor{css: css, ops: ops}, nil
}

// MustParse is Parse for built-in presets.
func MustParse(css string) Descriptor {
	d, err := Parse(css)
	if err != nil {
		panic(err)
	}
	return d
}

func parseOp(name, arg string) (Op, error) {
	switch name {
	case "grayscale", "sepia", "saturate", "brightness", "contrast", "invert":
		v, err := parseAmount(arg)
		return Op{Name: name, Amount: v}, err
	case "hue-rotate":
		v, err := parseAngle(arg)
		return Op{Name: name, Amount: v}, err
	case "blur":
		v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "px"), 64)
		return Op{Name: name, Amount: v}, err
	}
	return Op{}, fmt.Errorf("unsupported function %q", name)
}

func parseAmount(arg string) (float64, error) {
	if strings.HasSuffix(arg, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(arg, "%"), 64)
		return v / 100, err
	}
	return strconv.ParseFloat(arg, 64)
}

func parseAngle(arg string) (float64, error) {
	units := []struct {
		suffix string
		scale  float64
	}{
		{"deg", 1},
		{"turn", 360},
		{"rad", 180 / math.Pi},
	}
	for _, u := range units {
		if strings.HasSuffix(arg, u.suffix) {
			v, err := strconv.ParseFloat(strings.TrimSuffix(arg, u.suffix), 64)
			return v * u.scale, err
		}
	}
	return strconv.ParseFloat(arg, 64)
}

// CSS returns the filter in CSS form, suitable for a live preview element.
func (d Descriptor) CSS() string {
	if d.css == "" {
		return "none"
	}
	return d.css
}

// Ops returns a copy of the parsed operations.
func (d Descriptor) Ops() []Op {
	return append([]Op(nil), d.ops...)
}

// IsIdentity reports whether the descriptor leaves pixels untouched.
func (d Descriptor) IsIdentity() bool {
	return len(d.ops) == 0
}

// pipeline builds a fresh gift pipeline. Nothing is shared between calls.
func (d Descriptor) pipeline() *gift.GIFT {
	g := gift.New()
	for _, op := range d.ops {
		pct := float32(op.Amount * 100)
		switch op.Name {
		case "grayscale":
			g.Add(gift.Saturation(-clamp(pct, 0, 100)))
		case "sepia":
			g.Add(gift.Sepia(clamp(pct, 0, 100)))
		case "saturate":
			g.Add(gift.Saturation(clamp(pct-100, -100, 500)))
		case "brightness":
			g.Add(gift.Brightness(clamp(pct-100, -100, 100)))
		case "contrast":
			g.Add(gift.Contrast(clamp(pct-100, -100, 100)))
		case "invert":
			if op.Amount >= 0.5 {
				g.Add(gift.Invert())
			}
		case "hue-rotate":
			g.Add(gift.Hue(float32(normalizeAngle(op.Amount))))
		case "blur":
			if op.Amount > 0 {
				g.Add(gift.GaussianBlur(float32(op.Amount)))
			}
		}
	}
	return g
}

// Apply draws src into a new RGBA image with the filter baked in.
func (d Descriptor) Apply(src image.Image) *image.RGBA {
	g := d.pipeline()
	dst := image.NewRGBA(g.Bounds(src.Bounds()))
	if d.IsIdentity() {
		draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
		return dst
	}
	g.Draw(dst, src)
	return dst
}

// normalizeAngle maps degrees into [-180, 180].
func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg < -180 {
		deg += 360
	}
	return deg
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
