package impasto

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/esimov/impasto/utils"
	"github.com/fogleman/gg"
)

// BrushKind selects how a stroke segment is rendered.
type BrushKind int

const (
	Round BrushKind = iota
	Square
	Dashed
	Gradient
)

// Brush size limits in pixels.
const (
	MinBrushSize     = 1
	MaxBrushSize     = 20
	DefaultBrushSize = 5
)

// ErrUnknownBrush is returned for brush names that match no BrushKind.
var ErrUnknownBrush = errors.New("unknown brush kind")

// dashLength is the on and off length of the dashed brush, in surface pixels.
const dashLength = 5

var brushNames = map[BrushKind]string{
	Round:    "round",
	Square:   "square",
	Dashed:   "dashed",
	Gradient: "gradient",
}

func (k BrushKind) String() string {
	if name, ok := brushNames[k]; ok {
		return name
	}
	return fmt.Sprintf("BrushKind(%d)", int(k))
}

// ParseBrushKind returns the brush kind with the given name.
func ParseBrushKind(name string) (BrushKind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, n := range brushNames {
		if n == name {
			return k, nil
		}
	}
	return Round, fmt.Errorf("%w: %q", ErrUnknownBrush, name)
}

// StrokeConfig holds the brush parameters. The editor reads it anew for
// every segment, so changes apply mid-stroke.
type StrokeConfig struct {
	Kind  BrushKind
	Size  int
	Color color.Color
}

// DefaultStrokeConfig returns a black round brush of the default size.
func DefaultStrokeConfig() StrokeConfig {
	return StrokeConfig{
		Kind:  Round,
		Size:  DefaultBrushSize,
		Color: color.Black,
	}
}

// Validate clamps the size into the supported range and defaults a missing color.
func (c StrokeConfig) Validate() StrokeConfig {
	c.Size = utils.Clamp(c.Size, MinBrushSize, MaxBrushSize)
	if c.Color == nil {
		c.Color = color.Black
	}
	return c
}

// RenderSegment paints one stroke segment onto the surface. It never
// touches the history; the caller commits once the stroke is over.
func RenderSegment(s *Surface, from, to image.Point, cfg StrokeConfig) {
	cfg = cfg.Validate()

	dc := gg.NewContextForRGBA(s.img)
	dc.SetLineWidth(float64(cfg.Size))
	dc.SetLineCap(gg.LineCapRound)
	dc.SetColor(cfg.Color)

	x0, y0 := float64(from.X), float64(from.Y)
	x1, y1 := float64(to.X), float64(to.Y)

	switch cfg.Kind {
	case Square:
		// Stamped at the newest sample only: fast motion leaves gaps.
		dc.DrawRectangle(x1, y1, float64(cfg.Size), float64(cfg.Size))
		dc.Fill()
		return
	case Dashed:
		dc.SetDash(dashLength, dashLength)
	case Gradient:
		if from != to {
			grad := gg.NewLinearGradient(x0, y0, x1, y1)
			grad.AddColorStop(0, cfg.Color)
			grad.AddColorStop(1, color.White)
			dc.SetStrokeStyle(grad)
		}
	}
	dc.DrawLine(x0, y0, x1, y1)
	dc.Stroke()
}

// Fill replaces every pixel of the surface with c. The previous content is
// overwritten, not blended.
func Fill(s *Surface, c color.Color) {
	dc := gg.NewContextForRGBA(s.img)
	dc.SetColor(c)
	dc.Clear()
}
