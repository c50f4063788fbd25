package impasto

import (
	"math"

	"github.com/esimov/impasto/utils"
)

// Zoom limits and the wheel sensitivity.
const (
	MinZoom = 0.1
	MaxZoom = 5.0

	wheelStep = -0.001
)

// Zoom is the presentation scale of the layer stack. It never changes the
// raster data, only how it is shown.
type Zoom struct {
	scale    float64
	lastDist float64
}

// NewZoom returns a zoom at scale 1.
func NewZoom() *Zoom {
	return &Zoom{scale: 1}
}

// Scale returns the current factor, always within [MinZoom, MaxZoom].
func (z *Zoom) Scale() float64 { return z.scale }

// Set sets the factor directly. Non-finite values are ignored.
func (z *Zoom) Set(scale float64) {
	if !finite(scale) {
		return
	}
	z.scale = utils.Clamp(scale, MinZoom, MaxZoom)
}

// Wheel applies a wheel step. The scale only changes while the zoom
// modifier is held; it reports whether the event was consumed.
func (z *Zoom) Wheel(deltaY float64, modifier bool) bool {
	if !modifier || !finite(deltaY) {
		return false
	}
	z.Set(z.scale + deltaY*wheelStep)
	return true
}

// Pinch updates the scale from the distance between two touch points. The
// first sample of a gesture only records the distance.
func (z *Zoom) Pinch(dist float64) {
	if !finite(dist) || dist <= 0 {
		return
	}
	if z.lastDist != 0 {
		z.Set(z.scale * dist / z.lastDist)
	}
	z.lastDist = dist
}

// PinchEnd finishes the gesture once fewer than two touches remain.
func (z *Zoom) PinchEnd(touches int) {
	if touches < 2 {
		z.lastDist = 0
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
