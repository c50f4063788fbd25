package impasto

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/esimov/impasto/imop"
	"github.com/esimov/impasto/utils"
)

// LayerView is the presentational state of one layer: what a display does
// with the layer's pixels without changing them.
type LayerView struct {
	ID         LayerID
	Name       string
	Visible    bool
	Brightness float64
	Scale      float64
}

// Composite flattens the visible layers bottom to top into a new image of
// the stack's native size. Brightness is a display filter and is not
// applied; a stack without visible layers gives a transparent image.
func Composite(stack *LayerStack) *image.RGBA {
	w, h := stack.Size()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	op := imop.InitOp()
	for _, l := range stack.Layers() {
		if !l.Visible {
			continue
		}
		op.Draw(dst, l.surface.img, image.Point{})
	}
	return dst
}

// Presentation lists the display state of each layer, bottom to top.
func Presentation(stack *LayerStack, zoom *Zoom) []LayerView {
	views := make([]LayerView, 0, stack.Len())
	for _, l := range stack.Layers() {
		views = append(views, LayerView{
			ID:         l.ID,
			Name:       l.Name,
			Visible:    l.Visible,
			Brightness: l.brightness,
			Scale:      zoom.Scale(),
		})
	}
	return views
}

// Present renders what the screen shows: every visible layer with its
// brightness filter, stacked bottom to top and scaled about the origin by
// the zoom factor. The layers themselves are left untouched.
func Present(stack *LayerStack, zoom *Zoom) *image.NRGBA {
	w, h := stack.Size()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	op := imop.InitOp()
	for _, l := range stack.Layers() {
		if !l.Visible {
			continue
		}
		src := l.surface.img
		if l.brightness != 1 {
			src = brighten(src, l.brightness)
		}
		op.Draw(dst, src, image.Point{})
	}

	scale := zoom.Scale()
	if scale == 1 {
		return imaging.Clone(dst)
	}
	zw := utils.Max(1, int(math.Round(float64(w)*scale)))
	zh := utils.Max(1, int(math.Round(float64(h)*scale)))
	return imaging.Resize(dst, zw, zh, imaging.NearestNeighbor)
}

// brighten multiplies the color channels by factor, saturating at full intensity.
func brighten(img *image.RGBA, factor float64) *image.RGBA {
	adjusted := imaging.AdjustFunc(img, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: scaleChannel(c.R, factor),
			G: scaleChannel(c.G, factor),
			B: scaleChannel(c.B, factor),
			A: c.A,
		}
	})
	dst := image.NewRGBA(adjusted.Bounds())
	draw.Draw(dst, dst.Bounds(), adjusted, adjusted.Bounds().Min, draw.Src)
	return dst
}

func scaleChannel(v uint8, factor float64) uint8 {
	return uint8(utils.Min(255, math.Round(float64(v)*factor)))
}

// ToRaster maps a pointer position to raster coordinates. The mapping only
// subtracts the container origin; the zoom factor is not taken into account.
func ToRaster(pointer, origin image.Point) image.Point {
	return pointer.Sub(origin)
}
