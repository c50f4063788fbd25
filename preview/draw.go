package preview

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"github.com/esimov/impasto/utils"
)

const (
	outlineColor = "#ff8a00"
	cursorColor  = "#7f7f7fcc"
)

// drawOutline strokes the border of the image being placed, scaled like the canvas.
func drawOutline(ops *op.Ops, r image.Rectangle, scale float32) {
	var (
		p0   = point(r.Min, scale)
		p1   = point(r.Max, scale)
		path clip.Path
	)

	path.Begin(ops)
	path.MoveTo(p0)
	path.LineTo(f32.Pt(p1.X, p0.Y))
	path.LineTo(p1)
	path.LineTo(f32.Pt(p0.X, p1.Y))
	path.Close()

	defer clip.Stroke{Path: path.End(), Width: 2}.Op().Push(ops).Pop()
	paint.ColorOp{Color: hexColor(outlineColor)}.Add(ops)
	paint.PaintOp{}.Add(ops)
}

// drawCursor outlines the brush footprint around the pointer position.
func drawCursor(ops *op.Ops, pos f32.Point, size int, scale float32) {
	radius := float32(size) / 2 * scale
	if radius < 1 {
		radius = 1
	}
	r := image.Rect(
		int(pos.X-radius), int(pos.Y-radius),
		int(pos.X+radius+0.5), int(pos.Y+radius+0.5),
	)

	defer clip.Stroke{Path: clip.Ellipse(r).Path(ops), Width: 1}.Op().Push(ops).Pop()
	paint.ColorOp{Color: hexColor(cursorColor)}.Add(ops)
	paint.PaintOp{}.Add(ops)
}

// point converts a raster coordinate to a window position.
func point(p image.Point, scale float32) f32.Point {
	return f32.Point{
		X: float32(p.X) * scale,
		Y: float32(p.Y) * scale,
	}
}

func hexColor(hex string) color.NRGBA {
	c, err := utils.HexToRGBA(hex)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	return c
}
