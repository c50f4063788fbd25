package imop

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComp_Basic(t *testing.T) {
	assert := assert.New(t)

	op := InitOp()
	assert.Equal(SrcOver, op.Get())

	assert.NoError(op.Set(Clear))
	assert.Equal(Clear, op.Get())

	assert.Error(op.Set("unsupported_composite_operation"))
	assert.Equal(Clear, op.Get())

	assert.NoError(op.Set(Dst))
	assert.Equal(Dst, op.Get())
}

func TestComp_Ops(t *testing.T) {
	transparent := color.RGBA{}
	cyan := color.RGBA{R: 33, G: 150, B: 243, A: 255}
	magenta := color.RGBA{R: 233, G: 30, B: 99, A: 255}

	rect := image.Rect(0, 0, 10, 10)
	source := image.NewRGBA(rect)
	draw.Draw(source, image.Rect(0, 4, 6, 10), &image.Uniform{cyan}, image.Point{}, draw.Src)

	newBackdrop := func() *image.RGBA {
		backdrop := image.NewRGBA(rect)
		draw.Draw(backdrop, image.Rect(4, 0, 10, 6), &image.Uniform{magenta}, image.Point{}, draw.Src)
		return backdrop
	}

	// Pick three representative pixels: backdrop only (top right), source only
	// (bottom left) and the overlapping area (center).
	testCases := []struct {
		op                        Op
		topRight, bottomLeft, mid color.RGBA
	}{
		{SrcOver, magenta, cyan, cyan},
		{DstOver, magenta, cyan, magenta},
		{Clear, transparent, transparent, transparent},
		{Copy, transparent, cyan, cyan},
		{Dst, magenta, transparent, magenta},
		{SrcIn, transparent, transparent, cyan},
		{DstIn, transparent, transparent, magenta},
		{SrcOut, transparent, cyan, transparent},
		{DstOut, magenta, transparent, transparent},
		{SrcAtop, magenta, transparent, cyan},
		{DstAtop, transparent, cyan, magenta},
		{Xor, magenta, cyan, transparent},
	}

	for _, tc := range testCases {
		t.Run(string(tc.op), func(t *testing.T) {
			op := InitOp()
			assert.NoError(t, op.Set(tc.op))

			backdrop := newBackdrop()
			op.Draw(backdrop, source, image.Point{})

			assert.Equal(t, tc.topRight, backdrop.RGBAAt(9, 0))
			assert.Equal(t, tc.bottomLeft, backdrop.RGBAAt(0, 9))
			assert.Equal(t, tc.mid, backdrop.RGBAAt(5, 5))
		})
	}
}

func TestComp_SemiTransparentSrcOver(t *testing.T) {
	rect := image.Rect(0, 0, 1, 1)
	src := image.NewRGBA(rect)
	dst := image.NewRGBA(rect)

	// 50% red over opaque blue, premultiplied.
	src.SetRGBA(0, 0, color.RGBA{R: 128, A: 128})
	dst.SetRGBA(0, 0, color.RGBA{B: 255, A: 255})

	InitOp().Draw(dst, src, image.Point{})
	assert.Equal(t, color.RGBA{R: 128, B: 127, A: 255}, dst.RGBAAt(0, 0))
}

func TestComp_DrawOffsetIsClipped(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	draw.Draw(src, src.Bounds(), &image.Uniform{red}, image.Point{}, draw.Src)
	dst := image.NewRGBA(image.Rect(0, 0, 6, 6))

	InitOp().Draw(dst, src, image.Pt(4, -2))

	assert.Equal(t, red, dst.RGBAAt(4, 0))
	assert.Equal(t, red, dst.RGBAAt(5, 1))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(5, 2))
	assert.Equal(t, color.RGBA{}, dst.RGBAAt(3, 0))
}
