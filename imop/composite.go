// Package imop implements the Porter-Duff composition operations
// used for mixing a graphic element with its backdrop.
// Porter and Duff presented in their paper 12 different composition operations,
// but the image/draw core package implements only the source-over-destination and source.
// This package is aimed to overcome the missing composite operations.
//
// All operations work on premultiplied *image.RGBA buffers, which is
// the pixel format of every layer surface, and mutate the destination in place.
package imop

import (
	"fmt"
	"image"
)

// Op names a Porter-Duff composition operation.
type Op string

const (
	Clear   Op = "clear"
	Copy    Op = "copy"
	Dst     Op = "dst"
	SrcOver Op = "src_over"
	DstOver Op = "dst_over"
	SrcIn   Op = "src_in"
	DstIn   Op = "dst_in"
	SrcOut  Op = "src_out"
	DstOut  Op = "dst_out"
	SrcAtop Op = "src_atop"
	DstAtop Op = "dst_atop"
	Xor     Op = "xor"
)

// factors returns the source and backdrop coefficients (scaled to 0..255)
// of the composition equation co = Fa*cs + Fb*cb for the source alpha as
// and the backdrop alpha ab.
type factors func(as, ab uint32) (fa, fb uint32)

var ops = map[Op]factors{
	Clear:   func(as, ab uint32) (uint32, uint32) { return 0, 0 },
	Copy:    func(as, ab uint32) (uint32, uint32) { return 0xff, 0 },
	Dst:     func(as, ab uint32) (uint32, uint32) { return 0, 0xff },
	SrcOver: func(as, ab uint32) (uint32, uint32) { return 0xff, 0xff - as },
	DstOver: func(as, ab uint32) (uint32, uint32) { return 0xff - ab, 0xff },
	SrcIn:   func(as, ab uint32) (uint32, uint32) { return ab, 0 },
	DstIn:   func(as, ab uint32) (uint32, uint32) { return 0, as },
	SrcOut:  func(as, ab uint32) (uint32, uint32) { return 0xff - ab, 0 },
	DstOut:  func(as, ab uint32) (uint32, uint32) { return 0, 0xff - as },
	SrcAtop: func(as, ab uint32) (uint32, uint32) { return ab, 0xff - as },
	DstAtop: func(as, ab uint32) (uint32, uint32) { return 0xff - ab, as },
	Xor:     func(as, ab uint32) (uint32, uint32) { return 0xff - ab, 0xff - as },
}

// Composite holds the currently active composition operation.
type Composite struct {
	current Op
}

// InitOp returns a Composite with SrcOver, the painter's algorithm, selected.
func InitOp() *Composite {
	return &Composite{current: SrcOver}
}

// Set activates one of the supported composition operations.
func (c *Composite) Set(op Op) error {
	if _, ok := ops[op]; !ok {
		return fmt.Errorf("unsupported composite operation: %q", op)
	}
	c.current = op
	return nil
}

// Get returns the currently active composition operation.
func (c *Composite) Get() Op {
	return c.current
}

// Draw composes src over the backdrop dst with the source's top-left corner
// placed at the dst point at. Only the overlapping area is touched.
func (c *Composite) Draw(dst, src *image.RGBA, at image.Point) {
	fn := ops[c.current]

	sb := src.Bounds()
	r := sb.Sub(sb.Min).Add(at).Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	delta := sb.Min.Sub(at)

	for y := r.Min.Y; y < r.Max.Y; y++ {
		di := dst.PixOffset(r.Min.X, y)
		si := src.PixOffset(r.Min.X+delta.X, y+delta.Y)
		for x := r.Min.X; x < r.Max.X; x++ {
			s := src.Pix[si : si+4 : si+4]
			d := dst.Pix[di : di+4 : di+4]

			fa, fb := fn(uint32(s[3]), uint32(d[3]))
			for i := 0; i < 4; i++ {
				v := (uint32(s[i])*fa + uint32(d[i])*fb + 127) / 0xff
				if v > 0xff {
					v = 0xff
				}
				d[i] = uint8(v)
			}
			di += 4
			si += 4
		}
	}
}
