package impasto

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// bytesPerPixel is the size of one premultiplied RGBA pixel.
const bytesPerPixel = 4

// ErrInvalidSize is returned when a surface would have a non-positive dimension.
var ErrInvalidSize = errors.New("surface dimensions must be positive")

// Surface is a fixed size raster of premultiplied RGBA pixels.
// Its buffer always holds exactly width*height*4 bytes; changing the
// size means allocating a new surface.
type Surface struct {
	img *image.RGBA
}

// NewSurface allocates a fully transparent surface.
func NewSurface(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}, nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Rect.Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Rect.Dy() }

// Bounds returns the surface rectangle, always anchored at the origin.
func (s *Surface) Bounds() image.Rectangle { return s.img.Rect }

// Image exposes the backing buffer. Writes to it mutate the surface.
func (s *Surface) Image() *image.RGBA { return s.img }

// At returns the premultiplied color of the pixel at (x, y).
func (s *Surface) At(x, y int) color.RGBA { return s.img.RGBAAt(x, y) }

// ReadRegion returns a copy of the pixels inside r, clipped to the surface,
// as consecutive rows of premultiplied RGBA bytes.
func (s *Surface) ReadRegion(r image.Rectangle) []uint8 {
	r = r.Intersect(s.img.Rect)
	if r.Empty() {
		return nil
	}
	row := r.Dx() * bytesPerPixel
	pix := make([]uint8, 0, row*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := s.img.PixOffset(r.Min.X, y)
		pix = append(pix, s.img.Pix[i:i+row]...)
	}
	return pix
}

// WriteRegion overwrites the pixels inside r with pix, laid out as ReadRegion returns them.
// The rectangle must lie inside the surface.
func (s *Surface) WriteRegion(r image.Rectangle, pix []uint8) error {
	if !r.In(s.img.Rect) {
		return fmt.Errorf("region %v outside of surface %v", r, s.img.Rect)
	}
	row := r.Dx() * bytesPerPixel
	if len(pix) != row*r.Dy() {
		return fmt.Errorf("region %v needs %d bytes, got %d", r, row*r.Dy(), len(pix))
	}
	for y, j := r.Min.Y, 0; y < r.Max.Y; y, j = y+1, j+row {
		i := s.img.PixOffset(r.Min.X, y)
		copy(s.img.Pix[i:i+row], pix[j:j+row])
	}
	return nil
}

// Clear makes every pixel fully transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// Resized returns a new surface of the requested size holding the current
// content anchored at the top-left corner: cropped when shrinking,
// transparent in the new area when growing.
func (s *Surface) Resized(width, height int) (*Surface, error) {
	dst, err := NewSurface(width, height)
	if err != nil {
		return nil, err
	}
	draw.Draw(dst.img, dst.img.Rect, s.img, image.Point{}, draw.Src)
	return dst, nil
}

// DrawImage paints img with its top-left corner at pt, blending over the current content.
func (s *Surface) DrawImage(img image.Image, pt image.Point) {
	b := img.Bounds()
	draw.Draw(s.img, b.Sub(b.Min).Add(pt), img, b.Min, draw.Over)
}

// DrawImageScaled paints img with its top-left corner at pt, scaled by factor.
func (s *Surface) DrawImageScaled(img image.Image, pt image.Point, factor float64) {
	if factor == 1 {
		s.DrawImage(img, pt)
		return
	}
	b := img.Bounds()
	dr := image.Rect(0, 0, int(float64(b.Dx())*factor+0.5), int(float64(b.Dy())*factor+0.5)).Add(pt)
	xdraw.ApproxBiLinear.Scale(s.img, dr, img, b, xdraw.Over, nil)
}
