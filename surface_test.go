package impasto

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	blue  = color.RGBA{B: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
)

func uniform(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func isBlank(s *Surface) bool {
	for _, v := range s.img.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}

func TestSurface_New(t *testing.T) {
	s, err := NewSurface(8, 4)
	require.NoError(t, err)
	assert.Equal(t, 8, s.Width())
	assert.Equal(t, 4, s.Height())
	assert.Len(t, s.Image().Pix, 8*4*bytesPerPixel)
	assert.True(t, isBlank(s))

	for _, size := range [][2]int{{0, 4}, {4, 0}, {-1, 3}} {
		_, err := NewSurface(size[0], size[1])
		assert.ErrorIs(t, err, ErrInvalidSize)
	}
}

func TestSurface_Regions(t *testing.T) {
	s, err := NewSurface(10, 10)
	require.NoError(t, err)

	r := image.Rect(2, 3, 5, 7)
	pix := make([]uint8, r.Dx()*r.Dy()*bytesPerPixel)
	for i := range pix {
		pix[i] = uint8(i)
	}
	require.NoError(t, s.WriteRegion(r, pix))
	assert.Equal(t, pix, s.ReadRegion(r))
	assert.Equal(t, color.RGBA{}, s.At(1, 3))

	assert.Error(t, s.WriteRegion(image.Rect(8, 8, 12, 12), pix))
	assert.Error(t, s.WriteRegion(r, pix[:4]))

	clipped := s.ReadRegion(image.Rect(8, 8, 20, 20))
	assert.Len(t, clipped, 2*2*bytesPerPixel)
	assert.Nil(t, s.ReadRegion(image.Rect(20, 20, 30, 30)))

	s.Clear()
	assert.True(t, isBlank(s))
}

func TestSurface_Resized(t *testing.T) {
	s, err := NewSurface(4, 4)
	require.NoError(t, err)
	s.DrawImage(uniform(4, 4, red), image.Point{})

	bigger, err := s.Resized(6, 5)
	require.NoError(t, err)
	assert.Equal(t, red, bigger.At(3, 3))
	assert.Equal(t, color.RGBA{}, bigger.At(4, 0))
	assert.Equal(t, color.RGBA{}, bigger.At(0, 4))

	smaller, err := s.Resized(2, 3)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 3), smaller.Bounds())
	assert.Equal(t, red, smaller.At(1, 2))

	_, err = s.Resized(0, 3)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestSurface_DrawImage(t *testing.T) {
	s, err := NewSurface(10, 10)
	require.NoError(t, err)

	// A source with a non zero origin is drawn from its own top-left corner.
	src := image.NewRGBA(image.Rect(5, 5, 8, 8))
	for y := 5; y < 8; y++ {
		for x := 5; x < 8; x++ {
			src.Set(x, y, blue)
		}
	}
	s.DrawImage(src, image.Pt(1, 2))
	assert.Equal(t, blue, s.At(1, 2))
	assert.Equal(t, blue, s.At(3, 4))
	assert.Equal(t, color.RGBA{}, s.At(4, 5))
	assert.Equal(t, color.RGBA{}, s.At(0, 2))

	s.Clear()
	s.DrawImageScaled(uniform(2, 2, green), image.Pt(0, 0), 2)
	assert.Equal(t, green, s.At(3, 3))
	assert.Equal(t, color.RGBA{}, s.At(4, 4))
}
