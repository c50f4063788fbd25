package impasto

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	"github.com/klauspost/compress/zstd"
)

// Snapshot pixels are stored zstd compressed.
var (
	snapEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	snapDecoder, _ = zstd.NewReader(nil)
)

// Snapshot is an immutable copy of a surface's pixels at a point in time.
// It carries no reference to the layer it was taken from.
type Snapshot struct {
	width, height int
	data          []byte
}

// Capture takes a snapshot of the surface.
func Capture(s *Surface) Snapshot {
	return Snapshot{
		width:  s.Width(),
		height: s.Height(),
		data:   snapEncoder.EncodeAll(s.img.Pix, nil),
	}
}

// Size returns the dimensions of the captured surface.
func (sn Snapshot) Size() (int, int) { return sn.width, sn.height }

// Pix returns the uncompressed premultiplied RGBA bytes.
func (sn Snapshot) Pix() ([]byte, error) {
	pix, err := snapDecoder.DecodeAll(sn.data, make([]byte, 0, sn.width*sn.height*bytesPerPixel))
	if err != nil {
		return nil, fmt.Errorf("corrupted snapshot: %w", err)
	}
	if len(pix) != sn.width*sn.height*bytesPerPixel {
		return nil, fmt.Errorf("corrupted snapshot: %d bytes for %dx%d", len(pix), sn.width, sn.height)
	}
	return pix, nil
}

// Image returns the snapshot as a new RGBA image.
func (sn Snapshot) Image() (*image.RGBA, error) {
	pix, err := sn.Pix()
	if err != nil {
		return nil, err
	}
	return &image.RGBA{
		Pix:    pix,
		Stride: sn.width * bytesPerPixel,
		Rect:   image.Rect(0, 0, sn.width, sn.height),
	}, nil
}

// Matches reports whether the surface currently holds exactly the captured pixels.
func (sn Snapshot) Matches(s *Surface) bool {
	if sn.width != s.Width() || sn.height != s.Height() {
		return false
	}
	pix, err := sn.Pix()
	if err != nil {
		return false
	}
	return bytes.Equal(pix, s.img.Pix)
}

// render returns the snapshot pixels laid out for a w x h surface. A
// snapshot taken before a resize is anchored at the top-left corner: cropped
// or padded with transparent pixels, the same way Resize treats layer content.
func (sn Snapshot) render(w, h int) ([]byte, error) {
	img, err := sn.Image()
	if err != nil {
		return nil, err
	}
	if sn.width == w && sn.height == h {
		return img.Pix, nil
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Rect, img, image.Point{}, draw.Src)
	return dst.Pix, nil
}

// restore copies the snapshot into the surface, rendered at its current size.
func (sn Snapshot) restore(s *Surface) error {
	pix, err := sn.render(s.Width(), s.Height())
	if err != nil {
		return err
	}
	copy(s.img.Pix, pix)
	return nil
}
