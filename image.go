package impasto

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/impasto/utils"
	"golang.org/x/image/bmp"
)

// Format is an export image encoding.
type Format int

const (
	PNG Format = iota
	JPEG
	BMP
)

// ErrUnsupportedFormat is returned for file extensions with no encoder.
var ErrUnsupportedFormat = errors.New("unsupported image format")

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case BMP:
		return "bmp"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromPath picks the encoding from the file extension. A path with no
// extension, like the standard output, is encoded as PNG.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".png":
		return PNG, nil
	case ".jpg", ".jpeg":
		return JPEG, nil
	case ".bmp":
		return BMP, nil
	}
	return PNG, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// DecodeImage decodes a PNG, JPEG, GIF or BMP image, applying the EXIF orientation if any.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("could not decode the image: %w", err)
	}
	return img, nil
}

// LoadImage decodes the image found at src, which is either a local file or a URL.
func LoadImage(src string) (image.Image, error) {
	if utils.IsValidUrl(src) {
		data, err := utils.DownloadImage(src)
		if err != nil {
			return nil, err
		}
		return DecodeImage(bytes.NewReader(data))
	}

	ctype, err := utils.DetectContentType(src)
	if err != nil {
		return nil, fmt.Errorf("could not open the image file: %w", err)
	}
	if !strings.Contains(ctype, "image") {
		return nil, fmt.Errorf("%s is not an image file", src)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("could not open the image file: %w", err)
	}
	defer f.Close()

	return DecodeImage(f)
}

// EncodeImage writes img to w with the requested encoding.
func EncodeImage(w io.Writer, img image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
	case BMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
}

// toRGBA converts any image to a premultiplied *image.RGBA with the min point at (0, 0).
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if src, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return src
	}
	dst := image.NewRGBA(b.Sub(b.Min))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
