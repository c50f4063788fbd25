package impasto

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ThumbnailSize is the bounding box edge of gallery thumbnails.
const ThumbnailSize = 96

// GalleryItem is one saved composite together with its thumbnail.
type GalleryItem struct {
	Image     *image.RGBA
	Thumbnail *image.NRGBA
}

// Gallery keeps the composites saved during the session, oldest first.
type Gallery struct {
	items []GalleryItem
}

// Add stores img and returns its index.
func (g *Gallery) Add(img *image.RGBA) int {
	g.items = append(g.items, GalleryItem{
		Image:     img,
		Thumbnail: imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos),
	})
	return len(g.items) - 1
}

// Len returns the number of saved items.
func (g *Gallery) Len() int { return len(g.items) }

// Item returns the item at index i.
func (g *Gallery) Item(i int) (GalleryItem, error) {
	if i < 0 || i >= len(g.items) {
		return GalleryItem{}, fmt.Errorf("gallery index %d out of range [0, %d)", i, len(g.items))
	}
	return g.items[i], nil
}
