package impasto

import (
	"errors"
	"image"
	"math"
)

var (
	// ErrPlacementClosed is returned by every operation on a placement
	// that was already committed or discarded.
	ErrPlacementClosed = errors.New("image placement already finished")
	// ErrPlacementActive is returned when an image is inserted while
	// another one is still being placed.
	ErrPlacementActive = errors.New("an image placement is already in progress")
	// ErrNoPlacement is returned when confirming or cancelling with no placement in progress.
	ErrNoPlacement = errors.New("no image placement in progress")
	// ErrEmptyImage is returned when placing an image with no pixels.
	ErrEmptyImage = errors.New("image has no pixels")
)

// PlacementState is the lifecycle state of an image placement.
type PlacementState int

const (
	Staged PlacementState = iota
	Dragging
	Committed
	Discarded
)

func (s PlacementState) String() string {
	switch s {
	case Staged:
		return "staged"
	case Dragging:
		return "dragging"
	case Committed:
		return "committed"
	case Discarded:
		return "discarded"
	}
	return "unknown"
}

// Placement is an inserted image that can still be moved around on its own
// layer before being confirmed or cancelled.
type Placement struct {
	// Scale is the factor the image is drawn with. Nothing changes it
	// interactively yet; it stays 1 unless set by the caller.
	Scale float64

	stack       *LayerStack
	layer       LayerID
	img         image.Image
	translation image.Point
	anchor      image.Point
	state       PlacementState
}

// StartPlacement creates a layer on top of the stack and draws img centered on it.
func StartPlacement(stack *LayerStack, img image.Image, name string) (*Placement, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	l := stack.CreateLayer(name)
	stack.Raise(l.ID)

	w, h := stack.Size()
	b := img.Bounds()
	p := &Placement{
		Scale:       1,
		stack:       stack,
		layer:       l.ID,
		img:         img,
		translation: image.Pt(w/2-b.Dx()/2, h/2-b.Dy()/2),
		state:       Staged,
	}
	if err := p.redraw(); err != nil {
		return nil, err
	}
	return p, nil
}

// LayerID returns the id of the layer holding the image.
func (p *Placement) LayerID() LayerID { return p.layer }

// State returns the lifecycle state.
func (p *Placement) State() PlacementState { return p.state }

// Translation returns the raster position of the image's top-left corner.
func (p *Placement) Translation() image.Point { return p.translation }

// Bounds returns the area covered by the image on its layer.
func (p *Placement) Bounds() image.Rectangle {
	b := p.img.Bounds()
	w := int(math.Round(float64(b.Dx()) * p.Scale))
	h := int(math.Round(float64(b.Dy()) * p.Scale))
	return image.Rect(0, 0, w, h).Add(p.translation)
}

func (p *Placement) closed() bool {
	return p.state == Committed || p.state == Discarded
}

// PointerDown starts dragging when pt falls on the image. It reports
// whether a drag started.
func (p *Placement) PointerDown(pt image.Point) (bool, error) {
	if p.closed() {
		return false, ErrPlacementClosed
	}
	if !pt.In(p.Bounds()) {
		return false, nil
	}
	p.anchor = pt.Sub(p.translation)
	p.state = Dragging
	return true, nil
}

// PointerMove moves the image while dragging, keeping the grabbed point under the pointer.
func (p *Placement) PointerMove(pt image.Point) error {
	if p.closed() {
		return ErrPlacementClosed
	}
	if p.state != Dragging {
		return nil
	}
	p.translation = pt.Sub(p.anchor)
	return p.redraw()
}

// PointerUp ends a drag.
func (p *Placement) PointerUp() error {
	if p.closed() {
		return ErrPlacementClosed
	}
	p.state = Staged
	return nil
}

// Commit keeps the layer with the image at its current position and
// records it as the layer's first checkpoint.
func (p *Placement) Commit() (LayerID, error) {
	if p.closed() {
		return NoLayer, ErrPlacementClosed
	}
	l := p.stack.Layer(p.layer)
	if l == nil {
		p.state = Discarded
		return NoLayer, ErrPlacementClosed
	}
	l.Commit()
	p.state = Committed
	return p.layer, nil
}

// Discard removes the layer holding the image. No history is recorded.
func (p *Placement) Discard() error {
	if p.closed() {
		return ErrPlacementClosed
	}
	p.stack.Remove(p.layer)
	p.state = Discarded
	return nil
}

func (p *Placement) redraw() error {
	l := p.stack.Layer(p.layer)
	if l == nil {
		p.state = Discarded
		return ErrPlacementClosed
	}
	l.surface.Clear()
	l.surface.DrawImageScaled(p.img, p.translation, p.Scale)
	return nil
}
