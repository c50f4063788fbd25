package impasto

import (
	"fmt"

	"github.com/esimov/impasto/utils"
)

// Brightness bounds of a layer. Brightness only affects presentation.
const (
	MinBrightness = 0.0
	MaxBrightness = 2.0
)

// LayerID identifies a layer for the whole lifetime of its stack. IDs are
// never reused, so a stale ID simply stops resolving after removal.
type LayerID uint64

// NoLayer is the zero LayerID; it never refers to a layer.
const NoLayer LayerID = 0

// Layer is one raster surface with its own visibility, brightness and history.
type Layer struct {
	ID      LayerID
	Name    string
	Visible bool

	brightness float64
	surface    *Surface
	history    History
}

// Surface returns the layer's raster.
func (l *Layer) Surface() *Surface { return l.surface }

// History returns the layer's undo/redo stacks.
func (l *Layer) History() *History { return &l.history }

// Brightness returns the display brightness multiplier.
func (l *Layer) Brightness() float64 { return l.brightness }

// SetBrightness sets the display brightness multiplier, clamped to [0, 2].
func (l *Layer) SetBrightness(b float64) {
	if b != b { // NaN
		return
	}
	l.brightness = utils.Clamp(b, MinBrightness, MaxBrightness)
}

// Commit records the current raster as a history checkpoint.
func (l *Layer) Commit() { l.history.Commit(l.surface) }

// Undo steps the layer back one checkpoint.
func (l *Layer) Undo() bool { return l.history.Undo(l.surface) }

// Redo reapplies the last undone content.
func (l *Layer) Redo() bool { return l.history.Redo(l.surface) }

// CanUndo reports whether the layer has a checkpoint to step back to.
func (l *Layer) CanUndo() bool { return l.history.CanUndo() }

// CanRedo reports whether undone content can be reapplied.
func (l *Layer) CanRedo() bool { return l.history.CanRedo() }

// LayerStack is the ordered collection of layers. Insertion order is the
// z-order, bottom first. All layers share the stack's dimensions.
type LayerStack struct {
	width, height int

	order  []LayerID
	layers map[LayerID]*Layer
	active LayerID
	nextID LayerID
}

// NewLayerStack returns an empty stack for surfaces of the given size.
func NewLayerStack(width, height int) (*LayerStack, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &LayerStack{
		width:  width,
		height: height,
		layers: make(map[LayerID]*Layer),
	}, nil
}

// Size returns the dimensions shared by every layer.
func (ls *LayerStack) Size() (int, int) { return ls.width, ls.height }

// Len returns the number of layers.
func (ls *LayerStack) Len() int { return len(ls.order) }

// CreateLayer appends a blank layer on top of the stack and makes it active.
func (ls *LayerStack) CreateLayer(name string) *Layer {
	// The stack size is validated on construction and on resize.
	surface, _ := NewSurface(ls.width, ls.height)

	ls.nextID++
	l := &Layer{
		ID:         ls.nextID,
		Name:       name,
		Visible:    true,
		brightness: 1,
		surface:    surface,
	}
	ls.layers[l.ID] = l
	ls.order = append(ls.order, l.ID)
	ls.active = l.ID
	return l
}

// NextName returns the default name of the next layer.
func (ls *LayerStack) NextName() string {
	return fmt.Sprintf("Layer %d", len(ls.order)+1)
}

// Layer resolves an id. It returns nil for ids not in the stack.
func (ls *LayerStack) Layer(id LayerID) *Layer {
	return ls.layers[id]
}

// Layers returns the layers bottom to top.
func (ls *LayerStack) Layers() []*Layer {
	layers := make([]*Layer, 0, len(ls.order))
	for _, id := range ls.order {
		layers = append(layers, ls.layers[id])
	}
	return layers
}

// Index returns the z-position of id, or -1.
func (ls *LayerStack) Index(id LayerID) int {
	for i, lid := range ls.order {
		if lid == id {
			return i
		}
	}
	return -1
}

// ActiveID returns the active layer id, NoLayer when none is selected.
func (ls *LayerStack) ActiveID() LayerID { return ls.active }

// Active returns the active layer or nil.
func (ls *LayerStack) Active() *Layer { return ls.layers[ls.active] }

// SetActive selects the layer drawing operations target. Unknown ids are ignored.
func (ls *LayerStack) SetActive(id LayerID) bool {
	if _, ok := ls.layers[id]; !ok {
		return false
	}
	ls.active = id
	return true
}

// Remove deletes a layer together with its surface and history. Removing
// the active layer leaves the stack without an active layer until the
// caller selects another one.
func (ls *LayerStack) Remove(id LayerID) bool {
	i := ls.Index(id)
	if i < 0 {
		return false
	}
	ls.order = append(ls.order[:i], ls.order[i+1:]...)
	delete(ls.layers, id)
	if ls.active == id {
		ls.active = NoLayer
	}
	return true
}

// Raise moves a layer to the top of the z-order.
func (ls *LayerStack) Raise(id LayerID) bool {
	i := ls.Index(id)
	if i < 0 {
		return false
	}
	ls.order = append(append(ls.order[:i], ls.order[i+1:]...), id)
	return true
}

// Resize gives every layer a surface of the new size, keeping the content
// anchored at the top-left corner. History stacks are left untouched.
func (ls *LayerStack) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	for _, id := range ls.order {
		l := ls.layers[id]
		s, err := l.surface.Resized(width, height)
		if err != nil {
			return err
		}
		l.surface = s
	}
	ls.width, ls.height = width, height
	return nil
}
