package impasto

import (
	"errors"
	"image"
	"image/color"
	"io"

	"github.com/esimov/impasto/utils"
	"go.uber.org/zap"
)

// ErrNoActiveLayer is returned by operations that need a target layer when none is selected.
var ErrNoActiveLayer = errors.New("no active layer")

// PointerKind distinguishes the phases of a pointer or touch gesture.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

// Event is an input event consumed by Editor.Dispatch.
type Event interface {
	event()
}

// PointerEvent is a mouse or touch event in raster coordinates.
// Touches is the number of touch points down, zero for a mouse.
type PointerEvent struct {
	Kind    PointerKind
	Pos     image.Point
	Touches int
}

// WheelEvent is a scroll step. Ctrl reports whether the zoom modifier is held.
type WheelEvent struct {
	DeltaY float64
	Ctrl   bool
}

// PinchEvent carries the distance between two touch points.
type PinchEvent struct {
	Distance float64
}

// PinchEndEvent is sent when a touch point is lifted.
type PinchEndEvent struct {
	Touches int
}

func (PointerEvent) event()  {}
func (WheelEvent) event()    {}
func (PinchEvent) event()    {}
func (PinchEndEvent) event() {}

// Editor owns the whole editing session: the layer stack, the brush, the
// zoom, the stroke in progress, an optional image placement and the
// gallery. It is not safe for concurrent use; every event is handled
// synchronously.
type Editor struct {
	stack   *LayerStack
	zoom    *Zoom
	brush   StrokeConfig
	gallery Gallery
	logger  *zap.Logger

	fill    bool
	drawing bool
	painted bool
	last    image.Point

	placement  *Placement
	prevActive LayerID
}

// Option customizes an Editor.
type Option func(*Editor)

// WithLogger sets the logger used for editor diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithBrush sets the initial brush.
func WithBrush(cfg StrokeConfig) Option {
	return func(e *Editor) {
		e.brush = cfg.Validate()
	}
}

// NewEditor returns an editor with a single blank layer of the given size.
func NewEditor(width, height int, opts ...Option) (*Editor, error) {
	stack, err := NewLayerStack(width, height)
	if err != nil {
		return nil, err
	}
	e := &Editor{
		stack:  stack,
		zoom:   NewZoom(),
		brush:  DefaultStrokeConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	stack.CreateLayer(stack.NextName())
	return e, nil
}

// Stack returns the layer stack.
func (e *Editor) Stack() *LayerStack { return e.stack }

// Zoom returns the presentation zoom.
func (e *Editor) Zoom() *Zoom { return e.zoom }

// Gallery returns the saved composites.
func (e *Editor) Gallery() *Gallery { return &e.gallery }

// Brush returns the current brush.
func (e *Editor) Brush() StrokeConfig { return e.brush }

// SetBrush replaces the brush. A stroke in progress continues with the new settings.
func (e *Editor) SetBrush(cfg StrokeConfig) {
	e.brush = cfg.Validate()
	e.logger.Debug("brush changed",
		zap.Stringer("kind", e.brush.Kind),
		zap.Int("size", e.brush.Size),
		zap.String("color", utils.RGBAToHex(e.brush.Color)),
	)
}

// EnableFill arms the paint bucket: the next pointer press fills the whole
// active layer with the brush color.
func (e *Editor) EnableFill() { e.fill = true }

// FillEnabled reports whether the paint bucket is armed.
func (e *Editor) FillEnabled() bool { return e.fill }

// Placement returns the image placement in progress, or nil.
func (e *Editor) Placement() *Placement { return e.placement }

// Dispatch handles one input event.
func (e *Editor) Dispatch(ev Event) error {
	switch ev := ev.(type) {
	case PointerEvent:
		if e.placement != nil {
			return e.dispatchPlacement(ev)
		}
		switch ev.Kind {
		case PointerDown:
			e.press(ev.Pos)
		case PointerMove:
			// Two fingers on the canvas are a pinch, not a stroke.
			if ev.Touches >= 2 {
				return nil
			}
			e.move(ev.Pos)
		case PointerUp:
			e.release()
		}
	case WheelEvent:
		if e.zoom.Wheel(ev.DeltaY, ev.Ctrl) {
			e.logger.Debug("zoom", zap.Float64("scale", e.zoom.Scale()))
		}
	case PinchEvent:
		e.zoom.Pinch(ev.Distance)
	case PinchEndEvent:
		e.zoom.PinchEnd(ev.Touches)
	}
	return nil
}

func (e *Editor) dispatchPlacement(ev PointerEvent) error {
	switch ev.Kind {
	case PointerDown:
		_, err := e.placement.PointerDown(ev.Pos)
		return err
	case PointerMove:
		return e.placement.PointerMove(ev.Pos)
	case PointerUp:
		return e.placement.PointerUp()
	}
	return nil
}

func (e *Editor) press(pt image.Point) {
	l := e.stack.Active()
	if l == nil {
		e.logger.Debug("pointer press ignored", zap.Error(ErrNoActiveLayer))
		return
	}
	e.drawing = true
	e.painted = false
	e.last = pt

	if e.fill {
		Fill(l.surface, e.brush.Validate().Color)
		l.Commit()
		e.fill = false
		e.logger.Debug("layer filled", zap.String("layer", l.Name))
	}
}

func (e *Editor) move(pt image.Point) {
	if !e.drawing {
		return
	}
	l := e.stack.Active()
	if l == nil {
		e.logger.Debug("stroke ignored", zap.Error(ErrNoActiveLayer))
		return
	}
	RenderSegment(l.surface, e.last, pt, e.brush)
	e.last = pt
	e.painted = true
}

func (e *Editor) release() {
	if !e.drawing {
		return
	}
	e.drawing = false
	if !e.painted {
		return
	}
	if l := e.stack.Active(); l != nil {
		l.Commit()
		e.logger.Debug("stroke committed",
			zap.String("layer", l.Name),
			zap.Stringer("brush", e.brush.Kind),
		)
	}
}

// AddLayer creates a layer on top of the stack and selects it. An empty
// name gets the next default name.
func (e *Editor) AddLayer(name string) LayerID {
	if name == "" {
		name = e.stack.NextName()
	}
	l := e.stack.CreateLayer(name)
	e.logger.Debug("layer added", zap.String("layer", name), zap.Uint64("id", uint64(l.ID)))
	return l.ID
}

// SelectLayer makes id the target of drawing operations.
func (e *Editor) SelectLayer(id LayerID) bool {
	return e.stack.SetActive(id)
}

// RemoveLayer deletes a layer. The layer of an image being placed can only
// be removed by cancelling the placement.
func (e *Editor) RemoveLayer(id LayerID) bool {
	if e.placement != nil && e.placement.LayerID() == id {
		return false
	}
	return e.stack.Remove(id)
}

// SetBrightness sets the display brightness of a layer.
func (e *Editor) SetBrightness(id LayerID, b float64) bool {
	l := e.stack.Layer(id)
	if l == nil {
		return false
	}
	l.SetBrightness(b)
	return true
}

// ToggleVisible flips the visibility of a layer and returns the new state.
func (e *Editor) ToggleVisible(id LayerID) bool {
	l := e.stack.Layer(id)
	if l == nil {
		return false
	}
	l.Visible = !l.Visible
	return l.Visible
}

// Resize changes the canvas size of every layer.
func (e *Editor) Resize(width, height int) error {
	if err := e.stack.Resize(width, height); err != nil {
		return err
	}
	e.logger.Debug("canvas resized", zap.Int("width", width), zap.Int("height", height))
	return nil
}

// Undo steps the active layer back one checkpoint.
func (e *Editor) Undo() bool {
	l := e.stack.Active()
	if l == nil {
		return false
	}
	return l.Undo()
}

// Redo reapplies the last undone content of the active layer.
func (e *Editor) Redo() bool {
	l := e.stack.Active()
	if l == nil {
		return false
	}
	return l.Redo()
}

// InsertImage starts placing img on a new layer centered on the canvas.
// Pointer events move the image until ConfirmPlacement or CancelPlacement.
func (e *Editor) InsertImage(img image.Image) (*Placement, error) {
	if e.placement != nil {
		return nil, ErrPlacementActive
	}
	if img == nil {
		return nil, ErrEmptyImage
	}
	// A stroke in progress ends here, as if the pointer was released.
	e.release()

	prev := e.stack.ActiveID()
	p, err := StartPlacement(e.stack, toRGBA(img), e.stack.NextName())
	if err != nil {
		return nil, err
	}
	e.placement = p
	e.prevActive = prev
	e.logger.Debug("image placement started",
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
	)
	return p, nil
}

// ConfirmPlacement keeps the placed image on its layer, which stays selected.
func (e *Editor) ConfirmPlacement() (LayerID, error) {
	if e.placement == nil {
		return NoLayer, ErrNoPlacement
	}
	id, err := e.placement.Commit()
	e.placement = nil
	return id, err
}

// CancelPlacement drops the placed image together with its layer and
// selects the layer that was active before the insert.
func (e *Editor) CancelPlacement() error {
	if e.placement == nil {
		return ErrNoPlacement
	}
	err := e.placement.Discard()
	e.placement = nil
	e.stack.SetActive(e.prevActive)
	return err
}

// Composite flattens the visible layers at native size.
func (e *Editor) Composite() *image.RGBA { return Composite(e.stack) }

// Present renders the stack the way it is displayed.
func (e *Editor) Present() *image.NRGBA { return Present(e.stack, e.zoom) }

// Presentation returns the display state of every layer.
func (e *Editor) Presentation() []LayerView { return Presentation(e.stack, e.zoom) }

// Save encodes the composite to w and adds it to the gallery. It returns
// the gallery index of the saved image.
func (e *Editor) Save(w io.Writer, f Format) (int, error) {
	img := e.Composite()
	if err := EncodeImage(w, img, f); err != nil {
		return -1, err
	}
	i := e.gallery.Add(img)
	e.logger.Debug("composite saved", zap.Stringer("format", f), zap.Int("gallery", i))
	return i, nil
}

// LoadGallery draws a saved composite at the origin of the active layer
// and records a checkpoint.
func (e *Editor) LoadGallery(i int) error {
	item, err := e.gallery.Item(i)
	if err != nil {
		return err
	}
	l := e.stack.Active()
	if l == nil {
		return ErrNoActiveLayer
	}
	l.surface.DrawImage(item.Image, image.Point{})
	l.Commit()
	return nil
}

// SetColor changes only the brush color.
func (e *Editor) SetColor(c color.Color) {
	cfg := e.brush
	cfg.Color = c
	e.SetBrush(cfg)
}
