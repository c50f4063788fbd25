package impasto

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEditor(t *testing.T, w, h int) *Editor {
	t.Helper()
	e, err := NewEditor(w, h, WithLogger(zap.NewNop()), WithBrush(StrokeConfig{Kind: Round, Size: 5, Color: red}))
	require.NoError(t, err)
	return e
}

func stroke(t *testing.T, e *Editor, points ...image.Point) {
	t.Helper()
	require.NoError(t, e.Dispatch(PointerEvent{Kind: PointerDown, Pos: points[0]}))
	for _, p := range points[1:] {
		require.NoError(t, e.Dispatch(PointerEvent{Kind: PointerMove, Pos: p}))
	}
	require.NoError(t, e.Dispatch(PointerEvent{Kind: PointerUp, Pos: points[len(points)-1]}))
}

func TestEditor_New(t *testing.T) {
	e := newTestEditor(t, 100, 80)
	require.Equal(t, 1, e.Stack().Len())
	assert.Equal(t, "Layer 1", e.Stack().Active().Name)
	assert.Equal(t, 1.0, e.Zoom().Scale())
	assert.Equal(t, red, e.Brush().Color)

	_, err := NewEditor(0, 10)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestEditor_StrokeUndoRedo(t *testing.T) {
	e := newTestEditor(t, 100, 100)
	l := e.Stack().Active()

	stroke(t, e, image.Pt(10, 10), image.Pt(20, 10))
	painted := pixels(l)
	assert.Equal(t, red, l.Surface().At(15, 10))
	undo, _ := l.History().Len()
	assert.Equal(t, 1, undo)

	assert.True(t, e.Undo())
	assert.True(t, isBlank(l.Surface()))

	assert.True(t, e.Redo())
	assert.Equal(t, painted, pixels(l))
}

func TestEditor_DiagonalStrokeUndoRedo(t *testing.T) {
	e := newTestEditor(t, 64, 64)
	l := e.Stack().Active()

	stroke(t, e, image.Pt(0, 0), image.Pt(10, 10))
	painted := pixels(l)
	assert.False(t, isBlank(l.Surface()))
	assert.Equal(t, red, l.Surface().At(5, 5))
	undo, _ := l.History().Len()
	assert.Equal(t, 1, undo)

	require.True(t, e.Undo())
	assert.True(t, isBlank(l.Surface()))

	require.True(t, e.Redo())
	assert.True(t, bytes.Equal(painted, pixels(l)))
}

func TestEditor_StrokeSpansSegments(t *testing.T) {
	e := newTestEditor(t, 100, 100)
	l := e.Stack().Active()

	stroke(t, e, image.Pt(10, 10), image.Pt(30, 10), image.Pt(30, 40))
	assert.Equal(t, red, l.Surface().At(20, 10))
	assert.Equal(t, red, l.Surface().At(30, 30))

	undo, _ := l.History().Len()
	assert.Equal(t, 1, undo)
}

func TestEditor_MovesWithoutPressDoNotDraw(t *testing.T) {
	e := newTestEditor(t, 50, 50)
	require.NoError(t, e.Dispatch(PointerEvent{Kind: PointerMove, Pos: image.Pt(10, 10)}))
	require.NoError(t, e.Dispatch(PointerEvent{Kind: PointerMove, Pos: image.Pt(30, 10)}))
	require.NoError(t, e.Dispatch(PointerEvent{Kind: PointerUp, Pos: image.Pt(30, 10)}))

	assert.True(t, isBlank(e.Stack().Active().Surface()))
	assert.False(t, e.Stack().Active().CanUndo())
}

func TestEditor_TwoFingerMoveDoesNotDraw(t *testing.T) {
	e := newTestEditor(t, 50, 50)
	require.NoError(t, e.Dispatch(PointerEvent{Kind: PointerDown, Pos: image.Pt(10, 10), Touches: 1}))
	require.NoError(t, e.Dispatch(PointerEvent{Kind: PointerMove, Pos: image.Pt(40, 10), Touches: 2}))
	require.NoError(t, e.Dispatch(PointerEvent{Kind: PointerUp, Pos: image.Pt(40, 10)}))

	assert.True(t, isBlank(e.Stack().Active().Surface()))
}

func TestEditor_Fill(t *testing.T) {
	e := newTestEditor(t, 20, 20)
	l := e.Stack().Active()
	e.SetColor(blue)
	e.EnableFill()
	assert.True(t, e.FillEnabled())

	stroke(t, e, image.Pt(3, 3))
	assert.False(t, e.FillEnabled())
	assert.Equal(t, blue, l.Surface().At(0, 0))
	assert.Equal(t, blue, l.Surface().At(19, 19))
	undo, _ := l.History().Len()
	assert.Equal(t, 1, undo)

	// The bucket is consumed by one fill.
	e.SetColor(red)
	stroke(t, e, image.Pt(3, 3))
	assert.Equal(t, blue, l.Surface().At(0, 0))

	assert.True(t, e.Undo())
	assert.True(t, isBlank(l.Surface()))
}

func TestEditor_NoActiveLayer(t *testing.T) {
	e := newTestEditor(t, 20, 20)
	first := e.Stack().ActiveID()
	require.True(t, e.RemoveLayer(first))
	require.Nil(t, e.Stack().Active())

	e.EnableFill()
	stroke(t, e, image.Pt(1, 1), image.Pt(10, 10))
	assert.False(t, e.Undo())
	assert.False(t, e.Redo())
	assert.Equal(t, 0, e.Stack().Len())
}

func TestEditor_Layers(t *testing.T) {
	e := newTestEditor(t, 20, 20)
	first := e.Stack().ActiveID()
	second := e.AddLayer("")
	assert.Equal(t, "Layer 2", e.Stack().Layer(second).Name)
	assert.Equal(t, second, e.Stack().ActiveID())

	stroke(t, e, image.Pt(2, 2), image.Pt(12, 2))
	assert.True(t, isBlank(e.Stack().Layer(first).Surface()))

	assert.True(t, e.SelectLayer(first))
	assert.False(t, e.Undo())
	assert.True(t, e.Stack().Layer(second).CanUndo())

	assert.False(t, e.ToggleVisible(second))
	assert.True(t, e.ToggleVisible(second))
	assert.True(t, e.SetBrightness(second, 5))
	assert.Equal(t, 2.0, e.Stack().Layer(second).Brightness())
	assert.False(t, e.SetBrightness(NoLayer, 1))
	assert.False(t, e.SelectLayer(NoLayer))

	require.NoError(t, e.Resize(30, 10))
	w, h := e.Stack().Size()
	assert.Equal(t, 30, w)
	assert.Equal(t, 10, h)
	assert.ErrorIs(t, e.Resize(0, 0), ErrInvalidSize)
}

func TestEditor_Zoom(t *testing.T) {
	e := newTestEditor(t, 10, 10)
	require.NoError(t, e.Dispatch(WheelEvent{DeltaY: -500}))
	assert.Equal(t, 1.0, e.Zoom().Scale())
	require.NoError(t, e.Dispatch(WheelEvent{DeltaY: -500, Ctrl: true}))
	assert.InDelta(t, 1.5, e.Zoom().Scale(), 1e-9)

	require.NoError(t, e.Dispatch(PinchEvent{Distance: 100}))
	require.NoError(t, e.Dispatch(PinchEvent{Distance: 50}))
	assert.InDelta(t, 0.75, e.Zoom().Scale(), 1e-9)
	require.NoError(t, e.Dispatch(PinchEndEvent{Touches: 1}))
	require.NoError(t, e.Dispatch(PinchEvent{Distance: 10}))
	assert.InDelta(t, 0.75, e.Zoom().Scale(), 1e-9)

	assert.Equal(t, image.Rect(0, 0, 8, 8), e.Present().Bounds())
	for _, v := range e.Presentation() {
		assert.InDelta(t, 0.75, v.Scale, 1e-9)
	}
}

func TestEditor_Placement(t *testing.T) {
	e := newTestEditor(t, 200, 200)
	base := e.Stack().ActiveID()

	p, err := e.InsertImage(uniform(50, 50, green))
	require.NoError(t, err)
	assert.Equal(t, p, e.Placement())
	assert.Equal(t, "Layer 2", e.Stack().Layer(p.LayerID()).Name)

	_, err = e.InsertImage(uniform(10, 10, red))
	assert.ErrorIs(t, err, ErrPlacementActive)
	assert.False(t, e.RemoveLayer(p.LayerID()))

	// Pointer events move the image instead of painting.
	stroke(t, e, image.Pt(80, 80), image.Pt(100, 70))
	assert.Equal(t, image.Pt(95, 65), p.Translation())
	assert.True(t, isBlank(e.Stack().Layer(base).Surface()))

	id, err := e.ConfirmPlacement()
	require.NoError(t, err)
	assert.Nil(t, e.Placement())
	assert.Equal(t, id, e.Stack().ActiveID())
	assert.Equal(t, green, e.Composite().RGBAAt(95, 65))

	_, err = e.ConfirmPlacement()
	assert.ErrorIs(t, err, ErrNoPlacement)
	assert.ErrorIs(t, e.CancelPlacement(), ErrNoPlacement)

	// Painting works again once the placement is over.
	stroke(t, e, image.Pt(10, 10), image.Pt(30, 10))
	assert.Equal(t, red, e.Stack().Layer(id).Surface().At(20, 10))
}

func TestEditor_CancelPlacement(t *testing.T) {
	e := newTestEditor(t, 200, 200)
	base := e.Stack().ActiveID()

	p, err := e.InsertImage(uniform(50, 50, green))
	require.NoError(t, err)
	id := p.LayerID()

	require.NoError(t, e.CancelPlacement())
	assert.Nil(t, e.Stack().Layer(id))
	assert.Equal(t, 1, e.Stack().Len())
	assert.Equal(t, base, e.Stack().ActiveID())
	assert.Equal(t, uint8(0), e.Composite().RGBAAt(100, 100).A)

	_, err = e.InsertImage(nil)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestEditor_InsertImageEndsStroke(t *testing.T) {
	e := newTestEditor(t, 200, 200)
	base := e.Stack().Active()

	require.NoError(t, e.Dispatch(PointerEvent{Kind: PointerDown, Pos: image.Pt(10, 10)}))
	require.NoError(t, e.Dispatch(PointerEvent{Kind: PointerMove, Pos: image.Pt(30, 10)}))
	_, err := e.InsertImage(uniform(20, 20, green))
	require.NoError(t, err)
	require.NoError(t, e.Dispatch(PointerEvent{Kind: PointerUp, Pos: image.Pt(30, 10)}))

	assert.Equal(t, red, base.Surface().At(20, 10))
	assert.True(t, base.CanUndo())
	undo, _ := base.History().Len()
	assert.Equal(t, 1, undo)

	require.NoError(t, e.CancelPlacement())
	require.Equal(t, base.ID, e.Stack().ActiveID())
	require.True(t, e.Undo())
	assert.True(t, isBlank(base.Surface()))
}

func TestEditor_SaveAndLoadGallery(t *testing.T) {
	e := newTestEditor(t, 40, 20)
	stroke(t, e, image.Pt(5, 10), image.Pt(30, 10))

	var buf bytes.Buffer
	idx, err := e.Save(&buf, PNG)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1, e.Gallery().Len())

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 20), decoded.Bounds())
	r, _, _, a := decoded.At(15, 10).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), a)

	target := e.AddLayer("target")
	require.NoError(t, e.LoadGallery(0))
	l := e.Stack().Layer(target)
	assert.Equal(t, red, l.Surface().At(15, 10))
	assert.True(t, l.CanUndo())

	assert.Error(t, e.LoadGallery(3))

	e.RemoveLayer(target)
	assert.ErrorIs(t, e.LoadGallery(0), ErrNoActiveLayer)
}

func TestEditor_SetBrushMidStroke(t *testing.T) {
	e := newTestEditor(t, 60, 60)
	l := e.Stack().Active()

	require.NoError(t, e.Dispatch(PointerEvent{Kind: PointerDown, Pos: image.Pt(10, 10)}))
	require.NoError(t, e.Dispatch(PointerEvent{Kind: PointerMove, Pos: image.Pt(30, 10)}))
	e.SetColor(color.RGBA{G: 0xff, A: 0xff})
	require.NoError(t, e.Dispatch(PointerEvent{Kind: PointerMove, Pos: image.Pt(50, 10)}))
	require.NoError(t, e.Dispatch(PointerEvent{Kind: PointerUp, Pos: image.Pt(50, 10)}))

	assert.Equal(t, red, l.Surface().At(20, 10))
	assert.Equal(t, green, l.Surface().At(40, 10))
}
