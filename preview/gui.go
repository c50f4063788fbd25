// Package preview shows a live editor session in a Gio window and turns
// mouse, touch, wheel and key input into editor events.
package preview

import (
	"image"
	"image/color"
	"math"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"github.com/esimov/impasto"
	"go.uber.org/zap"
)

const (
	maxScreenX = 1366
	maxScreenY = 768
)

var bkgColor = color.NRGBA{R: 0x2b, G: 0x2b, B: 0x2b, A: 0xff}

// decoded carries the result of an image decode started outside the UI loop.
type decoded struct {
	src string
	img image.Image
	err error
}

// Gui is the interactive window of an editing session. All editor calls
// happen on the goroutine running Run.
type Gui struct {
	editor *impasto.Editor
	logger *zap.Logger

	title   string
	touches map[pointer.ID]f32.Point
	drawing bool
	hover   *f32.Point
	dec     chan decoded
}

// NewGUI prepares a window for the editor. Nothing is shown until Run is called.
func NewGUI(e *impasto.Editor, l *zap.Logger) *Gui {
	if l == nil {
		l = zap.NewNop()
	}
	return &Gui{
		editor:  e,
		logger:  l,
		title:   "impasto",
		touches: make(map[pointer.ID]f32.Point),
		dec:     make(chan decoded, 1),
	}
}

// Insert decodes the image at src on a separate goroutine. Once decoded the
// image is placed on a new layer and can be dragged: Enter confirms and
// Escape cancels the placement. A decode that fails places nothing.
func (g *Gui) Insert(src string) {
	go func() {
		img, err := impasto.LoadImage(src)
		g.dec <- decoded{src: src, img: img, err: err}
	}()
}

// windowSize fits the canvas into the screen, keeping the aspect ratio.
func windowSize(w, h int) (unit.Dp, unit.Dp) {
	nw, nh := float64(w), float64(h)
	if w > maxScreenX || h > maxScreenY {
		ratio := math.Min(float64(maxScreenX)/nw, float64(maxScreenY)/nh)
		nw, nh = nw*ratio, nh*ratio
	}
	return unit.Dp(nw), unit.Dp(nh)
}

// Run opens the window and processes its events until it is closed.
func (g *Gui) Run() error {
	w := app.NewWindow(app.Title(g.title), app.Size(windowSize(g.editor.Stack().Size())))

	var ops op.Ops
	for {
		select {
		case e := <-w.Events():
			switch e := e.(type) {
			case system.FrameEvent:
				gtx := layout.NewContext(&ops, e)
				g.handle(w, gtx)
				g.layout(gtx)
				e.Frame(gtx.Ops)
			case system.DestroyEvent:
				return e.Err
			}
		case res := <-g.dec:
			if res.err != nil {
				g.logger.Error("image insert failed", zap.String("src", res.src), zap.Error(res.err))
				continue
			}
			if _, err := g.editor.InsertImage(res.img); err != nil {
				g.logger.Warn("image insert rejected", zap.String("src", res.src), zap.Error(err))
				continue
			}
			w.Invalidate()
		}
	}
}

// handle translates the queued input of the previous frame into editor events.
func (g *Gui) handle(w *app.Window, gtx layout.Context) {
	events := gtx.Events(g)
	if len(events) > 0 {
		w.Invalidate()
	}
	for _, ev := range events {
		switch ev := ev.(type) {
		case pointer.Event:
			g.pointer(ev)
		case key.Event:
			if ev.State != key.Press {
				continue
			}
			g.key(w, ev)
		}
	}
}

func (g *Gui) pointer(ev pointer.Event) {
	pos := impasto.ToRaster(image.Pt(int(ev.Position.X), int(ev.Position.Y)), image.Point{})

	if ev.Source == pointer.Mouse {
		hover := ev.Position
		g.hover = &hover
	}

	switch ev.Type {
	case pointer.Leave:
		g.hover = nil
	case pointer.Scroll:
		g.dispatch(impasto.WheelEvent{
			DeltaY: float64(ev.Scroll.Y),
			Ctrl:   ev.Modifiers.Contain(key.ModCtrl),
		})
	case pointer.Press:
		if ev.Source == pointer.Touch {
			g.touches[ev.PointerID] = ev.Position
			if len(g.touches) > 1 {
				return
			}
		}
		g.drawing = true
		g.dispatch(impasto.PointerEvent{Kind: impasto.PointerDown, Pos: pos, Touches: len(g.touches)})
	case pointer.Drag:
		if ev.Source == pointer.Touch {
			g.touches[ev.PointerID] = ev.Position
			if len(g.touches) == 2 {
				g.dispatch(impasto.PinchEvent{Distance: pinchDistance(g.touches)})
			}
		}
		g.dispatch(impasto.PointerEvent{Kind: impasto.PointerMove, Pos: pos, Touches: len(g.touches)})
	case pointer.Release, pointer.Cancel:
		if ev.Source == pointer.Touch {
			delete(g.touches, ev.PointerID)
			g.dispatch(impasto.PinchEndEvent{Touches: len(g.touches)})
		}
		if g.drawing {
			g.drawing = false
			g.dispatch(impasto.PointerEvent{Kind: impasto.PointerUp, Pos: pos, Touches: len(g.touches)})
		}
	}
}

func (g *Gui) key(w *app.Window, ev key.Event) {
	short := ev.Modifiers.Contain(key.ModShortcut)
	switch {
	case ev.Name == key.NameEscape:
		if g.editor.Placement() == nil {
			w.Perform(system.ActionClose)
			return
		}
		if err := g.editor.CancelPlacement(); err != nil {
			g.logger.Warn("cancel placement", zap.Error(err))
		}
	case ev.Name == key.NameReturn || ev.Name == key.NameEnter:
		if g.editor.Placement() == nil {
			return
		}
		if _, err := g.editor.ConfirmPlacement(); err != nil {
			g.logger.Warn("confirm placement", zap.Error(err))
		}
	case short && ev.Name == "Z":
		g.editor.Undo()
	case short && ev.Name == "Y":
		g.editor.Redo()
	case ev.Name == "F":
		g.editor.EnableFill()
	}
	w.Invalidate()
}

func (g *Gui) dispatch(ev impasto.Event) {
	if err := g.editor.Dispatch(ev); err != nil {
		g.logger.Debug("event rejected", zap.Error(err))
	}
}

// layout draws the presented layer stack at the window origin and
// registers the input handlers for the next frame.
func (g *Gui) layout(gtx layout.Context) {
	paint.Fill(gtx.Ops, bkgColor)

	area := clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops)
	pointer.InputOp{
		Tag:          g,
		Types:        pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel | pointer.Scroll | pointer.Move | pointer.Leave,
		ScrollBounds: image.Rect(0, -1000, 0, 1000),
	}.Add(gtx.Ops)
	key.InputOp{
		Tag:  g,
		Keys: key.Set(key.NameEscape + "|" + key.NameReturn + "|" + key.NameEnter + "|Short-[Z,Y]|F"),
	}.Add(gtx.Ops)
	key.FocusOp{Tag: g}.Add(gtx.Ops)

	img := widget.Image{
		Src:      paint.NewImageOp(g.editor.Present()),
		Fit:      widget.Unscaled,
		Position: layout.NW,
		Scale:    1 / gtx.Metric.PxPerDp,
	}
	img.Layout(gtx)

	scale := float32(g.editor.Zoom().Scale())
	if p := g.editor.Placement(); p != nil {
		drawOutline(gtx.Ops, p.Bounds(), scale)
	} else if g.hover != nil {
		drawCursor(gtx.Ops, *g.hover, g.editor.Brush().Size, scale)
	}
	area.Pop()
}

// pinchDistance returns the distance between the first two touch points.
func pinchDistance(touches map[pointer.ID]f32.Point) float64 {
	var pts []f32.Point
	for _, p := range touches {
		pts = append(pts, p)
		if len(pts) == 2 {
			break
		}
	}
	if len(pts) < 2 {
		return 0
	}
	d := pts[0].Sub(pts[1])
	return math.Hypot(float64(d.X), float64(d.Y))
}
