package impasto

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/esimov/impasto/utils"
	"gopkg.in/yaml.v3"
)

// ErrUnknownAction is returned for script steps with an unsupported action.
var ErrUnknownAction = errors.New("unknown script action")

// Script actions.
const (
	ActionStroke      = "stroke"
	ActionBrush       = "brush"
	ActionFill        = "fill"
	ActionUndo        = "undo"
	ActionRedo        = "redo"
	ActionLayerAdd    = "layer.add"
	ActionLayerSelect = "layer.select"
	ActionLayerRemove = "layer.remove"
	ActionLayerToggle = "layer.toggle"
	ActionBrightness  = "brightness"
	ActionResize      = "resize"
	ActionWheel       = "wheel"
	ActionPinch       = "pinch"
	ActionInsert      = "insert"
	ActionDrag        = "drag"
	ActionConfirm     = "confirm"
	ActionCancel      = "cancel"
	ActionSave        = "save"
	ActionGallery     = "gallery"
)

var actions = []string{
	ActionStroke, ActionBrush, ActionFill, ActionUndo, ActionRedo,
	ActionLayerAdd, ActionLayerSelect, ActionLayerRemove, ActionLayerToggle,
	ActionBrightness, ActionResize, ActionWheel, ActionPinch,
	ActionInsert, ActionDrag, ActionConfirm, ActionCancel, ActionSave, ActionGallery,
}

// Point is a raster position written as [x, y].
type Point [2]int

func (p Point) pt() image.Point { return image.Pt(p[0], p[1]) }

// Step is one recorded user action. Only the fields the action uses are read.
type Step struct {
	Action string    `yaml:"action"`
	Points []Point   `yaml:"points,omitempty"`
	Kind   string    `yaml:"kind,omitempty"`
	Size   int       `yaml:"size,omitempty"`
	Color  string    `yaml:"color,omitempty"`
	Layer  int       `yaml:"layer,omitempty"`
	Name   string    `yaml:"name,omitempty"`
	Value  float64   `yaml:"value,omitempty"`
	Values []float64 `yaml:"values,omitempty"`
	Width  int       `yaml:"width,omitempty"`
	Height int       `yaml:"height,omitempty"`
	Ctrl   bool      `yaml:"ctrl,omitempty"`
	Src    string    `yaml:"src,omitempty"`
	Out    string    `yaml:"out,omitempty"`
	Index  int       `yaml:"index,omitempty"`
}

// Script is a session recorded as a list of steps.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// ParseScript decodes a YAML session script.
func ParseScript(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("unable to parse the script: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks that every step names a known action.
func (sc *Script) Validate() error {
	for i, st := range sc.Steps {
		if !utils.Contains(actions, st.Action) {
			return fmt.Errorf("step %d: %w: %q", i+1, ErrUnknownAction, st.Action)
		}
	}
	return nil
}

// LoadScript reads a YAML session script from a file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read the script file: %w", err)
	}
	return ParseScript(data)
}

// Replay feeds every step of the script to the editor, stopping at the first failing step.
func Replay(e *Editor, sc *Script) error {
	for i, st := range sc.Steps {
		if err := e.apply(st); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Action, err)
		}
	}
	return nil
}

func (e *Editor) apply(st Step) error {
	switch st.Action {
	case ActionStroke, ActionDrag:
		if st.Action == ActionDrag && e.placement == nil {
			return ErrNoPlacement
		}
		return e.gesture(st.Points)
	case ActionBrush:
		return e.applyBrush(st)
	case ActionFill:
		if st.Color != "" {
			c, err := utils.HexToRGBA(st.Color)
			if err != nil {
				return err
			}
			e.SetColor(c)
		}
		e.EnableFill()
		return e.gesture([]Point{{0, 0}})
	case ActionUndo:
		e.Undo()
	case ActionRedo:
		e.Redo()
	case ActionLayerAdd:
		e.AddLayer(st.Name)
	case ActionLayerSelect, ActionLayerRemove, ActionLayerToggle, ActionBrightness:
		id, err := e.layerAt(st.Layer)
		if err != nil {
			return err
		}
		switch st.Action {
		case ActionLayerSelect:
			e.SelectLayer(id)
		case ActionLayerRemove:
			e.RemoveLayer(id)
		case ActionLayerToggle:
			e.ToggleVisible(id)
		case ActionBrightness:
			e.SetBrightness(id, st.Value)
		}
	case ActionResize:
		return e.Resize(st.Width, st.Height)
	case ActionWheel:
		return e.Dispatch(WheelEvent{DeltaY: st.Value, Ctrl: st.Ctrl})
	case ActionPinch:
		for _, d := range st.Values {
			if err := e.Dispatch(PinchEvent{Distance: d}); err != nil {
				return err
			}
		}
		return e.Dispatch(PinchEndEvent{Touches: 0})
	case ActionInsert:
		img, err := LoadImage(st.Src)
		if err != nil {
			return err
		}
		_, err = e.InsertImage(img)
		return err
	case ActionConfirm:
		_, err := e.ConfirmPlacement()
		return err
	case ActionCancel:
		return e.CancelPlacement()
	case ActionSave:
		return e.saveFile(st.Out)
	case ActionGallery:
		return e.LoadGallery(st.Index)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, st.Action)
	}
	return nil
}

// gesture sends a press on the first point, a move for each following one and a release.
func (e *Editor) gesture(points []Point) error {
	if len(points) == 0 {
		return nil
	}
	if err := e.Dispatch(PointerEvent{Kind: PointerDown, Pos: points[0].pt()}); err != nil {
		return err
	}
	for _, p := range points[1:] {
		if err := e.Dispatch(PointerEvent{Kind: PointerMove, Pos: p.pt()}); err != nil {
			return err
		}
	}
	return e.Dispatch(PointerEvent{Kind: PointerUp, Pos: points[len(points)-1].pt()})
}

func (e *Editor) applyBrush(st Step) error {
	cfg := e.Brush()
	if st.Kind != "" {
		kind, err := ParseBrushKind(st.Kind)
		if err != nil {
			return err
		}
		cfg.Kind = kind
	}
	if st.Size != 0 {
		cfg.Size = st.Size
	}
	if st.Color != "" {
		c, err := utils.HexToRGBA(st.Color)
		if err != nil {
			return err
		}
		cfg.Color = c
	}
	e.SetBrush(cfg)
	return nil
}

// layerAt resolves a z-position, bottom layer first.
func (e *Editor) layerAt(i int) (LayerID, error) {
	layers := e.stack.Layers()
	if i < 0 || i >= len(layers) {
		return NoLayer, fmt.Errorf("layer index %d out of range [0, %d)", i, len(layers))
	}
	return layers[i].ID, nil
}

func (e *Editor) saveFile(path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create the destination file: %w", err)
	}
	if _, err := e.Save(out, f); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}
