package impasto

import "bytes"

// History holds the undo and redo stacks of one layer. Every entry is a
// full snapshot of the layer surface; there is no capacity limit.
//
// The undo stack holds checkpoints, the raster as it was at the end of each
// committed action. Undo returns the surface to the latest checkpoint that
// differs from what the surface shows now, so undoing right after a commit
// steps back past the action the commit recorded. Checkpoints are compared
// as they would be restored at the current surface size, so a resize does
// not hide the match.
type History struct {
	undo []Snapshot
	redo []Snapshot
}

// Commit records the current surface as the newest checkpoint and
// discards everything that could be redone.
func (h *History) Commit(s *Surface) {
	h.undo = append(h.undo, Capture(s))
	h.redo = h.redo[:0]
}

// Undo steps the surface back one checkpoint. The content being replaced is
// pushed on the redo stack. It reports false and leaves both the surface and
// the stacks untouched when there is nothing to undo or a checkpoint cannot
// be decoded.
func (h *History) Undo(s *Surface) bool {
	if len(h.undo) == 0 {
		return false
	}
	w, ht := s.Width(), s.Height()

	var pix []byte
	i := len(h.undo) - 1
	for ; i >= 0; i-- {
		p, err := h.undo[i].render(w, ht)
		if err != nil {
			return false
		}
		if !bytes.Equal(p, s.img.Pix) {
			pix = p
			break
		}
	}

	current := Capture(s)
	if pix != nil {
		copy(s.img.Pix, pix)
	} else {
		s.Clear()
	}
	h.undo = h.undo[:i+1]
	h.redo = append(h.redo, current)
	return true
}

// Redo reapplies the most recently undone content, which becomes the newest
// checkpoint again. It reports false and does nothing when the redo stack is
// empty or its top cannot be decoded.
func (h *History) Redo(s *Surface) bool {
	n := len(h.redo)
	if n == 0 {
		return false
	}
	sn := h.redo[n-1]
	if err := sn.restore(s); err != nil {
		return false
	}
	h.redo = h.redo[:n-1]
	h.undo = append(h.undo, sn)
	return true
}

// CanUndo reports whether Undo would change anything.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would change anything.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the depth of the undo and redo stacks.
func (h *History) Len() (undo, redo int) { return len(h.undo), len(h.redo) }

// Checkpoints returns the undo stack, oldest first.
func (h *History) Checkpoints() []Snapshot {
	return append([]Snapshot(nil), h.undo...)
}
