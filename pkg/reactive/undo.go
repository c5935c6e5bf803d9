package reactive

import "slices"

func (p *Proxy) pushHistory(path []string, old, cur any) {
	if !p.undoOpts.Enabled {
		return
	}
	now := p.undoOpts.Clock.Now()
	p.redo = nil
	if n := len(p.undo); n > 0 && p.undoOpts.Debounce > 0 {
		last := &p.undo[n-1]
		if slices.Equal(last.path, path) && now.Sub(last.at) <= p.undoOpts.Debounce {
			last.new = cur
			last.at = now
			return
		}
	}
	p.undo = append(p.undo, change{path: slices.Clone(path), old: old, new: cur, at: now})
	if over := len(p.undo) - p.undoOpts.Depth; over > 0 {
		p.undo = slices.Delete(p.undo, 0, over)
	}
}

// CanUndo reports whether there is a step to undo.
func (p *Proxy) CanUndo() bool {
	return len(p.undo) > 0
}

// CanRedo reports whether there is an undone step to reapply.
func (p *Proxy) CanRedo() bool {
	return len(p.redo) > 0
}

// Undo reverts the most recent step. It returns false when there is none.
func (p *Proxy) Undo() bool {
	n := len(p.undo)
	if n == 0 {
		return false
	}
	c := p.undo[n-1]
	p.undo = p.undo[:n-1]
	if err := p.set(c.path, c.old, false); err != nil {
		return false
	}
	p.redo = append(p.redo, c)
	return true
}

// Redo reapplies the most recently undone step. It returns false when there is none.
func (p *Proxy) Redo() bool {
	n := len(p.redo)
	if n == 0 {
		return false
	}
	c := p.redo[n-1]
	p.redo = p.redo[:n-1]
	if err := p.set(c.path, c.new, false); err != nil {
		return false
	}
	p.undo = append(p.undo, c)
	return true
}

// ClearHistory drops every undo and redo step.
func (p *Proxy) ClearHistory() {
	p.undo = nil
	p.redo = nil
}
