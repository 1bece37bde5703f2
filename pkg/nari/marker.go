package nari

import "go.uber.org/zap"

const previewOpacity = 0.5

// Marker is a promotion choice made ahead of time for a queued premove.
type Marker struct {
	Dest  Square
	Piece Piece
}

// SetPreSelection records piece as the role a queued premove to dest will
// take, and previews it on dest.
func (c *Controller) SetPreSelection(dest Square, piece Piece) {
	c.marker = &Marker{Dest: dest, Piece: piece}
	c.host.SetAutoShapes([]Shape{{Square: dest, Piece: piece, Opacity: previewOpacity}})
	c.logger.Debug("promotion pre-selected", zap.Stringer("dest", dest), zap.Stringer("role", piece.Role))
}

func (c *Controller) ClearPreSelection() {
	if c.marker == nil {
		return
	}
	c.marker = nil
	c.host.SetAutoShapes(nil)
	c.host.Redraw()
}

func (c *Controller) PreSelection() (Marker, bool) {
	if c.marker == nil {
		return Marker{}, false
	}
	return *c.marker, true
}

// takePreSelection consumes the marker for a premove being played to dest by
// a piece of role base. A marker left over from a different square or piece
// is dropped rather than applied.
func (c *Controller) takePreSelection(dest Square, base Role) (Role, bool) {
	m := c.marker
	if m == nil {
		return 0, false
	}
	c.ClearPreSelection()
	if m.Dest != dest || Unpromote(m.Piece.Role) != base {
		c.logger.Debug("stale pre-selection dropped",
			zap.Stringer("marker", m.Dest), zap.Stringer("dest", dest))
		return 0, false
	}
	return m.Piece.Role, true
}
