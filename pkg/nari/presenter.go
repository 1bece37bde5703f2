package nari

// squareSize is one square as a percentage of the board side.
const squareSize = 100.0 / 9

type Anchor int

const (
	// AnchorTop: the mover promotes toward the top of the screen.
	AnchorTop Anchor = iota
	AnchorBottom
)

func (a Anchor) String() string {
	if a == AnchorBottom {
		return "bottom"
	}
	return "top"
}

// Option is one selectable piece of the picker. Top and Left are percentages
// of the board side, measured from the top-left corner.
type Option struct {
	Role Role
	Top  float64
	Left float64
}

func (o Option) contains(x, y float64) bool {
	return x >= o.Left && x < o.Left+squareSize && y >= o.Top && y < o.Top+squareSize
}

// Overlay is the promotion picker drawn over the destination square.
type Overlay struct {
	Dest    Square
	Color   Color
	Anchor  Anchor
	Options [2]Option
}

// Hit returns the role under (x, y), or false when the point misses both options.
func (o Overlay) Hit(x, y float64) (Role, bool) {
	for _, opt := range o.Options {
		if opt.contains(x, y) {
			return opt.Role, true
		}
	}
	return 0, false
}

// Choices pairs role with its promoted form, ordered for the given orientation.
func Choices(role Role, orientation Color) [2]Role {
	if orientation == White {
		return [2]Role{Promote(role), role}
	}
	return [2]Role{role, Promote(role)}
}

func screenColumn(sq Square, orientation Color) int {
	if orientation == Black {
		return 9 - sq.File
	}
	return sq.File - 1
}

func screenRow(sq Square, orientation Color) int {
	if orientation == Black {
		return 9 - sq.Rank
	}
	return sq.Rank - 1
}

// Layout places roles on the column of dest. The first option covers dest and
// the second stacks one square toward the mover's own side, or the other way
// when dest sits on the screen edge.
func Layout(dest Square, roles [2]Role, color, orientation Color) Overlay {
	col := screenColumn(dest, orientation)
	row := screenRow(dest, orientation)
	anchor := AnchorTop
	step := 1
	if color != orientation {
		anchor = AnchorBottom
		step = -1
	}
	if next := row + step; next < 0 || next > 8 {
		step = -step
	}
	o := Overlay{Dest: dest, Color: color, Anchor: anchor}
	for i, role := range roles {
		o.Options[i] = Option{
			Role: role,
			Top:  float64(row+i*step) * squareSize,
			Left: float64(col) * squareSize,
		}
	}
	return o
}

// Overlay describes the picker for the open session, if any.
func (c *Controller) Overlay() (Overlay, bool) {
	s := c.session
	if s == nil {
		return Overlay{}, false
	}
	orientation := c.host.Orientation()
	return Layout(s.Move.Dest, Choices(s.Role, orientation), s.Color, orientation), true
}

// Click routes a click at (x, y), in board percentages, while the picker is
// shown: an option finishes the session, anything else cancels it. It returns
// true when the click was consumed and must not reach the board.
func (c *Controller) Click(x, y float64) bool {
	o, ok := c.Overlay()
	if !ok {
		return false
	}
	if role, hit := o.Hit(x, y); hit {
		c.Finish(role)
		return true
	}
	c.Cancel()
	return true
}

// ContextMenu reports whether a context-menu event should be suppressed.
func (c *Controller) ContextMenu() bool {
	return c.session != nil
}
