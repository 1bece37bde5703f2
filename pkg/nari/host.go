package nari

import (
	"context"

	"go.uber.org/zap"
)

// Host is the board view a Controller drives. Its methods are called from the
// same goroutine that calls the Controller.
type Host interface {
	PieceAt(sq Square) (Piece, bool)
	Orientation() Color
	// SetPieceRole swaps the piece on sq to role before the move is reported.
	SetPieceRole(sq Square, role Role)
	// SetAutoShapes replaces the transient overlay shapes; nil clears them.
	SetAutoShapes(shapes []Shape)
	// Reset restores the board to its last known configuration.
	Reset()
	Redraw()
}

// Shape is a translucent piece drawn on a square, not part of the position.
type Shape struct {
	Square  Square
	Piece   Piece
	Opacity float64
}

// Resyncer asks an authoritative source to resend the current position.
// Resync must not block.
type Resyncer interface {
	Resync()
}

// ResyncFunc runs a blocking reload in the background and logs its failure.
type ResyncFunc struct {
	Reload func(ctx context.Context) error
	Ctx    context.Context
	Logger *zap.Logger
}

func (r ResyncFunc) Resync() {
	ctx := r.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	go func() {
		if err := r.Reload(ctx); err != nil {
			logger.Warn("resync failed", zap.Error(err))
		}
	}()
}

// Headless is a Host over a Position with nothing drawn. Commit records the
// configuration Reset returns to.
type Headless struct {
	pos         *Position
	saved       *Position
	orientation Color
	shapes      []Shape
	redraws     int
}

func NewHeadless(pos *Position, orientation Color) *Headless {
	return &Headless{pos: pos, saved: pos.Clone(), orientation: orientation}
}

func (h *Headless) PieceAt(sq Square) (Piece, bool) {
	return h.pos.PieceAt(sq)
}

func (h *Headless) Orientation() Color {
	return h.orientation
}

func (h *Headless) SetPieceRole(sq Square, role Role) {
	_ = h.pos.SetRole(sq, role)
}

func (h *Headless) SetAutoShapes(shapes []Shape) {
	h.shapes = append(h.shapes[:0], shapes...)
}

func (h *Headless) Reset() {
	h.pos = h.saved.Clone()
}

func (h *Headless) Redraw() {
	h.redraws++
}

func (h *Headless) Position() *Position {
	return h.pos
}

// Load replaces both the shown and the saved configuration.
func (h *Headless) Load(pos *Position) {
	h.pos = pos
	h.Commit()
}

func (h *Headless) Commit() {
	h.saved = h.pos.Clone()
}

func (h *Headless) Shapes() []Shape {
	return h.shapes
}

func (h *Headless) Redraws() int {
	return h.redraws
}

// Play applies m to the shown position the way a widget moves a piece under
// the cursor: promotion is left for the Controller to decide.
func (h *Headless) Play(m USIMove) error {
	m.Promote = false
	return h.pos.Apply(m)
}
