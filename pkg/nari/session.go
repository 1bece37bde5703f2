package nari

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Result is what a Completion receives once promotion is settled.
type Result struct {
	Orig     Square
	Dest     Square
	Capture  *Piece
	Role     Role // role standing on Dest after the move
	Promoted bool
	Meta     any
}

type Completion func(Result)

// KeyboardMove reports whether the destination was just chosen from the
// keyboard, in which case a premove's promotion is pre-selected silently.
type KeyboardMove interface {
	JustSelected() bool
}

type Options struct {
	// Resync is set for games confirmed by a remote authority; a dismissed
	// prompt then reloads the authoritative position.
	Resync   Resyncer
	Keyboard KeyboardMove
	Logger   *zap.Logger
}

// Session is a pending interactive promotion choice.
type Session struct {
	ID    string
	Move  Candidate
	Pre   bool // the move is a queued premove that has not been played
	Role  Role // unpromoted role on offer
	Color Color
	Meta  any

	done Completion
}

// Controller owns the promotion state of one board. It is not safe for
// concurrent use; all calls come from the input handler.
type Controller struct {
	host     Host
	resync   Resyncer
	keyboard KeyboardMove
	logger   *zap.Logger

	session *Session
	marker  *Marker
}

func NewController(host Host, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		host:     host,
		resync:   opts.Resync,
		keyboard: opts.Keyboard,
		logger:   logger,
	}
}

// Close drops any pending session and pre-selection.
func (c *Controller) Close() {
	c.session = nil
	c.ClearPreSelection()
}

func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Start settles the promotion of cand. Forced and impossible promotions
// complete at once; optional ones open a session and wait for Finish or
// Cancel. A queued premove never completes here, it only prepares a choice
// for when it is played. Start returns false when no piece stands where the
// move says it should.
func (c *Controller) Start(cand Candidate, done Completion, meta any) bool {
	at := cand.Dest
	if cand.Premove {
		at = cand.Orig
	}
	piece, ok := c.host.PieceAt(at)
	if !ok {
		c.logger.Debug("promotion candidate without piece",
			zap.Stringer("orig", cand.Orig), zap.Stringer("dest", cand.Dest), zap.Bool("premove", cand.Premove))
		return false
	}
	cand.Role = piece.Role
	kind := Classify(cand, piece.Color)
	if !cand.Premove {
		c.discard()
	}

	switch kind {
	case PromotionNone, PromotionForced:
		if cand.FromPremove {
			c.ClearPreSelection()
		}
		if cand.Premove {
			return true
		}
		if kind == PromotionForced {
			c.complete(cand, piece, Promote(piece.Role), true, done, meta)
		} else {
			c.complete(cand, piece, piece.Role, false, done, meta)
		}
		return true
	}

	if cand.FromPremove {
		if role, ok := c.takePreSelection(cand.Dest, piece.Role); ok {
			c.complete(cand, piece, role, IsPromoted(role), done, meta)
			return true
		}
	}
	if cand.Premove && c.session == nil && c.keyboard != nil && c.keyboard.JustSelected() {
		c.SetPreSelection(cand.Dest, Piece{Role: Promote(piece.Role), Color: piece.Color})
		return true
	}

	c.discard()
	c.session = &Session{
		ID:    uuid.NewString(),
		Move:  cand,
		Pre:   cand.Premove,
		Role:  piece.Role,
		Color: piece.Color,
		Meta:  meta,
		done:  done,
	}
	c.logger.Debug("promotion prompt opened",
		zap.String("session", c.session.ID),
		zap.Stringer("orig", cand.Orig),
		zap.Stringer("dest", cand.Dest),
		zap.Stringer("role", piece.Role),
		zap.Bool("premove", cand.Premove))
	c.host.Redraw()
	return true
}

// Finish resolves the open session with role, which must be one of the two
// offered roles. For a queued premove the choice is kept as a pre-selection.
func (c *Controller) Finish(role Role) bool {
	s := c.session
	if s == nil {
		return false
	}
	if role != s.Role && role != Promote(s.Role) {
		c.logger.Debug("promotion choice not on offer",
			zap.String("session", s.ID), zap.Stringer("role", role))
		return false
	}
	c.session = nil
	c.logger.Debug("promotion chosen",
		zap.String("session", s.ID), zap.Stringer("role", role), zap.Bool("premove", s.Pre))
	if s.Pre {
		c.SetPreSelection(s.Move.Dest, Piece{Role: role, Color: s.Color})
		c.host.Redraw()
		return true
	}
	c.complete(s.Move, Piece{Role: s.Role, Color: s.Color}, role, IsPromoted(role), s.done, s.Meta)
	c.host.Redraw()
	return true
}

// Cancel abandons the open session without completing its move.
func (c *Controller) Cancel() {
	c.ClearPreSelection()
	s := c.session
	if s == nil {
		return
	}
	c.session = nil
	c.logger.Debug("promotion cancelled", zap.String("session", s.ID), zap.Bool("resync", c.resync != nil))
	if c.resync != nil {
		c.resync.Resync()
	}
	c.host.Reset()
	c.host.Redraw()
}

// discard drops a superseded session; its completion is never called.
func (c *Controller) discard() {
	if c.session == nil {
		return
	}
	c.logger.Debug("promotion prompt superseded", zap.String("session", c.session.ID))
	c.session = nil
}

func (c *Controller) complete(cand Candidate, piece Piece, role Role, promoted bool, done Completion, meta any) {
	if role != piece.Role {
		c.host.SetPieceRole(cand.Dest, role)
	}
	c.logger.Debug("promotion settled",
		zap.Stringer("orig", cand.Orig),
		zap.Stringer("dest", cand.Dest),
		zap.Stringer("role", role),
		zap.Bool("promoted", promoted))
	if done == nil {
		return
	}
	done(Result{
		Orig:     cand.Orig,
		Dest:     cand.Dest,
		Capture:  cand.Capture,
		Role:     role,
		Promoted: promoted,
		Meta:     meta,
	})
}
