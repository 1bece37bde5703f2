package nari_test

import (
	"math"
	"testing"

	nari "nari/pkg/nari"
)

const square = 100.0 / 9

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestChoicesOrderFollowsOrientation puts the promoted piece first for white.
func TestChoicesOrderFollowsOrientation(t *testing.T) {
	if got := nari.Choices(nari.Silver, nari.Black); got != [2]nari.Role{nari.Silver, nari.PromotedSilver} {
		t.Fatalf("unexpected black choices: %v", got)
	}
	if got := nari.Choices(nari.Rook, nari.White); got != [2]nari.Role{nari.Dragon, nari.Rook} {
		t.Fatalf("unexpected white choices: %v", got)
	}
}

// TestLayoutStacksTowardMover: the second option sits one square toward the mover's side.
func TestLayoutStacksTowardMover(t *testing.T) {
	cases := []struct {
		name        string
		dest        string
		color       nari.Color
		orientation nari.Color
		anchor      nari.Anchor
		col         int
		rows        [2]int
	}{
		{"black seen by black", "2c", nari.Black, nari.Black, nari.AnchorTop, 7, [2]int{2, 3}},
		{"black seen by white", "2c", nari.Black, nari.White, nari.AnchorBottom, 1, [2]int{6, 5}},
		{"white seen by black", "8g", nari.White, nari.Black, nari.AnchorBottom, 1, [2]int{6, 5}},
		{"white seen by white", "8g", nari.White, nari.White, nari.AnchorTop, 7, [2]int{2, 3}},
		{"black on own edge", "2i", nari.Black, nari.Black, nari.AnchorTop, 7, [2]int{8, 7}},
	}
	for _, tc := range cases {
		roles := nari.Choices(nari.Rook, tc.orientation)
		o := nari.Layout(mustSquare(t, tc.dest), roles, tc.color, tc.orientation)
		if o.Anchor != tc.anchor {
			t.Fatalf("%s: unexpected anchor %s", tc.name, o.Anchor)
		}
		for i, opt := range o.Options {
			if opt.Role != roles[i] {
				t.Fatalf("%s: option %d has role %s", tc.name, i, opt.Role)
			}
			if !near(opt.Left, float64(tc.col)*square) || !near(opt.Top, float64(tc.rows[i])*square) {
				t.Fatalf("%s: option %d at top=%f left=%f", tc.name, i, opt.Top, opt.Left)
			}
		}
	}
}

// TestClickOnOptionFinishes routes a click inside the picker to Finish.
func TestClickOnOptionFinishes(t *testing.T) {
	host := newHost(t, promoteSFEN, nari.Black)
	ctrl := nari.NewController(host, nari.Options{})
	rec := &recorder{}

	ctrl.Start(play(t, host, "2d2c"), rec.done, nil)
	if !ctrl.ContextMenu() {
		t.Fatalf("context menu not suppressed while prompting")
	}
	o, ok := ctrl.Overlay()
	if !ok {
		t.Fatalf("expected an overlay")
	}
	promoted := o.Options[1]
	if promoted.Role != nari.PromotedSilver {
		t.Fatalf("unexpected option order: %+v", o.Options)
	}
	if !ctrl.Click(promoted.Left+square/2, promoted.Top+square/2) {
		t.Fatalf("click on option not consumed")
	}
	if len(rec.results) != 1 || !rec.results[0].Promoted {
		t.Fatalf("unexpected results: %+v", rec.results)
	}
	if _, ok := ctrl.Overlay(); ok {
		t.Fatalf("overlay still shown after a choice")
	}
	if ctrl.ContextMenu() {
		t.Fatalf("context menu suppressed without a prompt")
	}
}

// TestClickOutsideCancels dismisses the picker and restores the board.
func TestClickOutsideCancels(t *testing.T) {
	host := newHost(t, promoteSFEN, nari.White)
	ctrl := nari.NewController(host, nari.Options{})
	rec := &recorder{}

	ctrl.Start(play(t, host, "2d2c"), rec.done, nil)
	if !ctrl.Click(95, 95) {
		t.Fatalf("click outside the picker not consumed")
	}
	if _, ok := ctrl.Session(); ok {
		t.Fatalf("session still open")
	}
	if len(rec.results) != 0 {
		t.Fatalf("completion called after dismissal")
	}
	if roleAt(t, host, "2d") != nari.Silver {
		t.Fatalf("board not restored")
	}
	if ctrl.Click(50, 50) {
		t.Fatalf("click consumed with no picker")
	}
}

// TestOverlayHitMisses between and beyond the options.
func TestOverlayHitMisses(t *testing.T) {
	o := nari.Layout(mustSquare(t, "5c"), nari.Choices(nari.Pawn, nari.Black), nari.Black, nari.Black)
	if _, ok := o.Hit(o.Options[0].Left-1, o.Options[0].Top+1); ok {
		t.Fatalf("hit left of the picker")
	}
	if role, ok := o.Hit(o.Options[0].Left+1, o.Options[0].Top+1); !ok || role != nari.Pawn {
		t.Fatalf("missed the first option")
	}
	if role, ok := o.Hit(o.Options[1].Left+1, o.Options[1].Top+1); !ok || role != nari.Tokin {
		t.Fatalf("missed the second option")
	}
}
