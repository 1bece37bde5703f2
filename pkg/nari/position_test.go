package nari_test

import (
	"errors"
	"testing"

	nari "nari/pkg/nari"
)

// TestSFENRoundTrip parses and formats positions without loss.
func TestSFENRoundTrip(t *testing.T) {
	for _, sfen := range []string{
		nari.StandardSFEN(),
		"4k4/8P/9/9/9/9/9/9/4K4 b S2P 1",
		"lnsgkgsnl/1r5+B1/pppppp1pp/6p2/9/2P6/PP1PPPPPP/7R1/LNSGKGSNL w B 4",
		"4k4/9/9/9/9/9/9/9/4K4 w 2Pr3p 10",
	} {
		pos, err := nari.PositionFromSFEN(sfen)
		if err != nil {
			t.Fatalf("failed to parse %s: %v", sfen, err)
		}
		moveNumber := 1
		switch sfen[len(sfen)-2:] {
		case " 4":
			moveNumber = 4
		case "10":
			moveNumber = 10
		}
		if got := pos.ToSFEN(moveNumber); got != sfen {
			t.Fatalf("unexpected sfen: got %s want %s", got, sfen)
		}
	}
}

// TestApplyMovesWithCaptureAndPromotion plays the opening bishop exchange.
func TestApplyMovesWithCaptureAndPromotion(t *testing.T) {
	pos, err := nari.PositionFromSFEN(nari.StandardSFEN())
	if err != nil {
		t.Fatalf("failed to parse sfen: %v", err)
	}
	want := []string{
		"lnsgkgsnl/1r5b1/ppppppppp/9/9/2P6/PP1PPPPPP/1B5R1/LNSGKGSNL w - 2",
		"lnsgkgsnl/1r5b1/pppppp1pp/6p2/9/2P6/PP1PPPPPP/1B5R1/LNSGKGSNL b - 3",
		"lnsgkgsnl/1r5+B1/pppppp1pp/6p2/9/2P6/PP1PPPPPP/7R1/LNSGKGSNL w B 4",
	}
	for i, move := range []string{"7g7f", "3c3d", "8h2b+"} {
		if err := pos.ApplyMove(move); err != nil {
			t.Fatalf("failed to apply %s: %v", move, err)
		}
		if got := pos.ToSFEN(i + 2); got != want[i] {
			t.Fatalf("unexpected sfen after %s: got %s want %s", move, got, want[i])
		}
	}
	if pos.Hand(nari.Black, nari.Bishop) != 1 {
		t.Fatalf("captured bishop missing from hand")
	}
	if err := pos.ApplyMove("B*5e"); err == nil {
		t.Fatalf("expected error dropping from the wrong hand")
	}
}

// TestCandidateFromPosition reads the moving role and capture before the move.
func TestCandidateFromPosition(t *testing.T) {
	pos, err := nari.PositionFromSFEN("lnsgkgsnl/1r5b1/pppppp1pp/6p2/9/2P6/PP1PPPPPP/1B5R1/LNSGKGSNL b - 3")
	if err != nil {
		t.Fatalf("failed to parse sfen: %v", err)
	}
	move, err := nari.ParseUSIMove("8h2b")
	if err != nil {
		t.Fatalf("failed to parse move: %v", err)
	}
	cand, err := pos.Candidate(move)
	if err != nil {
		t.Fatalf("failed to build candidate: %v", err)
	}
	if cand.Role != nari.Bishop || cand.Capture == nil || cand.Capture.Role != nari.Bishop || cand.Capture.Color != nari.White {
		t.Fatalf("unexpected candidate: %+v", cand)
	}
	if got := nari.Classify(cand, pos.Turn()); got != nari.PromotionOptional {
		t.Fatalf("unexpected classification: %s", got)
	}
	empty, _ := nari.ParseUSIMove("5e5d")
	if _, err := pos.Candidate(empty); !errors.Is(err, nari.ErrNoPiece) {
		t.Fatalf("expected ErrNoPiece, got %v", err)
	}
}

// TestParseUSIMove covers board moves, promotions and drops.
func TestParseUSIMove(t *testing.T) {
	for _, text := range []string{"7g7f", "8h2b+", "P*5e", "S*2c"} {
		move, err := nari.ParseUSIMove(text)
		if err != nil {
			t.Fatalf("failed to parse %s: %v", text, err)
		}
		if move.String() != text {
			t.Fatalf("unexpected round trip: got %s want %s", move.String(), text)
		}
	}
	for _, text := range []string{"7g7", "7g7z", "K*5e", "7g7f=", "Q*5e"} {
		if _, err := nari.ParseUSIMove(text); err == nil {
			t.Fatalf("expected error for %s", text)
		}
	}
}
