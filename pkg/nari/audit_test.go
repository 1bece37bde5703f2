package nari_test

import (
	"testing"

	nari "nari/pkg/nari"
)

// TestAuditGameCountsDecisions classifies every move of a recorded game.
func TestAuditGameCountsDecisions(t *testing.T) {
	game, err := nari.ParseKIF("board", kifLines(boardKIF))
	if err != nil {
		t.Fatalf("failed to parse kif: %v", err)
	}
	audit, err := nari.AuditGame(game)
	if err != nil {
		t.Fatalf("failed to audit: %v", err)
	}
	if audit.Moves != 5 || audit.Forced != 1 || audit.Promoted != 0 || audit.Declined != 1 {
		t.Fatalf("unexpected counts: %+v", audit)
	}
	if len(audit.Violations) != 0 {
		t.Fatalf("unexpected violations: %+v", audit.Violations)
	}

	game, err = nari.ParseKIF("exchange", kifLines(bishopExchangeKIF))
	if err != nil {
		t.Fatalf("failed to parse kif: %v", err)
	}
	audit, err = nari.AuditGame(game)
	if err != nil {
		t.Fatalf("failed to audit: %v", err)
	}
	if audit.Promoted != 1 || audit.Forced != 0 || audit.Sente != "alice" {
		t.Fatalf("unexpected counts: %+v", audit)
	}
}

// TestAuditGameViolations flags a skipped forced promotion and one outside the zone.
func TestAuditGameViolations(t *testing.T) {
	pos, err := nari.PositionFromSFEN("4k4/8P/9/9/9/9/9/4S4/4K4 b - 1")
	if err != nil {
		t.Fatalf("failed to parse sfen: %v", err)
	}
	game := &nari.Game{ID: "violations", Initial: pos}
	for i, text := range []string{"1b1a", "5a4b", "5h5g+"} {
		mv, err := nari.ParseUSIMove(text)
		if err != nil {
			t.Fatalf("failed to parse %s: %v", text, err)
		}
		game.Moves = append(game.Moves, nari.KIFMove{Ply: i + 1, Move: mv})
	}
	audit, err := nari.AuditGame(game)
	if err != nil {
		t.Fatalf("failed to audit: %v", err)
	}
	if audit.Forced != 1 || len(audit.Violations) != 2 {
		t.Fatalf("unexpected audit: %+v", audit)
	}
	if audit.Violations[0].Ply != 1 || audit.Violations[1].Ply != 3 || audit.Violations[1].Move != "5h5g+" {
		t.Fatalf("unexpected violations: %+v", audit.Violations)
	}
	if got := pos.ToSFEN(1); got != "4k4/8P/9/9/9/9/9/4S4/4K4 b - 1" {
		t.Fatalf("audit modified the initial position: %s", got)
	}
}

// TestAuditGameRejectsMissingPiece reports the failing ply.
func TestAuditGameRejectsMissingPiece(t *testing.T) {
	pos, err := nari.PositionFromSFEN(nari.StandardSFEN())
	if err != nil {
		t.Fatalf("failed to parse sfen: %v", err)
	}
	mv, _ := nari.ParseUSIMove("5e5d")
	game := &nari.Game{ID: "broken", Initial: pos, Moves: []nari.KIFMove{{Ply: 1, Move: mv}}}
	if _, err := nari.AuditGame(game); err == nil {
		t.Fatalf("expected error for a move from an empty square")
	}
}
