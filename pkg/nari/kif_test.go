package nari_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	nari "nari/pkg/nari"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

const bishopExchangeKIF = `# ---- 棋譜ファイル ----
開始日時：2024/01/02 10:00:00
手合割：平手
先手：alice(1500)
後手：bob
手数----指手---------消費時間--
   1 ７六歩(77)   ( 0:01/00:00:01)
   2 ３四歩(33)   ( 0:01/00:00:02)
   3 ２二角成(88)   ( 0:01/00:00:03)
   4 同　銀(31)   ( 0:01/00:00:04)
   5 投了   ( 0:01/00:00:05)
`

const boardKIF = `後手の持駒：なし
  ９ ８ ７ ６ ５ ４ ３ ２ １
+---------------------------+
|・・・・v玉・・・・|一
|・・・・・・・・ 歩|二
|・・・・・・・・・|三
|・・・・・・・ 銀・|四
|・・・・・・・・・|五
|・・・・・・・・・|六
|・・・・・・・・・|七
|・・・・・・・・・|八
|・・・・ 玉・・・・|九
+---------------------------+
先手の持駒：銀 歩二
手数----指手---------消費時間--
   1 １一歩成(12)   ( 0:00/00:00:00)
   2 ５二玉(51)   ( 0:00/00:00:00)
   3 ２三銀不成(24)   ( 0:00/00:00:00)
   4 ４一玉(52)   ( 0:00/00:00:00)
   5 ３二銀打   ( 0:00/00:00:00)
`

func kifLines(text string) []string {
	return strings.Split(text, "\n")
}

// TestParseKIFMoves converts KIF moves, including 同 and promotions, to USI.
func TestParseKIFMoves(t *testing.T) {
	game, err := nari.ParseKIF("exchange", kifLines(bishopExchangeKIF))
	if err != nil {
		t.Fatalf("failed to parse kif: %v", err)
	}
	if game.Sente != "alice" || game.Gote != "bob" {
		t.Fatalf("unexpected players: %q %q", game.Sente, game.Gote)
	}
	want := []string{"7g7f", "3c3d", "8h2b+", "3a2b"}
	if len(game.Moves) != len(want) {
		t.Fatalf("unexpected move count: got %d want %d", len(game.Moves), len(want))
	}
	for i, mv := range game.Moves {
		if mv.Move.String() != want[i] || mv.Ply != i+1 {
			t.Fatalf("unexpected move %d: got %s want %s", i+1, mv.Move.String(), want[i])
		}
	}
	if got := game.Initial.ToSFEN(1); got != nari.StandardSFEN() {
		t.Fatalf("unexpected initial position: %s", got)
	}
}

// TestParseKIFBoard reads a drawn board with hands, 不成 and drops.
func TestParseKIFBoard(t *testing.T) {
	game, err := nari.ParseKIF("board", kifLines(boardKIF))
	if err != nil {
		t.Fatalf("failed to parse kif: %v", err)
	}
	if got, want := game.Initial.ToSFEN(1), "4k4/8P/9/7S1/9/9/9/9/4K4 b S2P 1"; got != want {
		t.Fatalf("unexpected initial position: got %s want %s", got, want)
	}
	want := []string{"1b1a+", "5a5b", "2d2c", "5b4a", "S*3b"}
	if len(game.Moves) != len(want) {
		t.Fatalf("unexpected move count: got %d want %d", len(game.Moves), len(want))
	}
	for i, mv := range game.Moves {
		if mv.Move.String() != want[i] {
			t.Fatalf("unexpected move %d: got %s want %s", i+1, mv.Move.String(), want[i])
		}
	}
	if !game.Moves[2].Declined || game.Moves[0].Declined {
		t.Fatalf("unexpected declined flags")
	}
}

// TestReadKIFShiftJIS decodes a Shift-JIS file from disk.
func TestReadKIFShiftJIS(t *testing.T) {
	encoded, _, err := transform.String(japanese.ShiftJIS.NewEncoder(), bishopExchangeKIF)
	if err != nil {
		t.Fatalf("failed to encode kif: %v", err)
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "sjis.kif")
	if err := os.WriteFile(path, []byte(encoded), 0o644); err != nil {
		t.Fatalf("failed to write kif: %v", err)
	}
	game, err := nari.ReadKIF(path)
	if err != nil {
		t.Fatalf("failed to read kif: %v", err)
	}
	if game.ID != "sjis.kif" || game.Sente != "alice" || len(game.Moves) != 4 {
		t.Fatalf("unexpected game: %s %s %d", game.ID, game.Sente, len(game.Moves))
	}

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write notes: %v", err)
	}
	files, err := nari.CollectKIF(dir)
	if err != nil {
		t.Fatalf("failed to collect kif: %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Fatalf("unexpected files: %v", files)
	}
}

// TestParseKIFErrors rejects a 同 move with nothing to refer to.
func TestParseKIFErrors(t *testing.T) {
	lines := kifLines("手合割：平手\n   1 同　歩(77)   ( 0:01/00:00:01)\n")
	if _, err := nari.ParseKIF("bad", lines); err == nil {
		t.Fatalf("expected error for 同 on the first move")
	}
	lines = kifLines("手合割：平手\n   1 ７六象(77)   ( 0:01/00:00:01)\n")
	if _, err := nari.ParseKIF("bad", lines); err == nil {
		t.Fatalf("expected error for an unknown piece")
	}
}
