package nari

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Game is a KIF game record reduced to what promotion auditing needs.
type Game struct {
	ID      string
	Sente   string
	Gote    string
	Initial *Position
	Moves   []KIFMove
}

// KIFMove is one board move or drop of a record.
type KIFMove struct {
	Ply  int
	Line int
	Move USIMove
	// Declined is set when the record spells out 不成.
	Declined bool
}

var (
	moveLineRe   = regexp.MustCompile(`^\s*(\d+)\s+(.+?)\s+\(`)
	fromSquareRe = regexp.MustCompile(`\((\d)(\d)\)`)
	nameRatingRe = regexp.MustCompile(`^(.+?)\((\d+)\)$`)
)

func ReadKIF(path string) (*Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := DecodeKIF(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], "\r")
	}
	return ParseKIF(filepath.Base(path), lines)
}

// DecodeKIF returns the record as UTF-8, converting from Shift-JIS when the
// bytes are not already valid UTF-8.
func DecodeKIF(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), japanese.ShiftJIS.NewDecoder()))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(decoded) {
		return "", errors.New("failed to decode Shift-JIS KIF")
	}
	return string(decoded), nil
}

func ParseKIF(id string, lines []string) (*Game, error) {
	pos, err := initialPosition(lines)
	if err != nil {
		return nil, err
	}
	moves, err := parseMoves(lines)
	if err != nil {
		return nil, err
	}
	return &Game{
		ID:      id,
		Sente:   playerName(headerValue(lines, "先手")),
		Gote:    playerName(headerValue(lines, "後手")),
		Initial: pos,
		Moves:   moves,
	}, nil
}

func parseMoves(lines []string) ([]KIFMove, error) {
	var moves []KIFMove
	var prev *Square
	for i, line := range lines {
		match := moveLineRe.FindStringSubmatch(line)
		if len(match) == 0 {
			continue
		}
		token := strings.TrimSpace(match[2])
		if token == "" {
			continue
		}
		if isTerminalMove(token) {
			break
		}
		mv, declined, err := parseMoveToken(token, prev)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		moves = append(moves, KIFMove{Ply: len(moves) + 1, Line: i + 1, Move: mv, Declined: declined})
		dest := mv.To
		prev = &dest
	}
	return moves, nil
}

func parseMoveToken(token string, prev *Square) (USIMove, bool, error) {
	work := token
	var dest Square
	if strings.HasPrefix(work, "同") {
		if prev == nil {
			return USIMove{}, false, errors.New("same-square move without previous destination")
		}
		dest = *prev
		work = strings.TrimLeft(strings.TrimPrefix(work, "同"), " 　")
	} else {
		runes := []rune(work)
		if len(runes) < 2 {
			return USIMove{}, false, fmt.Errorf("invalid move token: %s", token)
		}
		file, ok := parseFileRune(runes[0])
		if !ok {
			return USIMove{}, false, fmt.Errorf("invalid destination file in %s", token)
		}
		rank, ok := kanjiNumber(runes[1])
		if !ok || rank > 9 {
			return USIMove{}, false, fmt.Errorf("invalid destination rank in %s", token)
		}
		dest = squareFromKIF(file, rank)
		work = string(runes[2:])
	}

	from, hasFrom := parseFromSquare(work)
	work = fromSquareRe.ReplaceAllString(work, "")

	declined := strings.Contains(work, "不成")
	work = strings.Replace(work, "不成", "", 1)
	drop := strings.Contains(work, "打")
	work = strings.Replace(work, "打", "", 1)

	role, err := parseMovingPiece(work)
	if err != nil {
		return USIMove{}, false, err
	}
	// 成 left in the text after the piece name is the promotion itself.
	promote := !declined && strings.Contains(strings.TrimPrefix(strings.TrimSpace(work), role.Kanji()), "成")

	if drop {
		if IsPromoted(role) {
			return USIMove{}, false, errors.New("cannot drop promoted piece")
		}
		return USIMove{Drop: true, Role: role, To: dest}, false, nil
	}
	if !hasFrom {
		return USIMove{}, false, errors.New("missing source square")
	}
	return USIMove{From: from, To: dest, Promote: promote}, declined, nil
}

func isTerminalMove(token string) bool {
	switch token {
	case "投了", "中断", "持将棋", "千日手", "詰み", "切れ負け", "反則勝ち", "反則負け", "入玉勝ち", "勝ち宣言":
		return true
	default:
		return false
	}
}

func parseFromSquare(text string) (Square, bool) {
	match := fromSquareRe.FindStringSubmatch(text)
	if len(match) != 3 {
		return Square{}, false
	}
	file := int(match[1][0] - '0')
	rank := int(match[2][0] - '0')
	if file < 1 || file > 9 || rank < 1 || rank > 9 {
		return Square{}, false
	}
	return squareFromKIF(file, rank), true
}

func parseFileRune(r rune) (int, bool) {
	if r >= '1' && r <= '9' {
		return int(r - '0'), true
	}
	if r >= '１' && r <= '９' {
		return int(r-'１') + 1, true
	}
	return 0, false
}

var kanjiDigits = []rune("一二三四五六七八九十")

func kanjiNumber(r rune) (int, bool) {
	for i, k := range kanjiDigits {
		if k == r {
			return i + 1, true
		}
	}
	return 0, false
}

// kifNames maps the piece names a move line may start with. Longer names come
// first so 成銀 is not read as 銀.
var kifNames = []struct {
	name string
	role Role
}{
	{"成銀", PromotedSilver},
	{"成桂", PromotedKnight},
	{"成香", PromotedLance},
	{"全", PromotedSilver},
	{"圭", PromotedKnight},
	{"杏", PromotedLance},
	{"と", Tokin},
	{"馬", Horse},
	{"龍", Dragon},
	{"竜", Dragon},
	{"王", King},
	{"玉", King},
	{"飛", Rook},
	{"角", Bishop},
	{"金", Gold},
	{"銀", Silver},
	{"桂", Knight},
	{"香", Lance},
	{"歩", Pawn},
}

func parseMovingPiece(text string) (Role, error) {
	clean := strings.TrimSpace(text)
	for _, def := range kifNames {
		if strings.HasPrefix(clean, def.name) {
			return def.role, nil
		}
	}
	return 0, fmt.Errorf("unknown piece in %s", text)
}

func initialPosition(lines []string) (*Position, error) {
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if strings.HasPrefix(trim, "手合割") && strings.Contains(trim, "平手") {
			return PositionFromSFEN(StandardSFEN())
		}
	}
	var rows []string
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		// rows may carry the rank label after the closing bar: "|・v桂 ... |一"
		if end := strings.LastIndex(trim, "|"); strings.HasPrefix(trim, "|") && end > 0 {
			rows = append(rows, trim[:end+1])
		}
	}
	if len(rows) == 0 {
		return PositionFromSFEN(StandardSFEN())
	}
	if len(rows) < 9 {
		return nil, fmt.Errorf("board lines must be 9 rows, got %d", len(rows))
	}
	pos := NewPosition()
	for i := 0; i < 9; i++ {
		if err := parseBoardRow(rows[i], i+1, pos); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	if whiteToMove(lines) {
		pos.turn = White
	}
	for _, side := range []struct {
		key   string
		color Color
	}{{"先手の持駒", Black}, {"後手の持駒", White}} {
		if err := parseHand(headerValue(lines, side.key), side.color, pos); err != nil {
			return nil, err
		}
	}
	return pos, nil
}

func parseBoardRow(line string, kifRank int, pos *Position) error {
	trim := strings.TrimSuffix(strings.TrimPrefix(line, "|"), "|")
	runes := []rune(trim)
	file := 9
	for i := 0; i < len(runes); {
		r := runes[i]
		switch r {
		case ' ', '\t', '　':
			i++
			continue
		case '・':
			file--
			i++
			continue
		}
		color := Black
		if r == 'v' {
			color = White
			i++
		}
		if i >= len(runes) {
			return errors.New("dangling gote marker")
		}
		role, consumed, err := boardPiece(runes[i:])
		if err != nil {
			return err
		}
		if file < 1 {
			return errors.New("too many cells")
		}
		pos.SetPiece(squareFromKIF(file, kifRank), &Piece{Role: role, Color: color})
		file--
		i += consumed
	}
	if file != 0 {
		return fmt.Errorf("expected 9 cells, got %d", 9-file)
	}
	return nil
}

func boardPiece(runes []rune) (Role, int, error) {
	if runes[0] == '成' && len(runes) > 1 {
		role, err := parseMovingPiece(string(runes[:2]))
		return role, 2, err
	}
	role, err := parseMovingPiece(string(runes[0]))
	return role, 1, err
}

// parseHand reads a 持駒 value such as "飛 角 歩三" or "なし".
func parseHand(text string, color Color, pos *Position) error {
	text = strings.TrimSpace(text)
	if text == "" || text == "なし" {
		return nil
	}
	for _, token := range strings.FieldsFunc(text, func(r rune) bool { return r == ' ' || r == '　' }) {
		runes := []rune(token)
		role, err := parseMovingPiece(string(runes[0]))
		if err != nil || IsPromoted(role) || role == King {
			return fmt.Errorf("unknown hand piece %s", token)
		}
		count := 0
		for _, r := range runes[1:] {
			n, ok := kanjiNumber(r)
			if !ok {
				return fmt.Errorf("invalid hand count %s", token)
			}
			if n == 10 {
				count += 10
				continue
			}
			count += n
		}
		if count == 0 {
			count = 1
		}
		pos.hands[color][role] += count
	}
	return nil
}

func whiteToMove(lines []string) bool {
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if trim == "後手番" || (strings.HasPrefix(trim, "手番") && strings.Contains(trim, "後手")) {
			return true
		}
	}
	return false
}

func headerValue(lines []string, key string) string {
	for _, line := range lines {
		trim := strings.TrimSpace(line)
		for _, sep := range []string{"：", ":"} {
			if strings.HasPrefix(trim, key+sep) {
				return strings.TrimSpace(strings.TrimPrefix(trim, key+sep))
			}
		}
	}
	return ""
}

func playerName(raw string) string {
	if match := nameRatingRe.FindStringSubmatch(raw); len(match) == 3 {
		return strings.TrimSpace(match[1])
	}
	return raw
}

func CollectKIF(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".kif") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
