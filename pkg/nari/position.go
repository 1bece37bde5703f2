package nari

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNoPiece = errors.New("no piece on square")

// Position is a board snapshot: pieces, hands and side to move.
type Position struct {
	board [9][9]*Piece // [rank-1][file-1]
	hands map[Color]map[Role]int
	turn  Color
}

func NewPosition() *Position {
	return &Position{
		hands: map[Color]map[Role]int{
			Black: {},
			White: {},
		},
	}
}

func StandardSFEN() string {
	return "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1"
}

func PositionFromSFEN(sfen string) (*Position, error) {
	fields := strings.Fields(sfen)
	if len(fields) < 3 {
		return nil, fmt.Errorf("invalid sfen: %s", sfen)
	}
	pos := NewPosition()
	if fields[1] == "w" {
		pos.turn = White
	}
	if err := parseBoardSFEN(fields[0], pos); err != nil {
		return nil, err
	}
	if err := parseHandsSFEN(fields[2], pos); err != nil {
		return nil, err
	}
	return pos, nil
}

func parseBoardSFEN(board string, pos *Position) error {
	rows := strings.Split(board, "/")
	if len(rows) != 9 {
		return fmt.Errorf("invalid board ranks: %d", len(rows))
	}
	for i, row := range rows {
		file := 9
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '9' {
				file -= int(c - '0')
				continue
			}
			promoted := false
			if c == '+' {
				promoted = true
				j++
				if j >= len(row) {
					return errors.New("dangling promotion marker")
				}
				c = row[j]
			}
			color := Black
			if c >= 'a' && c <= 'z' {
				color = White
				c -= 'a' - 'A'
			}
			role, ok := roleFromLetter(c, promoted)
			if !ok {
				return fmt.Errorf("unknown sfen piece %c", c)
			}
			if file < 1 {
				return errors.New("too many files in rank")
			}
			pos.SetPiece(squareFromKIF(file, i+1), &Piece{Role: role, Color: color})
			file--
		}
		if file != 0 {
			return fmt.Errorf("rank %d does not have 9 files", i+1)
		}
	}
	return nil
}

func parseHandsSFEN(hand string, pos *Position) error {
	if hand == "-" {
		return nil
	}
	count := 0
	for i := 0; i < len(hand); i++ {
		c := hand[i]
		if c >= '0' && c <= '9' {
			count = count*10 + int(c-'0')
			continue
		}
		if count == 0 {
			count = 1
		}
		color := Black
		if c >= 'a' && c <= 'z' {
			color = White
			c -= 'a' - 'A'
		}
		role, ok := roleFromLetter(c, false)
		if !ok || role == King {
			return fmt.Errorf("unknown hand piece %c", c)
		}
		pos.hands[color][role] += count
		count = 0
	}
	if count != 0 {
		return errors.New("trailing hand count")
	}
	return nil
}

func (p *Position) Clone() *Position {
	clone := NewPosition()
	clone.turn = p.turn
	for r := 0; r < 9; r++ {
		for f := 0; f < 9; f++ {
			if p.board[r][f] == nil {
				continue
			}
			piece := *p.board[r][f]
			clone.board[r][f] = &piece
		}
	}
	for color, hand := range p.hands {
		for role, n := range hand {
			clone.hands[color][role] = n
		}
	}
	return clone
}

func (p *Position) Turn() Color {
	return p.turn
}

func (p *Position) SetTurn(c Color) {
	p.turn = c
}

func (p *Position) PieceAt(sq Square) (Piece, bool) {
	if !sq.Valid() || p.board[sq.Rank-1][sq.File-1] == nil {
		return Piece{}, false
	}
	return *p.board[sq.Rank-1][sq.File-1], true
}

// SetPiece places a copy of piece on sq; nil empties the square.
func (p *Position) SetPiece(sq Square, piece *Piece) {
	if !sq.Valid() {
		return
	}
	if piece == nil {
		p.board[sq.Rank-1][sq.File-1] = nil
		return
	}
	cp := *piece
	p.board[sq.Rank-1][sq.File-1] = &cp
}

// SetRole swaps the role of the piece on sq, keeping its color.
func (p *Position) SetRole(sq Square, role Role) error {
	if !sq.Valid() || p.board[sq.Rank-1][sq.File-1] == nil {
		return fmt.Errorf("%w: %s", ErrNoPiece, sq)
	}
	p.board[sq.Rank-1][sq.File-1].Role = role
	return nil
}

func (p *Position) Hand(c Color, r Role) int {
	return p.hands[c][r]
}

func (p *Position) ToSFEN(moveNumber int) string {
	rows := make([]string, 0, 9)
	for kifRank := 1; kifRank <= 9; kifRank++ {
		rows = append(rows, p.rowToSFEN(kifRank))
	}
	turn := "b"
	if p.turn == White {
		turn = "w"
	}
	hand := p.handsToSFEN()
	if hand == "" {
		hand = "-"
	}
	return fmt.Sprintf("%s %s %s %d", strings.Join(rows, "/"), turn, hand, moveNumber)
}

func (p *Position) rowToSFEN(kifRank int) string {
	var b strings.Builder
	empty := 0
	flushEmpty := func() {
		if empty > 0 {
			fmt.Fprintf(&b, "%d", empty)
			empty = 0
		}
	}
	for file := 9; file >= 1; file-- {
		piece, ok := p.PieceAt(squareFromKIF(file, kifRank))
		if !ok {
			empty++
			continue
		}
		flushEmpty()
		b.WriteString(piece.sfen())
	}
	flushEmpty()
	return b.String()
}

func (p *Position) handsToSFEN() string {
	order := []Role{Rook, Bishop, Gold, Silver, Knight, Lance, Pawn}
	var b strings.Builder
	for _, color := range []Color{Black, White} {
		for _, role := range order {
			count := p.hands[color][role]
			if count == 0 {
				continue
			}
			if count > 1 {
				fmt.Fprintf(&b, "%d", count)
			}
			b.WriteString(Piece{Role: role, Color: color}.sfen())
		}
	}
	return b.String()
}

// USIMove is a parsed USI move such as "7g7f", "8h2b+" or "P*5e".
type USIMove struct {
	From    Square
	To      Square
	Drop    bool
	Role    Role // dropped role; zero for board moves
	Promote bool
}

func (m USIMove) String() string {
	if m.Drop {
		return fmt.Sprintf("%s*%s", roleDefs[m.Role].letter, m.To)
	}
	text := m.From.String() + m.To.String()
	if m.Promote {
		text += "+"
	}
	return text
}

func ParseUSIMove(move string) (USIMove, error) {
	if strings.Contains(move, "*") {
		parts := strings.SplitN(move, "*", 2)
		if len(parts) != 2 || len(parts[0]) != 1 {
			return USIMove{}, fmt.Errorf("invalid drop move: %s", move)
		}
		role, ok := roleFromLetter(strings.ToUpper(parts[0])[0], false)
		if !ok || role == King {
			return USIMove{}, fmt.Errorf("invalid drop piece: %s", move)
		}
		to, err := parseUSISquare(parts[1])
		if err != nil {
			return USIMove{}, err
		}
		return USIMove{Drop: true, Role: role, To: to}, nil
	}
	if len(move) < 4 {
		return USIMove{}, fmt.Errorf("invalid move: %s", move)
	}
	from, err := parseUSISquare(move[0:2])
	if err != nil {
		return USIMove{}, err
	}
	to, err := parseUSISquare(move[2:4])
	if err != nil {
		return USIMove{}, err
	}
	promote := false
	if len(move) > 4 {
		if move[4] != '+' || len(move) > 5 {
			return USIMove{}, fmt.Errorf("invalid promotion marker: %s", move)
		}
		promote = true
	}
	return USIMove{From: from, To: to, Promote: promote}, nil
}

func parseUSISquare(text string) (Square, error) {
	if len(text) != 2 || text[1] < 'a' || text[1] > 'i' {
		return Square{}, fmt.Errorf("%w: %s", ErrBadSquare, text)
	}
	return ParseSquare(text)
}

// Candidate describes m as a promotion candidate against p, before it is played.
func (p *Position) Candidate(m USIMove) (Candidate, error) {
	if m.Drop {
		return Candidate{Orig: m.To, Dest: m.To, Role: m.Role, Drop: true}, nil
	}
	piece, ok := p.PieceAt(m.From)
	if !ok {
		return Candidate{}, fmt.Errorf("%w: %s", ErrNoPiece, m.From)
	}
	cand := Candidate{Orig: m.From, Dest: m.To, Role: piece.Role}
	if captured, ok := p.PieceAt(m.To); ok {
		cand.Capture = &captured
	}
	return cand, nil
}

func (p *Position) ApplyMove(move string) error {
	parsed, err := ParseUSIMove(move)
	if err != nil {
		return err
	}
	return p.Apply(parsed)
}

func (p *Position) Apply(m USIMove) error {
	if m.Drop {
		return p.applyDrop(m)
	}
	return p.applyMove(m)
}

func (p *Position) applyDrop(m USIMove) error {
	hand := p.hands[p.turn]
	if hand[m.Role] == 0 {
		return fmt.Errorf("no %s in hand", m.Role)
	}
	if _, ok := p.PieceAt(m.To); ok {
		return errors.New("drop destination occupied")
	}
	hand[m.Role]--
	if hand[m.Role] == 0 {
		delete(hand, m.Role)
	}
	p.SetPiece(m.To, &Piece{Role: m.Role, Color: p.turn})
	p.toggleTurn()
	return nil
}

func (p *Position) applyMove(m USIMove) error {
	piece, ok := p.PieceAt(m.From)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoPiece, m.From)
	}
	if piece.Color != p.turn {
		return errors.New("moving opponent piece")
	}
	if m.Promote && !IsPromotable(piece.Role) {
		return fmt.Errorf("cannot promote %s", piece.Role)
	}
	if captured, ok := p.PieceAt(m.To); ok {
		if captured.Color == p.turn {
			return errors.New("capturing own piece")
		}
		p.hands[p.turn][Unpromote(captured.Role)]++
	}
	p.SetPiece(m.From, nil)
	if m.Promote {
		piece.Role = Promote(piece.Role)
	}
	p.SetPiece(m.To, &piece)
	p.toggleTurn()
	return nil
}

func (p *Position) toggleTurn() {
	p.turn = p.turn.Opposite()
}
