package nari

import (
	"errors"
	"fmt"
)

type Color int

const (
	Black Color = iota // sente, moves first
	White              // gote
)

func (c Color) Opposite() Color {
	if c == Black {
		return White
	}
	return Black
}

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// ParseColor accepts the names used in configs and on the command line.
func ParseColor(text string) (Color, error) {
	switch text {
	case "black", "sente", "b":
		return Black, nil
	case "white", "gote", "w":
		return White, nil
	default:
		return Black, fmt.Errorf("unknown color: %s", text)
	}
}

var ErrBadSquare = errors.New("invalid square")

// Square is a board coordinate. Rank counts from Black's back rank (1) to
// White's back rank (9), the way board widgets key their squares.
type Square struct {
	File int
	Rank int
}

func (s Square) Valid() bool {
	return s.File >= 1 && s.File <= 9 && s.Rank >= 1 && s.Rank <= 9
}

// String formats the square in USI notation, e.g. "7g".
func (s Square) String() string {
	if !s.Valid() {
		return "??"
	}
	return fmt.Sprintf("%d%c", s.File, rankToLetter(s.Rank))
}

// Key formats the square as file digit + rank digit, e.g. "73".
func (s Square) Key() string {
	if !s.Valid() {
		return "??"
	}
	return fmt.Sprintf("%d%d", s.File, s.Rank)
}

// ParseSquare reads either a widget key ("73") or a USI square ("7g").
func ParseSquare(text string) (Square, error) {
	if len(text) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrBadSquare, text)
	}
	file := int(text[0] - '0')
	if file < 1 || file > 9 {
		return Square{}, fmt.Errorf("%w: bad file in %q", ErrBadSquare, text)
	}
	r := text[1]
	switch {
	case r >= '1' && r <= '9':
		return Square{File: file, Rank: int(r - '0')}, nil
	case r >= 'a' && r <= 'i':
		return Square{File: file, Rank: letterToRank(r)}, nil
	default:
		return Square{}, fmt.Errorf("%w: bad rank in %q", ErrBadSquare, text)
	}
}

// USI rank 'a' is White's back rank.
func rankToLetter(rank int) byte {
	return byte('a' + 9 - rank)
}

func letterToRank(letter byte) int {
	return 9 - int(letter-'a')
}

// kifRank converts to the rank numbering of KIF and SFEN rows (1 = White's back rank).
func (s Square) kifRank() int {
	return 10 - s.Rank
}

func squareFromKIF(file, kifRank int) Square {
	return Square{File: file, Rank: 10 - kifRank}
}
