package nari

import (
	"fmt"
	"strings"
)

type Role int

const (
	Pawn Role = iota
	Lance
	Knight
	Silver
	Gold
	Bishop
	Rook
	King
	Tokin
	PromotedLance
	PromotedKnight
	PromotedSilver
	Horse
	Dragon
)

type roleDef struct {
	name     string
	letter   string // SFEN letter of the unpromoted form
	kif      string
	base     Role
	promoted Role
	canPromo bool
	isPromo  bool
}

// roleDefs is the single table every role predicate reads from.
var roleDefs = [...]roleDef{
	Pawn:           {name: "pawn", letter: "P", kif: "歩", base: Pawn, promoted: Tokin, canPromo: true},
	Lance:          {name: "lance", letter: "L", kif: "香", base: Lance, promoted: PromotedLance, canPromo: true},
	Knight:         {name: "knight", letter: "N", kif: "桂", base: Knight, promoted: PromotedKnight, canPromo: true},
	Silver:         {name: "silver", letter: "S", kif: "銀", base: Silver, promoted: PromotedSilver, canPromo: true},
	Gold:           {name: "gold", letter: "G", kif: "金", base: Gold, promoted: Gold},
	Bishop:         {name: "bishop", letter: "B", kif: "角", base: Bishop, promoted: Horse, canPromo: true},
	Rook:           {name: "rook", letter: "R", kif: "飛", base: Rook, promoted: Dragon, canPromo: true},
	King:           {name: "king", letter: "K", kif: "玉", base: King, promoted: King},
	Tokin:          {name: "tokin", letter: "P", kif: "と", base: Pawn, promoted: Tokin, isPromo: true},
	PromotedLance:  {name: "promotedlance", letter: "L", kif: "成香", base: Lance, promoted: PromotedLance, isPromo: true},
	PromotedKnight: {name: "promotedknight", letter: "N", kif: "成桂", base: Knight, promoted: PromotedKnight, isPromo: true},
	PromotedSilver: {name: "promotedsilver", letter: "S", kif: "成銀", base: Silver, promoted: PromotedSilver, isPromo: true},
	Horse:          {name: "horse", letter: "B", kif: "馬", base: Bishop, promoted: Horse, isPromo: true},
	Dragon:         {name: "dragon", letter: "R", kif: "龍", base: Rook, promoted: Dragon, isPromo: true},
}

// Roles lists every role in table order.
func Roles() []Role {
	out := make([]Role, len(roleDefs))
	for i := range roleDefs {
		out[i] = Role(i)
	}
	return out
}

func (r Role) valid() bool {
	return r >= 0 && int(r) < len(roleDefs)
}

func (r Role) String() string {
	if !r.valid() {
		return fmt.Sprintf("role(%d)", int(r))
	}
	return roleDefs[r].name
}

// Kanji returns the KIF name of the role.
func (r Role) Kanji() string {
	if !r.valid() {
		return "?"
	}
	return roleDefs[r].kif
}

// IsPromotable reports whether r is one of the six roles that can promote.
func IsPromotable(r Role) bool {
	return r.valid() && roleDefs[r].canPromo
}

func IsPromoted(r Role) bool {
	return r.valid() && roleDefs[r].isPromo
}

// Promote returns the promoted counterpart of r, or r itself when it has none.
func Promote(r Role) Role {
	if !r.valid() {
		return r
	}
	return roleDefs[r].promoted
}

// Unpromote returns the base role r promotes from.
func Unpromote(r Role) Role {
	if !r.valid() {
		return r
	}
	return roleDefs[r].base
}

type Piece struct {
	Role  Role
	Color Color
}

// sfen renders the piece the way SFEN does: "+p" for a white tokin.
func (p Piece) sfen() string {
	text := roleDefs[p.Role].letter
	if IsPromoted(p.Role) {
		text = "+" + text
	}
	if p.Color == White {
		return strings.ToLower(text)
	}
	return text
}

func roleFromLetter(letter byte, promoted bool) (Role, bool) {
	for i, def := range roleDefs {
		if def.isPromo != promoted || def.letter[0] != letter {
			continue
		}
		return Role(i), true
	}
	return 0, false
}
