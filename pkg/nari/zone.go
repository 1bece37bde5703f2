package nari

// Promotion is the outcome of classifying a candidate move.
type Promotion int

const (
	PromotionNone Promotion = iota
	PromotionForced
	PromotionOptional
)

func (p Promotion) String() string {
	switch p {
	case PromotionForced:
		return "forced"
	case PromotionOptional:
		return "optional"
	default:
		return "none"
	}
}

// Candidate is a move proposed by the caller before promotion is decided.
type Candidate struct {
	Orig Square
	Dest Square
	Role Role
	Drop bool
	// Premove marks a move queued ahead of the mover's turn; the piece still
	// stands on Orig.
	Premove bool
	// FromPremove marks a queued premove that is now being played.
	FromPremove bool
	Capture     *Piece
}

// InFarZone reports whether sq lies in the three ranks nearest c's opponent.
func InFarZone(sq Square, c Color) bool {
	if c == Black {
		return sq.Rank >= 7
	}
	return sq.Rank <= 3
}

// ranksToEdge is how many ranks lie beyond sq in c's moving direction.
func ranksToEdge(sq Square, c Color) int {
	if c == Black {
		return 9 - sq.Rank
	}
	return sq.Rank - 1
}

// IsForced reports whether a piece of role r arriving on dest would have no
// legal move left unless it promotes.
func IsForced(r Role, dest Square, c Color) bool {
	switch r {
	case Pawn, Lance:
		return ranksToEdge(dest, c) == 0
	case Knight:
		return ranksToEdge(dest, c) <= 1
	default:
		return false
	}
}

func Classify(cand Candidate, mover Color) Promotion {
	if cand.Drop || !IsPromotable(cand.Role) {
		return PromotionNone
	}
	if !InFarZone(cand.Orig, mover) && !InFarZone(cand.Dest, mover) {
		return PromotionNone
	}
	if IsForced(cand.Role, cand.Dest, mover) {
		return PromotionForced
	}
	return PromotionOptional
}
