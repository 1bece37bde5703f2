package nari

import "fmt"

// Violation is a recorded move whose promotion disagrees with Classify.
type Violation struct {
	Ply    int
	Move   string
	Reason string
}

// Audit summarizes the promotion decisions of one game.
type Audit struct {
	GameID     string
	Sente      string
	Gote       string
	Moves      int
	Forced     int
	Promoted   int // optional promotions taken
	Declined   int // optional promotions refused
	Violations []Violation
}

// AuditGame replays g and classifies every board move before it is played.
func AuditGame(g *Game) (Audit, error) {
	a := Audit{GameID: g.ID, Sente: g.Sente, Gote: g.Gote, Moves: len(g.Moves)}
	pos := g.Initial.Clone()
	for _, km := range g.Moves {
		mv := km.Move
		cand, err := pos.Candidate(mv)
		if err != nil {
			return a, fmt.Errorf("ply %d (%s): %w", km.Ply, mv, err)
		}
		switch Classify(cand, pos.Turn()) {
		case PromotionForced:
			a.Forced++
			if !mv.Promote {
				a.Violations = append(a.Violations, Violation{Ply: km.Ply, Move: mv.String(), Reason: "forced promotion not taken"})
			}
		case PromotionOptional:
			if mv.Promote {
				a.Promoted++
			} else {
				a.Declined++
			}
		default:
			if mv.Promote {
				a.Violations = append(a.Violations, Violation{Ply: km.Ply, Move: mv.String(), Reason: "promotion outside the promotion zone"})
				mv.Promote = false
			}
		}
		if err := pos.Apply(mv); err != nil {
			return a, fmt.Errorf("ply %d (%s): %w", km.Ply, mv, err)
		}
	}
	return a, nil
}
