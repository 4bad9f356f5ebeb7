package rules

import (
	"github.com/notnil/chess"
)

// AttackersOf returns the moves with which `by` could capture on target,
// regardless of whose turn it actually is. It works on an opponent-view
// clone: the side to move is overridden to `by`, and if target is empty or
// held by one of by's own pieces, a throwaway enemy knight is planted there
// so movegen produces the captures. The receiver position is never touched.
//
// Because the census runs through legal move generation, pinned pieces do
// not count as attackers and an attacker that is itself pinned to its king
// is correctly excluded.
func AttackersOf(p Position, target Square, by Color) []Move {
	occ := p.PieceAt(target)

	// King squares can never be capture destinations, and planting over a
	// king would leave the clone without one; fall back to the geometric
	// census there.
	if occ != chess.NoPiece && occ.Type() == King {
		return AttackingMoves(p, target, by)
	}

	var plant byte
	if occ == chess.NoPiece || occ.Color() == by {
		if by == White {
			plant = 'n' // black knight, capturable by White
		} else {
			plant = 'N'
		}
	}

	view := p.withOverrides(target, plant, by)

	var attacks []Move
	for _, cm := range view.inner.ValidMoves() {
		if cm.S2() != target {
			continue
		}
		m := fromEngineMove(view, cm)
		// Report the real occupant, not the planted stand-in.
		if occ != chess.NoPiece && occ.Color() != by {
			m.Captured = occ.Type()
		} else if plant != 0 {
			m.Captured = NoPieceType
			m.SAN = ""
		}
		attacks = append(attacks, m)
	}
	return attacks
}

// DefendersOf returns the moves with which the owner of the piece on target
// could recapture there. The occupant is swapped for an enemy stand-in on a
// clone so its own side's captures onto the square become legal; removing
// the occupant also means pieces it was shielding count as defenders, and
// pieces pinned by its absence do not.
func DefendersOf(p Position, target Square) []Move {
	occ := p.PieceAt(target)
	if occ == chess.NoPiece {
		return nil
	}
	return AttackersOf(p, target, occ.Color())
}

// AttackerSquares returns the squares of every piece of `by` that bears on
// target, computed by board geometry alone. Unlike AttackersOf this ignores
// pins and whose turn it is, and it works for king squares, where the
// movegen-based census cannot (no legal move ever captures a king).
func AttackerSquares(p Position, target Square, by Color) []Square {
	var out []Square
	board := p.inner.Board()
	tf, tr := int(target.File()), int(target.Rank())

	at := func(f, r int) chess.Piece {
		if f < 0 || f > 7 || r < 0 || r > 7 {
			return chess.NoPiece
		}
		return board.Piece(chess.NewSquare(chess.File(f), chess.Rank(r)))
	}
	add := func(f, r int) {
		out = append(out, chess.NewSquare(chess.File(f), chess.Rank(r)))
	}

	// Pawns capture toward their own back rank's opposite.
	pawnRank := tr - 1
	if by == Black {
		pawnRank = tr + 1
	}
	for _, df := range []int{-1, 1} {
		pc := at(tf+df, pawnRank)
		if pc != chess.NoPiece && pc.Color() == by && pc.Type() == Pawn {
			add(tf+df, pawnRank)
		}
	}

	knightSteps := [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	for _, s := range knightSteps {
		pc := at(tf+s[0], tr+s[1])
		if pc != chess.NoPiece && pc.Color() == by && pc.Type() == Knight {
			add(tf+s[0], tr+s[1])
		}
	}

	for df := -1; df <= 1; df++ {
		for dr := -1; dr <= 1; dr++ {
			if df == 0 && dr == 0 {
				continue
			}
			pc := at(tf+df, tr+dr)
			if pc != chess.NoPiece && pc.Color() == by && pc.Type() == King {
				add(tf+df, tr+dr)
			}
		}
	}

	// Sliding rays: first piece hit decides.
	rays := [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	for i, d := range rays {
		diagonal := i >= 4
		for step := 1; step < 8; step++ {
			f, r := tf+d[0]*step, tr+d[1]*step
			if f < 0 || f > 7 || r < 0 || r > 7 {
				break
			}
			pc := at(f, r)
			if pc == chess.NoPiece {
				continue
			}
			if pc.Color() == by {
				t := pc.Type()
				if t == Queen || (diagonal && t == Bishop) || (!diagonal && t == Rook) {
					add(f, r)
				}
			}
			break
		}
	}

	return out
}

// SquareAttackedBy reports whether any piece of `by` bears on target.
func SquareAttackedBy(p Position, target Square, by Color) bool {
	return len(AttackerSquares(p, target, by)) > 0
}

// AttackingMoves converts AttackerSquares into synthesized capture moves
// onto target, for reporting which pieces threaten a square.
func AttackingMoves(p Position, target Square, by Color) []Move {
	squares := AttackerSquares(p, target, by)
	if len(squares) == 0 {
		return nil
	}
	moves := make([]Move, 0, len(squares))
	occ := p.PieceAt(target)
	for _, sq := range squares {
		m := Move{From: sq, To: target, Piece: p.PieceAt(sq).Type()}
		if occ != chess.NoPiece && occ.Color() == by.Other() {
			m.Captured = occ.Type()
		}
		moves = append(moves, m)
	}
	return moves
}

// CheapestAttacker returns the lowest point value among the attacking
// pieces, or 0 when the list is empty.
func CheapestAttacker(attacks []Move) int {
	cheapest := 0
	for _, a := range attacks {
		v := PieceValue(a.Piece)
		if a.Piece == King {
			v = 10 // a king "attack" only matters when nothing defends
		}
		if cheapest == 0 || v < cheapest {
			cheapest = v
		}
	}
	return cheapest
}
