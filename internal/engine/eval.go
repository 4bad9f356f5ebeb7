// Package engine implements the chess AI search engine.
package engine

import (
	"github.com/halcyonix/chessmind/internal/rules"
)

// Scores are centipawns from the side to move's perspective (negamax
// convention). The API edge converts to pawns as float64.
const (
	Infinity  = 1_000_000
	MateScore = 100_000
	MaxPly    = 64

	// MaxDepth caps iterative deepening regardless of adaptive bonuses.
	MaxDepth = 6
)

// Centipawn piece values.
const (
	PawnValue   = 100
	KnightValue = 320
	BishopValue = 330
	RookValue   = 500
	QueenValue  = 900
)

// PieceValueCP returns the centipawn value of a piece type. Kings are worth
// nothing here; the search never trades them.
func PieceValueCP(pt rules.PieceType) int {
	switch pt {
	case rules.Pawn:
		return PawnValue
	case rules.Knight:
		return KnightValue
	case rules.Bishop:
		return BishopValue
	case rules.Rook:
		return RookValue
	case rules.Queen:
		return QueenValue
	default:
		return 0
	}
}

// Piece-square tables, written rank 8 first so they read like a board from
// White's side. Index for a White piece on square sq (A1=0, rank-major) is
// (7-rank)*8+file; for Black it is rank*8+file.
var pawnTable = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	50, 50, 50, 50, 50, 50, 50, 50,
	10, 10, 20, 30, 30, 20, 10, 10,
	5, 5, 10, 25, 25, 10, 5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, -5, -10, 0, 0, -10, -5, 5,
	5, 10, 10, -20, -20, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0,
}

var knightTable = [64]int{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50,
}

var bishopTable = [64]int{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-20, -10, -10, -10, -10, -10, -10, -20,
}

var rookTable = [64]int{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, 10, 10, 10, 10, 5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	0, 0, 0, 5, 5, 0, 0, 0,
}

var queenTable = [64]int{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-5, 0, 5, 5, 5, 5, 0, -5,
	0, 0, 5, 5, 5, 5, 0, -5,
	-10, 5, 5, 5, 5, 5, 0, -10,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20,
}

// kingMidTable keeps the king tucked away; kingEndTable pulls it toward the
// center once the heavy pieces come off.
var kingMidTable = [64]int{
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	20, 20, 0, 0, 0, 0, 20, 20,
	20, 30, 10, 0, 0, 10, 30, 20,
}

var kingEndTable = [64]int{
	-50, -40, -30, -20, -20, -30, -40, -50,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-50, -30, -30, -30, -30, -30, -30, -50,
}

// Combined non-pawn material at or below this is the endgame for eval
// purposes; matches the analyzer's 16-point line.
const endgameMaterialCP = 1600

func pieceSquareBonus(pt rules.PieceType, color rules.Color, sq rules.Square, endgame bool) int {
	idx := int(sq)
	if color == rules.White {
		idx = (7-int(sq.Rank()))*8 + int(sq.File())
	}
	switch pt {
	case rules.Pawn:
		return pawnTable[idx]
	case rules.Knight:
		return knightTable[idx]
	case rules.Bishop:
		return bishopTable[idx]
	case rules.Rook:
		return rookTable[idx]
	case rules.Queen:
		return queenTable[idx]
	case rules.King:
		if endgame {
			return kingEndTable[idx]
		}
		return kingMidTable[idx]
	}
	return 0
}

// Evaluate statically scores a position from the side to move's perspective.
// Terminal positions are the search's business, not the evaluator's.
func Evaluate(pos rules.Position) int {
	var white, black, nonPawn int

	for s := 0; s < 64; s++ {
		sq := rules.Square(s)
		pc := pos.PieceAt(sq)
		if pc.Type() == rules.NoPieceType {
			continue
		}
		v := PieceValueCP(pc.Type())
		nonPawn += v
		if pc.Type() == rules.Pawn {
			nonPawn -= v
		}
		if pc.Color() == rules.White {
			white += v
		} else {
			black += v
		}
	}

	endgame := nonPawn <= endgameMaterialCP

	for s := 0; s < 64; s++ {
		sq := rules.Square(s)
		pc := pos.PieceAt(sq)
		if pc.Type() == rules.NoPieceType {
			continue
		}
		bonus := pieceSquareBonus(pc.Type(), pc.Color(), sq, endgame)
		if pc.Color() == rules.White {
			white += bonus
		} else {
			black += bonus
		}
	}

	score := white - black
	if pos.Turn() == rules.Black {
		score = -score
	}
	return score
}

// MaterialBalance is the raw centipawn material difference, white minus
// black, independent of the side to move.
func MaterialBalance(pos rules.Position) int {
	var balance int
	for s := 0; s < 64; s++ {
		pc := pos.PieceAt(rules.Square(s))
		if pc.Type() == rules.NoPieceType {
			continue
		}
		if pc.Color() == rules.White {
			balance += PieceValueCP(pc.Type())
		} else {
			balance -= PieceValueCP(pc.Type())
		}
	}
	return balance
}

// NonPawnMaterial is the combined minor and major piece material of both
// sides, in centipawns.
func NonPawnMaterial(pos rules.Position) int {
	var total int
	for s := 0; s < 64; s++ {
		pc := pos.PieceAt(rules.Square(s))
		if pc.Type() == rules.NoPieceType || pc.Type() == rules.Pawn || pc.Type() == rules.King {
			continue
		}
		total += PieceValueCP(pc.Type())
	}
	return total
}

// IsMateScore reports whether a score encodes a forced mate.
func IsMateScore(score int) bool {
	return score > MateScore-MaxPly || score < -MateScore+MaxPly
}
