package engine

import (
	"sort"

	"github.com/halcyonix/chessmind/internal/rules"
)

// Move ordering priorities
const (
	TTMoveScore    = 10_000_000 // TT move gets highest priority
	CaptureBase    = 1_000_000  // Base score for captures
	PromotionBonus = 900_000
	CheckBonus     = 50_000
	KillerScore1   = 800_000 // First killer move
	KillerScore2   = 700_000 // Second killer move
)

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker): order captures
// by victim value descending, attacker value ascending.
func mvvLva(m rules.Move) int {
	return PieceValueCP(m.Captured)*10 - PieceValueCP(m.Piece)/10
}

// MoveOrderer holds the killer and history heuristics for one search.
type MoveOrderer struct {
	// Killer moves (quiet moves that caused beta cutoffs)
	killers [MaxPly][2]rules.Move

	// History heuristic (indexed by [from][to])
	history [64][64]int
}

// NewMoveOrderer creates a new move orderer.
func NewMoveOrderer() *MoveOrderer {
	return &MoveOrderer{}
}

// Clear resets the orderer between searches. History is aged rather than
// dropped so earlier games still inform ordering.
func (mo *MoveOrderer) Clear() {
	for i := range mo.killers {
		mo.killers[i][0] = rules.NoMove
		mo.killers[i][1] = rules.NoMove
	}
	for i := range mo.history {
		for j := range mo.history[i] {
			mo.history[i][j] /= 2
		}
	}
}

// UpdateKiller records a quiet move that caused a beta cutoff.
func (mo *MoveOrderer) UpdateKiller(move rules.Move, ply int) {
	if move.IsCapture() || ply >= MaxPly {
		return
	}
	if !mo.killers[ply][0].Same(move) {
		mo.killers[ply][1] = mo.killers[ply][0]
		mo.killers[ply][0] = move
	}
}

// UpdateHistory rewards a quiet move that improved alpha at the given depth.
func (mo *MoveOrderer) UpdateHistory(move rules.Move, depth int) {
	if move.IsCapture() {
		return
	}
	mo.history[move.From][move.To] += depth * depth
}

func (mo *MoveOrderer) scoreMove(m rules.Move, ply int, ttMove rules.Move) int {
	if ttMove != rules.NoMove && m.Same(ttMove) {
		return TTMoveScore
	}
	if m.IsCapture() {
		return CaptureBase + mvvLva(m)
	}
	if m.IsPromotion() {
		return PromotionBonus + PieceValueCP(m.Promotion)
	}
	if ply < MaxPly {
		if mo.killers[ply][0].Same(m) {
			return KillerScore1
		}
		if mo.killers[ply][1].Same(m) {
			return KillerScore2
		}
	}
	score := mo.history[m.From][m.To]
	if m.Check {
		score += CheckBonus
	}
	return score
}

type scoredMove struct {
	move  rules.Move
	score int
}

// Order sorts moves in place, best prospects first. The sort is stable so
// equal scores keep generation order and the search stays deterministic.
func (mo *MoveOrderer) Order(moves []rules.Move, ply int, ttMove rules.Move) {
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{move: m, score: mo.scoreMove(m, ply, ttMove)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	for i, sm := range scored {
		moves[i] = sm.move
	}
}
