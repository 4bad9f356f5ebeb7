package engine

import (
	"github.com/halcyonix/chessmind/internal/rules"
)

// Quiescence is capped so a long capture chain cannot blow the depth budget.
const maxQuiescencePly = 4

// RootMove is one root move with its backed-up score, kept for tie-breaking.
type RootMove struct {
	Move  rules.Move
	Score int
}

// Searcher runs a single-threaded negamax alpha-beta search against a shared
// transposition table. A Searcher is not safe for concurrent use; the Engine
// serializes access.
type Searcher struct {
	tt      *TranspositionTable
	orderer *MoveOrderer
	nodes   uint64
}

// NewSearcher creates a new searcher.
func NewSearcher(tt *TranspositionTable) *Searcher {
	return &Searcher{
		tt:      tt,
		orderer: NewMoveOrderer(),
	}
}

// Reset prepares the searcher for a fresh search.
func (s *Searcher) Reset() {
	s.nodes = 0
	s.orderer.Clear()
}

// Nodes returns the number of nodes visited by the last search.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// Search runs a fixed-depth search and returns every root move with its
// score, best first. The caller applies the tie-break policy.
func (s *Searcher) Search(pos rules.Position, depth int) []RootMove {
	moves := rules.LegalMoves(pos)
	if len(moves) == 0 {
		return nil
	}

	var ttMove rules.Move
	if entry, ok := s.tt.Probe(pos.Zobrist()); ok {
		ttMove = entry.BestMove
	}
	s.orderer.Order(moves, 0, ttMove)

	// Every root move gets a full-window search so all scores are exact and
	// the tie-break policy can compare them. Subtrees still prune normally.
	results := make([]RootMove, 0, len(moves))
	for _, move := range moves {
		child, err := pos.Apply(move)
		if err != nil {
			continue
		}
		score := -s.negamax(child, depth-1, 1, -Infinity, Infinity)
		results = append(results, RootMove{Move: move, Score: score})
	}

	// Best first; stable so equal scores keep the ordered generation order.
	sortRootMoves(results)

	if len(results) > 0 {
		s.tt.Store(pos.Zobrist(), depth, AdjustScoreToTT(results[0].Score, 0), TTExact, results[0].Move)
	}
	return results
}

func sortRootMoves(rm []RootMove) {
	for i := 1; i < len(rm); i++ {
		for j := i; j > 0 && rm[j].Score > rm[j-1].Score; j-- {
			rm[j], rm[j-1] = rm[j-1], rm[j]
		}
	}
}

// negamax is the recursive alpha-beta search. Scores are from the side to
// move's perspective; mate scores are adjusted by ply so shorter mates win.
func (s *Searcher) negamax(pos rules.Position, depth, ply, alpha, beta int) int {
	s.nodes++

	moves := rules.LegalMoves(pos)
	if len(moves) == 0 {
		if pos.InCheck() {
			return -(MateScore - ply)
		}
		return 0 // stalemate
	}
	if pos.IsDraw() {
		return 0
	}
	if ply >= MaxPly {
		return Evaluate(pos)
	}

	key := pos.Zobrist()
	var ttMove rules.Move
	if entry, ok := s.tt.Probe(key); ok {
		ttMove = entry.BestMove
		if int(entry.Depth) >= depth {
			score := AdjustScoreFromTT(int(entry.Score), ply)
			switch entry.Flag {
			case TTExact:
				return score
			case TTLowerBound:
				if score > alpha {
					alpha = score
				}
			case TTUpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score
			}
		}
	}

	if depth <= 0 {
		return s.quiescence(pos, ply, alpha, beta, 0)
	}

	s.orderer.Order(moves, ply, ttMove)

	flag := TTUpperBound
	bestScore := -Infinity
	bestMove := rules.NoMove

	for _, move := range moves {
		child, err := pos.Apply(move)
		if err != nil {
			continue
		}
		score := -s.negamax(child, depth-1, ply+1, -beta, -alpha)

		if score > bestScore {
			bestScore = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			flag = TTExact
			s.orderer.UpdateHistory(move, depth)
		}
		if alpha >= beta {
			flag = TTLowerBound
			s.orderer.UpdateKiller(move, ply)
			break
		}
	}

	s.tt.Store(key, depth, AdjustScoreToTT(bestScore, ply), flag, bestMove)
	return bestScore
}

// quiescence extends the search along capture chains so the static eval is
// never taken in the middle of an exchange.
func (s *Searcher) quiescence(pos rules.Position, ply, alpha, beta, qply int) int {
	s.nodes++

	standPat := Evaluate(pos)
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}
	if qply >= maxQuiescencePly || ply >= MaxPly {
		return alpha
	}

	moves := rules.LegalMoves(pos)
	captures := moves[:0:0]
	for _, m := range moves {
		if m.IsCapture() {
			captures = append(captures, m)
		}
	}
	s.orderer.Order(captures, ply, rules.NoMove)

	for _, move := range captures {
		child, err := pos.Apply(move)
		if err != nil {
			continue
		}
		score := -s.quiescence(child, ply+1, -beta, -alpha, qply+1)
		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha
}
