package engine

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/halcyonix/chessmind/internal/book"
	"github.com/halcyonix/chessmind/internal/rules"
)

// Difficulty selects the base search depth.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// ParseDifficulty maps a case-insensitive name to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, nil
	case "medium", "":
		return Medium, nil
	case "hard":
		return Hard, nil
	default:
		return Medium, fmt.Errorf("engine: unknown difficulty %q", s)
	}
}

// Settings are the per-difficulty search parameters.
type Settings struct {
	BaseDepth    int
	BookWeighted bool // weighted-random book pick; Hard plays the top line
}

// DifficultySettings maps difficulty to search parameters. Depth is
// raised adaptively on top of BaseDepth, capped at MaxDepth.
var DifficultySettings = map[Difficulty]Settings{
	Easy:   {BaseDepth: 2, BookWeighted: true},
	Medium: {BaseDepth: 3, BookWeighted: true},
	Hard:   {BaseDepth: 4, BookWeighted: false},
}

// Tie-break policy: moves scoring within tieBreakEpsilon of the best are
// interchangeable, and a checking move is preferred when the side to move is
// ahead by at least clearlyAheadCP.
const (
	tieBreakEpsilon = 30
	clearlyAheadCP  = 200
)

// SearchResult is the engine's answer for one position. Produced fresh per
// call and owned by the caller.
type SearchResult struct {
	Move           rules.Move `json:"-"`
	MoveUCI        string     `json:"move"`
	SAN            string     `json:"san,omitempty"`
	Evaluation     float64    `json:"evaluation"`
	Depth          int        `json:"depth"`
	ThinkingTimeMs int64      `json:"thinkingTimeMs"`
	FromBook       bool       `json:"fromBook"`
	NodesSearched  uint64     `json:"nodesSearched"`
	TTHitRate      float64    `json:"ttHitRate"`
	AnalysisTags   []string   `json:"analysisTags,omitempty"`
}

// Config configures a new Engine.
type Config struct {
	TTSizeMB     int
	Book         *book.Book // nil disables book probes
	BookPlyLimit int        // book is consulted only below this many played plies
	Logger       zerolog.Logger
}

// DefaultConfig returns the stock configuration with the built-in book.
func DefaultConfig() Config {
	return Config{
		TTSizeMB:     64,
		Book:         book.New(),
		BookPlyLimit: 16,
		Logger:       zerolog.Nop(),
	}
}

// Engine owns the transposition table and opening book for its process
// lifetime. Safe for concurrent use; calls are serialized on a mutex so the
// shared table and searcher state stay consistent.
type Engine struct {
	mu       sync.Mutex
	tt       *TranspositionTable
	searcher *Searcher
	book     *book.Book
	bookPly  int
	log      zerolog.Logger
}

// New creates an engine from cfg.
func New(cfg Config) *Engine {
	if cfg.TTSizeMB <= 0 {
		cfg.TTSizeMB = 64
	}
	if cfg.BookPlyLimit <= 0 {
		cfg.BookPlyLimit = 16
	}
	tt := NewTranspositionTable(cfg.TTSizeMB)
	return &Engine{
		tt:       tt,
		searcher: NewSearcher(tt),
		book:     cfg.Book,
		bookPly:  cfg.BookPlyLimit,
		log:      cfg.Logger,
	}
}

// ClearTranspositionTable wipes the table, as at a new-game boundary.
func (e *Engine) ClearTranspositionTable() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tt.Clear()
}

// TTHitRate reports the table hit rate in [0,1].
func (e *Engine) TTHitRate() float64 {
	return e.tt.HitRate()
}

// GetBestMove selects a move for the side to move in fen. history is the
// game's moves so far in coordinate notation; it gates the opening book.
// isNewGame wipes the transposition table before searching.
//
// Returns (nil, nil) only when the position has no legal moves; callers
// must treat that as checkmate or stalemate, not an error.
func (e *Engine) GetBestMove(fen string, difficulty Difficulty, history []string, isNewGame bool) (*SearchResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos, err := rules.FromFEN(fen)
	if err != nil {
		return nil, err
	}

	if isNewGame {
		e.tt.Clear()
	}

	moves := rules.LegalMoves(pos)
	if len(moves) == 0 {
		return nil, nil
	}

	start := time.Now()
	settings, ok := DifficultySettings[difficulty]
	if !ok {
		settings = DifficultySettings[Medium]
	}
	e.searcher.Reset()

	// A mate on the move trumps everything.
	for _, move := range moves {
		child, err := pos.Apply(move)
		if err != nil {
			continue
		}
		if child.IsCheckmate() {
			res := e.newResult(move, MateScore-1, 1, start)
			res.AnalysisTags = append(res.AnalysisTags, "forced-mate")
			e.log.Debug().Str("move", move.String()).Msg("immediate mate found")
			return res, nil
		}
	}

	if e.book != nil && len(history) < e.bookPly {
		if move, found := e.book.Probe(pos, settings.BookWeighted); found {
			res := e.newResult(move, Evaluate(pos), 0, start)
			res.FromBook = true
			res.AnalysisTags = append(res.AnalysisTags, "book")
			e.log.Debug().Str("move", move.String()).Msg("book move played")
			return res, nil
		}
	}

	depth := e.targetDepth(pos, settings)
	e.tt.NewSearch()

	var results []RootMove
	completed := 0
	for d := 1; d <= depth; d++ {
		iter := e.searcher.Search(pos, d)
		if len(iter) == 0 {
			break
		}
		results = iter
		completed = d
		e.log.Debug().
			Int("depth", d).
			Str("best", results[0].Move.String()).
			Int("score", results[0].Score).
			Uint64("nodes", e.searcher.Nodes()).
			Msg("deepening iteration complete")
		if IsMateScore(results[0].Score) {
			break
		}
	}
	if len(results) == 0 {
		// Legal moves exist, so the search returning nothing is a bug in
		// the engine, never a caller error.
		return nil, fmt.Errorf("engine: search produced no move for %q", fen)
	}

	best := e.applyTieBreak(pos, results)
	res := e.newResult(best.Move, best.Score, completed, start)
	if best.Move.Check {
		res.AnalysisTags = append(res.AnalysisTags, "delivers-check")
	}
	if best.Move.IsCapture() {
		res.AnalysisTags = append(res.AnalysisTags, "capture")
	}
	if IsMateScore(best.Score) {
		res.AnalysisTags = append(res.AnalysisTags, "forced-mate")
	}
	return res, nil
}

// applyTieBreak picks among root moves within tieBreakEpsilon of the best:
// when clearly ahead on material, a checking move keeps the pressure on;
// otherwise the first-found best move stands. Deterministic by construction.
func (e *Engine) applyTieBreak(pos rules.Position, results []RootMove) RootMove {
	best := results[0]

	balance := MaterialBalance(pos)
	if pos.Turn() == rules.Black {
		balance = -balance
	}
	if balance < clearlyAheadCP || best.Move.Check {
		return best
	}
	for _, rm := range results[1:] {
		if best.Score-rm.Score > tieBreakEpsilon {
			break
		}
		if rm.Move.Check {
			return rm
		}
	}
	return best
}

// targetDepth applies the adaptive depth policy: deeper in the endgame and
// in materially decided positions, capped at MaxDepth.
func (e *Engine) targetDepth(pos rules.Position, settings Settings) int {
	depth := settings.BaseDepth
	if NonPawnMaterial(pos) <= endgameMaterialCP {
		depth++
	}
	if balance := MaterialBalance(pos); balance >= 500 || balance <= -500 {
		depth++
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}
	return depth
}

func (e *Engine) newResult(move rules.Move, score, depth int, start time.Time) *SearchResult {
	return &SearchResult{
		Move:           move,
		MoveUCI:        move.String(),
		SAN:            move.SAN,
		Evaluation:     float64(score) / 100,
		Depth:          depth,
		ThinkingTimeMs: time.Since(start).Milliseconds(),
		NodesSearched:  e.searcher.Nodes(),
		TTHitRate:      e.tt.HitRate(),
	}
}
