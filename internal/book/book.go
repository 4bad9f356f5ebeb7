// Package book holds the opening book: known early positions mapped to
// weighted candidate moves, keyed by the position's Zobrist hash.
package book

import (
	"math/rand"
	"sort"

	"github.com/halcyonix/chessmind/internal/rules"
)

// Entry is one candidate move for a known position, in coordinate notation.
type Entry struct {
	UCI    string `json:"uci"`
	Weight uint16 `json:"weight"`
}

// Book maps position keys to candidate moves. Read-mostly after
// construction; Merge is the only mutating call and is not safe to run
// concurrently with probes.
type Book struct {
	entries map[uint64][]Entry
}

// seedLine is an opening mainline from the starting position.
type seedLine struct {
	name   string
	weight uint16
	moves  []string
}

// Built-in mainlines. Every prefix position of every line gets a book entry
// for the move that continues it.
var seedLines = []seedLine{
	{"ruy lopez", 100, []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6", "b5a4", "g8f6", "e1g1"}},
	{"sicilian najdorf", 95, []string{"e2e4", "c7c5", "g1f3", "d7d6", "d2d4", "c5d4", "f3d4", "g8f6", "b1c3", "a7a6"}},
	{"italian game", 90, []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "f8c5", "c2c3", "g8f6", "d2d3"}},
	{"queens gambit declined", 85, []string{"d2d4", "d7d5", "c2c4", "e7e6", "b1c3", "g8f6", "c4d5", "e6d5"}},
	{"kings indian", 80, []string{"d2d4", "g8f6", "c2c4", "g7g6", "b1c3", "f8g7", "e2e4", "d7d6"}},
	{"slav defense", 75, []string{"d2d4", "d7d5", "c2c4", "c7c6", "g1f3", "g8f6", "b1c3"}},
	{"french defense", 70, []string{"e2e4", "e7e6", "d2d4", "d7d5", "b1c3", "g8f6"}},
	{"caro-kann", 65, []string{"e2e4", "c7c6", "d2d4", "d7d5", "b1c3", "d5e4", "c3e4", "b8d7"}},
	{"london system", 60, []string{"d2d4", "d7d5", "g1f3", "g8f6", "c1f4", "c7c5", "e2e3", "b8c6"}},
	{"english opening", 55, []string{"c2c4", "e7e5", "b1c3", "g8f6", "g1f3", "b8c6"}},
	{"reti opening", 50, []string{"g1f3", "d7d5", "c2c4", "e7e6", "g2g3", "g8f6", "f1g2"}},
	{"scandinavian", 45, []string{"e2e4", "d7d5", "e4d5", "d8d5", "b1c3", "d5a5"}},
}

// New creates the built-in book from the seed mainlines.
func New() *Book {
	b := NewEmpty()
	for _, line := range seedLines {
		b.AddLine(line.moves, line.weight)
	}
	return b
}

// NewEmpty creates a book with no entries.
func NewEmpty() *Book {
	return &Book{entries: make(map[uint64][]Entry)}
}

// AddLine walks a move sequence from the starting position, adding a book
// entry for each prefix position. The walk stops at the first move that is
// not legal in its position.
func (b *Book) AddLine(moves []string, weight uint16) {
	pos := rules.StartingPosition()
	for _, uci := range moves {
		move, ok := rules.ParseUCI(pos, uci)
		if !ok {
			return
		}
		b.add(pos.Zobrist(), uci, weight)
		next, err := pos.Apply(move)
		if err != nil {
			return
		}
		pos = next
	}
}

// add records an entry, deduplicating on the move and keeping the higher
// weight when the same move arrives from two lines.
func (b *Book) add(key uint64, uci string, weight uint16) {
	for i, e := range b.entries[key] {
		if e.UCI == uci {
			if weight > e.Weight {
				b.entries[key][i].Weight = weight
			}
			return
		}
	}
	b.entries[key] = append(b.entries[key], Entry{UCI: uci, Weight: weight})
}

// Merge folds overlay entries (for example a stored learned book) into the
// book, using the same dedup-by-higher-weight rule as construction.
func (b *Book) Merge(overlay map[uint64][]Entry) {
	for key, entries := range overlay {
		for _, e := range entries {
			b.add(key, e.UCI, e.Weight)
		}
	}
}

// Entries exposes the raw table for persistence.
func (b *Book) Entries() map[uint64][]Entry {
	return b.entries
}

// Probe looks the position up and returns a legal book move. With weighted
// set, the pick is weighted-random across the candidates; otherwise the
// top-weighted candidate is chosen, deterministically.
//
// Every candidate is re-verified against the position's legal moves before
// being returned; unverifiable entries are skipped.
func (b *Book) Probe(pos rules.Position, weighted bool) (rules.Move, bool) {
	if b == nil {
		return rules.NoMove, false
	}
	candidates := b.ProbeAll(pos)
	if len(candidates) == 0 {
		return rules.NoMove, false
	}

	if weighted {
		totalWeight := 0
		for _, e := range candidates {
			totalWeight += int(e.Weight)
		}
		if totalWeight > 0 {
			r := rand.Intn(totalWeight)
			cumulative := 0
			for _, e := range candidates {
				cumulative += int(e.Weight)
				if r < cumulative {
					if move, ok := rules.ParseUCI(pos, e.UCI); ok {
						return move, true
					}
					break // fall through to the deterministic scan
				}
			}
		}
	}

	for _, e := range candidates {
		if move, ok := rules.ParseUCI(pos, e.UCI); ok {
			return move, true
		}
	}
	return rules.NoMove, false
}

// ProbeAll returns all book entries for the position, highest weight first.
// Ties break on the move text so the order is stable.
func (b *Book) ProbeAll(pos rules.Position) []Entry {
	if b == nil {
		return nil
	}
	entries, ok := b.entries[pos.Zobrist()]
	if !ok {
		return nil
	}
	result := make([]Entry, len(entries))
	copy(result, entries)
	sort.Slice(result, func(i, j int) bool {
		if result[i].Weight != result[j].Weight {
			return result[i].Weight > result[j].Weight
		}
		return result[i].UCI < result[j].UCI
	})
	return result
}

// Size returns the number of unique positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
