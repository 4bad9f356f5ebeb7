package rules

import (
	"fmt"

	"github.com/notnil/chess"
)

// ParseSquare converts coordinate notation ("e4") to a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("rules: bad square %q", s)
	}
	f := s[0]
	r := s[1]
	if f < 'a' || f > 'h' || r < '1' || r > '8' {
		return NoSquare, fmt.Errorf("rules: bad square %q", s)
	}
	return chess.NewSquare(chess.File(f-'a'), chess.Rank(r-'1')), nil
}

// MustSquare is ParseSquare for known-good literals; it panics on bad input.
func MustSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

// KingZone returns the squares adjacent to sq, plus sq itself.
func KingZone(sq Square) []Square {
	zone := make([]Square, 0, 9)
	f := int(sq.File())
	r := int(sq.Rank())
	for df := -1; df <= 1; df++ {
		for dr := -1; dr <= 1; dr++ {
			nf, nr := f+df, r+dr
			if nf < 0 || nf > 7 || nr < 0 || nr > 7 {
				continue
			}
			zone = append(zone, chess.NewSquare(chess.File(nf), chess.Rank(nr)))
		}
	}
	return zone
}
