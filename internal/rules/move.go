package rules

import (
	"strings"

	"github.com/notnil/chess"
)

// Move is a single half-move as a plain value. Captured and Promotion are
// NoPieceType when absent.
type Move struct {
	From      Square
	To        Square
	Piece     PieceType
	Captured  PieceType
	Promotion PieceType
	SAN       string

	// Check records whether the move gives check, as reported by the rules
	// engine. Diagnostic only; not part of move identity.
	Check bool
}

// NoMove is the zero Move, used as an explicit "no move" marker.
var NoMove = Move{}

// IsCapture reports whether the move takes a piece (including en passant).
func (m Move) IsCapture() bool {
	return m.Captured != NoPieceType
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPieceType
}

// Same reports whether two moves describe the same from/to/promotion triple.
// SAN text and tags are ignored, so a book or TT move compares equal to the
// freshly generated legal move it refers to.
func (m Move) Same(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// String returns coordinate notation ("e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "(none)"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += strings.ToLower(pieceLetter(m.Promotion))
	}
	return s
}

func pieceLetter(pt PieceType) string {
	switch pt {
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case King:
		return "K"
	default:
		return "P"
	}
}

// LegalMoves enumerates every legal move in the position, with the moving
// piece, captured piece, promotion and SAN text filled in.
func LegalMoves(p Position) []Move {
	valid := p.inner.ValidMoves()
	moves := make([]Move, 0, len(valid))
	for _, cm := range valid {
		moves = append(moves, fromEngineMove(p, cm))
	}
	return moves
}

// fromEngineMove converts a rules-engine move into our Move value.
func fromEngineMove(p Position, cm *chess.Move) Move {
	board := p.inner.Board()
	m := Move{
		From:      cm.S1(),
		To:        cm.S2(),
		Promotion: cm.Promo(),
		Check:     cm.HasTag(chess.Check),
	}
	if pc := board.Piece(cm.S1()); pc != chess.NoPiece {
		m.Piece = pc.Type()
	}
	switch {
	case cm.HasTag(chess.EnPassant):
		m.Captured = Pawn
	case cm.HasTag(chess.Capture):
		if victim := board.Piece(cm.S2()); victim != chess.NoPiece {
			m.Captured = victim.Type()
		}
	}
	m.SAN = chess.AlgebraicNotation{}.Encode(p.inner, cm)
	return m
}

// findValid locates the underlying engine move matching m, or nil.
func (p Position) findValid(m Move) *chess.Move {
	for _, cm := range p.inner.ValidMoves() {
		if cm.S1() == m.From && cm.S2() == m.To && cm.Promo() == m.Promotion {
			return cm
		}
	}
	return nil
}

// FindLegal resolves a from/to/promotion triple against the position's legal
// moves, returning the fully populated Move.
func FindLegal(p Position, from, to Square, promo PieceType) (Move, bool) {
	for _, cm := range p.inner.ValidMoves() {
		if cm.S1() == from && cm.S2() == to && cm.Promo() == promo {
			return fromEngineMove(p, cm), true
		}
	}
	return NoMove, false
}

// ParseUCI resolves coordinate notation ("e2e4", "e7e8q") against the legal
// moves of the position.
func ParseUCI(p Position, s string) (Move, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) != 4 && len(s) != 5 {
		return NoMove, false
	}
	from, err := ParseSquare(s[:2])
	if err != nil {
		return NoMove, false
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, false
	}
	promo := NoPieceType
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			promo = Queen
		case 'r':
			promo = Rook
		case 'b':
			promo = Bishop
		case 'n':
			promo = Knight
		default:
			return NoMove, false
		}
	}
	return FindLegal(p, from, to, promo)
}
