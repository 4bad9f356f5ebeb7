// Package rules is the boundary to the external chess rules engine
// (github.com/notnil/chess). Everything above this package works with the
// types defined here; nothing else imports the chess library directly.
//
// Positions are immutable: Apply returns a fresh Position and never touches
// the receiver, so callers can hold on to a Position across a search without
// worrying about it being mutated underneath them.
package rules

import (
	"errors"

	"github.com/notnil/chess"
)

// ErrInvalidPosition is returned for malformed FEN input.
var ErrInvalidPosition = errors.New("rules: invalid FEN position")

// ErrIllegalMove is returned when a move is applied that the rules engine
// does not accept for the position.
var ErrIllegalMove = errors.New("rules: illegal move")

// Re-exported rules-engine types. Keeping these as aliases lets the rest of
// the module speak squares and piece types without importing the library.
type (
	Color     = chess.Color
	PieceType = chess.PieceType
	Square    = chess.Square
)

const (
	White   = chess.White
	Black   = chess.Black
	NoColor = chess.NoColor

	King        = chess.King
	Queen       = chess.Queen
	Rook        = chess.Rook
	Bishop      = chess.Bishop
	Knight      = chess.Knight
	Pawn        = chess.Pawn
	NoPieceType = chess.NoPieceType

	NoSquare = chess.NoSquare
)

// PieceValue returns the classical point value of a piece type
// (p=1, n=3, b=3, r=5, q=9). Kings and NoPieceType are worth 0.
func PieceValue(pt PieceType) int {
	switch pt {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	default:
		return 0
	}
}

// PieceName returns the lowercase English name of a piece type.
func PieceName(pt PieceType) string {
	switch pt {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	case Knight:
		return "knight"
	case Pawn:
		return "pawn"
	default:
		return "piece"
	}
}

// PieceTypeFromName maps an English piece name to a piece type.
func PieceTypeFromName(name string) (PieceType, bool) {
	switch name {
	case "king":
		return King, true
	case "queen":
		return Queen, true
	case "rook":
		return Rook, true
	case "bishop":
		return Bishop, true
	case "knight":
		return Knight, true
	case "pawn":
		return Pawn, true
	default:
		return NoPieceType, false
	}
}
