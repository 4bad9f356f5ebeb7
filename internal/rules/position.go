package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"
)

// Position is an immutable board state. The zero value is not usable; build
// one with FromFEN or StartingPosition.
type Position struct {
	inner *chess.Position
}

// StartingPosition returns the standard initial position.
func StartingPosition() Position {
	return Position{inner: chess.NewGame().Position()}
}

// FromFEN parses a FEN string. Malformed input yields ErrInvalidPosition.
func FromFEN(fen string) (Position, error) {
	opt, err := chess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	return Position{inner: chess.NewGame(opt).Position()}, nil
}

// FEN serializes the position, including side-to-move, castling rights,
// en-passant target and move counters.
func (p Position) FEN() string {
	return p.inner.String()
}

// Turn returns the side to move.
func (p Position) Turn() Color {
	return p.inner.Turn()
}

// PieceAt returns the piece on sq, or chess.NoPiece.
func (p Position) PieceAt(sq Square) chess.Piece {
	return p.inner.Board().Piece(sq)
}

// KingSquare returns the square of the given side's king.
func (p Position) KingSquare(c Color) Square {
	board := p.inner.Board()
	for sq := chess.A1; sq <= chess.H8; sq++ {
		pc := board.Piece(sq)
		if pc != chess.NoPiece && pc.Type() == King && pc.Color() == c {
			return sq
		}
	}
	return NoSquare
}

// MoveCount returns the FEN fullmove number (1 at the start of the game).
func (p Position) MoveCount() int {
	return p.fenField(5, 1)
}

// HalfmoveClock returns the FEN halfmove clock used by the fifty-move rule.
func (p Position) HalfmoveClock() int {
	return p.fenField(4, 0)
}

func (p Position) fenField(idx, fallback int) int {
	fields := strings.Fields(p.FEN())
	if len(fields) <= idx {
		return fallback
	}
	n, err := strconv.Atoi(fields[idx])
	if err != nil {
		return fallback
	}
	return n
}

// Ply returns the number of half-moves played since the start of the game.
func (p Position) Ply() int {
	ply := (p.MoveCount() - 1) * 2
	if p.Turn() == Black {
		ply++
	}
	return ply
}

// Apply plays m and returns the resulting position. The receiver is left
// untouched. Moves not present in LegalMoves yield ErrIllegalMove.
func (p Position) Apply(m Move) (Position, error) {
	cm := p.findValid(m)
	if cm == nil {
		return Position{}, fmt.Errorf("%w: %s on %s", ErrIllegalMove, m, p.FEN())
	}
	return Position{inner: p.inner.Update(cm)}, nil
}

// IsCheckmate reports whether the side to move is checkmated.
func (p Position) IsCheckmate() bool {
	return p.inner.Status() == chess.Checkmate
}

// IsStalemate reports whether the side to move is stalemated.
func (p Position) IsStalemate() bool {
	return p.inner.Status() == chess.Stalemate
}

// IsDraw reports a fifty-move-rule or insufficient-material draw. Repetition
// draws need game history, which a bare position does not carry; the hosting
// application tracks those.
func (p Position) IsDraw() bool {
	if p.HalfmoveClock() >= 100 {
		return true
	}
	return p.insufficientMaterial()
}

// IsGameOver reports whether the position is terminal.
func (p Position) IsGameOver() bool {
	return p.IsCheckmate() || p.IsStalemate() || p.IsDraw()
}

// InCheck reports whether the side to move is in check. Detection is
// geometric rather than movegen-based: no legal move ever lands on a king
// square, so the capture census cannot answer this question.
func (p Position) InCheck() bool {
	kingSq := p.KingSquare(p.Turn())
	if kingSq == NoSquare {
		return false
	}
	return SquareAttackedBy(p, kingSq, p.Turn().Other())
}

func (p Position) insufficientMaterial() bool {
	board := p.inner.Board()
	minors := 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		pc := board.Piece(sq)
		if pc == chess.NoPiece || pc.Type() == King {
			continue
		}
		switch pc.Type() {
		case Knight, Bishop:
			minors++
		default:
			return false // any pawn, rook or queen is mating material
		}
	}
	return minors <= 1
}

// withOverrides rebuilds the position from its FEN with an optional occupant
// swap at target and the side to move forced. occupant is a FEN piece letter
// ('N', 'n', ...), or 0 to leave the board untouched.
func (p Position) withOverrides(target Square, occupant byte, toMove Color) Position {
	fields := strings.Fields(p.FEN())
	if len(fields) < 6 {
		return p
	}

	if occupant != 0 && target != NoSquare {
		fields[0] = overrideBoardField(fields[0], target, occupant)
	}
	if toMove == White {
		fields[1] = "w"
	} else {
		fields[1] = "b"
	}
	fields[3] = "-" // en-passant is meaningless for the overridden mover
	fields[4] = "0"

	pos, err := FromFEN(strings.Join(fields, " "))
	if err != nil {
		// The source FEN came from the rules engine itself; an edit of it
		// failing to re-parse is a programming error.
		panic(fmt.Sprintf("rules: position override produced bad FEN: %v", err))
	}
	return pos
}

// overrideBoardField sets one square of a FEN board field to the given piece
// letter and re-encodes the field.
func overrideBoardField(field string, target Square, occupant byte) string {
	var grid [8][8]byte // [rankFrom8][file], 0 = empty

	ranks := strings.Split(field, "/")
	for i, rank := range ranks {
		if i > 7 {
			break
		}
		file := 0
		for j := 0; j < len(rank) && file < 8; j++ {
			c := rank[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			grid[i][file] = c
			file++
		}
	}

	grid[7-int(target.Rank())][int(target.File())] = occupant

	var sb strings.Builder
	for i := 0; i < 8; i++ {
		if i > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for f := 0; f < 8; f++ {
			if grid[i][f] == 0 {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(grid[i][f])
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	return sb.String()
}
