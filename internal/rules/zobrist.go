package rules

import (
	"math/rand"

	"github.com/notnil/chess"
)

// Zobrist hashing for transposition-table and opening-book keys. The key
// covers piece placement, castling rights, the en-passant file and the side
// to move, so two positions that differ only in those hidden FEN fields
// never collide by construction. Identical board states reached through
// different move orders intentionally share a key; that is what makes the
// transposition table work.
var (
	zobristPieces     [12][64]uint64 // (color, piece type) x square
	zobristCastling   [16]uint64     // 4-bit castling-rights mask
	zobristEnPassant  [8]uint64      // en-passant file
	zobristSideToMove uint64         // xored in when Black is to move
)

// zobristSeed is fixed: the same position must hash identically across
// runs, or a serialized opening-book overlay would silently stop matching.
const zobristSeed uint64 = 0x9E3779B97F4A7C15

func init() {
	seed := zobristSeed
	rng := rand.New(rand.NewSource(int64(seed)))

	for p := range zobristPieces {
		for sq := range zobristPieces[p] {
			zobristPieces[p][sq] = rng.Uint64()
		}
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.Uint64()
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = rng.Uint64()
	}
	zobristSideToMove = rng.Uint64()
}

// pieceIndex maps a (color, type) pair onto 0..11.
func pieceIndex(pc chess.Piece) int {
	idx := int(pc.Type()) - 1 // King=1 .. Pawn=6
	if pc.Color() == Black {
		idx += 6
	}
	return idx
}

// Zobrist returns the 64-bit position key.
func (p Position) Zobrist() uint64 {
	var h uint64

	board := p.inner.Board()
	for sq := chess.A1; sq <= chess.H8; sq++ {
		pc := board.Piece(sq)
		if pc == chess.NoPiece {
			continue
		}
		h ^= zobristPieces[pieceIndex(pc)][int(sq)]
	}

	h ^= zobristCastling[p.castlingMask()]

	if ep := p.inner.EnPassantSquare(); ep != NoSquare {
		h ^= zobristEnPassant[int(ep.File())]
	}

	if p.Turn() == Black {
		h ^= zobristSideToMove
	}

	return h
}

func (p Position) castlingMask() int {
	cr := p.inner.CastleRights()
	mask := 0
	if cr.CanCastle(White, chess.KingSide) {
		mask |= 1
	}
	if cr.CanCastle(White, chess.QueenSide) {
		mask |= 2
	}
	if cr.CanCastle(Black, chess.KingSide) {
		mask |= 4
	}
	if cr.CanCastle(Black, chess.QueenSide) {
		mask |= 8
	}
	return mask
}
