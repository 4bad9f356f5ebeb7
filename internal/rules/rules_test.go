package rules

import (
	"errors"
	"testing"
)

const hangingQueenFEN = "k7/8/4p3/3Q4/8/8/8/7K w - - 0 1"

func TestFromFENInvalid(t *testing.T) {
	cases := []string{
		"",
		"not a fen",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1", // missing rank
	}
	for _, fen := range cases {
		if _, err := FromFEN(fen); !errors.Is(err, ErrInvalidPosition) {
			t.Errorf("FromFEN(%q) = %v, want ErrInvalidPosition", fen, err)
		}
	}
}

func TestLegalMovesStartingPosition(t *testing.T) {
	moves := LegalMoves(StartingPosition())
	if len(moves) != 20 {
		t.Fatalf("starting position has %d legal moves, want 20", len(moves))
	}
	for _, m := range moves {
		if m.Piece != Pawn && m.Piece != Knight {
			t.Errorf("unexpected first-move piece %v in %s", m.Piece, m)
		}
		if m.IsCapture() {
			t.Errorf("capture %s in starting position", m)
		}
	}
}

func TestApplyIsImmutable(t *testing.T) {
	pos := StartingPosition()
	before := pos.FEN()

	m, ok := ParseUCI(pos, "e2e4")
	if !ok {
		t.Fatal("e2e4 not legal in starting position")
	}
	next, err := pos.Apply(m)
	if err != nil {
		t.Fatalf("Apply(e2e4): %v", err)
	}

	if pos.FEN() != before {
		t.Errorf("Apply mutated the receiver: %s", pos.FEN())
	}
	if next.Turn() != Black {
		t.Errorf("turn after e2e4 = %v, want Black", next.Turn())
	}
	if next.PieceAt(MustSquare("e4")).Type() != Pawn {
		t.Error("pawn did not arrive on e4")
	}
}

func TestApplyIllegalMove(t *testing.T) {
	pos := StartingPosition()
	bogus := Move{From: MustSquare("e2"), To: MustSquare("e5"), Piece: Pawn}
	if _, err := pos.Apply(bogus); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Apply(e2e5) = %v, want ErrIllegalMove", err)
	}
}

func TestInCheck(t *testing.T) {
	cases := []struct {
		fen  string
		want bool
	}{
		{"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1", false},
		{"4k3/8/8/8/8/8/4q3/4K3 w - - 0 1", true},   // queen touches the king
		{"4k3/8/8/8/8/8/8/4R1K1 b - - 0 1", true},   // rook on the open e-file
		{"4k3/8/8/1b6/8/8/8/4K3 w - - 0 1", false},  // bishop off the diagonal
		{"4k3/8/8/8/1b6/8/8/4K3 w - - 0 1", true},   // bishop on the b4-e1 diagonal
		{"4k3/8/8/8/3n4/8/8/4K3 w - - 0 1", false},  // knight out of range
		{"4k3/8/8/8/8/8/2n5/4K3 w - - 0 1", true},   // knight a hop away
	}
	for _, tc := range cases {
		pos, err := FromFEN(tc.fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", tc.fen, err)
		}
		if got := pos.InCheck(); got != tc.want {
			t.Errorf("InCheck(%q) = %v, want %v", tc.fen, got, tc.want)
		}
	}
}

func TestAttackersOfHangingQueen(t *testing.T) {
	pos, err := FromFEN(hangingQueenFEN)
	if err != nil {
		t.Fatal(err)
	}
	d5 := MustSquare("d5")

	attackers := AttackersOf(pos, d5, Black)
	if len(attackers) != 1 {
		t.Fatalf("attackers of d5 = %d, want 1 (the e6 pawn)", len(attackers))
	}
	if attackers[0].Piece != Pawn || attackers[0].From != MustSquare("e6") {
		t.Errorf("attacker = %+v, want pawn from e6", attackers[0])
	}
	if attackers[0].Captured != Queen {
		t.Errorf("attacker capture target = %v, want Queen", attackers[0].Captured)
	}

	if defenders := DefendersOf(pos, d5); len(defenders) != 0 {
		t.Errorf("queen on d5 should be undefended, got %d defenders", len(defenders))
	}
}

func TestDefendersOfSeesRecapture(t *testing.T) {
	// Knight on c3 defended by the b2 pawn.
	pos, err := FromFEN("k7/8/8/8/8/2N5/1P6/6K1 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	defenders := DefendersOf(pos, MustSquare("c3"))
	if len(defenders) != 1 || defenders[0].Piece != Pawn {
		t.Fatalf("defenders of c3 = %v, want the b2 pawn", defenders)
	}
}

func TestAttackerSquaresBlockedRay(t *testing.T) {
	// Rook behind its own pawn does not attack through it.
	pos, err := FromFEN("k7/8/8/8/3q4/8/3P4/3R2K1 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	d4 := MustSquare("d4")
	if SquareAttackedBy(pos, d4, White) {
		t.Error("rook should not attack d4 through its own pawn")
	}
	if !SquareAttackedBy(pos, MustSquare("d2"), Black) {
		t.Error("black queen should attack the d2 pawn")
	}
}

func TestZobristTablesSeeded(t *testing.T) {
	// The fixed-seed init must fill every table; a zeroed table would hash
	// distinct positions identically.
	if zobristSideToMove == 0 {
		t.Error("side-to-move key is zero")
	}
	for p := range zobristPieces {
		for sq := range zobristPieces[p] {
			if zobristPieces[p][sq] == 0 {
				t.Fatalf("piece key (%d, %d) is zero", p, sq)
			}
		}
	}
	if key := StartingPosition().Zobrist(); key == 0 {
		t.Error("starting position hashes to zero")
	}
}

func TestZobristDistinguishesHiddenFields(t *testing.T) {
	base := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	variants := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1", // side to move
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w Qkq - 0 1",  // castling rights
	}

	pos, err := FromFEN(base)
	if err != nil {
		t.Fatal(err)
	}
	baseKey := pos.Zobrist()

	if again := pos.Zobrist(); again != baseKey {
		t.Fatalf("Zobrist not stable: %016x != %016x", again, baseKey)
	}

	for _, fen := range variants {
		v, err := FromFEN(fen)
		if err != nil {
			t.Fatalf("FromFEN(%q): %v", fen, err)
		}
		if v.Zobrist() == baseKey {
			t.Errorf("FEN %q hashes identically to the base position", fen)
		}
	}

	// En-passant: the double push must hash differently from the same board
	// without an en-passant target.
	afterPush, err := FromFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1")
	if err != nil {
		t.Fatal(err)
	}
	noTarget, err := FromFEN("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if afterPush.Zobrist() == noTarget.Zobrist() {
		t.Error("en-passant target not reflected in the position key")
	}
}

func TestZobristTransposition(t *testing.T) {
	// 1. Nf3 Nf6 2. Ng1 Ng8 returns to the start; the key must match a
	// freshly built starting position apart from nothing at all.
	pos := StartingPosition()
	startKey := pos.Zobrist()

	for _, uci := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		m, ok := ParseUCI(pos, uci)
		if !ok {
			t.Fatalf("%s not legal", uci)
		}
		var err error
		pos, err = pos.Apply(m)
		if err != nil {
			t.Fatal(err)
		}
	}

	if pos.Zobrist() != startKey {
		t.Logf("note: keys differ only if counters leak into the hash")
		t.Errorf("shuffled-back position key %016x != start key %016x", pos.Zobrist(), startKey)
	}
}

func TestPlyAndCounters(t *testing.T) {
	pos, err := FromFEN("rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2")
	if err != nil {
		t.Fatal(err)
	}
	if got := pos.Ply(); got != 2 {
		t.Errorf("Ply() = %d, want 2", got)
	}
	if got := pos.MoveCount(); got != 2 {
		t.Errorf("MoveCount() = %d, want 2", got)
	}
}

func TestDrawDetection(t *testing.T) {
	fifty, err := FromFEN("k7/8/8/8/8/8/8/K6R w - - 100 80")
	if err != nil {
		t.Fatal(err)
	}
	if !fifty.IsDraw() {
		t.Error("halfmove clock 100 should be a draw")
	}

	bare, err := FromFEN("k7/8/8/8/8/8/8/K5N1 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !bare.IsDraw() {
		t.Error("king+knight vs king is insufficient material")
	}

	live, err := FromFEN(hangingQueenFEN)
	if err != nil {
		t.Fatal(err)
	}
	if live.IsDraw() {
		t.Error("queen endgame flagged as a draw")
	}
}

func TestUCIRoundTrip(t *testing.T) {
	pos := StartingPosition()
	for _, m := range LegalMoves(pos) {
		got, ok := ParseUCI(pos, m.String())
		if !ok {
			t.Errorf("ParseUCI(%q) failed", m.String())
			continue
		}
		if !got.Same(m) {
			t.Errorf("round trip %q => %q", m.String(), got.String())
		}
	}
}
