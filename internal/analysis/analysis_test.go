package analysis

import (
	"strings"
	"testing"

	"github.com/halcyonix/chessmind/internal/rules"
)

const hangingQueenFEN = "k7/8/4p3/3Q4/8/8/8/7K w - - 0 1"

func TestAnalyzeRejectsBadFEN(t *testing.T) {
	if _, err := Analyze("not a fen"); err == nil {
		t.Fatal("expected error for malformed FEN")
	}
}

func TestStartingPositionBaseline(t *testing.T) {
	a, err := Analyze(rules.StartingPosition().FEN())
	if err != nil {
		t.Fatal(err)
	}
	if a.GamePhase != PhaseOpening {
		t.Errorf("phase = %s, want %s", a.GamePhase, PhaseOpening)
	}
	if a.UrgencyLevel != UrgencyStrategic {
		t.Errorf("urgency = %s, want %s", a.UrgencyLevel, UrgencyStrategic)
	}
	if a.Material.Imbalance != 0 {
		t.Errorf("imbalance = %d, want 0", a.Material.Imbalance)
	}
	if a.Material.White.Total != 39 || a.Material.Black.Total != 39 {
		t.Errorf("totals = %d/%d, want 39/39", a.Material.White.Total, a.Material.Black.Total)
	}
	if !a.KingSafety.White.Safe || !a.KingSafety.Black.Safe {
		t.Error("both kings should be safe at the start")
	}
	if len(a.Threats) != 0 {
		t.Errorf("threats = %v, want none", a.Threats)
	}
}

func TestMaterialCounts(t *testing.T) {
	// White: queen + rook + pawn; black: two knights + bishop.
	a, err := Analyze("k7/8/2nn4/4b3/8/2Q5/PR6/K7 w - - 0 20")
	if err != nil {
		t.Fatal(err)
	}
	w, b := a.Material.White, a.Material.Black
	if w.Queens != 1 || w.Rooks != 1 || w.Pawns != 1 || w.Total != 15 {
		t.Errorf("white material = %+v", w)
	}
	if b.Knights != 2 || b.Bishops != 1 || b.Total != 9 {
		t.Errorf("black material = %+v", b)
	}
	if a.Material.Imbalance != 6 {
		t.Errorf("imbalance = %d, want 6", a.Material.Imbalance)
	}
}

func TestHangingQueenIsEmergency(t *testing.T) {
	a, err := Analyze(hangingQueenFEN)
	if err != nil {
		t.Fatal(err)
	}
	if a.UrgencyLevel != UrgencyEmergency {
		t.Fatalf("urgency = %s, want %s", a.UrgencyLevel, UrgencyEmergency)
	}
	d5 := rules.MustSquare("d5")
	found := false
	for _, tr := range a.Threats {
		if tr.Square != d5 {
			continue
		}
		found = true
		if tr.Piece != rules.Queen {
			t.Errorf("piece on d5 = %v, want queen", tr.Piece)
		}
		if !tr.IsHanging {
			t.Error("queen on d5 should be hanging")
		}
		if len(tr.AttackedBy) != 1 {
			t.Errorf("attackers = %d, want 1", len(tr.AttackedBy))
		}
	}
	if !found {
		t.Fatal("no threat record for d5")
	}

	saveRec := false
	for _, r := range a.Recommendations {
		if strings.Contains(r, "queen") && strings.Contains(r, "d5") {
			saveRec = true
		}
	}
	if !saveRec {
		t.Errorf("recommendations %v should mention saving the queen on d5", a.Recommendations)
	}
}

func TestDefendedPieceAttackedByCheaperStillHangs(t *testing.T) {
	// Black pawn on b5 attacks the white rook on c4; the rook is defended
	// by the b3 pawn, but pawn takes rook still wins the exchange.
	a, err := Analyze("k7/8/8/1p6/2R5/1P6/8/K7 b - - 0 30")
	if err != nil {
		t.Fatal(err)
	}
	c4 := rules.MustSquare("c4")
	for _, tr := range a.Threats {
		if tr.Square != c4 {
			continue
		}
		if len(tr.DefendedBy) == 0 {
			t.Error("rook on c4 should have a defender")
		}
		if !tr.IsHanging {
			t.Error("defended rook attacked by a pawn should count as hanging")
		}
		return
	}
	t.Fatal("no threat record for c4")
}

func TestDefendedPawnIsNotHanging(t *testing.T) {
	// Knight attacks the d5 pawn, which the e6 pawn defends. Equal-or-worse
	// trade for the attacker, so not hanging.
	a, err := Analyze("k7/8/4p3/3p4/8/4N3/8/K7 w - - 0 30")
	if err != nil {
		t.Fatal(err)
	}
	d5 := rules.MustSquare("d5")
	for _, tr := range a.Threats {
		if tr.Square != d5 {
			continue
		}
		if tr.IsHanging {
			t.Error("defended pawn attacked by a knight should not be hanging")
		}
		return
	}
	t.Fatal("no threat record for d5")
}

func TestEndgamePhaseFromSpareMaterial(t *testing.T) {
	a, err := Analyze("6k1/8/8/8/8/8/5Q2/6K1 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if a.GamePhase != PhaseEndgame {
		t.Errorf("phase = %s, want %s", a.GamePhase, PhaseEndgame)
	}
}

func TestMiddlegamePhaseAfterOpeningMoves(t *testing.T) {
	// Full material but move 25: middlegame, not opening.
	pos := rules.StartingPosition()
	fen := pos.FEN()
	fen = strings.Replace(fen, " 0 1", " 4 25", 1)
	a, err := Analyze(fen)
	if err != nil {
		t.Fatal(err)
	}
	if a.GamePhase != PhaseMiddlegame {
		t.Errorf("phase = %s, want %s", a.GamePhase, PhaseMiddlegame)
	}
}

func TestCheckIsEmergency(t *testing.T) {
	a, err := Analyze("4k3/8/8/8/8/8/8/4R1K1 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !a.KingSafety.Black.InCheck {
		t.Error("black king should be in check")
	}
	if a.UrgencyLevel != UrgencyEmergency {
		t.Errorf("urgency = %s, want %s", a.UrgencyLevel, UrgencyEmergency)
	}
	if len(a.Recommendations) == 0 || !strings.Contains(a.Recommendations[0], "check") {
		t.Errorf("recommendations %v should lead with resolving the check", a.Recommendations)
	}
}

func TestKingZonePressureUnsafe(t *testing.T) {
	// Black rook on h4 bears down on h1 and h2, inside the white king's
	// zone, without giving check.
	a, err := Analyze("k7/8/8/8/7r/8/8/6K1 w - - 0 40")
	if err != nil {
		t.Fatal(err)
	}
	if a.KingSafety.White.Safe {
		t.Error("white king zone under rook pressure should not be safe")
	}
	if a.KingSafety.White.InCheck {
		t.Error("white king is not actually in check")
	}
	if len(a.KingSafety.White.Threats) == 0 {
		t.Error("expected zone threat moves to be reported")
	}
}

func TestAnalyzePositionIsDeterministic(t *testing.T) {
	pos, err := rules.FromFEN(hangingQueenFEN)
	if err != nil {
		t.Fatal(err)
	}
	a := AnalyzePosition(pos)
	b := AnalyzePosition(pos)
	if a.UrgencyLevel != b.UrgencyLevel || a.GamePhase != b.GamePhase ||
		len(a.Threats) != len(b.Threats) || len(a.Recommendations) != len(b.Recommendations) {
		t.Error("repeated analysis of the same position diverged")
	}
}
