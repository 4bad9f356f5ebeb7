// Package analysis is the static position analyzer: material, threats, king
// safety, game phase and an urgency classification, computed fresh from a
// position with no retained state.
package analysis

import (
	"fmt"

	"github.com/halcyonix/chessmind/internal/rules"
)

// GamePhase classifies how far a game has progressed.
type GamePhase string

const (
	PhaseOpening    GamePhase = "opening"
	PhaseMiddlegame GamePhase = "middlegame"
	PhaseEndgame    GamePhase = "endgame"
)

// UrgencyLevel classifies how pressing the side to move's situation is.
type UrgencyLevel string

const (
	UrgencyStrategic UrgencyLevel = "strategic"
	UrgencyTactical  UrgencyLevel = "tactical"
	UrgencyEmergency UrgencyLevel = "emergency"
)

// Phase thresholds, in combined minor/major-piece points (pawns excluded).
const (
	endgameMaterialMax  = 16 // at or below: endgame
	openingMaterialMin  = 24
	openingMoveCountMax = 10
)

// SideMaterial is the per-piece census for one side, in classical points.
type SideMaterial struct {
	Pawns   int `json:"pawns"`
	Knights int `json:"knights"`
	Bishops int `json:"bishops"`
	Rooks   int `json:"rooks"`
	Queens  int `json:"queens"`
	Total   int `json:"total"`
}

// MaterialCount sums both sides. Imbalance is white minus black.
type MaterialCount struct {
	White     SideMaterial `json:"white"`
	Black     SideMaterial `json:"black"`
	Imbalance int          `json:"imbalance"`
}

// ThreatRecord describes the attack and defense picture on one occupied
// square.
type ThreatRecord struct {
	Square     rules.Square    `json:"square"`
	Piece      rules.PieceType `json:"piece"`
	Color      rules.Color     `json:"color"`
	AttackedBy []rules.Move    `json:"attackedBy,omitempty"`
	DefendedBy []rules.Move    `json:"defendedBy,omitempty"`
	IsHanging  bool            `json:"isHanging"`
}

// KingSafetyReport covers one king.
type KingSafetyReport struct {
	Safe    bool         `json:"safe"`
	InCheck bool         `json:"inCheck"`
	Threats []rules.Move `json:"threats,omitempty"`
}

// KingSafety covers both kings.
type KingSafety struct {
	White KingSafetyReport `json:"white"`
	Black KingSafetyReport `json:"black"`
}

// PositionAnalysis is the full analyzer output for one position.
type PositionAnalysis struct {
	GamePhase       GamePhase      `json:"gamePhase"`
	UrgencyLevel    UrgencyLevel   `json:"urgencyLevel"`
	Material        MaterialCount  `json:"material"`
	Threats         []ThreatRecord `json:"threats,omitempty"`
	KingSafety      KingSafety     `json:"kingSafety"`
	Recommendations []string       `json:"recommendations,omitempty"`
}

// Analyze parses a FEN and analyzes the resulting position. The only
// failure mode is a malformed FEN.
func Analyze(fen string) (*PositionAnalysis, error) {
	pos, err := rules.FromFEN(fen)
	if err != nil {
		return nil, err
	}
	return AnalyzePosition(pos), nil
}

// AnalyzePosition analyzes a parsed position. Pure and deterministic.
func AnalyzePosition(pos rules.Position) *PositionAnalysis {
	a := &PositionAnalysis{
		Material: countMaterial(pos),
	}
	a.GamePhase = classifyPhase(pos, a.Material)
	a.Threats = collectThreats(pos)
	a.KingSafety = assessKings(pos)
	a.UrgencyLevel = classifyUrgency(pos, a)
	a.Recommendations = recommend(pos, a)
	return a
}

func countMaterial(pos rules.Position) MaterialCount {
	var mc MaterialCount
	for s := 0; s < 64; s++ {
		pc := pos.PieceAt(rules.Square(s))
		if pc.Type() == rules.NoPieceType {
			continue
		}
		side := &mc.White
		if pc.Color() == rules.Black {
			side = &mc.Black
		}
		switch pc.Type() {
		case rules.Pawn:
			side.Pawns++
		case rules.Knight:
			side.Knights++
		case rules.Bishop:
			side.Bishops++
		case rules.Rook:
			side.Rooks++
		case rules.Queen:
			side.Queens++
		}
		side.Total += rules.PieceValue(pc.Type())
	}
	mc.Imbalance = mc.White.Total - mc.Black.Total
	return mc
}

// nonPawnTotal is the combined minor/major material of both sides.
func nonPawnTotal(mc MaterialCount) int {
	return mc.White.Total - mc.White.Pawns + mc.Black.Total - mc.Black.Pawns
}

func classifyPhase(pos rules.Position, mc MaterialCount) GamePhase {
	heavy := nonPawnTotal(mc)
	switch {
	case heavy <= endgameMaterialMax:
		return PhaseEndgame
	case heavy >= openingMaterialMin && pos.MoveCount() <= openingMoveCountMax:
		return PhaseOpening
	default:
		return PhaseMiddlegame
	}
}

func collectThreats(pos rules.Position) []ThreatRecord {
	var threats []ThreatRecord
	for s := 0; s < 64; s++ {
		sq := rules.Square(s)
		pc := pos.PieceAt(sq)
		if pc.Type() == rules.NoPieceType || pc.Type() == rules.King {
			continue
		}
		attackers := rules.AttackersOf(pos, sq, pc.Color().Other())
		if len(attackers) == 0 {
			continue
		}
		defenders := rules.DefendersOf(pos, sq)
		threats = append(threats, ThreatRecord{
			Square:     sq,
			Piece:      pc.Type(),
			Color:      pc.Color(),
			AttackedBy: attackers,
			DefendedBy: defenders,
			IsHanging:  isHanging(pc.Type(), attackers, defenders),
		})
	}
	return threats
}

// isHanging applies the trade-losing rule: an attacked piece with no
// defenders is loose, and a defended piece still hangs when the cheapest
// attacker is worth less than it.
func isHanging(victim rules.PieceType, attackers, defenders []rules.Move) bool {
	if len(attackers) == 0 {
		return false
	}
	if len(defenders) == 0 {
		return true
	}
	return rules.CheapestAttacker(attackers) < rules.PieceValue(victim)
}

func assessKings(pos rules.Position) KingSafety {
	return KingSafety{
		White: assessKing(pos, rules.White),
		Black: assessKing(pos, rules.Black),
	}
}

func assessKing(pos rules.Position, side rules.Color) KingSafetyReport {
	kingSq := pos.KingSquare(side)
	if kingSq == rules.NoSquare {
		return KingSafetyReport{Safe: true}
	}
	enemy := side.Other()

	report := KingSafetyReport{
		InCheck: rules.SquareAttackedBy(pos, kingSq, enemy),
	}
	zoneAttacks := 0
	for _, sq := range rules.KingZone(kingSq) {
		moves := rules.AttackingMoves(pos, sq, enemy)
		zoneAttacks += len(moves)
		report.Threats = append(report.Threats, moves...)
	}
	report.Safe = !report.InCheck && zoneAttacks == 0
	if report.Safe {
		report.Threats = nil
	}
	return report
}

func classifyUrgency(pos rules.Position, a *PositionAnalysis) UrgencyLevel {
	mover := pos.Turn()

	inCheck := a.KingSafety.White.InCheck
	if mover == rules.Black {
		inCheck = a.KingSafety.Black.InCheck
	}
	if inCheck {
		return UrgencyEmergency
	}

	anyHanging := false
	for _, tr := range a.Threats {
		if !tr.IsHanging || tr.Color != mover {
			continue
		}
		anyHanging = true
		if rules.PieceValue(tr.Piece) >= 3 {
			return UrgencyEmergency
		}
	}

	// A capture that wins serious material right now is an emergency for
	// the opponent, and ours to not miss.
	checkAvailable := false
	for _, m := range rules.LegalMoves(pos) {
		if m.Check {
			checkAvailable = true
		}
		if m.IsCapture() && rules.PieceValue(m.Captured) >= 5 {
			return UrgencyEmergency
		}
	}

	if anyHanging || checkAvailable {
		return UrgencyTactical
	}
	return UrgencyStrategic
}

// recommend derives short heuristic tags from the analysis. The wording is
// presentation data for the caller, not contract.
func recommend(pos rules.Position, a *PositionAnalysis) []string {
	var recs []string
	mover := pos.Turn()

	inCheck := a.KingSafety.White.InCheck
	if mover == rules.Black {
		inCheck = a.KingSafety.Black.InCheck
	}
	if inCheck {
		recs = append(recs, "resolve the check")
	}

	for _, tr := range a.Threats {
		if !tr.IsHanging {
			continue
		}
		if tr.Color == mover {
			recs = append(recs, fmt.Sprintf("save the hanging %s on %s", rules.PieceName(tr.Piece), tr.Square))
		} else if rules.PieceValue(tr.Piece) >= 3 {
			recs = append(recs, fmt.Sprintf("consider capturing the loose %s on %s", rules.PieceName(tr.Piece), tr.Square))
		}
	}

	switch a.GamePhase {
	case PhaseOpening:
		if len(recs) == 0 {
			recs = append(recs, "develop minor pieces and contest the center")
		}
	case PhaseEndgame:
		recs = append(recs, "activate the king")
		if (mover == rules.White && a.Material.White.Pawns > 0) ||
			(mover == rules.Black && a.Material.Black.Pawns > 0) {
			recs = append(recs, "push passed pawns")
		}
	}

	return recs
}
