package advisor

import (
	"fmt"
	"strings"

	"github.com/halcyonix/chessmind/internal/rules"
)

// Exchange margin: a defended piece is still flagged when the capture wins
// this many points and the attackers outnumber the defenders.
const unfavorableExchangeMargin = 2

// Validation is the structured outcome of validating a move suggestion.
// Invalid suggestions carry a Reason and, where one can be inferred, a
// Correction; neither is ever an error.
type Validation struct {
	IsValid    bool           `json:"isValid"`
	Move       rules.Move     `json:"-"`
	MoveUCI    string         `json:"move,omitempty"`
	Reason     string         `json:"reason,omitempty"`
	Correction string         `json:"correction,omitempty"`
	Candidates []rules.Square `json:"-"`
}

// SafetyAssessment is the outcome of the one-ply safety check. Assessed is
// false when the text never resolved to a legal move.
type SafetyAssessment struct {
	Assessed bool       `json:"assessed"`
	IsSafe   bool       `json:"isSafe"`
	Reason   string     `json:"reason,omitempty"`
	Move     rules.Move `json:"-"`
}

// ValidateMoveSuggestion checks a natural-language move suggestion against
// the position: grammar, piece identity, legality and disambiguation. Only a
// malformed FEN returns an error.
func ValidateMoveSuggestion(fen, moveText string) (Validation, error) {
	pos, err := rules.FromFEN(fen)
	if err != nil {
		return Validation{}, err
	}
	return validate(pos, moveText), nil
}

func validate(pos rules.Position, moveText string) Validation {
	intent, err := ParseMoveText(moveText)
	if err != nil {
		return Validation{Reason: "could not parse move text"}
	}

	matches := matchingMoves(pos, intent)

	switch {
	case len(matches) == 0:
		return explainNoMatch(pos, intent)
	case sameSourceAndTarget(matches):
		// A pawn reaching the last rank matches once per promotion piece;
		// promoting to a queen is the assumed intent.
		return valid(pickPromotion(matches))
	case len(matches) == 1:
		return valid(matches[0])
	default:
		return explainAmbiguous(intent, matches)
	}
}

// AssessMoveSuggestionSafety validates the suggestion and, when it resolves
// to a legal move, simulates it and inspects the attack and defense picture
// on the destination square.
func AssessMoveSuggestionSafety(fen, moveText string) (SafetyAssessment, error) {
	pos, err := rules.FromFEN(fen)
	if err != nil {
		return SafetyAssessment{}, err
	}
	return assess(pos, moveText), nil
}

func assess(pos rules.Position, moveText string) SafetyAssessment {
	v := validate(pos, moveText)
	if !v.IsValid {
		return SafetyAssessment{IsSafe: true}
	}
	return assessMove(pos, v.Move)
}

func assessMove(pos rules.Position, move rules.Move) SafetyAssessment {
	mover := pos.Turn()
	after, err := pos.Apply(move)
	if err != nil {
		return SafetyAssessment{IsSafe: true}
	}

	result := SafetyAssessment{Assessed: true, IsSafe: true, Move: move}

	attackers := rules.AttackersOf(after, move.To, mover.Other())
	if len(attackers) == 0 {
		return result
	}
	defenders := rules.DefendersOf(after, move.To)

	movedValue := rules.PieceValue(move.Piece)
	if move.IsPromotion() {
		movedValue = rules.PieceValue(move.Promotion)
	}

	if movedValue >= 3 && len(defenders) == 0 {
		result.IsSafe = false
		result.Reason = fmt.Sprintf("the %s on %s would be undefended and can be captured",
			rules.PieceName(move.Piece), move.To)
		return result
	}

	cheapest := rules.CheapestAttacker(attackers)
	if movedValue-cheapest >= unfavorableExchangeMargin && len(attackers) > len(defenders) {
		result.IsSafe = false
		result.Reason = fmt.Sprintf("the %s on %s can be won in an exchange (cheapest attacker is worth %d)",
			rules.PieceName(move.Piece), move.To, cheapest)
	}
	return result
}

// GenerateSafetyNotice extracts every move-shaped phrase from free text,
// assesses each, and joins the cautions into one advisory string. Empty when
// nothing is worth flagging.
func GenerateSafetyNotice(fen, freeText string) (string, error) {
	pos, err := rules.FromFEN(fen)
	if err != nil {
		return "", err
	}

	var cautions []string
	for _, intent := range FindMoveIntents(freeText) {
		matches := matchingMoves(pos, intent)
		var move rules.Move
		switch {
		case len(matches) == 0:
			continue
		case sameSourceAndTarget(matches):
			move = pickPromotion(matches)
		case len(matches) == 1:
			move = matches[0]
		default:
			continue
		}
		if sa := assessMove(pos, move); !sa.IsSafe {
			cautions = append(cautions, sa.Reason)
		}
	}
	if len(cautions) == 0 {
		return "", nil
	}
	return "Caution: " + strings.Join(cautions, "; ") + ".", nil
}

// matchingMoves filters legal moves by the intent's piece, destination and,
// when given, source square.
func matchingMoves(pos rules.Position, intent ParsedMoveIntent) []rules.Move {
	var matches []rules.Move
	for _, m := range rules.LegalMoves(pos) {
		if m.Piece != intent.Piece || m.To != intent.To {
			continue
		}
		if intent.HasFrom() && m.From != intent.From {
			continue
		}
		matches = append(matches, m)
	}
	return matches
}

func sameSourceAndTarget(matches []rules.Move) bool {
	if len(matches) < 2 {
		return false
	}
	for _, m := range matches[1:] {
		if m.From != matches[0].From || m.To != matches[0].To {
			return false
		}
	}
	return true
}

func pickPromotion(matches []rules.Move) rules.Move {
	for _, m := range matches {
		if m.Promotion == rules.Queen {
			return m
		}
	}
	return matches[0]
}

func valid(move rules.Move) Validation {
	return Validation{IsValid: true, Move: move, MoveUCI: move.String()}
}

func explainNoMatch(pos rules.Position, intent ParsedMoveIntent) Validation {
	name := rules.PieceName(intent.Piece)

	if !intent.HasFrom() {
		return Validation{
			Reason: fmt.Sprintf("no %s can legally move to %s", name, intent.To),
		}
	}

	v := Validation{}
	occupant := pos.PieceAt(intent.From)
	switch {
	case occupant.Type() == rules.NoPieceType:
		v.Reason = fmt.Sprintf("square %s is empty", intent.From)
	case occupant.Color() != pos.Turn():
		v.Reason = fmt.Sprintf("the %s on %s belongs to the opponent",
			rules.PieceName(occupant.Type()), intent.From)
	case occupant.Type() != intent.Piece:
		v.Reason = fmt.Sprintf("square %s holds a %s, not a %s",
			intent.From, rules.PieceName(occupant.Type()), name)
	default:
		v.Reason = fmt.Sprintf("the %s on %s cannot legally reach %s",
			name, intent.From, intent.To)
	}

	// If exactly one square holds a piece that can make the intended move,
	// offer it as the correction.
	reachable := matchingMoves(pos, ParsedMoveIntent{Piece: intent.Piece, From: rules.NoSquare, To: intent.To})
	if len(sourceSquares(reachable)) == 1 {
		v.Correction = fmt.Sprintf("did you mean %s from %s to %s",
			name, reachable[0].From, intent.To)
	}
	return v
}

func explainAmbiguous(intent ParsedMoveIntent, matches []rules.Move) Validation {
	sources := sourceSquares(matches)
	names := make([]string, len(sources))
	for i, sq := range sources {
		names[i] = sq.String()
	}
	return Validation{
		Reason: fmt.Sprintf("ambiguous: a %s on %s can reach %s",
			rules.PieceName(intent.Piece), strings.Join(names, " or "), intent.To),
		Candidates: sources,
	}
}

// sourceSquares returns the distinct source squares of the moves, in order.
func sourceSquares(moves []rules.Move) []rules.Square {
	var squares []rules.Square
	for _, m := range moves {
		seen := false
		for _, sq := range squares {
			if sq == m.From {
				seen = true
				break
			}
		}
		if !seen {
			squares = append(squares, m.From)
		}
	}
	return squares
}
