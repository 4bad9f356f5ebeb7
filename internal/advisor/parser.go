// Package advisor validates natural-language move suggestions against a
// position and assesses whether they drop material. All validator outcomes
// are data, never errors; only a malformed FEN propagates as an error.
package advisor

import (
	"errors"
	"regexp"
	"strings"

	"github.com/halcyonix/chessmind/internal/rules"
)

// ErrUnparseable is returned when text does not match the move grammar.
var ErrUnparseable = errors.New("advisor: could not parse move text")

// moveTextPattern is the fixed grammar: <piece> [from <square>] to <square>.
var moveTextPattern = regexp.MustCompile(
	`(?i)\b(king|queen|rook|bishop|knight|pawn)\s+(?:from\s+([a-h][1-8])\s+)?to\s+([a-h][1-8])\b`)

// ParsedMoveIntent is the typed result of parsing a move suggestion. From is
// NoSquare when the text did not name a source square.
type ParsedMoveIntent struct {
	Piece rules.PieceType
	From  rules.Square
	To    rules.Square
}

// HasFrom reports whether the text named a source square.
func (i ParsedMoveIntent) HasFrom() bool {
	return i.From != rules.NoSquare
}

// ParseMoveText parses a single move suggestion. The first grammar match in
// the text wins.
func ParseMoveText(text string) (ParsedMoveIntent, error) {
	m := moveTextPattern.FindStringSubmatch(text)
	if m == nil {
		return ParsedMoveIntent{}, ErrUnparseable
	}
	return intentFromMatch(m)
}

// FindMoveIntents extracts every move-shaped substring from free text, in
// order of appearance.
func FindMoveIntents(text string) []ParsedMoveIntent {
	var intents []ParsedMoveIntent
	for _, m := range moveTextPattern.FindAllStringSubmatch(text, -1) {
		intent, err := intentFromMatch(m)
		if err != nil {
			continue
		}
		intents = append(intents, intent)
	}
	return intents
}

func intentFromMatch(m []string) (ParsedMoveIntent, error) {
	piece, ok := rules.PieceTypeFromName(strings.ToLower(m[1]))
	if !ok {
		return ParsedMoveIntent{}, ErrUnparseable
	}
	intent := ParsedMoveIntent{Piece: piece, From: rules.NoSquare}
	if m[2] != "" {
		from, err := rules.ParseSquare(strings.ToLower(m[2]))
		if err != nil {
			return ParsedMoveIntent{}, ErrUnparseable
		}
		intent.From = from
	}
	to, err := rules.ParseSquare(strings.ToLower(m[3]))
	if err != nil {
		return ParsedMoveIntent{}, ErrUnparseable
	}
	intent.To = to
	return intent, nil
}
