package book

import (
	"testing"

	"github.com/halcyonix/chessmind/internal/rules"
)

func TestBuiltinBookCoversStart(t *testing.T) {
	b := New()
	if b.Size() == 0 {
		t.Fatal("built-in book is empty")
	}

	pos := rules.StartingPosition()
	entries := b.ProbeAll(pos)
	if len(entries) == 0 {
		t.Fatal("no entries for the starting position")
	}

	// Highest first; the Ruy Lopez line makes e2e4 the top entry.
	if entries[0].UCI != "e2e4" {
		t.Errorf("top entry = %s (weight %d), want e2e4", entries[0].UCI, entries[0].Weight)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Weight > entries[i-1].Weight {
			t.Errorf("entries not sorted by weight: %v", entries)
		}
	}
	t.Logf("start position candidates: %v", entries)
}

func TestDeterministicProbeReturnsTopWeight(t *testing.T) {
	b := New()
	pos := rules.StartingPosition()

	first, found := b.Probe(pos, false)
	if !found {
		t.Fatal("expected a book hit on the starting position")
	}
	for i := 0; i < 10; i++ {
		move, found := b.Probe(pos, false)
		if !found || !move.Same(first) {
			t.Fatalf("deterministic probe diverged: %s vs %s", move, first)
		}
	}
	if first.String() != "e2e4" {
		t.Errorf("deterministic probe = %s, want e2e4", first)
	}
}

func TestProbeFollowsLine(t *testing.T) {
	// Walk the Najdorf: after e4 c5 Nf3 d6 d2d4 should still be in book.
	pos := rules.StartingPosition()
	for _, uci := range []string{"e2e4", "c7c5", "g1f3", "d7d6"} {
		move, ok := rules.ParseUCI(pos, uci)
		if !ok {
			t.Fatalf("seed move %s not legal", uci)
		}
		next, err := pos.Apply(move)
		if err != nil {
			t.Fatal(err)
		}
		pos = next
	}

	move, found := New().Probe(pos, false)
	if !found {
		t.Fatal("expected a book hit four plies into the Najdorf")
	}
	if move.String() != "d2d4" {
		t.Errorf("book continuation = %s, want d2d4", move)
	}
}

func TestProbeMissOffBook(t *testing.T) {
	b := New()
	pos, err := rules.FromFEN("k7/8/8/8/8/8/8/6KQ w - - 0 40")
	if err != nil {
		t.Fatal(err)
	}
	if move, found := b.Probe(pos, false); found {
		t.Errorf("unexpected book hit off book: %s", move)
	}
	if _, found := NewEmpty().Probe(rules.StartingPosition(), false); found {
		t.Error("empty book should never hit")
	}
}

func TestProbeOnlyReturnsLegalMoves(t *testing.T) {
	b := New()
	pos := rules.StartingPosition()
	for i := 0; i < 20; i++ {
		move, found := b.Probe(pos, true)
		if !found {
			t.Fatal("expected a weighted book hit on the starting position")
		}
		if _, ok := rules.FindLegal(pos, move.From, move.To, move.Promotion); !ok {
			t.Fatalf("book returned illegal move %s", move)
		}
	}
}

func TestMergeOverlayRaisesWeight(t *testing.T) {
	b := New()
	pos := rules.StartingPosition()
	key := pos.Zobrist()

	b.Merge(map[uint64][]Entry{
		key: {
			{UCI: "c2c4", Weight: 200}, // outranks every seed line
			{UCI: "e2e4", Weight: 10},  // lower than seed, must not downgrade
		},
	})

	entries := b.ProbeAll(pos)
	if entries[0].UCI != "c2c4" || entries[0].Weight != 200 {
		t.Errorf("top entry after merge = %+v, want c2c4/200", entries[0])
	}
	for _, e := range entries {
		if e.UCI == "e2e4" && e.Weight != 100 {
			t.Errorf("e2e4 weight = %d, merge must keep the higher weight", e.Weight)
		}
	}
}

func TestAddLineStopsAtIllegalMove(t *testing.T) {
	b := NewEmpty()
	b.AddLine([]string{"e2e4", "e2e4", "g1f3"}, 50)
	if b.Size() != 1 {
		t.Errorf("size = %d, want 1 (line must stop at the illegal repeat)", b.Size())
	}
}
