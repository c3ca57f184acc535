package bots

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"chessai/rules"
)

func newTestSelector(seed int64) *Selector {
	return NewSelector(rules.Standard{}, rand.New(rand.NewSource(seed)), zerolog.Nop())
}

func TestProfileForLevel(t *testing.T) {
	tests := []struct {
		level    int
		strategy Strategy
		depth    int
	}{
		{1, StrategyRandom, 0},
		{2, StrategyHeuristic, 0},
		{3, StrategyHeuristic, 0},
		{4, StrategyMinimax, 2},
		{5, StrategyMinimax, 3},
	}
	for _, tt := range tests {
		p, err := ProfileForLevel(tt.level)
		if err != nil {
			t.Fatalf("level %d: %v", tt.level, err)
		}
		if p.Level != tt.level || p.Strategy != tt.strategy || p.Depth != tt.depth {
			t.Fatalf("level %d: got %+v", tt.level, p)
		}
	}

	for _, level := range []int{-1, 0, 6} {
		if _, err := ProfileForLevel(level); !errors.Is(err, ErrUnknownLevel) {
			t.Fatalf("level %d: err = %v, want ErrUnknownLevel", level, err)
		}
	}
}

func TestSelectorBotNames(t *testing.T) {
	s := newTestSelector(1)
	want := map[int]string{
		1: "Random Bot",
		2: "Heuristic Bot",
		3: "Heuristic Bot",
		4: "Minimax Bot (depth 2)",
		5: "Minimax Bot (depth 3)",
	}
	for level, name := range want {
		p, _ := ProfileForLevel(level)
		if got := s.Bot(p).Name(); got != name {
			t.Fatalf("level %d: bot %q, want %q", level, got, name)
		}
	}
}

func TestChooseMoveNoMoveAvailable(t *testing.T) {
	s := newTestSelector(1)
	for _, fen := range []string{foolsMateFEN, backRankMateFEN, stalemateFEN} {
		pos := mustPosition(t, fen)
		for level := MinLevel; level <= MaxLevel; level++ {
			p, _ := ProfileForLevel(level)
			if m := s.ChooseMove(pos, p); m != nil {
				t.Fatalf("%s level %d: got %v, want no move", fen, level, m)
			}
		}
	}
}

func TestChooseMoveIsLegal(t *testing.T) {
	std := rules.Standard{}
	s := newTestSelector(3)
	for i, pos := range randomPositions(t, 11, 5, 30) {
		for level := MinLevel; level <= 4; level++ {
			p, _ := ProfileForLevel(level)
			m := s.ChooseMove(pos, p)
			if m == nil {
				t.Fatalf("position %d level %d: no move", i, level)
			}
			if err := std.Validate(pos, m); err != nil {
				t.Fatalf("position %d level %d: %v", i, level, err)
			}
		}
	}
}

func TestHeuristicAlwaysMates(t *testing.T) {
	std := rules.Standard{}
	// Qb8# and Ra8# both mate; Qxg7+ and Qb3+ style checks must lose to them.
	fens := []string{
		"6k1/5ppp/8/8/8/8/1Q6/R5K1 w - - 0 1",
		"r5k1/8/8/8/8/8/5PPP/6K1 b - - 0 1",
		"rnbqkbnr/ppppp2p/5p2/6p1/4P3/2N5/PPPP1PPP/R1BQKBNR w KQkq - 0 3",
	}
	for _, fen := range fens {
		pos := mustPosition(t, fen)
		for seed := int64(0); seed < 20; seed++ {
			s := newTestSelector(seed)
			for _, level := range []int{2, 3} {
				p, _ := ProfileForLevel(level)
				m := s.ChooseMove(pos, p)
				if m == nil || !std.IsCheckmate(std.Apply(pos, m)) {
					t.Fatalf("%s seed %d level %d: %v does not mate", fen, seed, level, m)
				}
			}
		}
	}
}

func TestHeuristicPriorities(t *testing.T) {
	std := rules.Standard{}

	// Ra8+ checks, Rxb1 captures.
	checkOrCapture := mustPosition(t, "4k3/8/8/8/8/8/8/Rn2K3 w - - 0 1")
	for seed := int64(0); seed < 20; seed++ {
		b := NewHeuristicBot(std, rand.New(rand.NewSource(seed)))
		m := b.BestMove(checkOrCapture)
		if m == nil || !std.IsCheck(std.Apply(checkOrCapture, m)) {
			t.Fatalf("seed %d: %v is not a check", seed, m)
		}
	}

	// No check is possible; the only capture is Rxb1.
	captureOnly := mustPosition(t, "7k/8/5K2/8/8/P7/7P/Rn6 w - - 0 1")
	for _, m := range std.LegalMoves(captureOnly) {
		if std.IsCheck(std.Apply(captureOnly, m)) {
			t.Fatalf("fixture allows check %v", m)
		}
	}
	for seed := int64(0); seed < 20; seed++ {
		b := NewHeuristicBot(std, rand.New(rand.NewSource(seed)))
		m := b.BestMove(captureOnly)
		if m == nil || !rules.IsCapture(m) {
			t.Fatalf("seed %d: %v is not a capture", seed, m)
		}
	}

	// Quiet start position falls back to any legal move.
	start := chess.NewGame().Position()
	b := NewHeuristicBot(std, rand.New(rand.NewSource(1)))
	if m := b.BestMove(start); m == nil || std.Validate(start, m) != nil {
		t.Fatalf("start position: %v", m)
	}
}

func TestRandomBotSpreadsChoices(t *testing.T) {
	std := rules.Standard{}
	b := NewRandomBot(std, rand.New(rand.NewSource(5)))
	pos := chess.NewGame().Position()
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[b.BestMove(pos).String()] = true
	}
	if len(seen) < 10 {
		t.Fatalf("random bot used only %d of 20 opening moves", len(seen))
	}
}

func TestDefaultRandomSource(t *testing.T) {
	b := NewRandomBot(rules.Standard{}, nil)
	if m := b.BestMove(chess.NewGame().Position()); m == nil {
		t.Fatalf("frand-backed random bot returned no move")
	}
}
