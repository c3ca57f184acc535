package bots

import (
	"testing"

	"github.com/notnil/chess"

	"chessai/rules"
)

func newTestSearcher() *Searcher {
	std := rules.Standard{}
	return NewSearcher(std, NewDefaultEvaluator(std))
}

// minimax is the unpruned reference the alpha-beta search must agree with.
func minimax(s *Searcher, pos *chess.Position, depth int, maximizing bool) float64 {
	if depth <= 0 || s.Rules.IsCheckmate(pos) || s.Rules.IsDraw(pos) {
		return s.Evaluator.Evaluate(pos)
	}
	moves := s.Rules.LegalMoves(pos)
	if maximizing {
		best := -scoreBound
		for _, m := range moves {
			if v := minimax(s, s.Rules.Apply(pos, m), depth-1, false); v > best {
				best = v
			}
		}
		return best
	}
	best := scoreBound
	for _, m := range moves {
		if v := minimax(s, s.Rules.Apply(pos, m), depth-1, true); v < best {
			best = v
		}
	}
	return best
}

func TestSearchMatchesMinimax(t *testing.T) {
	s := newTestSearcher()
	positions := randomPositions(t, 42, 8, 40)
	for i, pos := range positions {
		for depth := 0; depth <= 2; depth++ {
			for _, maximizing := range []bool{true, false} {
				want := minimax(s, pos, depth, maximizing)
				got := s.Search(pos, depth, -scoreBound, scoreBound, maximizing)
				if got != want {
					t.Fatalf("position %d (%s) depth %d max=%v: alpha-beta %v, minimax %v",
						i, pos, depth, maximizing, got, want)
				}
			}
		}
	}
}

func TestSearchMatchesMinimaxDepthThree(t *testing.T) {
	if testing.Short() {
		t.Skip("depth 3 minimax is slow")
	}
	s := newTestSearcher()
	fens := []string{
		"8/8/4k3/8/2R5/3K4/8/8 w - - 0 1",
		"r3k3/8/8/8/8/8/4P3/4K2R w K - 0 1",
		"6k1/5ppp/8/8/8/8/1Q6/R5K1 w - - 0 1",
		"2r3k1/5ppp/8/8/8/2N5/5PPP/3R2K1 b - - 0 1",
	}
	positions := make([]*chess.Position, 0, len(fens)+2)
	for _, fen := range fens {
		positions = append(positions, mustPosition(t, fen))
	}
	positions = append(positions, randomPositions(t, 3, 2, 30)...)

	for i, pos := range positions {
		maximizing := pos.Turn() == chess.White
		want := minimax(s, pos, 3, maximizing)
		got := s.Search(pos, 3, -scoreBound, scoreBound, maximizing)
		if got != want {
			t.Fatalf("position %d (%s): alpha-beta %v, minimax %v", i, pos, got, want)
		}
	}
}

func TestSearchDepthZeroEvaluates(t *testing.T) {
	s := newTestSearcher()
	pos := mustPosition(t, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	if got, want := s.Search(pos, 0, -scoreBound, scoreBound, false), s.Evaluator.Evaluate(pos); got != want {
		t.Fatalf("depth 0 search = %v, want evaluation %v", got, want)
	}
}

func TestChooseBestMoveSingleLegalMove(t *testing.T) {
	s := newTestSearcher()
	// Black king on h8, white rook on g1: Kh7 is the only move.
	pos := mustPosition(t, "7k/8/8/8/8/8/8/K5R1 b - - 0 1")
	if n := len(s.Rules.LegalMoves(pos)); n != 1 {
		t.Fatalf("fixture has %d legal moves, want 1", n)
	}
	for depth := 0; depth <= 3; depth++ {
		m := s.ChooseBestMove(pos, depth)
		if m == nil || m.S1() != chess.H8 || m.S2() != chess.H7 {
			t.Fatalf("depth %d: got %v, want h8h7", depth, m)
		}
	}
}

func TestChooseBestMoveNoMove(t *testing.T) {
	s := newTestSearcher()
	for _, fen := range []string{foolsMateFEN, backRankMateFEN, stalemateFEN} {
		for depth := 0; depth <= 3; depth++ {
			if m := s.ChooseBestMove(mustPosition(t, fen), depth); m != nil {
				t.Fatalf("%s depth %d: got %v, want no move", fen, depth, m)
			}
		}
	}
}

func TestChooseBestMoveFindsMateInOne(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		from, to chess.Square
	}{
		{"white back rank", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1", chess.A1, chess.A8},
		{"black back rank", "r5k1/8/8/8/8/8/5PPP/6K1 b - - 0 1", chess.A8, chess.A1},
	}
	s := newTestSearcher()
	for _, tt := range tests {
		for depth := 1; depth <= 3; depth++ {
			m := s.ChooseBestMove(mustPosition(t, tt.fen), depth)
			if m == nil || m.S1() != tt.from || m.S2() != tt.to {
				t.Fatalf("%s depth %d: got %v, want %v%v", tt.name, depth, m, tt.from, tt.to)
			}
		}
	}
}

func TestChooseBestMoveAvoidsTactics(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		from, to chess.Square
	}{
		// Qxd7+ wins a pawn and loses the queen to Kxd7.
		{"hanging queen", "4k3/3p4/8/8/8/8/8/3QK3 w - - 0 1", chess.D1, chess.D7},
		// Rxc3 wins a knight but leaves the back rank to Rd8#.
		{"back rank bait", "2r3k1/5ppp/8/8/8/2N5/5PPP/3R2K1 b - - 0 1", chess.C8, chess.C3},
	}
	s := newTestSearcher()
	for _, tt := range tests {
		for _, depth := range []int{2, 3} {
			m := s.ChooseBestMove(mustPosition(t, tt.fen), depth)
			if m == nil {
				t.Fatalf("%s depth %d: no move", tt.name, depth)
			}
			if m.S1() == tt.from && m.S2() == tt.to {
				t.Fatalf("%s depth %d: played the losing move %v", tt.name, depth, m)
			}
		}
	}
}

func TestChooseBestMoveFromStartIsLegal(t *testing.T) {
	s := newTestSearcher()
	pos := chess.NewGame().Position()
	m := s.ChooseBestMove(pos, 2)
	if m == nil {
		t.Fatalf("no move from the start position")
	}
	if err := (rules.Standard{}).Validate(pos, m); err != nil {
		t.Fatalf("search returned %v: %v", m, err)
	}
}
