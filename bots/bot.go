// bot.go
package bots

import (
	"github.com/notnil/chess"
	"lukechampine.com/frand"
)

// ChessBot is implemented by every difficulty tier.
// BestMove returns nil when the side to move has no legal move.
type ChessBot interface {
	BestMove(pos *chess.Position) *chess.Move
	Name() string
}

// Rules is the rules engine the bots play against.
type Rules interface {
	LegalMoves(pos *chess.Position) []*chess.Move
	Apply(pos *chess.Position, m *chess.Move) *chess.Position
	IsCheck(pos *chess.Position) bool
	IsCheckmate(pos *chess.Position) bool
	IsStalemate(pos *chess.Position) bool
	IsDraw(pos *chess.Position) bool
	SideToMove(pos *chess.Position) chess.Color
}

// Rand is the source of uniform choices. *math/rand.Rand and *frand.RNG both satisfy it.
type Rand interface {
	Intn(n int) int
}

func defaultRand() Rand {
	return frand.New()
}

func pick(rng Rand, moves []*chess.Move) *chess.Move {
	if len(moves) == 0 {
		return nil
	}
	return moves[rng.Intn(len(moves))]
}
