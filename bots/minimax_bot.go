package bots

import (
	"fmt"

	"github.com/notnil/chess"
)

// MinimaxBot plays the best move found by a fixed-depth search.
type MinimaxBot struct {
	Depth    int
	searcher *Searcher
}

func NewMinimaxBot(depth int, searcher *Searcher) *MinimaxBot {
	return &MinimaxBot{
		Depth:    depth,
		searcher: searcher,
	}
}

func (b *MinimaxBot) Name() string {
	return fmt.Sprintf("Minimax Bot (depth %d)", b.Depth)
}

func (b *MinimaxBot) BestMove(pos *chess.Position) *chess.Move {
	if pos == nil {
		return nil
	}
	return b.searcher.ChooseBestMove(pos, b.Depth)
}
