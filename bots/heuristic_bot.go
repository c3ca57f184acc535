package bots

import (
	"github.com/notnil/chess"

	"chessai/rules"
)

// HeuristicBot looks one ply ahead without searching: it mates when it can,
// otherwise prefers checks, then captures, then anything.
type HeuristicBot struct {
	rules Rules
	rng   Rand
}

func NewHeuristicBot(rules Rules, rng Rand) *HeuristicBot {
	if rng == nil {
		rng = defaultRand()
	}
	return &HeuristicBot{rules: rules, rng: rng}
}

func (b *HeuristicBot) Name() string {
	return "Heuristic Bot"
}

func (b *HeuristicBot) BestMove(pos *chess.Position) *chess.Move {
	moves := b.rules.LegalMoves(pos)
	if len(moves) == 0 {
		return nil
	}

	var checks, captures []*chess.Move
	for _, move := range moves {
		child := b.rules.Apply(pos, move)
		if b.rules.IsCheckmate(child) {
			return move
		}
		if move.HasTag(chess.Check) {
			checks = append(checks, move)
		}
		if rules.IsCapture(move) {
			captures = append(captures, move)
		}
	}

	if len(checks) > 0 {
		return pick(b.rng, checks)
	}
	if len(captures) > 0 {
		return pick(b.rng, captures)
	}
	return pick(b.rng, moves)
}
