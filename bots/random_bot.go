package bots

import "github.com/notnil/chess"

// RandomBot plays a uniformly random legal move.
type RandomBot struct {
	rules Rules
	rng   Rand
}

func NewRandomBot(rules Rules, rng Rand) *RandomBot {
	if rng == nil {
		rng = defaultRand()
	}
	return &RandomBot{rules: rules, rng: rng}
}

func (b *RandomBot) BestMove(pos *chess.Position) *chess.Move {
	return pick(b.rng, b.rules.LegalMoves(pos))
}

func (b *RandomBot) Name() string {
	return "Random Bot"
}
