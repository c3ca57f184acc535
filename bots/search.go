package bots

import (
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
)

// scoreBound lies just outside the score range, so the first child of every
// node replaces it and search windows stay finite.
const scoreBound = MateScore + 1

// Searcher runs depth-limited minimax with alpha-beta pruning. It keeps no
// state between calls and is safe for concurrent use.
type Searcher struct {
	Rules     Rules
	Evaluator PositionEvaluator
	log       zerolog.Logger
}

func NewSearcher(rules Rules, evaluator PositionEvaluator) *Searcher {
	return &Searcher{
		Rules:     rules,
		Evaluator: evaluator,
		log:       zerolog.Nop(),
	}
}

// WithLogger returns a copy of the searcher that reports each root search.
func (s *Searcher) WithLogger(log zerolog.Logger) *Searcher {
	cp := *s
	cp.log = log
	return &cp
}

// Search returns the minimax value of pos, from White's point of view, looking
// depth plies ahead. The result equals plain minimax for the same depth.
func (s *Searcher) Search(pos *chess.Position, depth int, alpha, beta float64, maximizing bool) float64 {
	run := searchRun{s: s, sign: 1}
	return run.search(pos, depth, alpha, beta, maximizing)
}

// ChooseBestMove returns the move the side to move should play, or nil when
// there is none. The mover is always the minimizing side: scores are flipped
// for White so that the lowest value is the best one for whoever moves.
func (s *Searcher) ChooseBestMove(pos *chess.Position, depth int) *chess.Move {
	moves := s.Rules.LegalMoves(pos)
	if len(moves) == 0 {
		return nil
	}

	run := searchRun{s: s, sign: 1}
	if s.Rules.SideToMove(pos) == chess.White {
		run.sign = -1
	}

	childDepth := depth - 1
	if childDepth < 0 {
		childDepth = 0
	}

	start := time.Now()
	var best *chess.Move
	bestScore := scoreBound
	for _, move := range moves {
		child := s.Rules.Apply(pos, move)
		score := run.search(child, childDepth, -scoreBound, bestScore, true)
		if score < bestScore {
			best, bestScore = move, score
		}
	}

	s.log.Debug().
		Int("depth", depth).
		Str("move", best.String()).
		Float64("score", bestScore).
		Int("nodes", run.nodes).
		Dur("elapsed", time.Since(start)).
		Msg("search finished")
	return best
}

// searchRun holds the per-call state of one root search.
type searchRun struct {
	s     *Searcher
	sign  float64
	nodes int
}

func (r *searchRun) evaluate(pos *chess.Position) float64 {
	return r.sign * r.s.Evaluator.Evaluate(pos)
}

func (r *searchRun) terminal(pos *chess.Position) bool {
	return r.s.Rules.IsCheckmate(pos) || r.s.Rules.IsDraw(pos)
}

func (r *searchRun) search(pos *chess.Position, depth int, alpha, beta float64, maximizing bool) float64 {
	r.nodes++
	if depth <= 0 || r.terminal(pos) {
		return r.evaluate(pos)
	}

	moves := r.s.Rules.LegalMoves(pos)
	if len(moves) == 0 {
		return r.evaluate(pos)
	}

	if maximizing {
		best := -scoreBound
		for _, move := range moves {
			score := r.search(r.s.Rules.Apply(pos, move), depth-1, alpha, beta, false)
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := scoreBound
	for _, move := range moves {
		score := r.search(r.s.Rules.Apply(pos, move), depth-1, alpha, beta, true)
		if score < best {
			best = score
		}
		if best < beta {
			beta = best
		}
		if beta <= alpha {
			break
		}
	}
	return best
}
