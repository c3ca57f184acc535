package bots

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
)

const (
	MinLevel = 1
	MaxLevel = 5
)

// ErrUnknownLevel is returned for difficulty levels outside MinLevel..MaxLevel.
var ErrUnknownLevel = errors.New("unknown difficulty level")

type Strategy int

const (
	StrategyRandom Strategy = iota
	StrategyHeuristic
	StrategyMinimax
)

func (s Strategy) String() string {
	switch s {
	case StrategyRandom:
		return "random"
	case StrategyHeuristic:
		return "heuristic"
	case StrategyMinimax:
		return "minimax"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// DifficultyProfile describes how a level picks its move. Depth is only
// meaningful for StrategyMinimax.
type DifficultyProfile struct {
	Level    int
	Strategy Strategy
	Depth    int
}

// ProfileForLevel maps a user-facing difficulty level to its strategy.
func ProfileForLevel(level int) (DifficultyProfile, error) {
	switch level {
	case 1:
		return DifficultyProfile{Level: level, Strategy: StrategyRandom}, nil
	case 2, 3:
		return DifficultyProfile{Level: level, Strategy: StrategyHeuristic}, nil
	case 4:
		return DifficultyProfile{Level: level, Strategy: StrategyMinimax, Depth: 2}, nil
	case 5:
		return DifficultyProfile{Level: level, Strategy: StrategyMinimax, Depth: 3}, nil
	}
	return DifficultyProfile{}, fmt.Errorf("level %d: %w", level, ErrUnknownLevel)
}

// Selector dispatches a difficulty profile to the matching bot.
// A Selector owns its random source and must not be shared between goroutines.
type Selector struct {
	random    *RandomBot
	heuristic *HeuristicBot
	searcher  *Searcher
	log       zerolog.Logger
}

// NewSelector builds a selector over rules. A nil rng selects a frand source.
func NewSelector(rules Rules, rng Rand, log zerolog.Logger) *Selector {
	if rng == nil {
		rng = defaultRand()
	}
	searcher := NewSearcher(rules, NewDefaultEvaluator(rules)).WithLogger(log)
	return &Selector{
		random:    NewRandomBot(rules, rng),
		heuristic: NewHeuristicBot(rules, rng),
		searcher:  searcher,
		log:       log,
	}
}

// Bot returns the bot that plays profile.
func (s *Selector) Bot(profile DifficultyProfile) ChessBot {
	switch profile.Strategy {
	case StrategyHeuristic:
		return s.heuristic
	case StrategyMinimax:
		return NewMinimaxBot(profile.Depth, s.searcher)
	default:
		return s.random
	}
}

// ChooseMove returns the move for the side to move, or nil when it has none.
// A nil result is the end-of-game signal, not an error.
func (s *Selector) ChooseMove(pos *chess.Position, profile DifficultyProfile) *chess.Move {
	bot := s.Bot(profile)
	move := bot.BestMove(pos)
	if move == nil {
		s.log.Info().Str("bot", bot.Name()).Msg("no move available")
		return nil
	}
	s.log.Debug().Str("bot", bot.Name()).Int("level", profile.Level).Str("move", move.String()).Msg("move chosen")
	return move
}
