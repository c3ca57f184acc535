package main

import (
	"math"

	"github.com/notnil/chess"
)

// score counts results from engine A's point of view.
type score struct {
	Wins, Losses, Draws int
}

func (s *score) add(res gameResult) {
	switch {
	case res.outcome == chess.WhiteWon && res.info.engineAIsWhite,
		res.outcome == chess.BlackWon && !res.info.engineAIsWhite:
		s.Wins++
	case res.outcome == chess.WhiteWon, res.outcome == chess.BlackWon:
		s.Losses++
	default:
		s.Draws++
	}
}

type gameStatistics struct {
	winningFraction float64
	eloDifference   float64
}

// https://www.chessprogramming.org/Match_Statistics
func (s score) stat() gameStatistics {
	games := s.Wins + s.Losses + s.Draws
	if games == 0 {
		return gameStatistics{}
	}
	fraction := (float64(s.Wins) + 0.5*float64(s.Draws)) / float64(games)
	return gameStatistics{
		winningFraction: fraction,
		eloDifference:   -math.Log(1/fraction-1) * 400 / math.Ln10,
	}
}
