// Command arena plays the difficulty levels against each other.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"chessai/config"
	"chessai/logging"
)

func main() {
	var cfg arenaConfig
	flag.IntVar(&cfg.Games, "games", 20, "Number of games")
	flag.IntVar(&cfg.Concurrency, "concurrency", 4, "Games played in parallel")
	flag.IntVar(&cfg.LevelA, "a", 5, "Difficulty level of engine A")
	flag.IntVar(&cfg.LevelB, "b", 3, "Difficulty level of engine B")
	flag.IntVar(&cfg.MaxPlies, "maxplies", 300, "Adjudicate a draw after this many plies")
	flag.StringVar(&cfg.PGN, "pgn", "", "Write the games to this PGN file")
	flag.Parse()

	logCfg, cfgErr := logConfig()
	log := logging.New(logCfg)
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("invalid configuration, logging with defaults")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().Interface("config", cfg).Msg("arena started")
	score, err := runArena(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("arena failed")
		os.Exit(1)
	}
	stat := score.stat()
	log.Info().
		Int("wins", score.Wins).Int("losses", score.Losses).Int("draws", score.Draws).
		Float64("fraction", stat.winningFraction).Float64("elo", stat.eloDifference).
		Msg("arena finished")
}

// logConfig returns the configured log settings, or the defaults together
// with the error when the environment does not parse.
func logConfig() (config.LogConfig, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Default().Logs, err
	}
	return cfg.Logs, nil
}
