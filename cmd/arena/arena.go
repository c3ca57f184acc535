package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"chessai/bots"
	"chessai/rules"
)

type arenaConfig struct {
	Games       int
	Concurrency int
	LevelA      int
	LevelB      int
	MaxPlies    int
	PGN         string
}

type gameInfo struct {
	number         int
	engineAIsWhite bool
}

type gameResult struct {
	info    gameInfo
	game    *chess.Game
	outcome chess.Outcome
	comment string
}

// player is one side of an arena game. Each worker owns its players.
type player struct {
	selector *bots.Selector
	profile  bots.DifficultyProfile
}

func newPlayer(level int, log zerolog.Logger) (player, error) {
	profile, err := bots.ProfileForLevel(level)
	if err != nil {
		return player{}, err
	}
	return player{
		selector: bots.NewSelector(rules.Standard{}, frand.New(), log),
		profile:  profile,
	}, nil
}

func runArena(ctx context.Context, cfg arenaConfig, log zerolog.Logger) (score, error) {
	if cfg.Games <= 0 || cfg.Concurrency <= 0 {
		return score{}, fmt.Errorf("games and concurrency must be positive")
	}
	for _, level := range []int{cfg.LevelA, cfg.LevelB} {
		if _, err := bots.ProfileForLevel(level); err != nil {
			return score{}, err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	gameInfos := make(chan gameInfo)
	gameResults := make(chan gameResult)

	g.Go(func() error {
		defer close(gameInfos)
		for i := 0; i < cfg.Games; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case gameInfos <- gameInfo{number: i + 1, engineAIsWhite: i%2 == 0}:
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return playGames(ctx, cfg, log, gameInfos, gameResults)
		})
	}
	g.Go(func() error {
		wg.Wait()
		close(gameResults)
		return nil
	})

	var total score
	var finished []gameResult
	g.Go(func() error {
		for res := range gameResults {
			total.add(res)
			finished = append(finished, res)
			log.Info().
				Int("game", res.info.number).
				Bool("a_white", res.info.engineAIsWhite).
				Str("result", res.outcome.String()).
				Str("comment", res.comment).
				Int("plies", len(res.game.Moves())).
				Msgf("score %d - %d - %d", total.Wins, total.Losses, total.Draws)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return total, err
	}
	if cfg.PGN != "" {
		if err := writePGN(cfg.PGN, cfg, finished); err != nil {
			return total, err
		}
	}
	return total, nil
}

func playGames(ctx context.Context, cfg arenaConfig, log zerolog.Logger, gameInfos <-chan gameInfo, gameResults chan<- gameResult) error {
	a, err := newPlayer(cfg.LevelA, log)
	if err != nil {
		return err
	}
	b, err := newPlayer(cfg.LevelB, log)
	if err != nil {
		return err
	}
	for info := range gameInfos {
		white, black := a, b
		if !info.engineAIsWhite {
			white, black = b, a
		}
		res, err := playGame(ctx, white, black, cfg.MaxPlies)
		if err != nil {
			return fmt.Errorf("game %d: %w", info.number, err)
		}
		res.info = info
		select {
		case <-ctx.Done():
			return ctx.Err()
		case gameResults <- res:
		}
	}
	return nil
}

// playGame plays one game to its end, to a side without a move, or to maxPlies.
func playGame(ctx context.Context, white, black player, maxPlies int) (gameResult, error) {
	var std rules.Standard
	g := chess.NewGame()
	for g.Outcome() == chess.NoOutcome {
		if err := ctx.Err(); err != nil {
			return gameResult{}, err
		}
		pos := g.Position()
		if std.IsDraw(pos) {
			return gameResult{game: g, outcome: chess.Draw, comment: "draw by rule"}, nil
		}
		if len(g.Moves()) >= maxPlies {
			return gameResult{game: g, outcome: chess.Draw, comment: "ply limit"}, nil
		}

		side := white
		if pos.Turn() == chess.Black {
			side = black
		}
		m := side.selector.ChooseMove(pos, side.profile)
		if m == nil {
			return gameResult{game: g, outcome: g.Outcome(), comment: "no move"}, nil
		}
		if err := g.Move(m); err != nil {
			return gameResult{}, fmt.Errorf("%s played %s: %w", side.profile.Strategy, m, err)
		}
	}
	return gameResult{game: g, outcome: g.Outcome(), comment: g.Method().String()}, nil
}

func writePGN(path string, cfg arenaConfig, results []gameResult) error {
	sort.Slice(results, func(i, j int) bool { return results[i].info.number < results[j].info.number })

	var sb strings.Builder
	for _, res := range results {
		white, black := cfg.LevelA, cfg.LevelB
		if !res.info.engineAIsWhite {
			white, black = black, white
		}
		res.game.AddTagPair("Event", "arena")
		res.game.AddTagPair("Round", fmt.Sprint(res.info.number))
		res.game.AddTagPair("White", fmt.Sprintf("level %d", white))
		res.game.AddTagPair("Black", fmt.Sprintf("level %d", black))
		res.game.AddTagPair("Result", res.outcome.String())
		res.game.AddTagPair("Termination", res.comment)
		sb.WriteString(res.game.String())
		sb.WriteString("\n\n")
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing pgn: %w", err)
	}
	return nil
}
