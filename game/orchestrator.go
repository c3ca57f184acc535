// Package game schedules the computer's moves against the authoritative game.
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"chessai/bots"
	"chessai/rules"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNotYourTurn   = errors.New("it is the computer's turn")
)

type Mode int

const (
	ModePvP Mode = iota
	ModeAI
)

func (m Mode) String() string {
	if m == ModeAI {
		return "ai"
	}
	return "pvp"
}

type State int

const (
	Idle State = iota
	Thinking
)

func (s State) String() string {
	if s == Thinking {
		return "thinking"
	}
	return "idle"
}

// MoveChooser picks the computer's move. *bots.Selector implements it.
type MoveChooser interface {
	ChooseMove(pos *chess.Position, profile bots.DifficultyProfile) *chess.Move
}

type Options struct {
	Mode     Mode
	AIColor  chess.Color
	Level    int
	MinDelay time.Duration
	MaxDelay time.Duration
	// Strict panics when the rules reject a computer move. Otherwise the
	// move is logged and skipped.
	Strict bool
	// Rand draws the thinking delay. Nil selects a frand source.
	Rand bots.Rand
	// OnMove, when set, is called after a computer move has been applied.
	OnMove func(m *chess.Move)
}

// Orchestrator owns the game and decides when the computer moves. It is Idle
// until Trigger finds the computer to move, then Thinking until the delayed
// move has been applied or the turn was cancelled.
type Orchestrator struct {
	mu       sync.Mutex
	searchMu sync.Mutex
	wg       sync.WaitGroup

	chooser MoveChooser
	opts    Options
	rng     bots.Rand
	log     zerolog.Logger

	game             *chess.Game
	mode             Mode
	profile          bots.DifficultyProfile
	state            State
	generation       uint64
	cancel           context.CancelFunc
	promotionPending bool
	closed           bool
}

func NewOrchestrator(chooser MoveChooser, opts Options, log zerolog.Logger) (*Orchestrator, error) {
	profile, err := bots.ProfileForLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.MinDelay < 0 || opts.MaxDelay < opts.MinDelay {
		return nil, fmt.Errorf("invalid thinking delay %v..%v", opts.MinDelay, opts.MaxDelay)
	}
	if opts.AIColor == chess.NoColor {
		opts.AIColor = chess.Black
	}
	rng := opts.Rand
	if rng == nil {
		rng = frand.New()
	}
	return &Orchestrator{
		chooser: chooser,
		opts:    opts,
		rng:     rng,
		log:     log,
		game:    chess.NewGame(),
		mode:    opts.Mode,
		profile: profile,
	}, nil
}

// Trigger starts the computer's turn if it is due and reports whether it did.
// It is a no-op while already Thinking.
func (o *Orchestrator) Trigger() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.triggerLocked()
}

func (o *Orchestrator) triggerLocked() bool {
	if o.closed || o.state == Thinking || o.mode != ModeAI || o.promotionPending {
		return false
	}
	pos := o.game.Position()
	if outcome, _ := o.outcomeLocked(); outcome != chess.NoOutcome || pos.Turn() != o.opts.AIColor {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.state = Thinking
	o.cancel = cancel
	delay := o.delay()
	o.log.Debug().Uint64("turn", o.generation).Dur("delay", delay).Int("level", o.profile.Level).Msg("thinking")

	o.wg.Add(1)
	go o.think(ctx, o.generation, pos.String(), o.profile, delay)
	return true
}

func (o *Orchestrator) delay() time.Duration {
	span := o.opts.MaxDelay - o.opts.MinDelay
	return o.opts.MinDelay + time.Duration(o.rng.Intn(int(span)+1))
}

func (o *Orchestrator) think(ctx context.Context, gen uint64, fen string, profile bots.DifficultyProfile, delay time.Duration) {
	defer o.wg.Done()

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	pos, err := rules.ParseFEN(fen)
	if err != nil {
		o.log.Error().Err(err).Msg("snapshot position")
		o.finish(gen, nil)
		return
	}

	o.searchMu.Lock()
	move := o.chooser.ChooseMove(pos, profile)
	o.searchMu.Unlock()

	o.finish(gen, move)
}

// finish applies move if turn gen is still current and returns to Idle.
func (o *Orchestrator) finish(gen uint64, move *chess.Move) {
	applied := o.apply(gen, move)
	if applied != nil && o.opts.OnMove != nil {
		o.opts.OnMove(applied)
	}
}

func (o *Orchestrator) apply(gen uint64, move *chess.Move) *chess.Move {
	o.mu.Lock()
	defer o.mu.Unlock()

	if gen != o.generation {
		o.log.Debug().Uint64("turn", gen).Msg("discarding move of a cancelled turn")
		return nil
	}
	o.state = Idle
	o.cancel = nil

	if move == nil {
		outcome, _ := o.outcomeLocked()
		o.log.Info().Str("outcome", outcome.String()).Msg("computer has no move")
		return nil
	}
	if err := o.game.Move(move); err != nil {
		if o.opts.Strict {
			panic(fmt.Sprintf("computer move %s rejected: %v", move, err))
		}
		o.log.Error().Err(err).Str("move", move.String()).Msg("computer move rejected")
		return nil
	}
	outcome, method := o.outcomeLocked()
	o.log.Info().Str("move", move.String()).Str("outcome", outcome.String()).Str("method", method.String()).Msg("computer moved")
	return move
}

// cancelLocked drops the pending turn, if any. A running search finishes but
// its move is discarded because the generation no longer matches.
func (o *Orchestrator) cancelLocked() {
	o.generation++
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.state = Idle
}

// PlayerMove applies a human move and starts the computer's reply if due.
func (o *Orchestrator) PlayerMove(m *chess.Move) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.mode == ModeAI && o.game.Position().Turn() == o.opts.AIColor {
		return ErrNotYourTurn
	}
	if err := o.game.Move(m); err != nil {
		return fmt.Errorf("player move %s: %w", m, err)
	}
	o.promotionPending = false
	o.triggerLocked()
	return nil
}

// NewGame resets to the initial position.
func (o *Orchestrator) NewGame() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.cancelLocked()
	o.game = chess.NewGame()
	o.promotionPending = false
	o.log.Info().Msg("new game")
	o.triggerLocked()
}

// LoadFEN replaces the game with one starting from fen.
func (o *Orchestrator) LoadFEN(fen string) error {
	opt, err := chess.FEN(fen)
	if err != nil {
		return fmt.Errorf("load fen: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.cancelLocked()
	o.game = chess.NewGame(opt)
	o.promotionPending = false
	o.triggerLocked()
	return nil
}

// Undo takes back the last move. Against the computer it keeps taking back
// until the human is to move again.
func (o *Orchestrator) Undo() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	moves := o.game.Moves()
	if len(moves) == 0 {
		return ErrNothingToUndo
	}
	o.cancelLocked()

	n := len(moves) - 1
	if o.mode == ModeAI && n > 0 && turnAfter(o.game, n) == o.opts.AIColor {
		n--
	}
	g, err := replay(o.game, n)
	if err != nil {
		return err
	}
	o.game = g
	o.promotionPending = false
	o.triggerLocked()
	return nil
}

func (o *Orchestrator) SetMode(mode Mode) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.cancelLocked()
	o.mode = mode
	o.triggerLocked()
}

func (o *Orchestrator) SetLevel(level int) error {
	profile, err := bots.ProfileForLevel(level)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.cancelLocked()
	o.profile = profile
	o.triggerLocked()
	return nil
}

// SetPromotionPending blocks the computer while the human picks a promotion piece.
func (o *Orchestrator) SetPromotionPending(pending bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.promotionPending = pending
	if !pending {
		o.triggerLocked()
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) Mode() Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode
}

func (o *Orchestrator) Level() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.profile.Level
}

func (o *Orchestrator) AIColor() chess.Color {
	return o.opts.AIColor
}

// Position returns a copy of the current position.
func (o *Orchestrator) Position() *chess.Position {
	o.mu.Lock()
	fen := o.game.Position().String()
	o.mu.Unlock()

	pos, err := rules.ParseFEN(fen)
	if err != nil {
		panic(err)
	}
	return pos
}

// Outcome reports the result of the game. Besides the results chess.Game
// records itself it includes every draw the rules recognise, such as an
// exhausted fifty-move counter, so a loaded position can be over on arrival.
func (o *Orchestrator) Outcome() (chess.Outcome, chess.Method) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcomeLocked()
}

func (o *Orchestrator) outcomeLocked() (chess.Outcome, chess.Method) {
	if outcome := o.game.Outcome(); outcome != chess.NoOutcome {
		return outcome, o.game.Method()
	}

	var std rules.Standard
	pos := o.game.Position()
	switch {
	case std.IsCheckmate(pos):
		if pos.Turn() == chess.White {
			return chess.BlackWon, chess.Checkmate
		}
		return chess.WhiteWon, chess.Checkmate
	case std.IsStalemate(pos):
		return chess.Draw, chess.Stalemate
	case rules.InsufficientMaterial(pos.Board()):
		return chess.Draw, chess.InsufficientMaterial
	case std.IsDraw(pos):
		return chess.Draw, chess.FiftyMoveRule
	}
	return chess.NoOutcome, chess.NoMethod
}

// Snapshot returns an independent copy of the game.
func (o *Orchestrator) Snapshot() *chess.Game {
	o.mu.Lock()
	defer o.mu.Unlock()

	g, err := replay(o.game, len(o.game.Moves()))
	if err != nil {
		// moves already applied to o.game always replay
		panic(err)
	}
	return g
}

// Close cancels any pending turn and waits for the thinking goroutine to exit.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.cancelLocked()
	o.closed = true
	o.mu.Unlock()

	o.wg.Wait()
}

// replay rebuilds g from its first position with only its first n moves.
func replay(g *chess.Game, n int) (*chess.Game, error) {
	opt, err := chess.FEN(g.Positions()[0].String())
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	out := chess.NewGame(opt)
	for _, m := range g.Moves()[:n] {
		if err := out.Move(m); err != nil {
			return nil, fmt.Errorf("replay %s: %w", m, err)
		}
	}
	return out, nil
}

// turnAfter returns the side to move once the first n moves of g are played.
func turnAfter(g *chess.Game, n int) chess.Color {
	return g.Positions()[n].Turn()
}
