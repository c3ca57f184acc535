package main

import (
	"fmt"
	"image/color"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"chessai/bots"
	"chessai/config"
	"chessai/game"
	"chessai/logging"
	"chessai/rules"
)

const (
	squareSize   = 64
	boardOffsetX = 16
	boardOffsetY = 48
	screenWidth  = boardOffsetX*2 + squareSize*8
	screenHeight = boardOffsetY + squareSize*8 + 48
)

var (
	lightSquare = color.RGBA{240, 217, 181, 255}
	darkSquare  = color.RGBA{181, 136, 99, 255}
	highlight   = color.RGBA{246, 246, 105, 255}
	whiteMan    = color.RGBA{250, 250, 250, 255}
	blackMan    = color.RGBA{30, 30, 30, 255}
)

var promotionKeys = map[ebiten.Key]chess.PieceType{
	ebiten.KeyQ: chess.Queen,
	ebiten.KeyR: chess.Rook,
	ebiten.KeyB: chess.Bishop,
	ebiten.KeyN: chess.Knight,
}

var levelKeys = map[ebiten.Key]int{
	ebiten.KeyDigit1: 1,
	ebiten.KeyDigit2: 2,
	ebiten.KeyDigit3: 3,
	ebiten.KeyDigit4: 4,
	ebiten.KeyDigit5: 5,
}

type Game struct {
	orch *game.Orchestrator
	log  zerolog.Logger

	selected   chess.Square
	promoFrom  chess.Square
	promoTo    chess.Square
	promoting  bool
	message    string
	squareImgs map[color.RGBA]*ebiten.Image
}

func NewGame(orch *game.Orchestrator, log zerolog.Logger) *Game {
	g := &Game{
		orch:       orch,
		log:        log,
		selected:   chess.NoSquare,
		squareImgs: make(map[color.RGBA]*ebiten.Image),
	}
	for _, c := range []color.RGBA{lightSquare, darkSquare, highlight, whiteMan, blackMan} {
		img := ebiten.NewImage(squareSize, squareSize)
		img.Fill(c)
		g.squareImgs[c] = img
	}
	return g
}

// humanColor is the side at the bottom of the board.
func (g *Game) humanColor() chess.Color {
	if g.orch.Mode() == game.ModeAI {
		return g.orch.AIColor().Other()
	}
	return chess.White
}

func (g *Game) Update() error {
	if g.promoting {
		g.updatePromotion()
		return nil
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.reset()
		g.orch.NewGame()
	case inpututil.IsKeyJustPressed(ebiten.KeyU):
		g.reset()
		if err := g.orch.Undo(); err != nil {
			g.message = err.Error()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.reset()
		if g.orch.Mode() == game.ModeAI {
			g.orch.SetMode(game.ModePvP)
		} else {
			g.orch.SetMode(game.ModeAI)
		}
	}
	for key, level := range levelKeys {
		if inpututil.IsKeyJustPressed(key) {
			if err := g.orch.SetLevel(level); err != nil {
				g.message = err.Error()
			}
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if sq, ok := g.squareAt(ebiten.CursorPosition()); ok {
			g.click(sq)
		}
	}

	g.orch.Trigger()
	return nil
}

func (g *Game) reset() {
	g.selected = chess.NoSquare
	g.promoting = false
	g.message = ""
}

func (g *Game) click(sq chess.Square) {
	if g.orch.State() == game.Thinking {
		return
	}
	pos := g.orch.Position()
	piece := pos.Board().Piece(sq)
	if piece != chess.NoPiece && piece.Color() == pos.Turn() {
		g.selected = sq
		return
	}
	if g.selected == chess.NoSquare {
		return
	}

	from := g.selected
	g.selected = chess.NoSquare
	moves := pos.ValidMoves()
	if rules.FindMove(moves, from, sq, chess.Queen) != nil {
		g.promoFrom, g.promoTo, g.promoting = from, sq, true
		g.orch.SetPromotionPending(true)
		return
	}
	if m := rules.FindMove(moves, from, sq, chess.NoPieceType); m != nil {
		g.play(m)
	}
}

func (g *Game) updatePromotion() {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.promoting = false
		g.orch.SetPromotionPending(false)
		return
	}
	for key, promo := range promotionKeys {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		g.promoting = false
		m := rules.FindMove(g.orch.Position().ValidMoves(), g.promoFrom, g.promoTo, promo)
		if m == nil {
			g.orch.SetPromotionPending(false)
			return
		}
		g.play(m)
		return
	}
}

func (g *Game) play(m *chess.Move) {
	if err := g.orch.PlayerMove(m); err != nil {
		g.message = err.Error()
		g.log.Warn().Err(err).Msg("player move refused")
		return
	}
	g.message = ""
}

// squareAt maps screen coordinates to a board square, honouring the flip.
func (g *Game) squareAt(x, y int) (chess.Square, bool) {
	x -= boardOffsetX
	y -= boardOffsetY
	if x < 0 || x >= squareSize*8 || y < 0 || y >= squareSize*8 {
		return chess.NoSquare, false
	}
	file, rank := x/squareSize, 7-y/squareSize
	if g.humanColor() == chess.Black {
		file, rank = 7-file, 7-rank
	}
	return chess.NewSquare(chess.File(file), chess.Rank(rank)), true
}

func (g *Game) Draw(screen *ebiten.Image) {
	pos := g.orch.Position()
	board := pos.Board()
	flip := g.humanColor() == chess.Black

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			file, rank := col, 7-row
			if flip {
				file, rank = 7-col, 7-rank
			}
			sq := chess.NewSquare(chess.File(file), chess.Rank(rank))

			clr := lightSquare
			if (file+rank)%2 == 0 {
				clr = darkSquare
			}
			if sq == g.selected {
				clr = highlight
			}
			x, y := boardOffsetX+col*squareSize, boardOffsetY+row*squareSize
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x), float64(y))
			screen.DrawImage(g.squareImgs[clr], op)

			if piece := board.Piece(sq); piece != chess.NoPiece {
				g.drawPiece(screen, piece, x, y)
			}
		}
	}

	ebitenutil.DebugPrintAt(screen, g.status(pos), boardOffsetX, 8)
	help := "N new  U undo  M mode  1-5 level"
	if g.promoting {
		help = "promote to: Q R B N (Esc cancels)"
	}
	ebitenutil.DebugPrintAt(screen, help, boardOffsetX, boardOffsetY+squareSize*8+8)
	if g.message != "" {
		ebitenutil.DebugPrintAt(screen, g.message, boardOffsetX, boardOffsetY+squareSize*8+24)
	}
}

// drawPiece renders a piece as a small tile with its letter.
func (g *Game) drawPiece(screen *ebiten.Image, piece chess.Piece, x, y int) {
	tile := g.squareImgs[whiteMan]
	if piece.Color() == chess.Black {
		tile = g.squareImgs[blackMan]
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(0.5, 0.5)
	op.GeoM.Translate(float64(x+squareSize/4), float64(y+squareSize/4))
	screen.DrawImage(tile, op)

	letter := strings.ToUpper(piece.Type().String())
	if piece.Type() == chess.Pawn {
		letter = "P"
	}
	ebitenutil.DebugPrintAt(screen, letter, x+squareSize/2-3, y+squareSize/2-8)
}

func (g *Game) status(pos *chess.Position) string {
	mode := fmt.Sprintf("%s level %d", g.orch.Mode(), g.orch.Level())
	if outcome, method := g.orch.Outcome(); outcome != chess.NoOutcome {
		return fmt.Sprintf("%s  result %s (%s)", mode, outcome, method)
	}
	if g.orch.State() == game.Thinking {
		return mode + "  computer is thinking..."
	}
	return fmt.Sprintf("%s  %s to move", mode, pos.Turn().Name())
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logging.New(cfg.Logs)

	mode := game.ModeAI
	if cfg.Game.Mode == "pvp" {
		mode = game.ModePvP
	}
	aiColor := chess.Black
	if cfg.Game.AIColor == "white" {
		aiColor = chess.White
	}

	selector := bots.NewSelector(rules.Standard{}, nil, log)
	orch, err := game.NewOrchestrator(selector, game.Options{
		Mode:     mode,
		AIColor:  aiColor,
		Level:    cfg.AI.Level,
		MinDelay: cfg.AI.MinDelay,
		MaxDelay: cfg.AI.MaxDelay,
		Strict:   cfg.AI.Strict,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("creating orchestrator")
	}
	defer orch.Close()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Go Chess")
	if err := ebiten.RunGame(NewGame(orch, log)); err != nil {
		log.Error().Err(err).Msg("game loop")
	}
}
