package bots

import (
	"github.com/notnil/chess"
)

// MateScore is the saturated score of a checkmate. No material or positional
// total can reach it, so a forced mate always dominates.
const MateScore = 9999.0

const (
	PawnAdvanceWeight = 0.1
	CenterWeight      = 0.3
	CheckWeight       = 0.5
)

var pieceValues = map[chess.PieceType]float64{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
	chess.King:   0,
}

var centerSquares = map[chess.Square]bool{
	chess.D4: true,
	chess.E4: true,
	chess.D5: true,
	chess.E5: true,
}

// PositionEvaluator scores a position from White's point of view:
// positive favours White, negative favours Black.
type PositionEvaluator interface {
	Evaluate(pos *chess.Position) float64
}

// DefaultEvaluator counts material with small bonuses for advanced pawns,
// central pieces and giving check.
type DefaultEvaluator struct {
	Rules Rules
}

func NewDefaultEvaluator(rules Rules) DefaultEvaluator {
	return DefaultEvaluator{Rules: rules}
}

func (e DefaultEvaluator) Evaluate(pos *chess.Position) float64 {
	if e.Rules.IsCheckmate(pos) {
		if e.Rules.SideToMove(pos) == chess.White {
			return -MateScore
		}
		return MateScore
	}
	if e.Rules.IsDraw(pos) {
		return 0
	}

	score := e.materialScore(pos.Board())

	if e.Rules.IsCheck(pos) {
		if e.Rules.SideToMove(pos) == chess.White {
			score -= CheckWeight
		} else {
			score += CheckWeight
		}
	}
	return score
}

// materialScore walks a1..h8 in order so the float sum is always the same.
func (e DefaultEvaluator) materialScore(board *chess.Board) float64 {
	var score float64
	for sq := chess.A1; sq <= chess.H8; sq++ {
		piece := board.Piece(sq)
		if piece == chess.NoPiece {
			continue
		}
		value := pieceValues[piece.Type()] + e.positionalBonus(piece, sq)
		if piece.Color() == chess.White {
			score += value
		} else {
			score -= value
		}
	}
	return score
}

func (e DefaultEvaluator) positionalBonus(piece chess.Piece, sq chess.Square) float64 {
	var bonus float64
	if piece.Type() == chess.Pawn {
		bonus += float64(pawnAdvance(piece.Color(), sq.Rank())) * PawnAdvanceWeight
	}
	if centerSquares[sq] {
		bonus += CenterWeight
	}
	return bonus
}

// pawnAdvance is the number of ranks a pawn has travelled from its starting rank.
func pawnAdvance(c chess.Color, r chess.Rank) int {
	if c == chess.White {
		return int(r) - int(chess.Rank2)
	}
	return int(chess.Rank7) - int(r)
}
