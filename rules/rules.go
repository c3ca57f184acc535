// Package rules adapts github.com/notnil/chess to the move generation and
// arbitration contract the bots search against.
package rules

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"
)

// ErrIllegalMove is returned when a move is not in the legal move list of a position.
var ErrIllegalMove = errors.New("illegal move")

// fiftyMoveLimit is the half-move clock value at which the game is drawn.
const fiftyMoveLimit = 100

// Standard implements the rules of orthodox chess on top of notnil/chess.
// It has no state, so the zero value is ready to use and safe to share.
type Standard struct{}

// LegalMoves returns every legal move for the side to move. The slice is a
// fresh copy owned by the caller.
func (Standard) LegalMoves(pos *chess.Position) []*chess.Move {
	return pos.ValidMoves()
}

// Apply returns the position reached by playing m. pos is left untouched.
func (Standard) Apply(pos *chess.Position, m *chess.Move) *chess.Position {
	return pos.Update(m)
}

// SideToMove returns the color whose turn it is.
func (Standard) SideToMove(pos *chess.Position) chess.Color {
	return pos.Turn()
}

// IsCheck reports whether the side to move has its king attacked.
func (Standard) IsCheck(pos *chess.Position) bool {
	return InCheck(pos.Board(), pos.Turn())
}

// IsCheckmate reports whether the side to move is checkmated.
func (Standard) IsCheckmate(pos *chess.Position) bool {
	return pos.Status() == chess.Checkmate
}

// IsStalemate reports whether the side to move has no legal move and is not in check.
func (Standard) IsStalemate(pos *chess.Position) bool {
	return pos.Status() == chess.Stalemate
}

// IsDraw reports stalemate, insufficient material or an exhausted fifty-move counter.
// Repetitions need the game history and are left to chess.Game.
func (s Standard) IsDraw(pos *chess.Position) bool {
	if s.IsStalemate(pos) {
		return true
	}
	if InsufficientMaterial(pos.Board()) {
		return true
	}
	return pos.HalfMoveClock() >= fiftyMoveLimit
}

// Validate returns ErrIllegalMove when m is not one of the legal moves of pos.
func (s Standard) Validate(pos *chess.Position, m *chess.Move) error {
	if m == nil {
		return fmt.Errorf("nil move: %w", ErrIllegalMove)
	}
	if FindMove(s.LegalMoves(pos), m.S1(), m.S2(), m.Promo()) == nil {
		return fmt.Errorf("%s in %s: %w", m, pos, ErrIllegalMove)
	}
	return nil
}

// FindMove returns the move matching from, to and promo, or nil.
func FindMove(moves []*chess.Move, from, to chess.Square, promo chess.PieceType) *chess.Move {
	for _, m := range moves {
		if m.S1() == from && m.S2() == to && m.Promo() == promo {
			return m
		}
	}
	return nil
}

// ParseFEN decodes a FEN string into a position.
func ParseFEN(fen string) (*chess.Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fen, err)
	}
	return chess.NewGame(opt).Position(), nil
}

// IsCapture reports whether m removes an enemy piece, en passant included.
func IsCapture(m *chess.Move) bool {
	return m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant)
}

// InsufficientMaterial reports positions where neither side can ever mate:
// bare kings, a single minor piece, or bishops that all stand on one square color.
func InsufficientMaterial(board *chess.Board) bool {
	var knights, bishops int
	bishopColors := [2]int{}
	for sq, p := range board.SquareMap() {
		switch p.Type() {
		case chess.NoPieceType, chess.King:
		case chess.Knight:
			knights++
		case chess.Bishop:
			bishops++
			bishopColors[squareColor(sq)]++
		default:
			return false
		}
	}
	if knights+bishops <= 1 {
		return true
	}
	return knights == 0 && (bishopColors[0] == 0 || bishopColors[1] == 0)
}

func squareColor(sq chess.Square) int {
	return (int(sq.File()) + int(sq.Rank())) % 2
}
