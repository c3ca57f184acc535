package rules

import "github.com/notnil/chess"

type offset struct{ df, dr int }

var (
	knightOffsets = []offset{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingOffsets   = []offset{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	rookRays      = []offset{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopRays    = []offset{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// InCheck reports whether the king of color c is attacked.
func InCheck(board *chess.Board, c chess.Color) bool {
	king, ok := KingSquare(board, c)
	if !ok {
		return false
	}
	return IsSquareAttacked(board, king, c.Other())
}

// KingSquare returns the square of the king of color c.
func KingSquare(board *chess.Board, c chess.Color) (chess.Square, bool) {
	for sq := chess.A1; sq <= chess.H8; sq++ {
		p := board.Piece(sq)
		if p.Type() == chess.King && p.Color() == c {
			return sq, true
		}
	}
	return chess.NoSquare, false
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
func IsSquareAttacked(board *chess.Board, sq chess.Square, by chess.Color) bool {
	file, rank := int(sq.File()), int(sq.Rank())

	// a pawn attacks diagonally forward, so look one rank behind sq from its point of view
	pawnRank := rank - 1
	if by == chess.Black {
		pawnRank = rank + 1
	}
	for _, df := range []int{-1, 1} {
		if p, ok := pieceAt(board, file+df, pawnRank); ok && p.Color() == by && p.Type() == chess.Pawn {
			return true
		}
	}

	for _, o := range knightOffsets {
		if p, ok := pieceAt(board, file+o.df, rank+o.dr); ok && p.Color() == by && p.Type() == chess.Knight {
			return true
		}
	}
	for _, o := range kingOffsets {
		if p, ok := pieceAt(board, file+o.df, rank+o.dr); ok && p.Color() == by && p.Type() == chess.King {
			return true
		}
	}

	if slides(board, file, rank, by, rookRays, chess.Rook) {
		return true
	}
	return slides(board, file, rank, by, bishopRays, chess.Bishop)
}

// slides walks each ray until the first piece and reports whether it is a
// slider of color by moving along that ray (the given kind or a queen).
func slides(board *chess.Board, file, rank int, by chess.Color, rays []offset, kind chess.PieceType) bool {
	for _, ray := range rays {
		f, r := file+ray.df, rank+ray.dr
		for onBoard(f, r) {
			p := board.Piece(chess.NewSquare(chess.File(f), chess.Rank(r)))
			if p != chess.NoPiece {
				if p.Color() == by && (p.Type() == kind || p.Type() == chess.Queen) {
					return true
				}
				break
			}
			f, r = f+ray.df, r+ray.dr
		}
	}
	return false
}

func pieceAt(board *chess.Board, file, rank int) (chess.Piece, bool) {
	if !onBoard(file, rank) {
		return chess.NoPiece, false
	}
	p := board.Piece(chess.NewSquare(chess.File(file), chess.Rank(rank)))
	return p, p != chess.NoPiece
}

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}
