package engine

import "chessrules/internal/board"

var promotionKinds = []board.Kind{board.Queen, board.Rook, board.Bishop, board.Knight}

// LegalMoves lists every legal move for c, expanding promotions into one move
// per piece choice and appending available castles
func LegalMoves(b *board.Board, c board.Color) []Move {
	var moves []Move
	for _, from := range board.AllSquares() {
		p := b.At(from)
		if p.IsEmpty() || p.Color != c {
			continue
		}
		for _, to := range Targets(b, from) {
			m := Move{Color: c, Kind: p.Kind, From: from, To: to}
			if p.Kind == board.Pawn && to.Rank == board.LastRank(c) {
				for _, k := range promotionKinds {
					m.Promotion = k
					moves = append(moves, m)
				}
				continue
			}
			moves = append(moves, m)
		}
	}

	for _, side := range []board.Side{board.KingSide, board.QueenSide} {
		if CanCastle(b, c, side) == nil {
			moves = append(moves, CastleMove(c, side))
		}
	}
	return moves
}

// Targets lists legal destinations for the piece on from, castles excluded
func Targets(b *board.Board, from board.Square) []board.Square {
	p := b.At(from)
	if p.IsEmpty() {
		return nil
	}
	var targets []board.Square
	for _, to := range board.AllSquares() {
		if IsLegal(b, p.Color, p.Kind, from, to) {
			targets = append(targets, to)
		}
	}
	return targets
}
