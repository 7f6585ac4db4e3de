package engine

import "chessrules/internal/board"

const kingHomeFile = 4

type castleGeometry struct {
	kingTo   int
	rookFrom int
	rookTo   int
	between  []int // files strictly between king and rook
	kingPath []int // files the king steps onto, in order
}

var castles = map[board.Side]castleGeometry{
	board.KingSide:  {kingTo: 6, rookFrom: 7, rookTo: 5, between: []int{5, 6}, kingPath: []int{5, 6}},
	board.QueenSide: {kingTo: 2, rookFrom: 0, rookTo: 3, between: []int{1, 2, 3}, kingPath: []int{3, 2}},
}

// CastleMove describes a castle as the king's two-square step
func CastleMove(c board.Color, side board.Side) Move {
	rank := board.BackRank(c)
	m := Move{Color: c, Kind: board.King, From: board.Sq(rank, kingHomeFile), Castle: side}
	if g, ok := castles[side]; ok {
		m.To = board.Sq(rank, g.kingTo)
	}
	return m
}

// CanCastle returns nil when color may castle toward side on b
func CanCastle(b *board.Board, c board.Color, side board.Side) error {
	m := CastleMove(c, side)
	if !c.Valid() {
		return reject(m, "invalid color %d", c)
	}
	g, ok := castles[side]
	if !ok {
		return reject(m, "unknown castling side")
	}
	if !b.CanCastle(c, side) {
		return reject(m, "%s castling right is gone", side)
	}

	rank := board.BackRank(c)
	home := board.Sq(rank, kingHomeFile)
	king := board.Piece{Color: c, Kind: board.King}
	if b.At(home) != king {
		return reject(m, "king is not on %s", home)
	}
	if corner := board.Sq(rank, g.rookFrom); !b.At(corner).Is(c, board.Rook) {
		return reject(m, "no rook on %s", corner)
	}
	if InCheck(b, c) {
		return reject(m, "king is in check")
	}

	for _, f := range g.between {
		if sq := board.Sq(rank, f); !b.At(sq).IsEmpty() {
			return reject(m, "%s is occupied", sq)
		}
	}

	// Only the king is relocated on each hypothetical board
	for _, f := range g.kingPath {
		step := board.Sq(rank, f)
		hypo := *b
		hypo.Clear(home)
		hypo.Set(step, king)
		if IsAttacked(&hypo, step, c.Opposite()) {
			return reject(m, "king would cross attacked square %s", step)
		}
	}
	return nil
}

// Castle moves king and rook together and revokes both of the color's rights
func Castle(b *board.Board, c board.Color, side board.Side) (*board.Board, error) {
	if err := CanCastle(b, c, side); err != nil {
		return nil, err
	}

	g := castles[side]
	rank := board.BackRank(c)

	next := b.Clone()
	next.Clear(board.Sq(rank, kingHomeFile))
	next.Clear(board.Sq(rank, g.rookFrom))
	next.Set(board.Sq(rank, g.kingTo), board.Piece{Color: c, Kind: board.King})
	next.Set(board.Sq(rank, g.rookTo), board.Piece{Color: c, Kind: board.Rook})
	next.ClearEnPassant()
	next.RevokeCastling(c, board.NoSide)
	return next, nil
}
