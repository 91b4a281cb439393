package board

import "golang.org/x/exp/slices"

// LegalMoves returns all legal moves for the side to move. The returned
// slice is a copy and may be modified by the caller.
func (s *State) LegalMoves() []Move {
	if s.legal != nil {
		return slices.Clone(s.legal)
	}
	return s.GenerateMoves(false)
}

// GenerateMoves generates the legal moves for the side to move, ordered by
// piece type, then origin, then destination, then promotion piece. Castling
// moves come last, kingside first. With capturesOnly set only moves onto
// enemy pieces are produced and castling is skipped.
func (s *State) GenerateMoves(capturesOnly bool) []Move {
	us := s.SideToMove
	moves := make([]Move, 0, 48)

	for pt := Pawn; pt <= King; pt++ {
		pieces := s.Pieces[us][pt]
		for pieces != 0 {
			from := pieces.PopLSB()
			targets := s.destinations(pt, from, us)
			if capturesOnly {
				targets &= s.Occupied[us.Other()]
			}
			for targets != 0 {
				to := targets.PopLSB()
				if pt == Pawn && (Rank1 | Rank8).IsSet(to) {
					for _, promo := range PromotionTypes {
						moves = s.appendLegal(moves, NewPromotion(from, to, promo), us)
					}
					continue
				}
				moves = s.appendLegal(moves, NewMove(from, to), us)
			}
		}
	}

	if !capturesOnly {
		moves = s.appendCastling(moves, us)
	}
	return moves
}

// appendLegal adds m when it does not leave the mover's king attacked.
func (s *State) appendLegal(moves []Move, m Move, us Color) []Move {
	if s.Probe(m).IsInCheck(us) {
		return moves
	}
	return append(moves, m)
}

// destinations returns the pseudo-legal destination mask of a piece.
func (s *State) destinations(pt PieceType, from Square, us Color) Bitboard {
	own := s.Occupied[us]
	t := Attacks()
	switch pt {
	case Pawn:
		return s.pawnDestinations(from, us)
	case Knight:
		return t.Knight(from) &^ own
	case Bishop:
		return BishopAttacks(from, s.AllOccupied) &^ own
	case Rook:
		return RookAttacks(from, s.AllOccupied) &^ own
	case Queen:
		return QueenAttacks(from, s.AllOccupied) &^ own
	case King:
		return t.King(from) &^ own
	}
	return Empty
}

// pawnDestinations covers pushes, double pushes from the home rank,
// captures and the en passant target.
func (s *State) pawnDestinations(from Square, us Color) Bitboard {
	var targets Bitboard

	step, home := 8, 1
	if us == Black {
		step, home = -8, 6
	}

	one := Square(int(from) + step)
	if s.IsEmpty(one) {
		targets |= SquareBB(one)
		if from.Rank() == home {
			two := Square(int(one) + step)
			if s.IsEmpty(two) {
				targets |= SquareBB(two)
			}
		}
	}

	capturable := s.Occupied[us.Other()]
	if s.EnPassant != NoSquare {
		capturable |= SquareBB(s.EnPassant)
	}
	return targets | Attacks().Pawn(from, us)&capturable
}

// appendCastling adds castling moves for each held right whose path is
// clear and safe. Nothing is added while the side to move is in check.
func (s *State) appendCastling(moves []Move, us Color) []Move {
	if s.CastlingRights&colorRights(us) == 0 || s.IsInCheck(us) {
		return moves
	}
	them := us.Other()
	for _, c := range castles {
		if colorRights(us)&c.right == 0 || !s.CastlingRights.Has(c.right) {
			continue
		}
		if !s.Pieces[us][King].IsSet(c.kingFrom) || !s.Pieces[us][Rook].IsSet(c.rookFrom) {
			continue
		}
		if s.AllOccupied&c.empty != 0 {
			continue
		}
		safe := true
		for path := c.kingPath; path != 0; {
			if s.IsSquareAttacked(path.PopLSB(), them) {
				safe = false
				break
			}
		}
		if safe {
			moves = append(moves, NewCastling(c.right))
		}
	}
	return moves
}
