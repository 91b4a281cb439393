package board

import "golang.org/x/exp/slices"

// ApplyMove plays m if it is legal in s. Illegal moves leave s untouched
// and return a *MoveError wrapping ErrIllegalMove.
func (s *State) ApplyMove(m Move) (*State, error) {
	if s.status != Ongoing || !slices.Contains(s.legalMoves(), m) {
		return nil, s.moveError(m.String(), ErrIllegalMove)
	}
	return s.Apply(m), nil
}

// ResolveMove maps an origin, destination and optional promotion piece to
// the matching legal move, filling in the castle tag for king moves. When
// only promotions match and promo is NoPieceType, ErrPromotionRequired is
// returned.
func (s *State) ResolveMove(from, to Square, promo PieceType) (Move, error) {
	legal := s.legalMoves()
	i := slices.IndexFunc(legal, func(m Move) bool {
		return m.From() == from && m.To() == to && m.Promotion() == promo
	})
	if i >= 0 {
		return legal[i], nil
	}

	text := from.String() + to.String()
	if promo == NoPieceType && slices.IndexFunc(legal, func(m Move) bool {
		return m.From() == from && m.To() == to && m.IsPromotion()
	}) >= 0 {
		return NoMove, s.moveError(text, ErrPromotionRequired)
	}
	if promo != NoPieceType {
		text += string(promo.Char())
	}
	return NoMove, s.moveError(text, ErrIllegalMove)
}

// ParseMove resolves a move written in coordinate notation ("e2e4",
// "e7e8q", "e1g1").
func (s *State) ParseMove(text string) (Move, error) {
	from, to, promo, err := parseCoordinates(text)
	if err != nil {
		return NoMove, s.moveError(text, err)
	}
	return s.ResolveMove(from, to, promo)
}

// legalMoves returns the cached legal moves without copying them. Callers
// must not modify the result.
func (s *State) legalMoves() []Move {
	if s.legal != nil {
		return s.legal
	}
	return s.GenerateMoves(false)
}

func (s *State) moveError(move string, err error) *MoveError {
	return &MoveError{Move: move, FEN: s.FEN(), Err: err}
}
