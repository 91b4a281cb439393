package board

import "fmt"

// Apply plays m and returns the resulting position with its history
// extended and its status classified. m must be legal in s; use ApplyMove
// for untrusted input. The receiver is not modified.
func (s *State) Apply(m Move) *State {
	next := s.transition(m)
	next.history = s.history.push(next.squares)
	next.classify()
	return next
}

// Probe plays m without recording history or classifying the result. It
// is the cheap form used to test whether a move leaves the king attacked.
func (s *State) Probe(m Move) *State {
	return s.transition(m)
}

// transition copies the state and applies the piece movement, captures,
// counters and rights updates of m.
func (s *State) transition(m Move) *State {
	next := *s
	next.legal = nil
	next.status = Ongoing

	us := s.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()

	mover := s.squares[from]
	if mover == NoPiece || mover.Color() != us {
		panic(fmt.Errorf("%w: no %s piece on %s for %s", ErrInvariantViolation, us, from, m))
	}
	pt := mover.Type()
	resetClock := pt == Pawn

	// Capture on the destination square.
	if victim := s.squares[to]; victim != NoPiece {
		next.Pieces[victim.Color()][victim.Type()] &^= SquareBB(to)
		resetClock = true
	}

	// Relocate the mover.
	next.Pieces[us][pt] ^= SquareBB(from) | SquareBB(to)
	next.squares[from] = NoPiece
	next.squares[to] = mover

	if promo := m.Promotion(); promo != NoPieceType {
		next.Pieces[us][Pawn] &^= SquareBB(to)
		next.Pieces[us][promo] |= SquareBB(to)
		next.squares[to] = NewPiece(promo, us)
	}

	// En passant: the victim sits one rank behind the destination.
	if pt == Pawn && to == s.EnPassant {
		victimSq := to - 8
		if us == Black {
			victimSq = to + 8
		}
		if s.Pieces[them][Pawn].IsSet(victimSq) {
			next.Pieces[them][Pawn] &^= SquareBB(victimSq)
			next.squares[victimSq] = NoPiece
			resetClock = true
		}
	}

	if right := m.CastleRight(); right != NoCastling {
		c, _ := castleFor(right)
		next.Pieces[us][Rook] ^= SquareBB(c.rookFrom) | SquareBB(c.rookTo)
		next.squares[c.rookTo] = next.squares[c.rookFrom]
		next.squares[c.rookFrom] = NoPiece
	}

	next.EnPassant = NoSquare
	if pt == Pawn && (int(to)-int(from) == 16 || int(from)-int(to) == 16) {
		next.EnPassant = (from + to) / 2
	}

	if pt == King {
		next.CastlingRights &^= colorRights(us)
	}
	next.CastlingRights &^= cornerRights[from] | cornerRights[to]

	next.updateOccupied()

	next.SideToMove = them
	if them == White {
		next.FullMoveNumber++
	}
	if resetClock {
		next.HalfMoveClock = 0
	} else {
		next.HalfMoveClock++
	}
	return &next
}

// IsInCheck reports whether c's king is attacked. It panics with
// ErrInvariantViolation when c has no king.
func (s *State) IsInCheck(c Color) bool {
	king := s.KingSquare(c)
	if king == NoSquare {
		panic(fmt.Errorf("%w: %s king missing", ErrInvariantViolation, c))
	}
	return s.IsSquareAttacked(king, c.Other())
}

// InCheck reports whether the side to move is in check.
func (s *State) InCheck() bool {
	return s.IsInCheck(s.SideToMove)
}
