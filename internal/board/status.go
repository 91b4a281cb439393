package board

// Status classifies a position for the side to move.
type Status uint8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
)

func (st Status) String() string {
	switch st {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, bool) {
	switch s {
	case "ongoing":
		return Ongoing, true
	case "checkmate":
		return Checkmate, true
	case "stalemate":
		return Stalemate, true
	}
	return Ongoing, false
}

// Status returns the terminal classification of the position.
func (s *State) Status() Status {
	return s.status
}

// IsGameOver reports whether the game has ended.
func (s *State) IsGameOver() bool {
	return s.status != Ongoing
}

// Winner returns the side that delivered mate, or NoColor.
func (s *State) Winner() Color {
	if s.status != Checkmate {
		return NoColor
	}
	return s.SideToMove.Other()
}

// StatusText returns a one-line description of the position suitable for
// display: the result when the game is over, otherwise who is to move.
func (s *State) StatusText() string {
	switch s.status {
	case Checkmate:
		return "Checkmate! " + s.Winner().String() + " wins!"
	case Stalemate:
		return "Stalemate!"
	}
	if s.IsInCheck(s.SideToMove) {
		return s.SideToMove.String() + " is in Check!"
	}
	return s.SideToMove.String() + " to move"
}

// classify generates the legal moves of the side to move, caches them and
// derives the status from them.
func (s *State) classify() {
	s.legal = s.GenerateMoves(false)
	switch {
	case len(s.legal) > 0:
		s.status = Ongoing
	case s.IsInCheck(s.SideToMove):
		s.status = Checkmate
	default:
		s.status = Stalemate
	}
}
