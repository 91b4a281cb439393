package board

import "fmt"

// Record is the persisted form of a State. It carries everything needed
// to rebuild the state exactly; occupancy, the mailbox and the legal move
// cache are derived again on load.
type Record struct {
	Pieces         [2][6]uint64 `json:"pieces"`
	SideToMove     Color        `json:"side_to_move"`
	CastlingRights uint8        `json:"castling"`
	EnPassant      string       `json:"en_passant"`
	HalfMoveClock  int          `json:"halfmove_clock"`
	FullMoveNumber int          `json:"fullmove_number"`
	Status         string       `json:"status"`
	History        []string     `json:"history"`
}

// Record returns the persisted form of s.
func (s *State) Record() Record {
	r := Record{
		SideToMove:     s.SideToMove,
		CastlingRights: uint8(s.CastlingRights),
		EnPassant:      s.EnPassant.String(),
		HalfMoveClock:  s.HalfMoveClock,
		FullMoveNumber: s.FullMoveNumber,
		Status:         s.status.String(),
	}
	for c := range s.Pieces {
		for pt := range s.Pieces[c] {
			r.Pieces[c][pt] = uint64(s.Pieces[c][pt])
		}
	}
	for _, mb := range s.History() {
		r.History = append(r.History, mb.String())
	}
	return r
}

// FromRecord rebuilds a State from its persisted form. Records that break
// the board invariants, whose history does not end at the position, or
// whose stored status disagrees with it are rejected with ErrInvalidRecord.
// An empty history starts a new one at the position.
func FromRecord(r Record) (*State, error) {
	if r.SideToMove != White && r.SideToMove != Black {
		return nil, fmt.Errorf("%w: side to move %d", ErrInvalidRecord, r.SideToMove)
	}
	if CastlingRights(r.CastlingRights)&^AllCastling != 0 {
		return nil, fmt.Errorf("%w: castling bits %#x", ErrInvalidRecord, r.CastlingRights)
	}
	if r.HalfMoveClock < 0 || r.FullMoveNumber < 1 {
		return nil, fmt.Errorf("%w: counters %d/%d", ErrInvalidRecord, r.HalfMoveClock, r.FullMoveNumber)
	}

	s := &State{
		SideToMove:     r.SideToMove,
		CastlingRights: CastlingRights(r.CastlingRights),
		EnPassant:      NoSquare,
		HalfMoveClock:  r.HalfMoveClock,
		FullMoveNumber: r.FullMoveNumber,
	}
	if r.EnPassant != "" && r.EnPassant != "-" {
		sq, err := ParseSquare(r.EnPassant)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		s.EnPassant = sq
	}
	for c := range r.Pieces {
		for pt := range r.Pieces[c] {
			s.Pieces[c][pt] = Bitboard(r.Pieces[c][pt])
		}
	}

	s.updateOccupied()
	s.rebuildMailbox()
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	for i, text := range r.History {
		mb, err := parseMailbox(text)
		if err != nil {
			return nil, fmt.Errorf("%w: history entry %d: %v", ErrInvalidRecord, i, err)
		}
		s.history = s.history.push(mb)
	}
	switch {
	case s.history == nil:
		s.history = s.history.push(s.squares)
	case s.history.snap != s.squares:
		return nil, fmt.Errorf("%w: last history entry does not match the position", ErrInvalidRecord)
	}

	s.classify()
	if want, ok := ParseStatus(r.Status); r.Status != "" && (!ok || want != s.status) {
		return nil, fmt.Errorf("%w: stored status %q, position is %s", ErrInvalidRecord, r.Status, s.status)
	}
	return s, nil
}

// parseMailbox is the inverse of Mailbox.String.
func parseMailbox(text string) (Mailbox, error) {
	var mb Mailbox
	if len(text) != len(mb) {
		return mb, fmt.Errorf("mailbox needs %d squares, got %d", len(mb), len(text))
	}
	for i := range mb {
		if text[i] == '.' {
			mb[i] = NoPiece
			continue
		}
		p := PieceFromChar(text[i])
		if p == NoPiece {
			return mb, fmt.Errorf("invalid piece %q at %s", text[i], Square(i))
		}
		mb[i] = p
	}
	return mb, nil
}
