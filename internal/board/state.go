package board

import (
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSide  CastlingRights = 1 << iota // K
	WhiteQueenSide                            // Q
	BlackKingSide                             // k
	BlackQueenSide                            // q
	NoCastling     CastlingRights = 0
	AllCastling    CastlingRights = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, r := range []CastlingRights{WhiteKingSide, WhiteQueenSide, BlackKingSide, BlackQueenSide} {
		if cr&r != 0 {
			sb.WriteByte("KQkq"[i])
		}
	}
	return sb.String()
}

// Has reports whether every right in r is held.
func (cr CastlingRights) Has(r CastlingRights) bool {
	return cr&r == r
}

// colorRights returns both castling rights of a color.
func colorRights(c Color) CastlingRights {
	if c == White {
		return WhiteKingSide | WhiteQueenSide
	}
	return BlackKingSide | BlackQueenSide
}

// cornerRights maps a rook corner to the right it guards.
var cornerRights = [64]CastlingRights{
	H1: WhiteKingSide,
	A1: WhiteQueenSide,
	H8: BlackKingSide,
	A8: BlackQueenSide,
}

// Mailbox is a square-indexed view of the board.
type Mailbox [64]Piece

// String renders the mailbox as 64 FEN letters with '.' for empty squares,
// a1 first.
func (mb Mailbox) String() string {
	var sb strings.Builder
	sb.Grow(64)
	for _, p := range mb {
		sb.WriteString(p.String())
	}
	return sb.String()
}

// historyNode is one link of the persistent history list. Nodes are never
// mutated once built, so states share their common prefix.
type historyNode struct {
	snap Mailbox
	prev *historyNode
	len  int
}

func (h *historyNode) push(mb Mailbox) *historyNode {
	n := 1
	if h != nil {
		n = h.len + 1
	}
	return &historyNode{snap: mb, prev: h, len: n}
}

// State is an immutable chess position. Every move produces a new State;
// the receiver of Apply, Probe and ApplyMove is never modified.
type State struct {
	// Piece bitboards: [Color][PieceType]
	Pieces [2][6]Bitboard

	Occupied    [2]Bitboard
	AllOccupied Bitboard

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // NoSquare if none
	HalfMoveClock  int
	FullMoveNumber int

	squares Mailbox
	status  Status
	history *historyNode
	legal   []Move
}

// NewGame returns the standard starting position with white to move.
func NewGame() *State {
	s := &State{
		SideToMove:     White,
		CastlingRights: AllCastling,
		EnPassant:      NoSquare,
		FullMoveNumber: 1,
	}
	back := [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file := 0; file < 8; file++ {
		s.Pieces[White][back[file]] |= SquareBB(NewSquare(file, 0))
		s.Pieces[White][Pawn] |= SquareBB(NewSquare(file, 1))
		s.Pieces[Black][Pawn] |= SquareBB(NewSquare(file, 6))
		s.Pieces[Black][back[file]] |= SquareBB(NewSquare(file, 7))
	}
	s.updateOccupied()
	s.rebuildMailbox()
	s.history = s.history.push(s.squares)
	s.classify()
	return s
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (s *State) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return s.squares[sq]
}

// Mailbox returns a copy of the square-indexed board.
func (s *State) Mailbox() Mailbox {
	return s.squares
}

// IsEmpty reports whether the square is empty.
func (s *State) IsEmpty(sq Square) bool {
	return s.AllOccupied&SquareBB(sq) == 0
}

// KingSquare returns the square of c's king, or NoSquare.
func (s *State) KingSquare(c Color) Square {
	return s.Pieces[c][King].LSB()
}

// History returns the mailbox snapshots from the first recorded position
// up to and including the current one.
func (s *State) History() []Mailbox {
	if s.history == nil {
		return nil
	}
	out := make([]Mailbox, s.history.len)
	for n := s.history; n != nil; n = n.prev {
		out[n.len-1] = n.snap
	}
	return out
}

// Ply returns the number of recorded positions minus one.
func (s *State) Ply() int {
	if s.history == nil {
		return 0
	}
	return s.history.len - 1
}

// updateOccupied recalculates occupancy bitboards from piece bitboards.
func (s *State) updateOccupied() {
	s.Occupied[White] = Empty
	s.Occupied[Black] = Empty

	for pt := Pawn; pt <= King; pt++ {
		s.Occupied[White] |= s.Pieces[White][pt]
		s.Occupied[Black] |= s.Pieces[Black][pt]
	}

	s.AllOccupied = s.Occupied[White] | s.Occupied[Black]
}

// rebuildMailbox derives the square cache from the piece bitboards.
func (s *State) rebuildMailbox() {
	for i := range s.squares {
		s.squares[i] = NoPiece
	}
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := s.Pieces[c][pt]
			for bb != 0 {
				s.squares[bb.PopLSB()] = NewPiece(pt, c)
			}
		}
	}
}

// CheckInvariants verifies the structural invariants of the state: the
// piece bitboards do not overlap, the occupancy caches match them, the
// mailbox agrees bit for bit and each side has at most one king.
func (s *State) CheckInvariants() error {
	var seen [2]Bitboard
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := s.Pieces[c][pt]
			if (seen[White]|seen[Black])&bb != 0 {
				return fmt.Errorf("%w: overlapping %s %s bitboard", ErrInvariantViolation, c, pt)
			}
			seen[c] |= bb
		}
		if s.Pieces[c][King].PopCount() > 1 {
			return fmt.Errorf("%w: %s has %d kings", ErrInvariantViolation, c, s.Pieces[c][King].PopCount())
		}
	}
	if seen != s.Occupied {
		return fmt.Errorf("%w: side occupancy out of sync", ErrInvariantViolation)
	}
	if s.Occupied[White]&s.Occupied[Black] != 0 {
		return fmt.Errorf("%w: side occupancies overlap", ErrInvariantViolation)
	}
	if s.Occupied[White]|s.Occupied[Black] != s.AllOccupied {
		return fmt.Errorf("%w: combined occupancy out of sync", ErrInvariantViolation)
	}
	for sq := A1; sq <= H8; sq++ {
		p := s.squares[sq]
		if p == NoPiece {
			if s.AllOccupied.IsSet(sq) {
				return fmt.Errorf("%w: mailbox empty on occupied %s", ErrInvariantViolation, sq)
			}
			continue
		}
		if !s.Pieces[p.Color()][p.Type()].IsSet(sq) {
			return fmt.Errorf("%w: mailbox has %s on %s, bitboards disagree", ErrInvariantViolation, p, sq)
		}
	}
	return nil
}

// validate checks the playability rules applied to loaded positions.
func (s *State) validate() error {
	if err := s.CheckInvariants(); err != nil {
		return err
	}
	if s.Pieces[White][King].PopCount() != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if s.Pieces[Black][King].PopCount() != 1 {
		return fmt.Errorf("black must have exactly one king")
	}
	if (s.Pieces[White][Pawn]|s.Pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawns cannot be on rank 1 or 8")
	}
	if s.EnPassant != NoSquare {
		if err := s.validateEnPassant(); err != nil {
			return err
		}
	}
	if s.IsInCheck(s.SideToMove.Other()) {
		return fmt.Errorf("%s is in check but not to move", s.SideToMove.Other())
	}
	return nil
}

// validateEnPassant accepts only a target a double push could have left:
// the target and the pawn's origin behind it are empty and the pushed
// enemy pawn stands in front of it.
func (s *State) validateEnPassant() error {
	ep := s.EnPassant
	rank, step := 5, -8
	if s.SideToMove == Black {
		rank, step = 2, 8
	}
	if ep.Rank() != rank {
		return fmt.Errorf("en passant square %s inconsistent with side to move", ep)
	}
	pushed := Square(int(ep) + step)
	origin := Square(int(ep) - step)
	if !s.IsEmpty(ep) || !s.IsEmpty(origin) {
		return fmt.Errorf("en passant square %s or %s is occupied", ep, origin)
	}
	if s.squares[pushed] != NewPiece(Pawn, s.SideToMove.Other()) {
		return fmt.Errorf("en passant square %s has no pawn on %s", ep, pushed)
	}
	return nil
}

// String returns a visual representation of the state.
func (s *State) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteString(s.squares[NewSquare(file, rank)].String())
			sb.WriteByte(' ')
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", s.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", s.CastlingRights)
	fmt.Fprintf(&sb, "En passant: %s\n", s.EnPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", s.HalfMoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", s.FullMoveNumber)
	fmt.Fprintf(&sb, "Status: %s\n", s.StatusText())
	return sb.String()
}
