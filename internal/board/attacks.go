package board

// AttackTables holds the precomputed leaper attack masks. A single
// instance is built during package initialization and shared read-only.
type AttackTables struct {
	knight [64]Bitboard
	king   [64]Bitboard
	pawn   [2][64]Bitboard // [Color][Square], capture squares only
}

type offset struct{ file, rank int }

var (
	knightOffsets = []offset{
		{-1, 2}, {1, 2}, {-2, 1}, {2, 1},
		{-2, -1}, {2, -1}, {-1, -2}, {1, -2},
	}
	kingOffsets = []offset{
		{-1, 1}, {0, 1}, {1, 1},
		{-1, 0}, {1, 0},
		{-1, -1}, {0, -1}, {1, -1},
	}
	pawnOffsets = [2][]offset{
		White: {{-1, 1}, {1, 1}},
		Black: {{-1, -1}, {1, -1}},
	}

	bishopDirs = []offset{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}}
	rookDirs   = []offset{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
)

var attacks = NewAttackTables()

// Attacks returns the shared attack tables.
func Attacks() *AttackTables {
	return attacks
}

// NewAttackTables builds leaper masks for all 64 squares by enumerating
// each piece's offsets and discarding those that leave the board.
func NewAttackTables() *AttackTables {
	t := &AttackTables{}
	for sq := A1; sq <= H8; sq++ {
		t.knight[sq] = leaperMask(sq, knightOffsets)
		t.king[sq] = leaperMask(sq, kingOffsets)
		t.pawn[White][sq] = leaperMask(sq, pawnOffsets[White])
		t.pawn[Black][sq] = leaperMask(sq, pawnOffsets[Black])
	}
	return t
}

func leaperMask(sq Square, offsets []offset) Bitboard {
	var mask Bitboard
	for _, o := range offsets {
		f, r := sq.File()+o.file, sq.Rank()+o.rank
		if onBoard(f, r) {
			mask |= SquareBB(NewSquare(f, r))
		}
	}
	return mask
}

// Knight returns the knight attack mask for a square.
func (t *AttackTables) Knight(sq Square) Bitboard {
	return t.knight[sq]
}

// King returns the king attack mask for a square.
func (t *AttackTables) King(sq Square) Bitboard {
	return t.king[sq]
}

// Pawn returns the squares a pawn of color c on sq attacks.
func (t *AttackTables) Pawn(sq Square, c Color) Bitboard {
	return t.pawn[c][sq]
}

// rayAttacks walks each direction from sq and stops after the first
// occupied square, which is included in the result.
func rayAttacks(sq Square, occupied Bitboard, dirs []offset) Bitboard {
	var result Bitboard
	for _, d := range dirs {
		f, r := sq.File()+d.file, sq.Rank()+d.rank
		for onBoard(f, r) {
			bb := SquareBB(NewSquare(f, r))
			result |= bb
			if occupied&bb != 0 {
				break
			}
			f += d.file
			r += d.rank
		}
	}
	return result
}

// BishopAttacks returns diagonal attacks from sq given the occupancy.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, occupied, bishopDirs)
}

// RookAttacks returns orthogonal attacks from sq given the occupancy.
func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	return rayAttacks(sq, occupied, rookDirs)
}

// QueenAttacks returns the union of bishop and rook attacks.
func QueenAttacks(sq Square, occupied Bitboard) Bitboard {
	return BishopAttacks(sq, occupied) | RookAttacks(sq, occupied)
}

// AttackersByColor returns the pieces of color c attacking sq. Pawn
// attackers are found through the defender's pawn table: a pawn of c
// attacks sq exactly when a pawn of the other color on sq would attack it.
func (s *State) AttackersByColor(sq Square, c Color) Bitboard {
	occupied := s.AllOccupied
	p := &s.Pieces[c]
	t := Attacks()
	return (t.Pawn(sq, c.Other()) & p[Pawn]) |
		(t.Knight(sq) & p[Knight]) |
		(t.King(sq) & p[King]) |
		(BishopAttacks(sq, occupied) & (p[Bishop] | p[Queen])) |
		(RookAttacks(sq, occupied) & (p[Rook] | p[Queen]))
}

// IsSquareAttacked reports whether any piece of byColor attacks sq.
func (s *State) IsSquareAttacked(sq Square, byColor Color) bool {
	return s.AttackersByColor(sq, byColor) != 0
}
