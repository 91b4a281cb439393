package board

import "fmt"

// Move encodes a chess move in 16 bits:
// bits 0-5:   from square
// bits 6-11:  to square
// bits 12-13: promotion piece (0=Knight, 1=Bishop, 2=Rook, 3=Queen)
// bits 14-15: flags (0=normal, 1=promotion, 3=castling)
type Move uint16

// Move flags
const (
	FlagNormal    uint16 = 0 << 14
	FlagPromotion uint16 = 1 << 14
	FlagCastling  uint16 = 3 << 14
)

// NoMove is the null move; a1a1 is never legal.
const NoMove Move = 0

// NewMove creates a normal move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6
}

// NewPromotion creates a promotion move. promo must be a knight, bishop,
// rook or queen.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(promo-Knight)<<12 | Move(FlagPromotion)
}

// castle describes the king and rook relocation for one castling right.
type castle struct {
	right            CastlingRights
	kingFrom, kingTo Square
	rookFrom, rookTo Square

	// empty must be unoccupied. kingPath must not be attacked; it includes
	// the king's destination.
	empty    Bitboard
	kingPath Bitboard
}

var castles = [4]castle{
	{WhiteKingSide, E1, G1, H1, F1, SquareBB(F1) | SquareBB(G1), SquareBB(F1) | SquareBB(G1)},
	{WhiteQueenSide, E1, C1, A1, D1, SquareBB(B1) | SquareBB(C1) | SquareBB(D1), SquareBB(D1) | SquareBB(C1)},
	{BlackKingSide, E8, G8, H8, F8, SquareBB(F8) | SquareBB(G8), SquareBB(F8) | SquareBB(G8)},
	{BlackQueenSide, E8, C8, A8, D8, SquareBB(B8) | SquareBB(C8) | SquareBB(D8), SquareBB(D8) | SquareBB(C8)},
}

// castleFor returns the castle entry for a single right.
func castleFor(right CastlingRights) (castle, bool) {
	for _, c := range castles {
		if c.right == right {
			return c, true
		}
	}
	return castle{}, false
}

// NewCastling creates the king move that exercises a single castling right.
func NewCastling(right CastlingRights) Move {
	c, ok := castleFor(right)
	if !ok {
		return NoMove
	}
	return Move(c.kingFrom) | Move(c.kingTo)<<6 | Move(FlagCastling)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Flag returns the move flag.
func (m Move) Flag() uint16 {
	return uint16(m) & 0xC000
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Flag() == FlagPromotion
}

// Promotion returns the promotion piece type, or NoPieceType.
func (m Move) Promotion() PieceType {
	if !m.IsPromotion() {
		return NoPieceType
	}
	return PieceType((m>>12)&3) + Knight
}

// IsCastling reports whether the move carries a castle tag.
func (m Move) IsCastling() bool {
	return m.Flag() == FlagCastling
}

// CastleRight returns the castling right the move exercises, or NoCastling.
func (m Move) CastleRight() CastlingRights {
	if !m.IsCastling() {
		return NoCastling
	}
	for _, c := range castles {
		if c.kingFrom == m.From() && c.kingTo == m.To() {
			return c.right
		}
	}
	return NoCastling
}

// String returns the move in coordinate notation ("e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().Char())
	}
	return s
}

// parseCoordinates splits coordinate notation into its parts. promo is
// NoPieceType when the string carries no promotion letter.
func parseCoordinates(s string) (from, to Square, promo PieceType, err error) {
	promo = NoPieceType
	if len(s) != 4 && len(s) != 5 {
		return NoSquare, NoSquare, promo, fmt.Errorf("invalid move string: %q", s)
	}

	if from, err = ParseSquare(s[0:2]); err != nil {
		return NoSquare, NoSquare, promo, err
	}
	if to, err = ParseSquare(s[2:4]); err != nil {
		return NoSquare, NoSquare, promo, err
	}

	if len(s) == 5 {
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoSquare, NoSquare, NoPieceType, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
	}

	return from, to, promo, nil
}
