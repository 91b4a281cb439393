package board

import (
	"errors"
	"testing"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
		"4k3/8/8/8/8/8/8/4K2R w K - 12 40",
	}
	for _, fen := range fens {
		t.Run(fen, func(t *testing.T) {
			s, err := ParseFEN(fen)
			if err != nil {
				t.Fatal(err)
			}
			if got := s.FEN(); got != fen {
				t.Errorf("FEN() = %q", got)
			}
			if err := s.CheckInvariants(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestParseFENErrors(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"too few fields", "8/8/8/8/8/8/8/8 w"},
		{"seven ranks", "8/8/8/8/8/8/8 w - - 0 1"},
		{"bad piece", "4k3/8/8/8/8/8/8/4X2K w - - 0 1"},
		{"long rank", "4k3/9/8/8/8/8/8/4K3 w - - 0 1"},
		{"bad side", "4k3/8/8/8/8/8/8/4K3 x - - 0 1"},
		{"bad castling", "4k3/8/8/8/8/8/8/4K3 w X - 0 1"},
		{"bad en passant", "4k3/8/8/8/8/8/8/4K3 w - e9 0 1"},
		{"en passant wrong rank", "4k3/8/8/8/8/8/8/4K3 w - e3 0 1"},
		{"en passant target occupied", "4k3/8/4p3/3Pp3/8/8/8/4K3 w - e6 0 1"},
		{"en passant without pushed pawn", "4k3/8/8/3P4/8/8/8/4K3 w - e6 0 1"},
		{"en passant origin occupied", "4k3/4p3/8/3Pp3/8/8/8/4K3 w - e6 0 1"},
		{"en passant own pawn in front", "4k3/8/8/8/3pp3/8/8/4K3 b - d3 0 1"},
		{"bad clock", "4k3/8/8/8/8/8/8/4K3 w - - x 1"},
		{"no white king", "4k3/8/8/8/8/8/8/8 w - - 0 1"},
		{"two black kings", "3kk3/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"pawn on rank 8", "P3k3/8/8/8/8/8/8/4K3 w - - 0 1"},
		{"opponent in check", "4k3/8/8/8/8/8/8/4K2r b - - 0 1"},
		{"waiting side in check", "4k3/4R3/8/8/8/8/8/4K3 w - - 0 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseFEN(tc.fen); !errors.Is(err, ErrInvalidFEN) {
				t.Errorf("err = %v, want ErrInvalidFEN", err)
			}
		})
	}
}

func TestParseMoveErrors(t *testing.T) {
	s := NewGame()
	tests := []struct {
		text string
		want error
	}{
		{"e2e5", ErrIllegalMove},
		{"e7e5", ErrIllegalMove},
		{"e2e4q", ErrIllegalMove},
	}
	for _, tc := range tests {
		if _, err := s.ParseMove(tc.text); !errors.Is(err, tc.want) {
			t.Errorf("ParseMove(%q) err = %v, want %v", tc.text, err, tc.want)
		}
	}
	for _, text := range []string{"", "e2", "e2e4x", "i2e4"} {
		var me *MoveError
		if _, err := s.ParseMove(text); !errors.As(err, &me) {
			t.Errorf("ParseMove(%q) err = %v, want *MoveError", text, err)
		}
	}
}

func TestMoveEncoding(t *testing.T) {
	tests := []struct {
		m     Move
		str   string
		promo PieceType
		right CastlingRights
	}{
		{NewMove(E2, E4), "e2e4", NoPieceType, NoCastling},
		{NewPromotion(A7, A8, Queen), "a7a8q", Queen, NoCastling},
		{NewPromotion(H2, G1, Knight), "h2g1n", Knight, NoCastling},
		{NewCastling(WhiteKingSide), "e1g1", NoPieceType, WhiteKingSide},
		{NewCastling(BlackQueenSide), "e8c8", NoPieceType, BlackQueenSide},
		{NoMove, "0000", NoPieceType, NoCastling},
	}
	for _, tc := range tests {
		t.Run(tc.str, func(t *testing.T) {
			if tc.m.String() != tc.str {
				t.Errorf("String() = %q", tc.m.String())
			}
			if tc.m.Promotion() != tc.promo {
				t.Errorf("Promotion() = %v", tc.m.Promotion())
			}
			if tc.m.CastleRight() != tc.right {
				t.Errorf("CastleRight() = %v", tc.m.CastleRight())
			}
		})
	}
}

func TestLoadedEnPassantCapture(t *testing.T) {
	s, err := ParseFEN("4k3/8/8/3Pp3/8/8/8/4K3 w - e6 0 1")
	if err != nil {
		t.Fatal(err)
	}
	next := play(t, s, "d5e6")
	if got := next.FEN(); got != "4k3/8/4P3/8/8/8/8/4K3 b - - 0 1" {
		t.Errorf("FEN after d5e6 = %q", got)
	}
	if n := next.Pieces[Black][Pawn].PopCount(); n != 0 {
		t.Errorf("black pawns = %d, want 0", n)
	}
	if n := next.Pieces[White][Pawn].PopCount(); n != 1 {
		t.Errorf("white pawns = %d, want 1", n)
	}
}
