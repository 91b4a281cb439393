package board

import "testing"

func TestCheckmate(t *testing.T) {
	// Back rank mate: rook on a8, black king boxed in by its own pawns.
	s, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if !s.InCheck() {
		t.Error("expected black to be in check")
	}
	if n := len(s.LegalMoves()); n != 0 {
		t.Errorf("black has %d legal moves, want 0", n)
	}
	if s.Status() != Checkmate {
		t.Errorf("Status() = %v, want checkmate", s.Status())
	}
	if got, want := s.StatusText(), "Checkmate! White wins!"; got != want {
		t.Errorf("StatusText() = %q, want %q", got, want)
	}
	if s.Winner() != White {
		t.Errorf("Winner() = %v, want White", s.Winner())
	}
}

func TestNotCheckmate(t *testing.T) {
	// The king can take the checking rook.
	s, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	if s.Status() == Checkmate {
		t.Error("Expected NOT checkmate but got true")
	}
	if got, want := s.StatusText(), "Black is in Check!"; got != want {
		t.Errorf("StatusText() = %q, want %q", got, want)
	}
	if _, err := s.ParseMove("h8g8"); err != nil {
		t.Errorf("Kxg8 should be legal: %v", err)
	}
}

func TestStalemate(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"lone king cornered", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"},
		{"pawn blocked", "k7/P7/K7/8/8/8/8/8 b - - 0 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := MustParseFEN(tc.fen)
			if s.Status() != Stalemate {
				t.Fatalf("Status() = %v, want stalemate", s.Status())
			}
			if s.InCheck() {
				t.Error("stalemated side must not be in check")
			}
			if got := s.StatusText(); got != "Stalemate!" {
				t.Errorf("StatusText() = %q", got)
			}
			if s.Winner() != NoColor {
				t.Errorf("Winner() = %v, want NoColor", s.Winner())
			}
		})
	}
}

func TestFoolsMate(t *testing.T) {
	s := NewGame()
	for _, text := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		m, err := s.ParseMove(text)
		if err != nil {
			t.Fatalf("%s: %v", text, err)
		}
		if s, err = s.ApplyMove(m); err != nil {
			t.Fatalf("%s: %v", text, err)
		}
	}
	if s.Status() != Checkmate || s.Winner() != Black {
		t.Fatalf("status %v winner %v, want black checkmate", s.Status(), s.Winner())
	}
	if got, want := s.StatusText(), "Checkmate! Black wins!"; got != want {
		t.Errorf("StatusText() = %q, want %q", got, want)
	}
	if _, err := s.ParseMove("e2e4"); err == nil {
		t.Error("moves after mate must be rejected")
	}
}
