package board

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecordRoundTrip(t *testing.T) {
	s := play(t, NewGame(), "e2e4", "d7d5", "e4d5", "g8f6", "f1b5", "c7c6", "d5c6", "d8d2")

	data, err := json.Marshal(s.Record())
	if err != nil {
		t.Fatal(err)
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatal(err)
	}
	loaded, err := FromRecord(r)
	if err != nil {
		t.Fatalf("FromRecord: %v", err)
	}

	if loaded.FEN() != s.FEN() {
		t.Errorf("FEN = %q, want %q", loaded.FEN(), s.FEN())
	}
	if diff := cmp.Diff(s.History(), loaded.History()); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
	if loaded.Status() != s.Status() || loaded.StatusText() != "White is in Check!" {
		t.Errorf("status %v %q", loaded.Status(), loaded.StatusText())
	}
	if diff := cmp.Diff(s.LegalMoves(), loaded.LegalMoves()); diff != "" {
		t.Errorf("legal moves (-want +got):\n%s", diff)
	}
	if err := loaded.CheckInvariants(); err != nil {
		t.Error(err)
	}
}

func TestFromRecordEmptyHistory(t *testing.T) {
	r := MustParseFEN("4k3/8/8/8/8/8/8/4K2R w K - 0 1").Record()
	r.History = nil
	s, err := FromRecord(r)
	if err != nil {
		t.Fatal(err)
	}
	if h := s.History(); len(h) != 1 || h[0] != s.Mailbox() {
		t.Errorf("history = %v, want just the current position", h)
	}
}

func TestFromRecordRejects(t *testing.T) {
	good := NewGame().Record()

	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"overlapping bitboards", func(r *Record) { r.Pieces[Black][Pawn] |= r.Pieces[White][Pawn] }},
		{"missing king", func(r *Record) { r.Pieces[White][King] = 0 }},
		{"two kings", func(r *Record) { r.Pieces[Black][King] |= uint64(SquareBB(D5)) }},
		{"pawn on back rank", func(r *Record) {
			r.Pieces[White][Knight] &^= uint64(SquareBB(B1))
			r.Pieces[White][Pawn] |= uint64(SquareBB(B1))
		}},
		{"bad side", func(r *Record) { r.SideToMove = NoColor }},
		{"bad castling bits", func(r *Record) { r.CastlingRights = 0x30 }},
		{"bad en passant", func(r *Record) { r.EnPassant = "z9" }},
		{"en passant without pushed pawn", func(r *Record) { r.EnPassant = "a6" }},
		{"en passant for the wrong side", func(r *Record) { r.EnPassant = "e3" }},
		{"history ends elsewhere", func(r *Record) {
			r.History = append(r.History, play(t, NewGame(), "e2e4").Mailbox().String())
		}},
		{"status mismatch", func(r *Record) { r.Status = "checkmate" }},
		{"bad history", func(r *Record) { r.History = []string{"short"} }},
		{"bad counters", func(r *Record) { r.FullMoveNumber = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := good
			r.History = append([]string(nil), good.History...)
			tc.mutate(&r)
			if _, err := FromRecord(r); !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("err = %v, want ErrInvalidRecord", err)
			}
		})
	}
}
