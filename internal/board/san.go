package board

import (
	"fmt"
	"strings"
)

// IsCapture reports whether m takes a piece in s, en passant included.
func (s *State) IsCapture(m Move) bool {
	if s.squares[m.To()] != NoPiece {
		return true
	}
	return s.squares[m.From()].Type() == Pawn && m.To() == s.EnPassant
}

// SAN converts a legal move to Standard Algebraic Notation, including the
// check and mate suffixes.
func (s *State) SAN(m Move) string {
	if m == NoMove {
		return "-"
	}

	from, to := m.From(), m.To()
	piece := s.PieceAt(from)
	if piece == NoPiece {
		return m.String()
	}

	var sb strings.Builder

	switch m.CastleRight() {
	case WhiteKingSide, BlackKingSide:
		sb.WriteString("O-O")
	case WhiteQueenSide, BlackQueenSide:
		sb.WriteString("O-O-O")
	default:
		pt := piece.Type()
		if pt != Pawn {
			sb.WriteByte("PNBRQK"[pt])
			sb.WriteString(s.disambiguation(m, pt))
		}

		if s.IsCapture(m) {
			if pt == Pawn {
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}

		sb.WriteString(to.String())

		if promo := m.Promotion(); promo != NoPieceType {
			sb.WriteByte('=')
			sb.WriteByte("PNBRQK"[promo])
		}
	}

	next := s.Apply(m)
	switch {
	case next.Status() == Checkmate:
		sb.WriteByte('#')
	case next.InCheck():
		sb.WriteByte('+')
	}

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from other legal moves of the same piece type to the same square.
func (s *State) disambiguation(m Move, pt PieceType) string {
	from, to := m.From(), m.To()
	pieces := s.Pieces[s.SideToMove][pt]

	var sameFile, sameRank, ambiguous bool
	for _, other := range s.LegalMoves() {
		if other.To() != to || other.From() == from || !pieces.IsSet(other.From()) {
			continue
		}
		ambiguous = true
		if other.From().File() == from.File() {
			sameFile = true
		}
		if other.From().Rank() == from.Rank() {
			sameRank = true
		}
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	default:
		return from.String()
	}
}

// ParseSAN finds the legal move written in Standard Algebraic Notation.
func (s *State) ParseSAN(san string) (Move, error) {
	text := strings.TrimSpace(san)
	text = strings.TrimRight(text, "+#!?")

	legal := s.LegalMoves()

	var castle CastlingRights
	switch text {
	case "O-O", "0-0":
		castle = WhiteKingSide
		if s.SideToMove == Black {
			castle = BlackKingSide
		}
	case "O-O-O", "0-0-0":
		castle = WhiteQueenSide
		if s.SideToMove == Black {
			castle = BlackQueenSide
		}
	}
	if castle != NoCastling {
		for _, m := range legal {
			if m.CastleRight() == castle {
				return m, nil
			}
		}
		return NoMove, s.moveError(san, ErrIllegalMove)
	}

	promo := NoPieceType
	if idx := strings.IndexByte(text, '='); idx >= 0 {
		if idx+1 >= len(text) {
			return NoMove, s.moveError(san, fmt.Errorf("missing promotion piece"))
		}
		if promo = PieceFromChar(text[idx+1]).Type(); promo == Pawn || promo == King || promo == NoPieceType {
			return NoMove, s.moveError(san, fmt.Errorf("invalid promotion piece %q", text[idx+1]))
		}
		text = text[:idx]
	}

	isCapture := strings.Contains(text, "x")
	text = strings.ReplaceAll(text, "x", "")

	pt := Pawn
	if len(text) > 0 && text[0] >= 'A' && text[0] <= 'Z' {
		pt = PieceFromChar(text[0]).Type()
		if pt == NoPieceType || pt == Pawn {
			return NoMove, s.moveError(san, fmt.Errorf("invalid piece letter %q", text[0]))
		}
		text = text[1:]
	}

	if len(text) < 2 {
		return NoMove, s.moveError(san, fmt.Errorf("missing destination"))
	}
	dest, err := ParseSquare(text[len(text)-2:])
	if err != nil {
		return NoMove, s.moveError(san, err)
	}
	text = text[:len(text)-2]

	fileHint, rankHint := -1, -1
	for _, c := range text {
		switch {
		case c >= 'a' && c <= 'h':
			fileHint = int(c - 'a')
		case c >= '1' && c <= '8':
			rankHint = int(c - '1')
		default:
			return NoMove, s.moveError(san, fmt.Errorf("unexpected character %q", c))
		}
	}

	for _, m := range legal {
		if m.To() != dest || m.IsCastling() {
			continue
		}
		from := m.From()
		if s.squares[from].Type() != pt {
			continue
		}
		if fileHint >= 0 && from.File() != fileHint {
			continue
		}
		if rankHint >= 0 && from.Rank() != rankHint {
			continue
		}
		if isCapture && !s.IsCapture(m) {
			continue
		}
		if m.Promotion() != promo {
			continue
		}
		return m, nil
	}

	return NoMove, s.moveError(san, ErrIllegalMove)
}

// MovesToSAN converts a sequence of moves played from s to SAN.
func MovesToSAN(s *State, moves []Move) []string {
	result := make([]string, len(moves))
	for i, m := range moves {
		result[i] = s.SAN(m)
		s = s.Apply(m)
	}
	return result
}
