package engine

import "github.com/hailam/chesscore/internal/board"

// Capture ordering bonus; every capture sorts ahead of every quiet move.
const captureBase = 1000

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) scores, indexed
// [victim][attacker]. Higher score = search first. A king is never captured.
var mvvLva = [6][6]int{
	board.Pawn:   {15, 14, 14, 13, 12, 11},
	board.Knight: {25, 24, 24, 23, 22, 21},
	board.Bishop: {35, 34, 34, 33, 32, 31},
	board.Rook:   {45, 44, 44, 43, 42, 41},
	board.Queen:  {55, 54, 54, 53, 52, 51},
	board.King:   {0, 0, 0, 0, 0, 0},
}

// scoreMove ranks captures by MVV-LVA and leaves quiet moves at zero.
func scoreMove(s *board.State, m board.Move) int {
	if !s.IsCapture(m) {
		return 0
	}
	attacker := s.PieceAt(m.From()).Type()
	victim := s.PieceAt(m.To()).Type()
	if victim == board.NoPieceType {
		victim = board.Pawn // en passant
	}
	return captureBase + mvvLva[victim][attacker]
}

// scoreMoves returns an ordering score per move.
func scoreMoves(s *board.State, moves []board.Move) []int {
	scores := make([]int, len(moves))
	for i, m := range moves {
		scores[i] = scoreMove(s, m)
	}
	return scores
}

// pickMove selects the best remaining move and moves it to position index.
// This allows lazy move sorting (only sort as much as needed).
func pickMove(moves []board.Move, scores []int, index int) {
	best := index
	for j := index + 1; j < len(moves); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves[index], moves[best] = moves[best], moves[index]
		scores[index], scores[best] = scores[best], scores[index]
	}
}
