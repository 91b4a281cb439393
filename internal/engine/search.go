package engine

import "github.com/hailam/chesscore/internal/board"

// Search constants
const (
	Infinity  = 30000
	MateScore = 20000
	MaxPly    = 128
)

// searcher holds the per-call state of one search. Engines create a fresh
// searcher for every call, so concurrent searches share nothing mutable.
type searcher struct {
	nodes uint64
}

// minimax is a depth-limited alpha-beta search. White maximizes; ply counts
// plies from the search root and biases mate scores toward faster mates.
func (sr *searcher) minimax(s *board.State, depth, alpha, beta int, maximizing bool, ply int) int {
	sr.nodes++

	if depth <= 0 || s.IsGameOver() {
		return Evaluate(s)
	}

	moves := s.LegalMoves()
	if len(moves) == 0 {
		if !s.InCheck() {
			return 0
		}
		if maximizing {
			return -(MateScore - ply)
		}
		return MateScore - ply
	}

	scores := scoreMoves(s, moves)

	if maximizing {
		best := -Infinity
		for i := range moves {
			pickMove(moves, scores, i)
			score := sr.minimax(s.Apply(moves[i]), depth-1, alpha, beta, false, ply+1)
			best = max(best, score)
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := Infinity
	for i := range moves {
		pickMove(moves, scores, i)
		score := sr.minimax(s.Apply(moves[i]), depth-1, alpha, beta, true, ply+1)
		best = min(best, score)
		beta = min(beta, score)
		if beta <= alpha {
			break
		}
	}
	return best
}

// root searches every legal move of s in the given order and returns the
// best one with its score. Ties keep the earlier move.
func (sr *searcher) root(s *board.State, moves []board.Move, depth int) (board.Move, int) {
	maximizing := s.SideToMove == board.White
	alpha, beta := -Infinity, Infinity

	bestMove := board.NoMove
	bestScore := 0
	for _, m := range moves {
		score := sr.minimax(s.Apply(m), depth-1, alpha, beta, !maximizing, 1)

		if maximizing {
			if bestMove == board.NoMove || score > bestScore {
				bestMove, bestScore = m, score
			}
			alpha = max(alpha, score)
		} else {
			if bestMove == board.NoMove || score < bestScore {
				bestMove, bestScore = m, score
			}
			beta = min(beta, score)
		}
	}
	return bestMove, bestScore
}
