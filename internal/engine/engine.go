package engine

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
)

// DefaultDepth is the search depth used when none is configured.
const DefaultDepth = 3

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// DifficultySettings maps difficulty to search depth.
var DifficultySettings = map[Difficulty]int{
	Easy:   2,
	Medium: 3,
	Hard:   4,
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty parses "easy", "medium" or "hard".
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(s) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return Medium, fmt.Errorf("unknown difficulty %q", s)
}

// Engine is the chess AI engine. It is safe for concurrent use.
type Engine struct {
	depth  int
	log    zerolog.Logger
	onInfo func(SearchInfo)

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithDepth sets the depth used by Search.
func WithDepth(depth int) Option {
	return func(e *Engine) { e.depth = depth }
}

// WithDifficulty sets the depth used by Search from a difficulty preset.
func WithDifficulty(d Difficulty) Option {
	return func(e *Engine) {
		if depth, ok := DifficultySettings[d]; ok {
			e.depth = depth
		}
	}
}

// WithSeed makes root tie-breaking deterministic.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithRand sets the random source used to shuffle root moves. The engine
// takes ownership of r.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithLogger sets the logger for search events.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithInfo registers a callback invoked after every completed search.
func WithInfo(fn func(SearchInfo)) Option {
	return func(e *Engine) { e.onInfo = fn }
}

// New creates an engine. Without options it searches to DefaultDepth,
// logs nothing and seeds its random source from the clock.
func New(opts ...Option) *Engine {
	e := &Engine{
		depth: DefaultDepth,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.depth < 1 {
		e.depth = 1
	}
	return e
}

// Depth returns the depth used by Search.
func (e *Engine) Depth() int {
	return e.depth
}

// Search finds the best move at the engine's configured depth.
func (e *Engine) Search(s *board.State) (board.Move, bool) {
	return e.BestMove(s, e.depth)
}

// BestMove finds the best move for the side to move with a fixed-depth
// alpha-beta search. It returns false only when s has no legal moves.
func (e *Engine) BestMove(s *board.State, depth int) (board.Move, bool) {
	info := e.Analyze(s, depth)
	return info.Move, info.Move != board.NoMove
}

// Analyze runs a search and reports the chosen move with its score and
// node count. Depths below one are searched at depth one.
func (e *Engine) Analyze(s *board.State, depth int) SearchInfo {
	depth = max(depth, 1)
	start := time.Now()

	moves := s.LegalMoves()
	if len(moves) == 0 {
		return SearchInfo{Depth: depth, Score: Evaluate(s), Time: time.Since(start)}
	}
	e.shuffle(moves)

	sr := &searcher{}
	move, score := sr.root(s, moves, depth)

	info := SearchInfo{
		Depth: depth,
		Score: score,
		Nodes: sr.nodes,
		Time:  time.Since(start),
		Move:  move,
	}
	e.log.Debug().
		Int("depth", info.Depth).
		Uint64("nodes", info.Nodes).
		Int("score", info.Score).
		Str("move", info.Move.String()).
		Dur("elapsed", info.Time).
		Str("fen", s.FEN()).
		Msg("search complete")
	if e.onInfo != nil {
		e.onInfo(info)
	}
	return info
}

// SearchWithTimeout runs BestMove on its own goroutine and gives up when
// ctx is done. The abandoned search runs to completion in the background.
func (e *Engine) SearchWithTimeout(ctx context.Context, s *board.State, depth int) (board.Move, bool, error) {
	type result struct {
		move board.Move
		ok   bool
	}
	done := make(chan result, 1)
	go func() {
		m, ok := e.BestMove(s, depth)
		done <- result{m, ok}
	}()

	select {
	case r := <-done:
		return r.move, r.ok, nil
	case <-ctx.Done():
		e.log.Warn().Int("depth", depth).Err(ctx.Err()).Msg("search abandoned")
		return board.NoMove, false, ctx.Err()
	}
}

func (e *Engine) shuffle(moves []board.Move) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rng.Shuffle(len(moves), func(i, j int) {
		moves[i], moves[j] = moves[j], moves[i]
	})
}

// Perft counts the leaf nodes of the legal move tree (for debugging move
// generation).
func Perft(s *board.State, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	moves := s.GenerateMoves(false)
	if depth == 1 {
		return uint64(len(moves))
	}

	var nodes uint64
	for _, m := range moves {
		nodes += Perft(s.Probe(m), depth-1)
	}
	return nodes
}

// Divide returns the perft count below each legal move.
func Divide(s *board.State, depth int) map[board.Move]uint64 {
	out := make(map[board.Move]uint64)
	if depth < 1 {
		return out
	}
	for _, m := range s.GenerateMoves(false) {
		out[m] = Perft(s.Probe(m), depth-1)
	}
	return out
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score >= MateScore-MaxPly {
		return "White mates"
	}
	if score <= -MateScore+MaxPly {
		return "Black mates"
	}

	// Convert centipawns to pawns
	sign := "+"
	if score < 0 {
		sign = "-"
		score = -score
	}
	pawns := score / 100
	centipawns := score % 100

	cp := strconv.Itoa(centipawns)
	if centipawns < 10 {
		cp = "0" + cp
	}
	return sign + strconv.Itoa(pawns) + "." + cp
}
