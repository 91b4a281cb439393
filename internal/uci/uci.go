// Package uci implements the subset of the Universal Chess Interface
// protocol needed to drive the engine from a chess GUI.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/engine"
)

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.State
	depth    int

	in  io.Reader
	out io.Writer
	log zerolog.Logger
}

// New creates a protocol handler reading commands from in and writing
// replies to out.
func New(eng *engine.Engine, in io.Reader, out io.Writer, log zerolog.Logger) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewGame(),
		depth:    eng.Depth(),
		in:       in,
		out:      out,
		log:      log,
	}
}

// Run processes commands until "quit" or the end of input.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.position = board.NewGame()
		case "position":
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			// Searches run to completion before the next command is read.
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.println(u.position.String())
		case "perft":
			u.handlePerft(args)
		default:
			u.log.Debug().Str("command", cmd).Msg("unknown uci command")
		}
	}
	return scanner.Err()
}

func (u *UCI) println(a ...interface{}) {
	fmt.Fprintln(u.out, a...)
}

func (u *UCI) printf(format string, a ...interface{}) {
	fmt.Fprintf(u.out, format, a...)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name chesscore")
	u.println("id author chesscore")
	u.println()
	u.printf("option name Depth type spin default %d min 1 max 8\n", u.depth)
	u.println("uciok")
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	var pos *board.State
	var moveStart int

	switch args[0] {
	case "startpos":
		pos = board.NewGame()
		moveStart = 1
	case "fen":
		end := len(args)
		for i, a := range args {
			if a == "moves" {
				end = i
				break
			}
		}
		var err error
		pos, err = board.ParseFEN(strings.Join(args[1:end], " "))
		if err != nil {
			u.printf("info string invalid fen: %v\n", err)
			return
		}
		moveStart = end
	default:
		return
	}

	if moveStart < len(args) && args[moveStart] == "moves" {
		for _, text := range args[moveStart+1:] {
			m, err := pos.ParseMove(text)
			if err == nil {
				pos, err = pos.ApplyMove(m)
			}
			if err != nil {
				u.printf("info string %v\n", err)
				return
			}
		}
	}

	u.position = pos
}

// GoOptions holds the parsed "go" parameters the engine honors.
type GoOptions struct {
	Depth    int
	MoveTime time.Duration
}

// handleGo runs a search and prints the result.
func (u *UCI) handleGo(args []string) {
	opts := u.parseGoOptions(args)

	depth := u.depth
	if opts.Depth > 0 {
		depth = opts.Depth
	}

	var (
		move board.Move
		ok   bool
	)
	if opts.MoveTime > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), opts.MoveTime)
		var err error
		move, ok, err = u.engine.SearchWithTimeout(ctx, u.position, depth)
		cancel()
		if err != nil {
			// Out of time: answer with a one-ply search.
			u.printf("info string depth %d timed out, falling back to depth 1\n", depth)
			depth = 1
			move, ok = u.engine.BestMove(u.position, depth)
		}
	} else {
		info := u.engine.Analyze(u.position, depth)
		if info.Move != board.NoMove {
			SendInfo(u.out, info)
		}
		move, ok = info.Move, info.Move != board.NoMove
	}

	if !ok {
		u.println("bestmove 0000")
		return
	}
	u.printf("bestmove %s\n", move)
}

// parseGoOptions parses "go" command arguments.
func (u *UCI) parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "movetime":
			if i+1 < len(args) {
				ms, _ := strconv.Atoi(args[i+1])
				opts.MoveTime = time.Duration(ms) * time.Millisecond
				i++
			}
		}
	}

	return opts
}

// SendInfo writes a search report in UCI format. Scores are always sent as
// centipawns: a mate found by the search scores engine.MateScore without a
// move count, so "score mate N" cannot be filled in.
func SendInfo(w io.Writer, info engine.SearchInfo) {
	parts := []string{fmt.Sprintf("depth %d", info.Depth)}
	parts = append(parts, fmt.Sprintf("score cp %d", info.Score))

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if info.Move != board.NoMove {
		parts = append(parts, "pv "+info.Move.String())
	}

	fmt.Fprintf(w, "info %s\n", strings.Join(parts, " "))
}

// handleSetOption processes "setoption name <name> value <value>".
func (u *UCI) handleSetOption(args []string) {
	var name, value string
	readingName := false

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "name":
			readingName = true
		case "value":
			readingName = false
			if i+1 < len(args) {
				value = strings.Join(args[i+1:], " ")
			}
			i = len(args)
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += args[i]
			}
		}
	}

	switch strings.ToLower(name) {
	case "depth":
		if d, err := strconv.Atoi(value); err == nil && d > 0 {
			u.depth = d
		}
	default:
		u.log.Debug().Str("option", name).Msg("unsupported option")
	}
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil {
			depth = d
		}
	}

	start := time.Now()
	nodes := engine.Perft(u.position, depth)
	elapsed := time.Since(start)

	u.printf("Nodes: %d\n", nodes)
	u.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		nps := float64(nodes) / elapsed.Seconds()
		u.printf("NPS: %.0f\n", nps)
	}
}
