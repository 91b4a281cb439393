// Command chessplay runs perft counts, engine searches and engine
// self-play games from the command line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/config"
	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/logging"
	"github.com/hailam/chesscore/internal/storage"
)

const usage = `usage: chessplay [flags] <command> [args]

commands:
  perft [-fen FEN] [-divide] DEPTH   count leaf nodes of the move tree
  bestmove [-fen FEN] [-moves LIST]  search a position and print the move
  selfplay [-id ID] [-max-plies N]   play the engine against itself and save the game
  show ID                            print a saved game
  list                               list saved games
  stats                              print result statistics
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

// app carries what every subcommand needs.
type app struct {
	cfg    config.Config
	log    zerolog.Logger
	engine *engine.Engine
	stdout io.Writer
}

func run(args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	cfg, err := config.Default().FromEnv(getenv)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	fs := flag.NewFlagSet("chessplay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fmt.Fprintln(stderr, "\nflags:")
		fs.PrintDefaults()
	}
	fs.IntVar(&cfg.Depth, "depth", cfg.Depth, "search depth in plies")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for root move ordering (0 uses the clock)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "give up on a search after this long (0 disables)")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "data directory for saved games")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.Pretty, "pretty", cfg.Pretty, "human-readable logs instead of JSON")
	difficulty := fs.String("difficulty", "", "easy, medium or hard (overrides -depth)")
	cpuprofile := fs.String("cpuprofile", "", "write cpu profile to file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *difficulty != "" {
		d, err := engine.ParseDifficulty(*difficulty)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		cfg.Depth = engine.DifficultySettings[d]
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	log, err := logging.New(cfg.LogLevel, cfg.Pretty, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Error().Err(err).Msg("could not create CPU profile")
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Error().Err(err).Msg("could not start CPU profile")
			return 1
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", *cpuprofile).Msg("CPU profiling enabled")
	}

	a := &app{
		cfg:    cfg,
		log:    log,
		engine: engine.New(cfg.EngineOptions(logging.Component(log, "engine"))...),
		stdout: stdout,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "perft":
		err = a.perft(rest)
	case "bestmove":
		err = a.bestMove(rest)
	case "selfplay":
		err = a.selfPlay(rest)
	case "show":
		err = a.show(rest)
	case "list":
		err = a.list()
	case "stats":
		err = a.stats()
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		fs.Usage()
		return 2
	}
	if err != nil {
		log.Error().Err(err).Str("command", cmd).Msg("command failed")
		return 1
	}
	return 0
}

func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.stdout, format, args...)
}

func (a *app) openStore() (*storage.Store, error) {
	return storage.Open(a.cfg.DataDir, logging.Component(a.log, "storage"))
}

// loadPosition parses fen (or the start position) and plays the
// space-separated coordinate moves on top of it.
func loadPosition(fen, moves string) (*board.State, error) {
	s := board.NewGame()
	if fen != "" {
		var err error
		if s, err = board.ParseFEN(fen); err != nil {
			return nil, err
		}
	}
	for _, text := range strings.Fields(moves) {
		m, err := s.ParseMove(text)
		if err != nil {
			return nil, err
		}
		if s, err = s.ApplyMove(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (a *app) perft(args []string) error {
	fs := flag.NewFlagSet("perft", flag.ContinueOnError)
	fen := fs.String("fen", "", "position to count from")
	divide := fs.Bool("divide", false, "print counts per root move")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("perft needs a depth")
	}
	depth, err := strconv.Atoi(fs.Arg(0))
	if err != nil || depth < 0 {
		return fmt.Errorf("invalid depth %q", fs.Arg(0))
	}
	s, err := loadPosition(*fen, "")
	if err != nil {
		return err
	}

	start := time.Now()
	if *divide {
		counts := engine.Divide(s, depth)
		var total uint64
		for _, m := range s.LegalMoves() {
			a.printf("%s: %d\n", m, counts[m])
			total += counts[m]
		}
		a.printf("\nNodes: %d\n", total)
	} else {
		a.printf("Nodes: %d\n", engine.Perft(s, depth))
	}
	a.log.Info().Int("depth", depth).Dur("elapsed", time.Since(start)).Msg("perft done")
	return nil
}

func (a *app) search(s *board.State) (board.Move, bool, error) {
	if a.cfg.Timeout <= 0 {
		m, ok := a.engine.Search(s)
		return m, ok, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timeout)
	defer cancel()
	return a.engine.SearchWithTimeout(ctx, s, a.engine.Depth())
}

func (a *app) bestMove(args []string) error {
	fs := flag.NewFlagSet("bestmove", flag.ContinueOnError)
	fen := fs.String("fen", "", "position to search")
	moves := fs.String("moves", "", "coordinate moves to play first")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := loadPosition(*fen, *moves)
	if err != nil {
		return err
	}

	m, ok, err := a.search(s)
	if err != nil {
		return err
	}
	if !ok {
		a.printf("no legal moves: %s\n", s.StatusText())
		return nil
	}
	a.printf("%s (%s) eval %s\n", s.SAN(m), m, engine.ScoreToString(engine.Evaluate(s.Apply(m))))
	return nil
}

func (a *app) selfPlay(args []string) error {
	fs := flag.NewFlagSet("selfplay", flag.ContinueOnError)
	id := fs.String("id", "", "id to save the game under (default: timestamp)")
	fen := fs.String("fen", "", "starting position")
	maxPlies := fs.Int("max-plies", 200, "stop after this many plies")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		*id = time.Now().Format("20060102-150405")
	}

	start, err := loadPosition(*fen, "")
	if err != nil {
		return err
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	s := start
	var played []board.Move
	for len(played) < *maxPlies && !s.IsGameOver() {
		m, ok, err := a.search(s)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if s, err = s.ApplyMove(m); err != nil {
			return err
		}
		played = append(played, m)
	}

	a.printf("%s\n%s\n", strings.Join(board.MovesToSAN(start, played), " "), s.StatusText())
	if err := store.SaveGame(*id, s); err != nil {
		return err
	}
	if s.IsGameOver() {
		if err := store.RecordResult(s); err != nil {
			return err
		}
	}
	a.log.Info().Str("id", *id).Int("plies", len(played)).Str("status", s.Status().String()).Msg("game saved")
	return nil
}

func (a *app) show(args []string) error {
	if len(args) != 1 {
		return errors.New("show needs a game id")
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	s, err := store.LoadGame(args[0])
	if err != nil {
		return err
	}
	a.printf("%s\nFEN: %s\n%s\nEval: %s\n", s, s.FEN(), s.StatusText(), engine.ScoreToString(engine.Evaluate(s)))
	return nil
}

func (a *app) list() error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	games, err := store.ListGames()
	if err != nil {
		return err
	}
	for _, g := range games {
		a.printf("%s\t%s\tmove %d\t%s\n", g.ID, g.SavedAt.Format(time.RFC3339), g.FullMove, g.Status)
	}
	return nil
}

func (a *app) stats() error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	st, err := store.LoadStats()
	if err != nil {
		return err
	}
	a.printf("games: %d\nwhite wins: %d (%.0f%%)\nblack wins: %d (%.0f%%)\ndraws: %d\nplies: %d\n",
		st.GamesPlayed,
		st.WhiteWins, st.GetWinRate(board.White),
		st.BlackWins, st.GetWinRate(board.Black),
		st.Draws, st.TotalPlies)
	return nil
}
