package main

import (
	"bytes"
	"strings"
	"testing"
)

func runCLI(t *testing.T, env map[string]string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr, func(k string) string { return env[k] })
	return code, stdout.String(), stderr.String()
}

func TestPerftCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"start", []string{"perft", "3"}, "Nodes: 8902"},
		{"fen", []string{"perft", "-fen", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", "2"}, "Nodes: 191"},
		{"divide", []string{"perft", "-divide", "2"}, "e2e4: 20"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, errOut := runCLI(t, nil, append([]string{"-log-level", "warn"}, tt.args...)...)
			if code != 0 {
				t.Fatalf("exit %d: %s", code, errOut)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestBestMoveCommand(t *testing.T) {
	code, out, errOut := runCLI(t, nil,
		"-depth", "2", "-seed", "1", "-log-level", "warn",
		"bestmove", "-fen", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.HasPrefix(out, "Ra8# (a1a8)") {
		t.Errorf("output = %q", out)
	}
}

func TestBestMoveNoLegalMoves(t *testing.T) {
	code, out, _ := runCLI(t, nil, "-log-level", "warn", "bestmove", "-fen", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if code != 0 || !strings.Contains(out, "Stalemate!") {
		t.Errorf("exit %d, output %q", code, out)
	}
}

func TestSelfPlayShowStats(t *testing.T) {
	env := map[string]string{"CHESSPLAY_DATA_DIR": t.TempDir(), "CHESSPLAY_LOG_LEVEL": "warn"}

	// Black to move and mated in one ply of self-play.
	code, out, errOut := runCLI(t, env, "-depth", "1", "-seed", "3",
		"selfplay", "-id", "mate", "-fen", "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	if code != 0 {
		t.Fatalf("selfplay exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Ra8#") || !strings.Contains(out, "Checkmate! White wins!") {
		t.Errorf("selfplay output = %q", out)
	}

	code, out, errOut = runCLI(t, env, "show", "mate")
	if code != 0 {
		t.Fatalf("show exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "FEN: R5k1/5ppp/8/8/8/8/8/6K1 b - - 1 1") {
		t.Errorf("show output = %q", out)
	}

	code, out, _ = runCLI(t, env, "list")
	if code != 0 || !strings.Contains(out, "mate\t") {
		t.Errorf("list exit %d, output %q", code, out)
	}

	code, out, _ = runCLI(t, env, "stats")
	if code != 0 || !strings.Contains(out, "games: 1") || !strings.Contains(out, "white wins: 1") {
		t.Errorf("stats exit %d, output %q", code, out)
	}
}

func TestSelfPlayPlyLimit(t *testing.T) {
	env := map[string]string{"CHESSPLAY_DATA_DIR": t.TempDir()}
	code, out, errOut := runCLI(t, env, "-depth", "1", "-seed", "5", "-log-level", "warn",
		"selfplay", "-id", "short", "-max-plies", "4")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if got := len(strings.Fields(lines[0])); got != 4 {
		t.Errorf("played %d plies, want 4: %q", got, lines[0])
	}

	_, out, _ = runCLI(t, env, "-log-level", "warn", "stats")
	if !strings.Contains(out, "games: 0") {
		t.Errorf("unfinished game counted: %q", out)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no command", nil, 2},
		{"unknown command", []string{"fly"}, 2},
		{"bad depth", []string{"-depth", "0", "perft", "1"}, 2},
		{"bad difficulty", []string{"-difficulty", "brutal", "perft", "1"}, 2},
		{"perft without depth", []string{"perft"}, 1},
		{"bad fen", []string{"bestmove", "-fen", "nonsense"}, 1},
		{"illegal move", []string{"bestmove", "-moves", "e2e5"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runCLI(t, nil, tt.args...); code != tt.code {
				t.Errorf("exit = %d, want %d", code, tt.code)
			}
		})
	}
}
