package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory(zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenInMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func playMoves(t *testing.T, moves ...string) *board.State {
	t.Helper()
	s := board.NewGame()
	for _, text := range moves {
		m, err := s.ParseMove(text)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", text, err)
		}
		s = s.Apply(m)
	}
	return s
}

func TestSaveLoadGame(t *testing.T) {
	store := openTestStore(t)
	game := playMoves(t, "e2e4", "c7c5", "g1f3")

	if err := store.SaveGame("sicilian", game); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}

	loaded, err := store.LoadGame("sicilian")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}

	if diff := cmp.Diff(game.Record(), loaded.Record()); diff != "" {
		t.Errorf("round trip changed the game (-saved +loaded):\n%s", diff)
	}
	if diff := cmp.Diff(game.History(), loaded.History()); diff != "" {
		t.Errorf("history differs:\n%s", diff)
	}
	if diff := cmp.Diff(game.LegalMoves(), loaded.LegalMoves()); diff != "" {
		t.Errorf("legal moves differ:\n%s", diff)
	}
}

func TestLoadMissingGame(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.LoadGame("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("err = %v, want ErrGameNotFound", err)
	}
	if err := store.DeleteGame("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("DeleteGame err = %v, want ErrGameNotFound", err)
	}
}

func TestInvalidID(t *testing.T) {
	store := openTestStore(t)
	for _, id := range []string{"", "a/b"} {
		if err := store.SaveGame(id, board.NewGame()); !errors.Is(err, ErrInvalidID) {
			t.Errorf("SaveGame(%q) err = %v, want ErrInvalidID", id, err)
		}
	}
}

func TestListAndDeleteGames(t *testing.T) {
	store := openTestStore(t)
	for _, id := range []string{"b", "a", "c"} {
		if err := store.SaveGame(id, board.NewGame()); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.DeleteGame("b"); err != nil {
		t.Fatal(err)
	}

	games, err := store.ListGames()
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, g := range games {
		ids = append(ids, g.ID)
		if g.Status != "ongoing" || g.FullMove != 1 {
			t.Errorf("summary %+v", g)
		}
	}
	if diff := cmp.Diff([]string{"a", "c"}, ids); diff != "" {
		t.Errorf("ListGames ids (-want +got):\n%s", diff)
	}
}

func TestRecordResult(t *testing.T) {
	store := openTestStore(t)

	if err := store.RecordResult(board.NewGame()); err == nil {
		t.Error("RecordResult accepted an unfinished game")
	}

	mate := playMoves(t, "f2f3", "e7e5", "g2g4", "d8h4")
	if err := store.RecordResult(mate); err != nil {
		t.Fatal(err)
	}
	if err := store.RecordResult(board.MustParseFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")); err != nil {
		t.Fatal(err)
	}

	stats, err := store.LoadStats()
	if err != nil {
		t.Fatal(err)
	}
	want := &GameStats{GamesPlayed: 2, BlackWins: 1, Draws: 1, TotalPlies: 4}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats (-want +got):\n%s", diff)
	}
	if rate := stats.GetWinRate(board.Black); rate != 50 {
		t.Errorf("GetWinRate(Black) = %.2f, want 50", rate)
	}
}

func TestOpenOnDisk(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.SaveGame("persisted", playMoves(t, "d2d4")); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, "db")); err != nil {
		t.Errorf("database directory missing: %v", err)
	}

	store, err = Open(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	game, err := store.LoadGame("persisted")
	if err != nil {
		t.Fatal(err)
	}
	if game.PieceAt(board.D4) != board.WhitePawn {
		t.Errorf("reloaded game lost d4:\n%s", game)
	}
}

func TestDefaultDataDir(t *testing.T) {
	dataDir, err := DefaultDataDir()
	if err != nil {
		t.Fatalf("DefaultDataDir failed: %v", err)
	}
	if filepath.Base(dataDir) != appName {
		t.Errorf("DefaultDataDir() = %q, want it to end in %q", dataDir, appName)
	}
}
