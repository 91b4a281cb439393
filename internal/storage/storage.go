package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/hailam/chesscore/internal/board"
)

// Storage keys
const (
	keyStats   = "stats"
	gamePrefix = "game/"
)

var (
	// ErrGameNotFound is returned when no game is stored under an id.
	ErrGameNotFound = errors.New("game not found")

	// ErrInvalidID is returned for empty ids or ids containing '/'.
	ErrInvalidID = errors.New("invalid game id")
)

// savedGame is the stored value of a game key.
type savedGame struct {
	Record  board.Record `json:"record"`
	SavedAt time.Time    `json:"saved_at"`
}

// GameSummary describes a stored game without decoding its position.
type GameSummary struct {
	ID       string
	SavedAt  time.Time
	Status   string
	FullMove int
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed int `json:"games_played"`
	WhiteWins   int `json:"white_wins"`
	BlackWins   int `json:"black_wins"`
	Draws       int `json:"draws"`
	TotalPlies  int `json:"total_plies"`
}

// GetWinRate returns the share of games won by c as a percentage (0-100).
func (s *GameStats) GetWinRate(c board.Color) float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	wins := s.WhiteWins
	if c == board.Black {
		wins = s.BlackWins
	}
	return float64(wins) / float64(s.GamesPlayed) * 100
}

// Store wraps BadgerDB for persistent storage
type Store struct {
	db  *badger.DB
	log zerolog.Logger
}

// Open opens (or creates) the store below dataDir. An empty dataDir uses
// the platform default.
func Open(dataDir string, log zerolog.Logger) (*Store, error) {
	dbDir, err := DatabaseDir(dataDir)
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbDir).WithLogger(newBadgerLogger(log))
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", dbDir, err)
	}

	log.Debug().Str("dir", dbDir).Msg("store opened")
	return &Store{db: db, log: log}, nil
}

// OpenInMemory opens a store that lives only as long as the process.
func OpenInMemory(log zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(newBadgerLogger(log))
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory store: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// Close closes the database
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) ([]byte, error) {
	if id == "" || strings.Contains(id, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return []byte(gamePrefix + id), nil
}

// SaveGame stores the state under id, replacing any previous game.
func (s *Store) SaveGame(id string, st *board.State) error {
	key, err := gameKey(id)
	if err != nil {
		return err
	}

	data, err := json.Marshal(savedGame{Record: st.Record(), SavedAt: time.Now().UTC()})
	if err != nil {
		return err
	}

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	}); err != nil {
		return fmt.Errorf("save game %s: %w", id, err)
	}

	s.log.Debug().Str("game", id).Int("fullmove", st.FullMoveNumber).Msg("game saved")
	return nil
}

// LoadGame restores the game stored under id.
func (s *Store) LoadGame(id string) (*board.State, error) {
	key, err := gameKey(id)
	if err != nil {
		return nil, err
	}

	var saved savedGame
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrGameNotFound, id)
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &saved)
		})
	})
	if err != nil {
		return nil, err
	}

	st, err := board.FromRecord(saved.Record)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}
	return st, nil
}

// DeleteGame removes the game stored under id.
func (s *Store) DeleteGame(id string) error {
	key, err := gameKey(id)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrGameNotFound, id)
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// ListGames returns a summary of every stored game, ordered by id.
func (s *Store) ListGames() ([]GameSummary, error) {
	var games []GameSummary

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(gamePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			id := strings.TrimPrefix(string(item.Key()), gamePrefix)

			var saved savedGame
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &saved)
			}); err != nil {
				return fmt.Errorf("decode game %s: %w", id, err)
			}

			games = append(games, GameSummary{
				ID:       id,
				SavedAt:  saved.SavedAt,
				Status:   saved.Record.Status,
				FullMove: saved.Record.FullMoveNumber,
			})
		}
		return nil
	})

	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games, err
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Store) LoadStats() (*GameStats, error) {
	stats := &GameStats{}
	err := s.db.View(func(txn *badger.Txn) error {
		return readStats(txn, stats)
	})
	return stats, err
}

func readStats(txn *badger.Txn, stats *GameStats) error {
	item, err := txn.Get([]byte(keyStats))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil // Use empty stats
	}
	if err != nil {
		return err
	}

	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, stats)
	})
}

// RecordResult adds a finished game to the statistics. Unfinished games
// are rejected.
func (s *Store) RecordResult(st *board.State) error {
	if !st.IsGameOver() {
		return fmt.Errorf("record result: game is still %s", st.Status())
	}

	return s.db.Update(func(txn *badger.Txn) error {
		stats := &GameStats{}
		if err := readStats(txn, stats); err != nil {
			return err
		}

		stats.GamesPlayed++
		stats.TotalPlies += st.Ply()
		switch st.Winner() {
		case board.White:
			stats.WhiteWins++
		case board.Black:
			stats.BlackWins++
		default:
			stats.Draws++
		}

		data, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		s.log.Info().Str("result", st.StatusText()).Int("games", stats.GamesPlayed).Msg("result recorded")
		return txn.Set([]byte(keyStats), data)
	})
}
