package storage

import (
	"strings"

	"github.com/rs/zerolog"
)

// badgerLogger adapts a zerolog.Logger to badger.Logger.
type badgerLogger struct {
	log zerolog.Logger
}

// newBadgerLogger tags database messages with a subsystem field, leaving
// any component field set by the caller alone.
func newBadgerLogger(log zerolog.Logger) badgerLogger {
	return badgerLogger{log: log.With().Str("subsystem", "badger").Logger()}
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Info().Msgf(strings.TrimSpace(format), args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Debug().Msgf(strings.TrimSpace(format), args...)
}
