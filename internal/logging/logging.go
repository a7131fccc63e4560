// Package logging provides the structured logging surface used across
// udpseq: a small set of level functions plus Section/Banner helpers for
// the startup banner, all backed by zerolog instead of hand-rolled ANSI
// formatting.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
}

// SetLevel parses one of "debug", "info", "warn", "error" (case
// insensitive) and applies it; unrecognized values are ignored and the
// current level is kept.
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return
	}
	log = log.Level(parsed)
}

// SetOutput redirects where subsequent log lines are written. Primarily
// for tests.
func SetOutput(w io.Writer) {
	log = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"})
}

func Debug(format string, args ...interface{}) {
	log.Debug().Msgf(format, args...)
}

func Info(format string, args ...interface{}) {
	log.Info().Msgf(format, args...)
}

func Warn(format string, args ...interface{}) {
	log.Warn().Msgf(format, args...)
}

func Error(format string, args ...interface{}) {
	log.Error().Msgf(format, args...)
}

// Success logs at info level with a distinct marker; the teacher's
// logger treats success as its own level, but zerolog has no such
// level, so this is a thin wrapper over Info.
func Success(format string, args ...interface{}) {
	log.Info().Str("result", "ok").Msgf(format, args...)
}

// Fatal logs at fatal level and then terminates the process, matching
// the teacher logger's behavior.
func Fatal(format string, args ...interface{}) {
	log.Fatal().Msgf(format, args...)
}

// Section prints a visual divider with a title, used to separate phases
// of startup output.
func Section(title string) {
	log.Info().Msg(strings.Repeat("-", 8) + " " + title + " " + strings.Repeat("-", 8))
}

// Banner prints the startup banner: name and version inside a bordered
// box, matching the shape of the teacher's boxed ASCII banner.
func Banner(name, version string) {
	line := name + " " + version
	border := strings.Repeat("=", len(line)+4)
	log.Info().Msg(border)
	log.Info().Msg("| " + line + " |")
	log.Info().Msg(border)
}
