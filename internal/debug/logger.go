// Package debug implements the level-gated structured logger described in
// spec §6.4, built over the stdlib log.Logger the way every package in the
// teacher repo logs (cmd/engine/main.go, internal/db/postgres.go) — the
// teacher never reaches for a structured-logging library, so plain
// log.Printf/log.Println is the idiom carried forward here.
package debug

import (
	"log"
	"os"
)

// Level gates which Entry calls are effectively no-ops (spec §6.4: "at
// level 0 all calls are effectively no-ops").
type Level int

const (
	LevelOff Level = iota
	LevelError
	LevelInfo
	LevelVerbose
)

// Entry is one structured log record.
type Entry struct {
	Location   string
	Message    string
	Args       []any
	Cells      []int
	Candidates []uint32
}

// Logger is the engine's debug logger: level-gated, backed by a standard
// *log.Logger so host binaries can redirect it like any other log output.
type Logger struct {
	level Level
	std   *log.Logger
}

// New builds a Logger writing to stderr at the given level, matching the
// teacher's default logger (log.Default() writes to os.Stderr).
func New(level Level) *Logger {
	return &Logger{level: level, std: log.New(os.Stderr, "", log.LstdFlags)}
}

// SetLevel adjusts the gate at runtime (spec §6.4: "externally set level").
func (l *Logger) SetLevel(level Level) { l.level = level }

// Level reports the current gate.
func (l *Logger) Level() Level { return l.level }

// Log emits an Entry if the logger's level is at least min.
func (l *Logger) Log(min Level, e Entry) {
	if l == nil || l.level < min {
		return
	}
	l.std.Printf("[%s] %s %v cells=%v candidates=%v", e.Location, e.Message, e.Args, e.Cells, e.Candidates)
}

// Errorf logs at LevelError, mirroring the teacher's "Warning: ..." style.
func (l *Logger) Errorf(location, format string, args ...any) {
	l.Log(LevelError, Entry{Location: location, Message: format, Args: args})
}

// Infof logs at LevelInfo.
func (l *Logger) Infof(location, format string, args ...any) {
	l.Log(LevelInfo, Entry{Location: location, Message: format, Args: args})
}

// Verbosef logs at LevelVerbose, for per-node propagation tracing.
func (l *Logger) Verbosef(location string, cells []int, candidates []uint32, format string, args ...any) {
	l.Log(LevelVerbose, Entry{Location: location, Message: format, Args: args, Cells: cells, Candidates: candidates})
}
