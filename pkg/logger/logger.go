package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Package logger is the leveled logger shared by the portal service and its
// command line tools. Output is one line per call:
//
//	2024-05-01T10:00:00Z [INFO] message
//
// The level is process wide and set once at startup with Init.

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelFatal: "fatal",
}

var (
	mu     sync.RWMutex
	logger *log.Logger = log.New(os.Stdout, "", 0)
	level  Level       = LevelInfo

	// exit is swapped in tests so Fatalf can be exercised.
	exit = os.Exit
)

// ParseLevel maps a level name (case-insensitive) to a Level. Unknown names
// map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// Init sets the global log level. Call early during startup.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	level = ParseLevel(l)
}

// SetOutput redirects log output, e.g. to a buffer in tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = log.New(w, "", 0)
}

// Enabled reports whether messages at l are currently written.
func Enabled(l Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return l >= level
}

func output(l Level, format string, v ...interface{}) {
	mu.RLock()
	out := logger
	mu.RUnlock()
	prefix := fmt.Sprintf("%s [%s] ", time.Now().UTC().Format(time.RFC3339), strings.ToUpper(levelNames[l]))
	out.Printf(prefix+format, v...)
}

func Debugf(format string, v ...interface{}) {
	if Enabled(LevelDebug) {
		output(LevelDebug, format, v...)
	}
}

func Infof(format string, v ...interface{}) {
	if Enabled(LevelInfo) {
		output(LevelInfo, format, v...)
	}
}

func Warnf(format string, v ...interface{}) {
	if Enabled(LevelWarn) {
		output(LevelWarn, format, v...)
	}
}

func Errorf(format string, v ...interface{}) {
	if Enabled(LevelError) {
		output(LevelError, format, v...)
	}
}

// Fatalf always logs, then terminates the process.
func Fatalf(format string, v ...interface{}) {
	output(LevelFatal, format, v...)
	exit(1)
}

func Info(v string) { Infof("%s", v) }
func Warn(v string) { Warnf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	return levelNames[level]
}
