package logging

import (
	"log"
	"os"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

var current = LevelInfo

// InitFromEnv sets the log level from LOG_LEVEL (debug|info|error).
// Anything unrecognized falls back to info.
func InitFromEnv() {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		current = LevelDebug
	case "error":
		current = LevelError
	default:
		current = LevelInfo
	}
}

func Debugf(format string, args ...any) {
	if current <= LevelDebug {
		log.Printf(format, args...)
	}
}

func Infof(format string, args ...any) {
	if current <= LevelInfo {
		log.Printf(format, args...)
	}
}

// Errorf always prints regardless of level.
func Errorf(format string, args ...any) {
	log.Printf(format, args...)
}

func Fatalf(format string, args ...any) {
	log.Fatalf(format, args...)
}
