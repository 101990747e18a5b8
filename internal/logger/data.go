package logger

import "sync"

// Logger provides structured logging with levels

type Logger struct {
	MinLevel LogLevel
	mu       sync.Mutex
}

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// New returns a logger that discards everything below minLevel.
func New(minLevel LogLevel) *Logger {
	return &Logger{MinLevel: minLevel}
}

// ParseLevel maps a level name to a LogLevel, defaulting to INFO.
func ParseLevel(name string) LogLevel {
	switch name {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}
