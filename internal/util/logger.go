package util

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F is a shorthand constructor for Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// LogEntry is a single structured log record.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Output is a log output destination.
type Output interface {
	Write(entry LogEntry) error
	Close() error
}

// Logger provides leveled, structured logging to one or more outputs.
type Logger struct {
	level   LogLevel
	outputs []Output
	mu      sync.RWMutex
}

// NewLogger creates a logger writing to the given log file, with an
// additional console output when debugToConsole is set.
func NewLogger(levelStr string, logFile string, debugToConsole bool) (*Logger, error) {
	logger := &Logger{
		level:   parseLogLevel(levelStr),
		outputs: make([]Output, 0, 2),
	}

	if debugToConsole {
		logger.outputs = append(logger.outputs, NewConsoleOutput())
	}
	if logFile != "" {
		fileOutput, err := NewFileOutput(logFile)
		if err != nil {
			return nil, fmt.Errorf("create log file output %s: %w", logFile, err)
		}
		logger.outputs = append(logger.outputs, fileOutput)
	}

	return logger, nil
}

func parseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func levelToString(level LogLevel) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (l *Logger) log(level LogLevel, msg string, fields ...Field) {
	if l == nil || l.level > level {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     levelToString(level),
		Message:   msg,
	}
	if len(fields) > 0 {
		entry.Fields = make(map[string]interface{}, len(fields))
		for _, field := range fields {
			entry.Fields[field.Key] = field.Value
		}
	}

	for _, output := range l.outputs {
		_ = output.Write(entry)
	}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields...) }

// Close closes all outputs.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, output := range l.outputs {
		_ = output.Close()
	}
}

var (
	globalLogger *Logger
	loggerMu     sync.Mutex
)

// InitLogger initializes the process-wide logger. Errors creating the log
// file fall back to a console-only logger so logging never blocks startup.
func InitLogger(levelStr string, logFile string, debugToConsole bool) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	logger, err := NewLogger(levelStr, logFile, debugToConsole)
	if err != nil {
		logger = &Logger{
			level:   parseLogLevel(levelStr),
			outputs: []Output{NewConsoleOutput()},
		}
		logger.Warn("falling back to console logging", F("error", err.Error()))
	}
	globalLogger = logger
}

func getLogger() *Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	return globalLogger
}

func LogDebug(msg string, fields ...Field) { getLogger().Debug(msg, fields...) }
func LogInfo(msg string, fields ...Field)  { getLogger().Info(msg, fields...) }
func LogWarn(msg string, fields ...Field)  { getLogger().Warn(msg, fields...) }
func LogError(msg string, fields ...Field) { getLogger().Error(msg, fields...) }
