package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// LogLevel represents the severity of a log entry
type LogLevel int

const (
	// DEBUG level for debug information
	DEBUG LogLevel = iota
	// INFO level for informational messages
	INFO
	// WARN level for warning messages
	WARN
	// ERROR level for error messages
	ERROR
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LogEntry represents a structured log entry
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Component string                 `json:"component,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

// Logger provides structured logging capabilities
type Logger struct {
	mu         sync.RWMutex
	level      LogLevel
	output     io.Writer
	fields     map[string]interface{}
	component  string
	jsonFormat bool
}

var (
	globalLogger *Logger
	once         sync.Once
)

func init() {
	globalLogger = New()
}

// New creates a new logger instance
func New() *Logger {
	return &Logger{
		level:      INFO,
		output:     os.Stdout,
		fields:     make(map[string]interface{}),
		jsonFormat: true,
	}
}

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	once.Do(func() {
		if globalLogger == nil {
			globalLogger = New()
		}
	})
	return globalLogger
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput sets the output writer
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// SetJSONFormat enables or disables JSON formatting
func (l *Logger) SetJSONFormat(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jsonFormat = enabled
}

// WithComponent creates a new logger scoped to a component name
func (l *Logger) WithComponent(name string) *Logger {
	nl := l.clone()
	nl.component = name
	return nl
}

// WithField creates a new logger with an additional field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	nl := l.clone()
	nl.fields[key] = value
	return nl
}

// WithFields creates a new logger with additional fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	nl := l.clone()
	for k, v := range fields {
		nl.fields[k] = v
	}
	return nl
}

func (l *Logger) clone() *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	nl := &Logger{
		level:      l.level,
		output:     l.output,
		fields:     make(map[string]interface{}, len(l.fields)),
		component:  l.component,
		jsonFormat: l.jsonFormat,
	}
	for k, v := range l.fields {
		nl.fields[k] = v
	}
	return nl
}

// log writes a log entry
func (l *Logger) log(level LogLevel, msg string, err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if level < l.level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level.String(),
		Message:   msg,
		Fields:    l.fields,
		Component: l.component,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	if l.jsonFormat {
		l.writeJSON(entry)
	} else {
		l.writeText(entry)
	}
}

func (l *Logger) writeJSON(entry LogEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("Failed to marshal log entry: %v", err)
		return
	}
	fmt.Fprintln(l.output, string(data))
}

func (l *Logger) writeText(entry LogEntry) {
	output := fmt.Sprintf("[%s] [%s] ", entry.Timestamp.Format("2006-01-02 15:04:05"), entry.Level)
	if entry.Component != "" {
		output += fmt.Sprintf("[%s] ", entry.Component)
	}
	output += entry.Message
	if entry.Error != "" {
		output += fmt.Sprintf(" error=%s", entry.Error)
	}
	for k, v := range entry.Fields {
		output += fmt.Sprintf(" %s=%v", k, v)
	}
	fmt.Fprintln(l.output, output)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.log(DEBUG, msg, nil)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(DEBUG, fmt.Sprintf(format, args...), nil)
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.log(INFO, msg, nil)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(INFO, fmt.Sprintf(format, args...), nil)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.log(WARN, msg, nil)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(WARN, fmt.Sprintf(format, args...), nil)
}

// Error logs an error message
func (l *Logger) Error(msg string, err error) {
	l.log(ERROR, msg, err)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(ERROR, fmt.Sprintf(format, args...), nil)
}

// Global logging functions

// Debug logs a debug message using the global logger
func Debug(msg string) {
	GetLogger().Debug(msg)
}

// Debugf logs a formatted debug message using the global logger
func Debugf(format string, args ...interface{}) {
	GetLogger().Debugf(format, args...)
}

// Info logs an info message using the global logger
func Info(msg string) {
	GetLogger().Info(msg)
}

// Infof logs a formatted info message using the global logger
func Infof(format string, args ...interface{}) {
	GetLogger().Infof(format, args...)
}

// Warn logs a warning message using the global logger
func Warn(msg string) {
	GetLogger().Warn(msg)
}

// Warnf logs a formatted warning message using the global logger
func Warnf(format string, args ...interface{}) {
	GetLogger().Warnf(format, args...)
}

// Error logs an error message using the global logger
func Error(msg string, err error) {
	GetLogger().Error(msg, err)
}

// Errorf logs a formatted error message using the global logger
func Errorf(format string, args ...interface{}) {
	GetLogger().Errorf(format, args...)
}

// SetGlobalLevel sets the global logger level
func SetGlobalLevel(level LogLevel) {
	GetLogger().SetLevel(level)
}

// ParseLevel parses a string log level
func ParseLevel(levelStr string) (LogLevel, error) {
	switch levelStr {
	case "DEBUG", "debug":
		return DEBUG, nil
	case "INFO", "info":
		return INFO, nil
	case "WARN", "warn", "WARNING", "warning":
		return WARN, nil
	case "ERROR", "error":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("unknown log level: %s", levelStr)
	}
}
