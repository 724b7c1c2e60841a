package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime/debug"
	"time"
)

// ErrorObject represents the error format.
type ErrorObject struct {
	Msg   string `json:"msg"`
	Stack string `json:"stack"`
}

// LogEntry represents the structured log format.
type LogEntry struct {
	Timestamp string       `json:"timestamp"`
	Level     string       `json:"level"`
	Service   string       `json:"service"`
	Action    string       `json:"action"`
	Message   string       `json:"message"`
	Hostname  string       `json:"hostname"`
	SessionID string       `json:"session_id,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Error     *ErrorObject `json:"error,omitempty"`
	Details   any          `json:"details,omitempty"`
}

// Logger represents a custom structured logger.
type Logger struct {
	service  string
	hostname string
}

// NewLogger creates a new structured logger for the given service name.
func NewLogger(service string) *Logger {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return &Logger{
		service:  service,
		hostname: hostname,
	}
}

// Define an unexported type for context keys.
type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	sessionIDKey ctxKey = "session_id"
)

// WithRequestID returns a context carrying a request id (useful for HTTP hops).
func (logger *Logger) WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

// WithSessionID returns a context carrying the websocket session id so every
// log line produced while handling that connection can be correlated.
func (logger *Logger) WithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sid)
}

func stringFrom(ctx context.Context, key ctxKey) string {
	if v := ctx.Value(key); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// emit marshals the provided log entry.
func (logger *Logger) emit(entry LogEntry) {
	b, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log marshal failed: %v\n", err)
		return
	}
	fmt.Println(string(b))
}

func (logger *Logger) entry(ctx context.Context, level, action, msg string) LogEntry {
	return LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Service:   logger.service,
		Action:    action,
		Message:   msg,
		Hostname:  logger.hostname,
		SessionID: stringFrom(ctx, sessionIDKey),
		RequestID: stringFrom(ctx, requestIDKey),
	}
}

// -- Logger helper functions --

func (logger *Logger) Info(ctx context.Context, action, msg string, details any) {
	e := logger.entry(ctx, "INFO", action, msg)
	e.Details = details
	logger.emit(e)
}

func (logger *Logger) Debug(ctx context.Context, action, msg string, details any) {
	e := logger.entry(ctx, "DEBUG", action, msg)
	e.Details = details
	logger.emit(e)
}

func (logger *Logger) Warn(ctx context.Context, action, msg string, details any) {
	e := logger.entry(ctx, "WARN", action, msg)
	e.Details = details
	logger.emit(e)
}

func (logger *Logger) Error(ctx context.Context, action, msg string, err error) {
	e := logger.entry(ctx, "ERROR", action, msg)
	e.Error = &ErrorObject{
		Msg:   err.Error(),
		Stack: string(debug.Stack()),
	}
	logger.emit(e)
}
