package security

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/natefinch/lumberjack.v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// AuditEventType represents the type of audit event.
type AuditEventType string

const (
	AuditLogin      AuditEventType = "LOGIN"
	AuditLogout     AuditEventType = "LOGOUT"
	AuditAuthFailed AuditEventType = "AUTH_FAILED"
	AuditRegister   AuditEventType = "REGISTER"
)

// AuditEvent represents a single audit log entry.
type AuditEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	EventType AuditEventType `json:"event_type"`
	AccountID string         `json:"account_id,omitempty"`
	Success   bool           `json:"success"`
	ErrorMsg  string         `json:"error,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
}

// AuditLogger appends session events as JSON lines.
type AuditLogger struct {
	writer    io.WriteCloser
	mu        sync.Mutex
	sessionID string
}

// AuditConfig holds audit logger configuration.
type AuditConfig struct {
	Path       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// DefaultAuditConfig returns the default audit configuration.
func DefaultAuditConfig() AuditConfig {
	home, _ := os.UserHomeDir()
	return AuditConfig{
		Path:       filepath.Join(home, ".config", "drawdown", "logs", "audit.log"),
		MaxSize:    10,
		MaxBackups: 10,
		MaxAge:     365,
		Compress:   true,
	}
}

// NewAuditLogger creates a rotating audit logger.
func NewAuditLogger(cfg AuditConfig) (*AuditLogger, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0700); err != nil {
		return nil, fmt.Errorf("creating audit directory: %w", err)
	}

	return NewAuditLoggerWithWriter(&lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}), nil
}

// NewAuditLoggerWithWriter creates an audit logger over w.
func NewAuditLoggerWithWriter(w io.WriteCloser) *AuditLogger {
	return &AuditLogger{
		writer:    w,
		sessionID: generateSessionID(),
	}
}

// Log logs an audit event.
func (al *AuditLogger) Log(ctx context.Context, event AuditEvent) error {
	if al == nil {
		return nil
	}
	al.mu.Lock()
	defer al.mu.Unlock()

	event.Timestamp = time.Now().UTC()
	event.SessionID = al.sessionID

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializing audit event: %w", err)
	}
	if _, err := al.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing audit event: %w", err)
	}
	return nil
}

// LogLogin logs a successful login.
func (al *AuditLogger) LogLogin(ctx context.Context, accountID string) error {
	return al.Log(ctx, AuditEvent{EventType: AuditLogin, AccountID: accountID, Success: true})
}

// LogAuthFailed logs a rejected login.
func (al *AuditLogger) LogAuthFailed(ctx context.Context, accountID, reason string) error {
	return al.Log(ctx, AuditEvent{EventType: AuditAuthFailed, AccountID: accountID, ErrorMsg: reason})
}

// LogLogout logs a logout.
func (al *AuditLogger) LogLogout(ctx context.Context, accountID string) error {
	return al.Log(ctx, AuditEvent{EventType: AuditLogout, AccountID: accountID, Success: true})
}

// LogRegister logs an account registration attempt.
func (al *AuditLogger) LogRegister(ctx context.Context, accountID string, success bool, errorMsg string) error {
	return al.Log(ctx, AuditEvent{EventType: AuditRegister, AccountID: accountID, Success: success, ErrorMsg: errorMsg})
}

// Close closes the audit logger.
func (al *AuditLogger) Close() error {
	if al == nil {
		return nil
	}
	return al.writer.Close()
}

// generateSessionID generates a unique session ID.
func generateSessionID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return fmt.Sprintf("%x", b)
}
