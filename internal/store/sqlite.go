// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	apperrors "drawdown-console/internal/errors"
	"drawdown-console/internal/models"
)

// SQLiteStore implements AccountStore using SQLite.
type SQLiteStore struct {
	db       *sql.DB
	mu       sync.RWMutex
	settings map[string]string
}

// NewSQLiteStore creates a new SQLite-based account store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{
		db:       db,
		settings: make(map[string]string),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Local accounts
	CREATE TABLE IF NOT EXISTS users (
		account_id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		date_of_birth TEXT NOT NULL DEFAULT '',
		password_hash BLOB NOT NULL,
		salt BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Key/value settings, including the active session
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Users
// ============================================================================

// CreateUser inserts a new account.
func (s *SQLiteStore) CreateUser(ctx context.Context, rec *UserRecord) error {
	created := rec.User.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (account_id, first_name, last_name, date_of_birth, password_hash, salt, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.User.AccountID, rec.User.FirstName, rec.User.LastName, rec.User.DateOfBirth,
		rec.PasswordHash, rec.Salt, created)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountExists, rec.User.AccountID)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a single account by id.
func (s *SQLiteStore) GetUser(ctx context.Context, accountID string) (*UserRecord, error) {
	var rec UserRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT account_id, first_name, last_name, date_of_birth, password_hash, salt, created_at
		FROM users WHERE account_id = ?
	`, accountID).Scan(&rec.User.AccountID, &rec.User.FirstName, &rec.User.LastName,
		&rec.User.DateOfBirth, &rec.PasswordHash, &rec.Salt, &rec.User.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &rec, nil
}

// ListUsers returns every account ordered by creation.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT account_id, first_name, last_name, date_of_birth, created_at
		FROM users ORDER BY created_at, account_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.AccountID, &u.FirstName, &u.LastName, &u.DateOfBirth, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ============================================================================
// Settings
// ============================================================================

func (s *SQLiteStore) getSetting(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	if v, ok := s.settings[key]; ok {
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	s.mu.Lock()
	s.settings[key] = value
	s.mu.Unlock()
	return value, nil
}

func (s *SQLiteStore) setSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
	`, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}

	s.mu.Lock()
	s.settings[key] = value
	s.mu.Unlock()
	return nil
}

func (s *SQLiteStore) deleteSetting(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}

	s.mu.Lock()
	delete(s.settings, key)
	s.mu.Unlock()
	return nil
}

// SetActiveUser records the signed-in account.
func (s *SQLiteStore) SetActiveUser(ctx context.Context, accountID string) error {
	return s.setSetting(ctx, KeyActiveUser, accountID)
}

// GetActiveUser returns the signed-in account id, or "" when none.
func (s *SQLiteStore) GetActiveUser(ctx context.Context) (string, error) {
	return s.getSetting(ctx, KeyActiveUser)
}

// ClearActiveUser signs the current account out.
func (s *SQLiteStore) ClearActiveUser(ctx context.Context) error {
	return s.deleteSetting(ctx, KeyActiveUser)
}
