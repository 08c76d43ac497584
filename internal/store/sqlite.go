// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"equiverse/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db             *sql.DB
	initialBalance float64
}

// NewSQLiteStore creates a new SQLite-based data store. New users start
// with the given wallet balance; non-positive falls back to the default.
func NewSQLiteStore(dbPath string, initialBalance float64) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if initialBalance <= 0 {
		initialBalance = models.DefaultWalletBalance
	}
	store := &SQLiteStore{db: db, initialBalance: initialBalance}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Flat key/value space (XP counter, streaks, challenge marks, JSON blobs)
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Per-user wholesale snapshots (trading data, quiz progress)
	CREATE TABLE IF NOT EXISTS snapshots (
		user_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, kind)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// GetValue returns the stored value for a key, with a found flag.
func (s *SQLiteStore) GetValue(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading key %s: %w", key, err)
	}
	return value, true, nil
}

// SetValue stores a value under a key, overwriting any existing value.
func (s *SQLiteStore) SetValue(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	return nil
}

const (
	snapshotTrading = "trading_data"
	snapshotQuiz    = "quiz_progress"
)

// LoadSnapshot loads the trading snapshot for a user.
// Returns the default snapshot when none has been saved.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context, userID string) (*models.TradingSnapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM snapshots WHERE user_id = ? AND kind = ?",
		userID, snapshotTrading).Scan(&data)
	if err == sql.ErrNoRows {
		snap := models.NewTradingSnapshot()
		snap.WalletBalance = s.initialBalance
		return snap, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot for %s: %w", userID, err)
	}

	snap := &models.TradingSnapshot{}
	if err := json.Unmarshal([]byte(data), snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot for %s: %w", userID, err)
	}
	if snap.Portfolio == nil {
		snap.Portfolio = []models.Position{}
	}
	if snap.Transactions == nil {
		snap.Transactions = []models.Transaction{}
	}
	return snap, nil
}

// SaveSnapshot overwrites the trading snapshot for a user wholesale.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, userID string, snap *models.TradingSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot for %s: %w", userID, err)
	}
	return s.saveBlob(ctx, userID, snapshotTrading, data)
}

// LoadQuizProgress loads the quiz-progress blob for a user.
func (s *SQLiteStore) LoadQuizProgress(ctx context.Context, userID string) (map[string]interface{}, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM snapshots WHERE user_id = ? AND kind = ?",
		userID, snapshotQuiz).Scan(&data)
	if err == sql.ErrNoRows {
		return map[string]interface{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading quiz progress for %s: %w", userID, err)
	}

	progress := map[string]interface{}{}
	if err := json.Unmarshal([]byte(data), &progress); err != nil {
		return nil, fmt.Errorf("decoding quiz progress for %s: %w", userID, err)
	}
	return progress, nil
}

// SaveQuizProgress overwrites the quiz-progress blob for a user wholesale.
func (s *SQLiteStore) SaveQuizProgress(ctx context.Context, userID string, progress map[string]interface{}) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("encoding quiz progress for %s: %w", userID, err)
	}
	return s.saveBlob(ctx, userID, snapshotQuiz, data)
}

func (s *SQLiteStore) saveBlob(ctx context.Context, userID, kind string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (user_id, kind, data, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, kind) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		userID, kind, string(data))
	if err != nil {
		return fmt.Errorf("writing %s for %s: %w", kind, userID, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteStore implements DataStore
var _ DataStore = (*SQLiteStore)(nil)
