package store

import (
	"context"
	"encoding/json"
	"sync"

	"equiverse/internal/models"
)

// MemoryStore is an in-memory DataStore. Used in tests and as a
// throwaway profile when no database path is configured.
type MemoryStore struct {
	mu             sync.RWMutex
	kv             map[string]string
	snapshots      map[string]string
	quizzes        map[string]string
	initialBalance float64
}

// NewMemoryStore creates an empty in-memory store with the default
// starting wallet.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithBalance(models.DefaultWalletBalance)
}

// NewMemoryStoreWithBalance creates an empty in-memory store whose new
// users start at the given wallet balance.
func NewMemoryStoreWithBalance(balance float64) *MemoryStore {
	if balance <= 0 {
		balance = models.DefaultWalletBalance
	}
	return &MemoryStore{
		kv:             map[string]string{},
		snapshots:      map[string]string{},
		quizzes:        map[string]string{},
		initialBalance: balance,
	}
}

// GetValue returns the stored value for a key, with a found flag.
func (m *MemoryStore) GetValue(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, found := m.kv[key]
	return value, found, nil
}

// SetValue stores a value under a key, overwriting any existing value.
func (m *MemoryStore) SetValue(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = value
	return nil
}

// LoadSnapshot loads the trading snapshot for a user.
func (m *MemoryStore) LoadSnapshot(ctx context.Context, userID string) (*models.TradingSnapshot, error) {
	m.mu.RLock()
	data, found := m.snapshots[userID]
	m.mu.RUnlock()

	if !found {
		snap := models.NewTradingSnapshot()
		snap.WalletBalance = m.initialBalance
		return snap, nil
	}

	snap := &models.TradingSnapshot{}
	if err := json.Unmarshal([]byte(data), snap); err != nil {
		return nil, err
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
func (m *MemoryStore) SaveSnapshot(ctx context.Context, userID string, snap *models.TradingSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[userID] = string(data)
	return nil
}

// LoadQuizProgress loads the quiz-progress blob for a user.
func (m *MemoryStore) LoadQuizProgress(ctx context.Context, userID string) (map[string]interface{}, error) {
	m.mu.RLock()
	data, found := m.quizzes[userID]
	m.mu.RUnlock()

	if !found {
		return map[string]interface{}{}, nil
	}

	progress := map[string]interface{}{}
	if err := json.Unmarshal([]byte(data), &progress); err != nil {
		return nil, err
	}
	return progress, nil
}

// SaveQuizProgress overwrites the quiz-progress blob for a user wholesale.
func (m *MemoryStore) SaveQuizProgress(ctx context.Context, userID string, progress map[string]interface{}) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[userID] = string(data)
	return nil
}

// Close does nothing.
func (m *MemoryStore) Close() error {
	return nil
}

var _ DataStore = (*MemoryStore)(nil)
