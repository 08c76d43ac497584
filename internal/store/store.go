// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"equiverse/internal/models"
)

// Well-known keys in the flat key/value space.
const (
	KeyUserXP         = "user-xp"
	KeyTotalTrades    = "total-trades"
	KeyDailyStreak    = "daily-streak"
	KeyLastActiveDate = "last-active-date"
	KeyPurchases      = "marketplace-purchases"
	KeyPersonality    = "investor-personality"
)

// ChallengeKey returns the key marking a challenge as completed.
func ChallengeKey(id string) string {
	return "challenge-" + id
}

// DataStore defines the interface for data persistence.
// Snapshots are written wholesale: the last writer wins.
type DataStore interface {
	// Key-value space (integer strings, date strings, small JSON blobs)
	GetValue(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value string) error

	// Per-user trading snapshot
	LoadSnapshot(ctx context.Context, userID string) (*models.TradingSnapshot, error)
	SaveSnapshot(ctx context.Context, userID string, snap *models.TradingSnapshot) error

	// Per-user quiz progress blob
	LoadQuizProgress(ctx context.Context, userID string) (map[string]interface{}, error)
	SaveQuizProgress(ctx context.Context, userID string, progress map[string]interface{}) error

	// Lifecycle
	Close() error
}
