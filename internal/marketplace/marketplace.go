// Package marketplace implements the XP-priced reward shop.
package marketplace

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	apperrors "equiverse/internal/errors"
	"equiverse/internal/gamification"
	"equiverse/internal/models"
	"equiverse/internal/store"
)

var catalog = []models.MarketplaceItem{
	{
		ID:          "expert-advice",
		Name:        "💬 Expert Advice Session",
		Description: "15-minute chat with investment expert",
		Cost:        5000,
		Type:        models.ItemAdvice,
		Icon:        "💬",
	},
	{
		ID:          "advanced-course",
		Name:        "🎓 Advanced Trading Course",
		Description: "Unlock premium technical analysis course",
		Cost:        3000,
		Type:        models.ItemLesson,
		Icon:        "🎓",
	},
	{
		ID:          "golden-badge",
		Name:        "⭐ Golden Investor Badge",
		Description: "Exclusive badge for your profile",
		Cost:        2000,
		Type:        models.ItemBadge,
		Icon:        "⭐",
	},
	{
		ID:          "mock-ipo",
		Name:        "📈 Mock IPO Access",
		Description: "Participate in simulated IPOs",
		Cost:        1500,
		Type:        models.ItemFeature,
		Icon:        "📈",
	},
}

// Shop sells catalog items for XP and records purchases.
type Shop struct {
	store  store.DataStore
	xp     *gamification.Manager
	logger zerolog.Logger
}

// NewShop creates a marketplace shop.
func NewShop(ds store.DataStore, xp *gamification.Manager, logger zerolog.Logger) *Shop {
	return &Shop{store: ds, xp: xp, logger: logger}
}

// Items returns the full catalog.
func (s *Shop) Items() []models.MarketplaceItem {
	out := make([]models.MarketplaceItem, len(catalog))
	copy(out, catalog)
	return out
}

// Item looks up a catalog item by ID.
func (s *Shop) Item(id string) (models.MarketplaceItem, bool) {
	for _, item := range catalog {
		if item.ID == id {
			return item, true
		}
	}
	return models.MarketplaceItem{}, false
}

// Purchase spends XP on an item and appends it to the purchase list.
// Repeat purchases of the same item are allowed.
func (s *Shop) Purchase(ctx context.Context, id string) (*models.MarketplaceItem, error) {
	item, ok := s.Item(id)
	if !ok {
		return nil, apperrors.NewPurchaseError(id, 0, 0, apperrors.ErrItemNotFound)
	}

	xp, err := s.xp.CurrentXP(ctx)
	if err != nil {
		return nil, err
	}
	if xp < item.Cost {
		return nil, apperrors.NewPurchaseError(id, item.Cost, xp, apperrors.ErrNotAffordable)
	}

	if _, err := s.xp.SpendXP(ctx, item.Cost); err != nil {
		return nil, err
	}

	purchases, err := s.Purchases(ctx)
	if err != nil {
		return nil, err
	}
	purchases = append(purchases, id)

	data, err := json.Marshal(purchases)
	if err != nil {
		return nil, apperrors.NewDataError("purchases", store.KeyPurchases, "encoding purchase list", err)
	}
	if err := s.store.SetValue(ctx, store.KeyPurchases, string(data)); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("item", id).
		Int("cost", item.Cost).
		Int("remaining_xp", xp-item.Cost).
		Msg("Marketplace purchase")

	return &item, nil
}

// Purchases returns the item IDs bought so far, oldest first.
func (s *Shop) Purchases(ctx context.Context) ([]string, error) {
	value, found, err := s.store.GetValue(ctx, store.KeyPurchases)
	if err != nil {
		return nil, err
	}
	if !found {
		return []string{}, nil
	}

	purchases := []string{}
	if err := json.Unmarshal([]byte(value), &purchases); err != nil {
		return nil, apperrors.NewDataError("purchases", store.KeyPurchases, "decoding purchase list", err)
	}
	return purchases, nil
}
