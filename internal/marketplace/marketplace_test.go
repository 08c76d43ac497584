package marketplace

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	apperrors "equiverse/internal/errors"
	"equiverse/internal/gamification"
	"equiverse/internal/store"
)

func newTestShop(t *testing.T, seedXP int) (*Shop, *gamification.Manager) {
	t.Helper()
	ds := store.NewMemoryStore()
	xp := gamification.NewManager(ds, zerolog.Nop(), 100)
	if seedXP > 0 {
		if _, err := xp.Award(context.Background(), "seed", seedXP); err != nil {
			t.Fatalf("seed xp: %v", err)
		}
	}
	return NewShop(ds, xp, zerolog.Nop()), xp
}

func TestItemsCatalog(t *testing.T) {
	shop, _ := newTestShop(t, 0)

	items := shop.Items()
	if len(items) != 4 {
		t.Fatalf("got %d items, want 4", len(items))
	}

	item, ok := shop.Item("golden-badge")
	if !ok {
		t.Fatal("golden-badge missing from catalog")
	}
	if item.Cost != 2000 {
		t.Errorf("golden-badge cost = %d, want 2000", item.Cost)
	}
}

func TestPurchaseDeductsAndRecords(t *testing.T) {
	shop, xp := newTestShop(t, 6000)
	ctx := context.Background()

	item, err := shop.Purchase(ctx, "golden-badge")
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if item.ID != "golden-badge" {
		t.Errorf("unexpected item: %+v", item)
	}

	total, _ := xp.CurrentXP(ctx)
	if total != 4000 {
		t.Errorf("remaining XP = %d, want 4000", total)
	}

	purchases, err := shop.Purchases(ctx)
	if err != nil {
		t.Fatalf("purchases: %v", err)
	}
	if len(purchases) != 1 || purchases[0] != "golden-badge" {
		t.Errorf("unexpected purchase list: %v", purchases)
	}
}

func TestRepeatPurchaseAllowed(t *testing.T) {
	shop, xp := newTestShop(t, 6000)
	ctx := context.Background()

	if _, err := shop.Purchase(ctx, "mock-ipo"); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if _, err := shop.Purchase(ctx, "mock-ipo"); err != nil {
		t.Fatalf("repeat purchase: %v", err)
	}

	purchases, _ := shop.Purchases(ctx)
	if len(purchases) != 2 {
		t.Errorf("got %d purchases, want 2", len(purchases))
	}
	total, _ := xp.CurrentXP(ctx)
	if total != 3000 {
		t.Errorf("remaining XP = %d, want 3000", total)
	}
}

func TestUnaffordablePurchaseLeavesStateUntouched(t *testing.T) {
	shop, xp := newTestShop(t, 2000)
	ctx := context.Background()

	_, err := shop.Purchase(ctx, "expert-advice")
	if !apperrors.Is(err, apperrors.ErrNotAffordable) {
		t.Fatalf("expected ErrNotAffordable, got %v", err)
	}

	total, _ := xp.CurrentXP(ctx)
	if total != 2000 {
		t.Errorf("XP mutated: %d", total)
	}
	purchases, _ := shop.Purchases(ctx)
	if len(purchases) != 0 {
		t.Errorf("purchase recorded on failure: %v", purchases)
	}
}

func TestPurchaseUnknownItem(t *testing.T) {
	shop, _ := newTestShop(t, 10000)

	_, err := shop.Purchase(context.Background(), "time-machine")
	if !apperrors.Is(err, apperrors.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}
