package store

import (
	"context"
	"testing"

	"equiverse/internal/models"
)

func TestMemoryStoreKeyValue(t *testing.T) {
	ds := NewMemoryStore()
	ctx := context.Background()

	_, found, err := ds.GetValue(ctx, KeyUserXP)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Error("missing key reported as found")
	}

	if err := ds.SetValue(ctx, KeyUserXP, "150"); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, found, err := ds.GetValue(ctx, KeyUserXP)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || value != "150" {
		t.Errorf("got %q/%v, want 150/true", value, found)
	}
}

func TestMemoryStoreSnapshotDefaults(t *testing.T) {
	ds := NewMemoryStore()
	ctx := context.Background()

	snap, err := ds.LoadSnapshot(ctx, "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.WalletBalance != models.DefaultWalletBalance {
		t.Errorf("wallet = %.2f, want %.2f", snap.WalletBalance, float64(models.DefaultWalletBalance))
	}
	if snap.Portfolio == nil || snap.Transactions == nil {
		t.Error("snapshot slices not initialized")
	}
}

func TestMemoryStoreConfiguredInitialBalance(t *testing.T) {
	ds := NewMemoryStoreWithBalance(500000)

	snap, err := ds.LoadSnapshot(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.WalletBalance != 500000 {
		t.Errorf("wallet = %.2f, want 500000", snap.WalletBalance)
	}
}

func TestMemoryStoreSnapshotRoundTrip(t *testing.T) {
	ds := NewMemoryStore()
	ctx := context.Background()

	snap := models.NewTradingSnapshot()
	snap.WalletBalance = 75000
	snap.Portfolio = append(snap.Portfolio, models.Position{
		Symbol: "TCS", Quantity: 5, BuyPrice: 3800, CurrentPrice: 3850,
	})

	if err := ds.SaveSnapshot(ctx, "tester", snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := ds.LoadSnapshot(ctx, "tester")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.WalletBalance != 75000 {
		t.Errorf("wallet = %.2f, want 75000", loaded.WalletBalance)
	}
	if len(loaded.Portfolio) != 1 || loaded.Portfolio[0].Symbol != "TCS" {
		t.Errorf("unexpected portfolio: %+v", loaded.Portfolio)
	}
}

func TestMemoryStoreSnapshotsIsolatedPerUser(t *testing.T) {
	ds := NewMemoryStore()
	ctx := context.Background()

	snap := models.NewTradingSnapshot()
	snap.WalletBalance = 1
	if err := ds.SaveSnapshot(ctx, "a", snap); err != nil {
		t.Fatalf("save: %v", err)
	}

	other, err := ds.LoadSnapshot(ctx, "b")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if other.WalletBalance != models.DefaultWalletBalance {
		t.Errorf("user b sees user a's wallet: %.2f", other.WalletBalance)
	}
}

func TestChallengeKey(t *testing.T) {
	if got := ChallengeKey("3"); got != "challenge-3" {
		t.Errorf("ChallengeKey(3) = %q", got)
	}
}
