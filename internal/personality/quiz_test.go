package personality

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"equiverse/internal/gamification"
	"equiverse/internal/models"
	"equiverse/internal/store"
)

func newTestQuiz() (*Quiz, *gamification.Manager) {
	ds := store.NewMemoryStore()
	xp := gamification.NewManager(ds, zerolog.Nop(), 100)
	return NewQuiz(ds, xp, zerolog.Nop()), xp
}

func TestCalculateDominantType(t *testing.T) {
	tests := []struct {
		name    string
		answers []int
		want    models.PersonalityType
	}{
		{"all research answers", []int{1, 1, 1}, models.PersonalityAnalytical},
		{"gut-feel answers", []int{2, 2, 2}, models.PersonalityRiskLover},
		{"panic answers", []int{0, 0, 0}, models.PersonalityImpulsive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Calculate(tt.answers)
			if err != nil {
				t.Fatalf("calculate: %v", err)
			}
			if result.Type != tt.want {
				t.Errorf("type = %s, want %s", result.Type, tt.want)
			}
		})
	}
}

func TestCalculateTieBreak(t *testing.T) {
	// RISK_LOVER, OVERTHINKER and ANALYTICAL all score 2 here; the
	// later entry in the scoring order wins.
	result, err := Calculate([]int{2, 0, 1})
	if err != nil {
		t.Fatalf("calculate: %v", err)
	}
	if result.Type != models.PersonalityAnalytical {
		t.Errorf("tie resolved to %s, want ANALYTICAL", result.Type)
	}
}

func TestCalculateValidation(t *testing.T) {
	if _, err := Calculate([]int{1}); err == nil {
		t.Error("wrong answer count: expected error")
	}
	if _, err := Calculate([]int{1, 1, 3}); err == nil {
		t.Error("option index out of range: expected error")
	}
	if _, err := Calculate([]int{1, -1, 1}); err == nil {
		t.Error("negative option index: expected error")
	}
}

func TestProfileLookup(t *testing.T) {
	result, ok := Profile(models.PersonalityCalmInvestor)
	if !ok {
		t.Fatal("CALM_INVESTOR profile missing")
	}
	if result.Badge != "🪷 Calm Investor" {
		t.Errorf("unexpected badge: %q", result.Badge)
	}

	if _, ok := Profile(models.PersonalityType("NOPE")); ok {
		t.Error("unknown type should not resolve")
	}
}

func TestCompletePersistsAndAwards(t *testing.T) {
	quiz, xp := newTestQuiz()
	ctx := context.Background()

	result, earned, err := quiz.Complete(ctx, []int{1, 1, 1})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if result.Type != models.PersonalityAnalytical {
		t.Errorf("type = %s, want ANALYTICAL", result.Type)
	}
	if earned != 150 {
		t.Errorf("earned = %d, want 150", earned)
	}

	total, _ := xp.CurrentXP(ctx)
	if total != 150 {
		t.Errorf("total XP = %d, want 150", total)
	}

	saved, err := quiz.Result(ctx)
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if saved == nil || saved.Type != models.PersonalityAnalytical {
		t.Errorf("saved result = %+v", saved)
	}
}

func TestResultBeforeTaking(t *testing.T) {
	quiz, _ := newTestQuiz()

	saved, err := quiz.Result(context.Background())
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if saved != nil {
		t.Errorf("expected nil result, got %+v", saved)
	}
}
