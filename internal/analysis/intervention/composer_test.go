package intervention

import (
	"strings"
	"testing"

	"equiverse/internal/models"
)

func strongFinding(kind models.BiasKind, strength float64) models.BiasFinding {
	return models.BiasFinding{
		Type:           kind,
		Strength:       strength,
		Impact:         models.ImpactNegative,
		Recommendation: "Review position sizing",
	}
}

func highRiskHistory(n int) []models.TradeRecord {
	records := make([]models.TradeRecord, n)
	for i := range records {
		records[i] = models.TradeRecord{RiskLevel: 9}
	}
	return records
}

func TestBiasFindingTriggersIntervention(t *testing.T) {
	composer := NewComposer(0, 0)

	generated := composer.Evaluate(nil, []models.BiasFinding{strongFinding(models.BiasLossAversion, 80)}, nil, "")
	if len(generated) != 1 {
		t.Fatalf("got %d interventions, want 1", len(generated))
	}
	iv := generated[0]
	if iv.Type != models.InterventionBiasDetected {
		t.Errorf("type = %s, want BIAS_DETECTED", iv.Type)
	}
	if iv.Title != "Cognitive Bias Detected: LOSS AVERSION" {
		t.Errorf("unexpected title: %q", iv.Title)
	}
	if iv.Severity != models.SeverityHigh {
		t.Errorf("severity = %s, want HIGH", iv.Severity)
	}
}

func TestWeakFindingIgnored(t *testing.T) {
	composer := NewComposer(0, 0)

	if generated := composer.Evaluate(nil, []models.BiasFinding{strongFinding(models.BiasRecency, 50)}, nil, ""); len(generated) != 0 {
		t.Errorf("got %d interventions for strength 50, want 0", len(generated))
	}
}

func TestFearAndGreedProfiles(t *testing.T) {
	composer := NewComposer(0, 0)

	fear := &models.BehaviorProfile{Emotion: models.EmotionFear, Confidence: 75}
	generated := composer.Evaluate(nil, nil, fear, "")
	if len(generated) != 1 || generated[0].Type != models.InterventionEmotionAlert {
		t.Fatalf("fear profile: unexpected interventions %+v", generated)
	}

	greed := &models.BehaviorProfile{Emotion: models.EmotionGreed, Confidence: 85}
	generated = composer.Evaluate(nil, nil, greed, "")
	if len(generated) != 1 || generated[0].Type != models.InterventionRiskWarning {
		t.Fatalf("greed profile: unexpected interventions %+v", generated)
	}
}

func TestGreedNeedsHighConfidence(t *testing.T) {
	composer := NewComposer(0, 0)

	greed := &models.BehaviorProfile{Emotion: models.EmotionGreed, Confidence: 80}
	if generated := composer.Evaluate(nil, nil, greed, ""); len(generated) != 0 {
		t.Errorf("greed at confidence 80 should not fire: %+v", generated)
	}
}

func TestHighRiskPatternAndBreakSuggestion(t *testing.T) {
	composer := NewComposer(0, 0)

	generated := composer.Evaluate(highRiskHistory(12), nil, nil, "")

	var hasRisk, hasBreak bool
	for _, iv := range generated {
		switch iv.Type {
		case models.InterventionRiskWarning:
			hasRisk = true
		case models.InterventionSuggestBreak:
			hasBreak = true
		}
	}
	if !hasRisk {
		t.Error("expected RISK_WARNING on a high-risk run")
	}
	if !hasBreak {
		t.Error("expected SUGGEST_BREAK on a busy run")
	}
}

func TestRecentWindowConfigurable(t *testing.T) {
	// a 3-trade window never reaches the 4-trade break threshold
	composer := NewComposer(0, 3)

	generated := composer.Evaluate(highRiskHistory(12), nil, nil, "")

	var hasRisk, hasBreak bool
	for _, iv := range generated {
		switch iv.Type {
		case models.InterventionRiskWarning:
			hasRisk = true
		case models.InterventionSuggestBreak:
			hasBreak = true
		}
	}
	if !hasRisk {
		t.Error("expected RISK_WARNING with 3 high-risk trades in the window")
	}
	if hasBreak {
		t.Error("SUGGEST_BREAK fired with a window below the frequency threshold")
	}
}

func TestVolatileMarketReminder(t *testing.T) {
	composer := NewComposer(0, 0)

	generated := composer.Evaluate([]models.TradeRecord{{RiskLevel: 2}}, nil, nil, "volatile crash")
	if len(generated) != 1 || generated[0].Type != models.InterventionStrategyReminder {
		t.Fatalf("unexpected interventions: %+v", generated)
	}
	if !strings.Contains(generated[0].Message, "risk management") {
		t.Errorf("unexpected message: %q", generated[0].Message)
	}
}

func TestDedupeByTitle(t *testing.T) {
	composer := NewComposer(0, 0)
	findings := []models.BiasFinding{strongFinding(models.BiasOverconfidence, 90)}

	composer.Evaluate(nil, findings, nil, "")
	composer.Evaluate(nil, findings, nil, "")

	if active := composer.Active(); len(active) != 1 {
		t.Errorf("duplicate titles not merged: %d active", len(active))
	}
}

func TestActiveCapKeepsNewest(t *testing.T) {
	composer := NewComposer(2, 0)

	kinds := []models.BiasKind{
		models.BiasLossAversion,
		models.BiasOverconfidence,
		models.BiasConfirmation,
	}
	for _, kind := range kinds {
		composer.Evaluate(nil, []models.BiasFinding{strongFinding(kind, 90)}, nil, "")
	}

	all := composer.All()
	if len(all) != 2 {
		t.Fatalf("kept %d interventions, want 2", len(all))
	}
	if !strings.Contains(all[1].Title, "CONFIRMATION") {
		t.Errorf("newest intervention not kept: %q", all[1].Title)
	}
}

func TestCallbackFiresPerGenerated(t *testing.T) {
	composer := NewComposer(0, 0)

	var seen []models.Intervention
	composer.OnIntervention(func(iv models.Intervention) {
		seen = append(seen, iv)
	})

	findings := []models.BiasFinding{strongFinding(models.BiasHerdMentality, 90)}
	composer.Evaluate(nil, findings, nil, "")
	// the duplicate is suppressed from the active set but still reported
	composer.Evaluate(nil, findings, nil, "")

	if len(seen) != 2 {
		t.Errorf("callback fired %d times, want 2", len(seen))
	}
}

func TestAcknowledgeRemovesFromActive(t *testing.T) {
	composer := NewComposer(0, 0)

	generated := composer.Evaluate(nil, []models.BiasFinding{strongFinding(models.BiasAnchoring, 90)}, nil, "")
	if len(generated) != 1 {
		t.Fatalf("got %d interventions, want 1", len(generated))
	}

	composer.Acknowledge(generated[0].Title)
	if active := composer.Active(); len(active) != 0 {
		t.Errorf("acknowledged intervention still active: %+v", active)
	}
	if all := composer.All(); len(all) != 1 || !all[0].Acknowledged {
		t.Errorf("acknowledged intervention missing from All: %+v", all)
	}
}

func TestProactiveTips(t *testing.T) {
	tips := ProactiveTips()
	if len(tips) != 4 {
		t.Errorf("got %d tips, want 4", len(tips))
	}
}
