package bias

import (
	"testing"

	"equiverse/internal/models"
)

func profitPtr(v float64) *float64 {
	return &v
}

// losers held ten days, winners flipped in one
func lossAversionRecords() []models.TradeRecord {
	return []models.TradeRecord{
		{Profit: profitPtr(-100), HoldingPeriod: 10, StopLoss: true},
		{Profit: profitPtr(-200), HoldingPeriod: 10, StopLoss: true},
		{Profit: profitPtr(-50), HoldingPeriod: 10, StopLoss: true},
		{Profit: profitPtr(100), HoldingPeriod: 1, StopLoss: true},
		{Profit: profitPtr(150), HoldingPeriod: 1, StopLoss: true},
	}
}

func findBias(findings []models.BiasFinding, kind models.BiasKind) *models.BiasFinding {
	for i := range findings {
		if findings[i].Type == kind {
			return &findings[i]
		}
	}
	return nil
}

func TestDetectLossAversion(t *testing.T) {
	findings := Detect(lossAversionRecords(), models.BehaviorProfile{})

	finding := findBias(findings, models.BiasLossAversion)
	if finding == nil {
		t.Fatal("expected LOSS_AVERSION finding")
	}
	if finding.Strength <= lossAversionThreshold {
		t.Errorf("strength = %.2f, want > %d", finding.Strength, lossAversionThreshold)
	}
	if finding.Impact != models.ImpactNegative {
		t.Errorf("impact = %s, want NEGATIVE", finding.Impact)
	}
}

func TestLossAversionNeedsWinnersAndLosers(t *testing.T) {
	records := []models.TradeRecord{
		{Profit: profitPtr(-100), HoldingPeriod: 10},
		{Profit: profitPtr(-200), HoldingPeriod: 10},
		{Profit: profitPtr(-50), HoldingPeriod: 10},
		{Profit: profitPtr(-75), HoldingPeriod: 10},
		{Profit: profitPtr(-25), HoldingPeriod: 10},
	}

	if findings := Detect(records, models.BehaviorProfile{}); findBias(findings, models.BiasLossAversion) != nil {
		t.Error("LOSS_AVERSION flagged without any winners")
	}
}

func TestLossAversionNeedsFiveTrades(t *testing.T) {
	records := lossAversionRecords()[:4]
	if findings := Detect(records, models.BehaviorProfile{}); findBias(findings, models.BiasLossAversion) != nil {
		t.Error("LOSS_AVERSION flagged under 5 trades")
	}
}

func TestDetectOverconfidence(t *testing.T) {
	records := []models.TradeRecord{
		{StopLoss: false},
		{StopLoss: false},
		{StopLoss: false},
	}
	profile := models.BehaviorProfile{PositionSize: 0.5}

	findings := Detect(records, profile)
	finding := findBias(findings, models.BiasOverconfidence)
	if finding == nil {
		t.Fatal("expected OVERCONFIDENCE finding")
	}
	// oversized positions (40) + no stop losses (30)
	if finding.Strength != 70 {
		t.Errorf("strength = %.2f, want 70", finding.Strength)
	}
}

func TestNoOverconfidenceUnderThresholds(t *testing.T) {
	records := []models.TradeRecord{
		{StopLoss: true},
		{StopLoss: true},
		{StopLoss: true},
	}
	profile := models.BehaviorProfile{PositionSize: 0.1}

	if findings := Detect(records, profile); findBias(findings, models.BiasOverconfidence) != nil {
		t.Error("OVERCONFIDENCE flagged with stops set and small positions")
	}
}

func TestDetectConfirmationBias(t *testing.T) {
	profile := models.BehaviorProfile{
		ResearchSources: 1,
		IgnoredWarnings: 3,
	}

	findings := Detect(nil, profile)
	finding := findBias(findings, models.BiasConfirmation)
	if finding == nil {
		t.Fatal("expected CONFIRMATION_BIAS finding")
	}
	// narrow research (25) + ignored warnings (35)
	if finding.Strength != 60 {
		t.Errorf("strength = %.2f, want 60", finding.Strength)
	}
}

func TestConfirmationBiasIgnoresUnreportedResearch(t *testing.T) {
	// a zero research count reads as "not observed", not "no research"
	profile := models.BehaviorProfile{IgnoredWarnings: 3}

	if findings := Detect(nil, profile); findBias(findings, models.BiasConfirmation) != nil {
		t.Error("CONFIRMATION_BIAS flagged without an observed research count")
	}
}

func TestDetectHerdMentality(t *testing.T) {
	profile := models.BehaviorProfile{
		PopularStocksRatio:   0.9,
		SocialMediaInfluence: 6,
		FOMOTrades:           3,
	}

	findings := Detect(nil, profile)
	finding := findBias(findings, models.BiasHerdMentality)
	if finding == nil {
		t.Fatal("expected HERD_MENTALITY finding")
	}
	if finding.Strength != 100 {
		t.Errorf("strength = %.2f, want 100", finding.Strength)
	}
}

func TestRecencyBiasRequiresSkewedWindow(t *testing.T) {
	records := make([]models.TradeRecord, 12)
	for i := range records {
		records[i] = models.TradeRecord{Profit: profitPtr(10), HoldingPeriod: 1}
	}

	if findings := Detect(records, models.BehaviorProfile{}); findBias(findings, models.BiasRecency) != nil {
		t.Error("RECENCY_BIAS flagged on an evenly spread history")
	}
}

func TestFindingsSortedByStrength(t *testing.T) {
	profile := models.BehaviorProfile{
		PositionSize:         0.5,
		PopularStocksRatio:   0.9,
		SocialMediaInfluence: 6,
		FOMOTrades:           3,
	}
	records := []models.TradeRecord{
		{StopLoss: false},
		{StopLoss: false},
		{StopLoss: false},
	}

	findings := Detect(records, profile)
	if len(findings) < 2 {
		t.Fatalf("got %d findings, want at least 2", len(findings))
	}
	for i := 1; i < len(findings); i++ {
		if findings[i].Strength > findings[i-1].Strength {
			t.Errorf("findings not sorted: %.2f before %.2f", findings[i-1].Strength, findings[i].Strength)
		}
	}
}

func TestMitigationStrategies(t *testing.T) {
	kinds := []models.BiasKind{
		models.BiasLossAversion,
		models.BiasOverconfidence,
		models.BiasConfirmation,
		models.BiasRecency,
		models.BiasHerdMentality,
		models.BiasAnchoring,
		models.BiasSunkCostFallacy,
	}
	for _, kind := range kinds {
		if got := MitigationStrategies(kind); len(got) != 3 {
			t.Errorf("MitigationStrategies(%s) returned %d strategies, want 3", kind, len(got))
		}
	}

	generic := MitigationStrategies(models.BiasKind("UNKNOWN"))
	if len(generic) != 1 || generic[0] != "Maintain disciplined approach and regular review" {
		t.Errorf("unexpected generic fallback: %v", generic)
	}
}
