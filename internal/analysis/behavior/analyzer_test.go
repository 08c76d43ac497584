package behavior

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"equiverse/internal/models"
)

func profitPtr(v float64) *float64 {
	return &v
}

func TestAnalyzePatternEmptyHistory(t *testing.T) {
	profile := AnalyzePattern(nil, "")

	if profile.Emotion != models.EmotionCalm {
		t.Errorf("emotion = %s, want CALM", profile.Emotion)
	}
	if profile.Confidence != 10 {
		t.Errorf("confidence = %.2f, want 10", profile.Confidence)
	}
	if profile.RiskAppetite != 5 {
		t.Errorf("risk appetite = %.2f, want 5", profile.RiskAppetite)
	}
	if len(profile.DetectedBiases) != 0 {
		t.Errorf("unexpected biases: %v", profile.DetectedBiases)
	}
}

func TestAnalyzePatternStableAmounts(t *testing.T) {
	// identical amounts: zero volatility, emotional score 1.0 -> GREED
	records := []models.TradeRecord{
		{Amount: 1000, RiskLevel: 5},
		{Amount: 1000, RiskLevel: 5},
		{Amount: 1000, RiskLevel: 5},
	}

	profile := AnalyzePattern(records, "")
	if profile.Emotion != models.EmotionGreed {
		t.Errorf("emotion = %s, want GREED", profile.Emotion)
	}
	if profile.Confidence != 20 {
		t.Errorf("confidence = %.2f, want 20", profile.Confidence)
	}
}

func TestPatternBiasesNeedThreeTrades(t *testing.T) {
	records := []models.TradeRecord{
		{Amount: 100, RiskLevel: 9, Profit: profitPtr(-10)},
		{Amount: 100, RiskLevel: 9, Profit: profitPtr(-10)},
	}

	profile := AnalyzePattern(records, "")
	if len(profile.DetectedBiases) != 0 {
		t.Errorf("biases flagged on 2 trades: %v", profile.DetectedBiases)
	}
}

func TestPatternBiasDetection(t *testing.T) {
	records := []models.TradeRecord{
		{Amount: 100, RiskLevel: 9, Profit: profitPtr(-10)},
		{Amount: 100, RiskLevel: 9, Profit: profitPtr(-10)},
		{Amount: 100, RiskLevel: 9, Profit: profitPtr(-10)},
		{Amount: 100, RiskLevel: 9, Profit: profitPtr(-10)},
	}

	profile := AnalyzePattern(records, "")

	hasLossAversion, hasOverconfidence := false, false
	for _, kind := range profile.DetectedBiases {
		switch kind {
		case models.BiasLossAversion:
			hasLossAversion = true
		case models.BiasOverconfidence:
			hasOverconfidence = true
		}
	}
	if !hasLossAversion {
		t.Error("expected LOSS_AVERSION on all-loss window")
	}
	if !hasOverconfidence {
		t.Error("expected OVERCONFIDENCE on all-high-risk window")
	}
}

func TestAnalyzePatternWindowBoundsRun(t *testing.T) {
	// 3 risky trades followed by 5 calm ones: the default window sees
	// only the calm tail, a wider window sees both
	records := []models.TradeRecord{
		{Amount: 1000, RiskLevel: 9},
		{Amount: 1000, RiskLevel: 9},
		{Amount: 1000, RiskLevel: 9},
		{Amount: 1000, RiskLevel: 1},
		{Amount: 1000, RiskLevel: 1},
		{Amount: 1000, RiskLevel: 1},
		{Amount: 1000, RiskLevel: 1},
		{Amount: 1000, RiskLevel: 1},
	}

	if got := AnalyzePattern(records, "").RiskAppetite; got != 1 {
		t.Errorf("default window risk appetite = %.2f, want 1", got)
	}
	// (9*3 + 1*5) / 8 = 4
	if got := AnalyzePatternWindow(records, "", len(records)).RiskAppetite; got != 4 {
		t.Errorf("full window risk appetite = %.2f, want 4", got)
	}
	// non-positive window falls back to the default
	if got := AnalyzePatternWindow(records, "", 0).RiskAppetite; got != 1 {
		t.Errorf("zero window risk appetite = %.2f, want 1", got)
	}
}

func TestScoreEmptyHistory(t *testing.T) {
	score := Score(nil)

	if score.EmotionalControl != 100 {
		t.Errorf("emotional control = %.2f, want 100", score.EmotionalControl)
	}
	if score.DecisionQuality != 50 {
		t.Errorf("decision quality = %.2f, want 50", score.DecisionQuality)
	}
	if score.RiskManagement != 80 {
		t.Errorf("risk management = %.2f, want 80", score.RiskManagement)
	}
	if score.Consistency != 50 {
		t.Errorf("consistency = %.2f, want 50", score.Consistency)
	}
}

func TestScoreFiveHighRiskLosses(t *testing.T) {
	records := make([]models.TradeRecord, 5)
	for i := range records {
		records[i] = models.TradeRecord{
			Amount:    10000,
			RiskLevel: 9,
			Profit:    profitPtr(-500),
		}
	}

	score := Score(records)

	if score.DecisionQuality != 0 {
		t.Errorf("decision quality = %.2f, want 0", score.DecisionQuality)
	}
	if score.RiskManagement != 0 {
		t.Errorf("risk management = %.2f, want 0", score.RiskManagement)
	}
	if score.OverallScore >= 50 {
		t.Errorf("overall = %.2f, want < 50", score.OverallScore)
	}
}

func TestScoreEmotionalControlInertDefault(t *testing.T) {
	// unannotated records all read as 0.5, so no swings register
	records := []models.TradeRecord{
		{Amount: 100, Profit: profitPtr(10)},
		{Amount: 5000, Profit: profitPtr(-10)},
		{Amount: 200, Profit: profitPtr(10)},
	}
	if got := Score(records).EmotionalControl; got != 100 {
		t.Errorf("emotional control = %.2f, want 100", got)
	}
}

func TestScoreEmotionalControlPenalizesSwings(t *testing.T) {
	low, high := 0.1, 0.9
	records := []models.TradeRecord{
		{Amount: 100, EmotionScore: &low},
		{Amount: 100, EmotionScore: &high},
		{Amount: 100, EmotionScore: &low},
		{Amount: 100, EmotionScore: &high},
	}
	// 3 swings over 4 records: 100 - 3/4*100 = 25
	if got := Score(records).EmotionalControl; got != 25 {
		t.Errorf("emotional control = %.2f, want 25", got)
	}
}

func TestConsistencyNeutralUnderThreeTrades(t *testing.T) {
	records := []models.TradeRecord{
		{Amount: 100, Profit: profitPtr(1000)},
		{Amount: 100, Profit: profitPtr(-1000)},
	}
	if got := Score(records).Consistency; got != 50 {
		t.Errorf("consistency = %.2f, want 50", got)
	}
}

func recordGen() gopter.Gen {
	return gen.Float64Range(-5000, 5000).FlatMap(func(v interface{}) gopter.Gen {
		profit := v.(float64)
		return gen.Float64Range(0, 10).Map(func(risk float64) models.TradeRecord {
			return models.TradeRecord{
				Amount:    1000,
				RiskLevel: risk,
				Profit:    profitPtr(profit),
			}
		})
	}, nil)
}

// Property: all score axes and the overall score stay in [0, 100], and
// the overall score is the mean of the four axes.
func TestScoreBoundsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	inRange := func(v float64) bool { return v >= 0 && v <= 100 }

	properties.Property("axes bounded and overall is the mean", prop.ForAll(
		func(records []models.TradeRecord) bool {
			score := Score(records)
			if !inRange(score.EmotionalControl) || !inRange(score.DecisionQuality) ||
				!inRange(score.RiskManagement) || !inRange(score.Consistency) ||
				!inRange(score.OverallScore) {
				return false
			}
			mean := (score.EmotionalControl + score.DecisionQuality +
				score.RiskManagement + score.Consistency) / 4
			return score.OverallScore == mean
		},
		gen.SliceOf(recordGen()),
	))

	properties.TestingRun(t)
}
