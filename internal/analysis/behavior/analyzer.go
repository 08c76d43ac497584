// Package behavior analyzes trading patterns into an emotional profile
// and a four-axis behavioral score.
package behavior

import (
	"math"

	"equiverse/internal/models"
)

// RecentWindow is how many of the latest trades the pattern analysis
// looks at.
const RecentWindow = 5

// AnalyzePattern inspects the most recent trades and returns the
// inferred emotional profile with any pattern-level biases. The market
// condition is carried through the coaching pipeline; the pattern rules
// read only the trade history.
func AnalyzePattern(records []models.TradeRecord, marketCondition string) models.BehaviorProfile {
	return AnalyzePatternWindow(records, marketCondition, RecentWindow)
}

// AnalyzePatternWindow is AnalyzePattern over the last window trades.
// A non-positive window falls back to RecentWindow.
func AnalyzePatternWindow(records []models.TradeRecord, marketCondition string, window int) models.BehaviorProfile {
	if window <= 0 {
		window = RecentWindow
	}

	recent := records
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}

	score := emotionalScore(recent)

	return models.BehaviorProfile{
		Emotion:        determineEmotion(score),
		Confidence:     math.Min(score*20, 100),
		RiskAppetite:   riskAppetite(recent),
		DetectedBiases: detectPatternBiases(recent),
	}
}

// Score computes the four-axis behavioral score over the full history.
// Each axis is 0-100; the overall score is their arithmetic mean.
func Score(records []models.TradeRecord) models.BehavioralScore {
	emotionalControl := assessEmotionalStability(records)
	decisionQuality := assessDecisionQuality(records)
	riskManagement := assessRiskManagement(records)
	consistency := assessConsistency(records)

	return models.BehavioralScore{
		EmotionalControl: emotionalControl,
		DecisionQuality:  decisionQuality,
		RiskManagement:   riskManagement,
		Consistency:      consistency,
		OverallScore:     (emotionalControl + decisionQuality + riskManagement + consistency) / 4,
	}
}

// emotionalScore measures trade-size stability: large swings between
// consecutive trade amounts pull the score toward 0.
func emotionalScore(records []models.TradeRecord) float64 {
	if len(records) == 0 {
		return 0.5
	}

	var volatility float64
	for i := 1; i < len(records); i++ {
		volatility += math.Abs(records[i].Amount - records[i-1].Amount)
	}

	return math.Max(0, 1-volatility/float64(len(records)))
}

func determineEmotion(score float64) models.Emotion {
	switch {
	case score < 0.3:
		return models.EmotionPanic
	case score < 0.5:
		return models.EmotionFear
	case score < 0.7:
		return models.EmotionCalm
	case score < 0.9:
		return models.EmotionConfidence
	default:
		return models.EmotionGreed
	}
}

func riskAppetite(records []models.TradeRecord) float64 {
	if len(records) == 0 {
		return 5
	}

	var sum float64
	for _, r := range records {
		risk := r.RiskLevel
		if risk == 0 {
			risk = 5
		}
		sum += risk
	}
	return sum / float64(len(records))
}

// detectPatternBiases flags coarse biases visible in the recent window.
// Needs at least 3 trades to say anything.
func detectPatternBiases(records []models.TradeRecord) []models.BiasKind {
	biases := []models.BiasKind{}
	if len(records) < 3 {
		return biases
	}

	losses := 0
	highRisk := 0
	for _, r := range records {
		if r.HasProfit() && r.ProfitValue() < 0 {
			losses++
		}
		if r.RiskLevel > 7 {
			highRisk++
		}
	}

	if float64(losses)/float64(len(records)) > 0.7 {
		biases = append(biases, models.BiasLossAversion)
	}
	if highRisk > len(records)/2 {
		biases = append(biases, models.BiasOverconfidence)
	}

	return biases
}

// assessEmotionalStability penalizes swings above 0.3 between
// consecutive emotion scores. Unset scores read as 0.5.
func assessEmotionalStability(records []models.TradeRecord) float64 {
	if len(records) == 0 {
		return 100
	}

	swings := 0
	for i := 1; i < len(records); i++ {
		if math.Abs(emotionValue(records[i])-emotionValue(records[i-1])) > 0.3 {
			swings++
		}
	}

	return math.Max(0, 100-float64(swings)/float64(len(records))*100)
}

func emotionValue(r models.TradeRecord) float64 {
	if r.EmotionScore == nil {
		return 0.5
	}
	return *r.EmotionScore
}

func assessDecisionQuality(records []models.TradeRecord) float64 {
	if len(records) == 0 {
		return 50
	}

	profitable := 0
	for _, r := range records {
		if r.HasProfit() && r.ProfitValue() > 0 {
			profitable++
		}
	}
	return float64(profitable) / float64(len(records)) * 100
}

// assessRiskManagement measures how often high-risk trades end in a
// loss. With no high-risk trades at all the axis defaults to 80.
func assessRiskManagement(records []models.TradeRecord) float64 {
	highRisk := 0
	highRiskLosses := 0
	for _, r := range records {
		if r.RiskLevel > 7 {
			highRisk++
			if r.HasProfit() && r.ProfitValue() < 0 {
				highRiskLosses++
			}
		}
	}

	if highRisk == 0 {
		return 80
	}
	return math.Max(0, 100-float64(highRiskLosses)/float64(highRisk)*100)
}

// assessConsistency penalizes return variance. Fewer than 3 trades is
// not enough signal and scores a neutral 50.
func assessConsistency(records []models.TradeRecord) float64 {
	if len(records) < 3 {
		return 50
	}

	var sum float64
	for _, r := range records {
		sum += r.ProfitValue()
	}
	mean := sum / float64(len(records))

	var variance float64
	for _, r := range records {
		diff := r.ProfitValue() - mean
		variance += diff * diff
	}
	variance /= float64(len(records))

	return math.Max(0, 100-math.Sqrt(variance)*10)
}
