// Package bias detects cognitive-bias patterns in trade history and
// session behavior.
package bias

import (
	"math"
	"sort"

	"equiverse/internal/models"
)

// Detection thresholds: a bias is reported only when its raw score
// clears the bar for that bias.
const (
	lossAversionThreshold   = 30
	overconfidenceThreshold = 40
	confirmationThreshold   = 35
	recencyThreshold        = 25
	herdMentalityThreshold  = 45
)

// Detect runs all detectors over the trade history and session profile
// and returns the findings sorted by descending strength.
func Detect(records []models.TradeRecord, profile models.BehaviorProfile) []models.BiasFinding {
	findings := []models.BiasFinding{}

	if score := detectLossAversion(records); score > lossAversionThreshold {
		findings = append(findings, models.BiasFinding{
			Type:           models.BiasLossAversion,
			Strength:       score,
			Description:    "Fear of losses outweighing desire for gains",
			Impact:         models.ImpactNegative,
			Recommendation: "Focus on long-term strategy rather than short-term fluctuations",
		})
	}

	if score := detectOverconfidence(records, profile); score > overconfidenceThreshold {
		findings = append(findings, models.BiasFinding{
			Type:           models.BiasOverconfidence,
			Strength:       score,
			Description:    "Overestimating knowledge or predictive ability",
			Impact:         models.ImpactNegative,
			Recommendation: "Review past mistakes and consider more conservative positions",
		})
	}

	if score := detectConfirmationBias(profile); score > confirmationThreshold {
		findings = append(findings, models.BiasFinding{
			Type:           models.BiasConfirmation,
			Strength:       score,
			Description:    "Seeking information that confirms existing beliefs",
			Impact:         models.ImpactNegative,
			Recommendation: "Actively seek contradictory evidence before making decisions",
		})
	}

	if score := detectRecencyBias(records); score > recencyThreshold {
		findings = append(findings, models.BiasFinding{
			Type:           models.BiasRecency,
			Strength:       score,
			Description:    "Giving more weight to recent events",
			Impact:         models.ImpactNegative,
			Recommendation: "Consider historical patterns and long-term trends",
		})
	}

	if score := detectHerdMentality(profile); score > herdMentalityThreshold {
		findings = append(findings, models.BiasFinding{
			Type:           models.BiasHerdMentality,
			Strength:       score,
			Description:    "Following crowd behavior without independent analysis",
			Impact:         models.ImpactNegative,
			Recommendation: "Make decisions based on research, not popularity",
		})
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Strength > findings[j].Strength
	})
	return findings
}

// detectLossAversion compares how long losing positions are held
// against winners. Needs at least 5 trades and both a winner and a
// loser to say anything.
func detectLossAversion(records []models.TradeRecord) float64 {
	if len(records) < 5 {
		return 0
	}

	var lossDuration, winDuration float64
	losses, wins := 0, 0
	for _, r := range records {
		period := r.HoldingPeriod
		if period == 0 {
			period = 1
		}
		switch {
		case r.HasProfit() && r.ProfitValue() < 0:
			lossDuration += period
			losses++
		case r.HasProfit() && r.ProfitValue() > 0:
			winDuration += period
			wins++
		}
	}
	if losses == 0 || wins == 0 {
		return 0
	}

	avgLoss := lossDuration / float64(losses)
	avgWin := winDuration / float64(wins)

	if avgLoss > avgWin*2 {
		return math.Min(100, avgLoss/avgWin*25)
	}
	return 0
}

// detectOverconfidence scores trade frequency, oversized positions and
// missing stop losses.
func detectOverconfidence(records []models.TradeRecord, profile models.BehaviorProfile) float64 {
	var score float64

	if len(records) > 20 {
		score += math.Min(30, float64(len(records))/2)
	}

	if profile.PositionSize > 0.3 {
		score += 40
	}

	if len(records) > 0 {
		withoutStops := 0
		for _, r := range records {
			if !r.StopLoss {
				withoutStops++
			}
		}
		if float64(withoutStops)/float64(len(records)) > 0.7 {
			score += 30
		}
	}

	return math.Min(100, score)
}

func detectConfirmationBias(profile models.BehaviorProfile) float64 {
	var score float64

	if profile.ResearchSources > 0 && profile.ResearchSources < 3 {
		score += 25
	}
	if profile.IgnoredWarnings > 2 {
		score += 35
	}
	if profile.PositionChecks > 10 {
		score += 20
	}

	return math.Min(100, score)
}

// detectRecencyBias compares activity in the last 5 trades against the
// full count of older trades.
func detectRecencyBias(records []models.TradeRecord) float64 {
	if len(records) < 10 {
		return 0
	}

	recent := float64(5)
	older := float64(len(records) - 5)

	if recent > older*3 {
		return math.Min(100, recent/older*20)
	}
	return 0
}

func detectHerdMentality(profile models.BehaviorProfile) float64 {
	var score float64

	if profile.PopularStocksRatio > 0.8 {
		score += 40
	}
	if profile.SocialMediaInfluence > 5 {
		score += 35
	}
	if profile.FOMOTrades > 2 {
		score += 25
	}

	return math.Min(100, score)
}

var mitigationStrategies = map[models.BiasKind][]string{
	models.BiasLossAversion: {
		"Set predetermined stop-loss levels",
		"Focus on overall portfolio performance",
		"Review historical recovery patterns",
	},
	models.BiasOverconfidence: {
		"Maintain trading journal with mistakes",
		"Set position size limits",
		"Regularly review worst-case scenarios",
	},
	models.BiasConfirmation: {
		"Seek contradictory evidence actively",
		"Assign a \"devil's advocate\" role",
		"Use checklist with opposing viewpoints",
	},
	models.BiasRecency: {
		"Review longer-term charts and data",
		"Consider mean reversion probabilities",
		"Analyze full market cycles",
	},
	models.BiasHerdMentality: {
		"Develop independent research process",
		"Avoid investment forums during decision making",
		"Set criteria-based entry/exit rules",
	},
	models.BiasAnchoring: {
		"Use multiple valuation methods",
		"Regularly update price targets",
		"Ignore purchase price in current decisions",
	},
	models.BiasSunkCostFallacy: {
		"Evaluate positions as if new money",
		"Set time-based review points",
		"Focus on future potential only",
	},
}

// MitigationStrategies returns the fixed mitigation advice for a bias.
func MitigationStrategies(kind models.BiasKind) []string {
	if strategies, ok := mitigationStrategies[kind]; ok {
		return strategies
	}
	return []string{"Maintain disciplined approach and regular review"}
}
