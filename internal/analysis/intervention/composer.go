// Package intervention composes coaching interventions from bias
// findings, the behavior profile and recent trading activity.
package intervention

import (
	"strings"
	"sync"
	"time"

	"equiverse/internal/models"
)

// DefaultMaxActive caps how many interventions are kept.
const DefaultMaxActive = 5

// DefaultRecentWindow is how many of the latest trades the pattern
// rules scan.
const DefaultRecentWindow = 5

// Composer generates, de-duplicates and retires interventions.
type Composer struct {
	mu        sync.Mutex
	active    []models.Intervention
	maxActive int
	window    int
	callbacks []func(models.Intervention)

	now func() time.Time
}

// NewComposer creates a composer keeping at most maxActive interventions
// and scanning the last recentWindow trades. Non-positive arguments fall
// back to the defaults.
func NewComposer(maxActive, recentWindow int) *Composer {
	if maxActive <= 0 {
		maxActive = DefaultMaxActive
	}
	if recentWindow <= 0 {
		recentWindow = DefaultRecentWindow
	}
	return &Composer{
		maxActive: maxActive,
		window:    recentWindow,
		now:       time.Now,
	}
}

// OnIntervention registers a callback fired for every freshly generated
// intervention, including ones suppressed as duplicates.
func (c *Composer) OnIntervention(fn func(models.Intervention)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, fn)
}

// Evaluate runs all rules against the inputs, merges the new
// interventions into the active set (deduplicated by title, capped at
// the newest maxActive) and returns the freshly generated ones.
func (c *Composer) Evaluate(records []models.TradeRecord, findings []models.BiasFinding, profile *models.BehaviorProfile, marketCondition string) []models.Intervention {
	generated := []models.Intervention{}

	for _, finding := range findings {
		if finding.Strength > 50 {
			generated = append(generated, c.newIntervention(
				models.InterventionBiasDetected,
				"Cognitive Bias Detected: "+strings.Replace(string(finding.Type), "_", " ", 1),
				finding.Recommendation,
				models.SeverityHigh,
			))
		}
	}

	if profile != nil {
		if profile.Emotion == models.EmotionFear && profile.Confidence > 70 {
			generated = append(generated, c.newIntervention(
				models.InterventionEmotionAlert,
				"High Fear Detected",
				"Consider that fear often leads to missed opportunities. Review historical recovery patterns.",
				models.SeverityMedium,
			))
		}
		if profile.Emotion == models.EmotionGreed && profile.Confidence > 80 {
			generated = append(generated, c.newIntervention(
				models.InterventionRiskWarning,
				"Greed Influencing Decisions",
				"High confidence during greed phases can lead to excessive risk. Review position sizing.",
				models.SeverityHigh,
			))
		}
	}

	if len(records) > 10 {
		recent := records
		if len(recent) > c.window {
			recent = recent[len(recent)-c.window:]
		}

		highRisk := 0
		for _, r := range recent {
			if r.RiskLevel > 7 {
				highRisk++
			}
		}
		if highRisk >= 3 {
			generated = append(generated, c.newIntervention(
				models.InterventionRiskWarning,
				"High Risk Trading Pattern",
				"Multiple high-risk trades detected. Consider diversifying and reducing position sizes.",
				models.SeverityHigh,
			))
		}

		if len(recent) >= 4 {
			generated = append(generated, c.newIntervention(
				models.InterventionSuggestBreak,
				"Consider Taking a Break",
				"High trading frequency detected. Stepping away can provide perspective and reduce emotional trading.",
				models.SeverityLow,
			))
		}
	}

	if strings.Contains(marketCondition, "volatile") && len(records) > 0 {
		generated = append(generated, c.newIntervention(
			models.InterventionStrategyReminder,
			"Volatile Market Conditions",
			"Remember your risk management rules. Consider smaller position sizes and wider stops.",
			models.SeverityMedium,
		))
	}

	c.mu.Lock()
	existing := make(map[string]bool, len(c.active))
	for _, iv := range c.active {
		existing[iv.Title] = true
	}
	for _, iv := range generated {
		if !existing[iv.Title] {
			c.active = append(c.active, iv)
			existing[iv.Title] = true
		}
	}
	if len(c.active) > c.maxActive {
		c.active = c.active[len(c.active)-c.maxActive:]
	}
	callbacks := make([]func(models.Intervention), len(c.callbacks))
	copy(callbacks, c.callbacks)
	c.mu.Unlock()

	for _, fn := range callbacks {
		for _, iv := range generated {
			fn(iv)
		}
	}

	return generated
}

func (c *Composer) newIntervention(kind models.InterventionType, title, message string, severity models.Severity) models.Intervention {
	return models.Intervention{
		Type:      kind,
		Title:     title,
		Message:   message,
		Severity:  severity,
		Timestamp: c.now(),
	}
}

// Acknowledge marks the intervention with the given title as handled.
func (c *Composer) Acknowledge(title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.active {
		if c.active[i].Title == title {
			c.active[i].Acknowledged = true
		}
	}
}

// Active returns the unacknowledged interventions, oldest first.
func (c *Composer) Active() []models.Intervention {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := []models.Intervention{}
	for _, iv := range c.active {
		if !iv.Acknowledged {
			out = append(out, iv)
		}
	}
	return out
}

// All returns every kept intervention, acknowledged or not.
func (c *Composer) All() []models.Intervention {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Intervention, len(c.active))
	copy(out, c.active)
	return out
}

// ProactiveTips returns the fixed always-relevant coaching tips.
func ProactiveTips() []string {
	return []string{
		"Review your trading plan before each session",
		"Set emotional stop-losses alongside financial ones",
		"Keep a trading journal to track emotional patterns",
		"Take regular breaks to maintain perspective",
	}
}
