// Package emotion infers and tracks the user's affective state from
// market conditions, actions and optional physiological signals.
package emotion

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"equiverse/internal/models"
)

// DefaultHistoryCap is how many samples the tracker keeps.
const DefaultHistoryCap = 100

// trendWindow is how many of the latest samples the trend looks at.
const trendWindow = 5

// Tracker keeps a bounded in-memory history of emotion samples.
type Tracker struct {
	mu      sync.Mutex
	history []models.EmotionSample
	cap     int

	now func() time.Time
}

// NewTracker creates a tracker with the given history capacity.
func NewTracker(historyCap int) *Tracker {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	return &Tracker{
		cap: historyCap,
		now: time.Now,
	}
}

// Track infers an emotion sample from the inputs, appends it to the
// history and returns it. Oldest samples are dropped past the cap.
func (t *Tracker) Track(marketCondition, userAction string, physiology *models.Physiology) models.EmotionSample {
	sample := t.analyze(marketCondition, userAction, physiology)
	t.Record(sample)
	return sample
}

// Record appends an already-built sample, dropping the oldest past the
// cap. External signal sources feed samples in through here.
func (t *Tracker) Record(sample models.EmotionSample) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = append(t.history, sample)
	if len(t.history) > t.cap {
		t.history = t.history[len(t.history)-t.cap:]
	}
}

func (t *Tracker) analyze(marketCondition, userAction string, physiology *models.Physiology) models.EmotionSample {
	emotion := models.EmotionConfidence
	intensity := 50.0
	triggers := []string{}

	condition := strings.ToLower(marketCondition)
	action := strings.ToLower(userAction)

	if strings.Contains(condition, "volatile") || strings.Contains(condition, "crash") {
		emotion = models.EmotionFear
		intensity += 30
		triggers = append(triggers, "Market volatility")
	} else if strings.Contains(condition, "bull") || strings.Contains(condition, "rally") {
		emotion = models.EmotionExcitement
		intensity += 20
		triggers = append(triggers, "Market uptrend")
	}

	if strings.Contains(action, "sell") || strings.Contains(action, "exit") {
		if strings.Contains(action, "panic") {
			emotion = models.EmotionFear
			intensity += 40
		} else {
			emotion = models.EmotionConfidence
			intensity += 10
		}
		triggers = append(triggers, "Selling pressure")
	} else if strings.Contains(action, "buy") || strings.Contains(action, "enter") {
		if strings.Contains(action, "aggressive") {
			emotion = models.EmotionGreed
			intensity += 35
		} else {
			emotion = models.EmotionConfidence
			intensity += 15
		}
		triggers = append(triggers, "Buying activity")
	}

	var signs *models.Physiology
	if physiology != nil {
		observed := models.Physiology{}
		if physiology.HeartRate > 90 {
			intensity += 20
			observed.HeartRate = physiology.HeartRate
			triggers = append(triggers, "Elevated heart rate")
		}
		if physiology.StressLevel > 70 {
			intensity += 25
			observed.StressLevel = physiology.StressLevel
			triggers = append(triggers, "High stress detected")
		}
		if observed != (models.Physiology{}) {
			signs = &observed
		}
	}

	intensity = math.Min(100, math.Max(0, intensity))

	return models.EmotionSample{
		Type:       emotion,
		Intensity:  intensity,
		Triggers:   triggers,
		Timestamp:  t.now(),
		Physiology: signs,
	}
}

// Current returns the latest sample, or nil when nothing was tracked.
func (t *Tracker) Current() *models.EmotionSample {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.history) == 0 {
		return nil
	}
	sample := t.history[len(t.history)-1]
	return &sample
}

// Trend classifies the recent emotional direction from the share of
// positive samples in the trend window. Fewer than 3 samples is not
// enough signal and reads as stable at 50.
func (t *Tracker) Trend() (models.EmotionTrend, float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.history) < 3 {
		return models.TrendStable, 50
	}

	recent := t.history
	if len(recent) > trendWindow {
		recent = recent[len(recent)-trendWindow:]
	}

	positive := 0
	for _, sample := range recent {
		if sample.Type == models.EmotionConfidence || sample.Type == models.EmotionExcitement {
			positive++
		}
	}

	score := float64(positive) / float64(len(recent)) * 100

	switch {
	case score > 70:
		return models.TrendImproving, score
	case score < 30:
		return models.TrendDeteriorating, score
	default:
		return models.TrendStable, score
	}
}

// ShouldIntervene reports whether the current state warrants a coaching
// intervention: intense fear or greed, or a wide intensity spread over
// the last 3 samples.
func (t *Tracker) ShouldIntervene() (bool, string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.history) == 0 {
		return false, ""
	}

	current := t.history[len(t.history)-1]
	if (current.Type == models.EmotionFear || current.Type == models.EmotionGreed) && current.Intensity > 70 {
		return true, fmt.Sprintf("High %s detected with %.0f%% intensity",
			strings.ToLower(string(current.Type)), current.Intensity)
	}

	if len(t.history) >= 3 {
		recent := t.history[len(t.history)-3:]
		minIntensity, maxIntensity := recent[0].Intensity, recent[0].Intensity
		for _, sample := range recent[1:] {
			minIntensity = math.Min(minIntensity, sample.Intensity)
			maxIntensity = math.Max(maxIntensity, sample.Intensity)
		}
		if maxIntensity-minIntensity > 50 {
			return true, "Rapid emotional changes detected"
		}
	}

	return false, ""
}

// History returns a copy of the tracked samples, oldest first.
func (t *Tracker) History() []models.EmotionSample {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.EmotionSample, len(t.history))
	copy(out, t.history)
	return out
}

// Clear discards all tracked samples.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = nil
}
