package market

import (
	"math"
	"math/rand"
	"time"

	"equiverse/internal/models"
)

// MarketEvent is a simulated headline with its sentiment impact.
type MarketEvent struct {
	Event  string
	Impact float64
}

var marketEvents = []MarketEvent{
	{"📈 Strong Earnings", 2},
	{"📉 Inflation Concerns", -2},
	{"🏛️ Policy Changes", 1},
	{"🌍 Global Events", -1},
	{"💼 Corporate News", 1},
	{"🛢️ Commodity Prices", -1},
}

// MoodGenerator produces the simulated market-mood snapshot.
type MoodGenerator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewMoodGenerator creates a mood generator.
func NewMoodGenerator() *MoodGenerator {
	return &MoodGenerator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// Mood computes a sentiment snapshot from the time of day, a random
// market event and noise.
func (g *MoodGenerator) Mood() models.MarketMood {
	var score float64

	hour := g.now().Hour()
	if hour >= 9 && hour <= 15 {
		score++
	}

	event := marketEvents[g.rng.Intn(len(marketEvents))]
	score += event.Impact

	score += (g.rng.Float64() - 0.5) * 2

	var sentiment models.MarketSentiment
	var confidence float64
	switch {
	case score > 1:
		sentiment = models.SentimentBullish
		confidence = 70 + g.rng.Float64()*20
	case score < -1:
		sentiment = models.SentimentBearish
		confidence = 60 + g.rng.Float64()*25
	default:
		sentiment = models.SentimentNeutral
		confidence = 50 + g.rng.Float64()*20
	}

	return g.moodDetails(sentiment, confidence)
}

// RandomEvent returns a random simulated market event.
func (g *MoodGenerator) RandomEvent() MarketEvent {
	return marketEvents[g.rng.Intn(len(marketEvents))]
}

func (g *MoodGenerator) moodDetails(sentiment models.MarketSentiment, confidence float64) models.MarketMood {
	mood := models.MarketMood{
		Sentiment:  sentiment,
		Confidence: int(math.Round(confidence)),
	}

	switch sentiment {
	case models.SentimentBullish:
		mood.Emoji = "📈🚀"
		mood.Description = "Market is bullish with strong momentum!"
		mood.Trend = "UP"
		mood.Volatility = g.highOrMedium()
	case models.SentimentBearish:
		mood.Emoji = "📉😰"
		mood.Description = "Market is bearish with caution advised"
		mood.Trend = "DOWN"
		mood.Volatility = g.highOrMedium()
	default:
		mood.Emoji = "📊🤔"
		mood.Description = "Market is consolidating, waiting for direction"
		mood.Trend = "SIDEWAYS"
		mood.Volatility = "LOW"
	}

	return mood
}

func (g *MoodGenerator) highOrMedium() string {
	if g.rng.Float64() > 0.5 {
		return "HIGH"
	}
	return "MEDIUM"
}

// MoodCondition maps a mood to the condition keywords the emotion
// tracker and intervention rules understand.
func MoodCondition(mood models.MarketMood) string {
	switch mood.Sentiment {
	case models.SentimentBullish:
		if mood.Volatility == "HIGH" {
			return "volatile bull rally"
		}
		return "bull rally"
	case models.SentimentBearish:
		if mood.Volatility == "HIGH" {
			return "volatile crash"
		}
		return "bearish decline"
	default:
		return "stable"
	}
}
