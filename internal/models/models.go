// Package models provides domain models for the virtual trading application.
package models

import (
	"time"
)

// TradeAction represents the side of a trade.
type TradeAction string

const (
	TradeActionBuy  TradeAction = "BUY"
	TradeActionSell TradeAction = "SELL"
)

// TradeRecord is a single entry in the trade history consumed by the
// behavioral analyzers. Immutable once appended.
type TradeRecord struct {
	Symbol        string
	Action        TradeAction
	Amount        float64
	Profit        *float64 // nil when unrealized (open BUY)
	RiskLevel     float64  // 0-10
	HoldingPeriod float64  // periods held
	StopLoss      bool
	EmotionScore  *float64 // optional; no producer populates this today
	Timestamp     time.Time
}

// HasProfit reports whether the trade carries a realized profit value.
func (t TradeRecord) HasProfit() bool {
	return t.Profit != nil
}

// ProfitValue returns the realized profit, or 0 when absent.
func (t TradeRecord) ProfitValue() float64 {
	if t.Profit == nil {
		return 0
	}
	return *t.Profit
}

// Position represents a held portfolio position.
// BuyPrice is the volume-weighted average cost across all buys.
type Position struct {
	Symbol       string  `json:"symbol"`
	Quantity     int     `json:"quantity"`
	BuyPrice     float64 `json:"buyPrice"`
	CurrentPrice float64 `json:"currentPrice"`
}

// PnL returns the unrealized profit/loss of the position.
func (p Position) PnL() float64 {
	return (p.CurrentPrice - p.BuyPrice) * float64(p.Quantity)
}

// PnLPercent returns the unrealized profit/loss as a percentage of cost.
func (p Position) PnLPercent() float64 {
	if p.BuyPrice == 0 {
		return 0
	}
	return (p.CurrentPrice - p.BuyPrice) / p.BuyPrice * 100
}

// Transaction is an append-only record of an executed trade.
type Transaction struct {
	ID        string      `json:"id"`
	Type      TradeAction `json:"type"`
	Symbol    string      `json:"symbol"`
	Quantity  int         `json:"quantity"`
	Price     float64     `json:"price"`
	Total     float64     `json:"total"`
	Profit    *float64    `json:"profit,omitempty"` // realized, SELL only
	Timestamp time.Time   `json:"timestamp"`
}

// TradingSnapshot is the wholesale-persisted trading state for one user.
type TradingSnapshot struct {
	WalletBalance float64       `json:"walletBalance"`
	Portfolio     []Position    `json:"portfolio"`
	Transactions  []Transaction `json:"transactions"` // newest first
}

// DefaultWalletBalance is the starting virtual wallet for new users.
const DefaultWalletBalance = 100000

// NewTradingSnapshot returns the default snapshot for a new user.
func NewTradingSnapshot() *TradingSnapshot {
	return &TradingSnapshot{
		WalletBalance: DefaultWalletBalance,
		Portfolio:     []Position{},
		Transactions:  []Transaction{},
	}
}

// Emotion represents an inferred emotional state.
type Emotion string

const (
	EmotionFear       Emotion = "FEAR"
	EmotionGreed      Emotion = "GREED"
	EmotionConfidence Emotion = "CONFIDENCE"
	EmotionAnxiety    Emotion = "ANXIETY"
	EmotionExcitement Emotion = "EXCITEMENT"
	EmotionPanic      Emotion = "PANIC"
	EmotionCalm       Emotion = "CALM"
)

// Physiology holds optional physiological signals for emotion inference.
type Physiology struct {
	HeartRate   float64 `json:"heartRate,omitempty"`
	StressLevel float64 `json:"stressLevel,omitempty"`
}

// EmotionSample is one timestamped inference of the user's affective state.
type EmotionSample struct {
	Type       Emotion     `json:"type"`
	Intensity  float64     `json:"intensity"` // 0-100
	Triggers   []string    `json:"triggers"`
	Timestamp  time.Time   `json:"timestamp"`
	Physiology *Physiology `json:"physiologicalSigns,omitempty"`
}

// EmotionTrend classifies the direction of recent emotional state.
type EmotionTrend string

const (
	TrendImproving     EmotionTrend = "IMPROVING"
	TrendDeteriorating EmotionTrend = "DETERIORATING"
	TrendStable        EmotionTrend = "STABLE"
)

// BehavioralScore is the four-axis 0-100 rollup plus the arithmetic mean.
type BehavioralScore struct {
	EmotionalControl float64 `json:"emotionalControl"`
	DecisionQuality  float64 `json:"decisionQuality"`
	RiskManagement   float64 `json:"riskManagement"`
	Consistency      float64 `json:"consistency"`
	OverallScore     float64 `json:"overallScore"`
}

// BiasKind enumerates the recognized cognitive-bias patterns.
// ANCHORING and SUNK_COST_FALLACY are representable but no detector
// currently produces them.
type BiasKind string

const (
	BiasLossAversion     BiasKind = "LOSS_AVERSION"
	BiasOverconfidence   BiasKind = "OVERCONFIDENCE"
	BiasConfirmation     BiasKind = "CONFIRMATION_BIAS"
	BiasRecency          BiasKind = "RECENCY_BIAS"
	BiasHerdMentality    BiasKind = "HERD_MENTALITY"
	BiasAnchoring        BiasKind = "ANCHORING"
	BiasSunkCostFallacy  BiasKind = "SUNK_COST_FALLACY"
)

// BiasImpact classifies the effect of a detected bias.
type BiasImpact string

const (
	ImpactPositive BiasImpact = "POSITIVE"
	ImpactNegative BiasImpact = "NEGATIVE"
	ImpactNeutral  BiasImpact = "NEUTRAL"
)

// BiasFinding is a detected cognitive-bias pattern with its strength and
// fixed remediation text. Ephemeral, recomputed per analysis call.
type BiasFinding struct {
	Type           BiasKind   `json:"type"`
	Strength       float64    `json:"strength"` // 0-100
	Description    string     `json:"description"`
	Impact         BiasImpact `json:"impact"`
	Recommendation string     `json:"recommendation"`
}

// BehaviorProfile is the snapshot produced by pattern analysis, optionally
// enriched with session context consumed by the bias detectors.
type BehaviorProfile struct {
	Emotion        Emotion    `json:"emotion"`
	Confidence     float64    `json:"confidence"`
	RiskAppetite   float64    `json:"riskAppetite"`
	DetectedBiases []BiasKind `json:"detectedBiases"`

	// Session context, when known. Zero values mean "not observed".
	PositionSize         float64 `json:"positionSize,omitempty"` // fraction of portfolio
	ResearchSources      int     `json:"researchSources,omitempty"`
	IgnoredWarnings      int     `json:"ignoredWarnings,omitempty"`
	PositionChecks       int     `json:"positionChecks,omitempty"`
	PopularStocksRatio   float64 `json:"popularStocksRatio,omitempty"`
	SocialMediaInfluence float64 `json:"socialMediaInfluence,omitempty"`
	FOMOTrades           int     `json:"fomoTrades,omitempty"`
}

// InterventionType classifies generated advisory alerts.
type InterventionType string

const (
	InterventionRiskWarning      InterventionType = "RISK_WARNING"
	InterventionEmotionAlert     InterventionType = "EMOTION_ALERT"
	InterventionBiasDetected     InterventionType = "BIAS_DETECTED"
	InterventionStrategyReminder InterventionType = "STRATEGY_REMINDER"
	InterventionSuggestBreak     InterventionType = "SUGGEST_BREAK"
)

// Severity ranks interventions for display.
type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// Intervention is a generated, de-duplicated advisory alert.
type Intervention struct {
	Type         InterventionType `json:"type"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	Severity     Severity         `json:"severity"`
	Timestamp    time.Time        `json:"timestamp"`
	Acknowledged bool             `json:"acknowledged"`
}

// ChallengeType classifies daily challenges.
type ChallengeType string

const (
	ChallengeLearning ChallengeType = "LEARNING"
	ChallengeTrading  ChallengeType = "TRADING"
	ChallengeAnalysis ChallengeType = "ANALYSIS"
)

// Challenge is a daily challenge with an XP reward.
type Challenge struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Type        ChallengeType `json:"type"`
	XPReward    int           `json:"xpReward"`
	Completed   bool          `json:"completed"`
	Action      string        `json:"action"` // navigation target
}

// ItemType classifies marketplace items.
type ItemType string

const (
	ItemLesson  ItemType = "LESSON"
	ItemAdvice  ItemType = "ADVICE"
	ItemFeature ItemType = "FEATURE"
	ItemBadge   ItemType = "BADGE"
)

// MarketplaceItem is a purchasable item priced in XP.
type MarketplaceItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Cost        int      `json:"cost"`
	Type        ItemType `json:"type"`
	Icon        string   `json:"icon"`
}

// PersonalityType enumerates investor personality quiz outcomes.
type PersonalityType string

const (
	PersonalityCalmInvestor PersonalityType = "CALM_INVESTOR"
	PersonalityRiskLover    PersonalityType = "RISK_LOVER"
	PersonalityOverthinker  PersonalityType = "OVERTHINKER"
	PersonalityAnalytical   PersonalityType = "ANALYTICAL"
	PersonalityImpulsive    PersonalityType = "IMPULSIVE"
)

// PersonalityResult describes a quiz outcome.
type PersonalityResult struct {
	Type         PersonalityType `json:"type"`
	Badge        string          `json:"badge"`
	Description  string          `json:"description"`
	Strengths    []string        `json:"strengths"`
	Improvements []string        `json:"improvements"`
}

// Quote is a best-effort price quote from the market collaborator.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent string    `json:"changePercent"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// MarketSentiment classifies the overall market mood.
type MarketSentiment string

const (
	SentimentBullish MarketSentiment = "BULLISH"
	SentimentBearish MarketSentiment = "BEARISH"
	SentimentNeutral MarketSentiment = "NEUTRAL"
)

// MarketMood is a lightweight mood snapshot shown on the dashboard.
type MarketMood struct {
	Sentiment   MarketSentiment `json:"sentiment"`
	Emoji       string          `json:"emoji"`
	Description string          `json:"description"`
	Confidence  int             `json:"confidence"`
	Trend       string          `json:"trend"`      // UP, DOWN, SIDEWAYS
	Volatility  string          `json:"volatility"` // HIGH, MEDIUM, LOW
}
