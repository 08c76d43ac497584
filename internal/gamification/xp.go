// Package gamification implements the XP ledger, leveling and streaks.
package gamification

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"equiverse/internal/logging"
	"equiverse/internal/models"
	"equiverse/internal/store"
)

// Actions recognized by the reward table.
const (
	ActionDailyLogin      = "daily_login"
	ActionCompleteTrade   = "complete_trade"
	ActionProfitTrade     = "profit_trade"
	ActionCompleteModule  = "complete_module"
	ActionCompleteQuiz    = "complete_quiz"
	ActionPersonalityTest = "personality_test"
	ActionDailyChallenge  = "daily_challenge"
	ActionInviteFriend    = "invite_friend"
)

// DefaultReward is awarded for any unrecognized action.
const DefaultReward = 10

var rewardTable = map[string]int{
	ActionDailyLogin:      50,
	ActionCompleteTrade:   25,
	ActionProfitTrade:     50,
	ActionCompleteModule:  200,
	ActionCompleteQuiz:    100,
	ActionPersonalityTest: 150,
	ActionDailyChallenge:  75,
	ActionInviteFriend:    300,
}

// LevelInfo describes one rung of the level ladder.
type LevelInfo struct {
	Level      int
	Name       string
	XPRequired int
	Badge      string
}

// Levels is the ascending level ladder.
var Levels = []LevelInfo{
	{Level: 1, Name: "💰 Investing Rookie", XPRequired: 0, Badge: "🌱"},
	{Level: 2, Name: "📈 Market Learner", XPRequired: 1000, Badge: "🎯"},
	{Level: 3, Name: "💼 Portfolio Manager", XPRequired: 2500, Badge: "⚡"},
	{Level: 4, Name: "🎮 Trading Pro", XPRequired: 5000, Badge: "🚀"},
	{Level: 5, Name: "🏆 Market Wizard", XPRequired: 10000, Badge: "👑"},
}

type rankEntry struct {
	threshold int
	name      string
}

var ranks = []rankEntry{
	{0, "Newbie"},
	{1000, "Investor"},
	{2500, "Trader"},
	{5000, "Expert"},
	{10000, "Master"},
}

// RewardForAction returns the XP reward for an action.
// Unknown actions earn the default reward.
func RewardForAction(action string) int {
	if reward, ok := rewardTable[action]; ok {
		return reward
	}
	return DefaultReward
}

// CalculateLevel maps a cumulative XP total to a level, scanning the
// ladder from the top down.
func CalculateLevel(xp int) int {
	for i := len(Levels) - 1; i >= 0; i-- {
		if xp >= Levels[i].XPRequired {
			return Levels[i].Level
		}
	}
	return 1
}

// Rank maps a cumulative XP total to a rank title.
func Rank(xp int) string {
	for i := len(ranks) - 1; i >= 0; i-- {
		if xp >= ranks[i].threshold {
			return ranks[i].name
		}
	}
	return "Newbie"
}

// LevelFor returns the full ladder entry for a cumulative XP total.
func LevelFor(xp int) LevelInfo {
	level := CalculateLevel(xp)
	return Levels[level-1]
}

// XPToNextLevel returns the XP remaining until the next level, or 0 at
// the top of the ladder.
func XPToNextLevel(xp int) int {
	level := CalculateLevel(xp)
	if level >= len(Levels) {
		return 0
	}
	remaining := Levels[level].XPRequired - xp
	if remaining < 0 {
		return 0
	}
	return remaining
}

// XPEvent describes a completed XP award, delivered to subscribers.
type XPEvent struct {
	NewTotal int
	Earned   int
	Action   string
}

// dateLayout matches how activity dates are persisted.
const dateLayout = "2006-01-02"

// Manager owns the persisted XP counter, trade counter and daily streak.
type Manager struct {
	store  store.DataStore
	logger zerolog.Logger

	// qty threshold for the large-trade bonus
	largeTradeQty int

	mu          sync.Mutex
	subscribers []func(XPEvent)

	now func() time.Time
}

// NewManager creates an XP manager backed by the given store.
func NewManager(ds store.DataStore, logger zerolog.Logger, largeTradeQty int) *Manager {
	if largeTradeQty <= 0 {
		largeTradeQty = 100
	}
	return &Manager{
		store:         ds,
		logger:        logger,
		largeTradeQty: largeTradeQty,
		now:           time.Now,
	}
}

// Subscribe registers a callback invoked after every XP award.
func (m *Manager) Subscribe(fn func(XPEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

func (m *Manager) publish(event XPEvent) {
	m.mu.Lock()
	subs := make([]func(XPEvent), len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(event)
	}
}

// CurrentXP returns the cumulative XP total. Missing counter reads as 0.
func (m *Manager) CurrentXP(ctx context.Context) (int, error) {
	return m.readCounter(ctx, store.KeyUserXP)
}

// TotalTrades returns the lifetime trade counter.
func (m *Manager) TotalTrades(ctx context.Context) (int, error) {
	return m.readCounter(ctx, store.KeyTotalTrades)
}

// DailyStreak returns the current daily streak.
func (m *Manager) DailyStreak(ctx context.Context) (int, error) {
	return m.readCounter(ctx, store.KeyDailyStreak)
}

func (m *Manager) readCounter(ctx context.Context, key string) (int, error) {
	value, found, err := m.store.GetValue(ctx, key)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (m *Manager) writeCounter(ctx context.Context, key string, n int) error {
	return m.store.SetValue(ctx, key, strconv.Itoa(n))
}

// AwardForAction credits the reward for an action and notifies subscribers.
// Returns the XP earned.
func (m *Manager) AwardForAction(ctx context.Context, action string) (int, error) {
	return m.Award(ctx, action, RewardForAction(action))
}

// Award credits an explicit amount of XP under an action label and
// notifies subscribers.
func (m *Manager) Award(ctx context.Context, action string, earned int) (int, error) {
	current, err := m.CurrentXP(ctx)
	if err != nil {
		return 0, err
	}

	total := current + earned

	if err := m.writeCounter(ctx, store.KeyUserXP, total); err != nil {
		return 0, err
	}

	logging.LogXPAward(m.logger, action, earned, total)
	m.publish(XPEvent{NewTotal: total, Earned: earned, Action: action})

	return earned, nil
}

// AwardForTrade credits trade XP: a base award per trade, a second base
// award for large trades, and a profit award for profitable sells.
// Returns the total XP earned across the awards.
func (m *Manager) AwardForTrade(ctx context.Context, quantity int, profit *float64) (int, error) {
	earned, err := m.AwardForAction(ctx, ActionCompleteTrade)
	if err != nil {
		return 0, err
	}

	if quantity >= m.largeTradeQty {
		bonus, err := m.AwardForAction(ctx, ActionCompleteTrade)
		if err != nil {
			return earned, err
		}
		earned += bonus
	}

	if profit != nil && *profit > 0 {
		bonus, err := m.AwardForAction(ctx, ActionProfitTrade)
		if err != nil {
			return earned, err
		}
		earned += bonus
	}

	return earned, nil
}

// SpendXP deducts XP from the counter. The caller has already verified
// affordability; the balance still never goes below zero.
func (m *Manager) SpendXP(ctx context.Context, amount int) (int, error) {
	current, err := m.CurrentXP(ctx)
	if err != nil {
		return 0, err
	}

	remaining := current - amount
	if remaining < 0 {
		remaining = 0
	}

	if err := m.writeCounter(ctx, store.KeyUserXP, remaining); err != nil {
		return 0, err
	}
	return remaining, nil
}

// RecordTradeActivity bumps the lifetime trade counter and rolls the
// daily streak when the calendar day changed since the last activity.
func (m *Manager) RecordTradeActivity(ctx context.Context) error {
	trades, err := m.TotalTrades(ctx)
	if err != nil {
		return err
	}
	if err := m.writeCounter(ctx, store.KeyTotalTrades, trades+1); err != nil {
		return err
	}

	today := m.now().Format(dateLayout)
	lastActive, found, err := m.store.GetValue(ctx, store.KeyLastActiveDate)
	if err != nil {
		return err
	}
	if !found {
		lastActive = today
	}

	if lastActive == today {
		return nil
	}

	yesterday := m.now().AddDate(0, 0, -1).Format(dateLayout)
	if lastActive == yesterday {
		streak, err := m.DailyStreak(ctx)
		if err != nil {
			return err
		}
		if err := m.writeCounter(ctx, store.KeyDailyStreak, streak+1); err != nil {
			return err
		}
	} else {
		if err := m.writeCounter(ctx, store.KeyDailyStreak, 1); err != nil {
			return err
		}
	}
	return m.store.SetValue(ctx, store.KeyLastActiveDate, today)
}

// CheckIn rolls the daily streak for a login: same day keeps the streak,
// a consecutive day extends it, a gap resets it to 1. Returns the streak.
func (m *Manager) CheckIn(ctx context.Context) (int, error) {
	today := m.now().Format(dateLayout)
	lastActive, found, err := m.store.GetValue(ctx, store.KeyLastActiveDate)
	if err != nil {
		return 0, err
	}

	streak, err := m.DailyStreak(ctx)
	if err != nil {
		return 0, err
	}

	if found && lastActive == today {
		return streak, nil
	}

	yesterday := m.now().AddDate(0, 0, -1).Format(dateLayout)
	if found && lastActive == yesterday {
		streak++
	} else {
		streak = 1
	}

	if err := m.writeCounter(ctx, store.KeyDailyStreak, streak); err != nil {
		return 0, err
	}
	if err := m.store.SetValue(ctx, store.KeyLastActiveDate, today); err != nil {
		return 0, err
	}
	return streak, nil
}

// Progress is the rolled-up gamification state for display.
type Progress struct {
	XP            int                       `json:"xp"`
	Level         int                       `json:"level"`
	LevelName     string                    `json:"levelName"`
	Badge         string                    `json:"badge"`
	Rank          string                    `json:"rank"`
	XPToNextLevel int                       `json:"xpToNextLevel"`
	DailyStreak   int                       `json:"dailyStreak"`
	TotalTrades   int                       `json:"totalTrades"`
	Personality   *models.PersonalityResult `json:"personality,omitempty"`
}

// Progress assembles the current gamification state.
func (m *Manager) Progress(ctx context.Context) (*Progress, error) {
	xp, err := m.CurrentXP(ctx)
	if err != nil {
		return nil, err
	}
	streak, err := m.DailyStreak(ctx)
	if err != nil {
		return nil, err
	}
	trades, err := m.TotalTrades(ctx)
	if err != nil {
		return nil, err
	}

	info := LevelFor(xp)
	return &Progress{
		XP:            xp,
		Level:         info.Level,
		LevelName:     info.Name,
		Badge:         info.Badge,
		Rank:          Rank(xp),
		XPToNextLevel: XPToNextLevel(xp),
		DailyStreak:   streak,
		TotalTrades:   trades,
	}, nil
}
