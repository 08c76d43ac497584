// Package challenges implements the daily-challenge catalog and
// completion tracking.
package challenges

import (
	"context"

	"github.com/rs/zerolog"

	apperrors "equiverse/internal/errors"
	"equiverse/internal/gamification"
	"equiverse/internal/models"
	"equiverse/internal/store"
)

// completedMark is the stored value for a completed challenge.
const completedMark = "completed"

var catalog = []models.Challenge{
	{
		ID:          "1",
		Title:       "📚 Learn About SIP",
		Description: "Watch a 5-minute video on Systematic Investment Plans",
		Type:        models.ChallengeLearning,
		XPReward:    50,
		Action:      "/learn",
	},
	{
		ID:          "2",
		Title:       "🔮 Predict Market Trend",
		Description: "Make a prediction for tomorrow's market direction",
		Type:        models.ChallengeAnalysis,
		XPReward:    75,
		Action:      "/trading",
	},
	{
		ID:          "3",
		Title:       "💼 Make Your First Trade",
		Description: "Execute a mock trade in the simulator",
		Type:        models.ChallengeTrading,
		XPReward:    100,
		Action:      "/trading",
	},
	{
		ID:          "4",
		Title:       "🧠 Take Personality Quiz",
		Description: "Discover your investor personality type",
		Type:        models.ChallengeLearning,
		XPReward:    150,
		Action:      "/personality",
	},
}

// Registry serves the challenge catalog with persisted completion state.
type Registry struct {
	store  store.DataStore
	xp     *gamification.Manager
	logger zerolog.Logger
}

// NewRegistry creates a challenge registry.
func NewRegistry(ds store.DataStore, xp *gamification.Manager, logger zerolog.Logger) *Registry {
	return &Registry{store: ds, xp: xp, logger: logger}
}

// List returns all challenges with their completion flags filled in.
func (r *Registry) List(ctx context.Context) ([]models.Challenge, error) {
	out := make([]models.Challenge, len(catalog))
	for i, challenge := range catalog {
		value, found, err := r.store.GetValue(ctx, store.ChallengeKey(challenge.ID))
		if err != nil {
			return nil, err
		}
		challenge.Completed = found && value == completedMark
		out[i] = challenge
	}
	return out, nil
}

// Complete marks a challenge done and awards its XP reward. Completing
// an already-completed challenge earns nothing.
func (r *Registry) Complete(ctx context.Context, id string) (int, error) {
	var challenge *models.Challenge
	for i := range catalog {
		if catalog[i].ID == id {
			challenge = &catalog[i]
			break
		}
	}
	if challenge == nil {
		return 0, apperrors.Wrapf(apperrors.ErrChallengeNotFound, "challenge %s", id)
	}

	key := store.ChallengeKey(id)
	value, found, err := r.store.GetValue(ctx, key)
	if err != nil {
		return 0, err
	}
	if found && value == completedMark {
		return 0, nil
	}

	if err := r.store.SetValue(ctx, key, completedMark); err != nil {
		return 0, err
	}

	earned, err := r.xp.Award(ctx, gamification.ActionDailyChallenge, challenge.XPReward)
	if err != nil {
		return 0, err
	}

	r.logger.Info().
		Str("challenge", id).
		Str("title", challenge.Title).
		Int("xp", earned).
		Msg("Challenge completed")

	return earned, nil
}
