// Package personality implements the investor personality quiz.
package personality

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	apperrors "equiverse/internal/errors"
	"equiverse/internal/gamification"
	"equiverse/internal/models"
	"equiverse/internal/store"
)

// Option is one selectable quiz answer with its per-type score weights.
type Option struct {
	Text   string
	Scores map[models.PersonalityType]int
}

// Question is one quiz question.
type Question struct {
	ID       int
	Question string
	Options  []Option
}

// Questions is the fixed quiz.
var Questions = []Question{
	{
		ID:       1,
		Question: "When a stock drops 10%, your first reaction is:",
		Options: []Option{
			{Text: "Sell immediately to prevent more loss", Scores: map[models.PersonalityType]int{models.PersonalityImpulsive: 2, models.PersonalityOverthinker: 1}},
			{Text: "Research why it dropped and hold", Scores: map[models.PersonalityType]int{models.PersonalityAnalytical: 2, models.PersonalityCalmInvestor: 1}},
			{Text: "Buy more - it's a discount!", Scores: map[models.PersonalityType]int{models.PersonalityRiskLover: 2}},
		},
	},
	{
		ID:       2,
		Question: "How often do you check your portfolio?",
		Options: []Option{
			{Text: "Multiple times daily", Scores: map[models.PersonalityType]int{models.PersonalityOverthinker: 2, models.PersonalityImpulsive: 1}},
			{Text: "Once a day", Scores: map[models.PersonalityType]int{models.PersonalityAnalytical: 1}},
			{Text: "A few times weekly", Scores: map[models.PersonalityType]int{models.PersonalityCalmInvestor: 2}},
		},
	},
	{
		ID:       3,
		Question: "Your investment research involves:",
		Options: []Option{
			{Text: "Following social media trends", Scores: map[models.PersonalityType]int{models.PersonalityImpulsive: 2}},
			{Text: "Detailed technical analysis", Scores: map[models.PersonalityType]int{models.PersonalityAnalytical: 2}},
			{Text: "Gut feeling and quick decisions", Scores: map[models.PersonalityType]int{models.PersonalityRiskLover: 2}},
		},
	},
}

// typeOrder fixes the tie-break order: later types win ties.
var typeOrder = []models.PersonalityType{
	models.PersonalityCalmInvestor,
	models.PersonalityRiskLover,
	models.PersonalityOverthinker,
	models.PersonalityAnalytical,
	models.PersonalityImpulsive,
}

var profiles = map[models.PersonalityType]models.PersonalityResult{
	models.PersonalityCalmInvestor: {
		Type:         models.PersonalityCalmInvestor,
		Badge:        "🪷 Calm Investor",
		Description:  "You stay composed during market volatility",
		Strengths:    []string{"Emotional control", "Long-term thinking", "Patience"},
		Improvements: []string{"Could take more calculated risks"},
	},
	models.PersonalityRiskLover: {
		Type:         models.PersonalityRiskLover,
		Badge:        "🎯 Risk Lover",
		Description:  "You thrive on high-risk, high-reward opportunities",
		Strengths:    []string{"Quick decision making", "High risk tolerance"},
		Improvements: []string{"Consider risk management", "Avoid impulsive moves"},
	},
	models.PersonalityOverthinker: {
		Type:         models.PersonalityOverthinker,
		Badge:        "🤔 Overthinker",
		Description:  "You analyze every detail but sometimes hesitate",
		Strengths:    []string{"Thorough research", "Attention to detail"},
		Improvements: []string{"Trust your analysis", "Avoid analysis paralysis"},
	},
	models.PersonalityAnalytical: {
		Type:         models.PersonalityAnalytical,
		Badge:        "📊 Analytical Master",
		Description:  "You make data-driven investment decisions",
		Strengths:    []string{"Strong research skills", "Logical thinking"},
		Improvements: []string{"Balance data with intuition"},
	},
	models.PersonalityImpulsive: {
		Type:         models.PersonalityImpulsive,
		Badge:        "⚡ Impulsive Trader",
		Description:  "You make quick decisions based on instincts",
		Strengths:    []string{"Fast execution", "Opportunity spotting"},
		Improvements: []string{"Add more research", "Set stop losses"},
	},
}

// Calculate scores the answers and returns the dominant personality.
// answers holds one option index per question.
func Calculate(answers []int) (models.PersonalityResult, error) {
	if len(answers) != len(Questions) {
		return models.PersonalityResult{}, apperrors.NewValidationError("answers", len(answers), "one answer required per question")
	}

	scores := map[models.PersonalityType]int{}
	for i, answer := range answers {
		question := Questions[i]
		if answer < 0 || answer >= len(question.Options) {
			return models.PersonalityResult{}, apperrors.NewValidationError("answer", answer, "option index out of range")
		}
		for kind, score := range question.Options[answer].Scores {
			scores[kind] += score
		}
	}

	dominant := typeOrder[0]
	best := scores[dominant]
	for _, kind := range typeOrder[1:] {
		if scores[kind] >= best {
			dominant = kind
			best = scores[kind]
		}
	}

	return profiles[dominant], nil
}

// Profile returns the fixed details for a personality type.
func Profile(kind models.PersonalityType) (models.PersonalityResult, bool) {
	result, ok := profiles[kind]
	return result, ok
}

// Quiz persists quiz outcomes and awards XP for completing the test.
type Quiz struct {
	store  store.DataStore
	xp     *gamification.Manager
	logger zerolog.Logger
}

// NewQuiz creates a quiz service.
func NewQuiz(ds store.DataStore, xp *gamification.Manager, logger zerolog.Logger) *Quiz {
	return &Quiz{store: ds, xp: xp, logger: logger}
}

// Complete scores the answers, persists the result and awards XP.
// Returns the result and the XP earned.
func (q *Quiz) Complete(ctx context.Context, answers []int) (models.PersonalityResult, int, error) {
	result, err := Calculate(answers)
	if err != nil {
		return models.PersonalityResult{}, 0, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return models.PersonalityResult{}, 0, apperrors.NewDataError("personality", store.KeyPersonality, "encoding result", err)
	}
	if err := q.store.SetValue(ctx, store.KeyPersonality, string(data)); err != nil {
		return models.PersonalityResult{}, 0, err
	}

	earned, err := q.xp.AwardForAction(ctx, gamification.ActionPersonalityTest)
	if err != nil {
		return models.PersonalityResult{}, 0, err
	}

	q.logger.Info().
		Str("type", string(result.Type)).
		Int("xp", earned).
		Msg("Personality quiz completed")

	return result, earned, nil
}

// Result returns the saved quiz outcome, or nil when the quiz has not
// been taken.
func (q *Quiz) Result(ctx context.Context) (*models.PersonalityResult, error) {
	value, found, err := q.store.GetValue(ctx, store.KeyPersonality)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	result := &models.PersonalityResult{}
	if err := json.Unmarshal([]byte(value), result); err != nil {
		return nil, apperrors.NewDataError("personality", store.KeyPersonality, "decoding result", err)
	}
	return result, nil
}
