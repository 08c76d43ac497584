package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"equiverse/internal/analysis/behavior"
	"equiverse/internal/analysis/bias"
	"equiverse/internal/analysis/intervention"
	"equiverse/internal/models"
)

func newCoachCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coach",
		Short: "Behavioral coaching",
		Long:  "Analyze trading behavior, detect cognitive biases and review coaching interventions.",
	}

	cmd.AddCommand(newCoachAnalyzeCmd(app))
	cmd.AddCommand(newCoachBiasesCmd(app))
	cmd.AddCommand(newCoachEmotionCmd(app))
	cmd.AddCommand(newCoachCheckinCmd(app))
	cmd.AddCommand(newCoachInterventionsCmd(app))

	return cmd
}

func newCoachAnalyzeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Analyze trading pattern and behavioral score",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			records, err := app.ledger(cmd).TradeHistory(cmd.Context())
			if err != nil {
				return err
			}

			profile := behavior.AnalyzePatternWindow(records, "", app.Config.Coach.RecentWindow)
			score := behavior.Score(records)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"profile": profile,
					"score":   score,
				})
			}

			output.Bold("Trading Pattern")
			output.Printf("  Emotion:       %s\n", profile.Emotion)
			output.Printf("  Confidence:    %.1f\n", profile.Confidence)
			output.Printf("  Risk Appetite: %.1f / 10\n", profile.RiskAppetite)
			if len(profile.DetectedBiases) > 0 {
				output.Printf("  Biases:        %v\n", profile.DetectedBiases)
			}
			output.Println()

			output.Bold("Behavioral Score")
			output.Printf("  Emotional Control: %s\n", scoreBar(output, score.EmotionalControl))
			output.Printf("  Decision Quality:  %s\n", scoreBar(output, score.DecisionQuality))
			output.Printf("  Risk Management:   %s\n", scoreBar(output, score.RiskManagement))
			output.Printf("  Consistency:       %s\n", scoreBar(output, score.Consistency))
			output.Println()
			output.Printf("  Overall:           %s\n", scoreBar(output, score.OverallScore))
			return nil
		},
	}
}

func scoreBar(output *Output, score float64) string {
	text := fmt.Sprintf("%5.1f / 100", score)
	switch {
	case score >= 70:
		return output.Green(text)
	case score >= 40:
		return output.Yellow(text)
	default:
		return output.Red(text)
	}
}

func newCoachBiasesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "biases",
		Short: "Detect cognitive biases in your trading",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			records, err := app.ledger(cmd).TradeHistory(cmd.Context())
			if err != nil {
				return err
			}

			profile := behavior.AnalyzePatternWindow(records, "", app.Config.Coach.RecentWindow)
			findings := bias.Detect(records, profile)

			if output.IsJSON() {
				return output.JSON(findings)
			}

			if len(findings) == 0 {
				output.Success("✅ No significant cognitive biases detected")
				return nil
			}

			for _, finding := range findings {
				output.Bold("🧠 %s (strength %.0f)", finding.Type, finding.Strength)
				output.Printf("  %s\n", finding.Description)
				output.Info("  → %s", finding.Recommendation)
				output.Dim("  Mitigation:")
				for _, strategy := range bias.MitigationStrategies(finding.Type) {
					output.Printf("    • %s\n", strategy)
				}
				output.Println()
			}
			return nil
		},
	}
}

func newCoachEmotionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "emotion",
		Short: "Show current emotional state and trend",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			current := app.Tracker.Current()
			trend, score := app.Tracker.Trend()

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"current": current,
					"trend":   trend,
					"score":   score,
					"history": app.Tracker.History(),
				})
			}

			if current == nil {
				output.Info("No emotion samples yet. Use 'coach checkin' to record one.")
				return nil
			}

			output.Bold("Current Emotion: %s (intensity %.0f)", current.Type, current.Intensity)
			for _, trigger := range current.Triggers {
				output.Printf("  • %s\n", trigger)
			}
			output.Println()
			output.Printf("Trend: %s (score %.0f)\n", trend, score)

			if intervene, reason := app.Tracker.ShouldIntervene(); intervene {
				output.Warning("⚠ %s", reason)
			}
			return nil
		},
	}
}

func newCoachCheckinCmd(app *App) *cobra.Command {
	var (
		condition string
		action    string
		heartRate float64
		stress    float64
	)

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record an emotional check-in",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			var physiology *models.Physiology
			if heartRate > 0 || stress > 0 {
				physiology = &models.Physiology{HeartRate: heartRate, StressLevel: stress}
			}

			sample := app.Tracker.Track(condition, action, physiology)

			if output.IsJSON() {
				return output.JSON(sample)
			}

			output.Success("Recorded: %s (intensity %.0f)", sample.Type, sample.Intensity)
			for _, trigger := range sample.Triggers {
				output.Printf("  • %s\n", trigger)
			}
			if intervene, reason := app.Tracker.ShouldIntervene(); intervene {
				output.Warning("⚠ %s", reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&condition, "condition", "stable", "market condition (e.g. volatile, bull rally, crash)")
	cmd.Flags().StringVar(&action, "action", "", "your last action (e.g. buy, panic sell, aggressive buy)")
	cmd.Flags().Float64Var(&heartRate, "heart-rate", 0, "heart rate in bpm")
	cmd.Flags().Float64Var(&stress, "stress", 0, "stress level 0-100")
	return cmd
}

func newCoachInterventionsCmd(app *App) *cobra.Command {
	var (
		condition string
		ack       string
	)

	cmd := &cobra.Command{
		Use:   "interventions",
		Short: "Generate and review coaching interventions",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if ack != "" {
				app.Coach.Acknowledge(ack)
				output.Success("Acknowledged: %s", ack)
				return nil
			}

			records, err := app.ledger(cmd).TradeHistory(cmd.Context())
			if err != nil {
				return err
			}

			profile := behavior.AnalyzePatternWindow(records, condition, app.Config.Coach.RecentWindow)
			findings := bias.Detect(records, profile)
			app.Coach.Evaluate(records, findings, &profile, condition)

			active := app.Coach.Active()

			if output.IsJSON() {
				return output.JSON(active)
			}

			if len(active) == 0 {
				output.Success("✅ Good Trading Discipline")
				output.Println("No interventions needed at this time.")
				return nil
			}

			output.Bold("🎯 Trading Interventions")
			for _, iv := range active {
				output.Printf("\n%s  %s\n", output.SeverityTag(string(iv.Severity)), iv.Title)
				output.Printf("   %s\n", iv.Message)
			}

			output.Println()
			output.Bold("💡 Proactive Tips")
			for _, tip := range intervention.ProactiveTips() {
				output.Printf("  • %s\n", tip)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&condition, "condition", "stable", "market condition fed to the rules")
	cmd.Flags().StringVar(&ack, "ack", "", "acknowledge the intervention with this title")
	return cmd
}
