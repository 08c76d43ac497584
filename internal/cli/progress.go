package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"equiverse/internal/gamification"
)

func newProgressCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show XP, level, rank and streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()

			progress, err := app.XP.Progress(ctx)
			if err != nil {
				return err
			}
			if result, err := app.Quiz.Result(ctx); err == nil && result != nil {
				progress.Personality = result
			}

			if output.IsJSON() {
				return output.JSON(progress)
			}

			output.Bold("%s  %s", progress.Badge, progress.LevelName)
			output.Printf("Level:  %d (%s)\n", progress.Level, progress.Rank)
			output.Printf("XP:     %d\n", progress.XP)
			if progress.XPToNextLevel > 0 {
				output.Printf("Next:   %d XP to level %d\n", progress.XPToNextLevel, progress.Level+1)
			} else {
				output.Success("Top of the ladder!")
			}
			output.Println()
			output.Printf("Daily Streak: %d 🔥\n", progress.DailyStreak)
			output.Printf("Total Trades: %s\n", strconv.Itoa(progress.TotalTrades))
			if progress.Personality != nil {
				output.Println()
				output.Printf("Personality: %s\n", progress.Personality.Badge)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "checkin",
		Short: "Record a daily login and roll the streak",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()

			streak, err := app.XP.CheckIn(ctx)
			if err != nil {
				return err
			}
			earned, err := app.XP.AwardForAction(ctx, gamification.ActionDailyLogin)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]int{"streak": streak, "xpEarned": earned})
			}
			output.Success("✨ +%d XP for checking in", earned)
			output.Printf("Daily Streak: %d 🔥\n", streak)
			return nil
		},
	})

	return cmd
}
