package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"equiverse/internal/personality"
)

func newQuizCmd(app *App) *cobra.Command {
	var answersFlag string

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Take the investor personality quiz",
		Long: `Take the investor personality quiz.

Pass your answers as a comma-separated list of option numbers, one per
question. Run without --answers to see the questions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if answersFlag == "" {
				if output.IsJSON() {
					return output.JSON(personality.Questions)
				}
				for _, question := range personality.Questions {
					output.Bold("%d. %s", question.ID, question.Question)
					for i, option := range question.Options {
						output.Printf("   %d) %s\n", i+1, option.Text)
					}
					output.Println()
				}
				output.Info("Answer with: equiverse quiz --answers 1,2,3")
				return nil
			}

			parts := strings.Split(answersFlag, ",")
			answers := make([]int, 0, len(parts))
			for _, part := range parts {
				n, err := strconv.Atoi(strings.TrimSpace(part))
				if err != nil {
					return fmt.Errorf("invalid answer %q", part)
				}
				answers = append(answers, n-1)
			}

			result, earned, err := app.Quiz.Complete(cmd.Context(), answers)
			if err != nil {
				output.Error("Quiz failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"result":   result,
					"xpEarned": earned,
				})
			}

			output.Bold("%s", result.Badge)
			output.Printf("%s\n\n", result.Description)
			output.Info("Strengths:")
			for _, s := range result.Strengths {
				output.Printf("  • %s\n", s)
			}
			output.Warning("Improvements:")
			for _, s := range result.Improvements {
				output.Printf("  • %s\n", s)
			}
			output.Println()
			output.Success("✨ +%d XP", earned)
			return nil
		},
	}

	cmd.Flags().StringVar(&answersFlag, "answers", "", "comma-separated option numbers, one per question")
	return cmd
}
