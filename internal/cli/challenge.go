package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newChallengeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Daily challenges",
		Long:  "List daily challenges and mark them completed to earn XP.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List daily challenges",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			list, err := app.Challenges.List(cmd.Context())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(list)
			}

			table := NewTable(output, "ID", "CHALLENGE", "TYPE", "XP", "STATUS")
			for _, challenge := range list {
				status := output.Yellow("pending")
				if challenge.Completed {
					status = output.Green("done")
				}
				table.AddRow(
					challenge.ID,
					challenge.Title,
					string(challenge.Type),
					strconv.Itoa(challenge.XPReward),
					status,
				)
			}
			table.Render()
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "complete ID",
		Short: "Mark a challenge completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			earned, err := app.Challenges.Complete(cmd.Context(), args[0])
			if err != nil {
				output.Error("Complete failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]int{"xpEarned": earned})
			}
			if earned == 0 {
				output.Info("Challenge already completed")
				return nil
			}
			output.Success("🎉 Challenge complete! +%d XP", earned)
			return nil
		},
	})

	return cmd
}
