package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newMarketCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "XP marketplace",
		Long:  "Browse and buy marketplace rewards with earned XP.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List marketplace items",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			items := app.Shop.Items()
			purchases, err := app.Shop.Purchases(cmd.Context())
			if err != nil {
				return err
			}
			owned := map[string]int{}
			for _, id := range purchases {
				owned[id]++
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"items":     items,
					"purchases": purchases,
				})
			}

			table := NewTable(output, "ID", "ITEM", "TYPE", "COST", "OWNED")
			for _, item := range items {
				table.AddRow(
					item.ID,
					item.Name,
					string(item.Type),
					strconv.Itoa(item.Cost),
					strconv.Itoa(owned[item.ID]),
				)
			}
			table.Render()
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "buy ID",
		Short: "Buy a marketplace item with XP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			item, err := app.Shop.Purchase(cmd.Context(), args[0])
			if err != nil {
				output.Error("Purchase failed: %v", err)
				return err
			}

			remaining, err := app.XP.CurrentXP(cmd.Context())
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"item":        item,
					"remainingXP": remaining,
				})
			}
			output.Success("%s purchased for %d XP", item.Name, item.Cost)
			output.Printf("Remaining XP: %d\n", remaining)
			return nil
		},
	})

	return cmd
}
