package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"equiverse/internal/market"
	"equiverse/pkg/utils"
)

func newQuoteCmd(app *App) *cobra.Command {
	var showMood bool

	cmd := &cobra.Command{
		Use:   "quote [SYMBOL...]",
		Short: "Show live stock quotes",
		Long:  "Show live quotes for the given symbols, or the popular watchlist when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()

			symbols := make([]string, 0, len(args))
			for _, arg := range args {
				symbols = append(symbols, strings.ToUpper(arg))
			}
			if len(symbols) == 0 {
				symbols = market.PopularStocks
			}

			quotes := app.Quotes.Quotes(ctx, symbols)

			if output.IsJSON() {
				payload := map[string]interface{}{"quotes": quotes}
				if showMood {
					payload["mood"] = app.Mood.Mood()
				}
				return output.JSON(payload)
			}

			table := NewTable(output, "SYMBOL", "NAME", "PRICE", "CHANGE", "CHANGE %")
			for _, quote := range quotes {
				change := output.FormatPnL(quote.Change)
				table.AddRow(
					quote.Symbol,
					quote.Name,
					utils.FormatCurrency(quote.Price),
					change,
					quote.ChangePercent,
				)
			}
			table.Render()

			if showMood {
				mood := app.Mood.Mood()
				output.Println()
				output.Bold("%s Market Mood: %s (%d%% confidence)", mood.Emoji, mood.Sentiment, mood.Confidence)
				output.Printf("%s\n", mood.Description)
				output.Dim("Trend: %s | Volatility: %s", mood.Trend, mood.Volatility)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showMood, "mood", false, "include the market mood snapshot")
	return cmd
}
