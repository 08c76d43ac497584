package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"equiverse/internal/models"
	"equiverse/internal/trading"
	"equiverse/pkg/utils"
)

func newTradeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Execute virtual trades",
		Long:  "Buy and sell stocks with virtual money and review your trade history.",
	}

	cmd.AddCommand(newTradeBuyCmd(app))
	cmd.AddCommand(newTradeSellCmd(app))
	cmd.AddCommand(newTradeHistoryCmd(app))

	return cmd
}

func newTradeBuyCmd(app *App) *cobra.Command {
	var priceFlag float64

	cmd := &cobra.Command{
		Use:   "buy SYMBOL QUANTITY",
		Short: "Buy shares of a stock",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()

			symbol := strings.ToUpper(args[0])
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			price := priceFlag
			if price <= 0 {
				price = app.Quotes.Quote(ctx, symbol).Price
			}

			tx, err := app.ledger(cmd).Buy(ctx, symbol, qty, price)
			if err != nil {
				output.Error("Buy failed: %v", err)
				if nerr := app.Notifier.SendError(ctx, err, "trade buy "+symbol); nerr != nil {
					app.Logger.Debug().Err(nerr).Msg("Error notification failed")
				}
				return err
			}

			if err := app.Notifier.SendTrade(ctx, tx); err != nil {
				app.Logger.Debug().Err(err).Msg("Trade notification failed")
			}

			if output.IsJSON() {
				return output.JSON(tx)
			}
			output.Success("✅ Bought %d shares of %s for %s", tx.Quantity, tx.Symbol, utils.FormatCurrency(tx.Total))
			return nil
		},
	}

	cmd.Flags().Float64Var(&priceFlag, "price", 0, "execution price (default: live quote)")
	return cmd
}

func newTradeSellCmd(app *App) *cobra.Command {
	var priceFlag float64

	cmd := &cobra.Command{
		Use:   "sell SYMBOL",
		Short: "Sell your whole position in a stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()

			symbol := strings.ToUpper(args[0])

			price := priceFlag
			if price <= 0 {
				price = app.Quotes.Quote(ctx, symbol).Price
			}

			tx, err := app.ledger(cmd).Sell(ctx, symbol, price)
			if err != nil {
				output.Error("Sell failed: %v", err)
				if nerr := app.Notifier.SendError(ctx, err, "trade sell "+symbol); nerr != nil {
					app.Logger.Debug().Err(nerr).Msg("Error notification failed")
				}
				return err
			}

			if err := app.Notifier.SendTrade(ctx, tx); err != nil {
				app.Logger.Debug().Err(err).Msg("Trade notification failed")
			}

			if output.IsJSON() {
				return output.JSON(tx)
			}
			output.Success("💰 Sold %d shares of %s for %s", tx.Quantity, tx.Symbol, utils.FormatCurrency(tx.Total))
			if tx.Profit != nil {
				output.Printf("P&L: %s\n", output.FormatPnL(*tx.Profit))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&priceFlag, "price", 0, "execution price (default: live quote)")
	return cmd
}

func newTradeHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show transaction history",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()

			snap, err := app.ledger(cmd).Snapshot(ctx)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(snap.Transactions)
			}

			if len(snap.Transactions) == 0 {
				output.Info("No trades yet")
				return nil
			}

			output.Bold("Transaction History (%d trades)", len(snap.Transactions))
			table := NewTable(output, "TIME", "TYPE", "SYMBOL", "QTY", "PRICE", "TOTAL", "P&L")
			for _, tx := range snap.Transactions {
				pnl := "-"
				if tx.Profit != nil {
					pnl = output.FormatPnL(*tx.Profit)
				}
				side := output.Green(string(tx.Type))
				if tx.Type == models.TradeActionSell {
					side = output.Red(string(tx.Type))
				}
				table.AddRow(
					tx.Timestamp.Format("02 Jan 15:04"),
					side,
					tx.Symbol,
					strconv.Itoa(tx.Quantity),
					utils.FormatCurrency(tx.Price),
					utils.FormatCurrency(tx.Total),
					pnl,
				)
			}
			table.Render()
			return nil
		},
	}
}

func newPortfolioCmd(app *App) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Show wallet and holdings",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()
			ledger := app.ledger(cmd)

			if refresh {
				snap, err := ledger.Snapshot(ctx)
				if err != nil {
					return err
				}
				prices := map[string]float64{}
				for _, pos := range snap.Portfolio {
					prices[pos.Symbol] = app.Quotes.Quote(ctx, pos.Symbol).Price
				}
				if err := ledger.UpdatePrices(ctx, prices); err != nil {
					return err
				}
			}

			snap, err := ledger.Snapshot(ctx)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"walletBalance":  snap.WalletBalance,
					"portfolio":      snap.Portfolio,
					"portfolioValue": trading.PortfolioValue(snap),
					"unrealizedPnL":  trading.UnrealizedPnL(snap),
				})
			}

			output.Bold("Wallet Balance: %s", utils.FormatCurrency(snap.WalletBalance))
			output.Println()

			if len(snap.Portfolio) == 0 {
				output.Info("No holdings")
				return nil
			}

			table := NewTable(output, "SYMBOL", "QTY", "AVG PRICE", "CURRENT", "P&L", "P&L %")
			for _, pos := range snap.Portfolio {
				table.AddRow(
					pos.Symbol,
					strconv.Itoa(pos.Quantity),
					utils.FormatCurrency(pos.BuyPrice),
					utils.FormatCurrency(pos.CurrentPrice),
					output.FormatPnL(pos.PnL()),
					output.FormatPercent(pos.PnLPercent()),
				)
			}
			table.Render()

			output.Println()
			output.Printf("Portfolio Value: %s\n", utils.FormatCurrency(trading.PortfolioValue(snap)))
			output.Printf("Unrealized P&L:  %s\n", output.FormatPnL(trading.UnrealizedPnL(snap)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "refresh current prices before display")
	return cmd
}
