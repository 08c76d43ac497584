// Package cli provides the command-line interface for the application.
package cli

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"equiverse/internal/analysis/emotion"
	"equiverse/internal/analysis/intervention"
	"equiverse/internal/challenges"
	"equiverse/internal/config"
	"equiverse/internal/gamification"
	"equiverse/internal/logging"
	"equiverse/internal/market"
	"equiverse/internal/marketplace"
	"equiverse/internal/models"
	"equiverse/internal/notify"
	"equiverse/internal/personality"
	"equiverse/internal/store"
	"equiverse/internal/trading"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-30"
)

// App holds the application dependencies.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Store      store.DataStore
	XP         *gamification.Manager
	Challenges *challenges.Registry
	Shop       *marketplace.Shop
	Quiz       *personality.Quiz
	Quotes     market.QuoteSource
	Mood       *market.MoodGenerator
	Tracker    *emotion.Tracker
	Coach      *intervention.Composer
	Notifier   notify.Notifier
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Storage.DBPath, cfg.Trading.InitialBalance)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some features may be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	app.XP = gamification.NewManager(app.Store, logger, cfg.Trading.LargeTradeQty)
	app.Challenges = challenges.NewRegistry(app.Store, app.XP, logger)
	app.Shop = marketplace.NewShop(app.Store, app.XP, logger)
	app.Quiz = personality.NewQuiz(app.Store, app.XP, logger)
	app.Quotes = market.NewYahooSource(cfg.Market.QuoteTimeout, cfg.Market.DefaultSuffix, logger)
	app.Mood = market.NewMoodGenerator()
	app.Tracker = emotion.NewTracker(cfg.Coach.EmotionHistory)
	app.Coach = intervention.NewComposer(cfg.Coach.MaxInterventions, cfg.Coach.RecentWindow)
	app.Notifier = notify.NewMultiNotifier(cfg.Notify, os.Stdout)

	app.wireEvents()

	rootCmd := &cobra.Command{
		Use:   "equiverse",
		Short: "EquiVerse - gamified virtual trading with a behavioral coach",
		Long: `EquiVerse is a virtual stock trading simulator for learning financial
discipline. Trade with virtual money, earn XP, complete challenges, and get
behavioral coaching that flags emotional trading and cognitive biases.

Use 'equiverse help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/equiverse)")
	rootCmd.PersistentFlags().String("user", "", "user profile (default: from config)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newTradeCmd(app))
	rootCmd.AddCommand(newPortfolioCmd(app))
	rootCmd.AddCommand(newProgressCmd(app))
	rootCmd.AddCommand(newChallengeCmd(app))
	rootCmd.AddCommand(newMarketCmd(app))
	rootCmd.AddCommand(newCoachCmd(app))
	rootCmd.AddCommand(newQuizCmd(app))
	rootCmd.AddCommand(newQuoteCmd(app))

	return rootCmd
}

// wireEvents connects XP awards and generated interventions to the
// notifier. Delivery failures are logged, never surfaced.
func (a *App) wireEvents() {
	a.XP.Subscribe(func(event gamification.XPEvent) {
		if err := a.Notifier.SendXPAward(context.Background(), event.Action, event.Earned, event.NewTotal); err != nil {
			a.Logger.Debug().Err(err).Msg("XP notification failed")
		}
	})
	a.Coach.OnIntervention(func(iv models.Intervention) {
		logging.LogIntervention(a.Logger, string(iv.Type), iv.Title, string(iv.Severity))
		if err := a.Notifier.SendIntervention(context.Background(), iv); err != nil {
			a.Logger.Debug().Err(err).Msg("Intervention notification failed")
		}
	})
}

// userID resolves the active user: --user flag, then config default.
func (a *App) userID(cmd *cobra.Command) string {
	if user, _ := cmd.Flags().GetString("user"); user != "" {
		return user
	}
	return a.Config.Trading.DefaultUser
}

// ledger builds a trading ledger for the active user.
func (a *App) ledger(cmd *cobra.Command) *trading.Ledger {
	return trading.NewLedger(a.userID(cmd), a.Store, a.XP, a.Logger)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("EquiVerse v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Trading Configuration")
	output.Printf("  Default User:     %s\n", cfg.Trading.DefaultUser)
	output.Printf("  Initial Balance:  %.2f\n", cfg.Trading.InitialBalance)
	output.Printf("  Large Trade Qty:  %d\n", cfg.Trading.LargeTradeQty)
	output.Println()

	output.Bold("Coach Configuration")
	output.Printf("  Max Interventions: %d\n", cfg.Coach.MaxInterventions)
	output.Printf("  Emotion History:   %d\n", cfg.Coach.EmotionHistory)
	output.Printf("  Recent Window:     %d\n", cfg.Coach.RecentWindow)
	output.Println()

	output.Bold("Market Configuration")
	output.Printf("  Quote Timeout:    %s\n", cfg.Market.QuoteTimeout)
	output.Printf("  Default Suffix:   %s\n", cfg.Market.DefaultSuffix)
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Enabled:          %v\n", cfg.Notify.Enabled)
	output.Printf("  Terminal:         %v\n", cfg.Notify.Terminal)
	output.Printf("  Webhook:          %v\n", cfg.Notify.Webhook.Enabled)
}
