package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mealmuse/internal/config"
	"mealmuse/internal/database"
	"mealmuse/internal/llm"
	"mealmuse/internal/logging"
	"mealmuse/internal/metrics"
	"mealmuse/internal/planner"
)

var rootCmd = &cobra.Command{
	Use:   "mealmuse",
	Short: "MealMuse - AI meal plans, festive foods and recipes",
	Long: `MealMuse suggests meals for your mood, dishes for local festivals and
recipes for any dish, and keeps a shopping list and food journal.

Run "mealmuse serve" to start the web app. The other commands run a
single flow from the terminal and print the result as JSON.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, planCmd, festivalCmd, recipeCmd, signupCmd, metricsCmd, metricsCleanupCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the collaborators shared by every command.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	gen     llm.GenerateCloser
	db      *database.DB
	metrics *metrics.Store
	planner *planner.Planner
}

// newApp loads configuration and opens the model client and, unless
// DATABASE_PATH is empty, the usage metrics database.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.NewFromEnv()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.LogLevel, cfg.LogPretty)

	a := &app{cfg: cfg, log: log, gen: llm.New(cfg)}

	opts := []planner.Option{planner.WithLogger(log)}
	if cfg.DatabasePath != "" {
		db, err := database.NewDB(ctx, cfg.DatabasePath, log)
		if err != nil {
			a.gen.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.db = db
		a.metrics = metrics.NewStore(db.SQL)
		opts = append(opts, planner.WithRecorder(a.metrics))
	}
	a.planner = planner.NewPlanner(a.gen, opts...)

	return a, nil
}

func (a *app) Close() {
	if err := a.gen.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close model client")
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close database")
		}
	}
}
