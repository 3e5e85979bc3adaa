package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mealmuse/internal/auth"
	"mealmuse/internal/identity"
	"mealmuse/internal/journal"
	"mealmuse/internal/shopping"
	"mealmuse/internal/telegram"
	"mealmuse/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web app (and the Telegram webhook when configured)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	shoppingRepo := shopping.NewRepository()
	journalStore := journal.NewStore()

	srv := web.NewServer(web.Deps{
		Flows:        a.planner,
		Accounts:     identity.NewService(identity.NewToolkitClient(a.cfg), a.log),
		Sessions:     auth.NewSessions(a.cfg.SessionSecret, a.cfg.SessionTTL, a.cfg.SessionSecure),
		Shopping:     shoppingRepo,
		Journal:      journalStore,
		Metrics:      a.metrics,
		DatabasePath: a.cfg.DatabasePath,
		Log:          a.log,
	})

	if a.cfg.TelegramEnabled() {
		bot, err := telegram.NewBot(a.cfg, telegram.Deps{
			Flows:    a.planner,
			Shopping: shoppingRepo,
			Journal:  journalStore,
			Metrics:  a.metrics,
			Log:      a.log,
		})
		if err != nil {
			return err
		}
		bot.RegisterHandlers(srv.Echo())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.Info().Str("port", a.cfg.Port).Msg("server listening")
		return srv.Start(":" + a.cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
