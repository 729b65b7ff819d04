package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/userboard/internal/account"
	"github.com/example/userboard/internal/config"
	"github.com/example/userboard/internal/db"
	"github.com/example/userboard/internal/logger"
	"github.com/example/userboard/internal/migrate"
	"github.com/example/userboard/internal/postgres"
	"github.com/example/userboard/internal/web"
	"github.com/spf13/cobra"
)

func newServerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New("server", cfg.LogLevel)

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			pool, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Ping(ctx, pool); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}

			if migrateUp {
				if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}

			accounts := account.NewService(postgres.NewUserRepo(pool), log)
			sessions := web.NewSessionManager(cfg.CookieHashKey, cfg.CookieBlockKey)

			srv, err := web.NewServer(accounts, sessions, log)
			if err != nil {
				return err
			}
			return web.Start(ctx, cfg.ListenAddr, srv.Routes(), log)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}
