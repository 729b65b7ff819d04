package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/example/userboard/internal/account"
	"github.com/example/userboard/internal/config"
	"github.com/example/userboard/internal/db"
	"github.com/example/userboard/internal/logger"
	"github.com/example/userboard/internal/migrate"
	"github.com/example/userboard/internal/postgres"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var username, password string

	c := &cobra.Command{
		Use:   "add",
		Short: "Add a user (username/password) from the command line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New("cli", cfg.LogLevel)

			ctx := context.Background()
			pool, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
				return err
			}

			accounts := account.NewService(postgres.NewUserRepo(pool), log)
			u, err := accounts.Register(ctx, username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "created user %q (id=%d)\n", u.Username, u.ID)
			return nil
		},
	}

	c.Flags().StringVar(&username, "username", "", "username")
	c.Flags().StringVar(&password, "password", "", "password")
	_ = c.MarkFlagRequired("username")
	_ = c.MarkFlagRequired("password")
	return c
}
