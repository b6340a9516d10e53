package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tour_catalog/internal/adapters/observability"
	"tour_catalog/internal/app"
	"tour_catalog/internal/shared"
	"tour_catalog/internal/storage/mongostore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Manage tour catalog admin accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCreateCommand(), newRehashCommand())
	return root
}

// withAuth loads config, connects to mongo and hands fn an AuthService
// backed by the admin collection.
func withAuth(ctx context.Context, fn func(shared.Config, *app.AuthService) error) error {
	cfg, err := shared.Load()
	if err != nil {
		log.Error().Err(err).Msg("config")
		return err
	}
	log.Logger = observability.NewLogger(cfg.AppEnv)

	gw := mongostore.NewGateway(cfg.MongoURI, cfg.MongoDB)
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := gw.Connect(connectCtx)
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("mongo connect failed")
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = gw.Close(closeCtx)
	}()

	return fn(cfg, app.NewAuthService(mongostore.NewAdminRepo(db), cfg.JWTSecret))
}

func newCreateCommand() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin with a bcrypt-hashed password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAuth(cmd.Context(), func(_ shared.Config, auth *app.AuthService) error {
				id, err := auth.CreateAdmin(cmd.Context(), username, password)
				if err != nil {
					log.Error().Err(err).Str("username", username).Msg("create admin failed")
					return err
				}
				log.Info().Str("id", id).Str("username", username).Msg("admin created")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRehashCommand() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "rehash",
		Short: "Replace legacy plaintext admin passwords with bcrypt hashes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAuth(cmd.Context(), func(cfg shared.Config, auth *app.AuthService) error {
				if workers <= 0 {
					workers = cfg.AdminWorkers
				}
				n, err := rehashAll(cmd.Context(), auth, workers)
				if err != nil {
					return err
				}
				log.Info().Int("rehashed", n).Msg("rehash completed")
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent bcrypt workers (default ADMIN_WORKERS)")
	return cmd
}
