package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/area-comments-api/internal/api"
	"github.com/area-comments-api/internal/config"
	"github.com/area-comments-api/internal/database"
	"github.com/area-comments-api/internal/linkgen"
	"github.com/area-comments-api/internal/repository"
	"github.com/area-comments-api/internal/service"
	"github.com/area-comments-api/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "area-comments",
		Short:         "Comments attached to application areas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

// bootstrap loads configuration, builds the logger and opens the database
func bootstrap() (*config.Config, zerolog.Logger, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to database")
		return nil, log, nil, err
	}
	return cfg, log, db, nil
}

func newServeCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer db.Close()

			log.Info().Msg("Starting area comments API server...")

			if !skipMigrations {
				if err := db.RunMigrations(cfg.App.MigrationsPath); err != nil {
					log.Error().Err(err).Msg("Failed to run database migrations")
					return err
				}
			}

			links, err := linkgen.New(cfg.App.BaseURL)
			if err != nil {
				return err
			}

			repos := repository.New(db)
			services := service.NewServices(repos, links, cfg, log)
			router := api.NewRouter(services, log)

			return serve(cfg, router, log)
		},
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not run pending migrations on startup")
	return cmd
}

// serve runs the HTTP server until SIGINT/SIGTERM, then shuts down gracefully
func serve(cfg *config.Config, handler http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("Server failed")
		return err
	case <-quit:
	}
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	log.Info().Msg("Server exited gracefully")
	return nil
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, db, err := bootstrap()
				if err != nil {
					return err
				}
				defer db.Close()
				return db.RunMigrations(cfg.App.MigrationsPath)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, _, db, err := bootstrap()
				if err != nil {
					return err
				}
				defer db.Close()
				return db.MigrateDown(cfg.App.MigrationsPath)
			},
		},
		&cobra.Command{
			Use:   "goto <version>",
			Short: "Migrate up or down to a specific version",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				version, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}

				cfg, _, db, err := bootstrap()
				if err != nil {
					return err
				}
				defer db.Close()
				return db.MigrateToVersion(cfg.App.MigrationsPath, uint(version))
			},
		},
	)

	return cmd
}
