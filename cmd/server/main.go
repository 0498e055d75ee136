package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/siteframe/internal/apipaths"
	"github.com/siteframe/internal/config"
	"github.com/siteframe/internal/db"
	"github.com/siteframe/internal/domain"
	"github.com/siteframe/internal/http"
	"github.com/siteframe/internal/logger"
	"github.com/siteframe/internal/validation"
	"github.com/spf13/cobra"
)

func main() {
	// Load .env file if it exists (optional, won't error if missing)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load .env file: %v", err)
	}

	root := &cobra.Command{
		Use:           "siteframe",
		Short:         "Static content and forms login server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Runs the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	})
	root.AddCommand(userCommand())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		if domain.IsConfigurationError(err) {
			log.Fatalf("Invalid configuration: %v", err)
		}
		log.Fatal(err)
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return domain.WrapConfigInvalid("environment", err)
	}

	logger.InitLogger(cfg.Environment)
	logStartup(cfg)

	database, err := db.Init(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if cfg.Auth.Enabled {
		if count, err := database.CountUsers(ctx); err == nil && count == 0 && !cfg.Auth.GitHub.Enabled() {
			slog.Warn("Auth enabled but no users exist - create one with: siteframe user add --username <name>")
		}
	}

	server, err := http.NewServer(cfg, database)
	if err != nil {
		return err
	}

	return server.Run(ctx)
}

func logStartup(cfg *config.Config) {
	slog.Info("Starting siteframe",
		"environment", cfg.Environment,
		"address", cfg.ServerAddress,
		"base_dir", cfg.BaseDir,
		"static_directories", len(cfg.Static.Directories),
		"static_files", len(cfg.Static.Files),
		"auth_enabled", cfg.Auth.Enabled,
	)

	if cfg.Auth.Enabled && cfg.Auth.GitHub.Enabled() {
		clientID := cfg.Auth.GitHub.ClientID
		if len(clientID) > 8 {
			clientID = clientID[:8]
		}
		slog.Info("GitHub OAuth configured",
			"client_id", clientID+"...",
			"allowed_users", len(cfg.Auth.GitHub.AllowedUsers),
			"login_path", apipaths.OAuthLogin("github"),
			"logout_path", apipaths.OAuthLogout(),
		)
		if len(cfg.Auth.GitHub.AllowedUsers) == 0 {
			slog.Warn("GitHub auth enabled but no allowed users configured - all GitHub access will be denied")
		}
	}
}

func userCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manages forms login users",
	}

	var username, password string
	add := &cobra.Command{
		Use:   "add",
		Short: "Creates a user",
		RunE: func(c *cobra.Command, _ []string) error {
			if err := validation.ValidateUsername(username); err != nil {
				return domain.WrapValidationError("username", err)
			}
			if password == "" {
				password = os.Getenv("SITEFRAME_PASSWORD")
			}
			if err := validation.ValidatePassword(password); err != nil {
				return domain.WrapValidationError("password", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return domain.WrapConfigInvalid("environment", err)
			}
			logger.InitLogger(cfg.Environment)

			database, err := db.Init(cfg.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer database.Close()

			user, err := database.CreateUser(c.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Created user %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}
	add.Flags().StringVar(&username, "username", "", "login name")
	add.Flags().StringVar(&password, "password", "", "password (defaults to $SITEFRAME_PASSWORD)")
	_ = add.MarkFlagRequired("username")

	cmd.AddCommand(add)
	return cmd
}
