// @title Health Metrics API
// @version 1.0.0
// @description Record daily health observations, set goals and track progress.

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"health_metrics_backend/internal/app"
	"health_metrics_backend/internal/config"
	"health_metrics_backend/internal/mcp"
	"health_metrics_backend/pkg/logger"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var configDir string

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

var rootCmd = &cobra.Command{
	Use:   "health-api",
	Short: "Health metrics API server",
	Long: `Health metrics API: record daily observations such as steps or sleep,
set daily, weekly or monthly goals and follow progress on a dashboard.

  $ health-api serve                 # run the HTTP API
  $ health-api migrate               # create or update tables, then exit
  $ health-api seed --admin alice    # load metric types and create an admin
  $ health-api mcp --user alice      # serve alice's data to an MCP client`,
	SilenceUsage: true,
}

var (
	forceMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.ForceMigrate = forceMigrate

		application := app.NewApp(cfg)
		defer logger.Log.Sync()

		application.Run(configDir)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the database and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.ForceMigrate = true

		application := app.NewApp(cfg)
		defer application.Close()
		defer logger.Log.Sync()

		color.Green("✓ Database migrated")
		return nil
	},
}

var (
	seedFile      string
	adminUsername string
	adminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load metric types from YAML and optionally create an admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.ForceMigrate = true

		application := app.NewApp(cfg)
		defer application.Close()
		defer logger.Log.Sync()

		path := seedFile
		if path == "" {
			path = cfg.Seed.MetricTypesFile
		}

		ctx := cmd.Context()
		res, err := application.Services.Seed.SeedFromFile(ctx, path)
		if err != nil {
			return err
		}
		color.Green("✓ Metric types seeded")
		fmt.Printf("  %s created, %s updated\n",
			color.New(color.Bold).Sprint(res.Created),
			color.New(color.Bold).Sprint(res.Updated))

		if adminUsername != "" {
			if adminPassword == "" {
				adminPassword = os.Getenv("HEALTH_ADMIN_PASSWORD")
			}
			user, err := application.Services.Auth.EnsureAdmin(ctx, adminUsername, adminPassword)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			color.Green("✓ Admin %s ready", user.Username)
		}
		return nil
	},
}

var mcpUser string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve one user's health data over MCP stdio",
	Long: `Start a Model Context Protocol server on stdin/stdout acting as --user.

AVAILABLE TOOLS:

  list_metric_types   Active metric types
  log_metric          Record an observation
  list_metrics        Recent observations
  goal_progress       Progress of active goals
  dashboard           Dashboard summary`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if mcpUser == "" {
			return fmt.Errorf("--user is required")
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// stdout carries the protocol
		cfg.Log.Console = "stderr"

		application := app.NewApp(cfg)
		defer application.Close()
		defer logger.Log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		owner, err := application.Services.Auth.OwnerByUsername(ctx, mcpUser)
		if err != nil {
			return fmt.Errorf("resolve user %s: %w", mcpUser, err)
		}

		server := mcp.NewServer(mcp.Services{
			MetricType:   application.Services.MetricType,
			HealthMetric: application.Services.HealthMetric,
			Goal:         application.Services.Goal,
			Dashboard:    application.Services.Dashboard,
		}, owner, application.Clock)
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "directory holding config.yaml")

	serveCmd.Flags().BoolVar(&forceMigrate, "migrate", false, "migrate on startup even in release mode")

	seedCmd.Flags().StringVar(&seedFile, "file", "", "metric types YAML (defaults to seed.metric_types_file)")
	seedCmd.Flags().StringVar(&adminUsername, "admin", "", "create or promote this admin account")
	seedCmd.Flags().StringVar(&adminPassword, "admin-password", "", "password for a new admin (or HEALTH_ADMIN_PASSWORD)")

	mcpCmd.Flags().StringVar(&mcpUser, "user", "", "username the MCP tools act as")

	// a bare "health-api" serves
	rootCmd.RunE = serveCmd.RunE

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, mcpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("✗ %v", err)
		os.Exit(1)
	}
}
