package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jakechorley/volunteer-tracker/cmd/cli/commands"
	"github.com/jakechorley/volunteer-tracker/internal/config"
	"github.com/jakechorley/volunteer-tracker/pkg/core/controller"
	"github.com/jakechorley/volunteer-tracker/pkg/db"
	"github.com/jakechorley/volunteer-tracker/pkg/metrics"
	"github.com/jakechorley/volunteer-tracker/pkg/utils/logging"
)

var (
	env        string
	configPath string
	verbose    bool
	app        = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Volunteer Tracker CLI - Manage volunteers, events and assignments",
		Long: `A CLI tool for tracking volunteers, events and which volunteers are assigned to which events.
Changes to volunteers and events can be undone and redone within an interactive session.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			shutdownApp()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "dev", "Environment, used to name log files (dev, prod, etc.)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./"+config.FileName+" or ~/"+config.FileName+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to the console")

	rootCmd.AddCommand(commands.AddVolunteerCmd(app))
	rootCmd.AddCommand(commands.RemoveVolunteerCmd(app))
	rootCmd.AddCommand(commands.UpdateVolunteerCmd(app))
	rootCmd.AddCommand(commands.ListVolunteersCmd(app))
	rootCmd.AddCommand(commands.AddEventCmd(app))
	rootCmd.AddCommand(commands.RemoveEventCmd(app))
	rootCmd.AddCommand(commands.UpdateEventCmd(app))
	rootCmd.AddCommand(commands.ListEventsCmd(app))
	rootCmd.AddCommand(commands.AddEventSeriesCmd(app))
	rootCmd.AddCommand(commands.AssignCmd(app))
	rootCmd.AddCommand(commands.UnassignCmd(app))
	rootCmd.AddCommand(commands.UndoCmd(app))
	rootCmd.AddCommand(commands.RedoCmd(app))
	rootCmd.AddCommand(commands.HistoryCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		shutdownApp()
		os.Exit(1)
	}
}

// initApp sets up config, logger, repositories and the controller
func initApp() error {
	var err error

	// Load configuration
	if configPath != "" {
		app.Cfg, err = config.LoadFromPath(configPath)
	} else {
		app.Cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	consoleLevel := zapcore.WarnLevel
	if verbose {
		consoleLevel = zapcore.DebugLevel
	}
	app.Logger, err = logging.InitLogger(env, app.Cfg.LogsDir, consoleLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("backend", app.Cfg.Storage.Backend))

	// Open repositories
	app.Repositories, err = db.Open(db.Options{
		Backend:        app.Cfg.Storage.Backend,
		VolunteersFile: app.Cfg.Storage.VolunteersFile,
		EventsFile:     app.Cfg.Storage.EventsFile,
		SQLitePath:     app.Cfg.Storage.SQLitePath,
		PostgresURL:    app.Cfg.Storage.PostgresURL,
	}, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to open repositories: %w", err)
	}
	app.Logger.Debug("Repositories opened successfully")

	app.Metrics = metrics.NewRecorder()
	app.Controller = controller.New(
		app.Repositories.Volunteers,
		app.Repositories.Events,
		app.Logger,
		controller.WithMetrics(app.Metrics),
	)

	return nil
}

// shutdownApp writes metrics, closes the repositories and flushes the logger.
// Safe to call more than once.
func shutdownApp() {
	if app.Logger == nil {
		return
	}

	if app.Cfg != nil && app.Cfg.MetricsFile != "" {
		if err := app.Metrics.WriteTextfile(app.Cfg.MetricsFile); err != nil {
			app.Logger.Error("Failed to write metrics", zap.Error(err))
		}
	}

	if app.Repositories != nil {
		if err := app.Repositories.Close(); err != nil {
			app.Logger.Error("Failed to close repositories", zap.Error(err))
		}
		app.Repositories = nil
	}

	app.Logger.Sync()
	app.Logger = nil
}
