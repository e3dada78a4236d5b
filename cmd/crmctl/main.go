// Command crmctl runs CRM maintenance and reporting tasks outside the
// workflow engine: migrations, the reminder scan and salary reports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"realty-crm/internal/app"
	"realty-crm/internal/common/config"
	"realty-crm/internal/common/logger"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:           "crmctl",
	Short:         "Realty CRM operations CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: configs/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(salaryCmd)
	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(notificationsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func newLogger() logger.Logger {
	return logger.NewStructured(logLevel, "console")
}

// withApp builds the component graph, runs fn and closes the graph, which
// also drains any notifications fn queued.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := app.Build(ctx, cfg, newLogger(), app.Options{ConnectAttempts: 1, Source: "crmctl"})
	if err != nil {
		return err
	}

	runErr := fn(ctx, a)
	if err := a.Close(context.Background()); err != nil && runErr == nil {
		return err
	}
	return runErr
}
