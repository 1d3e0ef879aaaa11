package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/socialbudget/backend/internal/config"
	"github.com/socialbudget/backend/internal/server"
	"github.com/socialbudget/backend/internal/service"
	"github.com/socialbudget/backend/internal/storage/sqlite"
	"github.com/socialbudget/backend/pkg/logging"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "socialbudget-server",
		Short: "Shared-expense tracking and budget rollup server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
		SilenceUsage: true,
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "path to config file (optional)")

	if err := root.Execute(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// A .env file is a local convenience, absence is fine.
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	if cfg.EmployeeSeed != "" {
		n, err := store.SeedEmployees(context.Background(), cfg.EmployeeSeed)
		if err != nil {
			slog.Warn("Employee seed skipped", "path", cfg.EmployeeSeed, "error", err)
		} else if n > 0 {
			slog.Info("Employee roster seeded", "path", cfg.EmployeeSeed, "count", n)
		}
	}

	expenses, err := service.NewExpenseService(store, cfg.UploadsDir)
	if err != nil {
		return err
	}
	budgets := service.NewBudgetService(store, expenses, service.BudgetPolicy{
		QuarterlyPerPerson: cfg.Budget.QuarterlyPerPerson,
	})

	api := server.New(
		server.Config{
			Addr:            cfg.Addr,
			UploadsDir:      cfg.UploadsDir,
			ShutdownTimeout: 10 * time.Second,
		},
		server.Dependencies{Expenses: expenses, Budgets: budgets},
	)
	return api.Start()
}
