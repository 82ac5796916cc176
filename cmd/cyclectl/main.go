package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"FinCycle/internal/di"
	"FinCycle/internal/usecase"
	"FinCycle/pkg/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	strategy string

	rootCmd = &cobra.Command{
		Use:   "cyclectl",
		Short: "Business-cycle indicators from the terminal",
		Long: `cyclectl computes the same indicator board as the FinCycle server
without starting it: a phase table, a CSV export or a generated commentary.

FRED_API_KEY and GEMINI_API_KEY override the values in the config file.`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&strategy, "strategy", "", "join strategy override (all, settled)")

	rootCmd.AddCommand(boardCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(commentaryCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config and keeps logs off stdout, which carries command output.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadWithEnv(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg.Log.Output = "stderr"
	cfg.Log.Format = "console"
	cfg.Log.Level = logLevel
	if strategy != "" {
		if _, err := usecase.ParseJoinStrategy(strategy); err != nil {
			return nil, err
		}
		cfg.Aggregator.Strategy = strategy
	}
	return cfg, nil
}

func initBoard(ctx context.Context) (*usecase.IndicatorBoard, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	board, err := di.InitializeBoard(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize board: %w", err)
	}
	return board, nil
}
