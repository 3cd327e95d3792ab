package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
)

type rootOptions struct {
	configPath string

	conf   *config.Config
	logger *slog.Logger
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "tictactoe",
		Short: "N×N Tic-Tac-Toe against an alpha-beta AI",
		Long: `tictactoe plays generalized N×N Tic-Tac-Toe against an AI that searches the
whole game tree with minimax, alpha-beta pruning and memoization.

The human plays X and the AI plays O. Searched decisions can be cached in Redis.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.conf = config.MustLoad(opts.configPath)
			// logs go to stderr so they never mix with the board
			opts.logger = newLogger(opts.conf.LogLevel, cmd.ErrOrStderr())
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yml", "Path to the config file")

	rootCmd.AddCommand(newPlayCmd(opts))
	rootCmd.AddCommand(newAnalyzeCmd(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newLogger(logLevel string, out io.Writer) *slog.Logger {
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
}
