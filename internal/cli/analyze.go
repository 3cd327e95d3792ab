package cli

import (
	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-engine/internal"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var (
		board  string
		player string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print the best move for a position",
		Example: `  tictactoe analyze --board "XX./.O./..."
  tictactoe analyze --board "OX./.O./X.." --player X`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Analyze(opts.logger, opts.conf, board, player, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&board, "board", "b", "", `Board rows separated by "/", cells X, O or "."`)
	cmd.Flags().StringVarP(&player, "player", "p", "O", "Side to move, X or O")
	_ = cmd.MarkFlagRequired("board")

	return cmd
}
