package cli

import (
	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-engine/internal"
)

func newPlayCmd(opts *rootOptions) *cobra.Command {
	var (
		size      int
		aiFirst   bool
		noMemo    bool
		memoLimit int
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()

			if flags.Changed("size") {
				opts.conf.Board.Size = size
			}
			if flags.Changed("ai-first") {
				opts.conf.Board.AIFirst = aiFirst
			}
			if flags.Changed("no-memo") {
				opts.conf.Search.NoMemo = noMemo
			}
			if flags.Changed("memo-limit") {
				opts.conf.Search.MemoLimit = memoLimit
			}

			return app.RunApp(cmd.Context(), opts.logger, opts.conf, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&size, "size", "s", 0, "Board size, 3 or greater (asked for when not set)")
	cmd.Flags().BoolVar(&aiFirst, "ai-first", false, "Let the AI make the first move")
	cmd.Flags().BoolVar(&noMemo, "no-memo", false, "Disable position memoization")
	cmd.Flags().IntVar(&memoLimit, "memo-limit", 0, "Maximum number of memoized positions, 0 for no limit")

	return cmd
}
