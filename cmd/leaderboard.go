package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard [chapter]",
	Short: "Show the best recitation scores",
	Long:  "Show each player's best score, for one chapter or across all chapters.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := commandContext(cmd)
		chapter := 0
		if len(args) == 1 {
			ch, err := e.resolveChapter(ctx, args[0])
			if err != nil {
				return err
			}
			chapter = ch.ID
		}
		limit, _ := cmd.Flags().GetInt("limit")

		entries, err := e.store.Leaderboard(ctx, chapter, limit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No attempts yet")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tPLAYER\tBEST\tATTEMPTS\tLAST")
		for i, en := range entries {
			fmt.Fprintf(w, "%d\t%s\t%.0f%%\t%s\t%s\n",
				i+1, en.Player, en.Best*100, humanize.Comma(int64(en.Attempts)), humanize.Time(en.LastAt))
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
	leaderboardCmd.Flags().IntP("limit", "n", 10, "Number of players shown")
}
