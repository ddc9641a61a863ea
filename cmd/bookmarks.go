package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "List bookmarked verses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := newEnv(envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		marks, err := e.store.ListBookmarks(commandContext(cmd))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(marks) == 0 {
			fmt.Fprintln(out, "No bookmarks")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, b := range marks {
			fmt.Fprintf(w, "%d\t%d:%d\t%s\t%s\n", b.ID, b.Chapter, b.Verse, humanize.Time(b.CreatedAt), b.Note)
		}
		return w.Flush()
	},
}

var bookmarkAddCmd = &cobra.Command{
	Use:   "add <chapter> <verse> [note...]",
	Short: "Bookmark a verse",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		verse, err := strconv.Atoi(args[1])
		if err != nil || verse < 1 {
			return fmt.Errorf("invalid verse %q", args[1])
		}

		e, err := newEnv(envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := commandContext(cmd)
		ch, err := e.resolveChapter(ctx, args[0])
		if err != nil {
			return err
		}
		if ch.VersesCount > 0 && verse > ch.VersesCount {
			return fmt.Errorf("chapter %d has %d verses", ch.ID, ch.VersesCount)
		}
		id, err := e.store.AddBookmark(ctx, ch.ID, verse, strings.Join(args[2:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Bookmarked %d:%d (#%d)\n", ch.ID, verse, id)
		return nil
	},
}

var bookmarkRemoveCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove", "delete"},
	Short:   "Remove a bookmark",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid bookmark id %q", args[0])
		}

		e, err := newEnv(envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		return e.store.DeleteBookmark(commandContext(cmd), id)
	},
}

func init() {
	rootCmd.AddCommand(bookmarksCmd)
	bookmarksCmd.AddCommand(bookmarkAddCmd, bookmarkRemoveCmd)
}
