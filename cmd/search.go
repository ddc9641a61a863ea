package cmd

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tartil/internal/search"
)

const translationWidth = 100

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search verses by text or translation",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		page, _ := cmd.Flags().GetInt("page")
		svc := search.NewService(e.quran, nil, e.log)
		res, err := svc.Search(commandContext(cmd), strings.Join(args, " "), page)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(res.Results) == 0 {
			fmt.Fprintf(out, "No verses match %q\n", res.Query)
			return nil
		}
		for _, r := range res.Results {
			fmt.Fprintf(out, "%s  %s\n", r.VerseKey, r.Text)
			if r.Translation != "" {
				fmt.Fprintf(out, "    %s\n", runewidth.Truncate(r.Translation, translationWidth, "…"))
			}
		}
		fmt.Fprintf(out, "\npage %d of %d, %d results\n", res.Page, max(res.TotalPages, 1), res.Total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntP("page", "p", 1, "Result page")
}
