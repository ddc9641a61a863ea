package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "List the chapters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := newEnv(envOptions{})
		if err != nil {
			return err
		}
		defer e.Close()

		chapters, err := e.quran.Chapters(commandContext(cmd))
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, ch := range chapters {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d verses\n",
				ch.ID, ch.NameSimple, ch.TranslatedName.Name, ch.NameArabic, ch.VersesCount)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(chaptersCmd)
}
