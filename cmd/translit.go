package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tartil/internal/quran"
	"github.com/llehouerou/tartil/internal/translit"
)

var translitCmd = &cobra.Command{
	Use:   "translit [text]",
	Short: "Transliterate Arabic text or a whole chapter",
	Long: "Transliterate the given Arabic text, or with --chapter every verse of a\n" +
		"chapter, preferring the community transliteration when available.",
	RunE: runTranslit,
}

func init() {
	rootCmd.AddCommand(translitCmd)
	translitCmd.Flags().StringP("chapter", "c", "", "Chapter number or name")
}

func runTranslit(cmd *cobra.Command, args []string) error {
	chapterArg, _ := cmd.Flags().GetString("chapter")
	out := cmd.OutOrStdout()

	if chapterArg == "" {
		if len(args) == 0 {
			return errors.New("give some text or --chapter")
		}
		fmt.Fprintln(out, translit.Transliterate(strings.Join(args, " ")))
		return nil
	}

	e, err := newEnv(envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := commandContext(cmd)
	ch, err := e.resolveChapter(ctx, chapterArg)
	if err != nil {
		return err
	}
	verses, err := e.quran.Verses(ctx, ch.ID)
	if err != nil {
		return err
	}
	lines := e.translit.Chapter(ctx, ch.ID, lo.Map(verses, func(v quran.Verse, _ int) translit.Verse {
		return translit.Verse{Number: v.Number, Text: v.TextUthmani}
	}))
	for _, l := range lines {
		fmt.Fprintf(out, "%d:%d  %s\n", ch.ID, l.Verse, l.Text)
	}
	return nil
}
