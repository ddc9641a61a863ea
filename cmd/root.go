// Package cmd implements the tartil command line.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "tartil [chapter]",
	Short: "Listen to, repeat and recite the Quran verse by verse",
	Long: "tartil plays a chapter with its verse timings, repeats verse ranges,\n" +
		"serves the same content as a JSON API and scores recitation attempts.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPlay,
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().Int("reciter", 0, "Recitation id (default: config quran.reciter)")
}

// Execute runs the command selected by os.Args.
func Execute() {
	handleErr(rootCmd.Execute())
}

func handleErr(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "tartil: %s\n", strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
