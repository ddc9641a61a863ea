package cmd

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tartil/internal/recitation"
	"github.com/llehouerou/tartil/internal/recitation/stt"
)

var reciteCmd = &cobra.Command{
	Use:   "recite <audio-file>",
	Short: "Score a recorded recitation of a verse range",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecite,
}

func init() {
	rootCmd.AddCommand(reciteCmd)
	reciteCmd.Flags().StringP("chapter", "c", "", "Chapter number or name")
	reciteCmd.Flags().Int("from", 1, "First verse recited")
	reciteCmd.Flags().Int("to", 0, "Last verse recited (default: from)")
	reciteCmd.Flags().String("player", os.Getenv("USER"), "Name on the leaderboard")
	_ = reciteCmd.MarkFlagRequired("chapter")
}

var (
	missedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Strikethrough(true)
	wrongStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	extraStyle  = lipgloss.NewStyle().Faint(true)
)

func runRecite(cmd *cobra.Command, args []string) error {
	chapterArg, _ := cmd.Flags().GetString("chapter")
	from, _ := cmd.Flags().GetInt("from")
	to, _ := cmd.Flags().GetInt("to")
	playerName, _ := cmd.Flags().GetString("player")
	if to == 0 {
		to = from
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	e, err := newEnv(envOptions{})
	if err != nil {
		return err
	}
	defer e.Close()

	chain := stt.FromConfig(e.cfg.GetSTTConfig(), e.metrics, e.log)
	if len(chain.Providers()) == 0 {
		return errors.New("no speech-to-text provider configured (see [stt] in config.toml)")
	}
	judge := recitation.NewJudge(chain, e.quran, e.store, e.metrics, e.log)

	ctx := commandContext(cmd)
	ch, err := e.resolveChapter(ctx, chapterArg)
	if err != nil {
		return err
	}
	outcome, err := judge.Attempt(ctx, playerName, ch.ID, from, to, stt.Audio{
		Data:     data,
		MIMEType: audioMIME(args[0]),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d:%d-%d  %.0f%% accurate (%s)\n",
		outcome.Chapter, outcome.From, outcome.To, outcome.Score.Accuracy*100, outcome.Provider)
	fmt.Fprintf(out, "correct %d  substituted %d  missed %d  extra %d\n",
		outcome.Score.Correct, outcome.Score.Substituted, outcome.Score.Missed, outcome.Score.Extra)
	fmt.Fprintln(out, renderWords(outcome.Score.Words))
	return nil
}

func renderWords(words []recitation.WordResult) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		switch w.Status {
		case recitation.WordMissed:
			parts = append(parts, missedStyle.Render(w.Expected))
		case recitation.WordSubstituted:
			parts = append(parts, wrongStyle.Render(w.Spoken+"≠"+w.Expected))
		case recitation.WordExtra:
			parts = append(parts, extraStyle.Render("+"+w.Spoken))
		default:
			parts = append(parts, w.Expected)
		}
	}
	return strings.Join(parts, " ")
}

// audioTypes covers the formats the speech providers accept; the system
// MIME table often lacks them.
var audioTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".ogg":  "audio/ogg",
	".opus": "audio/ogg",
	".flac": "audio/flac",
	".m4a":  "audio/mp4",
	".webm": "audio/webm",
}

func audioMIME(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := audioTypes[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
