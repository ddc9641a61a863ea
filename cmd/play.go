package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/llehouerou/tartil/internal/app"
	"github.com/llehouerou/tartil/internal/audiofile"
	"github.com/llehouerou/tartil/internal/playback"
	"github.com/llehouerou/tartil/internal/player"
	"github.com/llehouerou/tartil/internal/quran"
	"github.com/llehouerou/tartil/internal/stderr"
)

var playCmd = &cobra.Command{
	Use:   "play <chapter>",
	Short: "Play a chapter in the terminal player",
	Long: "Play a chapter with the verse under recitation highlighted.\n" +
		"The chapter is a number (1-114) or a name such as \"kahf\".",
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

const reciterLookupTimeout = 3 * time.Second

func runPlay(cmd *cobra.Command, args []string) error {
	e, err := newEnv(envOptions{logToFile: true})
	if err != nil {
		return err
	}
	defer e.Close()

	arg := "1"
	if len(args) > 0 {
		arg = args[0]
	}
	ctx := commandContext(cmd)
	ch, err := e.resolveChapter(ctx, arg)
	if err != nil {
		return err
	}

	audioDir := audiofile.DefaultDir()
	if enabled := e.cfg.GetCacheConfig().AudioCacheEnabled; enabled != nil && !*enabled {
		tmp, err := os.MkdirTemp("", "tartil-audio-")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		audioDir = tmp
	}
	audio := audiofile.New(audioDir,
		audiofile.WithMetrics(e.metrics),
		audiofile.WithLogger(e.log),
	)

	if capture, err := stderr.Start(e.log); err != nil {
		e.log.Warn("stderr capture unavailable", "err", err)
	} else {
		defer capture.Stop()
	}

	p := player.New()
	defer p.Close()

	ctrl := playback.New(
		playback.WithTuning(e.cfg.Tuning()),
		playback.WithLogger(e.log),
	)

	reciter := e.reciter(cmd)
	m := app.New(app.Deps{
		Content:     e.quran,
		Audio:       audio,
		Translit:    e.translit,
		Store:       e.store,
		Player:      p,
		Controller:  ctrl,
		Logger:      e.log,
		Reciter:     reciter,
		ReciterName: reciterName(ctx, e, reciter),
		Tick:        e.cfg.TickInterval(),
	}, ch.ID)

	e.log.Info("starting player", "chapter", ch.ID, "reciter", reciter)
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run player: %w", err)
	}
	return nil
}

// reciterName is best effort: the header simply omits it when offline.
func reciterName(ctx context.Context, e *env, id int) string {
	ctx, cancel := context.WithTimeout(ctx, reciterLookupTimeout)
	defer cancel()
	reciters, err := e.quran.Reciters(ctx)
	if err != nil {
		e.log.Debug("reciter lookup failed", "reciter", id, "err", err)
		return ""
	}
	r, ok := lo.Find(reciters, func(r quran.Reciter) bool { return r.ID == id })
	if !ok {
		return ""
	}
	if r.Style != "" {
		return r.Name + " (" + r.Style + ")"
	}
	return r.Name
}
