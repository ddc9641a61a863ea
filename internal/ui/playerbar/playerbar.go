// Package playerbar renders the transport line: mode, verse, position and
// the repeat loop counter.
package playerbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/tartil/internal/playback"
	"github.com/llehouerou/tartil/internal/segment"
	"github.com/llehouerou/tartil/internal/timefmt"
	"github.com/llehouerou/tartil/internal/ui/render"
	"github.com/llehouerou/tartil/internal/ui/styles"
)

// Height is the bar height including its border.
const Height = 3

// maxPips is the largest repeat count drawn as pips; larger counts use a
// numeric counter only.
const maxPips = 10

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	stopSymbol  = "■"
	idleSymbol  = "·"
)

// State holds everything needed to render the bar.
type State struct {
	Mode     playback.Mode
	Position float64 // seconds
	Duration float64 // seconds
	Chapter  int
	Verse    int // 0 when between verses

	// Window is the repeated span on the timeline, nil when there is none.
	Window    *segment.Bounds
	TimeRange bool
	From, To  int
	Count     int // configured plays of the range
	Loops     int // completed repeats
}

// NewState builds a State from the controller's snapshot and config.
func NewState(snap playback.Snapshot, cfg playback.Config, window *segment.Bounds) State {
	s := State{
		Mode:      snap.Mode,
		Position:  snap.Current,
		Duration:  snap.Duration,
		Verse:     snap.ActiveVerse,
		Window:    window,
		From:      cfg.RepeatFrom,
		To:        cfg.RepeatTo,
		Count:     max(cfg.RepeatCount, 1),
		Loops:     snap.LoopsCompleted,
		TimeRange: cfg.UseTimeRange,
	}
	if r, ok := cfg.TimeRange(); ok {
		s.Window = &r
	}
	return s
}

// Play returns the 1-based number of the play in progress, capped at Count.
func (s State) Play() int {
	return min(s.Loops+1, s.Count)
}

// Render returns the bar for the given width.
func Render(s State, width int) string {
	innerWidth := max(width-6, 0)

	verse := modeSymbol(s.Mode) + " " + s.verseLabel()
	clock := fmt.Sprintf("%s / %s",
		timefmt.FormatSeconds(s.Position), timefmt.FormatSeconds(s.Duration))
	right := s.repeatLabel()

	sep := "   "
	fixed := lipgloss.Width(verse) + lipgloss.Width(clock) + lipgloss.Width(right) + len(sep)*3
	barWidth := innerWidth - fixed

	var content string
	if barWidth < 10 {
		// Too narrow for a bar: keep the verse and clock.
		content = render.Truncate(verse+sep+clock, innerWidth)
	} else {
		bar := RenderProgressBar(s.Position, s.Duration, s.Window, barWidth)
		content = strings.Join([]string{
			verseStyle().Render(verse), bar, timeStyle().Render(clock), right,
		}, sep)
	}

	return barStyle().Padding(0, 2).Width(max(width-2, 0)).Render(content)
}

func (s State) verseLabel() string {
	if s.Verse == 0 {
		return "-"
	}
	if s.Chapter > 0 {
		return fmt.Sprintf("%d:%d", s.Chapter, s.Verse)
	}
	return fmt.Sprintf("%d", s.Verse)
}

func (s State) repeatLabel() string {
	var span string
	if s.TimeRange && s.Window != nil {
		span = timefmt.FormatSeconds(s.Window.Start) + "-" + timefmt.FormatSeconds(s.Window.End)
	} else {
		span = fmt.Sprintf("%d-%d", s.From, s.To)
	}
	label := repeatStyle().Render(fmt.Sprintf("⟳ %s", span))
	if s.Count <= 1 {
		return label
	}
	counter := fmt.Sprintf("%d/%d", s.Play(), s.Count)
	if s.Count <= maxPips {
		return label + " " + pips(s.Play(), s.Count) + " " + counter
	}
	return label + " " + counter
}

// pips draws one dot per play, the plays done so far blended from the
// primary to the secondary color.
func pips(done, total int) string {
	t := styles.T()
	colors := styles.Blend(total, t.Primary, t.Secondary)
	var b strings.Builder
	for i := range total {
		if i < done {
			b.WriteString(lipgloss.NewStyle().Foreground(colors[i]).Render("●"))
		} else {
			b.WriteString(emptyStyle().Render("○"))
		}
	}
	return b.String()
}

func modeSymbol(m playback.Mode) string {
	switch m {
	case playback.ModePlaying:
		return playSymbol
	case playback.ModePaused:
		return pauseSymbol
	case playback.ModeStopped:
		return stopSymbol
	default:
		return idleSymbol
	}
}
