package player

import (
	"errors"
	"testing"
	"time"
)

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Unloaded, "Unloaded"},
		{Playing, "Playing"},
		{Paused, "Paused"},
		{State(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("State.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestState_Predicates(t *testing.T) {
	tests := []struct {
		state    State
		loaded   bool
		canPause bool
		canPlay  bool
	}{
		{Unloaded, false, false, false},
		{Playing, true, true, false},
		{Paused, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := tt.state.IsLoaded(); got != tt.loaded {
				t.Errorf("IsLoaded() = %v, want %v", got, tt.loaded)
			}
			if got := tt.state.CanPause(); got != tt.canPause {
				t.Errorf("CanPause() = %v, want %v", got, tt.canPause)
			}
			if got := tt.state.CanPlay(); got != tt.canPlay {
				t.Errorf("CanPlay() = %v, want %v", got, tt.canPlay)
			}
		})
	}
}

// TestMock_StateTransitions validates the state machine using the Mock player.
func TestMock_StateTransitions(t *testing.T) {
	t.Run("Load leaves transport paused at 0", func(t *testing.T) {
		m := NewMock()
		m.SetPosition(3 * time.Second)

		if err := m.Load("/001.mp3"); err != nil {
			t.Fatalf("Load: %v", err)
		}

		if m.State() != Paused {
			t.Errorf("state after Load = %v, want Paused", m.State())
		}
		if m.Position() != 0 {
			t.Errorf("position after Load = %v, want 0", m.Position())
		}
		if m.Source() != "/001.mp3" {
			t.Errorf("source = %q", m.Source())
		}
	})

	t.Run("Play without source fails", func(t *testing.T) {
		m := NewMock()

		if err := m.Play(); !errors.Is(err, ErrNotLoaded) {
			t.Errorf("Play() error = %v, want ErrNotLoaded", err)
		}
		if m.State() != Unloaded {
			t.Errorf("state = %v, want Unloaded", m.State())
		}
	})

	t.Run("Paused to Playing and back", func(t *testing.T) {
		m := NewLoadedMock(time.Minute)

		_ = m.Play()
		if m.State() != Playing {
			t.Fatalf("state after Play = %v, want Playing", m.State())
		}
		m.Pause()
		if m.State() != Paused {
			t.Errorf("state after Pause = %v, want Paused", m.State())
		}
	})

	t.Run("Close unloads", func(t *testing.T) {
		m := NewLoadedMock(time.Minute)
		_ = m.Play()

		_ = m.Close()

		if m.State() != Unloaded {
			t.Errorf("state after Close = %v, want Unloaded", m.State())
		}
	})

	t.Run("Play error keeps state", func(t *testing.T) {
		m := NewLoadedMock(time.Minute)
		m.SetPlayError(errors.New("device busy"))

		if err := m.Play(); err == nil {
			t.Fatal("expected error")
		}
		if m.State() != Paused {
			t.Errorf("state = %v, want Paused", m.State())
		}
	})
}

func TestMock_SeekRecordsAndMoves(t *testing.T) {
	m := NewLoadedMock(time.Minute)

	m.SeekTo(2010 * time.Millisecond)
	m.SeekTo(0)

	calls := m.SeekCalls()
	if len(calls) != 2 || calls[0] != 2010*time.Millisecond || calls[1] != 0 {
		t.Errorf("SeekCalls() = %v", calls)
	}
	if m.Position() != 0 {
		t.Errorf("Position() = %v, want 0", m.Position())
	}
}

func TestMock_SimulateFinished(t *testing.T) {
	m := NewLoadedMock(10 * time.Second)

	m.SimulateFinished()
	m.SimulateFinished()

	select {
	case <-m.Done():
	default:
		t.Fatal("Done not closed")
	}
	if m.Position() != 10*time.Second {
		t.Errorf("Position() = %v, want 10s", m.Position())
	}
}
