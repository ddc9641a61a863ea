package playback

import (
	"testing"
	"testing/synctest"
)

func TestNewSubscription_ChannelsReadable(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sub := newSubscription()

		sub.sendMode(ModeChange{Previous: ModeIdle, Current: ModePlaying})
		sub.sendVerse(VerseChange{Previous: 1, Current: 2})
		sub.sendLoop(LoopEvent{Completed: 1, Target: 0.01, VerseMode: true})

		m := <-sub.ModeChanged
		if m.Current != ModePlaying {
			t.Errorf("ModeChanged.Current = %v, want Playing", m.Current)
		}

		v := <-sub.VerseChanged
		if v.Current != 2 {
			t.Errorf("VerseChanged.Current = %d, want 2", v.Current)
		}

		l := <-sub.Looped
		if l.Completed != 1 || !l.VerseMode {
			t.Errorf("Looped = %+v, want Completed=1 VerseMode=true", l)
		}
	})
}

func TestSubscription_Close_SignalsDone(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		sub := newSubscription()
		sub.close()
		<-sub.Done
	})
}

func TestSubscription_NonBlocking_DropsWhenFull(t *testing.T) {
	sub := newSubscription()

	for range eventBufferSize + 5 {
		sub.sendMode(ModeChange{})
	}

	count := 0
	for {
		select {
		case <-sub.ModeChanged:
			count++
		default:
			goto done
		}
	}
done:
	if count != eventBufferSize {
		t.Errorf("received %d events, want %d (buffer size)", count, eventBufferSize)
	}
}
