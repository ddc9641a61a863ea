// internal/player/mock.go
package player

import (
	"sync"
	"time"
)

// Mock is a test double for Player. SeekTo moves the reported position
// immediately.
type Mock struct {
	mu         sync.Mutex
	state      State
	source     string
	position   time.Duration
	duration   time.Duration
	volume     float64
	muted      bool
	playErr    error
	loadErr    error
	loadCalls  []string
	playCalls  int
	pauseCalls int
	seekCalls  []time.Duration
	done       chan struct{}
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{
		state:  Unloaded,
		volume: 1,
		done:   make(chan struct{}),
	}
}

// NewLoadedMock returns a mock paused at 0 with the given duration.
func NewLoadedMock(duration time.Duration) *Mock {
	m := NewMock()
	m.state = Paused
	m.source = "/test.mp3"
	m.duration = duration
	return m
}

func (m *Mock) Load(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, path)
	if m.loadErr != nil {
		return m.loadErr
	}
	m.source = path
	m.position = 0
	m.state = Paused
	return nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	if m.playErr != nil {
		return m.playErr
	}
	if m.state == Unloaded {
		return ErrNotLoaded
	}
	m.state = Playing
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) SeekTo(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, d)
	m.position = d
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Source() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.source
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = min(max(level, 0), 1)
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

func (m *Mock) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *Mock) Done() <-chan struct{} {
	return m.done
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Unloaded
	m.source = ""
	return nil
}

// Test helpers

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

func (m *Mock) LoadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loadCalls...)
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCalls
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

// SimulateFinished closes Done as if the source played to its end.
func (m *Mock) SimulateFinished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = m.duration
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
