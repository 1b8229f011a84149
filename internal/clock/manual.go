package clock

import (
	"errors"
	"time"
)

var ErrNotReady = errors.New("clock is not ready")

// Manual is a clock moved by hand, for simulations and tests.
// It implements engine.Clock.
type Manual struct {
	position time.Duration
	duration time.Duration // 0 means unknown
	ended    bool
	ready    bool
	playing  bool

	// PlayErr is returned by Play, to simulate a player that refuses to start
	PlayErr error
	Plays   int
}

func NewManual(duration time.Duration) *Manual {
	return &Manual{duration: duration, ready: true}
}

func (m *Manual) Position() (time.Duration, bool) {
	if !m.ready {
		return 0, false
	}
	return m.position, true
}

func (m *Manual) Duration() (time.Duration, bool) {
	return m.duration, m.duration > 0
}

func (m *Manual) Ended() bool {
	return m.ended
}

func (m *Manual) Play() error {
	m.Plays++
	if nil != m.PlayErr {
		return m.PlayErr
	}
	m.playing = true
	return nil
}

func (m *Manual) Pause() {
	m.playing = false
}

func (m *Manual) Reset() error {
	m.position = 0
	m.ended = false
	return nil
}

func (m *Manual) Playing() bool {
	return m.playing
}

// Set moves the playback position
func (m *Manual) Set(position time.Duration) {
	m.position = position
}

func (m *Manual) SetEnded(ended bool) {
	m.ended = ended
}

// SetReady makes Position report an unready clock when false
func (m *Manual) SetReady(ready bool) {
	m.ready = ready
}
