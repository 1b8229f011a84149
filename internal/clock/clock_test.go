package clock

import (
	"testing"
	"time"

	"git.lost.host/meutraa/lanes/internal/engine"
)

var (
	_ engine.Clock        = (*Manual)(nil)
	_ engine.Clock        = (*Wall)(nil)
	_ engine.TimeProvider = (*MockTimeProvider)(nil)
)

func TestWallFollowsTimeWhilePlaying(t *testing.T) {
	mock := NewMockTimeProvider(time.Unix(100, 0))
	w := NewWall(mock, 3*time.Second)

	mock.Advance(time.Second)
	if p, _ := w.Position(); p != 0 {
		t.Log("moved before play", p)
		t.Fail()
	}

	w.Play()
	mock.Advance(1500 * time.Millisecond)
	if p, _ := w.Position(); p != 1500*time.Millisecond {
		t.Log("position", p)
		t.Fail()
	}

	w.Pause()
	mock.Advance(time.Hour)
	if p, _ := w.Position(); p != 1500*time.Millisecond {
		t.Log("moved while paused", p)
		t.Fail()
	}

	w.Play()
	mock.Advance(1500 * time.Millisecond)
	if !w.Ended() {
		t.Log("expected end at duration")
		t.Fail()
	}

	w.Reset()
	if p, _ := w.Position(); p != 0 || w.Ended() {
		t.Log("position after reset", p)
		t.Fail()
	}
}

func TestWallUnknownDurationNeverEnds(t *testing.T) {
	mock := NewMockTimeProvider(time.Unix(0, 0))
	w := NewWall(mock, 0)
	w.Play()
	mock.Advance(24 * time.Hour)
	if _, ok := w.Duration(); ok || w.Ended() {
		t.Fail()
	}
}

func TestManualNotReady(t *testing.T) {
	m := NewManual(0)
	m.Set(time.Second)
	m.SetReady(false)
	if _, ok := m.Position(); ok {
		t.Fail()
	}
	m.SetReady(true)
	if p, ok := m.Position(); !ok || p != time.Second {
		t.Fail()
	}
}
