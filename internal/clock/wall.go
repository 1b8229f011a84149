package clock

import "time"

// TimeProvider is the wall clock a Wall follows
type TimeProvider interface {
	Now() time.Time
}

// Wall is a silent clock that follows wall time while playing.
// It stands in for an audio track that could not be loaded.
type Wall struct {
	now      TimeProvider
	duration time.Duration

	playing bool
	started time.Time     // Wall time playback last resumed
	elapsed time.Duration // Position at the last pause
}

func NewWall(now TimeProvider, duration time.Duration) *Wall {
	return &Wall{now: now, duration: duration}
}

func (w *Wall) Position() (time.Duration, bool) {
	if !w.playing {
		return w.elapsed, true
	}
	return w.elapsed + w.now.Now().Sub(w.started), true
}

func (w *Wall) Duration() (time.Duration, bool) {
	return w.duration, w.duration > 0
}

func (w *Wall) Ended() bool {
	if w.duration <= 0 {
		return false
	}
	p, _ := w.Position()
	return p >= w.duration
}

func (w *Wall) Play() error {
	if w.playing {
		return nil
	}
	w.playing = true
	w.started = w.now.Now()
	return nil
}

func (w *Wall) Pause() {
	if !w.playing {
		return
	}
	w.elapsed, _ = w.Position()
	w.playing = false
}

func (w *Wall) Reset() error {
	w.elapsed = 0
	w.started = w.now.Now()
	return nil
}
