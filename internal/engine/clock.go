package engine

import "time"

// Clock is the playback position of the song being played, usually an audio player.
// Every call is best effort, a failing clock degrades the session but never stops it.
type Clock interface {
	// Position is the current playback position, ok is false while the clock is not ready
	Position() (position time.Duration, ok bool)
	// Duration is the length of the track, ok is false if it is unknown
	Duration() (duration time.Duration, ok bool)
	Ended() bool
	Play() error
	Pause()
	Reset() error
}

// TimeProvider is the wall clock used for countdown and end delays
type TimeProvider interface {
	Now() time.Time
}

// SystemTime reads the system clock
type SystemTime struct{}

func (SystemTime) Now() time.Time {
	return time.Now()
}
