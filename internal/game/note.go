package game

import (
	"math"
	"time"
)

type Note struct {
	Time  time.Duration // The time the note should be hit
	Lane  int           // The input lane, 0 is leftmost
	Denom int           // The beat length, as a denominator, 4 = 1/4 beat, 0 if unknown
}

// Seconds converts a chart time in seconds to a Duration, rounded to the nanosecond
func Seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// InLanes reports whether the note can be played on a layout of n lanes
func (n Note) InLanes(lanes int) bool {
	return n.Lane >= 0 && n.Lane < lanes
}
