package engine

import (
	"time"

	"git.lost.host/meutraa/lanes/internal/score"
)

// Tuning holds the timing and scoring constants of a session
type Tuning struct {
	Lanes    int
	Preload  time.Duration // How far ahead of its hit time a note becomes active
	Windows  score.Windows
	Points   score.Points
	Offset   time.Duration // Added to the clock position, positive if audio lags input
	Fallback time.Duration // Song length when neither chart nor clock know it

	Countdown     int           // Number of countdown steps before playback
	CountdownStep time.Duration // Wall time between countdown steps
	EndDelay      time.Duration // Wall time between the song ending and the final score
}

func DefaultTuning() Tuning {
	return Tuning{
		Lanes:   4,
		Preload: 2 * time.Second,
		Windows: score.Windows{
			Perfect: 120 * time.Millisecond,
			Good:    250 * time.Millisecond,
		},
		Points: score.Points{
			Perfect: 300,
			Good:    100,
			Miss:    50,
		},
		Fallback:      9999 * time.Second,
		Countdown:     3,
		CountdownStep: time.Second,
		EndDelay:      200 * time.Millisecond,
	}
}
