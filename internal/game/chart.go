package game

import (
	"sort"
	"time"
)

// Chart is the note sequence of one (song, difficulty) pair, sorted by time.
// It is not modified once loaded; play state lives in the engine.
type Chart struct {
	Notes      []Note
	Difficulty Difficulty
	Duration   time.Duration // Declared length of the song, 0 if unknown
}

// Sort orders the notes by time, keeping authoring order for equal times
func (c *Chart) Sort() {
	sort.SliceStable(c.Notes, func(i, j int) bool {
		return c.Notes[i].Time < c.Notes[j].Time
	})
}

// LaneCounts returns the number of playable notes per lane
func (c *Chart) LaneCounts(lanes int) []int {
	counts := make([]int, lanes)
	for _, n := range c.Notes {
		if n.InLanes(lanes) {
			counts[n.Lane]++
		}
	}
	return counts
}

// Last returns the time of the final note, or 0 for an empty chart
func (c *Chart) Last() time.Duration {
	if len(c.Notes) == 0 {
		return 0
	}
	return c.Notes[len(c.Notes)-1].Time
}

type Song struct {
	ID       string
	Title    string
	BPM      float64
	Duration time.Duration
	Audio    string // Path or reference to the audio file, passed to the audio loader untouched
	Charts   []*Chart
}

// Chart finds the chart for a difficulty name, case insensitive
func (s *Song) Chart(difficulty string) (*Chart, bool) {
	for _, c := range s.Charts {
		if c.Difficulty.Is(difficulty) {
			return c, true
		}
	}
	return nil, false
}
