package engine

import (
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/score"
)

// ActiveNote is a spawned note that has not been hit or missed yet
type ActiveNote struct {
	Index int // Position in the chart
	game.Note
}

// activeSet keeps notes in spawn order, which is chart order
type activeSet []ActiveNote

func (a *activeSet) add(n ActiveNote) {
	*a = append(*a, n)
}

func (a *activeSet) remove(i int) ActiveNote {
	s := *a
	n := s[i]
	copy(s[i:], s[i+1:])
	*a = s[:len(s)-1]
	return n
}

func (a *activeSet) clear() {
	*a = (*a)[:0]
}

// closest returns the index of the note in lane nearest to at.
// The first of equally near notes wins. -1 if the lane has no active note.
func (a activeSet) closest(lane int, at time.Duration) (int, time.Duration) {
	best, distance := -1, time.Duration(0)
	for i, n := range a {
		if n.Lane != lane {
			continue
		}
		d := score.AbsDistance(n.Time, at)
		if best == -1 || d < distance {
			best, distance = i, d
		}
	}
	return best, distance
}
