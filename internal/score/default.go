package score

import (
	"math"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
)

func abs(x time.Duration) time.Duration {
	if x < 0 {
		return -x
	}
	return x
}

// Distance is the signed offset of a press from a note, positive when early
func Distance(note time.Duration, hitTime time.Duration) time.Duration {
	return note - hitTime
}

// AbsDistance is the unsigned offset of a press from a note
func AbsDistance(note time.Duration, hitTime time.Duration) time.Duration {
	return abs(note - hitTime)
}

// Classify maps an absolute distance to Perfect, Good or None.
// Both windows include their upper bound.
func (w Windows) Classify(d time.Duration) game.Judgement {
	d = abs(d)
	switch {
	case d <= w.Perfect:
		return game.Perfect
	case d <= w.Good:
		return game.Good
	}
	return game.None
}

func (p Points) For(j game.Judgement) int {
	switch j {
	case game.Perfect:
		return p.Perfect
	case game.Good:
		return p.Good
	case game.Miss:
		return -p.Miss
	}
	return 0
}

// Tracker is the score and combo state of one session
type Tracker struct {
	points Points

	score    int
	combo    int
	maxCombo int
	last     game.Judgement
	counts   [4]int
	offsets  []time.Duration
}

func NewTracker(points Points) *Tracker {
	return &Tracker{points: points}
}

func (t *Tracker) Reset() {
	t.score, t.combo, t.maxCombo = 0, 0, 0
	t.last = game.None
	t.counts = [4]int{}
	t.offsets = t.offsets[:0]
}

// Hit records a Perfect or Good, anything else is ignored
func (t *Tracker) Hit(judgement game.Judgement, offset time.Duration) {
	if !judgement.Hit() {
		return
	}
	t.score += t.points.For(judgement)
	t.combo++
	if t.combo > t.maxCombo {
		t.maxCombo = t.combo
	}
	t.last = judgement
	t.counts[judgement]++
	t.offsets = append(t.offsets, offset)
}

// Miss breaks the combo and takes the penalty, the score never drops below zero
func (t *Tracker) Miss() {
	t.score += t.points.For(game.Miss)
	if t.score < 0 {
		t.score = 0
	}
	t.combo = 0
	t.last = game.Miss
	t.counts[game.Miss]++
}

func (t *Tracker) Snapshot() Snapshot {
	s := Snapshot{
		Score:         t.score,
		Combo:         t.combo,
		MaxCombo:      t.maxCombo,
		LastJudgement: t.last,
		Counts:        t.counts,
	}
	s.Mean, s.Stdev = t.stats()
	return s
}

func (t *Tracker) stats() (time.Duration, time.Duration) {
	n := len(t.offsets)
	if n == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, o := range t.offsets {
		sum += float64(o)
	}
	mean := sum / float64(n)
	if n == 1 {
		return time.Duration(mean), 0
	}
	stdev := 0.0
	for _, o := range t.offsets {
		xi := float64(o) - mean
		stdev += xi * xi
	}
	stdev /= float64(n - 1)
	return time.Duration(math.Round(mean)), time.Duration(math.Round(math.Sqrt(stdev)))
}
