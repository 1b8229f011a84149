package engine

import (
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/score"
)

// judge resolves a press in lane at against the nearest active note of that lane.
// A press with no note inside the good window changes nothing, it is never a miss.
func (s *Session) judge(lane int, at time.Duration) (game.Judgement, bool) {
	i, d := s.active.closest(lane, at)
	if i < 0 {
		return game.None, false
	}
	j := s.tuning.Windows.Classify(d)
	if !j.Hit() {
		return game.None, false
	}

	n := s.active.remove(i)
	s.scorer.Hit(j, score.Distance(n.Time, at))
	s.emit(Event{Kind: NoteResolved, Note: n, Judgement: j})
	s.emit(Event{Kind: ScoreChanged, Score: s.scorer.Snapshot()})
	return j, true
}
