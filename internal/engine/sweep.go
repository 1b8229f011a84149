package engine

import (
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
)

// sweep misses every active note whose good window has closed before at
func (s *Session) sweep(at time.Duration, epoch uint64) {
	kept := s.active[:0]
	var missed []ActiveNote
	for _, n := range s.active {
		if n.Time-at < -s.tuning.Windows.Good {
			missed = append(missed, n)
			continue
		}
		kept = append(kept, n)
	}
	s.active = kept

	for _, n := range missed {
		if !s.live(epoch) {
			return
		}
		s.scorer.Miss()
		s.emit(Event{Kind: NoteResolved, Note: n, Judgement: game.Miss})
		s.emit(Event{Kind: ScoreChanged, Score: s.scorer.Snapshot()})
	}
}
