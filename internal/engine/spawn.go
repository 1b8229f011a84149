package engine

import "time"

// spawn activates every note due within the preload window of at.
// The cursor only moves forward, so a note is never activated twice.
func (s *Session) spawn(at time.Duration, epoch uint64) {
	notes := s.chart.Notes
	for s.live(epoch) && s.cursor < len(notes) && notes[s.cursor].Time <= at+s.tuning.Preload {
		n := ActiveNote{Index: s.cursor, Note: notes[s.cursor]}
		s.cursor++
		if !n.InLanes(s.tuning.Lanes) {
			s.log.Printf("session %v: skipping note %v at %v, lane %v out of range", s.ID, n.Index, n.Time, n.Lane)
			continue
		}
		s.active.add(n)
		s.emit(Event{Kind: NoteActivated, Note: n})
	}
}
