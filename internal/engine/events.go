package engine

import (
	"github.com/google/uuid"

	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/score"
)

type EventKind uint8

const (
	NoteActivated EventKind = iota
	NoteResolved
	ScoreChanged
	SessionEnded
	StateChanged
	CountdownTick
)

var eventNames = [...]string{
	NoteActivated: "note-activated",
	NoteResolved:  "note-resolved",
	ScoreChanged:  "score-changed",
	SessionEnded:  "session-ended",
	StateChanged:  "state-changed",
	CountdownTick: "countdown-tick",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event is everything a renderer needs to project the session.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind
	Session uuid.UUID

	Note      ActiveNote     // NoteActivated, NoteResolved
	Judgement game.Judgement // NoteResolved
	Score     score.Snapshot // ScoreChanged, SessionEnded
	From, To  State          // StateChanged
	Remaining int            // CountdownTick
}

// Listener receives events synchronously from within Tick, Press, Start and Stop
type Listener func(Event)
