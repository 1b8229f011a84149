package score

import (
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
)

// Scorer turns resolved notes into a running score
type Scorer interface {
	Reset()
	Hit(judgement game.Judgement, offset time.Duration)
	Miss()
	Snapshot() Snapshot
}

// Windows are the inclusive absolute distances a press may be from a note
type Windows struct {
	Perfect time.Duration
	Good    time.Duration
}

// Points awarded per judgement, Miss is subtracted
type Points struct {
	Perfect int
	Good    int
	Miss    int
}

type Snapshot struct {
	Score         int
	Combo         int
	MaxCombo      int
	LastJudgement game.Judgement
	Counts        [4]int // Indexed by game.Judgement
	Mean, Stdev   time.Duration
}
