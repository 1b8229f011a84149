package engine

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/score"
)

var (
	ErrNoChart       = errors.New("no chart selected, choose a song and difficulty first")
	ErrSessionActive = errors.New("a session is in progress, stop it first")
)

type State uint8

const (
	Idle State = iota
	Countdown
	Playing
	Ended
)

var stateNames = [...]string{
	Idle:      "idle",
	Countdown: "countdown",
	Playing:   "playing",
	Ended:     "ended",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Session drives one chart against a clock.
//
// A Session is not safe for concurrent use. The host calls Tick once per
// frame and Press for each key, all from the same goroutine, so every call
// runs to completion before the next one starts.
type Session struct {
	ID uuid.UUID

	tuning   Tuning
	log      *log.Logger
	now      TimeProvider
	listener Listener
	scorer   score.Scorer

	chart *game.Chart
	clock Clock

	state   State
	running bool
	epoch   uint64 // Bumped by Start and Stop, a tick in flight from an older epoch stops early
	cursor  int
	active  activeSet

	countdown int       // Steps left before playback
	nextStep  time.Time // When the next countdown step fires
	reportAt  time.Time // When the final score of an ended session is reported
}

type Option func(*Session)

func WithListener(l Listener) Option {
	return func(s *Session) { s.listener = l }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.log = l }
}

func WithTimeProvider(p TimeProvider) Option {
	return func(s *Session) { s.now = p }
}

func WithScorer(sc score.Scorer) Option {
	return func(s *Session) { s.scorer = sc }
}

func New(tuning Tuning, opts ...Option) *Session {
	s := &Session{
		tuning: tuning,
		log:    log.Default(),
		now:    SystemTime{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if nil == s.scorer {
		s.scorer = score.NewTracker(tuning.Points)
	}
	return s
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Chart() *game.Chart {
	return s.chart
}

func (s *Session) Score() score.Snapshot {
	return s.scorer.Snapshot()
}

// Active returns a copy of the notes waiting to be hit, in chart order
func (s *Session) Active() []ActiveNote {
	return append([]ActiveNote(nil), s.active...)
}

// Position is the clock position used for judging, including the offset
func (s *Session) Position() (time.Duration, bool) {
	if nil == s.clock {
		return 0, false
	}
	p, ok := s.clock.Position()
	if !ok {
		return 0, false
	}
	return p + s.tuning.Offset, true
}

// Select picks the chart and clock of the next session.
// A nil clock is allowed, the session then waits for no audio.
func (s *Session) Select(chart *game.Chart, clock Clock) error {
	if s.state == Countdown || s.state == Playing {
		return ErrSessionActive
	}
	s.chart = chart
	s.clock = clock
	return nil
}

// Start resets the score and begins the countdown.
// Starting while a session is counting down or playing restarts it.
func (s *Session) Start() error {
	if nil == s.chart {
		return ErrNoChart
	}
	switch s.state {
	case Countdown, Playing:
		s.halt()
	case Ended:
		s.report()
	}

	s.epoch++
	s.ID = uuid.New()
	s.cursor = 0
	s.active.clear()
	s.scorer.Reset()
	s.emit(Event{Kind: ScoreChanged, Score: s.scorer.Snapshot()})
	if nil != s.clock {
		if err := s.clock.Reset(); nil != err {
			s.log.Printf("session %v: unable to rewind audio: %v", s.ID, err)
		}
	}

	s.countdown = s.tuning.Countdown
	if s.countdown <= 0 {
		s.play()
		return nil
	}
	s.nextStep = s.now.Now().Add(s.tuning.CountdownStep)
	s.setState(Countdown)
	s.emit(Event{Kind: CountdownTick, Remaining: s.countdown})
	return nil
}

// Stop abandons the session from any state and returns to Idle
func (s *Session) Stop() {
	if s.state == Idle {
		return
	}
	s.halt()
}

// Tick advances the session by one host frame
func (s *Session) Tick() {
	switch s.state {
	case Countdown:
		s.tickCountdown()
	case Playing:
		s.tickPlaying()
	case Ended:
		if !s.now.Now().Before(s.reportAt) {
			s.report()
		}
	}
}

// Press judges a key press in lane at the current clock position.
// ok is false when the press changed nothing: not playing, unknown lane,
// no note in the lane, or no note within the good window.
func (s *Session) Press(lane int) (game.Judgement, bool) {
	if s.state != Playing || !s.running {
		return game.None, false
	}
	if lane < 0 || lane >= s.tuning.Lanes {
		return game.None, false
	}
	at, ok := s.Position()
	if !ok {
		return game.None, false
	}
	return s.judge(lane, at)
}

func (s *Session) tickCountdown() {
	now := s.now.Now()
	for !now.Before(s.nextStep) {
		s.countdown--
		if s.countdown <= 0 {
			s.play()
			return
		}
		s.nextStep = s.nextStep.Add(s.tuning.CountdownStep)
		s.emit(Event{Kind: CountdownTick, Remaining: s.countdown})
	}
}

func (s *Session) tickPlaying() {
	if !s.running {
		return
	}
	if nil == s.clock {
		return
	}
	position, ok := s.clock.Position()
	if !ok {
		return
	}
	at := position + s.tuning.Offset
	epoch := s.epoch

	s.spawn(at, epoch)
	if !s.live(epoch) {
		return
	}
	s.sweep(at, epoch)
	if !s.live(epoch) {
		return
	}

	if s.clock.Ended() || position >= s.duration() {
		s.end()
	}
}

// live reports whether the tick started in epoch may carry on.
// A listener can stop or restart the session from inside the tick.
func (s *Session) live(epoch uint64) bool {
	return s.epoch == epoch && s.running && s.state == Playing
}

func (s *Session) duration() time.Duration {
	if s.chart.Duration > 0 {
		return s.chart.Duration
	}
	if nil != s.clock {
		if d, ok := s.clock.Duration(); ok && d > 0 {
			return d
		}
	}
	return s.tuning.Fallback
}

func (s *Session) play() {
	s.countdown = 0
	s.running = true
	s.setState(Playing)
	if nil == s.clock {
		s.log.Printf("session %v: no audio clock, notes will not move", s.ID)
		return
	}
	if err := s.clock.Play(); nil != err {
		s.log.Printf("session %v: unable to start audio, playing without it: %v", s.ID, err)
	}
}

func (s *Session) end() {
	s.running = false
	s.active.clear()
	s.reportAt = s.now.Now().Add(s.tuning.EndDelay)
	s.setState(Ended)
}

func (s *Session) report() {
	if nil != s.clock {
		s.clock.Pause()
	}
	s.emit(Event{Kind: SessionEnded, Score: s.scorer.Snapshot()})
	s.reportAt = time.Time{}
	s.setState(Idle)
}

// halt stops playback and cancels pending countdown and end timers
func (s *Session) halt() {
	s.epoch++
	s.running = false
	if nil != s.clock {
		s.clock.Pause()
		if err := s.clock.Reset(); nil != err {
			s.log.Printf("session %v: unable to rewind audio: %v", s.ID, err)
		}
	}
	s.active.clear()
	s.countdown = 0
	s.nextStep = time.Time{}
	s.reportAt = time.Time{}
	s.setState(Idle)
}

func (s *Session) setState(to State) {
	from := s.state
	if from == to {
		return
	}
	s.state = to
	s.emit(Event{Kind: StateChanged, From: from, To: to})
}

func (s *Session) emit(e Event) {
	if nil == s.listener {
		return
	}
	e.Session = s.ID
	s.listener(e)
}
