package engine

import (
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"git.lost.host/meutraa/lanes/internal/clock"
	"git.lost.host/meutraa/lanes/internal/game"
)

type harness struct {
	session *Session
	clock   *clock.Manual
	time    *clock.MockTimeProvider
	events  []Event
}

func newHarness(chart *game.Chart) *harness {
	h := &harness{
		clock: clock.NewManual(0),
		time:  clock.NewMockTimeProvider(time.Unix(1000, 0)),
	}
	h.session = New(DefaultTuning(),
		WithTimeProvider(h.time),
		WithLogger(log.New(io.Discard, "", 0)),
		WithListener(func(e Event) { h.events = append(h.events, e) }),
	)
	if nil != chart {
		if err := h.session.Select(chart, h.clock); nil != err {
			panic(err)
		}
	}
	return h
}

// play starts the session and runs the countdown out
func (h *harness) play(t *testing.T) {
	if err := h.session.Start(); nil != err {
		t.Fatalf("unable to start: %v", err)
	}
	for i := 0; i < DefaultTuning().Countdown; i++ {
		h.time.Advance(DefaultTuning().CountdownStep)
		h.session.Tick()
	}
	if h.session.State() != Playing {
		t.Fatalf("expected playing after countdown, got %v", h.session.State())
	}
}

func (h *harness) at(position time.Duration) {
	h.clock.Set(position)
	h.session.Tick()
}

func (h *harness) count(kind EventKind) int {
	n := 0
	for _, e := range h.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (h *harness) resolved() map[int][]game.Judgement {
	out := map[int][]game.Judgement{}
	for _, e := range h.events {
		if e.Kind == NoteResolved {
			out[e.Note.Index] = append(out[e.Note.Index], e.Judgement)
		}
	}
	return out
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func chartOf(duration time.Duration, notes ...game.Note) *game.Chart {
	return &game.Chart{Notes: notes, Duration: duration}
}

func TestEndToEnd(t *testing.T) {
	h := newHarness(chartOf(2*time.Second,
		game.Note{Time: ms(1000), Lane: 0},
		game.Note{Time: ms(1500), Lane: 2},
	))
	h.play(t)

	missedAt := time.Duration(-1)
	for i := 0; i <= 20 && h.session.State() == Playing; i++ {
		now := time.Duration(i) * 100 * time.Millisecond
		before := h.session.Score().Counts[game.Miss]
		h.at(now)
		if h.session.Score().Counts[game.Miss] != before {
			missedAt = now
		}
		if now == time.Second {
			j, ok := h.session.Press(0)
			if !ok || j != game.Perfect {
				t.Fatalf("press at 1.0 gave %v %v", j, ok)
			}
			if s := h.session.Score(); s.Score != 300 || s.Combo != 1 {
				t.Fatalf("after perfect: %+v", s)
			}
		}
	}

	if missedAt != ms(1800) {
		t.Log("second note missed at", missedAt)
		t.Fail()
	}
	if s := h.session.Score(); s.Score != 250 || s.Combo != 0 || s.LastJudgement != game.Miss {
		t.Log("score", s)
		t.Fail()
	}
	if h.session.State() != Ended {
		t.Fatalf("expected ended at 2.0, got %v", h.session.State())
	}
	if len(h.session.Active()) != 0 {
		t.Fail()
	}

	h.time.Advance(ms(100))
	h.session.Tick()
	if h.count(SessionEnded) != 0 {
		t.Fatal("final score reported before the end delay")
	}
	h.time.Advance(ms(100))
	h.session.Tick()
	if h.count(SessionEnded) != 1 || h.session.State() != Idle {
		t.Fatalf("expected final report and idle, got %v", h.session.State())
	}
	final := h.events[len(h.events)-2]
	if final.Kind != SessionEnded || final.Score.Score != 250 {
		t.Log("final event", final)
		t.Fail()
	}
	if h.clock.Playing() {
		t.Log("audio still playing after report")
		t.Fail()
	}
}

func TestStartWithoutChart(t *testing.T) {
	h := newHarness(nil)
	if err := h.session.Start(); !errors.Is(err, ErrNoChart) {
		t.Fatalf("expected ErrNoChart, got %v", err)
	}
	if h.session.State() != Idle || len(h.events) != 0 {
		t.Fail()
	}
	if s := h.session.Score(); s.Score != 0 || s.Combo != 0 {
		t.Fail()
	}
}

func TestSpawnMonotonic(t *testing.T) {
	notes := []game.Note{}
	for i := 0; i < 40; i++ {
		notes = append(notes, game.Note{Time: ms(250 * i), Lane: i % 4})
	}
	h := newHarness(chartOf(20*time.Second, notes...))
	h.play(t)

	activatedAt := map[int]time.Duration{}
	samples := []int{0, 0, 30, 31, 700, 700, 2000, 2600, 5000, 5001, 9000}
	for _, s := range samples {
		h.events = h.events[:0]
		h.at(ms(s))
		for _, e := range h.events {
			if e.Kind != NoteActivated {
				continue
			}
			if _, ok := activatedAt[e.Note.Index]; ok {
				t.Fatalf("note %v activated twice", e.Note.Index)
			}
			activatedAt[e.Note.Index] = ms(s)
			if ms(s)+DefaultTuning().Preload < e.Note.Time {
				t.Log("note activated too early", e.Note)
				t.Fail()
			}
		}
	}
	// everything up to 9s + 2s of preload
	if len(activatedAt) != 40 {
		t.Log("activated", len(activatedAt))
		t.Fail()
	}
}

func TestSpawnPreloadBoundary(t *testing.T) {
	h := newHarness(chartOf(10*time.Second,
		game.Note{Time: ms(3000), Lane: 1},
		game.Note{Time: ms(3001), Lane: 1},
	))
	h.play(t)
	h.at(ms(1000))
	if n := len(h.session.Active()); n != 1 {
		t.Log("active", n)
		t.Fail()
	}
}

func TestSpawnSkipsInvalidLanes(t *testing.T) {
	h := newHarness(chartOf(10*time.Second,
		game.Note{Time: ms(500), Lane: 7},
		game.Note{Time: ms(600), Lane: -1},
		game.Note{Time: ms(700), Lane: 3},
	))
	h.play(t)
	h.at(0)
	active := h.session.Active()
	if len(active) != 1 || active[0].Index != 2 {
		t.Log("active", active)
		t.Fail()
	}
}

var windowTests = map[time.Duration]game.Judgement{
	ms(1000):                        game.Perfect,
	ms(1120):                        game.Perfect,
	ms(880):                         game.Perfect,
	ms(1120) + 100*time.Microsecond: game.Good,
	ms(1250):                        game.Good,
	ms(750):                         game.Good,
	ms(1250) + 100*time.Microsecond: game.None,
	ms(750) - 100*time.Microsecond:  game.None,
}

func TestWindowBoundaries(t *testing.T) {
	for press, expected := range windowTests {
		h := newHarness(chartOf(10*time.Second, game.Note{Time: ms(1000), Lane: 0}))
		h.play(t)
		h.at(0)

		h.clock.Set(press)
		j, ok := h.session.Press(0)
		if j != expected || ok != expected.Hit() {
			t.Log("press   ", press)
			t.Log("out     ", j, ok)
			t.Log("expected", expected)
			t.Fail()
			continue
		}

		s := h.session.Score()
		active := len(h.session.Active())
		switch expected {
		case game.Perfect:
			if s.Score != 300 || s.Combo != 1 || active != 0 {
				t.Log(press, s, active)
				t.Fail()
			}
		case game.Good:
			if s.Score != 100 || s.Combo != 1 || active != 0 {
				t.Log(press, s, active)
				t.Fail()
			}
		case game.None:
			if s.Score != 0 || s.LastJudgement != game.None || active != 1 {
				t.Log(press, s, active)
				t.Fail()
			}
		}
	}
}

func TestTieBreakPrefersChartOrder(t *testing.T) {
	h := newHarness(chartOf(10*time.Second,
		game.Note{Time: ms(950), Lane: 1},
		game.Note{Time: ms(1050), Lane: 1},
	))
	h.play(t)
	h.at(0)
	h.clock.Set(ms(1000))
	if _, ok := h.session.Press(1); !ok {
		t.Fatal("expected a hit")
	}
	active := h.session.Active()
	if len(active) != 1 || active[0].Index != 1 {
		t.Log("remaining", active)
		t.Fail()
	}
}

func TestPressIgnoresOtherLanes(t *testing.T) {
	h := newHarness(chartOf(10*time.Second, game.Note{Time: ms(1000), Lane: 2}))
	h.play(t)
	h.at(ms(1000))
	for _, lane := range []int{0, 1, 3, 4, -1, 99} {
		if j, ok := h.session.Press(lane); ok || j != game.None {
			t.Log("lane", lane, j)
			t.Fail()
		}
	}
	if len(h.session.Active()) != 1 || h.count(NoteResolved) != 0 {
		t.Fail()
	}
}

func TestNoDoubleResolution(t *testing.T) {
	h := newHarness(chartOf(10*time.Second,
		game.Note{Time: ms(1000), Lane: 0},
		game.Note{Time: ms(1000), Lane: 0},
		game.Note{Time: ms(2000), Lane: 3},
	))
	h.play(t)
	h.at(ms(1000))
	h.session.Press(0)
	h.session.Press(0)
	if _, ok := h.session.Press(0); ok {
		t.Fatal("third press hit a note that no longer exists")
	}
	for i := 11; i <= 40; i++ {
		h.at(time.Duration(i) * 100 * time.Millisecond)
	}

	resolved := h.resolved()
	if len(resolved) != 3 {
		t.Log("resolved", resolved)
		t.Fail()
	}
	for index, js := range resolved {
		if len(js) != 1 {
			t.Log("note", index, "resolved", js)
			t.Fail()
		}
	}
	if resolved[0][0] != game.Perfect || resolved[1][0] != game.Perfect || resolved[2][0] != game.Miss {
		t.Log("resolved", resolved)
		t.Fail()
	}
}

func TestMissWithoutInput(t *testing.T) {
	h := newHarness(chartOf(10*time.Second, game.Note{Time: ms(1000), Lane: 3}))
	h.play(t)
	h.at(ms(1250))
	if h.count(NoteResolved) != 0 {
		t.Fatal("missed at the window edge")
	}
	h.at(ms(1250) + time.Microsecond)
	if r := h.resolved(); len(r[0]) != 1 || r[0][0] != game.Miss {
		t.Log("resolved", r)
		t.Fail()
	}
}

func TestScoreFloorOnMisses(t *testing.T) {
	h := newHarness(chartOf(10*time.Second,
		game.Note{Time: ms(100), Lane: 0},
		game.Note{Time: ms(100), Lane: 1},
		game.Note{Time: ms(100), Lane: 2},
	))
	h.play(t)
	h.at(0)
	h.at(ms(1000))
	s := h.session.Score()
	if s.Score != 0 || s.Counts[game.Miss] != 3 {
		t.Log("score", s)
		t.Fail()
	}
}

func TestLatePressIsNotAMiss(t *testing.T) {
	h := newHarness(chartOf(10*time.Second, game.Note{Time: ms(1000), Lane: 0}))
	h.play(t)
	h.at(ms(1200))
	h.clock.Set(ms(1260))
	if _, ok := h.session.Press(0); ok {
		t.Fatal("late press judged")
	}
	if s := h.session.Score(); s.LastJudgement != game.None || s.Counts[game.Miss] != 0 {
		t.Fatal("late press counted as a miss")
	}
	h.session.Tick()
	if s := h.session.Score(); s.Counts[game.Miss] != 1 {
		t.Log("score", s)
		t.Fail()
	}
}

func TestCountdownBlocksTicksAndInput(t *testing.T) {
	h := newHarness(chartOf(10*time.Second, game.Note{Time: 0, Lane: 0}))
	if err := h.session.Start(); nil != err {
		t.Fatal(err)
	}
	h.at(0)
	if h.session.State() != Countdown || len(h.session.Active()) != 0 {
		t.Fatal("ticked during countdown")
	}
	if _, ok := h.session.Press(0); ok {
		t.Fatal("input accepted during countdown")
	}
	if h.clock.Plays != 0 {
		t.Fatal("audio started during countdown")
	}

	h.time.Advance(3 * time.Second)
	h.session.Tick()
	if h.session.State() != Playing || h.clock.Plays != 1 {
		t.Fatalf("expected playing, got %v", h.session.State())
	}

	remaining := []int{}
	for _, e := range h.events {
		if e.Kind == CountdownTick {
			remaining = append(remaining, e.Remaining)
		}
	}
	if len(remaining) != 3 || remaining[0] != 3 || remaining[1] != 2 || remaining[2] != 1 {
		t.Log("countdown", remaining)
		t.Fail()
	}
}

func TestStopCancelsCountdown(t *testing.T) {
	h := newHarness(chartOf(10*time.Second, game.Note{Time: ms(500), Lane: 0}))
	h.session.Start()
	h.time.Advance(time.Second)
	h.session.Tick()
	h.session.Stop()
	if h.session.State() != Idle {
		t.Fatal("expected idle after stop")
	}

	// a stale countdown must not start playback
	h.time.Advance(10 * time.Second)
	h.session.Tick()
	if h.session.State() != Idle || h.clock.Plays != 0 {
		t.Fatal("countdown fired after stop")
	}

	// a new session gets a full countdown
	h.session.Start()
	h.time.Advance(2 * time.Second)
	h.session.Tick()
	if h.session.State() != Countdown {
		t.Fatalf("new countdown cut short, state %v", h.session.State())
	}
	h.time.Advance(time.Second)
	h.session.Tick()
	if h.session.State() != Playing {
		t.Fatal("expected playing")
	}
}

func TestStopWhilePlaying(t *testing.T) {
	h := newHarness(chartOf(10*time.Second, game.Note{Time: ms(1000), Lane: 0}))
	h.play(t)
	h.at(ms(500))
	h.session.Stop()
	if h.session.State() != Idle || len(h.session.Active()) != 0 || h.clock.Playing() {
		t.Fatal("stop left the session running")
	}
	if p, _ := h.clock.Position(); p != 0 {
		t.Log("clock not rewound", p)
		t.Fail()
	}
	h.at(ms(2000))
	if h.count(NoteResolved) != 0 {
		t.Fatal("ticked after stop")
	}
	if _, ok := h.session.Press(0); ok {
		t.Fatal("press accepted after stop")
	}
	if h.count(SessionEnded) != 0 {
		t.Fatal("stopped session reported a final score")
	}
}

func TestStopCancelsFinalReport(t *testing.T) {
	h := newHarness(chartOf(time.Second))
	h.play(t)
	h.at(time.Second)
	if h.session.State() != Ended {
		t.Fatal("expected ended")
	}
	h.session.Stop()
	h.time.Advance(time.Second)
	h.session.Tick()
	if h.count(SessionEnded) != 0 || h.session.State() != Idle {
		t.Fail()
	}
}

// stopOn builds a harness whose listener stops the session on the first event of kind
func stopOn(kind EventKind, chart *game.Chart) *harness {
	h := newHarness(nil)
	stopped := false
	h.session = New(DefaultTuning(),
		WithTimeProvider(h.time),
		WithLogger(log.New(io.Discard, "", 0)),
		WithListener(func(e Event) {
			h.events = append(h.events, e)
			if e.Kind == kind && !stopped {
				stopped = true
				h.session.Stop()
			}
		}),
	)
	if err := h.session.Select(chart, h.clock); nil != err {
		panic(err)
	}
	return h
}

func TestStopFromListenerDuringSpawn(t *testing.T) {
	h := stopOn(NoteActivated, chartOf(time.Second,
		game.Note{Time: ms(500), Lane: 0},
		game.Note{Time: ms(700), Lane: 1},
	))
	h.play(t)
	h.at(time.Second)

	if h.session.State() != Idle || len(h.session.Active()) != 0 {
		t.Log("state ", h.session.State())
		t.Log("active", h.session.Active())
		t.Fail()
	}
	if n := h.count(NoteActivated); n != 1 {
		t.Log("activated after stop", n)
		t.Fail()
	}

	h.time.Advance(time.Second)
	h.at(2 * time.Second)
	if h.count(SessionEnded) != 0 || h.session.State() != Idle {
		t.Log("stopped session was reported, state", h.session.State())
		t.Fail()
	}
}

func TestStopFromListenerDuringSweep(t *testing.T) {
	h := stopOn(NoteResolved, chartOf(10*time.Second,
		game.Note{Time: ms(100), Lane: 0},
		game.Note{Time: ms(200), Lane: 1},
	))
	h.play(t)
	h.at(0)
	h.at(time.Second)

	if h.session.State() != Idle || len(h.session.Active()) != 0 {
		t.Fail()
	}
	if n := h.count(NoteResolved); n != 1 {
		t.Log("resolved after stop", n)
		t.Fail()
	}
	if s := h.session.Score(); s.Counts[game.Miss] != 1 {
		t.Log("misses", s.Counts[game.Miss])
		t.Fail()
	}
	if h.count(SessionEnded) != 0 {
		t.Fail()
	}
}

func TestRestartResetsState(t *testing.T) {
	h := newHarness(chartOf(10*time.Second, game.Note{Time: ms(1000), Lane: 0}))
	h.play(t)
	h.at(ms(1000))
	h.session.Press(0)
	if h.session.Score().Score != 300 {
		t.Fatal("expected a perfect")
	}
	h.play(t)
	if s := h.session.Score(); s.Score != 0 || s.Combo != 0 {
		t.Fatalf("score not reset: %+v", s)
	}
	h.at(ms(1000))
	if len(h.session.Active()) != 1 {
		t.Fatal("chart cursor not reset")
	}
}

func TestEndOnClockEnded(t *testing.T) {
	h := newHarness(chartOf(0, game.Note{Time: ms(1000), Lane: 0}))
	h.play(t)
	h.at(ms(500))
	h.clock.SetEnded(true)
	h.session.Tick()
	if h.session.State() != Ended || len(h.session.Active()) != 0 {
		t.Fail()
	}
}

func TestEndDurationFallbacks(t *testing.T) {
	// chart duration unknown, clock knows it
	h := newHarness(chartOf(0))
	h.clock = clock.NewManual(3 * time.Second)
	h.session.Select(h.session.Chart(), h.clock)
	h.play(t)
	h.at(ms(2999))
	if h.session.State() != Playing {
		t.Fatal("ended early")
	}
	h.at(3 * time.Second)
	if h.session.State() != Ended {
		t.Fatal("expected end at clock duration")
	}

	// neither knows, the sentinel applies
	h = newHarness(chartOf(0))
	h.play(t)
	h.at(time.Hour)
	if h.session.State() != Playing {
		t.Fatal("ended before the fallback duration")
	}
	h.at(DefaultTuning().Fallback)
	if h.session.State() != Ended {
		t.Fatal("expected end at the fallback duration")
	}
}

func TestUnreadyClockSkipsFrames(t *testing.T) {
	h := newHarness(chartOf(time.Second, game.Note{Time: ms(100), Lane: 0}))
	h.play(t)
	h.clock.SetReady(false)
	h.at(5 * time.Second)
	if h.session.State() != Playing || h.count(NoteActivated) != 0 {
		t.Fatal("ticked on an unready clock")
	}
	if _, ok := h.session.Press(0); ok {
		t.Fatal("judged on an unready clock")
	}
	h.clock.SetReady(true)
	h.session.Tick()
	if h.session.State() != Ended {
		t.Fatal("expected the session to catch up")
	}
}

func TestPlayFailureIsNotFatal(t *testing.T) {
	h := newHarness(chartOf(10*time.Second, game.Note{Time: ms(1000), Lane: 0}))
	h.clock.PlayErr = errors.New("autoplay blocked")
	h.play(t)
	h.at(ms(1000))
	if j, ok := h.session.Press(0); !ok || j != game.Perfect {
		t.Fatal("expected the engine to keep running off the clock")
	}
}

func TestNoClockProceedsToPlaying(t *testing.T) {
	h := newHarness(nil)
	h.session.Select(chartOf(time.Second, game.Note{Time: 0, Lane: 0}), nil)
	h.play(t)
	h.session.Tick()
	if h.session.State() != Playing || h.count(NoteActivated) != 0 {
		t.Fail()
	}
}

func TestSelectWhilePlaying(t *testing.T) {
	h := newHarness(chartOf(10 * time.Second))
	h.play(t)
	if err := h.session.Select(chartOf(time.Second), nil); !errors.Is(err, ErrSessionActive) {
		t.Fatalf("expected ErrSessionActive, got %v", err)
	}
}

func TestOffsetShiftsJudging(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Offset = ms(-200)
	tuning.Countdown = 0
	mc := clock.NewManual(0)
	s := New(tuning, WithLogger(log.New(io.Discard, "", 0)))
	s.Select(chartOf(10*time.Second, game.Note{Time: ms(1000), Lane: 0}), mc)
	if err := s.Start(); nil != err || s.State() != Playing {
		t.Fatal("expected immediate play without a countdown")
	}
	mc.Set(ms(1200))
	s.Tick()
	if j, ok := s.Press(0); !ok || j != game.Perfect {
		t.Log("judgement", j)
		t.Fail()
	}
}

func TestScoreEventsFollowResolution(t *testing.T) {
	h := newHarness(chartOf(10*time.Second, game.Note{Time: ms(1000), Lane: 0}))
	h.play(t)
	h.at(ms(1000))
	h.events = h.events[:0]
	h.session.Press(0)
	if len(h.events) != 2 || h.events[0].Kind != NoteResolved || h.events[1].Kind != ScoreChanged {
		t.Fatalf("events %v", h.events)
	}
	if h.events[1].Score.Score != 300 || h.events[0].Session != h.session.ID {
		t.Fail()
	}
}

func BenchmarkPress(b *testing.B) {
	notes := make([]game.Note, 64)
	for i := range notes {
		notes[i] = game.Note{Time: ms(10 * i), Lane: i % 4}
	}
	for n := 0; n < b.N; n++ {
		s := New(DefaultTuning(), WithLogger(log.New(io.Discard, "", 0)))
		c := clock.NewManual(0)
		s.tuning.Countdown = 0
		s.Select(&game.Chart{Notes: notes, Duration: time.Minute}, c)
		s.Start()
		s.Tick()
		for i := 0; i < 64; i++ {
			c.Set(ms(10 * i))
			s.Press(i % 4)
		}
	}
}
