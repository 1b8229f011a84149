package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"git.lost.host/meutraa/lanes/internal/audio"
	"git.lost.host/meutraa/lanes/internal/clock"
	"git.lost.host/meutraa/lanes/internal/config"
	"git.lost.host/meutraa/lanes/internal/engine"
	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/input"
	"git.lost.host/meutraa/lanes/internal/render"
	"git.lost.host/meutraa/lanes/internal/theme"
)

// How long the final score stays on screen without a key press
const linger = 10 * time.Second

type Program struct {
	Config *config.Config

	Renderer render.Renderer
	Theme    theme.Theme

	song    *game.Song
	chart   *game.Chart
	track   *audio.Track
	clock   engine.Clock
	session *engine.Session
	view    *render.View

	events   chan input.Event
	keyboard *input.Keyboard
	stopMIDI func()
	screen   bool // Renderer holds the terminal
}

func (p *Program) Init() error {
	c := p.Config

	songs, err := loadSongs(c)
	if nil != err {
		return err
	}
	if p.song, err = pickSong(songs, c.Song); nil != err {
		return err
	}
	chart, ok := p.song.Chart(c.Difficulty)
	if !ok {
		names := []string{}
		for _, ch := range p.song.Charts {
			names = append(names, ch.Difficulty.Name)
		}
		return fmt.Errorf("%v has no %v chart, try one of %v", p.song.ID, c.Difficulty, strings.Join(names, ", "))
	}
	p.chart = chart
	if counts := chart.LaneCounts(c.Tuning.Lanes); len(chart.Notes) != sum(counts) {
		log.Printf("%v notes fall outside the %v lanes and will be skipped", len(chart.Notes)-sum(counts), c.Tuning.Lanes)
	}

	p.clock = p.openClock()

	// Ensure our Default implementations are used as interfaces
	if nil == p.Renderer {
		p.Renderer = render.NewDefaultRenderer()
	}
	if nil == p.Theme {
		p.Theme = &theme.DefaultTheme{}
	}

	p.events = make(chan input.Event, 128)
	mapping := input.NewMapping(c.Keys)
	if c.Evdev != "" {
		if err := input.ReadEvdev(c.Evdev, mapping, p.events); nil != err {
			return fmt.Errorf("unable to open %v: %w", c.Evdev, err)
		}
	} else {
		if p.keyboard, err = input.OpenKeyboard(mapping); nil != err {
			return fmt.Errorf("unable to open keyboard: %w", err)
		}
		go p.keyboard.Forward(p.events)
	}
	if c.MIDIPort != "" {
		if p.stopMIDI, err = input.ListenMIDI(c.MIDIPort, c.MIDIBase, mapping.Lanes(), p.events); nil != err {
			return err
		}
	}

	if err := p.Renderer.Init(); nil != err {
		return fmt.Errorf("unable to prepare terminal: %w", err)
	}
	p.screen = true
	p.view = render.NewView(p.Renderer, p.Theme, c.Tuning.Lanes, c.Tuning.Preload)
	p.session = engine.New(c.Tuning, engine.WithListener(p.view.Handle))
	return p.session.Select(p.chart, p.clock)
}

// openClock plays the song's audio, or follows wall time when there is none
func (p *Program) openClock() engine.Clock {
	duration := p.chart.Duration
	if duration <= 0 {
		duration = p.song.Duration
	}
	if duration <= 0 && len(p.chart.Notes) > 0 {
		duration = p.chart.Last() + p.Config.Tuning.Windows.Good + time.Second
	}
	fallback := clock.NewWall(engine.SystemTime{}, duration)
	if p.song.Audio == "" {
		log.Printf("%v has no audio, playing silently", p.song.ID)
		return fallback
	}
	track, err := audio.Open(p.song.Audio)
	if nil != err {
		log.Printf("unable to open %v, playing silently: %v", p.song.Audio, err)
		return fallback
	}
	if err := track.Init(); nil != err {
		log.Printf("unable to start speaker, playing silently: %v", err)
		track.Close()
		return fallback
	}
	p.track = track
	return track
}

func (p *Program) Deinit() {
	p.restore()
	if nil != p.stopMIDI {
		p.stopMIDI()
	}
	if nil != p.keyboard {
		if err := p.keyboard.Close(); nil != err {
			log.Println("unable to close keyboard", err)
		}
	}
	if nil != p.track {
		if err := p.track.Close(); nil != err {
			log.Println("unable to close audio", err)
		}
	}
}

func (p *Program) restore() {
	if !p.screen {
		return
	}
	p.screen = false
	if err := p.Renderer.Deinit(); nil != err {
		log.Println("unable to restore terminal", err)
	}
}

func (p *Program) Run() error {
	if err := p.session.Start(); nil != err {
		return err
	}
	log.Printf("session %v: %v %v, %v notes", p.session.ID, p.song.ID, p.chart.Difficulty.Name, len(p.chart.Notes))

	p.Renderer.RenderLoop(p.Config.FramePeriod, p.frame)

	final := p.view.Final()
	if nil == final {
		return nil
	}
	select {
	case <-p.events:
	case <-time.After(linger):
	}
	p.restore()

	fmt.Printf("%v (%v)\n", p.song.Title, p.chart.Difficulty.Name)
	fmt.Printf("  Score: %v  Max combo: %v\n", final.Score, final.MaxCombo)
	for _, j := range []game.Judgement{game.Perfect, game.Good, game.Miss} {
		fmt.Printf("  %7v: %v\n", j, final.Counts[j])
	}
	fmt.Printf("  Mean: %v  Stdev: %v\n", final.Mean.Round(time.Microsecond), final.Stdev.Round(time.Microsecond))
	return nil
}

// frame drains the input, advances the session and draws it
func (p *Program) frame(now time.Time) bool {
	for i := len(p.events); i > 0; i-- {
		e := <-p.events
		if e.Stop {
			p.session.Stop()
			return false
		}
		p.session.Press(e.Lane)
	}

	p.session.Tick()
	position, ok := p.session.Position()
	p.view.Draw(p.session.Active(), position, ok)
	return p.session.State() != engine.Idle
}

func pickSong(songs []*game.Song, id string) (*game.Song, error) {
	if id == "" {
		if len(songs) > 1 {
			log.Printf("%v songs found, playing %v", len(songs), songs[0].ID)
		}
		return songs[0], nil
	}
	for _, s := range songs {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no song %q", id)
}

func sum(counts []int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}
