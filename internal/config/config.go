package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"git.lost.host/meutraa/lanes/internal/engine"
)

const (
	Play   = "play"
	List   = "list"
	Import = "import"
)

const DatabasePrefix = "db:"

type Config struct {
	Command string
	Source  string // .json catalog, .sm chart, song directory or db:<id>

	Song       string
	Difficulty string
	Keys       string

	Tuning      engine.Tuning
	FramePeriod time.Duration

	Evdev    string
	MIDIPort string
	MIDIBase uint8

	Database string
	LogFile  string
}

// Parse reads the command line, args excludes the program name
func Parse(args []string) (*Config, error) {
	c := &Config{}
	d := engine.DefaultTuning()

	app := kingpin.New("lanes", "Hit the notes as they reach the bar.")
	app.Version("0.3.0")
	app.Flag("db", "Song library").Default("./songs.db").StringVar(&c.Database)
	app.Flag("log", "Write logs to this file instead of stderr").StringVar(&c.LogFile)

	play := app.Command(Play, "Play a chart").Default()
	play.Arg("source", "Catalog (.json), chart (.sm), song directory or db:<id>").Required().StringVar(&c.Source)
	play.Flag("song", "Song id in a catalog").Short('s').StringVar(&c.Song)
	play.Flag("difficulty", "Difficulty name").Short('d').Default("normal").StringVar(&c.Difficulty)
	play.Flag("keys", "One key per lane, left to right").Short('k').Default("dfjk").StringVar(&c.Keys)
	play.Flag("preload", "How early notes appear").Default(d.Preload.String()).DurationVar(&c.Tuning.Preload)
	play.Flag("perfect", "Perfect window").Default(d.Windows.Perfect.String()).DurationVar(&c.Tuning.Windows.Perfect)
	play.Flag("good", "Good window").Default(d.Windows.Good.String()).DurationVar(&c.Tuning.Windows.Good)
	play.Flag("offset", "Global offset added to the audio position").Short('o').Default("0s").DurationVar(&c.Tuning.Offset)
	play.Flag("countdown", "Countdown steps before the song").Default(fmt.Sprint(d.Countdown)).IntVar(&c.Tuning.Countdown)
	play.Flag("end-delay", "Pause before the final score").Default(d.EndDelay.String()).DurationVar(&c.Tuning.EndDelay)
	play.Flag("frame-period", "Render frame period").Short('p').Default("4ms").DurationVar(&c.FramePeriod)
	play.Flag("evdev", "Read keys from this input device instead of the terminal").StringVar(&c.Evdev)
	play.Flag("midi", "Also read pads from the MIDI port containing this name").StringVar(&c.MIDIPort)
	play.Flag("midi-base", "MIDI note of the leftmost lane").Default("36").Uint8Var(&c.MIDIBase)

	list := app.Command(List, "List songs and difficulties")
	list.Arg("source", "Catalog (.json), chart (.sm), song directory or db:").Required().StringVar(&c.Source)

	imp := app.Command(Import, "Import songs into the library")
	imp.Arg("source", "Catalog (.json) or chart (.sm)").Required().StringVar(&c.Source)

	command, err := app.Parse(args)
	if nil != err {
		return nil, err
	}
	c.Command = command

	c.Tuning.Lanes = len([]rune(c.Keys))
	c.Tuning.Points = d.Points
	c.Tuning.Fallback = d.Fallback
	c.Tuning.CountdownStep = d.CountdownStep

	if err := c.validate(); nil != err {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Command != Play {
		return nil
	}
	if c.Tuning.Lanes == 0 {
		return errors.New("at least one key is required")
	}
	if len(uniq(c.Keys)) != c.Tuning.Lanes {
		return fmt.Errorf("keys %q repeat a key", c.Keys)
	}
	if c.Tuning.Windows.Perfect < 0 || c.Tuning.Windows.Good < c.Tuning.Windows.Perfect {
		return errors.New("the perfect window must fit inside the good window")
	}
	if c.FramePeriod <= 0 {
		return errors.New("frame period must be positive")
	}
	return nil
}

// FromDatabase returns the song id when the source names the library
func (c *Config) FromDatabase() (string, bool) {
	if !strings.HasPrefix(c.Source, DatabasePrefix) {
		return "", false
	}
	return strings.TrimPrefix(c.Source, DatabasePrefix), true
}

func uniq(s string) map[rune]bool {
	m := map[rune]bool{}
	for _, r := range strings.ToLower(s) {
		m[r] = true
	}
	return m
}
