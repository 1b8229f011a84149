package config

import (
	"testing"
	"time"

	"git.lost.host/meutraa/lanes/internal/engine"
)

func TestDefaults(t *testing.T) {
	c, err := Parse([]string{"play", "songs.json", "-s", "song_sample"})
	if nil != err {
		t.Fatalf("unable to parse: %v", err)
	}
	d := engine.DefaultTuning()
	if c.Command != Play || c.Source != "songs.json" || c.Song != "song_sample" || c.Difficulty != "normal" {
		t.Log("config", c)
		t.Fail()
	}
	if c.Tuning != d {
		t.Log("tuning  ", c.Tuning)
		t.Log("expected", d)
		t.Fail()
	}
	if c.Keys != "dfjk" || c.FramePeriod != 4*time.Millisecond || c.MIDIBase != 36 {
		t.Log("config", c)
		t.Fail()
	}
}

func TestPlayIsDefaultCommand(t *testing.T) {
	c, err := Parse([]string{"chart.sm"})
	if nil != err {
		t.Fatal(err)
	}
	if c.Command != Play || c.Source != "chart.sm" {
		t.Fail()
	}
}

func TestOverrides(t *testing.T) {
	c, err := Parse([]string{"play", "db:song", "-k", "sdfjkl", "--good=300ms", "--offset=-20ms", "--countdown=0"})
	if nil != err {
		t.Fatal(err)
	}
	if c.Tuning.Lanes != 6 || c.Tuning.Windows.Good != 300*time.Millisecond || c.Tuning.Offset != -20*time.Millisecond || c.Tuning.Countdown != 0 {
		t.Log("tuning", c.Tuning)
		t.Fail()
	}
	if id, ok := c.FromDatabase(); !ok || id != "song" {
		t.Fail()
	}
}

func TestInvalid(t *testing.T) {
	tests := [][]string{
		{"play"},
		{"play", "a.json", "-k", "dd"},
		{"play", "a.json", "--perfect=300ms"},
		{"play", "a.json", "-p", "0s"},
		{"list"},
		{"nope", "a", "b"},
	}
	for _, args := range tests {
		if _, err := Parse(args); nil == err {
			t.Log("accepted", args)
			t.Fail()
		}
	}
}

func TestListAndImport(t *testing.T) {
	c, err := Parse([]string{"--db", "x.db", "import", "songs.json"})
	if nil != err || c.Command != Import || c.Database != "x.db" {
		t.Log(c, err)
		t.Fail()
	}
	c, err = Parse([]string{"list", "db:"})
	if nil != err || c.Command != List {
		t.Log(c, err)
		t.Fail()
	}
	if _, ok := c.FromDatabase(); !ok {
		t.Fail()
	}
}
