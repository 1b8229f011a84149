package parser

import (
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"git.lost.host/meutraa/lanes/internal/game"
)

// CatalogParser reads a JSON object of songs keyed by id:
//
//	{"song_sample": {"title": "...", "bpm": 120, "duration": 60, "audio": "assets/sample.mp3",
//	  "easy": [{"time": 1.0, "lane": 0}], "normal": [...], "hard": [...]}}
//
// Times are in seconds. Relative audio paths are resolved against the catalog directory.
type CatalogParser struct{}

func ext(file string) string {
	return strings.ToLower(path.Ext(file))
}

func (p *CatalogParser) Parse(file string) ([]*game.Song, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, err
	}
	songs, err := p.ParseBytes(data)
	if nil != err {
		return nil, fmt.Errorf("unable to parse %v: %w", file, err)
	}
	dir := filepath.Dir(file)
	for _, s := range songs {
		if s.Audio != "" && !filepath.IsAbs(s.Audio) {
			s.Audio = filepath.Join(dir, s.Audio)
		}
	}
	return songs, nil
}

func (p *CatalogParser) ParseBytes(data []byte) ([]*game.Song, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid json")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("expected an object of songs")
	}

	songs := []*game.Song{}
	root.ForEach(func(key, v gjson.Result) bool {
		if !v.IsObject() {
			log.Printf("catalog: skipping %v, not a song", key.String())
			return true
		}
		song := &game.Song{
			ID:       key.String(),
			Title:    v.Get("title").String(),
			BPM:      v.Get("bpm").Float(),
			Duration: game.Seconds(v.Get("duration").Float()),
			Audio:    v.Get("audio").String(),
		}
		if id := v.Get("id"); id.Exists() {
			song.ID = id.String()
		}
		if song.Title == "" {
			song.Title = song.ID
		}
		for _, difficulty := range game.Difficulties {
			notes := v.Get(difficulty)
			if !notes.IsArray() {
				continue
			}
			chart := &game.Chart{
				Notes:      parseNotes(song.ID, difficulty, notes),
				Difficulty: game.Difficulty{Name: difficulty, NKeys: 4},
				Duration:   song.Duration,
			}
			chart.Sort()
			song.Charts = append(song.Charts, chart)
		}
		songs = append(songs, song)
		return true
	})

	if len(songs) == 0 {
		return nil, ErrNoNotes
	}
	return songs, nil
}

func parseNotes(id, difficulty string, notes gjson.Result) []game.Note {
	out := []game.Note{}
	notes.ForEach(func(i, n gjson.Result) bool {
		t, lane := n.Get("time"), n.Get("lane")
		if t.Type != gjson.Number || lane.Type != gjson.Number {
			log.Printf("catalog: %v/%v note %v has no time or lane, skipping", id, difficulty, i.Int())
			return true
		}
		out = append(out, game.Note{
			Time: game.Seconds(t.Float()),
			Lane: int(lane.Int()),
		})
		return true
	})
	return out
}
