package parser

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"git.lost.host/meutraa/lanes/internal/game"
)

// StepManiaParser reads the tap notes of a .sm file, one chart per supported
// #NOTES section. Columns become lanes, hold heads are played as taps and
// mines, tails and fakes are dropped.
type StepManiaParser struct{}

type bpm struct {
	StartingBeat float64
	Value        float64
}

func (p *StepManiaParser) getSecondsPerNote(rates []bpm, currentBeat float64, bpn float64) float64 {
	sel := 0.0
	for _, b := range rates {
		if currentBeat >= b.StartingBeat {
			sel = b.Value
		} else {
			break
		}
	}
	if sel <= 0 {
		return 0
	}
	return bpn * 60.0 / sel
}

// 0 – No note
// 1 – Normal note
// 2 – Hold head
// 3 – Hold/Roll tail
// 4 – Roll head
// M – Mine (or other negative note)
// K – Automatic keysound
// L – Lift note
// F – Fake note
func (p *StepManiaParser) isTap(ch byte) bool {
	return ch == '1' || ch == '2' || ch == '4'
}

func (p *StepManiaParser) Parse(file string) ([]*game.Song, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, err
	}
	song, err := p.ParseBytes(data)
	if nil != err {
		return nil, fmt.Errorf("unable to parse %v: %w", file, err)
	}
	song.ID = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if song.Title == "" {
		song.Title = song.ID
	}
	if song.Audio != "" {
		song.Audio = filepath.Join(filepath.Dir(file), song.Audio)
	}
	return []*game.Song{song}, nil
}

type section struct {
	difficulty game.Difficulty
	body       string
}

func (p *StepManiaParser) ParseBytes(data []byte) (*game.Song, error) {
	str := strings.ReplaceAll(string(data), "\r", "")
	parts := strings.Split(str, "#NOTES:")
	meta := parts[0]

	sections := []section{}
	for _, part := range parts[1:] {
		lines := strings.SplitN(part, "\n", 7)
		if len(lines) < 7 {
			continue
		}
		chartType := strings.TrimSuffix(strings.TrimSpace(lines[1]), ":")
		nKeys, ok := game.NKeyMap[chartType]
		if !ok {
			continue
		}
		sections = append(sections, section{
			difficulty: game.Difficulty{
				Name:  strings.TrimSuffix(strings.TrimSpace(lines[3]), ":"),
				Msd:   strings.TrimSuffix(strings.TrimSpace(lines[4]), ":"),
				NKeys: nKeys,
			},
			body: lines[6],
		})
	}

	song := &game.Song{}
	offset := 0.0
	bpms := []bpm{}

	for _, mdl := range strings.Split(meta, "\n#") {
		mdl = strings.TrimPrefix(strings.TrimSpace(mdl), "#")
		key, value, found := strings.Cut(mdl, ":")
		if !found {
			continue
		}
		value, _, _ = strings.Cut(value, ";")
		value = strings.TrimSpace(value)
		switch key {
		case "TITLE":
			song.Title = value
		case "MUSIC":
			song.Audio = value
		case "OFFSET":
			offs, err := strconv.ParseFloat(value, 64)
			if nil != err {
				return nil, fmt.Errorf("bad offset: %w", err)
			}
			offset = -offs
		case "BPMS":
			value = strings.ReplaceAll(value, "\n", "")
			for _, b := range strings.Split(value, ",") {
				as := strings.Split(b, "=")
				if len(as) != 2 {
					return nil, fmt.Errorf("bad bpm %q", b)
				}
				sb, err := strconv.ParseFloat(strings.TrimSpace(as[0]), 64)
				if nil != err {
					return nil, fmt.Errorf("bad bpm beat: %w", err)
				}
				v, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
				if nil != err {
					return nil, fmt.Errorf("bad bpm value: %w", err)
				}
				bpms = append(bpms, bpm{StartingBeat: sb, Value: v})
			}
		}
	}
	if len(bpms) > 0 {
		song.BPM = bpms[0].Value
	}

	for _, sec := range sections {
		chart := &game.Chart{
			Notes:      p.parseNotes(sec.body, bpms, offset),
			Difficulty: sec.difficulty,
		}
		chart.Sort()
		song.Charts = append(song.Charts, chart)
	}
	if len(song.Charts) == 0 {
		return nil, ErrNoNotes
	}
	return song, nil
}

func (p *StepManiaParser) parseNotes(body string, bpms []bpm, offset float64) []game.Note {
	// Start time of first note
	seconds := offset
	currentBeat := 0.0
	notes := []game.Note{}

	body, _, _ = strings.Cut(body, ";")
	for _, block := range strings.Split(body, ",") {
		lines := []string{}
		for _, l := range strings.Split(block, "\n") {
			if strings.HasPrefix(strings.TrimSpace(l), "//") {
				continue
			}
			l = strings.TrimSpace(l)
			if len(l) > 3 {
				lines = append(lines, l)
			}
		}
		if len(lines) == 0 {
			continue
		}

		// Beat count is 4 per block
		lineCount := int64(len(lines))
		beatsPerNote := 4.0 / float64(lineCount) // 1/4, 1/8, 1/16, 1/24 etc

		for i, line := range lines {
			denom := big.NewRat(int64(i*4), lineCount).Denom().Int64()
			for lane := 0; lane < len(line); lane++ {
				if p.isTap(line[lane]) {
					notes = append(notes, game.Note{
						Time:  game.Seconds(seconds),
						Lane:  lane,
						Denom: int(denom),
					})
				}
			}
			seconds += p.getSecondsPerNote(bpms, currentBeat, beatsPerNote)
			currentBeat += beatsPerNote
		}
	}
	return notes
}
