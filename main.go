package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.lost.host/meutraa/lanes/internal/catalog"
	"git.lost.host/meutraa/lanes/internal/config"
	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/parser"
)

func main() {
	if err := run(os.Args[1:]); nil != err {
		log.Fatalln(err)
	}
}

func run(args []string) error {
	c, err := config.Parse(args)
	if nil != err {
		return err
	}

	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if nil != err {
			return fmt.Errorf("unable to open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	switch c.Command {
	case config.List:
		return list(c)
	case config.Import:
		return importSongs(c)
	}

	p := &Program{Config: c}
	defer p.Deinit()
	if err := p.Init(); nil != err {
		return err
	}
	return p.Run()
}

// loadSongs reads every song a source names
func loadSongs(c *config.Config) ([]*game.Song, error) {
	if id, ok := c.FromDatabase(); ok {
		store, err := catalog.Open(c.Database)
		if nil != err {
			return nil, fmt.Errorf("unable to open library: %w", err)
		}
		defer store.Close()
		song, err := store.Load(id)
		if nil != err {
			return nil, err
		}
		return []*game.Song{song}, nil
	}

	info, err := os.Stat(c.Source)
	if nil != err {
		return nil, err
	}
	if !info.IsDir() {
		return parseFile(c.Source)
	}
	return walkSongs(c.Source)
}

func parseFile(file string) ([]*game.Song, error) {
	psr, err := parser.For(file)
	if nil != err {
		return nil, err
	}
	return psr.Parse(file)
}

// walkSongs parses the charts in a song directory. Songs without an audio
// reference use the audio file found next to them.
func walkSongs(dir string) ([]*game.Song, error) {
	var audioFile string
	var charts []string

	if err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		switch strings.ToLower(path.Ext(info.Name())) {
		case ".mp3", ".ogg", ".wav":
			if audioFile == "" || strings.HasSuffix(p, ".ogg") {
				audioFile = p
			}
		case ".sm", ".json":
			charts = append(charts, p)
		}
		return nil
	}); nil != err {
		return nil, fmt.Errorf("unable to walk song directory: %w", err)
	}

	if len(charts) == 0 {
		return nil, errors.New("unable to find a .sm or .json chart in " + dir)
	}

	songs := []*game.Song{}
	for _, chart := range charts {
		s, err := parseFile(chart)
		if nil != err {
			log.Printf("skipping %v: %v", chart, err)
			continue
		}
		for _, song := range s {
			if song.Audio == "" {
				song.Audio = audioFile
			}
		}
		songs = append(songs, s...)
	}
	if len(songs) == 0 {
		return nil, parser.ErrNoNotes
	}
	return songs, nil
}

func list(c *config.Config) error {
	if id, ok := c.FromDatabase(); ok && id == "" {
		store, err := catalog.Open(c.Database)
		if nil != err {
			return fmt.Errorf("unable to open library: %w", err)
		}
		defer store.Close()
		entries, err := store.List()
		if nil != err {
			return err
		}
		for _, e := range entries {
			fmt.Printf("%v  %v\n", e.ID, e.Title)
			for i, d := range e.Difficulties {
				fmt.Printf("    %-10v %5v\n", d, e.NoteCounts[i])
			}
		}
		return nil
	}

	songs, err := loadSongs(c)
	if nil != err {
		return err
	}
	for _, s := range songs {
		fmt.Printf("%v  %v\n", s.ID, s.Title)
		for _, chart := range s.Charts {
			fmt.Printf("    %-10v %5v  %v\n", chart.Difficulty.Name, len(chart.Notes), chart.Difficulty.Msd)
		}
	}
	return nil
}

func importSongs(c *config.Config) error {
	songs, err := loadSongs(c)
	if nil != err {
		return err
	}
	store, err := catalog.Open(c.Database)
	if nil != err {
		return fmt.Errorf("unable to open library: %w", err)
	}
	defer store.Close()

	for _, s := range songs {
		if err := store.Import(s); nil != err {
			return fmt.Errorf("unable to import %v: %w", s.ID, err)
		}
		fmt.Printf("imported %v (%v charts)\n", s.ID, len(s.Charts))
	}
	return nil
}
