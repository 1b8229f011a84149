package parser

import (
	"errors"

	"git.lost.host/meutraa/lanes/internal/game"
)

var ErrNoNotes = errors.New("no playable charts found")

type Parser interface {
	Parse(file string) ([]*game.Song, error)
}

// For picks a parser by file extension
func For(file string) (Parser, error) {
	switch ext(file) {
	case ".json":
		return &CatalogParser{}, nil
	case ".sm":
		return &StepManiaParser{}, nil
	}
	return nil, errors.New("unsupported chart file " + file)
}
