package input

import (
	"errors"
	"log"
	"unicode"
)

var ErrUnmapped = errors.New("key is not mapped to a lane")

// Event is a key press from any input source, already mapped to a lane
type Event struct {
	Lane int
	Stop bool // The player asked to leave, Lane is unset
}

// Mapping assigns one key per lane, left to right
type Mapping struct {
	keys []rune
}

func NewMapping(keys string) Mapping {
	m := Mapping{}
	for _, r := range keys {
		m.keys = append(m.keys, unicode.ToLower(r))
	}
	return m
}

func (m Mapping) Lanes() int {
	return len(m.keys)
}

func (m Mapping) Lane(r rune) (int, error) {
	r = unicode.ToLower(r)
	for i, c := range m.keys {
		if r == c {
			return i, nil
		}
	}
	return -1, ErrUnmapped
}

// send hands e to the frame loop without blocking the reader. Events are
// dropped once the loop stops draining or falls a full buffer behind.
func send(events chan<- Event, e Event, source string) bool {
	select {
	case events <- e:
		return true
	default:
		log.Printf("%v: dropping %+v, input buffer full", source, e)
		return false
	}
}
