//go:build linux

package input

import (
	"encoding/binary"
	"log"
	"os"
	"syscall"
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
const (
	evKey  = 0x01
	keyEsc = 1
)

var evdevCodes = map[rune]uint16{
	'q': 16, 'w': 17, 'e': 18, 'r': 19, 't': 20, 'y': 21, 'u': 22, 'i': 23, 'o': 24, 'p': 25,
	'a': 30, 's': 31, 'd': 32, 'f': 33, 'g': 34, 'h': 35, 'j': 36, 'k': 37, 'l': 38, ';': 39,
	'z': 44, 'x': 45, 'c': 46, 'v': 47, 'b': 48, 'n': 49, 'm': 50, ',': 51, '.': 52, '/': 53,
	' ': 57,
}

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// EvdevLane maps a kernel key code to a lane
func (m Mapping) EvdevLane(code uint16) (int, error) {
	for i, r := range m.keys {
		if c, ok := evdevCodes[r]; ok && c == code {
			return i, nil
		}
	}
	return -1, ErrUnmapped
}

// translate turns a raw key press into an event, releases and repeats are dropped
func (m Mapping) translate(ev keyEvent) (Event, bool) {
	if ev.Type != evKey || ev.Value != 1 {
		return Event{}, false
	}
	if ev.Code == keyEsc {
		return Event{Stop: true}, true
	}
	lane, err := m.EvdevLane(ev.Code)
	if nil != err {
		return Event{}, false
	}
	return Event{Lane: lane}, true
}

// ReadEvdev reads presses straight from a keyboard device such as
// /dev/input/event3, skipping the terminal's key repeat and buffering.
func ReadEvdev(device string, mapping Mapping, events chan<- Event) error {
	file, err := os.Open(device)
	if err != nil {
		return err
	}
	go func() {
		defer file.Close()

		var ev keyEvent
		for {
			err = binary.Read(file, binary.LittleEndian, &ev)
			if nil != err {
				log.Println(err, "unable to read keyboard input")
				return
			}
			if e, ok := mapping.translate(ev); ok {
				send(events, e, "evdev")
			}
		}
	}()
	return nil
}
