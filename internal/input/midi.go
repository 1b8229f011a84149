package input

import (
	"fmt"
	"log"

	"gitlab.com/gomidi/midi/v2"
)

// MIDILane maps a note start to a lane, counting lanes up from base.
// A note on with zero velocity is a release and maps to nothing.
func MIDILane(msg midi.Message, base uint8, lanes int) (int, bool) {
	var ch, key, vel uint8
	if !msg.GetNoteStart(&ch, &key, &vel) {
		return -1, false
	}
	lane := int(key) - int(base)
	if lane < 0 || lane >= lanes {
		return -1, false
	}
	return lane, true
}

// ListenMIDI forwards pad hits from the first input port whose name
// contains port. A MIDI driver must be registered by the caller.
func ListenMIDI(port string, base uint8, lanes int, events chan<- Event) (stop func(), err error) {
	in, err := midi.FindInPort(port)
	if nil != err {
		return nil, fmt.Errorf("unable to find midi port %q: %w", port, err)
	}
	stop, err = midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		if lane, ok := MIDILane(msg, base, lanes); ok {
			send(events, Event{Lane: lane}, "midi")
		}
	}, midi.HandleError(func(err error) {
		log.Println("midi input error", err)
	}))
	if nil != err {
		return nil, fmt.Errorf("unable to listen to %v: %w", in, err)
	}
	return stop, nil
}
