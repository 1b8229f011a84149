package input

import (
	"log"

	"github.com/eiannone/keyboard"
)

// Keyboard reads key presses from the terminal
type Keyboard struct {
	mapping Mapping
	keys    <-chan keyboard.KeyEvent
}

func OpenKeyboard(mapping Mapping) (*Keyboard, error) {
	keys, err := keyboard.GetKeys(128)
	if nil != err {
		return nil, err
	}
	return &Keyboard{mapping: mapping, keys: keys}, nil
}

// Translate maps a terminal key to an event, ok is false for keys that do nothing
func (k *Keyboard) Translate(key keyboard.KeyEvent) (Event, bool) {
	if key.Key == keyboard.KeyEsc || key.Key == keyboard.KeyCtrlC {
		return Event{Stop: true}, true
	}
	r := key.Rune
	if key.Key == keyboard.KeySpace {
		r = ' '
	}
	lane, err := k.mapping.Lane(r)
	if nil != err {
		return Event{}, false
	}
	return Event{Lane: lane}, true
}

// Forward sends mapped presses to events until the keyboard is closed
func (k *Keyboard) Forward(events chan<- Event) {
	for key := range k.keys {
		if nil != key.Err {
			log.Println("unable to read keyboard", key.Err)
			return
		}
		if e, ok := k.Translate(key); ok {
			send(events, e, "keyboard")
		}
	}
}

func (k *Keyboard) Close() error {
	return keyboard.Close()
}
