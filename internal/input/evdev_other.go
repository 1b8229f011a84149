//go:build !linux

package input

import "errors"

func ReadEvdev(device string, mapping Mapping, events chan<- Event) error {
	return errors.New("evdev input is only available on linux")
}
