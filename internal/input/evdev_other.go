//go:build !linux

package input

import "errors"

type Evdev struct{}

func OpenEvdev(path string, base uint8) (*Evdev, error) {
	return nil, errors.New("evdev input is only available on linux")
}

func (e *Evdev) Events() <-chan Event {
	return nil
}

func (e *Evdev) Close() error {
	return nil
}
