// Package input turns keyboards into a stream of note and transport events.
package input

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownSource = errors.New("unknown input")

type Command int

const (
	None Command = iota
	TogglePause
	Back
	Forward
	Jump // Seek to Percent of the song
	Quit
)

type Event struct {
	Command Command
	Percent float64

	// Set when Command is None
	Note    uint8
	Pressed bool
	Time    time.Time
}

func (e Event) IsNote() bool {
	return e.Command == None
}

// Source delivers events on a channel until closed.
type Source interface {
	Events() <-chan Event
	Close() error
}

type Options struct {
	Port     string // MIDI port name or index, or evdev device path
	BaseNote uint8  // Note of the first key in the computer keyboard layout
}

func Open(kind string, opts Options) (Source, error) {
	var src Source
	var err error
	switch kind {
	case "terminal":
		src, err = OpenTerminal(opts.BaseNote)
	case "midi":
		src, err = OpenMIDI(opts.Port)
	case "evdev":
		src, err = OpenEvdev(opts.Port, opts.BaseNote)
	default:
		err = fmt.Errorf("%w: %v", ErrUnknownSource, kind)
	}
	if nil != err {
		return nil, err
	}
	return src, nil
}

// Drain returns the events already waiting on events, without blocking.
func Drain(events <-chan Event) []Event {
	var out []Event
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, ev)
		default:
			return out
		}
	}
}
