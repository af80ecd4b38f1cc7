package output

import (
	"errors"
	"fmt"

	"git.lost.host/meutraa/keyed/internal/game"
)

var ErrUnknownSink = errors.New("unknown output")

// Sink sounds song events. Every note it turns on stays tracked until a
// note-off or StopAll, so that StopAll can silence it.
type Sink interface {
	Send(ev *game.Event) error
	StopAll()
	Close() error
}

// Open returns the sink named by kind. port selects a MIDI output by name or
// index and is ignored by the other sinks.
func Open(kind, port string) (Sink, error) {
	var sink Sink
	var err error
	switch kind {
	case "midi":
		sink, err = OpenMIDI(port)
	case "synth":
		sink, err = NewSynth()
	case "none":
		sink = &Discard{}
	default:
		err = fmt.Errorf("%w: %v", ErrUnknownSink, kind)
	}
	if nil != err {
		return nil, err
	}
	return sink, nil
}

// Discard tracks notes without sounding them.
type Discard struct {
	Notes Sounding
}

func (d *Discard) Send(ev *game.Event) error {
	d.Notes.Track(ev)
	return nil
}

func (d *Discard) StopAll() {
	d.Notes.Release(func(channel, key uint8) {})
}

func (d *Discard) Close() error {
	d.StopAll()
	return nil
}
