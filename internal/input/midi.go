package input

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// MIDI listens to a MIDI input port such as a digital piano. A driver must be
// registered by importing one.
type MIDI struct {
	port   drivers.In
	stop   func()
	events chan Event
}

// OpenMIDI opens the port named port, or with that index when port is a
// number. An empty port opens the first one.
func OpenMIDI(port string) (*MIDI, error) {
	var in drivers.In
	var err error
	if index, perr := strconv.Atoi(port); perr == nil {
		in, err = midi.InPort(index)
	} else if port == "" {
		in, err = midi.InPort(0)
	} else {
		in, err = midi.FindInPort(port)
	}
	if nil != err {
		return nil, fmt.Errorf("unable to find midi input %q: %w", port, err)
	}

	m := &MIDI{port: in, events: make(chan Event, 128)}
	stop, err := midi.ListenTo(in, m.receive, midi.HandleError(func(err error) {
		log.Warn("midi input error", "port", in.String(), "err", err)
	}))
	if nil != err {
		return nil, fmt.Errorf("unable to listen to %v: %w", in, err)
	}
	m.stop = stop
	log.Info("opened midi input", "port", in.String())
	return m, nil
}

func (m *MIDI) receive(msg midi.Message, _ int32) {
	ev, ok := translateMessage(msg, time.Now())
	if !ok {
		return
	}
	select {
	case m.events <- ev:
	default:
		log.Warn("dropped midi input, frame loop is behind", "note", ev.Note)
	}
}

func translateMessage(msg midi.Message, now time.Time) (Event, bool) {
	var ch, key, vel uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		return Event{Note: key, Pressed: true, Time: now}, true
	case msg.GetNoteEnd(&ch, &key):
		return Event{Note: key, Pressed: false, Time: now}, true
	}
	return Event{}, false
}

func (m *MIDI) Events() <-chan Event {
	return m.events
}

func (m *MIDI) Close() error {
	m.stop()
	return m.port.Close()
}
