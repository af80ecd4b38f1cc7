package output

import (
	"fmt"
	"strconv"

	"git.lost.host/meutraa/keyed/internal/game"
	"github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

const ccAllNotesOff = 123

// MIDI sends events to a MIDI output port. A driver must be registered by
// importing one, e.g. gitlab.com/gomidi/midi/v2/drivers/rtmididrv.
type MIDI struct {
	port  drivers.Out
	send  func(msg midi.Message) error
	notes Sounding
}

// OpenMIDI opens the port named port, or with that index when port is a
// number. An empty port opens the first one.
func OpenMIDI(port string) (*MIDI, error) {
	var out drivers.Out
	var err error
	if index, perr := strconv.Atoi(port); perr == nil {
		out, err = midi.OutPort(index)
	} else if port == "" {
		out, err = midi.OutPort(0)
	} else {
		out, err = midi.FindOutPort(port)
	}
	if nil != err {
		return nil, fmt.Errorf("unable to find midi output %q: %w", port, err)
	}

	send, err := midi.SendTo(out)
	if nil != err {
		return nil, fmt.Errorf("unable to open midi output %v: %w", out, err)
	}
	log.Info("opened midi output", "port", out.String())
	return &MIDI{port: out, send: send}, nil
}

func (m *MIDI) Send(ev *game.Event) error {
	m.notes.Track(ev)
	return m.send(ev.Message)
}

func (m *MIDI) StopAll() {
	m.notes.Release(func(channel, key uint8) {
		if err := m.send(midi.NoteOff(channel, key)); nil != err {
			log.Warn("unable to stop note", "channel", channel, "key", key, "err", err)
		}
	})
	// Notes turned on by anything other than Send
	for ch := uint8(0); ch < 16; ch++ {
		if err := m.send(midi.ControlChange(ch, ccAllNotesOff, 0)); nil != err {
			log.Warn("unable to send all notes off", "channel", ch, "err", err)
			return
		}
	}
}

func (m *MIDI) Close() error {
	m.StopAll()
	return m.port.Close()
}
