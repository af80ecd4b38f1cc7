//go:build linux

package input

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
)

// From linux/input-event-codes.h
const (
	evKey = 0x01

	keyReleased = 0
	keyPressed  = 1
)

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Evdev reads a keyboard device such as /dev/input/event3 directly. Unlike a
// terminal it reports key releases, and events carry the kernel's timestamp.
// Reading a device usually needs membership of the input group.
type Evdev struct {
	file   *os.File
	base   uint8
	events chan Event
}

func OpenEvdev(path string, base uint8) (*Evdev, error) {
	if path == "" {
		return nil, errors.New("evdev input needs a device path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v: %w", path, err)
	}
	e := &Evdev{file: file, base: base, events: make(chan Event, 128)}
	go e.read(file)
	return e, nil
}

func (e *Evdev) read(r io.Reader) {
	defer close(e.events)

	var ev keyEvent
	for {
		err := binary.Read(r, binary.LittleEndian, &ev)
		if nil != err {
			if !errors.Is(err, os.ErrClosed) && !errors.Is(err, io.EOF) {
				log.Error("unable to read keyboard input", "err", err)
			}
			return
		}
		out, ok := translateCode(&ev, e.base)
		if !ok {
			continue
		}
		select {
		case e.events <- out:
		default:
			log.Warn("dropped keyboard input, frame loop is behind", "note", out.Note, "command", out.Command)
		}
	}
}

func translateCode(ev *keyEvent, base uint8) (Event, bool) {
	if ev.Type != evKey || (ev.Value != keyPressed && ev.Value != keyReleased) {
		// Autorepeat and everything that is not a key
		return Event{}, false
	}
	pressed := ev.Value == keyPressed
	sec, nsec := ev.Time.Unix()
	at := time.Unix(sec, nsec)

	if cmd, ok := codeCommands[ev.Code]; ok {
		if !pressed {
			return Event{}, false
		}
		out := Event{Command: cmd.Command, Percent: cmd.Percent, Time: at}
		return out, true
	}
	r, ok := codeRunes[ev.Code]
	if !ok {
		return Event{}, false
	}
	note, ok := runeNote(r, base)
	if !ok {
		return Event{}, false
	}
	return Event{Note: note, Pressed: pressed, Time: at}, true
}

var codeRunes = map[uint16]rune{
	17: 'w', 18: 'e', 20: 't', 21: 'y', 22: 'u', 24: 'o', 25: 'p',
	30: 'a', 31: 's', 32: 'd', 33: 'f', 34: 'g', 35: 'h', 36: 'j',
	37: 'k', 38: 'l', 39: ';', 40: '\'',
}

var codeCommands = map[uint16]Event{
	1:   {Command: Quit},
	16:  {Command: Quit},
	57:  {Command: TogglePause},
	105: {Command: Back},
	106: {Command: Forward},
	11:  {Command: Jump, Percent: 0},
	2:   {Command: Jump, Percent: 0.1},
	3:   {Command: Jump, Percent: 0.2},
	4:   {Command: Jump, Percent: 0.3},
	5:   {Command: Jump, Percent: 0.4},
	6:   {Command: Jump, Percent: 0.5},
	7:   {Command: Jump, Percent: 0.6},
	8:   {Command: Jump, Percent: 0.7},
	9:   {Command: Jump, Percent: 0.8},
	10:  {Command: Jump, Percent: 0.9},
}

func (e *Evdev) Events() <-chan Event {
	return e.events
}

func (e *Evdev) Close() error {
	return e.file.Close()
}
