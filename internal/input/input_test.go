package input

import (
	"errors"
	"testing"
	"time"

	"github.com/eiannone/keyboard"
	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2"
)

var keyTests = []struct {
	Key      keyboard.KeyEvent
	Expected []Event
}{
	{Key: keyboard.KeyEvent{Key: keyboard.KeyEsc}, Expected: []Event{{Command: Quit}}},
	{Key: keyboard.KeyEvent{Key: keyboard.KeyCtrlC}, Expected: []Event{{Command: Quit}}},
	{Key: keyboard.KeyEvent{Rune: 'q'}, Expected: []Event{{Command: Quit}}},
	{Key: keyboard.KeyEvent{Key: keyboard.KeySpace}, Expected: []Event{{Command: TogglePause}}},
	{Key: keyboard.KeyEvent{Key: keyboard.KeyArrowLeft}, Expected: []Event{{Command: Back}}},
	{Key: keyboard.KeyEvent{Key: keyboard.KeyArrowRight}, Expected: []Event{{Command: Forward}}},
	{Key: keyboard.KeyEvent{Rune: '0'}, Expected: []Event{{Command: Jump, Percent: 0}}},
	{Key: keyboard.KeyEvent{Rune: '5'}, Expected: []Event{{Command: Jump, Percent: 0.5}}},
	{Key: keyboard.KeyEvent{Rune: 'z'}, Expected: nil},
}

func TestTranslateKeyCommands(t *testing.T) {
	for _, test := range keyTests {
		out := translateKey(test.Key, 60, time.Time{})
		assert.Equal(t, test.Expected, out, "key %v rune %q", test.Key.Key, test.Key.Rune)
	}
}

func TestTranslateKeyNotes(t *testing.T) {
	now := time.Unix(10, 0)

	out := translateKey(keyboard.KeyEvent{Rune: 'a'}, 60, now)
	assert.Equal(t, []Event{
		{Note: 60, Pressed: true, Time: now},
		{Note: 60, Pressed: false, Time: now},
	}, out)

	out = translateKey(keyboard.KeyEvent{Rune: 'w'}, 48, now)
	assert.Len(t, out, 2)
	assert.Equal(t, uint8(49), out[0].Note)
	assert.True(t, out[0].IsNote())
}

func TestRuneNoteStaysInMidiRange(t *testing.T) {
	_, ok := runeNote('\'', 120)
	assert.False(t, ok)

	note, ok := runeNote('k', 115)
	assert.True(t, ok)
	assert.Equal(t, uint8(127), note)
}

func TestTranslateMessage(t *testing.T) {
	now := time.Unix(10, 0)

	ev, ok := translateMessage(midi.NoteOn(3, 64, 90), now)
	assert.True(t, ok)
	assert.Equal(t, Event{Note: 64, Pressed: true, Time: now}, ev)

	ev, ok = translateMessage(midi.NoteOn(3, 64, 0), now)
	assert.True(t, ok)
	assert.False(t, ev.Pressed)

	ev, ok = translateMessage(midi.NoteOff(0, 21), now)
	assert.True(t, ok)
	assert.Equal(t, uint8(21), ev.Note)

	_, ok = translateMessage(midi.ControlChange(0, 64, 127), now)
	assert.False(t, ok)
}

func TestDrain(t *testing.T) {
	events := make(chan Event, 4)
	assert.Empty(t, Drain(events))

	events <- Event{Note: 60, Pressed: true}
	events <- Event{Command: Quit}
	out := Drain(events)
	assert.Len(t, out, 2)
	assert.Equal(t, Quit, out[1].Command)

	close(events)
	assert.Empty(t, Drain(events))
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open("theremin", Options{})
	assert.True(t, errors.Is(err, ErrUnknownSource))
}
