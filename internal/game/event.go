package game

import (
	"time"

	"gitlab.com/gomidi/midi/v2"
)

// PercussionChannel is the General MIDI drum channel. Its notes are sounded
// but never required from the player.
const PercussionChannel = 9

type Event struct {
	Time    time.Duration // Offset from the start of the file, lead-in excluded
	Track   int           // The source track in the file
	Channel uint8
	Message midi.Message
}

// Note reports the key of a note-on or note-off event. A note-on with zero
// velocity is a note-off.
func (e *Event) Note() (key uint8, on bool, ok bool) {
	var ch, vel uint8
	switch {
	case e.Message.GetNoteStart(&ch, &key, &vel):
		return key, true, true
	case e.Message.GetNoteEnd(&ch, &key):
		return key, false, true
	}
	return 0, false, false
}

func (e *Event) IsPercussion() bool {
	return e.Channel == PercussionChannel
}
