package output

import (
	"errors"
	"testing"
	"time"

	"git.lost.host/meutraa/keyed/internal/game"
	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2"
)

func on(ch, key uint8) *game.Event {
	return &game.Event{Channel: ch, Message: midi.NoteOn(ch, key, 100)}
}

func off(ch, key uint8) *game.Event {
	return &game.Event{Channel: ch, Message: midi.NoteOff(ch, key)}
}

func TestSoundingTracksNotes(t *testing.T) {
	var s Sounding
	assert := assert.New(t)

	s.Track(on(0, 60))
	s.Track(on(0, 60))
	s.Track(on(9, 36))
	s.Track(on(1, 64))
	s.Track(off(1, 64))
	// Zero velocity note-on is a note-off
	s.Track(&game.Event{Channel: 1, Message: midi.NoteOn(1, 67, 0)})
	s.Track(&game.Event{Channel: 0, Message: midi.ControlChange(0, 64, 127)})

	assert.Equal(2, s.Len())
	assert.True(s.IsOn(0, 60))
	assert.True(s.IsOn(9, 36))
	assert.False(s.IsOn(1, 64))
	assert.False(s.IsOn(1, 67))

	released := map[[2]uint8]bool{}
	s.Release(func(channel, key uint8) {
		released[[2]uint8{channel, key}] = true
	})
	assert.Equal(map[[2]uint8]bool{{0, 60}: true, {9, 36}: true}, released)
	assert.Equal(0, s.Len())

	s.Release(func(channel, key uint8) {
		t.Error("released twice", channel, key)
	})
}

func TestDiscardStopAll(t *testing.T) {
	d := &Discard{}
	d.Send(on(0, 60))
	d.Send(on(2, 72))
	assert.Equal(t, 2, d.Notes.Len())

	d.StopAll()
	assert.Equal(t, 0, d.Notes.Len())
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open("tape", "")
	assert.True(t, errors.Is(err, ErrUnknownSink))
}

func newTestSynth() *Synth {
	return newSynth(synthSampleRate, func() {}, func() {})
}

func peak(samples [][2]float64) float64 {
	p := 0.0
	for _, s := range samples {
		if s[0] > p {
			p = s[0]
		}
		if -s[0] > p {
			p = -s[0]
		}
	}
	return p
}

func TestSynthPlaysAndReleases(t *testing.T) {
	s := newTestSynth()
	buf := make([][2]float64, synthSampleRate.N(50*time.Millisecond))

	s.Stream(buf)
	assert.Equal(t, 0.0, peak(buf))

	s.Send(on(0, 69))
	n, ok := s.Stream(buf)
	assert.Equal(t, len(buf), n)
	assert.True(t, ok)
	assert.Greater(t, peak(buf), 0.05)
	assert.Equal(t, 1, s.Voices())

	s.StopAll()
	assert.Equal(t, 0, s.notes.Len())
	for i := 0; i < 4; i++ {
		s.Stream(buf)
	}
	assert.Equal(t, 0, s.Voices())
	assert.Less(t, peak(buf), silence)
}

func TestSynthIgnoresPercussion(t *testing.T) {
	s := newTestSynth()
	s.Send(on(game.PercussionChannel, 36))
	assert.Equal(t, 0, s.Voices())
	assert.Equal(t, 1, s.notes.Len())
}

func TestFrequency(t *testing.T) {
	assert.InDelta(t, 440.0, frequency(69), 1e-9)
	assert.InDelta(t, 261.6256, frequency(60), 1e-3)
}
