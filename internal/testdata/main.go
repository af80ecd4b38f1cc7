// Package testdata builds small MIDI files for tests.
package testdata

import (
	"bytes"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const TicksPerQuarter = 960

// Scale is a three note melody on channel 0 over a kick drum on channel 9.
// The tempo is 120bpm, dropping to 60bpm at the third note, so the melody
// plays at 0s, 0.5s and 1s and the last note ends at 1.5s.
//
//	track 0: tempo
//	track 1: C4 [0, 0.25s)  E4 [0.5s, 0.75s)  G4 [1s, 1.5s)
//	track 2: kick at 0s and 0.5s, 0.125s long
func Scale() []byte {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var tempo smf.Track
	tempo.Add(0, smf.MetaTempo(120))
	tempo.Add(2*TicksPerQuarter, smf.MetaTempo(60))
	tempo.Close(0)

	var melody smf.Track
	melody.Add(0, smf.MetaTrackSequenceName("melody"))
	melody.Add(0, midi.ProgramChange(0, 0))
	melody.Add(0, midi.NoteOn(0, 60, 100))
	melody.Add(TicksPerQuarter/2, midi.NoteOff(0, 60))
	melody.Add(TicksPerQuarter/2, midi.NoteOn(0, 64, 100))
	melody.Add(TicksPerQuarter/2, midi.NoteOff(0, 64))
	melody.Add(TicksPerQuarter/2, midi.NoteOn(0, 67, 100))
	melody.Add(TicksPerQuarter/2, midi.NoteOn(0, 67, 0))
	melody.Close(0)

	var drums smf.Track
	drums.Add(0, midi.NoteOn(9, 36, 120))
	drums.Add(TicksPerQuarter/4, midi.NoteOff(9, 36))
	drums.Add(3*TicksPerQuarter/4, midi.NoteOn(9, 36, 120))
	drums.Add(TicksPerQuarter/4, midi.NoteOff(9, 36))
	drums.Close(0)

	for _, t := range []smf.Track{tempo, melody, drums} {
		if err := s.Add(t); nil != err {
			panic(err)
		}
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); nil != err {
		panic(err)
	}
	return buf.Bytes()
}
