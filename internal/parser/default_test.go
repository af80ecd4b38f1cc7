package parser

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/keyed/internal/testdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const ms = time.Millisecond

type expectedEvent struct {
	Time    time.Duration
	Channel uint8
	Key     uint8
	On      bool
	Note    bool
}

var scaleEvents = []expectedEvent{
	{Time: 0, Channel: 0},
	{Time: 0, Channel: 0, Key: 60, On: true, Note: true},
	{Time: 0, Channel: 9, Key: 36, On: true, Note: true},
	{Time: 125 * ms, Channel: 9, Key: 36, Note: true},
	{Time: 250 * ms, Channel: 0, Key: 60, Note: true},
	{Time: 500 * ms, Channel: 0, Key: 64, On: true, Note: true},
	{Time: 500 * ms, Channel: 9, Key: 36, On: true, Note: true},
	{Time: 625 * ms, Channel: 9, Key: 36, Note: true},
	{Time: 750 * ms, Channel: 0, Key: 64, Note: true},
	{Time: 1000 * ms, Channel: 0, Key: 67, On: true, Note: true},
	{Time: 1500 * ms, Channel: 0, Key: 67, Note: true},
}

func TestReadMergesTracks(t *testing.T) {
	p := DefaultParser{}
	song, err := p.Read("scale", bytes.NewReader(testdata.Scale()))
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal("scale", song.Name)
	assert.NotEmpty(song.Sum)
	assert.Equal(int64(5), song.NoteCount)
	assert.Equal(1500*ms, song.Length())
	require.Len(t, song.Events, len(scaleEvents))

	for i, expected := range scaleEvents {
		ev := song.Events[i]
		key, on, ok := ev.Note()
		if ev.Time != expected.Time || ev.Channel != expected.Channel ||
			ok != expected.Note || key != expected.Key || on != expected.On {
			t.Log("index   ", i)
			t.Log("event   ", ev.Time, ev.Channel, key, on, ok, ev.Message)
			t.Log("expected", expected)
			t.Fail()
		}
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "scale.mid")
	require.NoError(t, os.WriteFile(file, testdata.Scale(), 0o644))

	p := DefaultParser{}
	song, err := p.Parse(file)
	require.NoError(t, err)
	assert.Equal(t, "scale", song.Name)

	again, err := p.Read("other", bytes.NewReader(testdata.Scale()))
	require.NoError(t, err)
	assert.Equal(t, song.Sum, again.Sum, "the checksum depends only on content")
}

func TestParseMissingFile(t *testing.T) {
	p := DefaultParser{}
	_, err := p.Parse(filepath.Join(t.TempDir(), "missing.mid"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadGarbage(t *testing.T) {
	p := DefaultParser{}
	_, err := p.Read("garbage", bytes.NewReader([]byte("this is not a midi file")))
	assert.Error(t, err)
}

func TestReadNoEvents(t *testing.T) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(testdata.TicksPerQuarter)
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(100))
	tr.Close(0)
	require.NoError(t, s.Add(tr))

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)

	p := DefaultParser{}
	_, err = p.Read("empty", &buf)
	assert.True(t, errors.Is(err, ErrNoEvents))
}

func TestMergeKeepsTrackOrderOnTies(t *testing.T) {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(testdata.TicksPerQuarter)
	for ch := uint8(0); ch < 3; ch++ {
		var tr smf.Track
		tr.Add(10, midi.NoteOn(ch, 60, 1))
		tr.Close(0)
		require.NoError(t, s.Add(tr))
	}

	events := merge(s)
	require.Len(t, events, 3)
	for i, ev := range events {
		assert.Equal(t, i, ev.Track)
		assert.Equal(t, uint8(i), ev.Channel)
	}
}
