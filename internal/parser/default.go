package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.lost.host/meutraa/keyed/internal/game"
	"github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

var ErrNoEvents = errors.New("file has no playable events")

type DefaultParser struct{}

func (p *DefaultParser) Parse(file string) (*game.Song, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return p.Read(name, f)
}

func (p *DefaultParser) Read(name string, r io.Reader) (song *game.Song, err error) {
	data, err := io.ReadAll(r)
	if nil != err {
		return nil, fmt.Errorf("unable to read %v: %w", name, err)
	}

	// smf panics on some malformed files
	defer func() {
		if rec := recover(); rec != nil {
			song = nil
			err = fmt.Errorf("unable to parse %v: %v", name, rec)
		}
	}()

	file, err := smf.ReadFrom(bytes.NewReader(data))
	if nil != err {
		return nil, fmt.Errorf("unable to parse %v: %w", name, err)
	}

	events := merge(file)
	if len(events) == 0 {
		return nil, fmt.Errorf("%v: %w", name, ErrNoEvents)
	}

	sum := sha256.Sum256(data)
	song = &game.Song{
		Name:   name,
		Sum:    base64.StdEncoding.EncodeToString(sum[:]),
		Events: events,
	}
	for i := range events {
		if _, on, ok := events[i].Note(); ok && on {
			song.NoteCount++
		}
	}
	log.Debug("parsed song", "name", name, "tracks", len(file.Tracks), "events", len(events), "notes", song.NoteCount)
	return song, nil
}

// merge flattens all tracks into one sequence of channel messages ordered by
// time. Events at the same tick keep track order, and within a track their
// file order.
func merge(file *smf.SMF) []game.Event {
	pos := make([]int, len(file.Tracks))
	ticks := make([]int64, len(file.Tracks))
	events := []game.Event{}

	for {
		earliest := -1
		var earliestTick int64
		for i, track := range file.Tracks {
			if pos[i] >= len(track) {
				continue
			}
			t := ticks[i] + int64(track[pos[i]].Delta)
			if earliest < 0 || t < earliestTick {
				earliest = i
				earliestTick = t
			}
		}
		if earliest < 0 {
			return events
		}

		msg := midi.Message(file.Tracks[earliest][pos[earliest]].Message)
		pos[earliest]++
		ticks[earliest] = earliestTick

		var channel uint8
		if !msg.GetChannel(&channel) {
			// Meta and sysex messages are not played
			continue
		}
		events = append(events, game.Event{
			// TimeAt accounts for tempo changes, in microseconds
			Time:    time.Duration(file.TimeAt(earliestTick)) * time.Microsecond,
			Track:   earliest,
			Channel: channel,
			Message: msg,
		})
	}
}
