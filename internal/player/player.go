// Package player drives a song against the wall clock. Each frame it advances
// the playback clock, sounds the events crossed, and feeds notes to the
// play-along matcher. It is not safe for concurrent use; callers serialize
// access from a single frame loop.
package player

import (
	"fmt"
	"math"
	"time"

	"git.lost.host/meutraa/keyed/internal/game"
	"git.lost.host/meutraa/keyed/internal/output"
	"git.lost.host/meutraa/keyed/internal/playalong"
	"git.lost.host/meutraa/keyed/internal/playback"
	"github.com/charmbracelet/log"
	"gitlab.com/gomidi/midi/v2"
)

type Mode int

const (
	// Watch plays the song without tracking the user
	Watch Mode = iota
	// Wait holds the song at each note until the user presses it
	Wait
	// Play never holds the song but records what the user missed
	Play
)

var modeNames = map[Mode]string{
	Watch: "watch",
	Wait:  "wait",
	Play:  "play",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return Watch, fmt.Errorf("unknown mode %q", s)
}

type Options struct {
	LeadIn   time.Duration
	Speed    float64
	Mode     Mode
	Keyboard game.KeyboardRange

	// EchoInput sounds user presses on the output, on channel 0
	EchoInput bool

	// Now replaces time.Now for the play-along leeway window
	Now func() time.Time
}

type Player struct {
	song  *game.Song
	out   output.Sink
	opts  Options
	clock *playback.Clock
	along *playalong.PlayAlong

	inputs []game.Input
	closed bool
}

// New creates a paused player at the start of the lead-in. Close must be
// called when the player is replaced or the program exits.
func New(song *game.Song, out output.Sink, opts Options) *Player {
	if opts.Speed <= 0 {
		opts.Speed = 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	p := &Player{
		song:  song,
		out:   out,
		opts:  opts,
		clock: playback.New(opts.LeadIn, song.Events),
		along: playalong.NewWithClock(opts.Keyboard, opts.Now),
	}
	p.Update(0)
	return p
}

// MinSpeed is the slowest speed Scale can express
const MinSpeed = 0.1

// Scale converts a frame delta to song time at speed. The speed is applied in
// tenths to a tenth of the delta so that every frame rounds the same way.
func Scale(delta time.Duration, speed float64) time.Duration {
	return (delta / 10) * time.Duration(math.Round(speed*10))
}

// Update moves the song forward by delta of wall time and returns the events
// sounded. ok is false while paused.
func (p *Player) Update(delta time.Duration) (events []game.Event, ok bool) {
	p.along.Update()

	elapsed := Scale(delta, p.opts.Speed)
	if p.opts.Mode == Wait && !p.along.AreRequiredKeysPressed() {
		elapsed = 0
	}

	events = p.clock.Advance(p.song.Events, elapsed)
	for i := range events {
		ev := &events[i]
		if err := p.out.Send(ev); nil != err {
			log.Warn("unable to send event", "time", ev.Time, "err", err)
		}

		if p.opts.Mode == Watch || ev.IsPercussion() {
			continue
		}
		if key, on, ok := ev.Note(); ok {
			p.along.PressKey(playalong.File, key, on)
		}
	}

	if p.clock.IsPaused() {
		return nil, false
	}
	return events, true
}

// PressKey reports a user key going down or up.
func (p *Player) PressKey(note uint8, active bool) {
	if note > 127 {
		return
	}
	if active {
		p.inputs = append(p.inputs, game.Input{Note: note, Time: p.clock.Time()})
	}
	if p.opts.Mode != Watch {
		p.along.PressKey(playalong.User, note, active)
	}
	if !p.opts.EchoInput {
		return
	}
	ev := game.Event{Time: p.clock.Time(), Message: midi.NoteOff(0, note)}
	if active {
		ev.Message = midi.NoteOn(0, note, 100)
	}
	if err := p.out.Send(&ev); nil != err {
		log.Warn("unable to echo key", "note", note, "err", err)
	}
}

func (p *Player) clear() {
	p.out.StopAll()
}

func (p *Player) Start() {
	p.Resume()
}

func (p *Player) PauseResume() {
	if p.clock.IsPaused() {
		p.Resume()
	} else {
		p.Pause()
	}
}

func (p *Player) Pause() {
	p.clear()
	p.clock.Pause()
}

func (p *Player) Resume() {
	p.clock.Resume()
}

// SetTime jumps to t on the timeline. Events before t are dropped, sounding
// notes are stopped, and what the user owed is forgotten.
func (p *Player) SetTime(t time.Duration) {
	p.clock.Seek(p.song.Events, t)
	p.settle()
}

// Rewind moves by delta, backwards when negative, stopping at the start.
func (p *Player) Rewind(delta time.Duration) {
	p.clock.Rewind(p.song.Events, delta)
	p.settle()
}

func (p *Player) SetPercentageTime(pct float64) {
	p.clock.SetPercentageTime(p.song.Events, pct)
	p.settle()
}

func (p *Player) settle() {
	// The seek already placed the cursor, this only discards
	p.clock.Advance(p.song.Events, 0)
	p.along.Reset()
	p.clear()
}

func (p *Player) Percentage() float64 {
	return p.clock.Percentage()
}

func (p *Player) Time() time.Duration {
	return p.clock.Time()
}

func (p *Player) TimeWithoutLeadIn() float64 {
	return p.clock.TimeWithoutLeadIn()
}

func (p *Player) Length() time.Duration {
	return p.clock.Length()
}

func (p *Player) IsPaused() bool {
	return p.clock.IsPaused()
}

// Finished reports whether every event has been played.
func (p *Player) Finished() bool {
	return p.clock.Time() > p.clock.Length()
}

func (p *Player) Song() *game.Song {
	return p.song
}

func (p *Player) Mode() Mode {
	return p.opts.Mode
}

func (p *Player) Speed() float64 {
	return p.opts.Speed
}

func (p *Player) PlayAlong() *playalong.PlayAlong {
	return p.along
}

// Inputs returns the user presses so far, in the order they were made.
func (p *Player) Inputs() []game.Input {
	return p.inputs
}

// Close stops every sounding note. It is safe to call more than once.
func (p *Player) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.clear()
}
