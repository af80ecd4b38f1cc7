// Package playalong matches the notes a song sounds against the keys the user
// presses, allowing the user to press a key shortly before the song reaches it.
package playalong

import (
	"time"

	"git.lost.host/meutraa/keyed/internal/game"
	"github.com/gammazero/deque"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Leeway is how long a user press stays available to satisfy a note.
const Leeway = 500 * time.Millisecond

type Source int

const (
	File Source = iota
	User
)

func (s Source) String() string {
	switch s {
	case File:
		return "file"
	case User:
		return "user"
	}
	return "unknown"
}

type userPress struct {
	timestamp time.Time
	note      uint8

	// Set once the press has cleared a requirement and been counted late
	credited bool
}

type PlayAlong struct {
	keyboard game.KeyboardRange
	now      func() time.Time

	// Notes the file has sounded that the user still owes
	required map[uint8]struct{}

	// User presses from the last Leeway, oldest first. Timestamps are
	// non-decreasing because presses are only pushed at the back.
	recent *deque.Deque[userPress]

	stats game.Stats
}

func New(keyboard game.KeyboardRange) *PlayAlong {
	return NewWithClock(keyboard, time.Now)
}

// NewWithClock uses now in place of time.Now. now must never go backwards.
func NewWithClock(keyboard game.KeyboardRange, now func() time.Time) *PlayAlong {
	return &PlayAlong{
		keyboard: keyboard,
		now:      now,
		required: map[uint8]struct{}{},
		recent:   deque.New[userPress](),
	}
}

// Update drops presses older than Leeway. Call it once per tick.
func (p *PlayAlong) Update() {
	now := p.now()
	for p.recent.Len() > 0 {
		if now.Sub(p.recent.Front().timestamp) <= Leeway {
			// Everything behind the front is younger
			return
		}
		p.recent.PopFront()
	}
}

// PressKey reports a note starting (active) or ending. Notes outside the
// keyboard range are ignored.
func (p *PlayAlong) PressKey(src Source, note uint8, active bool) {
	if !p.keyboard.Contains(note) {
		return
	}

	switch src {
	case User:
		p.userPressKey(note, active)
	case File:
		p.filePressKey(note, active)
	}
}

func (p *PlayAlong) userPressKey(note uint8, active bool) {
	if !active {
		return
	}
	press := userPress{timestamp: p.now(), note: note}
	if _, ok := p.required[note]; ok {
		delete(p.required, note)
		p.stats.Late++
		press.credited = true
	}
	p.recent.PushBack(press)
}

func (p *PlayAlong) filePressKey(note uint8, active bool) {
	if !active {
		if _, ok := p.required[note]; ok {
			delete(p.required, note)
			p.stats.Missed++
		}
		return
	}

	if i := p.recent.Index(func(up userPress) bool { return up.note == note }); i >= 0 {
		// Counted late already, so this note got no press of its own
		if p.recent.Remove(i).credited {
			p.stats.Missed++
		} else {
			p.stats.Early++
		}
		return
	}
	p.required[note] = struct{}{}
}

func (p *PlayAlong) AreRequiredKeysPressed() bool {
	return len(p.required) == 0
}

// RequiredNotes returns the notes still owed, in ascending order.
func (p *PlayAlong) RequiredNotes() []uint8 {
	notes := maps.Keys(p.required)
	slices.Sort(notes)
	return notes
}

func (p *PlayAlong) IsRequired(note uint8) bool {
	_, ok := p.required[note]
	return ok
}

// Pending is the number of presses still able to satisfy a note.
func (p *PlayAlong) Pending() int {
	return p.recent.Len()
}

func (p *PlayAlong) Stats() game.Stats {
	return p.stats
}

// Reset forgets every requirement and press, keeping the stats. Used when the
// song position jumps.
func (p *PlayAlong) Reset() {
	maps.Clear(p.required)
	p.recent.Clear()
}
