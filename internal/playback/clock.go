package playback

import (
	"time"

	"git.lost.host/meutraa/keyed/internal/game"
)

// Clock tracks a position on a song timeline that starts leadIn before the
// first event. It only reads the event sequence it is given, and the same
// sequence must be passed to every call.
//
// An event is scheduled at leadIn + event.Time. The cursor always points at the
// first event scheduled at or after the current time.
type Clock struct {
	leadIn time.Duration
	length time.Duration

	time   time.Duration
	paused bool
	cursor int
}

// New returns a paused clock at the start of the lead-in.
func New(leadIn time.Duration, events []game.Event) *Clock {
	c := &Clock{
		leadIn: leadIn,
		paused: true,
	}
	if len(events) > 0 {
		c.length = leadIn + events[len(events)-1].Time
	}
	return c
}

func (c *Clock) scheduled(e *game.Event) time.Duration {
	return c.leadIn + e.Time
}

// Advance moves the clock forward by elapsed and returns the events crossed,
// those scheduled in [previous time, new time). The returned slice aliases
// events. Nothing moves while paused.
func (c *Clock) Advance(events []game.Event, elapsed time.Duration) []game.Event {
	if c.paused {
		return nil
	}
	if elapsed > 0 {
		c.time += elapsed
	}

	start := c.cursor
	for c.cursor < len(events) && c.scheduled(&events[c.cursor]) < c.time {
		c.cursor++
	}
	if start == c.cursor {
		return nil
	}
	return events[start:c.cursor]
}

func (c *Clock) Pause() {
	c.paused = true
}

func (c *Clock) Resume() {
	c.paused = false
}

func (c *Clock) IsPaused() bool {
	return c.paused
}

// Seek moves to t, which may be behind the current time. The cursor is found
// again from the start of events. Crossed events are not returned.
func (c *Clock) Seek(events []game.Event, t time.Duration) {
	if t < 0 {
		t = 0
	}
	c.time = t
	c.cursor = 0
	for c.cursor < len(events) && c.scheduled(&events[c.cursor]) < t {
		c.cursor++
	}
}

// Rewind seeks by a signed delta, stopping at zero.
func (c *Clock) Rewind(events []game.Event, delta time.Duration) {
	t := c.time
	if delta < 0 {
		if -delta > t {
			t = 0
		} else {
			t += delta
		}
	} else {
		t += delta
	}
	c.Seek(events, t)
}

// SetPercentageTime seeks to a fraction of the length. p is not bounded above.
func (c *Clock) SetPercentageTime(events []game.Event, p float64) {
	secs := p * c.length.Seconds()
	if secs < 0 {
		secs = 0
	}
	c.Seek(events, time.Duration(secs*float64(time.Second)))
}

func (c *Clock) Percentage() float64 {
	if c.length <= 0 {
		return 0
	}
	return float64(c.time) / float64(c.length)
}

func (c *Clock) Time() time.Duration {
	return c.time
}

// TimeWithoutLeadIn is in seconds, and negative during the lead-in.
func (c *Clock) TimeWithoutLeadIn() float64 {
	return c.time.Seconds() - c.leadIn.Seconds()
}

func (c *Clock) LeadIn() time.Duration {
	return c.leadIn
}

func (c *Clock) Length() time.Duration {
	return c.length
}
