package output

import "git.lost.host/meutraa/keyed/internal/game"

// Sounding is the set of notes currently on, per channel.
type Sounding struct {
	on    [16][128]bool
	count int
}

// Track records a note-on or note-off. Other events are ignored.
func (s *Sounding) Track(ev *game.Event) {
	key, on, ok := ev.Note()
	if !ok || ev.Channel > 15 || key > 127 {
		return
	}
	was := s.on[ev.Channel][key]
	s.on[ev.Channel][key] = on
	switch {
	case on && !was:
		s.count++
	case !on && was:
		s.count--
	}
}

func (s *Sounding) IsOn(channel, key uint8) bool {
	if channel > 15 || key > 127 {
		return false
	}
	return s.on[channel][key]
}

// Len is the number of notes on.
func (s *Sounding) Len() int {
	return s.count
}

// Release calls off for every note that is on and forgets it.
func (s *Sounding) Release(off func(channel, key uint8)) {
	if s.count == 0 {
		return
	}
	for ch := range s.on {
		for key, on := range s.on[ch] {
			if on {
				off(uint8(ch), uint8(key))
				s.on[ch][key] = false
			}
		}
	}
	s.count = 0
}
