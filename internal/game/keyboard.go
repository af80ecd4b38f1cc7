package game

import "fmt"

// KeyboardRange is an inclusive range of MIDI note numbers.
type KeyboardRange struct {
	Low, High uint8
}

var Standard88Keys = KeyboardRange{Low: 21, High: 108}

func (r KeyboardRange) Contains(note uint8) bool {
	return note >= r.Low && note <= r.High && note <= 127
}

func (r KeyboardRange) Count() int {
	if r.High < r.Low {
		return 0
	}
	return int(r.High-r.Low) + 1
}

func (r KeyboardRange) String() string {
	return fmt.Sprintf("%v-%v", r.Low, r.High)
}
