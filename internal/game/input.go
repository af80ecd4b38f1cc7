package game

import "time"

// Input is a user key press, at its position on the song timeline.
type Input struct {
	Note uint8
	Time time.Duration
}
