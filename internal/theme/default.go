package theme

import (
	"fmt"
	"image/color"
)

type DefaultTheme struct {
}

func (t *DefaultTheme) RenderKey(note uint8, state KeyState) string {
	sym := whiteSym
	if IsBlack(note) {
		sym = blackSym
	}
	c := getKeyColor(note, state)
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, sym)
}

func (t *DefaultTheme) NoteName(note uint8) string {
	return fmt.Sprintf("%v%v", names[note%12], int(note)/12-1)
}

// IsBlack reports whether the note is a black key on a piano.
func IsBlack(note uint8) bool {
	switch note % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

const (
	whiteSym = "█"
	blackSym = "▄"
)

var (
	names     = [...]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
	keyColors = map[KeyState]color.RGBA{
		Sounding: {R: 0, G: 118, B: 236}, // blue
		Required: {R: 236, G: 30, B: 0},  // red
		Pressed:  {R: 0, G: 236, B: 128}, // green
	}
	white = color.RGBA{R: 220, G: 220, B: 220}
	black = color.RGBA{R: 90, G: 90, B: 90}
)

func getKeyColor(note uint8, state KeyState) color.RGBA {
	col, ok := keyColors[state]
	if !ok {
		if IsBlack(note) {
			return black
		}
		return white
	}
	return col
}
