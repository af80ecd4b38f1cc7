package input

// The home row plays white keys and the row above plays black keys, as on
// most software pianos. Offsets are semitones from the base note.
var layout = map[rune]uint8{
	'a': 0, 'w': 1, 's': 2, 'e': 3, 'd': 4, 'f': 5, 't': 6,
	'g': 7, 'y': 8, 'h': 9, 'u': 10, 'j': 11, 'k': 12, 'o': 13,
	'l': 14, 'p': 15, ';': 16, '\'': 17,
}

func runeNote(r rune, base uint8) (uint8, bool) {
	offset, ok := layout[r]
	if !ok || int(base)+int(offset) > 127 {
		return 0, false
	}
	return base + offset, true
}
