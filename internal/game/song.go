package game

import "time"

type Song struct {
	Name   string
	Sum    string  // Checksum of the source file, identifies the song in history
	Events []Event // Merged from all tracks, ordered by Time. Never modified after load

	NoteCount int64
}

// Length is the offset of the final event.
func (s *Song) Length() time.Duration {
	if len(s.Events) == 0 {
		return 0
	}
	return s.Events[len(s.Events)-1].Time
}
