package game

type Stats struct {
	Early  uint64 // Notes satisfied by a press made before the note sounded
	Late   uint64 // Notes satisfied by a press after the note sounded
	Missed uint64 // Notes with no press of their own
}

func (s Stats) Hits() uint64 {
	return s.Early + s.Late
}

func (s Stats) Total() uint64 {
	return s.Early + s.Late + s.Missed
}

// Accuracy is the share of required notes that were pressed, 1 when nothing
// was required.
func (s Stats) Accuracy() float64 {
	total := s.Total()
	if total == 0 {
		return 1
	}
	return float64(s.Hits()) / float64(total)
}
