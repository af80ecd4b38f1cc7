package score

import (
	"time"

	"git.lost.host/meutraa/keyed/internal/game"
	"github.com/google/uuid"
)

type Scorer interface {
	Init(path string) error
	Deinit()

	// Save the outcome of a session
	Save(song *game.Song, result *Result) (uuid.UUID, error)

	// Load previous sessions for the song, newest first
	Load(song *game.Song) ([]History, error)
}

type Result struct {
	Speed  float64
	Mode   string
	Stats  game.Stats
	Inputs []game.Input
	Played time.Duration // Wall time spent in the session
}

type History struct {
	ID        uuid.UUID
	Sum       string
	CreatedAt time.Time
	Result
}

// Best returns the history with the highest accuracy. Ties go to the faster
// session.
func Best(histories []History) (History, bool) {
	if len(histories) == 0 {
		return History{}, false
	}
	best := histories[0]
	for _, h := range histories[1:] {
		a, b := h.Stats.Accuracy(), best.Stats.Accuracy()
		if a > b || (a == b && h.Speed > best.Speed) {
			best = h
		}
	}
	return best, true
}
