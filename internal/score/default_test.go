package score

import (
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/keyed/internal/game"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestScorer(t *testing.T) *DefaultScorer {
	s := &DefaultScorer{}
	require.NoError(t, s.Init(filepath.Join(t.TempDir(), "scores.db")))
	t.Cleanup(s.Deinit)
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := openTestScorer(t)
	song := &game.Song{Name: "scale", Sum: "abc"}
	other := &game.Song{Name: "other", Sum: "def"}

	first := &Result{
		Speed:  0.5,
		Mode:   "wait",
		Stats:  game.Stats{Early: 1, Late: 2, Missed: 3},
		Inputs: []game.Input{{Note: 60, Time: time.Second}, {Note: 62, Time: 2 * time.Second}},
		Played: time.Minute,
	}
	id1, err := s.Save(song, first)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id1)

	id2, err := s.Save(song, &Result{Speed: 1, Mode: "play", Inputs: []game.Input{}})
	require.NoError(t, err)
	_, err = s.Save(other, &Result{Speed: 1})
	require.NoError(t, err)

	histories, err := s.Load(song)
	require.NoError(t, err)
	require.Len(t, histories, 2)

	// Newest first
	assert.Equal(t, id2, histories[0].ID)
	h := histories[1]
	assert.Equal(t, id1, h.ID)
	assert.Equal(t, "abc", h.Sum)
	assert.Equal(t, first.Speed, h.Speed)
	assert.Equal(t, first.Mode, h.Mode)
	assert.Equal(t, first.Stats, h.Stats)
	assert.Equal(t, first.Inputs, h.Inputs)
	assert.Equal(t, first.Played, h.Played)
	assert.False(t, h.CreatedAt.IsZero())
}

func TestLoadUnknownSong(t *testing.T) {
	s := openTestScorer(t)
	histories, err := s.Load(&game.Song{Sum: "nothing"})
	assert.NoError(t, err)
	assert.Empty(t, histories)
}

func TestBest(t *testing.T) {
	_, ok := Best(nil)
	assert.False(t, ok)

	histories := []History{
		{Result: Result{Speed: 1, Stats: game.Stats{Late: 1, Missed: 1}}},
		{Result: Result{Speed: 0.5, Stats: game.Stats{Early: 3}}},
		{Result: Result{Speed: 0.8, Stats: game.Stats{Late: 2}}},
		{Result: Result{Speed: 0.6, Stats: game.Stats{Early: 1, Missed: 1}}},
	}
	best, ok := Best(histories)
	assert.True(t, ok)
	assert.Equal(t, 0.8, best.Speed)
}
