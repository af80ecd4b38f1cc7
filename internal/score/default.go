package score

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"git.lost.host/meutraa/keyed/internal/game"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slices"
)

type DefaultScorer struct {
	db *sql.DB
}

type InputsCompact struct {
	Note  uint8
	Times []time.Duration
}

// compactInputs groups press times by note, in note order
func compactInputs(inputs []game.Input) []InputsCompact {
	byNote := map[uint8]int{}
	ins := []InputsCompact{}
	for _, i := range inputs {
		idx, ok := byNote[i.Note]
		if !ok {
			idx = len(ins)
			byNote[i.Note] = idx
			ins = append(ins, InputsCompact{Note: i.Note})
		}
		ins[idx].Times = append(ins[idx].Times, i.Time)
	}
	slices.SortFunc(ins, func(a, b InputsCompact) int {
		return int(a.Note) - int(b.Note)
	})
	return ins
}

// uncompactInputs restores the press order. Presses at the same time are
// ordered by note.
func uncompactInputs(inputs []InputsCompact) []game.Input {
	ins := []game.Input{}
	for _, i := range inputs {
		for _, t := range i.Times {
			ins = append(ins, game.Input{Note: i.Note, Time: t})
		}
	}
	slices.SortStableFunc(ins, func(a, b game.Input) int {
		switch {
		case a.Time < b.Time:
			return -1
		case a.Time > b.Time:
			return 1
		}
		return 0
	})
	return ins
}

func (s *DefaultScorer) Init(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("unable to open %v: %w", path, err)
	}

	initStatement := `
	create table if not exists sessions
	  (
		  id text not null primary key,
		  sum text not null,
		  created integer not null,
		  speed real,
		  mode text,
		  early integer,
		  late integer,
		  missed integer,
		  played integer,
		  inputs blob
	  );
	create index if not exists sessions_sum on sessions(sum);
	`
	if _, err := db.Exec(initStatement); nil != err {
		db.Close()
		return fmt.Errorf("unable to create tables: %w", err)
	}

	s.db = db
	return nil
}

func (s *DefaultScorer) Deinit() {
	if nil != s.db {
		if err := s.db.Close(); nil != err {
			log.Warn("unable to close score database", "err", err)
		}
	}
}

func (s *DefaultScorer) Save(song *game.Song, result *Result) (uuid.UUID, error) {
	data, err := json.Marshal(compactInputs(result.Inputs))
	if nil != err {
		return uuid.Nil, fmt.Errorf("unable to marshal inputs: %w", err)
	}
	id := uuid.New()
	_, err = s.db.Exec(
		"insert into sessions(id, sum, created, speed, mode, early, late, missed, played, inputs) values(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id.String(), song.Sum, time.Now().UnixNano(), result.Speed, result.Mode,
		result.Stats.Early, result.Stats.Late, result.Stats.Missed, int64(result.Played), data,
	)
	if nil != err {
		return uuid.Nil, fmt.Errorf("unable to save session: %w", err)
	}
	log.Debug("saved session", "id", id, "song", song.Name, "stats", result.Stats)
	return id, nil
}

func (s *DefaultScorer) Load(song *game.Song) ([]History, error) {
	histories := []History{}
	rows, err := s.db.Query(
		"select id, sum, created, speed, mode, early, late, missed, played, inputs from sessions where sum = ? order by created desc, rowid desc",
		song.Sum,
	)
	if nil != err {
		return histories, fmt.Errorf("unable to load sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h History
		var id string
		var created, played int64
		var inputs []byte
		if err := rows.Scan(&id, &h.Sum, &created, &h.Speed, &h.Mode,
			&h.Stats.Early, &h.Stats.Late, &h.Stats.Missed, &played, &inputs); nil != err {
			return histories, fmt.Errorf("unable to read session: %w", err)
		}
		if h.ID, err = uuid.Parse(id); nil != err {
			log.Warn("skipping session with bad id", "id", id, "err", err)
			continue
		}
		var ns []InputsCompact
		if err := json.Unmarshal(inputs, &ns); nil != err {
			log.Warn("unable to unmarshal session inputs", "id", id, "err", err)
			continue
		}
		h.CreatedAt = time.Unix(0, created)
		h.Played = time.Duration(played)
		h.Inputs = uncompactInputs(ns)
		histories = append(histories, h)
	}
	return histories, rows.Err()
}
