package score

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"git.lost.host/meutraa/twolane/internal/game"
	_ "github.com/mattn/go-sqlite3"
)

// Store is a Scorer backed by sqlite.
type Store struct {
	db *sql.DB
}

// InputsCompact holds the transitions of one lane. Times alternate between
// press and release, starting with a press.
type InputsCompact struct {
	Lane  uint8
	Times []time.Duration
}

func compactInputs(inputs []game.Input) []InputsCompact {
	laneCount := 0
	for _, i := range inputs {
		if int(i.Lane) >= laneCount {
			laneCount = int(i.Lane) + 1
		}
	}
	ins := make([]InputsCompact, laneCount)
	for l := range ins {
		ins[l].Lane = uint8(l)
		ins[l].Times = []time.Duration{}
	}
	for _, i := range inputs {
		lane := &ins[i.Lane]
		pressNext := len(lane.Times)%2 == 0
		if i.Pressed != pressNext {
			// Two presses (or releases) in a row, keep the parity with an
			// instant opposite transition
			lane.Times = append(lane.Times, i.Time)
		}
		lane.Times = append(lane.Times, i.Time)
	}
	return ins
}

func uncompactInputs(inputs []InputsCompact) []game.Input {
	ins := []game.Input{}
	for _, i := range inputs {
		for j, t := range i.Times {
			ins = append(ins, game.Input{Lane: i.Lane, Pressed: j%2 == 0, Time: t})
		}
	}
	sort.SliceStable(ins, func(a, b int) bool {
		return ins[a].Time < ins[b].Time
	})
	return ins
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open score database: %w", err)
	}

	initStatement := `
	create table if not exists scores
	  (
		  id integer not null primary key,
		  sum text not null,
		  played integer not null,
		  score integer not null,
		  max integer not null,
		  inputs blob
	  );
	create index if not exists scores_sum on scores(sum);
	`
	if _, err := db.Exec(initStatement); nil != err {
		db.Close()
		return nil, fmt.Errorf("unable to create score table: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if nil != s.db {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Save(c *game.Chart, inputs []game.Input, tally Tally) error {
	data, err := json.Marshal(compactInputs(inputs))
	if nil != err {
		return fmt.Errorf("unable to marshal inputs: %w", err)
	}
	_, err = s.db.Exec(
		"insert into scores(sum, played, score, max, inputs) values(?, ?, ?, ?, ?)",
		c.Hash(), time.Now().Unix(), tally.Score, tally.MaxPossible, data,
	)
	if nil != err {
		return fmt.Errorf("unable to save score: %w", err)
	}
	return nil
}

func (s *Store) Load(c *game.Chart) ([]History, error) {
	histories := []History{}
	rows, err := s.db.Query(
		"select id, sum, played, score, max, inputs from scores where sum = ? order by id",
		c.Hash(),
	)
	if nil != err {
		return nil, fmt.Errorf("unable to load scores: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var h History
		var played int64
		var data []byte
		if err := rows.Scan(&h.ID, &h.Sum, &played, &h.Score, &h.MaxPossible, &data); nil != err {
			return nil, fmt.Errorf("unable to read score: %w", err)
		}
		var ins []InputsCompact
		if err := json.Unmarshal(data, &ins); nil != err {
			log.Println("unable to unmarshal input history", h.ID, err)
			continue
		}
		h.Played = time.Unix(played, 0)
		h.Inputs = uncompactInputs(ins)
		histories = append(histories, h)
	}
	return histories, rows.Err()
}
