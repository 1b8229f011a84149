package catalog

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"git.lost.host/meutraa/lanes/internal/game"
)

var ErrNotFound = errors.New("song not found")

// Store is a song library kept in a sqlite database
type Store struct {
	db *sql.DB
}

// Entry summarises a stored song
type Entry struct {
	ID           string
	Title        string
	Difficulties []string
	NoteCounts   []int
}

const schema = `
create table if not exists songs
  (
	  id text not null primary key,
	  title text,
	  bpm real,
	  duration integer,
	  audio text
  );
create table if not exists charts
  (
	  id integer not null primary key,
	  song_id text not null references songs(id) on delete cascade,
	  seq integer not null,
	  name text,
	  msd text,
	  nkeys integer,
	  duration integer,
	  sum text
  );
create table if not exists notes
  (
	  chart_id integer not null references charts(id) on delete cascade,
	  seq integer not null,
	  time integer not null,
	  lane integer not null,
	  denom integer not null
  );
create index if not exists notes_chart on notes(chart_id, seq);
`

func Open(file string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+file+"?_foreign_keys=on")
	if nil != err {
		return nil, err
	}
	if _, err := db.Exec(schema); nil != err {
		db.Close()
		return nil, fmt.Errorf("unable to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Sum identifies the notes of a chart, equal charts have equal sums
func Sum(c *game.Chart) string {
	h := sha256.New()
	buf := make([]byte, 8)
	for _, n := range c.Notes {
		binary.LittleEndian.PutUint64(buf, uint64(n.Time))
		h.Write(buf)
		binary.LittleEndian.PutUint64(buf, uint64(int64(n.Lane)))
		h.Write(buf)
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// Import stores a song, replacing any song with the same id
func (s *Store) Import(song *game.Song) (err error) {
	tx, err := s.db.Begin()
	if nil != err {
		return err
	}
	defer func() {
		if nil != err {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec("delete from songs where id = ?", song.ID); nil != err {
		return fmt.Errorf("unable to replace %v: %w", song.ID, err)
	}
	_, err = tx.Exec("insert into songs(id, title, bpm, duration, audio) values(?, ?, ?, ?, ?)",
		song.ID, song.Title, song.BPM, int64(song.Duration), song.Audio)
	if nil != err {
		return fmt.Errorf("unable to save %v: %w", song.ID, err)
	}

	notes, err := tx.Prepare("insert into notes(chart_id, seq, time, lane, denom) values(?, ?, ?, ?, ?)")
	if nil != err {
		return err
	}
	defer notes.Close()

	for i, c := range song.Charts {
		var res sql.Result
		res, err = tx.Exec("insert into charts(song_id, seq, name, msd, nkeys, duration, sum) values(?, ?, ?, ?, ?, ?, ?)",
			song.ID, i, c.Difficulty.Name, c.Difficulty.Msd, c.Difficulty.NKeys, int64(c.Duration), Sum(c))
		if nil != err {
			return fmt.Errorf("unable to save chart %v: %w", c.Difficulty.Name, err)
		}
		var chartID int64
		if chartID, err = res.LastInsertId(); nil != err {
			return err
		}
		for j, n := range c.Notes {
			if _, err = notes.Exec(chartID, j, int64(n.Time), n.Lane, n.Denom); nil != err {
				return fmt.Errorf("unable to save note %v: %w", j, err)
			}
		}
	}
	return tx.Commit()
}

func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(`
		select s.id, s.title, c.name, (select count(*) from notes n where n.chart_id = c.id)
		from songs s left join charts c on c.song_id = s.id
		order by s.id, c.seq`)
	if nil != err {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var id, title string
		var name sql.NullString
		var count sql.NullInt64
		if err := rows.Scan(&id, &title, &name, &count); nil != err {
			return nil, err
		}
		if len(entries) == 0 || entries[len(entries)-1].ID != id {
			entries = append(entries, Entry{ID: id, Title: title})
		}
		if name.Valid {
			e := &entries[len(entries)-1]
			e.Difficulties = append(e.Difficulties, name.String)
			e.NoteCounts = append(e.NoteCounts, int(count.Int64))
		}
	}
	return entries, rows.Err()
}

func (s *Store) Load(id string) (*game.Song, error) {
	song := &game.Song{ID: id}
	var duration int64
	err := s.db.QueryRow("select title, bpm, duration, audio from songs where id = ?", id).
		Scan(&song.Title, &song.BPM, &duration, &song.Audio)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%v: %w", id, ErrNotFound)
	} else if nil != err {
		return nil, err
	}
	song.Duration = time.Duration(duration)

	rows, err := s.db.Query("select id, name, msd, nkeys, duration from charts where song_id = ? order by seq", id)
	if nil != err {
		return nil, err
	}
	ids := []int64{}
	for rows.Next() {
		var chartID, duration int64
		c := &game.Chart{}
		if err := rows.Scan(&chartID, &c.Difficulty.Name, &c.Difficulty.Msd, &c.Difficulty.NKeys, &duration); nil != err {
			rows.Close()
			return nil, err
		}
		c.Duration = time.Duration(duration)
		ids = append(ids, chartID)
		song.Charts = append(song.Charts, c)
	}
	rows.Close()
	if err := rows.Err(); nil != err {
		return nil, err
	}

	for i, chartID := range ids {
		notes, err := s.loadNotes(chartID)
		if nil != err {
			return nil, fmt.Errorf("unable to load chart %v: %w", song.Charts[i].Difficulty.Name, err)
		}
		song.Charts[i].Notes = notes
	}
	return song, nil
}

func (s *Store) loadNotes(chartID int64) ([]game.Note, error) {
	rows, err := s.db.Query("select time, lane, denom from notes where chart_id = ? order by seq", chartID)
	if nil != err {
		return nil, err
	}
	defer rows.Close()
	notes := []game.Note{}
	for rows.Next() {
		var t int64
		var n game.Note
		if err := rows.Scan(&t, &n.Lane, &n.Denom); nil != err {
			return nil, err
		}
		n.Time = time.Duration(t)
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
