package atlas

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/chazu/synacor/room"
)

// ErrRoomNotFound indicates the requested room is not in the store.
var ErrRoomNotFound = errors.New("room not found")

// Store keeps discovered rooms in a SQLite database. It implements the
// solvers' Recorder interface, so a walker can be pointed straight at it.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the atlas database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening atlas database: %w", err)
	}

	// Walkers and inspection can overlap; don't fail on a held lock.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS rooms (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		items JSON NOT NULL,
		exits JSON NOT NULL,
		transcript TEXT NOT NULL,
		discovered_at TIMESTAMP NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating rooms table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record upserts a discovered room. The first discovery wins: a room
// reached again by a longer transcript keeps its original entry.
func (s *Store) Record(r *room.Room, transcript string) error {
	return s.put(Record{
		ID:           Fingerprint(r.Description),
		Title:        r.Title,
		Description:  r.Description,
		Items:        r.Items,
		Exits:        r.Exits,
		Transcript:   transcript,
		DiscoveredAt: time.Now().UTC(),
	})
}

func (s *Store) put(rec Record) error {
	items, err := json.Marshal(rec.Items)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}
	exits, err := json.Marshal(rec.Exits)
	if err != nil {
		return fmt.Errorf("encoding exits: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`INSERT INTO rooms
		(id, title, description, items, exits, transcript, discovered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.Title, rec.Description, items, exits, rec.Transcript,
		rec.DiscoveredAt)
	if err != nil {
		return fmt.Errorf("storing room %q: %w", rec.Title, err)
	}
	return nil
}

// Lookup fetches one room by its description fingerprint.
func (s *Store) Lookup(id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(`SELECT id, title, description, items, exits,
		transcript, discovered_at FROM rooms WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrRoomNotFound
	}
	return rec, err
}

// Rooms returns every stored room, oldest discovery first.
func (s *Store) Rooms() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT id, title, description, items, exits,
		transcript, discovered_at FROM rooms ORDER BY discovered_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// Export packages the whole store as an Atlas.
func (s *Store) Export() (*Atlas, error) {
	recs, err := s.Rooms()
	if err != nil {
		return nil, err
	}
	return &Atlas{Rooms: recs}, nil
}

// Import merges an Atlas into the store. Existing rooms are kept; only
// rooms the store has never seen are added.
func (s *Store) Import(a *Atlas) error {
	for _, rec := range a.Rooms {
		if err := s.put(rec); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var items, exits []byte
	if err := row.Scan(&rec.ID, &rec.Title, &rec.Description, &items,
		&exits, &rec.Transcript, &rec.DiscoveredAt); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal(items, &rec.Items); err != nil {
		return Record{}, fmt.Errorf("decoding items: %w", err)
	}
	if err := json.Unmarshal(exits, &rec.Exits); err != nil {
		return Record{}, fmt.Errorf("decoding exits: %w", err)
	}
	return rec, nil
}
