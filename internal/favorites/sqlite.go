package favorites

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteSlot stores the payload in a one-row slot table. Still a whole-blob
// rewrite per mutation; sqlite just makes the write durable without the
// temp-file dance and keeps the door open for sharing the db file with other
// local tooling.
type SQLiteSlot struct {
	db   *sql.DB
	name string
}

func OpenSQLiteSlot(path, name string) (*SQLiteSlot, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS slots (
		name TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create slot table: %w", err)
	}
	return &SQLiteSlot{db: db, name: name}, nil
}

func (s *SQLiteSlot) Load() ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT payload FROM slots WHERE name = ?`, s.name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmptySlot
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *SQLiteSlot) Store(data []byte) error {
	_, err := s.db.Exec(`INSERT INTO slots (name, payload) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload`, s.name, data)
	return err
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
