// Package store keeps unsubscriptions received by the development endpoint.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const driver = "sqlite"

// Unsubscription is one accepted request.
type Unsubscription struct {
	ID        string
	Email     string
	Reason    string
	Options   []string
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and makes sure the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	createUnsubscriptionsTableSQL := `
	CREATE TABLE IF NOT EXISTS unsubscriptions (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		reason TEXT NOT NULL DEFAULT '',
		options TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);`

	if _, err := s.db.Exec(createUnsubscriptionsTableSQL); err != nil {
		return fmt.Errorf("failed to create unsubscriptions table: %w", err)
	}
	return nil
}

// Record stores u, filling in the ID and creation time when empty.
func (s *Store) Record(ctx context.Context, u Unsubscription) (Unsubscription, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO unsubscriptions (id, email, reason, options, created_at) VALUES (?, ?, ?, ?, ?)",
		u.ID, u.Email, u.Reason, strings.Join(u.Options, ","), u.CreatedAt.Unix())
	if err != nil {
		return Unsubscription{}, fmt.Errorf("failed to record unsubscription: %w", err)
	}
	return u, nil
}

// List returns every stored unsubscription, oldest first.
func (s *Store) List(ctx context.Context) ([]Unsubscription, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, email, reason, options, created_at FROM unsubscriptions ORDER BY created_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to list unsubscriptions: %w", err)
	}
	defer rows.Close()

	var result []Unsubscription
	for rows.Next() {
		var (
			u       Unsubscription
			options string
			created int64
		)
		if err := rows.Scan(&u.ID, &u.Email, &u.Reason, &options, &created); err != nil {
			return nil, err
		}
		if options != "" {
			u.Options = strings.Split(options, ",")
		}
		u.CreatedAt = time.Unix(created, 0)
		result = append(result, u)
	}
	return result, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
