// Package catalog is a persistent library of lenses backed by SQLite.
//
// Lenses are stored in their record form (see [lens.Lens.Record]) encoded
// as JSON, and every lens read back goes through [lens.FromRecord]. Each
// stored lens gets a time-ordered UUID.
package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"honnef.co/go/lens"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when no lens has the requested ID.
var ErrNotFound = errors.New("catalog: lens not found")

// Catalog is a lens library. It is safe for concurrent use.
type Catalog struct {
	db *sql.DB
}

// Entry describes a stored lens without decoding it.
type Entry struct {
	ID        string
	Name      string
	Material  string
	CreatedAt time.Time
}

// Open creates or opens the catalog database at path. The path ":memory:"
// opens a private in-memory catalog.
//
// The database runs in WAL mode with NORMAL synchronization and a 5 second
// busy timeout.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: connect to database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("catalog: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: apply schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Put stores a copy of l and returns its new ID.
func (c *Catalog) Put(ctx context.Context, l *lens.Lens) (string, error) {
	rec, err := json.Marshal(l.Record())
	if err != nil {
		return "", fmt.Errorf("catalog: encode %q: %w", l.Name, err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("catalog: generate id: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO lenses (id, name, material, record, created_at) VALUES (?, ?, ?, ?, ?)`,
		id.String(), l.Name, l.Material, string(rec), time.Now().UnixNano())
	if err != nil {
		return "", fmt.Errorf("catalog: insert %q: %w", l.Name, err)
	}
	lens.Logger().Debug("stored lens", "id", id.String(), "name", l.Name)
	return id.String(), nil
}

// Get loads the lens with the given ID.
func (c *Catalog) Get(ctx context.Context, id string) (*lens.Lens, error) {
	var raw string
	err := c.db.QueryRowContext(ctx, `SELECT record FROM lenses WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: query %s: %w", id, err)
	}
	var rec lens.Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", id, err)
	}
	l, err := lens.FromRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("catalog: decode %s: %w", id, err)
	}
	return l, nil
}

// List returns all entries, oldest first.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	return c.query(ctx,
		`SELECT id, name, material, created_at FROM lenses ORDER BY created_at, id`)
}

// FindByName returns the entries named name, oldest first.
func (c *Catalog) FindByName(ctx context.Context, name string) ([]Entry, error) {
	return c.query(ctx,
		`SELECT id, name, material, created_at FROM lenses WHERE name = ? ORDER BY created_at, id`, name)
}

func (c *Catalog) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.Name, &e.Material, &created); err != nil {
			return nil, fmt.Errorf("catalog: list: %w", err)
		}
		e.CreatedAt = time.Unix(0, created)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	return out, nil
}

// Delete removes the lens with the given ID.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM lenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("catalog: delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("catalog: delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	lens.Logger().Debug("deleted lens", "id", id)
	return nil
}
