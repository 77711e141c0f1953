package storage

import (
	"context"
	"database/sql"

	"shotarc/internal/extractor"
)

// Locations is the SQLite-backed location hierarchy. It implements
// extractor.LocationsReader.
type Locations struct {
	store *Store
}

func (l *Locations) ReadAllEntries(ctx context.Context) ([]extractor.LocationEntry, error) {
	rows, err := l.store.db.QueryContext(ctx, `SELECT path, title FROM locations ORDER BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []extractor.LocationEntry
	for rows.Next() {
		var path string
		var title sql.NullString
		if err := rows.Scan(&path, &title); err != nil {
			return nil, err
		}
		out = append(out, extractor.LocationEntry{Path: path, Title: strOrEmpty(title)})
	}
	return out, rows.Err()
}

// Has reports whether the path is a known location.
func (l *Locations) Has(ctx context.Context, path string) (bool, error) {
	var one int
	err := l.store.db.QueryRowContext(ctx, `SELECT 1 FROM locations WHERE path = ?`, path).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Put inserts or updates a location.
func (l *Locations) Put(ctx context.Context, path, title string) error {
	_, err := l.store.db.ExecContext(ctx,
		`INSERT INTO locations(path, title) VALUES(?,?)
		 ON CONFLICT(path) DO UPDATE SET title=excluded.title`, path, nullStr(title))
	return err
}
