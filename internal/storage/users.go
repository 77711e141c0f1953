package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shotarc/internal/extractor"
)

// Users is the SQLite-backed user directory. It implements
// extractor.UsersManager.
type Users struct {
	store *Store
}

func (u *Users) GetEntries(ctx context.Context, ids []string) ([]extractor.UserEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := u.store.db.QueryContext(ctx,
		`SELECT id, name, admin FROM users WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found := map[string]extractor.User{}
	for rows.Next() {
		var id string
		var name sql.NullString
		var admin int
		if err := rows.Scan(&id, &name, &admin); err != nil {
			return nil, err
		}
		found[id] = extractor.User{Name: strOrEmpty(name), Admin: admin != 0}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Keep the requested order; unknown ids get zero metadata.
	out := make([]extractor.UserEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, extractor.UserEntry{ID: id, User: found[id]})
	}
	return out, nil
}

// GetEntry returns one user or extractor.ErrNotFound.
func (u *Users) GetEntry(ctx context.Context, id string) (extractor.UserEntry, error) {
	var name sql.NullString
	var admin int
	err := u.store.db.QueryRowContext(ctx,
		`SELECT name, admin FROM users WHERE id = ?`, id).Scan(&name, &admin)
	if errors.Is(err, sql.ErrNoRows) {
		return extractor.UserEntry{}, fmt.Errorf("%w: user %q", extractor.ErrNotFound, id)
	}
	if err != nil {
		return extractor.UserEntry{}, err
	}
	return extractor.UserEntry{ID: id, User: extractor.User{Name: strOrEmpty(name), Admin: admin != 0}}, nil
}

// Put inserts or updates a user.
func (u *Users) Put(ctx context.Context, e extractor.UserEntry) error {
	admin := 0
	if e.User.Admin {
		admin = 1
	}
	_, err := u.store.db.ExecContext(ctx,
		`INSERT INTO users(id, name, admin) VALUES(?,?,?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, admin=excluded.admin`,
		e.ID, nullStr(e.User.Name), admin)
	return err
}
