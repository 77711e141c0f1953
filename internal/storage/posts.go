package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shotarc/internal/extractor"
	"shotarc/internal/post"
)

// PostsManager is the SQLite-backed view over one post collection. It
// implements extractor.PostsManager.
type PostsManager struct {
	store      *Store
	collection string
}

func (m *PostsManager) Name() string { return m.collection }

const postColumns = `id, title, title_ru, type, mark, location, violation,
	request_from, request_text, content, trash, author, tags, published_at`

func (m *PostsManager) ReadAllEntries(ctx context.Context) ([]post.Entry, error) {
	rows, err := m.store.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE collection = ?`, m.collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []post.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ReadPublishedEntriesDesc returns entries sorted by publication time
// descending, ready for history construction.
func (m *PostsManager) ReadPublishedEntriesDesc(ctx context.Context) ([]post.Entry, error) {
	entries, err := m.ReadAllEntries(ctx)
	if err != nil {
		return nil, err
	}
	var published []post.Entry
	for _, e := range entries {
		if e.Post.Published() {
			published = append(published, e)
		}
	}
	post.SortEntriesDesc(published)
	return published, nil
}

func (m *PostsManager) GetEntry(ctx context.Context, id string) (post.Entry, error) {
	row := m.store.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE collection = ? AND id = ?`, m.collection, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return post.Entry{}, fmt.Errorf("%w: %q in %s", extractor.ErrNotFound, id, m.collection)
	}
	return e, err
}

func (m *PostsManager) AddEntry(ctx context.Context, e post.Entry) error {
	return m.exec(ctx, `INSERT INTO posts
		(id, collection, title, title_ru, type, mark, location, violation,
		 request_from, request_text, content, trash, author, tags, published_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`, e, false)
}

func (m *PostsManager) UpdateEntry(ctx context.Context, e post.Entry) error {
	return m.exec(ctx, `UPDATE posts SET
		title=?, title_ru=?, type=?, mark=?, location=?, violation=?,
		request_from=?, request_text=?, content=?, trash=?, author=?, tags=?, published_at=?
		WHERE collection=? AND id=?`, e, true)
}

func (m *PostsManager) exec(ctx context.Context, query string, e post.Entry, update bool) error {
	p := e.Post
	var requestFrom, requestText string
	if p.Request != nil {
		requestFrom, requestText = p.Request.From, p.Request.Text
	}
	var publishedAt any
	if p.Published() {
		publishedAt = p.PublishedAt.UTC().Format(time.RFC3339Nano)
	}

	values := []any{
		nullStr(p.Title), nullStr(p.TitleRu), string(p.Type), nullStr(string(p.Mark)),
		nullStr(p.Location), nullStr(string(p.Violation)),
		nullStr(requestFrom), nullStr(requestText),
		jsonList(p.Content), jsonList(p.Trash), jsonList(p.Author), jsonList(p.Tags),
		publishedAt,
	}

	var args []any
	if update {
		args = append(values, m.collection, e.ID)
	} else {
		args = append([]any{e.ID, m.collection}, values...)
	}

	res, err := m.store.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if update {
		n, err := res.RowsAffected()
		if err == nil && n == 0 {
			return fmt.Errorf("%w: %q in %s", extractor.ErrNotFound, e.ID, m.collection)
		}
	}
	return nil
}

func (m *PostsManager) RemoveEntry(ctx context.Context, id string) error {
	res, err := m.store.db.ExecContext(ctx,
		`DELETE FROM posts WHERE collection = ? AND id = ?`, m.collection, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("%w: %q in %s", extractor.ErrNotFound, id, m.collection)
	}
	return nil
}

// ---- usage stats ----

func (m *PostsManager) usageStats(ctx context.Context, pick func(*post.Post) []string) (map[string]int, error) {
	entries, err := m.ReadAllEntries(ctx)
	if err != nil {
		return nil, err
	}
	out := map[string]int{}
	for _, e := range entries {
		for _, key := range pick(e.Post) {
			if key != "" {
				out[key]++
			}
		}
	}
	return out, nil
}

func (m *PostsManager) GetAuthorsUsageStats(ctx context.Context) (map[string]int, error) {
	return m.usageStats(ctx, func(p *post.Post) []string { return p.Author })
}

func (m *PostsManager) GetTagsUsageStats(ctx context.Context) (map[string]int, error) {
	return m.usageStats(ctx, func(p *post.Post) []string { return p.Tags })
}

func (m *PostsManager) GetLocationsUsageStats(ctx context.Context) (map[string]int, error) {
	return m.usageStats(ctx, func(p *post.Post) []string { return []string{p.Location} })
}

func (m *PostsManager) GetRequesterUsageStats(ctx context.Context) (map[string]int, error) {
	return m.usageStats(ctx, func(p *post.Post) []string {
		if p.Request == nil {
			return nil
		}
		return []string{p.Request.From}
	})
}

// ---- row mapping ----

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (post.Entry, error) {
	var (
		id, typeStr                                  string
		title, titleRu, mark, location, violation    sql.NullString
		requestFrom, requestText, publishedAt        sql.NullString
		contentJSON, trashJSON, authorJSON, tagsJSON sql.NullString
	)
	err := row.Scan(&id, &title, &titleRu, &typeStr, &mark, &location, &violation,
		&requestFrom, &requestText, &contentJSON, &trashJSON, &authorJSON, &tagsJSON, &publishedAt)
	if err != nil {
		return post.Entry{}, err
	}

	p := &post.Post{
		Title:     strOrEmpty(title),
		TitleRu:   strOrEmpty(titleRu),
		Type:      post.ParseType(typeStr),
		Mark:      post.ParseMark(strOrEmpty(mark)),
		Location:  strOrEmpty(location),
		Violation: post.Violation(strOrEmpty(violation)),
		Content:   parseList(contentJSON),
		Trash:     parseList(trashJSON),
		Author:    parseList(authorJSON),
		Tags:      parseList(tagsJSON),
	}
	if requestFrom.Valid || requestText.Valid {
		p.Request = &post.Request{From: strOrEmpty(requestFrom), Text: strOrEmpty(requestText)}
	}
	if publishedAt.Valid && publishedAt.String != "" {
		t, err := time.Parse(time.RFC3339Nano, publishedAt.String)
		if err != nil {
			return post.Entry{}, fmt.Errorf("post %q: bad published_at: %w", id, err)
		}
		p.PublishedAt = t
	}
	return post.Entry{ID: id, Post: p}, nil
}

func jsonList(list []string) any {
	if len(list) == 0 {
		return nil
	}
	b, _ := json.Marshal(list)
	return string(b)
}

func parseList(v sql.NullString) []string {
	if !v.Valid || v.String == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(v.String), &out); err != nil {
		return nil
	}
	return out
}
