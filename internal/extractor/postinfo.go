package extractor

import (
	"context"

	"shotarc/internal/post"
)

// PostInfo is a post entry enriched with display-only derived labels. The
// labels are for UI and issue-editing flows; rule evaluation never reads
// them.
type PostInfo struct {
	post.Entry

	Manager string

	// Title falls back to the post id when the post has none.
	Title          string
	AuthorTitles   []string
	RequesterTitle string
	LocationTitle  string
}

// PostInfos returns the enriched entries of one manager, sorted by
// publication time descending (unpublished entries first, by id). The result
// is memoized per manager with single-flight population.
func (e *Extractor) PostInfos(ctx context.Context, managerName string) ([]PostInfo, error) {
	return e.cached("postInfos."+managerName, func() ([]PostInfo, error) {
		m, err := e.FindManager(managerName)
		if err != nil {
			return nil, err
		}
		entries, err := m.ReadAllEntries(ctx)
		if err != nil {
			return nil, err
		}
		post.SortEntriesDesc(entries)
		return e.buildPostInfos(ctx, managerName, entries)
	})
}

func (e *Extractor) buildPostInfos(ctx context.Context, managerName string, entries []post.Entry) ([]PostInfo, error) {
	// Resolve every referenced user in one batch.
	var ids []string
	seen := map[string]bool{}
	for _, entry := range entries {
		for _, a := range entry.Post.Author {
			if !seen[a] {
				seen[a] = true
				ids = append(ids, a)
			}
		}
		if r := entry.Post.Request; r != nil && r.From != "" && !seen[r.From] {
			seen[r.From] = true
			ids = append(ids, r.From)
		}
	}
	titles := map[string]string{}
	if len(ids) > 0 && e.users != nil {
		users, err := e.users.GetEntries(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			titles[u.ID] = UserTitle(u)
		}
	}

	locationTitles := map[string]string{}
	if e.locations != nil {
		locs, err := e.locations.ReadAllEntries(ctx)
		if err != nil {
			return nil, err
		}
		for _, l := range locs {
			locationTitles[l.Path] = l.Title
		}
	}

	infos := make([]PostInfo, 0, len(entries))
	for _, entry := range entries {
		info := PostInfo{
			Entry:   entry,
			Manager: managerName,
			Title:   entry.Post.Title,
		}
		if info.Title == "" {
			info.Title = entry.ID
		}
		for _, a := range entry.Post.Author {
			title := titles[a]
			if title == "" {
				title = a
			}
			info.AuthorTitles = append(info.AuthorTitles, title)
		}
		if r := entry.Post.Request; r != nil && r.From != "" {
			info.RequesterTitle = titles[r.From]
			if info.RequesterTitle == "" {
				info.RequesterTitle = r.From
			}
		}
		if loc := entry.Post.Location; loc != "" {
			info.LocationTitle = locationTitles[loc]
			if info.LocationTitle == "" {
				info.LocationTitle = loc
			}
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// CandidatePool returns the publishable unpublished entries of one manager,
// enriched like PostInfos. This is the pool the scheduler filters.
func (e *Extractor) CandidatePool(ctx context.Context, managerName string) ([]post.Entry, error) {
	infos, err := e.PostInfos(ctx, managerName)
	if err != nil {
		return nil, err
	}
	var pool []post.Entry
	seen := map[string]bool{}
	for _, info := range infos {
		p := info.Entry.Post
		if p.Published() || !p.Publishable() {
			continue
		}
		if seen[info.Entry.ID] {
			continue
		}
		seen[info.Entry.ID] = true
		pool = append(pool, info.Entry)
	}
	return pool, nil
}
