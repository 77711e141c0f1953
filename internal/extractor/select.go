package extractor

import (
	"context"
	"strings"
	"time"

	"shotarc/internal/post"
)

// SelectParams filters a manager's post infos. Zero-valued fields do not
// constrain. Location matches the hierarchy line: a filter of "ru/moscow"
// matches entries filed under "ru/moscow/center".
type SelectParams struct {
	Type      post.Type
	Mark      post.Mark
	Author    string
	Tag       string
	Requester string
	Location  string

	From time.Time
	To   time.Time

	// Published: nil matches both, true only published, false only
	// candidates.
	Published *bool

	// Search matches case-insensitively against titles and the post id.
	Search string
}

func (p SelectParams) matches(info PostInfo) bool {
	pp := info.Entry.Post
	if p.Type != "" && pp.Type != p.Type {
		return false
	}
	if p.Mark != post.MarkNone && pp.Mark != p.Mark {
		return false
	}
	if p.Author != "" && !pp.SharesAuthor([]string{p.Author}) {
		return false
	}
	if p.Tag != "" && !containsString(pp.Tags, p.Tag) {
		return false
	}
	if p.Requester != "" && (pp.Request == nil || pp.Request.From != p.Requester) {
		return false
	}
	if p.Location != "" && !post.IsNestedLocation(pp.Location, p.Location) {
		return false
	}
	if p.Published != nil && pp.Published() != *p.Published {
		return false
	}
	if !p.From.IsZero() && (pp.PublishedAt.IsZero() || pp.PublishedAt.Before(p.From)) {
		return false
	}
	if !p.To.IsZero() && (pp.PublishedAt.IsZero() || pp.PublishedAt.After(p.To)) {
		return false
	}
	if s := strings.TrimSpace(p.Search); s != "" {
		needle := strings.ToLower(s)
		if !strings.Contains(strings.ToLower(info.Title), needle) &&
			!strings.Contains(strings.ToLower(pp.TitleRu), needle) &&
			!strings.Contains(strings.ToLower(info.Entry.ID), needle) {
			return false
		}
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// SelectPostInfos returns the manager's entries matching params, in the
// cached descending publication order. limit <= 0 means no limit.
func (e *Extractor) SelectPostInfos(ctx context.Context, managerName string, params SelectParams, limit int) ([]PostInfo, error) {
	infos, err := e.PostInfos(ctx, managerName)
	if err != nil {
		return nil, err
	}
	var out []PostInfo
	for _, info := range infos {
		if !params.matches(info) {
			continue
		}
		out = append(out, info)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// SelectPostInfo returns the first match, with ok=false (and no error) when
// nothing matches.
func (e *Extractor) SelectPostInfo(ctx context.Context, managerName string, params SelectParams) (PostInfo, bool, error) {
	infos, err := e.SelectPostInfos(ctx, managerName, params, 1)
	if err != nil {
		return PostInfo{}, false, err
	}
	if len(infos) == 0 {
		return PostInfo{}, false, nil
	}
	return infos[0], true, nil
}
