package extractor

import (
	"context"
	"fmt"
	"sort"

	"shotarc/internal/post"
)

// Option is one ranked UI choice.
type Option struct {
	Value string
	Label string
}

func (e *Extractor) sortOptions(opts []Option) {
	sort.SliceStable(opts, func(i, j int) bool {
		return e.compareLabels(opts[i].Label, opts[j].Label) < 0
	})
}

// AuthorOptions lists every author used by the manager's entries, labeled
// with the author's display title and usage count, ordered by label.
func (e *Extractor) AuthorOptions(ctx context.Context, managerName string) ([]Option, error) {
	m, err := e.FindManager(managerName)
	if err != nil {
		return nil, err
	}
	usage, err := m.GetAuthorsUsageStats(ctx)
	if err != nil {
		return nil, err
	}
	return e.userOptions(ctx, usage)
}

// RequesterOptions lists every requester, labeled like AuthorOptions.
func (e *Extractor) RequesterOptions(ctx context.Context, managerName string) ([]Option, error) {
	m, err := e.FindManager(managerName)
	if err != nil {
		return nil, err
	}
	usage, err := m.GetRequesterUsageStats(ctx)
	if err != nil {
		return nil, err
	}
	return e.userOptions(ctx, usage)
}

func (e *Extractor) userOptions(ctx context.Context, usage map[string]int) ([]Option, error) {
	if len(usage) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(usage))
	for id := range usage {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries, err := e.users.GetEntries(ctx, ids)
	if err != nil {
		return nil, err
	}

	opts := make([]Option, 0, len(entries))
	for _, u := range entries {
		opts = append(opts, Option{
			Value: u.ID,
			Label: fmt.Sprintf("%s (%d)", UserTitle(u), usage[u.ID]),
		})
	}
	e.sortOptions(opts)
	return opts, nil
}

// TagOptions lists every used tag with its usage count, ordered by label.
func (e *Extractor) TagOptions(ctx context.Context, managerName string) ([]Option, error) {
	m, err := e.FindManager(managerName)
	if err != nil {
		return nil, err
	}
	usage, err := m.GetTagsUsageStats(ctx)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(usage))
	for tag, count := range usage {
		opts = append(opts, Option{Value: tag, Label: fmt.Sprintf("%s (%d)", tag, count)})
	}
	e.sortOptions(opts)
	return opts, nil
}

// LocationOptions lists every known location used by the manager's entries.
// Usage counts aggregate over the hierarchy: a location's count includes
// entries filed under any of its descendants. Locations with zero aggregate
// usage are omitted.
func (e *Extractor) LocationOptions(ctx context.Context, managerName string) ([]Option, error) {
	m, err := e.FindManager(managerName)
	if err != nil {
		return nil, err
	}
	usage, err := m.GetLocationsUsageStats(ctx)
	if err != nil {
		return nil, err
	}
	known, err := e.locations.ReadAllEntries(ctx)
	if err != nil {
		return nil, err
	}

	opts := make([]Option, 0, len(known))
	for _, loc := range known {
		count := 0
		for used, n := range usage {
			if post.IsNestedLocation(used, loc.Path) {
				count += n
			}
		}
		if count == 0 {
			continue
		}
		opts = append(opts, Option{
			Value: loc.Path,
			Label: fmt.Sprintf("%s (%d)", loc.Path, count),
		})
	}
	e.sortOptions(opts)
	return opts, nil
}
