package issue

import (
	"context"
	"fmt"

	"shotarc/internal/extractor"
	"shotarc/internal/post"
	"shotarc/internal/storage"
	"shotarc/pkg/logx"
)

// GithubIssue is the resolver's view of a submitted issue.
type GithubIssue struct {
	Title  string
	Body   string
	Author string // GitHub login of the submitter
	Labels []string
}

// UserDirectory resolves a submitter to archive user metadata.
type UserDirectory interface {
	GetEntry(ctx context.Context, id string) (extractor.UserEntry, error)
}

// LocationChecker validates a location path against the known hierarchy.
type LocationChecker interface {
	Has(ctx context.Context, path string) (bool, error)
}

// Editing resolves issues labeled "editing": it applies the submitted form
// values to the post named in the issue title, looked up across inbox and
// trash.
type Editing struct {
	extractor *extractor.Extractor
	users     UserDirectory
	locations LocationChecker
	log       logx.Logger
}

func NewEditing(ex *extractor.Extractor, users UserDirectory, locations LocationChecker, log logx.Logger) *Editing {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Editing{extractor: ex, users: users, locations: locations, log: log}
}

func (r *Editing) Label() string { return EditingLabel }

func (r *Editing) Resolve(ctx context.Context, issue GithubIssue) error {
	id := issue.Title
	entry, manager, err := r.extractor.GetPost(ctx, id, storage.CollectionInbox, storage.CollectionTrash)
	if err != nil {
		return err
	}

	user, err := r.users.GetEntry(ctx, issue.Author)
	if err != nil {
		return err
	}
	if !user.User.Admin {
		return fmt.Errorf("post editing is not allowed for non-administrator user %q", issue.Author)
	}

	p := entry.Post
	body := issue.Body

	rawContent := SplitLines(ExtractTextareaValue(FieldContent, body))
	rawTrash := SplitLines(ExtractTextareaValue(FieldTrash, body))
	oldContent, oldTrash := p.Content, p.Trash

	p.Title = ExtractFieldValue(FieldTitle, body)
	p.TitleRu = ExtractFieldValue(FieldTitleRu, body)

	// Content and trash exchange: a reference moved out of one list lands in
	// the other, so nothing silently disappears.
	p.Content = post.MergeContents(rawContent, without(oldTrash, rawTrash))
	p.Trash = post.MergeContents(rawTrash, without(oldContent, rawContent))

	p.Author = post.MergeAuthors(SplitWords(ExtractFieldValue(FieldAuthor, body)))
	p.Tags = SplitWords(ExtractFieldValue(FieldTags, body))
	p.Type = post.ParseType(ExtractFieldValue(FieldType, body))
	p.Mark = post.ParseMark(ExtractFieldValue(FieldMark, body))
	p.Violation = post.ParseViolationTitle(ExtractFieldValue(FieldViolation, body))

	if location := ExtractFieldValue(FieldLocation, body); location == "" {
		p.Location = ""
	} else {
		known, err := r.locations.Has(ctx, location)
		if err != nil {
			return err
		}
		// Unknown locations are ignored rather than rejected: the post keeps
		// its previous location and the submitter fixes the hierarchy first.
		if known {
			p.Location = location
		}
	}

	if requestText := ExtractFieldValue(FieldRequestText, body); p.Request != nil && requestText != "" {
		p.Request.Text = requestText
	}

	if err := manager.UpdateEntry(ctx, post.Entry{ID: id, Post: p}); err != nil {
		return err
	}

	// Edits change derived views; drop memoized data.
	r.extractor.ClearCache()

	r.log.Info("post updated", logx.String("post", id), logx.String("manager", manager.Name()))
	return nil
}

// without returns items of list not present in exclude.
func without(list, exclude []string) []string {
	var out []string
	for _, v := range list {
		found := false
		for _, x := range exclude {
			if v == x {
				found = true
				break
			}
		}
		if !found {
			out = append(out, v)
		}
	}
	return out
}
