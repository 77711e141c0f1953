package issue

import (
	"net/url"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	"shotarc/internal/post"
)

// EditingLabel is the issue label routing an issue to the editing resolver.
const EditingLabel = "editing"

// DefaultTitle is the template title placeholder; the submitter replaces it
// with a post id.
const DefaultTitle = "POST_ID"

// issue-forms YAML shapes.

type templateDoc struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Title       string         `yaml:"title"`
	Labels      []string       `yaml:"labels"`
	Body        []templateItem `yaml:"body"`
}

type templateItem struct {
	Type       string        `yaml:"type"`
	ID         string        `yaml:"id"`
	Attributes templateAttrs `yaml:"attributes"`
}

type templateAttrs struct {
	Label   string   `yaml:"label"`
	Options []string `yaml:"options,omitempty"`
}

// editingFields lists the form body in order. Dropdowns are rendered as
// inputs so prefilled issue URLs work; see Field.AsInput.
func editingFields() []Field {
	return []Field{
		FieldContent,
		FieldTitle,
		FieldTitleRu,
		FieldType.AsInput(),
		FieldAuthor,
		FieldTags,
		FieldLocation.AsInput(),
		FieldMark.AsInput(),
		FieldViolation.AsInput(),
		FieldTrash,
		FieldRequestText,
	}
}

// RenderEditingTemplate produces the issue-forms YAML for the editing flow
// (.github/ISSUE_TEMPLATE/editing.yml).
func RenderEditingTemplate() ([]byte, error) {
	doc := templateDoc{
		Name:        "Edit Post",
		Description: "Paste in the title the ID of a post from inbox or trash.",
		Title:       DefaultTitle,
		Labels:      []string{EditingLabel},
	}
	for _, f := range editingFields() {
		doc.Body = append(doc.Body, templateItem{
			Type: string(f.Kind),
			ID:   f.ID,
			Attributes: templateAttrs{
				Label:   f.Label,
				Options: f.Options,
			},
		})
	}
	return yaml.Marshal(doc)
}

// EditingIssueURL builds a prefilled new-issue URL for editing the given
// post. repo is the "owner/name" slug.
func EditingIssueURL(repo, id string, p *post.Post) string {
	u := url.URL{Scheme: "https", Host: "github.com", Path: "/" + repo + "/issues/new"}
	q := u.Query()
	q.Set("labels", EditingLabel)
	q.Set("template", EditingLabel+".yml")
	if id != "" {
		q.Set("title", id)
	} else {
		q.Set("title", DefaultTitle)
	}

	if p != nil {
		q.Set(FieldContent.ID, strings.Join(p.Content, "\n"))
		q.Set(FieldTitle.ID, p.Title)
		q.Set(FieldTitleRu.ID, p.TitleRu)
		q.Set(FieldAuthor.ID, strings.Join(p.Author, " "))
		q.Set(FieldType.ID, string(p.Type))
		q.Set(FieldTags.ID, strings.Join(p.Tags, " "))
		q.Set(FieldLocation.ID, p.Location)
		q.Set(FieldMark.ID, string(p.Mark))
		q.Set(FieldViolation.ID, p.Violation.Title())
		q.Set(FieldTrash.ID, strings.Join(p.Trash, "\n"))
		if p.Request != nil {
			q.Set(FieldRequestText.ID, p.Request.Text)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
