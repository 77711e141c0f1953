// Package issue implements the GitHub issue-forms editing surface: template
// rendering, field extraction from submitted issue bodies, prefilled issue
// URLs and the editing resolver itself.
package issue

import (
	"regexp"
	"strings"

	"shotarc/internal/post"
)

// FieldKind matches the GitHub issue-forms element types.
type FieldKind string

const (
	KindInput    FieldKind = "input"
	KindDropdown FieldKind = "dropdown"
	KindTextarea FieldKind = "textarea"
)

// Field describes one issue-form element.
type Field struct {
	ID      string
	Label   string
	Kind    FieldKind
	Options []string
}

// AsInput converts a dropdown to a plain input. GitHub cannot prefill
// dropdowns through issue URLs, so the editing template uses inputs for
// closed-set fields and the resolver coerces the values back.
func (f Field) AsInput() Field {
	f.Kind = KindInput
	f.Options = nil
	return f
}

func typeOptions() []string {
	out := make([]string, len(post.Types))
	for i, t := range post.Types {
		out[i] = string(t)
	}
	return out
}

func markOptions() []string {
	out := make([]string, len(post.Marks))
	for i, m := range post.Marks {
		out[i] = string(m)
	}
	return out
}

func violationOptions() []string {
	out := make([]string, len(post.Violations))
	for i, v := range post.Violations {
		out[i] = v.Title()
	}
	return out
}

// The editing form fields. IDs double as issue-URL query parameters.
var (
	FieldContent     = Field{ID: "content", Label: "Content", Kind: KindTextarea}
	FieldTitle       = Field{ID: "title", Label: "Title", Kind: KindInput}
	FieldTitleRu     = Field{ID: "title-ru", Label: "Title (Russian)", Kind: KindInput}
	FieldType        = Field{ID: "type", Label: "Type", Kind: KindDropdown, Options: typeOptions()}
	FieldAuthor      = Field{ID: "author", Label: "Author", Kind: KindInput}
	FieldTags        = Field{ID: "tags", Label: "Tags", Kind: KindInput}
	FieldLocation    = Field{ID: "location", Label: "Location", Kind: KindDropdown}
	FieldMark        = Field{ID: "mark", Label: "Mark", Kind: KindDropdown, Options: markOptions()}
	FieldViolation   = Field{ID: "violation", Label: "Violation", Kind: KindDropdown, Options: violationOptions()}
	FieldTrash       = Field{ID: "trash", Label: "Trash", Kind: KindTextarea}
	FieldRequestText = Field{ID: "request-text", Label: "Request text", Kind: KindInput}
)

// noResponse is what GitHub substitutes for an empty optional field.
const noResponse = "_No response_"

// ExtractFieldValue pulls a single-line field value out of a rendered issue
// body ("### Label\n\nvalue"). Returns "" when the field is absent or empty.
func ExtractFieldValue(f Field, body string) string {
	v := extractSection(f.Label, body)
	if i := strings.IndexAny(v, "\r\n"); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// ExtractTextareaValue pulls a multi-line field value out of a rendered
// issue body, up to the next section heading.
func ExtractTextareaValue(f Field, body string) string {
	return extractSection(f.Label, body)
}

var sectionRe = regexp.MustCompile(`(?m)^### (.+)$`)

func extractSection(label, body string) string {
	locs := sectionRe.FindAllStringSubmatchIndex(body, -1)
	for i, loc := range locs {
		if strings.TrimSpace(body[loc[2]:loc[3]]) != label {
			continue
		}
		start := loc[1]
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		v := strings.TrimSpace(body[start:end])
		if v == noResponse {
			return ""
		}
		return v
	}
	return ""
}

// SplitLines splits a textarea value into trimmed non-empty lines.
func SplitLines(v string) []string {
	var out []string
	for _, line := range strings.Split(v, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// SplitWords splits a space-separated value into non-empty tokens.
func SplitWords(v string) []string {
	return strings.Fields(v)
}
