package post

import (
	"sort"
	"strings"
	"time"
)

// Type is the closed set of content types.
type Type string

const (
	TypeShot      Type = "shot"
	TypeShotSet   Type = "shot-set"
	TypeWallpaper Type = "wallpaper"
)

// Types lists all known types, in declaration order.
var Types = []Type{TypeShot, TypeShotSet, TypeWallpaper}

// ParseType returns the matching type, or TypeShot when the input is not a
// known type. The shot fallback mirrors the archive's editing flow, where an
// unrecognized dropdown value must not wedge a post in an invalid state.
func ParseType(s string) Type {
	for _, t := range Types {
		if string(t) == s {
			return t
		}
	}
	return TypeShot
}

// HasMark reports whether posts of this type carry a quality mark.
// Sets are curated as a whole and are not graded.
func (t Type) HasMark() bool {
	return t != TypeShotSet
}

// Mark is an ordered quality grade. The zero value means "not graded".
// Order runs from common to rare: C < B1 < B2 < A2 < A1.
type Mark string

const (
	MarkNone Mark = ""
	MarkC    Mark = "C"
	MarkB1   Mark = "B1"
	MarkB2   Mark = "B2"
	MarkA2   Mark = "A2"
	MarkA1   Mark = "A1"
)

// Marks lists all grades in ascending order of rarity.
var Marks = []Mark{MarkC, MarkB1, MarkB2, MarkA2, MarkA1}

// ParseMark returns the matching grade, or MarkNone for anything else.
func ParseMark(s string) Mark {
	for _, m := range Marks {
		if string(m) == s {
			return m
		}
	}
	return MarkNone
}

// Index returns the grade's position on the rarity scale, or -1 for MarkNone.
func (m Mark) Index() int {
	for i, known := range Marks {
		if m == known {
			return i
		}
	}
	return -1
}

// Violation is a closed set of reasons a post was rejected from publishing.
// The zero value means "no violation".
type Violation string

const (
	ViolationNone                 Violation = ""
	ViolationInappropriateContent Violation = "inappropriate-content"
	ViolationLowQuality           Violation = "low-quality"
	ViolationCopyright            Violation = "copyright"
)

var violationTitles = map[Violation]string{
	ViolationInappropriateContent: "Inappropriate content",
	ViolationLowQuality:           "Low quality",
	ViolationCopyright:            "Copyright infringement",
}

// Violations lists all known violations, in declaration order.
var Violations = []Violation{
	ViolationInappropriateContent,
	ViolationLowQuality,
	ViolationCopyright,
}

// Title returns the human-readable violation title ("" for ViolationNone).
func (v Violation) Title() string { return violationTitles[v] }

// ParseViolationTitle maps a human-readable title back to its violation.
func ParseViolationTitle(title string) Violation {
	for v, t := range violationTitles {
		if t == title {
			return v
		}
	}
	return ViolationNone
}

// Request is a free-text annotation from the user who asked for the post.
type Request struct {
	From string `json:"from,omitempty"`
	Text string `json:"text,omitempty"`
}

// Post is the canonical record of a published or candidate post.
//
// Content references are the identity used by duplicate and distance checks;
// a post that has ever been published has at least one. PublishedAt is the
// zero time for unpublished candidates.
type Post struct {
	Title   string `json:"title,omitempty"`
	TitleRu string `json:"titleRu,omitempty"`

	Content []string `json:"content,omitempty"`
	Trash   []string `json:"trash,omitempty"`

	Author []string `json:"author,omitempty"`
	Tags   []string `json:"tags,omitempty"`

	Type     Type   `json:"type"`
	Mark     Mark   `json:"mark,omitempty"`
	Location string `json:"location,omitempty"`

	Violation Violation `json:"violation,omitempty"`
	Request   *Request  `json:"request,omitempty"`

	PublishedAt time.Time `json:"publishedAt,omitempty"`
}

// Published reports whether the post has been published.
func (p *Post) Published() bool { return !p.PublishedAt.IsZero() }

// Publishable reports whether the post may still be considered for
// publishing: it has content and no recorded violation.
func (p *Post) Publishable() bool {
	return len(p.Content) > 0 && p.Violation == ViolationNone
}

// Rejected reports whether the post belongs in trash rather than inbox.
func (p *Post) Rejected() bool { return p.Violation != ViolationNone }

// SharesAuthor reports whether the post has at least one author in common
// with the given set.
func (p *Post) SharesAuthor(authors []string) bool {
	for _, a := range p.Author {
		for _, b := range authors {
			if a == b {
				return true
			}
		}
	}
	return false
}

// SharesContent reports whether the post has at least one content reference
// in common with the given set.
func (p *Post) SharesContent(refs []string) bool {
	for _, c := range p.Content {
		for _, r := range refs {
			if c == r {
				return true
			}
		}
	}
	return false
}

// Entry pairs a post with its stable identifier.
type Entry struct {
	ID   string
	Post *Post
}

// SortEntriesDesc sorts entries by publication time, newest first. Entries
// with equal timestamps keep a stable id order so repeated reads agree.
func SortEntriesDesc(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Post.PublishedAt, entries[j].Post.PublishedAt
		if a.Equal(b) {
			return entries[i].ID < entries[j].ID
		}
		return a.After(b)
	})
}

// MergeContents combines two reference lists, preserving the order of the
// first and skipping duplicates and blanks.
func MergeContents(primary, extra []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, list := range [][]string{primary, extra} {
		for _, ref := range list {
			ref = strings.TrimSpace(ref)
			if ref == "" || seen[ref] {
				continue
			}
			seen[ref] = true
			out = append(out, ref)
		}
	}
	return out
}

// MergeAuthors normalizes an author list: trimmed, deduplicated, order kept.
func MergeAuthors(authors []string) []string {
	return MergeContents(authors, nil)
}
