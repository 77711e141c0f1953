package post

import "strings"

// Locations are hierarchical slash-separated paths ("ru/moscow/center").
// The hierarchy is prefix-based: "ru/moscow/center" is nested in "ru/moscow"
// and in "ru".

// IsNestedLocation reports whether location is nested in or equal to parent.
func IsNestedLocation(location, parent string) bool {
	if location == "" || parent == "" {
		return false
	}
	return location == parent || strings.HasPrefix(location, parent+"/")
}

// RelatedLocations reports whether two locations share a hierarchy line:
// either one is nested in (or equal to) the other.
func RelatedLocations(a, b string) bool {
	return IsNestedLocation(a, b) || IsNestedLocation(b, a)
}

// LocationParts splits a location path into its hierarchy segments.
func LocationParts(location string) []string {
	if location == "" {
		return nil
	}
	return strings.Split(location, "/")
}
