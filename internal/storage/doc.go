// Package storage is the SQLite persistence layer behind the archive's
// collaborator contracts.
//
// One database holds three post collections (published, inbox, trash), the
// known location hierarchy and the user directory. The post managers satisfy
// extractor.PostsManager; list-valued post fields (content, trash, authors,
// tags) are stored as JSON text columns and usage aggregates are computed
// over the decoded entries, keeping the schema flat and migrations trivial.
package storage
