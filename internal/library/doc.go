// Package library implements the user's library: liked songs, saved albums and followed artists.
//
// # Toggle Sets
//
// Each collection is an ordered set keyed by id, most recently added first.
// A toggle prepends an absent item and removes a present one, so toggling twice restores the prior state
// and no collection ever holds two entries with the same id.
//
// # Persistence
//
// [Store] writes its entire state through to a [Storage] slot after every mutation.
// The slot is read once by [New]; an absent or unreadable payload yields an empty library with a warning.
// Write failures are logged and never returned to the caller.
//
// The payload is a JSON envelope:
//
//	{"state": {"likedSongs": [...], "savedAlbums": [...], "followedArtists": [...]}, "version": 0}
package library
