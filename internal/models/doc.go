// Package models defines the catalog entities and library projections used across tevify.
//
// The package contains two categories of types:
//
// 1. Catalog entities: immutable values decoded from the Jamendo catalog
//   - [Track] : A playable song with artist/album references and an audio URL
//   - [Artist] : Artist profile
//   - [Album] : Album metadata
//   - [Playlist] : Community playlist metadata
//
// 2. Library projections: reduced copies kept in the persisted library
//   - [SavedAlbum] : Album projection with its artist
//   - [FollowedArtist] : Artist projection
//   - [LibraryState] : The three toggle-sets (liked songs, saved albums, followed artists)
//
// Cross references (artist/album ids) are opaque strings. They are only resolved by re-querying the catalog.
package models
