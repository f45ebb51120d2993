// Package ui implements an interactive terminal music player using bubbletea's Elm architecture.
//
// The TUI is a set of browsable views over the catalog:
//  1. [HomeView] : Trending tracks, genre picks, popular artists and albums
//  2. [SearchView] : Debounced track search
//  3. [GenresView] and [GenreView] : Browse by tag
//  4. [ArtistView], [AlbumView] and [PlaylistView] : Detail pages
//  5. [PlaylistsView] : Community playlists
//  6. [LibraryView] : Liked songs, saved albums and followed artists
//
// A player bar under every view renders the [player.Store] snapshot. Page loads run as commands and carry a
// [tasks.Token]; responses for a page the user has already left are dropped.
//
// Background events (debounced searches, store changes) flow through a channel read by a waiting command,
// the same way progress updates are consumed.
package ui
