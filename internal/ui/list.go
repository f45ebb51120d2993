package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tevify/internal/models"
	"github.com/desertthunder/tevify/internal/shared"
)

var (
	_ list.Item = trackItem{}
	_ list.Item = artistItem{}
	_ list.Item = albumItem{}
	_ list.Item = playlistItem{}
	_ list.Item = genreItem("")
	_ list.Item = sectionItem("")
)

// likedFunc reports whether a track id is in the library.
type likedFunc func(id string) bool

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
	liked likedFunc
}

func (i trackItem) FilterValue() string { return i.track.Name }
func (i trackItem) Title() string {
	if i.liked != nil && i.liked(i.track.ID) {
		return "♥ " + i.track.Name
	}
	return i.track.Name
}
func (i trackItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.track.ArtistName, shared.FormatDuration(i.track.Duration))
	if i.track.AlbumName != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.track.AlbumName)
	}
	return desc
}

// artistItem wraps [models.Artist] to implement [list.Item].
type artistItem struct {
	artist models.Artist
}

func (i artistItem) FilterValue() string { return i.artist.Name }
func (i artistItem) Title() string       { return i.artist.Name }
func (i artistItem) Description() string { return "Artist" }

// albumItem wraps [models.Album] to implement [list.Item].
type albumItem struct {
	album models.Album
}

func (i albumItem) FilterValue() string { return i.album.Name }
func (i albumItem) Title() string       { return i.album.Name }
func (i albumItem) Description() string {
	desc := "Album • " + i.album.ArtistName
	if i.album.ReleaseDate != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.album.ReleaseDate)
	}
	return desc
}

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	if i.playlist.UserName != "" {
		return "Playlist by " + i.playlist.UserName
	}
	return "Playlist"
}

type genreItem string

func (i genreItem) FilterValue() string { return string(i) }
func (i genreItem) Title() string       { return string(i) }
func (i genreItem) Description() string { return "Genre" }

// sectionItem is a non-selectable heading between groups of items.
type sectionItem string

func (i sectionItem) FilterValue() string { return "" }
func (i sectionItem) Title() string       { return "── " + string(i) + " ──" }
func (i sectionItem) Description() string { return "" }

func trackItems(tracks []models.Track, liked likedFunc) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, t := range tracks {
		items[i] = trackItem{track: t, liked: liked}
	}
	return items
}

func artistItems(artists []models.Artist) []list.Item {
	items := make([]list.Item, len(artists))
	for i, a := range artists {
		items[i] = artistItem{artist: a}
	}
	return items
}

func albumItems(albums []models.Album) []list.Item {
	items := make([]list.Item, len(albums))
	for i, a := range albums {
		items[i] = albumItem{album: a}
	}
	return items
}

func playlistItems(playlists []models.Playlist) []list.Item {
	items := make([]list.Item, len(playlists))
	for i, p := range playlists {
		items[i] = playlistItem{playlist: p}
	}
	return items
}

func genreItems(tags []string) []list.Item {
	items := make([]list.Item, len(tags))
	for i, t := range tags {
		items[i] = genreItem(t)
	}
	return items
}

// section prepends a heading to items; empty groups are omitted.
func section(title string, items []list.Item) []list.Item {
	if len(items) == 0 {
		return nil
	}
	return append([]list.Item{sectionItem(title)}, items...)
}

func savedAlbumsToAlbums(saved []models.SavedAlbum) []models.Album {
	out := make([]models.Album, len(saved))
	for i, a := range saved {
		out[i] = models.Album{ID: a.ID, Name: a.Name, Image: a.Image, ArtistID: a.ArtistID, ArtistName: a.ArtistName}
	}
	return out
}

func followedToArtists(followed []models.FollowedArtist) []models.Artist {
	out := make([]models.Artist, len(followed))
	for i, a := range followed {
		out[i] = models.Artist{ID: a.ID, Name: a.Name, Image: a.Image}
	}
	return out
}
