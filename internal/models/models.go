// package models defines the data model for the tevify music client
package models

// Track represents a playable song from the catalog.
type Track struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Duration      int    `json:"duration"` // Duration in seconds
	ArtistID      string `json:"artist_id"`
	ArtistName    string `json:"artist_name"`
	AlbumID       string `json:"album_id"`
	AlbumName     string `json:"album_name"`
	Image         string `json:"image"`
	Audio         string `json:"audio"`
	AudioDownload string `json:"audiodownload,omitempty"`
	ReleaseDate   string `json:"releasedate,omitempty"`
	ShareURL      string `json:"shareurl,omitempty"`
}

// Artist represents an artist profile from the catalog.
type Artist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	JoinDate string `json:"joindate,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Album represents album metadata from the catalog.
type Album struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ArtistID    string `json:"artist_id"`
	ArtistName  string `json:"artist_name"`
	Image       string `json:"image"`
	ReleaseDate string `json:"releasedate,omitempty"`
	Zip         string `json:"zip,omitempty"`
}

// Playlist represents a community playlist from the catalog.
type Playlist struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CreationDate string `json:"creationdate,omitempty"`
	UserID       string `json:"user_id,omitempty"`
	UserName     string `json:"user_name,omitempty"`
	Zip          string `json:"zip,omitempty"`
}

// SavedAlbum is the library projection of an [Album].
type SavedAlbum struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Image      string `json:"image"`
	ArtistName string `json:"artist_name"`
	ArtistID   string `json:"artist_id"`
}

// FollowedArtist is the library projection of an [Artist].
type FollowedArtist struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// NewSavedAlbum projects a catalog album into its library form.
func NewSavedAlbum(a Album) SavedAlbum {
	return SavedAlbum{ID: a.ID, Name: a.Name, Image: a.Image, ArtistName: a.ArtistName, ArtistID: a.ArtistID}
}

// NewFollowedArtist projects a catalog artist into its library form.
func NewFollowedArtist(a Artist) FollowedArtist {
	return FollowedArtist{ID: a.ID, Name: a.Name, Image: a.Image}
}

// LibraryState holds the three library toggle-sets, most recently toggled first.
type LibraryState struct {
	LikedSongs      []Track          `json:"likedSongs"`
	SavedAlbums     []SavedAlbum     `json:"savedAlbums"`
	FollowedArtists []FollowedArtist `json:"followedArtists"`
}

// NewLibraryState returns a state with three empty (non-nil) sequences.
func NewLibraryState() LibraryState {
	return LibraryState{
		LikedSongs:      []Track{},
		SavedAlbums:     []SavedAlbum{},
		FollowedArtists: []FollowedArtist{},
	}
}

// Clone returns a copy of the state that shares no slices with the receiver.
func (s LibraryState) Clone() LibraryState {
	return LibraryState{
		LikedSongs:      append([]Track{}, s.LikedSongs...),
		SavedAlbums:     append([]SavedAlbum{}, s.SavedAlbums...),
		FollowedArtists: append([]FollowedArtist{}, s.FollowedArtists...),
	}
}

// Collection is a named list of tracks: liked songs, a saved album or a playlist.
type Collection struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Kind   string  `json:"kind"` // "liked", "album", "playlist"
	Owner  string  `json:"owner,omitempty"`
	Image  string  `json:"image,omitempty"`
	Tracks []Track `json:"tracks"`
}

// Collection kinds.
const (
	KindLiked    = "liked"
	KindAlbum    = "album"
	KindPlaylist = "playlist"
)

// CollectionMetadata is a [Collection] without its tracks.
type CollectionMetadata struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Owner      string `json:"owner,omitempty"`
	Image      string `json:"image,omitempty"`
	TrackCount int    `json:"track_count"`
}

// Metadata returns the collection's metadata.
func (c Collection) Metadata() CollectionMetadata {
	return CollectionMetadata{ID: c.ID, Name: c.Name, Kind: c.Kind, Owner: c.Owner, Image: c.Image, TrackCount: len(c.Tracks)}
}

// TotalDuration sums the track durations in seconds.
func (c Collection) TotalDuration() int {
	total := 0
	for _, t := range c.Tracks {
		total += t.Duration
	}
	return total
}
